package scan

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
)

// PrintSummary writes a human-readable outcome for each result.
func PrintSummary(w io.Writer, results []Result) {
	for _, res := range results {
		name := res.Job.Name
		if name == "" {
			name = res.Job.RootID
		}

		switch {
		case res.Err != nil:
			failColor.Fprint(w, "failed")
			fmt.Fprintf(w, " %s: %v\n", name, res.Err)

			if res.Summary != nil && res.Summary.Records > 0 {
				fmt.Fprintf(w, "  %d records discarded\n", res.Summary.Records)
			}

			continue
		case res.Incomplete():
			warnColor.Fprint(w, "done (incomplete)")
		default:
			okColor.Fprint(w, "done")
		}

		s := res.Summary
		fmt.Fprintf(w, " %s: %d records written to %s (%d folders, %d pages)\n",
			name, s.Records, res.Job.Output, s.Folders, s.Pages)

		if len(s.Skipped) > 0 {
			fmt.Fprintf(w, "  %d subtrees skipped:\n", len(s.Skipped))

			for _, sk := range s.Skipped {
				fmt.Fprintf(w, "    %s (%s): %v\n", sk.Path, sk.FolderID, sk.Err)
			}
		}
	}
}
