package main

import (
	"fmt"
	"os"
	"os/signal"

	"drive-inventory/internal/config"
	"drive-inventory/internal/scan"

	"github.com/spf13/cobra"
)

var scanOpts scanFlags

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Walk Drive folders and write file reports",
	Long: `Walk a Google Drive folder tree depth-first and write every matching file
to a report. Each row holds the file name, id, link, MIME type and the path of
the folder containing it, starting from the root folder's name.

Without --folder, every enabled scan from the config file is run; independent
scans run concurrently. Folders that cannot be listed are skipped and reported;
the report is still written and the summary is marked incomplete.

Examples:
  drive-inventory scan --folder https://drive.google.com/drive/folders/1AbC
  drive-inventory scan --folder 1AbC --output images.csv --since 30d
  drive-inventory scan --folder 1AbC --types image,document --format sqlite -o inventory.db
  drive-inventory scan --scan team --separator " / "
  drive-inventory scan`,
	RunE: runScanCommand,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	f := scanCmd.Flags()
	f.StringVar(&scanOpts.folder, "folder", "", "Root folder ID or URL")
	f.StringVar(&scanOpts.scanName, "scan", "", "Run a single configured scan by name")
	f.StringVarP(&scanOpts.output, "output", "o", "", "Report path (format inferred from .xlsx, .csv, .db)")
	f.StringVar(&scanOpts.format, "format", "", "Report format (xlsx, csv, sqlite)")
	f.StringSliceVar(&scanOpts.types, "types", nil, "File type presets (image, document, any)")
	f.StringSliceVar(&scanOpts.mimeTypes, "mime-type", nil, "Additional MIME types to include")
	f.StringVar(&scanOpts.since, "since", "", "Only files modified since (7d, 2006-01-02, today, 'last week')")
	f.StringVar(&scanOpts.label, "label", "", "Name used for the root folder in paths")
	f.StringVar(&scanOpts.separator, "separator", "", "Path separator (default \"/\")")
	f.StringVar(&scanOpts.sheet, "sheet", "", "Worksheet name for XLSX reports")
	f.Bool("include-size", false, "Add a Size (KB) column")
	f.Bool("shared-drives", false, "Include items from shared drives")
}

func runScanCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	flags := scanOpts
	flags.includeSize = boolFlag(cmd, "include-size")
	flags.sharedDrives = boolFlag(cmd, "shared-drives")

	jobs, err := resolveJobs(cfg, flags)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	lister, err := newLister(ctx, cfg, flags.sharedDrives)
	if err != nil {
		return err
	}

	runner := scan.NewRunner(lister, scan.WithRetryPolicy(retryPolicy(cfg)))

	results, err := runner.RunAll(ctx, jobs)

	scan.PrintSummary(cmd.OutOrStdout(), results)

	return err
}

// boolFlag returns the flag's value only when it was set explicitly.
func boolFlag(cmd *cobra.Command, name string) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}

	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return nil
	}

	return &v
}
