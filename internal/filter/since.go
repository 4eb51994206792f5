package filter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tj/go-naturaldate"
)

// ParseSince parses a modified-after cutoff. It supports:
// - Named dates: "today", "yesterday" (midnight, local time)
// - ISO 8601: "2006-01-02", "2006-01-02T15:04:05", with timezone variants
// - Relative days: "7d", "30d"
// - Go durations: "24h", "2h30m"
// - Natural language via go-naturaldate: "last week", "3 days ago"
//
// ISO formats are tried before natural language so parsing stays deterministic.
func ParseSince(s string) (time.Time, error) {
	return parseSinceAt(s, time.Now())
}

func parseSinceAt(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}

	midnight := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}

	switch strings.ToLower(s) {
	case "today":
		return midnight(now), nil
	case "yesterday":
		return midnight(now.AddDate(0, 0, -1)), nil
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	// time.ParseDuration has no day unit.
	if days, ok := strings.CutSuffix(s, "d"); ok {
		if n, err := strconv.Atoi(days); err == nil && n >= 0 {
			return now.AddDate(0, 0, -n), nil
		}
	}

	if d, err := time.ParseDuration(s); err == nil {
		return now.Add(-d), nil
	}

	t, err := naturaldate.Parse(s, now)
	if err != nil || t.Equal(now) {
		return time.Time{}, fmt.Errorf("unable to parse date %q: supported formats are ISO 8601 (2006-01-02), "+
			"relative durations (7d, 24h), today, yesterday, or natural language (last week, 3 days ago)", s)
	}

	return t, nil
}
