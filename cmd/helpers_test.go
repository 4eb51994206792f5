package main

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"drive-inventory/internal/config"
	"drive-inventory/pkg/models"
)

func testConfig() *models.Config {
	cfg := config.GetDefaultConfig()
	cfg.Scans = map[string]models.ScanConfig{
		"team": {
			Enabled:  true,
			FolderID: "https://drive.google.com/drive/folders/1Team?usp=sharing",
			Output:   "team.csv",
			Types:    []string{"document"},
		},
		"photos": {
			Enabled:  true,
			FolderID: "1Photos",
			Label:    "Pictures",
		},
		"archive": {
			Enabled:  false,
			FolderID: "1Archive",
		},
	}

	return cfg
}

func TestGetEnabledScans(t *testing.T) {
	got := getEnabledScans(testConfig())

	want := []string{"photos", "team"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestResolveJobs_EnabledScans(t *testing.T) {
	jobs, err := resolveJobs(testConfig(), scanFlags{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(jobs) != 2 {
		t.Fatalf("Expected 2 jobs, got %d", len(jobs))
	}

	photos, team := jobs[0], jobs[1]

	if photos.RootID != "1Photos" || photos.RootLabel != "Pictures" {
		t.Errorf("Unexpected photos job: %+v", photos)
	}

	if photos.Output != "photos.xlsx" || photos.Format != "xlsx" {
		t.Errorf("Expected default xlsx output, got %s (%s)", photos.Output, photos.Format)
	}

	if team.RootID != "1Team" {
		t.Errorf("Expected folder id extracted from URL, got %s", team.RootID)
	}

	if team.Format != "csv" {
		t.Errorf("Expected format inferred from team.csv, got %s", team.Format)
	}

	doc := models.Entry{Kind: models.KindFile, MimeType: "application/pdf"}
	img := models.Entry{Kind: models.KindFile, MimeType: "image/png"}

	if !team.Predicate(doc) || team.Predicate(img) {
		t.Error("Expected team scan to match documents only")
	}

	if !photos.Predicate(img) || photos.Predicate(doc) {
		t.Error("Expected photos scan to fall back to the image default")
	}
}

func TestResolveJobs_FolderFlag(t *testing.T) {
	includeSize := true

	jobs, err := resolveJobs(testConfig(), scanFlags{
		folder:      "https://drive.google.com/drive/u/0/folders/1Adhoc",
		output:      filepath.Join("out", "inventory.db"),
		separator:   " / ",
		types:       []string{"any"},
		includeSize: &includeSize,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(jobs) != 1 {
		t.Fatalf("Expected 1 job, got %d", len(jobs))
	}

	job := jobs[0]

	if job.RootID != "1Adhoc" {
		t.Errorf("Expected root 1Adhoc, got %s", job.RootID)
	}

	if job.Format != "sqlite" {
		t.Errorf("Expected sqlite inferred from .db, got %s", job.Format)
	}

	if job.Output != filepath.Join("out", "inventory.db") {
		t.Errorf("Expected flag output kept as given, got %s", job.Output)
	}

	if job.Separator != " / " {
		t.Errorf("Expected separator override, got %q", job.Separator)
	}

	if !job.IncludeSize {
		t.Error("Expected include-size override")
	}

	if job.SheetName != "FileList" {
		t.Errorf("Expected default sheet FileList, got %s", job.SheetName)
	}
}

func TestResolveJobs_FolderDefaultsToFileList(t *testing.T) {
	jobs, err := resolveJobs(testConfig(), scanFlags{folder: "1Adhoc", format: "csv"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if jobs[0].Output != "FileList.csv" {
		t.Errorf("Expected FileList.csv, got %s", jobs[0].Output)
	}

	if jobs[0].Separator != "/" {
		t.Errorf("Expected default separator, got %q", jobs[0].Separator)
	}
}

func TestResolveJobs_Errors(t *testing.T) {
	tests := []struct {
		name  string
		cfg   func() *models.Config
		flags scanFlags
		want  string
	}{
		{
			name:  "folder with scan",
			cfg:   testConfig,
			flags: scanFlags{folder: "1a", scanName: "team"},
			want:  "cannot be combined",
		},
		{
			name:  "unknown scan",
			cfg:   testConfig,
			flags: scanFlags{scanName: "nope"},
			want:  "not defined",
		},
		{
			name:  "output with several scans",
			cfg:   testConfig,
			flags: scanFlags{output: "x.csv"},
			want:  "single scan",
		},
		{
			name: "no enabled scans",
			cfg: func() *models.Config {
				cfg := config.GetDefaultConfig()
				cfg.Scans = nil

				return cfg
			},
			want: "no enabled scans",
		},
		{
			name:  "bad since",
			cfg:   testConfig,
			flags: scanFlags{folder: "1a", since: "not a date"},
			want:  "invalid since",
		},
		{
			name:  "unknown type",
			cfg:   testConfig,
			flags: scanFlags{folder: "1a", types: []string{"video"}},
			want:  "video",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolveJobs(tt.cfg(), tt.flags)
			if err == nil {
				t.Fatalf("Expected error containing %q", tt.want)
			}

			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestResolveJobs_SingleConfiguredScan(t *testing.T) {
	jobs, err := resolveJobs(testConfig(), scanFlags{scanName: "archive", output: "a.csv", label: "Old"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(jobs) != 1 || jobs[0].RootID != "1Archive" || jobs[0].RootLabel != "Old" || jobs[0].Format != "csv" {
		t.Errorf("Unexpected job: %+v", jobs[0])
	}
}

func TestRetryPolicy(t *testing.T) {
	cfg := &models.Config{Retry: models.RetryConfig{MaxAttempts: 3, MaxDelay: 10 * time.Second}}

	p := retryPolicy(cfg)

	if p.MaxAttempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", p.MaxAttempts)
	}

	if p.BaseDelay != time.Second {
		t.Errorf("Expected default base delay, got %s", p.BaseDelay)
	}

	if p.MaxDelay != 10*time.Second {
		t.Errorf("Expected 10s max delay, got %s", p.MaxDelay)
	}
}

func TestReportExtension(t *testing.T) {
	for format, want := range map[string]string{"csv": ".csv", "sqlite": ".db", "xlsx": ".xlsx", "": ".xlsx"} {
		if got := reportExtension(format); got != want {
			t.Errorf("reportExtension(%q) = %q, want %q", format, got, want)
		}
	}
}
