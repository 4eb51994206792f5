package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"drive-inventory/internal/config"
	"drive-inventory/internal/filter"
	"drive-inventory/internal/scan"
	"drive-inventory/internal/sinks"
	"drive-inventory/internal/sources/google/auth"
	"drive-inventory/internal/sources/google/drive"
	"drive-inventory/internal/walker"
	"drive-inventory/pkg/models"
)

// defaultReportName is the base name of reports for ad-hoc --folder scans.
const defaultReportName = "FileList"

// scanFlags carries the scan command's flags. Empty values defer to config.
type scanFlags struct {
	folder       string
	scanName     string
	output       string
	format       string
	types        []string
	mimeTypes    []string
	since        string
	label        string
	separator    string
	sheet        string
	includeSize  *bool
	sharedDrives *bool
}

// getEnabledScans returns enabled scan names from config, sorted.
func getEnabledScans(cfg *models.Config) []string {
	var names []string

	for name, sc := range cfg.Scans {
		if sc.Enabled {
			names = append(names, name)
		}
	}

	sort.Strings(names)

	return names
}

// resolveJobs turns flags and config into the jobs to run:
// --folder gives one ad-hoc job, --scan one configured job, and neither
// every enabled configured scan.
func resolveJobs(cfg *models.Config, flags scanFlags) ([]scan.Job, error) {
	if flags.folder != "" {
		if flags.scanName != "" {
			return nil, fmt.Errorf("--folder and --scan cannot be combined")
		}

		job, err := buildJob(defaultReportName, models.ScanConfig{Enabled: true, FolderID: flags.folder}, cfg.Defaults, flags)
		if err != nil {
			return nil, err
		}

		return []scan.Job{job}, nil
	}

	var names []string

	if flags.scanName != "" {
		if _, ok := cfg.Scans[flags.scanName]; !ok {
			return nil, fmt.Errorf("scan '%s' is not defined in config", flags.scanName)
		}

		names = []string{flags.scanName}
	} else {
		names = getEnabledScans(cfg)
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("no enabled scans found. Configure scans in your config file or use --folder")
	}

	if len(names) > 1 && (flags.output != "" || flags.label != "") {
		return nil, fmt.Errorf("--output and --label need a single scan; use --scan or --folder")
	}

	jobs := make([]scan.Job, 0, len(names))

	for _, name := range names {
		job, err := buildJob(name, cfg.Scans[name], cfg.Defaults, flags)
		if err != nil {
			return nil, fmt.Errorf("scan '%s': %w", name, err)
		}

		jobs = append(jobs, job)
	}

	return jobs, nil
}

// buildJob resolves one job. Precedence is flag, then scan config, then
// defaults.
func buildJob(name string, sc models.ScanConfig, d models.ReportDefaults, flags scanFlags) (scan.Job, error) {
	rootID, err := drive.ExtractFileID(sc.FolderID)
	if err != nil {
		return scan.Job{}, fmt.Errorf("invalid folder: %w", err)
	}

	output := firstNonEmpty(flags.output, sc.Output)

	format := firstNonEmpty(flags.format, sc.Format)
	if format == "" && output != "" {
		if inferred, err := sinks.FormatFromPath(output); err == nil {
			format = inferred
		}
	}

	format = firstNonEmpty(format, d.Format, sinks.FormatXLSX)

	if output == "" {
		output = filepath.Join(d.OutputDir, name+reportExtension(format))
	} else if d.OutputDir != "" && !filepath.IsAbs(output) && flags.output == "" {
		output = filepath.Join(d.OutputDir, output)
	}

	predicate, err := buildPredicate(
		firstNonEmptySlice(flags.types, sc.Types, d.Types),
		firstNonEmptySlice(flags.mimeTypes, sc.MimeTypes, d.MimeTypes),
		firstNonEmpty(flags.since, sc.Since),
	)
	if err != nil {
		return scan.Job{}, err
	}

	includeSize := d.IncludeSize
	if flags.includeSize != nil {
		includeSize = *flags.includeSize
	}

	return scan.Job{
		Name:        name,
		RootID:      rootID,
		RootLabel:   firstNonEmpty(flags.label, sc.Label),
		Output:      output,
		Format:      format,
		Predicate:   predicate,
		Separator:   firstNonEmpty(flags.separator, d.Separator, walker.DefaultSeparator),
		IncludeSize: includeSize,
		SheetName:   firstNonEmpty(flags.sheet, d.SheetName, sinks.DefaultSheetName),
	}, nil
}

func buildPredicate(types, mimeTypes []string, since string) (filter.Predicate, error) {
	var sinceTime time.Time

	if since != "" {
		t, err := filter.ParseSince(since)
		if err != nil {
			return nil, fmt.Errorf("invalid since: %w", err)
		}

		sinceTime = t
	}

	return filter.FromConfig(types, mimeTypes, sinceTime)
}

func reportExtension(format string) string {
	switch format {
	case sinks.FormatCSV:
		return ".csv"
	case sinks.FormatSQLite:
		return ".db"
	default:
		return ".xlsx"
	}
}

// retryPolicy converts the retry section of the config.
func retryPolicy(cfg *models.Config) walker.RetryPolicy {
	p := walker.DefaultRetryPolicy()

	if cfg.Retry.MaxAttempts > 0 {
		p.MaxAttempts = cfg.Retry.MaxAttempts
	}

	if cfg.Retry.BaseDelay > 0 {
		p.BaseDelay = cfg.Retry.BaseDelay
	}

	if cfg.Retry.MaxDelay > 0 {
		p.MaxDelay = cfg.Retry.MaxDelay
	}

	return p
}

// newAuthProvider builds the credential provider from config and flags.
func newAuthProvider(cfg *models.Config) (*auth.Provider, error) {
	tokenPath, err := config.GetTokenPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve token path: %w", err)
	}

	return auth.NewProvider(config.GetCredentialsPath(cfg), tokenPath, auth.WithTimeout(cfg.Auth.AuthTimeout)), nil
}

// newLister authenticates and creates the Drive lister.
func newLister(ctx context.Context, cfg *models.Config, sharedDrives *bool) (*drive.Service, error) {
	provider, err := newAuthProvider(cfg)
	if err != nil {
		return nil, err
	}

	client, err := provider.GetClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	opts := drive.ListOptions{
		PageSize:     cfg.Defaults.PageSize,
		SharedDrives: cfg.Defaults.SharedDrives,
		OrderBy:      "folder,name",
	}

	if sharedDrives != nil {
		opts.SharedDrives = *sharedDrives
	}

	return drive.NewService(ctx, client, opts)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}

func firstNonEmptySlice(values ...[]string) []string {
	for _, v := range values {
		if len(v) > 0 {
			return v
		}
	}

	return nil
}
