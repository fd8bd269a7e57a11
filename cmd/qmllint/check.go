package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"qmllint/internal/config"
	"qmllint/internal/diagfmt"
	"qmllint/internal/driver"
	"qmllint/internal/fix"
	"qmllint/internal/importer"
	"qmllint/internal/lint"
	"qmllint/internal/observ"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file|dir>...",
	Short: "Lint serialized QML documents",
	Long:  `Lint serialized QML documents (*.qml.json, *.qml.mp) or every document below the given directories`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringArrayP("import", "I", nil, "add a module import path (repeatable)")
	checkCmd.Flags().StringArrayP("qmltypes", "i", nil, "import a type-description file (repeatable)")
	checkCmd.Flags().Bool("silent", false, "print no diagnostics, only the exit status")
	checkCmd.Flags().Bool("no-unqualified-id", false, "do not warn about unqualified accesses")
	checkCmd.Flags().Bool("no-with-statement", false, "do not warn about with statements")
	checkCmd.Flags().Bool("no-inheritance-cycle", false, "do not warn about inheritance cycles")
	checkCmd.Flags().Bool("no-members", false, "check only the first name of member chains")
	checkCmd.Flags().Int("max-depth", lint.DefaultMaxDepth, "maximum statement or expression depth (0=unlimited)")
	checkCmd.Flags().String("format", "", "output format (pretty|short|json), defaults to the project file or pretty")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	checkCmd.Flags().Bool("with-notes", false, "include notes in short output")
	checkCmd.Flags().Bool("preview", false, "preview suggested fixes")
	checkCmd.Flags().Bool("fix", false, "apply suggested fixes to the .qml sources")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	checkCmd.Flags().Bool("watch", false, "re-run the check when files change")
	checkCmd.Flags().Bool("ui", false, "show a progress view while checking")
	checkCmd.Flags().String("cache-dir", "", "type-description cache directory")
	checkCmd.Flags().Bool("no-cache", false, "do not cache decoded type descriptions")
	checkCmd.Flags().String("config", "", "project file (default: nearest "+config.FileName+")")
}

// checkSettings are the merged project-file and command-line settings.
type checkSettings struct {
	lint           lint.Options
	format         string
	maxDiagnostics int
	jobs           int
	noMembers      bool
	withNotes      bool
	preview        bool
	fix            bool
	timings        bool
	fullPath       bool
	watch          bool
	ui             bool
	color          bool
	projectFile    string
}

func runCheck(cmd *cobra.Command, args []string) error {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	ctx := cmd.Context()
	defer dumpTraceOnPanic(ctx)

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	s, err := loadSettings(cmd, args)
	if err != nil {
		return err
	}
	if s.watch {
		return watchAndCheck(ctx, cmd.OutOrStdout(), args, s)
	}
	ok, err := checkOnce(ctx, cmd.OutOrStdout(), args, s)
	if err != nil {
		return err
	}
	if !ok {
		return errCheckFailed
	}
	return nil
}

// loadSettings layers command-line flags over the project file.
func loadSettings(cmd *cobra.Command, args []string) (*checkSettings, error) {
	flags := cmd.Flags()
	s := &checkSettings{lint: lint.DefaultOptions()}

	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	var file *config.File
	if configPath != "" {
		file, err = config.Load(configPath)
	} else {
		file, err = config.Discover(args[0])
	}
	if err != nil {
		return nil, err
	}
	file.Apply(&s.lint)
	if file != nil {
		s.projectFile = file.Path
	}

	imports, err := flags.GetStringArray("import")
	if err != nil {
		return nil, fmt.Errorf("failed to get import flag: %w", err)
	}
	s.lint.ImportPaths = append(s.lint.ImportPaths, imports...)
	typeFiles, err := flags.GetStringArray("qmltypes")
	if err != nil {
		return nil, fmt.Errorf("failed to get qmltypes flag: %w", err)
	}
	s.lint.TypeFiles = append(s.lint.TypeFiles, typeFiles...)

	for _, off := range []struct {
		flag string
		dst  *bool
	}{
		{"no-unqualified-id", &s.lint.WarnUnqualified},
		{"no-with-statement", &s.lint.WarnWithStatement},
		{"no-inheritance-cycle", &s.lint.WarnInheritanceCycle},
	} {
		v, err := flags.GetBool(off.flag)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", off.flag, err)
		}
		if v {
			*off.dst = false
		}
	}
	if s.lint.Silent, err = flags.GetBool("silent"); err != nil {
		return nil, fmt.Errorf("failed to get silent flag: %w", err)
	}
	if flags.Changed("max-depth") {
		if s.lint.MaxDepth, err = flags.GetInt("max-depth"); err != nil {
			return nil, fmt.Errorf("failed to get max-depth flag: %w", err)
		}
	}

	if s.format, err = flags.GetString("format"); err != nil {
		return nil, fmt.Errorf("failed to get format flag: %w", err)
	}
	if s.format == "" && file != nil {
		s.format = file.Format
	}
	if s.format == "" {
		s.format = "pretty"
	}
	if !config.ValidFormat(s.format) {
		return nil, fmt.Errorf("unknown format: %s", s.format)
	}

	rootFlags := cmd.Root().PersistentFlags()
	if s.maxDiagnostics, err = rootFlags.GetInt("max-diagnostics"); err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if !rootFlags.Changed("max-diagnostics") && file != nil && file.MaxDiagnostics > 0 {
		s.maxDiagnostics = file.MaxDiagnostics
	}

	if s.jobs, err = flags.GetInt("jobs"); err != nil {
		return nil, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	for _, b := range []struct {
		flag string
		dst  *bool
	}{
		{"no-members", &s.noMembers},
		{"with-notes", &s.withNotes},
		{"preview", &s.preview},
		{"fix", &s.fix},
		{"fullpath", &s.fullPath},
		{"watch", &s.watch},
		{"ui", &s.ui},
	} {
		if *b.dst, err = flags.GetBool(b.flag); err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", b.flag, err)
		}
	}

	noCache, err := flags.GetBool("no-cache")
	if err != nil {
		return nil, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	cacheDir, err := flags.GetString("cache-dir")
	if err != nil {
		return nil, fmt.Errorf("failed to get cache-dir flag: %w", err)
	}
	if cacheDir == "" && file != nil {
		cacheDir = file.CacheDir
	}
	if !noCache {
		cache, err := importer.OpenCache(cacheDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open cache: %w", err)
		}
		s.lint.Cache = cache
	}

	if s.timings, err = rootFlags.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if s.color, err = useColor(cmd, os.Stdout); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *checkSettings) driverOptions() driver.Options {
	return driver.Options{
		Lint:           s.lint,
		MaxDiagnostics: s.maxDiagnostics,
		Jobs:           s.jobs,
		NoMembers:      s.noMembers,
	}
}

// checkOnce lints args and prints the report. It returns whether every
// document passed.
func checkOnce(ctx context.Context, w io.Writer, args []string, s *checkSettings) (bool, error) {
	opts := s.driverOptions()
	timer := observ.NewTimer()
	if s.timings {
		defer func() { fmt.Fprint(os.Stderr, timer.Summary()) }()
	}

	var (
		report *driver.Report
		err    error
	)
	idx := timer.Begin("lint")
	if s.ui {
		report, err = runCheckWithUI(ctx, args, opts)
	} else {
		report, err = driver.LintPaths(ctx, args, opts)
	}
	if err != nil {
		timer.End(idx, "failed")
		return false, fmt.Errorf("check failed: %w", err)
	}
	timer.End(idx, fmt.Sprintf("%d document(s)", len(report.Results)))
	if s.lint.Silent {
		return report.OK(), nil
	}

	idx = timer.Begin("render")
	err = render(w, report, s)
	timer.End(idx, s.format)
	if err != nil {
		return false, fmt.Errorf("failed to format diagnostics: %w", err)
	}
	if s.fix {
		idx = timer.Begin("fix")
		err = applyFixes(os.Stderr, report)
		timer.End(idx, "")
		if err != nil {
			return false, err
		}
	}
	return report.OK(), nil
}

func render(w io.Writer, report *driver.Report, s *checkSettings) error {
	bag := report.Bag()
	pathMode := diagfmt.PathModeAuto
	if s.fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	switch s.format {
	case "pretty":
		diagfmt.Pretty(w, bag, report.FileSet, diagfmt.PrettyOpts{
			Color:       s.color,
			Context:     2,
			PathMode:    pathMode,
			ShowNotes:   true,
			ShowFixes:   true,
			ShowPreview: s.preview,
		})
		_, err := fmt.Fprintln(w, summary(report))
		return err
	case "short":
		return diagfmt.Short(w, bag, report.FileSet, s.withNotes)
	case "json":
		files := make([]diagfmt.FileJSON, 0, len(report.Results))
		for _, res := range report.Results {
			files = append(files, diagfmt.FileJSON{Path: res.Path, OK: res.OK})
		}
		return diagfmt.JSON(w, bag, report.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     true,
			IncludeFixes:     true,
			IncludePreviews:  s.preview,
		}, files...)
	default:
		return fmt.Errorf("unknown format: %s", s.format)
	}
}

func applyFixes(w io.Writer, report *driver.Report) error {
	res, err := fix.Apply(report.FileSet, report.Bag().Items())
	if errors.Is(err, fix.ErrNoFixes) {
		fmt.Fprintln(w, "fix: no applicable fixes")
		return nil
	}
	for _, sk := range res.Skipped {
		fmt.Fprintf(w, "fix: skipped %q in %s: %s\n", sk.Title, sk.Path, sk.Reason)
	}
	for _, ch := range res.FileChanges {
		fmt.Fprintf(w, "fix: %s: %d edit(s)\n", ch.Path, ch.EditCount)
	}
	if err != nil {
		return fmt.Errorf("failed to apply fixes: %w", err)
	}
	return nil
}

func summary(report *driver.Report) string {
	failed := 0
	for _, res := range report.Results {
		if !res.OK {
			failed++
		}
	}
	noun := "documents"
	if len(report.Results) == 1 {
		noun = "document"
	}
	if failed == 0 {
		return fmt.Sprintf("checked %d %s: ok", len(report.Results), noun)
	}
	return fmt.Sprintf("checked %d %s: %d failed", len(report.Results), noun, failed)
}
