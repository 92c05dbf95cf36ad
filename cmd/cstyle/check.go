package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"cstyle/internal/diag"
	"cstyle/internal/diagfmt"
	"cstyle/internal/driver"
	"cstyle/internal/producer"
	"cstyle/internal/project"
	"cstyle/internal/version"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [paths...]",
	Short: "Check C# sources against the style policies",
	Long: `Run the tree producer over every input file and report policy violations.
Directories are walked for *.cs files; without arguments the current directory is checked.
Exit status is 0 when clean, 1 on error diagnostics and 2 when a file could not be analyzed.`,
	RunE: runCheckCmd,
}

func init() {
	addRunFlags(checkCmd)
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json|sarif|short)")
	checkCmd.Flags().Var(new(uiMode), "ui", "progress view (auto|on|off)")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	checkCmd.Flags().Bool("preview", false, "show fix previews")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes")
}

// addRunFlags registers the flags shared by check and fix.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Int("jobs", 0, "max parallel producer runs (0=auto)")
	cmd.Flags().String("config", "", "path to cstyle.toml (default: discovered from the first path)")
	cmd.Flags().Bool("no-cache", false, "do not use the on-disk tree cache")
}

// checkRun is a loaded configuration plus the producer built from it.
type checkRun struct {
	cfg    *project.Config
	source producer.Source
	opts   driver.Options
}

// prepareRun loads the configuration and opens the producer. A producer
// that cannot be found is exit status 2 before any file is touched.
func prepareRun(cmd *cobra.Command, paths []string) (*checkRun, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return nil, err
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return nil, err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return nil, err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return nil, err
	}

	var cfg *project.Config
	if configPath != "" {
		cfg, err = project.Load(configPath)
	} else {
		cfg, err = project.Discover(configStartDir(paths))
	}
	if err != nil {
		return nil, withExitCode(driver.ExitFailed, err)
	}
	overrides, err := cfg.SeverityOverrides()
	if err != nil {
		return nil, withExitCode(driver.ExitFailed, err)
	}

	src, err := driver.OpenSource(cfg.Producer, !noCache)
	if err != nil {
		if errors.Is(err, producer.ErrUnavailable) {
			return nil, withExitCode(driver.ExitFailed, fmt.Errorf("%w (set [producer].command in cstyle.toml)", err))
		}
		return nil, withExitCode(driver.ExitFailed, err)
	}

	if jobs <= 0 {
		jobs = cfg.Lint.Jobs
	}
	baseDir := cfg.Dir()
	if baseDir == "" {
		baseDir, _ = os.Getwd()
	}
	return &checkRun{
		cfg:    cfg,
		source: src,
		opts: driver.Options{
			Source:         src,
			Jobs:           jobs,
			MaxDiagnostics: maxDiagnostics,
			Lint:           driver.LintOptions(cfg.Lint),
			Severity:       overrides,
			BaseDir:        baseDir,
			EnableTimings:  showTimings,
		},
	}, nil
}

// configStartDir is where cstyle.toml discovery begins: the first path, or
// its directory when it is a file.
func configStartDir(paths []string) string {
	if len(paths) == 0 {
		return "."
	}
	first := paths[0]
	if info, err := os.Stat(first); err == nil && !info.IsDir() {
		return filepath.Dir(first)
	}
	return first
}

func inputPaths(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}
	return args
}

func runCheckCmd(cmd *cobra.Command, args []string) error {
	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	format, err := diagfmt.ParseFormat(formatStr)
	if err != nil {
		return withExitCode(driver.ExitFailed, err)
	}
	mode := uiModeFlag(cmd)
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return err
	}
	preview, err := cmd.Flags().GetBool("preview")
	if err != nil {
		return err
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	colorOut, err := useColor(cmd, os.Stdout)
	if err != nil {
		return withExitCode(driver.ExitFailed, err)
	}

	cleanup, err := setupRun(cmd)
	if err != nil {
		return withExitCode(driver.ExitFailed, err)
	}
	defer cleanup()

	paths := inputPaths(args)
	prep, err := prepareRun(cmd, paths)
	if err != nil {
		return err
	}

	var (
		res      *driver.Result
		checkErr error
	)
	if mode.wantsTUI(format, quiet, isTerminal(os.Stderr)) {
		res, checkErr = runCheckWithUI(cmd.Context(), "cstyle check", paths, prep.opts)
	} else {
		res, checkErr = driver.Check(cmd.Context(), paths, prep.opts)
	}
	if res == nil {
		return withExitCode(driver.ExitFailed, checkErr)
	}

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	out := cmd.OutOrStdout()
	switch format {
	case diagfmt.FormatPretty:
		renderPretty(out, res, diagfmt.PrettyOpts{
			Color:       colorOut,
			Context:     0,
			PathMode:    pathMode,
			ShowNotes:   withNotes,
			ShowFixes:   preview,
			ShowPreview: preview,
		})
		reportFailures(cmd.ErrOrStderr(), res)
	case diagfmt.FormatShort:
		if err := diagfmt.Short(out, res.Diagnostics(), res.FileSet); err != nil {
			return withExitCode(driver.ExitFailed, err)
		}
		reportFailures(cmd.ErrOrStderr(), res)
	case diagfmt.FormatJSON:
		doc, err := buildRunOutput(res, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			IncludeNotes:     withNotes,
			IncludeFixes:     true,
			IncludePreviews:  preview,
		})
		if err != nil {
			return withExitCode(driver.ExitFailed, err)
		}
		if err := diagfmt.RunJSON(out, doc); err != nil {
			return withExitCode(driver.ExitFailed, err)
		}
	case diagfmt.FormatSarif:
		meta := diagfmt.SarifRunMeta{
			ToolName:       "cstyle",
			ToolVersion:    version.Current().Version,
			InvocationArgs: os.Args[1:],
		}
		if err := diagfmt.Sarif(out, res.Diagnostics(), res.FileSet, ruleMetas(res), meta); err != nil {
			return withExitCode(driver.ExitFailed, err)
		}
		reportFailures(cmd.ErrOrStderr(), res)
	}

	if !quiet {
		printTimings(cmd.ErrOrStderr(), res.Timing, prep.source)
	}
	if checkErr != nil {
		return withExitCode(driver.ExitFailed, checkErr)
	}
	return withExitCode(res.ExitCode(), nil)
}

func renderPretty(w io.Writer, res *driver.Result, opts diagfmt.PrettyOpts) {
	for _, f := range res.Files {
		if f.Bag == nil {
			continue
		}
		diagfmt.Pretty(w, f.Bag, res.FileSet, opts)
		if n := f.Bag.Dropped(); n > 0 {
			fmt.Fprintf(w, "%s: %d more diagnostics not shown (raise --max-diagnostics)\n", f.Path, n)
		}
	}
}

// reportFailures lists the files that could not be analyzed.
func reportFailures(w io.Writer, res *driver.Result) {
	for _, f := range res.Failed() {
		fmt.Fprintf(w, "%s: %v\n", f.Path, f.Err)
	}
}

func buildRunOutput(res *driver.Result, opts diagfmt.JSONOpts) (diagfmt.RunOutput, error) {
	var doc diagfmt.RunOutput
	for _, f := range res.Files {
		fo := diagfmt.FileOutput{Path: f.Path}
		if f.Err != nil {
			fo.Error = f.Err.Error()
		}
		bag := f.Bag
		if bag == nil {
			bag = diag.NewBag(0)
		}
		out, err := diagfmt.BuildDiagnosticsOutput(bag, res.FileSet, opts)
		if err != nil {
			return doc, err
		}
		fo.DiagnosticsOutput = out
		doc.Add(fo)
	}
	return doc, nil
}

func ruleMetas(res *driver.Result) []diagfmt.RuleMeta {
	entries := res.Catalog.Entries()
	out := make([]diagfmt.RuleMeta, 0, len(entries))
	for _, e := range entries {
		out = append(out, diagfmt.RuleMeta{ID: e.Code.ID(), Name: e.Name, Severity: e.Severity})
	}
	return out
}
