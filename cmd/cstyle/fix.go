package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"cstyle/internal/driver"
	"cstyle/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] [paths...]",
	Short: "Apply the fixes offered by the policies",
	Long: `Check the inputs and rewrite them with the replacements attached to the diagnostics.
By default only the first fix is applied; --all applies every always-safe fix.`,
	RunE: runFix,
}

func init() {
	addRunFlags(fixCmd)
	fixCmd.Flags().Bool("all", false, "apply all safe fixes")
	fixCmd.Flags().Bool("once", false, "apply the first available fix (default)")
	fixCmd.Flags().String("id", "", "apply fix with a specific identifier")
	fixCmd.Flags().Bool("heuristics", false, "with --all, also apply fixes that rely on heuristics")
}

func readApplyOptions(cmd *cobra.Command) (fix.ApplyOptions, error) {
	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return fix.ApplyOptions{}, err
	}
	applyOnce, err := cmd.Flags().GetBool("once")
	if err != nil {
		return fix.ApplyOptions{}, err
	}
	targetID, err := cmd.Flags().GetString("id")
	if err != nil {
		return fix.ApplyOptions{}, err
	}
	heuristics, err := cmd.Flags().GetBool("heuristics")
	if err != nil {
		return fix.ApplyOptions{}, err
	}
	return applyOptions(applyAll, applyOnce, targetID, heuristics)
}

func applyOptions(applyAll, applyOnce bool, targetID string, heuristics bool) (fix.ApplyOptions, error) {
	if targetID != "" && (applyAll || applyOnce) {
		return fix.ApplyOptions{}, fmt.Errorf("--id cannot be combined with --all or --once")
	}
	if applyAll && applyOnce {
		return fix.ApplyOptions{}, fmt.Errorf("--all and --once are mutually exclusive")
	}
	if heuristics && !applyAll {
		return fix.ApplyOptions{}, fmt.Errorf("--heuristics requires --all")
	}
	opts := fix.ApplyOptions{Mode: fix.ApplyModeOnce, AllowHeuristics: heuristics}
	switch {
	case targetID != "":
		opts.Mode = fix.ApplyModeID
		opts.TargetID = targetID
	case applyAll:
		opts.Mode = fix.ApplyModeAll
	}
	return opts, nil
}

func runFix(cmd *cobra.Command, args []string) error {
	opts, err := readApplyOptions(cmd)
	if err != nil {
		return withExitCode(driver.ExitFailed, err)
	}

	cleanup, err := setupRun(cmd)
	if err != nil {
		return withExitCode(driver.ExitFailed, err)
	}
	defer cleanup()

	prep, err := prepareRun(cmd, inputPaths(args))
	if err != nil {
		return err
	}
	res, err := driver.Check(cmd.Context(), inputPaths(args), prep.opts)
	if err != nil {
		return withExitCode(driver.ExitFailed, err)
	}
	reportFailures(cmd.ErrOrStderr(), res)

	applied, applyErr := fix.Apply(res.FileSet, res.Diagnostics(), opts)
	if err := printApplyResult(cmd.OutOrStdout(), applied, applyErr); err != nil {
		return withExitCode(driver.ExitFailed, err)
	}
	if len(res.Failed()) > 0 {
		return withExitCode(driver.ExitFailed, nil)
	}
	return nil
}

func printApplyResult(w io.Writer, res *fix.ApplyResult, applyErr error) error {
	if res == nil {
		if errors.Is(applyErr, fix.ErrNoFixes) {
			fmt.Fprintln(w, "No applicable fixes found.")
			return nil
		}
		return applyErr
	}

	if len(res.Applied) > 0 {
		fmt.Fprintf(w, "Applied %d fix(es):\n", len(res.Applied))
		for _, item := range res.Applied {
			location := item.PrimaryPath
			if location == "" {
				location = "(unknown location)"
			}
			fmt.Fprintf(w, "  %s %s [%s] %s (%d edits, %s)\n",
				item.Code.ID(), item.Title, item.ID, location, item.EditCount, item.Applicability)
		}
	}
	if len(res.FileChanges) > 0 {
		fmt.Fprintln(w, "Updated files:")
		for _, change := range res.FileChanges {
			fmt.Fprintf(w, "  %s (%d edits)\n", change.Path, change.EditCount)
		}
	}
	if len(res.Skipped) > 0 {
		fmt.Fprintln(w, "Skipped fixes:")
		for _, skip := range res.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			if skip.Title != "" {
				fmt.Fprintf(w, "  %s [%s]: %s\n", skip.Title, id, skip.Reason)
			} else {
				fmt.Fprintf(w, "  [%s]: %s\n", id, skip.Reason)
			}
		}
	}

	if applyErr != nil {
		if errors.Is(applyErr, fix.ErrNoFixes) && len(res.Applied) == 0 {
			fmt.Fprintln(w, "No applicable fixes found.")
			return nil
		}
		return applyErr
	}
	if len(res.Applied) == 0 {
		fmt.Fprintln(w, "No fixes applied.")
	}
	return nil
}
