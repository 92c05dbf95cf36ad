package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"cstyle/internal/diag"
	"cstyle/internal/driver"
	"cstyle/internal/lint"
	"cstyle/internal/project"
)

var rulesCmd = &cobra.Command{
	Use:   "rules [CODE...]",
	Short: "List diagnostic codes with their severity and name",
	Args:  cobra.ArbitraryArgs,
	RunE:  runRules,
}

func init() {
	rulesCmd.Flags().String("format", "table", "output format (table|json)")
	rulesCmd.Flags().String("config", "", "apply severity overrides from this cstyle.toml")
}

type ruleRow struct {
	Code     string `json:"code"`
	Policy   string `json:"policy,omitempty"`
	Severity string `json:"severity"`
	Name     string `json:"name"`
}

func runRules(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}

	var overrides map[string]diag.Severity
	if configPath != "" {
		cfg, err := project.Load(configPath)
		if err != nil {
			return withExitCode(driver.ExitFailed, err)
		}
		if overrides, err = cfg.SeverityOverrides(); err != nil {
			return withExitCode(driver.ExitFailed, err)
		}
	}
	cat, err := driver.NewCatalog(overrides)
	if err != nil {
		return withExitCode(driver.ExitFailed, err)
	}
	rows := catalogRows(cat)
	if len(args) > 0 {
		if rows, err = selectRows(cat, args); err != nil {
			return withExitCode(driver.ExitFailed, err)
		}
	}

	switch strings.ToLower(format) {
	case "table", "":
		writeRulesTable(cmd.OutOrStdout(), rows)
		return nil
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	default:
		return withExitCode(driver.ExitFailed, fmt.Errorf("unsupported format %q (must be table or json)", format))
	}
}

func catalogRows(cat *lint.Catalog) []ruleRow {
	entries := cat.Entries()
	rows := make([]ruleRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, entryRow(e))
	}
	return rows
}

// selectRows looks codes up in the catalog, keeping the argument order.
func selectRows(cat *lint.Catalog, codes []string) ([]ruleRow, error) {
	rows := make([]ruleRow, 0, len(codes))
	for _, code := range codes {
		e, ok := cat.Lookup(diag.Code(strings.ToUpper(code)))
		if !ok {
			return nil, fmt.Errorf("unknown diagnostic code %q", code)
		}
		rows = append(rows, entryRow(e))
	}
	return rows, nil
}

func entryRow(e lint.Entry) ruleRow {
	return ruleRow{Code: e.Code.ID(), Policy: e.Policy, Severity: e.Severity.Label(), Name: e.Name}
}

func writeRulesTable(w io.Writer, rows []ruleRow) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("CODE", "SEVERITY", "NAME")
	for _, r := range rows {
		t.Row(r.Code, r.Severity, r.Name)
	}
	fmt.Fprintln(w, t.String())
}
