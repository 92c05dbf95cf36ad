package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"cstyle/internal/driver"
	"cstyle/internal/symbols"
	"cstyle/internal/syntax"
)

var treeCmd = &cobra.Command{
	Use:   "tree [flags] <file.cs>",
	Short: "Print the syntax tree the producer returns for a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTree,
}

func init() {
	addRunFlags(treeCmd)
	treeCmd.Flags().Bool("roundtrip", false, "check that the tree text reproduces the file")
	treeCmd.Flags().Bool("classes", false, "print the class index instead of the tree")
	treeCmd.Flags().Bool("tokens", false, "include tokens in the outline")
}

func runTree(cmd *cobra.Command, args []string) error {
	roundtrip, err := cmd.Flags().GetBool("roundtrip")
	if err != nil {
		return err
	}
	classes, err := cmd.Flags().GetBool("classes")
	if err != nil {
		return err
	}
	withTokens, err := cmd.Flags().GetBool("tokens")
	if err != nil {
		return err
	}

	cleanup, err := setupRun(cmd)
	if err != nil {
		return withExitCode(driver.ExitFailed, err)
	}
	defer cleanup()

	path := args[0]
	prep, err := prepareRun(cmd, args)
	if err != nil {
		return err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return withExitCode(driver.ExitFailed, err)
	}
	tree, err := prep.source.Produce(cmd.Context(), path, content)
	if err != nil {
		return withExitCode(driver.ExitFailed, err)
	}

	out := cmd.OutOrStdout()
	for _, key := range forestKeys(tree.Forest) {
		root := tree.Forest[key]
		switch {
		case roundtrip:
			if err := checkRoundtrip(out, key, root, content); err != nil {
				return withExitCode(driver.ExitErrors, err)
			}
		case classes:
			writeClasses(out, symbols.Load(key, root))
		default:
			fmt.Fprintf(out, "%s\n", key)
			writeOutline(out, root, withTokens)
		}
	}
	return nil
}

func forestKeys(f syntax.Forest) []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// checkRoundtrip compares the concatenated token text with the file. Only
// the tree of the file itself is expected to reproduce it.
func checkRoundtrip(w io.Writer, key string, root *syntax.Node, content []byte) error {
	got := syntax.SourceText(root)
	want := strings.TrimPrefix(string(content), "\uFEFF")
	if got == want || got == string(content) {
		fmt.Fprintf(w, "%s: roundtrip ok (%d bytes)\n", key, len(got))
		return nil
	}
	i := 0
	for i < len(got) && i < len(want) && got[i] == want[i] {
		i++
	}
	return fmt.Errorf("%s: tree text differs from the file at byte %d", key, i)
}

func writeOutline(w io.Writer, root *syntax.Node, withTokens bool) {
	syntax.Walk(root, func(el syntax.Element, parents syntax.Parents) bool {
		indent := strings.Repeat("  ", len(parents)+1)
		sp := el.Pos()
		switch el := el.(type) {
		case *syntax.Node:
			fmt.Fprintf(w, "%s%s %s-%s\n", indent, el.Kind, sp.Start, sp.End)
		case *syntax.Token:
			if withTokens {
				fmt.Fprintf(w, "%s%q %s\n", indent, el.Text, sp.Start)
			}
		}
		return true
	})
}

func writeClasses(w io.Writer, ix *symbols.Index) {
	for _, c := range ix.All() {
		fmt.Fprintf(w, "%s %s %s", c.Visibility, c.Kind, c.Name)
		if c.Partial {
			fmt.Fprint(w, " (partial)")
		}
		if len(c.BaseTypes) > 0 {
			fmt.Fprintf(w, " : %s", strings.Join(c.BaseTypes, ", "))
		}
		fmt.Fprintln(w)
		for _, f := range c.Fields {
			fmt.Fprintf(w, "  field %s %s %s (%d refs)\n", f.Visibility, f.Type, f.Name, len(f.References()))
		}
		for _, p := range c.Properties {
			fmt.Fprintf(w, "  property %s %s %s\n", p.Visibility, p.Type, p.Name)
		}
		for _, m := range c.Methods {
			fmt.Fprintf(w, "  method %s %s %s\n", m.Visibility, m.ReturnType, m.Name)
		}
	}
}
