package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/zjrosen/markers/internal/marker"
)

var diffStyles = struct {
	added   lipgloss.Style
	deleted lipgloss.Style
}{
	added:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	deleted: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
}

func init() {
	rootCmd.AddCommand(diffCmd)

	diffCmd.Flags().Bool("no-color", false, "disable colored output")
}

var diffCmd = &cobra.Command{
	Use:   "diff <tree-file> <tree-file>",
	Short: "Compare the markers of two tree files",
	Long: `Compare the markers of two tree files line by line.

Each marker renders as "name: position". Removed lines are prefixed
with "-", added lines with "+".

Examples:
  markers diff layout-v1.yaml layout-v2.yaml`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

// markerLines renders a list as one "name: position" line per marker.
func markerLines(list *marker.List) string {
	var b strings.Builder
	for _, m := range list.Markers() {
		fmt.Fprintf(&b, "%s: %s\n", m.Name, m.Position)
	}
	return b.String()
}

// diffLines computes a line-level diff between two rendered marker lists.
func diffLines(oldText, newText string) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()
	oldChars, newChars, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffMain(oldChars, newChars, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	return dmp.DiffCharsToLines(diffs, lines)
}

func runDiff(cmd *cobra.Command, args []string) error {
	oldList, err := loadList(args[0])
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	newList, err := loadList(args[1])
	if err != nil {
		return fmt.Errorf("%s: %w", args[1], err)
	}

	if oldList.Equal(newList) {
		fmt.Fprintln(cmd.OutOrStdout(), "no marker changes")
		return nil
	}

	noColor, _ := cmd.Flags().GetBool("no-color")
	out := cmd.OutOrStdout()

	for _, d := range diffLines(markerLines(oldList), markerLines(newList)) {
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				fmt.Fprintf(out, "  %s\n", line)
			case diffmatchpatch.DiffDelete:
				text := "- " + line
				if !noColor {
					text = diffStyles.deleted.Render(text)
				}
				fmt.Fprintln(out, text)
			case diffmatchpatch.DiffInsert:
				text := "+ " + line
				if !noColor {
					text = diffStyles.added.Render(text)
				}
				fmt.Fprintln(out, text)
			}
		}
	}
	return nil
}
