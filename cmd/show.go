package cmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zjrosen/markers/internal/config"
	"github.com/zjrosen/markers/internal/coordinate"
	"github.com/zjrosen/markers/internal/marker"
	"github.com/zjrosen/markers/internal/valuetree"
)

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().Bool("no-resolve", false,
		"print position expressions only, without resolved values")
}

var showCmd = &cobra.Command{
	Use:   "show [tree-file]",
	Short: "Print the markers in a tree file",
	Long: `Print each marker in a tree file with its position expression
and resolved value.

Examples:
  # Show markers from a tree file
  markers show layout.yaml

  # Show markers from the configured tree_file
  markers show

  # Skip resolution
  markers show layout.yaml --no-resolve`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

// loadList reads the tree file and projects its marker children into a list.
func loadList(treePath string) (*marker.List, error) {
	tree, err := valuetree.LoadFile(treePath)
	if err != nil {
		return nil, fmt.Errorf("loading tree: %w", err)
	}
	list := marker.NewList()
	marker.NewTreeView(tree).ApplyTo(list)
	return list, nil
}

// externResolver answers anchor lookups from configured anchor values.
// Returns nil when no anchors are configured.
func externResolver(anchors map[string]float64) coordinate.Resolver {
	if len(anchors) == 0 {
		return nil
	}
	return coordinate.ResolverFunc(func(name string) (float64, error) {
		if v, ok := anchors[name]; ok {
			return v, nil
		}
		return 0, fmt.Errorf("unknown anchor %q", name)
	})
}

func listResolver(list *marker.List, cfg config.Config) coordinate.Resolver {
	extern := externResolver(cfg.Resolve.Anchors)
	if cfg.Resolve.Cache {
		return coordinate.NewCachedListResolver(list, extern)
	}
	return coordinate.NewListResolver(list, extern)
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func runShow(cmd *cobra.Command, args []string) error {
	treePath, err := treeFilePath(args)
	if err != nil {
		return err
	}

	list, err := loadList(treePath)
	if err != nil {
		return err
	}

	noResolve, _ := cmd.Flags().GetBool("no-resolve")

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	if noResolve {
		fmt.Fprintln(w, "NAME\tPOSITION")
		for _, m := range list.Markers() {
			fmt.Fprintf(w, "%s\t%s\n", m.Name, m.Position)
		}
		return w.Flush()
	}

	resolver := listResolver(list, cfg)
	fmt.Fprintln(w, "NAME\tPOSITION\tRESOLVED")
	for _, m := range list.Markers() {
		value := "unresolved"
		if v, evalErr := coordinate.EvalString(m.Position, resolver); evalErr == nil {
			value = formatValue(v)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", m.Name, m.Position, value)
	}
	return w.Flush()
}
