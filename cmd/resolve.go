package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/markers/internal/config"
	"github.com/zjrosen/markers/internal/coordinate"
)

var (
	resolveTree    string
	resolveAnchors []string
	saveAnchors    bool
)

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVarP(&resolveTree, "tree", "t", "",
		"marker tree file (default: tree_file from config)")
	resolveCmd.Flags().StringArrayVarP(&resolveAnchors, "anchor", "a", nil,
		"external anchor value as name=value (repeatable)")
	resolveCmd.Flags().BoolVar(&saveAnchors, "save-anchors", false,
		"persist --anchor values to the config file")
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [marker...]",
	Short: "Resolve marker positions to numeric values",
	Long: `Resolve marker position expressions to numeric values.

With no arguments every marker in the tree is resolved. External anchor
names referenced by expressions are supplied with --anchor, on top of
any anchors in the config file.

Examples:
  # Resolve all markers
  markers resolve -t layout.yaml

  # Resolve specific markers
  markers resolve -t layout.yaml middle nearBottom

  # Supply external anchors
  markers resolve -t layout.yaml -a parent.bottom=400 -a parent.right=600

  # Persist anchors for later runs
  markers resolve -t layout.yaml -a parent.bottom=400 --save-anchors`,
	RunE: runResolve,
}

// parseAnchorFlags turns name=value pairs into anchor values, layered on
// top of the configured anchors.
func parseAnchorFlags(base map[string]float64, pairs []string) (map[string]float64, error) {
	anchors := make(map[string]float64, len(base)+len(pairs))
	for name, value := range base {
		anchors[name] = value
	}
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid anchor %q: expected name=value", pair)
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid anchor %q: %w", pair, err)
		}
		anchors[name] = value
	}
	return anchors, nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	treePath := resolveTree
	if treePath == "" {
		treePath = cfg.TreeFile
	}
	if treePath == "" {
		return fmt.Errorf("no tree file: pass --tree or set tree_file in config")
	}

	anchors, err := parseAnchorFlags(cfg.Resolve.Anchors, resolveAnchors)
	if err != nil {
		return err
	}

	list, err := loadList(treePath)
	if err != nil {
		return err
	}

	names := args
	if len(names) == 0 {
		for _, m := range list.Markers() {
			names = append(names, m.Name)
		}
	}

	var resolver coordinate.Resolver = coordinate.NewListResolver(list, externResolver(anchors))
	if cfg.Resolve.Cache {
		resolver = coordinate.NewCachedListResolver(list, externResolver(anchors))
	}

	var firstErr error
	for _, name := range names {
		m, ok := list.ByName(name)
		if !ok {
			return fmt.Errorf("no marker named %q in %s", name, treePath)
		}
		value, evalErr := coordinate.EvalString(m.Position, resolver)
		if evalErr != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: unresolved: %v\n", name, evalErr)
			if firstErr == nil {
				firstErr = evalErr
			}
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, formatValue(value))
	}

	if saveAnchors && len(resolveAnchors) > 0 {
		configPath := viper.ConfigFileUsed()
		if configPath == "" {
			configPath = ".markers/config.yaml"
		}
		if err := config.SaveAnchors(configPath, anchors); err != nil {
			return fmt.Errorf("saving anchors: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved %d anchors to %s\n", len(anchors), configPath)
	}

	return firstErr
}
