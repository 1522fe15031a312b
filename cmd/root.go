package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/markers/internal/config"
	"github.com/zjrosen/markers/internal/log"
	"github.com/zjrosen/markers/internal/ui/inspector"
	"github.com/zjrosen/markers/internal/watcher"
)

func init() {
	// Force lipgloss/termenv to query terminal background color BEFORE
	// any Bubble Tea program starts. This prevents the terminal's OSC 11
	// response from racing with Bubble Tea's input loop and appearing as
	// garbage text in input fields.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
)

var rootCmd = &cobra.Command{
	Use:   "markers [tree-file]",
	Short: "A terminal inspector for marker trees",
	Long: `A terminal inspector for named markers stored in a tree file.

Shows each marker with its position expression and resolved value,
and reloads the view when the file changes on disk.`,
	Version: version,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runInspector,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/markers/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false,
		"write a debug log to markers.log")
	rootCmd.Flags().StringP("tree", "t", "",
		"marker tree file to inspect")
	rootCmd.Flags().Bool("no-reload", false,
		"disable automatic reload when the tree file changes")

	// Bind flags to viper
	_ = viper.BindPFlag("tree_file", rootCmd.Flags().Lookup("tree"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("auto_reload", defaults.AutoReload)
	viper.SetDefault("storage.dir", defaults.Storage.Dir)
	viper.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMs)
	viper.SetDefault("resolve.cache", defaults.Resolve.Cache)
	viper.SetDefault("ui.show_resolved", defaults.UI.ShowResolved)
	viper.SetDefault("ui.show_status_bar", defaults.UI.ShowStatusBar)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .markers/config.yaml (current directory)
		// 2. ~/.config/markers/config.yaml (user config)
		if _, err := os.Stat(".markers/config.yaml"); err == nil {
			viper.SetConfigFile(".markers/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "markers"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .markers/config.yaml
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := ".markers/config.yaml"
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// initDebugLog initializes file logging when --debug or MARKERS_DEBUG is set.
// Returns a cleanup function (possibly a no-op).
func initDebugLog() (func(), error) {
	if !debugFlag && os.Getenv("MARKERS_DEBUG") == "" {
		return func() {}, nil
	}
	logPath := os.Getenv("MARKERS_LOG")
	if logPath == "" {
		logPath = "markers.log"
	}
	cleanup, err := log.Init(logPath)
	if err != nil {
		return nil, fmt.Errorf("initializing logging: %w", err)
	}
	log.Info(log.CatConfig, "markers starting", "logPath", logPath)
	return cleanup, nil
}

// treeFilePath resolves the tree file from the positional argument,
// falling back to the configured tree_file.
func treeFilePath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.TreeFile != "" {
		return cfg.TreeFile, nil
	}
	return "", fmt.Errorf("no tree file: pass one as an argument or set tree_file in config")
}

func runInspector(cmd *cobra.Command, args []string) error {
	cleanup, err := initDebugLog()
	if err != nil {
		return err
	}
	defer cleanup()

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	treePath, err := treeFilePath(args)
	if err != nil {
		return err
	}

	// Handle --no-reload flag (negated logic)
	if noReload, _ := cmd.Flags().GetBool("no-reload"); noReload {
		cfg.AutoReload = false
	}

	var onChange <-chan struct{}
	var w *watcher.Watcher
	if cfg.AutoReload {
		wcfg := watcher.DefaultConfig(treePath)
		if cfg.Watch.DebounceMs > 0 {
			wcfg.DebounceDur = time.Duration(cfg.Watch.DebounceMs) * time.Millisecond
		}
		w, err = watcher.New(wcfg)
		if err != nil {
			return fmt.Errorf("creating watcher: %w", err)
		}
		onChange, err = w.Start()
		if err != nil {
			return fmt.Errorf("starting watcher: %w", err)
		}
	}

	model, err := inspector.New(treePath, cfg, onChange)
	if err != nil {
		if w != nil {
			_ = w.Stop()
		}
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err = p.Run()

	// Clean up watcher and log tap resources
	model.Close()
	if w != nil {
		if closeErr := w.Stop(); closeErr != nil && err == nil {
			err = closeErr
		}
	}

	if err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
