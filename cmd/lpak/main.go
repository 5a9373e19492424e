package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/lpaktools/lpak/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfg     *config.Config
	cfgFile string

	filterPattern string
	destRoot      string
	logLevel      string
	logFormat     string
	noProgress    bool
)

var rootCmd = &cobra.Command{
	Use:   "lpak",
	Short: "DoubleFine LPAK bundle listing and extraction tool",
	Long: `lpak lists or extracts files from a DoubleFine LPAK bundle as found in
Day of the Tentacle Remastered.

Bundles pack many game assets at arbitrary offsets inside one container
file. This tool reads the bundle directory and either enumerates the
packed relative paths or materializes a glob-filtered subset of them on
disk, preserving each entry's stored path.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if cmd.Flags().Changed("dest") {
			cfg.Dest = destRoot
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			cfg.LogFormat = logFormat
		}

		var level slog.Level
		switch cfg.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}

		var handler slog.Handler
		if cfg.LogFormat == "json" {
			handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})
		} else {
			handler = tint.NewHandler(os.Stderr, &tint.Options{
				Level: level,
			})
		}

		logger := slog.New(handler)
		slog.SetDefault(logger)

		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is lpak.yaml in pwd)")
	rootCmd.PersistentFlags().StringVarP(&filterPattern, "filter", "F", "", "only consider entries matching the given glob pattern")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "disable progress bar")
}
