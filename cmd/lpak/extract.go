package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/lpaktools/lpak/internal/extract"
	"github.com/lpaktools/lpak/internal/lpak"
	"github.com/lpaktools/lpak/internal/utils"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract <bundle>",
	Short: "Extract files from an LPAK bundle to disk",
	Long: `Extract writes the bundle's files to the destination directory,
preserving each entry's stored relative path and creating parent
directories as needed. An optional --filter glob selects a subset of
entries; without it every entry is extracted. Existing destination
files are overwritten.

Compressed entries and entries whose stored path would escape the
destination are skipped with a warning.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()

		bundle, err := lpak.Open(args[0])
		if err != nil {
			return err
		}
		defer bundle.Close()

		index, err := lpak.ParseIndex(bundle)
		if err != nil {
			return fmt.Errorf("parsing bundle %s: %w", args[0], err)
		}

		entries, err := lpak.Filter(index.Entries, filterPattern)
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			slog.Info("No entries match filter", "pattern", filterPattern)
			return nil
		}

		slog.Info("Extracting entries",
			"bundle", args[0],
			"count", len(entries),
			"dest", cfg.Dest)

		progress := utils.NewProgress(len(entries), !(noProgress || cfg.LogFormat == "json" || cfg.LogLevel == "debug"))

		extractor := extract.NewExtractor(bundle, cfg.Dest)
		stats, err := extractor.Extract(entries, func(current, total int, path string) {
			progress.Update(current, path)
		})
		progress.Finish()
		if err != nil {
			return fmt.Errorf("%w (%d of %d files written)", err, stats.Written, len(entries))
		}

		fmt.Printf("Files written: %d/%d\n", stats.Written, len(entries))
		if stats.Skipped > 0 {
			fmt.Printf("Files skipped: %d\n", stats.Skipped)
		}
		fmt.Printf("Bytes written: %s\n", utils.Number(stats.Bytes))
		fmt.Printf("Duration: %s\n", utils.Duration(time.Since(start)))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVarP(&destRoot, "dest", "d", "", "destination directory (default is current directory)")
}
