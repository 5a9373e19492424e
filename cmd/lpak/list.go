package main

import (
	"fmt"
	"log/slog"

	"github.com/lpaktools/lpak/internal/lpak"
	"github.com/lpaktools/lpak/internal/utils"
	"github.com/spf13/cobra"
)

var listLong bool

var listCmd = &cobra.Command{
	Use:   "list <bundle>",
	Short: "List files packed inside an LPAK bundle",
	Long: `List enumerates the relative paths of every file packed inside the
bundle, in directory order. An optional --filter glob restricts the
output to matching paths.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bundle, err := lpak.Open(args[0])
		if err != nil {
			return err
		}
		defer bundle.Close()

		index, err := lpak.ParseIndex(bundle)
		if err != nil {
			return fmt.Errorf("parsing bundle %s: %w", args[0], err)
		}

		slog.Debug("Bundle directory loaded",
			"bundle", args[0],
			"version", index.Version,
			"entries", len(index.Entries))

		entries, err := lpak.Filter(index.Entries, filterPattern)
		if err != nil {
			return err
		}

		for _, entry := range entries {
			if listLong {
				flag := " "
				if entry.Compressed {
					flag = "c"
				}
				fmt.Printf("%12s %12d %s %s\n",
					utils.Number(entry.Size), entry.Offset, flag, entry.Path)
			} else {
				fmt.Println(entry.Path)
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVarP(&listLong, "long", "l", false, "print size, offset and compression flag columns")
}
