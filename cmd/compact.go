package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func compactCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compact",
		Short: "Compact the vault file to reclaim disk space",
		Long: `Rewrites the vault file without unused pages. Runs automatically after
'reset'. Does not require a password.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := fromContext(cmd.Context())

			info, err := os.Stat(e.store.Path())
			if err != nil {
				return err
			}
			sizeBefore := info.Size()

			if err := e.store.Compact(); err != nil {
				return err
			}

			info, err = os.Stat(e.store.Path())
			if err != nil {
				return err
			}

			fmt.Fprintf(e.out, "Compacted: %s -> %s\n", formatSize(sizeBefore), formatSize(info.Size()))
			return nil
		},
	}
}
