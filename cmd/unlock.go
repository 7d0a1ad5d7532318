package cmd

import (
	"github.com/spf13/cobra"
)

func unlockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlock",
		Short: "Check the vault password",
		Long: `Presents the primary prompt. Inside 'vaultpad shell' the session stays
unlocked until the shell exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := fromContext(cmd.Context())
			return e.ensureUnlocked()
		},
	}
}
