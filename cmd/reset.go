package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/illarion/vaultpad/internal/keyring"
)

func resetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Wipe all photos, notes and the password",
		Long: `Deletes every photo and note and restores the default password.
The vault is locked afterwards. This cannot be undone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := fromContext(cmd.Context())
			if err := e.ensureUnlocked(); err != nil {
				return err
			}

			force, _ := cmd.Flags().GetBool("force")
			if !force && !confirm(e.in, e.errOut, "Erase all photos, notes and the password?") {
				fmt.Fprintln(e.out, "reset cancelled")
				return nil
			}

			if err := e.app.ResetAll(); err != nil {
				return err
			}

			// A cached password would no longer match
			if e.useKeyring() {
				if err := keyring.DeleteCredential(e.vaultID); err != nil {
					e.log.Warn("failed to clear keyring", zap.Error(err))
				}
			}

			if err := e.store.Compact(); err != nil {
				fmt.Fprintf(e.errOut, "warning: compaction failed: %s\n", err)
			}
			return nil
		},
	}

	cmd.Flags().Bool("force", false, "Do not ask for confirmation")
	return cmd
}
