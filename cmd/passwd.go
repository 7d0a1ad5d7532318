package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/illarion/vaultpad/internal/core"
	"github.com/illarion/vaultpad/internal/keyring"
)

func passwdCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "passwd",
		Short: "Change the vault password",
		Long: `Changes the vault password. The current password must be entered exactly;
the fallback PIN unlocks the vault but cannot authorize a change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := fromContext(cmd.Context())
			return passwd(e)
		},
	}
}

func passwd(e *env) error {
	if err := e.ensureUnlocked(); err != nil {
		return err
	}

	current := core.GetPasswordFromEnv()
	if current == nil {
		var err error
		current, err = e.readPassword("Current password: ")
		if err != nil {
			return err
		}
	}
	defer core.ClearBytes(current)

	next1, next2, err := e.readNewPassword()
	if err != nil {
		return err
	}
	defer core.ClearBytes(next1)
	defer core.ClearBytes(next2)

	if err := e.app.ChangePassword(string(current), string(next1), string(next2)); err != nil {
		return err
	}

	// Keep a cached credential usable
	if e.useKeyring() && keyring.HasCredential(e.vaultID) {
		if err := keyring.SaveCredential(e.vaultID, string(next1)); err != nil {
			e.log.Warn("failed to update keyring", zap.Error(err))
		} else {
			fmt.Fprintln(e.out, "Keyring updated with new password")
		}
	}
	return nil
}
