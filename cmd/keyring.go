package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/illarion/vaultpad/internal/core"
	"github.com/illarion/vaultpad/internal/keyring"
)

var errKeyringDisabled = errors.New("keyring is disabled (VAULTPAD_KEYRING=false or --no-keyring)")

func keyringCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keyring",
		Short: "Manage the password cached in the OS keyring",
		Long: `A password saved in the OS keyring answers the unlock prompts of this
vault. It is removed on reset and updated by passwd.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "save",
			Short: "Save the vault password to the keyring",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return keyringSave(fromContext(cmd.Context()))
			},
		},
		&cobra.Command{
			Use:   "delete",
			Short: "Remove the vault password from the keyring",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return keyringDelete(fromContext(cmd.Context()))
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show whether a password is cached",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return keyringStatus(fromContext(cmd.Context()))
			},
		},
	)
	return cmd
}

// keyringSave verifies a typed password before caching it
func keyringSave(e *env) error {
	if !e.cfg.Keyring {
		return errKeyringDisabled
	}

	password := core.GetPasswordFromEnv()
	if password == nil {
		var err error
		password, err = e.readPassword("Enter password: ")
		if err != nil {
			return err
		}
	}
	defer core.ClearBytes(password)

	// Only the real password is cached, never the fallback PIN
	if err := e.app.Gate.VerifyStored(string(password)); err != nil {
		return err
	}

	vaultID, err := e.store.GetOrCreateVaultID()
	if err != nil {
		return err
	}
	e.vaultID = vaultID

	if err := keyring.SaveCredential(vaultID, strings.TrimSpace(string(password))); err != nil {
		return fmt.Errorf("failed to save to keyring: %w", err)
	}

	fmt.Fprintln(e.out, "Password saved to keyring")
	return nil
}

func keyringDelete(e *env) error {
	if e.vaultID == "" || !keyring.HasCredential(e.vaultID) {
		fmt.Fprintln(e.out, "No password stored in keyring")
		return nil
	}
	if err := keyring.DeleteCredential(e.vaultID); err != nil {
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}
	fmt.Fprintln(e.out, "Password removed from keyring")
	return nil
}

func keyringStatus(e *env) error {
	if !e.cfg.Keyring {
		fmt.Fprintln(e.out, "Password: keyring disabled")
		return nil
	}
	if e.vaultID != "" && keyring.HasCredential(e.vaultID) {
		fmt.Fprintln(e.out, "Password: stored in keyring")
	} else {
		fmt.Fprintln(e.out, "Password: not stored")
	}
	return nil
}
