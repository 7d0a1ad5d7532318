package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/illarion/vaultpad/internal/git"
	"github.com/illarion/vaultpad/internal/keyring"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show how much is stored without unlocking",
		Long: `Shows item counts, the vault file, keyring state and whether the vault
file is kept out of git. Does not require a password.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := fromContext(cmd.Context())

			info, err := e.app.Status()
			if err != nil {
				return err
			}

			path := e.store.Path()
			size := "unknown size"
			if fi, err := os.Stat(path); err == nil {
				size = formatSize(fi.Size())
			}

			fmt.Fprintf(e.out, "Vault:    %s (%s)\n", path, size)
			fmt.Fprintf(e.out, "Photos:   %d photo(s) stored\n", info.MediaCount)
			fmt.Fprintf(e.out, "Notes:    %d note(s) stored\n", info.TextCount)
			if !info.Modified.IsZero() {
				fmt.Fprintf(e.out, "Modified: %s\n", info.Modified.Local().Format(time.RFC3339))
			}

			switch {
			case !e.cfg.Keyring:
				fmt.Fprintln(e.out, "Keyring:  disabled")
			case e.vaultID != "" && keyring.HasCredential(e.vaultID):
				fmt.Fprintln(e.out, "Keyring:  password stored")
			default:
				fmt.Fprintln(e.out, "Keyring:  not stored")
			}

			session := "locked"
			if info.Unlocked {
				session = "unlocked"
				if info.MediaUnlocked {
					session += ", photos open"
				}
				if info.TextUnlocked {
					session += ", notes open"
				}
			}
			fmt.Fprintf(e.out, "Session:  %s\n", session)

			workDir, err := filepath.Abs(filepath.Dir(path))
			if err != nil {
				return nil
			}
			abs, _ := filepath.Abs(path)
			status, err := git.CheckVault(cmd.Context(), workDir, abs)
			if err != nil {
				e.log.Debug("git check failed", zap.Error(err))
				return nil
			}
			fmt.Fprint(e.out, git.FormatVaultStatus(status))
			return nil
		},
	}
}
