package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/illarion/vaultpad/internal/clipboard"
	"github.com/illarion/vaultpad/internal/config"
	"github.com/illarion/vaultpad/internal/core"
	"github.com/illarion/vaultpad/internal/imaging"
	"github.com/illarion/vaultpad/internal/logging"
	"github.com/illarion/vaultpad/internal/storage"
)

// skipVault marks commands that run without opening the vault file
const skipVault = "skip-vault"

// env is everything a command needs for one run of the application
type env struct {
	cfg     *config.Config
	log     *zap.Logger
	store   *storage.Storage
	app     *core.App
	vaultID string

	out    io.Writer
	errOut io.Writer
	in     io.Reader
	shell  bool // running inside 'vaultpad shell'

	readPassword    func(prompt string) ([]byte, error)
	readNewPassword func() ([]byte, []byte, error)
}

type ctxKey struct{}

func saveToContext(ctx context.Context, e *env) context.Context {
	return context.WithValue(ctx, ctxKey{}, e)
}

func fromContext(ctx context.Context) *env {
	return ctx.Value(ctxKey{}).(*env)
}

func (e *env) close() {
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.log.Warn("failed to close vault", zap.Error(err))
		}
	}
	_ = e.log.Sync()
}

// cli owns the environment across the lifetime of one root command
type cli struct {
	env *env
	// overrides for the terminal prompts
	readPassword    func(prompt string) ([]byte, error)
	readNewPassword func() ([]byte, []byte, error)
}

func (c *cli) close() {
	if c.env != nil {
		c.env.close()
		c.env = nil
	}
}

func (c *cli) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vaultpad",
		Short: "Local PIN-gated vault for photos and notes",
		Long: `vaultpad keeps photos and short notes behind a password in a local file.
Every run starts locked. Listing either section asks for the password again.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !needsVault(cmd) {
				return nil
			}
			e, err := c.open(cmd)
			if err != nil {
				return err
			}
			c.env = e
			cmd.SetContext(saveToContext(cmd.Context(), e))
			return nil
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	bindFlags(rootCmd)

	rootCmd.AddCommand(vaultCommands()...)
	rootCmd.AddCommand(
		shellCmd(),
		completionCmd(),
	)

	return rootCmd
}

// bindFlags registers flags that override configuration
func bindFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP("vault", "f", "", "Vault file (default from VAULTPAD_DATA_PATH or .vaultpad)")
	cmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().Bool("no-keyring", false, "Do not read or write the OS keyring")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("vault") {
		cfg.DataPath, _ = flags.GetString("vault")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if noKeyring, _ := flags.GetBool("no-keyring"); noKeyring {
		cfg.Keyring = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *cli) open(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.DataPath, storage.WithLogger(log.Named("storage")))
	if err != nil {
		return nil, err
	}

	vaultID, err := store.GetVaultID()
	if err != nil && !errors.Is(err, storage.ErrNoVaultID) {
		store.Close()
		return nil, err
	}

	e := &env{
		cfg:             cfg,
		log:             log,
		store:           store,
		vaultID:         vaultID,
		out:             cmd.OutOrStdout(),
		errOut:          cmd.ErrOrStderr(),
		in:              cmd.InOrStdin(),
		readPassword:    core.ReadPassword,
		readNewPassword: core.ReadPasswordConfirm,
	}
	if c.readPassword != nil {
		e.readPassword = c.readPassword
	}
	if c.readNewPassword != nil {
		e.readNewPassword = c.readNewPassword
	}

	e.app = core.New(store,
		core.WithLogger(log),
		core.WithNotifier(newPrinter(e.errOut)),
		core.WithEncoder(imaging.NewEncoder()),
		core.WithClipboard(clipboard.New()),
	)
	return e, nil
}

// needsVault reports whether the command touches the vault. Help and
// completion machinery never do.
func needsVault(cmd *cobra.Command) bool {
	if cmd.Name() == "help" || strings.HasPrefix(cmd.Name(), "__complete") {
		return false
	}
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[skipVault]; ok {
			return false
		}
	}
	return true
}

// vaultCommands are available both as one-shot commands and inside the shell
func vaultCommands() []*cobra.Command {
	return []*cobra.Command{
		unlockCmd(),
		passwdCmd(),
		mediaCmd(),
		textCmd(),
		resetCmd(),
		statusCmd(),
		compactCmd(),
		keyringCmd(),
	}
}

// Execute runs the command line. Every invocation is a fresh, locked session.
func Execute(ctx context.Context) error {
	return run(ctx, os.Args[1:], nil)
}

func run(ctx context.Context, args []string, configure func(*cli, *cobra.Command)) error {
	c := &cli{}
	defer c.close()

	root := c.rootCmd()
	root.SetArgs(args)
	if configure != nil {
		configure(c, root)
	}
	if err := root.ExecuteContext(ctx); err != nil {
		return err
	}
	return nil
}

// HandleError prints err with a hint where one helps and exits
func HandleError(err error) {
	msg, hint := describeError(err)
	fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	if hint != "" {
		fmt.Fprintln(os.Stderr, hint)
	}
	os.Exit(1)
}
