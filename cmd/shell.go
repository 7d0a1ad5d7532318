package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/illarion/vaultpad/internal/core"
)

func shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session",
		Long: `Starts an interactive session. The vault is unlocked once and stays
unlocked until exit; a section opened with its password stays open until
'hide media' or 'hide text'. Any vaultpad command can be typed without the
'vaultpad' prefix.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := fromContext(cmd.Context())

			// The primary prompt cannot be dismissed while locked
			if err := e.ensureUnlocked(); err != nil {
				return err
			}
			if err := e.app.Gate.DismissPrompt(); err != nil {
				return err
			}

			return runShell(cmd.Context(), e, e.in)
		},
	}
}

func runShell(ctx context.Context, e *env, in io.Reader) error {
	// Commands that ask questions read from the same buffer as the shell
	reader := bufio.NewReader(in)
	session := *e
	session.in = reader
	session.shell = true

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		fmt.Fprint(e.errOut, "vaultpad> ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(e.errOut)
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		args, err := shellquote.Split(line)
		if err != nil {
			fmt.Fprintf(e.errOut, "Error: %s\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "exit", "quit":
			return nil
		}

		if err := execShellLine(ctx, &session, args); err != nil {
			msg, hint := describeError(err)
			fmt.Fprintf(e.errOut, "Error: %s\n", msg)
			if hint != "" {
				fmt.Fprintln(e.errOut, hint)
			}
		}
	}
}

// execShellLine runs one line against a fresh command tree so flag values
// never leak from one line into the next. The session is shared.
func execShellLine(ctx context.Context, e *env, args []string) error {
	root := &cobra.Command{
		Use:           "vaultpad",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.AddCommand(vaultCommands()...)
	root.AddCommand(hideCmd())

	root.SetArgs(args)
	root.SetOut(e.out)
	root.SetErr(e.errOut)
	root.SetIn(e.in)
	return root.ExecuteContext(saveToContext(ctx, e))
}

func hideCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "hide <media|text>",
		Short:     "Collapse a section; it asks for the password again next time",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(core.SectionMedia), string(core.SectionText)},
		RunE: func(cmd *cobra.Command, args []string) error {
			e := fromContext(cmd.Context())

			section, err := core.ParseSection(args[0])
			if err != nil {
				return err
			}
			switch section {
			case core.SectionMedia:
				e.app.HideMedia()
			case core.SectionText:
				e.app.HideText()
			}
			return nil
		},
	}
}
