package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/illarion/vaultpad/internal/core"
)

func textCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "text",
		Short: "Hidden notes",
		Long:  `Save short notes with an optional link. Listing, showing or copying asks for the password again.`,
	}

	cmd.AddCommand(
		textAddCmd(),
		textListCmd(),
		textShowCmd(),
		textCopyCmd(),
		textRemoveCmd(),
	)
	return cmd
}

func textAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Save a note",
		Long: `Saves a note. The body comes from --body or, when omitted, from stdin.
A note without a title is saved as "Untitled".

When the body is piped, stdin is not a terminal and the password cannot be
typed. Set VAULTPAD_PASSWORD or save the password with 'vaultpad keyring save'.`,
		Example: `  vaultpad text add --title wifi --body hunter2
  pbpaste | VAULTPAD_PASSWORD=... vaultpad text add --title "bank" --link https://bank.example`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := fromContext(cmd.Context())

			title, _ := cmd.Flags().GetString("title")
			link, _ := cmd.Flags().GetString("link")
			body, _ := cmd.Flags().GetString("body")

			if !cmd.Flags().Changed("body") && !e.shell {
				piped, ok, err := readPiped(e.in)
				if err != nil {
					return err
				}
				if ok {
					body = piped
				}
			}

			if err := e.ensureUnlocked(); err != nil {
				return err
			}

			rec, err := e.app.SaveText(title, link, body)
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "saved: %s (%s)\n", rec.ID, rec.Title)
			return nil
		},
	}

	cmd.Flags().StringP("title", "t", "", "Note title")
	cmd.Flags().StringP("link", "l", "", "Optional link")
	cmd.Flags().StringP("body", "b", "", "Note body (read from stdin when omitted)")
	return cmd
}

func textListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List hidden notes, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := fromContext(cmd.Context())
			if err := e.ensureSection(core.SectionText); err != nil {
				return err
			}

			list, err := e.app.RevealText()
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(e.out, "No notes yet")
				return nil
			}

			w := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tLINK\tNOTE\tADDED")
			for _, rec := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					rec.ID, preview(rec.Title, 30), preview(rec.Link, 30), preview(rec.Body, 40),
					rec.CreatedAt.Local().Format(time.DateTime))
			}
			return w.Flush()
		},
	}
}

func textShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a note in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := fromContext(cmd.Context())
			if err := e.ensureSection(core.SectionText); err != nil {
				return err
			}

			rec, err := e.app.ViewText(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(e.out, "Title: %s\n", rec.Title)
			if rec.Link != "" {
				fmt.Fprintf(e.out, "Link:  %s\n", rec.Link)
			}
			fmt.Fprintf(e.out, "Added: %s\n", rec.CreatedAt.Local().Format(time.RFC3339))
			if rec.Body != "" {
				fmt.Fprintf(e.out, "\n%s\n", rec.Body)
			}
			return nil
		},
	}
}

func textCopyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "copy <id>",
		Short: "Copy a note to the clipboard",
		Long:  `Copies title, link and body of a note to the clipboard as plain text.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := fromContext(cmd.Context())
			if err := e.ensureSection(core.SectionText); err != nil {
				return err
			}

			if toStdout, _ := cmd.Flags().GetBool("stdout"); toStdout {
				payload, err := e.app.Text.CopyPayload(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(e.out, payload)
				return nil
			}

			return e.app.CopyText(cmd.Context(), args[0])
		},
	}

	cmd.Flags().Bool("stdout", false, "Print the payload instead of using the clipboard")
	return cmd
}

func textRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id> [id...]",
		Aliases: []string{"delete"},
		Short:   "Delete notes",
		Long:    `Deletes notes by id. Unknown ids are ignored.`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := fromContext(cmd.Context())
			if err := e.ensureUnlocked(); err != nil {
				return err
			}

			for _, id := range args {
				if err := e.app.DeleteText(id); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
