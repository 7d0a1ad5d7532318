package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/illarion/vaultpad/internal/core"
	"github.com/illarion/vaultpad/internal/imaging"
	"github.com/illarion/vaultpad/internal/security"
)

func mediaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "media",
		Short: "Hidden photos",
		Long:  `Add photos to the vault, list them and export them. Listing or exporting asks for the password again.`,
	}

	cmd.AddCommand(
		mediaAddCmd(),
		mediaListCmd(),
		mediaOpenCmd(),
	)
	return cmd
}

func mediaAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <file> [file...]",
		Short: "Upload photos",
		Long: `Uploads photos in one batch. Each photo is scaled to fit 1600x1600 and
stored as JPEG. Files that are not images are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := fromContext(cmd.Context())
			if err := e.ensureUnlocked(); err != nil {
				return err
			}

			result, err := e.app.UploadMedia(cmd.Context(), imaging.QueueFiles(args))
			if err != nil {
				return err
			}

			for _, rec := range result.Added {
				fmt.Fprintf(e.out, "added: %s (%s)\n", rec.ID, rec.Title)
			}
			for _, name := range result.Skipped {
				fmt.Fprintf(e.out, "skipped: %s (not an image)\n", name)
			}
			return nil
		},
	}
}

func mediaListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List hidden photos, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := fromContext(cmd.Context())
			if err := e.ensureSection(core.SectionMedia); err != nil {
				return err
			}

			list, err := e.app.RevealMedia()
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(e.out, "No photos yet")
				return nil
			}

			w := tabwriter.NewWriter(e.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tADDED\tSIZE")
			for _, rec := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					rec.ID, rec.Title, rec.CreatedAt.Local().Format(time.DateTime), formatSize(int64(len(rec.Image))))
			}
			return w.Flush()
		},
	}
}

func mediaOpenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open <id>",
		Short: "Export a photo to a file",
		Long: `Writes the stored JPEG of a photo to a file inside the current directory.
Paths that leave the current directory are refused.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := fromContext(cmd.Context())
			if err := e.ensureSection(core.SectionMedia); err != nil {
				return err
			}

			rec, err := e.app.OpenMedia(args[0])
			if err != nil {
				return err
			}

			data, _, err := imaging.DecodeDataURL(rec.Image)
			if err != nil {
				return err
			}

			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				out = rec.ID + ".jpg"
			}
			force, _ := cmd.Flags().GetBool("force")

			dir, err := security.OpenExportDir(".")
			if err != nil {
				return err
			}
			defer dir.Close()

			written, err := dir.WriteFile(out, data, force)
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "%s -> %s\n", rec.Title, written)
			return nil
		},
	}

	cmd.Flags().StringP("out", "o", "", "Output file (default <id>.jpg)")
	cmd.Flags().Bool("force", false, "Overwrite an existing file")
	return cmd
}
