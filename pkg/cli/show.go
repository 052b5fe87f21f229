package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/m-mizutani/postforge/pkg/adapter"
	"github.com/m-mizutani/postforge/pkg/model"
	"github.com/urfave/cli/v3"
)

func showCommand() *cli.Command {
	var (
		cfg    config
		id     string
		bucket string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "id",
			Usage:       "Draft ID to display",
			Destination: &id,
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "archive-bucket",
			Usage:       "Read the draft from this Cloud Storage archive instead of the store",
			Sources:     cli.EnvVars("POSTFORGE_ARCHIVE_BUCKET"),
			Destination: &bucket,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "show",
		Usage: "Show a generated draft by ID",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			w := c.Root().Writer

			if bucket != "" {
				storage, err := adapter.NewStorage(ctx, bucket)
				if err != nil {
					return err
				}
				post, imagePrompt, err := adapter.ReadArchivedDraft(ctx, storage, model.DraftID(id))
				if err != nil {
					return err
				}
				printDraftBody(w, post, imagePrompt)
				return nil
			}

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			d, err := repo.GetDraft(ctx, model.DraftID(id))
			if err != nil {
				return err
			}

			fmt.Fprintf(w, "%s  %s\n", d.CreatedAt.Format("2006-01-02 15:04"), d.ID)
			fmt.Fprintf(w, "Article: %s\n", d.ArticleTitle)
			if d.ArticleURL != "" {
				fmt.Fprintf(w, "URL: %s\n", d.ArticleURL)
			}
			printDraftBody(w, d.Post, d.ImagePrompt)
			return nil
		},
	}
}

func printDraftBody(w io.Writer, post, imagePrompt string) {
	fmt.Fprintf(w, "\n--- POST ---\n%s\n", post)
	if imagePrompt != "" {
		fmt.Fprintf(w, "\n--- IMAGE PROMPT ---\n%s\n", imagePrompt)
	}
}
