package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func listCommand() *cli.Command {
	var (
		cfg    config
		offset int64
		limit  int64
	)

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "offset",
			Usage:       "Number of drafts to skip",
			Destination: &offset,
		},
		&cli.IntFlag{
			Name:        "limit",
			Aliases:     []string{"l"},
			Usage:       "Maximum number of drafts to display",
			Value:       10,
			Destination: &limit,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "list",
		Usage: "List generated drafts, newest first",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			drafts, err := repo.ListDrafts(ctx, int(offset), int(limit))
			if err != nil {
				return err
			}

			if len(drafts) == 0 {
				fmt.Fprintf(c.Root().Writer, "No drafts found\n")
				return nil
			}

			for _, d := range drafts {
				fmt.Fprintf(c.Root().Writer, "%s  %s\n", d.CreatedAt.Format("2006-01-02 15:04"), d.ID)
				fmt.Fprintf(c.Root().Writer, "  Article: %s\n", d.ArticleTitle)
				fmt.Fprintf(c.Root().Writer, "  Post: %s\n\n", d.Post)
			}

			return nil
		},
	}
}
