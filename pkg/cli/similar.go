package cli

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func similarCommand() *cli.Command {
	var (
		cfg   config
		query string
		limit int64
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "query",
			Aliases:     []string{"q"},
			Usage:       "Query text to find similar past posts",
			Sources:     cli.EnvVars("POSTFORGE_SIMILAR_QUERY"),
			Destination: &query,
			Required:    true,
		},
		&cli.IntFlag{
			Name:        "limit",
			Aliases:     []string{"l"},
			Usage:       "Maximum number of similar posts to display",
			Value:       10,
			Sources:     cli.EnvVars("POSTFORGE_SIMILAR_LIMIT"),
			Destination: &limit,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "similar",
		Usage: "Find stored posts similar to a query using vector search",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			gemini, err := cfg.newGemini(ctx)
			if err != nil {
				return err
			}

			vector, err := gemini.Embed(ctx, query)
			if err != nil {
				return goerr.Wrap(err, "failed to embed query")
			}

			posts, err := repo.SearchSimilarPosts(ctx, firestore.Vector32(vector), int(limit))
			if err != nil {
				return goerr.Wrap(err, "failed to search similar posts")
			}

			if len(posts) == 0 {
				fmt.Fprintf(c.Root().Writer, "No similar posts found\n")
				return nil
			}

			fmt.Fprintf(c.Root().Writer, "Found %d similar posts for %q:\n\n", len(posts), query)
			for i, post := range posts {
				fmt.Fprintf(c.Root().Writer, "%d. %s\n\n", i+1, post.Text)
			}

			return nil
		},
	}
}
