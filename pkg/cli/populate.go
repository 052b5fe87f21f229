package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/postforge/pkg/usecase/populate"
	"github.com/urfave/cli/v3"
)

func populateCommand() *cli.Command {
	var (
		cfg   config
		input string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "Path to pipe-delimited file of past posts (first field is the post text)",
			Sources:     cli.EnvVars("POSTFORGE_POSTS_FILE"),
			Destination: &input,
			Required:    true,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "populate",
		Usage: "Embed past posts from a delimited file and load them into the vector store",
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

			f, err := os.Open(input)
			if err != nil {
				return goerr.Wrap(err, "failed to open posts file", goerr.V("path", input))
			}
			defer f.Close()

			uc := populate.New(repo, gemini)
			count, err := uc.Run(ctx, f)
			if err != nil {
				return err
			}

			total, err := repo.CountPosts(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to count posts")
			}

			fmt.Fprintf(c.Root().Writer, "Loaded %d posts, collection now holds %d items\n", count, total)
			return nil
		},
	}
}
