package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/postforge/pkg/adapter"
	"github.com/urfave/cli/v3"
)

func headlinesCommand() *cli.Command {
	var (
		cfg      config
		query    string
		category string
		language string
		country  string
		pageSize int64
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "query",
			Aliases:     []string{"q"},
			Usage:       "Keywords or a phrase to search for",
			Destination: &query,
		},
		&cli.StringFlag{
			Name:        "category",
			Aliases:     []string{"c"},
			Usage:       "Headline category (business, entertainment, general, health, science, sports, technology)",
			Destination: &category,
		},
		&cli.StringFlag{
			Name:        "language",
			Usage:       "ISO 639-1 language code",
			Value:       "en",
			Destination: &language,
		},
		&cli.StringFlag{
			Name:        "country",
			Usage:       "ISO 3166-1 country code",
			Value:       "us",
			Destination: &country,
		},
		&cli.IntFlag{
			Name:        "page-size",
			Aliases:     []string{"n"},
			Usage:       "Number of headlines to list (max 100)",
			Value:       5,
			Destination: &pageSize,
		},
	}
	flags = append(flags, newsFlags(&cfg)...)

	return &cli.Command{
		Name:  "headlines",
		Usage: "List top headlines from the news service",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			news, err := cfg.newNewsAPI()
			if err != nil {
				return err
			}

			headlines, err := news.TopHeadlines(ctx, adapter.HeadlinesQuery{
				Query:    query,
				Category: category,
				Language: language,
				Country:  country,
				PageSize: int(pageSize),
			})
			if err != nil {
				return err
			}

			if len(headlines) == 0 {
				fmt.Fprintf(c.Root().Writer, "No headlines found\n")
				return nil
			}

			for i, h := range headlines {
				fmt.Fprintf(c.Root().Writer, "%d. %s\n", i+1, h.Title)
				if h.Description != "" {
					fmt.Fprintf(c.Root().Writer, "   %s\n", h.Description)
				}
				fmt.Fprintf(c.Root().Writer, "   %s\n\n", h.URL)
			}

			return nil
		},
	}
}
