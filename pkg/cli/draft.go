package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/chzyer/readline"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/postforge/pkg/adapter"
	"github.com/m-mizutani/postforge/pkg/model"
	"github.com/m-mizutani/postforge/pkg/repository"
	"github.com/m-mizutani/postforge/pkg/usecase/draft"
	"github.com/m-mizutani/postforge/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func draftCommand() *cli.Command {
	var (
		cfg         config
		articleURL  string
		title       string
		contentFile string
		outputDir   string
		bucket      string
		limit       int64
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "url",
			Aliases:     []string{"u"},
			Usage:       "Article URL to fetch and draft from",
			Sources:     cli.EnvVars("POSTFORGE_ARTICLE_URL"),
			Destination: &articleURL,
		},
		&cli.StringFlag{
			Name:        "title",
			Aliases:     []string{"t"},
			Usage:       "Article title (required with --url or --content-file)",
			Sources:     cli.EnvVars("POSTFORGE_ARTICLE_TITLE"),
			Destination: &title,
		},
		&cli.StringFlag{
			Name:        "content-file",
			Aliases:     []string{"c"},
			Usage:       "Read article content from a file instead of fetching ('-' for stdin)",
			Destination: &contentFile,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Directory to write the draft artifacts to",
			Value:       "output",
			Sources:     cli.EnvVars("POSTFORGE_OUTPUT_DIR"),
			Destination: &outputDir,
		},
		&cli.StringFlag{
			Name:        "archive-bucket",
			Usage:       "Cloud Storage bucket to archive draft artifacts to",
			Sources:     cli.EnvVars("POSTFORGE_ARCHIVE_BUCKET"),
			Destination: &bucket,
		},
		&cli.IntFlag{
			Name:        "examples",
			Aliases:     []string{"k"},
			Usage:       "Number of similar past posts to retrieve as style examples",
			Value:       3,
			Sources:     cli.EnvVars("POSTFORGE_EXAMPLE_LIMIT"),
			Destination: &limit,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, llmFlags(&cfg)...)
	flags = append(flags, newsFlags(&cfg)...)

	return &cli.Command{
		Name:  "draft",
		Usage: "Draft a post (and image prompt) from a news article",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.From(ctx)

			gemini, err := cfg.newGemini(ctx)
			if err != nil {
				return err
			}

			// The store is optional here: drafting proceeds without
			// examples when it is missing
			var repo repository.Repository
			if cfg.project != "" {
				if r, err := cfg.newRepository(ctx); err != nil {
					logger.Warn("failed to connect vector store", "error", err)
				} else {
					repo = r
				}
			}

			caps := probeCapabilities(ctx, repo, gemini)
			if !caps.CanGenerate() {
				return goerr.New("generation service unavailable, cannot draft")
			}

			persona, err := cfg.newPersona()
			if err != nil {
				return err
			}

			uc := draft.New(repo, gemini, caps,
				draft.WithExtractor(adapter.NewExtractor()),
				draft.WithPersona(persona),
				draft.WithRetrieveLimit(int(limit)),
			)

			article, err := resolveArticle(ctx, c, &cfg, uc, articleURL, title, contentFile)
			if err != nil {
				return err
			}
			if article == nil {
				fmt.Fprintf(c.Root().Writer, "No article selected, nothing to draft\n")
				return nil
			}

			sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
			sp.Suffix = " drafting post..."
			sp.Start()
			result, err := uc.Generate(ctx, article)
			sp.Stop()
			if err != nil {
				return goerr.Wrap(err, "failed to generate draft")
			}

			fmt.Fprintf(c.Root().Writer, "\n--- GENERATED DRAFT POST ---\n%s\n----------------------------\n", result.Post)
			if result.ImagePrompt != "" {
				fmt.Fprintf(c.Root().Writer, "\n--- GENERATED IMAGE PROMPT ---\n%s\n------------------------------\n", result.ImagePrompt)
			}

			if err := writeArtifacts(outputDir, result); err != nil {
				logger.Warn("failed to write draft artifacts", "dir", outputDir, "error", err)
			} else {
				fmt.Fprintf(c.Root().Writer, "\nArtifacts written to %s\n", outputDir)
			}

			if bucket != "" {
				if storage, err := adapter.NewStorage(ctx, bucket); err != nil {
					logger.Warn("failed to open archive bucket", "bucket", bucket, "error", err)
				} else if err := adapter.ArchiveDraft(ctx, storage, result); err != nil {
					logger.Warn("failed to archive draft", "bucket", bucket, "error", err)
				}
			}

			return nil
		},
	}
}

// resolveArticle picks the article to draft from, in order of precedence:
// explicit content file, explicit URL, interactive selection. A nil
// article with nil error means the user backed out.
func resolveArticle(ctx context.Context, c *cli.Command, cfg *config, uc *draft.UseCase, articleURL, title, contentFile string) (*model.Article, error) {
	if contentFile != "" {
		if title == "" {
			return nil, model.ErrEmptyTitle
		}
		content, err := readContent(contentFile)
		if err != nil {
			return nil, err
		}
		return &model.Article{Title: title, URL: articleURL, Content: content}, nil
	}

	if articleURL != "" {
		if title == "" {
			return nil, model.ErrEmptyTitle
		}
		return uc.FetchArticle(ctx, articleURL, title)
	}

	// No article given: interactive category/headline selection
	news, err := cfg.newNewsAPI()
	if err != nil {
		return nil, goerr.Wrap(err, "an article URL, a content file, or a news API key is required")
	}

	headline, err := selectHeadline(ctx, c, news)
	if err != nil || headline == nil {
		return nil, err
	}

	return uc.FetchArticle(ctx, headline.URL, headline.Title)
}

func readContent(path string) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", goerr.Wrap(err, "failed to read article content", goerr.V("path", path))
	}

	content := strings.TrimSpace(string(data))
	if content == "" {
		return "", model.ErrEmptyContent
	}
	return content, nil
}

// selectHeadline walks the user through category and article selection.
// Returns nil when the user cancels.
func selectHeadline(ctx context.Context, c *cli.Command, news adapter.NewsAPI) (*model.Headline, error) {
	rl, err := readline.New("> ")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open terminal")
	}
	defer rl.Close()

	w := c.Root().Writer

	fmt.Fprintf(w, "Available news categories:\n")
	for i, cat := range adapter.HeadlineCategories {
		fmt.Fprintf(w, "%d. %s\n", i+1, cat)
	}

	category, err := pickNumber(rl, w, "Select a category (0 to cancel): ", len(adapter.HeadlineCategories))
	if err != nil || category == 0 {
		return nil, err
	}

	headlines, err := news.TopHeadlines(ctx, adapter.HeadlinesQuery{
		Category: adapter.HeadlineCategories[category-1],
		PageSize: 10,
	})
	if err != nil {
		logging.From(ctx).Error("failed to fetch headlines", "error", err)
		return nil, nil
	}
	if len(headlines) == 0 {
		fmt.Fprintf(w, "No headlines found for this category\n")
		return nil, nil
	}

	fmt.Fprintf(w, "\nTop headlines:\n")
	for i, h := range headlines {
		fmt.Fprintf(w, "%d. %s\n", i+1, h.Title)
	}

	choice, err := pickNumber(rl, w, "Select an article (0 to cancel): ", len(headlines))
	if err != nil || choice == 0 {
		return nil, err
	}

	return headlines[choice-1], nil
}

// pickNumber prompts until the user enters a number in [0, max]
func pickNumber(rl *readline.Instance, w io.Writer, prompt string, max int) (int, error) {
	for {
		rl.SetPrompt(prompt)
		line, err := rl.Readline()
		if err != nil {
			// Ctrl-C / Ctrl-D cancel the selection
			return 0, nil
		}

		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || n < 0 || n > max {
			fmt.Fprintf(w, "Please enter a number between 0 and %d\n", max)
			continue
		}
		return n, nil
	}
}

func writeArtifacts(dir string, result *model.Draft) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return goerr.Wrap(err, "failed to create output directory", goerr.V("dir", dir))
	}

	if err := os.WriteFile(filepath.Join(dir, "generated_post.txt"), []byte(result.Post), 0o644); err != nil {
		return goerr.Wrap(err, "failed to write post artifact")
	}
	if result.ImagePrompt != "" {
		if err := os.WriteFile(filepath.Join(dir, "generated_image_prompt.txt"), []byte(result.ImagePrompt), 0o644); err != nil {
			return goerr.Wrap(err, "failed to write image prompt artifact")
		}
	}

	return nil
}
