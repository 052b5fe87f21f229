package populate

import (
	"context"
	"encoding/csv"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/postforge/pkg/adapter"
	"github.com/m-mizutani/postforge/pkg/model"
	"github.com/m-mizutani/postforge/pkg/repository"
	"github.com/m-mizutani/postforge/pkg/utils/logging"
)

// UseCase is the offline batch job that seeds the vector store from a
// delimited file of past posts
type UseCase struct {
	repo   repository.Repository
	gemini adapter.Gemini
}

// New creates a new populate UseCase instance
func New(repo repository.Repository, gemini adapter.Gemini) *UseCase {
	return &UseCase{
		repo:   repo,
		gemini: gemini,
	}
}

// ReadPosts parses a pipe-delimited file. The first field of each record
// is the post text; records with an empty first field are skipped with a
// warning.
func ReadPosts(ctx context.Context, r io.Reader) ([]string, error) {
	logger := logging.From(ctx)

	reader := csv.NewReader(r)
	reader.Comma = '|'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	var posts []string
	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read posts file", goerr.V("line", line))
		}

		if len(record) == 0 || strings.TrimSpace(record[0]) == "" {
			logger.Warn("skipping empty post", "line", line)
			continue
		}
		posts = append(posts, strings.TrimSpace(record[0]))
	}

	return posts, nil
}

// Run embeds each post and upserts it into the store. IDs are derived from
// the post text, so re-running over the same file is idempotent. Returns
// the number of posts written.
func (u *UseCase) Run(ctx context.Context, r io.Reader) (int, error) {
	logger := logging.From(ctx)

	texts, err := ReadPosts(ctx, r)
	if err != nil {
		return 0, err
	}
	if len(texts) == 0 {
		logger.Warn("no posts loaded, store will not be populated")
		return 0, nil
	}

	logger.Info("generating embeddings", "posts", len(texts))

	now := time.Now()
	posts := make([]*model.Post, 0, len(texts))
	for _, text := range texts {
		vector, err := u.gemini.Embed(ctx, text)
		if err != nil {
			return 0, goerr.Wrap(err, "failed to embed post", goerr.V("text", text))
		}

		posts = append(posts, &model.Post{
			ID:        model.NewPostID(text),
			Text:      text,
			Embedding: firestore.Vector32(vector),
			CreatedAt: now,
		})
	}

	if err := u.repo.PutPosts(ctx, posts); err != nil {
		return 0, goerr.Wrap(err, "failed to store posts")
	}

	logger.Info("populated vector store", "posts", len(posts))
	return len(posts), nil
}
