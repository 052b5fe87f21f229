package populate_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/postforge/pkg/repository"
	"github.com/m-mizutani/postforge/pkg/usecase/populate"
)

type mockEmbedder struct {
	embedFunc func(ctx context.Context, text string) ([]float32, error)
}

func (m *mockEmbedder) GenerateText(ctx context.Context, prompt string) (string, error) {
	return "", errors.New("not implemented")
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.embedFunc != nil {
		return m.embedFunc(ctx, text)
	}
	return []float32{float32(len(text)), 1, 0}, nil
}

func (m *mockEmbedder) Probe(ctx context.Context) error {
	return nil
}

func TestReadPosts(t *testing.T) {
	ctx := context.Background()

	t.Run("first field of each record is the post text", func(t *testing.T) {
		input := "First post here|2024-01-01|extra\nSecond post|2024-01-02\nThird post\n"
		posts := gt.R1(populate.ReadPosts(ctx, strings.NewReader(input))).NoError(t)
		gt.A(t, posts).Length(3)
		gt.V(t, posts[0]).Equal("First post here")
		gt.V(t, posts[1]).Equal("Second post")
		gt.V(t, posts[2]).Equal("Third post")
	})

	t.Run("records with empty first field skipped", func(t *testing.T) {
		input := "Kept|meta\n|only metadata\n   |padded empty\nAlso kept|x\n"
		posts := gt.R1(populate.ReadPosts(ctx, strings.NewReader(input))).NoError(t)
		gt.A(t, posts).Length(2)
		gt.V(t, posts[0]).Equal("Kept")
		gt.V(t, posts[1]).Equal("Also kept")
	})

	t.Run("empty input yields no posts", func(t *testing.T) {
		posts := gt.R1(populate.ReadPosts(ctx, strings.NewReader(""))).NoError(t)
		gt.A(t, posts).Length(0)
	})
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("posts embedded and stored", func(t *testing.T) {
		repo := repository.NewMemory()
		uc := populate.New(repo, &mockEmbedder{})

		input := "Post one|2024-01-01\nPost two|2024-01-02\nPost three|2024-01-03\n"
		count := gt.R1(uc.Run(ctx, strings.NewReader(input))).NoError(t)
		gt.V(t, count).Equal(3)

		total := gt.R1(repo.CountPosts(ctx)).NoError(t)
		gt.V(t, total).Equal(int64(3))
	})

	t.Run("re-running the same file is idempotent", func(t *testing.T) {
		repo := repository.NewMemory()
		uc := populate.New(repo, &mockEmbedder{})

		input := "Post one|x\nPost two|y\n"
		gt.R1(uc.Run(ctx, strings.NewReader(input))).NoError(t)
		gt.R1(uc.Run(ctx, strings.NewReader(input))).NoError(t)

		total := gt.R1(repo.CountPosts(ctx)).NoError(t)
		gt.V(t, total).Equal(int64(2))
	})

	t.Run("embedding failure aborts the batch", func(t *testing.T) {
		repo := repository.NewMemory()
		embedder := &mockEmbedder{
			embedFunc: func(ctx context.Context, text string) ([]float32, error) {
				return nil, errors.New("model not loaded")
			},
		}
		uc := populate.New(repo, embedder)

		_, err := uc.Run(ctx, strings.NewReader("Post one|x\n"))
		gt.Error(t, err)

		total := gt.R1(repo.CountPosts(ctx)).NoError(t)
		gt.V(t, total).Equal(int64(0))
	})

	t.Run("empty file writes nothing", func(t *testing.T) {
		repo := repository.NewMemory()
		uc := populate.New(repo, &mockEmbedder{})

		count := gt.R1(uc.Run(ctx, strings.NewReader(""))).NoError(t)
		gt.V(t, count).Equal(0)
	})
}
