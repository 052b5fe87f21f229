package draft_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/postforge/pkg/model"
	"github.com/m-mizutani/postforge/pkg/repository"
	"github.com/m-mizutani/postforge/pkg/usecase/draft"
)

type mockExtractor struct {
	fetchFunc func(ctx context.Context, url string) (string, error)
}

func (m *mockExtractor) FetchArticle(ctx context.Context, url string) (string, error) {
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, url)
	}
	return "", errors.New("not implemented")
}

func TestFromArticle(t *testing.T) {
	ctx := context.Background()

	t.Run("fetch failure never reaches the generation service", func(t *testing.T) {
		called := false
		mock := &mockGemini{
			generateFunc: func(ctx context.Context, prompt string) (string, error) {
				called = true
				return "draft", nil
			},
		}
		extractor := &mockExtractor{
			fetchFunc: func(ctx context.Context, url string) (string, error) {
				return "", errors.New("connection refused")
			},
		}

		uc := draft.New(nil, mock, allCaps, draft.WithExtractor(extractor))
		_, err := uc.FromArticle(ctx, "https://example.com/article", "Fed cuts rates")
		gt.Error(t, err)
		gt.V(t, errors.Is(err, draft.ErrContentUnavailable)).Equal(true)
		gt.V(t, called).Equal(false)
	})

	t.Run("missing extractor reported as content unavailable", func(t *testing.T) {
		uc := draft.New(nil, &mockGemini{}, allCaps)
		_, err := uc.FromArticle(ctx, "https://example.com/article", "Fed cuts rates")
		gt.Error(t, err)
		gt.V(t, errors.Is(err, draft.ErrContentUnavailable)).Equal(true)
	})

	t.Run("missing title or url rejected before fetch", func(t *testing.T) {
		fetched := false
		extractor := &mockExtractor{
			fetchFunc: func(ctx context.Context, url string) (string, error) {
				fetched = true
				return "body", nil
			},
		}

		uc := draft.New(nil, &mockGemini{}, allCaps, draft.WithExtractor(extractor))
		_, err := uc.FromArticle(ctx, "https://example.com/article", "")
		gt.Error(t, err)
		_, err = uc.FromArticle(ctx, "", "Fed cuts rates")
		gt.Error(t, err)
		gt.V(t, fetched).Equal(false)
	})

	t.Run("happy path produces a persisted draft", func(t *testing.T) {
		mock := &mockGemini{
			generateFunc: func(ctx context.Context, prompt string) (string, error) {
				return "<think>drafting</think>Rates are down! #BackToBasic", nil
			},
			embedFunc: func(ctx context.Context, text string) ([]float32, error) {
				return []float32{1, 0, 0}, nil
			},
		}
		extractor := &mockExtractor{
			fetchFunc: func(ctx context.Context, url string) (string, error) {
				return "The Federal Reserve lowered rates today.", nil
			},
		}

		repo := repository.NewMemory()
		uc := draft.New(repo, mock, allCaps, draft.WithExtractor(extractor))

		result, err := uc.FromArticle(ctx, "https://example.com/article", "Fed cuts rates")
		gt.NoError(t, err)
		gt.V(t, result.Post).Equal("Rates are down! #BackToBasic")
		gt.V(t, result.ArticleTitle).Equal("Fed cuts rates")
		gt.V(t, result.ArticleURL).Equal("https://example.com/article")
		gt.V(t, result.ID != "").Equal(true)

		stored := gt.R1(repo.GetDraft(ctx, result.ID)).NoError(t)
		gt.V(t, stored.Post).Equal(result.Post)
	})
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	t.Run("image prompt failure does not invalidate the draft", func(t *testing.T) {
		calls := 0
		mock := &mockGemini{
			generateFunc: func(ctx context.Context, prompt string) (string, error) {
				calls++
				if calls == 1 {
					return "Rates are down! #BackToBasic", nil
				}
				return "", errors.New("quota exceeded")
			},
		}

		caps := model.Capabilities{Generation: true}
		uc := draft.New(nil, mock, caps)

		article := &model.Article{
			Title:   "Fed cuts rates",
			URL:     "https://example.com/article",
			Content: "The Federal Reserve lowered rates today.",
		}
		result, err := uc.Generate(ctx, article)
		gt.NoError(t, err)
		gt.V(t, result.Post).Equal("Rates are down! #BackToBasic")
		gt.V(t, result.ImagePrompt).Equal("")
	})

	t.Run("draft failure aborts the pipeline", func(t *testing.T) {
		mock := &mockGemini{
			generateFunc: func(ctx context.Context, prompt string) (string, error) {
				return "", errors.New("service unreachable")
			},
		}

		uc := draft.New(nil, mock, model.Capabilities{Generation: true})
		article := &model.Article{
			Title:   "Fed cuts rates",
			URL:     "https://example.com/article",
			Content: "body",
		}
		_, err := uc.Generate(ctx, article)
		gt.Error(t, err)
	})

	t.Run("retrieval failure is tolerated", func(t *testing.T) {
		mock := &mockGemini{
			generateFunc: func(ctx context.Context, prompt string) (string, error) {
				return "post", nil
			},
			embedFunc: func(ctx context.Context, text string) ([]float32, error) {
				return nil, errors.New("embedding down")
			},
		}

		// Embedding is down so retrieval degrades; the draft still lands
		repo := repository.NewMemory()
		uc := draft.New(repo, mock, allCaps)
		article := &model.Article{
			Title:   "Fed cuts rates",
			URL:     "https://example.com/article",
			Content: "body",
		}
		result, err := uc.Generate(ctx, article)
		gt.NoError(t, err)
		gt.V(t, result.Post).Equal("post")
	})
}
