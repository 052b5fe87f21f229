package draft_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/postforge/pkg/model"
	"github.com/m-mizutani/postforge/pkg/usecase/draft"
)

// mockGemini is a mock implementation of adapter.Gemini for testing
type mockGemini struct {
	generateFunc func(ctx context.Context, prompt string) (string, error)
	embedFunc    func(ctx context.Context, text string) ([]float32, error)
}

func (m *mockGemini) GenerateText(ctx context.Context, prompt string) (string, error) {
	if m.generateFunc != nil {
		return m.generateFunc(ctx, prompt)
	}
	return "", errors.New("not implemented")
}

func (m *mockGemini) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.embedFunc != nil {
		return m.embedFunc(ctx, text)
	}
	return nil, errors.New("not implemented")
}

func (m *mockGemini) Probe(ctx context.Context) error {
	return nil
}

var allCaps = model.Capabilities{Generation: true, Embedding: true, Store: true}

func TestDraftPost(t *testing.T) {
	ctx := context.Background()

	t.Run("prompt embeds examples and article", func(t *testing.T) {
		var captured string
		mock := &mockGemini{
			generateFunc: func(ctx context.Context, prompt string) (string, error) {
				captured = prompt
				return "What's up with rates? #BackToBasic", nil
			},
		}

		uc := draft.New(nil, mock, allCaps)
		post, err := uc.DraftPost(ctx, "Fed cuts rates", "The Federal Reserve lowered rates today.", []string{"Past post A", "Past post B"})
		gt.NoError(t, err)
		gt.S(t, post).Contains("#BackToBasic")

		gt.S(t, captured).Contains("Headline: Fed cuts rates")
		gt.S(t, captured).Contains("The Federal Reserve lowered rates today.")
		gt.S(t, captured).Contains(`- "Past post A"`)
		gt.S(t, captured).Contains(`- "Past post B"`)
		gt.S(t, captured).Contains("1. ")
		gt.S(t, captured).NotContains("No specifically relevant past examples")
	})

	t.Run("placeholder used when no examples retrieved", func(t *testing.T) {
		var captured string
		mock := &mockGemini{
			generateFunc: func(ctx context.Context, prompt string) (string, error) {
				captured = prompt
				return "draft", nil
			},
		}

		uc := draft.New(nil, mock, allCaps)
		_, err := uc.DraftPost(ctx, "Title", "Content", nil)
		gt.NoError(t, err)
		gt.S(t, captured).Contains("No specifically relevant past examples found")
	})

	t.Run("long content truncated with ellipsis", func(t *testing.T) {
		var captured string
		mock := &mockGemini{
			generateFunc: func(ctx context.Context, prompt string) (string, error) {
				captured = prompt
				return "draft", nil
			},
		}

		long := strings.Repeat("a", 2500)
		uc := draft.New(nil, mock, allCaps)
		_, err := uc.DraftPost(ctx, "Title", long, nil)
		gt.NoError(t, err)

		gt.S(t, captured).Contains(strings.Repeat("a", 2000) + "...")
		gt.S(t, captured).NotContains(strings.Repeat("a", 2001))
	})

	t.Run("multibyte content truncated on a character boundary", func(t *testing.T) {
		var captured string
		mock := &mockGemini{
			generateFunc: func(ctx context.Context, prompt string) (string, error) {
				captured = prompt
				return "draft", nil
			},
		}

		long := strings.Repeat("€", 2500)
		uc := draft.New(nil, mock, allCaps)
		_, err := uc.DraftPost(ctx, "Title", long, nil)
		gt.NoError(t, err)

		gt.S(t, captured).Contains(strings.Repeat("€", 2000) + "...")
		gt.S(t, captured).NotContains(strings.Repeat("€", 2001))
		gt.V(t, utf8.ValidString(captured)).Equal(true)
	})

	t.Run("short content passed through unchanged", func(t *testing.T) {
		var captured string
		mock := &mockGemini{
			generateFunc: func(ctx context.Context, prompt string) (string, error) {
				captured = prompt
				return "draft", nil
			},
		}

		content := strings.Repeat("b", 2000)
		uc := draft.New(nil, mock, allCaps)
		_, err := uc.DraftPost(ctx, "Title", content, nil)
		gt.NoError(t, err)

		gt.S(t, captured).Contains(content)
		gt.S(t, captured).NotContains(content + "...")
	})

	t.Run("reasoning segments removed from response", func(t *testing.T) {
		mock := &mockGemini{
			generateFunc: func(ctx context.Context, prompt string) (string, error) {
				return "<think>how should I phrase this?\nhmm</think>\nRates are down! #BackToBasic", nil
			},
		}

		uc := draft.New(nil, mock, allCaps)
		post, err := uc.DraftPost(ctx, "Fed cuts rates", "Some article content.", []string{"Past post A", "Past post B"})
		gt.NoError(t, err)
		gt.V(t, post).Equal("Rates are down! #BackToBasic")
		gt.S(t, post).NotContains("<think>")
		gt.S(t, post).NotContains("</think>")
	})

	t.Run("generation unavailable short-circuits", func(t *testing.T) {
		called := false
		mock := &mockGemini{
			generateFunc: func(ctx context.Context, prompt string) (string, error) {
				called = true
				return "draft", nil
			},
		}

		uc := draft.New(nil, mock, model.Capabilities{})
		_, err := uc.DraftPost(ctx, "Title", "Content", nil)
		gt.Error(t, err)
		gt.V(t, errors.Is(err, draft.ErrGenerationUnavailable)).Equal(true)
		gt.V(t, called).Equal(false)
	})

	t.Run("empty inputs rejected before network call", func(t *testing.T) {
		called := false
		mock := &mockGemini{
			generateFunc: func(ctx context.Context, prompt string) (string, error) {
				called = true
				return "draft", nil
			},
		}

		uc := draft.New(nil, mock, allCaps)
		_, err := uc.DraftPost(ctx, "", "Content", nil)
		gt.Error(t, err)
		_, err = uc.DraftPost(ctx, "Title", "", nil)
		gt.Error(t, err)
		gt.V(t, called).Equal(false)
	})

	t.Run("generation failure surfaces as error", func(t *testing.T) {
		mock := &mockGemini{
			generateFunc: func(ctx context.Context, prompt string) (string, error) {
				return "", errors.New("service unreachable")
			},
		}

		uc := draft.New(nil, mock, allCaps)
		_, err := uc.DraftPost(ctx, "Title", "Content", nil)
		gt.Error(t, err)
	})
}

func TestImagePrompt(t *testing.T) {
	ctx := context.Background()

	t.Run("prompt embeds title and post", func(t *testing.T) {
		var captured string
		mock := &mockGemini{
			generateFunc: func(ctx context.Context, prompt string) (string, error) {
				captured = prompt
				return "<think>visualizing</think>A bustling trading floor at dusk", nil
			},
		}

		uc := draft.New(nil, mock, allCaps)
		result, err := uc.ImagePrompt(ctx, "Fed cuts rates", "Rates are down! #BackToBasic")
		gt.NoError(t, err)
		gt.V(t, result).Equal("A bustling trading floor at dusk")

		gt.S(t, captured).Contains("Article Title: Fed cuts rates")
		gt.S(t, captured).Contains("Generated Post: Rates are down! #BackToBasic")
	})

	t.Run("unavailable service short-circuits", func(t *testing.T) {
		uc := draft.New(nil, &mockGemini{}, model.Capabilities{})
		_, err := uc.ImagePrompt(ctx, "Title", "Post")
		gt.Error(t, err)
		gt.V(t, errors.Is(err, draft.ErrGenerationUnavailable)).Equal(true)
	})
}
