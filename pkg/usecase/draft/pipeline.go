package draft

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/postforge/pkg/model"
	"github.com/m-mizutani/postforge/pkg/utils/logging"
)

var ErrContentUnavailable = goerr.New("article content unavailable")

// FetchArticle resolves the full article body for a URL-only article. The
// title comes from the headline listing; the content comes from the page.
func (u *UseCase) FetchArticle(ctx context.Context, articleURL, title string) (*model.Article, error) {
	if title == "" {
		return nil, model.ErrEmptyTitle
	}
	if articleURL == "" {
		return nil, model.ErrEmptyURL
	}
	if u.extractor == nil {
		return nil, goerr.Wrap(ErrContentUnavailable, "no extractor configured")
	}

	logger := logging.From(ctx)
	logger.Info("fetching full article content", "title", title, "url", articleURL)

	content, err := u.extractor.FetchArticle(ctx, articleURL)
	if err != nil {
		logger.Error("could not retrieve article content", "url", articleURL, "error", err)
		return nil, goerr.Wrap(ErrContentUnavailable, "failed to fetch article", goerr.V("url", articleURL))
	}

	logger.Info("fetched article content", "chars", len(content))

	return &model.Article{
		Title:   title,
		URL:     articleURL,
		Content: content,
	}, nil
}

// Generate runs retrieve -> draft -> image prompt for an article whose
// content is already in hand, and persists the result when the store is
// available. Content must be non-empty; fetch failures are decided before
// this point so the generation service is never called for an article we
// could not read.
func (u *UseCase) Generate(ctx context.Context, article *model.Article) (*model.Draft, error) {
	if err := article.Validate(); err != nil {
		return nil, err
	}

	logger := logging.From(ctx)

	examples := u.FindRelevantPosts(ctx, article.Title, u.retrieveLimit)

	post, err := u.DraftPost(ctx, article.Title, article.Content, examples)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to draft post", goerr.V("title", article.Title))
	}

	// A missing image prompt does not invalidate the draft
	imagePrompt, err := u.ImagePrompt(ctx, article.Title, post)
	if err != nil {
		logger.Warn("could not generate image prompt", "title", article.Title, "error", err)
		imagePrompt = ""
	}

	result := &model.Draft{
		ID:           model.NewDraftID(),
		ArticleTitle: article.Title,
		ArticleURL:   article.URL,
		Post:         post,
		ImagePrompt:  imagePrompt,
		CreatedAt:    time.Now(),
	}

	if u.repo != nil && u.caps.Store {
		if err := u.repo.PutDraft(ctx, result); err != nil {
			logger.Warn("failed to persist draft", "id", result.ID, "error", err)
		}
	}

	return result, nil
}

// FromArticle is the full request-time pipeline: fetch the article body,
// then generate. If the content cannot be retrieved the request is
// reported as "cannot generate" without touching the generation service.
func (u *UseCase) FromArticle(ctx context.Context, articleURL, title string) (*model.Draft, error) {
	article, err := u.FetchArticle(ctx, articleURL, title)
	if err != nil {
		return nil, err
	}

	return u.Generate(ctx, article)
}
