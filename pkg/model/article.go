package model

import "github.com/m-mizutani/goerr/v2"

var (
	ErrEmptyTitle   = goerr.New("article title is empty")
	ErrEmptyContent = goerr.New("article content is empty")
	ErrEmptyURL     = goerr.New("article URL is empty")
)

// Article is the news item a draft is generated from. Constructed per
// request, never persisted.
type Article struct {
	Title   string
	URL     string
	Content string
}

// Validate checks the article has enough material to prompt with
func (a *Article) Validate() error {
	if a.Title == "" {
		return ErrEmptyTitle
	}
	if a.Content == "" {
		return ErrEmptyContent
	}
	return nil
}

// Headline is a single row of a top-headlines listing.
type Headline struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}
