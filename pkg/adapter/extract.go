package adapter

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/m-mizutani/goerr/v2"
)

// Extractor downloads an article page and returns its main body as plain
// text. Any network, HTTP, or parse failure is an error; callers treat it
// as "content unavailable" and skip generation.
type Extractor interface {
	FetchArticle(ctx context.Context, articleURL string) (string, error)
}

type extractor struct {
	httpClient *http.Client
}

// NewExtractor creates a new article content extractor
func NewExtractor() Extractor {
	return &extractor{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Selectors likely to wrap the main article body, tried in order
const mainContentSelector = "article, main, [role='main'], .article-body, .post-content, .content, #content"

func (x *extractor) FetchArticle(ctx context.Context, articleURL string) (string, error) {
	if articleURL == "" {
		return "", goerr.New("article URL is required")
	}

	req, err := http.NewRequestWithContext(ctx, "GET", articleURL, nil)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create request", goerr.V("url", articleURL))
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; postforge/1.0)")

	resp, err := x.httpClient.Do(req)
	if err != nil {
		return "", goerr.Wrap(err, "failed to download article", goerr.V("url", articleURL))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", goerr.New("article page returned error",
			goerr.V("url", articleURL),
			goerr.V("status", resp.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", goerr.Wrap(err, "failed to parse article HTML", goerr.V("url", articleURL))
	}

	text := extractMainText(doc)
	if text == "" {
		return "", goerr.New("no article body found", goerr.V("url", articleURL))
	}

	return text, nil
}

// extractMainText strips boilerplate and joins the paragraph text of the
// most likely main-content node
func extractMainText(doc *goquery.Document) string {
	doc.Find("script, style, noscript, nav, header, footer, aside, form, iframe, figure").Remove()

	content := doc.Find(mainContentSelector).First()
	if content.Length() == 0 {
		content = doc.Find("body")
	}

	var paragraphs []string
	content.Find("p").Each(func(_ int, s *goquery.Selection) {
		p := strings.TrimSpace(s.Text())
		// Short fragments are almost always captions, bylines, or cookie
		// banners
		if len(p) >= 40 {
			paragraphs = append(paragraphs, p)
		}
	})

	if len(paragraphs) == 0 {
		// Fall back to raw text of the content node
		return strings.TrimSpace(content.Text())
	}

	return strings.Join(paragraphs, "\n\n")
}
