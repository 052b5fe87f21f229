package adapter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/postforge/pkg/model"
)

const newsAPIBaseURL = "https://newsapi.org/v2"

// Categories accepted by the top-headlines endpoint
var HeadlineCategories = []string{
	"business",
	"entertainment",
	"general",
	"health",
	"science",
	"sports",
	"technology",
}

// HeadlinesQuery holds parameters for a top-headlines request. Zero values
// fall back to the service defaults (language "en", country "us",
// page size 5).
type HeadlinesQuery struct {
	Query    string
	Sources  string
	Category string
	Language string
	Country  string
	PageSize int
}

const (
	defaultPageSize = 5
	maxPageSize     = 100
)

// Validate rejects malformed parameters before any network call
func (q *HeadlinesQuery) Validate() error {
	if q.Category != "" {
		valid := false
		for _, c := range HeadlineCategories {
			if q.Category == c {
				valid = true
				break
			}
		}
		if !valid {
			return goerr.New("invalid headline category", goerr.V("category", q.Category))
		}
	}
	if q.PageSize < 0 || q.PageSize > maxPageSize {
		return goerr.New("page size out of range", goerr.V("page_size", q.PageSize))
	}
	return nil
}

// NewsAPI lists top headlines from a NewsAPI-compatible service
type NewsAPI interface {
	TopHeadlines(ctx context.Context, q HeadlinesQuery) ([]*model.Headline, error)
}

type newsAPIClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

type NewsAPIOption func(*newsAPIClient)

// WithNewsAPIBaseURL overrides the service endpoint, mainly for tests
func WithNewsAPIBaseURL(baseURL string) NewsAPIOption {
	return func(c *newsAPIClient) {
		c.baseURL = baseURL
	}
}

// NewNewsAPI creates a new headline service client
func NewNewsAPI(apiKey string, opts ...NewsAPIOption) (NewsAPI, error) {
	if apiKey == "" {
		return nil, goerr.New("news API key is required")
	}

	c := &newsAPIClient{
		apiKey:  apiKey,
		baseURL: newsAPIBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

type topHeadlinesResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
	} `json:"articles"`
}

func (c *newsAPIClient) TopHeadlines(ctx context.Context, q HeadlinesQuery) ([]*model.Headline, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	params := url.Values{}
	if q.Query != "" {
		params.Set("q", q.Query)
	}
	if q.Sources != "" {
		params.Set("sources", q.Sources)
	}
	if q.Category != "" {
		params.Set("category", q.Category)
	}
	language := q.Language
	if language == "" {
		language = "en"
	}
	params.Set("language", language)
	country := q.Country
	if country == "" {
		country = "us"
	}
	params.Set("country", country)
	pageSize := q.PageSize
	if pageSize == 0 {
		pageSize = defaultPageSize
	}
	params.Set("pageSize", strconv.Itoa(pageSize))

	endpoint := c.baseURL + "/top-headlines?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request")
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, goerr.New("headline service returned error",
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(body)))
	}

	var result topHeadlinesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, goerr.Wrap(err, "failed to decode response")
	}

	// The service reports application errors with HTTP 200 and a non-ok
	// status field
	if result.Status != "ok" {
		return nil, goerr.New("headline service rejected request",
			goerr.V("code", result.Code),
			goerr.V("message", result.Message))
	}

	headlines := make([]*model.Headline, 0, len(result.Articles))
	for _, a := range result.Articles {
		headlines = append(headlines, &model.Headline{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
		})
	}

	return headlines, nil
}
