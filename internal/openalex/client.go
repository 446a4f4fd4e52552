package openalex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public OpenAlex API.
	DefaultBaseURL = "https://api.openalex.org"

	// DefaultTimeout bounds every call, rate-limit wait included.
	DefaultTimeout = 10 * time.Second

	DefaultSearchLimit = 10

	// SearchAuthorLimit caps the author list of search results only.
	// FetchByID returns every author.
	SearchAuthorLimit = 5

	// DefaultRateLimit stays inside the OpenAlex polite pool allowance.
	DefaultRateLimit = 10.0

	sortMostCited = "cited_by_count:desc"
	userAgent     = "paper-catalog/1.0"
)

// Client talks to the OpenAlex works API. Each call is a single attempt.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	mailto     string
	timeout    time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL points the client at another host (for testing).
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithMailto identifies the caller so requests join the polite pool.
func WithMailto(email string) ClientOption {
	return func(c *Client) {
		c.mailto = email
	}
}

// WithTimeout overrides DefaultTimeout. The bound is applied per call through
// the request context, so it is the only deadline in effect.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit paces outgoing requests. A value <= 0 disables pacing.
func WithRateLimit(perSecond float64) ClientOption {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
		baseURL:    DefaultBaseURL,
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search returns at most limit works matching query, each with at most
// SearchAuthorLimit authors.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Work, error) {
	return c.search(ctx, query, limit, "")
}

// SearchMostCited is Search ordered by citation count, highest first.
func (c *Client) SearchMostCited(ctx context.Context, query string, limit int) ([]Work, error) {
	return c.search(ctx, query, limit, sortMostCited)
}

func (c *Client) search(ctx context.Context, query string, limit int, sortBy string) ([]Work, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	params := url.Values{}
	params.Set("search", query)
	params.Set("per_page", strconv.Itoa(limit))
	if sortBy != "" {
		params.Set("sort", sortBy)
	}

	var page worksPage
	if err := c.getJSON(ctx, "/works", params, &page); err != nil {
		return nil, err
	}

	works := make([]Work, 0, len(page.Results))
	for _, raw := range page.Results {
		if len(works) == limit {
			break
		}
		works = append(works, raw.normalize(SearchAuthorLimit))
	}

	zerolog.Ctx(ctx).Debug().Str("query", query).Int("count", len(works)).Msg("OpenAlex search completed")
	return works, nil
}

// FetchByID looks up one work by bare id or id URL. It returns
// ErrWorkNotFound when OpenAlex answers 404.
func (c *Client) FetchByID(ctx context.Context, externalID string) (*Work, error) {
	id := WorkID(externalID)
	if id == "" {
		return nil, ErrWorkNotFound
	}

	var raw rawWork
	err := c.getJSON(ctx, "/works/"+(&url.URL{Path: id}).EscapedPath(), url.Values{}, &raw)
	if err != nil {
		var svcErr *ServiceError
		if errors.As(err, &svcErr) && svcErr.StatusCode == http.StatusNotFound {
			return nil, ErrWorkNotFound
		}
		return nil, err
	}

	work := raw.normalize(0)
	return &work, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.mailto != "" {
		params.Set("mailto", c.mailto)
	}
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return &ServiceError{URL: reqURL, Err: fmt.Errorf("rate limiter: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &ServiceError{URL: reqURL, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ServiceError{URL: reqURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &ServiceError{
			URL:        reqURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s for url %s", resp.Status, reqURL),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ServiceError{URL: reqURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}
