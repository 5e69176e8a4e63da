package crossref

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/matsen/citagraph/internal/paper"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// BaseURL is the Crossref REST API base URL.
	BaseURL = "https://api.crossref.org"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit keeps us within the public pool's 50 requests/second allowance.
	RateLimit = 10.0

	// UserAgentProduct identifies this tool to Crossref.
	UserAgentProduct = "citagraph/1.0"

	// maxResponseBytes bounds the size of a work record we are willing to decode.
	maxResponseBytes = 16 * 1024 * 1024
)

// Client is a rate-limited HTTP client for the Crossref works endpoint.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	mailto     string
	logger     *zap.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithMailto sets the contact address sent in the User-Agent (Crossref "polite pool").
func WithMailto(addr string) ClientOption {
	return func(c *Client) {
		c.mailto = addr
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a new Crossref API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
		logger:     zap.NewNop(),
	}

	// Check for contact address in environment
	if addr := os.Getenv("CROSSREF_MAILTO"); addr != "" {
		c.mailto = addr
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// userAgent returns the User-Agent header value.
func (c *Client) userAgent() string {
	if c.mailto == "" {
		return UserAgentProduct
	}
	return fmt.Sprintf("%s (mailto:%s)", UserAgentProduct, c.mailto)
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response, doi string) error {
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, doi)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return &APIError{StatusCode: resp.StatusCode, DOI: doi}
	}
	return nil
}

// GetWork fetches the work record registered for doi.
// Makes exactly one request; there is no retry.
func (c *Client) GetWork(ctx context.Context, doi string) (*Work, error) {
	doi = paper.StripDOIPrefix(doi)
	if doi == "" {
		return nil, ErrEmptyDOI
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	// DOIs contain slashes that must stay literal in the path.
	reqURL := c.baseURL + "/works/" + url.PathEscape(doi)
	reqURL = strings.ReplaceAll(reqURL, "%2F", "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent())

	c.logger.Debug("crossref request", zap.String("url", reqURL))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("crossref response", zap.String("doi", doi), zap.Int("status", resp.StatusCode))

	if err := checkHTTPErrors(resp, doi); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrNetworkError, err)
	}

	var wr WorkResponse
	if err := json.Unmarshal(body, &wr); err != nil {
		return nil, fmt.Errorf("%w: parsing work: %v", ErrInvalidResponse, err)
	}
	if wr.Status != "" && wr.Status != "ok" {
		return nil, fmt.Errorf("%w: status %q", ErrInvalidResponse, wr.Status)
	}

	return &wr.Message, nil
}

// FetchMetadata fetches a work and maps it to Metadata.
func (c *Client) FetchMetadata(ctx context.Context, doi string) (*Metadata, error) {
	work, err := c.GetWork(ctx, doi)
	if err != nil {
		return nil, err
	}
	md := ToMetadata(*work, paper.StripDOIPrefix(doi))
	return &md, nil
}
