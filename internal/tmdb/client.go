package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/mmcdole/popcorn/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Popcorn/1.0"
)

// Client implements domain.MovieClient for the TMDB v3 API
type Client struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new TMDB API client authenticated with a v4 read access token
func NewClient(baseURL, token string, logger *slog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("tmdb base URL is required")
	}
	if token == "" {
		return nil, fmt.Errorf("tmdb access token is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		token:     token,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// PopularMovies returns one page of the popular-movies listing
func (c *Client) PopularMovies(ctx context.Context, page int) (*domain.MovieResponse, error) {
	var resp MovieListResponse
	if err := c.do(ctx, PopularMovies(page), &resp); err != nil {
		return nil, err
	}
	return MapResponse(resp), nil
}

// MovieDetail returns a single movie by id
func (c *Client) MovieDetail(ctx context.Context, id int) (*domain.Movie, error) {
	var result MovieResult
	if err := c.do(ctx, MovieDetail(id), &result); err != nil {
		return nil, err
	}
	movie := MapMovie(result)
	return &movie, nil
}

// SearchMovies returns one page of title search results
func (c *Client) SearchMovies(ctx context.Context, query string, page int) (*domain.MovieResponse, error) {
	var resp MovieListResponse
	if err := c.do(ctx, SearchMovies(query, page), &resp); err != nil {
		return nil, err
	}
	return MapResponse(resp), nil
}

// buildURL joins the base URL with the endpoint path and query
func (c *Client) buildURL(e Endpoint) (string, error) {
	u, err := url.Parse(c.baseURL + e.Path())
	if err != nil || u.Scheme == "" || u.Host == "" || e.Path() == "" {
		return "", &domain.APIError{Kind: domain.ErrInvalidConfiguration, Err: err}
	}
	if q := e.Query(); len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// do performs an authenticated GET and decodes the JSON body into dest.
// Every failure is returned as a *domain.APIError.
func (c *Client) do(ctx context.Context, e Endpoint, dest any) error {
	reqURL, err := c.buildURL(e)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &domain.APIError{Kind: domain.ErrInvalidConfiguration, Err: err}
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug("tmdb request", "endpoint", e.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isConnectivityError(err) {
			c.logger.Warn("tmdb unreachable", "endpoint", e.String(), "error", err)
			return domain.NewConnectivityError(err)
		}
		c.logger.Error("tmdb request failed", "endpoint", e.String(), "error", err)
		return domain.NewUnclassifiedError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.NewUnclassifiedError(fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("tmdb request error", "endpoint", e.String(), "status", resp.StatusCode, "bodyLen", len(body))
		return domain.NewServerError(resp.StatusCode)
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		return &domain.APIError{Kind: domain.ErrEmptyResponse}
	}

	if err := json.Unmarshal(body, dest); err != nil {
		c.logger.Error("JSON parse error", "endpoint", e.String(), "error", err, "bodyLen", len(body))
		return domain.NewDecodeError(err)
	}

	return nil
}

// isConnectivityError reports whether a transport error means the network
// (rather than the server or the request) is the problem.
func isConnectivityError(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	for _, errno := range []syscall.Errno{
		syscall.ECONNREFUSED,
		syscall.ECONNRESET,
		syscall.ENETUNREACH,
		syscall.EHOSTUNREACH,
		syscall.ENETDOWN,
	} {
		if errors.Is(err, errno) {
			return true
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}

	return false
}
