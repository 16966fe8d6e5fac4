package naukri

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"jobharvest/internal/config"
	"jobharvest/internal/logging"
)

// Sentinel errors returned by FetchPage.
var (
	// ErrDecodeFailed marks a malformed body on an otherwise successful
	// response. It is terminal for the page; no further retries help.
	ErrDecodeFailed = errors.New("failed to decode search response")

	// ErrRetriesExhausted is returned once every attempt for a page has
	// failed.
	ErrRetriesExhausted = errors.New("retries exhausted")
)

// ErrorRecorder receives the errors encountered while fetching, so the
// caller can carry them alongside the harvest result.
type ErrorRecorder interface {
	Addf(format string, args ...interface{})
}

// Client fetches pages from the job search API with retry, backoff and
// rate-limit handling.
type Client struct {
	cfg        *config.Config
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     logging.Logger
	userAgent  string
	sleep      func(time.Duration)
}

// NewClient creates a search API client from configuration.
func NewClient(cfg *config.Config) *Client {
	userAgent := ""
	if agents := cfg.Naukri.UserAgents; len(agents) > 0 {
		userAgent = agents[rand.Intn(len(agents))]
	}

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Harvester.RequestTimeout,
		},
		limiter:   rate.NewLimiter(rate.Limit(float64(cfg.Harvester.RateLimit)/60.0), 1),
		logger:    logging.GetGlobalLogger(),
		userAgent: userAgent,
		sleep:     time.Sleep,
	}
}

// FetchPage performs one paginated search call with up to MaxRetries
// attempts. A rate-limited response waits a cooldown and consumes an attempt
// from the same budget as other failures, so a page never issues more than
// MaxRetries requests. Attempt-level errors are recorded on errs; the
// returned error reflects the final outcome only.
func (c *Client) FetchPage(ctx context.Context, req PageRequest, errs ErrorRecorder) (*SearchResponse, error) {
	endpoint := c.cfg.Naukri.BaseURL + c.cfg.Naukri.SearchPath
	retryDelay := c.cfg.Harvester.RetryDelay

	for attempt := 1; attempt <= c.cfg.Harvester.MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		c.logger.Info("Making API request", map[string]interface{}{
			"page":    req.Page,
			"attempt": attempt,
		})

		resp, err := c.doRequest(ctx, endpoint, req)
		if err != nil {
			c.logger.Error("Request failed", map[string]interface{}{
				"page":  req.Page,
				"error": err.Error(),
			})
			errs.Addf("request failed: %v", err)

			if attempt < c.cfg.Harvester.MaxRetries {
				c.sleep(retryDelay)
				retryDelay *= 2
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			if readErr != nil {
				c.logger.Error("Failed to read response body", map[string]interface{}{
					"page":  req.Page,
					"error": readErr.Error(),
				})
				errs.Addf("read error: %v", readErr)
				return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, readErr)
			}

			var search SearchResponse
			if err := json.Unmarshal(body, &search); err != nil {
				c.logger.Error("JSON decode error", map[string]interface{}{
					"page":  req.Page,
					"error": err.Error(),
				})
				errs.Addf("JSON decode error: %v", err)
				return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
			}
			return &search, nil

		case resp.StatusCode == http.StatusTooManyRequests:
			cooldown := c.cfg.Harvester.RetryDelay * 2
			c.logger.Warn("Rate limited, waiting before retry", map[string]interface{}{
				"page":     req.Page,
				"cooldown": cooldown.String(),
			})
			if attempt < c.cfg.Harvester.MaxRetries {
				c.sleep(cooldown)
			}

		default:
			c.logger.Error("Unexpected HTTP status", map[string]interface{}{
				"page":   req.Page,
				"status": resp.StatusCode,
			})
			errs.Addf("HTTP %d", resp.StatusCode)

			if attempt < c.cfg.Harvester.MaxRetries {
				c.sleep(retryDelay)
				retryDelay *= 2
			}
		}
	}

	return nil, fmt.Errorf("%w: page %d failed after %d attempts", ErrRetriesExhausted, req.Page, c.cfg.Harvester.MaxRetries)
}

// doRequest builds and executes one HTTP GET against the search endpoint.
func (c *Client) doRequest(ctx context.Context, endpoint string, req PageRequest) (*http.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("noOfResults", strconv.Itoa(req.PageSize))
	query.Set("keyword", req.Keyword)
	query.Set("pageNo", strconv.Itoa(req.Page))
	if req.Location != "" {
		query.Set("location", ResolveLocation(req.Location))
	}
	httpReq.URL.RawQuery = query.Encode()

	c.applyHeaders(httpReq)

	return c.httpClient.Do(httpReq)
}

// applyHeaders sets browser-like headers; job boards reject bare clients.
func (c *Client) applyHeaders(req *http.Request) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Referer", c.cfg.Naukri.BaseURL+"/")
	req.Header.Set("Origin", c.cfg.Naukri.BaseURL)
	req.Header.Set("DNT", "1")
	req.Header.Set("Sec-Fetch-Dest", "empty")
	req.Header.Set("Sec-Fetch-Mode", "cors")
	req.Header.Set("Sec-Fetch-Site", "same-origin")
}
