package harvester

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"jobharvest/internal/config"
	"jobharvest/internal/logging"
	"jobharvest/internal/naukri"
	"jobharvest/pkg/models"
)

// PageFetcher is the harvester's view of the search API client. The naukri
// client satisfies it; tests substitute stubs.
type PageFetcher interface {
	FetchPage(ctx context.Context, req naukri.PageRequest, errs naukri.ErrorRecorder) (*naukri.SearchResponse, error)
}

// DelayFunc is called between successful pages to pace requests politely.
type DelayFunc func()

// RandomDelay sleeps for a duration drawn uniformly from [min, max].
func RandomDelay(min, max time.Duration) DelayFunc {
	return func() {
		d := min
		if max > min {
			d += time.Duration(rand.Int63n(int64(max - min)))
		}
		time.Sleep(d)
	}
}

// Option configures a Harvester.
type Option func(*Harvester)

// WithDelay replaces the inter-page delay strategy. Tests use a no-op delay
// to run deterministically.
func WithDelay(delay DelayFunc) Option {
	return func(h *Harvester) {
		h.delay = delay
	}
}

// WithClock replaces the capture-time clock used when stamping records.
func WithClock(now func() time.Time) Option {
	return func(h *Harvester) {
		h.normalizer = NewNormalizer(h.cfg, now)
	}
}

// Harvester drives the paginated fetcher across pages, normalizing and
// accumulating records until a stop condition is reached. One harvest is
// strictly sequential; a page is fully processed before the next is fetched.
type Harvester struct {
	cfg        *config.Config
	fetcher    PageFetcher
	normalizer *Normalizer
	delay      DelayFunc
	logger     logging.Logger
}

// New creates a harvester using the given page fetcher.
func New(cfg *config.Config, fetcher PageFetcher, opts ...Option) *Harvester {
	h := &Harvester{
		cfg:        cfg,
		fetcher:    fetcher,
		normalizer: NewNormalizer(cfg, nil),
		delay:      RandomDelay(cfg.Harvester.MinPageDelay, cfg.Harvester.MaxPageDelay),
		logger:     logging.GetGlobalLogger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes one harvest for the given keyword, optional location and
// requested result count. Fetch and parse errors never abort the run; it
// stops gracefully and returns whatever was collected, with the errors
// recorded on the result.
func (h *Harvester) Run(ctx context.Context, keyword, location string, maxResults int) *models.HarvestResult {
	if maxResults <= 0 {
		maxResults = h.cfg.Harvester.MaxResults
	}

	pageSize := h.cfg.Harvester.PageSize
	if maxResults < pageSize {
		pageSize = maxResults
	}

	h.logger.Info("Starting harvest", map[string]interface{}{
		"keyword":     keyword,
		"location":    location,
		"max_results": maxResults,
	})

	result := &models.HarvestResult{
		Keyword:   keyword,
		Location:  location,
		Errors:    models.NewErrorLog(),
		StartedAt: time.Now(),
	}

	page := 1
	for len(result.Records) < maxResults {
		if err := ctx.Err(); err != nil {
			result.Errors.Addf("harvest cancelled: %v", err)
			break
		}

		h.logger.Info("Fetching page", map[string]interface{}{
			"page":           page,
			"jobs_collected": len(result.Records),
		})

		resp, err := h.fetcher.FetchPage(ctx, naukri.PageRequest{
			Keyword:  keyword,
			Location: location,
			Page:     page,
			PageSize: pageSize,
		}, result.Errors)
		if err != nil {
			// Exhausted retries or a malformed body both mean no more
			// pages are coming; stop with what we have.
			if !errors.Is(err, naukri.ErrDecodeFailed) && !errors.Is(err, naukri.ErrRetriesExhausted) {
				result.Errors.Addf("fetch failed: %v", err)
			}
			h.logger.Error("Failed to fetch page", map[string]interface{}{
				"page":  page,
				"error": err.Error(),
			})
			break
		}
		result.PagesFetched++

		if len(resp.List) == 0 {
			h.logger.Info("No more jobs found", map[string]interface{}{"page": page})
			break
		}

		h.logger.Info("Processing page", map[string]interface{}{
			"page":            page,
			"jobs_on_page":    len(resp.List),
			"total_available": resp.TotalJobs,
		})

		for _, raw := range resp.List {
			if len(result.Records) >= maxResults {
				break
			}

			record := h.normalizer.Normalize(raw, result.Errors)
			if record.IsValid() {
				result.Records = append(result.Records, record)
			} else {
				h.logger.Warn("Skipped job with missing title", map[string]interface{}{"page": page})
			}
		}

		if resp.TotalPages > 0 && page >= resp.TotalPages {
			h.logger.Info("Reached last page", map[string]interface{}{"total_pages": resp.TotalPages})
			break
		}
		if len(result.Records) >= maxResults {
			break
		}

		page++
		h.delay()
	}

	result.FinishedAt = time.Now()
	result.ErrorCount = result.Errors.Count()

	h.logger.Info("Harvest completed", map[string]interface{}{
		"keyword":        keyword,
		"jobs_collected": len(result.Records),
		"pages_fetched":  result.PagesFetched,
		"errors":         result.ErrorCount,
	})

	return result
}
