package harvester

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobharvest/internal/config"
	"jobharvest/internal/naukri"
)

type stubFetcher struct {
	pages map[int]*naukri.SearchResponse
	calls int
	err   error
}

func (s *stubFetcher) FetchPage(ctx context.Context, req naukri.PageRequest, errs naukri.ErrorRecorder) (*naukri.SearchResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	resp, ok := s.pages[req.Page]
	if !ok {
		return &naukri.SearchResponse{}, nil
	}
	return resp, nil
}

func listingPage(totalPages, start, count int) *naukri.SearchResponse {
	resp := &naukri.SearchResponse{
		TotalJobs:  totalPages * count,
		TotalPages: totalPages,
	}
	for i := 0; i < count; i++ {
		entry := fmt.Sprintf(`{"post": "Engineer %d", "companyName": "Acme", "jobId": "%d", "city": "Pune"}`, start+i, 1000+start+i)
		resp.List = append(resp.List, json.RawMessage(entry))
	}
	return resp
}

func harvestConfig() *config.Config {
	cfg := testConfig()
	cfg.Harvester.PageSize = 20
	cfg.Harvester.MaxResults = 100
	return cfg
}

func noDelay() Option {
	return WithDelay(func() {})
}

func TestRunStopsOnEmptyPage(t *testing.T) {
	fetcher := &stubFetcher{pages: map[int]*naukri.SearchResponse{
		1: listingPage(3, 0, 5),
		2: listingPage(3, 5, 5),
	}}

	h := New(harvestConfig(), fetcher, noDelay(), WithClock(fixedClock()))
	result := h.Run(context.Background(), "golang", "pune", 0)

	assert.Len(t, result.Records, 10)
	assert.Equal(t, 3, fetcher.calls, "the empty third page ends the run")
	assert.Equal(t, 3, result.PagesFetched)
	assert.Equal(t, 0, result.ErrorCount)
	assert.Equal(t, "golang", result.Keyword)
	assert.Equal(t, "Engineer 0", result.Records[0].Title)
	assert.Equal(t, "Engineer 9", result.Records[9].Title)
}

func TestRunStopsAtLastPage(t *testing.T) {
	fetcher := &stubFetcher{pages: map[int]*naukri.SearchResponse{
		1: listingPage(2, 0, 5),
		2: listingPage(2, 5, 5),
	}}

	h := New(harvestConfig(), fetcher, noDelay(), WithClock(fixedClock()))
	result := h.Run(context.Background(), "golang", "", 0)

	assert.Len(t, result.Records, 10)
	assert.Equal(t, 2, fetcher.calls, "declared page count ends the run without an extra fetch")
}

func TestRunHonorsMaxResults(t *testing.T) {
	fetcher := &stubFetcher{pages: map[int]*naukri.SearchResponse{
		1: listingPage(5, 0, 5),
		2: listingPage(5, 5, 5),
	}}

	h := New(harvestConfig(), fetcher, noDelay(), WithClock(fixedClock()))
	result := h.Run(context.Background(), "golang", "", 7)

	assert.Len(t, result.Records, 7, "collection stops mid-page at the cap")
	assert.Equal(t, 2, fetcher.calls)
}

func TestRunCapsPageSizeToMaxResults(t *testing.T) {
	var captured naukri.PageRequest
	fetcher := &captureFetcher{capture: &captured}

	h := New(harvestConfig(), fetcher, noDelay(), WithClock(fixedClock()))
	h.Run(context.Background(), "golang", "", 5)

	assert.Equal(t, 5, captured.PageSize)
	assert.Equal(t, 1, captured.Page)
}

type captureFetcher struct {
	capture *naukri.PageRequest
}

func (c *captureFetcher) FetchPage(ctx context.Context, req naukri.PageRequest, errs naukri.ErrorRecorder) (*naukri.SearchResponse, error) {
	*c.capture = req
	return &naukri.SearchResponse{}, nil
}

func TestRunSkipsTitlelessListings(t *testing.T) {
	resp := &naukri.SearchResponse{TotalPages: 1}
	resp.List = append(resp.List,
		json.RawMessage(`{"post": "Engineer", "companyName": "Acme", "jobId": "1"}`),
		json.RawMessage(`{"companyName": "NoTitle Inc", "jobId": "2"}`),
		json.RawMessage(`{"post": "Analyst", "companyName": "Acme", "jobId": "3"}`),
	)
	fetcher := &stubFetcher{pages: map[int]*naukri.SearchResponse{1: resp}}

	h := New(harvestConfig(), fetcher, noDelay(), WithClock(fixedClock()))
	result := h.Run(context.Background(), "golang", "", 0)

	require.Len(t, result.Records, 2)
	assert.Equal(t, "Engineer", result.Records[0].Title)
	assert.Equal(t, "Analyst", result.Records[1].Title)
}

func TestRunStopsGracefullyOnFetchFailure(t *testing.T) {
	fetcher := &stubFetcher{err: fmt.Errorf("%w: page 1 failed after 3 attempts", naukri.ErrRetriesExhausted)}

	h := New(harvestConfig(), fetcher, noDelay(), WithClock(fixedClock()))
	result := h.Run(context.Background(), "golang", "", 0)

	assert.Empty(t, result.Records)
	assert.Equal(t, 0, result.PagesFetched)
	assert.Equal(t, 1, fetcher.calls, "no further pages are attempted")
	assert.False(t, result.FinishedAt.IsZero())
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	fetcher := &stubFetcher{pages: map[int]*naukri.SearchResponse{1: listingPage(1, 0, 5)}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := New(harvestConfig(), fetcher, noDelay(), WithClock(fixedClock()))
	result := h.Run(ctx, "golang", "", 0)

	assert.Empty(t, result.Records)
	assert.Equal(t, 0, fetcher.calls)
	assert.Equal(t, 1, result.ErrorCount)
}
