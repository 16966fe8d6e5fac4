package naukri

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobharvest/internal/config"
	"jobharvest/pkg/models"
)

func clientConfig(serverURL string) *config.Config {
	cfg := &config.Config{}
	cfg.Naukri.BaseURL = serverURL
	cfg.Naukri.SearchPath = "/jobapi/v2/search"
	cfg.Naukri.UserAgents = []string{"test-agent/1.0"}
	cfg.Harvester.MaxRetries = 3
	cfg.Harvester.RetryDelay = time.Millisecond
	cfg.Harvester.RequestTimeout = 5 * time.Second
	cfg.Harvester.RateLimit = 60000
	return cfg
}

func newTestClient(cfg *config.Config) *Client {
	c := NewClient(cfg)
	c.sleep = func(time.Duration) {}
	return c
}

func TestFetchPageSuccess(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"noOfResults": r.URL.Query().Get("noOfResults"),
			"keyword":     r.URL.Query().Get("keyword"),
			"pageNo":      r.URL.Query().Get("pageNo"),
			"location":    r.URL.Query().Get("location"),
		}
		assert.Equal(t, "test-agent/1.0", r.Header.Get("User-Agent"))
		w.Write([]byte(`{"list": [{"post": "Dev"}], "totaljobs": 42, "totalpages": 3}`))
	}))
	defer server.Close()

	client := newTestClient(clientConfig(server.URL))
	errs := models.NewErrorLog()

	resp, err := client.FetchPage(context.Background(), PageRequest{
		Keyword:  "golang developer",
		Location: "bangalore",
		Page:     2,
		PageSize: 20,
	}, errs)

	require.NoError(t, err)
	assert.Len(t, resp.List, 1)
	assert.Equal(t, 42, resp.TotalJobs)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Equal(t, 0, errs.Count())

	assert.Equal(t, "20", gotQuery["noOfResults"])
	assert.Equal(t, "golang developer", gotQuery["keyword"])
	assert.Equal(t, "2", gotQuery["pageNo"])
	assert.Equal(t, "4", gotQuery["location"], "city name resolves to its API location ID")
}

func TestFetchPageOmitsEmptyLocation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("location"))
		w.Write([]byte(`{"list": [], "totaljobs": 0, "totalpages": 0}`))
	}))
	defer server.Close()

	client := newTestClient(clientConfig(server.URL))
	_, err := client.FetchPage(context.Background(), PageRequest{Keyword: "golang", Page: 1, PageSize: 20}, models.NewErrorLog())
	require.NoError(t, err)
}

func TestFetchPageExhaustsRetriesOnServerError(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(clientConfig(server.URL))
	errs := models.NewErrorLog()

	resp, err := client.FetchPage(context.Background(), PageRequest{Keyword: "golang", Page: 1, PageSize: 20}, errs)

	assert.Nil(t, resp)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRetriesExhausted))
	assert.Equal(t, 3, requests, "every attempt in the budget is spent")
	assert.Equal(t, 3, errs.Count(), "each failed attempt is recorded")
}

func TestFetchPageRecoversAfterRateLimit(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"list": [{"post": "Dev"}], "totaljobs": 1, "totalpages": 1}`))
	}))
	defer server.Close()

	cfg := clientConfig(server.URL)
	client := NewClient(cfg)

	var slept []time.Duration
	client.sleep = func(d time.Duration) { slept = append(slept, d) }

	errs := models.NewErrorLog()
	resp, err := client.FetchPage(context.Background(), PageRequest{Keyword: "golang", Page: 1, PageSize: 20}, errs)

	require.NoError(t, err)
	assert.Len(t, resp.List, 1)
	assert.Equal(t, 2, requests)
	require.Len(t, slept, 1)
	assert.Equal(t, cfg.Harvester.RetryDelay*2, slept[0], "rate-limit cooldown is twice the base delay")
}

func TestFetchPageDecodeErrorIsTerminal(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(`{not valid json`))
	}))
	defer server.Close()

	client := newTestClient(clientConfig(server.URL))
	errs := models.NewErrorLog()

	resp, err := client.FetchPage(context.Background(), PageRequest{Keyword: "golang", Page: 1, PageSize: 20}, errs)

	assert.Nil(t, resp)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecodeFailed))
	assert.Equal(t, 1, requests, "a malformed body is not retried")
	assert.Equal(t, 1, errs.Count())
}

func TestFetchPageTransportErrorIsRetried(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := newTestClient(clientConfig(server.URL))
	errs := models.NewErrorLog()

	_, err := client.FetchPage(context.Background(), PageRequest{Keyword: "golang", Page: 1, PageSize: 20}, errs)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRetriesExhausted))
	assert.Equal(t, 3, errs.Count())
}
