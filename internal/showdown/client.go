package showdown

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"showdown_stats/internal/app"
	"showdown_stats/internal/config"

	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the public replay server
const DefaultBaseURL = "https://replay.pokemonshowdown.com"

// Client fetches replay search pages and replay documents from the replay
// server. All requests go through bounded retries with exponential backoff.
type Client struct {
	baseURL      string
	client       *http.Client
	retry        config.RetryConfig
	apiCallCount int64
	apiCallMutex sync.Mutex
}

// NewClient creates a client against the public replay server
func NewClient() *Client {
	return NewClientWithBaseURL(DefaultBaseURL)
}

// NewClientWithBaseURL creates a client against a specific server, used by
// tests to point at a local fixture server.
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: config.APIRequestTimeout,
		},
		retry: config.DefaultResilienceConfig.APIRequest,
	}
}

// IncrementAPICall safely increments the API call counter
func (c *Client) IncrementAPICall() {
	c.apiCallMutex.Lock()
	c.apiCallCount++
	c.apiCallMutex.Unlock()
}

// GetAPICallCount returns the current API call count
func (c *Client) GetAPICallCount() int64 {
	c.apiCallMutex.Lock()
	defer c.apiCallMutex.Unlock()
	return c.apiCallCount
}

// ResetAPICallCount resets the API call counter to zero
func (c *Client) ResetAPICallCount() {
	c.apiCallMutex.Lock()
	c.apiCallCount = 0
	c.apiCallMutex.Unlock()
}

// makeAPIRequest creates and executes one HTTP GET request
func (c *Client) makeAPIRequest(ctx context.Context, requestURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.Debug().
			Err(err).
			Str("url", requestURL).
			Msg("API request failed")
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	c.IncrementAPICall()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}

// getWithRetries executes a GET request with bounded retries and exponential
// backoff. Context cancellation aborts the wait between attempts.
func (c *Client) getWithRetries(ctx context.Context, requestURL string) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		body, err := c.makeAPIRequest(ctx, requestURL)
		if err == nil {
			return body, nil
		}
		lastErr = err

		log.Debug().
			Err(err).
			Int("attempt", attempt).
			Int("max_attempts", c.retry.MaxAttempts).
			Str("url", requestURL).
			Msg("Request attempt failed")

		if attempt == c.retry.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.retry.NextWait(attempt)):
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", c.retry.MaxAttempts, lastErr)
}

// SearchPage fetches one page of replay summaries for a format, uploaded
// before the given unix timestamp. The server returns pages sorted by upload
// time descending.
func (c *Client) SearchPage(ctx context.Context, format string, before int64) ([]app.ReplaySummary, error) {
	params := url.Values{}
	params.Set("format", format)
	params.Set("before", fmt.Sprintf("%d", before))
	requestURL := fmt.Sprintf("%s/search.json?%s", c.baseURL, params.Encode())

	log.Debug().
		Str("format", format).
		Int64("before", before).
		Str("before_time", time.Unix(before, 0).UTC().Format("2006-01-02 15:04:05")).
		Msg("Fetching replay search page")

	body, err := c.getWithRetries(ctx, requestURL)
	if err != nil {
		return nil, err
	}

	var page []app.ReplaySummary
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to decode search page: %w", err)
	}

	log.Debug().
		Int("replays", len(page)).
		Str("format", format).
		Msg("Successfully fetched search page")

	return page, nil
}

// GetReplay fetches one full replay document by id
func (c *Client) GetReplay(ctx context.Context, id string) (*app.ReplayDocument, error) {
	requestURL := fmt.Sprintf("%s/%s.json", c.baseURL, url.PathEscape(id))

	body, err := c.getWithRetries(ctx, requestURL)
	if err != nil {
		return nil, err
	}

	var doc app.ReplayDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode replay %s: %w", id, err)
	}

	log.Debug().
		Str("replay_id", doc.ID).
		Int("log_bytes", len(doc.Log)).
		Msg("Successfully fetched replay")

	return &doc, nil
}
