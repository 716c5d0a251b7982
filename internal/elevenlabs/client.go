package elevenlabs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bytedance/sonic"
	"github.com/handiism/takeback/internal/model"
)

// DefaultBaseURL is the production ElevenLabs API endpoint.
const DefaultBaseURL = "https://api.elevenlabs.io"

// historyPageSize is the page size requested from the listing endpoint.
const historyPageSize = 100

// Client wraps HTTP operations against the ElevenLabs history API.
//
// Every request carries the xi-api-key credential header. The client
// maps failures onto a small taxonomy:
//   - ErrAuth for 401/403 responses
//   - *UpstreamError for any other non-success status
//   - wrapped transport errors for network-level failures
//
// Example usage:
//
//	client := elevenlabs.NewClient(apiKey)
//
//	records, err := client.GetHistory(ctx)
//	if errors.Is(err, elevenlabs.ErrAuth) {
//	    // bad credential, nothing to retry
//	}
//
//	audio, err := client.DownloadAudio(ctx, records[0].ID)
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a new Client for the production API.
//
// The client is configured with a 60 second timeout.
func NewClient(apiKey string) *Client {
	return NewClientWithBaseURL(apiKey, DefaultBaseURL)
}

// NewClientWithBaseURL creates a Client against a custom base URL.
// Useful for tests and self-hosted proxies.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// GetHistory returns every history record known to the service, oldest
// pages and newest pages alike.
//
// The listing endpoint paginates; GetHistory follows
// start_after_history_item_id until has_more is false and returns the
// accumulated records in response order, with FetchIndex set to each
// record's position in that accumulated listing.
//
// Returns ErrAuth, *UpstreamError or a wrapped transport error. Any of
// these is fatal to the session: without the full listing there is
// nothing to reconstruct.
func (c *Client) GetHistory(ctx context.Context) ([]model.HistoryRecord, error) {
	var records []model.HistoryRecord

	startAfter := ""
	for {
		page, err := c.getHistoryPage(ctx, startAfter)
		if err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			records = append(records, model.HistoryRecord{
				ID:         item.ID,
				CreatedAt:  item.CreatedAt.Time,
				Text:       item.Text,
				FetchIndex: len(records),
			})
		}

		// A cursor that does not advance would loop forever.
		if !page.HasMore || page.LastItemID == "" || page.LastItemID == startAfter {
			break
		}
		startAfter = page.LastItemID
	}

	return records, nil
}

func (c *Client) getHistoryPage(ctx context.Context, startAfter string) (*historyPage, error) {
	endpoint := c.baseURL + "/v1/history"
	query := url.Values{}
	query.Set("page_size", fmt.Sprintf("%d", historyPageSize))
	if startAfter != "" {
		query.Set("start_after_history_item_id", startAfter)
	}
	endpoint += "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("history request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("history response: %w", err)
	}

	var page historyPage
	if err := sonic.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to parse history response: %w", err)
	}

	return &page, nil
}

// DownloadAudio fetches the raw audio payload for one history item.
//
// Failures here are non-fatal to a session: the orchestrator skips the
// item and moves on. The error is still classified (ErrAuth,
// *UpstreamError, wrapped transport error) so callers can distinguish a
// revoked credential from a single missing item.
func (c *Client) DownloadAudio(ctx context.Context, id string) ([]byte, error) {
	if id == "" {
		return nil, fmt.Errorf("empty history item id")
	}

	endpoint := fmt.Sprintf("%s/v1/history/%s/audio", c.baseURL, url.PathEscape(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("audio request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode, resp.Status)
	}

	return io.ReadAll(resp.Body)
}
