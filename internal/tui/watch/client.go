package watch

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mattjoyce/chirpgw/internal/events"
)

// --- Message types ---

type healthMsg struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	QueueDepth    int    `json:"queue_depth"`
}

type activityMsg []events.Activity

type tickMsg time.Time

type errMsg struct{ err error }

// --- Commands ---

// Client polls the chirpgw observability API.
type Client struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a polling client for the given API base URL.
func NewClient(apiURL, apiKey string) *Client {
	return &Client{
		apiURL:     apiURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// fetchHealth returns a healthMsg or errMsg.
func (c *Client) fetchHealth() tea.Msg {
	var health healthMsg
	if err := c.getJSON("/healthz", false, &health); err != nil {
		return errMsg{err}
	}
	return health
}

// fetchActivity returns an activityMsg or errMsg.
func (c *Client) fetchActivity() tea.Msg {
	var resp struct {
		Activity []events.Activity `json:"activity"`
	}
	if err := c.getJSON("/api/v1/activity", true, &resp); err != nil {
		return errMsg{err}
	}
	return activityMsg(resp.Activity)
}

func (c *Client) getJSON(path string, authed bool, out any) error {
	req, err := http.NewRequest("GET", c.apiURL+path, nil)
	if err != nil {
		return err
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned %d", path, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
