// Package twitter is a minimal client for the Twitter standard search API.
package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dghubble/oauth1"
)

const defaultBaseURL = "https://api.twitter.com/1.1"

// Status is a single tweet as returned by search/tweets.
type Status struct {
	IDStr string `json:"id_str"`
	Text  string `json:"text"`
	User  User   `json:"user"`
}

// User carries the author fields the relay formats.
type User struct {
	ScreenName string `json:"screen_name"`
}

type searchResponse struct {
	Statuses []Status `json:"statuses"`
}

// Config holds the four OAuth1 credentials and client settings.
type Config struct {
	ConsumerKey       string
	ConsumerSecret    string
	AccessTokenKey    string
	AccessTokenSecret string
	BaseURL           string
	Timeout           time.Duration
}

// Client searches tweets using OAuth1 user-context signing.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a search client. The underlying http.Client signs every
// request with the configured credentials.
func NewClient(cfg Config) *Client {
	oaConfig := oauth1.NewConfig(cfg.ConsumerKey, cfg.ConsumerSecret)
	token := oauth1.NewToken(cfg.AccessTokenKey, cfg.AccessTokenSecret)

	httpClient := oaConfig.Client(oauth1.NoContext, token)
	if cfg.Timeout > 0 {
		httpClient.Timeout = cfg.Timeout
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// Search queries search/tweets for statuses matching query, in provider order.
// An empty query is passed through; the provider decides what that means.
func (c *Client) Search(ctx context.Context, query string) ([]Status, error) {
	endpoint := c.baseURL + "/search/tweets.json?q=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain a little of the body for the log line, nothing more.
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("search returned %d: %s", resp.StatusCode, detail)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	return parsed.Statuses, nil
}
