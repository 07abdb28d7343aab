// Package workspace is the outbound client for the Workspace platform:
// OAuth2 client-credentials token exchange and message publishing.
package workspace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrAuthRejected marks a failed client-credentials exchange. The service
// cannot operate without valid application credentials, so callers treat
// this error as fatal and abort the run loop.
var ErrAuthRejected = errors.New("workspace rejected application credentials")

// Config holds outbound platform client settings.
type Config struct {
	BaseURL   string
	AppID     string
	AppSecret string

	// Color and Title decorate every posted annotation.
	Color string
	Title string

	Timeout time.Duration
}

// Client posts app messages into Workspace spaces.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a platform client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// appMessage is the wire format for posted messages.
type appMessage struct {
	Type        string       `json:"type"`
	Version     float64      `json:"version"`
	Annotations []annotation `json:"annotations"`
}

type annotation struct {
	Type    string  `json:"type"`
	Version float64 `json:"version"`
	Color   string  `json:"color"`
	Title   string  `json:"title"`
	Text    string  `json:"text"`
}

// Authenticate exchanges the app id/secret for a short-lived bearer token.
// Tokens are never cached; every publish gets a fresh one.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.SetBasicAuth(c.cfg.AppID, c.cfg.AppSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token exchange returned %d: %w", resp.StatusCode, ErrAuthRejected)
	}

	var parsed tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if parsed.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token: %w", ErrAuthRejected)
	}

	c.logger.Debug("token exchange succeeded")
	return parsed.AccessToken, nil
}

// SendMessage authenticates and posts text into the space as an appMessage
// annotation. A non-201 response is returned as an error; the caller decides
// whether to log or escalate.
func (c *Client) SendMessage(ctx context.Context, spaceID, text string) error {
	token, err := c.Authenticate(ctx)
	if err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}

	payload := appMessage{
		Type:    "appMessage",
		Version: 1.0,
		Annotations: []annotation{
			{
				Type:    "generic",
				Version: 1.0,
				Color:   c.cfg.Color,
				Title:   c.cfg.Title,
				Text:    text,
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/spaces/%s/messages", c.cfg.BaseURL, url.PathEscape(spaceID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build message request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("message request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("publish to space %s returned %d: %s", spaceID, resp.StatusCode, detail)
	}

	return nil
}
