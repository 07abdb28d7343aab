// Package doctor validates chirpgw configuration before the service starts.
package doctor

import (
	"encoding/json"
	"fmt"
	"net"
	"strings"

	"github.com/mattjoyce/chirpgw/internal/config"
)

// Result holds the outcome of a validation run.
type Result struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors,omitempty"`
	Warnings []Issue `json:"warnings,omitempty"`
}

// Issue describes a single validation error or warning.
type Issue struct {
	Category string `json:"category"`
	Message  string `json:"message"`
	Field    string `json:"field,omitempty"`
}

// Doctor validates a loaded configuration.
type Doctor struct {
	cfg *config.Config
}

// New creates a Doctor from a loaded config.
func New(cfg *config.Config) *Doctor {
	return &Doctor{cfg: cfg}
}

// Validate runs all checks and returns a result.
func (d *Doctor) Validate() *Result {
	r := &Result{Valid: true}

	d.validateWebhook(r)
	d.validateWorkspace(r)
	d.validateTwitter(r)
	d.validateRelay(r)
	d.validateAPI(r)

	r.Valid = len(r.Errors) == 0
	return r
}

func (d *Doctor) addError(r *Result, category, field, msg string) {
	r.Errors = append(r.Errors, Issue{Category: category, Field: field, Message: msg})
}

func (d *Doctor) addWarning(r *Result, category, field, msg string) {
	r.Warnings = append(r.Warnings, Issue{Category: category, Field: field, Message: msg})
}

func (d *Doctor) validateWebhook(r *Result) {
	if d.cfg.Webhook.Listen == "" {
		d.addError(r, "webhook", "webhook.listen", "listen address is required")
	} else if _, _, err := net.SplitHostPort(d.cfg.Webhook.Listen); err != nil {
		d.addError(r, "webhook", "webhook.listen",
			fmt.Sprintf("listen address %q is not host:port", d.cfg.Webhook.Listen))
	}

	// Without the secret, verification challenges cannot be signed and the
	// platform will never activate the webhook.
	if d.cfg.Webhook.Secret == "" {
		d.addError(r, "webhook", "webhook.secret", "webhook secret is required (set WEBHOOK_SECRET)")
	}

	if _, err := config.ParseMaxBodySize(d.cfg.Webhook.MaxBodySize); err != nil {
		d.addError(r, "webhook", "webhook.max_body_size", err.Error())
	}
}

func (d *Doctor) validateWorkspace(r *Result) {
	if d.cfg.Workspace.AppID == "" {
		d.addError(r, "workspace", "workspace.app_id", "application id is required")
	}
	if d.cfg.Workspace.AppSecret == "" {
		d.addError(r, "workspace", "workspace.app_secret", "application secret is required")
	}
	if !strings.HasPrefix(d.cfg.Workspace.BaseURL, "https://") {
		d.addWarning(r, "workspace", "workspace.base_url",
			"base_url is not https; credentials would travel in the clear")
	}
}

func (d *Doctor) validateTwitter(r *Result) {
	creds := map[string]string{
		"twitter.consumer_key":        d.cfg.Twitter.ConsumerKey,
		"twitter.consumer_secret":     d.cfg.Twitter.ConsumerSecret,
		"twitter.access_token_key":    d.cfg.Twitter.AccessTokenKey,
		"twitter.access_token_secret": d.cfg.Twitter.AccessTokenSecret,
	}
	for field, value := range creds {
		if value == "" {
			d.addError(r, "twitter", field, "credential is required")
		}
	}
}

func (d *Doctor) validateRelay(r *Result) {
	if d.cfg.Relay.Keyword == "" {
		d.addError(r, "relay", "relay.keyword", "trigger keyword is required")
	} else if strings.Contains(d.cfg.Relay.Keyword, " ") {
		d.addError(r, "relay", "relay.keyword", "trigger keyword must be a single token")
	}

	if d.cfg.Relay.MaxResults <= 0 {
		d.addError(r, "relay", "relay.max_results", "max_results must be positive")
	}
	if d.cfg.Relay.QueueSize <= 0 {
		d.addError(r, "relay", "relay.queue_size", "queue_size must be positive")
	} else if d.cfg.Relay.QueueSize < 8 {
		d.addWarning(r, "relay", "relay.queue_size",
			"queue_size below 8; bursts of triggered messages will be dropped")
	}

	if d.cfg.Relay.FailMessage == "" {
		d.addWarning(r, "relay", "relay.fail_message",
			"fail_message is empty; users will see a blank message on provider errors")
	}
}

func (d *Doctor) validateAPI(r *Result) {
	if !d.cfg.API.Enabled {
		return
	}
	if d.cfg.API.Listen == "" {
		d.addError(r, "api", "api.listen", "api.listen is required when API is enabled")
	}
	if d.cfg.API.APIKey == "" {
		d.addWarning(r, "api", "api.api_key", "API enabled but no key configured; activity endpoint will reject everything")
	}
}

// FormatHuman renders a result for terminal output.
func FormatHuman(r *Result) string {
	var b strings.Builder

	if r.Valid {
		b.WriteString("Configuration check PASSED\n")
	} else {
		b.WriteString("Configuration check FAILED\n")
	}

	for _, issue := range r.Errors {
		fmt.Fprintf(&b, "  ERROR [%s] %s", issue.Category, issue.Message)
		if issue.Field != "" {
			fmt.Fprintf(&b, " (%s)", issue.Field)
		}
		b.WriteString("\n")
	}
	for _, issue := range r.Warnings {
		fmt.Fprintf(&b, "  WARN  [%s] %s", issue.Category, issue.Message)
		if issue.Field != "" {
			fmt.Fprintf(&b, " (%s)", issue.Field)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// FormatJSON renders a result as indented JSON.
func FormatJSON(r *Result) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}
	return string(data), nil
}
