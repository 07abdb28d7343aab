package config

import "time"

// Config represents the complete chirpgw configuration.
type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Webhook   WebhookConfig   `yaml:"webhook"`
	Workspace WorkspaceConfig `yaml:"workspace"`
	Twitter   TwitterConfig   `yaml:"twitter"`
	Relay     RelayConfig     `yaml:"relay"`
	API       APIConfig       `yaml:"api,omitempty"`
}

// ServiceConfig defines core service settings.
type ServiceConfig struct {
	Name     string `yaml:"name"`
	LogLevel string `yaml:"log_level"`
}

// WebhookConfig defines the inbound webhook listener.
type WebhookConfig struct {
	Listen string `yaml:"listen"`

	// Secret is the shared webhook secret used to sign verification
	// challenges. Secrets are normally referenced as ${ENV_VAR}.
	Secret string `yaml:"secret"`

	// MaxBodySize is the maximum allowed request body (e.g. "1MB", "65536").
	MaxBodySize string `yaml:"max_body_size,omitempty"`
}

// WorkspaceConfig defines the outbound Workspace platform client.
type WorkspaceConfig struct {
	BaseURL   string        `yaml:"base_url"`
	AppID     string        `yaml:"app_id"`
	AppSecret string        `yaml:"app_secret"`
	Timeout   time.Duration `yaml:"timeout"`
}

// TwitterConfig defines the search provider credentials.
type TwitterConfig struct {
	ConsumerKey       string        `yaml:"consumer_key"`
	ConsumerSecret    string        `yaml:"consumer_secret"`
	AccessTokenKey    string        `yaml:"access_token_key"`
	AccessTokenSecret string        `yaml:"access_token_secret"`
	BaseURL           string        `yaml:"base_url,omitempty"`
	Timeout           time.Duration `yaml:"timeout"`
}

// RelayConfig defines trigger detection and result formatting.
type RelayConfig struct {
	// Keyword is matched case-sensitively at position 0 of message content.
	Keyword string `yaml:"keyword"`

	// MaxResults caps how many search results are relayed per message.
	MaxResults int `yaml:"max_results"`

	// QueueSize bounds the in-memory delivery queue.
	QueueSize int `yaml:"queue_size"`

	// Color and Title decorate the posted annotation.
	Color string `yaml:"color"`
	Title string `yaml:"title"`

	// FailMessage is relayed verbatim when the search provider errors.
	FailMessage string `yaml:"fail_message"`
}

// APIConfig defines the read-only observability API server.
type APIConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
	APIKey  string `yaml:"api_key"`
}

// Defaults returns a Config with sensible defaults.
func Defaults() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:     "chirpgw",
			LogLevel: "info",
		},
		Webhook: WebhookConfig{
			Listen:      ":3000",
			MaxBodySize: "1MB",
		},
		Workspace: WorkspaceConfig{
			BaseURL: "https://api.watsonwork.ibm.com",
			Timeout: 30 * time.Second,
		},
		Twitter: TwitterConfig{
			BaseURL: "https://api.twitter.com/1.1",
			Timeout: 15 * time.Second,
		},
		Relay: RelayConfig{
			Keyword:    "@twitter",
			MaxResults: 3,
			QueueSize:  64,
			Color:      "#1DA1F2",
			Title:      "Results from Twitter",
			FailMessage: "Hey, maybe it's me... maybe it's Twitter, " +
				"but I sense the fail whale should be here... Try again later",
		},
		API: APIConfig{
			Enabled: false,
			Listen:  "127.0.0.1:8080",
		},
	}
}
