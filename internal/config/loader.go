package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Load reads and parses configuration from a YAML file.
// ${ENV_VAR} references are expanded before parsing; an unset variable
// expands to the empty string and is caught by validation.
func Load(configPath string) (*Config, error) {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path %q: %w", configPath, err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %s\n"+
			"Hint: Check the path or run with --config flag", absPath)
	}

	expanded := expandEnv(data)

	cfg := Defaults()
	if err := yaml.Unmarshal(expanded, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", absPath, err)
	}

	// Verify integrity if the config has been locked.
	if err := VerifyIfLocked(absPath); err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// expandEnv substitutes ${VAR} references with their environment values.
func expandEnv(data []byte) []byte {
	return envVarPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		name := envVarPattern.FindSubmatch(match)[1]
		return []byte(os.Getenv(string(name)))
	})
}

// validate checks required fields after env expansion. Webhook secret and
// application credentials are mandatory: the service cannot verify its
// endpoint or post back without them.
func validate(cfg *Config) error {
	if cfg.Webhook.Listen == "" {
		return fmt.Errorf("webhook.listen is required")
	}
	if cfg.Webhook.Secret == "" {
		return fmt.Errorf("webhook.secret is required (set WEBHOOK_SECRET)")
	}
	if _, err := ParseMaxBodySize(cfg.Webhook.MaxBodySize); err != nil {
		return fmt.Errorf("webhook.max_body_size: %w", err)
	}
	if cfg.Workspace.BaseURL == "" {
		return fmt.Errorf("workspace.base_url is required")
	}
	if cfg.Workspace.AppID == "" {
		return fmt.Errorf("workspace.app_id is required (set WORKSPACE_APP_ID)")
	}
	if cfg.Workspace.AppSecret == "" {
		return fmt.Errorf("workspace.app_secret is required (set WORKSPACE_APP_SECRET)")
	}
	if cfg.Workspace.Timeout <= 0 {
		cfg.Workspace.Timeout = 30 * time.Second
	}
	if cfg.Twitter.ConsumerKey == "" || cfg.Twitter.ConsumerSecret == "" ||
		cfg.Twitter.AccessTokenKey == "" || cfg.Twitter.AccessTokenSecret == "" {
		return fmt.Errorf("twitter credentials are incomplete (set TWITTER_CONSUMER_KEY, " +
			"TWITTER_CONSUMER_SECRET, TWITTER_ACCESS_TOKEN_KEY, TWITTER_ACCESS_TOKEN_SECRET)")
	}
	if cfg.Twitter.Timeout <= 0 {
		cfg.Twitter.Timeout = 15 * time.Second
	}
	if cfg.Relay.Keyword == "" {
		return fmt.Errorf("relay.keyword is required")
	}
	if cfg.Relay.MaxResults <= 0 {
		return fmt.Errorf("relay.max_results must be positive")
	}
	if cfg.Relay.QueueSize <= 0 {
		return fmt.Errorf("relay.queue_size must be positive")
	}
	if cfg.API.Enabled && cfg.API.Listen == "" {
		return fmt.Errorf("api.listen is required when API is enabled")
	}
	return nil
}
