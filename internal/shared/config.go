package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// placeholderToken is the token value shipped in earlier example configs.
const placeholderToken = "your_faceit_api_key"

//go:embed config.example.toml
var exampleConf []byte

// EnvPrefix is the prefix for environment overrides applied by [ApplyEnv].
const EnvPrefix = "FSTAT_"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Faceit       FaceitConfig       `toml:"faceit"`
	HTTP         HTTPConfig         `toml:"http"`
	Locale       LocaleConfig       `toml:"locale"`
	Server       ServerConfig       `toml:"server"`
	Presentation PresentationConfig `toml:"presentation"`
	Batch        BatchConfig        `toml:"batch"`
}

// FaceitConfig contains the endpoints and credential used by the lookup pipeline.
type FaceitConfig struct {
	SearchBaseURL     string   `toml:"search_base_url"`
	PlayerBaseURL     string   `toml:"player_base_url"`
	BearerToken       string   `toml:"bearer_token"`
	SupportedVariants []string `toml:"supported_variants"` // priority order, primary first
	SearchResultCap   int      `toml:"search_result_cap"`
}

// HTTPConfig contains outbound HTTP client settings.
type HTTPConfig struct {
	TimeoutSeconds int    `toml:"timeout_seconds"`
	UserAgent      string `toml:"user_agent"`
}

// Timeout returns the configured client timeout. Zero means no timeout.
func (h HTTPConfig) Timeout() time.Duration {
	return time.Duration(h.TimeoutSeconds) * time.Second
}

// LocaleConfig selects the fallback message catalog.
type LocaleConfig struct {
	Default string `toml:"default"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// PresentationConfig contains settings for rendered stats blocks.
type PresentationConfig struct {
	IconBaseURL string `toml:"icon_base_url"`
}

// BatchConfig contains settings for batch lookups.
type BatchConfig struct {
	Workers   int     `toml:"workers"`
	RateLimit float64 `toml:"rate_limit"` // runs started per second
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their defaults from the embedded example config.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overlays FSTAT_* environment variables onto config.
//
// Section and key are separated by a double underscore: FSTAT_FACEIT__BEARER_TOKEN sets faceit.bearer_token.
// List values are comma separated.
func ApplyEnv(config *Config) error {
	k := koanf.New(".")

	provider := env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		return strings.ReplaceAll(strings.ToLower(s), "__", ".")
	})
	if err := k.Load(provider, nil); err != nil {
		return fmt.Errorf("failed to load environment: %w", err)
	}

	if err := k.UnmarshalWithConf("", config, koanf.UnmarshalConf{Tag: "toml"}); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return nil
}

// Validate reports whether the configuration can drive a lookup.
func (c *Config) Validate() error {
	f := c.Faceit
	switch {
	case strings.TrimSpace(f.BearerToken) == "":
		return fmt.Errorf("%w: faceit.bearer_token is empty", ErrMissingCredentials)
	case f.BearerToken == placeholderToken:
		return fmt.Errorf("%w: faceit.bearer_token is still the example value", ErrMissingCredentials)
	case f.SearchBaseURL == "":
		return fmt.Errorf("%w: faceit.search_base_url is empty", ErrInvalidConfig)
	case f.PlayerBaseURL == "":
		return fmt.Errorf("%w: faceit.player_base_url is empty", ErrInvalidConfig)
	case len(f.SupportedVariants) == 0:
		return fmt.Errorf("%w: faceit.supported_variants is empty", ErrInvalidConfig)
	case f.SearchResultCap < 1:
		return fmt.Errorf("%w: faceit.search_result_cap must be at least 1, got %d", ErrInvalidConfig, f.SearchResultCap)
	}

	for i, v := range f.SupportedVariants {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%w: faceit.supported_variants[%d] is empty", ErrInvalidConfig, i)
		}
	}

	return nil
}
