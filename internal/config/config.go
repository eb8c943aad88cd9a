// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/auction-proxy/internal/alt"
)

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Logging  LoggingConfig  `yaml:"logging"`
	Tracing  TracingConfig  `yaml:"tracing"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// UpstreamConfig defines how the Alt GraphQL API is reached.
type UpstreamConfig struct {
	Endpoints      []string      `yaml:"endpoints"` // tried in order
	Timeout        time.Duration `yaml:"timeout"`
	BrowserHeaders *bool         `yaml:"browser_headers"` // default: true
	Origin         string        `yaml:"origin"`
	Referer        string        `yaml:"referer"`
	UserAgent      string        `yaml:"user_agent"`
	PreviewLength  int           `yaml:"preview_length"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes"`
}

// BrowserHeadersEnabled reports whether browser-identifying headers are sent.
func (u *UpstreamConfig) BrowserHeadersEnabled() bool {
	return u.BrowserHeaders == nil || *u.BrowserHeaders
}

// ClientOptions translates the upstream settings into alt client options.
func (u *UpstreamConfig) ClientOptions() []alt.Option {
	opts := []alt.Option{
		alt.WithTimeout(u.Timeout),
		alt.WithPreviewLength(u.PreviewLength),
		alt.WithMaxBodyBytes(u.MaxBodyBytes),
	}
	if u.BrowserHeadersEnabled() {
		opts = append(opts, alt.WithBrowserHeaders(alt.BrowserHeaders{
			Origin:    u.Origin,
			Referer:   u.Referer,
			UserAgent: u.UserAgent,
		}))
	} else {
		opts = append(opts, alt.WithoutBrowserHeaders())
	}
	return opts
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// TracingConfig defines OpenTelemetry trace export settings.
type TracingConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"` // OTLP gRPC collector, host:port
	Insecure    bool   `yaml:"insecure"`
	ServiceName string `yaml:"service_name"`
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyUpstreamDefaults(&cfg.Upstream)
	applyLoggingDefaults(&cfg.Logging)
	applyTracingDefaults(&cfg.Tracing)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyUpstreamDefaults(u *UpstreamConfig) {
	if len(u.Endpoints) == 0 {
		u.Endpoints = append([]string(nil), alt.DefaultEndpoints...)
	}
	if u.Timeout == 0 {
		u.Timeout = 15 * time.Second
	}
	if u.Origin == "" {
		u.Origin = alt.DefaultOrigin
	}
	if u.Referer == "" {
		u.Referer = alt.DefaultReferer
	}
	if u.UserAgent == "" {
		u.UserAgent = alt.DefaultUserAgent
	}
	if u.PreviewLength == 0 {
		u.PreviewLength = 400
	}
	if u.MaxBodyBytes == 0 {
		u.MaxBodyBytes = 10 << 20
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func applyTracingDefaults(t *TracingConfig) {
	if t.ServiceName == "" {
		t.ServiceName = "auction-proxy"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if len(cfg.Upstream.Endpoints) == 0 {
		errs = append(errs, fmt.Errorf("upstream.endpoints must list at least one endpoint"))
	}
	for i, ep := range cfg.Upstream.Endpoints {
		if err := validateEndpoint(ep); err != nil {
			errs = append(errs, fmt.Errorf("upstream.endpoints[%d]: %w", i, err))
		}
	}
	if cfg.Upstream.Timeout < 0 {
		errs = append(errs, fmt.Errorf("upstream.timeout must not be negative"))
	}
	if cfg.Upstream.PreviewLength < 0 {
		errs = append(errs, fmt.Errorf("upstream.preview_length must not be negative"))
	}

	switch cfg.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf(
			"logging.format must be one of: text, json (got %q)",
			cfg.Logging.Format,
		))
	}

	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, fmt.Errorf("tracing.endpoint is required when tracing is enabled"))
	}

	return errors.Join(errs...)
}

func validateEndpoint(ep string) error {
	u, err := url.Parse(ep)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", ep, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q must use http or https", ep)
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", ep)
	}
	return nil
}
