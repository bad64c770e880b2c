// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/yaml.v2"

	"github.com/ava-labs/phoenixvm/consts"
	"github.com/ava-labs/phoenixvm/pebble"
	"github.com/ava-labs/phoenixvm/pubsub"
	"github.com/ava-labs/phoenixvm/server"
	"github.com/ava-labs/phoenixvm/token"
	"github.com/ava-labs/phoenixvm/trace"
)

const (
	defaultHTTPHost = "127.0.0.1"
	defaultHTTPPort = 9650
)

type Config struct {
	// Logging
	LogLevel            logging.Level `json:"logLevel"`
	LogDisplayHighlight string        `json:"logDisplayHighlight"`
	LogDir              string        `json:"logDir"`
	LogMaxSize          int           `json:"logMaxSize"` // megabytes
	LogMaxBackups       int           `json:"logMaxBackups"`

	// Storage
	DBDir          string `json:"dbDir"`
	DBCacheSize    int64  `json:"dbCacheSize"`
	DBBytesPerSync int    `json:"dbBytesPerSync"`
	DBMemTableSize uint64 `json:"dbMemTableSize"`
	TokenCacheSize int    `json:"tokenCacheSize"`

	// HTTP
	HTTPHost           string        `json:"httpHost"`
	HTTPPort           uint16        `json:"httpPort"`
	AllowedOrigins     []string      `json:"allowedOrigins"`
	ReadHeaderTimeout  time.Duration `json:"readHeaderTimeout"`
	ShutdownTimeout    time.Duration `json:"shutdownTimeout"`
	MaxPendingMessages int           `json:"maxPendingMessages"`

	// Tracing and metrics
	TraceEnabled     bool    `json:"traceEnabled"`
	TraceSampleRate  float64 `json:"traceSampleRate"`
	TraceEndpoint    string  `json:"traceEndpoint"`
	MetricsNamespace string  `json:"metricsNamespace"`

	SimulationCores  int           `json:"simulationCores"`
	SubmissionWindow time.Duration `json:"submissionWindow"`
	GenesisFile      string        `json:"genesisFile"`
}

func (c *Config) setDefault() {
	dbDefaults := pebble.NewDefaultConfig()
	c.LogLevel = logging.Info
	c.LogDisplayHighlight = "auto"
	c.LogMaxSize = 100
	c.LogMaxBackups = 3
	c.DBDir = "db"
	c.DBCacheSize = dbDefaults.CacheSize
	c.DBBytesPerSync = dbDefaults.BytesPerSync
	c.DBMemTableSize = dbDefaults.MemTableSize
	c.TokenCacheSize = token.DefaultCacheSize
	c.HTTPHost = defaultHTTPHost
	c.HTTPPort = defaultHTTPPort
	c.AllowedOrigins = []string{"*"}
	c.ReadHeaderTimeout = 5 * time.Second
	c.ShutdownTimeout = 10 * time.Second
	c.MaxPendingMessages = pubsub.NewDefaultServerConfig().MaxPendingMessages
	c.TraceSampleRate = 0.1
	c.MetricsNamespace = "phoenixvm"
	c.SimulationCores = 4
	c.SubmissionWindow = time.Minute
}

// New parses [b] over the defaults. An empty [b] gives the defaults.
func New(b []byte) (*Config, error) {
	c := &Config{}
	c.setDefault()
	if len(b) > 0 {
		if err := json.Unmarshal(b, c); err != nil {
			return nil, err
		}
	}
	if err := c.verify(); err != nil {
		return nil, err
	}
	return c, nil
}

// Load reads the config at [path]. Files ending in .yaml or .yml are
// decoded as YAML, anything else as JSON.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		b, err = yamlToJSON(b)
		if err != nil {
			return nil, fmt.Errorf("unable to parse %s: %w", path, err)
		}
	}
	return New(b)
}

// yamlToJSON re-encodes a flat YAML document as JSON so both formats share
// the same field decoders.
func yamlToJSON(b []byte) ([]byte, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

func (c *Config) verify() error {
	if c.TokenCacheSize <= 0 {
		return fmt.Errorf("%w: tokenCacheSize %d", ErrInvalidConfig, c.TokenCacheSize)
	}
	if c.TraceSampleRate < 0 || c.TraceSampleRate > 1 {
		return fmt.Errorf("%w: traceSampleRate %f", ErrInvalidConfig, c.TraceSampleRate)
	}
	if c.SimulationCores <= 0 {
		return fmt.Errorf("%w: simulationCores %d", ErrInvalidConfig, c.SimulationCores)
	}
	if c.SubmissionWindow < time.Millisecond {
		return fmt.Errorf("%w: submissionWindow %s", ErrInvalidConfig, c.SubmissionWindow)
	}
	if c.MaxPendingMessages <= 0 {
		return fmt.Errorf("%w: maxPendingMessages %d", ErrInvalidConfig, c.MaxPendingMessages)
	}
	return nil
}

func (c *Config) GetLogLevel() logging.Level { return c.LogLevel }
func (c *Config) GetHTTPAddress() string     { return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort) }

func (c *Config) GetTraceConfig() *trace.Config {
	return &trace.Config{
		Enabled:     c.TraceEnabled,
		SampleRate:  c.TraceSampleRate,
		Endpoint:    c.TraceEndpoint,
		ServiceName: c.MetricsNamespace,
		Version:     consts.Version.String(),
	}
}

func (c *Config) GetServerConfig() server.Config {
	return server.Config{
		AllowedOrigins:    c.AllowedOrigins,
		ReadHeaderTimeout: c.ReadHeaderTimeout,
		ShutdownTimeout:   c.ShutdownTimeout,
	}
}

func (c *Config) GetPebbleConfig() pebble.Config {
	cfg := pebble.NewDefaultConfig()
	cfg.CacheSize = c.DBCacheSize
	cfg.BytesPerSync = c.DBBytesPerSync
	cfg.MemTableSize = c.DBMemTableSize
	return cfg
}

func (c *Config) GetPubSubConfig() pubsub.ServerConfig {
	cfg := pubsub.NewDefaultServerConfig()
	cfg.MaxPendingMessages = c.MaxPendingMessages
	return cfg
}
