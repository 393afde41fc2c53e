package run

import (
	"fmt"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/gobwas/glob"
	"github.com/relex/zmqlogwriter/base"
	"github.com/relex/zmqlogwriter/defs"
	"github.com/relex/zmqlogwriter/output"
	"github.com/relex/zmqlogwriter/publish"
	"github.com/relex/zmqlogwriter/util"
)

// Config defines the root of config file
type Config struct {
	Defaults          DefaultsConfig `yaml:"defaults"`
	Format            string         `yaml:"format"`            // default record format of all streams
	HeartbeatInterval time.Duration  `yaml:"heartbeatInterval"` // how often Heartbeat is called on each writer
	Streams           []StreamConfig `yaml:"streams"`           // per-stream config, first match wins
}

// DefaultsConfig defines the process-wide endpoint and socket options
type DefaultsConfig struct {
	Hostname          string            `yaml:"hostname"`
	Port              uint16            `yaml:"port"`
	Linger            time.Duration     `yaml:"linger"`
	SendBuffer        datasize.ByteSize `yaml:"sendBuffer"`
	SendHighWaterMark int               `yaml:"sendHighWaterMark"`
}

// StreamConfig defines the writer config of streams whose path matches the glob pattern
type StreamConfig struct {
	Match   string            `yaml:"match"`
	Config  map[string]string `yaml:"config"`
	matcher glob.Glob
}

// NewDefaultConfig creates the config used when no config file is given
func NewDefaultConfig() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			Hostname: defs.DefaultHostname,
			Port:     defs.DefaultPort,
			Linger:   defs.DefaultLinger,
		},
		Format:            output.DefaultFormat,
		HeartbeatInterval: defs.DefaultHeartbeatInterval,
	}
}

// LoadConfigFile loads config from the path on top of defaults and verifies it
func LoadConfigFile(filepath string) (*Config, error) {
	cfg := NewDefaultConfig()
	if err := util.UnmarshalYamlFile(filepath, cfg); err != nil {
		return nil, err
	}
	if err := cfg.VerifyConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseConfig parses config from YAML string on top of defaults and verifies it
func ParseConfig(contents string) (*Config, error) {
	cfg := NewDefaultConfig()
	if err := util.UnmarshalYamlString(contents, cfg); err != nil {
		return nil, err
	}
	if err := cfg.VerifyConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// VerifyConfig checks configuration and compiles stream patterns
func (cfg *Config) VerifyConfig() error {
	if cfg.Defaults.Hostname == "" {
		return fmt.Errorf(".defaults.hostname is unspecified")
	}
	if cfg.Defaults.Port == 0 {
		return fmt.Errorf(".defaults.port is unspecified")
	}
	if cfg.Defaults.Linger < 0 {
		return fmt.Errorf(".defaults.linger is negative: %s", cfg.Defaults.Linger)
	}
	if cfg.Defaults.SendBuffer.Bytes() > uint64(datasize.GB) {
		return fmt.Errorf(".defaults.sendBuffer is too large: %s", cfg.Defaults.SendBuffer.HR())
	}
	if cfg.Defaults.SendHighWaterMark < 0 {
		return fmt.Errorf(".defaults.sendHighWaterMark is negative: %d", cfg.Defaults.SendHighWaterMark)
	}
	if _, err := output.LookupSerializer(cfg.Format); err != nil {
		return fmt.Errorf(".format: %w", err)
	}
	if cfg.HeartbeatInterval <= 0 {
		return fmt.Errorf(".heartbeatInterval must be positive: %s", cfg.HeartbeatInterval)
	}
	for i := range cfg.Streams {
		stream := &cfg.Streams[i]
		if stream.Match == "" {
			return fmt.Errorf(".streams[%d].match is unspecified", i)
		}
		matcher, err := glob.Compile(stream.Match)
		if err != nil {
			return fmt.Errorf(".streams[%d].match: %w", i, err)
		}
		stream.matcher = matcher
		if _, err := publish.ResolveEndpoint(cfg.EndpointDefaults(), stream.Config); err != nil {
			return fmt.Errorf(".streams[%d].config: %w", i, err)
		}
		if format := stream.Config[defs.ConfigKeyFormat]; format != "" {
			if _, err := output.LookupSerializer(format); err != nil {
				return fmt.Errorf(".streams[%d].config: %w", i, err)
			}
		}
	}
	return nil
}

// EndpointDefaults returns the default endpoint of all streams
func (cfg *Config) EndpointDefaults() base.Endpoint {
	return base.Endpoint{
		Hostname:          cfg.Defaults.Hostname,
		Port:              cfg.Defaults.Port,
		Linger:            cfg.Defaults.Linger,
		SendBuffer:        int(cfg.Defaults.SendBuffer.Bytes()),
		SendHighWaterMark: cfg.Defaults.SendHighWaterMark,
	}
}

// PublishSettings returns the process-wide settings for WriterFactory
func (cfg *Config) PublishSettings() publish.Settings {
	return publish.Settings{
		Endpoint: cfg.EndpointDefaults(),
		Format:   cfg.Format,
	}
}

// LookupStreamConfig returns a copy of the writer config of the first stream matching the path, or empty config
func (cfg *Config) LookupStreamConfig(path string) map[string]string {
	result := make(map[string]string)
	for _, stream := range cfg.Streams {
		if stream.matcher != nil && stream.matcher.Match(path) {
			for key, value := range stream.Config {
				result[key] = value
			}
			break
		}
	}
	return result
}
