package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/pion/logging"
	"github.com/spf13/viper"

	"github.com/backkem/matter-setup/pkg/commissioning/payload"
	"github.com/backkem/matter-setup/pkg/qrimage"
)

// Output formats
const (
	outputText = "text"
	outputYAML = "yaml"
	outputJSON = "json"
)

// Config is the merged view of flags, MATTER_SETUP_* variables and the
// config file.
type Config struct {
	LogLevel  logging.LogLevel
	Output    string
	Discovery *payload.DiscoveryCapabilities
	Flow      payload.CommissioningFlow
	ImageSize int
}

var logLevels = map[string]logging.LogLevel{
	"disabled": logging.LogLevelDisabled,
	"error":    logging.LogLevelError,
	"warn":     logging.LogLevelWarn,
	"info":     logging.LogLevelInfo,
	"debug":    logging.LogLevelDebug,
	"trace":    logging.LogLevelTrace,
}

// LoadConfigFromViper reads the settings shared by all subcommands. A
// blank discovery leaves Discovery nil so each command applies its own
// default; a blank flow means Standard.
func LoadConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	level := strings.ToLower(v.GetString("log-level"))
	lvl, ok := logLevels[level]
	if !ok {
		return nil, fmt.Errorf("unknown log level %q", level)
	}
	cfg.LogLevel = lvl

	cfg.Output = strings.ToLower(v.GetString("output"))
	switch cfg.Output {
	case outputText, outputYAML, outputJSON:
	default:
		return nil, fmt.Errorf("unknown output format %q", cfg.Output)
	}

	if s := v.GetString("discovery"); s != "" {
		d, err := payload.ParseDiscoveryCapabilities(s)
		if err != nil {
			return nil, err
		}
		cfg.Discovery = &d
	}

	if s := v.GetString("flow"); s != "" {
		flow, err := payload.ParseCommissioningFlow(s)
		if err != nil {
			return nil, err
		}
		cfg.Flow = flow
	}

	cfg.ImageSize = v.GetInt("image-size")
	if cfg.ImageSize == 0 {
		cfg.ImageSize = qrimage.DefaultOptions().Size
	}

	return &cfg, nil
}

// LoggerFactory builds the pion logger factory for the configured level.
func (c *Config) LoggerFactory(w io.Writer) logging.LoggerFactory {
	lf := logging.NewDefaultLoggerFactory()
	lf.Writer = w
	lf.DefaultLogLevel = c.LogLevel
	return lf
}
