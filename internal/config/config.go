// Package config loads the divedump configuration using viper.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/arloliu/go-divelog/logger"
)

// EnvPrefix prefixes the environment variables overriding configuration keys,
// e.g. DIVELOG_LINK_PORT for link.port.
const EnvPrefix = "DIVELOG"

// Config is the divedump configuration.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Link     LinkConfig     `mapstructure:"link"`
	Download DownloadConfig `mapstructure:"download"`
	Output   OutputConfig   `mapstructure:"output"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level     string     `mapstructure:"level"`
	AddSource bool       `mapstructure:"add_source"`
	File      FileConfig `mapstructure:"file"`
}

// FileConfig enables logging to a rotated file instead of stderr.
type FileConfig struct {
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// LinkConfig describes how the IrDA link to the dive computer is reached.
type LinkConfig struct {
	// Transport is "serial" for a transparent IrDA dongle or "tcp" for a bridge.
	Transport   string        `mapstructure:"transport"`
	Port        string        `mapstructure:"port"`
	Baud        int           `mapstructure:"baud"`
	Address     string        `mapstructure:"address"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// PeerName is the IrDA name the adapter reports for the device.
	PeerName    string   `mapstructure:"peer_name"`
	PeerAddress uint32   `mapstructure:"peer_address"`
	LSAP        uint     `mapstructure:"lsap"`
	DeviceNames []string `mapstructure:"device_names"`
}

// DownloadConfig tunes the download session.
type DownloadConfig struct {
	// Fingerprint is the hex encoded fingerprint of the newest dive already downloaded.
	Fingerprint     string `mapstructure:"fingerprint"`
	MaxDumpSize     int    `mapstructure:"max_dump_size"`
	StrictHandshake bool   `mapstructure:"strict_handshake"`
}

// OutputConfig selects the format of listings written by the CLI.
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

var (
	transports    = []string{"serial", "tcp"}
	outputFormats = []string{"yaml", "json"}
)

// Load reads the configuration file at path, applies DIVELOG_ environment overrides and
// defaults, and validates the result. An empty path loads defaults and the environment only.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.add_source", false)
	v.SetDefault("log.file.path", "")
	v.SetDefault("log.file.max_size_mb", 10)
	v.SetDefault("log.file.max_backups", 3)
	v.SetDefault("log.file.max_age_days", 30)
	v.SetDefault("log.file.compress", false)

	v.SetDefault("link.transport", "serial")
	v.SetDefault("link.port", "/dev/ttyUSB0")
	v.SetDefault("link.baud", 9600)
	v.SetDefault("link.address", "127.0.0.1:4200")
	v.SetDefault("link.dial_timeout", "5s")
	v.SetDefault("link.read_timeout", "3s")
	v.SetDefault("link.peer_name", "UWATEC Aladin")
	v.SetDefault("link.peer_address", 1)
	v.SetDefault("link.lsap", 1)
	v.SetDefault("link.device_names", []string{})

	v.SetDefault("download.fingerprint", "")
	v.SetDefault("download.max_dump_size", 16<<20)
	v.SetDefault("download.strict_handshake", false)

	v.SetDefault("output.format", "yaml")
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	var errs []error

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}

	if !slices.Contains(transports, c.Link.Transport) {
		errs = append(errs, fmt.Errorf("link.transport must be one of %v, got %q", transports, c.Link.Transport))
	}
	switch c.Link.Transport {
	case "serial":
		if c.Link.Port == "" {
			errs = append(errs, errors.New("link.port is required for the serial transport"))
		}
		if c.Link.Baud <= 0 {
			errs = append(errs, fmt.Errorf("link.baud must be positive, got %d", c.Link.Baud))
		}
	case "tcp":
		if c.Link.Address == "" {
			errs = append(errs, errors.New("link.address is required for the tcp transport"))
		}
	}
	if c.Link.ReadTimeout < 0 || c.Link.DialTimeout < 0 {
		errs = append(errs, errors.New("link timeouts must not be negative"))
	}
	if c.Link.PeerAddress == 0 {
		errs = append(errs, errors.New("link.peer_address must not be zero"))
	}

	if c.Download.MaxDumpSize <= 0 {
		errs = append(errs, fmt.Errorf("download.max_dump_size must be positive, got %d", c.Download.MaxDumpSize))
	}

	if !slices.Contains(outputFormats, c.Output.Format) {
		errs = append(errs, fmt.Errorf("output.format must be one of %v, got %q", outputFormats, c.Output.Format))
	}

	return errors.Join(errs...)
}
