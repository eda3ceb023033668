package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rusenback/docker-profiler/internal/errors"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. DOCKERPROF_GRAPH_WIDTH.
	EnvPrefix = "DOCKERPROF"
	// GlobalConfigDir is the directory for the user config, relative to home.
	GlobalConfigDir = ".config/dockerprof"
	// GlobalConfigFile is the user config file name.
	GlobalConfigFile = "config.yaml"
	// DataDir holds the sample database, relative to home.
	DataDir = ".dockerprof"
)

// Config is the resolved profiler configuration.
type Config struct {
	Docker   DockerConfig  `yaml:"docker" mapstructure:"docker"`
	Interval int           `yaml:"interval" mapstructure:"interval"`
	Duration string        `yaml:"duration" mapstructure:"duration"`
	Graph    GraphConfig   `yaml:"graph" mapstructure:"graph"`
	Live     LiveConfig    `yaml:"live" mapstructure:"live"`
	Storage  StorageConfig `yaml:"storage" mapstructure:"storage"`
}

// DockerConfig selects the daemon to talk to.
type DockerConfig struct {
	// Host is a daemon URL; empty means DOCKER_HOST or the platform default.
	Host      string        `yaml:"host" mapstructure:"host"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
	TLSVerify bool          `yaml:"tls_verify" mapstructure:"tls_verify"`
	CertPath  string        `yaml:"cert_path" mapstructure:"cert_path"`
}

// GraphConfig sizes the final charts.
type GraphConfig struct {
	Width  int `yaml:"width" mapstructure:"width"`
	Height int `yaml:"height" mapstructure:"height"`
}

// LiveConfig sizes the live charts. Window is how many of the most recent
// samples are drawn.
type LiveConfig struct {
	Width  int `yaml:"width" mapstructure:"width"`
	Height int `yaml:"height" mapstructure:"height"`
	Window int `yaml:"window" mapstructure:"window"`
}

// StorageConfig controls sample recording.
type StorageConfig struct {
	Record    bool          `yaml:"record" mapstructure:"record"`
	Path      string        `yaml:"path" mapstructure:"path"`
	Retention time.Duration `yaml:"retention" mapstructure:"retention"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Docker: DockerConfig{
			Host:    "unix:///var/run/docker.sock",
			Timeout: 30 * time.Second,
		},
		Interval: 1,
		Duration: "1m",
		Graph:    GraphConfig{Width: 60, Height: 8},
		Live:     LiveConfig{Width: 50, Height: 6, Window: 60},
		Storage: StorageConfig{
			Path:      defaultDBPath(),
			Retention: 7 * 24 * time.Hour,
		},
	}
}

// New returns a viper instance with defaults, environment overrides and,
// if present, the config file applied. An explicit path must exist; the
// global config file is optional.
func New(explicit string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := explicit
	if path == "" {
		path = globalConfigPath()
		if _, err := os.Stat(path); err != nil {
			return v, nil
		}
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found: "+path,
				"Check the path passed to --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return v, nil
}

// Decode unmarshals v into a Config and validates it.
func Decode(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax of your config file")
	}

	cfg.Storage.Path = expandHome(cfg.Storage.Path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges that the rest of the program relies on.
func (c *Config) Validate() error {
	if c.Interval < 1 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Interval must be at least 1 second, got %d", c.Interval),
			"Pass --interval 1 or higher")
	}
	if _, err := ParseDuration(c.Duration); err != nil {
		return err
	}
	sizes := []struct {
		name  string
		value int
	}{
		{"graph.width", c.Graph.Width},
		{"graph.height", c.Graph.Height},
		{"live.width", c.Live.Width},
		{"live.height", c.Live.Height},
		{"live.window", c.Live.Window},
	}
	for _, s := range sizes {
		if s.value <= 0 {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("%s must be positive, got %d", s.name, s.value),
				"")
		}
	}
	return nil
}

// DurationValue returns the parsed collection duration.
func (c *Config) DurationValue() time.Duration {
	d, _ := ParseDuration(c.Duration)
	return d
}

// IntervalValue returns the sampling interval.
func (c *Config) IntervalValue() time.Duration {
	return time.Duration(c.Interval) * time.Second
}

// ParseDuration parses a whole number with an optional s, m or h suffix.
// A bare number is seconds.
func ParseDuration(s string) (time.Duration, error) {
	raw := strings.ToLower(strings.TrimSpace(s))

	unit := time.Second
	num := raw
	switch {
	case strings.HasSuffix(raw, "s"):
		num = strings.TrimSuffix(raw, "s")
	case strings.HasSuffix(raw, "m"):
		unit = time.Minute
		num = strings.TrimSuffix(raw, "m")
	case strings.HasSuffix(raw, "h"):
		unit = time.Hour
		num = strings.TrimSuffix(raw, "h")
	}

	n, err := strconv.Atoi(num)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid duration", s),
			"Try something like 30s, 5m, 1h or a number of seconds.")
	}
	if n <= 0 {
		return 0, errors.New(errors.ErrConfig,
			fmt.Sprintf("Duration must be positive, got '%s'", s),
			"Try something like 30s, 5m or 1h.")
	}

	return time.Duration(n) * unit, nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("docker.host", d.Docker.Host)
	v.SetDefault("docker.timeout", d.Docker.Timeout.String())
	v.SetDefault("docker.tls_verify", d.Docker.TLSVerify)
	v.SetDefault("docker.cert_path", d.Docker.CertPath)
	v.SetDefault("interval", d.Interval)
	v.SetDefault("duration", d.Duration)
	v.SetDefault("graph.width", d.Graph.Width)
	v.SetDefault("graph.height", d.Graph.Height)
	v.SetDefault("live.width", d.Live.Width)
	v.SetDefault("live.height", d.Live.Height)
	v.SetDefault("live.window", d.Live.Window)
	v.SetDefault("storage.record", d.Storage.Record)
	v.SetDefault("storage.path", d.Storage.Path)
	v.SetDefault("storage.retention", d.Storage.Retention.String())
}

func globalConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(DataDir, "stats.db")
	}
	return filepath.Join(home, DataDir, "stats.db")
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
