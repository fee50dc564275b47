package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/vtree/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "vtree.json"

	// DefaultPort is the default serve port.
	DefaultPort = 7070

	// DefaultHost is the default serve host.
	DefaultHost = "localhost"

	// DefaultPath is the WebSocket endpoint remote renderers connect to.
	DefaultPath = "/ws"

	// DefaultWriteTimeout bounds a single frame write to a remote renderer.
	DefaultWriteTimeout = "10s"

	// DefaultSnapshotDir is where disk snapshots live when no bucket is set.
	DefaultSnapshotDir = ".vtree/snapshots"
)

// Recovery policies for a failed patch batch.
const (
	RecoveryFail    = "fail"
	RecoverySkip    = "skip"
	RecoveryRemount = "remount"
)

// Config represents the complete vtree.json configuration.
type Config struct {
	// Diff contains diff engine options.
	Diff DiffConfig `json:"diff"`

	// Render contains renderer and render-cycle settings.
	Render RenderConfig `json:"render"`

	// Server contains the remote renderer transport settings.
	Server ServerConfig `json:"server"`

	// Snapshot contains golden tree storage settings.
	Snapshot SnapshotConfig `json:"snapshot"`

	// Log contains logging settings.
	Log LogConfig `json:"log"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// DiffConfig contains diff engine options.
type DiffConfig struct {
	// HandlerIdentity replaces elements whose event handlers were swapped.
	HandlerIdentity bool `json:"handlerIdentity,omitempty"`
}

// RenderConfig contains renderer settings.
type RenderConfig struct {
	// Recovery is what the render cycle does when a patch batch fails:
	// "fail", "skip" or "remount".
	Recovery string `json:"recovery,omitempty"`

	// SupportedTags restricts the tags the in-memory renderer accepts.
	// Empty means every tag is supported.
	SupportedTags []string `json:"supportedTags,omitempty"`

	// Pretty enables indented HTML output.
	Pretty bool `json:"pretty,omitempty"`
}

// ServerConfig contains the remote renderer transport settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// Path is the WebSocket endpoint.
	Path string `json:"path,omitempty"`

	// WriteTimeout bounds each frame write (e.g., "10s").
	WriteTimeout string `json:"writeTimeout,omitempty"`

	// Metrics exposes Prometheus metrics on /metrics.
	Metrics bool `json:"metrics,omitempty"`
}

// SnapshotConfig contains golden tree storage settings.
type SnapshotConfig struct {
	// Dir is the disk store directory, used when Bucket is empty.
	Dir string `json:"dir,omitempty"`

	// Bucket selects the S3 store.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is prepended to every S3 object key.
	Prefix string `json:"prefix,omitempty"`

	// Region overrides the AWS region from the environment.
	Region string `json:"region,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Render: RenderConfig{
			Recovery: RecoveryFail,
		},
		Server: ServerConfig{
			Host:         DefaultHost,
			Port:         DefaultPort,
			Path:         DefaultPath,
			WriteTimeout: DefaultWriteTimeout,
		},
		Snapshot: SnapshotConfig{
			Dir: DefaultSnapshotDir,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from the vtree.json file in the given directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile loads configuration from a specific file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigMissing).
				WithDetail("No vtree.json found in " + filepath.Dir(path)).
				WithSuggestion("Create vtree.json or pass --config")
		}
		return nil, errors.New(errors.CodeConfigInvalid).Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(errors.CodeConfigInvalid).
			WithDetail("Failed to parse vtree.json: " + err.Error()).
			WithSuggestion("Check that vtree.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads vtree.json from the nearest project root, falling
// back to defaults when none exists. Invalid files are still an error.
func LoadOrDefault(startDir string) (*Config, error) {
	root, err := FindProjectRoot(startDir)
	if err != nil {
		if errors.HasCode(err, errors.CodeConfigMissing) {
			return New(), nil
		}
		return nil, err
	}
	return Load(root)
}

// SaveTo saves the configuration to a specific path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New(errors.CodeConfigInvalid).Wrap(err)
	}

	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New(errors.CodeConfigInvalid).Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in zero values left by a partial file.
func (c *Config) applyDefaults() {
	if c.Render.Recovery == "" {
		c.Render.Recovery = RecoveryFail
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.Path == "" {
		c.Server.Path = DefaultPath
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}
	if c.Snapshot.Dir == "" {
		c.Snapshot.Dir = DefaultSnapshotDir
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch c.Render.Recovery {
	case RecoveryFail, RecoverySkip, RecoveryRemount:
	default:
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("render.recovery must be fail, skip or remount, got %q", c.Render.Recovery)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("server.port must be between 0 and 65535")
	}
	if !strings.HasPrefix(c.Server.Path, "/") {
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("server.path must start with /, got %q", c.Server.Path)
	}
	if _, err := time.ParseDuration(c.Server.WriteTimeout); err != nil {
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("server.writeTimeout %q is not a duration", c.Server.WriteTimeout)
	}
	if _, ok := parseLevel(c.Log.Level); !ok {
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New(errors.CodeConfigInvalid).
			WithDetailf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// ServerAddress returns the host:port the transport listens on.
func (c *Config) ServerAddress() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// WriteTimeout returns server.writeTimeout as a duration.
func (c *Config) WriteTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.WriteTimeout)
	if err != nil {
		d, _ = time.ParseDuration(DefaultWriteTimeout)
	}
	return d
}

// SnapshotDir returns the disk snapshot directory, resolved against the
// config file's directory.
func (c *Config) SnapshotDir() string {
	if filepath.IsAbs(c.Snapshot.Dir) || c.Dir() == "" {
		return c.Snapshot.Dir
	}
	return filepath.Join(c.Dir(), c.Snapshot.Dir)
}

// LogLevel returns log.level as a slog level.
func (c *Config) LogLevel() slog.Level {
	lvl, _ := parseLevel(c.Log.Level)
	return lvl
}

// NewLogger builds the logger described by the log section.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel()}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, bool) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, false
	}
	return lvl, true
}

// Exists checks if a vtree.json file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing vtree.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New(errors.CodeConfigMissing).
				WithDetail("No vtree.json found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}
