package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	LogDir  string `toml:"log_dir"`
	APIBind string `toml:"api_bind"`
}

// Camera contains configuration for the video capture probe.
type Camera struct {
	Enabled bool   `toml:"enabled"`
	Device  string `toml:"device"`
}

// Battery contains configuration for the battery level probe.
type Battery struct {
	Enabled        bool   `toml:"enabled"`
	PowerSupplyDir string `toml:"power_supply_dir"`
	// Supply pins a power supply name (e.g. "BAT0"). Empty selects the first
	// supply whose type is Battery.
	Supply        string `toml:"supply"`
	ListenUEvents bool   `toml:"listen_uevents"`
}

// Speaker contains configuration for the speaker test clip.
type Speaker struct {
	Enabled bool `toml:"enabled"`
	// ClipPath points at a WAV file. Empty generates a sine tone at mount time.
	ClipPath      string  `toml:"clip_path"`
	Player        string  `toml:"player"`
	ToneSeconds   float64 `toml:"tone_seconds"`
	ToneFrequency float64 `toml:"tone_frequency"`
}

// Network contains configuration for the throughput probe.
type Network struct {
	Enabled               bool   `toml:"enabled"`
	ProbeURL              string `toml:"probe_url"`
	Trials                int    `toml:"trials"`
	IntervalSeconds       int    `toml:"interval_seconds"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for meetcheck.
//
// Configuration sections by subsystem:
//   - Paths: log directory and optional status API bind address
//   - Camera: capture device used for the webcam check
//   - Battery: sysfs power supply location and uevent subscription
//   - Speaker: test clip source and audio player
//   - Network: throughput probe payload, trial count and cadence
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Camera  Camera  `toml:"camera"`
	Battery Battery `toml:"battery"`
	Speaker Speaker `toml:"speaker"`
	Network Network `toml:"network"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("meetcheck.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for a checker run.
func (c *Config) EnsureDirectories() error {
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return nil
	}
	if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.LogDir, err)
	}
	return nil
}

// LockPath is the single-instance lock guarding the capture and audio devices.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.LogDir, "meetcheck.lock")
}

// LogPath is the file that mirrors console log output.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.LogDir, "meetcheck.log")
}

// ProbeInterval returns the network sample cadence.
func (c *Config) ProbeInterval() time.Duration {
	return time.Duration(c.Network.IntervalSeconds) * time.Second
}

// RequestTimeout returns the per-download timeout. Zero means no timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Network.RequestTimeoutSeconds) * time.Second
}

// ToneDuration returns the length of the generated speaker test tone.
func (c *Config) ToneDuration() time.Duration {
	return time.Duration(c.Speaker.ToneSeconds * float64(time.Second))
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
