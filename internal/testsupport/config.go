package testsupport

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"meetcheck/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Every probe starts disabled and points at paths under the temp directory,
// so nothing touches real hardware unless an option enables it.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Camera.Enabled = false
	cfgVal.Camera.Device = filepath.Join(base, "dev", "video0")
	cfgVal.Battery.Enabled = false
	cfgVal.Battery.PowerSupplyDir = filepath.Join(base, "power_supply")
	cfgVal.Battery.ListenUEvents = false
	cfgVal.Speaker.Enabled = false
	cfgVal.Network.Enabled = false
	cfgVal.Network.ProbeURL = "http://127.0.0.1:1/probe.jpg"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithBattery enables the battery probe backed by a fake sysfs supply
// reporting the given capacity percent.
func WithBattery(name string, capacity int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Battery.Enabled = true
		WritePowerSupply(b.t, b.cfg.Battery.PowerSupplyDir, name, map[string]string{
			"type":     "Battery",
			"capacity": strconv.Itoa(capacity),
		})
	}
}

// WithProbeURL enables the network probe against url.
func WithProbeURL(url string, trials int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Network.Enabled = true
		b.cfg.Network.ProbeURL = url
		b.cfg.Network.Trials = trials
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, a stub paplay is written. The
// stubs exit immediately, so a speaker test clip "ends" at once.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"paplay"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}
		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// WithSpeaker enables the speaker probe using the named player.
func WithSpeaker(player string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Speaker.Enabled = true
		b.cfg.Speaker.Player = player
		b.cfg.Speaker.ToneSeconds = 0.1
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}

// WriteConfig encodes cfg as TOML at path.
func WriteConfig(t testing.TB, path string, cfg *config.Config) {
	t.Helper()

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config %s: %v", path, err)
	}
}
