package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCamera()
	if err := c.normalizeBattery(); err != nil {
		return err
	}
	if err := c.normalizeSpeaker(); err != nil {
		return err
	}
	c.normalizeNetwork()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	return nil
}

func (c *Config) normalizeCamera() {
	c.Camera.Device = strings.TrimSpace(c.Camera.Device)
	if value, ok := os.LookupEnv(cameraDeviceEnv); ok && strings.TrimSpace(value) != "" {
		c.Camera.Device = strings.TrimSpace(value)
	}
	if c.Camera.Device == "" {
		c.Camera.Device = defaultCameraDevice
	}
}

func (c *Config) normalizeBattery() error {
	if strings.TrimSpace(c.Battery.PowerSupplyDir) == "" {
		c.Battery.PowerSupplyDir = defaultPowerSupplyDir
	}
	var err error
	if c.Battery.PowerSupplyDir, err = expandPath(c.Battery.PowerSupplyDir); err != nil {
		return fmt.Errorf("battery.power_supply_dir: %w", err)
	}
	c.Battery.Supply = strings.TrimSpace(c.Battery.Supply)
	return nil
}

func (c *Config) normalizeSpeaker() error {
	c.Speaker.Player = strings.TrimSpace(c.Speaker.Player)
	if strings.TrimSpace(c.Speaker.ClipPath) != "" {
		var err error
		if c.Speaker.ClipPath, err = expandPath(strings.TrimSpace(c.Speaker.ClipPath)); err != nil {
			return fmt.Errorf("speaker.clip_path: %w", err)
		}
	} else {
		c.Speaker.ClipPath = ""
	}
	if c.Speaker.ToneSeconds <= 0 {
		c.Speaker.ToneSeconds = defaultToneSeconds
	}
	if c.Speaker.ToneFrequency <= 0 {
		c.Speaker.ToneFrequency = defaultToneFrequency
	}
	return nil
}

func (c *Config) normalizeNetwork() {
	if value, ok := os.LookupEnv(probeURLEnv); ok && strings.TrimSpace(value) != "" {
		c.Network.ProbeURL = value
	}
	c.Network.ProbeURL = strings.TrimSpace(c.Network.ProbeURL)
	if c.Network.ProbeURL == "" {
		c.Network.ProbeURL = defaultNetworkProbeURL
	}
	if c.Network.Trials <= 0 {
		c.Network.Trials = defaultProbeTrials
	}
	if c.Network.IntervalSeconds <= 0 {
		c.Network.IntervalSeconds = defaultProbeInterval
	}
	if c.Network.RequestTimeoutSeconds < 0 {
		c.Network.RequestTimeoutSeconds = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
