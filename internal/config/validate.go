package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSpeaker(); err != nil {
		return err
	}
	if err := c.validateNetwork(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.APIBind == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(c.Paths.APIBind); err != nil {
		return fmt.Errorf("paths.api_bind: %w", err)
	}
	return nil
}

func (c *Config) validateSpeaker() error {
	if c.Speaker.ToneSeconds > maxToneSeconds {
		return fmt.Errorf("speaker.tone_seconds must be at most %.0f", maxToneSeconds)
	}
	if c.Speaker.ToneFrequency < 20 || c.Speaker.ToneFrequency > 20000 {
		return errors.New("speaker.tone_frequency must be within 20-20000 Hz")
	}
	return nil
}

func (c *Config) validateNetwork() error {
	parsed, err := url.Parse(c.Network.ProbeURL)
	if err != nil {
		return fmt.Errorf("network.probe_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("network.probe_url: unsupported scheme %q", parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return errors.New("network.probe_url: missing host")
	}
	if c.Network.Trials > maxProbeTrials {
		return fmt.Errorf("network.trials must be at most %d", maxProbeTrials)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
