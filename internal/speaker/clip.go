package speaker

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"
)

// Clip is the prepared test sound on disk.
type Clip struct {
	Path string
	temp bool
}

// PrepareClip returns the configured clip, or writes a generated tone to a
// temporary WAV file when path is empty.
func PrepareClip(path string, duration time.Duration, frequency float64) (*Clip, error) {
	if path = strings.TrimSpace(path); path != "" {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("speaker clip: %w", err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("speaker clip %s is a directory", path)
		}
		return &Clip{Path: path}, nil
	}

	file, err := os.CreateTemp("", "meetcheck-tone-*.wav")
	if err != nil {
		return nil, fmt.Errorf("create tone file: %w", err)
	}
	buf := bufio.NewWriter(file)
	if err := WriteWAV(buf, GenerateSineWave(duration, frequency), ToneSampleRate); err != nil {
		_ = file.Close()
		_ = os.Remove(file.Name())
		return nil, fmt.Errorf("write tone: %w", err)
	}
	if err := buf.Flush(); err != nil {
		_ = file.Close()
		_ = os.Remove(file.Name())
		return nil, fmt.Errorf("write tone: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(file.Name())
		return nil, fmt.Errorf("close tone file: %w", err)
	}
	return &Clip{Path: file.Name(), temp: true}, nil
}

// Generated reports whether the clip is a temporary generated tone.
func (c *Clip) Generated() bool { return c != nil && c.temp }

// Remove deletes generated clips. Configured clips are left in place.
func (c *Clip) Remove() error {
	if c == nil || !c.temp {
		return nil
	}
	if err := os.Remove(c.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
