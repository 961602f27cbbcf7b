package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"meetcheck/internal/battery"
	"meetcheck/internal/config"
	"meetcheck/internal/deps"
)

const defaultProbeTimeout = 10 * time.Second

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckCaptureDevice verifies that the capture node exists, is a character
// device and can be opened read/write by this user. It does not open the
// device, so a busy webcam still passes.
func CheckCaptureDevice(path string) Result {
	const name = "Webcam"

	path = strings.TrimSpace(path)
	if path == "" {
		return Result{Name: name, Detail: "no capture device configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if info.Mode()&os.ModeCharDevice == 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not a character device)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: permission denied; join the video group)", path)}
	}
	probe := ProbeCamera(path)
	return Result{Name: name, Passed: true, Detail: probe.CameraDetail()}
}

// CheckBattery reports the current battery level, or that none is present.
// A missing battery is not a failure: desktops have none.
func CheckBattery(ctx context.Context, cfg config.Battery) Result {
	const name = "Battery"

	src := battery.NewSource(cfg, nil)
	fraction, err := src.Level(ctx)
	if err != nil {
		if errors.Is(err, battery.ErrUnavailable) {
			return Result{Name: name, Passed: true, Detail: "Battery info not available"}
		}
		return Result{Name: name, Detail: fmt.Sprintf("read failed (%v)", err)}
	}
	supply, _ := src.Supply()
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s at %d%%", supply, battery.Percent(fraction))}
}

// CheckAudioPlayer verifies that a player for the speaker test is installed.
func CheckAudioPlayer(preferred string) Result {
	const name = "Audio player"

	player, err := deps.ResolvePlayer(preferred)
	if err != nil {
		if strings.TrimSpace(preferred) != "" {
			return Result{Name: name, Detail: err.Error()}
		}
		return Result{Name: name, Detail: "none of paplay, pw-play, aplay, ffplay found"}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", player.Name, player.Path)}
}

// CheckClip verifies that a configured test clip is a readable file.
func CheckClip(path string) Result {
	const name = "Test clip"

	info, err := os.Stat(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable)", path)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckProbeURL verifies that the network probe resource answers with a 2xx
// status. Only headers are fetched.
func CheckProbeURL(ctx context.Context, url string, timeout time.Duration) Result {
	const name = "Probe URL"

	url = strings.TrimSpace(url)
	if url == "" {
		return Result{Name: name, Detail: "missing url"}
	}
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	checkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := &http.Client{Timeout: timeout}
	status, err := headStatus(checkCtx, client, url)
	if err != nil {
		return Result{Name: name, Detail: summarizeNetError(err)}
	}
	if status == http.StatusMethodNotAllowed {
		status, err = getStatus(checkCtx, client, url)
		if err != nil {
			return Result{Name: name, Detail: summarizeNetError(err)}
		}
	}
	if status < 200 || status >= 300 {
		return Result{Name: name, Detail: fmt.Sprintf("unexpected status (%d)", status)}
	}
	return Result{Name: name, Passed: true, Detail: "Reachable"}
}

func headStatus(ctx context.Context, client *http.Client, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

func getStatus(ctx context.Context, client *http.Client, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Range", "bytes=0-0")
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

// CheckSystemDeps reports every candidate audio player for status displays.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := deps.PlayerRequirements()
	if cfg != nil {
		if preferred := strings.TrimSpace(cfg.Speaker.Player); preferred != "" {
			requirements = append([]deps.Requirement{{
				Name:        preferred,
				Command:     preferred,
				Description: "Configured speaker test player",
			}}, requirements...)
		}
	}
	return deps.CheckBinaries(requirements)
}

// summarizeNetError produces a human-readable summary for probe failures.
func summarizeNetError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "check timed out (probe URL unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "check timed out (probe URL unreachable)"
	}
	return err.Error()
}
