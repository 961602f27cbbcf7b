package battery

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ErrUnavailable reports that the host exposes no battery power supply.
var ErrUnavailable = errors.New("battery info not available")

// Percent converts a charge fraction (0.0-1.0) into a rounded integer
// percentage, clamped to [0, 100].
func Percent(fraction float64) int {
	return int(math.Round(clampFraction(fraction) * 100))
}

func clampFraction(f float64) float64 {
	switch {
	case math.IsNaN(f), f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}

// discoverSupply returns the named supply, or the first supply whose type is
// Battery when name is empty.
func discoverSupply(dir, name string) (string, error) {
	if name != "" {
		if !isBattery(filepath.Join(dir, name)) {
			return "", fmt.Errorf("power supply %q: %w", name, ErrUnavailable)
		}
		return name, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrUnavailable
		}
		return "", fmt.Errorf("list power supplies: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	for _, candidate := range names {
		if isBattery(filepath.Join(dir, candidate)) {
			return candidate, nil
		}
	}
	return "", ErrUnavailable
}

func isBattery(supplyDir string) bool {
	kind, err := readString(filepath.Join(supplyDir, "type"))
	if err != nil {
		return false
	}
	if !strings.EqualFold(kind, "Battery") {
		return false
	}
	// Peripheral batteries (mice, headsets) report scope=Device.
	if scope, err := readString(filepath.Join(supplyDir, "scope")); err == nil && strings.EqualFold(scope, "Device") {
		return false
	}
	return true
}

// readFraction reads the charge level of a supply directory, preferring the
// kernel-computed capacity and falling back to energy or charge counters.
func readFraction(supplyDir string) (float64, error) {
	if capacity, err := readFloat(filepath.Join(supplyDir, "capacity")); err == nil {
		return clampFraction(capacity / 100), nil
	}
	for _, pair := range [][2]string{{"energy_now", "energy_full"}, {"charge_now", "charge_full"}} {
		now, err := readFloat(filepath.Join(supplyDir, pair[0]))
		if err != nil {
			continue
		}
		full, err := readFloat(filepath.Join(supplyDir, pair[1]))
		if err != nil || full <= 0 {
			continue
		}
		return clampFraction(now / full), nil
	}
	return 0, fmt.Errorf("%s: no readable charge level", filepath.Base(supplyDir))
}

func readString(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func readFloat(path string) (float64, error) {
	value, err := readString(path)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(value, 64)
}
