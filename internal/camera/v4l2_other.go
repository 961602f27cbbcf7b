//go:build !linux

package camera

import "fmt"

func openV4L2(path string) (*deviceStream, error) {
	return nil, fmt.Errorf("%s: %w", path, ErrNoDevice)
}
