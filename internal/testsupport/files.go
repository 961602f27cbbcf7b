package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// WritePowerSupply creates a sysfs-style power supply directory under dir
// with one file per attribute.
func WritePowerSupply(t testing.TB, dir, name string, attrs map[string]string) {
	t.Helper()

	supply := filepath.Join(dir, name)
	if err := os.MkdirAll(supply, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", supply, err)
	}
	for attr, value := range attrs {
		if err := os.WriteFile(filepath.Join(supply, attr), []byte(value+"\n"), 0o644); err != nil {
			t.Fatalf("write %s/%s: %v", name, attr, err)
		}
	}
}
