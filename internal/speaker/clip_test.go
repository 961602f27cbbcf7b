package speaker

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPrepareClipGeneratesTone(t *testing.T) {
	clip, err := PrepareClip("", 100*time.Millisecond, 440)
	if err != nil {
		t.Fatalf("PrepareClip returned error: %v", err)
	}
	if !clip.Generated() {
		t.Fatal("expected generated clip")
	}
	data, err := os.ReadFile(clip.Path)
	if err != nil {
		t.Fatalf("read clip: %v", err)
	}
	if string(data[:4]) != "RIFF" {
		t.Fatalf("expected WAV header, got %q", data[:4])
	}
	if err := clip.Remove(); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if _, err := os.Stat(clip.Path); !os.IsNotExist(err) {
		t.Fatalf("expected generated clip removed, stat err=%v", err)
	}
	if err := clip.Remove(); err != nil {
		t.Fatalf("second Remove returned error: %v", err)
	}
}

func TestPrepareClipConfiguredFileIsKept(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test_sound.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}
	clip, err := PrepareClip(path, time.Second, 440)
	if err != nil {
		t.Fatalf("PrepareClip returned error: %v", err)
	}
	if clip.Generated() {
		t.Fatal("configured clip must not be marked generated")
	}
	if err := clip.Remove(); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("configured clip must survive Remove: %v", err)
	}
}

func TestPrepareClipRejectsMissingAndDirectories(t *testing.T) {
	if _, err := PrepareClip(filepath.Join(t.TempDir(), "missing.wav"), time.Second, 440); err == nil {
		t.Fatal("expected error for missing clip")
	}
	if _, err := PrepareClip(t.TempDir(), time.Second, 440); err == nil {
		t.Fatal("expected error for directory clip")
	}
}
