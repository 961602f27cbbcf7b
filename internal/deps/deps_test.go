package deps

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeStub(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestCheckBinaries(t *testing.T) {
	present := writeStub(t, t.TempDir(), "present")
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Path != present {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for blank command: %q", results[2].Detail)
	}
}

func TestResolvePlayerPrefersFirstInstalledCandidate(t *testing.T) {
	bin := t.TempDir()
	writeStub(t, bin, "aplay")
	writeStub(t, bin, "ffplay")
	t.Setenv("PATH", bin)

	player, err := ResolvePlayer("")
	if err != nil {
		t.Fatalf("ResolvePlayer returned error: %v", err)
	}
	if player.Name != "aplay" {
		t.Fatalf("expected aplay, got %q", player.Name)
	}
	name, args := player.Command("/tmp/clip.wav")
	if name != filepath.Join(bin, "aplay") {
		t.Fatalf("unexpected command path %q", name)
	}
	if !reflect.DeepEqual(args, []string{"-q", "/tmp/clip.wav"}) {
		t.Fatalf("unexpected args %v", args)
	}
}

func TestResolvePlayerConfigured(t *testing.T) {
	bin := t.TempDir()
	custom := writeStub(t, bin, "myplayer")
	t.Setenv("PATH", bin)

	player, err := ResolvePlayer(custom)
	if err != nil {
		t.Fatalf("ResolvePlayer returned error: %v", err)
	}
	_, args := player.Command("clip.wav")
	if !reflect.DeepEqual(args, []string{"clip.wav"}) {
		t.Fatalf("unknown players get only the clip argument, got %v", args)
	}

	if _, err := ResolvePlayer("not-installed-player"); !errors.Is(err, ErrNoPlayer) {
		t.Fatalf("expected ErrNoPlayer, got %v", err)
	}
}

func TestResolvePlayerNoneInstalled(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	if _, err := ResolvePlayer(""); !errors.Is(err, ErrNoPlayer) {
		t.Fatalf("expected ErrNoPlayer, got %v", err)
	}
}
