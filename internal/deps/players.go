package deps

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrNoPlayer reports that no supported audio player is installed.
var ErrNoPlayer = errors.New("no audio player found")

// Player describes how to play a WAV file to completion with an external binary.
type Player struct {
	Name string
	Path string
	Args []string
}

// Command returns the argv that plays clip once and exits.
func (p Player) Command(clip string) (string, []string) {
	args := append(append([]string(nil), p.Args...), clip)
	return p.Path, args
}

// playerArgs lists known players in preference order with the flags that make
// them play once without a window and exit at the end of the clip.
var playerArgs = []struct {
	name string
	args []string
}{
	{"paplay", nil},
	{"pw-play", nil},
	{"aplay", []string{"-q"}},
	{"ffplay", []string{"-nodisp", "-autoexit", "-loglevel", "quiet"}},
}

// PlayerRequirements lists the candidate players for status reporting.
func PlayerRequirements() []Requirement {
	reqs := make([]Requirement, 0, len(playerArgs))
	for _, p := range playerArgs {
		reqs = append(reqs, Requirement{
			Name:        p.name,
			Command:     p.name,
			Description: "Plays the speaker test clip",
			Optional:    true,
		})
	}
	return reqs
}

// ResolvePlayer picks the configured player, or the first installed candidate
// when preferred is empty.
func ResolvePlayer(preferred string) (Player, error) {
	preferred = strings.TrimSpace(preferred)
	if preferred != "" {
		status := checkBinary(Requirement{Name: preferred, Command: preferred})
		if !status.Available {
			return Player{}, fmt.Errorf("%s: %w", status.Detail, ErrNoPlayer)
		}
		base := filepath.Base(status.Path)
		return Player{Name: base, Path: status.Path, Args: knownArgs(base)}, nil
	}

	for _, status := range CheckBinaries(PlayerRequirements()) {
		if status.Available {
			return Player{Name: status.Name, Path: status.Path, Args: knownArgs(status.Name)}, nil
		}
	}
	return Player{}, ErrNoPlayer
}

func knownArgs(name string) []string {
	for _, p := range playerArgs {
		if p.name == name {
			return append([]string(nil), p.args...)
		}
	}
	return nil
}
