package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"meetcheck/internal/checkrun"
	"meetcheck/internal/readiness"
	"meetcheck/internal/speaker"
)

type liveWidget interface {
	Snapshot() readiness.Snapshot
	Subscribe(fn func(readiness.Snapshot)) (cancel func())
	PressSpeaker() speaker.State
}

type watchOptions struct {
	clear    bool
	colorize bool
}

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var noClear bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show live readiness checks until you quit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			opts := watchOptions{clear: colorize && !noClear, colorize: colorize}
			runOpts := ctx.runOptions()
			runOpts.FileOnlyLogs = opts.clear
			return checkrun.Run(cmd.Context(), cfg, runOpts, func(runCtx context.Context, s *checkrun.Session) error {
				if s.API != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Status API listening on %s\n", s.API.Addr())
				}
				return watchLoop(runCtx, s.Widget, cmd.InOrStdin(), out, opts)
			})
		},
	}

	cmd.Flags().BoolVar(&noClear, "no-clear", false, "Append frames instead of redrawing the screen")
	return cmd
}

// watchLoop redraws on every published snapshot and reads line-based keys
// from in until the user quits or ctx ends.
func watchLoop(ctx context.Context, w liveWidget, in io.Reader, out io.Writer, opts watchOptions) error {
	redraw := make(chan struct{}, 1)
	cancel := w.Subscribe(func(readiness.Snapshot) {
		select {
		case redraw <- struct{}{}:
		default:
		}
	})
	defer cancel()

	keys := make(chan string)
	go readKeys(ctx, in, keys)

	last := ""
	draw := func() {
		frame := renderWidget(w.Snapshot(), opts.colorize)
		if frame == last {
			return
		}
		last = frame
		if opts.clear {
			fmt.Fprint(out, ansiClear)
		} else {
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out, frame)
	}
	draw()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-redraw:
			draw()
		case key, ok := <-keys:
			if !ok {
				// Input closed; keep rendering until interrupted.
				keys = nil
				continue
			}
			switch key {
			case "s":
				w.PressSpeaker()
			case "q":
				return nil
			}
		}
	}
}

func readKeys(ctx context.Context, in io.Reader, keys chan<- string) {
	defer close(keys)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		key := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if key == "" {
			continue
		}
		select {
		case keys <- key:
		case <-ctx.Done():
			return
		}
	}
}
