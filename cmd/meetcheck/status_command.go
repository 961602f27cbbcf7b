package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"meetcheck/internal/api"
	"meetcheck/internal/checkrun"
	"meetcheck/internal/readiness"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var timeout time.Duration
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Run every check once and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runOpts := ctx.runOptions()
			runOpts.FileOnlyLogs = true
			runOpts.DisableAPI = true
			session, err := checkrun.Start(cmd.Context(), cfg, runOpts)
			if err != nil {
				return err
			}
			defer session.Close()

			snap := waitSettled(cmd.Context(), session.Widget, timeout)
			if jsonOut {
				return writeJSON(cmd, api.FromSnapshot(snap, session.ID))
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader(widgetHeading, colorize) {
				fmt.Fprintln(out, line)
			}
			table := renderTable(
				[]string{"Check", "State", "Detail"},
				snapshotRows(snap),
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			)
			fmt.Fprintln(out, table)
			if !settled(snap) {
				fmt.Fprintf(out, "Some checks were still pending after %s\n", timeout)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 15*time.Second, "How long to wait for the first network sample")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

// waitSettled returns the first snapshot in which no probe is pending, or the
// latest snapshot once timeout elapses.
func waitSettled(ctx context.Context, w liveWidget, timeout time.Duration) readiness.Snapshot {
	changed := make(chan struct{}, 1)
	cancel := w.Subscribe(func(readiness.Snapshot) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer cancel()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		snap := w.Snapshot()
		if settled(snap) {
			return snap
		}
		select {
		case <-ctx.Done():
			return w.Snapshot()
		case <-timer.C:
			return w.Snapshot()
		case <-changed:
		}
	}
}

func settled(snap readiness.Snapshot) bool {
	if snap.Camera.State == readiness.ProbePending ||
		snap.Battery.State == readiness.ProbePending ||
		snap.Speaker.State == readiness.ProbePending {
		return false
	}
	return snap.Network.State == readiness.ProbeDisabled || snap.Network.Sample != nil
}
