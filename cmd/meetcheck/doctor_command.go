package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"meetcheck/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check devices, players and network reachability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			results := preflight.RunAll(cmd.Context(), cfg)
			rows := make([][]string, 0, len(results))
			failed := 0
			for _, result := range results {
				state := "pass"
				switch {
				case result.Skipped:
					state = "skip"
				case !result.Passed:
					state = "FAIL"
					failed++
				}
				rows = append(rows, []string{result.Name, state, trimDetail(result.Detail)})
			}

			for _, line := range renderSectionHeader("preflight", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Check", "Result", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))

			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("audio players", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, line := range dependencyLines(preflight.CheckSystemDeps(cfg), colorize) {
				fmt.Fprintln(out, line)
			}

			if preflight.Failed(results) {
				return fmt.Errorf("%d preflight check(s) failed", failed)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderStatusLine("Doctor", statusOK, "all enabled checks passed", colorize))
			return nil
		},
	}
}

func trimDetail(detail string) string {
	detail = strings.TrimSpace(detail)
	if detail == "" {
		return "-"
	}
	return detail
}
