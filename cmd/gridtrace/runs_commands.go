package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"gridtrace/internal/batch"
	"gridtrace/internal/ledger"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded batch runs",
	}

	runsCmd.AddCommand(newRunsListCommand(ctx))
	runsCmd.AddCommand(newRunsShowCommand(ctx))

	return runsCmd
}

func newRunsListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := ledger.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					shortID(run.ID),
					formatTime(run.StartedAt),
					formatOptionalTime(run.FinishedAt),
					filepath.Base(run.InputDir),
					strconv.Itoa(run.Pairs),
					strconv.Itoa(run.Succeeded),
					strconv.Itoa(run.Skipped),
					strconv.Itoa(run.Failed),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Started", "Finished", "Input", "Pairs", "OK", "Skipped", "Failed"},
				rows, 4, 5, 6, 7))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 for all)")
	return cmd
}

func newRunsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the per-pair outcomes of one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := ledger.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.FindRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if run == nil {
				return fmt.Errorf("no run matches %q", args[0])
			}

			pairs, err := store.ListPairs(cmd.Context(), run.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s\n", run.ID)
			fmt.Fprintf(out, "Started:    %s\n", formatTime(run.StartedAt))
			fmt.Fprintf(out, "Finished:   %s\n", formatOptionalTime(run.FinishedAt))
			fmt.Fprintf(out, "Input:      %s\n", run.InputDir)
			fmt.Fprintf(out, "Output:     %s\n", run.OutputDir)
			fmt.Fprintf(out, "Thresholds: %s\n", formatThresholdList(run.Thresholds))

			if len(pairs) == 0 {
				fmt.Fprintln(out, "No pairs recorded")
				return nil
			}

			rows := make([][]string, 0, len(pairs))
			for _, pair := range pairs {
				rows = append(rows, []string{
					filepath.Base(pair.RasterPath),
					batch.FormatThreshold(pair.Threshold),
					pair.Status,
					strconv.Itoa(pair.FeatureCount),
					pair.Error,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Raster", "Threshold", "Status", "Features", "Detail"},
				rows, 1, 3))
			return nil
		},
	}
}

func formatThresholdList(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = batch.FormatThreshold(v)
	}
	return strings.Join(parts, ", ")
}
