package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"gridtrace/internal/batch"
	"gridtrace/internal/config"
	"gridtrace/internal/geoengine"
	"gridtrace/internal/layers"
	"gridtrace/internal/ledger"
	"gridtrace/internal/logging"
)

// newConversionEngine is swapped out by tests to avoid a GDAL dependency.
var newConversionEngine = func(cfg *config.Config) batch.Engine {
	return geoengine.New(cfg)
}

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var inputFlag string
	var outputFlag string
	var thresholdsFlag string

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Run the raster-to-polygon batch conversion",
		Long: `Enumerate rasters in the input directory and, for every raster and every
threshold, write a thresholded GeoTIFF and a polygon shapefile tracing the
cells that survived the cutoff. Flags override the corresponding config
values for this invocation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := applyConvertFlags(cfg, inputFlag, outputFlag, thresholdsFlag); err != nil {
				return err
			}
			if err := requireConvertSettings(cfg); err != nil {
				return err
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(cfg.Paths.OutputDir, 0o755); err != nil {
				return fmt.Errorf("create output directory %q: %w", cfg.Paths.OutputDir, err)
			}

			// One batch at a time per output directory; interleaved runs
			// would race on the derived filenames.
			lock := flock.New(filepath.Join(cfg.Paths.OutputDir, ".gridtrace.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire output lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another gridtrace convert is already writing to %s", cfg.Paths.OutputDir)
			}
			defer func() { _ = lock.Unlock() }()

			collector := layers.NewMemoryCollector()
			runner, err := batch.NewRunner(cfg, newConversionEngine(cfg), collector, logger)
			if err != nil {
				return err
			}

			var store *ledger.Store
			var run *ledger.Run
			if cfg.Ledger.Enabled {
				store, err = ledger.Open(cfg)
				if err != nil {
					return err
				}
				defer store.Close()

				run, err = store.StartRun(cmd.Context(), cfg.Paths.InputDir, cfg.Paths.OutputDir, cfg.Thresholds.Values)
				if err != nil {
					return err
				}
				runner.SetLedger(store, run.ID)
			}

			results, runErr := runner.ProcessFolder(cmd.Context(), cfg.Paths.InputDir)
			summary := batch.Summarize(results)

			if store != nil && run != nil {
				if err := store.FinishRun(cmd.Context(), run.ID, ledger.Totals{
					Rasters:   summary.Rasters,
					Pairs:     summary.Pairs,
					Succeeded: summary.Succeeded,
					Skipped:   summary.Skipped,
					Failed:    summary.Failed,
				}); err != nil {
					logger.Warn("finish ledger run failed", "error", err)
				}
			}
			if runErr != nil {
				return runErr
			}

			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintf(out, "No rasters matching %v found in %s\n", cfg.Raster.Extensions, cfg.Paths.InputDir)
				return nil
			}

			fmt.Fprintln(out, renderConvertResults(results))
			fmt.Fprintf(out, "%d pairs: %d succeeded, %d skipped, %d failed; %d layers collected\n",
				summary.Pairs, summary.Succeeded, summary.Skipped, summary.Failed, collector.Len())
			if run != nil {
				fmt.Fprintf(out, "Run recorded as %s\n", shortID(run.ID))
			}

			if summary.Failed > 0 {
				return fmt.Errorf("%d of %d pairs failed", summary.Failed, summary.Pairs)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputFlag, "input", "i", "", "Input directory containing rasters")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output directory for thresholded rasters and polygons")
	cmd.Flags().StringVarP(&thresholdsFlag, "thresholds", "t", "", "Comma-separated threshold values, e.g. 0.1,0.5,0.9")
	return cmd
}

func applyConvertFlags(cfg *config.Config, inputFlag, outputFlag, thresholdsFlag string) error {
	if inputFlag != "" {
		expanded, err := config.ExpandPath(inputFlag)
		if err != nil {
			return err
		}
		cfg.Paths.InputDir = expanded
	}
	if outputFlag != "" {
		expanded, err := config.ExpandPath(outputFlag)
		if err != nil {
			return err
		}
		cfg.Paths.OutputDir = expanded
	}
	if thresholdsFlag != "" {
		values, err := parseThresholds(thresholdsFlag)
		if err != nil {
			return err
		}
		cfg.Thresholds.Values = values
	}
	return nil
}

func requireConvertSettings(cfg *config.Config) error {
	if cfg.Paths.InputDir == "" {
		return errors.New("input directory not set: use --input or paths.input_dir in the config")
	}
	if cfg.Paths.OutputDir == "" {
		return errors.New("output directory not set: use --output or paths.output_dir in the config")
	}
	if len(cfg.Thresholds.Values) == 0 {
		return errors.New("no thresholds set: use --thresholds or thresholds.values in the config")
	}
	return nil
}

func renderConvertResults(results []batch.PairResult) string {
	rows := make([][]string, 0, len(results))
	for _, res := range results {
		features := "-"
		detail := ""
		switch {
		case res.Layer != nil:
			features = fmt.Sprintf("%d", res.Layer.FeatureCount)
		case res.Err != nil:
			detail = res.Err.Error()
		case res.SkipReason != "":
			detail = res.SkipReason
		}
		rows = append(rows, []string{
			filepath.Base(res.RasterPath),
			batch.FormatThreshold(res.Threshold),
			string(res.Status),
			features,
			detail,
		})
	}
	return renderTable([]string{"Raster", "Threshold", "Status", "Features", "Detail"}, rows, 1, 3)
}
