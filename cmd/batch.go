package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/hiring-radar/internal/adapter"
	"github.com/sells-group/hiring-radar/internal/batch"
	"github.com/sells-group/hiring-radar/internal/predict"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Score a batch of companies and write a ranked report",
	Long: `Reads an array of company bundles from a JSON file, scores every company
and writes the ranked report document. Individual failures are skipped and
listed in the report metadata; the batch itself never fails.

Examples:
  hiring-radar batch --input companies.json --output report.json
  hiring-radar batch --input companies.json --format markdown
  hiring-radar batch --input companies.json --save --workers 4`,
	RunE: runBatch,
}

func init() {
	f := batchCmd.Flags()
	f.String("input", "", "JSON file with an array of company bundles (required)")
	f.String("output", "", "report file path (default: stdout)")
	f.String("format", "json", "output format: json or markdown")
	f.Int("workers", 0, "parallel workers (overrides config; 1 = sequential)")
	f.Bool("save", false, "persist the report to the result store")
	_ = batchCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("format")
	workers, _ := cmd.Flags().GetInt("workers")
	if workers == 0 {
		workers = cfg.Batch.Workers
	}
	save, _ := cmd.Flags().GetBool("save")

	raw, err := os.ReadFile(input)
	if err != nil {
		return eris.Wrap(err, "batch: read input")
	}
	var bundles []adapter.Bundle
	if err := json.Unmarshal(raw, &bundles); err != nil {
		return eris.Wrap(err, "batch: parse input")
	}

	log := zap.L().With(zap.String("command", "batch"))
	log.Info("starting batch", zap.Int("companies", len(bundles)), zap.Int("workers", workers))

	p := predict.New(cfg.Model.Path, cfg.Predict.HorizonLabel)
	report, err := batch.New(p, workers).Run(ctx, bundles)
	if err != nil {
		return err
	}

	log.Info("batch complete",
		zap.String("run_id", report.RunID),
		zap.Int("scored", report.Summary.Total),
		zap.Int("skipped", len(report.Skipped)),
		zap.Float64("mean_probability", report.Summary.MeanProbability),
	)

	if save {
		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.SaveReport(ctx, report); err != nil {
			return err
		}
	}

	if format == "markdown" {
		return emit(output, []byte(batch.FormatReport(report)))
	}
	doc, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return eris.Wrap(err, "batch: marshal report")
	}
	return emit(output, doc)
}

func emit(path string, data []byte) error {
	if path == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrap(err, "batch: write output")
	}
	return nil
}
