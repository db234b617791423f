package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/hiring-radar/internal/adapter"
	"github.com/sells-group/hiring-radar/internal/feature"
	"github.com/sells-group/hiring-radar/internal/predict"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Score a single company bundle",
	Long: `Reads one company bundle (company record, funding rounds, job postings,
optional personnel movements) from a JSON file, extracts features and
prints the prediction document.

Example:
  hiring-radar predict --input company.json --explain`,
	RunE: runPredict,
}

func init() {
	f := predictCmd.Flags()
	f.String("input", "", "JSON file with one company bundle (required)")
	f.Bool("explain", false, "include the per-feature impact ranking")
	f.String("model", "", "artifact path (overrides config)")
	f.Bool("save", false, "persist the prediction to the result store")
	_ = predictCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, _ []string) error {
	input, _ := cmd.Flags().GetString("input")
	explainImpacts, _ := cmd.Flags().GetBool("explain")
	modelPath, _ := cmd.Flags().GetString("model")
	if modelPath == "" {
		modelPath = cfg.Model.Path
	}
	save, _ := cmd.Flags().GetBool("save")

	raw, err := os.ReadFile(input)
	if err != nil {
		return eris.Wrap(err, "predict: read input")
	}
	var bundle adapter.Bundle
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return eris.Wrap(err, "predict: parse input")
	}

	data, _, err := adapter.Adapt(bundle)
	if err != nil {
		return err
	}
	row := feature.Extract(time.Now(), data).Row(data.Company.ID, data.Company.Name)

	p := predict.New(modelPath, cfg.Predict.HorizonLabel)
	pred, err := p.Predict(row, explainImpacts)
	if err != nil {
		return err
	}

	if save {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.SavePrediction(cmd.Context(), "", *pred); err != nil {
			return err
		}
	}

	out, err := json.MarshalIndent(pred, "", "  ")
	if err != nil {
		return eris.Wrap(err, "predict: marshal output")
	}
	fmt.Println(string(out))
	return nil
}
