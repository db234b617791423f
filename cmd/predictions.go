package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/hiring-radar/internal/store"
)

var predictionsCmd = &cobra.Command{
	Use:   "predictions",
	Short: "List stored predictions",
	Long: `Lists predictions previously persisted with --save, ordered by
probability descending.

Examples:
  hiring-radar predictions --min-probability 70
  hiring-radar predictions --company acme-1 --limit 5`,
	RunE: runPredictions,
}

func init() {
	f := predictionsCmd.Flags()
	f.Float64("min-probability", 0, "only rows at or above this probability")
	f.String("company", "", "filter by company id")
	f.Int("limit", 50, "maximum rows")

	rootCmd.AddCommand(predictionsCmd)
}

func runPredictions(cmd *cobra.Command, _ []string) error {
	minProb, _ := cmd.Flags().GetFloat64("min-probability")
	company, _ := cmd.Flags().GetString("company")
	limit, _ := cmd.Flags().GetInt("limit")

	st, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer st.Close()

	preds, err := st.ListPredictions(cmd.Context(), store.PredictionFilter{
		CompanyID:      company,
		MinProbability: minProb,
		Limit:          limit,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COMPANY\tNAME\tPROBABILITY\tCLASS\tCONFIDENCE\tPREDICTED")
	for _, p := range preds {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%d\t%s\t%s\n",
			p.CompanyID, p.CompanyName, p.Probability, p.Class, p.Confidence,
			p.PredictedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

// openStore builds the configured store backend with migrations applied.
func openStore(ctx context.Context) (store.Store, error) {
	var st store.Store
	switch cfg.Store.Driver {
	case "postgres":
		pg, err := store.NewPostgres(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		st = pg
	case "sqlite", "":
		sq, err := store.NewSQLite(cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		st = sq
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}
