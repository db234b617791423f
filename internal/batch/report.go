package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/hiring-radar/internal/model"
)

// WriteJSON persists the report as a single serialized document.
func WriteJSON(r *model.Report, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrap(err, "batch: create report dir")
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return eris.Wrap(err, "batch: marshal report")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrap(err, "batch: write report")
	}
	return nil
}

// FormatReport renders a human-readable summary of a batch.
func FormatReport(r *model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Hiring Prediction Report\n")
	fmt.Fprintf(&b, "Run: %s\n", r.RunID)
	fmt.Fprintf(&b, "Generated: %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))

	b.WriteString("## Summary\n")
	fmt.Fprintf(&b, "- Companies scored: %d\n", r.Summary.Total)
	fmt.Fprintf(&b, "- Mean probability: %.2f%%\n", r.Summary.MeanProbability)
	fmt.Fprintf(&b, "- Buckets: %d low (<40), %d medium (40-70), %d high (>=70)\n", r.Summary.LowBucket, r.Summary.MidBucket, r.Summary.HighBucket)
	if len(r.Skipped) > 0 {
		fmt.Fprintf(&b, "- Skipped: %d\n", len(r.Skipped))
	}
	b.WriteString("\n")

	b.WriteString("## Top Candidates\n")
	if len(r.TopCandidates) == 0 {
		b.WriteString("No companies scored.\n")
	}
	for i, p := range r.TopCandidates {
		fmt.Fprintf(&b, "%d. **%s**: %.2f%% (%s)\n", i+1, p.CompanyName, p.Probability, p.Confidence)
		for _, reason := range p.Reasons {
			fmt.Fprintf(&b, "   - %s\n", reason)
		}
	}
	b.WriteString("\n")

	if len(r.Skipped) > 0 {
		b.WriteString("## Skipped\n")
		for _, s := range r.Skipped {
			fmt.Fprintf(&b, "- %s: %s\n", s.CompanyID, s.Error)
		}
	}

	return b.String()
}
