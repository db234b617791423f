// Package adapter normalizes loosely typed external records into the typed
// shapes the feature extractor consumes. Problems that have a safe local
// recovery become warnings attached to the result; only a missing company
// identity is fatal.
package adapter

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/hiring-radar/internal/model"
)

// CompanyRecord is the raw headline record as delivered by upstream
// collaborators. Unknown extra fields are ignored by JSON decoding.
type CompanyRecord struct {
	ID                   string `json:"company_id"`
	Name                 string `json:"name"`
	Region               string `json:"region"`
	TeamSize             int    `json:"team_size"`
	EngineeringHeadcount int    `json:"engineering_headcount"`
	FoundedDate          string `json:"founded_date"`
}

// FundingRecord is one raw funding round. Amount arrives as whatever the
// upstream encoder produced: number, numeric string, or garbage.
type FundingRecord struct {
	RoundType string `json:"round_type"`
	Amount    any    `json:"amount_usd_millions"`
	Date      string `json:"date"`
}

// PostingRecord is one raw job posting.
type PostingRecord struct {
	Title     string `json:"title"`
	ScrapedAt string `json:"scraped_at"`
}

// MovementRecord is one raw personnel departure.
type MovementRecord struct {
	Seniority     string `json:"seniority"`
	DepartureDate string `json:"departure_date"`
}

// Bundle is the per-company quadruple handed to the adapter. A nil
// Movements slice means the personnel feed was absent for this company.
type Bundle struct {
	Company   CompanyRecord    `json:"company"`
	Rounds    []FundingRecord  `json:"rounds"`
	Postings  []PostingRecord  `json:"postings"`
	Movements []MovementRecord `json:"movements"`
}

// Adapt converts a raw bundle into typed shapes. It fails only on an absent
// company_id or name; everything else degrades to warnings.
func Adapt(b Bundle) (*model.CompanyData, []model.AdapterWarning, error) {
	if strings.TrimSpace(b.Company.ID) == "" {
		return nil, nil, eris.New("adapter: company_id is required")
	}
	if strings.TrimSpace(b.Company.Name) == "" {
		return nil, nil, eris.New("adapter: company name is required")
	}

	var warns []model.AdapterWarning
	warn := func(field, format string, args ...any) {
		warns = append(warns, model.AdapterWarning{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	teamSize := b.Company.TeamSize
	if teamSize < 0 {
		warn("team_size", "negative value %d clamped to 0", teamSize)
		teamSize = 0
	}

	company := model.Company{
		ID:                   strings.TrimSpace(b.Company.ID),
		Name:                 strings.TrimSpace(b.Company.Name),
		Region:               model.ParseRegion(strings.ToLower(strings.TrimSpace(b.Company.Region))),
		TeamSize:             teamSize,
		EngineeringHeadcount: max(b.Company.EngineeringHeadcount, 0),
		Founded:              parseDate(b.Company.FoundedDate, "founded_date", warn),
	}

	rounds := make([]model.FundingRound, 0, len(b.Rounds))
	for i, r := range b.Rounds {
		amt, ok := parseAmount(r.Amount)
		if !ok {
			warn("rounds", "round %d: non-numeric amount %v treated as 0", i, r.Amount)
			amt = 0
		}
		if amt < 0 {
			warn("rounds", "round %d: negative amount %.2f clamped to 0", i, amt)
			amt = 0
		}
		rounds = append(rounds, model.FundingRound{
			Type:       model.ParseRoundType(strings.ToLower(strings.TrimSpace(r.RoundType))),
			AmountUSDM: amt,
			Date:       parseDate(r.Date, fmt.Sprintf("rounds[%d].date", i), warn),
		})
	}

	postings := make([]model.JobPosting, 0, len(b.Postings))
	for i, p := range b.Postings {
		postings = append(postings, model.JobPosting{
			Title:     p.Title,
			ScrapedAt: parseDate(p.ScrapedAt, fmt.Sprintf("postings[%d].scraped_at", i), warn),
		})
	}

	var movements []model.Movement
	if b.Movements != nil {
		movements = make([]model.Movement, 0, len(b.Movements))
		for i, m := range b.Movements {
			movements = append(movements, model.Movement{
				Seniority:  model.Seniority(strings.ToLower(strings.TrimSpace(m.Seniority))),
				DepartedAt: parseDate(m.DepartureDate, fmt.Sprintf("movements[%d].departure_date", i), warn),
			})
		}
	}

	for _, w := range warns {
		zap.L().Warn("adapter: degraded field",
			zap.String("company_id", company.ID),
			zap.String("field", w.Field),
			zap.String("message", w.Message),
		)
	}

	return &model.CompanyData{
		Company:   company,
		Rounds:    rounds,
		Postings:  postings,
		Movements: movements,
	}, warns, nil
}

// parseDate parses an ISO-8601 date or datetime. An unparseable value is
// treated as absent, never as now.
func parseDate(s, field string, warn func(field, format string, args ...any)) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	warn(field, "unparseable date %q treated as absent", s)
	return nil
}

// parseAmount accepts the numeric encodings seen in the wild.
func parseAmount(v any) (float64, bool) {
	switch a := v.(type) {
	case nil:
		return 0, true
	case float64:
		return a, true
	case float32:
		return float64(a), true
	case int:
		return float64(a), true
	case int64:
		return float64(a), true
	case json.Number:
		f, err := a.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
