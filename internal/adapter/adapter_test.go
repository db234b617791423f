package adapter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/hiring-radar/internal/model"
)

func validBundle() Bundle {
	return Bundle{
		Company: CompanyRecord{
			ID:       "acme-1",
			Name:     "Acme",
			Region:   "us",
			TeamSize: 40,
		},
	}
}

func TestAdapt_MissingID(t *testing.T) {
	b := validBundle()
	b.Company.ID = "  "
	_, _, err := Adapt(b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "company_id is required")
}

func TestAdapt_MissingName(t *testing.T) {
	b := validBundle()
	b.Company.Name = ""
	_, _, err := Adapt(b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestAdapt_UnparseableDateBecomesAbsent(t *testing.T) {
	b := validBundle()
	b.Company.FoundedDate = "not-a-date"
	b.Rounds = []FundingRecord{{RoundType: "seed", Amount: 2.5, Date: "13/01/2023"}}

	data, warns, err := Adapt(b)
	require.NoError(t, err)

	assert.Nil(t, data.Company.Founded)
	require.Len(t, data.Rounds, 1)
	assert.Nil(t, data.Rounds[0].Date)
	assert.Len(t, warns, 2)
}

func TestAdapt_DateFormats(t *testing.T) {
	b := validBundle()
	b.Company.FoundedDate = "2021-03-01"
	b.Postings = []PostingRecord{{Title: "Engineer", ScrapedAt: "2025-06-01T10:30:00Z"}}

	data, warns, err := Adapt(b)
	require.NoError(t, err)
	assert.Empty(t, warns)

	require.NotNil(t, data.Company.Founded)
	assert.Equal(t, 2021, data.Company.Founded.Year())
	require.NotNil(t, data.Postings[0].ScrapedAt)
}

func TestAdapt_NegativeAmountClamped(t *testing.T) {
	b := validBundle()
	b.Rounds = []FundingRecord{{RoundType: "series-a", Amount: -5.0, Date: "2025-01-01"}}

	data, warns, err := Adapt(b)
	require.NoError(t, err)

	assert.Equal(t, 0.0, data.Rounds[0].AmountUSDM)
	require.Len(t, warns, 1)
	assert.Equal(t, "rounds", warns[0].Field)
	assert.Contains(t, warns[0].Message, "clamped to 0")
}

func TestAdapt_NonNumericAmount(t *testing.T) {
	b := validBundle()
	b.Rounds = []FundingRecord{
		{RoundType: "seed", Amount: "12.5", Date: "2025-01-01"},
		{RoundType: "seed", Amount: "undisclosed", Date: "2025-02-01"},
	}

	data, warns, err := Adapt(b)
	require.NoError(t, err)

	assert.Equal(t, 12.5, data.Rounds[0].AmountUSDM)
	assert.Equal(t, 0.0, data.Rounds[1].AmountUSDM)
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0].Message, "non-numeric")
}

func TestAdapt_UnknownRoundType(t *testing.T) {
	b := validBundle()
	b.Rounds = []FundingRecord{{RoundType: "mezzanine", Amount: 30.0, Date: "2025-01-01"}}

	data, _, err := Adapt(b)
	require.NoError(t, err)
	assert.Equal(t, model.RoundUnknown, data.Rounds[0].Type)
}

func TestAdapt_UnknownRegion(t *testing.T) {
	b := validBundle()
	b.Company.Region = "atlantis"

	data, _, err := Adapt(b)
	require.NoError(t, err)
	assert.Equal(t, model.RegionUnknown, data.Company.Region)
}

func TestAdapt_NilMovementsStaysNil(t *testing.T) {
	b := validBundle()
	data, _, err := Adapt(b)
	require.NoError(t, err)
	assert.Nil(t, data.Movements)
}

func TestAdapt_EmptyMovementsStaysEmpty(t *testing.T) {
	b := validBundle()
	b.Movements = []MovementRecord{}
	data, _, err := Adapt(b)
	require.NoError(t, err)
	require.NotNil(t, data.Movements)
	assert.Empty(t, data.Movements)
}

func TestAdapt_NegativeTeamSizeClamped(t *testing.T) {
	b := validBundle()
	b.Company.TeamSize = -3

	data, warns, err := Adapt(b)
	require.NoError(t, err)
	assert.Equal(t, 0, data.Company.TeamSize)
	require.Len(t, warns, 1)
	assert.Equal(t, "team_size", warns[0].Field)
}

// Upstream JSON may carry extra unknown fields; decoding into the bundle
// ignores them and amounts survive as json numbers.
func TestAdapt_FromJSON(t *testing.T) {
	raw := `{
		"company": {"company_id": "x-1", "name": "X", "region": "eu", "team_size": 12, "hq_city": "Berlin"},
		"rounds": [{"round_type": "seed", "amount_usd_millions": 4.2, "date": "2025-03-10", "lead_investor": "Fund I"}],
		"postings": [{"title": "Backend Engineer", "scraped_at": "2025-06-02"}],
		"movements": [{"seniority": "senior", "departure_date": "2025-06-01"}]
	}`

	var b Bundle
	require.NoError(t, json.Unmarshal([]byte(raw), &b))

	data, warns, err := Adapt(b)
	require.NoError(t, err)
	assert.Empty(t, warns)
	assert.Equal(t, model.RegionEU, data.Company.Region)
	assert.Equal(t, 4.2, data.Rounds[0].AmountUSDM)
	assert.Equal(t, model.SenioritySenior, data.Movements[0].Seniority)
}
