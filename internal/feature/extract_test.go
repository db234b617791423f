package feature

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/hiring-radar/internal/model"
)

func daysAgo(now time.Time, days int) *time.Time {
	d := now.AddDate(0, 0, -days)
	return &d
}

// Funded South American company with a posting surge: the headline
// acceptance scenario.
func TestExtract_FundedSACompany(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	founded := time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)

	data := &model.CompanyData{
		Company: model.Company{
			ID:       "sa-1",
			Name:     "Andes Labs",
			Region:   model.RegionSA,
			TeamSize: 120,
			Founded:  &founded,
		},
		Rounds: []model.FundingRound{
			{Type: model.RoundSeriesB, AmountUSDM: 45, Date: daysAgo(now, 60)},
		},
		Postings: []model.JobPosting{
			{Title: "Senior Backend Engineer", ScrapedAt: daysAgo(now, 2)},
			{Title: "DevOps Engineer", ScrapedAt: daysAgo(now, 4)},
			{Title: "Machine Learning Engineer", ScrapedAt: daysAgo(now, 6)},
			{Title: "Full Stack Developer", ScrapedAt: daysAgo(now, 8)},
			{Title: "Account Executive", ScrapedAt: daysAgo(now, 10)},
			{Title: "Data Scientist", ScrapedAt: daysAgo(now, 35)},
			{Title: "Office Manager", ScrapedAt: daysAgo(now, 40)},
		},
		Movements: []model.Movement{
			{Seniority: model.SenioritySenior, DepartedAt: daysAgo(now, 5)},
			{Seniority: model.SeniorityStaff, DepartedAt: daysAgo(now, 12)},
		},
	}

	v := Extract(now, data)

	assert.Equal(t, 60.0, v.FundingRecency)
	assert.Equal(t, 45.0, v.LastFundingAmount)
	assert.InDelta(t, 1.67, v.TechChurn, 0.01)
	assert.Equal(t, 2.0, v.SeniorDepartures)
	assert.Equal(t, 2.5, v.JobPostVelocity) // 5 this month / 2 last month
	assert.Equal(t, 80.0, v.TechRolesRatio) // 4 of 5 current-month titles
	assert.Equal(t, 1.25, v.RegionFactor)
	assert.Equal(t, 0.9, v.FundingStageWeight)
	assert.Equal(t, 1.0, v.IsRecentFunding)
	assert.Equal(t, 1.0, v.HasVelocitySurge)
	assert.Equal(t, 0.0, v.HasSeniorExodus)
}

func TestExtract_NoFunding(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	data := &model.CompanyData{
		Company: model.Company{ID: "c1", Name: "NoCash", Region: model.RegionEU, TeamSize: 10},
	}

	v := Extract(now, data)

	assert.Equal(t, 999.0, v.FundingRecency)
	assert.Equal(t, 0.0, v.LastFundingAmount)
	assert.Equal(t, 0.0, v.TotalFunding)
	assert.Equal(t, 0.4, v.FundingStageWeight)
	assert.Equal(t, 0.0, v.IsRecentFunding)
	assert.Equal(t, 1825.0, v.CompanyAgeDays)
}

// Zero postings last month and some this month must hit the surge
// sentinel, not a division by zero, and the strict surge flag stays off.
func TestExtract_SurgeFromZero(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	data := &model.CompanyData{
		Company: model.Company{ID: "c1", Name: "FromZero", TeamSize: 20},
		Postings: []model.JobPosting{
			{Title: "Engineer", ScrapedAt: daysAgo(now, 1)},
			{Title: "Engineer", ScrapedAt: daysAgo(now, 2)},
			{Title: "Engineer", ScrapedAt: daysAgo(now, 3)},
		},
	}

	v := Extract(now, data)

	assert.Equal(t, 2.0, v.JobPostVelocity)
	assert.Equal(t, 0.0, v.HasVelocitySurge) // strict inequality
	assert.Equal(t, 3.0, v.CurrentMonthPosts)
}

func TestExtract_NoPostingsAtAll(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	v := Extract(now, &model.CompanyData{
		Company: model.Company{ID: "c1", Name: "Quiet", TeamSize: 5},
	})

	assert.Equal(t, 0.0, v.JobPostVelocity)
	assert.Equal(t, 0.0, v.TechRolesRatio)
	assert.Equal(t, 0.0, v.CurrentMonthPosts)
}

func TestExtract_MissingPersonnelFeedUsesPrior(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	v := Extract(now, &model.CompanyData{
		Company: model.Company{ID: "c1", Name: "NoFeed", TeamSize: 50},
	})

	assert.Equal(t, ChurnPrior, v.TechChurn)
	assert.Equal(t, 0.0, v.SeniorDepartures)
}

func TestExtract_EmptyMovementsIsObservedZero(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	v := Extract(now, &model.CompanyData{
		Company:   model.Company{ID: "c1", Name: "Stable", TeamSize: 50},
		Movements: []model.Movement{},
	})

	assert.Equal(t, 0.0, v.TechChurn)
}

func TestExtract_ZeroHeadcountChurn(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	v := Extract(now, &model.CompanyData{
		Company: model.Company{ID: "c1", Name: "Ghost", TeamSize: 0},
		Movements: []model.Movement{
			{Seniority: model.SenioritySenior, DepartedAt: daysAgo(now, 1)},
		},
	})

	assert.Equal(t, 0.0, v.TechChurn)
	assert.Equal(t, 0.0, v.SeniorDepartures)
}

func TestExtract_SameDateRoundTieBreaksOnAmount(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	date := daysAgo(now, 30)
	v := Extract(now, &model.CompanyData{
		Company: model.Company{ID: "c1", Name: "DoubleClose", TeamSize: 10},
		Rounds: []model.FundingRound{
			{Type: model.RoundSeed, AmountUSDM: 3, Date: date},
			{Type: model.RoundSeriesA, AmountUSDM: 12, Date: date},
		},
	})

	assert.Equal(t, 12.0, v.LastFundingAmount)
	assert.Equal(t, 0.8, v.FundingStageWeight)
	assert.Equal(t, 15.0, v.TotalFunding)
}

func TestExtract_BinaryConsistency(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	cases := []*model.CompanyData{
		{Company: model.Company{ID: "a", Name: "A", TeamSize: 8},
			Rounds: []model.FundingRound{{Type: model.RoundSeed, AmountUSDM: 2, Date: daysAgo(now, 179)}}},
		{Company: model.Company{ID: "b", Name: "B", TeamSize: 10},
			Movements: []model.Movement{
				{Seniority: model.SenioritySenior, DepartedAt: daysAgo(now, 1)},
				{Seniority: model.SeniorityLead, DepartedAt: daysAgo(now, 2)},
				{Seniority: model.SeniorityPrincipal, DepartedAt: daysAgo(now, 3)},
			}},
		{Company: model.Company{ID: "c", Name: "C", TeamSize: 500},
			Postings: []model.JobPosting{{Title: "Engineer", ScrapedAt: daysAgo(now, 1)}}},
	}

	for _, data := range cases {
		v := Extract(now, data)
		assert.Equal(t, v.FundingRecency < RecentFundingDays, v.IsRecentFunding == 1)
		assert.Equal(t, v.TechChurn > HighChurnPct, v.HasHighChurn == 1)
		assert.Equal(t, v.JobPostVelocity > VelocitySurgeRatio, v.HasVelocitySurge == 1)
		assert.Equal(t, v.SeniorDepartures >= SeniorExodusCount, v.HasSeniorExodus == 1)
	}
}

func TestExtract_Deterministic(t *testing.T) {
	now := time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)
	data := &model.CompanyData{
		Company: model.Company{ID: "c1", Name: "Same", Region: model.RegionUS, TeamSize: 40},
		Rounds:  []model.FundingRound{{Type: model.RoundSeriesA, AmountUSDM: 8, Date: daysAgo(now, 45)}},
		Postings: []model.JobPosting{
			{Title: "Platform Engineer", ScrapedAt: daysAgo(now, 3)},
		},
	}

	assert.Equal(t, Extract(now, data), Extract(now, data))
}

func TestExtract_ShapeAndFiniteness(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	v := Extract(now, &model.CompanyData{
		Company: model.Company{ID: "c1", Name: "Shape", TeamSize: 3},
	})

	vals := v.Values()
	require.Len(t, vals, model.FeatureCount)
	require.Len(t, model.FeatureNames, model.FeatureCount)
	assert.True(t, v.Finite())
}

func TestExtract_UnscrapedPostingsExcluded(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	v := Extract(now, &model.CompanyData{
		Company: model.Company{ID: "c1", Name: "Partial", TeamSize: 10},
		Postings: []model.JobPosting{
			{Title: "Engineer"}, // no scraped_at
			{Title: "Engineer", ScrapedAt: daysAgo(now, 1)},
		},
	})

	assert.Equal(t, 1.0, v.CurrentMonthPosts)
}

func TestIsTechTitle(t *testing.T) {
	cases := []struct {
		title string
		want  bool
	}{
		{"Senior Software Engineer", true},
		{"AI Researcher", true},
		{"Machine Learning Lead", true},
		{"Full Stack Developer", true},
		{"Head of Platform", true},
		{"SRE", true},
		{"Maintenance Supervisor", false}, // "ai" must not match inside a word
		{"Account Executive", false},
		{"Paralegal", false},
		{"", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IsTechTitle(c.title), c.title)
	}
}

func TestRegionFactorBounds(t *testing.T) {
	for region, f := range RegionFactors {
		assert.GreaterOrEqual(t, f, 0.5, string(region))
		assert.LessOrEqual(t, f, 2.0, string(region))
	}
	assert.Equal(t, 1.0, RegionFactors[model.RegionUnknown])
}
