package feature

import (
	"strings"
	"time"
	"unicode"

	"github.com/sells-group/hiring-radar/internal/model"
)

// Extract turns one company bundle into the fixed 18-field vector. It is
// pure: the single now captured by the caller is the only clock reference,
// and identical inputs always produce an identical vector.
func Extract(now time.Time, d *model.CompanyData) model.FeatureVector {
	var v model.FeatureVector

	latest := latestRound(d.Rounds)
	if latest != nil && latest.Date != nil {
		v.FundingRecency = daysBetween(*latest.Date, now)
		v.LastFundingAmount = latest.AmountUSDM
	} else {
		v.FundingRecency = MissingFundingRecency
		v.LastFundingAmount = 0
	}

	stage := model.RoundUnknown
	if latest != nil {
		stage = latest.Type
	}
	v.FundingStageWeight = StageWeights[stage]

	for _, r := range d.Rounds {
		v.TotalFunding += r.AmountUSDM
	}

	v.TeamSize = float64(d.Company.TeamSize)
	v.EngineeringHeadcount = float64(d.Company.Headcount())
	if d.Company.TeamSize > 0 {
		v.FundingPerEmployee = v.TotalFunding / float64(d.Company.TeamSize)
	}

	v.TechChurn, v.SeniorDepartures = churn(now, d)

	cur, prev, techCur := monthlyPostings(now, d.Postings)
	v.CurrentMonthPosts = float64(cur)
	v.JobPostVelocity = velocity(cur, prev)
	if cur > 0 {
		v.TechRolesRatio = 100 * float64(techCur) / float64(cur)
	}

	v.RegionFactor = RegionFactors[d.Company.Region]

	if d.Company.Founded != nil {
		v.CompanyAgeDays = daysBetween(*d.Company.Founded, now)
	} else {
		v.CompanyAgeDays = DefaultCompanyAgeDays
	}

	// Binary projections are computed last, from the final continuous
	// values only.
	v.IsRecentFunding = boolToFloat(v.FundingRecency < RecentFundingDays)
	v.HasHighChurn = boolToFloat(v.TechChurn > HighChurnPct)
	v.HasVelocitySurge = boolToFloat(v.JobPostVelocity > VelocitySurgeRatio)
	v.HasSeniorExodus = boolToFloat(v.SeniorDepartures >= SeniorExodusCount)

	return v
}

// latestRound picks the round with the greatest date; on a date tie the
// greater amount wins. Rounds without a date are ignored.
func latestRound(rounds []model.FundingRound) *model.FundingRound {
	var best *model.FundingRound
	for i := range rounds {
		r := &rounds[i]
		if r.Date == nil {
			continue
		}
		switch {
		case best == nil:
			best = r
		case r.Date.After(*best.Date):
			best = r
		case r.Date.Equal(*best.Date) && r.AmountUSDM > best.AmountUSDM:
			best = r
		}
	}
	return best
}

// churn computes the trailing-30-day turnover percentage and the senior
// departure count. A nil movements slice means no personnel feed: the
// industry prior substitutes for the churn rate.
func churn(now time.Time, d *model.CompanyData) (techChurn, seniorDepartures float64) {
	if d.Movements == nil {
		return ChurnPrior, 0
	}

	cutoff := now.AddDate(0, 0, -ChurnWindowDays)
	var recent, senior int
	for _, m := range d.Movements {
		if m.DepartedAt == nil || m.DepartedAt.Before(cutoff) || m.DepartedAt.After(now) {
			continue
		}
		recent++
		if m.Seniority.IsSenior() {
			senior++
		}
	}

	headcount := d.Company.Headcount()
	if headcount == 0 {
		return 0, 0
	}
	return 100 * float64(recent) / float64(headcount), float64(senior)
}

// monthlyPostings counts postings in the calendar month containing now and
// in the immediately preceding month, plus the tech-titled subset of the
// current month. Postings without a usable scraped_at are excluded.
func monthlyPostings(now time.Time, postings []model.JobPosting) (cur, prev, techCur int) {
	curStart := startOfMonth(now)
	prevStart := curStart.AddDate(0, -1, 0)
	nextStart := curStart.AddDate(0, 1, 0)

	for _, p := range postings {
		if p.ScrapedAt == nil {
			continue
		}
		t := *p.ScrapedAt
		switch {
		case !t.Before(curStart) && t.Before(nextStart):
			cur++
			if IsTechTitle(p.Title) {
				techCur++
			}
		case !t.Before(prevStart) && t.Before(curStart):
			prev++
		}
	}
	return cur, prev, techCur
}

// velocity is the month-over-month posting ratio with the surge-from-zero
// sentinel.
func velocity(cur, prev int) float64 {
	switch {
	case prev == 0 && cur == 0:
		return 0
	case prev == 0:
		return SurgeFromZero
	default:
		return float64(cur) / float64(prev)
	}
}

// IsTechTitle reports whether a posting title matches the tech keyword set.
func IsTechTitle(title string) bool {
	lower := strings.ToLower(title)
	var tokens []string
	for _, kw := range TechKeywords {
		if strings.ContainsRune(kw, ' ') {
			if strings.Contains(lower, kw) {
				return true
			}
			continue
		}
		if tokens == nil {
			tokens = strings.FieldsFunc(lower, func(r rune) bool {
				return !unicode.IsLetter(r) && !unicode.IsDigit(r)
			})
		}
		for _, tok := range tokens {
			if tok == kw {
				return true
			}
		}
	}
	return false
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func daysBetween(from, to time.Time) float64 {
	days := int(to.Sub(from).Hours() / 24)
	if days < 0 {
		return 0
	}
	return float64(days)
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
