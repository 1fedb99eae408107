package market

import (
	"fmt"

	"github.com/iwvelando/carescore/pkg/constants"
)

// MaxInsights caps each of the risk and opportunity lists.
const MaxInsights = 4

type insightRule struct {
	applies func(r RawValues) bool
	message func(r RawValues) string
}

// riskRules are evaluated in order; the first MaxInsights matches survive.
var riskRules = []insightRule{
	{
		applies: func(r RawValues) bool { return r.PenetrationRatio > 1.2 },
		message: func(r RawValues) string {
			return fmt.Sprintf("Bed supply is %.0f%% above the national average per 1,000 seniors", (r.PenetrationRatio-1)*100)
		},
	},
	{
		applies: func(r RawValues) bool { return r.NeedGap < 0 },
		message: func(r RawValues) string {
			return fmt.Sprintf("Existing beds exceed estimated need by %.0f", -r.NeedGap)
		},
	},
	{
		applies: func(r RawValues) bool {
			return r.FacilityType == constants.FacilityTypeSNF && !r.OccupancyEstimated && r.Occupancy < 75
		},
		message: func(r RawValues) string {
			return fmt.Sprintf("Low market occupancy (%.1f%%) signals soft demand", r.Occupancy)
		},
	},
	{
		applies: func(r RawValues) bool { return r.NewFacilities >= 3 },
		message: func(r RawValues) string {
			return fmt.Sprintf("%.0f new facilities opened since 2021", r.NewFacilities)
		},
	},
	{
		applies: func(r RawValues) bool { return r.MedianIncome > 100000 },
		message: func(r RawValues) string {
			return "High-income market is attractive to new private-pay entrants"
		},
	},
	{
		applies: func(r RawValues) bool { return r.PovertyRate > 15 },
		message: func(r RawValues) string {
			return fmt.Sprintf("Poverty rate of %.1f%% implies heavy Medicaid dependence", r.PovertyRate)
		},
	},
	{
		applies: func(r RawValues) bool { return r.Growth65 < 5 },
		message: func(r RawValues) string {
			return fmt.Sprintf("Slow 65+ population growth (%.1f%%) through 2030", r.Growth65)
		},
	},
	{
		applies: func(r RawValues) bool { return r.WageScore < 40 },
		message: func(r RawValues) string {
			return fmt.Sprintf("Local CNA wage of $%.2f/hr is well above the national average", r.LocalWage)
		},
	},
	{
		applies: func(r RawValues) bool { return r.HealthcareUnemployment < 1 },
		message: func(r RawValues) string {
			return fmt.Sprintf("Tight healthcare labor market (%.1f%% unemployment)", r.HealthcareUnemployment)
		},
	},
	{
		applies: func(r RawValues) bool { return r.SpecialFocusCount > 0 },
		message: func(r RawValues) string {
			return fmt.Sprintf("%.0f special focus facilities in market draw regulatory scrutiny", r.SpecialFocusCount)
		},
	},
	{
		applies: func(r RawValues) bool { return r.DeficienciesPerFacility > 15 },
		message: func(r RawValues) string {
			return fmt.Sprintf("High deficiency counts (%.1f per facility)", r.DeficienciesPerFacility)
		},
	},
}

// opportunityRules are evaluated in order; the first MaxInsights matches survive.
var opportunityRules = []insightRule{
	{
		applies: func(r RawValues) bool { return r.NeedGapPct > 20 },
		message: func(r RawValues) string {
			return fmt.Sprintf("Unmet need of %.0f beds (%.0f%% of estimated need)", r.NeedGap, r.NeedGapPct)
		},
	},
	{
		applies: func(r RawValues) bool { return r.Pop65 > 0 && r.PenetrationRatio < 0.8 },
		message: func(r RawValues) string {
			return fmt.Sprintf("Bed supply is %.0f%% below the national average per 1,000 seniors", (1-r.PenetrationRatio)*100)
		},
	},
	{
		applies: func(r RawValues) bool { return r.Growth65 > 20 },
		message: func(r RawValues) string {
			return fmt.Sprintf("Strong 65+ population growth (%.1f%%) through 2030", r.Growth65)
		},
	},
	{
		applies: func(r RawValues) bool { return r.Growth85 > 25 },
		message: func(r RawValues) string {
			return fmt.Sprintf("Rapid 85+ population growth (%.1f%%) through 2030", r.Growth85)
		},
	},
	{
		applies: func(r RawValues) bool {
			return r.FacilityType == constants.FacilityTypeSNF && !r.OccupancyEstimated && r.Occupancy >= 85
		},
		message: func(r RawValues) string {
			return fmt.Sprintf("High market occupancy (%.1f%%) indicates pent-up demand", r.Occupancy)
		},
	},
	{
		applies: func(r RawValues) bool { return r.MedianHomeValue > 300000 },
		message: func(r RawValues) string {
			return "Home values above $300k support private-pay conversion"
		},
	},
	{
		applies: func(r RawValues) bool { return r.HomeownershipRate > 70 },
		message: func(r RawValues) string {
			return fmt.Sprintf("High homeownership (%.1f%%) supports ability to pay", r.HomeownershipRate)
		},
	},
	{
		applies: func(r RawValues) bool { return r.WageScore >= 80 },
		message: func(r RawValues) string {
			return "Favorable labor costs relative to the national average"
		},
	},
	{
		applies: func(r RawValues) bool { return r.AvgRating > 0 && r.AvgRating < 3 },
		message: func(r RawValues) string {
			return fmt.Sprintf("Below-average competitor ratings (%.1f stars) leave room for a quality operator", r.AvgRating)
		},
	},
}

// GenerateInsights evaluates the fixed rule lists against the raw values of a
// score set.
func GenerateInsights(scores ScoreSet) Insights {
	return Insights{
		Risks:         applyRules(riskRules, scores.RawValues),
		Opportunities: applyRules(opportunityRules, scores.RawValues),
	}
}

func applyRules(rules []insightRule, r RawValues) []string {
	out := []string{}
	for _, rule := range rules {
		if len(out) == MaxInsights {
			break
		}
		if rule.applies(r) {
			out = append(out, rule.message(r))
		}
	}
	return out
}
