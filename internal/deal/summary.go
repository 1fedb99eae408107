package deal

import (
	"fmt"

	"github.com/iwvelando/carescore/internal/benchmarks"
	"github.com/iwvelando/carescore/pkg/mathutil"
)

// Deal score deductions.
const (
	capRateDeduction    = 20.0
	occupancyDeduction  = 15.0
	highRiskDeduction   = 25.0
	mediumRiskDeduction = 10.0
	reitYieldDeduction  = 10.0
)

// labelBands maps inclusive lower score bounds to recommendation labels.
var labelBands = []struct {
	min   float64
	label string
}{
	{80, LabelStrongBuy},
	{65, LabelBuy},
	{50, LabelHold},
	{35, LabelSell},
}

// Score computes the 0-100 deal score from the evaluated metrics.
func Score(metrics OverallMetrics, risk RiskAssessment, reit REITCompatibility, bm benchmarks.DealBenchmarks) float64 {
	score := 100.0
	if capRateBelowTarget(metrics.WeightedAverageCapRate, bm) {
		score -= capRateDeduction
	}
	if metrics.WeightedAverageOccupancy < bm.TargetOccupancy {
		score -= occupancyDeduction
	}
	switch risk.OverallRisk {
	case SeverityHigh:
		score -= highRiskDeduction
	case SeverityMedium:
		score -= mediumRiskDeduction
	}
	if !reit.MeetsPublicREITRequirements {
		score -= reitYieldDeduction
	}
	return mathutil.ClampScore(score)
}

// Label maps a deal score to its recommendation label. Bands are inclusive
// lower bounds: 80 STRONG BUY, 65 BUY, 50 HOLD, 35 SELL, below that
// STRONG SELL. The score floor example of a loss-making facility scoring
// exactly 30 (100-20-15-25-10) is sometimes quoted as SELL; under these
// bands it is STRONG SELL.
func Label(score float64) string {
	for _, b := range labelBands {
		if score >= b.min {
			return b.label
		}
	}
	return LabelStrongSell
}

// Summarize scores the evaluation and lists strengths, concerns and next steps.
func Summarize(e Evaluation, bm benchmarks.DealBenchmarks) Summary {
	m := e.OverallMetrics
	risk := e.RiskAssessment
	reit := e.REITCompatibility

	s := Summary{
		Score:     Score(m, risk, reit, bm),
		Strengths: []string{},
		Concerns:  []string{},
		NextSteps: []string{},
	}
	s.Recommendation = Label(s.Score)

	if capRateBelowTarget(m.WeightedAverageCapRate, bm) {
		s.Concerns = append(s.Concerns, fmt.Sprintf("Cap rate of %s is below the %.1f%% target", capRateText(m.WeightedAverageCapRate), bm.DefaultCapRate*100))
	} else {
		s.Strengths = append(s.Strengths, fmt.Sprintf("Cap rate of %s meets the %.1f%% target", capRateText(m.WeightedAverageCapRate), bm.DefaultCapRate*100))
	}

	if m.WeightedAverageOccupancy < bm.TargetOccupancy {
		s.Concerns = append(s.Concerns, fmt.Sprintf("Occupancy of %.1f%% is below the %.0f%% target", m.WeightedAverageOccupancy*100, bm.TargetOccupancy*100))
	} else {
		s.Strengths = append(s.Strengths, fmt.Sprintf("Occupancy of %.1f%% meets the %.0f%% target", m.WeightedAverageOccupancy*100, bm.TargetOccupancy*100))
	}

	switch risk.OverallRisk {
	case SeverityHigh:
		s.Concerns = append(s.Concerns, fmt.Sprintf("High overall risk with %d high-severity factors", risk.Counts.High))
	case SeverityMedium:
		s.Concerns = append(s.Concerns, "Moderate overall risk profile")
	default:
		s.Strengths = append(s.Strengths, "Low overall risk profile")
	}

	if reit.MeetsPublicREITRequirements {
		s.Strengths = append(s.Strengths, "Meets public REIT yield requirements")
	} else {
		s.Concerns = append(s.Concerns, "Does not meet public REIT yield requirements")
	}
	if reit.MeetsCoverageRatio {
		s.Strengths = append(s.Strengths, fmt.Sprintf("Coverage ratio of %.2fx supports REIT financing", reit.CoverageRatio))
	} else {
		s.Concerns = append(s.Concerns, fmt.Sprintf("Coverage ratio of %.2fx is below %.2fx", reit.CoverageRatio, bm.MinCoverageRatio))
	}

	estimated := 0
	for _, f := range e.Facilities {
		if f.DataQuality.Any() {
			estimated++
		}
	}
	if estimated > 0 {
		s.Concerns = append(s.Concerns, fmt.Sprintf("Financials partially estimated for %d of %d facilities", estimated, len(e.Facilities)))
		s.NextSteps = append(s.NextSteps, "Obtain reported T12M financials for facilities with estimated figures")
	}
	if m.WeightedAverageOccupancy < bm.TargetOccupancy {
		s.NextSteps = append(s.NextSteps, "Review census trends, payer mix and referral sources")
	}
	if risk.OverallRisk != SeverityLow {
		s.NextSteps = append(s.NextSteps, "Complete operational due diligence on flagged risk factors")
	}
	if !reit.MeetsCoverageRatio || !reit.MeetsPublicREITRequirements {
		s.NextSteps = append(s.NextSteps, "Model alternative pricing and financing structures")
	}
	s.NextSteps = append(s.NextSteps, "Schedule site visits and management interviews")

	return s
}
