package deal

import (
	"fmt"
	"sort"

	"github.com/iwvelando/carescore/internal/benchmarks"
	"github.com/iwvelando/carescore/pkg/mathutil"
)

const maxTopRisks = 3

// ValueFacility computes cap rate, EBITDA multiple and price per bed. A
// facility without a positive EBITDA and price gets the default cap rate
// plus its state risk adjustment.
func ValueFacility(n NormalizedFacility, bm benchmarks.DealBenchmarks) FacilityValuation {
	v := FacilityValuation{
		FacilityID:  n.ID,
		Name:        n.Name,
		PricePerBed: n.PricePerBed,
	}

	if n.T12MEBITDA > 0 && n.PurchasePrice > 0 {
		v.CapRate = n.T12MEBITDA / n.PurchasePrice
	} else {
		v.CapRate = bm.DefaultCapRate + bm.StateRiskAdjustment(n.State)
		v.CapRateEstimated = true
	}

	v.EBITDAMultiple = mathutil.SafeDivide(n.PurchasePrice, n.T12MEBITDA, 0)
	return v
}

// AggregateMetrics sums facility figures and computes the weighted averages.
func AggregateMetrics(facilities []NormalizedFacility) OverallMetrics {
	m := OverallMetrics{FacilityCount: len(facilities)}

	occupancyByBeds := 0.0
	occupancySum := 0.0
	proForma := map[int]*ProFormaTotal{}

	for _, f := range facilities {
		m.TotalBeds += f.TotalBeds
		m.TotalPurchasePrice += f.PurchasePrice
		m.TotalRevenue += f.T12MRevenue
		m.TotalEBITDA += f.T12MEBITDA
		m.TotalEBITDAR += f.T12MEBITDAR
		occupancyByBeds += f.OccupancyRate * float64(f.TotalBeds)
		occupancySum += f.OccupancyRate

		for _, y := range f.ProForma {
			t, ok := proForma[y.Year]
			if !ok {
				t = &ProFormaTotal{Year: y.Year}
				proForma[y.Year] = t
			}
			t.Revenue += y.Revenue.Float()
			t.EBITDA += y.EBITDA.Float()
		}
	}

	if m.TotalPurchasePrice > 0 && m.TotalEBITDA != 0 {
		capRate := m.TotalEBITDA / m.TotalPurchasePrice
		m.WeightedAverageCapRate = &capRate
	}

	switch {
	case m.TotalBeds > 0:
		m.WeightedAverageOccupancy = occupancyByBeds / float64(m.TotalBeds)
	case len(facilities) > 0:
		m.WeightedAverageOccupancy = occupancySum / float64(len(facilities))
	}

	m.AveragePricePerBed = mathutil.SafeDivide(m.TotalPurchasePrice, float64(m.TotalBeds), 0)

	for _, t := range proForma {
		m.ProForma = append(m.ProForma, *t)
	}
	sort.Slice(m.ProForma, func(i, j int) bool {
		return m.ProForma[i].Year < m.ProForma[j].Year
	})

	return m
}

// AssessRisk flattens facility risk factors and classifies the deal. With
// bm.DealLevelRisk set, a deal whose combined EBITDA is negative carries one
// additional high financial factor of its own.
func AssessRisk(facilities []NormalizedFacility, metrics OverallMetrics, bm benchmarks.DealBenchmarks) RiskAssessment {
	ra := RiskAssessment{
		Factors:  []RiskFactor{},
		TopRisks: []string{},
	}
	for _, f := range facilities {
		ra.Factors = append(ra.Factors, f.RiskFactors...)
	}
	if bm.DealLevelRisk && len(facilities) > 0 && metrics.TotalEBITDA < 0 {
		ra.Factors = append(ra.Factors, RiskFactor{
			Type:        RiskTypeFinancial,
			Severity:    SeverityHigh,
			Description: fmt.Sprintf("Deal: combined T12M EBITDA is negative (%.0f)", metrics.TotalEBITDA),
		})
	}

	for _, rf := range ra.Factors {
		switch rf.Severity {
		case SeverityHigh:
			ra.Counts.High++
			if len(ra.TopRisks) < maxTopRisks {
				ra.TopRisks = append(ra.TopRisks, rf.Description)
			}
		case SeverityMedium:
			ra.Counts.Medium++
		default:
			ra.Counts.Low++
		}
	}

	switch {
	case ra.Counts.High > 2:
		ra.OverallRisk = SeverityHigh
	case ra.Counts.High >= 1 || ra.Counts.Medium > 3:
		ra.OverallRisk = SeverityMedium
	default:
		ra.OverallRisk = SeverityLow
	}
	return ra
}

// AssessREIT tests the deal against REIT yield and coverage requirements. A
// missing weighted cap rate fails both yield tests.
func AssessREIT(metrics OverallMetrics, bm benchmarks.DealBenchmarks) REITCompatibility {
	rc := REITCompatibility{CapRate: metrics.WeightedAverageCapRate}

	if metrics.TotalPurchasePrice > 0 {
		rc.CoverageRatio = metrics.TotalEBITDAR / (metrics.TotalPurchasePrice * bm.CostOfCapital)
	}
	if rc.CapRate != nil {
		rc.MeetsPublicREITRequirements = *rc.CapRate >= bm.PublicREITMinYield
		rc.MeetsPrivateREITRequirements = *rc.CapRate >= bm.PrivateREITMinYield
	}
	rc.MeetsCoverageRatio = rc.CoverageRatio >= bm.MinCoverageRatio
	return rc
}

// capRateBelowTarget treats a missing cap rate as below target.
func capRateBelowTarget(capRate *float64, bm benchmarks.DealBenchmarks) bool {
	return capRate == nil || *capRate < bm.DefaultCapRate
}

// BuildRecommendations evaluates the recommendation rules in a fixed order.
func BuildRecommendations(metrics OverallMetrics, risk RiskAssessment, reit REITCompatibility, bm benchmarks.DealBenchmarks) []Recommendation {
	recs := []Recommendation{}

	if capRateBelowTarget(metrics.WeightedAverageCapRate, bm) {
		recs = append(recs, Recommendation{
			Category:    "valuation",
			Priority:    SeverityHigh,
			Title:       "Renegotiate purchase price",
			Description: fmt.Sprintf("Weighted cap rate of %s is below the %.1f%% target; pricing should be revisited.", capRateText(metrics.WeightedAverageCapRate), bm.DefaultCapRate*100),
		})
	}
	if metrics.WeightedAverageOccupancy < bm.TargetOccupancy {
		recs = append(recs, Recommendation{
			Category:    "operations",
			Priority:    SeverityMedium,
			Title:       "Occupancy improvement plan",
			Description: fmt.Sprintf("Weighted occupancy of %.1f%% is below the %.0f%% target; review census and referral strategy.", metrics.WeightedAverageOccupancy*100, bm.TargetOccupancy*100),
		})
	}
	if risk.OverallRisk == SeverityHigh {
		recs = append(recs, Recommendation{
			Category:    "risk",
			Priority:    SeverityHigh,
			Title:       "Mitigate high-severity risks",
			Description: fmt.Sprintf("%d high-severity risk factors identified; address them before committing capital.", risk.Counts.High),
		})
	}
	if !reit.MeetsPublicREITRequirements {
		recs = append(recs, Recommendation{
			Category:    "reit",
			Priority:    SeverityMedium,
			Title:       "REIT yield requirement not met",
			Description: fmt.Sprintf("Cap rate of %s is below the %.1f%% public REIT minimum yield.", capRateText(reit.CapRate), bm.PublicREITMinYield*100),
		})
	}
	if !reit.MeetsCoverageRatio {
		recs = append(recs, Recommendation{
			Category:    "reit",
			Priority:    SeverityMedium,
			Title:       "Coverage ratio below threshold",
			Description: fmt.Sprintf("Coverage ratio of %.2fx is below the %.2fx minimum.", reit.CoverageRatio, bm.MinCoverageRatio),
		})
	}
	return recs
}

func capRateText(capRate *float64) string {
	if capRate == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", *capRate*100)
}
