package deal

import (
	"github.com/iwvelando/carescore/internal/benchmarks"
)

// Competitive positions by facility occupancy.
const (
	PositionStrong   = "strong"
	PositionModerate = "moderate"
	PositionWeak     = "weak"
)

// AnalyzeMarket annotates each facility with reimbursement rates, a
// competitive position and the current market trends.
func AnalyzeMarket(facilities []NormalizedFacility, bm benchmarks.DealBenchmarks) []MarketContext {
	out := make([]MarketContext, 0, len(facilities))
	for _, f := range facilities {
		rates, found := bm.ReimbursementFor(f.State)
		trends := make([]string, len(bm.MarketTrends))
		copy(trends, bm.MarketTrends)

		out = append(out, MarketContext{
			FacilityID: f.ID,
			Name:       f.Name,
			State:      f.State,
			City:       f.City,
			ReimbursementRates: ReimbursementRates{
				Medicare: rates.Medicare,
				Medicaid: rates.Medicaid,
			},
			RatesEstimated:      !found,
			CompetitivePosition: competitivePosition(f.OccupancyRate, bm),
			MarketTrends:        trends,
		})
	}
	return out
}

func competitivePosition(occupancy float64, bm benchmarks.DealBenchmarks) string {
	switch {
	case occupancy >= bm.StrongPositionOccupancy:
		return PositionStrong
	case occupancy >= bm.ModeratePositionOccupancy:
		return PositionModerate
	default:
		return PositionWeak
	}
}
