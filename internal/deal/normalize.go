package deal

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/carescore/internal/benchmarks"
	"github.com/iwvelando/carescore/pkg/constants"
	"github.com/iwvelando/carescore/pkg/mathutil"
)

// NormalizeFinancials fills missing facility financials with benchmark
// estimates, flags each substitution and derives risk factors.
//
// A reported occupancy of exactly zero cannot be told apart from a missing
// one and is treated as unknown.
func NormalizeFinancials(f RawFacility, bm benchmarks.DealBenchmarks) NormalizedFacility {
	n := NormalizedFacility{
		ID:              f.ID,
		Name:            f.Name,
		City:            f.City,
		State:           strings.ToUpper(strings.TrimSpace(f.State)),
		FacilityType:    f.FacilityType,
		TotalBeds:       totalBeds(f.Beds),
		PurchasePrice:   f.PurchasePrice.Float(),
		T12MRevenue:     f.T12MRevenue.Float(),
		T12MRentExpense: f.T12MRentExpense.Float(),
	}

	if f.T12MEBITDA.Present() {
		n.T12MEBITDA = f.T12MEBITDA.Float()
	} else {
		n.T12MEBITDA = n.T12MRevenue * bm.TargetEBITDAMargin
		n.DataQuality.EBITDAEstimated = true
	}

	if f.T12MEBITDAR.NonZero() {
		n.T12MEBITDAR = f.T12MEBITDAR.Float()
	} else {
		n.T12MEBITDAR = n.T12MRevenue * bm.TargetEBITDARMargin
		n.DataQuality.EBITDAREstimated = true
	}

	if f.T12MEBIT.NonZero() {
		n.T12MEBIT = f.T12MEBIT.Float()
	} else {
		n.T12MEBIT = n.T12MEBITDA - n.T12MRentExpense
		n.DataQuality.EBITEstimated = true
	}

	if occ := occupancyFraction(f.T12MOccupancy.Float()); occ > 0 {
		n.OccupancyRate = occ
	} else {
		n.OccupancyRate = bm.DefaultOccupancy
		n.DataQuality.OccupancyEstimated = true
	}

	beds := float64(n.TotalBeds)
	n.PricePerBed = mathutil.SafeDivide(n.PurchasePrice, beds, 0)
	n.RevenuePerBed = mathutil.SafeDivide(n.T12MRevenue, beds, 0)
	n.HasActualData = f.T12MEBITDA.NonZero()

	if len(f.ProForma) > 0 {
		n.ProForma = make([]ProFormaYear, len(f.ProForma))
		copy(n.ProForma, f.ProForma)
	}

	n.RiskFactors = facilityRiskFactors(n, bm)
	return n
}

// totalBeds sums bed-type counts. Negative counts contribute nothing.
func totalBeds(beds []BedType) int {
	total := 0
	for _, b := range beds {
		if c := b.Count.Float(); c > 0 {
			total += int(math.Round(c))
		}
	}
	return total
}

// occupancyFraction reads values above 1 as percentages.
func occupancyFraction(v float64) float64 {
	if v > 1 {
		return v / constants.PercentageMultiplier
	}
	return v
}

func facilityRiskFactors(n NormalizedFacility, bm benchmarks.DealBenchmarks) []RiskFactor {
	factors := []RiskFactor{}

	switch {
	case n.T12MEBITDA < 0:
		factors = append(factors, RiskFactor{
			Type:        RiskTypeFinancial,
			Severity:    SeverityHigh,
			Description: fmt.Sprintf("%s: negative T12M EBITDA", facilityLabel(n)),
		})
	case n.T12MRevenue > 0 && n.T12MEBITDA < n.T12MRevenue*bm.TargetEBITDAMargin:
		factors = append(factors, RiskFactor{
			Type:     RiskTypeFinancial,
			Severity: SeverityMedium,
			Description: fmt.Sprintf("%s: EBITDA margin of %.1f%% is below the %.0f%% target",
				facilityLabel(n), n.T12MEBITDA/n.T12MRevenue*100, bm.TargetEBITDAMargin*100),
		})
	}

	switch {
	case n.OccupancyRate < bm.HighRiskOccupancy:
		factors = append(factors, RiskFactor{
			Type:     RiskTypeOperational,
			Severity: SeverityHigh,
			Description: fmt.Sprintf("%s: occupancy of %.1f%% is below %.0f%%",
				facilityLabel(n), n.OccupancyRate*100, bm.HighRiskOccupancy*100),
		})
	case n.OccupancyRate < bm.TargetOccupancy:
		factors = append(factors, RiskFactor{
			Type:     RiskTypeOperational,
			Severity: SeverityMedium,
			Description: fmt.Sprintf("%s: occupancy of %.1f%% is below the %.0f%% target",
				facilityLabel(n), n.OccupancyRate*100, bm.TargetOccupancy*100),
		})
	}

	return factors
}

func facilityLabel(n NormalizedFacility) string {
	switch {
	case n.Name != "":
		return n.Name
	case n.ID != "":
		return n.ID
	default:
		return "Facility"
	}
}
