package market

import (
	"github.com/iwvelando/carescore/internal/benchmarks"
	"github.com/iwvelando/carescore/pkg/constants"
	"github.com/iwvelando/carescore/pkg/mathutil"
)

// CalculateScores computes the six sub-scores for a market. labor overrides
// d.LaborData when non-nil. facilityType must already be normalized.
func CalculateScores(d Data, facilityType string, labor *LaborData, bm benchmarks.MarketBenchmarks) ScoreSet {
	if labor == nil {
		labor = d.LaborData
	}

	raw := RawValues{FacilityType: facilityType}
	var s ScoreSet
	s.Demand = demandScore(d, bm.Demand, &raw)
	s.AbilityToPay = abilityToPayScore(d, bm.AbilityToPay, &raw)
	// Competition reads the population and need recorded by demandScore.
	s.Competition = competitionScore(d, facilityType, bm.Competition, &raw)
	s.Growth = growthScore(d, bm.Growth, &raw)
	s.Labor = laborScore(labor, bm.Labor, &raw)
	if facilityType == constants.FacilityTypeSNF && d.SNFQuality != nil {
		q := qualityScore(d, bm.Quality, &raw)
		s.Quality = &q
	}
	s.RawValues = raw
	return s
}

// ratioScore is min(100, value/reference*scale) bounded below at zero.
func ratioScore(value, reference, scale float64) float64 {
	return mathutil.ClampScore(mathutil.SafeDivide(value, reference, 0) * scale)
}

func demandScore(d Data, b benchmarks.DemandBenchmarks, raw *RawValues) float64 {
	raw.Pop65 = d.Demographics.Population.Age65Plus.Float()
	raw.Pop85 = d.Demographics.Population.Age85Plus.Float()
	raw.EstimatedNeed, raw.NeedEstimated = estimatedNeed(d, b)

	raw.Pop65Score = ratioScore(raw.Pop65, b.Pop65Reference, b.Pop65Scale)
	raw.Pop85Score = ratioScore(raw.Pop85, b.Pop85Reference, b.Pop85Scale)
	raw.NeedScore = ratioScore(raw.EstimatedNeed, b.NeedReference, b.NeedScale)

	return mathutil.ClampScore(
		b.Pop65Weight*raw.Pop65Score +
			b.Pop85Weight*raw.Pop85Score +
			b.NeedWeight*raw.NeedScore,
	)
}

// estimatedNeed uses the supplied bed need when positive, otherwise a fixed
// share of the 65+ population.
func estimatedNeed(d Data, b benchmarks.DemandBenchmarks) (float64, bool) {
	if d.EstimatedNeed.Positive() {
		return d.EstimatedNeed.Float(), false
	}
	return b.NeedRate * d.Demographics.Population.Age65Plus.Float(), true
}

func abilityToPayScore(d Data, b benchmarks.AbilityToPayBenchmarks, raw *RawValues) float64 {
	e := d.Demographics.Economics
	raw.MedianIncome = e.MedianHouseholdIncome.Float()
	raw.MedianHomeValue = e.MedianHomeValue.Float()
	raw.PovertyRate = e.PovertyRate.Float()
	raw.HomeownershipRate = e.HomeownershipRate.Float()

	raw.IncomeScore = ratioScore(raw.MedianIncome, b.IncomeReference, constants.MaxScore)
	raw.HomeValueScore = ratioScore(raw.MedianHomeValue, b.HomeValueReference, constants.MaxScore)
	raw.PovertyScore = constants.MaxScore - ratioScore(raw.PovertyRate, b.PovertyReference, constants.MaxScore)
	raw.HomeownerScore = ratioScore(raw.HomeownershipRate, b.HomeownershipReference, constants.MaxScore)

	return mathutil.ClampScore(
		b.IncomeWeight*raw.IncomeScore +
			b.HomeValueWeight*raw.HomeValueScore +
			b.PovertyWeight*raw.PovertyScore +
			b.HomeownershipWeight*raw.HomeownerScore,
	)
}

// competitionScore rewards markets where existing supply is low relative to
// senior population and estimated need.
func competitionScore(d Data, facilityType string, b benchmarks.CompetitionBenchmarks, raw *RawValues) float64 {
	raw.Beds = supplyBeds(d, facilityType)
	raw.FacilityCount = d.Supply.FacilityCount.Float()
	raw.AvgRating = d.Supply.AvgRating.Float()

	if raw.Pop65 > 0 {
		raw.BedsPerThousand65 = raw.Beds / raw.Pop65 * 1000
	}
	raw.PenetrationRatio = mathutil.SafeDivide(raw.BedsPerThousand65, b.NationalBedsPerThousand65, 0)
	raw.PenetrationScore = mathutil.ClampScore(b.PenetrationIntercept - b.PenetrationSlope*raw.PenetrationRatio)

	raw.NeedGap = raw.EstimatedNeed - raw.Beds
	if raw.EstimatedNeed > 0 {
		raw.NeedGapPct = raw.NeedGap / raw.EstimatedNeed * 100
	}
	raw.GapScore = mathutil.ClampScore(b.GapBase + raw.NeedGapPct)

	raw.Occupancy = occupancyPercent(d.Supply.AvgOccupancy.Float())
	if raw.Occupancy <= 0 {
		raw.OccupancyEstimated = true
	}

	raw.NewFacilities = mathutil.Max(0, d.Supply.NewFacilitiesSince2021.Float())
	raw.NewSupplyPenalty = raw.NewFacilities * b.NewSupplyPenalty * mathutil.Max(0, 1-raw.NeedGapPct/100)

	var score float64
	if facilityType == constants.FacilityTypeSNF {
		if raw.OccupancyEstimated {
			raw.OccupancyScore = b.NeutralOccupancyScore
		} else {
			raw.OccupancyScore = mathutil.ClampScore((raw.Occupancy - b.OccupancyFloor) * b.OccupancyScale)
		}
		score = b.SNF.Penetration*raw.PenetrationScore +
			b.SNF.Gap*raw.GapScore +
			b.SNF.Occupancy*raw.OccupancyScore
	} else {
		raw.OccupancyScore = b.NeutralOccupancyScore
		score = b.ALF.Penetration*raw.PenetrationScore +
			b.ALF.Gap*raw.GapScore +
			b.ALF.Occupancy*raw.OccupancyScore
	}
	return mathutil.ClampScore(score - raw.NewSupplyPenalty)
}

// supplyBeds returns licensed beds, falling back to ALF capacity.
func supplyBeds(d Data, facilityType string) float64 {
	if d.Supply.Beds.Total.Present() {
		return mathutil.Max(0, d.Supply.Beds.Total.Float())
	}
	if facilityType == constants.FacilityTypeALF {
		return mathutil.Max(0, d.Supply.Capacity.Float())
	}
	return 0
}

// occupancyPercent reads market occupancy at or below 1 as a fraction.
func occupancyPercent(v float64) float64 {
	if v > 0 && v <= 1 {
		return v * constants.PercentageMultiplier
	}
	return v
}

func growthScore(d Data, b benchmarks.GrowthBenchmarks, raw *RawValues) float64 {
	raw.Growth65 = d.Demographics.Projections.GrowthRate65Plus.Float()
	raw.Growth85 = d.Demographics.Projections.GrowthRate85Plus.Float()

	return mathutil.ClampScore(
		b.Growth65Weight*ratioScore(raw.Growth65, b.Growth65Reference, constants.MaxScore) +
			b.Growth85Weight*ratioScore(raw.Growth85, b.Growth85Reference, constants.MaxScore),
	)
}

// laborScore falls back to national benchmarks for each missing labor figure
// and flags the substitution.
func laborScore(l *LaborData, b benchmarks.LaborBenchmarks, raw *RawValues) float64 {
	if l == nil {
		l = &LaborData{}
	}

	raw.StateWage = b.NationalCNAWage
	if l.StateWage.Positive() {
		raw.StateWage = l.StateWage.Float()
	} else {
		raw.LaborEstimated = true
	}
	raw.CBSAWageIndex = b.DefaultCBSAWageIndex
	if l.CBSAWageIndex.Positive() {
		raw.CBSAWageIndex = l.CBSAWageIndex.Float()
	} else {
		raw.LaborEstimated = true
	}
	raw.HealthcareUnemployment = l.HealthcareUnemployment.Or(b.DefaultHealthcareUnemployment)
	if !l.HealthcareUnemployment.Present() {
		raw.LaborEstimated = true
	}

	raw.LocalWage = raw.StateWage * raw.CBSAWageIndex
	raw.WageScore = mathutil.ClampScore(constants.MaxScore - (mathutil.SafeDivide(raw.LocalWage, b.NationalCNAWage, 1)-1)*b.WagePenaltySlope)
	raw.UnemploymentScore = ratioScore(raw.HealthcareUnemployment, b.UnemploymentReference, constants.MaxScore)

	return mathutil.ClampScore(b.WageWeight*raw.WageScore + b.UnemploymentWeight*raw.UnemploymentScore)
}

func qualityScore(d Data, b benchmarks.QualityBenchmarks, raw *RawValues) float64 {
	q := d.SNFQuality

	raw.AvgInspectionRating = q.AvgInspectionRating.Float()
	if !q.AvgInspectionRating.Positive() {
		raw.AvgInspectionRating = d.Supply.AvgRating.Float()
	}

	facilities := q.FacilityCount.Float()
	if facilities <= 0 {
		facilities = d.Supply.FacilityCount.Float()
	}
	raw.DeficienciesPerFacility = mathutil.SafeDivide(q.TotalDeficiencies.Float(), facilities, 0)
	raw.DeficiencyScore = mathutil.ClampScore(constants.MaxScore - raw.DeficienciesPerFacility/b.DeficiencyReference*constants.MaxScore)
	raw.SpecialFocusCount = mathutil.Max(0, q.SpecialFocusFacilityCount.Float())

	ratingScore := ratioScore(raw.AvgInspectionRating, b.RatingScale, constants.MaxScore)
	return mathutil.ClampScore(
		b.RatingWeight*ratingScore +
			b.DeficiencyWeight*raw.DeficiencyScore -
			raw.SpecialFocusCount*b.SpecialFocusPenalty,
	)
}
