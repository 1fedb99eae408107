// Package benchmarks holds the benchmark tables and weight sets used by the
// deal and market scoring engines. A Benchmarks value is passed into every
// scoring call so that callers and tests can substitute alternate sets.
package benchmarks

import (
	"strings"
)

// Benchmarks is the complete set of tunables for one scoring run.
type Benchmarks struct {
	Deal   DealBenchmarks   `mapstructure:"deal" yaml:"deal" json:"deal"`
	Market MarketBenchmarks `mapstructure:"market" yaml:"market" json:"market"`
}

// ReimbursementRates are per-patient-day rates for one state.
type ReimbursementRates struct {
	Medicare float64 `mapstructure:"medicare" yaml:"medicare" json:"medicare"`
	Medicaid float64 `mapstructure:"medicaid" yaml:"medicaid" json:"medicaid"`
}

// DealBenchmarks are the operator targets used to normalize facility
// financials and to value a deal.
type DealBenchmarks struct {
	TargetEBITDAMargin         float64                       `mapstructure:"targetEbitdaMargin" yaml:"targetEbitdaMargin" json:"targetEbitdaMargin"`
	TargetEBITDARMargin        float64                       `mapstructure:"targetEbitdarMargin" yaml:"targetEbitdarMargin" json:"targetEbitdarMargin"`
	DefaultOccupancy           float64                       `mapstructure:"defaultOccupancy" yaml:"defaultOccupancy" json:"defaultOccupancy"`
	TargetOccupancy            float64                       `mapstructure:"targetOccupancy" yaml:"targetOccupancy" json:"targetOccupancy"`
	HighRiskOccupancy          float64                       `mapstructure:"highRiskOccupancy" yaml:"highRiskOccupancy" json:"highRiskOccupancy"`
	StrongPositionOccupancy    float64                       `mapstructure:"strongPositionOccupancy" yaml:"strongPositionOccupancy" json:"strongPositionOccupancy"`
	ModeratePositionOccupancy  float64                       `mapstructure:"moderatePositionOccupancy" yaml:"moderatePositionOccupancy" json:"moderatePositionOccupancy"`
	DefaultCapRate             float64                       `mapstructure:"defaultCapRate" yaml:"defaultCapRate" json:"defaultCapRate"`
	DefaultStateRiskAdjustment float64                       `mapstructure:"defaultStateRiskAdjustment" yaml:"defaultStateRiskAdjustment" json:"defaultStateRiskAdjustment"`
	StateRiskAdjustments       map[string]float64            `mapstructure:"stateRiskAdjustments" yaml:"stateRiskAdjustments" json:"stateRiskAdjustments"`
	CostOfCapital              float64                       `mapstructure:"costOfCapital" yaml:"costOfCapital" json:"costOfCapital"`
	PublicREITMinYield         float64                       `mapstructure:"publicReitMinYield" yaml:"publicReitMinYield" json:"publicReitMinYield"`
	PrivateREITMinYield        float64                       `mapstructure:"privateReitMinYield" yaml:"privateReitMinYield" json:"privateReitMinYield"`
	MinCoverageRatio           float64                       `mapstructure:"minCoverageRatio" yaml:"minCoverageRatio" json:"minCoverageRatio"`
	DefaultReimbursement       ReimbursementRates            `mapstructure:"defaultReimbursement" yaml:"defaultReimbursement" json:"defaultReimbursement"`
	Reimbursement              map[string]ReimbursementRates `mapstructure:"reimbursement" yaml:"reimbursement" json:"reimbursement"`
	MarketTrends               []string                      `mapstructure:"marketTrends" yaml:"marketTrends" json:"marketTrends"`

	// DealLevelRisk adds a high financial risk factor for a deal whose
	// combined EBITDA is negative. When false only facility factors count.
	DealLevelRisk bool `mapstructure:"dealLevelRisk" yaml:"dealLevelRisk" json:"dealLevelRisk"`
}

// StateRiskAdjustment returns the additive cap rate adjustment for a state.
func (d DealBenchmarks) StateRiskAdjustment(state string) float64 {
	if adj, ok := d.StateRiskAdjustments[normalizeState(state)]; ok {
		return adj
	}
	return d.DefaultStateRiskAdjustment
}

// ReimbursementFor returns the reimbursement rates for a state and whether the
// state was found in the table.
func (d DealBenchmarks) ReimbursementFor(state string) (ReimbursementRates, bool) {
	if rates, ok := d.Reimbursement[normalizeState(state)]; ok {
		return rates, true
	}
	return d.DefaultReimbursement, false
}

// MarketBenchmarks are the national reference values and weights used to
// turn demographic and supply data into sub-scores.
type MarketBenchmarks struct {
	Demand       DemandBenchmarks       `mapstructure:"demand" yaml:"demand" json:"demand"`
	AbilityToPay AbilityToPayBenchmarks `mapstructure:"abilityToPay" yaml:"abilityToPay" json:"abilityToPay"`
	Competition  CompetitionBenchmarks  `mapstructure:"competition" yaml:"competition" json:"competition"`
	Growth       GrowthBenchmarks       `mapstructure:"growth" yaml:"growth" json:"growth"`
	Labor        LaborBenchmarks        `mapstructure:"labor" yaml:"labor" json:"labor"`
	Quality      QualityBenchmarks      `mapstructure:"quality" yaml:"quality" json:"quality"`
	GradeWeights GradeWeightSets        `mapstructure:"gradeWeights" yaml:"gradeWeights" json:"gradeWeights"`
	GradeScale   []GradeThreshold       `mapstructure:"gradeScale" yaml:"gradeScale" json:"gradeScale"`
}

// DemandBenchmarks normalize senior population and estimated bed need.
type DemandBenchmarks struct {
	Pop65Reference float64 `mapstructure:"pop65Reference" yaml:"pop65Reference" json:"pop65Reference"`
	Pop65Scale     float64 `mapstructure:"pop65Scale" yaml:"pop65Scale" json:"pop65Scale"`
	Pop85Reference float64 `mapstructure:"pop85Reference" yaml:"pop85Reference" json:"pop85Reference"`
	Pop85Scale     float64 `mapstructure:"pop85Scale" yaml:"pop85Scale" json:"pop85Scale"`
	NeedReference  float64 `mapstructure:"needReference" yaml:"needReference" json:"needReference"`
	NeedScale      float64 `mapstructure:"needScale" yaml:"needScale" json:"needScale"`
	NeedRate       float64 `mapstructure:"needRate" yaml:"needRate" json:"needRate"`
	Pop65Weight    float64 `mapstructure:"pop65Weight" yaml:"pop65Weight" json:"pop65Weight"`
	Pop85Weight    float64 `mapstructure:"pop85Weight" yaml:"pop85Weight" json:"pop85Weight"`
	NeedWeight     float64 `mapstructure:"needWeight" yaml:"needWeight" json:"needWeight"`
}

// AbilityToPayBenchmarks normalize household economics.
type AbilityToPayBenchmarks struct {
	IncomeReference        float64 `mapstructure:"incomeReference" yaml:"incomeReference" json:"incomeReference"`
	HomeValueReference     float64 `mapstructure:"homeValueReference" yaml:"homeValueReference" json:"homeValueReference"`
	PovertyReference       float64 `mapstructure:"povertyReference" yaml:"povertyReference" json:"povertyReference"`
	HomeownershipReference float64 `mapstructure:"homeownershipReference" yaml:"homeownershipReference" json:"homeownershipReference"`
	IncomeWeight           float64 `mapstructure:"incomeWeight" yaml:"incomeWeight" json:"incomeWeight"`
	HomeValueWeight        float64 `mapstructure:"homeValueWeight" yaml:"homeValueWeight" json:"homeValueWeight"`
	PovertyWeight          float64 `mapstructure:"povertyWeight" yaml:"povertyWeight" json:"povertyWeight"`
	HomeownershipWeight    float64 `mapstructure:"homeownershipWeight" yaml:"homeownershipWeight" json:"homeownershipWeight"`
}

// CompetitionBenchmarks describe supply saturation relative to demand.
type CompetitionBenchmarks struct {
	NationalBedsPerThousand65 float64            `mapstructure:"nationalBedsPerThousand65" yaml:"nationalBedsPerThousand65" json:"nationalBedsPerThousand65"`
	PenetrationIntercept      float64            `mapstructure:"penetrationIntercept" yaml:"penetrationIntercept" json:"penetrationIntercept"`
	PenetrationSlope          float64            `mapstructure:"penetrationSlope" yaml:"penetrationSlope" json:"penetrationSlope"`
	GapBase                   float64            `mapstructure:"gapBase" yaml:"gapBase" json:"gapBase"`
	OccupancyFloor            float64            `mapstructure:"occupancyFloor" yaml:"occupancyFloor" json:"occupancyFloor"`
	OccupancyScale            float64            `mapstructure:"occupancyScale" yaml:"occupancyScale" json:"occupancyScale"`
	NeutralOccupancyScore     float64            `mapstructure:"neutralOccupancyScore" yaml:"neutralOccupancyScore" json:"neutralOccupancyScore"`
	NewSupplyPenalty          float64            `mapstructure:"newSupplyPenalty" yaml:"newSupplyPenalty" json:"newSupplyPenalty"`
	SNF                       CompetitionWeights `mapstructure:"snf" yaml:"snf" json:"snf"`
	ALF                       CompetitionWeights `mapstructure:"alf" yaml:"alf" json:"alf"`
}

// CompetitionWeights weight the competition components for one facility type.
type CompetitionWeights struct {
	Penetration float64 `mapstructure:"penetration" yaml:"penetration" json:"penetration"`
	Gap         float64 `mapstructure:"gap" yaml:"gap" json:"gap"`
	Occupancy   float64 `mapstructure:"occupancy" yaml:"occupancy" json:"occupancy"`
}

// Sum returns the total of the component weights.
func (w CompetitionWeights) Sum() float64 {
	return w.Penetration + w.Gap + w.Occupancy
}

// GrowthBenchmarks normalize projected 2030 growth rates (percent).
type GrowthBenchmarks struct {
	Growth65Reference float64 `mapstructure:"growth65Reference" yaml:"growth65Reference" json:"growth65Reference"`
	Growth85Reference float64 `mapstructure:"growth85Reference" yaml:"growth85Reference" json:"growth85Reference"`
	Growth65Weight    float64 `mapstructure:"growth65Weight" yaml:"growth65Weight" json:"growth65Weight"`
	Growth85Weight    float64 `mapstructure:"growth85Weight" yaml:"growth85Weight" json:"growth85Weight"`
}

// LaborBenchmarks normalize local wage levels and labor availability.
type LaborBenchmarks struct {
	NationalCNAWage               float64 `mapstructure:"nationalCnaWage" yaml:"nationalCnaWage" json:"nationalCnaWage"`
	WagePenaltySlope              float64 `mapstructure:"wagePenaltySlope" yaml:"wagePenaltySlope" json:"wagePenaltySlope"`
	UnemploymentReference         float64 `mapstructure:"unemploymentReference" yaml:"unemploymentReference" json:"unemploymentReference"`
	DefaultHealthcareUnemployment float64 `mapstructure:"defaultHealthcareUnemployment" yaml:"defaultHealthcareUnemployment" json:"defaultHealthcareUnemployment"`
	DefaultCBSAWageIndex          float64 `mapstructure:"defaultCbsaWageIndex" yaml:"defaultCbsaWageIndex" json:"defaultCbsaWageIndex"`
	WageWeight                    float64 `mapstructure:"wageWeight" yaml:"wageWeight" json:"wageWeight"`
	UnemploymentWeight            float64 `mapstructure:"unemploymentWeight" yaml:"unemploymentWeight" json:"unemploymentWeight"`
}

// QualityBenchmarks normalize SNF inspection outcomes.
type QualityBenchmarks struct {
	RatingScale         float64 `mapstructure:"ratingScale" yaml:"ratingScale" json:"ratingScale"`
	DeficiencyReference float64 `mapstructure:"deficiencyReference" yaml:"deficiencyReference" json:"deficiencyReference"`
	SpecialFocusPenalty float64 `mapstructure:"specialFocusPenalty" yaml:"specialFocusPenalty" json:"specialFocusPenalty"`
	RatingWeight        float64 `mapstructure:"ratingWeight" yaml:"ratingWeight" json:"ratingWeight"`
	DeficiencyWeight    float64 `mapstructure:"deficiencyWeight" yaml:"deficiencyWeight" json:"deficiencyWeight"`
}

// GradeWeights weight the six sub-scores into the overall market score.
type GradeWeights struct {
	Demand       float64 `mapstructure:"demand" yaml:"demand" json:"demand"`
	AbilityToPay float64 `mapstructure:"abilityToPay" yaml:"abilityToPay" json:"abilityToPay"`
	Competition  float64 `mapstructure:"competition" yaml:"competition" json:"competition"`
	Growth       float64 `mapstructure:"growth" yaml:"growth" json:"growth"`
	Labor        float64 `mapstructure:"labor" yaml:"labor" json:"labor"`
	Quality      float64 `mapstructure:"quality" yaml:"quality" json:"quality"`
}

// Sum returns the total of the sub-score weights.
func (w GradeWeights) Sum() float64 {
	return w.Demand + w.AbilityToPay + w.Competition + w.Growth + w.Labor + w.Quality
}

// GradeWeightSets selects weights by data availability.
type GradeWeightSets struct {
	SNFWithQuality GradeWeights `mapstructure:"snfWithQuality" yaml:"snfWithQuality" json:"snfWithQuality"`
	Standard       GradeWeights `mapstructure:"standard" yaml:"standard" json:"standard"`
}

// GradeThreshold maps an inclusive lower score bound to a letter grade.
type GradeThreshold struct {
	Min    float64 `mapstructure:"min" yaml:"min" json:"min"`
	Letter string  `mapstructure:"letter" yaml:"letter" json:"letter"`
}

// Normalize upper-cases state-keyed tables. Viper lower-cases map keys on
// load, so keys that were not already upper case win over defaults.
func (b *Benchmarks) Normalize() {
	b.Deal.StateRiskAdjustments = normalizeFloatTable(b.Deal.StateRiskAdjustments)
	b.Deal.Reimbursement = normalizeRateTable(b.Deal.Reimbursement)
}

func normalizeState(state string) string {
	return strings.ToUpper(strings.TrimSpace(state))
}

func normalizeFloatTable(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		if k == normalizeState(k) {
			out[k] = v
		}
	}
	for k, v := range in {
		if k != normalizeState(k) {
			out[normalizeState(k)] = v
		}
	}
	return out
}

func normalizeRateTable(in map[string]ReimbursementRates) map[string]ReimbursementRates {
	out := make(map[string]ReimbursementRates, len(in))
	for k, v := range in {
		if k == normalizeState(k) {
			out[k] = v
		}
	}
	for k, v := range in {
		if k != normalizeState(k) {
			out[normalizeState(k)] = v
		}
	}
	return out
}
