// Package market grades counties and CBSAs as acquisition markets. Demographic,
// supply, labor and quality data are reduced to six 0-100 sub-scores, combined
// into a letter grade and annotated with ranked risks and opportunities.
package market

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iwvelando/carescore/pkg/constants"
	"github.com/iwvelando/carescore/pkg/numeric"
)

var (
	// ErrUnknownFacilityType is returned for facility types other than SNF and ALF.
	ErrUnknownFacilityType = errors.New("unknown facility type")

	// ErrMissingMarketData is returned when a market carries neither supply
	// nor demographic data.
	ErrMissingMarketData = errors.New("market has no supply or demographic data")
)

// ParseFacilityType normalizes a facility type, case-insensitively.
func ParseFacilityType(s string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case constants.FacilityTypeSNF:
		return constants.FacilityTypeSNF, nil
	case constants.FacilityTypeALF:
		return constants.FacilityTypeALF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFacilityType, s)
	}
}

// Data is one market's supply and demographic record.
type Data struct {
	ID            string        `json:"id,omitempty"`
	Name          string        `json:"name,omitempty"`
	State         string        `json:"state,omitempty"`
	Supply        Supply        `json:"supply"`
	Demographics  Demographics  `json:"demographics"`
	EstimatedNeed numeric.Value `json:"estimatedNeed"`
	LaborData     *LaborData    `json:"laborData,omitempty"`
	SNFQuality    *SNFQuality   `json:"snfQuality,omitempty"`
}

// Empty reports whether the record has no supply or demographic figures.
func (d Data) Empty() bool {
	p := d.Demographics.Population
	e := d.Demographics.Economics
	return !d.Supply.Beds.Total.Present() &&
		!d.Supply.Capacity.Present() &&
		!d.Supply.FacilityCount.Present() &&
		!p.Age65Plus.Present() &&
		!p.Age85Plus.Present() &&
		!e.MedianHouseholdIncome.Present() &&
		!e.MedianHomeValue.Present()
}

// Supply describes existing facilities in the market.
type Supply struct {
	Beds                   BedSupply     `json:"beds"`
	Capacity               numeric.Value `json:"capacity"`
	FacilityCount          numeric.Value `json:"facilityCount"`
	AvgOccupancy           numeric.Value `json:"avgOccupancy"`
	AvgRating              numeric.Value `json:"avgRating"`
	NewFacilitiesSince2021 numeric.Value `json:"newFacilitiesSince2021"`
}

// BedSupply holds licensed bed counts.
type BedSupply struct {
	Total numeric.Value `json:"total"`
}

// Demographics groups the population, economic and projection figures.
type Demographics struct {
	Population  Population  `json:"population"`
	Economics   Economics   `json:"economics"`
	Projections Projections `json:"projections"`
}

// Population counts seniors by cohort.
type Population struct {
	Age65Plus numeric.Value `json:"age65Plus"`
	Age85Plus numeric.Value `json:"age85Plus"`
}

// Economics are household economic figures. Rates are percentages.
type Economics struct {
	MedianHouseholdIncome numeric.Value `json:"medianHouseholdIncome"`
	MedianHomeValue       numeric.Value `json:"medianHomeValue"`
	PovertyRate           numeric.Value `json:"povertyRate"`
	HomeownershipRate     numeric.Value `json:"homeownershipRate"`
}

// Projections are projected growth percentages through 2030.
type Projections struct {
	GrowthRate65Plus numeric.Value `json:"growthRate65Plus"`
	GrowthRate85Plus numeric.Value `json:"growthRate85Plus"`
}

// LaborData is the local labor market for direct-care staff.
type LaborData struct {
	StateWage              numeric.Value `json:"stateWage"`
	CBSAWageIndex          numeric.Value `json:"cbsaWageIndex"`
	HealthcareUnemployment numeric.Value `json:"healthcareUnemployment"`
}

// SNFQuality is the inspection record of SNFs in the market.
type SNFQuality struct {
	AvgInspectionRating       numeric.Value `json:"avgInspectionRating"`
	TotalDeficiencies         numeric.Value `json:"totalDeficiencies"`
	FacilityCount             numeric.Value `json:"facilityCount"`
	SpecialFocusFacilityCount numeric.Value `json:"specialFocusFacilityCount"`
}

// ScoreSet holds the six sub-scores. Quality is nil when no inspection data
// applies to the facility type.
type ScoreSet struct {
	Demand       float64   `json:"demand"`
	AbilityToPay float64   `json:"abilityToPay"`
	Competition  float64   `json:"competition"`
	Growth       float64   `json:"growth"`
	Labor        float64   `json:"labor"`
	Quality      *float64  `json:"quality"`
	RawValues    RawValues `json:"rawValues"`
}

// RawValues records every intermediate figure behind a ScoreSet.
type RawValues struct {
	FacilityType string `json:"facilityType"`

	Pop65         float64 `json:"pop65"`
	Pop85         float64 `json:"pop85"`
	EstimatedNeed float64 `json:"estimatedNeed"`
	NeedEstimated bool    `json:"needEstimated"`
	Pop65Score    float64 `json:"pop65Score"`
	Pop85Score    float64 `json:"pop85Score"`
	NeedScore     float64 `json:"needScore"`

	MedianIncome      float64 `json:"medianIncome"`
	MedianHomeValue   float64 `json:"medianHomeValue"`
	PovertyRate       float64 `json:"povertyRate"`
	HomeownershipRate float64 `json:"homeownershipRate"`
	IncomeScore       float64 `json:"incomeScore"`
	HomeValueScore    float64 `json:"homeValueScore"`
	PovertyScore      float64 `json:"povertyScore"`
	HomeownerScore    float64 `json:"homeownershipScore"`

	Beds               float64 `json:"beds"`
	FacilityCount      float64 `json:"facilityCount"`
	BedsPerThousand65  float64 `json:"bedsPerThousand65"`
	PenetrationRatio   float64 `json:"penetrationRatio"`
	PenetrationScore   float64 `json:"penetrationScore"`
	NeedGap            float64 `json:"needGap"`
	NeedGapPct         float64 `json:"needGapPct"`
	GapScore           float64 `json:"gapScore"`
	Occupancy          float64 `json:"occupancy"`
	OccupancyEstimated bool    `json:"occupancyEstimated"`
	OccupancyScore     float64 `json:"occupancyScore"`
	NewFacilities      float64 `json:"newFacilities"`
	NewSupplyPenalty   float64 `json:"newSupplyPenalty"`
	AvgRating          float64 `json:"avgRating"`

	Growth65 float64 `json:"growth65"`
	Growth85 float64 `json:"growth85"`

	StateWage              float64 `json:"stateWage"`
	CBSAWageIndex          float64 `json:"cbsaWageIndex"`
	LocalWage              float64 `json:"localWage"`
	WageScore              float64 `json:"wageScore"`
	HealthcareUnemployment float64 `json:"healthcareUnemployment"`
	UnemploymentScore      float64 `json:"unemploymentScore"`
	LaborEstimated         bool    `json:"laborEstimated"`

	AvgInspectionRating     float64 `json:"avgInspectionRating"`
	DeficienciesPerFacility float64 `json:"deficienciesPerFacility"`
	DeficiencyScore         float64 `json:"deficiencyScore"`
	SpecialFocusCount       float64 `json:"specialFocusCount"`
}

// Colors is the presentation palette for a grade.
type Colors struct {
	Background string `json:"background"`
	Text       string `json:"text"`
	Accent     string `json:"accent"`
}

// Grade is the weighted score and its letter.
type Grade struct {
	WeightedScore float64 `json:"weightedScore"`
	Letter        string  `json:"letter"`
	Colors        Colors  `json:"colors"`
}

// Insights are the capped, ordered risk and opportunity statements.
type Insights struct {
	Risks         []string `json:"risks"`
	Opportunities []string `json:"opportunities"`
}

// Report bundles everything computed for one market.
type Report struct {
	MarketID      string   `json:"marketId,omitempty"`
	MarketName    string   `json:"marketName,omitempty"`
	State         string   `json:"state,omitempty"`
	FacilityType  string   `json:"facilityType"`
	Scores        ScoreSet `json:"scores"`
	Grade         Grade    `json:"grade"`
	Risks         []string `json:"risks"`
	Opportunities []string `json:"opportunities"`
}
