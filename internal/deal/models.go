// Package deal evaluates acquisition targets: it normalizes raw facility
// financials, values each facility and the deal as a whole, annotates market
// context and produces a scored buy/sell summary.
package deal

import (
	"errors"

	"github.com/iwvelando/carescore/pkg/numeric"
)

// ErrNoFacilities is returned when a deal carries neither a facility list nor
// facility-shaped fields of its own.
var ErrNoFacilities = errors.New("deal has no facilities")

// Risk factor types.
const (
	RiskTypeFinancial   = "financial"
	RiskTypeOperational = "operational"
)

// Risk severities, also used for the overall deal risk level.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// Recommendation labels ordered from best to worst.
const (
	LabelStrongBuy  = "STRONG BUY"
	LabelBuy        = "BUY"
	LabelHold       = "HOLD"
	LabelSell       = "SELL"
	LabelStrongSell = "STRONG SELL"
)

// BedType is one line of a facility's bed configuration.
type BedType struct {
	Type  string        `json:"type"`
	Count numeric.Value `json:"count"`
}

// ProFormaYear is one projected year supplied with a facility.
type ProFormaYear struct {
	Year      int           `json:"year"`
	Revenue   numeric.Value `json:"revenue"`
	EBITDA    numeric.Value `json:"ebitda"`
	EBITDAR   numeric.Value `json:"ebitdar"`
	Occupancy numeric.Value `json:"occupancy"`
}

// RawFacility is a facility row as supplied by the data layer. Any figure may
// be absent or zero, both of which mean unknown.
type RawFacility struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	City            string         `json:"city"`
	State           string         `json:"state"`
	FacilityType    string         `json:"facility_type"`
	Beds            []BedType      `json:"beds"`
	PurchasePrice   numeric.Value  `json:"purchase_price"`
	T12MRevenue     numeric.Value  `json:"t12m_revenue"`
	T12MEBITDA      numeric.Value  `json:"t12m_ebitda"`
	T12MEBITDAR     numeric.Value  `json:"t12m_ebitdar"`
	T12MEBIT        numeric.Value  `json:"t12m_ebit"`
	T12MOccupancy   numeric.Value  `json:"t12m_occupancy"`
	T12MRentExpense numeric.Value  `json:"t12m_rent_expense"`
	ProForma        []ProFormaYear `json:"pro_forma"`
}

// hasFacilityShape reports whether the record carries anything a facility
// evaluation could use.
func (f RawFacility) hasFacilityShape() bool {
	return len(f.Beds) > 0 ||
		f.PurchasePrice.Present() ||
		f.T12MRevenue.Present() ||
		f.T12MEBITDA.Present() ||
		f.T12MEBITDAR.Present() ||
		f.T12MOccupancy.Present()
}

// Deal is a single- or multi-facility transaction. A deal without a facility
// list is evaluated as a facility in its own right.
type Deal struct {
	RawFacility
	DealName   string        `json:"deal_name"`
	Facilities []RawFacility `json:"facilities"`
}

// FacilityList returns the facilities making up the deal.
func (d Deal) FacilityList() ([]RawFacility, error) {
	if len(d.Facilities) > 0 {
		return d.Facilities, nil
	}
	if d.hasFacilityShape() {
		return []RawFacility{d.RawFacility}, nil
	}
	return nil, ErrNoFacilities
}

// DisplayName returns the deal name, falling back to the facility name.
func (d Deal) DisplayName() string {
	if d.DealName != "" {
		return d.DealName
	}
	return d.Name
}

// DataQuality flags every field that was estimated rather than reported.
type DataQuality struct {
	EBITDAEstimated    bool `json:"ebitdaEstimated"`
	EBITDAREstimated   bool `json:"ebitdarEstimated"`
	EBITEstimated      bool `json:"ebitEstimated"`
	OccupancyEstimated bool `json:"occupancyEstimated"`
}

// Any reports whether any field was estimated.
func (q DataQuality) Any() bool {
	return q.EBITDAEstimated || q.EBITDAREstimated || q.EBITEstimated || q.OccupancyEstimated
}

// RiskFactor is one deterministic risk observation.
type RiskFactor struct {
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// NormalizedFacility is a facility with estimation applied and derived ratios
// computed. It is built fresh for every evaluation and never mutated.
type NormalizedFacility struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	City            string         `json:"city"`
	State           string         `json:"state"`
	FacilityType    string         `json:"facilityType"`
	TotalBeds       int            `json:"totalBeds"`
	PurchasePrice   float64        `json:"purchasePrice"`
	T12MRevenue     float64        `json:"t12mRevenue"`
	T12MEBITDA      float64        `json:"t12mEBITDA"`
	T12MEBITDAR     float64        `json:"t12mEBITDAR"`
	T12MEBIT        float64        `json:"t12mEBIT"`
	T12MRentExpense float64        `json:"t12mRentExpense"`
	OccupancyRate   float64        `json:"occupancyRate"`
	PricePerBed     float64        `json:"pricePerBed"`
	RevenuePerBed   float64        `json:"revenuePerBed"`
	ProForma        []ProFormaYear `json:"proForma,omitempty"`
	DataQuality     DataQuality    `json:"dataQuality"`
	HasActualData   bool           `json:"hasActualData"`
	RiskFactors     []RiskFactor   `json:"riskFactors"`
}

// FacilityValuation holds the per-facility valuation metrics.
type FacilityValuation struct {
	FacilityID       string  `json:"facilityId"`
	Name             string  `json:"name"`
	CapRate          float64 `json:"capRate"`
	CapRateEstimated bool    `json:"capRateEstimated"`
	EBITDAMultiple   float64 `json:"ebitdaMultiple"`
	PricePerBed      float64 `json:"pricePerBed"`
}

// ProFormaTotal is the deal-wide total for one projected year.
type ProFormaTotal struct {
	Year    int     `json:"year"`
	Revenue float64 `json:"revenue"`
	EBITDA  float64 `json:"ebitda"`
}

// OverallMetrics aggregates facility figures across the deal.
type OverallMetrics struct {
	FacilityCount            int             `json:"facilityCount"`
	TotalBeds                int             `json:"totalBeds"`
	TotalPurchasePrice       float64         `json:"totalPurchasePrice"`
	TotalRevenue             float64         `json:"totalRevenue"`
	TotalEBITDA              float64         `json:"totalEBITDA"`
	TotalEBITDAR             float64         `json:"totalEBITDAR"`
	WeightedAverageCapRate   *float64        `json:"weightedAverageCapRate"`
	WeightedAverageOccupancy float64         `json:"weightedAverageOccupancy"`
	AveragePricePerBed       float64         `json:"averagePricePerBed"`
	ProForma                 []ProFormaTotal `json:"proForma,omitempty"`
}

// SeverityCounts is the risk factor histogram.
type SeverityCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// RiskAssessment summarizes every facility risk factor in the deal.
type RiskAssessment struct {
	OverallRisk string         `json:"overallRisk"`
	Counts      SeverityCounts `json:"counts"`
	TopRisks    []string       `json:"topRisks"`
	Factors     []RiskFactor   `json:"factors"`
}

// REITCompatibility reports yield and coverage tests.
type REITCompatibility struct {
	CapRate                      *float64 `json:"capRate"`
	CoverageRatio                float64  `json:"coverageRatio"`
	MeetsPublicREITRequirements  bool     `json:"meetsPublicREITRequirements"`
	MeetsPrivateREITRequirements bool     `json:"meetsPrivateREITRequirements"`
	MeetsCoverageRatio           bool     `json:"meetsCoverageRatio"`
}

// Recommendation is one triggered action item.
type Recommendation struct {
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// MarketContext annotates one facility with its market.
type MarketContext struct {
	FacilityID          string             `json:"facilityId"`
	Name                string             `json:"name"`
	State               string             `json:"state"`
	City                string             `json:"city"`
	ReimbursementRates  ReimbursementRates `json:"reimbursementRates"`
	RatesEstimated      bool               `json:"ratesEstimated"`
	CompetitivePosition string             `json:"competitivePosition"`
	MarketTrends        []string           `json:"marketTrends"`
}

// ReimbursementRates are per-patient-day rates.
type ReimbursementRates struct {
	Medicare float64 `json:"medicare"`
	Medicaid float64 `json:"medicaid"`
}

// Summary is the scored verdict on a deal.
type Summary struct {
	Score          float64  `json:"score"`
	Recommendation string   `json:"recommendation"`
	Strengths      []string `json:"strengths"`
	Concerns       []string `json:"concerns"`
	NextSteps      []string `json:"nextSteps"`
}

// Evaluation is the complete result of evaluating one deal.
type Evaluation struct {
	DealID            string               `json:"dealId"`
	DealName          string               `json:"dealName"`
	Facilities        []NormalizedFacility `json:"facilities"`
	Valuations        []FacilityValuation  `json:"valuations"`
	OverallMetrics    OverallMetrics       `json:"overallMetrics"`
	RiskAssessment    RiskAssessment       `json:"riskAssessment"`
	REITCompatibility REITCompatibility    `json:"reitCompatibility"`
	MarketAnalysis    []MarketContext      `json:"marketAnalysis"`
	Recommendations   []Recommendation     `json:"recommendations"`
	Summary           Summary              `json:"summary"`
}
