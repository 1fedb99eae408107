package market

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/iwvelando/carescore/internal/benchmarks"
	"github.com/iwvelando/carescore/pkg/constants"
	"github.com/iwvelando/carescore/pkg/numeric"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const delta = 1e-6

const scenarioJSON = `{
	"supply": {"beds": {"total": 500}, "facilityCount": 10, "avgOccupancy": "82", "avgRating": "3.5"},
	"demographics": {
		"population": {"age65Plus": 40000, "age85Plus": 6000},
		"economics": {"medianHouseholdIncome": 75000, "medianHomeValue": 280000, "povertyRate": 10, "homeownershipRate": 68},
		"projections": {"growthRate65Plus": 18, "growthRate85Plus": 22}
	}
}`

func scenario(t *testing.T) Data {
	t.Helper()
	var d Data
	require.NoError(t, json.Unmarshal([]byte(scenarioJSON), &d))
	return d
}

func inRange(t *testing.T, v float64) {
	t.Helper()
	assert.GreaterOrEqual(t, v, constants.MinScore)
	assert.LessOrEqual(t, v, constants.MaxScore)
}

func TestReportScenario(t *testing.T) {
	s := NewScorer(zaptest.NewLogger(t), benchmarks.DefaultMarket())

	r, err := s.Report(scenario(t), "SNF", nil)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, r.Scores.Demand, 45.0)
	assert.LessOrEqual(t, r.Scores.Demand, 60.0)
	assert.GreaterOrEqual(t, r.Scores.AbilityToPay, 55.0)
	assert.LessOrEqual(t, r.Scores.AbilityToPay, 70.0)
	assert.Contains(t, []string{"B-", "B", "B+"}, r.Grade.Letter)

	assert.InDelta(t, 50.925, r.Scores.Demand, delta)
	assert.InDelta(t, 61.425, r.Scores.AbilityToPay, delta)
	assert.InDelta(t, 78.068966, r.Scores.Competition, delta)
	assert.InDelta(t, 62.0, r.Scores.Growth, delta)
	assert.InDelta(t, 100.0, r.Scores.Labor, delta)
	assert.Nil(t, r.Scores.Quality)
	assert.InDelta(t, 70.455043, r.Grade.WeightedScore, delta)
	assert.Equal(t, "B-", r.Grade.Letter)

	raw := r.Scores.RawValues
	assert.True(t, raw.NeedEstimated)
	assert.True(t, raw.LaborEstimated)
	assert.InDelta(t, 1000.0, raw.EstimatedNeed, delta)
	assert.InDelta(t, 12.5, raw.BedsPerThousand65, delta)
	assert.InDelta(t, 82.0, raw.Occupancy, delta)
	assert.InDelta(t, 80.0, raw.OccupancyScore, delta)

	assert.Empty(t, r.Risks)
	assert.Equal(t, []string{
		"Unmet need of 500 beds (50% of estimated need)",
		"Bed supply is 28% below the national average per 1,000 seniors",
		"Favorable labor costs relative to the national average",
	}, r.Opportunities)
}

func TestLetterBoundaries(t *testing.T) {
	scale := benchmarks.DefaultMarket().GradeScale

	tests := []struct {
		score float64
		want  string
	}{
		{100, "A+"},
		{95, "A+"},
		{94.99, "A"},
		{90.0, "A"},
		{89.99, "A-"},
		{70, "B-"},
		{69.99, "C+"},
		{40, "D-"},
		{39.99, "F"},
		{0, "F"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Letter(tt.score, scale))
		})
	}
}

func TestCalculateGradeWeights(t *testing.T) {
	bm := benchmarks.DefaultMarket()
	quality := 40.0
	scores := ScoreSet{Demand: 80, AbilityToPay: 60, Competition: 50, Growth: 70, Labor: 90, Quality: &quality}

	snf := CalculateGrade(scores, constants.FacilityTypeSNF, bm)
	// 12 + 12 + 7.5 + 10.5 + 18 + 6
	assert.InDelta(t, 66.0, snf.WeightedScore, delta)
	assert.Equal(t, "C+", snf.Letter)

	scores.Quality = nil
	standard := CalculateGrade(scores, constants.FacilityTypeSNF, bm)
	// 16 + 15 + 10 + 10.5 + 18
	assert.InDelta(t, 69.5, standard.WeightedScore, delta)
	assert.Equal(t, "C+", standard.Letter)

	alf := CalculateGrade(scores, constants.FacilityTypeALF, bm)
	assert.InDelta(t, standard.WeightedScore, alf.WeightedScore, delta)
}

func TestColorsFor(t *testing.T) {
	assert.Equal(t, gradeColors['B'], ColorsFor("B-"))
	assert.Equal(t, gradeColors['A'], ColorsFor("A+"))
	assert.Equal(t, gradeColors['F'], ColorsFor("F"))
	assert.Equal(t, gradeColors['F'], ColorsFor(""))
}

func TestScoresAreClamped(t *testing.T) {
	bm := benchmarks.DefaultMarket()

	tests := []struct {
		name string
		data Data
	}{
		{
			name: "Zero population",
			data: Data{
				Supply: Supply{Beds: BedSupply{Total: numeric.Of(500)}, NewFacilitiesSince2021: numeric.Of(4)},
			},
		},
		{
			name: "Negative growth and economics",
			data: Data{
				Demographics: Demographics{
					Population:  Population{Age65Plus: numeric.Of(-100), Age85Plus: numeric.Of(-5)},
					Economics:   Economics{MedianHouseholdIncome: numeric.Of(-1), PovertyRate: numeric.Of(-10), HomeownershipRate: numeric.Of(500)},
					Projections: Projections{GrowthRate65Plus: numeric.Of(-500), GrowthRate85Plus: numeric.Of(-500)},
				},
				LaborData: &LaborData{StateWage: numeric.Of(500), CBSAWageIndex: numeric.Of(3), HealthcareUnemployment: numeric.Of(-4)},
			},
		},
		{
			name: "Enormous values",
			data: Data{
				Supply: Supply{Beds: BedSupply{Total: numeric.Of(1e9)}, AvgOccupancy: numeric.Of(250), NewFacilitiesSince2021: numeric.Of(1000)},
				Demographics: Demographics{
					Population:  Population{Age65Plus: numeric.Of(1e8), Age85Plus: numeric.Of(1e8)},
					Economics:   Economics{MedianHouseholdIncome: numeric.Of(1e9), MedianHomeValue: numeric.Of(1e10), PovertyRate: numeric.Of(1000)},
					Projections: Projections{GrowthRate65Plus: numeric.Of(1e6), GrowthRate85Plus: numeric.Of(1e6)},
				},
				LaborData: &LaborData{StateWage: numeric.Of(0.01), HealthcareUnemployment: numeric.Of(1e6)},
			},
		},
		{
			name: "Poor quality record",
			data: Data{
				Demographics: Demographics{Population: Population{Age65Plus: numeric.Of(1000)}},
				SNFQuality: &SNFQuality{
					AvgInspectionRating:       numeric.Of(-3),
					TotalDeficiencies:         numeric.Of(10000),
					FacilityCount:             numeric.Of(2),
					SpecialFocusFacilityCount: numeric.Of(20),
				},
			},
		},
	}

	for _, tt := range tests {
		for _, ft := range []string{constants.FacilityTypeSNF, constants.FacilityTypeALF} {
			t.Run(tt.name+"/"+ft, func(t *testing.T) {
				s := CalculateScores(tt.data, ft, nil, bm)
				inRange(t, s.Demand)
				inRange(t, s.AbilityToPay)
				inRange(t, s.Competition)
				inRange(t, s.Growth)
				inRange(t, s.Labor)
				if s.Quality != nil {
					inRange(t, *s.Quality)
				}
				inRange(t, CalculateGrade(s, ft, bm).WeightedScore)
			})
		}
	}
}

func TestCompetitionDecreasesWithSupply(t *testing.T) {
	bm := benchmarks.DefaultMarket()

	for _, ft := range []string{constants.FacilityTypeSNF, constants.FacilityTypeALF} {
		t.Run(ft, func(t *testing.T) {
			previous := constants.MaxScore + 1
			for _, beds := range []float64{600, 700, 800, 900} {
				d := scenario(t)
				d.EstimatedNeed = numeric.Of(1000)
				d.Supply.Beds.Total = numeric.Of(beds)
				d.Supply.NewFacilitiesSince2021 = numeric.Of(1)

				s := CalculateScores(d, ft, nil, bm)
				assert.Less(t, s.Competition, previous, "beds=%v", beds)
				previous = s.Competition
			}
		})
	}
}

func TestCompetitionNewSupplyPenalty(t *testing.T) {
	bm := benchmarks.DefaultMarket()
	d := scenario(t)
	d.Supply.Beds.Total = numeric.Of(800)

	base := CalculateScores(d, constants.FacilityTypeSNF, nil, bm)
	d.Supply.NewFacilitiesSince2021 = numeric.Of(2)
	penalized := CalculateScores(d, constants.FacilityTypeSNF, nil, bm)

	// need gap is 20% so each new facility costs 5 * 0.8 points
	assert.InDelta(t, 8.0, penalized.RawValues.NewSupplyPenalty, delta)
	assert.InDelta(t, base.Competition-8.0, penalized.Competition, delta)
}

func TestCompetitionOccupancyHandling(t *testing.T) {
	bm := benchmarks.DefaultMarket()

	tests := []struct {
		name          string
		facilityType  string
		occupancy     numeric.Value
		wantOccupancy float64
		wantScore     float64
		wantEstimated bool
	}{
		{"SNF percent", constants.FacilityTypeSNF, numeric.Of(82), 82, 80, false},
		{"SNF fraction", constants.FacilityTypeSNF, numeric.Of(0.82), 82, 80, false},
		{"SNF floor", constants.FacilityTypeSNF, numeric.Of(40), 40, 0, false},
		{"SNF missing uses neutral", constants.FacilityTypeSNF, numeric.Value{}, 0, 50, true},
		{"ALF always neutral", constants.FacilityTypeALF, numeric.Of(95), 95, 50, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := scenario(t)
			d.Supply.AvgOccupancy = tt.occupancy
			raw := CalculateScores(d, tt.facilityType, nil, bm).RawValues
			assert.InDelta(t, tt.wantOccupancy, raw.Occupancy, delta)
			assert.InDelta(t, tt.wantScore, raw.OccupancyScore, delta)
			assert.Equal(t, tt.wantEstimated, raw.OccupancyEstimated)
		})
	}
}

func TestALFUsesCapacity(t *testing.T) {
	d := scenario(t)
	d.Supply.Beds.Total = numeric.Value{}
	d.Supply.Capacity = numeric.Of(300)

	alf := CalculateScores(d, constants.FacilityTypeALF, nil, benchmarks.DefaultMarket())
	assert.InDelta(t, 300.0, alf.RawValues.Beds, delta)

	snf := CalculateScores(d, constants.FacilityTypeSNF, nil, benchmarks.DefaultMarket())
	assert.Equal(t, 0.0, snf.RawValues.Beds)
}

func TestLaborScore(t *testing.T) {
	bm := benchmarks.DefaultMarket()
	d := scenario(t)
	d.LaborData = &LaborData{StateWage: numeric.Of(99), CBSAWageIndex: numeric.Of(1), HealthcareUnemployment: numeric.Of(9)}

	labor := &LaborData{StateWage: numeric.Of(20), CBSAWageIndex: numeric.Of(1.1), HealthcareUnemployment: numeric.Of(1.5)}
	s := CalculateScores(d, constants.FacilityTypeSNF, labor, bm)

	assert.False(t, s.RawValues.LaborEstimated)
	assert.InDelta(t, 22.0, s.RawValues.LocalWage, delta)
	assert.InDelta(t, 100-(22.0/18.5-1)*200, s.RawValues.WageScore, delta)
	assert.InDelta(t, 75.0, s.RawValues.UnemploymentScore, delta)
	assert.InDelta(t, 0.7*s.RawValues.WageScore+0.3*75, s.Labor, delta)

	fromData := CalculateScores(d, constants.FacilityTypeSNF, nil, bm)
	assert.InDelta(t, 0.0, fromData.RawValues.WageScore, delta)
}

func TestQualityScore(t *testing.T) {
	bm := benchmarks.DefaultMarket()
	d := scenario(t)
	d.SNFQuality = &SNFQuality{
		AvgInspectionRating: numeric.Of(4),
		TotalDeficiencies:   numeric.Of(100),
		FacilityCount:       numeric.Of(10),
	}

	snf := CalculateScores(d, constants.FacilityTypeSNF, nil, bm)
	require.NotNil(t, snf.Quality)
	assert.InDelta(t, 0.6*80+0.4*(100-10.0/15*100), *snf.Quality, delta)

	d.SNFQuality.SpecialFocusFacilityCount = numeric.Of(1)
	withSFF := CalculateScores(d, constants.FacilityTypeSNF, nil, bm)
	assert.InDelta(t, *snf.Quality-15, *withSFF.Quality, delta)

	alf := CalculateScores(d, constants.FacilityTypeALF, nil, bm)
	assert.Nil(t, alf.Quality)
}

func TestInsightsAreCappedInOrder(t *testing.T) {
	d := Data{
		Supply: Supply{
			Beds:                   BedSupply{Total: numeric.Of(600)},
			AvgOccupancy:           numeric.Of(60),
			NewFacilitiesSince2021: numeric.Of(5),
		},
		Demographics: Demographics{
			Population: Population{Age65Plus: numeric.Of(10000), Age85Plus: numeric.Of(1500)},
			Economics:  Economics{MedianHouseholdIncome: numeric.Of(120000), PovertyRate: numeric.Of(20)},
		},
	}

	s := NewScorer(nil, benchmarks.DefaultMarket())
	scores, err := s.CalculateScores(d, "snf", nil)
	require.NoError(t, err)
	insights, err := s.GenerateRisksOpportunities(d, "SNF", scores, nil)
	require.NoError(t, err)

	require.Len(t, insights.Risks, MaxInsights)
	assert.True(t, strings.HasPrefix(insights.Risks[0], "Bed supply is"))
	assert.Equal(t, "Existing beds exceed estimated need by 350", insights.Risks[1])
	assert.Equal(t, "Low market occupancy (60.0%) signals soft demand", insights.Risks[2])
	assert.Equal(t, "5 new facilities opened since 2021", insights.Risks[3])
}

func TestOpportunitiesAreCapped(t *testing.T) {
	d := scenario(t)
	d.Supply.Beds.Total = numeric.Of(100)
	d.Supply.AvgOccupancy = numeric.Of(90)
	d.Demographics.Projections.GrowthRate65Plus = numeric.Of(25)
	d.Demographics.Projections.GrowthRate85Plus = numeric.Of(30)

	insights := GenerateInsights(CalculateScores(d, constants.FacilityTypeSNF, nil, benchmarks.DefaultMarket()))
	assert.Equal(t, []string{
		"Unmet need of 900 beds (90% of estimated need)",
		"Bed supply is 86% below the national average per 1,000 seniors",
		"Strong 65+ population growth (25.0%) through 2030",
		"Rapid 85+ population growth (30.0%) through 2030",
	}, insights.Opportunities)
}

func TestGenerateRisksOpportunitiesRecomputesBareScores(t *testing.T) {
	s := NewScorer(nil, benchmarks.DefaultMarket())
	d := scenario(t)

	insights, err := s.GenerateRisksOpportunities(d, "SNF", ScoreSet{}, nil)
	require.NoError(t, err)
	assert.Len(t, insights.Opportunities, 3)
}

func TestScorerErrors(t *testing.T) {
	s := NewScorer(nil, benchmarks.DefaultMarket())

	_, err := s.CalculateScores(scenario(t), "CCRC", nil)
	assert.True(t, errors.Is(err, ErrUnknownFacilityType))

	_, err = s.CalculateGrade(ScoreSet{}, "")
	assert.True(t, errors.Is(err, ErrUnknownFacilityType))

	_, err = s.Report(Data{Name: "Nowhere"}, "SNF", nil)
	assert.True(t, errors.Is(err, ErrMissingMarketData))

	_, err = s.Report(scenario(t), "hospice", nil)
	assert.True(t, errors.Is(err, ErrUnknownFacilityType))
}

func TestParseFacilityType(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"SNF", constants.FacilityTypeSNF, false},
		{" alf ", constants.FacilityTypeALF, false},
		{"Snf", constants.FacilityTypeSNF, false},
		{"", "", true},
		{"ILF", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFacilityType(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
