package market

import (
	"fmt"

	"github.com/iwvelando/carescore/internal/benchmarks"
	"go.uber.org/zap"
)

// Scorer runs the market pipeline against one benchmark set.
type Scorer struct {
	logger     *zap.Logger
	benchmarks benchmarks.MarketBenchmarks
}

// NewScorer creates a scorer with the given logger and benchmarks.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewScorer(logger *zap.Logger, bm benchmarks.MarketBenchmarks) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{logger: logger, benchmarks: bm}
}

// Benchmarks returns the benchmark set the scorer was built with.
func (s *Scorer) Benchmarks() benchmarks.MarketBenchmarks {
	return s.benchmarks
}

// CalculateScores validates the facility type and computes the sub-scores.
func (s *Scorer) CalculateScores(d Data, facilityType string, labor *LaborData) (ScoreSet, error) {
	ft, err := ParseFacilityType(facilityType)
	if err != nil {
		return ScoreSet{}, err
	}

	scores := CalculateScores(d, ft, labor, s.benchmarks)
	fields := []zap.Field{
		zap.String("op", "market.CalculateScores"),
		zap.String("market", marketLabel(d)),
		zap.String("facilityType", ft),
		zap.Float64("demand", scores.Demand),
		zap.Float64("abilityToPay", scores.AbilityToPay),
		zap.Float64("competition", scores.Competition),
		zap.Float64("growth", scores.Growth),
		zap.Float64("labor", scores.Labor),
		zap.Bool("needEstimated", scores.RawValues.NeedEstimated),
		zap.Bool("laborEstimated", scores.RawValues.LaborEstimated),
	}
	if scores.Quality != nil {
		fields = append(fields, zap.Float64("quality", *scores.Quality))
	}
	s.logger.Debug("market scored", fields...)
	return scores, nil
}

// CalculateGrade validates the facility type and grades the scores.
func (s *Scorer) CalculateGrade(scores ScoreSet, facilityType string) (Grade, error) {
	ft, err := ParseFacilityType(facilityType)
	if err != nil {
		return Grade{}, err
	}
	return CalculateGrade(scores, ft, s.benchmarks), nil
}

// GenerateRisksOpportunities produces the capped risk and opportunity lists.
// Scores without raw values are recomputed from d.
func (s *Scorer) GenerateRisksOpportunities(d Data, facilityType string, scores ScoreSet, labor *LaborData) (Insights, error) {
	ft, err := ParseFacilityType(facilityType)
	if err != nil {
		return Insights{}, err
	}
	if scores.RawValues.FacilityType != ft {
		scores = CalculateScores(d, ft, labor, s.benchmarks)
	}
	return GenerateInsights(scores), nil
}

// Report scores, grades and annotates one market.
func (s *Scorer) Report(d Data, facilityType string, labor *LaborData) (Report, error) {
	if d.Empty() {
		return Report{}, fmt.Errorf("failed to score market %q: %w", marketLabel(d), ErrMissingMarketData)
	}
	scores, err := s.CalculateScores(d, facilityType, labor)
	if err != nil {
		return Report{}, fmt.Errorf("failed to score market %q: %w", marketLabel(d), err)
	}
	ft := scores.RawValues.FacilityType
	grade := CalculateGrade(scores, ft, s.benchmarks)
	insights := GenerateInsights(scores)

	s.logger.Debug("market graded",
		zap.String("op", "market.Report"),
		zap.String("market", marketLabel(d)),
		zap.Float64("weightedScore", grade.WeightedScore),
		zap.String("letter", grade.Letter),
	)

	return Report{
		MarketID:      d.ID,
		MarketName:    d.Name,
		State:         d.State,
		FacilityType:  ft,
		Scores:        scores,
		Grade:         grade,
		Risks:         insights.Risks,
		Opportunities: insights.Opportunities,
	}, nil
}

func marketLabel(d Data) string {
	switch {
	case d.Name != "":
		return d.Name
	case d.ID != "":
		return d.ID
	default:
		return "unnamed"
	}
}
