package deal

import (
	"fmt"

	"github.com/iwvelando/carescore/internal/benchmarks"
	"go.uber.org/zap"
)

// Evaluator runs the deal pipeline against one benchmark set.
type Evaluator struct {
	logger     *zap.Logger
	benchmarks benchmarks.DealBenchmarks
}

// NewEvaluator creates an evaluator with the given logger and benchmarks.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewEvaluator(logger *zap.Logger, bm benchmarks.DealBenchmarks) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{logger: logger, benchmarks: bm}
}

// Benchmarks returns the benchmark set the evaluator was built with.
func (e *Evaluator) Benchmarks() benchmarks.DealBenchmarks {
	return e.benchmarks
}

// Normalize normalizes a single facility.
func (e *Evaluator) Normalize(f RawFacility) NormalizedFacility {
	n := NormalizeFinancials(f, e.benchmarks)
	if n.DataQuality.Any() {
		e.logger.Debug("facility financials estimated",
			zap.String("op", "deal.Normalize"),
			zap.String("facility", facilityLabel(n)),
			zap.Bool("ebitdaEstimated", n.DataQuality.EBITDAEstimated),
			zap.Bool("ebitdarEstimated", n.DataQuality.EBITDAREstimated),
			zap.Bool("ebitEstimated", n.DataQuality.EBITEstimated),
			zap.Bool("occupancyEstimated", n.DataQuality.OccupancyEstimated),
		)
	}
	return n
}

// AnalyzeMarket normalizes the facilities and annotates their markets.
func (e *Evaluator) AnalyzeMarket(facilities []RawFacility) []MarketContext {
	normalized := make([]NormalizedFacility, 0, len(facilities))
	for _, f := range facilities {
		normalized = append(normalized, e.Normalize(f))
	}
	return AnalyzeMarket(normalized, e.benchmarks)
}

// EvaluateDeal runs the full pipeline. When facilities is empty the deal's
// own facility list is used, and failing that the deal itself is treated as
// a single facility.
func (e *Evaluator) EvaluateDeal(d Deal, facilities []RawFacility) (Evaluation, error) {
	if len(facilities) == 0 {
		var err error
		facilities, err = d.FacilityList()
		if err != nil {
			return Evaluation{}, fmt.Errorf("failed to evaluate deal %q: %w", d.DisplayName(), err)
		}
	}

	ev := Evaluation{
		DealID:     d.ID,
		DealName:   d.DisplayName(),
		Facilities: make([]NormalizedFacility, 0, len(facilities)),
		Valuations: make([]FacilityValuation, 0, len(facilities)),
	}
	for _, f := range facilities {
		n := e.Normalize(f)
		ev.Facilities = append(ev.Facilities, n)
		ev.Valuations = append(ev.Valuations, ValueFacility(n, e.benchmarks))
	}

	ev.OverallMetrics = AggregateMetrics(ev.Facilities)
	ev.RiskAssessment = AssessRisk(ev.Facilities, ev.OverallMetrics, e.benchmarks)
	ev.REITCompatibility = AssessREIT(ev.OverallMetrics, e.benchmarks)
	ev.MarketAnalysis = AnalyzeMarket(ev.Facilities, e.benchmarks)
	ev.Recommendations = BuildRecommendations(ev.OverallMetrics, ev.RiskAssessment, ev.REITCompatibility, e.benchmarks)
	ev.Summary = Summarize(ev, e.benchmarks)

	e.logger.Debug("deal evaluated",
		zap.String("op", "deal.EvaluateDeal"),
		zap.String("deal", ev.DealName),
		zap.Int("facilities", len(ev.Facilities)),
		zap.String("overallRisk", ev.RiskAssessment.OverallRisk),
		zap.Float64("score", ev.Summary.Score),
		zap.String("recommendation", ev.Summary.Recommendation),
	)
	return ev, nil
}
