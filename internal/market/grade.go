package market

import (
	"github.com/iwvelando/carescore/internal/benchmarks"
	"github.com/iwvelando/carescore/pkg/constants"
	"github.com/iwvelando/carescore/pkg/mathutil"
)

// FailingGrade is returned below the lowest threshold.
const FailingGrade = "F"

var gradeColors = map[byte]Colors{
	'A': {Background: "#dcfce7", Text: "#166534", Accent: "#22c55e"},
	'B': {Background: "#dbeafe", Text: "#1e40af", Accent: "#3b82f6"},
	'C': {Background: "#fef9c3", Text: "#854d0e", Accent: "#eab308"},
	'D': {Background: "#ffedd5", Text: "#9a3412", Accent: "#f97316"},
	'F': {Background: "#fee2e2", Text: "#991b1b", Accent: "#ef4444"},
}

// WeightsFor selects the weight set. SNF markets with a quality score use the
// six-factor set; everything else uses the standard five-factor set.
func WeightsFor(scores ScoreSet, facilityType string, bm benchmarks.MarketBenchmarks) benchmarks.GradeWeights {
	if facilityType == constants.FacilityTypeSNF && scores.Quality != nil {
		return bm.GradeWeights.SNFWithQuality
	}
	return bm.GradeWeights.Standard
}

// CalculateGrade combines the sub-scores into a weighted score and letter.
func CalculateGrade(scores ScoreSet, facilityType string, bm benchmarks.MarketBenchmarks) Grade {
	w := WeightsFor(scores, facilityType, bm)

	weighted := w.Demand*scores.Demand +
		w.AbilityToPay*scores.AbilityToPay +
		w.Competition*scores.Competition +
		w.Growth*scores.Growth +
		w.Labor*scores.Labor
	if scores.Quality != nil {
		weighted += w.Quality * *scores.Quality
	}
	weighted = mathutil.ClampScore(weighted)

	letter := Letter(weighted, bm.GradeScale)
	return Grade{
		WeightedScore: weighted,
		Letter:        letter,
		Colors:        ColorsFor(letter),
	}
}

// Letter maps a score to the first threshold it reaches.
func Letter(score float64, scale []benchmarks.GradeThreshold) string {
	for _, g := range scale {
		if score >= g.Min {
			return g.Letter
		}
	}
	return FailingGrade
}

// ColorsFor returns the palette for a letter grade's family.
func ColorsFor(letter string) Colors {
	if letter != "" {
		if c, ok := gradeColors[letter[0]]; ok {
			return c
		}
	}
	return gradeColors['F']
}
