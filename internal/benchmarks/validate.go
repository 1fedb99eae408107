package benchmarks

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iwvelando/carescore/pkg/constants"
	"github.com/iwvelando/carescore/pkg/mathutil"
)

// Validate checks that a benchmark set is internally consistent: weight sets
// sum to one, reference denominators are positive, rates are non-negative and
// the grade scale is strictly descending.
func (b Benchmarks) Validate() error {
	var errs []string

	d := b.Deal
	for name, v := range map[string]float64{
		"deal.targetEbitdaMargin":  d.TargetEBITDAMargin,
		"deal.targetEbitdarMargin": d.TargetEBITDARMargin,
		"deal.defaultOccupancy":    d.DefaultOccupancy,
		"deal.targetOccupancy":     d.TargetOccupancy,
		"deal.highRiskOccupancy":   d.HighRiskOccupancy,
		"deal.defaultCapRate":      d.DefaultCapRate,
		"deal.publicReitMinYield":  d.PublicREITMinYield,
		"deal.privateReitMinYield": d.PrivateREITMinYield,
		"deal.minCoverageRatio":    d.MinCoverageRatio,
	} {
		if v < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}
	if d.CostOfCapital <= 0 {
		errs = append(errs, "deal.costOfCapital must be > 0")
	}
	if d.DefaultOccupancy > 1 || d.TargetOccupancy > 1 || d.HighRiskOccupancy > 1 ||
		d.StrongPositionOccupancy > 1 {
		errs = append(errs, "deal occupancy benchmarks must be fractions (<= 1)")
	}
	if d.ModeratePositionOccupancy <= 0 || d.ModeratePositionOccupancy > d.StrongPositionOccupancy {
		errs = append(errs, fmt.Sprintf("deal.moderatePositionOccupancy must be in (0, strongPositionOccupancy], got %.2f", d.ModeratePositionOccupancy))
	}

	m := b.Market
	for name, v := range map[string]float64{
		"market.demand.pop65Reference":                 m.Demand.Pop65Reference,
		"market.demand.pop85Reference":                 m.Demand.Pop85Reference,
		"market.demand.needReference":                  m.Demand.NeedReference,
		"market.abilityToPay.incomeReference":          m.AbilityToPay.IncomeReference,
		"market.abilityToPay.homeValueReference":       m.AbilityToPay.HomeValueReference,
		"market.abilityToPay.povertyReference":         m.AbilityToPay.PovertyReference,
		"market.abilityToPay.homeownershipReference":   m.AbilityToPay.HomeownershipReference,
		"market.competition.nationalBedsPerThousand65": m.Competition.NationalBedsPerThousand65,
		"market.growth.growth65Reference":              m.Growth.Growth65Reference,
		"market.growth.growth85Reference":              m.Growth.Growth85Reference,
		"market.labor.nationalCnaWage":                 m.Labor.NationalCNAWage,
		"market.labor.unemploymentReference":           m.Labor.UnemploymentReference,
		"market.quality.ratingScale":                   m.Quality.RatingScale,
		"market.quality.deficiencyReference":           m.Quality.DeficiencyReference,
	} {
		if v <= 0 {
			errs = append(errs, fmt.Sprintf("%s must be > 0", name))
		}
	}
	if m.Demand.NeedRate < 0 {
		errs = append(errs, "market.demand.needRate must be >= 0")
	}

	sums := map[string]float64{
		"market.demand weights":              m.Demand.Pop65Weight + m.Demand.Pop85Weight + m.Demand.NeedWeight,
		"market.abilityToPay weights":        m.AbilityToPay.IncomeWeight + m.AbilityToPay.HomeValueWeight + m.AbilityToPay.PovertyWeight + m.AbilityToPay.HomeownershipWeight,
		"market.competition.snf weights":     m.Competition.SNF.Sum(),
		"market.growth weights":              m.Growth.Growth65Weight + m.Growth.Growth85Weight,
		"market.labor weights":               m.Labor.WageWeight + m.Labor.UnemploymentWeight,
		"market.quality weights":             m.Quality.RatingWeight + m.Quality.DeficiencyWeight,
		"market.gradeWeights.snfWithQuality": m.GradeWeights.SNFWithQuality.Sum(),
		"market.gradeWeights.standard":       m.GradeWeights.Standard.Sum(),
	}
	// ALF competition has no occupancy component, so its weights sum below 1.
	if s := m.Competition.ALF.Sum(); s <= 0 || s > 1+constants.WeightSumTolerance {
		errs = append(errs, fmt.Sprintf("market.competition.alf weights must be in (0, 1], got %.3f", s))
	}
	for name, s := range sums {
		if !mathutil.WithinTolerance(s, 1, constants.WeightSumTolerance) {
			errs = append(errs, fmt.Sprintf("%s should sum to 1, got %.3f", name, s))
		}
	}
	if m.GradeWeights.Standard.Quality != 0 {
		errs = append(errs, "market.gradeWeights.standard.quality must be 0")
	}

	if len(m.GradeScale) == 0 {
		errs = append(errs, "market.gradeScale must not be empty")
	}
	for i := 1; i < len(m.GradeScale); i++ {
		if m.GradeScale[i].Min >= m.GradeScale[i-1].Min {
			errs = append(errs, fmt.Sprintf("market.gradeScale must be strictly descending at %q", m.GradeScale[i].Letter))
		}
	}
	for _, g := range m.GradeScale {
		if strings.TrimSpace(g.Letter) == "" {
			errs = append(errs, "market.gradeScale letters must not be empty")
			break
		}
	}

	if len(errs) > 0 {
		sort.Strings(errs)
		return fmt.Errorf("benchmarks: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
