package output

import (
	"fmt"
	"strings"

	"github.com/iwvelando/carescore/internal/deal"
	"github.com/iwvelando/carescore/internal/market"
	"github.com/iwvelando/carescore/pkg/format"
)

var cellEscaper = strings.NewReplacer("|", `\|`, "\n", " ")

func cell(s string) string {
	return cellEscaper.Replace(s)
}

func mdList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", heading)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

// MarkdownEvaluation renders a deal evaluation as a markdown report.
func MarkdownEvaluation(ev deal.Evaluation) string {
	var b strings.Builder
	m := ev.OverallMetrics
	reit := ev.REITCompatibility

	fmt.Fprintf(&b, "# Deal Evaluation: %s\n\n", ev.DealName)
	fmt.Fprintf(&b, "**Score:** %.0f / 100 (**%s**)\n\n", ev.Summary.Score, ev.Summary.Recommendation)

	b.WriteString("## Overall Metrics\n\n| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Facilities | %d |\n", m.FacilityCount)
	fmt.Fprintf(&b, "| Total beds | %d |\n", m.TotalBeds)
	fmt.Fprintf(&b, "| Purchase price | %s |\n", format.Dollars(m.TotalPurchasePrice))
	fmt.Fprintf(&b, "| T12M revenue | %s |\n", format.Dollars(m.TotalRevenue))
	fmt.Fprintf(&b, "| T12M EBITDA | %s |\n", format.Dollars(m.TotalEBITDA))
	fmt.Fprintf(&b, "| T12M EBITDAR | %s |\n", format.Dollars(m.TotalEBITDAR))
	fmt.Fprintf(&b, "| Weighted cap rate | %s |\n", format.PercentPtr(m.WeightedAverageCapRate))
	fmt.Fprintf(&b, "| Weighted occupancy | %s |\n", format.Percent(m.WeightedAverageOccupancy))
	fmt.Fprintf(&b, "| Price per bed | %s |\n\n", format.Currency(m.AveragePricePerBed))

	b.WriteString("## Facilities\n\n| Facility | State | Beds | Cap Rate | EBITDA Multiple | Occupancy | Estimated |\n|---|---|---:|---:|---:|---:|---|\n")
	for i, f := range ev.Facilities {
		var v deal.FacilityValuation
		if i < len(ev.Valuations) {
			v = ev.Valuations[i]
		}
		fmt.Fprintf(&b, "| %s | %s | %d | %s | %s | %s | %s |\n", cell(f.Name), cell(f.State), f.TotalBeds,
			format.Percent(v.CapRate), format.Multiple(v.EBITDAMultiple), format.Percent(f.OccupancyRate),
			yesNo(f.DataQuality.Any() || v.CapRateEstimated))
	}
	b.WriteString("\n")

	if len(m.ProForma) > 0 {
		b.WriteString("## Pro Forma\n\n| Year | Revenue | EBITDA |\n|---|---:|---:|\n")
		for _, y := range m.ProForma {
			fmt.Fprintf(&b, "| %d | %s | %s |\n", y.Year, format.Dollars(y.Revenue), format.Dollars(y.EBITDA))
		}
		b.WriteString("\n")
	}

	r := ev.RiskAssessment
	fmt.Fprintf(&b, "## Risk Assessment\n\nOverall risk: **%s** (high %d, medium %d, low %d)\n\n",
		r.OverallRisk, r.Counts.High, r.Counts.Medium, r.Counts.Low)
	for _, top := range r.TopRisks {
		fmt.Fprintf(&b, "- %s\n", top)
	}
	if len(r.TopRisks) > 0 {
		b.WriteString("\n")
	}

	b.WriteString("## REIT Compatibility\n\n| Test | Result |\n|---|---|\n")
	fmt.Fprintf(&b, "| Public REIT yield | %s |\n", yesNo(reit.MeetsPublicREITRequirements))
	fmt.Fprintf(&b, "| Private REIT yield | %s |\n", yesNo(reit.MeetsPrivateREITRequirements))
	fmt.Fprintf(&b, "| Coverage ratio %s | %s |\n\n", format.Multiple(reit.CoverageRatio), yesNo(reit.MeetsCoverageRatio))

	if len(ev.Recommendations) > 0 {
		b.WriteString("## Recommendations\n\n")
		for i, rec := range ev.Recommendations {
			fmt.Fprintf(&b, "%d. **%s** (%s priority, %s): %s\n", i+1, rec.Title, rec.Priority, rec.Category, rec.Description)
		}
		b.WriteString("\n")
	}

	if len(ev.MarketAnalysis) > 0 {
		b.WriteString("## Markets\n\n| Facility | Location | Position | Medicare | Medicaid |\n|---|---|---|---:|---:|\n")
		for _, mc := range ev.MarketAnalysis {
			loc := mc.State
			if mc.City != "" {
				loc = mc.City + ", " + mc.State
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n", cell(mc.Name), cell(loc), mc.CompetitivePosition,
				format.Currency(mc.ReimbursementRates.Medicare), format.Currency(mc.ReimbursementRates.Medicaid))
		}
		b.WriteString("\n")
	}

	mdList(&b, "Strengths", ev.Summary.Strengths)
	mdList(&b, "Concerns", ev.Summary.Concerns)
	mdList(&b, "Next Steps", ev.Summary.NextSteps)
	return b.String()
}

// MarkdownMarketReports renders market reports as one markdown document.
func MarkdownMarketReports(reports []market.Report) string {
	var b strings.Builder
	b.WriteString("# Market Report\n\n")
	for _, r := range reports {
		s := r.Scores
		fmt.Fprintf(&b, "## %s (%s): Grade %s\n\n", reportTitle(r), r.FacilityType, r.Grade.Letter)
		fmt.Fprintf(&b, "Weighted score: **%s**\n\n", format.Score(r.Grade.WeightedScore))
		b.WriteString("| Dimension | Score |\n|---|---:|\n")
		fmt.Fprintf(&b, "| Demand | %s |\n", format.Score(s.Demand))
		fmt.Fprintf(&b, "| Ability to pay | %s |\n", format.Score(s.AbilityToPay))
		fmt.Fprintf(&b, "| Competition | %s |\n", format.Score(s.Competition))
		fmt.Fprintf(&b, "| Growth | %s |\n", format.Score(s.Growth))
		fmt.Fprintf(&b, "| Labor | %s |\n", format.Score(s.Labor))
		fmt.Fprintf(&b, "| Quality | %s |\n\n", format.ScorePtr(s.Quality))

		if len(r.Risks) > 0 {
			b.WriteString("**Risks**\n\n")
			for _, risk := range r.Risks {
				fmt.Fprintf(&b, "- %s\n", risk)
			}
			b.WriteString("\n")
		}
		if len(r.Opportunities) > 0 {
			b.WriteString("**Opportunities**\n\n")
			for _, o := range r.Opportunities {
				fmt.Fprintf(&b, "- %s\n", o)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
