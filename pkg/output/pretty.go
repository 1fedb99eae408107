package output

import (
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/carescore/internal/deal"
	"github.com/iwvelando/carescore/internal/market"
	"github.com/iwvelando/carescore/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// errWriter remembers the first write error so the renderers can print
// freely and check once.
type errWriter struct {
	p   *message.Printer
	w   io.Writer
	err error
}

func newErrWriter(w io.Writer) *errWriter {
	return &errWriter{p: message.NewPrinter(language.English), w: w}
}

func (e *errWriter) printf(f string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = e.p.Fprintf(e.w, f, args...)
}

func (e *errWriter) list(title string, items []string) {
	if len(items) == 0 {
		return
	}
	e.printf("%s:\n", title)
	for _, item := range items {
		e.printf("  - %s\n", item)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// PrettyEvaluation outputs a human-readable rather than machine-readable
// deal evaluation.
func PrettyEvaluation(w io.Writer, ev deal.Evaluation) error {
	out := newErrWriter(w)
	m := ev.OverallMetrics
	r := ev.RiskAssessment
	reit := ev.REITCompatibility

	out.printf("--- Deal evaluation: %s ---\n", ev.DealName)
	out.printf("Score: %.0f / 100 (%s)\n\n", ev.Summary.Score, ev.Summary.Recommendation)

	out.printf("Facilities: %d | Beds: %d | Purchase price: %s\n", m.FacilityCount, m.TotalBeds, format.Dollars(m.TotalPurchasePrice))
	out.printf("Revenue: %s | EBITDA: %s | EBITDAR: %s\n", format.Dollars(m.TotalRevenue), format.Dollars(m.TotalEBITDA), format.Dollars(m.TotalEBITDAR))
	out.printf("Weighted cap rate: %s | Occupancy: %s | Price per bed: %s\n",
		format.PercentPtr(m.WeightedAverageCapRate), format.Percent(m.WeightedAverageOccupancy), format.Currency(m.AveragePricePerBed))
	out.printf("Risk: %s (high %d, medium %d, low %d)\n", r.OverallRisk, r.Counts.High, r.Counts.Medium, r.Counts.Low)
	out.printf("REIT: public %s | private %s | coverage %s (meets %s)\n\n",
		yesNo(reit.MeetsPublicREITRequirements), yesNo(reit.MeetsPrivateREITRequirements),
		format.Multiple(reit.CoverageRatio), yesNo(reit.MeetsCoverageRatio))

	out.printf("Facility             | State | Beds  | Cap rate | Multiple | Occupancy | Estimated\n")
	out.printf("____________________ | _____ | _____ | ________ | ________ | _________ | _________\n")
	for i, f := range ev.Facilities {
		var v deal.FacilityValuation
		if i < len(ev.Valuations) {
			v = ev.Valuations[i]
		}
		out.printf("%-20s | %-5s | %5d | %8s | %8s | %9s | %s\n",
			truncate(f.Name, 20), f.State, f.TotalBeds, format.Percent(v.CapRate),
			format.Multiple(v.EBITDAMultiple), format.Percent(f.OccupancyRate), yesNo(f.DataQuality.Any() || v.CapRateEstimated))
	}
	out.printf("\n")

	if len(m.ProForma) > 0 {
		out.printf("Pro forma:\n")
		for _, y := range m.ProForma {
			out.printf("  Year %s: revenue %s, EBITDA %s\n", strconv.Itoa(y.Year), format.Dollars(y.Revenue), format.Dollars(y.EBITDA))
		}
	}

	out.list("Strengths", ev.Summary.Strengths)
	out.list("Concerns", ev.Summary.Concerns)
	if len(ev.Recommendations) > 0 {
		out.printf("Recommendations:\n")
		for _, rec := range ev.Recommendations {
			out.printf("  [%s] %s: %s\n", rec.Priority, rec.Title, rec.Description)
		}
	}
	if len(ev.MarketAnalysis) > 0 {
		out.printf("Markets:\n")
		for _, mc := range ev.MarketAnalysis {
			out.printf("  %s (%s): %s position, Medicare %s, Medicaid %s\n", mc.Name, mc.State, mc.CompetitivePosition,
				format.Currency(mc.ReimbursementRates.Medicare), format.Currency(mc.ReimbursementRates.Medicaid))
		}
	}
	out.list("Next steps", ev.Summary.NextSteps)
	return out.err
}

// PrettyMarketReports outputs a human-readable summary of each market.
func PrettyMarketReports(w io.Writer, reports []market.Report) error {
	out := newErrWriter(w)
	for i, r := range reports {
		out.printf("--- Market %s (%s) ---\n", reportTitle(r), r.FacilityType)
		out.printf("Grade: %s (%s)\n", r.Grade.Letter, format.Score(r.Grade.WeightedScore))
		out.printf("Demand %s | Ability to pay %s | Competition %s | Growth %s | Labor %s | Quality %s\n",
			format.Score(r.Scores.Demand), format.Score(r.Scores.AbilityToPay), format.Score(r.Scores.Competition),
			format.Score(r.Scores.Growth), format.Score(r.Scores.Labor), format.ScorePtr(r.Scores.Quality))
		raw := r.Scores.RawValues
		out.printf("65+ population: %.0f | Beds: %.0f | Estimated need: %.0f\n", raw.Pop65, raw.Beds, raw.EstimatedNeed)
		out.list("Risks", r.Risks)
		out.list("Opportunities", r.Opportunities)
		if i < len(reports)-1 {
			out.printf("\n")
		}
	}
	return out.err
}

func reportTitle(r market.Report) string {
	switch {
	case r.MarketName != "":
		return r.MarketName
	case r.MarketID != "":
		return r.MarketID
	default:
		return "unnamed"
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n-1]) + "~"
}
