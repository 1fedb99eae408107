package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/carescore/internal/deal"
	"github.com/iwvelando/carescore/internal/market"
)

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func rate(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func score(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func optional(v *float64, f func(float64) string) string {
	if v == nil {
		return ""
	}
	return f(*v)
}

func writeCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV output: %w", err)
	}
	return nil
}

// CsvEvaluation outputs one row per facility followed by a deal total row.
func CsvEvaluation(w io.Writer, ev deal.Evaluation) error {
	rows := [][]string{{
		"deal", "facility_id", "facility", "state", "beds", "purchase_price", "t12m_revenue",
		"t12m_ebitda", "t12m_ebitdar", "occupancy", "cap_rate", "ebitda_multiple",
		"price_per_bed", "estimated", "score", "recommendation",
	}}
	for i, f := range ev.Facilities {
		var v deal.FacilityValuation
		if i < len(ev.Valuations) {
			v = ev.Valuations[i]
		}
		rows = append(rows, []string{
			ev.DealName, f.ID, f.Name, f.State, strconv.Itoa(f.TotalBeds), money(f.PurchasePrice),
			money(f.T12MRevenue), money(f.T12MEBITDA), money(f.T12MEBITDAR), rate(f.OccupancyRate),
			rate(v.CapRate), score(v.EBITDAMultiple), money(f.PricePerBed),
			strconv.FormatBool(f.DataQuality.Any() || v.CapRateEstimated), "", "",
		})
	}

	m := ev.OverallMetrics
	rows = append(rows, []string{
		ev.DealName, "", "TOTAL", "", strconv.Itoa(m.TotalBeds), money(m.TotalPurchasePrice),
		money(m.TotalRevenue), money(m.TotalEBITDA), money(m.TotalEBITDAR), rate(m.WeightedAverageOccupancy),
		optional(m.WeightedAverageCapRate, rate), "", money(m.AveragePricePerBed), "",
		score(ev.Summary.Score), ev.Summary.Recommendation,
	})
	return writeCSV(w, rows)
}

// CsvMarketReports outputs one row per market.
func CsvMarketReports(w io.Writer, reports []market.Report) error {
	rows := [][]string{{
		"market_id", "market", "state", "facility_type", "demand", "ability_to_pay", "competition",
		"growth", "labor", "quality", "weighted_score", "grade", "risks", "opportunities",
	}}
	for _, r := range reports {
		s := r.Scores
		rows = append(rows, []string{
			r.MarketID, r.MarketName, r.State, r.FacilityType, score(s.Demand), score(s.AbilityToPay),
			score(s.Competition), score(s.Growth), score(s.Labor), optional(s.Quality, score),
			score(r.Grade.WeightedScore), r.Grade.Letter,
			strings.Join(r.Risks, "; "), strings.Join(r.Opportunities, "; "),
		})
	}
	return writeCSV(w, rows)
}
