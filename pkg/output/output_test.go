package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/iwvelando/carescore/internal/benchmarks"
	"github.com/iwvelando/carescore/internal/deal"
	"github.com/iwvelando/carescore/internal/market"
	"github.com/iwvelando/carescore/pkg/constants"
	"github.com/iwvelando/carescore/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evaluation(t *testing.T, facilities ...deal.RawFacility) deal.Evaluation {
	t.Helper()
	e := deal.NewEvaluator(nil, benchmarks.DefaultDeal())
	ev, err := e.EvaluateDeal(deal.Deal{DealName: "Boise"}, facilities)
	require.NoError(t, err)
	return ev
}

func reports(t *testing.T) []market.Report {
	t.Helper()
	r, err := market.NewScorer(nil, benchmarks.DefaultMarket()).Report(testutil.ScenarioMarket(), constants.FacilityTypeSNF, nil)
	require.NoError(t, err)
	return []market.Report{r}
}

func render(t *testing.T, f func(*bytes.Buffer) error) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, f(&buf))
	return buf.String()
}

func TestWriteEvaluationPretty(t *testing.T) {
	ev := evaluation(t, testutil.StrongFacility())
	out := render(t, func(b *bytes.Buffer) error { return WriteEvaluation(b, constants.OutputFormatPretty, ev) })

	for _, want := range []string{
		"--- Deal evaluation: Boise ---",
		"Score: 100 / 100 (STRONG BUY)",
		"Purchase price: $10,000,000",
		"Weighted cap rate: 14.0%",
		"Boise Post Acute",
		"Year 1: revenue $10,500,000",
		"Next steps:",
		"Schedule site visits and management interviews",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Concerns:")
}

func TestWriteEvaluationCSV(t *testing.T) {
	ev := evaluation(t, testutil.StrongFacility(), testutil.LossMakingFacility())
	out := render(t, func(b *bytes.Buffer) error { return WriteEvaluation(b, constants.OutputFormatCSV, ev) })

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	header := rows[0]
	assert.Equal(t, "deal", header[0])
	assert.Len(t, rows[1], len(header))

	assert.Equal(t, "Boise Post Acute", rows[1][2])
	assert.Equal(t, "0.1400", rows[1][10])
	assert.Equal(t, "Springfield Care Center", rows[2][2])
	assert.Equal(t, "-200000.00", rows[2][7])

	total := rows[3]
	assert.Equal(t, "TOTAL", total[2])
	assert.Equal(t, "220", total[4])
	assert.Equal(t, ev.Summary.Recommendation, total[len(total)-1])
}

func TestWriteEvaluationJSON(t *testing.T) {
	ev := evaluation(t, testutil.StrongFacility())
	out := render(t, func(b *bytes.Buffer) error { return WriteEvaluation(b, constants.OutputFormatJSON, ev) })

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	summary := decoded["summary"].(map[string]interface{})
	assert.Equal(t, deal.LabelStrongBuy, summary["recommendation"])
	assert.Contains(t, out, "\n  \"dealName\": \"Boise\"")
}

func TestWriteEvaluationMarkdownAndHTML(t *testing.T) {
	f := testutil.StrongFacility()
	f.Name = "North|South"
	ev := evaluation(t, f, testutil.LossMakingFacility())

	md := render(t, func(b *bytes.Buffer) error { return WriteEvaluation(b, constants.OutputFormatMarkdown, ev) })
	assert.True(t, strings.HasPrefix(md, "# Deal Evaluation: Boise\n"))
	assert.Contains(t, md, "| Facilities | 2 |")
	assert.Contains(t, md, `North\|South`)
	assert.Contains(t, md, "## Recommendations")
	assert.Contains(t, md, "## Pro Forma")

	page := render(t, func(b *bytes.Buffer) error { return WriteEvaluation(b, constants.OutputFormatHTML, ev) })
	assert.True(t, strings.HasPrefix(page, "<!doctype html>"))
	assert.Contains(t, page, "<title>Deal Evaluation: Boise</title>")
	assert.Contains(t, page, "<h1>Deal Evaluation: Boise</h1>")
	assert.Contains(t, page, "<table>")
	assert.Contains(t, page, "North|South")
}

func TestWriteMarketReports(t *testing.T) {
	rs := reports(t)

	tests := []struct {
		format string
		want   []string
	}{
		{
			format: constants.OutputFormatPretty,
			want:   []string{"--- Market Boise, ID (SNF) ---", "Grade: B- (70.5)", "Quality n/a", "65+ population: 40,000", "Opportunities:"},
		},
		{
			format: constants.OutputFormatCSV,
			want:   []string{"market_id,market,state", "boise-id,\"Boise, ID\",ID,SNF", "70.46,B-"},
		},
		{
			format: constants.OutputFormatJSON,
			want:   []string{`"marketId": "boise-id"`, `"letter": "B-"`},
		},
		{
			format: constants.OutputFormatMarkdown,
			want:   []string{"## Boise, ID (SNF): Grade B-", "| Quality | n/a |", "**Opportunities**"},
		},
		{
			format: constants.OutputFormatHTML,
			want:   []string{"<title>Market Report</title>", "<h2>Boise, ID (SNF): Grade B-</h2>"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out := render(t, func(b *bytes.Buffer) error { return WriteMarketReports(b, tt.format, rs) })
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestWriteMarketReportsJSONList(t *testing.T) {
	rs := append(reports(t), reports(t)...)
	out := render(t, func(b *bytes.Buffer) error { return WriteMarketReports(b, constants.OutputFormatJSON, rs) })

	var decoded []market.Report
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Len(t, decoded, 2)
}

func TestUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := WriteEvaluation(&buf, "xml", deal.Evaluation{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "got xml")

	err = WriteMarketReports(&buf, "yaml", nil)
	require.Error(t, err)
	assert.Empty(t, buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriteErrorsPropagate(t *testing.T) {
	ev := evaluation(t, testutil.StrongFacility())
	for _, format := range constants.OutputFormats {
		t.Run(format, func(t *testing.T) {
			assert.Error(t, WriteEvaluation(failingWriter{}, format, ev))
		})
	}
}
