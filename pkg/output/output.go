// Package output provides utilities for formatting and displaying deal
// evaluations and market reports.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iwvelando/carescore/internal/deal"
	"github.com/iwvelando/carescore/internal/market"
	"github.com/iwvelando/carescore/pkg/constants"
	"github.com/iwvelando/carescore/pkg/validation"
)

// WriteEvaluation renders one deal evaluation to w in the given format.
func WriteEvaluation(w io.Writer, format string, ev deal.Evaluation) error {
	switch format {
	case constants.OutputFormatPretty:
		return PrettyEvaluation(w, ev)
	case constants.OutputFormatCSV:
		return CsvEvaluation(w, ev)
	case constants.OutputFormatJSON:
		return writeJSON(w, ev)
	case constants.OutputFormatMarkdown:
		_, err := io.WriteString(w, MarkdownEvaluation(ev))
		return err
	case constants.OutputFormatHTML:
		return writeHTML(w, "Deal Evaluation: "+ev.DealName, MarkdownEvaluation(ev))
	default:
		return validation.ValidateOutputFormat(format)
	}
}

// WriteMarketReports renders market reports to w in the given format.
func WriteMarketReports(w io.Writer, format string, reports []market.Report) error {
	switch format {
	case constants.OutputFormatPretty:
		return PrettyMarketReports(w, reports)
	case constants.OutputFormatCSV:
		return CsvMarketReports(w, reports)
	case constants.OutputFormatJSON:
		if len(reports) == 1 {
			return writeJSON(w, reports[0])
		}
		return writeJSON(w, reports)
	case constants.OutputFormatMarkdown:
		_, err := io.WriteString(w, MarkdownMarketReports(reports))
		return err
	case constants.OutputFormatHTML:
		return writeHTML(w, "Market Report", MarkdownMarketReports(reports))
	default:
		return validation.ValidateOutputFormat(format)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return nil
}
