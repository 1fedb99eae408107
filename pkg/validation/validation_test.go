package validation

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsStateCode(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"ID", true},
		{"or", true},
		{" tx ", true},
		{"DC", true},
		{"PR", true},
		{"ZZ", false},
		{"", false},
		{"IDA", false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.input), func(t *testing.T) {
			assert.Equal(t, tt.want, IsStateCode(tt.input))
		})
	}
}

func TestValidateDocumentAccepts(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		data string
	}{
		{
			name: "single facility deal with string numerics",
			doc:  DocumentDeal,
			data: `{"deal_name":"Alpha","state":"ID","beds":[{"type":"SNF","count":"100"}],
				"purchase_price":"$10,000,000","t12m_revenue":10000000,"t12m_ebitda":null,
				"pro_forma":[{"year":1,"revenue":"11000000"}]}`,
		},
		{
			name: "multi facility deal",
			doc:  DocumentDeal,
			data: `{"deal_name":"Portfolio","facilities":[{"name":"A"},{"name":"B","t12m_occupancy":"0.91"}]}`,
		},
		{
			name: "facility",
			doc:  DocumentFacility,
			data: `{"name":"A","t12m_ebitda":-50000}`,
		},
		{
			name: "market score request",
			doc:  DocumentMarketScore,
			data: `{"facilityType":"snf","market":{"supply":{"beds":{"total":500}},
				"demographics":{"population":{"age65Plus":"40,000"}}},"laborData":null}`,
		},
		{
			name: "market batch",
			doc:  DocumentMarketBatch,
			data: `{"facilityType":"ALF","markets":[{"supply":{"capacity":300}},{"estimatedNeed":"1000"}]}`,
		},
		{
			name: "deal batch",
			doc:  DocumentDealBatch,
			data: `{"deals":[{"deal_name":"A","t12m_ebitda":"1,000"},{"facilities":[]}]}`,
		},
		{
			name: "labor data",
			doc:  DocumentLabor,
			data: `{"stateWage":"19.5","cbsaWageIndex":0.95}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, ValidateDocument(tt.doc, []byte(tt.data)))
		})
	}
}

func TestValidateDocumentRejects(t *testing.T) {
	tests := []struct {
		name    string
		doc     Document
		data    string
		wantSub string
	}{
		{
			name:    "boolean numeric",
			doc:     DocumentDeal,
			data:    `{"purchase_price":true}`,
			wantSub: "purchase_price",
		},
		{
			name:    "facilities not an array",
			doc:     DocumentDeal,
			data:    `{"facilities":{"name":"A"}}`,
			wantSub: "facilities",
		},
		{
			name:    "fractional pro forma year",
			doc:     DocumentFacility,
			data:    `{"pro_forma":[{"year":1.5}]}`,
			wantSub: "year",
		},
		{
			name:    "missing facility type",
			doc:     DocumentMarketScore,
			data:    `{"market":{}}`,
			wantSub: "facilityType",
		},
		{
			name:    "missing markets",
			doc:     DocumentMarketBatch,
			data:    `{"facilityType":"SNF"}`,
			wantSub: "markets",
		},
		{
			name:    "deal batch item not an object",
			doc:     DocumentDealBatch,
			data:    `{"deals":["Alpha"]}`,
			wantSub: "deals.0",
		},
		{
			name:    "array document",
			doc:     DocumentMarket,
			data:    `[]`,
			wantSub: "object",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.doc, []byte(tt.data))
			require.Error(t, err)

			var schemaErr *SchemaError
			require.True(t, errors.As(err, &schemaErr))
			assert.Equal(t, tt.doc, schemaErr.Document)
			assert.NotEmpty(t, schemaErr.Violations)
			assert.Contains(t, err.Error(), tt.wantSub)
		})
	}
}

func TestValidateDocumentCollectsAllViolations(t *testing.T) {
	err := ValidateDocument(DocumentFacility, []byte(`{"name":5,"beds":"many","t12m_revenue":{}}`))

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Len(t, schemaErr.Violations, 3)
}

func TestValidateDocumentBatchLimit(t *testing.T) {
	markets := strings.TrimSuffix(strings.Repeat("{},", 1001), ",")
	err := ValidateDocument(DocumentMarketBatch, []byte(`{"facilityType":"SNF","markets":[`+markets+`]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "markets")
}

func TestValidateDocumentInvalidJSON(t *testing.T) {
	err := ValidateDocument(DocumentDeal, []byte(`{"deal_name":`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidJSON))
}

func TestValidateDocumentUnknown(t *testing.T) {
	assert.Error(t, ValidateDocument(Document("spreadsheet"), []byte(`{}`)))
}
