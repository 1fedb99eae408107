package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/iwvelando/carescore/pkg/constants"
	"github.com/xeipuuv/gojsonschema"
)

// Document names an input document shape that can be schema-checked.
type Document string

// Input documents accepted by the CLI and the HTTP API.
const (
	DocumentFacility    Document = "facility"
	DocumentDeal        Document = "deal"
	DocumentMarket      Document = "market"
	DocumentMarketScore Document = "market score request"
	DocumentMarketBatch Document = "market batch request"
	DocumentDealBatch   Document = "deal batch request"
	DocumentLabor       Document = "labor data"
)

// ErrInvalidJSON is returned when a document is not parseable JSON.
var ErrInvalidJSON = errors.New("invalid JSON document")

// SchemaError lists every violation found in one document.
type SchemaError struct {
	Document   Document
	Violations []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s validation failed: %s", e.Document, strings.Join(e.Violations, "; "))
}

// Numeric fields accept a number, a numeric string or null.
func numericSchema() map[string]interface{} {
	return map[string]interface{}{"type": []interface{}{"number", "string", "null"}}
}

func nullable(kind string) map[string]interface{} {
	return map[string]interface{}{"type": []interface{}{kind, "null"}}
}

func object(properties map[string]interface{}, nullOK bool) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if nullOK {
		schema["type"] = []interface{}{"object", "null"}
	}
	return schema
}

func numericObject(nullOK bool, fields ...string) map[string]interface{} {
	properties := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		properties[f] = numericSchema()
	}
	return object(properties, nullOK)
}

func facilityProperties() map[string]interface{} {
	properties := map[string]interface{}{
		"id":            nullable("string"),
		"name":          nullable("string"),
		"city":          nullable("string"),
		"state":         nullable("string"),
		"facility_type": nullable("string"),
		"beds": map[string]interface{}{
			"type": []interface{}{"array", "null"},
			"items": object(map[string]interface{}{
				"type":  nullable("string"),
				"count": numericSchema(),
			}, false),
		},
		"pro_forma": map[string]interface{}{
			"type": []interface{}{"array", "null"},
			"items": object(map[string]interface{}{
				"year":      map[string]interface{}{"type": "integer"},
				"revenue":   numericSchema(),
				"ebitda":    numericSchema(),
				"ebitdar":   numericSchema(),
				"occupancy": numericSchema(),
			}, false),
		},
	}
	for _, f := range []string{
		"purchase_price", "t12m_revenue", "t12m_ebitda", "t12m_ebitdar",
		"t12m_ebit", "t12m_occupancy", "t12m_rent_expense",
	} {
		properties[f] = numericSchema()
	}
	return properties
}

func laborSchema() map[string]interface{} {
	return numericObject(true, "stateWage", "cbsaWageIndex", "healthcareUnemployment")
}

func marketSchema() map[string]interface{} {
	return object(map[string]interface{}{
		"id":    nullable("string"),
		"name":  nullable("string"),
		"state": nullable("string"),
		"supply": object(map[string]interface{}{
			"beds":                   numericObject(true, "total"),
			"capacity":               numericSchema(),
			"facilityCount":          numericSchema(),
			"avgOccupancy":           numericSchema(),
			"avgRating":              numericSchema(),
			"newFacilitiesSince2021": numericSchema(),
		}, true),
		"demographics": object(map[string]interface{}{
			"population":  numericObject(true, "age65Plus", "age85Plus"),
			"economics":   numericObject(true, "medianHouseholdIncome", "medianHomeValue", "povertyRate", "homeownershipRate"),
			"projections": numericObject(true, "growthRate65Plus", "growthRate85Plus"),
		}, true),
		"estimatedNeed": numericSchema(),
		"laborData":     laborSchema(),
		"snfQuality":    numericObject(true, "avgInspectionRating", "totalDeficiencies", "facilityCount", "specialFocusFacilityCount"),
	}, false)
}

func documentSchemas() map[Document]map[string]interface{} {
	deal := facilityProperties()
	deal["deal_name"] = nullable("string")
	deal["facilities"] = map[string]interface{}{
		"type":  []interface{}{"array", "null"},
		"items": object(facilityProperties(), false),
	}

	facilityType := map[string]interface{}{"type": "string", "minLength": 1}

	score := object(map[string]interface{}{
		"facilityType": facilityType,
		"market":       marketSchema(),
		"laborData":    laborSchema(),
	}, false)
	score["required"] = []interface{}{"facilityType", "market"}

	batch := object(map[string]interface{}{
		"facilityType": facilityType,
		"markets": map[string]interface{}{
			"type":     "array",
			"maxItems": constants.MaxBatchSize,
			"items":    marketSchema(),
		},
	}, false)
	batch["required"] = []interface{}{"facilityType", "markets"}

	dealBatch := object(map[string]interface{}{
		"deals": map[string]interface{}{
			"type":     "array",
			"maxItems": constants.MaxBatchSize,
			"items":    object(deal, false),
		},
	}, false)
	dealBatch["required"] = []interface{}{"deals"}

	labor := laborSchema()
	labor["type"] = "object"

	return map[Document]map[string]interface{}{
		DocumentFacility:    object(facilityProperties(), false),
		DocumentDeal:        object(deal, false),
		DocumentMarket:      marketSchema(),
		DocumentMarketScore: score,
		DocumentMarketBatch: batch,
		DocumentDealBatch:   dealBatch,
		DocumentLabor:       labor,
	}
}

var compiledSchemas = sync.OnceValues(func() (map[Document]*gojsonschema.Schema, error) {
	compiled := make(map[Document]*gojsonschema.Schema)
	for doc, schema := range documentSchemas() {
		s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
		if err != nil {
			return nil, fmt.Errorf("failed to compile %s schema: %w", doc, err)
		}
		compiled[doc] = s
	}
	return compiled, nil
})

// ValidateDocument checks data against the schema for doc. Every violation is
// collected into one *SchemaError.
func ValidateDocument(doc Document, data []byte) error {
	schemas, err := compiledSchemas()
	if err != nil {
		return err
	}
	schema, ok := schemas[doc]
	if !ok {
		return fmt.Errorf("unknown document type %q", doc)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if !result.Valid() {
		violations := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			violations[i] = desc.String()
		}
		return &SchemaError{Document: doc, Violations: violations}
	}
	return nil
}
