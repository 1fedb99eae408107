// Package testutil provides common fixtures and lookup helpers for testing.
package testutil

import (
	"github.com/iwvelando/carescore/internal/deal"
	"github.com/iwvelando/carescore/internal/market"
	"github.com/iwvelando/carescore/pkg/numeric"
)

// FindReport finds a market report by market ID in the reports slice.
// Returns a pointer to the report if found, nil otherwise.
func FindReport(reports []market.Report, id string) *market.Report {
	for i := range reports {
		if reports[i].MarketID == id {
			return &reports[i]
		}
	}
	return nil
}

// FindFacility finds a normalized facility by ID in an evaluation.
func FindFacility(ev deal.Evaluation, id string) *deal.NormalizedFacility {
	for i := range ev.Facilities {
		if ev.Facilities[i].ID == id {
			return &ev.Facilities[i]
		}
	}
	return nil
}

// StrongFacility is a 100-bed Idaho facility that clears every operator
// target: 14% cap rate, 90% occupancy, 2.5x coverage.
func StrongFacility() deal.RawFacility {
	return deal.RawFacility{
		ID:    "fac-1",
		Name:  "Boise Post Acute",
		City:  "Boise",
		State: "ID",
		Beds: []deal.BedType{
			{Type: "SNF", Count: numeric.Of(80)},
			{Type: "ALF", Count: numeric.Of(20)},
		},
		PurchasePrice: numeric.Of(10000000),
		T12MRevenue:   numeric.Of(10000000),
		T12MEBITDA:    numeric.Of(1400000),
		T12MEBITDAR:   numeric.Of(2500000),
		T12MEBIT:      numeric.Of(1100000),
		T12MOccupancy: numeric.Of(0.9),
		ProForma: []deal.ProFormaYear{
			{Year: 1, Revenue: numeric.Of(10500000), EBITDA: numeric.Of(1500000)},
			{Year: 2, Revenue: numeric.Of(11000000), EBITDA: numeric.Of(1650000)},
		},
	}
}

// LossMakingFacility loses money at low occupancy in a high-risk state.
func LossMakingFacility() deal.RawFacility {
	return deal.RawFacility{
		ID:            "fac-2",
		Name:          "Springfield Care Center",
		City:          "Springfield",
		State:         "IL",
		Beds:          []deal.BedType{{Type: "SNF", Count: numeric.Of(120)}},
		PurchasePrice: numeric.Of(12000000),
		T12MRevenue:   numeric.Of(9000000),
		T12MEBITDA:    numeric.Of(-200000),
		T12MOccupancy: numeric.Of(68),
	}
}

// ScenarioMarket is a mid-sized SNF market with 500 beds for 40,000 seniors.
func ScenarioMarket() market.Data {
	return market.Data{
		ID:    "boise-id",
		Name:  "Boise, ID",
		State: "ID",
		Supply: market.Supply{
			Beds:          market.BedSupply{Total: numeric.Of(500)},
			FacilityCount: numeric.Of(10),
			AvgOccupancy:  numeric.Of(82),
			AvgRating:     numeric.Of(3.5),
		},
		Demographics: market.Demographics{
			Population: market.Population{Age65Plus: numeric.Of(40000), Age85Plus: numeric.Of(6000)},
			Economics: market.Economics{
				MedianHouseholdIncome: numeric.Of(75000),
				MedianHomeValue:       numeric.Of(280000),
				PovertyRate:           numeric.Of(10),
				HomeownershipRate:     numeric.Of(68),
			},
			Projections: market.Projections{GrowthRate65Plus: numeric.Of(18), GrowthRate85Plus: numeric.Of(22)},
		},
	}
}
