package testutil

import (
	"testing"

	"github.com/iwvelando/carescore/internal/deal"
	"github.com/iwvelando/carescore/internal/market"
)

func TestFindReport(t *testing.T) {
	reports := []market.Report{
		{MarketID: "boise-id", Grade: market.Grade{Letter: "B-"}},
		{MarketID: "reno-nv", Grade: market.Grade{Letter: "C"}},
	}

	tests := []struct {
		name        string
		searchID    string
		expectFound bool
		expectGrade string
	}{
		{
			name:        "Find first report",
			searchID:    "boise-id",
			expectFound: true,
			expectGrade: "B-",
		},
		{
			name:        "Find second report",
			searchID:    "reno-nv",
			expectFound: true,
			expectGrade: "C",
		},
		{
			name:        "Missing report",
			searchID:    "tulsa-ok",
			expectFound: false,
		},
		{
			name:        "Empty ID",
			searchID:    "",
			expectFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FindReport(reports, tt.searchID)
			if !tt.expectFound {
				if result != nil {
					t.Errorf("FindReport() = %v, want nil", result.MarketID)
				}
				return
			}
			if result == nil {
				t.Fatalf("FindReport() returned nil, want %s", tt.searchID)
			}
			if result.Grade.Letter != tt.expectGrade {
				t.Errorf("FindReport() grade = %s, want %s", result.Grade.Letter, tt.expectGrade)
			}
		})
	}
}

func TestFindReportReturnsSliceElement(t *testing.T) {
	reports := []market.Report{{MarketID: "a"}}
	FindReport(reports, "a").MarketName = "changed"
	if reports[0].MarketName != "changed" {
		t.Errorf("FindReport() should point into the slice")
	}
}

func TestFindFacility(t *testing.T) {
	ev := deal.Evaluation{Facilities: []deal.NormalizedFacility{{ID: "fac-1"}, {ID: "fac-2", Name: "Two"}}}

	if f := FindFacility(ev, "fac-2"); f == nil || f.Name != "Two" {
		t.Errorf("FindFacility() = %v, want fac-2", f)
	}
	if f := FindFacility(ev, "fac-9"); f != nil {
		t.Errorf("FindFacility() = %v, want nil", f)
	}
}

func TestFixturesAreDistinct(t *testing.T) {
	if StrongFacility().ID == LossMakingFacility().ID {
		t.Errorf("fixture facilities share an ID")
	}
	if ScenarioMarket().Empty() {
		t.Errorf("ScenarioMarket() should carry data")
	}
}
