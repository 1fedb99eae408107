package benchmarks

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestDefaultReturnsFreshMaps(t *testing.T) {
	a := Default()
	a.Deal.StateRiskAdjustments["ID"] = 0.5
	a.Market.GradeScale[0].Letter = "Z"

	b := Default()
	assert.Equal(t, 0.0, b.Deal.StateRiskAdjustments["ID"])
	assert.Equal(t, "A+", b.Market.GradeScale[0].Letter)
}

func TestStateRiskAdjustment(t *testing.T) {
	d := DefaultDeal()

	tests := []struct {
		name     string
		state    string
		expected float64
	}{
		{"Listed state", "OR", 0.005},
		{"Lower case state", "or", 0.005},
		{"Padded state", " WA ", 0.0025},
		{"Unlisted state uses default", "VT", 0.01},
		{"Empty state uses default", "", 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, d.StateRiskAdjustment(tt.state))
		})
	}
}

func TestReimbursementFor(t *testing.T) {
	d := DefaultDeal()

	rates, ok := d.ReimbursementFor("ID")
	assert.True(t, ok)
	assert.Equal(t, ReimbursementRates{Medicare: 520, Medicaid: 265}, rates)

	rates, ok = d.ReimbursementFor("ZZ")
	assert.False(t, ok)
	assert.Equal(t, ReimbursementRates{Medicare: 400, Medicaid: 250}, rates)
}

func TestNormalizePrefersLowerCaseOverrides(t *testing.T) {
	b := Default()
	b.Deal.StateRiskAdjustments["id"] = 0.02
	b.Deal.Reimbursement["wa"] = ReimbursementRates{Medicare: 1, Medicaid: 2}

	b.Normalize()

	assert.Equal(t, 0.02, b.Deal.StateRiskAdjustments["ID"])
	_, lower := b.Deal.StateRiskAdjustments["id"]
	assert.False(t, lower)
	assert.Equal(t, ReimbursementRates{Medicare: 1, Medicaid: 2}, b.Deal.Reimbursement["WA"])
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(b *Benchmarks)
		wantErr string
	}{
		{
			name:    "grade weights off",
			mutate:  func(b *Benchmarks) { b.Market.GradeWeights.Standard.Demand = 0.5 },
			wantErr: "market.gradeWeights.standard should sum to 1",
		},
		{
			name:    "zero national bed rate",
			mutate:  func(b *Benchmarks) { b.Market.Competition.NationalBedsPerThousand65 = 0 },
			wantErr: "nationalBedsPerThousand65 must be > 0",
		},
		{
			name:    "grade scale not descending",
			mutate:  func(b *Benchmarks) { b.Market.GradeScale[1].Min = 99 },
			wantErr: "strictly descending",
		},
		{
			name:    "occupancy given as percent",
			mutate:  func(b *Benchmarks) { b.Deal.TargetOccupancy = 85 },
			wantErr: "must be fractions",
		},
		{
			name:    "high risk occupancy given as percent",
			mutate:  func(b *Benchmarks) { b.Deal.HighRiskOccupancy = 75 },
			wantErr: "must be fractions",
		},
		{
			name:    "position thresholds inverted",
			mutate:  func(b *Benchmarks) { b.Deal.ModeratePositionOccupancy = 0.95 },
			wantErr: "deal.moderatePositionOccupancy must be in (0, strongPositionOccupancy]",
		},
		{
			name:    "zero cost of capital",
			mutate:  func(b *Benchmarks) { b.Deal.CostOfCapital = 0 },
			wantErr: "deal.costOfCapital must be > 0",
		},
		{
			name:    "standard weights with quality",
			mutate:  func(b *Benchmarks) { b.Market.GradeWeights.Standard.Quality = 0.1; b.Market.GradeWeights.Standard.Demand = 0.1 },
			wantErr: "standard.quality must be 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Default()
			tt.mutate(&b)
			err := b.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadOverridesAndKeepsDefaults(t *testing.T) {
	input := `
deal:
  defaultCapRate: 0.11
  stateRiskAdjustments:
    vt: 0.02
market:
  labor:
    nationalCnaWage: 20
`
	b, err := Load(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 0.11, b.Deal.DefaultCapRate)
	assert.Equal(t, 0.02, b.Deal.StateRiskAdjustment("VT"))
	assert.Equal(t, 0.005, b.Deal.StateRiskAdjustment("OR"))
	assert.Equal(t, 20.0, b.Market.Labor.NationalCNAWage)
	assert.Equal(t, 17.4, b.Market.Competition.NationalBedsPerThousand65)
}

func TestLoadDealLevelRiskToggle(t *testing.T) {
	assert.True(t, Default().Deal.DealLevelRisk)

	b, err := Load(strings.NewReader("deal:\n  dealLevelRisk: false\n  highRiskOccupancy: 0.7\n"))
	require.NoError(t, err)
	assert.False(t, b.Deal.DealLevelRisk)
	assert.Equal(t, 0.7, b.Deal.HighRiskOccupancy)
	assert.Equal(t, 0.75, b.Deal.DefaultOccupancy)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	_, err := Load(strings.NewReader("deal:\n  capRateTypo: 0.1\n"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidSet(t *testing.T) {
	_, err := Load(strings.NewReader("market:\n  growth:\n    growth65Weight: 0.9\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "market.growth weights")
}

func TestLoadFileAndWriteYAMLRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Default().WriteYAML(&buf))

	path := filepath.Join(t.TempDir(), "benchmarks.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))

	b, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), b)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
