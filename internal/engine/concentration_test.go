package engine

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/fundengine/internal/domain"
)

func investment(name, sector, geo, invested string) *domain.PortfolioInvestment {
	return &domain.PortfolioInvestment{
		ID:            "inv-" + name,
		FundID:        "fund-1",
		CompanyName:   name,
		Sector:        sector,
		Geography:     geo,
		Status:        domain.InvestmentStatusActive,
		TotalInvested: dec(invested),
	}
}

func hasNote(notes []string, prefix string) bool {
	for _, n := range notes {
		if strings.HasPrefix(n, prefix) {
			return true
		}
	}
	return false
}

func TestScoreConcentration_ThreeInvestments(t *testing.T) {
	report := ScoreConcentration("fund-1", []*domain.PortfolioInvestment{
		investment("Acme", "Software", "US", "500000"),
		investment("Globex", "Healthcare", "EU", "300000"),
		investment("Initech", "Fintech", "US", "200000"),
	}, DefaultConcentrationPolicy())

	assert.Equal(t, 3, report.InvestmentCount)
	assert.True(t, report.TotalInvested.Equal(dec("1000000")))
	assert.InDelta(t, 50.0, report.LargestInvestmentPercent, 1e-9)
	assert.InDelta(t, 100.0, report.Top5InvestmentsPercent, 1e-9)
	assert.InDelta(t, 0.38, report.HerfindahlIndex, 1e-9)

	assert.True(t, hasNote(report.Notes, "Single investment concentration: Acme"), "notes: %v", report.Notes)
	assert.True(t, hasNote(report.Notes, "Sector concentration: Software"), "notes: %v", report.Notes)
	assert.True(t, hasNote(report.Notes, "Low diversification"), "notes: %v", report.Notes)

	require.Len(t, report.ByGeography, 2)
	assert.Equal(t, "US", report.ByGeography[0].Name)
	assert.InDelta(t, 70.0, report.ByGeography[0].Percent, 1e-9)
	assert.Equal(t, 2, report.ByGeography[0].Count)

	// (1-0.38)*60 + (3/8)*25 + (1-0.5)*15
	assert.InDelta(t, 37.2+9.375+7.5, report.DiversificationScore, 1e-9)
}

func TestScoreConcentration_WellDiversified(t *testing.T) {
	sectors := []string{"Software", "Healthcare", "Fintech", "Energy", "Retail"}
	var investments []*domain.PortfolioInvestment
	for i := 0; i < 10; i++ {
		investments = append(investments, investment(fmt.Sprintf("Co%d", i), sectors[i%len(sectors)], "US", "100000"))
	}

	report := ScoreConcentration("fund-1", investments, DefaultConcentrationPolicy())

	assert.Empty(t, report.Notes)
	assert.InDelta(t, 10.0, report.LargestInvestmentPercent, 1e-9)
	assert.InDelta(t, 50.0, report.Top5InvestmentsPercent, 1e-9)
	assert.InDelta(t, 0.1, report.HerfindahlIndex, 1e-9)
	assert.InDelta(t, 54+25+13.5, report.DiversificationScore, 1e-9)
	require.Len(t, report.BySector, 5)
	for _, g := range report.BySector {
		assert.InDelta(t, 20.0, g.Percent, 1e-9)
	}
}

func TestScoreConcentration_Empty(t *testing.T) {
	report := ScoreConcentration("fund-1", nil, ConcentrationPolicy{})

	assert.Equal(t, 0, report.InvestmentCount)
	assert.Equal(t, 0.0, report.DiversificationScore)
	assert.Empty(t, report.BySector)
	assert.True(t, hasNote(report.Notes, "Low diversification: 0 investments"))
}

func TestScoreConcentration_CustomPolicy(t *testing.T) {
	report := ScoreConcentration("fund-1", []*domain.PortfolioInvestment{
		investment("A", "Software", "US", "600"),
		investment("B", "Healthcare", "US", "400"),
	}, ConcentrationPolicy{MinInvestments: 2, MaxSinglePercent: 70, MaxSectorPercent: 70})

	assert.Empty(t, report.Notes)
}

func TestScoreConcentration_IgnoresUninvested(t *testing.T) {
	report := ScoreConcentration("fund-1", []*domain.PortfolioInvestment{
		investment("A", "Software", "US", "100"),
		investment("Pipeline", "Software", "US", "0"),
	}, DefaultConcentrationPolicy())

	assert.Equal(t, 1, report.InvestmentCount)
	assert.InDelta(t, 100.0, report.LargestInvestmentPercent, 1e-9)
}
