package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/iho/fundengine/internal/domain"
)

func TestWriteLPWorkbook(t *testing.T) {
	fund := &domain.Fund{
		ID:         "fund-1",
		Name:       "Growth Fund I",
		Currency:   "USD",
		TargetSize: decimal.NewFromInt(10_000_000),
		HardCap:    decimal.NewFromInt(12_000_000),
	}
	commitments := []*domain.LPCommitment{
		{
			ID:                 "c1",
			InvestorID:         "inv-1",
			InvestorName:       "Pension Plan A",
			Currency:           "USD",
			CommitmentAmount:   decimal.NewFromInt(6_000_000),
			CapitalCalled:      decimal.NewFromInt(1_200_000),
			UnfundedCommitment: decimal.NewFromInt(4_800_000),
			OwnershipPercent:   decimal.NewFromInt(60),
			Status:             domain.CommitmentStatusActive,
		},
		{
			ID:                 "c2",
			InvestorID:         "inv-2",
			InvestorName:       "Endowment B",
			Currency:           "USD",
			CommitmentAmount:   decimal.NewFromInt(4_000_000),
			CapitalCalled:      decimal.NewFromInt(800_000),
			UnfundedCommitment: decimal.NewFromInt(3_200_000),
			OwnershipPercent:   decimal.NewFromInt(40),
			Status:             domain.CommitmentStatusActive,
		},
	}
	metrics := &domain.FundMetrics{
		FundID:        "fund-1",
		CapitalCalled: decimal.NewFromInt(2_000_000),
		TVPI:          1.25,
		CalculatedAt:  time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteLPWorkbook(&buf, LPReport{Fund: fund, Commitments: commitments, Metrics: metrics}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetLPs)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Investor", rows[0][0])
	assert.Equal(t, "Pension Plan A", rows[1][0])
	assert.Equal(t, "Endowment B", rows[2][0])
	assert.Equal(t, "6000000", rows[1][3])
	assert.Equal(t, "40", rows[2][8])

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fund", "Growth Fund I"}, summary[1])

	var tvpi string
	for _, row := range summary {
		if len(row) == 2 && row[0] == "TVPI" {
			tvpi = row[1]
		}
	}
	assert.Equal(t, "1.25", tvpi)
}

func TestWriteLPWorkbook_NoFund(t *testing.T) {
	var buf bytes.Buffer
	err := WriteLPWorkbook(&buf, LPReport{})
	assert.ErrorIs(t, err, domain.ErrFundNotFound)
	assert.Zero(t, buf.Len())
}

func TestWriteLPWorkbook_WithoutMetrics(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLPWorkbook(&buf, LPReport{Fund: &domain.Fund{Name: "Empty Fund", Currency: "EUR"}}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetLPs)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	assert.Len(t, summary, 6)
}
