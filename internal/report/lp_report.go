// Package report renders fund records into spreadsheet reports.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/iho/fundengine/internal/domain"
)

const (
	SheetLPs     = "LP Capital Accounts"
	SheetSummary = "Fund Summary"
)

var lpHeaders = []string{
	"Investor",
	"Investor ID",
	"Currency",
	"Commitment",
	"Capital Called",
	"Unfunded",
	"Called %",
	"Distributions Received",
	"Ownership %",
	"Status",
}

// LPReport is the data an LP capital-account workbook is built from.
type LPReport struct {
	Fund        *domain.Fund
	Commitments []*domain.LPCommitment
	Metrics     *domain.FundMetrics
}

// WriteLPWorkbook writes an xlsx workbook with one row per LP commitment and
// a summary sheet with the fund's metrics.
func WriteLPWorkbook(w io.Writer, r LPReport) error {
	if r.Fund == nil {
		return domain.ErrFundNotFound
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetLPs); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	for i, h := range lpHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetLPs, cell, h); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(lpHeaders), 1)
	if err := f.SetCellStyle(SheetLPs, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, c := range r.Commitments {
		row := []any{
			c.InvestorName,
			c.InvestorID,
			c.Currency,
			c.CommitmentAmount.InexactFloat64(),
			c.CapitalCalled.InexactFloat64(),
			c.UnfundedCommitment.InexactFloat64(),
			c.CapitalCalledPercent.Round(2).InexactFloat64(),
			c.DistributionsReceived.InexactFloat64(),
			c.OwnershipPercent.Round(4).InexactFloat64(),
			string(c.Status),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetLPs, cell, &row); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		return err
	}
	if err := writeSummary(f, r, headerStyle); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

func writeSummary(f *excelize.File, r LPReport, headerStyle int) error {
	rows := [][]any{
		{"Fund", r.Fund.Name},
		{"Currency", r.Fund.Currency},
		{"Target Size", r.Fund.TargetSize.InexactFloat64()},
		{"Hard Cap", r.Fund.HardCap.InexactFloat64()},
		{"LPs", len(r.Commitments)},
	}

	if m := r.Metrics; m != nil {
		rows = append(rows,
			[]any{"Total Commitments", m.TotalCommitments.InexactFloat64()},
			[]any{"Capital Called", m.CapitalCalled.InexactFloat64()},
			[]any{"Unfunded", m.UnfundedCommitments.InexactFloat64()},
			[]any{"Distributions Paid", m.DistributionsPaid.InexactFloat64()},
			[]any{"Unrealized Value", m.UnrealizedValue.InexactFloat64()},
			[]any{"DPI", m.DPI},
			[]any{"RVPI", m.RVPI},
			[]any{"TVPI", m.TVPI},
			[]any{"MOIC", m.MOIC},
			[]any{"IRR (approx.)", fmt.Sprintf("%.2f%%", m.IRR*100)},
			[]any{"Calculated At", m.CalculatedAt.Format("2006-01-02 15:04 MST")},
		)
	}

	if err := f.SetCellValue(SheetSummary, "A1", "Metric"); err != nil {
		return err
	}
	if err := f.SetCellValue(SheetSummary, "B1", "Value"); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetSummary, "A1", "B1", headerStyle); err != nil {
		return err
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetSummary, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
