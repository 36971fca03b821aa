package domain

import "github.com/shopspring/decimal"

// ConcentrationGroup is the invested amount in one sector or geography.
type ConcentrationGroup struct {
	Name     string          `json:"name"`
	Invested decimal.Decimal `json:"invested"`
	Percent  float64         `json:"percent"`
	Count    int             `json:"count"`
}

// ConcentrationReport summarises how concentrated a portfolio is.
type ConcentrationReport struct {
	FundID                   string               `json:"fund_id"`
	InvestmentCount          int                  `json:"investment_count"`
	TotalInvested            decimal.Decimal      `json:"total_invested"`
	BySector                 []ConcentrationGroup `json:"by_sector"`
	ByGeography              []ConcentrationGroup `json:"by_geography"`
	LargestInvestmentPercent float64              `json:"largest_investment_percent"`
	Top5InvestmentsPercent   float64              `json:"top5_investments_percent"`
	HerfindahlIndex          float64              `json:"herfindahl_index"`
	DiversificationScore     float64              `json:"diversification_score"`
	Notes                    []string             `json:"notes"`
}
