package engine

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"

	"github.com/iho/fundengine/internal/domain"
)

// ConcentrationPolicy holds the thresholds that trigger diversification notes.
type ConcentrationPolicy struct {
	MinInvestments   int
	MaxSinglePercent float64
	MaxSectorPercent float64
}

// DefaultConcentrationPolicy returns the standard thresholds.
func DefaultConcentrationPolicy() ConcentrationPolicy {
	return ConcentrationPolicy{
		MinInvestments:   8,
		MaxSinglePercent: 20,
		MaxSectorPercent: 40,
	}
}

func (p ConcentrationPolicy) withDefaults() ConcentrationPolicy {
	d := DefaultConcentrationPolicy()
	if p.MinInvestments <= 0 {
		p.MinInvestments = d.MinInvestments
	}
	if p.MaxSinglePercent <= 0 {
		p.MaxSinglePercent = d.MaxSinglePercent
	}
	if p.MaxSectorPercent <= 0 {
		p.MaxSectorPercent = d.MaxSectorPercent
	}
	return p
}

// Score weights. They add up to 100.
const (
	herfindahlWeight = 60.0
	countWeight      = 25.0
	largestWeight    = 15.0
)

// ScoreConcentration measures how concentrated a portfolio is. Investments
// with nothing invested are ignored.
func ScoreConcentration(fundID string, investments []*domain.PortfolioInvestment, policy ConcentrationPolicy) *domain.ConcentrationReport {
	policy = policy.withDefaults()

	held := make([]*domain.PortfolioInvestment, 0, len(investments))
	for _, inv := range investments {
		if inv.TotalInvested.IsPositive() {
			held = append(held, inv)
		}
	}

	report := &domain.ConcentrationReport{
		FundID:          fundID,
		InvestmentCount: len(held),
		TotalInvested:   decimal.Zero,
		BySector:        []domain.ConcentrationGroup{},
		ByGeography:     []domain.ConcentrationGroup{},
		Notes:           []string{},
	}
	for _, inv := range held {
		report.TotalInvested = report.TotalInvested.Add(inv.TotalInvested)
	}

	if len(held) > 0 {
		shares := make([]float64, len(held))
		for i, inv := range held {
			shares[i] = Ratio(inv.TotalInvested, report.TotalInvested)
		}
		slices.SortFunc(shares, func(a, b float64) int { return cmp.Compare(b, a) })

		top := shares[:min(5, len(shares))]
		report.LargestInvestmentPercent = shares[0] * 100
		report.Top5InvestmentsPercent = floats.Sum(top) * 100
		report.HerfindahlIndex = floats.Dot(shares, shares)

		report.BySector = groupBy(held, report.TotalInvested, func(p *domain.PortfolioInvestment) string { return p.Sector })
		report.ByGeography = groupBy(held, report.TotalInvested, func(p *domain.PortfolioInvestment) string { return p.Geography })
	}

	report.DiversificationScore = diversificationScore(report, policy)
	report.Notes = concentrationNotes(report, held, policy)

	return report
}

func diversificationScore(r *domain.ConcentrationReport, p ConcentrationPolicy) float64 {
	if r.InvestmentCount == 0 {
		return 0
	}
	countFactor := min(1, float64(r.InvestmentCount)/float64(p.MinInvestments))
	score := (1-r.HerfindahlIndex)*herfindahlWeight +
		countFactor*countWeight +
		(1-r.LargestInvestmentPercent/100)*largestWeight
	return max(0, min(100, score))
}

func concentrationNotes(r *domain.ConcentrationReport, held []*domain.PortfolioInvestment, p ConcentrationPolicy) []string {
	notes := []string{}

	if r.LargestInvestmentPercent > p.MaxSinglePercent {
		largest := slices.MaxFunc(held, func(a, b *domain.PortfolioInvestment) int {
			return a.TotalInvested.Cmp(b.TotalInvested)
		})
		notes = append(notes, fmt.Sprintf(
			"Single investment concentration: %s is %.1f%% of invested capital (threshold %.0f%%)",
			largest.CompanyName, r.LargestInvestmentPercent, p.MaxSinglePercent))
	}

	for _, g := range r.BySector {
		if g.Percent > p.MaxSectorPercent {
			notes = append(notes, fmt.Sprintf(
				"Sector concentration: %s is %.1f%% of invested capital (threshold %.0f%%)",
				g.Name, g.Percent, p.MaxSectorPercent))
		}
	}

	if r.InvestmentCount < p.MinInvestments {
		notes = append(notes, fmt.Sprintf(
			"Low diversification: %d investments held, minimum recommended is %d",
			r.InvestmentCount, p.MinInvestments))
	}

	return notes
}

// groupBy buckets investments by key, largest group first.
func groupBy(held []*domain.PortfolioInvestment, total decimal.Decimal, key func(*domain.PortfolioInvestment) string) []domain.ConcentrationGroup {
	index := map[string]int{}
	groups := []domain.ConcentrationGroup{}

	for _, inv := range held {
		name := key(inv)
		if name == "" {
			name = "Unclassified"
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, domain.ConcentrationGroup{Name: name, Invested: decimal.Zero})
		}
		groups[i].Invested = groups[i].Invested.Add(inv.TotalInvested)
		groups[i].Count++
	}

	for i := range groups {
		groups[i].Percent = Ratio(groups[i].Invested, total) * 100
	}

	slices.SortFunc(groups, func(a, b domain.ConcentrationGroup) int {
		if c := b.Invested.Cmp(a.Invested); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})

	return groups
}
