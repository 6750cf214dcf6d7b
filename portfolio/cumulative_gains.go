package portfolio

import (
	"github.com/shopspring/decimal"

	"github.com/ukcgt/cgtcalc/taxyear"
	"github.com/ukcgt/cgtcalc/util"
)

// CumulativeCapitalGains is the rounded gain total for one asset, or for the
// whole portfolio, overall and per tax year.
type CumulativeCapitalGains struct {
	CapitalGainsTotal      decimal.Decimal
	CapitalGainsYearTotals map[taxyear.TaxYear]decimal.Decimal
	ProceedsTotal          decimal.Decimal
	ProceedsByYear         map[taxyear.TaxYear]decimal.Decimal
}

func newCumulativeCapitalGains() *CumulativeCapitalGains {
	return &CumulativeCapitalGains{
		CapitalGainsTotal:      decimal.Zero,
		CapitalGainsYearTotals: map[taxyear.TaxYear]decimal.Decimal{},
		ProceedsTotal:          decimal.Zero,
		ProceedsByYear:         map[taxyear.TaxYear]decimal.Decimal{},
	}
}

func (g *CumulativeCapitalGains) CapitalGainsYearTotalsKeysSorted() []taxyear.TaxYear {
	return util.SortedKeys(g.CapitalGainsYearTotals)
}

func (g *CumulativeCapitalGains) add(ty taxyear.TaxYear, gain, proceeds decimal.Decimal) {
	g.CapitalGainsTotal = g.CapitalGainsTotal.Add(gain)
	g.CapitalGainsYearTotals[ty] = g.CapitalGainsYearTotals[ty].Add(gain)
	g.ProceedsTotal = g.ProceedsTotal.Add(proceeds)
	g.ProceedsByYear[ty] = g.ProceedsByYear[ty].Add(proceeds)
}

// CalcAssetCumulativeCapitalGains totals an asset's matches, rounding per
// disposal as the tax year summaries do.
func CalcAssetCumulativeCapitalGains(matches []*DisposalMatch) *CumulativeCapitalGains {
	cc := newCumulativeCapitalGains()
	for _, r := range NewDisposalResults(matches) {
		cc.add(taxyear.Containing(r.Disposal.Date), r.Gain, r.Proceeds)
	}
	return cc
}

func CalcCumulativeCapitalGains(assetGains map[string]*CumulativeCapitalGains) *CumulativeCapitalGains {
	cc := newCumulativeCapitalGains()
	for _, gains := range assetGains {
		for ty, gain := range gains.CapitalGainsYearTotals {
			cc.add(ty, gain, gains.ProceedsByYear[ty])
		}
	}
	return cc
}
