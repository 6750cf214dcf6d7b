package portfolio

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ukcgt/cgtcalc/util"
)

type PrintHelper struct {
	PrintAllDecimals bool
	// Group digits of share amounts in thousands.
	Humanize bool
}

func humanizeDecimalStr(val string, humanize bool) string {
	if !humanize {
		return val
	}
	negative := ""
	if strings.HasPrefix(val, "-") {
		negative, val = val[:1], val[1:]
	}
	before, after, found := strings.Cut(val, ".")
	suffix := ""
	if found {
		suffix = fmt.Sprintf(".%s", after)
	}
	if before == "" {
		before = "0"
	}
	i, err := strconv.ParseInt(before, 10, 64)
	if err != nil {
		panic(err)
	}
	p := message.NewPrinter(language.English)
	return p.Sprintf("%s%d%s", negative, i, suffix)
}

// AmountStr formats a share count.
func (h PrintHelper) AmountStr(val decimal.Decimal) string {
	return humanizeDecimalStr(val.String(), h.Humanize)
}

func (h PrintHelper) CurrStr(val decimal.Decimal) string {
	if h.PrintAllDecimals {
		return humanizeDecimalStr(val.String(), h.Humanize)
	}
	return humanizeDecimalStr(val.StringFixed(2), h.Humanize)
}

// PoundStr formats val as sterling. Unless all decimals are requested it is
// rounded to the penny and grouped in thousands.
func (h PrintHelper) PoundStr(val decimal.Decimal) string {
	if h.PrintAllDecimals {
		if val.IsNegative() {
			return "-£" + h.CurrStr(val.Neg())
		}
		return "£" + h.CurrStr(val)
	}
	pence := val.Shift(2).Round(0).IntPart()
	return money.New(pence, money.GBP).Display()
}

func (h PrintHelper) PlusMinusPound(val decimal.Decimal, showPlus bool) string {
	if val.IsPositive() && showPlus {
		return "+" + h.PoundStr(val)
	}
	return h.PoundStr(val)
}

func strOrDash(useStr bool, str string) string {
	if useStr {
		return str
	}
	return "-"
}

type RenderTable struct {
	Header []string
	Rows   [][]string
	Footer []string
	Notes  []string
	Errors []error
}

// RenderTaxYearSummaries generates one row per tax year, in the shape of the
// capital gains summary on a self assessment return.
func RenderTaxYearSummaries(summaries []*TaxYearSummary, ph PrintHelper) *RenderTable {
	table := &RenderTable{}
	table.Header = []string{"Tax Year", "Disposals", "Proceeds", "Allowable Costs",
		"Gains", "Losses", "Net Gain", "Exemption", "Loss Used", "Loss C/F",
		"Taxable Gain", "Basic Rate Tax", "Higher Rate Tax",
	}

	for _, s := range summaries {
		table.Rows = append(table.Rows, []string{
			s.TaxYear.String(),
			fmt.Sprintf("%d", len(s.DisposalResults)),
			ph.PoundStr(s.Proceeds),
			ph.PoundStr(s.AllowableCosts),
			fmt.Sprintf("%s (%d)", ph.PoundStr(s.TotalGains), s.NumberOfGains),
			fmt.Sprintf("%s (%d)", ph.PoundStr(s.TotalLosses), s.NumberOfLosses),
			ph.PlusMinusPound(s.Gain, false),
			ph.PoundStr(s.Exemption),
			strOrDash(s.CarryForwardLossUsed.IsPositive(), ph.PoundStr(s.CarryForwardLossUsed)),
			strOrDash(s.CarryForwardLossOut.IsPositive(), ph.PoundStr(s.CarryForwardLossOut)),
			ph.PoundStr(s.TaxableGain),
			ph.PoundStr(s.BasicRateTax),
			ph.PoundStr(s.HigherRateTax),
		})
		if p, ok := PostProcessorFor(s.TaxYear); ok {
			table.Notes = append(table.Notes,
				fmt.Sprintf(" %s: %s", s.TaxYear, p.ExtraTaxReturnInformation(s)))
		}
	}
	return table
}

func matchKindsStr(r *DisposalResult) string {
	var kinds []string
	for _, m := range r.DisposalMatches {
		kinds = append(kinds, m.Kind.String())
	}
	return strings.Join(kinds, "\n")
}

// RenderDisposalsTableModel lists every disposal of an asset with the rules
// it was matched under.
func RenderDisposalsTableModel(
	matches []*DisposalMatch, gains *CumulativeCapitalGains, ph PrintHelper) *RenderTable {
	table := &RenderTable{}
	table.Header = []string{"Asset", "Date", "Tax Year", "Amount", "Price", "Expenses",
		"Proceeds", "Allowable Costs", "Gain", "Matched With"}

	for _, r := range NewDisposalResults(matches) {
		tx := r.Disposal
		table.Rows = append(table.Rows, []string{
			tx.Asset, tx.Date.String(), r.DisposalMatches[0].TaxYear().String(),
			ph.AmountStr(tx.Amount),
			ph.PoundStr(tx.Price),
			strOrDash(!tx.Expenses.IsZero(), ph.PoundStr(tx.Expenses)),
			ph.PoundStr(r.Proceeds),
			ph.PoundStr(r.AllowableCosts),
			ph.PlusMinusPound(r.Gain, false),
			matchKindsStr(r),
		})
	}

	years := gains.CapitalGainsYearTotalsKeysSorted()
	yearStrs := []string{}
	yearValsStrs := []string{}
	for _, year := range years {
		yearStrs = append(yearStrs, year.String())
		yearValsStrs = append(yearValsStrs, ph.PlusMinusPound(gains.CapitalGainsYearTotals[year], false))
	}
	totalFooterLabel := "Total"
	totalFooterValsStr := ph.PlusMinusPound(gains.CapitalGainsTotal, false)
	if len(years) > 0 {
		totalFooterLabel += "\n" + strings.Join(yearStrs, "\n")
		totalFooterValsStr += "\n" + strings.Join(yearValsStrs, "\n")
	}
	table.Footer = []string{"", "", "", "", "", "", "", totalFooterLabel, totalFooterValsStr, ""}
	return table
}

// RenderAggregateCapitalGains generates a RenderTable that will render out to this:
//
//	| Tax Year         | Capital Gains |
//	+------------------+---------------+
//	| 2018/2019        | xxxx.xx       |
//	| 2019/2020        | xxxx.xx       |
//	| Since inception  | xxxx.xx       |
func RenderAggregateCapitalGains(
	gains *CumulativeCapitalGains, ph PrintHelper) *RenderTable {

	table := &RenderTable{}
	table.Header = []string{"Tax Year", "Capital Gains"}

	for _, year := range gains.CapitalGainsYearTotalsKeysSorted() {
		yearlyTotal := gains.CapitalGainsYearTotals[year]
		table.Rows = append(
			table.Rows,
			[]string{year.String(), ph.PlusMinusPound(yearlyTotal, false)})
	}
	table.Rows = append(
		table.Rows,
		[]string{"Since inception", ph.PlusMinusPound(gains.CapitalGainsTotal, false)})

	return table
}

// RenderHoldings shows what is left in each asset's Section 104 pool.
func RenderHoldings(results []*AssetResult, ph PrintHelper) *RenderTable {
	table := &RenderTable{}
	table.Header = []string{"Asset", "Holding", "Cost Basis", "Pool Cost"}

	for _, r := range results {
		held := r.Holding.IsPositive()
		table.Rows = append(table.Rows, []string{
			r.Asset,
			ph.AmountStr(r.Holding),
			strOrDash(held, util.Tern(ph.PrintAllDecimals,
				ph.PoundStr(r.CostBasis), "£"+r.CostBasis.Round(5).String())),
			strOrDash(held, ph.PoundStr(r.Holding.Mul(r.CostBasis))),
		})
	}
	return table
}
