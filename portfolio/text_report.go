package portfolio

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

func poundsStr(v decimal.Decimal) string {
	if v.IsNegative() {
		return "-£" + v.Neg().Round(2).String()
	}
	return "£" + v.Round(2).String()
}

func costBasisStr(v decimal.Decimal) string { return "£" + v.Round(5).String() }

// RenderTextReport renders the result as a plain text report: a summary line
// per tax year followed by every disposal and how it was matched.
func RenderTextReport(result *CalculatorResult) (string, error) {
	var summary, details strings.Builder
	for _, s := range result.TaxYearSummaries {
		rates, ok := s.TaxYear.Rates()
		if !ok {
			return "", internalErrorf("missing tax year rates for %s", s.TaxYear)
		}
		fmt.Fprintf(&summary,
			"Year %s: Gain = %s, Proceeds = %s, Exemption = %s, Loss carry = %s, Taxable gain = %s, "+
				"Tax (basic) = %s, Tax (higher) = %s\n",
			s.TaxYear, poundsStr(s.Gain), poundsStr(s.Proceeds), poundsStr(rates.Exemption),
			poundsStr(s.CarryForwardLossOut), poundsStr(s.TaxableGain),
			poundsStr(s.BasicRateTax), poundsStr(s.HigherRateTax))
		if p, ok := PostProcessorFor(s.TaxYear); ok {
			fmt.Fprintf(&summary, "  %s\n", p.ExtraTaxReturnInformation(s))
		}

		fmt.Fprintf(&details, "\n## TAX YEAR %s\n\n", s.TaxYear)
		for i, r := range s.DisposalResults {
			tx := r.Disposal
			fmt.Fprintf(&details, "%d) SOLD %s of %s on %s for gain of %s\n",
				i+1, tx.Amount, tx.Asset, tx.Date, poundsStr(r.Gain))
			fmt.Fprintln(&details, "Matches with:")
			for _, m := range r.DisposalMatches {
				fmt.Fprintf(&details, "  - %s\n", disposalMatchDetails(m))
			}
			fmt.Fprintf(&details, "Calculation: %s\n\n", disposalResultCalculationStr(r))
		}
		fmt.Fprintln(&details)
	}

	var out strings.Builder
	out.WriteString("# SUMMARY\n\n")
	out.WriteString(summary.String())
	out.WriteString("\n\n# DETAILS\n")
	out.WriteString(details.String())
	return out.String(), nil
}

func disposalMatchDetails(m *DisposalMatch) string {
	switch k := m.Kind.(type) {
	case SameDay:
		return fmt.Sprintf("SAME DAY: %s bought on %s at £%s",
			k.Acquisition.Amount, k.Acquisition.Date(), k.Acquisition.Price())
	case BedAndBreakfast:
		s := fmt.Sprintf("BED & BREAKFAST: %s bought on %s at £%s",
			k.Acquisition.Amount, k.Acquisition.Date(), k.Acquisition.Price())
		if !m.RestructureMultiplier.Equal(decimal.NewFromInt(1)) {
			s += fmt.Sprintf(" with restructure multiplier %s", m.RestructureMultiplier)
		}
		return s
	case Section104:
		return fmt.Sprintf("SECTION 104: %s at cost basis of %s", k.AmountAtDisposal, costBasisStr(k.CostBasis))
	}
	panic(fmt.Sprintf("unknown disposal match kind %T", m.Kind))
}

func disposalResultCalculationStr(r *DisposalResult) string {
	tx := r.Disposal
	var parts []string
	for _, m := range r.DisposalMatches {
		switch k := m.Kind.(type) {
		case SameDay:
			parts = append(parts, fmt.Sprintf("(%s * £%s + £%s)",
				k.Acquisition.Amount, k.Acquisition.Price(), k.Acquisition.Expenses))
		case BedAndBreakfast:
			parts = append(parts, fmt.Sprintf("(%s * £%s + £%s)",
				k.Acquisition.Amount, k.Acquisition.Price(), k.Acquisition.Expenses))
		case Section104:
			parts = append(parts, fmt.Sprintf("(%s * %s)", m.Disposal.Amount, costBasisStr(k.CostBasis)))
		}
	}
	return fmt.Sprintf("(%s * £%s - £%s) - ( %s ) = %s",
		tx.Amount, tx.Price, tx.Expenses, strings.Join(parts, " + "), poundsStr(r.UnroundedGain()))
}
