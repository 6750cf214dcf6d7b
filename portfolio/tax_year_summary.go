package portfolio

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ukcgt/cgtcalc/taxyear"
	"github.com/ukcgt/cgtcalc/util"
)

// DisposalResult collects every match for one disposal transaction. Gain is
// the rounded sum of the matches' gains and Proceeds is rounded down to
// whole pounds. AllowableCosts is whatever reconciles the two.
type DisposalResult struct {
	Disposal        *Tx
	Gain            decimal.Decimal
	Proceeds        decimal.Decimal
	AllowableCosts  decimal.Decimal
	DisposalMatches []*DisposalMatch
}

// UnroundedGain is the exact sum of the match gains.
func (r *DisposalResult) UnroundedGain() decimal.Decimal {
	gains := make([]decimal.Decimal, 0, len(r.DisposalMatches))
	for _, m := range r.DisposalMatches {
		gains = append(gains, m.Gain())
	}
	return util.SumDecimals(gains...)
}

// NewDisposalResults groups matches by disposal transaction, ordered by
// disposal date then id.
func NewDisposalResults(matches []*DisposalMatch) []*DisposalResult {
	byDisposal := map[*Tx]*DisposalResult{}
	var results []*DisposalResult
	for _, m := range matches {
		r, ok := byDisposal[m.Disposal.Tx]
		if !ok {
			r = &DisposalResult{Disposal: m.Disposal.Tx}
			byDisposal[m.Disposal.Tx] = r
			results = append(results, r)
		}
		r.DisposalMatches = append(r.DisposalMatches, m)
	}

	for _, r := range results {
		proceeds := make([]decimal.Decimal, 0, len(r.DisposalMatches))
		for _, m := range r.DisposalMatches {
			proceeds = append(proceeds, m.Proceeds())
		}
		r.Gain = util.RoundGain(r.UnroundedGain())
		r.Proceeds = util.SumDecimals(proceeds...).RoundDown(0)
		r.AllowableCosts = r.Proceeds.Sub(r.Gain)
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i].Disposal, results[j].Disposal
		if a.Date != b.Date {
			return a.Date.Before(b.Date)
		}
		return a.ID < b.ID
	})
	return results
}

type TaxYearSummary struct {
	TaxYear        taxyear.TaxYear
	Gain           decimal.Decimal
	Proceeds       decimal.Decimal
	AllowableCosts decimal.Decimal
	Exemption      decimal.Decimal

	CarryForwardLossIn   decimal.Decimal
	CarryForwardLossUsed decimal.Decimal
	CarryForwardLossOut  decimal.Decimal

	TaxableGain   decimal.Decimal
	BasicRateTax  decimal.Decimal
	HigherRateTax decimal.Decimal

	NumberOfGains  int
	TotalGains     decimal.Decimal
	NumberOfLosses int
	TotalLosses    decimal.Decimal

	DisposalResults []*DisposalResult
}

// CalcTaxYearSummaries aggregates matches from every asset into ascending
// tax years, carrying net losses forward into later years.
func CalcTaxYearSummaries(matches []*DisposalMatch) ([]*TaxYearSummary, error) {
	matchesByYear := map[taxyear.TaxYear][]*DisposalMatch{}
	for _, m := range matches {
		matchesByYear[m.TaxYear()] = append(matchesByYear[m.TaxYear()], m)
	}

	percent := decimal.New(1, -2)
	carryForwardLoss := decimal.Zero
	var summaries []*TaxYearSummary
	for _, ty := range util.SortedKeys(matchesByYear) {
		rates, ok := ty.Rates()
		if !ok {
			return nil, internalErrorf("missing tax year rates for %s", ty)
		}

		s := &TaxYearSummary{
			TaxYear:            ty,
			Gain:               decimal.Zero,
			Proceeds:           decimal.Zero,
			AllowableCosts:     decimal.Zero,
			Exemption:          rates.Exemption,
			CarryForwardLossIn: carryForwardLoss,
			TotalGains:         decimal.Zero,
			TotalLosses:        decimal.Zero,
			DisposalResults:    NewDisposalResults(matchesByYear[ty]),
		}
		for _, r := range s.DisposalResults {
			s.Gain = s.Gain.Add(r.Gain)
			s.Proceeds = s.Proceeds.Add(r.Proceeds)
			s.AllowableCosts = s.AllowableCosts.Add(r.AllowableCosts)
			if r.Gain.IsNegative() {
				s.NumberOfLosses++
				s.TotalLosses = s.TotalLosses.Add(r.Gain.Neg())
			} else {
				s.NumberOfGains++
				s.TotalGains = s.TotalGains.Add(r.Gain)
			}
		}

		lossUsed := decimal.Zero
		gainAboveExemption := util.MaxDecimal(s.Gain.Sub(rates.Exemption), decimal.Zero)
		if gainAboveExemption.IsPositive() {
			lossUsed = util.MinDecimal(gainAboveExemption, carryForwardLoss)
			s.TaxableGain = gainAboveExemption.Sub(lossUsed)
			carryForwardLoss = carryForwardLoss.Sub(lossUsed)
		} else {
			s.TaxableGain = decimal.Zero
			if s.Gain.IsNegative() {
				carryForwardLoss = carryForwardLoss.Sub(s.Gain)
			}
		}
		s.CarryForwardLossUsed = lossUsed
		s.CarryForwardLossOut = carryForwardLoss
		s.BasicRateTax = util.RoundGain(s.TaxableGain.Mul(rates.BasicRate).Mul(percent))
		s.HigherRateTax = util.RoundGain(s.TaxableGain.Mul(rates.HigherRate).Mul(percent))

		summaries = append(summaries, s)
	}
	return summaries, nil
}
