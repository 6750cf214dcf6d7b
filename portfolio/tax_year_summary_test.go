package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukcgt/cgtcalc/taxyear"
)

func s104Match(disposal Lot, costBasis string) *DisposalMatch {
	return NewDisposalMatch(
		Section104{AmountAtDisposal: disposal.Amount, CostBasis: dec(costBasis)}, disposal, dec("1"))
}

func TestNewDisposalResultsRounding(t *testing.T) {
	tx := TTx{ID: 5, Act: SELL, Date: "01/01/2020", Amount: "2", Price: "50.35"}.X()
	first := NewLot(tx)
	second, err := first.Split(dec("1"))
	require.NoError(t, err)

	// Each half gains 0.6; the disposal as a whole gains 1.2.
	results := NewDisposalResults([]*DisposalMatch{s104Match(first, "49.75"), s104Match(second, "49.75")})
	require.Len(t, results, 1)
	r := results[0]
	assert.Same(t, tx, r.Disposal)
	assert.Len(t, r.DisposalMatches, 2)
	assert.Equal(t, "1.2", r.UnroundedGain().String())
	assert.Equal(t, "1", r.Gain.String())
	assert.Equal(t, "100", r.Proceeds.String())
	assert.Equal(t, "99", r.AllowableCosts.String())

	loss := NewLot(TTx{ID: 6, Act: SELL, Date: "01/01/2020", Amount: "1", Price: "10"}.X())
	results = NewDisposalResults([]*DisposalMatch{s104Match(loss, "10.5")})
	assert.Equal(t, "-1", results[0].Gain.String())
	assert.Equal(t, "11", results[0].AllowableCosts.String())
}

func TestNewDisposalResultsOrder(t *testing.T) {
	late := NewLot(TTx{ID: 1, Act: SELL, Date: "02/01/2020", Amount: "1", Price: "1"}.X())
	early2 := NewLot(TTx{ID: 3, Act: SELL, Date: "01/01/2020", Amount: "1", Price: "1"}.X())
	early1 := NewLot(TTx{ID: 2, Act: SELL, Date: "01/01/2020", Amount: "1", Price: "1"}.X())

	results := NewDisposalResults([]*DisposalMatch{
		s104Match(late, "1"), s104Match(early2, "1"), s104Match(early1, "1"),
	})
	ids := []int{}
	for _, r := range results {
		ids = append(ids, r.Disposal.ID)
	}
	require.Equal(t, []int{2, 3, 1}, ids)
}

func TestCalcTaxYearSummariesCarryForward(t *testing.T) {
	matches := []*DisposalMatch{
		s104Match(NewLot(TTx{ID: 3, Act: SELL, Date: "01/01/2021", Amount: "1000", Price: "1"}.X()), "2"),
		s104Match(NewLot(TTx{ID: 1, Act: SELL, Date: "01/01/2019", Amount: "1000", Price: "1"}.X()), "6"),
		s104Match(NewLot(TTx{ID: 2, Act: SELL, Date: "01/01/2020", Amount: "1000", Price: "30"}.X()), "10"),
	}
	summaries, err := CalcTaxYearSummaries(matches)
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	for _, tc := range []struct {
		year                        taxyear.TaxYear
		gain, exemption             string
		lossIn, lossUsed, lossOut   string
		taxable, basicTax, higherTx string
	}{
		{2019, "-5000", "11700", "0", "0", "5000", "0", "0", "0"},
		{2020, "20000", "12000", "5000", "5000", "0", "3000", "300", "600"},
		{2021, "-1000", "12300", "0", "0", "1000", "0", "0", "0"},
	} {
		t.Run(tc.year.String(), func(t *testing.T) {
			var s *TaxYearSummary
			for _, candidate := range summaries {
				if candidate.TaxYear == tc.year {
					s = candidate
				}
			}
			require.NotNil(t, s)
			assert.Equal(t, tc.gain, s.Gain.String())
			assert.Equal(t, tc.exemption, s.Exemption.String())
			assert.Equal(t, tc.lossIn, s.CarryForwardLossIn.String())
			assert.Equal(t, tc.lossUsed, s.CarryForwardLossUsed.String())
			assert.Equal(t, tc.lossOut, s.CarryForwardLossOut.String())
			assert.Equal(t, tc.taxable, s.TaxableGain.String())
			assert.Equal(t, tc.basicTax, s.BasicRateTax.String())
			assert.Equal(t, tc.higherTx, s.HigherRateTax.String())
		})
	}
	require.Equal(t, taxyear.New(2019), summaries[0].TaxYear)
	require.Equal(t, taxyear.New(2021), summaries[2].TaxYear)
}

func TestCalcTaxYearSummariesGainUnderExemption(t *testing.T) {
	matches := []*DisposalMatch{
		s104Match(NewLot(TTx{ID: 1, Act: SELL, Date: "01/01/2019", Amount: "1000", Price: "1"}.X()), "3"),
		s104Match(NewLot(TTx{ID: 2, Act: SELL, Date: "01/01/2020", Amount: "1000", Price: "5"}.X()), "1"),
	}
	summaries, err := CalcTaxYearSummaries(matches)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// A gain within the exemption leaves the loss untouched.
	s := summaries[1]
	assert.Equal(t, "4000", s.Gain.String())
	assert.Equal(t, "0", s.TaxableGain.String())
	assert.Equal(t, "2000", s.CarryForwardLossIn.String())
	assert.Equal(t, "0", s.CarryForwardLossUsed.String())
	assert.Equal(t, "2000", s.CarryForwardLossOut.String())
	assert.Equal(t, 1, s.NumberOfGains)
	assert.Equal(t, 0, s.NumberOfLosses)
}

func TestCalcTaxYearSummariesMissingRates(t *testing.T) {
	acquisition := NewLot(TTx{ID: 1, Act: BUY, Date: "01/01/2000", Amount: "1000", Price: "1"}.X())
	disposal := NewLot(TTx{ID: 2, Act: SELL, Date: "01/01/2000", Amount: "1000", Price: "1"}.X())
	m := NewDisposalMatch(SameDay{Acquisition: acquisition}, disposal, dec("1"))

	_, err := CalcTaxYearSummaries([]*DisposalMatch{m})
	require.ErrorIs(t, err, ErrInternal)
}

func TestCalcTaxYearSummariesZeroGainCountsAsGain(t *testing.T) {
	disposal := NewLot(TTx{ID: 1, Act: SELL, Date: "01/01/2020", Amount: "10", Price: "1"}.X())
	summaries, err := CalcTaxYearSummaries([]*DisposalMatch{s104Match(disposal, "1")})
	require.NoError(t, err)
	assert.Equal(t, 1, summaries[0].NumberOfGains)
	assert.Equal(t, 0, summaries[0].NumberOfLosses)
}
