package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukcgt/cgtcalc/date"
	"github.com/ukcgt/cgtcalc/taxyear"
)

func rateChangeYear(t *testing.T) *TaxYearSummary {
	matches := []*DisposalMatch{
		s104Match(NewLot(TTx{ID: 1, Act: SELL, Date: "29/10/2024", Amount: "100", Price: "2"}.X()), "1"),
		s104Match(NewLot(TTx{ID: 2, Act: SELL, Date: "30/10/2024", Amount: "100", Price: "1.5"}.X()), "1"),
		s104Match(NewLot(TTx{ID: 3, Act: SELL, Date: "01/12/2024", Amount: "100", Price: "0.8"}.X()), "1"),
	}
	summaries, err := CalcTaxYearSummaries(matches)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	return summaries[0]
}

func TestPostProcessorFor(t *testing.T) {
	p, ok := PostProcessorFor(taxyear.New(2025))
	require.True(t, ok)
	require.Equal(t, date.MustParse("30/10/2024"), p.(RateChangePostProcessor).Cutoff)

	_, ok = PostProcessorFor(taxyear.New(2024))
	require.False(t, ok)
	_, ok = PostProcessorFor(taxyear.New(2026))
	require.False(t, ok)
}

func TestRateChangeSplit(t *testing.T) {
	s := rateChangeYear(t)
	require.Equal(t, taxyear.New(2025), s.TaxYear)

	p, _ := PostProcessorFor(s.TaxYear)
	split := p.(RateChangePostProcessor).Split(s)
	// The loss is left out of both sides.
	assert.Equal(t, "100", split.GainsBefore.String())
	assert.Equal(t, "50", split.GainsOnOrAfter.String())
	assert.Equal(t, "130", s.Gain.String())

	assert.Equal(t,
		"Gains to (and inc.) 29/10/2024 = £100.00, gains after 29/10/2024 = £50.00",
		p.ExtraTaxReturnInformation(s))
}
