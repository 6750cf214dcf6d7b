package portfolio

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ukcgt/cgtcalc/date"
	"github.com/ukcgt/cgtcalc/taxyear"
)

// TaxYearPostProcessor derives extra tax return figures for years with
// special reporting needs. It must not modify the summary.
type TaxYearPostProcessor interface {
	ExtraTaxReturnInformation(summary *TaxYearSummary) string
}

// RateChangeSplit separates a year's non-negative disposal gains either side
// of a mid-year change in rates.
type RateChangeSplit struct {
	Cutoff         date.Date
	GainsBefore    decimal.Decimal
	GainsOnOrAfter decimal.Decimal
}

// RateChangePostProcessor splits gains at Cutoff. Disposals on Cutoff fall
// into the later period.
type RateChangePostProcessor struct {
	Cutoff date.Date
}

func (p RateChangePostProcessor) Split(summary *TaxYearSummary) RateChangeSplit {
	split := RateChangeSplit{Cutoff: p.Cutoff, GainsBefore: decimal.Zero, GainsOnOrAfter: decimal.Zero}
	for _, r := range summary.DisposalResults {
		if r.Gain.IsNegative() {
			continue
		}
		if r.Disposal.Date.Before(p.Cutoff) {
			split.GainsBefore = split.GainsBefore.Add(r.Gain)
		} else {
			split.GainsOnOrAfter = split.GainsOnOrAfter.Add(r.Gain)
		}
	}
	return split
}

func (p RateChangePostProcessor) ExtraTaxReturnInformation(summary *TaxYearSummary) string {
	split := p.Split(summary)
	lastDayBefore := p.Cutoff.AddDays(-1)
	return fmt.Sprintf("Gains to (and inc.) %s = £%s, gains after %s = £%s",
		lastDayBefore, split.GainsBefore.StringFixed(2), lastDayBefore, split.GainsOnOrAfter.StringFixed(2))
}

var postProcessors = map[taxyear.TaxYear]TaxYearPostProcessor{
	// Rates rose for disposals on or after 30 October 2024.
	taxyear.New(2025): RateChangePostProcessor{Cutoff: date.New(2024, time.October, 30)},
}

// PostProcessorFor returns the post processor for the year, if it has one.
func PostProcessorFor(ty taxyear.TaxYear) (TaxYearPostProcessor, bool) {
	p, ok := postProcessors[ty]
	return p, ok
}
