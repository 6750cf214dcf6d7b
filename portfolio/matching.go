package portfolio

import (
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

type MatchResult int

const (
	SkipAcquisition MatchResult = iota
	SkipDisposal
	Match
)

// Matcher decides, for the acquisition and disposal under the two pointers,
// which pointer to advance or whether they match.
type Matcher func(acquisition, disposal Lot) MatchResult

// DisposalMatchCreator builds the match record once a pair has been sized.
type DisposalMatchCreator func(acquisition, disposal Lot, multiplier decimal.Decimal) *DisposalMatch

// BedAndBreakfastDays is the window after a disposal in which a repurchase is
// matched to it.
const BedAndBreakfastDays = 30

func SameDayMatcher(acquisition, disposal Lot) MatchResult {
	switch {
	case acquisition.Date().Before(disposal.Date()):
		return SkipAcquisition
	case disposal.Date().Before(acquisition.Date()):
		return SkipDisposal
	}
	return Match
}

func BedAndBreakfastMatcher(acquisition, disposal Lot) MatchResult {
	switch {
	case acquisition.Date().Before(disposal.Date()):
		return SkipAcquisition
	case disposal.Date().AddDays(BedAndBreakfastDays).Before(acquisition.Date()):
		return SkipDisposal
	}
	return Match
}

func newSameDayMatch(acquisition, disposal Lot, multiplier decimal.Decimal) *DisposalMatch {
	return NewDisposalMatch(SameDay{Acquisition: acquisition}, disposal, multiplier)
}

func newBedAndBreakfastMatch(acquisition, disposal Lot, multiplier decimal.Decimal) *DisposalMatch {
	return NewDisposalMatch(BedAndBreakfast{Acquisition: acquisition}, disposal, multiplier)
}

// MatchingProcessor is a two-pointer sweep over the asset's pending
// acquisitions and disposals, both in date order.
type MatchingProcessor struct {
	Name    string
	state   *AssetState
	logger  logrus.FieldLogger
	matcher Matcher
	creator DisposalMatchCreator
	// Whether to account for splits and unsplits between the two dates.
	restructure bool
}

func NewSameDayProcessor(state *AssetState, logger logrus.FieldLogger) *MatchingProcessor {
	return &MatchingProcessor{
		Name: "same day", state: state, logger: logger,
		matcher: SameDayMatcher, creator: newSameDayMatch,
	}
}

func NewBedAndBreakfastProcessor(state *AssetState, logger logrus.FieldLogger) *MatchingProcessor {
	return &MatchingProcessor{
		Name: "bed & breakfast", state: state, logger: logger,
		matcher: BedAndBreakfastMatcher, creator: newBedAndBreakfastMatch,
		restructure: true,
	}
}

// RestructureMultiplier is the product of split multipliers, divided by
// unsplit multipliers, for events after disposal and on or before
// acquisition.
func (s *AssetState) RestructureMultiplier(acquisition, disposal Lot) decimal.Decimal {
	multiplier := decimal.NewFromInt(1)
	for _, ev := range s.AssetEvents {
		if !ev.Date.After(disposal.Date()) || ev.Date.After(acquisition.Date()) {
			continue
		}
		switch k := ev.Kind.(type) {
		case Split:
			multiplier = multiplier.Mul(k.Multiplier)
		case Unsplit:
			multiplier = multiplier.Div(k.Multiplier)
		case CapitalReturn, Dividend:
		}
	}
	return multiplier
}

func (p *MatchingProcessor) Process() error {
	s := p.state
	p.logger.Debugf("Begin %s matching", p.Name)

	matchCount := 0
	acqIdx, dispIdx := 0, 0
	for acqIdx < len(s.PendingAcquisitions) && dispIdx < len(s.PendingDisposals) {
		acquisition := s.PendingAcquisitions[acqIdx]
		disposal := s.PendingDisposals[dispIdx]

		switch p.matcher(acquisition, disposal) {
		case SkipAcquisition:
			acqIdx++
			continue
		case SkipDisposal:
			dispIdx++
			continue
		case Match:
		}

		multiplier := decimal.NewFromInt(1)
		if p.restructure {
			multiplier = s.RestructureMultiplier(acquisition, disposal)
		}

		// Size both sides to the smaller of the two, in the disposal's share
		// basis. Remainders go back in the queues right after the originals.
		// Only one side is ever split: after dividing by the multiplier the
		// disposal may be short by a rounding digit, and the acquisition is
		// still used in full.
		if disposal.Amount.Mul(multiplier).GreaterThan(acquisition.Amount) {
			rem, err := disposal.Split(acquisition.Amount.Div(multiplier))
			if err != nil {
				return err
			}
			s.PendingDisposals = slices.Insert(s.PendingDisposals, dispIdx+1, rem)
		} else if acquisition.Amount.GreaterThan(disposal.Amount.Mul(multiplier)) {
			rem, err := acquisition.Split(disposal.Amount.Mul(multiplier))
			if err != nil {
				return err
			}
			s.PendingAcquisitions = slices.Insert(s.PendingAcquisitions, acqIdx+1, rem)
		}

		p.logger.WithFields(logrus.Fields{"disposal": disposal, "acquisition": acquisition}).
			Debugf("Matched (%s)", p.Name)

		// Removal moves both pointers on, so they are not incremented.
		s.PendingAcquisitions = slices.Delete(s.PendingAcquisitions, acqIdx, acqIdx+1)
		s.MatchedAcquisitions = append(s.MatchedAcquisitions, acquisition)
		s.PendingDisposals = slices.Delete(s.PendingDisposals, dispIdx, dispIdx+1)
		s.ProcessedDisposals = append(s.ProcessedDisposals, disposal)

		s.DisposalMatches = append(s.DisposalMatches, p.creator(acquisition, disposal, multiplier))
		matchCount++
	}

	p.logger.Debugf("Finished %s matching. Matched %d and there are %d disposals left",
		p.Name, matchCount, len(s.PendingDisposals))
	return nil
}
