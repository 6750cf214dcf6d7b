package portfolio

import (
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ukcgt/cgtcalc/util"
)

// Section104Pool is the pooled holding of everything not matched by the
// same day or bed and breakfast rules.
type Section104Pool struct {
	Amount decimal.Decimal
	Cost   decimal.Decimal
	logger logrus.FieldLogger
}

func NewSection104Pool(logger logrus.FieldLogger) *Section104Pool {
	return &Section104Pool{Amount: decimal.Zero, Cost: decimal.Zero, logger: logger}
}

func (p *Section104Pool) CostBasis() decimal.Decimal {
	if p.Amount.IsZero() {
		return decimal.Zero
	}
	return p.Cost.Div(p.Amount)
}

func (p *Section104Pool) AddAcquisition(acquisition Lot) {
	p.Amount = p.Amount.Add(acquisition.Amount)
	p.Cost = p.Cost.Add(acquisition.Value()).Add(acquisition.Expenses)
	p.logger.WithFields(logrus.Fields{
		"acquisition": acquisition, "amount": p.Amount, "cost": p.Cost,
	}).Debug("Section 104: added acquisition")
}

// Dispose matches disposal against the pool and removes it at the current
// cost basis.
func (p *Section104Pool) Dispose(disposal Lot) (*DisposalMatch, error) {
	if disposal.Amount.GreaterThan(p.Amount) {
		return nil, invalidDataf(
			"error processing %s: disposing of more than is currently held. Disposal %v, holding %s",
			disposal.Tx.Asset, disposal.Tx, p.Amount)
	}

	costBasis := p.CostBasis()
	match := NewDisposalMatch(
		Section104{AmountAtDisposal: p.Amount, CostBasis: costBasis},
		disposal, decimal.NewFromInt(1))

	p.Amount = p.Amount.Sub(disposal.Amount)
	if p.Amount.IsZero() {
		p.Cost = decimal.Zero
	} else {
		p.Cost = p.Cost.Sub(disposal.Amount.Mul(costBasis))
	}
	util.Assertf(!p.Amount.IsNegative(), "section 104 pool amount went negative (%s)", p.Amount)

	p.logger.WithFields(logrus.Fields{
		"disposal": disposal, "amount": p.Amount, "cost": p.Cost,
	}).Debug("Section 104: removed disposal")
	return match, nil
}

// ApplyEvent rescales the pool for splits and unsplits. Cost is unchanged.
func (p *Section104Pool) ApplyEvent(ev *AssetEvent) {
	switch k := ev.Kind.(type) {
	case Split:
		p.Amount = p.Amount.Mul(k.Multiplier)
	case Unsplit:
		p.Amount = p.Amount.Div(k.Multiplier)
	case CapitalReturn, Dividend:
		// Already applied as lot offsets.
		return
	}
	p.logger.WithFields(logrus.Fields{
		"event": ev, "amount": p.Amount, "cost": p.Cost,
	}).Debug("Section 104: applied event")
}

// ProcessSection104 runs whatever matching left pending, plus the asset
// events, through the pool in date order. On the same day events go first,
// then acquisitions, then disposals.
func (s *AssetState) ProcessSection104(logger logrus.FieldLogger) error {
	logger.Debug("Section 104: begin processor")
	pool := NewSection104Pool(logger)

	acqIdx, dispIdx, evIdx := 0, 0, 0
	for {
		var acq, disp *Lot
		var ev *AssetEvent
		if acqIdx < len(s.PendingAcquisitions) {
			acq = &s.PendingAcquisitions[acqIdx]
		}
		if dispIdx < len(s.PendingDisposals) {
			disp = &s.PendingDisposals[dispIdx]
		}
		if evIdx < len(s.AssetEvents) {
			ev = s.AssetEvents[evIdx]
		}

		switch {
		case ev != nil &&
			(acq == nil || !ev.Date.After(acq.Date())) &&
			(disp == nil || !ev.Date.After(disp.Date())):
			pool.ApplyEvent(ev)
			evIdx++
		case acq != nil && (disp == nil || !acq.Date().After(disp.Date())):
			pool.AddAcquisition(*acq)
			acqIdx++
		case disp != nil:
			match, err := pool.Dispose(*disp)
			if err != nil {
				return err
			}
			s.DisposalMatches = append(s.DisposalMatches, match)
			s.ProcessedDisposals = append(s.ProcessedDisposals, *disp)
			dispIdx++
		default:
			s.PendingAcquisitions = s.PendingAcquisitions[:0]
			s.PendingDisposals = s.PendingDisposals[dispIdx:]
			s.FinalHolding = pool.Amount
			s.FinalCostBasis = pool.CostBasis()
			logger.Debugf("Section 104: finished processor. There are %d disposals left",
				len(s.PendingDisposals))
			return nil
		}
	}
}
