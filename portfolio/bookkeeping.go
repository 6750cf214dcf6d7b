package portfolio

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ukcgt/cgtcalc/util"
)

// AssetState is the working state for one asset's pass through the
// calculator. Nothing in it is shared with other assets.
type AssetState struct {
	Asset string

	PendingAcquisitions []Lot
	PendingDisposals    []Lot
	AssetEvents         []*AssetEvent

	MatchedAcquisitions []Lot
	ProcessedDisposals  []Lot
	DisposalMatches     []*DisposalMatch

	FinalHolding   decimal.Decimal
	FinalCostBasis decimal.Decimal
}

// NewAssetState groups same-day transactions and events for the asset and
// wraps each transaction in a Lot. All txs and events must be for asset.
func NewAssetState(asset string, txs []*Tx, events []*AssetEvent) (*AssetState, error) {
	acquisitions, err := groupSameDayTxs(txs, BUY)
	if err != nil {
		return nil, err
	}
	disposals, err := groupSameDayTxs(txs, SELL)
	if err != nil {
		return nil, err
	}
	groupedEvents, err := groupSameDayAssetEvents(events)
	if err != nil {
		return nil, err
	}
	for _, tx := range txs {
		util.Assertf(tx.Asset == asset, "tx %v is not for asset %s", tx, asset)
	}
	return &AssetState{
		Asset:               asset,
		PendingAcquisitions: lotsFromTxs(acquisitions),
		PendingDisposals:    lotsFromTxs(disposals),
		AssetEvents:         groupedEvents,
		FinalHolding:        decimal.Zero,
		FinalCostBasis:      decimal.Zero,
	}, nil
}

func (s *AssetState) IsComplete() bool { return len(s.PendingDisposals) == 0 }

type lotRef struct {
	acquisition bool
	idx         int
}

// heldLots tracks the acquisitions accumulated since the last sell. Carried is
// the amount already covered by earlier capital returns, which a sell must
// also close out.
type heldLots struct {
	carried decimal.Decimal
	queue   []heldLot
}

type heldLot struct {
	idx    int
	amount decimal.Decimal
}

func (h *heldLots) acquire(idx int, amount decimal.Decimal) {
	h.queue = append(h.queue, heldLot{idx: idx, amount: amount})
}

// closeOut disposes of everything held. Returns false, leaving the holding
// untouched, unless amount is exactly what is held.
func (h *heldLots) closeOut(amount decimal.Decimal) bool {
	if !amount.Equal(h.carried.Add(h.net())) {
		return false
	}
	h.carried = decimal.Zero
	h.queue = nil
	return true
}

func (h *heldLots) net() decimal.Decimal {
	amounts := make([]decimal.Decimal, 0, len(h.queue))
	for _, l := range h.queue {
		amounts = append(amounts, l.amount)
	}
	return util.SumDecimals(amounts...)
}

// windowBefore collects pending lots dated strictly before the event, starting
// from the given cursors. Acquisitions sort ahead of disposals on the same day.
func (s *AssetState) windowBefore(ev *AssetEvent, acqIdx, dispIdx *int) []lotRef {
	var window []lotRef
	for *acqIdx < len(s.PendingAcquisitions) && s.PendingAcquisitions[*acqIdx].Date().Before(ev.Date) {
		window = append(window, lotRef{acquisition: true, idx: *acqIdx})
		*acqIdx++
	}
	for *dispIdx < len(s.PendingDisposals) && s.PendingDisposals[*dispIdx].Date().Before(ev.Date) {
		window = append(window, lotRef{acquisition: false, idx: *dispIdx})
		*dispIdx++
	}
	sort.SliceStable(window, func(i, j int) bool {
		return s.lotFor(window[i]).Date().Before(s.lotFor(window[j]).Date())
	})
	return window
}

func (s *AssetState) lotFor(ref lotRef) *Lot {
	if ref.acquisition {
		return &s.PendingAcquisitions[ref.idx]
	}
	return &s.PendingDisposals[ref.idx]
}

// applyWindow runs the window through holding. Every disposal must sell
// everything held at that point, otherwise an error naming eventName is
// returned.
func (s *AssetState) applyWindow(window []lotRef, holding *heldLots, eventName string) error {
	for _, ref := range window {
		lot := s.lotFor(ref)
		if ref.acquisition {
			holding.acquire(ref.idx, lot.Amount)
			continue
		}
		if !holding.closeOut(lot.Amount) {
			return invalidDataf(
				"error pre-processing %s while processing %s events: had disposals but did not "+
					"dispose of everything held at that point (%s held). Sell transaction was: %v",
				s.Asset, eventName, holding.carried.Add(holding.net()), lot.Tx)
		}
	}
	return nil
}

// Preprocess applies capital returns and dividends as cost offsets on the
// acquisition lots held when each event occurred. Capital returns are
// applied first, then dividends.
func (s *AssetState) Preprocess(logger logrus.FieldLogger) error {
	if len(s.AssetEvents) == 0 {
		logger.Debug("No pre-processing of transactions required")
		return nil
	}
	if len(s.PendingAcquisitions) == 0 {
		return invalidDataf("had events but no acquisitions for %s", s.Asset)
	}

	logger.Debug("Begin pre-processing transactions")
	if err := s.preprocessCapitalReturns(logger); err != nil {
		return err
	}
	if err := s.preprocessDividends(logger); err != nil {
		return err
	}
	logger.Debug("Finished pre-processing transactions")
	return nil
}

// Each capital return only considers lots since the previous one. Shares
// already covered by an earlier capital return are carried forward, and a
// later sell must close those out too.
func (s *AssetState) preprocessCapitalReturns(logger logrus.FieldLogger) error {
	acqIdx, dispIdx := 0, 0
	holding := &heldLots{carried: decimal.Zero}
	for _, ev := range s.AssetEvents {
		capReturn, ok := ev.Kind.(CapitalReturn)
		if !ok {
			continue
		}
		logger.WithField("event", ev).Debug("Processing capital return event")

		if acqIdx >= len(s.PendingAcquisitions) {
			return invalidDataf(
				"error pre-processing %s while processing capital return events: found a capital return "+
					"event on %s but there are no remaining acquisitions to match against",
				s.Asset, ev.Date)
		}

		holding.queue = nil
		window := s.windowBefore(ev, &acqIdx, &dispIdx)
		if err := s.applyWindow(window, holding, "capital return"); err != nil {
			return err
		}

		net := holding.net()
		if !capReturn.Amount.Equal(net) {
			return invalidDataf(
				"error pre-processing %s: capital return amount %s on %s doesn't match acquisitions (%s held)",
				s.Asset, capReturn.Amount, ev.Date, net)
		}

		for _, held := range holding.queue {
			apportioned := util.Apportion(capReturn.Value, held.amount, capReturn.Amount)
			acq := &s.PendingAcquisitions[held.idx]
			logger.WithFields(logrus.Fields{"acquisition": acq, "apportioned": apportioned}).
				Debug("Reducing acquisition cost")
			acq.SubtractOffset(apportioned)
		}
		holding.carried = holding.carried.Add(capReturn.Amount)
	}
	return nil
}

// Each dividend considers every lot before it, independently of the others.
func (s *AssetState) preprocessDividends(logger logrus.FieldLogger) error {
	for _, ev := range s.AssetEvents {
		dividend, ok := ev.Kind.(Dividend)
		if !ok {
			continue
		}
		logger.WithField("event", ev).Debug("Processing dividend event")

		acqIdx, dispIdx := 0, 0
		holding := &heldLots{carried: decimal.Zero}
		window := s.windowBefore(ev, &acqIdx, &dispIdx)
		if err := s.applyWindow(window, holding, "dividend"); err != nil {
			return err
		}

		net := holding.net()
		if !dividend.Amount.Equal(net) {
			return invalidDataf(
				"error pre-processing %s: dividend amount %s on %s doesn't match acquisitions (%s held)",
				s.Asset, dividend.Amount, ev.Date, net)
		}

		for _, held := range holding.queue {
			apportioned := util.Apportion(dividend.Value, held.amount, dividend.Amount)
			acq := &s.PendingAcquisitions[held.idx]
			logger.WithFields(logrus.Fields{"acquisition": acq, "apportioned": apportioned}).
				Debug("Increasing acquisition cost")
			acq.AddOffset(apportioned)
		}
	}
	return nil
}
