package portfolio

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ukcgt/cgtcalc/taxyear"
	"github.com/ukcgt/cgtcalc/util"
)

type CalculatorInput struct {
	Txs         []*Tx
	AssetEvents []*AssetEvent
}

// AssetResult is what one asset's pass produced, including what was left in
// its Section 104 pool.
type AssetResult struct {
	Asset           string
	DisposalMatches []*DisposalMatch
	Holding         decimal.Decimal
	CostBasis       decimal.Decimal
	Gains           *CumulativeCapitalGains
}

type CalculatorResult struct {
	Input            *CalculatorInput
	TaxYearSummaries []*TaxYearSummary
	// Sorted by asset.
	AssetResults []*AssetResult
}

// AllDisposalMatches returns every asset's matches, in asset order.
func (r *CalculatorResult) AllDisposalMatches() []*DisposalMatch {
	var matches []*DisposalMatch
	for _, ar := range r.AssetResults {
		matches = append(matches, ar.DisposalMatches...)
	}
	return matches
}

type Calculator struct {
	input  *CalculatorInput
	logger logrus.FieldLogger
	// Upper bound on assets processed at once. Zero means GOMAXPROCS.
	Concurrency int
}

func NewCalculator(input *CalculatorInput, logger logrus.FieldLogger) *Calculator {
	return &Calculator{input: input, logger: logger}
}

// Process runs every asset through preprocessing, same day, bed and breakfast
// and Section 104 matching, then aggregates into tax years. Assets are
// independent and run concurrently. The first error aborts the calculation
// and no partial result is returned.
func (c *Calculator) Process() (*CalculatorResult, error) {
	c.logger.Info("Begin processing")

	for _, tx := range c.input.Txs {
		if tx.Date.Before(taxyear.FirstSupportedDate) {
			c.logger.WithField("tx", tx).Error("Transaction predates supported rules")
			return nil, ErrTransactionDateNotSupported
		}
		if !tx.Amount.IsPositive() {
			return nil, invalidDataf("transaction amount must be positive: %v", tx)
		}
	}
	for _, ev := range c.input.AssetEvents {
		switch k := ev.Kind.(type) {
		case CapitalReturn:
			if !k.Amount.IsPositive() {
				return nil, invalidDataf("event amount must be positive: %v", ev)
			}
		case Dividend:
			if !k.Amount.IsPositive() {
				return nil, invalidDataf("event amount must be positive: %v", ev)
			}
		}
	}

	txsByAsset := SplitTxsByAsset(c.input.Txs)
	eventsByAsset := SplitAssetEventsByAsset(c.input.AssetEvents)
	assetSet := map[string]bool{}
	for asset := range txsByAsset {
		assetSet[asset] = true
	}
	for asset := range eventsByAsset {
		assetSet[asset] = true
	}
	assets := util.SortedKeys(assetSet)

	results := make([]*AssetResult, len(assets))
	g, ctx := errgroup.WithContext(context.Background())
	limit := util.Tern(c.Concurrency > 0, c.Concurrency, runtime.GOMAXPROCS(0))
	g.SetLimit(util.MinValue(limit, util.Tern(len(assets) > 0, len(assets), 1)))
	for i, asset := range assets {
		i, asset := i, asset
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			res, err := c.processAsset(asset, txsByAsset[asset], eventsByAsset[asset])
			if err != nil {
				return fmt.Errorf("%s: %w", asset, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.logger.WithError(err).Error("Calculation failed")
		return nil, err
	}

	result := &CalculatorResult{Input: c.input, AssetResults: results}
	summaries, err := CalcTaxYearSummaries(result.AllDisposalMatches())
	if err != nil {
		return nil, err
	}
	result.TaxYearSummaries = summaries

	c.logger.Info("Finished processing")
	return result, nil
}

func (c *Calculator) processAsset(asset string, txs []*Tx, events []*AssetEvent) (*AssetResult, error) {
	logger := c.logger.WithField("asset", asset)
	logger.Debug("Begin processing transactions")

	state, err := NewAssetState(asset, txs, events)
	if err != nil {
		return nil, err
	}
	if err := state.Preprocess(logger); err != nil {
		return nil, err
	}
	if err := NewSameDayProcessor(state, logger).Process(); err != nil {
		return nil, err
	}
	if err := NewBedAndBreakfastProcessor(state, logger).Process(); err != nil {
		return nil, err
	}
	if err := state.ProcessSection104(logger); err != nil {
		return nil, err
	}
	if !state.IsComplete() {
		return nil, ErrIncomplete
	}

	for _, m := range state.DisposalMatches {
		logger.WithField("match", m).Debug("Tax event")
	}
	logger.Infof("Finished processing transactions. Created %d tax events", len(state.DisposalMatches))

	return &AssetResult{
		Asset:           asset,
		DisposalMatches: state.DisposalMatches,
		Holding:         state.FinalHolding,
		CostBasis:       state.FinalCostBasis,
		Gains:           CalcAssetCumulativeCapitalGains(state.DisposalMatches),
	}, nil
}
