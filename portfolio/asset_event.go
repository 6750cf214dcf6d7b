package portfolio

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ukcgt/cgtcalc/date"
)

// AssetEventKind is one of CapitalReturn, Dividend, Split or Unsplit.
type AssetEventKind interface {
	isAssetEventKind()
	String() string
}

// CapitalReturn is a non-income distribution of Value across Amount shares,
// reducing the cost of the acquisitions that held them.
type CapitalReturn struct {
	Amount decimal.Decimal
	Value  decimal.Decimal
}

// Dividend is an accumulation-unit dividend of Value across Amount shares,
// reinvested and so increasing acquisition cost.
type Dividend struct {
	Amount decimal.Decimal
	Value  decimal.Decimal
}

type Split struct {
	Multiplier decimal.Decimal
}

type Unsplit struct {
	Multiplier decimal.Decimal
}

func (CapitalReturn) isAssetEventKind() {}
func (Dividend) isAssetEventKind()      {}
func (Split) isAssetEventKind()         {}
func (Unsplit) isAssetEventKind()       {}

func (k CapitalReturn) String() string {
	return fmt.Sprintf("CAPRETURN %s for %s", k.Amount, k.Value)
}
func (k Dividend) String() string { return fmt.Sprintf("DIVIDEND %s for %s", k.Amount, k.Value) }
func (k Split) String() string    { return fmt.Sprintf("SPLIT x%s", k.Multiplier) }
func (k Unsplit) String() string  { return fmt.Sprintf("UNSPLIT /%s", k.Multiplier) }

type AssetEvent struct {
	ID    int
	Kind  AssetEventKind
	Date  date.Date
	Asset string
}

func (e *AssetEvent) String() string {
	return fmt.Sprintf("#%d %s %s %s", e.ID, e.Kind, e.Date, e.Asset)
}

// RestructureFactor is the multiplier the event applies to a share count.
// Events that do not restructure the holding return 1.
func (e *AssetEvent) RestructureFactor() decimal.Decimal {
	switch k := e.Kind.(type) {
	case Split:
		return k.Multiplier
	case Unsplit:
		return decimal.NewFromInt(1).Div(k.Multiplier)
	case CapitalReturn, Dividend:
		return decimal.NewFromInt(1)
	}
	panic(fmt.Sprintf("unknown asset event kind %T", e.Kind))
}

type eventVariant int

const (
	capitalReturnVariant eventVariant = iota
	dividendVariant
	splitVariant
	unsplitVariant
)

func variantOf(k AssetEventKind) eventVariant {
	switch k.(type) {
	case CapitalReturn:
		return capitalReturnVariant
	case Dividend:
		return dividendVariant
	case Split:
		return splitVariant
	case Unsplit:
		return unsplitVariant
	}
	panic(fmt.Sprintf("unknown asset event kind %T", k))
}

// GroupAssetEvents merges same-day, same-variant events for one asset.
// Amounts and values are summed; multipliers are multiplied.
func GroupAssetEvents(events []*AssetEvent) (*AssetEvent, error) {
	if len(events) == 0 {
		return nil, internalErrorf("cannot group an empty list of asset events")
	}
	first := events[0]
	kind := first.Kind
	for _, ev := range events[1:] {
		if variantOf(ev.Kind) != variantOf(first.Kind) || ev.Date != first.Date || ev.Asset != first.Asset {
			return nil, internalErrorf(
				"cannot group asset events with differing kind, date or asset: %v and %v", first, ev)
		}
		switch k := kind.(type) {
		case CapitalReturn:
			o := ev.Kind.(CapitalReturn)
			kind = CapitalReturn{Amount: k.Amount.Add(o.Amount), Value: k.Value.Add(o.Value)}
		case Dividend:
			o := ev.Kind.(Dividend)
			kind = Dividend{Amount: k.Amount.Add(o.Amount), Value: k.Value.Add(o.Value)}
		case Split:
			kind = Split{Multiplier: k.Multiplier.Mul(ev.Kind.(Split).Multiplier)}
		case Unsplit:
			kind = Unsplit{Multiplier: k.Multiplier.Mul(ev.Kind.(Unsplit).Multiplier)}
		}
	}
	return &AssetEvent{ID: first.ID, Kind: kind, Date: first.Date, Asset: first.Asset}, nil
}

func SplitAssetEventsByAsset(events []*AssetEvent) map[string][]*AssetEvent {
	eventsByAsset := make(map[string][]*AssetEvent)
	for _, ev := range events {
		eventsByAsset[ev.Asset] = append(eventsByAsset[ev.Asset], ev)
	}
	return eventsByAsset
}

// groupSameDayAssetEvents returns date-sorted events with each day's events
// of the same variant combined. Variants keep their first-seen order within
// a day.
func groupSameDayAssetEvents(events []*AssetEvent) ([]*AssetEvent, error) {
	sorted := append([]*AssetEvent(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	var grouped []*AssetEvent
	for start := 0; start < len(sorted); {
		end := start + 1
		for end < len(sorted) && sorted[end].Date == sorted[start].Date {
			end++
		}

		var variantOrder []eventVariant
		byVariant := map[eventVariant][]*AssetEvent{}
		for _, ev := range sorted[start:end] {
			variant := variantOf(ev.Kind)
			if _, ok := byVariant[variant]; !ok {
				variantOrder = append(variantOrder, variant)
			}
			byVariant[variant] = append(byVariant[variant], ev)
		}
		for _, variant := range variantOrder {
			ev, err := GroupAssetEvents(byVariant[variant])
			if err != nil {
				return nil, err
			}
			grouped = append(grouped, ev)
		}
		start = end
	}
	return grouped, nil
}
