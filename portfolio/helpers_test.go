package portfolio

import (
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/ukcgt/cgtcalc/date"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func nullLogger() logrus.FieldLogger {
	logger, _ := logtest.NewNullLogger()
	return logger
}

// TTx is a compact test description of a Tx. Empty numeric fields are zero,
// and an empty asset is "Foo".
type TTx struct {
	ID     int
	Act    TxAction
	Date   string
	Asset  string
	Amount string
	Price  string
	Exp    string
}

func orZero(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	return dec(s)
}

func (t TTx) X() *Tx {
	asset := t.Asset
	if asset == "" {
		asset = "Foo"
	}
	return &Tx{
		ID:       t.ID,
		Action:   t.Act,
		Date:     date.MustParse(t.Date),
		Asset:    asset,
		Amount:   orZero(t.Amount),
		Price:    orZero(t.Price),
		Expenses: orZero(t.Exp),
	}
}

func mkEvent(kind AssetEventKind, d string) *AssetEvent {
	return &AssetEvent{Kind: kind, Date: date.MustParse(d), Asset: "Foo"}
}

func capReturnEv(d, amount, value string) *AssetEvent {
	return mkEvent(CapitalReturn{Amount: dec(amount), Value: dec(value)}, d)
}

func dividendEv(d, amount, value string) *AssetEvent {
	return mkEvent(Dividend{Amount: dec(amount), Value: dec(value)}, d)
}

func splitEv(d, multiplier string) *AssetEvent {
	return mkEvent(Split{Multiplier: dec(multiplier)}, d)
}

func unsplitEv(d, multiplier string) *AssetEvent {
	return mkEvent(Unsplit{Multiplier: dec(multiplier)}, d)
}

// numberTxs gives each tx a distinct id in slice order, as the parser would.
func numberTxs(txs ...*Tx) []*Tx {
	for i, tx := range txs {
		tx.ID = i + 1
	}
	return txs
}
