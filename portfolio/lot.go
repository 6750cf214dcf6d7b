package portfolio

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ukcgt/cgtcalc/date"
)

// Lot is the unmatched part of a transaction as it moves through matching.
// Tx is shared and read-only; the remaining fields belong to the lot.
// Offset is the signed cost adjustment applied by capital returns and
// dividends.
type Lot struct {
	Tx       *Tx
	Amount   decimal.Decimal
	Expenses decimal.Decimal
	Offset   decimal.Decimal
}

func NewLot(tx *Tx) Lot {
	return Lot{Tx: tx, Amount: tx.Amount, Expenses: tx.Expenses}
}

func (l Lot) Date() date.Date { return l.Tx.Date }

// Price is the per-share price including any offset.
func (l Lot) Price() decimal.Decimal {
	if l.Amount.IsZero() {
		return l.Tx.Price
	}
	return l.Tx.Price.Add(l.Offset.Div(l.Amount))
}

func (l Lot) Value() decimal.Decimal {
	return l.Tx.Price.Mul(l.Amount).Add(l.Offset)
}

func (l *Lot) AddOffset(v decimal.Decimal)      { l.Offset = l.Offset.Add(v) }
func (l *Lot) SubtractOffset(v decimal.Decimal) { l.Offset = l.Offset.Sub(v) }

// Split shrinks the lot to amount and returns a lot holding the remainder.
// Expenses and offset are shared in proportion to amount, so the two lots'
// values and expenses sum to the original's.
func (l *Lot) Split(amount decimal.Decimal) (Lot, error) {
	if amount.GreaterThan(l.Amount) {
		return Lot{}, internalErrorf(
			"tried to split lot of %s (%v) by more than its amount (%s)", l.Amount, l.Tx, amount)
	}
	remAmount := l.Amount.Sub(amount)
	rem := Lot{
		Tx:       l.Tx,
		Amount:   remAmount,
		Expenses: l.Expenses.Mul(remAmount).Div(l.Amount),
		Offset:   l.Offset.Mul(remAmount).Div(l.Amount),
	}
	l.Amount = amount
	l.Expenses = l.Expenses.Sub(rem.Expenses)
	l.Offset = l.Offset.Sub(rem.Offset)
	return rem, nil
}

func (l Lot) String() string {
	return fmt.Sprintf("<lot of #%d %s %s: amount=%s price=%s expenses=%s offset=%s>",
		l.Tx.ID, l.Tx.Action, l.Tx.Date, l.Amount, l.Price(), l.Expenses, l.Offset)
}

func lotsFromTxs(txs []*Tx) []Lot {
	lots := make([]Lot, 0, len(txs))
	for _, tx := range txs {
		lots = append(lots, NewLot(tx))
	}
	return lots
}
