package portfolio

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ukcgt/cgtcalc/date"
)

type TxAction int

const (
	NO_ACTION TxAction = iota
	BUY
	SELL
)

func (a TxAction) String() string {
	switch a {
	case BUY:
		return "BUY"
	case SELL:
		return "SELL"
	}
	return "NO_ACTION"
}

// Tx is a single acquisition or disposal. Treated as immutable once built.
type Tx struct {
	ID       int
	Action   TxAction
	Date     date.Date
	Asset    string
	Amount   decimal.Decimal
	Price    decimal.Decimal
	Expenses decimal.Decimal

	// Set when this Tx was combined from several same-day records.
	Grouped []*Tx
}

func (tx *Tx) Value() decimal.Decimal { return tx.Amount.Mul(tx.Price) }

func (tx *Tx) String() string {
	return fmt.Sprintf("#%d %s %s %s %s @ %s (expenses %s)",
		tx.ID, tx.Action, tx.Date, tx.Asset, tx.Amount, tx.Price, tx.Expenses)
}

// GroupTxs merges transactions of one kind, date and asset into a single Tx
// with summed amount and expenses and an amount-weighted average price.
func GroupTxs(txs []*Tx) (*Tx, error) {
	if len(txs) == 0 {
		return nil, internalErrorf("cannot group an empty list of transactions")
	}
	first := txs[0]
	if len(txs) == 1 {
		return first, nil
	}

	amount := decimal.Zero
	value := decimal.Zero
	expenses := decimal.Zero
	for _, tx := range txs {
		if tx.Action != first.Action || tx.Date != first.Date || tx.Asset != first.Asset {
			return nil, internalErrorf(
				"cannot group transactions with differing kind, date or asset: %v and %v", first, tx)
		}
		amount = amount.Add(tx.Amount)
		value = value.Add(tx.Value())
		expenses = expenses.Add(tx.Expenses)
	}

	return &Tx{
		ID:       first.ID,
		Action:   first.Action,
		Date:     first.Date,
		Asset:    first.Asset,
		Amount:   amount,
		Price:    value.Div(amount),
		Expenses: expenses,
		Grouped:  append([]*Tx(nil), txs...),
	}, nil
}

// SortTxs sorts by date, keeping input order for same-day transactions.
func SortTxs(txs []*Tx) []*Tx {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.Before(txs[j].Date)
	})
	return txs
}

func SplitTxsByAsset(txs []*Tx) map[string][]*Tx {
	txsByAsset := make(map[string][]*Tx)
	for _, tx := range txs {
		txsByAsset[tx.Asset] = append(txsByAsset[tx.Asset], tx)
	}
	return txsByAsset
}

// groupSameDayTxs returns date-sorted txs with each day's records of the
// given action combined.
func groupSameDayTxs(txs []*Tx, action TxAction) ([]*Tx, error) {
	var filtered []*Tx
	for _, tx := range txs {
		if tx.Action == action {
			filtered = append(filtered, tx)
		}
	}
	SortTxs(filtered)

	var grouped []*Tx
	for start := 0; start < len(filtered); {
		end := start + 1
		for end < len(filtered) && filtered[end].Date == filtered[start].Date {
			end++
		}
		tx, err := GroupTxs(filtered[start:end])
		if err != nil {
			return nil, err
		}
		grouped = append(grouped, tx)
		start = end
	}
	return grouped, nil
}
