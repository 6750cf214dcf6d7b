package portfolio

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ukcgt/cgtcalc/date"
	"github.com/ukcgt/cgtcalc/taxyear"
)

// DisposalMatchKind is one of SameDay, BedAndBreakfast or Section104.
type DisposalMatchKind interface {
	isDisposalMatchKind()
	String() string
}

type SameDay struct {
	Acquisition Lot
}

type BedAndBreakfast struct {
	Acquisition Lot
}

// Section104 records the pool as it stood immediately before the disposal.
type Section104 struct {
	AmountAtDisposal decimal.Decimal
	CostBasis        decimal.Decimal
}

func (SameDay) isDisposalMatchKind()         {}
func (BedAndBreakfast) isDisposalMatchKind() {}
func (Section104) isDisposalMatchKind()      {}

func (k SameDay) String() string         { return "SAME DAY" }
func (k BedAndBreakfast) String() string { return "BED & BREAKFAST" }
func (k Section104) String() string      { return "SECTION 104" }

// DisposalMatch is a (part of a) disposal matched against an acquisition or
// the Section 104 pool. Gains are derived on demand.
type DisposalMatch struct {
	Kind     DisposalMatchKind
	Disposal Lot
	// Converts acquisition share counts onto the disposal's basis, for
	// splits and unsplits between the two dates.
	RestructureMultiplier decimal.Decimal
}

func NewDisposalMatch(kind DisposalMatchKind, disposal Lot, multiplier decimal.Decimal) *DisposalMatch {
	return &DisposalMatch{Kind: kind, Disposal: disposal, RestructureMultiplier: multiplier}
}

func (m *DisposalMatch) Asset() string            { return m.Disposal.Tx.Asset }
func (m *DisposalMatch) Date() date.Date          { return m.Disposal.Date() }
func (m *DisposalMatch) TaxYear() taxyear.TaxYear { return taxyear.Containing(m.Date()) }

// Proceeds is the disposal's value before expenses.
func (m *DisposalMatch) Proceeds() decimal.Decimal { return m.Disposal.Value() }

// MatchedCost is the acquisition cost set against this disposal.
func (m *DisposalMatch) MatchedCost() decimal.Decimal {
	switch k := m.Kind.(type) {
	case SameDay:
		return k.Acquisition.Value().Add(k.Acquisition.Expenses)
	case BedAndBreakfast:
		return k.Acquisition.Value().Add(k.Acquisition.Expenses)
	case Section104:
		return m.Disposal.Amount.Mul(k.CostBasis)
	}
	panic(fmt.Sprintf("unknown disposal match kind %T", m.Kind))
}

func (m *DisposalMatch) AllowableCosts() decimal.Decimal {
	return m.MatchedCost().Add(m.Disposal.Expenses)
}

// Gain is unrounded; rounding is applied once per disposal.
func (m *DisposalMatch) Gain() decimal.Decimal {
	return m.Proceeds().Sub(m.AllowableCosts())
}

func (m *DisposalMatch) String() string {
	return fmt.Sprintf("<%s match: disposal=%v multiplier=%s gain=%s>",
		m.Kind, m.Disposal, m.RestructureMultiplier, m.Gain())
}
