package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ukcgt/cgtcalc/date"
	ptf "github.com/ukcgt/cgtcalc/portfolio"
)

type ParseErrorKind int

const (
	IncorrectNumberOfFields ParseErrorKind = iota
	InvalidKind
	InvalidDate
	InvalidAmount
	InvalidPrice
	InvalidExpenses
	InvalidValue
)

func (k ParseErrorKind) String() string {
	switch k {
	case IncorrectNumberOfFields:
		return "incorrect number of fields"
	case InvalidKind:
		return "invalid kind"
	case InvalidDate:
		return "invalid date"
	case InvalidAmount:
		return "invalid amount"
	case InvalidPrice:
		return "invalid price"
	case InvalidExpenses:
		return "invalid expenses"
	case InvalidValue:
		return "invalid value"
	}
	return "unknown"
}

type ParseError struct {
	Desc string
	Line int
	Kind ParseErrorKind
	Text string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s: %q", e.Desc, e.Line, e.Kind, e.Text)
}

// Parser reads ledger lines of the form
//
//	BUY|SELL dd/mm/yyyy ASSET amount price expenses
//	CAPRETURN|DIVIDEND dd/mm/yyyy ASSET amount value
//	SPLIT|UNSPLIT dd/mm/yyyy ASSET multiplier
//
// Blank lines and lines starting with # are ignored. IDs are assigned in
// read order and continue across calls, so several files can share one
// Parser.
type Parser struct {
	nextID int
}

func NewParser() *Parser {
	return &Parser{nextID: 1}
}

func (p *Parser) takeID() int {
	id := p.nextID
	p.nextID++
	return id
}

// Parse reads a whole ledger. desc names the source in errors.
func (p *Parser) Parse(r io.Reader, desc string) (*ptf.CalculatorInput, error) {
	input := &ptf.CalculatorInput{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tx, ev, err := p.ParseLine(line)
		if err != nil {
			if pe, ok := err.(*ParseError); ok {
				pe.Desc = desc
				pe.Line = lineNo
			}
			return nil, err
		}
		if tx != nil {
			input.Txs = append(input.Txs, tx)
		} else {
			input.AssetEvents = append(input.AssetEvents, ev)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", desc, err)
	}
	return input, nil
}

// ParseLine parses one non-comment line into either a transaction or an
// asset event.
func (p *Parser) ParseLine(line string) (*ptf.Tx, *ptf.AssetEvent, error) {
	fields := strings.Fields(line)
	mkErr := func(kind ParseErrorKind) error {
		return &ParseError{Kind: kind, Text: line}
	}
	if len(fields) == 0 {
		return nil, nil, mkErr(IncorrectNumberOfFields)
	}

	switch fields[0] {
	case "BUY", "SELL":
		if len(fields) != 6 {
			return nil, nil, mkErr(IncorrectNumberOfFields)
		}
		d, err := date.Parse(fields[1])
		if err != nil {
			return nil, nil, mkErr(InvalidDate)
		}
		amount, err := decimal.NewFromString(fields[3])
		if err != nil || !amount.IsPositive() {
			return nil, nil, mkErr(InvalidAmount)
		}
		price, err := decimal.NewFromString(fields[4])
		if err != nil || price.IsNegative() {
			return nil, nil, mkErr(InvalidPrice)
		}
		expenses, err := decimal.NewFromString(fields[5])
		if err != nil || expenses.IsNegative() {
			return nil, nil, mkErr(InvalidExpenses)
		}
		action := ptf.BUY
		if fields[0] == "SELL" {
			action = ptf.SELL
		}
		return &ptf.Tx{
			ID: p.takeID(), Action: action, Date: d, Asset: fields[2],
			Amount: amount, Price: price, Expenses: expenses,
		}, nil, nil

	case "CAPRETURN", "DIVIDEND":
		if len(fields) != 5 {
			return nil, nil, mkErr(IncorrectNumberOfFields)
		}
		d, err := date.Parse(fields[1])
		if err != nil {
			return nil, nil, mkErr(InvalidDate)
		}
		amount, err := decimal.NewFromString(fields[3])
		if err != nil || !amount.IsPositive() {
			return nil, nil, mkErr(InvalidAmount)
		}
		value, err := decimal.NewFromString(fields[4])
		if err != nil || value.IsNegative() {
			return nil, nil, mkErr(InvalidValue)
		}
		var kind ptf.AssetEventKind = ptf.CapitalReturn{Amount: amount, Value: value}
		if fields[0] == "DIVIDEND" {
			kind = ptf.Dividend{Amount: amount, Value: value}
		}
		return nil, &ptf.AssetEvent{ID: p.takeID(), Kind: kind, Date: d, Asset: fields[2]}, nil

	case "SPLIT", "UNSPLIT":
		if len(fields) != 4 {
			return nil, nil, mkErr(IncorrectNumberOfFields)
		}
		d, err := date.Parse(fields[1])
		if err != nil {
			return nil, nil, mkErr(InvalidDate)
		}
		multiplier, err := decimal.NewFromString(fields[3])
		if err != nil || !multiplier.IsPositive() {
			return nil, nil, mkErr(InvalidValue)
		}
		var kind ptf.AssetEventKind = ptf.Split{Multiplier: multiplier}
		if fields[0] == "UNSPLIT" {
			kind = ptf.Unsplit{Multiplier: multiplier}
		}
		return nil, &ptf.AssetEvent{ID: p.takeID(), Kind: kind, Date: d, Asset: fields[2]}, nil
	}
	return nil, nil, mkErr(InvalidKind)
}
