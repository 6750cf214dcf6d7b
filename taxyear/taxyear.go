package taxyear

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ukcgt/cgtcalc/date"
)

// TaxYear is a UK fiscal year (6 April to 5 April), identified by the
// calendar year in which it ends. TaxYear(2020) is 2019/2020.
type TaxYear int

func New(yearEnding int) TaxYear { return TaxYear(yearEnding) }

// Containing returns the tax year that d falls in.
func Containing(d date.Date) TaxYear {
	if d.Before(date.New(d.Year(), time.April, 6)) {
		return TaxYear(d.Year())
	}
	return TaxYear(d.Year() + 1)
}

func (ty TaxYear) YearEnding() int { return int(ty) }

func (ty TaxYear) Start() date.Date { return date.New(int(ty)-1, time.April, 6) }

func (ty TaxYear) End() date.Date { return date.New(int(ty), time.April, 5) }

func (ty TaxYear) Contains(d date.Date) bool {
	return !d.Before(ty.Start()) && !d.After(ty.End())
}

func (ty TaxYear) String() string {
	return fmt.Sprintf("%d/%d", int(ty)-1, int(ty))
}

// Rates returns the statutory figures for the year, if known.
func (ty TaxYear) Rates() (Rates, bool) {
	r, ok := ratesByYear[ty]
	return r, ok
}

// Rates holds the annual exempt amount in pounds and the basic and higher CGT
// rates as percentages.
type Rates struct {
	Exemption  decimal.Decimal
	BasicRate  decimal.Decimal
	HigherRate decimal.Decimal
}

func mkRates(exemption, basic, higher int64) Rates {
	return Rates{
		Exemption:  decimal.NewFromInt(exemption),
		BasicRate:  decimal.NewFromInt(basic),
		HigherRate: decimal.NewFromInt(higher),
	}
}

// 2010/11 used 18% for the whole year at the basic rate, and the higher rate
// of 28% from 23 June 2010; the higher figure is used for the year.
// 2024/25 changed rates on 30 October 2024; the later rates are listed here
// and gains either side of the change are reported separately.
var ratesByYear = map[TaxYear]Rates{
	2009: mkRates(9600, 18, 18),
	2010: mkRates(10100, 18, 18),
	2011: mkRates(10100, 18, 28),
	2012: mkRates(10600, 18, 28),
	2013: mkRates(10600, 18, 28),
	2014: mkRates(10900, 18, 28),
	2015: mkRates(11000, 18, 28),
	2016: mkRates(11100, 18, 28),
	2017: mkRates(11100, 10, 20),
	2018: mkRates(11300, 10, 20),
	2019: mkRates(11700, 10, 20),
	2020: mkRates(12000, 10, 20),
	2021: mkRates(12300, 10, 20),
	2022: mkRates(12300, 10, 20),
	2023: mkRates(12300, 10, 20),
	2024: mkRates(6000, 10, 20),
	2025: mkRates(3000, 18, 24),
	2026: mkRates(3000, 18, 24),
	2027: mkRates(3000, 18, 24),
}

// Known returns every tax year with rates, ascending.
func Known() []TaxYear {
	years := make([]TaxYear, 0, len(ratesByYear))
	for ty := First; ; ty++ {
		if _, ok := ratesByYear[ty]; !ok {
			break
		}
		years = append(years, ty)
	}
	return years
}

// First is the earliest tax year the share matching rules here apply to.
const First TaxYear = 2009

// FirstSupportedDate is the day the current CGT matching rules took effect.
var FirstSupportedDate = First.Start()
