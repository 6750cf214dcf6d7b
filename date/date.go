package date

import (
	"fmt"
	"time"
)

// Read format is permissive, so 5/4/2020 and 05/04/2020 are both accepted.
const readDateFormat = "2/1/2006"

// DateFormat is the day/month/year format used by ledger files and reports.
const DateFormat = "02/01/2006"

// Date represents a calendar day, with no time of day or zone.
type Date struct {
	y int
	m time.Month
	d int
}

func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// New returns a normalized Date, so New(2020, 1, 32) is 1 Feb 2020.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

func (d Date) Year() int          { return d.y }
func (d Date) Month() time.Month  { return d.m }
func (d Date) Day() int           { return d.d }
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }
func (d Date) After(x Date) bool  { return d.time().After(x.time()) }

// Compare returns -1, 0 or +1 as d is before, equal to or after x.
func (d Date) Compare(x Date) int {
	switch {
	case d.Before(x):
		return -1
	case d.After(x):
		return 1
	}
	return 0
}

func (d Date) AddDays(days int) Date { return New(d.y, d.m, d.d+days) }

func (d Date) IsZero() bool { return d == Date{} }

func (d Date) String() string { return d.time().Format(DateFormat) }

// Parse reads a dd/mm/yyyy date.
func Parse(str string) (Date, error) {
	t, err := time.Parse(readDateFormat, str)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, want format dd/mm/yyyy: %w", str, err)
	}
	return New(t.Date()), nil
}

// MustParse is like Parse but panics on error. Intended for tests and tables.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}
