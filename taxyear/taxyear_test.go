package taxyear

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukcgt/cgtcalc/date"
)

func TestContaining(t *testing.T) {
	for _, tc := range []struct {
		day string
		exp TaxYear
	}{
		{"01/01/2015", 2015},
		{"05/04/2015", 2015},
		{"06/04/2015", 2016},
		{"01/08/2019", 2020},
		{"31/12/2019", 2020},
		{"06/04/2008", 2009},
	} {
		t.Run(tc.day, func(t *testing.T) {
			d := date.MustParse(tc.day)
			ty := Containing(d)
			assert.Equal(t, tc.exp, ty)
			assert.True(t, ty.Contains(d))
			assert.False(t, (ty + 1).Contains(d))
		})
	}
}

func TestBoundaries(t *testing.T) {
	ty := New(2019)
	assert.Equal(t, "2018/2019", ty.String())
	assert.Equal(t, 2019, ty.YearEnding())
	assert.Equal(t, date.MustParse("06/04/2018"), ty.Start())
	assert.Equal(t, date.MustParse("05/04/2019"), ty.End())
	assert.Equal(t, date.MustParse("06/04/2008"), FirstSupportedDate)
}

func TestRatesCoverage(t *testing.T) {
	for year := 2014; year <= 2026; year++ {
		_, ok := New(year).Rates()
		assert.True(t, ok, "missing rates for %d", year)
	}
	_, ok := New(2000).Rates()
	assert.False(t, ok)

	known := Known()
	require.NotEmpty(t, known)
	assert.Equal(t, First, known[0])
	assert.Equal(t, TaxYear(2027), known[len(known)-1])

	r, ok := New(2020).Rates()
	require.True(t, ok)
	assert.Equal(t, "12000", r.Exemption.String())
	assert.Equal(t, "10", r.BasicRate.String())
	assert.Equal(t, "20", r.HigherRate.String())

	r, ok = New(2025).Rates()
	require.True(t, ok)
	assert.Equal(t, "3000", r.Exemption.String())
}
