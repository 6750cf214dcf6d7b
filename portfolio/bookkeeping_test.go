package portfolio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func preprocessed(t *testing.T, txs []*Tx, events []*AssetEvent) (*AssetState, error) {
	t.Helper()
	state, err := NewAssetState("Foo", txs, events)
	require.NoError(t, err)
	return state, state.Preprocess(nullLogger())
}

func TestNewAssetState(t *testing.T) {
	txs := numberTxs(
		TTx{Act: SELL, Date: "05/01/2020", Amount: "1", Price: "1"}.X(),
		TTx{Act: BUY, Date: "02/01/2020", Amount: "1", Price: "1"}.X(),
		TTx{Act: BUY, Date: "01/01/2020", Amount: "1", Price: "1"}.X(),
		TTx{Act: BUY, Date: "01/01/2020", Amount: "3", Price: "1"}.X(),
	)
	state, err := NewAssetState("Foo", txs, []*AssetEvent{splitEv("03/01/2020", "2")})
	require.NoError(t, err)

	require.Len(t, state.PendingAcquisitions, 2)
	require.Equal(t, 3, state.PendingAcquisitions[0].Tx.ID)
	require.Equal(t, "4", state.PendingAcquisitions[0].Amount.String())
	require.Equal(t, 2, state.PendingAcquisitions[1].Tx.ID)
	require.Len(t, state.PendingDisposals, 1)
	require.Len(t, state.AssetEvents, 1)
	require.False(t, state.IsComplete())
}

func TestPreprocessCapitalReturn(t *testing.T) {
	state, err := preprocessed(t,
		numberTxs(
			TTx{Act: BUY, Date: "01/01/2018", Amount: "10", Price: "10"}.X(),
			TTx{Act: SELL, Date: "01/02/2018", Amount: "10", Price: "10"}.X(),
			TTx{Act: BUY, Date: "15/02/2018", Amount: "5", Price: "10"}.X(),
		),
		[]*AssetEvent{capReturnEv("01/03/2018", "5", "10")})
	require.NoError(t, err)
	// The first purchase was sold in full, so only the second receives the offset.
	require.True(t, state.PendingAcquisitions[0].Offset.IsZero())
	require.Equal(t, "-10", state.PendingAcquisitions[1].Offset.String())
	require.True(t, state.PendingDisposals[0].Offset.IsZero())
}

func TestPreprocessCapitalReturnCarriesHolding(t *testing.T) {
	state, err := preprocessed(t,
		numberTxs(
			TTx{Act: BUY, Date: "01/01/2018", Amount: "10", Price: "10"}.X(),
			TTx{Act: BUY, Date: "01/03/2018", Amount: "10", Price: "10"}.X(),
			TTx{Act: SELL, Date: "01/04/2018", Amount: "20", Price: "10"}.X(),
			TTx{Act: BUY, Date: "15/04/2018", Amount: "5", Price: "10"}.X(),
		),
		[]*AssetEvent{
			capReturnEv("01/02/2018", "10", "5"),
			// The sale closes out both the shares covered above and the second
			// purchase, leaving only the last purchase for this event.
			capReturnEv("01/05/2018", "5", "20"),
		})
	require.NoError(t, err)
	require.Equal(t, "-5", state.PendingAcquisitions[0].Offset.String())
	require.True(t, state.PendingAcquisitions[1].Offset.IsZero())
	require.Equal(t, "-20", state.PendingAcquisitions[2].Offset.String())
}

func TestPreprocessDividendAfterFullSale(t *testing.T) {
	state, err := preprocessed(t,
		numberTxs(
			TTx{Act: BUY, Date: "01/01/2018", Amount: "10", Price: "10"}.X(),
			TTx{Act: SELL, Date: "01/02/2018", Amount: "10", Price: "10"}.X(),
			TTx{Act: BUY, Date: "01/03/2018", Amount: "4", Price: "10"}.X(),
		),
		[]*AssetEvent{dividendEv("01/04/2018", "4", "8")})
	require.NoError(t, err)
	require.True(t, state.PendingAcquisitions[0].Offset.IsZero())
	require.Equal(t, "8", state.PendingAcquisitions[1].Offset.String())
}

func TestPreprocessDividends(t *testing.T) {
	state, err := preprocessed(t,
		numberTxs(
			TTx{Act: BUY, Date: "01/01/2018", Amount: "10", Price: "10"}.X(),
			TTx{Act: BUY, Date: "01/03/2018", Amount: "10", Price: "10"}.X(),
		),
		[]*AssetEvent{
			dividendEv("01/02/2018", "10", "5"),
			dividendEv("01/04/2018", "20", "10"),
		})
	require.NoError(t, err)
	require.Equal(t, "10", state.PendingAcquisitions[0].Offset.String())
	require.Equal(t, "5", state.PendingAcquisitions[1].Offset.String())
}

func TestPreprocessCapitalReturnBeforeDividend(t *testing.T) {
	state, err := preprocessed(t,
		numberTxs(TTx{Act: BUY, Date: "01/01/2018", Amount: "2", Price: "100"}.X()),
		[]*AssetEvent{
			dividendEv("01/02/2018", "2", "10"),
			capReturnEv("01/02/2018", "2", "5"),
		})
	require.NoError(t, err)
	require.Equal(t, "5", state.PendingAcquisitions[0].Offset.String())
}

func TestPreprocessErrors(t *testing.T) {
	buy := func(d, amount string) *Tx { return TTx{Act: BUY, Date: d, Amount: amount, Price: "1"}.X() }
	sell := func(d, amount string) *Tx { return TTx{Act: SELL, Date: d, Amount: amount, Price: "1"}.X() }

	for _, tc := range []struct {
		name   string
		txs    []*Tx
		events []*AssetEvent
	}{
		{"no acquisitions", nil, []*AssetEvent{dividendEv("01/01/2020", "1", "1")}},
		{"dividend too large", []*Tx{buy("01/01/2020", "90")},
			[]*AssetEvent{dividendEv("02/01/2020", "100", "1")}},
		{"capital return too large", []*Tx{buy("01/01/2020", "90")},
			[]*AssetEvent{capReturnEv("02/01/2020", "100", "1")}},
		{"dividend too small", []*Tx{buy("01/01/2020", "100")},
			[]*AssetEvent{dividendEv("02/01/2020", "90", "1")}},
		{"capital return too small", []*Tx{buy("01/01/2020", "100")},
			[]*AssetEvent{capReturnEv("02/01/2020", "90", "1")}},
		{"dividend ignores later acquisitions", []*Tx{buy("01/01/2020", "10"), buy("03/01/2020", "10")},
			[]*AssetEvent{dividendEv("02/01/2020", "20", "1")}},
		{"capital return with nothing new held", []*Tx{buy("01/01/2018", "10")},
			[]*AssetEvent{capReturnEv("01/02/2018", "10", "1"), capReturnEv("01/03/2018", "10", "1")}},
		{"sold more than held before capital return",
			[]*Tx{buy("01/01/2018", "10"), sell("01/02/2018", "15")},
			[]*AssetEvent{capReturnEv("01/03/2018", "10", "1")}},
		{"sold more than held before dividend",
			[]*Tx{buy("01/01/2018", "10"), sell("01/02/2018", "15")},
			[]*AssetEvent{dividendEv("01/03/2018", "10", "1")}},
		{"sold part before capital return",
			[]*Tx{buy("01/01/2018", "10"), sell("01/02/2018", "5")},
			[]*AssetEvent{capReturnEv("01/03/2018", "5", "10")}},
		{"sold part before dividend",
			[]*Tx{buy("01/01/2018", "10"), sell("01/02/2018", "5")},
			[]*AssetEvent{dividendEv("01/03/2018", "5", "10")}},
		{"sale leaves shares covered by earlier capital return",
			[]*Tx{buy("01/01/2018", "10"), buy("01/03/2018", "10"), sell("01/04/2018", "10")},
			[]*AssetEvent{capReturnEv("01/02/2018", "10", "5"), capReturnEv("01/05/2018", "10", "20")}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := preprocessed(t, numberTxs(tc.txs...), tc.events)
			require.ErrorIs(t, err, ErrInvalidData)
		})
	}
}

func TestPreprocessSplitsOnly(t *testing.T) {
	state, err := preprocessed(t,
		numberTxs(TTx{Act: BUY, Date: "01/01/2018", Amount: "2", Price: "100"}.X()),
		[]*AssetEvent{splitEv("01/02/2018", "2")})
	require.NoError(t, err)
	require.True(t, state.PendingAcquisitions[0].Offset.IsZero())
}
