package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconstructorAppliesSnapshotThenDeltas(t *testing.T) {
	r := NewReconstructor(0, nil)

	_, err := r.Advance(BookDelta{Seq: 1, IsSnapshot: true, TsMs: 100, Side: Buy, Price: 100, Qty: 5})
	require.NoError(t, err)
	_, err = r.Advance(BookDelta{Seq: 2, PrevSeq: 1, TsMs: 100, Side: Sell, Price: 101, Qty: 3})
	require.NoError(t, err)

	book := r.CurrentBook()
	assert.Equal(t, 100.0, book.BestBid)
	assert.Equal(t, 101.0, book.BestAsk)
	assert.Equal(t, 100.5, book.Mid())
}

func TestReconstructorSequenceGapIsFatal(t *testing.T) {
	r := NewReconstructor(0, nil)
	_, err := r.Advance(BookDelta{Seq: 1, IsSnapshot: true, TsMs: 100, Side: Buy, Price: 100, Qty: 5})
	require.NoError(t, err)

	_, err = r.Advance(BookDelta{Seq: 3, PrevSeq: 2, TsMs: 101, Side: Buy, Price: 99, Qty: 2})
	require.Error(t, err)
}

func TestReconstructorNegativeQtyIsFatal(t *testing.T) {
	r := NewReconstructor(0, nil)
	_, err := r.Advance(BookDelta{Seq: 1, IsSnapshot: true, TsMs: 100, Side: Buy, Price: 100, Qty: -1})
	require.Error(t, err)
}

func TestReconstructorZeroQtyRemovesLevel(t *testing.T) {
	r := NewReconstructor(0, nil)
	_, err := r.Advance(BookDelta{Seq: 1, IsSnapshot: true, TsMs: 100, Side: Buy, Price: 100, Qty: 5})
	require.NoError(t, err)
	_, err = r.Advance(BookDelta{Seq: 2, PrevSeq: 1, TsMs: 101, Side: Buy, Price: 100, Qty: 0})
	require.NoError(t, err)

	assert.Equal(t, 0.0, r.CurrentBook().BestBid)
}

func TestReconstructorSnapshotResetsBothSides(t *testing.T) {
	r := NewReconstructor(0, nil)
	_, _ = r.Advance(BookDelta{Seq: 1, IsSnapshot: true, TsMs: 100, Side: Buy, Price: 100, Qty: 5})
	_, _ = r.Advance(BookDelta{Seq: 2, PrevSeq: 1, TsMs: 100, Side: Sell, Price: 101, Qty: 3})

	_, err := r.Advance(BookDelta{Seq: 3, IsSnapshot: true, TsMs: 200, Side: Buy, Price: 50, Qty: 1})
	require.NoError(t, err)

	book := r.CurrentBook()
	assert.Equal(t, 50.0, book.BestBid)
	assert.Equal(t, 0.0, book.BestAsk)
}
