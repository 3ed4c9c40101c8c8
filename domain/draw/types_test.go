package draw

import (
	"testing"
	"time"

	"lottolab/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mk(no int, nums [6]int, bonus int) Draw {
	return Draw{No: no, Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 7*no), Numbers: nums, Bonus: bonus}
}

func TestDrawValidate(t *testing.T) {
	tests := []struct {
		name    string
		draw    Draw
		wantErr bool
	}{
		{"valid", mk(1, [6]int{1, 2, 3, 4, 5, 6}, 7), false},
		{"zero draw number", mk(0, [6]int{1, 2, 3, 4, 5, 6}, 7), true},
		{"out of range high", mk(2, [6]int{1, 2, 3, 4, 5, 46}, 7), true},
		{"out of range low", mk(3, [6]int{0, 2, 3, 4, 5, 6}, 7), true},
		{"duplicate main", mk(4, [6]int{1, 1, 3, 4, 5, 6}, 7), true},
		{"bonus repeats main", mk(5, [6]int{1, 2, 3, 4, 5, 6}, 6), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draw.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, core.ErrInvalidDraw)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestHistoryDedupeSortsAndKeepsFirst(t *testing.T) {
	h := History{
		mk(3, [6]int{1, 2, 3, 4, 5, 6}, 7),
		mk(1, [6]int{10, 11, 12, 13, 14, 15}, 16),
		mk(3, [6]int{40, 41, 42, 43, 44, 45}, 1),
		mk(2, [6]int{20, 21, 22, 23, 24, 25}, 26),
	}

	got := h.Dedupe()
	require.Len(t, got, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{got[0].No, got[1].No, got[2].No})
	assert.Equal(t, 1, got[2].Numbers[0], "first occurrence of draw 3 must win")

	assert.ErrorIs(t, h.Validate(), core.ErrDuplicateDraw)
	assert.NoError(t, got.Validate())
}

func TestHistoryTailWindowLatest(t *testing.T) {
	var h History
	for i := 1; i <= 10; i++ {
		h = append(h, mk(i, [6]int{1, 2, 3, 4, 5, 6}, 7))
	}

	assert.Len(t, h.Tail(3), 3)
	assert.Equal(t, 8, h.Tail(3)[0].No)
	assert.Len(t, h.Tail(0), 10)
	assert.Len(t, h.Tail(50), 10)
	assert.Len(t, h.Window(4, 6), 3)

	last, ok := h.Latest()
	require.True(t, ok)
	assert.Equal(t, 10, last.No)

	_, ok = History{}.Latest()
	assert.False(t, ok)
}

func TestContentHashIgnoresDatesButNotNumbers(t *testing.T) {
	a := History{mk(1, [6]int{1, 2, 3, 4, 5, 6}, 7)}
	b := History{a[0]}
	b[0].Date = b[0].Date.AddDate(1, 0, 0)
	c := History{mk(1, [6]int{1, 2, 3, 4, 5, 8}, 7)}

	assert.Equal(t, a.ContentHash(), b.ContentHash())
	assert.NotEqual(t, a.ContentHash(), c.ContentHash())
}

func TestBallsAndNumbersPerDraw(t *testing.T) {
	d := mk(1, [6]int{9, 3, 7, 1, 5, 2}, 44)
	assert.Len(t, d.Balls(false), NumbersPerDraw(false))
	assert.Len(t, d.Balls(true), NumbersPerDraw(true))
	assert.Equal(t, 44, d.Balls(true)[6])
	assert.Equal(t, [6]int{1, 2, 3, 5, 7, 9}, d.Sorted())
	assert.Equal(t, 990, PairCount)
}
