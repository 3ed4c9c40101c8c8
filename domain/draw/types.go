package draw

import (
	"encoding/binary"
	"fmt"
	"sort"
	"time"

	"lottolab/domain/core"
)

const (
	// MaxNumber is the highest ball number; balls run 1..MaxNumber.
	MaxNumber = 45
	// MainCount is the number of main balls per draw.
	MainCount = 6
	// PairCount is the number of unordered number pairs, C(45, 2).
	PairCount = MaxNumber * (MaxNumber - 1) / 2
)

// Draw is one lottery event: six main numbers plus one bonus number.
type Draw struct {
	No      int            `json:"draw_no"`
	Date    time.Time      `json:"date"`
	Numbers [MainCount]int `json:"numbers"`
	Bonus   int            `json:"bonus"`
}

// NumbersPerDraw returns 7 when the bonus ball is counted, otherwise 6.
func NumbersPerDraw(includeBonus bool) int {
	if includeBonus {
		return MainCount + 1
	}
	return MainCount
}

// Validate checks ball ranges and distinctness.
func (d Draw) Validate() error {
	if d.No <= 0 {
		return core.NewInvalidDrawError(d.No, "draw number must be positive")
	}
	var seen [MaxNumber + 1]bool
	for _, n := range d.Balls(true) {
		if n < 1 || n > MaxNumber {
			return core.NewInvalidDrawError(d.No, fmt.Sprintf("number %d out of range 1..%d", n, MaxNumber))
		}
		if seen[n] {
			return core.NewInvalidDrawError(d.No, fmt.Sprintf("number %d drawn twice", n))
		}
		seen[n] = true
	}
	return nil
}

// Balls returns the drawn numbers, with the bonus appended when requested.
func (d Draw) Balls(includeBonus bool) []int {
	out := make([]int, 0, MainCount+1)
	out = append(out, d.Numbers[:]...)
	if includeBonus {
		out = append(out, d.Bonus)
	}
	return out
}

// Sorted returns the six main numbers in ascending order.
func (d Draw) Sorted() [MainCount]int {
	s := d.Numbers
	sort.Ints(s[:])
	return s
}

// History is an ordered sequence of draws, ascending by draw number.
type History []Draw

// Dedupe keeps the first occurrence of every draw number and sorts ascending.
func (h History) Dedupe() History {
	seen := make(map[int]struct{}, len(h))
	out := make(History, 0, len(h))
	for _, d := range h {
		if _, ok := seen[d.No]; ok {
			continue
		}
		seen[d.No] = struct{}{}
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].No < out[j].No })
	return out
}

// Validate validates every draw and rejects duplicate draw numbers.
func (h History) Validate() error {
	seen := make(map[int]struct{}, len(h))
	for _, d := range h {
		if err := d.Validate(); err != nil {
			return err
		}
		if _, ok := seen[d.No]; ok {
			return fmt.Errorf("%w: %d", core.ErrDuplicateDraw, d.No)
		}
		seen[d.No] = struct{}{}
	}
	return nil
}

// Tail returns the last n draws (all of them when n <= 0 or n >= len).
func (h History) Tail(n int) History {
	if n <= 0 || n >= len(h) {
		return h
	}
	return h[len(h)-n:]
}

// Window returns draws whose numbers fall in [lo, hi].
func (h History) Window(lo, hi int) History {
	out := make(History, 0)
	for _, d := range h {
		if d.No >= lo && d.No <= hi {
			out = append(out, d)
		}
	}
	return out
}

// Latest returns the most recent draw.
func (h History) Latest() (Draw, bool) {
	if len(h) == 0 {
		return Draw{}, false
	}
	return h[len(h)-1], true
}

// ContentHash is a sha256 over a canonical binary encoding of the history.
// Dates are excluded: they carry no statistical content.
func (h History) ContentHash() core.Hash {
	buf := make([]byte, 0, len(h)*(MainCount+2)*4)
	for _, d := range h {
		buf = binary.BigEndian.AppendUint32(buf, uint32(d.No))
		for _, n := range d.Numbers {
			buf = binary.BigEndian.AppendUint32(buf, uint32(n))
		}
		buf = binary.BigEndian.AppendUint32(buf, uint32(d.Bonus))
	}
	return core.NewHash(buf)
}
