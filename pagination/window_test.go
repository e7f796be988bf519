package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndSaturates(t *testing.T) {
	assert.Equal(t, 15, End(5, 10))
	assert.Equal(t, math.MaxInt, End(5, math.MaxInt))
	assert.Equal(t, math.MaxInt, End(math.MaxInt-1, 2))
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name          string
		size, off, lm int
		from, to      int
	}{
		{"inside", 10, 2, 3, 2, 5},
		{"past end", 10, 12, 3, 10, 10},
		{"truncated", 10, 8, 5, 8, 10},
		{"unbounded", 10, 0, math.MaxInt, 0, 10},
		{"empty list", 0, 0, 10, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to := Clamp(tt.size, tt.off, tt.lm)
			assert.Equal(t, tt.from, from)
			assert.Equal(t, tt.to, to)
		})
	}
	assert.Equal(t, 2, Count(10, 8, 5))
	assert.Equal(t, 0, Count(3, 3, 1))
}

func TestSplitOverlay(t *testing.T) {
	tests := []struct {
		name                   string
		overlay, offset, limit int
		want                   Split
	}{
		{
			name: "no overlay", overlay: 0, offset: 4, limit: 2,
			want: Split{BackingOffset: 4, BackingLimit: 2, Backing: true},
		},
		{
			name: "overlay only", overlay: 3, offset: 0, limit: 2,
			want: Split{OverlayFrom: 0, OverlayTo: 2},
		},
		{
			name: "exactly the overlay", overlay: 2, offset: 0, limit: 2,
			want: Split{OverlayFrom: 0, OverlayTo: 2},
		},
		{
			name: "backing only", overlay: 2, offset: 3, limit: 4,
			want: Split{OverlayFrom: 2, OverlayTo: 2, BackingOffset: 1, BackingLimit: 4, Backing: true},
		},
		{
			name: "straddles", overlay: 2, offset: 1, limit: 4,
			want: Split{OverlayFrom: 1, OverlayTo: 2, BackingOffset: 0, BackingLimit: 3, Backing: true},
		},
		{
			name: "unbounded limit", overlay: 1, offset: 0, limit: math.MaxInt,
			want: Split{OverlayFrom: 0, OverlayTo: 1, BackingOffset: 0, BackingLimit: math.MaxInt - 1, Backing: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitOverlay(tt.overlay, tt.offset, tt.limit))
		})
	}
}

func TestConcatAcrossLists(t *testing.T) {
	sizes := []int{3, 5}
	spans := Concat(len(sizes), func(i int) int { return sizes[i] }, 2, 4)
	require.Len(t, spans, 2)
	assert.Equal(t, Span{Index: 0, From: 2, To: 3}, spans[0])
	assert.Equal(t, Span{Index: 1, From: 0, To: 3}, spans[1])
	assert.Equal(t, 4, Total(spans))
}

func TestConcatStopsSizingOnceSatisfied(t *testing.T) {
	sizes := []int{4, 0, 2, 7}
	var sized []int
	spans := Concat(len(sizes), func(i int) int {
		sized = append(sized, i)
		return sizes[i]
	}, 1, 4)

	assert.Equal(t, []int{0, 1, 2}, sized)
	assert.Equal(t, []Span{{Index: 0, From: 1, To: 4}, {Index: 2, From: 0, To: 1}}, spans)
}

func TestConcatPastEnd(t *testing.T) {
	sizes := []int{1, 1}
	assert.Empty(t, Concat(2, func(i int) int { return sizes[i] }, 5, 3))
	assert.Empty(t, Concat(2, func(i int) int { return sizes[i] }, 0, 0))
}
