package store

import (
	"slices"

	"github.com/RoaringBitmap/roaring"
)

// sorted is a view over the upstream items in comparator order.
type sorted[T any] struct {
	lineage
	up  View[T]
	pos []int
	inv []int
}

func newSorted[T any](up View[T], cmp func(a, b T) int) *sorted[T] {
	n := up.Size()
	snapshot := up.List(0, n)
	pos := make([]int, n)
	for i := range pos {
		pos[i] = i
	}
	slices.SortStableFunc(pos, func(a, b int) int {
		return cmp(snapshot[a], snapshot[b])
	})
	return &sorted[T]{up: up, pos: pos}
}

func (s *sorted[T]) Size() int {
	s.mustBeOpen("sorted")
	return len(s.pos)
}

func (s *sorted[T]) Get(index int) (T, bool) {
	s.mustBeOpen("sorted")
	if index < 0 || index >= len(s.pos) {
		var zero T
		return zero, false
	}
	return s.up.Get(s.pos[index])
}

func (s *sorted[T]) List(from, to int) []T {
	s.mustBeOpen("sorted")
	from, to = clampRange(len(s.pos), from, to)
	out := make([]T, 0, to-from)
	for i := from; i < to; i++ {
		if item, ok := s.up.Get(s.pos[i]); ok {
			out = append(out, item)
		}
	}
	return out
}

func (s *sorted[T]) IndexOf(id string) int {
	s.mustBeOpen("sorted")
	u := s.up.IndexOf(id)
	if u < 0 {
		return -1
	}
	if s.inv == nil {
		s.inv = make([]int, len(s.pos))
		for i, p := range s.pos {
			s.inv[p] = i
		}
	}
	if u >= len(s.inv) {
		return -1
	}
	return s.inv[u]
}

func (s *sorted[T]) Sort(cmp func(a, b T) int) View[T] {
	s.mustBeOpen("sorted")
	if cmp == nil {
		return s
	}
	v := newSorted[T](s, cmp)
	s.adopt(v)
	return v
}

func (s *sorted[T]) Filter(keep func(T) bool) View[T] {
	s.mustBeOpen("sorted")
	if keep == nil {
		return s
	}
	v := newFiltered[T](s, keep)
	s.adopt(v)
	return v
}

func (s *sorted[T]) Close() {
	if s.closed {
		return
	}
	s.release()
	s.closed = true
	s.pos = nil
	s.inv = nil
}

// filtered is a view over the upstream items accepted by a predicate. The
// accepted upstream positions live in a roaring bitmap, so iteration order is
// upstream order.
type filtered[T any] struct {
	lineage
	up   View[T]
	keep *roaring.Bitmap
}

func newFiltered[T any](up View[T], keep func(T) bool) *filtered[T] {
	bm := roaring.New()
	for i, item := range up.List(0, up.Size()) {
		if keep(item) {
			bm.Add(uint32(i))
		}
	}
	bm.RunOptimize()
	return &filtered[T]{up: up, keep: bm}
}

func (f *filtered[T]) Size() int {
	f.mustBeOpen("filtered")
	return int(f.keep.GetCardinality())
}

func (f *filtered[T]) Get(index int) (T, bool) {
	f.mustBeOpen("filtered")
	if index < 0 || uint64(index) >= f.keep.GetCardinality() {
		var zero T
		return zero, false
	}
	pos, err := f.keep.Select(uint32(index))
	if err != nil {
		var zero T
		return zero, false
	}
	return f.up.Get(int(pos))
}

func (f *filtered[T]) List(from, to int) []T {
	f.mustBeOpen("filtered")
	from, to = clampRange(int(f.keep.GetCardinality()), from, to)
	if from == to {
		return []T{}
	}
	out := make([]T, 0, to-from)
	first, err := f.keep.Select(uint32(from))
	if err != nil {
		return out
	}
	it := f.keep.Iterator()
	it.AdvanceIfNeeded(first)
	for n := to - from; n > 0 && it.HasNext(); n-- {
		if item, ok := f.up.Get(int(it.Next())); ok {
			out = append(out, item)
		}
	}
	return out
}

func (f *filtered[T]) IndexOf(id string) int {
	f.mustBeOpen("filtered")
	u := f.up.IndexOf(id)
	if u < 0 || !f.keep.Contains(uint32(u)) {
		return -1
	}
	return int(f.keep.Rank(uint32(u))) - 1
}

func (f *filtered[T]) Sort(cmp func(a, b T) int) View[T] {
	f.mustBeOpen("filtered")
	if cmp == nil {
		return f
	}
	v := newSorted[T](f, cmp)
	f.adopt(v)
	return v
}

func (f *filtered[T]) Filter(keep func(T) bool) View[T] {
	f.mustBeOpen("filtered")
	if keep == nil {
		return f
	}
	v := newFiltered[T](f, keep)
	f.adopt(v)
	return v
}

func (f *filtered[T]) Close() {
	if f.closed {
		return
	}
	f.release()
	f.closed = true
	f.keep = nil
}
