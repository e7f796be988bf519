package pagination

import "math"

// End returns offset+limit, saturating at math.MaxInt.
func End(offset, limit int) int {
	if limit > math.MaxInt-offset {
		return math.MaxInt
	}
	return offset + limit
}

// Valid reports whether a window request is well formed.
func Valid(offset, limit int) bool {
	return offset >= 0 && limit >= 0
}

// Clamp restricts the window [offset, offset+limit) to a list of the given size.
// The returned range is empty (from == to) when the window starts past the end.
func Clamp(size, offset, limit int) (from, to int) {
	if size <= 0 || offset >= size {
		return size, size
	}
	if offset < 0 {
		offset = 0
	}
	to = End(offset, limit)
	if to > size {
		to = size
	}
	return offset, to
}

// Count returns how many items of a list of the given size fall in the window.
func Count(size, offset, limit int) int {
	from, to := Clamp(size, offset, limit)
	return to - from
}

// Split describes how a window is served when an overlay of locally added
// items precedes the backing layers in index space.
type Split struct {
	// OverlayFrom and OverlayTo delimit the overlay slice to serve.
	OverlayFrom, OverlayTo int
	// BackingOffset and BackingLimit describe the remaining window on the
	// backing layers. Backing is false when the overlay satisfies the request.
	BackingOffset, BackingLimit int
	Backing                     bool
}

// OverlayCount returns the number of overlay items the split serves.
func (s Split) OverlayCount() int {
	return s.OverlayTo - s.OverlayFrom
}

// SplitOverlay splits the window [offset, offset+limit) across an overlay of
// overlaySize items followed by the backing layers.
func SplitOverlay(overlaySize, offset, limit int) Split {
	if overlaySize <= 0 {
		return Split{BackingOffset: offset, BackingLimit: limit, Backing: true}
	}
	end := End(offset, limit)
	if end <= overlaySize {
		return Split{OverlayFrom: offset, OverlayTo: end}
	}
	if offset >= overlaySize {
		return Split{
			OverlayFrom:   overlaySize,
			OverlayTo:     overlaySize,
			BackingOffset: offset - overlaySize,
			BackingLimit:  limit,
			Backing:       true,
		}
	}
	served := overlaySize - offset
	return Split{
		OverlayFrom:   offset,
		OverlayTo:     overlaySize,
		BackingOffset: 0,
		BackingLimit:  limit - served,
		Backing:       true,
	}
}

// Span is the part of one list taken by a concatenated window.
type Span struct {
	Index    int
	From, To int
}

// Len returns the number of items in the span.
func (s Span) Len() int {
	return s.To - s.From
}

// Concat pages across n lists laid end to end in declaration order. size(i)
// reports the length of list i; it is only called until the window is
// satisfied, so trailing lists are never sized.
func Concat(n int, size func(int) int, offset, limit int) []Span {
	if limit == 0 {
		return nil
	}
	end := End(offset, limit)
	var spans []Span
	base := 0
	for i := 0; i < n && base < end; i++ {
		s := size(i)
		if s <= 0 {
			continue
		}
		top := base + s
		if top > offset {
			lo := max(offset, base) - base
			hi := min(end, top) - base
			if hi > lo {
				spans = append(spans, Span{Index: i, From: lo, To: hi})
			}
		}
		base = top
	}
	return spans
}

// Total sums the lengths of the spans.
func Total(spans []Span) int {
	n := 0
	for _, s := range spans {
		n += s.Len()
	}
	return n
}
