package store

import "fmt"

type closer interface {
	Close()
	Closed() bool
}

// lineage tracks the views derived from a view so closing it closes them too.
type lineage struct {
	children []closer
	closed   bool
}

func (l *lineage) adopt(c closer) {
	live := l.children[:0]
	for _, child := range l.children {
		if !child.Closed() {
			live = append(live, child)
		}
	}
	l.children = append(live, c)
}

func (l *lineage) release() {
	children := l.children
	l.children = nil
	for _, child := range children {
		child.Close()
	}
}

func (l *lineage) Closed() bool {
	return l.closed
}

func (l *lineage) mustBeOpen(kind string) {
	if l.closed {
		panic(fmt.Sprintf("store: read from closed %s view", kind))
	}
}

func clampRange(size, from, to int) (int, int) {
	if from < 0 {
		from = 0
	}
	if to > size {
		to = size
	}
	if from > to {
		from = to
	}
	return from, to
}
