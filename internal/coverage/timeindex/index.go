package timeindex

import (
	"sort"
	"time"

	"github.com/oceanridge/coverage-engine/internal/coverage/model"
)

// ResultKind distinguishes an exact center-time match from an insertion
// point between two entries.
type ResultKind int

const (
	// Exact means entries[Index] has a center time equal to the searched instant.
	Exact ResultKind = iota
	// Insertion means Index is where the instant would be inserted to keep
	// the index sorted; it may equal Len().
	Insertion
)

// SearchResult is the outcome of Search.
type SearchResult struct {
	Kind  ResultKind
	Index int
}

type entry struct {
	descriptor model.Descriptor
	centerTime time.Time
	timeless   bool
}

// Index is an immutable, binary-searchable ordering of descriptors by
// center time. Safe for concurrent reads once built.
type Index struct {
	entries []entry
	// firstReal is the count of leading Timeless entries; entries[firstReal:]
	// are sorted ascending by centerTime.
	firstReal int
}

// New builds an Index over descriptors. Timeless descriptors are sorted to
// the front in their original relative order; the remainder are sorted
// ascending by center time, ties broken by original order (stable).
func New(descriptors []model.Descriptor) *Index {
	entries := make([]entry, len(descriptors))
	for i, d := range descriptors {
		ct := d.CenterTime()
		entries[i] = entry{descriptor: d, centerTime: ct, timeless: model.IsTimeless(ct)}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].timeless != entries[j].timeless {
			return entries[i].timeless
		}
		if entries[i].timeless {
			return false
		}
		return entries[i].centerTime.Before(entries[j].centerTime)
	})
	firstReal := 0
	for firstReal < len(entries) && entries[firstReal].timeless {
		firstReal++
	}
	return &Index{entries: entries, firstReal: firstReal}
}

// Len returns the total number of indexed descriptors, timeless included.
func (ix *Index) Len() int { return len(ix.entries) }

// FirstRealIndex returns the number of leading Timeless entries, i.e. the
// index of the first entry with a real center time (or Len() if none).
func (ix *Index) FirstRealIndex() int { return ix.firstReal }

// Descriptor returns the descriptor at i.
func (ix *Index) Descriptor(i int) model.Descriptor { return ix.entries[i].descriptor }

// CenterTime returns the derived center time at i.
func (ix *Index) CenterTime(i int) time.Time { return ix.entries[i].centerTime }

// TimeRange returns the descriptor's time range at i, if it has one.
func (ix *Index) TimeRange(i int) (model.TimeRange, bool) { return ix.entries[i].descriptor.TimeRange() }

// Search locates instant among the real (non-timeless) entries via binary
// search. Timeless entries never match and are skipped; an instant searched
// against an index holding only timeless entries always reports
// Insertion(Len()).
func (ix *Index) Search(instant time.Time) SearchResult {
	n := len(ix.entries)
	idx := sort.Search(n, func(i int) bool {
		if ix.entries[i].timeless {
			return false
		}
		return !ix.entries[i].centerTime.Before(instant)
	})
	if idx < n && !ix.entries[idx].timeless && ix.entries[idx].centerTime.Equal(instant) {
		return SearchResult{Kind: Exact, Index: idx}
	}
	return SearchResult{Kind: Insertion, Index: idx}
}

// NearestReal returns the index of the real entry whose center time is
// closest to instant, ties broken toward the later frame. ok is false when
// the index holds no real entries at all.
func (ix *Index) NearestReal(instant time.Time) (idx int, centerTime time.Time, ok bool) {
	if ix.firstReal == len(ix.entries) {
		return 0, time.Time{}, false
	}
	res := ix.Search(instant)
	if res.Kind == Exact {
		return res.Index, ix.entries[res.Index].centerTime, true
	}
	hi := res.Index
	lo := hi - 1
	switch {
	case lo < ix.firstReal:
		return hi, ix.entries[hi].centerTime, true
	case hi >= len(ix.entries):
		return lo, ix.entries[lo].centerTime, true
	default:
		loDelta := instant.Sub(ix.entries[lo].centerTime)
		hiDelta := ix.entries[hi].centerTime.Sub(instant)
		if hiDelta <= loDelta {
			return hi, ix.entries[hi].centerTime, true
		}
		return lo, ix.entries[lo].centerTime, true
	}
}
