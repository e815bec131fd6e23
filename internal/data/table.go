package data

import (
	"sort"
	"strconv"
	"strings"
)

// Record is a typed row that can be listed in id order.
type Record interface {
	Key() string
	Fields() []string
	Row() Row
}

// Table holds the records of one section in source order, indexed by key.
type Table[T Record] struct {
	rows  []T
	byKey map[string]T
}

// NewTable indexes rows. On duplicate keys the later row wins the index but
// both stay in All.
func NewTable[T Record](rows []T) *Table[T] {
	t := &Table[T]{rows: rows, byKey: make(map[string]T, len(rows))}
	for _, r := range rows {
		t.byKey[r.Key()] = r
	}
	return t
}

// Get returns a record by key.
func (t *Table[T]) Get(key string) (T, bool) {
	r, ok := t.byKey[strings.TrimSpace(key)]
	return r, ok
}

// Count returns the number of loaded records.
func (t *Table[T]) Count() int { return len(t.rows) }

// All returns the records in source order.
func (t *Table[T]) All() []T { return t.rows }

// Sorted returns the records ordered by numeric key. Non-numeric keys sort
// after numeric ones, by string.
func (t *Table[T]) Sorted() []T {
	out := make([]T, len(t.rows))
	copy(out, t.rows)
	sort.SliceStable(out, func(i, j int) bool {
		return keyLess(out[i].Key(), out[j].Key())
	})
	return out
}

func keyLess(a, b string) bool {
	na, ea := strconv.Atoi(a)
	nb, eb := strconv.Atoi(b)
	switch {
	case ea == nil && eb == nil:
		return na < nb
	case ea == nil:
		return true
	case eb == nil:
		return false
	}
	return a < b
}
