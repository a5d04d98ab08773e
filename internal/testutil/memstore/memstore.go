// Package memstore holds in-memory repositories for tests. Listing honours
// equality filters on the fields each store exposes through its field map and
// applies pagination; sorting is by insertion order.
package memstore

import (
	"fmt"
	"sync"
	"sync/atomic"

	"bootcamp-directory/pkg/query"
)

var seq atomic.Uint64

// NewID returns a unique 24 character hex id.
func NewID() string {
	return fmt.Sprintf("%024x", seq.Add(1))
}

type store[T any] struct {
	mu    sync.Mutex
	items []*T
}

func (s *store[T]) find(match func(*T) bool) *T {
	for _, it := range s.items {
		if match(it) {
			return it
		}
	}
	return nil
}

func (s *store[T]) remove(match func(*T) bool) int {
	kept := s.items[:0]
	removed := 0
	for _, it := range s.items {
		if match(it) {
			removed++
			continue
		}
		kept = append(kept, it)
	}
	s.items = kept
	return removed
}

// page applies eq clauses through fields, then the descriptor's window.
func page[T any](items []*T, q *query.Descriptor, fields func(*T) map[string]interface{}, clone func(*T) *T) ([]*T, int64) {
	var matched []*T
	for _, it := range items {
		if matches(fields(it), q.Filters) {
			matched = append(matched, clone(it))
		}
	}

	total := int64(len(matched))
	start, end := q.StartIndex(), q.EndIndex()
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total
}

func matches(values map[string]interface{}, clauses []query.Clause) bool {
	for _, c := range clauses {
		v, ok := values[c.Field]
		if !ok {
			continue
		}
		switch c.Op {
		case query.OpEq:
			if fmt.Sprint(v) != fmt.Sprint(c.Value) {
				return false
			}
		case query.OpIn:
			set, _ := c.Value.([]interface{})
			found := false
			for _, s := range set {
				if fmt.Sprint(v) == fmt.Sprint(s) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}
