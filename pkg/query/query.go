// Package query turns a REST query string into a store-agnostic Descriptor:
// filter clauses, projection, sort keys and pagination.
//
// Filters use the form field=value for equality or field[op]=value where op is
// one of gt, gte, lt, lte or in. The parameters select, sort, page and limit are
// reserved and never become filters.
package query

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	ParamSelect = "select"
	ParamSort   = "sort"
	ParamPage   = "page"
	ParamLimit  = "limit"

	DefaultPage  = 1
	DefaultLimit = 100

	// MaxLimit caps page size. MaxPage keeps page*limit within 32 bits so
	// skip values stay non-negative on every platform.
	MaxLimit = 1000
	MaxPage  = math.MaxInt32 / MaxLimit

	// CreatedAtField is the default sort key, newest first.
	CreatedAtField = "createdAt"
)

// Operator is a comparison applied by a filter clause.
type Operator string

const (
	OpEq  Operator = "eq"
	OpGt  Operator = "gt"
	OpGte Operator = "gte"
	OpLt  Operator = "lt"
	OpLte Operator = "lte"
	OpIn  Operator = "in"
)

var suffixOperators = map[Operator]struct{}{
	OpGt:  {},
	OpGte: {},
	OpLt:  {},
	OpLte: {},
	OpIn:  {},
}

var (
	intPattern   = regexp.MustCompile(`^-?(0|[1-9][0-9]*)$`)
	floatPattern = regexp.MustCompile(`^-?(0|[1-9][0-9]*)\.[0-9]+$`)
)

// Clause is a single filter predicate. For OpIn, Value holds a
// []interface{} in the order the values were given.
type Clause struct {
	Field string      `json:"field"`
	Op    Operator    `json:"op"`
	Value interface{} `json:"value"`
}

// SortKey orders results by one field.
type SortKey struct {
	Field      string `json:"field"`
	Descending bool   `json:"descending"`
}

// Descriptor is the request-scoped result of parsing a query string. Filters
// are conjoined. An empty Projection means all fields.
type Descriptor struct {
	Filters    []Clause  `json:"filters"`
	Projection []string  `json:"projection,omitempty"`
	Sort       []SortKey `json:"sort"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
}

// PageRef points at a neighbouring page.
type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination is returned next to a page of results.
type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// ParseError reports a query parameter that could not be turned into a clause.
type ParseError struct {
	Param  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid query parameter %q: %s", e.Param, e.Reason)
}

// Parse builds a Descriptor from raw query parameters. When a parameter is
// repeated the last value wins.
func Parse(values url.Values) (*Descriptor, error) {
	d := &Descriptor{
		Page:  DefaultPage,
		Limit: DefaultLimit,
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		vals := values[key]
		if len(vals) == 0 {
			continue
		}
		raw := vals[len(vals)-1]

		switch key {
		case ParamSelect:
			d.Projection = splitList(raw)
		case ParamSort:
			d.Sort = parseSort(raw)
		case ParamPage:
			d.Page = min(positiveInt(raw, DefaultPage), MaxPage)
		case ParamLimit:
			d.Limit = min(positiveInt(raw, DefaultLimit), MaxLimit)
		default:
			clause, err := parseClause(key, raw)
			if err != nil {
				return nil, err
			}
			d.Filters = append(d.Filters, clause)
		}
	}

	if len(d.Sort) == 0 {
		d.Sort = []SortKey{{Field: CreatedAtField, Descending: true}}
	}

	return d, nil
}

// Default returns the descriptor of an empty query string.
func Default() *Descriptor {
	d, _ := Parse(url.Values{})
	return d
}

// With returns a copy of d with an extra clause, used to scope a listing
// (for example to one bootcamp) regardless of what the caller asked for.
func (d *Descriptor) With(clause Clause) *Descriptor {
	cp := *d
	cp.Filters = append(append([]Clause(nil), d.Filters...), clause)
	return &cp
}

// StartIndex is the number of matching documents skipped before this page.
func (d *Descriptor) StartIndex() int {
	return (d.Page - 1) * d.Limit
}

// EndIndex is the exclusive upper bound of this page.
func (d *Descriptor) EndIndex() int {
	return d.Page * d.Limit
}

// Paginate computes neighbour links given the number of documents matching
// the filters, before pagination.
func (d *Descriptor) Paginate(total int64) Pagination {
	var p Pagination
	if int64(d.EndIndex()) < total {
		p.Next = &PageRef{Page: d.Page + 1, Limit: d.Limit}
	}
	if d.StartIndex() > 0 {
		p.Prev = &PageRef{Page: d.Page - 1, Limit: d.Limit}
	}
	return p
}

func parseClause(key, raw string) (Clause, error) {
	field, op := key, OpEq

	if open := strings.IndexByte(key, '['); open >= 0 {
		if !strings.HasSuffix(key, "]") {
			return Clause{}, &ParseError{Param: key, Reason: "unterminated operator"}
		}
		field = key[:open]
		op = Operator(key[open+1 : len(key)-1])
		if _, ok := suffixOperators[op]; !ok {
			return Clause{}, &ParseError{Param: key, Reason: fmt.Sprintf("unknown operator %q", op)}
		}
	} else if strings.ContainsRune(key, ']') {
		return Clause{}, &ParseError{Param: key, Reason: "unexpected ']'"}
	}

	if field == "" {
		return Clause{}, &ParseError{Param: key, Reason: "missing field name"}
	}
	if strings.ContainsRune(field, '$') {
		return Clause{}, &ParseError{Param: key, Reason: "field names may not contain '$'"}
	}

	if op == OpIn {
		items := splitList(raw)
		if len(items) == 0 {
			return Clause{}, &ParseError{Param: key, Reason: "empty set"}
		}
		set := make([]interface{}, len(items))
		for i, item := range items {
			set[i] = coerce(item)
		}
		return Clause{Field: field, Op: op, Value: set}, nil
	}

	if op != OpEq && strings.TrimSpace(raw) == "" {
		return Clause{}, &ParseError{Param: key, Reason: "missing value"}
	}

	return Clause{Field: field, Op: op, Value: coerce(raw)}, nil
}

func parseSort(raw string) []SortKey {
	fields := splitList(raw)
	keys := make([]SortKey, 0, len(fields))
	for _, f := range fields {
		desc := strings.HasPrefix(f, "-")
		f = strings.TrimPrefix(f, "-")
		if f == "" {
			continue
		}
		keys = append(keys, SortKey{Field: f, Descending: desc})
	}
	return keys
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// positiveInt never fails: bad input falls back to def.
func positiveInt(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// coerce converts canonical numbers and booleans; anything else, including
// numbers with leading zeros such as postal codes, stays a string.
func coerce(raw string) interface{} {
	switch {
	case intPattern.MatchString(raw):
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return n
		}
	case floatPattern.MatchString(raw):
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	case raw == "true":
		return true
	case raw == "false":
		return false
	}
	return raw
}
