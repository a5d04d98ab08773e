package query

import (
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *Descriptor {
	t.Helper()
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	d, err := Parse(values)
	require.NoError(t, err)
	return d
}

func TestParse_Defaults(t *testing.T) {
	d := mustParse(t, "")

	assert.Empty(t, d.Filters)
	assert.Empty(t, d.Projection)
	assert.Equal(t, []SortKey{{Field: "createdAt", Descending: true}}, d.Sort)
	assert.Equal(t, 1, d.Page)
	assert.Equal(t, 100, d.Limit)
	assert.Equal(t, 0, d.StartIndex())
	assert.Equal(t, 100, d.EndIndex())
}

func TestParse_FilterCountMatchesParams(t *testing.T) {
	d := mustParse(t, "housing=true&averageCost[lte]=10000&location.state=MA&careers[in]=Business,UI%2FUX")

	require.Len(t, d.Filters, 4)
	assert.Equal(t, []Clause{
		{Field: "averageCost", Op: OpLte, Value: int64(10000)},
		{Field: "careers", Op: OpIn, Value: []interface{}{"Business", "UI/UX"}},
		{Field: "housing", Op: OpEq, Value: true},
		{Field: "location.state", Op: OpEq, Value: "MA"},
	}, d.Filters)
}

func TestParse_ReservedParamsNeverFilter(t *testing.T) {
	d := mustParse(t, "select=name,description&sort=-averageCost,name&page=3&limit=5&name=Devworks")

	require.Len(t, d.Filters, 1)
	assert.Equal(t, "name", d.Filters[0].Field)
	assert.Equal(t, []string{"name", "description"}, d.Projection)
	assert.Equal(t, []SortKey{
		{Field: "averageCost", Descending: true},
		{Field: "name"},
	}, d.Sort)
	assert.Equal(t, 3, d.Page)
	assert.Equal(t, 5, d.Limit)
}

func TestParse_InSetKeepsOrder(t *testing.T) {
	d := mustParse(t, "category[in]=a,b,c")

	require.Len(t, d.Filters, 1)
	assert.Equal(t, Clause{Field: "category", Op: OpIn, Value: []interface{}{"a", "b", "c"}}, d.Filters[0])
}

func TestParse_Operators(t *testing.T) {
	d := mustParse(t, "a[gt]=1&b[gte]=2.5&c[lt]=-3&d[lte]=4")

	ops := map[string]Operator{}
	for _, c := range d.Filters {
		ops[c.Field] = c.Op
	}
	assert.Equal(t, map[string]Operator{"a": OpGt, "b": OpGte, "c": OpLt, "d": OpLte}, ops)
	assert.Equal(t, 2.5, d.Filters[1].Value)
	assert.Equal(t, int64(-3), d.Filters[2].Value)
}

func TestParse_UnknownReservedLikeNamesAreFilters(t *testing.T) {
	d := mustParse(t, "pages=2&selected=x&limits=1")

	assert.Len(t, d.Filters, 3)
	assert.Equal(t, 1, d.Page)
	assert.Equal(t, 100, d.Limit)
}

func TestParse_PaginationFallsBackToDefaults(t *testing.T) {
	tests := []struct {
		raw   string
		page  int
		limit int
	}{
		{"page=abc&limit=xyz", 1, 100},
		{"page=0&limit=-4", 1, 100},
		{"page=-1&limit=0", 1, 100},
		{"page=2&limit=25", 2, 25},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			d := mustParse(t, tt.raw)
			assert.Equal(t, tt.page, d.Page)
			assert.Equal(t, tt.limit, d.Limit)
		})
	}
}

func TestParse_PaginationOverflow(t *testing.T) {
	tests := []struct {
		raw   string
		page  int
		limit int
	}{
		{"page=922337203685477581&limit=100", MaxPage, 100},
		{"page=2&limit=9223372036854775807", 2, MaxLimit},
		{"page=9223372036854775807&limit=9223372036854775807", MaxPage, MaxLimit},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			d := mustParse(t, tt.raw)
			assert.Equal(t, tt.page, d.Page)
			assert.Equal(t, tt.limit, d.Limit)
			assert.GreaterOrEqual(t, d.StartIndex(), 0)
			assert.Greater(t, d.EndIndex(), d.StartIndex())

			p := d.Paginate(250)
			assert.Nil(t, p.Next)
			assert.NotNil(t, p.Prev)
		})
	}

	d := mustParse(t, "page=99999999999999999999999")
	assert.Equal(t, DefaultPage, d.Page)
}

func TestParse_Errors(t *testing.T) {
	tests := []string{
		"price[between]=1",
		"price[gt=1",
		"price]=1",
		"[gt]=1",
		"careers[in]=",
		"price[gte]=",
		"$where=1",
	}
	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			values, err := url.ParseQuery(raw)
			require.NoError(t, err)

			_, err = Parse(values)
			var pe *ParseError
			require.True(t, errors.As(err, &pe), "expected ParseError, got %v", err)
		})
	}
}

func TestCoerce(t *testing.T) {
	assert.Equal(t, int64(42), coerce("42"))
	assert.Equal(t, 0.75, coerce("0.75"))
	assert.Equal(t, "02118", coerce("02118"))
	assert.Equal(t, "1e3", coerce("1e3"))
	assert.Equal(t, "NaN", coerce("NaN"))
	assert.Equal(t, false, coerce("false"))
	assert.Equal(t, "True", coerce("True"))
}

func TestPaginate(t *testing.T) {
	d := mustParse(t, "page=2&limit=100")

	assert.Equal(t, 100, d.StartIndex())
	assert.Equal(t, 200, d.EndIndex())

	p := d.Paginate(250)
	require.NotNil(t, p.Next)
	require.NotNil(t, p.Prev)
	assert.Equal(t, PageRef{Page: 3, Limit: 100}, *p.Next)
	assert.Equal(t, PageRef{Page: 1, Limit: 100}, *p.Prev)
}

func TestPaginate_Boundaries(t *testing.T) {
	first := mustParse(t, "page=1&limit=10")
	p := first.Paginate(35)
	assert.Nil(t, p.Prev)
	assert.NotNil(t, p.Next)

	last := mustParse(t, "page=4&limit=10")
	p = last.Paginate(35)
	assert.Nil(t, p.Next)
	assert.NotNil(t, p.Prev)

	exact := mustParse(t, "page=2&limit=10")
	assert.Nil(t, exact.Paginate(20).Next)

	empty := mustParse(t, "")
	assert.Equal(t, Pagination{}, empty.Paginate(0))
}

func TestWith_DoesNotMutateReceiver(t *testing.T) {
	d := mustParse(t, "title=Intro")
	scoped := d.With(Clause{Field: "bootcamp", Op: OpEq, Value: "abc"})

	assert.Len(t, d.Filters, 1)
	assert.Len(t, scoped.Filters, 2)
	assert.Equal(t, d.Page, scoped.Page)
}

func TestDescriptor_JSON(t *testing.T) {
	d := mustParse(t, "careers[in]=a,b&select=name")

	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"filters":[{"field":"careers","op":"in","value":["a","b"]}],
		"projection":["name"],
		"sort":[{"field":"createdAt","descending":true}],
		"page":1,
		"limit":100
	}`, string(raw))
}
