package onenote

import (
	"net/url"
	"strconv"
	"strings"
)

// Query holds the OData options accepted by the list endpoints. Empty fields
// are left out of the request.
type Query struct {
	Filter  string
	Select  string
	OrderBy string
	Expand  string
	// Search is a full text search, honored by the pages endpoints only.
	Search string
	Top    int
	Skip   int
}

// Values returns the query as URL parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set("$filter", q.Filter)
	set("$select", q.Select)
	set("$orderby", q.OrderBy)
	set("$expand", q.Expand)
	set("search", q.Search)
	if q.Top > 0 {
		v.Set("$top", strconv.Itoa(q.Top))
	}
	if q.Skip > 0 {
		v.Set("$skip", strconv.Itoa(q.Skip))
	}
	return v
}

// Encode returns "?" followed by the encoded parameters, or "" for an empty query.
func (q Query) Encode() string {
	v := q.Values()
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// ContainsFilter builds a $filter expression matching entities whose field
// contains value.
func ContainsFilter(field, value string) string {
	return "contains(" + field + ",'" + strings.ReplaceAll(value, "'", "''") + "')"
}
