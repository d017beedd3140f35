package query

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Default page size and offset used when the request does not supply
// usable values.
const (
	DefaultLimit  = 10
	DefaultOffset = 0
	// MaxLimit caps the page size.
	MaxLimit = 1000
)

// Sort is an ORDER BY column and direction.
type Sort struct {
	Field string
	Desc  bool
}

// Columns maps the sort names a client may use to the SQL expression each
// one orders by.
type Columns map[string]string

// Options are the raw sort and pagination parameters of a list request.
type Options struct {
	Sort  string
	Order string
	Page  Page
}

// ResolveSort looks field up in allowed and falls back to the column of def
// when it is not there. Only the token "desc" (any case) sorts descending.
func ResolveSort(field, order string, allowed Columns, def string) Sort {
	column, ok := allowed[strings.TrimSpace(field)]
	if !ok {
		column = allowed[def]
	}
	return Sort{Field: column, Desc: strings.EqualFold(strings.TrimSpace(order), "desc")}
}

// Clause renders the ORDER BY clause.
func (s Sort) Clause() string {
	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s", s.Field, dir)
}

// Page is a LIMIT/OFFSET window.
type Page struct {
	Limit  int
	Offset int
}

// ParsePage reads raw limit and offset parameters. Absent, non-numeric and
// negative values fall back to the defaults; limits above MaxLimit are
// lowered to it.
func ParsePage(limit, offset string) Page {
	p := Page{
		Limit:  parseNonNegative(limit, DefaultLimit),
		Offset: parseNonNegative(offset, DefaultOffset),
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

func parseNonNegative(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return def
	}
	return n
}

// Meta is the pagination metadata returned with a page of rows.
type Meta struct {
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
	Total      int64 `json:"total"`
	Count      int   `json:"count"`
	HasMore    bool  `json:"hasMore"`
	Page       int   `json:"page"`
	TotalPages int   `json:"totalPages"`
}

// NewMeta derives pagination metadata for count rows of a total-row result.
func NewMeta(p Page, total int64, count int) Meta {
	m := Meta{
		Limit:   p.Limit,
		Offset:  p.Offset,
		Total:   total,
		Count:   count,
		HasMore: hasMore(p, total),
		Page:    1,
	}
	if p.Limit > 0 {
		m.Page = p.Offset/p.Limit + 1
		m.TotalPages = int(math.Ceil(float64(total) / float64(p.Limit)))
	}
	return m
}

// hasMore reports offset + limit < total without overflowing.
func hasMore(p Page, total int64) bool {
	offset, limit := int64(p.Offset), int64(p.Limit)
	if offset >= total {
		return false
	}
	return limit < total-offset
}

// Select describes a filtered, sorted and paginated read from one source.
// Count and Rows render from the same Filter, so the predicates and their
// arguments are identical in both statements.
type Select struct {
	Columns string
	From    string
	Filter  *Filter
	GroupBy string
	Sort    Sort
	Page    Page
}

// Count renders the total-row statement. It carries no ORDER BY or
// LIMIT/OFFSET so the total covers the whole filtered set.
func (s Select) Count() (string, []interface{}) {
	where, args := s.filter().Clause()
	if s.GroupBy != "" {
		return fmt.Sprintf("SELECT COUNT(*) AS total FROM (SELECT 1 FROM %s %s GROUP BY %s) grouped", s.From, where, s.GroupBy), args
	}
	return fmt.Sprintf("SELECT COUNT(*) AS total FROM %s %s", s.From, where), args
}

// Rows renders the page statement. Limit and offset are bound last.
func (s Select) Rows() (string, []interface{}) {
	where, args := s.filter().Clause()
	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s %s", s.Columns, s.From, where)
	if s.GroupBy != "" {
		sb.WriteString(" GROUP BY " + s.GroupBy)
	}
	sb.WriteString(" " + s.Sort.Clause())
	sb.WriteString(" LIMIT ? OFFSET ?")
	args = append(args, s.Page.Limit, s.Page.Offset)
	return sb.String(), args
}

func (s Select) filter() *Filter {
	if s.Filter == nil {
		return NewFilter()
	}
	return s.Filter
}
