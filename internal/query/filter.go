// Package query assembles parameterized SQL from optional request
// parameters. Statements only ever contain whitelisted identifiers and
// positional placeholders; every caller-supplied value is bound.
package query

import (
	"strings"
)

// Predicate is one SQL condition and the values bound to its placeholders,
// in the order the placeholders appear in Fragment.
type Predicate struct {
	Fragment string
	Args     []interface{}
}

// Filter is an ordered list of predicates joined with AND.
type Filter struct {
	predicates []Predicate
}

// NewFilter returns an empty filter.
func NewFilter() *Filter {
	return &Filter{}
}

// Where appends a predicate.
func (f *Filter) Where(fragment string, args ...interface{}) *Filter {
	f.predicates = append(f.predicates, Predicate{Fragment: fragment, Args: args})
	return f
}

// Contains appends a substring match on column unless term is empty. LIKE
// metacharacters in term match literally.
func (f *Filter) Contains(column, term string) *Filter {
	if term == "" {
		return f
	}
	return f.Where(Like(column), Wildcard(term))
}

// Len reports the number of predicates.
func (f *Filter) Len() int {
	return len(f.predicates)
}

// Clause renders the WHERE clause and its arguments. The clause starts with
// an always-true predicate so an empty filter is still valid SQL.
func (f *Filter) Clause() (string, []interface{}) {
	var (
		sb   strings.Builder
		args []interface{}
	)
	sb.WriteString("WHERE 1 = 1")
	for _, p := range f.predicates {
		sb.WriteString(" AND ")
		sb.WriteString(p.Fragment)
		args = append(args, p.Args...)
	}
	return sb.String(), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Like renders a LIKE predicate on column whose pattern is escaped with a
// backslash, as produced by Wildcard.
func Like(column string) string {
	return column + ` LIKE ? ESCAPE '\'`
}

// Wildcard escapes term and wraps it for substring matching with Like.
func Wildcard(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
