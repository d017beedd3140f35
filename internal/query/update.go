package query

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNothingToUpdate is returned by Update.Build when no field was set.
var ErrNothingToUpdate = errors.New("nothing to update")

// Update collects the assignments of a partial UPDATE statement.
type Update struct {
	sets []Predicate
}

// NewUpdate returns an empty set of assignments.
func NewUpdate() *Update {
	return &Update{}
}

// Set assigns value to column. A nil value writes NULL.
func (u *Update) Set(column string, value interface{}) *Update {
	u.sets = append(u.sets, Predicate{Fragment: column + " = ?", Args: []interface{}{value}})
	return u
}

// Len reports the number of assigned columns.
func (u *Update) Len() int {
	return len(u.sets)
}

// Build renders "UPDATE table SET a = ?, ..., updated_at = ? WHERE id = ?".
// updated_at is always assigned and id is always the last argument.
func (u *Update) Build(table string, id int64, now time.Time) (string, []interface{}, error) {
	if len(u.sets) == 0 {
		return "", nil, ErrNothingToUpdate
	}
	fragments := make([]string, 0, len(u.sets)+1)
	args := make([]interface{}, 0, len(u.sets)+2)
	for _, s := range u.sets {
		fragments = append(fragments, s.Fragment)
		args = append(args, s.Args...)
	}
	fragments = append(fragments, "updated_at = ?")
	args = append(args, now, id)
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(fragments, ", ")), args, nil
}
