package repositories

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a lookup by id matches no row.
var ErrNotFound = errors.New("not found")

// Result reports the outcome of a mutating statement.
type Result struct {
	InsertID     int64
	RowsAffected int64
}

// Gateway executes parameterized SQL. Statements use "?" placeholders and
// params must be given in placeholder order.
type Gateway interface {
	// Query scans the rows of statement into dest, which must be a pointer
	// to a slice, struct or scalar.
	Query(ctx context.Context, dest interface{}, statement string, params ...interface{}) error
	// Run executes a mutating statement. An INSERT ending in "RETURNING id"
	// reports the generated id in Result.InsertID.
	Run(ctx context.Context, statement string, params ...interface{}) (Result, error)
}

// GORMGateway is a Gateway over a *gorm.DB. GORM rewrites the "?"
// placeholders for the active dialect.
type GORMGateway struct {
	db *gorm.DB
}

// NewGORMGateway creates a new GORMGateway.
func NewGORMGateway(db *gorm.DB) *GORMGateway {
	return &GORMGateway{db: db}
}

// Query implements Gateway.
func (g *GORMGateway) Query(ctx context.Context, dest interface{}, statement string, params ...interface{}) error {
	return g.db.WithContext(ctx).Raw(statement, params...).Scan(dest).Error
}

// Run implements Gateway.
func (g *GORMGateway) Run(ctx context.Context, statement string, params ...interface{}) (Result, error) {
	if returnsID(statement) {
		var id int64
		res := g.db.WithContext(ctx).Raw(statement, params...).Scan(&id)
		if res.Error != nil {
			return Result{}, res.Error
		}
		return Result{InsertID: id, RowsAffected: res.RowsAffected}, nil
	}

	res := g.db.WithContext(ctx).Exec(statement, params...)
	if res.Error != nil {
		return Result{}, res.Error
	}
	return Result{RowsAffected: res.RowsAffected}, nil
}

func returnsID(statement string) bool {
	return strings.HasSuffix(strings.ToUpper(strings.TrimSpace(statement)), "RETURNING ID")
}
