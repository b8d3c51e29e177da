package repository

import (
	"context"
	"database/sql"
)

// DBTX is the minimal query interface, satisfied by both *sql.DB and *sql.Tx
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// New creates a Queries instance bound to db
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Queries holds all database operations
type Queries struct {
	db DBTX
}

// GetDB returns the underlying database connection for custom queries
func (q *Queries) GetDB() DBTX {
	return q.db
}
