package repository

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/bizmitra/backoffice-backend/internal/model"
)

// FilterStrategy selects how a filter value is compared against its column
type FilterStrategy int

const (
	// FilterContains matches case-insensitive substrings (ILIKE %v%)
	FilterContains FilterStrategy = iota
	// FilterEquals matches the column value exactly
	FilterEquals
)

// FilterField binds one allow-listed filter key to a column and a strategy
type FilterField struct {
	Column   string
	Strategy FilterStrategy
}

// ListDefinition declares how one entity is listed: table and columns, the
// columns the free-text "search" key fans out over, and the other legal
// filter keys. Adding a filter to an entity is a change to its definition,
// not new control flow.
type ListDefinition struct {
	Table         string
	Columns       []string
	Joins         []string // LEFT JOIN clauses for one-hop display relations
	SearchColumns []string // OR-group targets for the "search" key
	Filters       map[string]FilterField
	DefaultOrder  string
	SoftDelete    bool // exclude rows where <table>.deleted_at is set
}

// searchKey is the one filter key with fan-out semantics
const searchKey = "search"

// Use PostgreSQL placeholder format ($1, $2, etc.)
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// listConditions translates the normalized filters into a WHERE tree: the
// search OR-group AND-ed with every other active filter. Keys outside the
// definition are never consulted, so a stray key cannot reach the query.
func listConditions(def ListDefinition, filters model.FilterSpec) sq.And {
	conditions := sq.And{}

	if def.SoftDelete {
		conditions = append(conditions, sq.Eq{def.Table + ".deleted_at": nil})
	}

	if search := filters[searchKey]; search != "" && len(def.SearchColumns) > 0 {
		searchPattern := "%" + search + "%"
		searchCondition := sq.Or{}
		for _, col := range def.SearchColumns {
			searchCondition = append(searchCondition, sq.ILike{col: searchPattern})
		}
		conditions = append(conditions, searchCondition)
	}

	for key, field := range def.Filters {
		value := filters[key]
		if value == "" {
			continue
		}
		switch field.Strategy {
		case FilterContains:
			conditions = append(conditions, sq.ILike{field.Column: "%" + value + "%"})
		case FilterEquals:
			conditions = append(conditions, sq.Eq{field.Column: value})
		}
	}

	return conditions
}

// buildListQueries compiles a definition plus filters into a count query and
// a page select for the given 1-indexed page
func buildListQueries(def ListDefinition, filters model.FilterSpec, page int) (string, []interface{}, string, []interface{}, error) {
	conditions := listConditions(def, filters)

	// Count runs against the base table only; filters never reference
	// joined columns.
	countQuery := psql.Select("COUNT(*)").From(def.Table)
	if len(conditions) > 0 {
		countQuery = countQuery.Where(conditions)
	}

	countSQL, countArgs, err := countQuery.ToSql()
	if err != nil {
		return "", nil, "", nil, fmt.Errorf("failed to build count query: %w", err)
	}

	selectQuery := psql.Select(def.Columns...).From(def.Table)
	for _, join := range def.Joins {
		selectQuery = selectQuery.LeftJoin(join)
	}
	if len(conditions) > 0 {
		selectQuery = selectQuery.Where(conditions)
	}

	offset := (page - 1) * model.PageSize
	selectQuery = selectQuery.
		OrderBy(def.DefaultOrder).
		Limit(uint64(model.PageSize)).
		Offset(uint64(offset))

	selectSQL, selectArgs, err := selectQuery.ToSql()
	if err != nil {
		return "", nil, "", nil, fmt.Errorf("failed to build select query: %w", err)
	}

	return countSQL, countArgs, selectSQL, selectArgs, nil
}

// runListQuery executes the count+select pair. rows is nil when nothing
// matched (including pages past the end); callers must check before
// iterating.
func (q *Queries) runListQuery(ctx context.Context, def ListDefinition, filters model.FilterSpec, page int) (int64, *sql.Rows, error) {
	countSQL, countArgs, selectSQL, selectArgs, err := buildListQueries(def, filters, page)
	if err != nil {
		return 0, nil, err
	}

	var totalCount int64
	if err := q.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&totalCount); err != nil {
		return 0, nil, fmt.Errorf("failed to execute count query: %w", err)
	}

	if totalCount == 0 {
		return 0, nil, nil
	}

	rows, err := q.db.QueryContext(ctx, selectSQL, selectArgs...)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to execute select query: %w", err)
	}

	return totalCount, rows, nil
}

// NullStringToPtr converts sql.NullString to *string
func NullStringToPtr(ns sql.NullString) *string {
	if ns.Valid {
		return &ns.String
	}
	return nil
}

// NullInt64ToPtr converts sql.NullInt64 to *int64
func NullInt64ToPtr(ni sql.NullInt64) *int64 {
	if ni.Valid {
		return &ni.Int64
	}
	return nil
}
