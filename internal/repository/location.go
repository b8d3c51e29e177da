package repository

import (
	"context"
	"fmt"

	"github.com/bizmitra/backoffice-backend/internal/model"
)

const listStates = `
SELECT id, name, country_id FROM states ORDER BY name ASC
`

// ListStates returns every state in the lightweight dropdown shape. Callers
// cache this; state reference data effectively never changes.
func (q *Queries) ListStates(ctx context.Context) ([]model.StateOption, error) {
	rows, err := q.db.QueryContext(ctx, listStates)
	if err != nil {
		return nil, fmt.Errorf("failed to list states: %w", err)
	}
	defer rows.Close()

	states := []model.StateOption{}
	for rows.Next() {
		var s model.StateOption
		if err := rows.Scan(&s.ID, &s.Name, &s.CountryID); err != nil {
			return nil, fmt.Errorf("failed to scan state row: %w", err)
		}
		states = append(states, s)
	}
	return states, rows.Err()
}

const listCitiesByState = `
SELECT id, name, state_id FROM cities WHERE state_id = $1 ORDER BY name ASC
`

// ListCitiesByState returns the cities belonging to one state. An unknown
// state id yields an empty slice, not an error; existence checks belong to
// the transport layer.
func (q *Queries) ListCitiesByState(ctx context.Context, stateID int64) ([]model.CityOption, error) {
	rows, err := q.db.QueryContext(ctx, listCitiesByState, stateID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}
	defer rows.Close()

	cities := []model.CityOption{}
	for rows.Next() {
		var c model.CityOption
		if err := rows.Scan(&c.ID, &c.Name, &c.StateID); err != nil {
			return nil, fmt.Errorf("failed to scan city row: %w", err)
		}
		cities = append(cities, c)
	}
	return cities, rows.Err()
}

const stateExists = `
SELECT EXISTS(SELECT 1 FROM states WHERE id = $1)
`

// StateExists reports whether a state id references an existing state
func (q *Queries) StateExists(ctx context.Context, stateID int64) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx, stateExists, stateID).Scan(&exists)
	return exists, err
}

const cityBelongsToState = `
SELECT EXISTS(SELECT 1 FROM cities WHERE id = $1 AND state_id = $2)
`

// CityBelongsToState reports whether cityID is a city of stateID. Used to
// reject submissions where the selected city drifted from the selected
// state.
func (q *Queries) CityBelongsToState(ctx context.Context, cityID, stateID int64) (bool, error) {
	var ok bool
	err := q.db.QueryRowContext(ctx, cityBelongsToState, cityID, stateID).Scan(&ok)
	return ok, err
}
