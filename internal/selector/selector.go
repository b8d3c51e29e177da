// Package selector implements the state/city cascade used by forms that
// carry a location pair. Selecting a state clears the city and loads that
// state's cities; responses arriving for a state that is no longer selected
// are discarded.
package selector

import (
	"context"
	"sync"

	"github.com/bizmitra/backoffice-backend/internal/model"
)

// Phase is the lifecycle stage of one selector instance
type Phase int

const (
	// NoState means no state has been chosen yet
	NoState Phase = iota
	// LoadingCities means a state is chosen and its city list is in flight
	LoadingCities
	// CitiesReady means the city option set matches the chosen state
	CitiesReady
)

// CityFetcher loads the city options for one state
type CityFetcher interface {
	CitiesByState(ctx context.Context, stateID int64) ([]model.CityOption, error)
}

// Request identifies one in-flight city fetch. Responses are applied only
// when the request is still the latest one for the currently selected state.
type Request struct {
	StateID int64
	seq     uint64
}

// Selector tracks the state/city pair for a single form instance.
// Safe for concurrent use.
type Selector struct {
	mu      sync.Mutex
	fetcher CityFetcher

	phase   Phase
	stateID int64
	cityID  int64
	cities  []model.CityOption
	lastErr error
	seq     uint64
}

// New creates a selector with no state chosen
func New(fetcher CityFetcher) *Selector {
	return &Selector{fetcher: fetcher, phase: NoState}
}

// SelectState chooses a state and begins loading its cities. Any previously
// selected city is cleared immediately; it is never assumed to stay valid
// across a state change. The caller performs the fetch and hands the result
// to Resolve with the returned Request.
func (s *Selector) SelectState(stateID int64) Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	s.phase = LoadingCities
	s.stateID = stateID
	s.cityID = 0
	s.cities = nil
	s.lastErr = nil

	return Request{StateID: stateID, seq: s.seq}
}

// Resolve applies the outcome of a city fetch. A response whose request is
// no longer the latest for the current state is dropped, so out-of-order
// arrivals cannot overwrite a newer selection. A failed fetch still lands
// the selector in CitiesReady with an empty option set; the error is kept
// for display and cleared on the next state change.
func (s *Selector) Resolve(req Request, cities []model.CityOption, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.seq != s.seq || req.StateID != s.stateID {
		return
	}

	s.phase = CitiesReady
	if err != nil {
		s.cities = nil
		s.lastErr = err
		return
	}
	s.cities = cities
}

// Load runs SelectState and the fetch in one synchronous step
func (s *Selector) Load(ctx context.Context, stateID int64) {
	req := s.SelectState(stateID)
	cities, err := s.fetcher.CitiesByState(ctx, stateID)
	s.Resolve(req, cities, err)
}

// Seed initializes the selector from a stored state/city pair, as when
// editing an existing record. The city is pre-selected only if it still
// belongs to the state; a stale reference leaves the city unselected
// rather than carrying an invalid id into the form.
func (s *Selector) Seed(ctx context.Context, stateID, cityID int64) {
	s.Load(ctx, stateID)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.cities {
		if c.ID == cityID {
			s.cityID = cityID
			return
		}
	}
}

// SelectCity picks a city from the loaded option set. Returns false when
// the selector is not ready or the id is not among the current options.
func (s *Selector) SelectCity(cityID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != CitiesReady {
		return false
	}
	for _, c := range s.cities {
		if c.ID == cityID {
			s.cityID = cityID
			return true
		}
	}
	return false
}

// Phase returns the current lifecycle stage
func (s *Selector) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// StateID returns the selected state id, or 0 when none is selected
func (s *Selector) StateID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateID
}

// CityID returns the selected city id, or 0 when none is selected
func (s *Selector) CityID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cityID
}

// Cities returns the current city option set
func (s *Selector) Cities() []model.CityOption {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.CityOption, len(s.cities))
	copy(out, s.cities)
	return out
}

// Err returns the error from the most recent failed fetch, if any
func (s *Selector) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
