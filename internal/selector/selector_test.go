package selector

import (
	"context"
	"errors"
	"testing"

	"github.com/bizmitra/backoffice-backend/internal/model"
)

// fakeFetcher serves a fixed state→cities map and counts calls
type fakeFetcher struct {
	cities map[int64][]model.CityOption
	err    error
	calls  int
}

func (f *fakeFetcher) CitiesByState(_ context.Context, stateID int64) ([]model.CityOption, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.cities[stateID], nil
}

func twoStateFetcher() *fakeFetcher {
	return &fakeFetcher{
		cities: map[int64][]model.CityOption{
			1: {
				{ID: 10, Name: "Mumbai", StateID: 1},
				{ID: 11, Name: "Pune", StateID: 1},
			},
			2: {
				{ID: 20, Name: "Ahmedabad", StateID: 2},
			},
		},
	}
}

func TestSelectStateClearsCity(t *testing.T) {
	f := twoStateFetcher()
	s := New(f)

	s.Load(context.Background(), 1)
	if !s.SelectCity(10) {
		t.Fatal("expected city 10 to be selectable")
	}
	if got := s.CityID(); got != 10 {
		t.Fatalf("CityID = %d, want 10", got)
	}

	s.SelectState(2)
	if got := s.CityID(); got != 0 {
		t.Errorf("city not cleared on state change, CityID = %d", got)
	}
	if got := s.Phase(); got != LoadingCities {
		t.Errorf("Phase = %v, want LoadingCities", got)
	}
}

func TestOutOfOrderResponseDiscarded(t *testing.T) {
	f := twoStateFetcher()
	s := New(f)

	// User picks state 1, then changes to state 2 before the first
	// fetch resolves. The slow response for state 1 arrives last.
	reqA := s.SelectState(1)
	reqB := s.SelectState(2)

	s.Resolve(reqB, f.cities[2], nil)
	s.Resolve(reqA, f.cities[1], nil)

	if got := s.StateID(); got != 2 {
		t.Fatalf("StateID = %d, want 2", got)
	}
	cities := s.Cities()
	if len(cities) != 1 || cities[0].ID != 20 {
		t.Errorf("cities = %+v, want only state 2's cities", cities)
	}
	if s.SelectCity(10) {
		t.Error("city from stale state 1 response was selectable")
	}
}

func TestReselectSameStateDiscardsOldRequest(t *testing.T) {
	f := twoStateFetcher()
	s := New(f)

	// Same state picked twice; only the newer request may land.
	reqOld := s.SelectState(1)
	reqNew := s.SelectState(1)

	s.Resolve(reqOld, []model.CityOption{{ID: 99, Name: "stale", StateID: 1}}, nil)
	if got := s.Phase(); got != LoadingCities {
		t.Fatalf("stale response applied, Phase = %v", got)
	}

	s.Resolve(reqNew, f.cities[1], nil)
	if got := len(s.Cities()); got != 2 {
		t.Errorf("len(Cities) = %d, want 2", got)
	}
}

func TestFetchFailureLandsReadyWithEmptyOptions(t *testing.T) {
	f := &fakeFetcher{err: errors.New("connection refused")}
	s := New(f)

	s.Load(context.Background(), 1)

	if got := s.Phase(); got != CitiesReady {
		t.Fatalf("Phase = %v, want CitiesReady (never stuck loading)", got)
	}
	if got := len(s.Cities()); got != 0 {
		t.Errorf("len(Cities) = %d, want 0", got)
	}
	if s.Err() == nil {
		t.Error("expected the fetch error to be surfaced")
	}

	// The error is recoverable: the next state change clears it.
	s.SelectState(2)
	if s.Err() != nil {
		t.Error("error not cleared on new selection")
	}
}

func TestSeedPreSelectsValidCity(t *testing.T) {
	f := twoStateFetcher()
	s := New(f)

	s.Seed(context.Background(), 1, 11)

	if got := s.Phase(); got != CitiesReady {
		t.Fatalf("Phase = %v, want CitiesReady", got)
	}
	if got := s.CityID(); got != 11 {
		t.Errorf("CityID = %d, want 11", got)
	}
}

func TestSeedWithStaleCityLeavesUnselected(t *testing.T) {
	f := twoStateFetcher()
	s := New(f)

	// Stored city 20 belongs to state 2, not to the stored state 1.
	s.Seed(context.Background(), 1, 20)

	if got := s.CityID(); got != 0 {
		t.Errorf("CityID = %d, want 0 for orphaned reference", got)
	}
	if got := len(s.Cities()); got != 2 {
		t.Errorf("len(Cities) = %d, want 2", got)
	}
}

func TestSelectCityRejectsUnknownID(t *testing.T) {
	f := twoStateFetcher()
	s := New(f)

	if s.SelectCity(10) {
		t.Error("SelectCity succeeded with no state selected")
	}

	s.Load(context.Background(), 1)
	if s.SelectCity(20) {
		t.Error("SelectCity accepted a city from another state")
	}
	if !s.SelectCity(10) {
		t.Error("SelectCity rejected a valid city")
	}
}
