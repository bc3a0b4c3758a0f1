package storefront

import (
	"context"
	"sync"

	"github.com/shashiranjanraj/catalog/app/models"
)

// Status is the loader's lifecycle position.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// State is a snapshot of the loader.
type State struct {
	Status   Status
	Products []models.ProductData
	Err      error
}

// Loading reports whether a fetch is in flight.
func (s State) Loading() bool { return s.Status == StatusLoading }

// FetchFunc loads the full product list.
type FetchFunc func(ctx context.Context) ([]models.ProductData, error)

// Loader runs fetches and keeps the latest outcome. Fetches are not
// de-duplicated: when several overlap, the one that finishes last wins.
type Loader struct {
	fetch    FetchFunc
	onChange func(State)

	mu       sync.Mutex
	state    State
	inflight int
}

// NewLoader returns an idle loader. onChange, when set, is called after
// every transition with the new state.
func NewLoader(fetch FetchFunc, onChange func(State)) *Loader {
	return &Loader{fetch: fetch, onChange: onChange}
}

// Load moves to loading, fetches once and settles in success or error. On
// error the product list is cleared. While another fetch is still running
// the status stays loading.
func (l *Loader) Load(ctx context.Context) State {
	l.mu.Lock()
	l.inflight++
	l.state.Status = StatusLoading
	l.state.Err = nil
	loading := l.snapshot()
	l.mu.Unlock()
	l.notify(loading)

	products, err := l.fetch(ctx)

	l.mu.Lock()
	l.inflight--
	if err != nil {
		l.state = State{Status: StatusError, Products: []models.ProductData{}, Err: err}
	} else {
		l.state = State{Status: StatusSuccess, Products: cloneAll(products)}
	}
	if l.inflight > 0 {
		l.state.Status = StatusLoading
	}
	settled := l.snapshot()
	l.mu.Unlock()
	l.notify(settled)

	return settled
}

// Refetch repeats Load from any state.
func (l *Loader) Refetch(ctx context.Context) State {
	return l.Load(ctx)
}

// State returns a copy of the current state.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

func (l *Loader) snapshot() State {
	s := l.state
	s.Products = cloneAll(l.state.Products)
	return s
}

func (l *Loader) notify(s State) {
	if l.onChange != nil {
		l.onChange(s)
	}
}

func cloneAll(ps []models.ProductData) []models.ProductData {
	if ps == nil {
		return nil
	}
	out := make([]models.ProductData, len(ps))
	for i, p := range ps {
		out[i] = p.Clone()
	}
	return out
}
