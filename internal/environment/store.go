package environment

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrNotLoaded is returned by Store.Get before Load has run.
var ErrNotLoaded = errors.New("environment not loaded")

// LoaderFunc produces the record, typically from the service config.
type LoaderFunc func(ctx context.Context) (Environment, error)

// Store holds the record after a single load and hands out copies.
type Store struct {
	load LoaderFunc
	once sync.Once
	done atomic.Bool
	env  Environment
	err  error
}

// NewStore returns a Store that will call load exactly once.
func NewStore(load LoaderFunc) *Store {
	return &Store{load: load}
}

// NewStaticStore returns a Store already loaded with env. env is validated.
func NewStaticStore(env Environment) (*Store, error) {
	s := NewStore(func(context.Context) (Environment, error) { return env, nil })
	if _, err := s.Load(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

// Load runs the loader on first call and validates the result. Every later
// call returns the first outcome without calling the loader again.
func (s *Store) Load(ctx context.Context) (Environment, error) {
	s.once.Do(func() {
		env, err := s.load(ctx)
		if err == nil {
			err = env.Validate()
		}
		if err != nil {
			s.err = err
		} else {
			s.env = env
		}
		s.done.Store(true)
	})
	return s.env, s.err
}

// Get returns a copy of the loaded record.
func (s *Store) Get() (Environment, error) {
	if !s.done.Load() {
		return Environment{}, ErrNotLoaded
	}
	return s.env, s.err
}
