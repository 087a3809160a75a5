package environment_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jonesrussell/coffee-shop/envconfig/internal/environment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetBeforeLoad(t *testing.T) {
	t.Parallel()

	s := environment.NewStore(func(context.Context) (environment.Environment, error) {
		return environment.Template(), nil
	})

	_, err := s.Get()
	assert.ErrorIs(t, err, environment.ErrNotLoaded)
}

func TestStore_LoadIsIdempotent(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	s := environment.NewStore(func(context.Context) (environment.Environment, error) {
		calls.Add(1)
		env := environment.Template()
		env.Auth0.Audience = "drinks"
		return env, nil
	})

	first, err := s.Load(context.Background())
	require.NoError(t, err)
	second, err := s.Load(context.Background())
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
	assert.Equal(t, int32(1), calls.Load())

	got, err := s.Get()
	require.NoError(t, err)
	assert.Equal(t, "drinks", got.Auth0.Audience)
}

func TestStore_CopiesCannotMutate(t *testing.T) {
	t.Parallel()

	s, err := environment.NewStaticStore(environment.Template())
	require.NoError(t, err)

	got, err := s.Get()
	require.NoError(t, err)
	got.Auth0.ClientID = "tampered"
	got.Production = true

	again, err := s.Get()
	require.NoError(t, err)
	assert.True(t, again.Equal(environment.Template()))
}

func TestStore_LoaderError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	s := environment.NewStore(func(context.Context) (environment.Environment, error) {
		return environment.Environment{}, boom
	})

	_, err := s.Load(context.Background())
	require.ErrorIs(t, err, boom)

	_, err = s.Get()
	assert.ErrorIs(t, err, boom)
}

func TestStore_InvalidRecord(t *testing.T) {
	t.Parallel()

	env := environment.Template()
	env.APIServerURL = "not a url"

	_, err := environment.NewStaticStore(env)
	assert.ErrorIs(t, err, environment.ErrInvalidEnvironment)
}

func TestStore_ConcurrentReaders(t *testing.T) {
	t.Parallel()

	s, err := environment.NewStaticStore(environment.Template())
	require.NoError(t, err)

	const readers = 32
	var wg sync.WaitGroup
	wg.Add(readers)
	for range readers {
		go func() {
			defer wg.Done()
			got, getErr := s.Get()
			assert.NoError(t, getErr)
			assert.True(t, got.Equal(environment.Template()))
		}()
	}
	wg.Wait()
}
