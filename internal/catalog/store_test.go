package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fakeService) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestStoreLoad(t *testing.T) {
	st := NewStore(&fakeService{products: numbered(25)}, WithPageSize(10))
	assert.Equal(t, StatusIdle, st.View().Status)

	require.NoError(t, st.Load(context.Background()))

	v := st.View()
	assert.Equal(t, StatusReady, v.Status)
	assert.Equal(t, 25, v.Total)
	assert.Equal(t, 3, v.TotalPages)
	assert.Equal(t, []string{"Safe", "Trail", "Velo"}, v.Brands)
	assert.Equal(t, []string{"Bikes", "Gear"}, v.Categories)

	v = st.Dispatch(SetPage{Page: 3})
	assert.Equal(t, ids(numbered(25)[20:]), ids(v.Items))
}

func TestStoreLoadFailure(t *testing.T) {
	st := NewStore(&fakeService{err: errors.New("backend unavailable")})

	err := st.Load(context.Background())
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "listProducts", fe.Op)

	v := st.View()
	assert.Equal(t, StatusFailed, v.Status)
	assert.Contains(t, v.Error, "backend unavailable")
}

func TestStoreLatestLoadWins(t *testing.T) {
	ds := &fakeService{gate: make(chan []Product)}
	st := NewStore(ds)

	first := make(chan error, 1)
	go func() { first <- st.Load(context.Background()) }()
	require.Eventually(t, func() bool { return ds.callCount() == 1 }, time.Second, time.Millisecond)

	second := make(chan error, 1)
	go func() { second <- st.Load(context.Background()) }()
	require.Eventually(t, func() bool { return ds.callCount() == 2 }, time.Second, time.Millisecond)

	// the superseded load is cancelled and its outcome dropped
	require.NoError(t, <-first)
	assert.Equal(t, StatusLoading, st.View().Status)

	ds.gate <- numbered(4)
	require.NoError(t, <-second)

	v := st.View()
	assert.Equal(t, StatusReady, v.Status)
	assert.Equal(t, 4, v.Total)
}

func TestStoreCloseDiscardsInFlight(t *testing.T) {
	ds := &fakeService{gate: make(chan []Product)}
	st := NewStore(ds)

	done := make(chan error, 1)
	go func() { done <- st.Load(context.Background()) }()
	require.Eventually(t, func() bool { return ds.callCount() == 1 }, time.Second, time.Millisecond)

	st.Close()
	assert.ErrorIs(t, <-done, ErrStoreClosed)
	assert.ErrorIs(t, st.Load(context.Background()), ErrStoreClosed)
	assert.Equal(t, StatusLoading, st.View().Status)
}

func TestStoreDispatchIgnoresLoadActions(t *testing.T) {
	st := NewStore(&fakeService{products: fixture()})
	require.NoError(t, st.Load(context.Background()))

	v := st.Dispatch(LoadFailed{Seq: st.State().Seq, Err: errors.New("forged")})
	assert.Equal(t, StatusReady, v.Status)
	assert.Equal(t, 6, v.Total)
}

func TestStoreDispatchFunc(t *testing.T) {
	ds := &fakeService{products: fixture()}
	st := NewStore(ds)
	require.NoError(t, st.Load(context.Background()))

	_, err := st.DispatchFunc(func(PriceRange) (Action, error) {
		return nil, ErrInvalidAction
	})
	assert.ErrorIs(t, err, ErrInvalidAction)
	assert.Equal(t, PriceRange{Min: 0, Max: 2400}, st.State().Criteria.Price)

	v, err := st.DispatchFunc(func(bounds PriceRange) (Action, error) {
		assert.Equal(t, PriceRange{Min: 0, Max: 2400}, bounds)
		return SetPriceRange{Range: PriceRange{Min: 100, Max: bounds.Max}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, PriceRange{Min: 100, Max: 2400}, v.Criteria.Price)
}

func TestStoreDispatchFuncHoldsLock(t *testing.T) {
	ds := &fakeService{products: fixture()}
	st := NewStore(ds)
	require.NoError(t, st.Load(context.Background()))
	before := ds.callCount()

	loaded := make(chan error, 1)
	_, err := st.DispatchFunc(func(bounds PriceRange) (Action, error) {
		go func() { loaded <- st.Load(context.Background()) }()
		// a load started while building cannot fetch until the action is applied
		assert.Never(t, func() bool { return ds.callCount() > before }, 50*time.Millisecond, time.Millisecond)
		return SetPriceRange{Range: PriceRange{Min: 10, Max: bounds.Max}}, nil
	})
	require.NoError(t, err)
	require.NoError(t, <-loaded)
	assert.Greater(t, ds.callCount(), before)
}

func TestSessionsLifecycle(t *testing.T) {
	ds := &fakeService{products: fixture()}
	m := NewSessions(func() *Store { return NewStore(ds) })

	id, st := m.Open()
	require.NotEmpty(t, id)
	require.Eventually(t, func() bool { return st.View().Status == StatusReady }, time.Second, time.Millisecond)

	got, err := m.Get(id)
	require.NoError(t, err)
	assert.Same(t, st, got)
	assert.Equal(t, 1, m.Len())

	require.NoError(t, m.Close(id))
	_, err = m.Get(id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, m.Close(id), ErrSessionNotFound)
}

func TestSessionsSweep(t *testing.T) {
	ds := &fakeService{products: fixture()}
	m := NewSessions(func() *Store { return NewStore(ds) })
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	stale, _ := m.Open()
	now = now.Add(20 * time.Minute)
	fresh, _ := m.Open()
	now = now.Add(15 * time.Minute)

	assert.Equal(t, 1, m.Sweep(30*time.Minute))
	_, err := m.Get(stale)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.Get(fresh)
	assert.NoError(t, err)

	m.CloseAll()
	assert.Zero(t, m.Len())
}
