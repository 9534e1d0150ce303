package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/errgroup"

	"shop-catalog/internal/logger"
)

var (
	loadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_catalog_loads_total",
		Help: "Catalog loads by outcome (ok, error, discarded)",
	}, []string{"outcome"})

	loadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "shop_catalog_load_duration_seconds",
		Help:    "Time spent fetching the catalog from the data service",
		Buckets: prometheus.DefBuckets,
	})
)

// ErrStoreClosed is returned by Load once the store has been closed
var ErrStoreClosed = errors.New("catalog store closed")

// Store owns the state of one catalog view and the data service it loads from
type Store struct {
	ds     DataService
	sorter Sorter

	mu     sync.Mutex
	state  State
	seq    uint64
	cancel context.CancelFunc
	closed bool
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithPageSize sets the initial page size
func WithPageSize(n int) StoreOption {
	return func(s *Store) { s.state = NewState(n) }
}

// WithSorter sets the collation used for name ordering
func WithSorter(srt Sorter) StoreOption {
	return func(s *Store) { s.sorter = srt }
}

// NewStore creates an idle store reading from ds
func NewStore(ds DataService, opts ...StoreOption) *Store {
	s := &Store{
		ds:     ds,
		sorter: NewSorter("en"),
		state:  NewState(DefaultPageSize),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type snapshot struct {
	products   []Product
	brands     []string
	categories []string
}

// Load fetches the catalog. A newer Load supersedes an older one still in
// flight: the older result is discarded no matter when it arrives.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrStoreClosed
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	seq := s.seq
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.state = Reduce(s.state, LoadStarted{Seq: seq})
	s.mu.Unlock()
	defer cancel()

	start := time.Now()
	snap, err := fetch(ctx, s.ds)
	loadDuration.Observe(time.Since(start).Seconds())

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || seq != s.seq {
		loadsTotal.WithLabelValues("discarded").Inc()
		logger.Debugf("catalog load %d discarded", seq)
		if s.closed {
			return ErrStoreClosed
		}
		return nil
	}
	if err != nil {
		loadsTotal.WithLabelValues("error").Inc()
		s.state = Reduce(s.state, LoadFailed{Seq: seq, Err: err})
		return err
	}

	loadsTotal.WithLabelValues("ok").Inc()
	s.state = Reduce(s.state, LoadSucceeded{
		Seq:        seq,
		Products:   snap.products,
		Brands:     snap.brands,
		Categories: snap.categories,
	})
	logger.Debugf("catalog load %d: %d products", seq, len(snap.products))
	return nil
}

func fetch(ctx context.Context, ds DataService) (snapshot, error) {
	var snap snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if snap.products, err = ds.ListProducts(ctx); err != nil {
			return &FetchError{Op: "listProducts", Err: err}
		}
		return nil
	})
	g.Go(func() (err error) {
		if snap.brands, err = ds.ListBrands(ctx); err != nil {
			return &FetchError{Op: "listBrands", Err: err}
		}
		return nil
	})
	g.Go(func() (err error) {
		if snap.categories, err = ds.ListCategories(ctx); err != nil {
			return &FetchError{Op: "listCategories", Err: err}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return snapshot{}, err
	}
	if snap.products == nil {
		snap.products = []Product{}
	}
	return snap, nil
}

// Dispatch applies a local action and returns the resulting view.
// Load lifecycle actions are reserved for Load and are ignored here.
func (s *Store) Dispatch(a Action) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch a.(type) {
	case LoadStarted, LoadSucceeded, LoadFailed:
	default:
		s.state = Reduce(s.state, a)
	}
	return s.sorter.Derive(s.state)
}

// DispatchFunc builds an action from the current catalog bounds and applies it
// under the same lock, so a load cannot land between the two steps.
// A build error leaves the state untouched.
func (s *Store) DispatchFunc(build func(bounds PriceRange) (Action, error)) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, err := build(s.state.Bounds)
	if err != nil {
		return View{}, err
	}
	switch a.(type) {
	case LoadStarted, LoadSucceeded, LoadFailed:
	default:
		s.state = Reduce(s.state, a)
	}
	return s.sorter.Derive(s.state), nil
}

// View returns the current derived view
func (s *Store) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorter.Derive(s.state)
}

// State returns a copy of the raw state
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Close cancels any in-flight load; results arriving afterwards are dropped
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
