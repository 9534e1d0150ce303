package catalog

import (
	"context"
	"fmt"
	"sync"
)

func price(v float64) *float64 { return &v }

func fixture() []Product {
	return []Product{
		{ID: "1", Name: "Road Bike", Brand: "Velo", Category: "Bikes", Price: price(1200), InStock: true},
		{ID: "2", Name: "Helmet", Brand: "Safe", Category: "Gear", Price: price(80), InStock: true},
		{ID: "3", Name: "Custom Frame", Brand: "Velo", Category: "Bikes"},
		{ID: "4", Name: "bike lock", Brand: "Safe", Category: "Gear", Price: price(25)},
		{ID: "5", Name: "Mountain Bike", Brand: "Trail", Category: "Bikes", Price: price(2400), InStock: true},
		{ID: "6", Name: "Gloves", Brand: "Trail", Category: "Gear", Price: price(25)},
	}
}

func numbered(n int) []Product {
	out := make([]Product, n)
	for i := range out {
		out[i] = Product{ID: fmt.Sprint(i), Name: fmt.Sprintf("Item %02d", i), Price: price(float64(i))}
	}
	return out
}

func ids(products []Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

// fakeService is an in-memory DataService
type fakeService struct {
	mu       sync.Mutex
	products []Product
	err      error
	calls    int
	// gate, when set, blocks ListProducts until a value is received
	gate chan []Product
}

func (f *fakeService) ListProducts(ctx context.Context) ([]Product, error) {
	f.mu.Lock()
	f.calls++
	gate, products, err := f.gate, f.products, f.err
	f.mu.Unlock()

	if gate != nil {
		select {
		case p := <-gate:
			return p, err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return products, err
}

func (f *fakeService) ListBrands(context.Context) ([]string, error) {
	return []string{"Safe", "Trail", "Velo"}, nil
}

func (f *fakeService) ListCategories(context.Context) ([]string, error) {
	return []string{"Bikes", "Gear"}, nil
}
