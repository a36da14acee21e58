package catalog

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"go-storefront-payments/src/infrastructure/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProductRepository struct {
	products     []Product
	total        int64
	lastQuery    ProductQuery
	lastCategory string
	lastLimit    int64
	seeded       []Product
	err          error
}

func (f *fakeProductRepository) EnsureIndexes(context.Context) error { return nil }

func (f *fakeProductRepository) ListProducts(_ context.Context, q ProductQuery) ([]Product, int64, error) {
	f.lastQuery = q
	return f.products, f.total, f.err
}

func (f *fakeProductRepository) GetProductByID(_ context.Context, id string) (*Product, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			return &f.products[i], nil
		}
	}
	return nil, ErrProductNotFound
}

func (f *fakeProductRepository) GetProductsByIDs(_ context.Context, ids []string) ([]Product, error) {
	out := []Product{}
	for _, id := range ids {
		if p, err := f.GetProductByID(context.Background(), id); err == nil {
			out = append(out, *p)
		}
	}
	return out, f.err
}

func (f *fakeProductRepository) ListByCategory(_ context.Context, categoryID string, limit int64) ([]Product, error) {
	f.lastCategory, f.lastLimit = categoryID, limit
	return f.products, f.err
}

func (f *fakeProductRepository) SeedProduct(_ context.Context, p Product) error {
	f.seeded = append(f.seeded, p)
	return f.err
}

func newTestService(repo ProductRepository) *catalogService {
	svc := NewCatalogService(log.NewLoggerWithOutput(io.Discard), repo).(*catalogService)
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC) }
	return svc
}

func TestListProducts(t *testing.T) {
	tests := []struct {
		name      string
		query     ProductQuery
		total     int64
		wantQuery ProductQuery
		wantPages int64
	}{
		{"defaults", ProductQuery{}, 25, ProductQuery{Page: 1, Limit: 10}, 3},
		{"explicit page with search", ProductQuery{Page: 2, Limit: 5, Search: "shirt"}, 10, ProductQuery{Page: 2, Limit: 5, Search: "shirt"}, 2},
		{"limit is capped", ProductQuery{Page: 1, Limit: 1000}, 0, ProductQuery{Page: 1, Limit: MaxLimit}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeProductRepository{total: tt.total, products: []Product{}}
			svc := newTestService(repo)

			page, err := svc.ListProducts(context.Background(), tt.query)

			require.NoError(t, err)
			assert.Equal(t, tt.wantQuery, repo.lastQuery)
			assert.Equal(t, tt.total, page.TotalCount)
			assert.Equal(t, tt.wantPages, page.TotalNoPage)
		})
	}
}

func TestListProducts_RepositoryError(t *testing.T) {
	svc := newTestService(&fakeProductRepository{err: errors.New("boom")})

	_, err := svc.ListProducts(context.Background(), ProductQuery{})

	assert.Error(t, err)
}

func TestGetProduct(t *testing.T) {
	svc := newTestService(&fakeProductRepository{products: []Product{{ID: "p1", Name: "Linen Shirt"}}})

	product, err := svc.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Linen Shirt", product.Name)

	_, err = svc.GetProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestListByCategory(t *testing.T) {
	repo := &fakeProductRepository{products: []Product{{ID: "p1"}}}
	svc := newTestService(repo)

	products, err := svc.ListByCategory(context.Background(), "cat-1")
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, "cat-1", repo.lastCategory)
	assert.Equal(t, int64(CategoryLimit), repo.lastLimit)

	_, err = svc.ListByCategory(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingCategory)
}

func TestSeedProduct_FillsDefaults(t *testing.T) {
	repo := &fakeProductRepository{}
	svc := newTestService(repo)

	require.NoError(t, svc.SeedProduct(context.Background(), Product{Name: "Canvas Tote"}))

	require.Len(t, repo.seeded, 1)
	assert.Len(t, repo.seeded[0].ID, 24)
	assert.Equal(t, time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC), repo.seeded[0].CreatedAt)
}
