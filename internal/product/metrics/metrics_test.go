package metrics

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	perrors "github.com/abgdnv/catalog/internal/product/errors"
	"github.com/abgdnv/catalog/internal/product/service"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProductService returns the configured values from every method.
type mockProductService struct {
	product  *service.ProductDto
	products []service.ProductDto
	error    error
}

func (m *mockProductService) FindByID(_ context.Context, _ int64) (*service.ProductDto, error) {
	return m.product, m.error
}

func (m *mockProductService) FindAll(_ context.Context) ([]service.ProductDto, error) {
	return m.products, m.error
}

func (m *mockProductService) Create(_ context.Context, _ *service.ProductCreateDto) (*service.ProductDto, error) {
	return m.product, m.error
}

func (m *mockProductService) Update(_ context.Context, _ int64, _ service.ProductPatchDto) (*service.ProductDto, error) {
	return m.product, m.error
}

func (m *mockProductService) DeleteByID(_ context.Context, _ int64) error {
	return m.error
}

func Test_WrapService_CountsOutcomes(t *testing.T) {
	testCases := []struct {
		name            string
		call            func(s service.ProductService) error
		error           error
		expectedOp      string
		expectedOutcome string
	}{
		{
			name:            "get ok",
			call:            func(s service.ProductService) error { _, err := s.FindByID(context.Background(), 1); return err },
			expectedOp:      "get",
			expectedOutcome: "ok",
		},
		{
			name:            "get not found",
			call:            func(s service.ProductService) error { _, err := s.FindByID(context.Background(), 99); return err },
			error:           fmt.Errorf("failed to fetch product by ID 99: %w", perrors.ErrProductNotFound),
			expectedOp:      "get",
			expectedOutcome: "not_found",
		},
		{
			name:            "add duplicate",
			call:            func(s service.ProductService) error { _, err := s.Create(context.Background(), &service.ProductCreateDto{}); return err },
			error:           perrors.ErrDuplicateCode,
			expectedOp:      "add",
			expectedOutcome: "duplicate_code",
		},
		{
			name:            "add invalid",
			call:            func(s service.ProductService) error { _, err := s.Create(context.Background(), nil); return err },
			error:           &perrors.ValidationError{Fields: map[string]string{"Price": "required"}},
			expectedOp:      "add",
			expectedOutcome: "validation",
		},
		{
			name: "update write failure",
			call: func(s service.ProductService) error {
				_, err := s.Update(context.Background(), 1, service.ProductPatchDto{})
				return err
			},
			error:           perrors.ErrStoreWrite,
			expectedOp:      "update",
			expectedOutcome: "write_failure",
		},
		{
			name:            "list read failure",
			call:            func(s service.ProductService) error { _, err := s.FindAll(context.Background()); return err },
			error:           perrors.ErrStoreRead,
			expectedOp:      "list",
			expectedOutcome: "read_failure",
		},
		{
			name:            "delete unexpected",
			call:            func(s service.ProductService) error { return s.DeleteByID(context.Background(), 1) },
			error:           errors.New("boom"),
			expectedOp:      "delete",
			expectedOutcome: "error",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			collector := NewCollector()
			wrapped := WrapService(&mockProductService{product: &service.ProductDto{ID: 1}, error: tc.error}, collector)
			// when
			err := tc.call(wrapped)
			// then
			assert.ErrorIs(t, err, tc.error)
			assert.Equal(t, 1.0, testutil.ToFloat64(collector.operations.WithLabelValues(tc.expectedOp, tc.expectedOutcome)))
			assert.Equal(t, 1, testutil.CollectAndCount(collector.durations))
		})
	}
}

func Test_WrapService_TracksProductCount(t *testing.T) {
	// given
	ctx := context.Background()
	collector := NewCollector()
	mock := &mockProductService{
		product:  &service.ProductDto{ID: 3},
		products: []service.ProductDto{{ID: 1}, {ID: 2}},
	}
	wrapped := WrapService(mock, collector)

	// when
	_, err := wrapped.FindAll(ctx)
	require.NoError(t, err)
	// then
	assert.Equal(t, 2.0, testutil.ToFloat64(collector.products))

	_, err = wrapped.Create(ctx, &service.ProductCreateDto{})
	require.NoError(t, err)
	assert.Equal(t, 3.0, testutil.ToFloat64(collector.products))

	require.NoError(t, wrapped.DeleteByID(ctx, 3))
	assert.Equal(t, 2.0, testutil.ToFloat64(collector.products))

	mock.error = perrors.ErrProductNotFound
	assert.Error(t, wrapped.DeleteByID(ctx, 3))
	assert.Equal(t, 2.0, testutil.ToFloat64(collector.products), "failed deletes leave the count alone")
}

func Test_Collector_WriteTextfile(t *testing.T) {
	// given
	collector := NewCollector()
	collector.SetProducts(4)
	collector.operations.WithLabelValues("add", "ok").Inc()
	path := filepath.Join(t.TempDir(), "catalog.prom")

	// when
	err := collector.WriteTextfile(path)

	// then
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "catalog_products 4")
	assert.Contains(t, string(data), `catalog_operations_total{operation="add",outcome="ok"} 1`)
}

func Test_Collector_Registry(t *testing.T) {
	// given
	collector := NewCollector()
	wrapped := WrapService(&mockProductService{products: []service.ProductDto{{ID: 1}}}, collector)

	// when
	_, err := wrapped.FindAll(context.Background())

	// then
	require.NoError(t, err)
	count, err := testutil.GatherAndCount(collector.Registry(),
		"catalog_operations_total", "catalog_operation_duration_seconds", "catalog_products")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	require.NoError(t, testutil.GatherAndCompare(collector.Registry(), strings.NewReader(`
# HELP catalog_products Number of products in the collection.
# TYPE catalog_products gauge
catalog_products 1
`), "catalog_products"))
}

func Test_Collector_WriteTextfile_Error(t *testing.T) {
	collector := NewCollector()

	err := collector.WriteTextfile(filepath.Join(t.TempDir(), "missing", "catalog.prom"))

	assert.Error(t, err)
}
