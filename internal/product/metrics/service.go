package metrics

import (
	"context"
	"time"

	perrors "github.com/abgdnv/catalog/internal/product/errors"
	"github.com/abgdnv/catalog/internal/product/service"
)

type instrumentedService struct {
	next      service.ProductService
	collector *Collector
}

// WrapService returns a ProductService that counts every call by operation and outcome.
func WrapService(next service.ProductService, collector *Collector) service.ProductService {
	return &instrumentedService{next: next, collector: collector}
}

func (s *instrumentedService) FindByID(ctx context.Context, id int64) (*service.ProductDto, error) {
	defer s.observe("get", time.Now())
	product, err := s.next.FindByID(ctx, id)
	s.count("get", err)
	return product, err
}

func (s *instrumentedService) FindAll(ctx context.Context) ([]service.ProductDto, error) {
	defer s.observe("list", time.Now())
	products, err := s.next.FindAll(ctx)
	s.count("list", err)
	if err == nil {
		s.collector.SetProducts(len(products))
	}
	return products, err
}

func (s *instrumentedService) Create(ctx context.Context, product *service.ProductCreateDto) (*service.ProductDto, error) {
	defer s.observe("add", time.Now())
	created, err := s.next.Create(ctx, product)
	s.count("add", err)
	if err == nil {
		s.collector.products.Inc()
	}
	return created, err
}

func (s *instrumentedService) Update(ctx context.Context, id int64, patch service.ProductPatchDto) (*service.ProductDto, error) {
	defer s.observe("update", time.Now())
	updated, err := s.next.Update(ctx, id, patch)
	s.count("update", err)
	return updated, err
}

func (s *instrumentedService) DeleteByID(ctx context.Context, id int64) error {
	defer s.observe("delete", time.Now())
	err := s.next.DeleteByID(ctx, id)
	s.count("delete", err)
	if err == nil {
		s.collector.products.Dec()
	}
	return err
}

func (s *instrumentedService) count(operation string, err error) {
	s.collector.operations.WithLabelValues(operation, perrors.Kind(err)).Inc()
}

func (s *instrumentedService) observe(operation string, start time.Time) {
	s.collector.durations.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
