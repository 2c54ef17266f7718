package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/sports-mirror/internal/domain/catalog"
	"github.com/riskibarqy/sports-mirror/internal/domain/resource"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

type CatalogService struct {
	readers catalog.ReaderSet
}

func NewCatalogService(readers catalog.ReaderSet) *CatalogService {
	return &CatalogService{readers: readers}
}

func (s *CatalogService) List(ctx context.Context, name resource.Name, query catalog.ListQuery) ([]catalog.Entity, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.List")
	defer span.End()

	reader, err := s.reader(name)
	if err != nil {
		return nil, err
	}
	query.Limit, query.Offset = normalizePage(query.Limit, query.Offset)
	query.ParentID = strings.TrimSpace(query.ParentID)

	items, err := reader.List(ctx, query)
	if err != nil {
		recordSpanError(span, err)
		return nil, fmt.Errorf("list %s: %w", name, err)
	}
	return items, nil
}

func (s *CatalogService) Get(ctx context.Context, name resource.Name, id string) (catalog.Entity, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.Get")
	defer span.End()

	id = strings.TrimSpace(id)
	if id == "" {
		return catalog.Entity{}, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}
	reader, err := s.reader(name)
	if err != nil {
		return catalog.Entity{}, err
	}

	item, exists, err := reader.GetByID(ctx, id)
	if err != nil {
		recordSpanError(span, err)
		return catalog.Entity{}, fmt.Errorf("get %s id=%s: %w", name, id, err)
	}
	if !exists {
		return catalog.Entity{}, fmt.Errorf("%w: %s id=%s", ErrNotFound, name, id)
	}
	return item, nil
}

func (s *CatalogService) reader(name resource.Name) (catalog.Reader, error) {
	if !resource.IsCatalog(name) {
		return nil, fmt.Errorf("%w: unknown catalog resource %q", ErrNotFound, name)
	}
	reader, ok := s.readers.Reader(name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown catalog resource %q", ErrNotFound, name)
	}
	return reader, nil
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
