// Package service contains the business logic layer.
//
// This file implements the item service backing the paginated index pages.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/DukeRupert/pagelinks/internal/domain"
	"github.com/DukeRupert/pagelinks/internal/store"
	"github.com/google/uuid"
)

// MaxPerPage bounds the page size a caller may request.
const MaxPerPage = 100

// =============================================================================
// Interface Definition
// =============================================================================

// ItemService defines the interface for item-related operations.
type ItemService interface {
	// List retrieves one page of items.
	// Returns domain.EINVALID for an out of range page size or offset.
	List(ctx context.Context, params domain.ListItemsParams) (*domain.ListItemsResult, error)

	// Create stores a new item.
	// Returns domain.EINVALID when the title is empty.
	Create(ctx context.Context, title, body string) (*domain.Item, error)

	// Seed creates n numbered items. Used to populate development stores.
	Seed(ctx context.Context, n int) error
}

// =============================================================================
// Implementation
// =============================================================================

type itemService struct {
	store  store.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewItemService creates a new ItemService.
func NewItemService(s store.Store, logger *slog.Logger) ItemService {
	return &itemService{
		store:  s,
		logger: logger,
		now:    time.Now,
	}
}

// List retrieves one page of items together with the collection size.
func (s *itemService) List(ctx context.Context, params domain.ListItemsParams) (*domain.ListItemsResult, error) {
	const op = "item.list"

	if params.Limit <= 0 || params.Limit > MaxPerPage {
		return nil, domain.Invalid(op, fmt.Sprintf("page size must be between 1 and %d", MaxPerPage))
	}
	if params.Offset < 0 {
		return nil, domain.Invalid(op, "offset must not be negative")
	}

	total, err := s.store.CountItems(ctx)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to count items")
	}

	items, err := s.store.ListItems(ctx, params.Limit, params.Offset)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list items")
	}

	return &domain.ListItemsResult{
		Items:  items,
		Total:  total,
		Limit:  params.Limit,
		Offset: params.Offset,
	}, nil
}

// Create stores a new item.
func (s *itemService) Create(ctx context.Context, title, body string) (*domain.Item, error) {
	const op = "item.create"

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.Invalid(op, "title is required")
	}

	item := domain.Item{
		ID:        uuid.New(),
		Title:     title,
		Body:      strings.TrimSpace(body),
		CreatedAt: s.now(),
	}
	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, domain.Internal(err, op, "failed to create item")
	}
	return &item, nil
}

// Seed creates n numbered items, oldest first.
func (s *itemService) Seed(ctx context.Context, n int) error {
	const op = "item.seed"

	start := s.now().Add(-time.Duration(n) * time.Minute)
	for i := 0; i < n; i++ {
		item := domain.Item{
			ID:        uuid.New(),
			Title:     fmt.Sprintf("Item %d", i+1),
			CreatedAt: start.Add(time.Duration(i) * time.Minute),
		}
		if err := s.store.CreateItem(ctx, item); err != nil {
			return domain.Internal(err, op, "failed to seed items")
		}
	}
	s.logger.Info("seeded items", "count", n)
	return nil
}
