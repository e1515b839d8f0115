// Package store persists the items shown on paginated list pages.
package store

import (
	"context"

	"github.com/DukeRupert/pagelinks/internal/domain"
)

// Store is the storage contract used by the item service.
type Store interface {
	// CountItems returns the size of the whole collection.
	CountItems(ctx context.Context) (int64, error)

	// ListItems returns one page of items, newest first.
	ListItems(ctx context.Context, limit, offset int32) ([]domain.Item, error)

	// CreateItem stores a new item.
	CreateItem(ctx context.Context, item domain.Item) error
}
