// Package domain contains core business types and interfaces.
//
// This file defines the Item type listed by the paginated index pages.
package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Item Domain Type
// =============================================================================

// Item is a single entry of a paginated collection.
type Item struct {
	ID        uuid.UUID // Unique identifier
	Title     string    // Display title
	Body      string    // Optional body text
	CreatedAt time.Time // When the item was created
}

// ListItemsParams contains parameters for a paginated item query.
type ListItemsParams struct {
	Limit  int32 // Max results to return
	Offset int32 // Number of results to skip
}

// =============================================================================
// List Result with Pagination
// =============================================================================

// ListItemsResult contains the result of a paginated item list query.
type ListItemsResult struct {
	Items  []Item // The item results
	Total  int64  // Total number of items (for pagination)
	Limit  int32  // Number of results requested
	Offset int32  // Number of results skipped
}

// HasMore returns true if there are more results available.
// A zero limit means the whole collection was requested.
func (r *ListItemsResult) HasMore() bool {
	if r.Limit == 0 {
		return false
	}
	return int64(r.Offset)+int64(r.Limit) < r.Total
}

// HasPrevious returns true if there are previous results available.
func (r *ListItemsResult) HasPrevious() bool {
	return r.Offset > 0
}

// CurrentPage returns the current page number (1-indexed).
func (r *ListItemsResult) CurrentPage() int {
	if r.Limit == 0 {
		return 1
	}
	return int(r.Offset/r.Limit) + 1
}

// TotalPages returns the total number of pages.
func (r *ListItemsResult) TotalPages() int {
	if r.Limit == 0 {
		return 1
	}
	pages := r.Total / int64(r.Limit)
	if r.Total%int64(r.Limit) > 0 {
		pages++
	}
	return int(pages)
}

// PerPage returns the page size used for the query.
func (r *ListItemsResult) PerPage() int {
	return int(r.Limit)
}

// TotalEntries returns the size of the whole collection.
func (r *ListItemsResult) TotalEntries() int {
	return int(r.Total)
}

// PageOffset converts a 1-based page number into a query offset.
// Pages below 1 are treated as the first page. Pages whose offset would not
// fit an int32 are clamped to MaxPage, so the offset never wraps.
func PageOffset(page int, perPage int32) int32 {
	if perPage < 1 {
		return 0
	}
	page = min(max(page, 1), MaxPage(perPage))
	return int32(int64(page-1) * int64(perPage))
}

// MaxPage returns the highest page number whose offset fits an int32.
func MaxPage(perPage int32) int {
	if perPage < 1 {
		return 1
	}
	return int(math.MaxInt32/perPage) + 1
}
