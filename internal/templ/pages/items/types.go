// Package items contains templ components for the items pages.
package items

import "github.com/DukeRupert/pagelinks/internal/templ/components/pagination"

// DisplayItem contains item data formatted for display
type DisplayItem struct {
	ID        string
	Title     string
	Body      string
	CreatedAt string // already formatted
}

// ListPageData contains data for the items list page
type ListPageData struct {
	CurrentPath      string
	Items            []DisplayItem
	Pagination       pagination.Data
	PaginationConfig pagination.Config
	Error            string // shown instead of the list when set
}
