// Package pagination provides shared pagination components for list pages.
package pagination

import (
	paging "github.com/DukeRupert/pagelinks/internal/pagination"
)

// Data contains pagination information for display.
type Data struct {
	Links    []paging.Link
	Previous *paging.Link // nil on the first page
	Next     *paging.Link // nil on the last page
	Info     paging.EntriesInfo
	Hidden   bool // nothing to paginate
}

// Config allows customization of pagination behavior.
type Config struct {
	TargetID      string // htmx target, e.g., "item-list"
	UseHtmx       bool   // Enable htmx partial loading
	PushURL       bool   // Update browser URL with hx-push-url
	Class         string // merged into the nav classes
	LinkClass     string // merged into every page link's classes
	PreviousLabel string // defaults to "← Previous"
	NextLabel     string // defaults to "Next →"
}
