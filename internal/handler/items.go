// Package handler contains HTTP handlers for the pagelinks server.
//
// This file implements the paginated item index.
package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/DukeRupert/pagelinks/internal/domain"
	"github.com/DukeRupert/pagelinks/internal/pagination"
	"github.com/DukeRupert/pagelinks/internal/service"
	navui "github.com/DukeRupert/pagelinks/internal/templ/components/pagination"
	"github.com/DukeRupert/pagelinks/internal/templ/pages/items"
	"github.com/DukeRupert/pagelinks/internal/urlbuilder"
)

// ItemsRoute names the item index route.
const ItemsRoute = "items"

// itemsCollection is the context name the index stores its page under.
const itemsCollection = "items"

// ItemHandler serves the item pages.
type ItemHandler struct {
	itemService service.ItemService
	logger      *slog.Logger
	perPage     int32
	pagination  PaginationOptions
	router      *mux.Router
}

// NewItemHandler creates a new ItemHandler. opts.Logger defaults to logger.
// perPage is clamped into [1, service.MaxPerPage].
func NewItemHandler(itemService service.ItemService, logger *slog.Logger, perPage int, opts PaginationOptions) *ItemHandler {
	if opts.Logger == nil {
		opts.Logger = logger
	}
	opts.CollectionName = itemsCollection
	return &ItemHandler{
		itemService: itemService,
		logger:      logger,
		perPage:     int32(min(max(perPage, 1), service.MaxPerPage)),
		pagination:  opts,
	}
}

// RegisterRoutes adds the item routes to r.
func (h *ItemHandler) RegisterRoutes(r *mux.Router) {
	h.router = r
	r.HandleFunc("/items", h.Index).Methods(http.MethodGet, http.MethodHead).Name(ItemsRoute)
	r.HandleFunc("/items", h.Create).Methods(http.MethodPost)
}

// Index displays a paginated list of items. htmx requests get only the
// list fragment and JSON clients get the items with their links.
func (h *ItemHandler) Index(w http.ResponseWriter, r *http.Request) {
	page := h.requestedPage(r)

	result, err := h.itemService.List(r.Context(), domain.ListItemsParams{
		Limit:  h.perPage,
		Offset: domain.PageOffset(page, h.perPage),
	})
	if err != nil {
		h.logger.Error("failed to list items", "error", err, "page", page)
		if acceptsJSON(r) {
			ErrorResponse(w, r, h.logger, err)
			return
		}
		h.renderIndex(w, r, items.ListPageData{CurrentPath: r.URL.Path, Error: "Failed to load items. Please try again."})
		return
	}

	r = r.WithContext(WithCollection(r.Context(), itemsCollection, result))
	view, err := Paginate(r, nil, h.pagination)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	if acceptsJSON(r) {
		writeJSON(w, http.StatusOK, newItemsResponse(result, view))
		return
	}

	displayItems := make([]items.DisplayItem, len(result.Items))
	for i, item := range result.Items {
		displayItems[i] = items.DisplayItem{
			ID:        item.ID.String(),
			Title:     item.Title,
			Body:      item.Body,
			CreatedAt: item.CreatedAt.Format("Jan 2, 2006 3:04 PM"),
		}
	}

	h.renderIndex(w, r, items.ListPageData{
		CurrentPath:      r.URL.Path,
		Items:            displayItems,
		Pagination:       view.Nav(),
		PaginationConfig: navConfig(),
	})
}

// Create stores a new item and redirects to the first page of the index.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("item.create", "Invalid form data"))
		return
	}

	item, err := h.itemService.Create(r.Context(), r.FormValue("title"), r.FormValue("body"))
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	if acceptsJSON(r) {
		writeJSON(w, http.StatusCreated, newItemJSON(*item))
		return
	}

	target := "/items"
	if h.router != nil {
		build, err := urlbuilder.Named(h.router, ItemsRoute)
		if err == nil {
			target, err = build(pagination.Params{})
		}
		if err != nil {
			h.logger.Warn("failed to build items url", "error", err)
			target = "/items"
		}
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// requestedPage reads the page number from the configured page param.
// Missing or malformed values select the first page. Pages too large to
// query are clamped by domain.PageOffset.
func (h *ItemHandler) requestedPage(r *http.Request) int {
	param := h.pagination.PageParam
	if param == "" {
		param = pagination.DefaultPageParam
	}

	raw, _ := pagination.FromValues(r.URL.Query()).Lookup(param)
	if p, err := strconv.Atoi(raw); err == nil && p > 0 {
		return p
	}
	return 1
}

func (h *ItemHandler) renderIndex(w http.ResponseWriter, r *http.Request, data items.ListPageData) {
	component := items.IndexPage(data)
	if r.Header.Get("HX-Request") == "true" {
		component = items.List(data)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render items index", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func navConfig() navui.Config {
	return navui.Config{
		UseHtmx:  true,
		TargetID: items.ListTargetID,
		PushURL:  true,
	}
}

// =============================================================================
// JSON Responses
// =============================================================================

type itemJSON struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func newItemJSON(item domain.Item) itemJSON {
	return itemJSON{
		ID:        item.ID.String(),
		Title:     item.Title,
		Body:      item.Body,
		CreatedAt: item.CreatedAt,
	}
}

// linkJSON is a pagination link. URL is null for gaps and for links whose
// URL could not be built.
type linkJSON struct {
	Page    int     `json:"page,omitempty"`
	Gap     bool    `json:"gap,omitempty"`
	URL     *string `json:"url"`
	Current bool    `json:"current,omitempty"`
	Rel     string  `json:"rel,omitempty"`
}

func newLinkJSON(l *pagination.Link) *linkJSON {
	if l == nil {
		return nil
	}
	out := &linkJSON{
		Page:    l.Page(),
		Gap:     l.Token.IsGap(),
		Current: l.IsCurrent,
		Rel:     l.Rel,
	}
	if l.HasURL {
		u := l.URL
		out.URL = &u
	}
	return out
}

type paginationJSON struct {
	CurrentPage  int         `json:"current_page"`
	TotalPages   int         `json:"total_pages"`
	PerPage      int         `json:"per_page"`
	TotalEntries int         `json:"total_entries"`
	First        int         `json:"first"`
	Last         int         `json:"last"`
	HasPrevious  bool        `json:"has_previous"`
	HasMore      bool        `json:"has_more"`
	Links        []*linkJSON `json:"links"`
	Previous     *linkJSON   `json:"previous"`
	Next         *linkJSON   `json:"next"`
}

type itemsResponse struct {
	Items      []itemJSON     `json:"items"`
	Pagination paginationJSON `json:"pagination"`
}

func newItemsResponse(result *domain.ListItemsResult, view *PaginationView) itemsResponse {
	resp := itemsResponse{
		Items: make([]itemJSON, len(result.Items)),
		Pagination: paginationJSON{
			CurrentPage:  result.CurrentPage(),
			TotalPages:   result.TotalPages(),
			PerPage:      result.PerPage(),
			TotalEntries: result.TotalEntries(),
			First:        view.Info.First,
			Last:         view.Info.Last,
			HasPrevious:  result.HasPrevious(),
			HasMore:      result.HasMore(),
			Links:        make([]*linkJSON, len(view.Links)),
			Previous:     newLinkJSON(view.Previous),
			Next:         newLinkJSON(view.Next),
		},
	}
	for i, item := range result.Items {
		resp.Items[i] = newItemJSON(item)
	}
	for i := range view.Links {
		resp.Pagination.Links[i] = newLinkJSON(&view.Links[i])
	}
	return resp
}
