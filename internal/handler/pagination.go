package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"

	"github.com/gorilla/mux"

	"github.com/DukeRupert/pagelinks/internal/domain"
	"github.com/DukeRupert/pagelinks/internal/metrics"
	"github.com/DukeRupert/pagelinks/internal/pagination"
	navui "github.com/DukeRupert/pagelinks/internal/templ/components/pagination"
	"github.com/DukeRupert/pagelinks/internal/urlbuilder"
)

// =============================================================================
// Paginated Collections
// =============================================================================

// Collection is a page of a larger result set. domain.ListItemsResult
// satisfies it.
type Collection interface {
	CurrentPage() int
	TotalPages() int
	PerPage() int
	TotalEntries() int
}

// ErrMissingCollection is matched by every MissingCollectionError.
var ErrMissingCollection = errors.New("missing paginated collection")

// MissingCollectionError reports that no collection was passed to Paginate
// and none was stored in the request context under Name.
type MissingCollectionError struct {
	Name string
}

func (e *MissingCollectionError) Error() string {
	if e.Name == "" {
		return "no collection was passed to Paginate"
	}
	return fmt.Sprintf("the %q collection appears to be empty; did you forget to store it with WithCollection?", e.Name)
}

func (e *MissingCollectionError) Is(target error) bool {
	return target == ErrMissingCollection
}

type collectionKey string

// WithCollection stores coll in ctx under name for a later Paginate call
// that only knows the collection's name.
func WithCollection(ctx context.Context, name string, coll Collection) context.Context {
	return context.WithValue(ctx, collectionKey(name), coll)
}

// CollectionFromContext returns the collection stored under name.
func CollectionFromContext(ctx context.Context, name string) (Collection, error) {
	coll, _ := ctx.Value(collectionKey(name)).(Collection)
	if isNil(coll) {
		return nil, missingCollection(name)
	}
	return coll, nil
}

func missingCollection(name string) error {
	err := &MissingCollectionError{Name: name}
	return domain.Wrap(err, domain.ENOTFOUND, "handler.paginate", err.Error())
}

func isNil(coll Collection) bool {
	if coll == nil {
		return true
	}
	v := reflect.ValueOf(coll)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// =============================================================================
// Facade
// =============================================================================

// PaginationOptions configures Paginate. The zero value uses no window at
// all; callers normally start from the configured defaults.
type PaginationOptions struct {
	Policy    pagination.Policy
	PageParam string
	Blacklist []string
	Extra     pagination.Params

	// CollectionName is looked up in the request context when Paginate is
	// called without a collection.
	CollectionName string

	// URLBuilder defaults to reversing the matched mux route, or to the
	// request path when no route matched.
	URLBuilder pagination.URLBuilder

	Logger *slog.Logger
}

// PaginationView is everything a template needs to draw the pagination
// controls of one page.
type PaginationView struct {
	Links    []pagination.Link
	Previous *pagination.Link
	Next     *pagination.Link
	Info     pagination.EntriesInfo
	Hidden   bool // a single page needs no controls
}

// Nav converts the view into the data of the pagination component.
func (v *PaginationView) Nav() navui.Data {
	return navui.Data{
		Links:    v.Links,
		Previous: v.Previous,
		Next:     v.Next,
		Info:     v.Info,
		Hidden:   v.Hidden,
	}
}

// Paginate resolves the pagination links for coll on the current request.
//
// Query parameters are only forwarded from GET requests. Links whose URL
// cannot be built are kept without a URL; each failure is logged and counted.
func Paginate(r *http.Request, coll Collection, opts PaginationOptions) (*PaginationView, error) {
	if isNil(coll) {
		if opts.CollectionName == "" {
			return nil, missingCollection("")
		}
		c, err := CollectionFromContext(r.Context(), opts.CollectionName)
		if err != nil {
			return nil, err
		}
		coll = c
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	build := opts.URLBuilder
	if build == nil {
		build = currentRouteBuilder(r)
	}

	var params pagination.Params
	if r.Method == http.MethodGet {
		params = pagination.FromValues(r.URL.Query())
	}

	renderer, err := pagination.NewRenderer(pagination.Options{
		Policy:     opts.Policy,
		PageParam:  opts.PageParam,
		Blacklist:  opts.Blacklist,
		Params:     params,
		Extra:      opts.Extra,
		URLBuilder: build,
	})
	if err != nil {
		return nil, err
	}

	total := coll.TotalPages()
	view := &PaginationView{
		Info:   pagination.Info(coll.CurrentPage(), coll.PerPage(), coll.TotalEntries()),
		Hidden: total <= 1,
	}
	if view.Hidden {
		return view, nil
	}

	state := pagination.State{
		CurrentPage: min(max(coll.CurrentPage(), 1), total),
		TotalPages:  total,
	}
	view.Links = renderer.Render(state)
	view.Previous = renderer.Previous(state)
	view.Next = renderer.Next(state)

	metrics.PaginationRendered(view.Links, view.Previous, view.Next)
	logLinkErrors(logger, r, view)

	return view, nil
}

// currentRouteBuilder reverses the route that matched r with its current
// variables, the url_for(current page) of a mux application.
func currentRouteBuilder(r *http.Request) pagination.URLBuilder {
	route := mux.CurrentRoute(r)
	if route == nil {
		return urlbuilder.Path(r.URL.Path)
	}
	var pairs []string
	for name, value := range mux.Vars(r) {
		pairs = append(pairs, name, value)
	}
	return urlbuilder.Route(route, pairs...)
}

func logLinkErrors(logger *slog.Logger, r *http.Request, view *PaginationView) {
	logFailed := func(l pagination.Link) {
		if l.Err == nil {
			return
		}
		logger.Warn("failed to build pagination url",
			"page", l.Page(),
			"path", r.URL.Path,
			"code", domain.ErrorCode(l.Err),
			"error", l.Err,
		)
	}

	for _, l := range view.Links {
		logFailed(l)
	}
	for _, l := range []*pagination.Link{view.Previous, view.Next} {
		if l != nil {
			logFailed(*l)
		}
	}
}
