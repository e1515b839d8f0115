package pagination

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/DukeRupert/pagelinks/internal/domain"
)

// DefaultPageParam is the query key carrying the page number.
const DefaultPageParam = "page"

// DefaultBlacklist lists routing keys that are never copied from the
// request into generated links.
var DefaultBlacklist = []string{"script_name", "original_script_name"}

// nonKeyChar matches anything outside the plain query-key alphabet. Page
// params containing such characters are treated as nested keys.
var nonKeyChar = regexp.MustCompile(`[^\w-]`)

// State is the pagination position of one request. CurrentPage is expected
// to be within [1, max(TotalPages, 1)].
type State struct {
	CurrentPage int
	TotalPages  int
}

// URLBuilder resolves a parameter mapping into a URL for the current route.
type URLBuilder func(Params) (string, error)

// Link describes one pagination control.
type Link struct {
	Token     Token
	URL       string
	HasURL    bool   // false for gaps and for links whose URL failed to build
	IsCurrent bool   // the page being displayed
	Rel       string // "prev", "next", "start" or a space separated mix
	Err       error  // URL builder failure for this link
}

// Page returns the page number of the link, 0 for gaps.
func (l Link) Page() int {
	return l.Token.Page
}

// Options configures a Renderer.
type Options struct {
	Policy Policy

	// PageParam defaults to DefaultPageParam.
	PageParam string

	// Blacklist defaults to DefaultBlacklist when nil. Pass an empty,
	// non-nil slice to forward every request key. It does not apply to Extra.
	Blacklist []string

	// Params are the current request's query parameters.
	Params Params

	// Extra is merged over Params, e.g. a fixed sort order for the list.
	Extra Params

	URLBuilder URLBuilder
}

// Renderer resolves the links of one paginated view. It holds no mutable
// state after construction and can be shared between goroutines as long as
// its URLBuilder can.
type Renderer struct {
	policy    Policy
	pageParam string
	base      Params
	build     URLBuilder
}

// NewRenderer validates opts and precomputes the base parameters shared by
// every link.
func NewRenderer(opts Options) (*Renderer, error) {
	const op = "pagination.renderer"

	if err := opts.Policy.Validate(); err != nil {
		return nil, err
	}
	if opts.URLBuilder == nil {
		return nil, domain.Invalid(op, "url builder is required")
	}

	pageParam := opts.PageParam
	if pageParam == "" {
		pageParam = DefaultPageParam
	}
	blacklist := opts.Blacklist
	if blacklist == nil {
		blacklist = DefaultBlacklist
	}

	// The blacklist filters request keys only. Extra comes from the caller
	// and may carry any key.
	base := Merge(opts.Params, nil, blacklist...)
	base = Merge(base, opts.Extra)

	return &Renderer{
		policy:    opts.Policy,
		pageParam: pageParam,
		base:      base,
		build:     opts.URLBuilder,
	}, nil
}

// Render returns the links for every token of the window around s.
// Gaps carry no URL and never reach the URL builder.
func (r *Renderer) Render(s State) []Link {
	tokens := Window(s.CurrentPage, s.TotalPages, r.policy)
	links := make([]Link, 0, len(tokens))
	for _, t := range tokens {
		if t.IsGap() {
			links = append(links, Link{Token: t})
			continue
		}
		links = append(links, r.link(t.Page, s))
	}
	return links
}

// Previous returns the link to the page before s, or nil on the first page.
func (r *Renderer) Previous(s State) *Link {
	if s.CurrentPage <= 1 {
		return nil
	}
	l := r.link(s.CurrentPage-1, s)
	return &l
}

// Next returns the link to the page after s, or nil on the last page.
func (r *Renderer) Next(s State) *Link {
	if s.CurrentPage >= s.TotalPages {
		return nil
	}
	l := r.link(s.CurrentPage+1, s)
	return &l
}

// Params returns the parameters a link to page would be built from.
func (r *Renderer) Params(page int) Params {
	params := r.base.Clone()
	r.addPageParam(params, page)
	return params
}

// URL resolves the URL of page.
func (r *Renderer) URL(page int) (string, error) {
	return r.build(r.Params(page))
}

func (r *Renderer) link(page int, s State) Link {
	l := Link{
		Token:     PageToken(page),
		IsCurrent: page == s.CurrentPage,
		Rel:       relValue(page, s.CurrentPage),
	}
	u, err := r.URL(page)
	if err != nil {
		l.Err = err
		return l
	}
	l.URL = u
	l.HasURL = true
	return l
}

// addPageParam sets the page number. It bypasses the blacklist. A nested
// key such as "filter[page]" is expanded and merged so that sibling keys
// under "filter" survive.
func (r *Renderer) addPageParam(params Params, page int) {
	value := strconv.Itoa(page)
	if !nonKeyChar.MatchString(r.pageParam) {
		params[r.pageParam] = value
		return
	}

	// a flat copy of the same key would shadow the nested value
	delete(params, r.pageParam)

	override := Params{}
	if err := set(override, r.pageParam, value, false); err != nil {
		params[r.pageParam] = value
		return
	}
	for k, v := range override {
		params[k] = mergeValue(params[k], v)
	}
}

func relValue(page, current int) string {
	var rels []string
	switch page {
	case current - 1:
		rels = append(rels, "prev")
	case current + 1:
		rels = append(rels, "next")
	}
	if page == 1 {
		rels = append(rels, "start")
	}
	return strings.Join(rels, " ")
}

// Errors returns the URL builder failures of links, joined.
func Errors(links []Link) error {
	var errs []error
	for _, l := range links {
		if l.Err != nil {
			errs = append(errs, l.Err)
		}
	}
	return errors.Join(errs...)
}
