package pagination

import (
	"errors"
	"slices"
	"strconv"

	"github.com/DukeRupert/pagelinks/internal/domain"
)

const (
	DefaultInnerWindow = 4
	DefaultOuterWindow = 1
)

// ErrInvalidPolicy is wrapped by every error returned for a bad Policy.
var ErrInvalidPolicy = errors.New("invalid pagination policy")

// Policy controls how many page links surround the current page
// (InnerWindow, per side) and how many are pinned to each end of the range
// (OuterWindow).
type Policy struct {
	InnerWindow int
	OuterWindow int
}

// DefaultPolicy returns the policy used when none is configured.
func DefaultPolicy() Policy {
	return Policy{InnerWindow: DefaultInnerWindow, OuterWindow: DefaultOuterWindow}
}

// NewPolicy validates and returns a Policy.
func NewPolicy(inner, outer int) (Policy, error) {
	p := Policy{InnerWindow: inner, OuterWindow: outer}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// Validate rejects negative window sizes.
func (p Policy) Validate() error {
	const op = "pagination.policy"
	if p.InnerWindow < 0 {
		return domain.Wrap(ErrInvalidPolicy, domain.EINVALID, op, "inner window must not be negative")
	}
	if p.OuterWindow < 0 {
		return domain.Wrap(ErrInvalidPolicy, domain.EINVALID, op, "outer window must not be negative")
	}
	return nil
}

// Token is one entry of a window: a page number, or a gap when Page is 0.
type Token struct {
	Page int
}

// Gap marks an elided run of pages.
var Gap = Token{}

// PageToken returns the token for page n.
func PageToken(n int) Token {
	return Token{Page: n}
}

// IsGap reports whether t stands for elided pages.
func (t Token) IsGap() bool {
	return t.Page == 0
}

func (t Token) String() string {
	if t.IsGap() {
		return "…"
	}
	return strconv.Itoa(t.Page)
}

// Window returns the ordered tokens to display for the given page.
//
// Pages 1..outer and total-outer+1..total are always kept, plus the pages
// within inner of current. A single Gap separates kept pages that are not
// adjacent. current is clamped into [1, total] for this computation only.
func Window(current, total int, p Policy) []Token {
	if total <= 0 {
		return nil
	}
	current = min(max(current, 1), total)

	outer := min(max(p.OuterWindow, 0), total)
	inner := min(max(p.InnerWindow, 0), total)

	// current+inner saturates at total
	upper := total
	if inner < total-current {
		upper = current + inner
	}

	var pages []int
	pages = appendRange(pages, 1, outer)
	if outer > 0 {
		pages = appendRange(pages, total-outer+1, total)
	}
	pages = appendRange(pages, max(current-inner, 1), upper)

	slices.Sort(pages)
	pages = slices.Compact(pages)

	tokens := make([]Token, 0, 2*len(pages))
	for i, n := range pages {
		if i > 0 && n-pages[i-1] > 1 {
			tokens = append(tokens, Gap)
		}
		tokens = append(tokens, PageToken(n))
	}
	return tokens
}

// appendRange appends from..to inclusive. It stops at to, so a range ending
// at math.MaxInt terminates.
func appendRange(pages []int, from, to int) []int {
	if from > to {
		return pages
	}
	for n := from; ; n++ {
		pages = append(pages, n)
		if n == to {
			return pages
		}
	}
}
