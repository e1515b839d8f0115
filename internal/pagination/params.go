// Package pagination computes which page links a paginated view exposes and
// the URL each of them resolves to.
//
// The package is pure: it never reads a request or writes markup. Callers
// hand it the current page, the page count and the request query, and get
// back an ordered list of links plus previous/next links.
package pagination

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"

	"github.com/DukeRupert/pagelinks/internal/domain"
)

// Params is the canonical query-parameter mapping.
//
// Keys are plain strings. Values are string, []string, nested Params, or any
// other value, which is carried through untouched.
type Params map[string]any

// Clone returns a deep copy of p. Nested Params and []string values are
// copied; opaque values are shared.
func (p Params) Clone() Params {
	if p == nil {
		return Params{}
	}
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

// Get walks nested Params along path and returns the value found there.
func (p Params) Get(path ...string) (any, bool) {
	if len(path) == 0 {
		return nil, false
	}
	v, ok := p[path[0]]
	if !ok {
		return nil, false
	}
	if len(path) == 1 {
		return v, true
	}
	nested, ok := v.(Params)
	if !ok {
		return nil, false
	}
	return nested.Get(path[1:]...)
}

// Lookup returns the string stored under key. Bracketed keys such as
// "filter[page]" are looked up in the nested Params.
func (p Params) Lookup(key string) (string, bool) {
	path := []string{key}
	if segs, appendList, ok := splitKey(key); ok && !appendList {
		path = segs
	}
	v, _ := p.Get(path...)
	s, ok := v.(string)
	return s, ok
}

// Encode renders p as a query string. Keys are sorted at every level and
// nested Params are written with bracketed keys, so equal mappings always
// produce the same string.
func (p Params) Encode() string {
	var b strings.Builder
	encodeInto(&b, "", p)
	return b.String()
}

// Merge returns a new mapping built from base without the blacklisted keys,
// with every key of override applied on top. Blacklisted keys are dropped
// from override as well. When both sides hold nested Params for a key the
// two are merged recursively. Neither input is modified.
func Merge(base, override Params, blacklist ...string) Params {
	out := Normalize(base)
	for _, key := range blacklist {
		delete(out, key)
	}
	for k, v := range Normalize(override) {
		if slices.Contains(blacklist, k) {
			continue
		}
		out[k] = mergeValue(out[k], v)
	}
	return out
}

// Normalize converts loosely typed maps (map[string]any, map[string]string,
// map[string][]string, url.Values) found anywhere in p into Params and returns
// the converted copy.
func Normalize(p Params) Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = normalizeValue(v)
	}
	return out
}

// FromValues converts a request query into Params. Bracketed keys such as
// "filter[status]" become nested Params, keys ending in "[]" and keys with
// several values become []string, everything else a single string.
func FromValues(values url.Values) Params {
	out := Params{}
	for _, key := range slices.Sorted(maps.Keys(values)) {
		vals := values[key]
		if len(vals) == 0 {
			continue
		}
		segs, appendList, ok := splitKey(key)
		if !ok {
			if len(vals) == 1 {
				out[key] = vals[0]
			} else {
				out[key] = slices.Clone(vals)
			}
			continue
		}
		if appendList || len(vals) > 1 {
			for _, v := range vals {
				_ = assign(out, segs, true, v, false)
			}
			continue
		}
		_ = assign(out, segs, false, vals[0], false)
	}
	return out
}

// ParseNested parses a raw query string with the same key rules as
// FromValues. Pairs are applied in order: a repeated plain key keeps its last
// value. A key used both as a plain value and as a nested structure is
// reported as an error.
func ParseNested(query string) (Params, error) {
	out := Params{}
	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, domain.Wrap(err, domain.EINVALID, "pagination.parse", fmt.Sprintf("invalid key %q", rawKey))
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, domain.Wrap(err, domain.EINVALID, "pagination.parse", fmt.Sprintf("invalid value for %q", key))
		}
		if err := set(out, key, value, true); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// set stores value under a possibly bracketed key.
func set(p Params, key, value string, strict bool) error {
	segs, appendList, ok := splitKey(key)
	if !ok {
		if _, nested := p[key].(Params); nested && strict {
			return domain.Errorf(domain.EINVALID, "pagination.parse", "expected a nested value for %q", key)
		}
		p[key] = value
		return nil
	}
	return assign(p, segs, appendList, value, strict)
}

// splitKey breaks "a[b][c]" into [a b c]. A trailing "[]" sets appendList.
// ok is false for keys without brackets and for keys that are not well
// formed, which are then used verbatim.
func splitKey(key string) (segs []string, appendList bool, ok bool) {
	open := strings.IndexByte(key, '[')
	if open <= 0 {
		return nil, false, false
	}
	segs = append(segs, key[:open])
	rest := key[open:]
	for rest != "" {
		if rest[0] != '[' {
			return nil, false, false
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return nil, false, false
		}
		seg := rest[1:end]
		rest = rest[end+1:]
		if seg == "" {
			if rest != "" {
				// "a[][b]" lists of maps are not supported
				return nil, false, false
			}
			return segs, true, true
		}
		segs = append(segs, seg)
	}
	return segs, false, true
}

func assign(p Params, segs []string, appendList bool, value string, strict bool) error {
	cur := p
	for _, seg := range segs[:len(segs)-1] {
		next, ok := cur[seg].(Params)
		if !ok {
			if _, exists := cur[seg]; exists && strict {
				return domain.Errorf(domain.EINVALID, "pagination.parse", "expected a nested value for %q", seg)
			}
			next = Params{}
			cur[seg] = next
		}
		cur = next
	}

	last := segs[len(segs)-1]
	if !appendList {
		if _, nested := cur[last].(Params); nested && strict {
			return domain.Errorf(domain.EINVALID, "pagination.parse", "expected a nested value for %q", last)
		}
		cur[last] = value
		return nil
	}

	switch existing := cur[last].(type) {
	case nil:
		cur[last] = []string{value}
	case []string:
		cur[last] = append(existing, value)
	case string:
		if strict {
			return domain.Errorf(domain.EINVALID, "pagination.parse", "expected a list value for %q", last)
		}
		cur[last] = []string{existing, value}
	default:
		if strict {
			return domain.Errorf(domain.EINVALID, "pagination.parse", "expected a list value for %q", last)
		}
		cur[last] = []string{value}
	}
	return nil
}

func mergeValue(dst, src any) any {
	dstParams, dstOK := dst.(Params)
	srcParams, srcOK := src.(Params)
	if !dstOK || !srcOK {
		return cloneValue(src)
	}
	out := dstParams.Clone()
	for k, v := range srcParams {
		out[k] = mergeValue(out[k], v)
	}
	return out
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case Params:
		return Normalize(t)
	case map[string]any:
		return Normalize(Params(t))
	case map[string]string:
		out := make(Params, len(t))
		for k, s := range t {
			out[k] = s
		}
		return out
	case url.Values:
		return FromValues(t)
	case map[string][]string:
		return FromValues(url.Values(t))
	case []string:
		return slices.Clone(t)
	default:
		return v
	}
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Params:
		return t.Clone()
	case []string:
		return slices.Clone(t)
	default:
		return v
	}
}

func encodeInto(b *strings.Builder, prefix string, p Params) {
	for _, k := range slices.Sorted(maps.Keys(p)) {
		key := k
		if prefix != "" {
			key = prefix + "[" + k + "]"
		}
		switch v := p[k].(type) {
		case Params:
			encodeInto(b, key, v)
		case []string:
			for _, s := range v {
				writePair(b, key+"[]", s)
			}
		case string:
			writePair(b, key, v)
		case nil:
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(key))
		default:
			writePair(b, key, fmt.Sprint(v))
		}
	}
}

func writePair(b *strings.Builder, key, value string) {
	if b.Len() > 0 {
		b.WriteByte('&')
	}
	b.WriteString(url.QueryEscape(key))
	b.WriteByte('=')
	b.WriteString(url.QueryEscape(value))
}
