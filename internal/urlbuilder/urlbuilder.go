// Package urlbuilder provides pagination.URLBuilder implementations backed
// by plain paths, gorilla/mux named routes and RFC 6570 URI templates.
package urlbuilder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/DukeRupert/pagelinks/internal/domain"
	"github.com/DukeRupert/pagelinks/internal/pagination"
	"github.com/gorilla/mux"
	"github.com/jtacoma/uritemplates"
)

// ErrUnresolved is wrapped by every error a builder returns.
var ErrUnresolved = errors.New("url could not be resolved")

// Path returns a builder that appends the encoded parameters to path.
func Path(path string) pagination.URLBuilder {
	return func(p pagination.Params) (string, error) {
		return withQuery(path, p), nil
	}
}

// Route returns a builder that reverses route. Route variables are filled
// from params holding a string value of the same name, falling back to the
// fixed pairs; params used this way are left out of the query string.
func Route(route *mux.Route, pairs ...string) pagination.URLBuilder {
	const op = "urlbuilder.route"

	fixed := make(map[string]string, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		fixed[pairs[i]] = pairs[i+1]
	}

	return func(p pagination.Params) (string, error) {
		names, err := route.GetVarNames()
		if err != nil {
			return "", unresolved(err, op, route.GetName())
		}

		query := p.Clone()
		vars := make([]string, 0, 2*len(names))
		for _, name := range names {
			if v, ok := query[name].(string); ok {
				vars = append(vars, name, v)
				delete(query, name)
				continue
			}
			if v, ok := fixed[name]; ok {
				vars = append(vars, name, v)
			}
		}

		u, err := route.URLPath(vars...)
		if err != nil {
			return "", unresolved(err, op, route.GetName())
		}
		return withQuery(u.Path, query), nil
	}
}

// Named looks up a route by name on router and returns its builder.
func Named(router *mux.Router, name string, pairs ...string) (pagination.URLBuilder, error) {
	route := router.Get(name)
	if route == nil {
		return nil, domain.NotFound("urlbuilder.named", "route", name)
	}
	return Route(route, pairs...), nil
}

// Template expands an RFC 6570 template such as
// "/collections/{collection}/items" with vars and returns a builder that
// appends the parameters to the expanded path.
func Template(tmpl string, vars map[string]interface{}) (pagination.URLBuilder, error) {
	const op = "urlbuilder.template"

	t, err := uritemplates.Parse(tmpl)
	if err != nil {
		return nil, domain.Wrap(errors.Join(ErrUnresolved, err), domain.EINVALID, op, fmt.Sprintf("invalid template %q", tmpl))
	}
	path, err := t.Expand(vars)
	if err != nil {
		return nil, domain.Wrap(errors.Join(ErrUnresolved, err), domain.EINVALID, op, fmt.Sprintf("failed to expand %q", tmpl))
	}
	return Path(path), nil
}

func withQuery(path string, p pagination.Params) string {
	query := p.Encode()
	if query == "" {
		return path
	}
	if strings.Contains(path, "?") {
		return path + "&" + query
	}
	return path + "?" + query
}

func unresolved(err error, op, route string) error {
	return domain.Wrap(errors.Join(ErrUnresolved, err), domain.EINTERNAL, op, fmt.Sprintf("failed to build url for route %q", route))
}
