// Package route maps dashboard pages to URL paths and resolves incoming
// paths back to pages.
//
// Routes are kept in an explicit, ordered table and matched first to last,
// so literal paths listed before parameterized ones win regardless of map
// iteration order. Matching is exact on the whole path; a single trailing
// slash is tolerated and literal segments compare case-insensitively.
package route

import (
	"fmt"
	"net/url"
	"strings"
)

// Page names a logical dashboard page.
type Page string

const (
	PageIndex            Page = "index"
	PageTriggerAdd       Page = "triggerAdd"
	PageTriggerDuplicate Page = "triggerDuplicate"
	PageTriggerEdit      Page = "triggerEdit"
	PageTrigger          Page = "trigger"
	PageSettings         Page = "settings"
	PageNotifications    Page = "notifications"
	PageTags             Page = "tags"
	PagePatterns         Page = "patterns"

	// NotFound is returned by Resolve when no route matches.
	NotFound Page = "notFound"
)

// ParamID is the positional parameter carrying a trigger id.
const ParamID = "id"

// Route pairs a page with its path pattern. Parameters are written as
// {name} and span exactly one path segment.
type Route struct {
	Page    Page
	Pattern string

	segments []segment
}

type segment struct {
	literal string
	param   string
}

// DefaultRoutes is the canonical route table in match priority order.
// External links depend on these patterns.
var DefaultRoutes = []Route{
	{Page: PageIndex, Pattern: "/"},
	{Page: PageTriggerAdd, Pattern: "/trigger/new"},
	{Page: PageTriggerDuplicate, Pattern: "/trigger/{id}/duplicate"},
	{Page: PageTriggerEdit, Pattern: "/trigger/{id}/edit"},
	{Page: PageTrigger, Pattern: "/trigger/{id}"},
	{Page: PageSettings, Pattern: "/settings"},
	{Page: PageNotifications, Pattern: "/notifications"},
	{Page: PageTags, Pattern: "/tags"},
	{Page: PagePatterns, Pattern: "/patterns"},
}

// MissingParameterError is returned by PathFor when a pattern parameter has
// no value.
type MissingParameterError struct {
	Page  Page
	Param string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("page %s needs parameter %q", e.Page, e.Param)
}

// UnknownPageError is returned by PathFor for pages missing from the table.
type UnknownPageError struct {
	Page Page
}

func (e *UnknownPageError) Error() string {
	return fmt.Sprintf("no route for page %q", string(e.Page))
}

// Match is the result of resolving a path.
type Match struct {
	Page   Page
	Params map[string]string
}

// Found reports whether the path matched a registered route.
func (m Match) Found() bool {
	return m.Page != NotFound
}

// Param returns a matched parameter value, or "" when absent.
func (m Match) Param(name string) string {
	return m.Params[name]
}

// Resolver matches paths against an ordered route table.
type Resolver struct {
	routes []Route
	byPage map[Page]int
}

// NewResolver compiles routes, keeping their order as match priority.
func NewResolver(routes []Route) (*Resolver, error) {
	r := &Resolver{byPage: make(map[Page]int, len(routes))}
	for _, rt := range routes {
		if rt.Page == NotFound || rt.Page == "" {
			return nil, fmt.Errorf("invalid page name %q", string(rt.Page))
		}
		if _, dup := r.byPage[rt.Page]; dup {
			return nil, fmt.Errorf("page %s registered twice", rt.Page)
		}
		segs, err := parsePattern(rt.Pattern)
		if err != nil {
			return nil, fmt.Errorf("page %s: %w", rt.Page, err)
		}
		rt.segments = segs
		r.byPage[rt.Page] = len(r.routes)
		r.routes = append(r.routes, rt)
	}
	return r, nil
}

var defaultResolver = mustResolver(DefaultRoutes)

func mustResolver(routes []Route) *Resolver {
	r, err := NewResolver(routes)
	if err != nil {
		panic(err)
	}
	return r
}

// Default returns the resolver for DefaultRoutes.
func Default() *Resolver {
	return defaultResolver
}

// Routes returns the table in priority order.
func (r *Resolver) Routes() []Route {
	out := make([]Route, len(r.routes))
	copy(out, r.routes)
	return out
}

// Pattern returns the path pattern registered for page.
func (r *Resolver) Pattern(page Page) (string, bool) {
	i, ok := r.byPage[page]
	if !ok {
		return "", false
	}
	return r.routes[i].Pattern, true
}

// Params returns the parameter names page's pattern expects, in order.
func (r *Resolver) Params(page Page) []string {
	i, ok := r.byPage[page]
	if !ok {
		return nil
	}
	var names []string
	for _, s := range r.routes[i].segments {
		if s.param != "" {
			names = append(names, s.param)
		}
	}
	return names
}

// PathFor builds the path for page, substituting params into its pattern.
// Parameter values are path-escaped; extra params are ignored.
func (r *Resolver) PathFor(page Page, params map[string]string) (string, error) {
	i, ok := r.byPage[page]
	if !ok {
		return "", &UnknownPageError{Page: page}
	}

	segs := r.routes[i].segments
	if len(segs) == 0 {
		return "/", nil
	}

	var b strings.Builder
	for _, s := range segs {
		b.WriteByte('/')
		if s.param == "" {
			b.WriteString(s.literal)
			continue
		}
		v := params[s.param]
		if v == "" {
			return "", &MissingParameterError{Page: page, Param: s.param}
		}
		b.WriteString(url.PathEscape(v))
	}
	return b.String(), nil
}

// MustPathFor is PathFor for callers that know the params are complete.
func (r *Resolver) MustPathFor(page Page, params map[string]string) string {
	p, err := r.PathFor(page, params)
	if err != nil {
		panic(err)
	}
	return p
}

// Resolve returns the first route matching path. Query strings and
// fragments are ignored. Unmatched paths resolve to NotFound; Resolve never
// fails.
func (r *Resolver) Resolve(path string) Match {
	parts, ok := splitPath(path)
	if !ok {
		return Match{Page: NotFound}
	}

	for _, rt := range r.routes {
		if params, ok := matchSegments(rt.segments, parts); ok {
			return Match{Page: rt.Page, Params: params}
		}
	}
	return Match{Page: NotFound}
}

func matchSegments(segs []segment, parts []string) (map[string]string, bool) {
	if len(segs) != len(parts) {
		return nil, false
	}
	params := make(map[string]string)
	for i, s := range segs {
		part := parts[i]
		if s.param == "" {
			if !strings.EqualFold(s.literal, part) {
				return nil, false
			}
			continue
		}
		if part == "" {
			return nil, false
		}
		if v, err := url.PathUnescape(part); err == nil {
			part = v
		}
		params[s.param] = part
	}
	return params, true
}

// splitPath turns "/a/b/" into ["a", "b"]. The root path yields no parts.
func splitPath(path string) ([]string, bool) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		return nil, false
	}
	path = strings.TrimPrefix(path, "/")
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		return nil, true
	}
	return strings.Split(path, "/"), true
}

func parsePattern(pattern string) ([]segment, error) {
	if !strings.HasPrefix(pattern, "/") {
		return nil, fmt.Errorf("pattern %q must start with /", pattern)
	}
	trimmed := strings.Trim(pattern, "/")
	if trimmed == "" {
		return nil, nil
	}

	seen := make(map[string]bool)
	var segs []segment
	for _, part := range strings.Split(trimmed, "/") {
		switch {
		case part == "":
			return nil, fmt.Errorf("pattern %q has an empty segment", pattern)
		case strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}"):
			name := part[1 : len(part)-1]
			if name == "" || seen[name] {
				return nil, fmt.Errorf("pattern %q has a bad parameter %q", pattern, part)
			}
			seen[name] = true
			segs = append(segs, segment{param: name})
		default:
			segs = append(segs, segment{literal: part})
		}
	}
	return segs, nil
}
