package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rileyhilliard/mdash/internal/errors"
	"github.com/rileyhilliard/mdash/internal/route"
	"github.com/rileyhilliard/mdash/internal/ui"
)

type routeJSON struct {
	Path   string            `json:"path"`
	Page   string            `json:"page"`
	Found  bool              `json:"found"`
	Params map[string]string `json:"params,omitempty"`
}

// routeResolveCommand prints the page a path resolves to.
func routeResolveCommand(w io.Writer, path string) error {
	m := route.Default().Resolve(path)

	if machineMode {
		return WriteJSONSuccess(w, routeJSON{Path: path, Page: string(m.Page), Found: m.Found(), Params: m.Params})
	}

	if !m.Found() {
		fmt.Fprintf(w, "%s %s\n", ui.ErrorStyle().Render(ui.SymbolFail), ui.MutedStyle().Render("no page matches "+path))
		fmt.Fprintf(w, "page: %s\n", m.Page)
		return nil
	}
	fmt.Fprintf(w, "page: %s\n", m.Page)
	for _, k := range sortedKeys(m.Params) {
		fmt.Fprintf(w, "%s: %s\n", k, m.Params[k])
	}
	return nil
}

// routePathCommand builds the path for a page from key=value arguments.
func routePathCommand(w io.Writer, page string, args []string) error {
	params := make(map[string]string, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return errors.New(errors.ErrRoute,
				fmt.Sprintf("'%s' is not a key=value parameter", arg),
				"Pass parameters like id=cpu.")
		}
		params[k] = v
	}

	r := route.Default()
	path, err := r.PathFor(route.Page(page), params)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrRoute,
			fmt.Sprintf("Can't build a path for '%s'", page),
			"Pages: "+pageList(r)+".")
	}

	if machineMode {
		return WriteJSONSuccess(w, routeJSON{Path: path, Page: page, Found: true, Params: params})
	}
	fmt.Fprintln(w, path)
	return nil
}

func pageList(r *route.Resolver) string {
	var pages []string
	for _, rt := range r.Routes() {
		name := string(rt.Page)
		if params := r.Params(rt.Page); len(params) > 0 {
			name += "(" + strings.Join(params, ", ") + ")"
		}
		pages = append(pages, name)
	}
	return strings.Join(pages, ", ")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
