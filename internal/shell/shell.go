// Package shell picks which page to show for the current location. It
// resolves paths through a route.Resolver, builds the registered screen for
// the matched page, and falls back to an error screen for unknown paths.
package shell

import (
	"github.com/rileyhilliard/mdash/internal/route"
)

// Factory builds the screen for a resolved route.
type Factory[S any] func(m route.Match) S

// Activation is the outcome of resolving one location.
type Activation[S any] struct {
	Path   string
	Match  route.Match
	Screen S
	// Fallback is set when the error screen was used.
	Fallback bool
}

// Shell maps resolved pages to screens.
type Shell[S any] struct {
	resolver *route.Resolver
	screens  map[route.Page]Factory[S]
	fallback Factory[S]
}

// New creates a shell over resolver. fallback builds the screen for paths
// that match no route, or routes with no registered screen.
func New[S any](resolver *route.Resolver, fallback Factory[S]) *Shell[S] {
	if resolver == nil {
		resolver = route.Default()
	}
	return &Shell[S]{
		resolver: resolver,
		screens:  make(map[route.Page]Factory[S]),
		fallback: fallback,
	}
}

// Register sets the screen factory for page, replacing any earlier one.
func (s *Shell[S]) Register(page route.Page, f Factory[S]) {
	s.screens[page] = f
}

// Resolver returns the resolver used by the shell.
func (s *Shell[S]) Resolver() *route.Resolver {
	return s.resolver
}

// Activate resolves path and builds its screen. It has no side effects.
func (s *Shell[S]) Activate(path string) Activation[S] {
	m := s.resolver.Resolve(path)
	if f, ok := s.screens[m.Page]; ok && m.Found() {
		return Activation[S]{Path: path, Match: m, Screen: f(m)}
	}
	return Activation[S]{Path: path, Match: m, Screen: s.fallback(m), Fallback: true}
}

// Navigator tracks the current location and the way back.
type Navigator[S any] struct {
	shell   *Shell[S]
	current Activation[S]
	history []string
}

// NewNavigator starts a navigator at path.
func NewNavigator[S any](sh *Shell[S], path string) *Navigator[S] {
	return &Navigator[S]{shell: sh, current: sh.Activate(path)}
}

// Current returns the active location.
func (n *Navigator[S]) Current() Activation[S] {
	return n.current
}

// Go moves to path, remembering the previous location.
func (n *Navigator[S]) Go(path string) Activation[S] {
	n.history = append(n.history, n.current.Path)
	n.current = n.shell.Activate(path)
	return n.current
}

// Navigate builds the path for page and moves there. A route.MissingParameterError
// leaves the current location unchanged.
func (n *Navigator[S]) Navigate(page route.Page, params map[string]string) (Activation[S], error) {
	path, err := n.shell.resolver.PathFor(page, params)
	if err != nil {
		return n.current, err
	}
	return n.Go(path), nil
}

// Reload rebuilds the screen for the current path, e.g. after new data.
func (n *Navigator[S]) Reload() Activation[S] {
	n.current = n.shell.Activate(n.current.Path)
	return n.current
}

// Back returns to the previous location. It reports false at the start of
// history.
func (n *Navigator[S]) Back() (Activation[S], bool) {
	if len(n.history) == 0 {
		return n.current, false
	}
	prev := n.history[len(n.history)-1]
	n.history = n.history[:len(n.history)-1]
	n.current = n.shell.Activate(prev)
	return n.current, true
}

// Depth is the number of locations that Back can return to.
func (n *Navigator[S]) Depth() int {
	return len(n.history)
}
