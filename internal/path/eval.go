package path

import (
	"errors"
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/mkarolys/pagepath/internal/dom"
)

// ChainToken joins the per-context segments of a chained expression. One
// token serves both shadow and frame crossings: the environment knows which
// kind of subtree hangs off the host a segment resolves to.
const ChainToken = " >>> "

// ErrNotBoundaryHost is returned when a chained segment resolves to an
// element that has no shadow root or frame document attached.
var ErrNotBoundaryHost = errors.New("chained segment did not resolve to a boundary host")

// Evaluator resolves expressions of any kind against context roots. It is
// the tree-query primitive the orchestrator and the detector depend on.
type Evaluator struct {
	env *dom.Env
}

// NewEvaluator builds an Evaluator over an environment.
func NewEvaluator(env *dom.Env) *Evaluator {
	return &Evaluator{env: env}
}

// First returns the first node the expression resolves to under root, or
// (nil, nil) when it resolves to nothing. Malformed expressions return an
// error; callers in the validation loop treat that as "did not resolve".
func (ev *Evaluator) First(root *html.Node, expr string, kind Kind) (*html.Node, error) {
	switch kind {
	case KindSelector:
		sel, err := cascadia.Parse(expr)
		if err != nil {
			return nil, fmt.Errorf("parse selector %q: %w", expr, err)
		}
		return cascadia.Query(root, sel), nil
	case KindXPath:
		n, err := htmlquery.Query(root, expr)
		if err != nil {
			return nil, fmt.Errorf("evaluate xpath %q: %w", expr, err)
		}
		return n, nil
	case KindChained:
		return ev.firstChained(root, expr)
	}
	return nil, fmt.Errorf("unknown path kind %q", kind)
}

// All returns every node the expression resolves to under root.
func (ev *Evaluator) All(root *html.Node, expr string, kind Kind) ([]*html.Node, error) {
	switch kind {
	case KindSelector:
		sel, err := cascadia.Parse(expr)
		if err != nil {
			return nil, fmt.Errorf("parse selector %q: %w", expr, err)
		}
		return cascadia.QueryAll(root, sel), nil
	case KindXPath:
		nodes, err := htmlquery.QueryAll(root, expr)
		if err != nil {
			return nil, fmt.Errorf("evaluate xpath %q: %w", expr, err)
		}
		return nodes, nil
	case KindChained:
		n, err := ev.firstChained(root, expr)
		if err != nil || n == nil {
			return nil, err
		}
		return []*html.Node{n}, nil
	}
	return nil, fmt.Errorf("unknown path kind %q", kind)
}

// firstChained walks a chained expression segment by segment. Every segment
// but the last must land on a boundary host; evaluation then descends into
// the host's shadow root or frame document.
func (ev *Evaluator) firstChained(root *html.Node, expr string) (*html.Node, error) {
	segments := strings.Split(expr, strings.TrimSpace(ChainToken))
	current := root
	for i, segment := range segments {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			return nil, fmt.Errorf("empty segment %d in chained expression", i+1)
		}
		n, err := ev.First(current, segment, segmentKind(segment))
		if err != nil {
			return nil, err
		}
		if n == nil {
			return nil, nil
		}
		if i == len(segments)-1 {
			return n, nil
		}
		next, ok := ev.env.BoundaryTarget(n)
		if !ok {
			return nil, fmt.Errorf("segment %d (%q): %w", i+1, segment, ErrNotBoundaryHost)
		}
		current = next
	}
	return nil, nil
}

// segmentKind picks the base kind of one chained segment from cheap
// syntactic signals. Segments are generator output, so the leading slash of
// an absolute XPath (or an id anchor) is a reliable tell.
func segmentKind(segment string) Kind {
	if strings.HasPrefix(segment, "/") || strings.HasPrefix(segment, "(") {
		return KindXPath
	}
	return KindSelector
}
