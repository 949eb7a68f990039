package path

import (
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/mkarolys/pagepath/internal/dom"
)

// contextSegment pairs a node with the kind of context it lives in.
type contextSegment struct {
	node *html.Node
	kind dom.ContextKind
}

// GenerateAcrossContexts detects whether the node lives behind shadow-root
// or frame boundaries and, if so, composes one chained expression out of a
// locally validated path per context. A node in a single context delegates
// straight to Generate and keeps its plain kind.
func (g *Generator) GenerateAcrossContexts(node *html.Node, req Request) Path {
	segments := g.contextChain(node)
	if len(segments) <= 1 {
		return g.Generate(node, req)
	}

	// The chain is evaluated from the outermost context seen. When the climb
	// hit the crossing cap this is not the top document and the chain stays
	// best-effort.
	topRoot := g.env.ContextRoot(segments[0].node)

	var chain string
	worst := MetaOk
	if segments[0].kind != dom.ContextDocument {
		// The climb hit the crossing cap (or a detached root): the chain does
		// not start at the top document and callers cannot evaluate it there.
		worst = MetaError
	}
	for i, seg := range segments {
		local := g.Generate(seg.node, req)
		if local.Meta.worse(worst) {
			worst = local.Meta
		}
		if i == 0 {
			chain = local.Expression
		} else {
			chain += ChainToken + local.Expression
		}

		// A locally correct segment can still compose into a globally wrong
		// chain (e.g. the segment matches a different host first). Re-check
		// the whole accumulated chain before descending further.
		got, err := g.eval.First(topRoot, chain, KindChained)
		if err != nil || got != seg.node {
			worst = MetaError
			g.log.Debug("accumulated chain failed to resolve",
				zap.Int("segment", i+1),
				zap.String("context", seg.kind.String()),
				zap.String("chain", chain),
				zap.Error(err))
		}
	}
	return Path{Expression: chain, Kind: KindChained, Meta: worst}
}

// contextChain walks host links upward and returns the node of each context
// from outermost to innermost. The climb is capped to guard pathological or
// cyclic containment; past the cap it silently stops, yielding a chain of
// the levels seen so far.
func (g *Generator) contextChain(node *html.Node) []contextSegment {
	var segments []contextSegment
	cur := node
	for {
		root := g.env.ContextRoot(cur)
		kind, host := g.env.Context(root)
		segments = append([]contextSegment{{node: cur, kind: kind}}, segments...)
		if kind == dom.ContextDocument || host == nil {
			break
		}
		if len(segments) > g.maxCrossings {
			break
		}
		cur = host
	}
	return segments
}
