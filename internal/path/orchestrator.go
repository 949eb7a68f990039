package path

import (
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/mkarolys/pagepath/internal/dom"
)

// Engine tuning defaults; overridable through options and config.
const (
	DefaultMaxTextLength        = 30
	DefaultMaxBoundaryCrossings = 10
)

// UniquenessChecker answers whether an identifier occurs exactly once in a
// context tree. The default scans the whole tree per call; callers with an
// indexed view can inject a cheaper implementation.
type UniquenessChecker interface {
	IsUniqueID(root *html.Node, id string) bool
}

type treeScanChecker struct{}

func (treeScanChecker) IsUniqueID(root *html.Node, id string) bool {
	count := 0
	dom.WalkElements(root, func(e *html.Node) bool {
		if dom.ID(e) == id {
			count++
			if count > 1 {
				return false
			}
		}
		return true
	})
	return count == 1
}

// Generator drives both path algorithms through an ordered fallback
// sequence, validating every candidate against the live tree. It holds no
// state across calls beyond its configuration.
type Generator struct {
	env     *dom.Env
	eval    *Evaluator
	log     *zap.Logger
	idCheck UniquenessChecker

	maxTextLength int
	maxCrossings  int
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithLogger attaches a logger for fallback-state tracing.
func WithLogger(l *zap.Logger) GeneratorOption {
	return func(g *Generator) { g.log = l }
}

// WithMaxTextLength bounds text/attribute qualifier length.
func WithMaxTextLength(n int) GeneratorOption {
	return func(g *Generator) { g.maxTextLength = n }
}

// WithMaxBoundaryCrossings bounds the context-composition climb.
func WithMaxBoundaryCrossings(n int) GeneratorOption {
	return func(g *Generator) { g.maxCrossings = n }
}

// WithUniquenessChecker swaps the identifier-uniqueness predicate.
func WithUniquenessChecker(c UniquenessChecker) GeneratorOption {
	return func(g *Generator) { g.idCheck = c }
}

// NewGenerator builds a Generator over an environment.
func NewGenerator(env *dom.Env, opts ...GeneratorOption) *Generator {
	g := &Generator{
		env:           env,
		eval:          NewEvaluator(env),
		log:           zap.NewNop(),
		idCheck:       treeScanChecker{},
		maxTextLength: DefaultMaxTextLength,
		maxCrossings:  DefaultMaxBoundaryCrossings,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Env returns the environment the generator operates on.
func (g *Generator) Env() *dom.Env { return g.env }

// Evaluator returns the generator's expression evaluator.
func (g *Generator) Evaluator() *Evaluator { return g.eval }

// attempt is one state of the fallback sequence.
type attempt struct {
	alg  Algorithm
	mode heuristicMode
}

// Generate produces a validated path for a node relative to its own context
// root. Chained composition across boundaries is GenerateAcrossContexts.
func (g *Generator) Generate(node *html.Node, req Request) Path {
	root := g.env.ContextRoot(node)
	return g.generateIn(root, node, req)
}

// generateIn runs the strategy sequence: the requested algorithm plain, then
// the heuristic algorithm with local and local+global index fallback, then
// the not-yet-tried algorithm. The first candidate that identity-resolves to
// the node wins. Exhaustion returns the last candidate the originally
// requested algorithm produced tagged MetaError so callers can surface an
// unreliable-path warning instead of losing the expression.
func (g *Generator) generateIn(root, node *html.Node, req Request) Path {
	if req.Kind == KindChained {
		// Chained is a composition result, not a generation flavor.
		req.Kind = KindSelector
	}

	attempts := []attempt{
		{alg: req.Algorithm},
		{alg: AlgorithmHeuristic, mode: heuristicMode{fallbackLocal: true}},
		{alg: AlgorithmHeuristic, mode: heuristicMode{fallbackLocal: true, fallbackGlobal: true}},
	}
	if req.Algorithm != AlgorithmReference {
		attempts = append(attempts, attempt{alg: AlgorithmReference})
	}

	var lastRequested string
	for i, at := range attempts {
		var expr string
		if at.alg == AlgorithmReference {
			expr = g.referencePath(node, req)
		} else {
			expr = g.heuristicPath(root, node, req, at.mode)
		}
		if at.alg == req.Algorithm && expr != "" {
			lastRequested = expr
		}
		if expr == "" {
			continue
		}

		got, err := g.eval.First(root, expr, req.Kind)
		if err != nil {
			// Malformed candidates are "did not resolve", never fatal.
			g.log.Debug("path candidate failed to evaluate",
				zap.String("algorithm", string(at.alg)),
				zap.String("expression", expr),
				zap.Error(err))
			continue
		}
		if got == node {
			meta := MetaOk
			if i > 0 {
				meta = MetaFallback
			}
			return Path{Expression: expr, Kind: req.Kind, Meta: meta}
		}
		g.log.Debug("path candidate did not round-trip",
			zap.String("algorithm", string(at.alg)),
			zap.String("expression", expr))
	}

	g.log.Debug("all path strategies exhausted",
		zap.String("kind", string(req.Kind)),
		zap.String("expression", lastRequested))
	return Path{Expression: lastRequested, Kind: req.Kind, Meta: MetaError}
}
