// Package locator is the public entry point to the path engine: parse a
// document once into an Engine, then generate, infer and detect against it.
package locator

import (
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/mkarolys/pagepath/internal/config"
	"github.com/mkarolys/pagepath/internal/detect"
	"github.com/mkarolys/pagepath/internal/dom"
	"github.com/mkarolys/pagepath/internal/path"
)

// Re-exported request/result vocabulary so callers never import internal
// packages.
type (
	Kind       = path.Kind
	Algorithm  = path.Algorithm
	QuoteStyle = path.QuoteStyle
	TargetHint = path.TargetHint
	Meta       = path.Meta
	Path       = path.Path
	Request    = path.Request
	Detection  = detect.Result
)

const (
	KindSelector = path.KindSelector
	KindXPath    = path.KindXPath
	KindChained  = path.KindChained

	AlgorithmHeuristic = path.AlgorithmHeuristic
	AlgorithmReference = path.AlgorithmReference

	QuoteSingle = path.QuoteSingle
	QuoteDouble = path.QuoteDouble

	HintNone = path.HintNone
	HintLink = path.HintLink

	MetaOk       = path.MetaOk
	MetaFallback = path.MetaFallback
	MetaError    = path.MetaError
)

// Parse helpers re-exported for flag and config handling.
var (
	ParseKind       = path.ParseKind
	ParseAlgorithm  = path.ParseAlgorithm
	ParseQuoteStyle = path.ParseQuoteStyle
	ParseTargetHint = path.ParseTargetHint
)

// Engine binds a parsed environment to a configured generator and detector.
type Engine struct {
	env *dom.Env
	gen *path.Generator
	det *detect.Detector
	log *zap.Logger
}

// New builds an Engine over an already-constructed environment.
func New(env *dom.Env, cfg *config.Config, log *zap.Logger) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}

	gen := path.NewGenerator(env,
		path.WithLogger(log.Named("path")),
		path.WithMaxTextLength(cfg.Engine.MaxTextLength),
		path.WithMaxBoundaryCrossings(cfg.Engine.MaxBoundaryCrossings),
	)
	det := detect.NewDetector(gen,
		detect.WithLogger(log.Named("detect")),
		detect.WithSimilarityThreshold(cfg.Detector.SimilarityThreshold),
		detect.WithMinContainerSize(cfg.Detector.MinContainerSize),
		detect.WithDeniedTags(cfg.Detector.DeniedTags...),
		detect.WithDeniedTokens(cfg.Detector.DeniedTokens...),
	)

	return &Engine{env: env, gen: gen, det: det, log: log}
}

// NewFromHTML parses an HTML document and builds an Engine over it.
func NewFromHTML(source string, cfg *config.Config, log *zap.Logger, opts ...dom.Option) (*Engine, error) {
	env, err := dom.ParseEnv(source, opts...)
	if err != nil {
		return nil, err
	}
	return New(env, cfg, log), nil
}

// Env exposes the underlying environment for callers that register frame
// documents or walk the tree to pick targets.
func (e *Engine) Env() *dom.Env { return e.env }

// GeneratePath produces a validated path for a node relative to its own
// context root.
func (e *Engine) GeneratePath(node *html.Node, req Request) Path {
	return e.gen.Generate(node, req)
}

// GenerateContextPath produces a chained path that reaches the node from the
// top-level document, crossing shadow-root and frame boundaries as needed.
func (e *Engine) GenerateContextPath(node *html.Node, req Request) Path {
	return e.gen.GenerateAcrossContexts(node, req)
}

// InferKind classifies a raw expression of unknown kind, trial-evaluating it
// against the document.
func (e *Engine) InferKind(expr string, preferred Kind) (Kind, error) {
	return e.gen.InferKind(expr, preferred)
}

// Resolve locates the node a raw expression of unknown kind points at,
// inferring the kind first. A nil node with a nil error means the expression
// is well formed but matches nothing.
func (e *Engine) Resolve(expr string, preferred Kind) (*html.Node, Kind, error) {
	kind, err := e.gen.InferKind(expr, preferred)
	if err != nil {
		return nil, kind, err
	}
	n, err := e.gen.Evaluator().First(e.env.Document(), expr, kind)
	if err != nil {
		return nil, kind, err
	}
	return n, kind, nil
}

// DetectPageElementCandidate finds the most likely repeating-item container
// on the page and returns it with a child-addressing path.
func (e *Engine) DetectPageElementCandidate(req Request) Detection {
	return e.det.Detect(req)
}

// RequestFromConfig translates the configured engine defaults into a Request.
// Unknown strings fall back to the built-in defaults rather than failing,
// since config is validated at the CLI boundary.
func RequestFromConfig(cfg config.EngineConfig) Request {
	req := Request{
		Kind:      KindSelector,
		Algorithm: AlgorithmHeuristic,
		Quote:     QuoteDouble,
		Optimized: cfg.Optimized,
		Hint:      HintNone,
	}
	if k, err := path.ParseKind(cfg.Kind); err == nil {
		req.Kind = k
	}
	if a, err := path.ParseAlgorithm(cfg.Algorithm); err == nil {
		req.Algorithm = a
	}
	if q, err := path.ParseQuoteStyle(cfg.QuoteStyle); err == nil {
		req.Quote = q
	}
	return req
}
