// Package path generates textual expressions that re-locate nodes in a
// dom.Env: human-legible heuristic paths, devtools-style reference paths,
// and chained expressions that cross shadow-root and frame boundaries. Every
// accepted expression is validated by re-evaluating it against the live tree.
package path

import "fmt"

// Kind is the flavor of a path expression.
type Kind string

const (
	// KindSelector is a CSS selector evaluated against a context root.
	KindSelector Kind = "selector"
	// KindXPath is an absolute XPath expression.
	KindXPath Kind = "xpath"
	// KindChained is a sequence of per-context expressions joined by the
	// boundary-crossing token.
	KindChained Kind = "chained"
)

// ParseKind converts a CLI/config string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindSelector, KindXPath, KindChained:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown path kind %q", s)
}

// Algorithm selects which generator runs first.
type Algorithm string

const (
	// AlgorithmHeuristic prefers identifiers, classes and link text.
	AlgorithmHeuristic Algorithm = "heuristic"
	// AlgorithmReference is the denser, index-biased devtools strategy.
	AlgorithmReference Algorithm = "reference"
)

// ParseAlgorithm converts a CLI/config string into an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AlgorithmHeuristic, AlgorithmReference:
		return Algorithm(s), nil
	}
	return "", fmt.Errorf("unknown algorithm %q", s)
}

// QuoteStyle selects the quote character for attribute and text values.
type QuoteStyle string

const (
	QuoteSingle QuoteStyle = "single"
	QuoteDouble QuoteStyle = "double"
)

// ParseQuoteStyle converts a CLI/config string into a QuoteStyle.
func ParseQuoteStyle(s string) (QuoteStyle, error) {
	switch QuoteStyle(s) {
	case QuoteSingle, QuoteDouble:
		return QuoteStyle(s), nil
	}
	return "", fmt.Errorf("unknown quote style %q", s)
}

// quote wraps a value in the preferred quote character, switching to the
// other when the value contains it. Values containing both quote characters
// cannot be embedded safely; ok is false and the caller drops the qualifier.
func (q QuoteStyle) quote(v string) (string, bool) {
	single, double := containsRune(v, '\''), containsRune(v, '"')
	switch {
	case single && double:
		return "", false
	case q == QuoteDouble && !double, q == QuoteSingle && single:
		return `"` + v + `"`, true
	default:
		return "'" + v + "'", true
	}
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}

// Meta records how trustworthy a generated expression is.
type Meta string

const (
	// MetaOk: the first strategy round-tripped to the original node.
	MetaOk Meta = "ok"
	// MetaFallback: a later strategy round-tripped.
	MetaFallback Meta = "fallback"
	// MetaError: no strategy round-tripped; the expression is best-effort
	// and callers must surface it as potentially unreliable.
	MetaError Meta = "error"
)

// worse reports whether m ranks below other on the ok > fallback > error scale.
func (m Meta) worse(other Meta) bool {
	rank := map[Meta]int{MetaOk: 0, MetaFallback: 1, MetaError: 2}
	return rank[m] > rank[other]
}

// Path is a generated expression plus its kind and verification status.
type Path struct {
	Expression string `json:"expression"`
	Kind       Kind   `json:"kind"`
	Meta       Meta   `json:"meta"`
}

// TargetHint tells the heuristic generator what the originating node is.
type TargetHint string

const (
	// HintNone disables target-specific qualifiers.
	HintNone TargetHint = "none"
	// HintLink marks an anchor/button-like target, enabling text and
	// labeling-attribute qualifiers at depth zero.
	HintLink TargetHint = "link"
)

// ParseTargetHint converts a CLI/config string into a TargetHint.
func ParseTargetHint(s string) (TargetHint, error) {
	switch TargetHint(s) {
	case HintNone, HintLink:
		return TargetHint(s), nil
	}
	return "", fmt.Errorf("unknown target hint %q", s)
}

// Request bundles the caller-facing generation knobs.
type Request struct {
	Kind      Kind
	Algorithm Algorithm
	Quote     QuoteStyle
	Optimized bool
	Hint      TargetHint
}
