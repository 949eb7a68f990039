package path

import (
	"strings"
)

// InferKind classifies a raw expression of unknown kind. A recognizable
// boundary-crossing token makes it chained outright (trial-evaluated exactly
// once, never retried, so ordinary text with similar punctuation cannot loop
// the inference). Otherwise cheap syntactic signals pick a first guess,
// trial evaluation confirms it, and a single retry covers the other base
// kind. When both attempts fail the first guess is returned along with its
// error.
func (g *Generator) InferKind(expr string, preferred Kind) (Kind, error) {
	trimmed := strings.TrimSpace(expr)
	if strings.Contains(trimmed, strings.TrimSpace(ChainToken)) {
		_, err := g.eval.First(g.env.Document(), trimmed, KindChained)
		return KindChained, err
	}

	guess := syntacticGuess(trimmed, preferred)
	_, firstErr := g.eval.All(g.env.Document(), trimmed, guess)
	if firstErr == nil {
		return guess, nil
	}

	other := KindSelector
	if guess == KindSelector {
		other = KindXPath
	}
	if _, err := g.eval.All(g.env.Document(), trimmed, other); err == nil {
		return other, nil
	}
	return guess, firstErr
}

// syntacticGuess picks an initial kind from surface syntax: XPath paths are
// slash- or parenthesis-anchored, selectors lead with class/id shorthand or
// carry combinators. Ambiguous strings follow the caller's preference.
func syntacticGuess(expr string, preferred Kind) Kind {
	switch {
	case strings.HasPrefix(expr, "/") || strings.HasPrefix(expr, "("):
		return KindXPath
	case strings.HasPrefix(expr, ".") || strings.HasPrefix(expr, "#") ||
		strings.Contains(expr, " > ") || strings.Contains(expr, ":nth-"):
		return KindSelector
	case preferred == KindXPath:
		return KindXPath
	default:
		return KindSelector
	}
}
