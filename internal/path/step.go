package path

import "strings"

// Step is the smallest unit either generator produces: one path fragment.
// Terminal means the fragment alone resolves the node from the context root
// (a tree-unique identifier anchor, or a singleton root tag) and the
// ancestor walk can stop.
type Step struct {
	Value    string
	Terminal bool
}

// joinSteps assembles leaf-first steps into a full expression. XPath steps
// are joined with the step separator and anchored absolutely unless the
// outermost step is already a //*[@id=...] anchor; selector steps are joined
// with the given combinator.
func joinSteps(steps []Step, kind Kind, combinator string) string {
	if len(steps) == 0 {
		return ""
	}
	parts := make([]string, 0, len(steps))
	for i := len(steps) - 1; i >= 0; i-- {
		parts = append(parts, steps[i].Value)
	}
	if kind == KindXPath {
		expr := strings.Join(parts, "/")
		if !strings.HasPrefix(expr, "//") {
			expr = "/" + expr
		}
		return expr
	}
	return strings.Join(parts, combinator)
}
