package path

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/mkarolys/pagepath/internal/dom"
)

// referencePath is a structurally faithful re-implementation of the devtools
// path-building strategy. It is denser and index-biased, and serves as the
// cross-check and fallback for the heuristic generator.
func (g *Generator) referencePath(node *html.Node, req Request) string {
	if req.Kind == KindXPath {
		return g.referenceXPath(node, req)
	}
	return g.referenceSelector(node, req)
}

func (g *Generator) referenceSelector(node *html.Node, req Request) string {
	var steps []Step
	for n := node; n != nil && n.Type == html.ElementNode; n = dom.ParentElement(n) {
		step := referenceSelectorStep(n, req, n == node)
		steps = append(steps, step)
		if step.Terminal {
			break
		}
	}
	return joinSteps(steps, KindSelector, " > ")
}

// referenceSelectorStep compares the element's class tokens against every
// same-tag sibling, deleting matched tokens; when nothing discriminating
// remains the step is qualified by its 1-based child position instead.
func referenceSelectorStep(n *html.Node, req Request, isTarget bool) Step {
	tag := dom.TagName(n)
	id := dom.ID(n)

	if req.Optimized {
		if id != "" {
			if anchor, ok := idAnchor(id, req); ok {
				return Step{Value: anchor, Terminal: true}
			}
		}
		if tag == "html" || tag == "body" || tag == "head" {
			return Step{Value: tag, Terminal: true}
		}
	}

	parent := dom.ParentElement(n)
	if parent == nil {
		// Direct child of the context root; a bare tag is as precise as
		// this algorithm gets there.
		return Step{Value: tag, Terminal: true}
	}

	own := make(map[string]struct{})
	for _, c := range dom.Classes(n) {
		own[c] = struct{}{}
	}

	needsClass, needsNth := false, false
	ownIndex := -1
	for i, sib := range dom.ElementChildren(parent) {
		if sib == n {
			ownIndex = i
			continue
		}
		if needsNth {
			continue
		}
		if dom.TagName(sib) != tag {
			continue
		}
		needsClass = true
		if len(own) == 0 {
			needsNth = true
			continue
		}
		for _, c := range dom.Classes(sib) {
			delete(own, c)
		}
		if len(own) == 0 {
			needsNth = true
		}
	}

	result := tag
	if isTarget && tag == "input" && id == "" && len(dom.Classes(n)) == 0 {
		if typ := dom.Attr(n, "type"); typ != "" {
			if q, ok := req.Quote.quote(typ); ok {
				result += "[type=" + q + "]"
			}
		}
	}
	switch {
	case needsNth:
		result += fmt.Sprintf(":nth-child(%d)", ownIndex+1)
	case needsClass:
		for _, c := range dom.Classes(n) {
			result += "." + cssEscape(c)
		}
	}
	return Step{Value: result}
}

func (g *Generator) referenceXPath(node *html.Node, req Request) string {
	var steps []Step
	for n := node; n != nil && n.Type == html.ElementNode; n = dom.ParentElement(n) {
		step := referenceXPathStep(n, req)
		steps = append(steps, step)
		if step.Terminal {
			break
		}
	}
	return joinSteps(steps, KindXPath, "")
}

func referenceXPathStep(n *html.Node, req Request) Step {
	if req.Optimized {
		if id := dom.ID(n); id != "" {
			if q, ok := req.Quote.quote(id); ok {
				return Step{Value: "//*[@id=" + q + "]", Terminal: true}
			}
		}
	}
	base := dom.TagName(n)
	if dom.IsSVG(n) {
		if q, ok := req.Quote.quote(dom.TagName(n)); ok {
			base = "*[name()=" + q + "]"
		}
	}
	if i := xPathIndex(n); i > 0 {
		base += fmt.Sprintf("[%d]", i)
	}
	return Step{Value: base}
}

// xPathIndex returns the 1-based position among similar siblings, or 0 when
// the element is the only one of its tag and no qualifier is needed.
func xPathIndex(n *html.Node) int {
	if n.Parent == nil {
		return 0
	}
	tag := dom.TagName(n)
	similar, index := 0, 0
	for c := n.Parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || dom.TagName(c) != tag {
			continue
		}
		similar++
		if c == n {
			index = similar
		}
	}
	if similar <= 1 {
		return 0
	}
	return index
}
