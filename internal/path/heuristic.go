package path

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/mkarolys/pagepath/internal/dom"
)

// heuristicMode controls when the heuristic generator falls back to
// positional indices instead of richer qualifiers.
type heuristicMode struct {
	fallbackLocal  bool // index the originating node
	fallbackGlobal bool // index every ancestor
}

// heuristicPath builds a descriptive, human-legible path by walking
// ancestors and preferring identifiers, then class names, then link text,
// before resorting to positional indices. Richer qualifiers are preferred
// even when ambiguity is theoretically possible; the orchestrator re-checks
// the result and engages the fallback modes when the path does not
// round-trip.
func (g *Generator) heuristicPath(root, node *html.Node, req Request, mode heuristicMode) string {
	var steps []Step
	depth := 0
	for n := node; n != nil && n.Type == html.ElementNode; n = dom.ParentElement(n) {
		step := g.heuristicStep(root, n, depth, req, mode)
		steps = append(steps, step)
		if step.Terminal {
			break
		}
		depth++
	}
	return joinSteps(steps, req.Kind, " ")
}

func (g *Generator) heuristicStep(root, n *html.Node, depth int, req Request, mode heuristicMode) Step {
	tag := dom.TagName(n)

	// html/head/body are singletons; the walk can stop there outright when
	// an optimized path was requested. XPath is absolute, so only html can
	// terminate it.
	switch tag {
	case "html", "head", "body":
		terminal := req.Optimized && (req.Kind != KindXPath || tag == "html")
		return Step{Value: tag, Terminal: terminal}
	}

	base := tag
	if req.Kind == KindXPath && dom.IsSVG(n) {
		// XPath 1.0 has no default-namespace binding for SVG tags.
		if q, ok := req.Quote.quote(tag); ok {
			base = "*[name()=" + q + "]"
		}
	}

	id := dom.ID(n)
	if id != "" && g.idCheck.IsUniqueID(root, id) {
		if req.Optimized {
			if anchor, ok := idAnchor(id, req); ok {
				return Step{Value: anchor, Terminal: true}
			}
		}
		if qual, ok := idQualifier(id, req); ok {
			return Step{Value: base + qual}
		}
	}

	ordinal, classCollision := siblingOrdinal(n)

	// A non-unique identifier still narrows the match; it combines with
	// whichever qualifier wins below.
	var combined string
	if id != "" {
		if qual, ok := idQualifier(id, req); ok {
			combined = qual
		}
	}

	var richer string
	if !classCollision {
		richer = classQualifier(n, req)
	}
	if richer == "" && depth == 0 && req.Hint == HintLink {
		richer = g.textQualifier(n, req)
	}

	useIndex := (mode.fallbackLocal && depth == 0) || mode.fallbackGlobal ||
		(combined == "" && richer == "")
	if useIndex {
		return Step{Value: base + combined + indexQualifier(ordinal, req.Kind)}
	}
	return Step{Value: base + combined + richer}
}

// siblingOrdinal scans same-tag siblings on both sides, returning the
// 1-based ordinal an index qualifier would need and whether any sibling
// shares the element's entire class list (so classes cannot disambiguate).
func siblingOrdinal(n *html.Node) (ordinal int, classCollision bool) {
	ordinal = 1
	tag := dom.TagName(n)
	own := dom.ClassList(n)
	for prev := n.PrevSibling; prev != nil; prev = prev.PrevSibling {
		if prev.Type != html.ElementNode || dom.TagName(prev) != tag {
			continue
		}
		ordinal++
		if own != "" && dom.ClassList(prev) == own {
			classCollision = true
		}
	}
	for next := n.NextSibling; next != nil; next = next.NextSibling {
		if next.Type != html.ElementNode || dom.TagName(next) != tag {
			continue
		}
		if own != "" && dom.ClassList(next) == own {
			classCollision = true
		}
	}
	return ordinal, classCollision
}

// idAnchor builds a root-level identifier anchor (a terminal step).
func idAnchor(id string, req Request) (string, bool) {
	if req.Kind == KindXPath {
		q, ok := req.Quote.quote(id)
		if !ok {
			return "", false
		}
		return "//*[@id=" + q + "]", true
	}
	if isCSSIdent(id) {
		return "#" + id, true
	}
	q, ok := req.Quote.quote(id)
	if !ok {
		return "", false
	}
	return "[id=" + q + "]", true
}

// idQualifier builds an inline identifier qualifier appended to a tag.
func idQualifier(id string, req Request) (string, bool) {
	if req.Kind == KindXPath {
		q, ok := req.Quote.quote(id)
		if !ok {
			return "", false
		}
		return "[@id=" + q + "]", true
	}
	if isCSSIdent(id) {
		return "#" + id, true
	}
	q, ok := req.Quote.quote(id)
	if !ok {
		return "", false
	}
	return "[id=" + q + "]", true
}

// classQualifier qualifies a step by the element's full class list.
func classQualifier(n *html.Node, req Request) string {
	classes := dom.Classes(n)
	if len(classes) == 0 {
		return ""
	}
	if req.Kind == KindXPath {
		q, ok := req.Quote.quote(dom.ClassList(n))
		if !ok {
			return ""
		}
		return "[@class=" + q + "]"
	}
	var sb strings.Builder
	for _, c := range classes {
		sb.WriteByte('.')
		sb.WriteString(cssEscape(c))
	}
	return sb.String()
}

// textQualifier qualifies the originating node by its visible text, or by a
// short labeling attribute. Long and purely numeric values are rejected to
// keep paths legible and stable.
func (g *Generator) textQualifier(n *html.Node, req Request) string {
	if req.Kind == KindXPath {
		text := strings.TrimSpace(dom.Text(n))
		if text != "" && len(text) <= g.maxTextLength && !isNumeric(text) {
			if q, ok := req.Quote.quote(text); ok {
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					if c.Type == html.TextNode && c.Data == text {
						return "[text()=" + q + "]"
					}
				}
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					if c.Type == html.TextNode && strings.Contains(c.Data, text) {
						return "[contains(text()," + q + ")]"
					}
				}
			}
		}
	}
	for _, attr := range []string{"aria-label", "alt"} {
		v := dom.Attr(n, attr)
		if v == "" || len(v) > g.maxTextLength {
			continue
		}
		q, ok := req.Quote.quote(v)
		if !ok {
			continue
		}
		if req.Kind == KindXPath {
			return "[@" + attr + "=" + q + "]"
		}
		return "[" + attr + "=" + q + "]"
	}
	return ""
}

// indexQualifier emits the kind-appropriate positional qualifier.
func indexQualifier(ordinal int, kind Kind) string {
	if kind == KindXPath {
		return fmt.Sprintf("[%d]", ordinal)
	}
	return fmt.Sprintf(":nth-of-type(%d)", ordinal)
}
