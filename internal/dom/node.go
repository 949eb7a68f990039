// Package dom wraps parsed golang.org/x/net/html trees in an environment
// that knows about context boundaries (shadow roots, same-origin frames),
// element visibility and bounding geometry. The path engine and the
// candidate detector only ever touch trees through this package.
package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Attr returns the value of the named attribute, matching case-insensitively.
func Attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// ID returns the element's id attribute.
func ID(n *html.Node) string {
	return Attr(n, "id")
}

// TagName returns the lowercased tag name of an element node.
func TagName(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	return strings.ToLower(n.Data)
}

// IsSVG reports whether the element belongs to the SVG namespace.
func IsSVG(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && n.Namespace == "svg"
}

// Classes returns the element's class tokens in attribute order.
func Classes(n *html.Node) []string {
	return strings.Fields(Attr(n, "class"))
}

// ClassList returns the element's class tokens joined by single spaces.
// Normalizing the whitespace makes full-class-list comparisons reliable.
func ClassList(n *html.Node) string {
	return strings.Join(Classes(n), " ")
}

// Text returns the concatenated text content of a subtree.
func Text(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
			return
		}
		for g := c.FirstChild; g != nil; g = g.NextSibling {
			walk(g)
		}
	}
	if n != nil {
		walk(n)
	}
	return sb.String()
}

// ParentElement returns the nearest element ancestor, or nil when the walk
// reaches a document (or boundary) node.
func ParentElement(n *html.Node) *html.Node {
	if n == nil || n.Parent == nil || n.Parent.Type != html.ElementNode {
		return nil
	}
	return n.Parent
}

// ElementChildren returns the direct element children of a node.
func ElementChildren(n *html.Node) []*html.Node {
	var out []*html.Node
	if n == nil {
		return out
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// WalkElements visits every element in the subtree rooted at n, including n
// itself when it is an element. Returning false from fn stops the walk.
func WalkElements(n *html.Node, fn func(*html.Node) bool) {
	var walk func(*html.Node) bool
	walk = func(c *html.Node) bool {
		if c.Type == html.ElementNode && !fn(c) {
			return false
		}
		for g := c.FirstChild; g != nil; g = g.NextSibling {
			if !walk(g) {
				return false
			}
		}
		return true
	}
	if n != nil {
		walk(n)
	}
}

// FindElement returns the first element in the subtree for which fn is true.
func FindElement(n *html.Node, fn func(*html.Node) bool) *html.Node {
	var found *html.Node
	WalkElements(n, func(e *html.Node) bool {
		if fn(e) {
			found = e
			return false
		}
		return true
	})
	return found
}

// Body returns the <body> element of a parsed document, or nil.
func Body(doc *html.Node) *html.Node {
	return FindElement(doc, func(e *html.Node) bool { return TagName(e) == "body" })
}

// CloneNode creates a deep copy of a node and its descendants. Shadow
// template instantiation clones so the inert template stays untouched.
func CloneNode(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	clone := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      make([]html.Attribute, len(n.Attr)),
	}
	copy(clone.Attr, n.Attr)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		clone.AppendChild(CloneNode(c))
	}
	return clone
}
