package dom

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// StyleResolver answers visibility questions for elements. The default
// implementation only sees inline styles; callers with a real computed-style
// source (a CDP snapshot, a layout engine) inject their own.
type StyleResolver interface {
	IsVisible(n *html.Node) bool
}

// GeometryResolver reports an element's bounding box. The default
// implementation reads declared sizes; layout-aware callers inject theirs.
type GeometryResolver interface {
	BoundingBox(n *html.Node) (width, height float64)
}

// inlineStyleResolver derives visibility from the hidden attribute,
// hidden inputs and the inline style attribute.
type inlineStyleResolver struct{}

// NewInlineStyleResolver returns the default visibility resolver.
func NewInlineStyleResolver() StyleResolver { return inlineStyleResolver{} }

func (inlineStyleResolver) IsVisible(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, "hidden") {
			return false
		}
	}
	if TagName(n) == "input" && strings.EqualFold(Attr(n, "type"), "hidden") {
		return false
	}
	decls := parseInlineStyle(Attr(n, "style"))
	if v, ok := decls["display"]; ok && v == "none" {
		return false
	}
	if v, ok := decls["visibility"]; ok && (v == "hidden" || v == "collapse") {
		return false
	}
	if v, ok := decls["opacity"]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f == 0 {
			return false
		}
	}
	return true
}

// parseInlineStyle splits a style attribute into lowercased property/value
// pairs. Quoted values and url() payloads never matter for visibility, so a
// plain semicolon split is enough here.
func parseInlineStyle(style string) map[string]string {
	decls := make(map[string]string)
	for _, decl := range strings.Split(style, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		val = strings.ToLower(strings.TrimSpace(val))
		if prop != "" && val != "" {
			decls[prop] = val
		}
	}
	return decls
}

// declaredGeometryResolver reads width/height attributes and inline-style
// pixel values. Elements without a declared size report 0x0.
type declaredGeometryResolver struct{}

// NewDeclaredGeometryResolver returns the default geometry resolver.
func NewDeclaredGeometryResolver() GeometryResolver { return declaredGeometryResolver{} }

func (declaredGeometryResolver) BoundingBox(n *html.Node) (float64, float64) {
	if n == nil || n.Type != html.ElementNode {
		return 0, 0
	}
	decls := parseInlineStyle(Attr(n, "style"))
	w := declaredLength(Attr(n, "width"), decls["width"])
	h := declaredLength(Attr(n, "height"), decls["height"])
	return w, h
}

// declaredLength picks the first parseable pixel length.
func declaredLength(values ...string) float64 {
	for _, v := range values {
		v = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "px"))
		if v == "" {
			continue
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return 0
}

// StaticGeometry is a map-backed GeometryResolver for callers that measured
// elements out of band (tests, CDP harvesters).
type StaticGeometry map[*html.Node][2]float64

func (g StaticGeometry) BoundingBox(n *html.Node) (float64, float64) {
	if box, ok := g[n]; ok {
		return box[0], box[1]
	}
	return 0, 0
}
