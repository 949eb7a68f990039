package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// ContextKind identifies the root scope a node lives in.
type ContextKind int

const (
	// ContextDocument is the top-level document.
	ContextDocument ContextKind = iota
	// ContextShadowRoot is an instantiated declarative shadow root.
	ContextShadowRoot
	// ContextFrame is a same-origin embedded document.
	ContextFrame
)

func (k ContextKind) String() string {
	switch k {
	case ContextShadowRoot:
		return "shadow-root"
	case ContextFrame:
		return "frame"
	default:
		return "document"
	}
}

// shadowBoundaryData marks the synthetic node at the top of an instantiated
// shadow tree.
const shadowBoundaryData = "shadow-root-boundary"

// Env binds a top-level document to the boundary subtrees hanging off it.
// Shadow roots are instantiated from declarative <template shadowrootmode>
// children; frame documents are parsed from <iframe srcdoc> or registered
// explicitly by the caller. All lookups are read-only after construction
// aside from RegisterFrame.
type Env struct {
	doc *html.Node

	shadowRoots map[*html.Node]*html.Node // host element -> boundary root
	shadowHosts map[*html.Node]*html.Node // boundary root -> host element
	frameDocs   map[*html.Node]*html.Node // frame element -> embedded document
	frameHosts  map[*html.Node]*html.Node // embedded document -> frame element

	style    StyleResolver
	geometry GeometryResolver
}

// Option configures an Env.
type Option func(*Env)

// WithStyleResolver injects a computed-style source for visibility checks.
func WithStyleResolver(r StyleResolver) Option {
	return func(e *Env) { e.style = r }
}

// WithGeometryResolver injects a bounding-geometry source.
func WithGeometryResolver(r GeometryResolver) Option {
	return func(e *Env) { e.geometry = r }
}

// NewEnv wraps a parsed document and instantiates every declarative shadow
// root and srcdoc frame it contains, recursively.
func NewEnv(doc *html.Node, opts ...Option) *Env {
	e := &Env{
		doc:         doc,
		shadowRoots: make(map[*html.Node]*html.Node),
		shadowHosts: make(map[*html.Node]*html.Node),
		frameDocs:   make(map[*html.Node]*html.Node),
		frameHosts:  make(map[*html.Node]*html.Node),
		style:       NewInlineStyleResolver(),
		geometry:    NewDeclaredGeometryResolver(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.instantiate(doc)
	return e
}

// ParseEnv parses an HTML string and wraps it in an Env.
func ParseEnv(source string, opts ...Option) (*Env, error) {
	doc, err := html.Parse(strings.NewReader(source))
	if err != nil {
		return nil, err
	}
	return NewEnv(doc, opts...), nil
}

// Document returns the top-level document node.
func (e *Env) Document() *html.Node { return e.doc }

// Style returns the visibility resolver.
func (e *Env) Style() StyleResolver { return e.style }

// Geometry returns the bounding-geometry resolver.
func (e *Env) Geometry() GeometryResolver { return e.geometry }

// RegisterFrame attaches an already-parsed embedded document to a frame
// element, then instantiates any boundaries inside it.
func (e *Env) RegisterFrame(frame, doc *html.Node) {
	if frame == nil || doc == nil {
		return
	}
	e.frameDocs[frame] = doc
	e.frameHosts[doc] = frame
	e.instantiate(doc)
}

// ShadowRoot returns the instantiated shadow root for a host element.
func (e *Env) ShadowRoot(host *html.Node) (*html.Node, bool) {
	r, ok := e.shadowRoots[host]
	return r, ok
}

// FrameDocument returns the embedded document for a frame element.
func (e *Env) FrameDocument(frame *html.Node) (*html.Node, bool) {
	d, ok := e.frameDocs[frame]
	return d, ok
}

// BoundaryTarget returns the subtree hanging off a boundary host, whichever
// kind it is. Chained path evaluation descends through this.
func (e *Env) BoundaryTarget(host *html.Node) (*html.Node, bool) {
	if r, ok := e.shadowRoots[host]; ok {
		return r, true
	}
	if d, ok := e.frameDocs[host]; ok {
		return d, true
	}
	return nil, false
}

// ContextRoot climbs parent pointers to the root of the node's own context:
// the top document, a shadow boundary node, or an embedded document.
func (e *Env) ContextRoot(n *html.Node) *html.Node {
	for n != nil && n.Parent != nil {
		n = n.Parent
	}
	return n
}

// Context classifies a context root and returns its host node. The host is
// nil for the top-level document and for detached roots the Env has never
// seen, which callers treat as unreachable.
func (e *Env) Context(root *html.Node) (ContextKind, *html.Node) {
	if root == e.doc {
		return ContextDocument, nil
	}
	if host, ok := e.shadowHosts[root]; ok {
		return ContextShadowRoot, host
	}
	if host, ok := e.frameHosts[root]; ok {
		return ContextFrame, host
	}
	return ContextDocument, nil
}

// instantiate scans a tree for shadow hosts and srcdoc frames, builds their
// boundary subtrees and records the host links. Instantiated subtrees are
// scanned recursively; nested templates stay inert until their own host is
// reached inside an instantiated tree.
func (e *Env) instantiate(root *html.Node) {
	var hosts, frames []*html.Node
	WalkElements(root, func(n *html.Node) bool {
		if findShadowTemplate(n) != nil {
			hosts = append(hosts, n)
		}
		if TagName(n) == "iframe" && Attr(n, "srcdoc") != "" {
			frames = append(frames, n)
		}
		return true
	})

	for _, host := range hosts {
		if _, done := e.shadowRoots[host]; done {
			continue
		}
		boundary := instantiateShadowRoot(host)
		if boundary == nil {
			continue
		}
		e.shadowRoots[host] = boundary
		e.shadowHosts[boundary] = host
		e.instantiate(boundary)
	}

	for _, frame := range frames {
		if _, done := e.frameDocs[frame]; done {
			continue
		}
		doc, err := html.Parse(strings.NewReader(Attr(frame, "srcdoc")))
		if err != nil {
			continue
		}
		e.frameDocs[frame] = doc
		e.frameHosts[doc] = frame
		e.instantiate(doc)
	}
}

// findShadowTemplate returns the direct child <template shadowrootmode>
// element of a host, or nil.
func findShadowTemplate(n *html.Node) *html.Node {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && TagName(c) == "template" && Attr(c, "shadowrootmode") != "" {
			return c
		}
	}
	return nil
}

// instantiateShadowRoot clones the declarative template's content under a
// synthetic boundary node and detaches the template from the light DOM, the
// way a browser consumes it on parse.
func instantiateShadowRoot(host *html.Node) *html.Node {
	tmpl := findShadowTemplate(host)
	if tmpl == nil {
		return nil
	}

	// The parser may wrap template content in a fragment node.
	content := tmpl
	if tmpl.FirstChild != nil && tmpl.FirstChild.Type == html.DocumentNode {
		content = tmpl.FirstChild
	}

	boundary := &html.Node{
		Type: html.DocumentNode,
		Data: shadowBoundaryData,
	}
	for c := content.FirstChild; c != nil; c = c.NextSibling {
		boundary.AppendChild(CloneNode(c))
	}

	// Once instantiated the template is inert and must not be visible to
	// selector evaluation or uniqueness scans in the outer context.
	host.RemoveChild(tmpl)

	return boundary
}
