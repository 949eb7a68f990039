// Package detect guesses which element of an unlabeled page is the
// repeating item container for a list or feed. It scores every ancestor by
// child-similarity statistics and hands the winner to the path engine.
package detect

import (
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/mkarolys/pagepath/internal/dom"
	"github.com/mkarolys/pagepath/internal/path"
)

// Detection tuning defaults; overridable through options and config.
const (
	DefaultSimilarityThreshold = 9
	DefaultMinContainerSize    = 500.0
)

// deniedTags are structural noise: children with these tags never count as
// feed items and their subtrees are not descended into.
var deniedTags = map[string]struct{}{
	"nav": {}, "header": {}, "footer": {}, "aside": {},
	"form": {}, "fieldset": {}, "legend": {}, "label": {},
	"input": {}, "button": {}, "select": {}, "option": {}, "optgroup": {},
	"textarea": {}, "datalist": {},
	"script": {}, "style": {}, "noscript": {}, "template": {},
	"link": {}, "meta": {}, "br": {}, "hr": {},
	"iframe": {}, "object": {}, "embed": {}, "canvas": {}, "svg": {},
	"dialog": {},
}

// deniedTokens disqualify a child when any class token or its identifier
// matches one exactly (token equality, not substring).
var deniedTokens = map[string]struct{}{
	"nav": {}, "navbar": {}, "navigation": {}, "menu": {},
	"header": {}, "footer": {}, "sidebar": {},
	"breadcrumb": {}, "breadcrumbs": {},
	"pagination": {}, "pager": {}, "paging": {},
	"ad": {}, "ads": {}, "advert": {}, "advertisement": {},
	"banner": {}, "promo": {}, "sponsored": {},
	"comment": {}, "comments": {}, "toolbar": {},
}

// candidate holds three frequency tables over one parent's direct children.
// Candidates live for a single Detect call and are discarded with it.
type candidate struct {
	node        *html.Node
	tags        map[string]int
	classLists  map[string]int
	classTokens map[string]int
}

func newCandidate(n *html.Node) *candidate {
	return &candidate{
		node:        n,
		tags:        make(map[string]int),
		classLists:  make(map[string]int),
		classTokens: make(map[string]int),
	}
}

// maxCount returns the largest count in a frequency table, 0 when empty.
func maxCount(table map[string]int) int {
	best := 0
	for _, v := range table {
		if v > best {
			best = v
		}
	}
	return best
}

// Result is a detection outcome. A nil Node means no container was found,
// which is a defined state rather than an error.
type Result struct {
	Node *html.Node `json:"-"`
	Path path.Path  `json:"path"`
}

// Found reports whether detection produced a container.
func (r Result) Found() bool { return r.Node != nil }

// Detector statistically analyzes the top-level document to find the most
// likely repeating-item container.
type Detector struct {
	env *dom.Env
	gen *path.Generator
	log *zap.Logger

	threshold    int
	minSize      float64
	extraTags    map[string]struct{}
	extraTokens  map[string]struct{}
}

// Option configures a Detector.
type Option func(*Detector)

// WithLogger attaches a logger for ranking traces.
func WithLogger(l *zap.Logger) Option {
	return func(d *Detector) { d.log = l }
}

// WithSimilarityThreshold overrides the minimum child-similarity count for
// the class-based rankings.
func WithSimilarityThreshold(n int) Option {
	return func(d *Detector) { d.threshold = n }
}

// WithMinContainerSize overrides the bounding-box filter (pixels).
func WithMinContainerSize(px float64) Option {
	return func(d *Detector) { d.minSize = px }
}

// WithDeniedTags adds tags to the structural-noise denylist.
func WithDeniedTags(tags ...string) Option {
	return func(d *Detector) {
		for _, t := range tags {
			d.extraTags[strings.ToLower(t)] = struct{}{}
		}
	}
}

// WithDeniedTokens adds class/id tokens to the denylist.
func WithDeniedTokens(tokens ...string) Option {
	return func(d *Detector) {
		for _, t := range tokens {
			d.extraTokens[strings.ToLower(t)] = struct{}{}
		}
	}
}

// NewDetector builds a Detector sharing the generator's environment.
func NewDetector(gen *path.Generator, opts ...Option) *Detector {
	d := &Detector{
		env:         gen.Env(),
		gen:         gen,
		log:         zap.NewNop(),
		threshold:   DefaultSimilarityThreshold,
		minSize:     DefaultMinContainerSize,
		extraTags:   make(map[string]struct{}),
		extraTokens: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect walks the document body, scores every ancestor with children, and
// returns the winning container with a path whose wildcard suffix addresses
// the container's children. Geometry queries are meaningless in detached or
// cross-context trees, so detection always runs on the top-level document.
func (d *Detector) Detect(req path.Request) Result {
	body := dom.Body(d.env.Document())
	if body == nil {
		return Result{}
	}

	var candidates []*candidate
	d.collect(body, &candidates)

	survivors := candidates[:0]
	for _, c := range candidates {
		if c.node == body || len(c.tags) == 0 {
			continue
		}
		w, h := d.env.Geometry().BoundingBox(c.node)
		if w < d.minSize && h < d.minSize {
			continue
		}
		survivors = append(survivors, c)
	}
	if len(survivors) == 0 {
		d.log.Debug("no container candidates survived filtering")
		return Result{}
	}

	winner := d.rank(survivors)
	p := d.gen.GenerateAcrossContexts(winner.node, req)
	p.Expression += wildcardSuffix(p)

	d.log.Debug("container detected",
		zap.String("tag", dom.TagName(winner.node)),
		zap.String("expression", p.Expression),
		zap.String("meta", string(p.Meta)))
	return Result{Node: winner.node, Path: p}
}

// collect recursively builds a candidate per element with at least one
// qualifying child. Denylisted and invisible children are neither counted
// nor descended into.
func (d *Detector) collect(parent *html.Node, out *[]*candidate) {
	children := dom.ElementChildren(parent)
	if len(children) == 0 {
		return
	}
	cand := newCandidate(parent)
	for _, child := range children {
		if d.skip(child) {
			continue
		}
		cand.tags[dom.TagName(child)]++
		if cl := strings.ToLower(dom.ClassList(child)); cl != "" {
			cand.classLists[cl]++
			for _, tok := range strings.Fields(cl) {
				cand.classTokens[tok]++
			}
		}
		d.collect(child, out)
	}
	*out = append(*out, cand)
}

func (d *Detector) skip(child *html.Node) bool {
	tag := dom.TagName(child)
	if _, ok := deniedTags[tag]; ok {
		return true
	}
	if _, ok := d.extraTags[tag]; ok {
		return true
	}
	if d.deniedToken(strings.ToLower(dom.ID(child))) {
		return true
	}
	for _, tok := range dom.Classes(child) {
		if d.deniedToken(strings.ToLower(tok)) {
			return true
		}
	}
	return !d.env.Style().IsVisible(child)
}

func (d *Detector) deniedToken(tok string) bool {
	if tok == "" {
		return false
	}
	if _, ok := deniedTokens[tok]; ok {
		return true
	}
	_, ok := d.extraTokens[tok]
	return ok
}

// rank tries three orderings in turn: by the strongest full-class-list
// repetition, then by the strongest single-token repetition (both gated by
// the similarity threshold), and finally by raw tag repetition with no
// threshold so something is always returned.
func (d *Detector) rank(cands []*candidate) *candidate {
	byTable := func(score func(*candidate) int) *candidate {
		sorted := make([]*candidate, len(cands))
		copy(sorted, cands)
		sort.SliceStable(sorted, func(i, j int) bool {
			return score(sorted[i]) > score(sorted[j])
		})
		return sorted[0]
	}

	if top := byTable(func(c *candidate) int { return maxCount(c.classLists) }); maxCount(top.classLists) >= d.threshold {
		d.log.Debug("ranked by full class list", zap.Int("count", maxCount(top.classLists)))
		return top
	}
	if top := byTable(func(c *candidate) int { return maxCount(c.classTokens) }); maxCount(top.classTokens) >= d.threshold {
		d.log.Debug("ranked by class token", zap.Int("count", maxCount(top.classTokens)))
		return top
	}
	top := byTable(func(c *candidate) int { return maxCount(c.tags) })
	d.log.Debug("ranked by tag name", zap.Int("count", maxCount(top.tags)))
	return top
}

// wildcardSuffix addresses the container's children rather than the
// container itself.
func wildcardSuffix(p path.Path) string {
	switch p.Kind {
	case path.KindXPath:
		return "/*"
	case path.KindChained:
		last := p.Expression
		if i := strings.LastIndex(last, strings.TrimSpace(path.ChainToken)); i >= 0 {
			last = last[i+3:]
		}
		if strings.HasPrefix(strings.TrimSpace(last), "/") {
			return "/*"
		}
		return " > *"
	default:
		return " > *"
	}
}
