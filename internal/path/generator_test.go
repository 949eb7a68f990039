package path

import (
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const listPage = `<html><body>
	<div id="main">
		<ul class="list">
			<li>one</li>
			<li>two</li>
		</ul>
	</div>
</body></html>`

// pick resolves a goquery selector to exactly one node.
func pick(t *testing.T, doc *html.Node, selector string) *html.Node {
	t.Helper()
	sel := goquery.NewDocumentFromNode(doc).Find(selector)
	require.Len(t, sel.Nodes, 1, "selector %q should pick exactly one node", selector)
	return sel.Nodes[0]
}

func TestGenerateHeuristicSelector(t *testing.T) {
	env := newTestEnv(t, listPage)
	g := NewGenerator(env)

	target := pick(t, env.Document(), "ul.list li:nth-child(2)")
	got := g.Generate(target, Request{
		Kind: KindSelector, Algorithm: AlgorithmHeuristic, Quote: QuoteDouble, Optimized: true,
	})

	want := Path{Expression: "#main ul.list li:nth-of-type(2)", Kind: KindSelector, Meta: MetaOk}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Generate() mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateHeuristicXPath(t *testing.T) {
	env := newTestEnv(t, listPage)
	g := NewGenerator(env)

	target := pick(t, env.Document(), "ul.list li:nth-child(2)")
	got := g.Generate(target, Request{
		Kind: KindXPath, Algorithm: AlgorithmHeuristic, Quote: QuoteDouble, Optimized: true,
	})

	assert.Equal(t, `//*[@id="main"]/ul[@class="list"]/li[2]`, got.Expression)
	assert.Equal(t, MetaOk, got.Meta)
}

func TestGenerateHeuristicUnoptimized(t *testing.T) {
	env := newTestEnv(t, listPage)
	g := NewGenerator(env)

	target := pick(t, env.Document(), "ul.list li:nth-child(2)")
	got := g.Generate(target, Request{
		Kind: KindXPath, Algorithm: AlgorithmHeuristic, Quote: QuoteDouble, Optimized: false,
	})

	// Without optimization the path is anchored at the document root and the
	// identifier stays an inline qualifier.
	assert.Equal(t, `/html/body/div[@id="main"]/ul[@class="list"]/li[2]`, got.Expression)
	assert.Equal(t, MetaOk, got.Meta)
}

func TestGenerateReferenceSelector(t *testing.T) {
	env := newTestEnv(t, listPage)
	g := NewGenerator(env)

	target := pick(t, env.Document(), "ul.list li:nth-child(2)")
	got := g.Generate(target, Request{
		Kind: KindSelector, Algorithm: AlgorithmReference, Quote: QuoteDouble, Optimized: true,
	})

	assert.Equal(t, "#main > ul > li:nth-child(2)", got.Expression)
	assert.Equal(t, MetaOk, got.Meta)
}

func TestGenerateReferenceXPath(t *testing.T) {
	env := newTestEnv(t, listPage)
	g := NewGenerator(env)

	target := pick(t, env.Document(), "ul.list li:nth-child(2)")
	got := g.Generate(target, Request{
		Kind: KindXPath, Algorithm: AlgorithmReference, Quote: QuoteDouble, Optimized: true,
	})

	assert.Equal(t, `//*[@id="main"]/ul/li[2]`, got.Expression)
	assert.Equal(t, MetaOk, got.Meta)
}

func TestGenerateRoundTripGrid(t *testing.T) {
	// Every kind/algorithm/quote combination must produce an expression that
	// resolves back to the exact target node.
	const page = `<html><body>
		<header class="top"><a href="/">Home</a></header>
		<section>
			<article class="post featured"><h2>First</h2></article>
			<article class="post"><h2>Second</h2></article>
			<article class="post"><h2>Third</h2></article>
		</section>
		<form><input type="text"><input type="email"></form>
	</body></html>`

	env := newTestEnv(t, page)
	g := NewGenerator(env)
	ev := g.Evaluator()

	targets := []string{
		"header a",
		"article.post:nth-child(2) h2",
		"article.featured",
		"input[type=email]",
	}

	for _, sel := range targets {
		target := pick(t, env.Document(), sel)
		for _, kind := range []Kind{KindSelector, KindXPath} {
			for _, alg := range []Algorithm{AlgorithmHeuristic, AlgorithmReference} {
				for _, optimized := range []bool{true, false} {
					req := Request{Kind: kind, Algorithm: alg, Quote: QuoteDouble, Optimized: optimized}
					p := g.Generate(target, req)

					require.NotEmpty(t, p.Expression, "%s/%s/%v for %q", kind, alg, optimized, sel)
					require.NotEqual(t, MetaError, p.Meta, "%s/%s/%v for %q gave %q", kind, alg, optimized, sel, p.Expression)

					got, err := ev.First(env.Document(), p.Expression, kind)
					require.NoError(t, err, "expression %q", p.Expression)
					assert.Equal(t, target, got, "expression %q resolved a different node", p.Expression)
				}
			}
		}
	}
}

func TestGenerateFallbackOnAmbiguousClasses(t *testing.T) {
	// Both paragraphs carry the same class set in different order, so the
	// collision scan does not fire and the first candidate resolves to the
	// wrong node. The index fallback must engage.
	env := newTestEnv(t, `<html><body>
		<p class="a b">one</p>
		<p class="b a">two</p>
	</body></html>`)
	g := NewGenerator(env)

	target := pick(t, env.Document(), "p:nth-child(2)")
	got := g.Generate(target, Request{
		Kind: KindSelector, Algorithm: AlgorithmHeuristic, Quote: QuoteDouble, Optimized: true,
	})

	assert.Equal(t, MetaFallback, got.Meta)

	resolved, err := g.Evaluator().First(env.Document(), got.Expression, KindSelector)
	require.NoError(t, err)
	assert.Equal(t, target, resolved)
}

func TestGenerateIndexOnIdenticalSiblings(t *testing.T) {
	// Identical tag and class list on a sibling disables the class qualifier
	// outright; the first candidate is already positional.
	env := newTestEnv(t, `<html><body>
		<p class="a">one</p>
		<p class="a">two</p>
	</body></html>`)
	g := NewGenerator(env)

	target := pick(t, env.Document(), "p:nth-child(2)")
	got := g.Generate(target, Request{
		Kind: KindSelector, Algorithm: AlgorithmHeuristic, Quote: QuoteDouble, Optimized: true,
	})

	assert.Equal(t, "body p:nth-of-type(2)", got.Expression)
	assert.Equal(t, MetaOk, got.Meta)
}

// alwaysUnique fakes an indexed uniqueness source that is wrong about a
// duplicated identifier.
type alwaysUnique struct{}

func (alwaysUnique) IsUniqueID(*html.Node, string) bool { return true }

func TestGenerateExhaustionTaggedError(t *testing.T) {
	env := newTestEnv(t, `<html><body>
		<div id="dup">one</div>
		<div id="dup">two</div>
	</body></html>`)
	g := NewGenerator(env, WithUniquenessChecker(alwaysUnique{}))

	target := pick(t, env.Document(), "div:nth-child(2)")
	got := g.Generate(target, Request{
		Kind: KindSelector, Algorithm: AlgorithmHeuristic, Quote: QuoteDouble, Optimized: true,
	})

	// Every strategy trusts the bogus uniqueness answer and anchors at the
	// identifier, which resolves the first element. The expression is still
	// returned, tagged as unreliable.
	assert.Equal(t, "#dup", got.Expression)
	assert.Equal(t, MetaError, got.Meta)
}

func TestGenerateExhaustionKeepsLastRequestedCandidate(t *testing.T) {
	// The bogus identifier anchors every strategy at the first div, so all of
	// them fail to round-trip. The kept expression must be the one from the
	// requested algorithm's final fallback state (indexed), not the initial
	// rich-qualifier form.
	env := newTestEnv(t, `<html><body>
		<div id="dup"><span class="x">one</span></div>
		<div id="dup"><span class="x">two</span></div>
	</body></html>`)
	g := NewGenerator(env, WithUniquenessChecker(alwaysUnique{}))

	target := pick(t, env.Document(), "div:nth-child(2) > span")
	got := g.Generate(target, Request{
		Kind: KindSelector, Algorithm: AlgorithmHeuristic, Quote: QuoteDouble, Optimized: true,
	})

	assert.Equal(t, "#dup span:nth-of-type(1)", got.Expression)
	assert.Equal(t, MetaError, got.Meta)
}

func TestGenerateNonIdentIDUsesAttributeForm(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"Colon", "user:42"},
		{"Leading digit", "42user"},
		{"Leading hyphen-digit", "-5abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, `<html><body><div id="`+tt.id+`">x</div></body></html>`)
			g := NewGenerator(env)

			target := pick(t, env.Document(), "div")
			got := g.Generate(target, Request{
				Kind: KindSelector, Algorithm: AlgorithmHeuristic, Quote: QuoteDouble, Optimized: true,
			})

			assert.Equal(t, `[id="`+tt.id+`"]`, got.Expression)
			assert.Equal(t, MetaOk, got.Meta)
		})
	}
}

func TestGenerateLinkTextQualifier(t *testing.T) {
	env := newTestEnv(t, `<html><body>
		<a href="/contact">Contact us</a>
		<a href="/about">About</a>
	</body></html>`)
	g := NewGenerator(env)

	target := pick(t, env.Document(), `a[href="/contact"]`)
	got := g.Generate(target, Request{
		Kind: KindXPath, Algorithm: AlgorithmHeuristic, Quote: QuoteDouble, Optimized: true, Hint: HintLink,
	})

	assert.Equal(t, `/html/body/a[text()="Contact us"]`, got.Expression)
	assert.Equal(t, MetaOk, got.Meta)
}

func TestGenerateLinkAriaLabelQualifier(t *testing.T) {
	env := newTestEnv(t, `<html><body>
		<button aria-label="Close dialog"><svg></svg></button>
		<button aria-label="Open menu"><svg></svg></button>
	</body></html>`)
	g := NewGenerator(env)

	target := pick(t, env.Document(), `button[aria-label="Open menu"]`)
	got := g.Generate(target, Request{
		Kind: KindSelector, Algorithm: AlgorithmHeuristic, Quote: QuoteDouble, Optimized: true, Hint: HintLink,
	})

	assert.Equal(t, `body button[aria-label="Open menu"]`, got.Expression)
	assert.Equal(t, MetaOk, got.Meta)
}

func TestGenerateNumericTextRejected(t *testing.T) {
	// Pagination labels repeat across pages; a numeric text qualifier would
	// be fragile, so the index fallback is used instead.
	env := newTestEnv(t, `<html><body>
		<a href="?p=1">1</a>
		<a href="?p=2">2</a>
	</body></html>`)
	g := NewGenerator(env)

	target := pick(t, env.Document(), `a[href="?p=2"]`)
	got := g.Generate(target, Request{
		Kind: KindXPath, Algorithm: AlgorithmHeuristic, Quote: QuoteDouble, Optimized: true, Hint: HintLink,
	})

	assert.NotContains(t, got.Expression, "text()")
	resolved, err := g.Evaluator().First(env.Document(), got.Expression, KindXPath)
	require.NoError(t, err)
	assert.Equal(t, target, resolved)
}

func TestGenerateSVGXPathQuirk(t *testing.T) {
	env := newTestEnv(t, `<html><body>
		<div id="icon"><svg viewBox="0 0 1 1"><circle r="1"></circle></svg></div>
	</body></html>`)
	g := NewGenerator(env)

	target := pick(t, env.Document(), "svg")
	got := g.Generate(target, Request{
		Kind: KindXPath, Algorithm: AlgorithmHeuristic, Quote: QuoteDouble, Optimized: true,
	})

	assert.Equal(t, `//*[@id="icon"]/*[name()="svg"][1]`, got.Expression)
	assert.Equal(t, MetaOk, got.Meta)
}

func TestGenerateInputTypeShorthand(t *testing.T) {
	env := newTestEnv(t, `<html><body>
		<form><input type="text"><input type="email"></form>
	</body></html>`)
	g := NewGenerator(env)

	target := pick(t, env.Document(), "input[type=email]")
	got := g.Generate(target, Request{
		Kind: KindSelector, Algorithm: AlgorithmReference, Quote: QuoteDouble, Optimized: true,
	})

	assert.Contains(t, got.Expression, `input[type="email"]`)
	assert.Equal(t, MetaOk, got.Meta)
}
