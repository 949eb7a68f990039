package locator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarolys/pagepath/internal/config"
)

const samplePage = `<html><body>
	<div id="main">
		<ul class="feed" style="width:800px;height:600px">
			<li class="item"><a href="/1">First</a></li>
			<li class="item"><a href="/2">Second</a></li>
			<li class="item"><a href="/3">Third</a></li>
			<li class="item"><a href="/4">Fourth</a></li>
			<li class="item"><a href="/5">Fifth</a></li>
			<li class="item"><a href="/6">Sixth</a></li>
			<li class="item"><a href="/7">Seventh</a></li>
			<li class="item"><a href="/8">Eighth</a></li>
			<li class="item"><a href="/9">Ninth</a></li>
			<li class="item"><a href="/10">Tenth</a></li>
		</ul>
	</div>
	<div id="widget"><template shadowrootmode="open"><button id="go">Go</button></template></div>
</body></html>`

func newEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewFromHTML(samplePage, nil, nil)
	require.NoError(t, err)
	return engine
}

func defaultRequest() Request {
	return RequestFromConfig(config.Default().Engine)
}

func TestRequestFromConfig(t *testing.T) {
	req := defaultRequest()
	assert.Equal(t, KindSelector, req.Kind)
	assert.Equal(t, AlgorithmHeuristic, req.Algorithm)
	assert.Equal(t, QuoteDouble, req.Quote)
	assert.True(t, req.Optimized)
	assert.Equal(t, HintNone, req.Hint)

	// Unknown strings fall back instead of failing.
	req = RequestFromConfig(config.EngineConfig{Kind: "bogus", Algorithm: "bogus", QuoteStyle: "bogus"})
	assert.Equal(t, KindSelector, req.Kind)
	assert.Equal(t, AlgorithmHeuristic, req.Algorithm)
	assert.Equal(t, QuoteDouble, req.Quote)
}

func TestResolveAndGenerate(t *testing.T) {
	engine := newEngine(t)

	node, kind, err := engine.Resolve(`//a[@href="/3"]`, KindSelector)
	require.NoError(t, err)
	require.NotNil(t, node)
	assert.Equal(t, KindXPath, kind)

	p := engine.GeneratePath(node, defaultRequest())
	assert.Equal(t, MetaOk, p.Meta)

	resolved, _, err := engine.Resolve(p.Expression, p.Kind)
	require.NoError(t, err)
	assert.Equal(t, node, resolved)
}

func TestResolveNoMatch(t *testing.T) {
	engine := newEngine(t)

	node, kind, err := engine.Resolve("#nothing-here", KindSelector)
	require.NoError(t, err)
	assert.Nil(t, node)
	assert.Equal(t, KindSelector, kind)
}

func TestGenerateContextPath(t *testing.T) {
	engine := newEngine(t)

	node, _, err := engine.Resolve("#widget >>> #go", KindSelector)
	require.NoError(t, err)
	require.NotNil(t, node)

	p := engine.GenerateContextPath(node, defaultRequest())
	assert.Equal(t, KindChained, p.Kind)
	assert.Equal(t, "#widget >>> #go", p.Expression)
	assert.Equal(t, MetaOk, p.Meta)
}

func TestInferKind(t *testing.T) {
	engine := newEngine(t)

	kind, err := engine.InferKind("ul.feed > li", KindXPath)
	require.NoError(t, err)
	assert.Equal(t, KindSelector, kind)
}

func TestDetectPageElementCandidate(t *testing.T) {
	engine := newEngine(t)

	det := engine.DetectPageElementCandidate(defaultRequest())
	require.True(t, det.Found())
	assert.Contains(t, det.Path.Expression, "ul.feed")
	assert.Contains(t, det.Path.Expression, " > *")
}
