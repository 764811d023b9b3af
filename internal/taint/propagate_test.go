package taint_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gast "github.com/grayline/vetjs/internal/ast"
	"github.com/grayline/vetjs/internal/dfg"
	"github.com/grayline/vetjs/internal/scope"
	"github.com/grayline/vetjs/internal/sourcemap"
	"github.com/grayline/vetjs/internal/taint"
)

func functionBody(t *testing.T, src string) gast.Node {
	t.Helper()
	tree, err := gast.Parse(context.Background(), []byte(src), gast.TS)
	require.NoError(t, err)
	fn, ok := tree.Root.FindFirst("function_declaration")
	require.True(t, ok)
	body := fn.ChildByFieldName("body")
	require.False(t, body.IsZero())
	return body
}

func rootScope() scope.ID {
	return scope.New(sourcemap.Span{}).Root()
}

func TestSeed_TagsTaintedParameterByName(t *testing.T) {
	body := functionBody(t, `function run(req) { return req; }`)
	g := dfg.Build(body, rootScope())
	reg := taint.NewRegistries()

	state := taint.Seed(g, reg)
	paramID, ok := g.GetVariableNode(rootScope(), "req")
	require.True(t, ok)
	tags := state.Tags(paramID)
	require.Len(t, tags, 1)
	assert.Equal(t, taint.HttpRequest, tags[0].Category)
}

func TestPropagate_CarriesTaintThroughAssignment(t *testing.T) {
	body := functionBody(t, `function run(req) { const cmd = req; child_process.exec(cmd); }`)
	g := dfg.Build(body, rootScope())
	reg := taint.NewRegistries()

	state := taint.Seed(g, reg)
	taint.Propagate(g, reg, state)

	findings := taint.Find(g, reg, state)
	require.Len(t, findings, 1)
	assert.Equal(t, taint.HttpRequest, findings[0].SourceCategory)
	assert.Equal(t, taint.CommandInjection, findings[0].SinkCategory)
}

func TestPropagate_SanitizerClearsTaintBeforeSink(t *testing.T) {
	body := functionBody(t, `function run(req) { const safe = shellEscape(req); child_process.exec(safe); }`)
	g := dfg.Build(body, rootScope())
	reg := taint.NewRegistries()

	state := taint.Seed(g, reg)
	taint.Propagate(g, reg, state)

	findings := taint.Find(g, reg, state)
	assert.Empty(t, findings)
}

func TestPropagate_CarriesTaintThroughCompoundAssignment(t *testing.T) {
	body := functionBody(t, `function run(req) { let q = "SELECT "; q += req.body.id; db.query(q); }`)
	g := dfg.Build(body, rootScope())
	reg := taint.NewRegistries()

	state := taint.Seed(g, reg)
	taint.Propagate(g, reg, state)

	findings := taint.Find(g, reg, state)
	require.Len(t, findings, 1)
	assert.Equal(t, taint.HttpRequest, findings[0].SourceCategory)
	assert.Equal(t, taint.SqlInjection, findings[0].SinkCategory)
}

func TestFind_NoFindingWhenNoTaintReachesSink(t *testing.T) {
	body := functionBody(t, `function run() { const cmd = "ls -la"; child_process.exec(cmd); }`)
	g := dfg.Build(body, rootScope())
	reg := taint.NewRegistries()

	state := taint.Seed(g, reg)
	taint.Propagate(g, reg, state)

	findings := taint.Find(g, reg, state)
	assert.Empty(t, findings)
}
