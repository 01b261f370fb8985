package schemacheck

import (
	"fmt"
	"testing"

	"github.com/plugsmith/plugsmith/internal/compose"
	"github.com/plugsmith/plugsmith/internal/diagnostic"
	"github.com/plugsmith/plugsmith/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// schemaSource wraps a schema literal in a factory call the surface
// declares as taking a SchemaNode argument.
func schemaSource(schema string) *compose.Source {
	return &compose.Source{Text: fmt.Sprintf("var s = Widget.Schema(%s);", schema)}
}

func TestValidShapes(t *testing.T) {
	surf := testutil.NewSurface(t)

	tests := []struct {
		name   string
		schema string
	}{
		{name: "properties", schema: `{properties: [{name: "title"}, {name: "done", isOptional: true}]}`},
		{name: "nested property schema", schema: `{properties: [{name: "count", schema: {constant: 1}}]}`},
		{name: "arrayOf", schema: `{arrayOf: {properties: [{name: "id"}]}, minimumElements: 1, maximumElements: 10}`},
		{name: "anyOf", schema: `{anyOf: [{constant: "yes"}, {constant: "no"}]}`},
		{name: "constant", schema: `{constant: 42}`},
		{name: "named node with resolved reference", schema: `{properties: [{name: "self", schema: {name: "loop", arrayOf: {referenceTo: "loop"}}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := Check(schemaSource(tt.schema), surf)
			assert.Empty(t, diags)
		})
	}
}

func TestMissingName(t *testing.T) {
	surf := testutil.NewSurface(t)

	diags := Check(schemaSource(`{properties: [{description: "no name here"}]}`), surf)
	require.Len(t, diags, 1)
	assert.Equal(t, CodeMissingName, diags[0].Code)
	assert.Equal(t, diagnostic.SeverityError, diags[0].Severity)
	assert.Equal(t, diagnostic.CheckerSchema, diags[0].Checker)

	// A non-string name is still a missing name
	diags = Check(schemaSource(`{properties: [{name: 7}]}`), surf)
	require.Len(t, diags, 1)
	assert.Equal(t, CodeMissingName, diags[0].Code)
}

func TestUnknownReference(t *testing.T) {
	surf := testutil.NewSurface(t)

	// The property entry named "a" is a field name, not a schema node name,
	// so the reference does not resolve.
	diags := Check(schemaSource(`{properties: [{name: "a"}, {arrayOf: {referenceTo: "a"}}]}`), surf)
	require.Len(t, diags, 1)
	assert.Equal(t, CodeUnknownReference, diags[0].Code)
	assert.Contains(t, diags[0].Message, `"a"`)

	// A schema node explicitly named "a" elsewhere in the document resolves it
	src := &compose.Source{Text: `
var first = Widget.Schema({name: "a", constant: 1});
var second = Widget.Schema({properties: [{name: "a"}, {arrayOf: {referenceTo: "a"}}]});
`}
	diags = Check(src, surf)
	assert.Empty(t, diags)
}

func TestUnrecognizedShape(t *testing.T) {
	surf := testutil.NewSurface(t)

	tests := []struct {
		name   string
		schema string
	}{
		{name: "no shape key", schema: `{title: "nothing schema-like"}`},
		{name: "two shape keys", schema: `{constant: 1, referenceTo: "x"}`},
		{name: "arrayOf non-object", schema: `{arrayOf: "Task"}`},
		{name: "anyOf non-array", schema: `{anyOf: {constant: 1}}`},
		{name: "referenceTo non-string", schema: `{referenceTo: 12}`},
		{name: "non-numeric bound", schema: `{arrayOf: {constant: 1}, minimumElements: "one"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := Check(schemaSource(tt.schema), surf)
			require.NotEmpty(t, diags)
			assert.Equal(t, CodeUnrecognizedShape, diags[0].Code)
		})
	}
}

func TestDeepRecursionCollectsEverything(t *testing.T) {
	surf := testutil.NewSurface(t)

	diags := Check(schemaSource(`{
		properties: [
			{name: "ok"},
			{missing: "name"},
			{name: "inner", schema: {anyOf: [{referenceTo: "nowhere"}, {bogus: true}]}}
		]
	}`), surf)

	codes := make(map[string]int)
	for _, d := range diags {
		codes[d.Code]++
	}
	assert.Equal(t, 1, codes[CodeMissingName])
	assert.Equal(t, 1, codes[CodeUnknownReference])
	assert.Equal(t, 1, codes[CodeUnrecognizedShape])
}

func TestNonSchemaArgumentsIgnored(t *testing.T) {
	surf := testutil.NewSurface(t)

	// Widget.request takes a string, not a SchemaNode
	diags := Check(&compose.Source{Text: `Widget.request("https://example.invalid");`}, surf)
	assert.Empty(t, diags)

	// Locally bound receivers are opaque to shallow resolution
	diags = Check(&compose.Source{Text: `var w = makeWidget(); w.Schema({bogus: 1});`}, surf)
	assert.Empty(t, diags)

	// Unparsable sources are the type checker's finding
	diags = Check(&compose.Source{Text: "var = ;"}, surf)
	assert.Empty(t, diags)
}
