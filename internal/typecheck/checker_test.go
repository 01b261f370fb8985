package typecheck

import (
	"strings"
	"testing"

	"github.com/plugsmith/plugsmith/internal/catalog"
	"github.com/plugsmith/plugsmith/internal/compose"
	"github.com/plugsmith/plugsmith/internal/diagnostic"
	"github.com/plugsmith/plugsmith/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// plainSource wraps raw host code as a composed source with no slot regions
func plainSource(text string) *compose.Source {
	return &compose.Source{Text: text}
}

// actionSource composes the test action skeleton around a run-phase body,
// mirroring what the real composer produces.
func actionSource(t *testing.T, body string) *compose.Source {
	t.Helper()

	tpl := &catalog.Template{
		ID:       "solitary-action",
		Shape:    catalog.ShapeSolitaryScript,
		Filename: "{{name}}.js",
		Slots: map[string]*catalog.Slot{
			"name": {Type: catalog.SlotString, Required: true, Phase: catalog.SlotPhaseLoad},
			"body": {Type: catalog.SlotText, Required: true, Phase: catalog.SlotPhaseRun},
		},
		Body: "var action = new PlugIn.Action(function perform() {\n    {{body}}\n});\n\naction.title = \"{{name}}\";\n",
	}
	src, err := compose.Compose(tpl, map[string]string{"name": "Flag Task", "body": body})
	require.NoError(t, err)
	return src
}

func codes(diags []diagnostic.Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Code
	}
	return out
}

func TestValidActionPasses(t *testing.T) {
	surf := testutil.NewSurface(t)

	// Scenario A: a property assignment through a declared global
	diags := Check(actionSource(t, "target.flagged = true;"), surf)
	assert.Empty(t, diags)
}

func TestPropertyCalledAsMethod(t *testing.T) {
	surf := testutil.NewSurface(t)

	// Scenario B: calling a property must produce exactly one error
	diags := Check(actionSource(t, "target.flagged();"), surf)
	require.Len(t, diags, 1)
	assert.Equal(t, CodePropertyCalledAsMethod, diags[0].Code)
	assert.Equal(t, diagnostic.SeverityError, diags[0].Severity)
	assert.Contains(t, diags[0].Message, "flagged")

	// Accessing the property without calling it is fine
	diags = Check(actionSource(t, "var f = target.flagged;"), surf)
	assert.Empty(t, diags)
}

func TestFactoryConstructedWithNew(t *testing.T) {
	surf := testutil.NewSurface(t)

	// Scenario C: Widget.Schema is factory-only
	diags := Check(actionSource(t, "var s = new Widget.Schema({constant: 1});"), surf)
	require.Len(t, diags, 1)
	assert.Equal(t, CodeNotAConstructor, diags[0].Code)
	assert.Contains(t, diags[0].Message, "Widget.Schema")

	// Calling the factory is the supported form
	diags = Check(actionSource(t, "var s = Widget.Schema({constant: 1});"), surf)
	assert.Empty(t, diags)
}

func TestUnknownMember(t *testing.T) {
	surf := testutil.NewSurface(t)

	diags := Check(actionSource(t, "target.flaged = true;"), surf)
	require.Len(t, diags, 1)
	assert.Equal(t, CodeUnknownMember, diags[0].Code)
	assert.Contains(t, diags[0].Message, `"flaged"`)
	assert.Contains(t, diags[0].Message, "Task")

	// Universal built-ins never trip the member check
	diags = Check(actionSource(t, "console.log(target.toString());"), surf)
	assert.Empty(t, diags)
}

func TestUnknownAndForbiddenGlobals(t *testing.T) {
	surf := testutil.NewSurface(t)

	diags := Check(plainSource("frobnicate();"), surf)
	require.Len(t, diags, 1)
	assert.Equal(t, CodeUnknownGlobal, diags[0].Code)
	assert.Contains(t, diags[0].Message, `"frobnicate"`)

	// Forbidden symbols resolve but are flagged, with the hint attached
	diags = Check(plainSource(`fetch("https://example.invalid");`), surf)
	require.Len(t, diags, 1)
	assert.Equal(t, CodeForbiddenAPI, diags[0].Code)
	assert.Contains(t, diags[0].Message, "Widget.request")

	// Language-level globals resolve without a surface entry
	diags = Check(plainSource("var s = JSON.stringify({});"), surf)
	assert.Empty(t, diags)
}

func TestLocalBindingsShadowGlobals(t *testing.T) {
	surf := testutil.NewSurface(t)

	// A local named target is not the surface global; member checks on it
	// are suppressed rather than guessed.
	diags := Check(plainSource("function run(target) { target.anything(); }"), surf)
	assert.Empty(t, diags)

	diags = Check(plainSource("var helper = function inner() { return inner; };"), surf)
	assert.Empty(t, diags)
}

func TestTypeFlowsThroughLocals(t *testing.T) {
	surf := testutil.NewSurface(t)

	// var t = target infers Task, so bad members are still caught
	diags := Check(plainSource("var t = target;\nt.flaged = true;"), surf)
	require.Len(t, diags, 1)
	assert.Equal(t, CodeUnknownMember, diags[0].Code)

	// Method return types flow as well: library.lookup returns Task
	diags = Check(plainSource(`var t = library.lookup("inbox");`+"\nt.flag();"), surf)
	assert.Empty(t, diags)

	// Property chains: target.parent is a Task again
	diags = Check(plainSource("target.parent.flaged = true;"), surf)
	require.Len(t, diags, 1)
	assert.Equal(t, CodeUnknownMember, diags[0].Code)
}

func TestMethodReferencedWithoutCall(t *testing.T) {
	surf := testutil.NewSurface(t)

	diags := Check(plainSource("target.flag;"), surf)
	require.Len(t, diags, 1)
	assert.Equal(t, CodeMethodReferencedWithoutCall, diags[0].Code)
	assert.Equal(t, diagnostic.SeverityWarning, diags[0].Severity)

	// Property reads in statement position are not flagged
	diags = Check(plainSource("target.flagged;"), surf)
	assert.Empty(t, diags)

	// Passing a method reference as a value is legitimate
	diags = Check(plainSource("var f = target.flag;"), surf)
	assert.Empty(t, diags)
}

func TestWrongArgumentCount(t *testing.T) {
	surf := testutil.NewSurface(t)

	diags := Check(plainSource(`target.rename("a", "b");`), surf)
	require.Len(t, diags, 1)
	assert.Equal(t, CodeWrongArgumentCount, diags[0].Code)
	assert.Contains(t, diags[0].Message, "expects 1 argument(s), got 2")

	// Variadic members accept any arity
	diags = Check(plainSource(`console.log("a", "b", "c");`), surf)
	assert.Empty(t, diags)
}

func TestConstructOutsideLoad(t *testing.T) {
	surf := testutil.NewSurface(t)

	// PlugIn.Action is load-phase-only; the template's own construction is
	// load-phase, a second construction inside the run-phase body is not.
	diags := Check(actionSource(t, `var again = new PlugIn.Action(function perform() {});`), surf)
	require.Len(t, diags, 1)
	assert.Equal(t, CodeConstructOutsideLoad, diags[0].Code)
	assert.Contains(t, diags[0].Message, "PlugIn.Action")
}

func TestSyntaxError(t *testing.T) {
	surf := testutil.NewSurface(t)

	diags := Check(plainSource("var = broken ;;;("), surf)
	require.Len(t, diags, 1)
	assert.Equal(t, CodeSyntaxError, diags[0].Code)
	assert.True(t, diags[0].Range.IsValid())
}

func TestCheckerNeverStopsAtFirstError(t *testing.T) {
	surf := testutil.NewSurface(t)

	src := plainSource(strings.Join([]string{
		"target.flaged = true;",
		"mystery();",
		"target.flagged();",
		`fetch("x");`,
	}, "\n"))

	diags := Check(src, surf)
	got := codes(diags)
	assert.Contains(t, got, CodeUnknownMember)
	assert.Contains(t, got, CodeUnknownGlobal)
	assert.Contains(t, got, CodePropertyCalledAsMethod)
	assert.Contains(t, got, CodeForbiddenAPI)
	assert.Len(t, diags, 4)
}

func TestEveryDiagnosticHasALocation(t *testing.T) {
	surf := testutil.NewSurface(t)

	diags := Check(actionSource(t, "target.flaged = true;\nmystery();"), surf)
	require.NotEmpty(t, diags)
	for _, d := range diags {
		assert.True(t, d.Range.IsValid(), d.Code)
		assert.Positive(t, d.Range.Start.Line, d.Code)
	}
}
