package jsparse

import (
	"testing"

	"github.com/robertkrimen/otto/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	program, err := Parse("var a = 1;\na.toString();")
	require.NoError(t, err)
	assert.Len(t, program.Body, 2)
}

func TestFirstError(t *testing.T) {
	_, err := Parse("var = ;")
	require.Error(t, err)

	pos, msg, ok := FirstError(err)
	require.True(t, ok)
	assert.NotEmpty(t, msg)
	assert.Equal(t, 1, pos.Line)

	_, _, ok = FirstError(nil)
	assert.False(t, ok)
}

func TestInspectVisitsNestedNodes(t *testing.T) {
	program, err := Parse(`
function outer(a) {
    var inner = function (b) {
        return a + b;
    };
    try {
        return inner(1);
    } catch (problem) {
        return problem;
    }
}
`)
	require.NoError(t, err)

	var calls, identifiers int
	Inspect(program, func(node ast.Node) bool {
		switch node.(type) {
		case *ast.CallExpression:
			calls++
		case *ast.Identifier:
			identifiers++
		}
		return true
	})
	assert.Equal(t, 1, calls)
	assert.Greater(t, identifiers, 3)
}

func TestBoundNames(t *testing.T) {
	program, err := Parse(`
var top = 1;
function helper(first, second) {
    var local = first;
}
try { helper(); } catch (oops) {}
`)
	require.NoError(t, err)

	bound := BoundNames(program)
	for _, name := range []string{"top", "helper", "first", "second", "local", "oops"} {
		assert.True(t, bound[name], name)
	}
	assert.False(t, bound["target"])
}
