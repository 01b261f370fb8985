// Package testutil provides shared fixtures for pipeline and checker tests.
package testutil

import (
	"testing"

	"github.com/plugsmith/plugsmith/internal/surface"
	"github.com/stretchr/testify/require"
)

// SurfaceJSON is a small but representative host surface declaration used
// across checker tests: a task type with both a property and a method, a
// load-phase constructor, a factory that takes a schema argument, and a
// forbidden symbol kept resolvable for detection.
const SurfaceJSON = `{
  "version": "1.4.0",
  "globals": {
    "target": "Task",
    "console": "Console",
    "PlugIn": "PlugIn",
    "Widget": "Widget",
    "library": "Library"
  },
  "forbidden": {
    "fetch": "use Widget.request instead",
    "document": ""
  },
  "types": [
    {
      "name": "Task",
      "members": {
        "flagged": {"kind": "property", "returns": "boolean"},
        "name": {"kind": "property", "returns": "string"},
        "parent": {"kind": "property", "returns": "Task"},
        "flag": {"kind": "method", "params": [], "returns": "void"},
        "rename": {"kind": "method", "params": [{"name": "name", "type": "string"}], "returns": "void"}
      }
    },
    {
      "name": "Console",
      "members": {
        "log": {"kind": "method", "variadic": true, "returns": "void"}
      }
    },
    {
      "name": "PlugIn",
      "members": {
        "Action": {
          "kind": "constructor",
          "phase": "load",
          "params": [{"name": "perform", "type": "function"}],
          "returns": "Action"
        },
        "find": {
          "kind": "method",
          "params": [{"name": "identifier", "type": "string"}],
          "returns": "PlugIn"
        }
      }
    },
    {
      "name": "Widget",
      "members": {
        "Schema": {
          "kind": "factory",
          "params": [{"name": "definition", "type": "SchemaNode"}],
          "returns": "Schema"
        },
        "request": {
          "kind": "method",
          "params": [{"name": "url", "type": "string"}],
          "returns": "string"
        }
      }
    },
    {
      "name": "Library",
      "members": {
        "lookup": {
          "kind": "method",
          "params": [{"name": "name", "type": "string"}],
          "returns": "Task"
        }
      }
    },
    {
      "name": "Action",
      "members": {
        "validate": {"kind": "property", "returns": "function"},
        "title": {"kind": "property", "returns": "string"}
      }
    },
    {
      "name": "Schema",
      "members": {}
    }
  ]
}`

// NewSurface parses the shared fixture declaration
func NewSurface(t *testing.T) *surface.Surface {
	t.Helper()

	s, err := surface.Parse([]byte(SurfaceJSON))
	require.NoError(t, err)
	return s
}
