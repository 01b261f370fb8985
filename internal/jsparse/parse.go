// Package jsparse wraps the host language's own parser. The pipeline never
// maintains a grammar of its own: the composed source is parsed with the
// same ES5 grammar the sandboxed runtime implements.
package jsparse

import (
	"github.com/robertkrimen/otto/ast"
	"github.com/robertkrimen/otto/file"
	"github.com/robertkrimen/otto/parser"
)

// SourceName is the filename attached to parsed composed sources
const SourceName = "composed"

// Parse parses a composed source text into the host language AST
func Parse(src string) (*ast.Program, error) {
	return parser.ParseFile(nil, SourceName, src, 0)
}

// FirstError extracts the position and message of the first parse error.
// The parser reports an error list; the pipeline surfaces only the first
// entry since later entries are usually cascade noise.
func FirstError(err error) (file.Position, string, bool) {
	if err == nil {
		return file.Position{}, "", false
	}
	if list, ok := err.(*parser.ErrorList); ok && len(*list) > 0 {
		return (*list)[0].Position, (*list)[0].Message, true
	}
	return file.Position{}, err.Error(), true
}

// Offset converts a 1-based parser index into a byte offset
func Offset(idx file.Idx) int {
	if int(idx) < 1 {
		return 0
	}
	return int(idx) - 1
}
