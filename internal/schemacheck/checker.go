// Package schemacheck validates the host's recursive schema DSL: the
// structural micro-language (properties, arrayOf, anyOf, constant,
// referenceTo) used to describe response shapes. The DSL is a data shape,
// not an API member, so this checker is deliberately independent of the
// type checker; it finds schema argument positions on its own and validates
// the object literals passed there.
package schemacheck

import (
	"fmt"

	"github.com/robertkrimen/otto/ast"

	"github.com/plugsmith/plugsmith/internal/compose"
	"github.com/plugsmith/plugsmith/internal/diagnostic"
	"github.com/plugsmith/plugsmith/internal/jsparse"
	"github.com/plugsmith/plugsmith/internal/surface"
)

// Diagnostic codes emitted by the schema structural checker
const (
	// CodeMissingName indicates a property entry without a name field
	CodeMissingName = "SCHEMA_MISSING_NAME"

	// CodeUnknownReference indicates a referenceTo naming no schema node
	// defined anywhere in the document
	CodeUnknownReference = "SCHEMA_UNKNOWN_REFERENCE"

	// CodeUnrecognizedShape indicates a node matching none of the five
	// schema shapes
	CodeUnrecognizedShape = "SCHEMA_UNRECOGNIZED_SHAPE"
)

// The five shape-defining keys. A schema node carries exactly one.
var shapeKeys = []string{"properties", "arrayOf", "anyOf", "constant", "referenceTo"}

type checker struct {
	index *diagnostic.LineIndex
	names map[string]bool
	diags []diagnostic.Diagnostic
}

// Check finds every argument passed in a SchemaNode-typed position and
// validates its structure. References are checked in a second pass against
// the names collected from the whole document.
func Check(src *compose.Source, surf *surface.Surface) []diagnostic.Diagnostic {
	program, err := jsparse.Parse(src.Text)
	if err != nil {
		// The type checker owns reporting parse failures
		return nil
	}

	sites := findSchemaSites(program, surf)
	if len(sites) == 0 {
		return nil
	}

	c := &checker{
		index: diagnostic.NewLineIndex(src.Text),
		names: make(map[string]bool),
	}

	// Pass 1: collect every named schema node in the document
	for _, site := range sites {
		c.collectNames(site)
	}

	// Pass 2: validate structure and resolve references
	for _, site := range sites {
		c.checkNode(site)
	}
	return c.diags
}

// findSchemaSites returns the object literals passed where the surface
// declares a SchemaNode parameter. Resolution is intentionally shallow: it
// follows global-rooted member chains only, and treats any locally bound
// name as opaque.
func findSchemaSites(program *ast.Program, surf *surface.Surface) []*ast.ObjectLiteral {
	r := resolver{surf: surf, bound: jsparse.BoundNames(program)}

	var sites []*ast.ObjectLiteral
	jsparse.Inspect(program, func(node ast.Node) bool {
		var callee ast.Expression
		var args []ast.Expression
		switch n := node.(type) {
		case *ast.CallExpression:
			callee, args = n.Callee, n.ArgumentList
		case *ast.NewExpression:
			callee, args = n.Callee, n.ArgumentList
		default:
			return true
		}

		m := r.calleeMember(callee)
		if m == nil {
			return true
		}
		if i := m.SchemaParam(); i >= 0 && i < len(args) {
			if obj, ok := args[i].(*ast.ObjectLiteral); ok {
				sites = append(sites, obj)
			}
		}
		return true
	})
	return sites
}

func (c *checker) report(code, msg string, node ast.Node) {
	c.diags = append(c.diags, diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Code:     code,
		Message:  msg,
		Range:    c.index.RangeAt(jsparse.Offset(node.Idx0()), jsparse.Offset(node.Idx1())),
		Checker:  diagnostic.CheckerSchema,
	})
}

// collectNames registers every object literal that is both shaped and named
func (c *checker) collectNames(site *ast.ObjectLiteral) {
	jsparse.Inspect(site, func(node ast.Node) bool {
		obj, ok := node.(*ast.ObjectLiteral)
		if !ok {
			return true
		}
		if shapeKeyOf(obj) == "" {
			return true
		}
		if name, ok := stringValue(obj, "name"); ok {
			c.names[name] = true
		}
		return true
	})
}

// checkNode validates one schema node against the five shapes
func (c *checker) checkNode(obj *ast.ObjectLiteral) {
	key := shapeKeyOf(obj)
	if key == "" {
		c.report(CodeUnrecognizedShape,
			"node matches none of the schema shapes (properties, arrayOf, anyOf, constant, referenceTo)", obj)
		return
	}

	value := propertyValue(obj, key)
	switch key {
	case "properties":
		list, ok := value.(*ast.ArrayLiteral)
		if !ok {
			c.report(CodeUnrecognizedShape, "properties must hold an array of entries", valueOr(value, obj))
			return
		}
		for _, entry := range list.Value {
			c.checkPropertyEntry(entry)
		}
	case "arrayOf":
		element, ok := value.(*ast.ObjectLiteral)
		if !ok {
			c.report(CodeUnrecognizedShape, "arrayOf must hold a schema node", valueOr(value, obj))
			return
		}
		c.checkBounds(obj)
		c.checkNode(element)
	case "anyOf":
		list, ok := value.(*ast.ArrayLiteral)
		if !ok {
			c.report(CodeUnrecognizedShape, "anyOf must hold an array of schema nodes", valueOr(value, obj))
			return
		}
		for _, alt := range list.Value {
			element, ok := alt.(*ast.ObjectLiteral)
			if !ok {
				c.report(CodeUnrecognizedShape, "anyOf entries must be schema nodes", alt)
				continue
			}
			c.checkNode(element)
		}
	case "constant":
		// Any literal is a valid constant
	case "referenceTo":
		lit, ok := value.(*ast.StringLiteral)
		if !ok {
			c.report(CodeUnrecognizedShape, "referenceTo must hold a schema name string", valueOr(value, obj))
			return
		}
		if !c.names[lit.Value] {
			c.report(CodeUnknownReference,
				fmt.Sprintf("referenceTo %q names no schema node defined in this document", lit.Value), lit)
		}
	}
}

// checkPropertyEntry validates one entry of a properties list. An entry is
// either a nested schema node (it carries a shape key) or a property node,
// which requires a name and may carry a nested schema.
func (c *checker) checkPropertyEntry(entry ast.Expression) {
	obj, ok := entry.(*ast.ObjectLiteral)
	if !ok {
		c.report(CodeUnrecognizedShape, "properties entries must be objects", entry)
		return
	}

	if shapeKeyOf(obj) != "" {
		c.checkNode(obj)
		return
	}

	if _, ok := stringValue(obj, "name"); !ok {
		if propertyValue(obj, "name") != nil {
			c.report(CodeMissingName, "property name must be a string", obj)
		} else {
			c.report(CodeMissingName, "property entry has no name", obj)
		}
	}
	if nested, ok := propertyValue(obj, "schema").(*ast.ObjectLiteral); ok {
		c.checkNode(nested)
	}
}

// checkBounds validates the optional element-count bounds on arrayOf nodes
func (c *checker) checkBounds(obj *ast.ObjectLiteral) {
	for _, key := range []string{"minimumElements", "maximumElements"} {
		value := propertyValue(obj, key)
		if value == nil {
			continue
		}
		if _, ok := value.(*ast.NumberLiteral); !ok {
			c.report(CodeUnrecognizedShape, key+" must be a number", value)
		}
	}
}

// shapeKeyOf returns the single shape key of a node, or "" when the node
// carries none or more than one.
func shapeKeyOf(obj *ast.ObjectLiteral) string {
	found := ""
	for _, key := range shapeKeys {
		if propertyValue(obj, key) == nil {
			continue
		}
		if found != "" {
			return ""
		}
		found = key
	}
	return found
}

func propertyValue(obj *ast.ObjectLiteral, key string) ast.Expression {
	for _, p := range obj.Value {
		if p.Key == key {
			return p.Value
		}
	}
	return nil
}

func stringValue(obj *ast.ObjectLiteral, key string) (string, bool) {
	lit, ok := propertyValue(obj, key).(*ast.StringLiteral)
	if !ok {
		return "", false
	}
	return lit.Value, true
}

func valueOr(value ast.Expression, fallback ast.Node) ast.Node {
	if value != nil {
		return value
	}
	return fallback
}

// resolver follows global-rooted member chains to the surface member a
// callee names
type resolver struct {
	surf  *surface.Surface
	bound map[string]bool
}

func (r resolver) calleeMember(callee ast.Expression) *surface.Member {
	dot, ok := callee.(*ast.DotExpression)
	if !ok {
		return nil
	}
	recv := r.typeOf(dot.Left)
	if recv == "" {
		return nil
	}
	m, ok := r.surf.Member(recv, dot.Identifier.Name)
	if !ok {
		return nil
	}
	return m
}

func (r resolver) typeOf(expr ast.Expression) string {
	switch n := expr.(type) {
	case *ast.Identifier:
		if r.bound[n.Name] {
			return ""
		}
		typ, _ := r.surf.GlobalType(n.Name)
		return typ
	case *ast.DotExpression:
		recv := r.typeOf(n.Left)
		if recv == "" {
			return ""
		}
		m, ok := r.surf.Member(recv, n.Identifier.Name)
		if !ok || m.Kind != surface.KindProperty {
			return ""
		}
		return m.Returns
	case *ast.CallExpression:
		if m := r.calleeMember(n.Callee); m != nil {
			return m.Returns
		}
		return ""
	default:
		return ""
	}
}
