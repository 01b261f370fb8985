package typecheck

import "github.com/robertkrimen/otto/ast"

// scope is a lexical environment mapping locally bound names to their
// inferred type ("" when unknown). Lookups walk outward to the enclosing
// scope; the surface's global bindings sit conceptually outside the
// outermost scope.
type scope struct {
	parent *scope
	vars   map[string]string
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, vars: make(map[string]string)}
}

func (s *scope) declare(name, typ string) {
	s.vars[name] = typ
}

func (s *scope) lookup(name string) (string, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if typ, ok := cur.vars[name]; ok {
			return typ, true
		}
	}
	return "", false
}

// declareHoisted pre-binds the names the host hoists to the top of a scope:
// function declarations and var declarations. Types are refined later when
// the initializers are actually checked.
func (s *scope) declareHoisted(decls []ast.Declaration) {
	for _, decl := range decls {
		switch d := decl.(type) {
		case *ast.FunctionDeclaration:
			if d.Function != nil && d.Function.Name != nil {
				s.declare(d.Function.Name.Name, "")
			}
		case *ast.VariableDeclaration:
			for _, v := range d.List {
				s.declare(v.Name, "")
			}
		}
	}
}
