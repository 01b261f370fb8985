package jsparse

import "github.com/robertkrimen/otto/ast"

// Inspect walks the AST in depth-first order, calling f for each node. If f
// returns false the node's children are skipped. The walk covers every node
// kind the ES5 grammar produces.
func Inspect(node ast.Node, f func(ast.Node) bool) {
	if node == nil || !f(node) {
		return
	}
	switch n := node.(type) {
	case *ast.Program:
		for _, s := range n.Body {
			Inspect(s, f)
		}

	// Statements
	case *ast.BlockStatement:
		for _, s := range n.List {
			Inspect(s, f)
		}
	case *ast.BranchStatement:
		if n.Label != nil {
			Inspect(n.Label, f)
		}
	case *ast.CaseStatement:
		Inspect(n.Test, f)
		for _, s := range n.Consequent {
			Inspect(s, f)
		}
	case *ast.CatchStatement:
		if n.Parameter != nil {
			Inspect(n.Parameter, f)
		}
		Inspect(n.Body, f)
	case *ast.DoWhileStatement:
		Inspect(n.Body, f)
		Inspect(n.Test, f)
	case *ast.ExpressionStatement:
		Inspect(n.Expression, f)
	case *ast.ForInStatement:
		Inspect(n.Into, f)
		Inspect(n.Source, f)
		Inspect(n.Body, f)
	case *ast.ForStatement:
		Inspect(n.Initializer, f)
		Inspect(n.Test, f)
		Inspect(n.Update, f)
		Inspect(n.Body, f)
	case *ast.FunctionStatement:
		Inspect(n.Function, f)
	case *ast.IfStatement:
		Inspect(n.Test, f)
		Inspect(n.Consequent, f)
		Inspect(n.Alternate, f)
	case *ast.LabelledStatement:
		if n.Label != nil {
			Inspect(n.Label, f)
		}
		Inspect(n.Statement, f)
	case *ast.ReturnStatement:
		Inspect(n.Argument, f)
	case *ast.SwitchStatement:
		Inspect(n.Discriminant, f)
		for _, c := range n.Body {
			Inspect(c, f)
		}
	case *ast.ThrowStatement:
		Inspect(n.Argument, f)
	case *ast.TryStatement:
		Inspect(n.Body, f)
		if n.Catch != nil {
			Inspect(n.Catch, f)
		}
		Inspect(n.Finally, f)
	case *ast.VariableStatement:
		for _, e := range n.List {
			Inspect(e, f)
		}
	case *ast.WhileStatement:
		Inspect(n.Test, f)
		Inspect(n.Body, f)
	case *ast.WithStatement:
		Inspect(n.Object, f)
		Inspect(n.Body, f)

	// Expressions
	case *ast.ArrayLiteral:
		for _, e := range n.Value {
			Inspect(e, f)
		}
	case *ast.AssignExpression:
		Inspect(n.Left, f)
		Inspect(n.Right, f)
	case *ast.BinaryExpression:
		Inspect(n.Left, f)
		Inspect(n.Right, f)
	case *ast.BracketExpression:
		Inspect(n.Left, f)
		Inspect(n.Member, f)
	case *ast.CallExpression:
		Inspect(n.Callee, f)
		for _, a := range n.ArgumentList {
			Inspect(a, f)
		}
	case *ast.ConditionalExpression:
		Inspect(n.Test, f)
		Inspect(n.Consequent, f)
		Inspect(n.Alternate, f)
	case *ast.DotExpression:
		Inspect(n.Left, f)
	case *ast.FunctionLiteral:
		if n.Name != nil {
			Inspect(n.Name, f)
		}
		if n.ParameterList != nil {
			for _, p := range n.ParameterList.List {
				Inspect(p, f)
			}
		}
		Inspect(n.Body, f)
	case *ast.NewExpression:
		Inspect(n.Callee, f)
		for _, a := range n.ArgumentList {
			Inspect(a, f)
		}
	case *ast.ObjectLiteral:
		for _, p := range n.Value {
			Inspect(p.Value, f)
		}
	case *ast.SequenceExpression:
		for _, e := range n.Sequence {
			Inspect(e, f)
		}
	case *ast.UnaryExpression:
		Inspect(n.Operand, f)
	case *ast.VariableExpression:
		Inspect(n.Initializer, f)
	}
}

// BoundNames collects every locally bound name in the program: var
// declarations, function names, function parameters, and catch parameters.
// The set is flat (not scope-accurate); callers use it to avoid treating a
// shadowed global as the surface-declared binding.
func BoundNames(program *ast.Program) map[string]bool {
	bound := make(map[string]bool)
	Inspect(program, func(node ast.Node) bool {
		switch n := node.(type) {
		case *ast.VariableExpression:
			bound[n.Name] = true
		case *ast.FunctionLiteral:
			if n.Name != nil {
				bound[n.Name.Name] = true
			}
			if n.ParameterList != nil {
				for _, p := range n.ParameterList.List {
					bound[p.Name] = true
				}
			}
		case *ast.CatchStatement:
			if n.Parameter != nil {
				bound[n.Parameter.Name] = true
			}
		}
		return true
	})
	return bound
}
