// Package typecheck resolves every member access, call, and constructor
// expression in a composed source against the declared API surface. It
// accumulates diagnostics across the whole source and never stops at the
// first finding, so a rejected run reports its complete fix list.
package typecheck

import (
	"fmt"

	"github.com/robertkrimen/otto/ast"

	"github.com/plugsmith/plugsmith/internal/catalog"
	"github.com/plugsmith/plugsmith/internal/compose"
	"github.com/plugsmith/plugsmith/internal/diagnostic"
	"github.com/plugsmith/plugsmith/internal/jsparse"
	"github.com/plugsmith/plugsmith/internal/surface"
)

// result carries what the checker learned about one expression: the
// inferred type of its value and, for member accesses, the resolved member.
type result struct {
	typ        string
	member     *surface.Member
	memberName string
	recvType   string
}

var unknown = result{}

type checker struct {
	surf  *surface.Surface
	src   *compose.Source
	index *diagnostic.LineIndex
	diags []diagnostic.Diagnostic
}

// Check validates the composed source against the surface and returns every
// diagnostic found.
func Check(src *compose.Source, surf *surface.Surface) []diagnostic.Diagnostic {
	c := &checker{
		surf:  surf,
		src:   src,
		index: diagnostic.NewLineIndex(src.Text),
	}

	program, err := jsparse.Parse(src.Text)
	if err != nil {
		pos, msg, _ := jsparse.FirstError(err)
		offset := c.index.OffsetOf(pos.Line, pos.Column)
		c.report(diagnostic.SeverityError, CodeSyntaxError, msg, offset, offset+1)
		return c.diags
	}

	sc := newScope(nil)
	sc.declareHoisted(program.DeclarationList)
	for _, stmt := range program.Body {
		c.checkStmt(stmt, sc)
	}
	return c.diags
}

func (c *checker) report(sev diagnostic.Severity, code, msg string, start, end int) {
	if end <= start {
		end = start + 1
	}
	c.diags = append(c.diags, diagnostic.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Range:    c.index.RangeAt(start, end),
		Checker:  diagnostic.CheckerType,
	})
}

func (c *checker) reportNode(sev diagnostic.Severity, code, msg string, node ast.Node) {
	c.report(sev, code, msg, jsparse.Offset(node.Idx0()), jsparse.Offset(node.Idx1()))
}

func (c *checker) checkStmt(stmt ast.Statement, sc *scope) {
	switch n := stmt.(type) {
	case *ast.BlockStatement:
		for _, s := range n.List {
			c.checkStmt(s, sc)
		}
	case *ast.ExpressionStatement:
		res := c.checkExpr(n.Expression, sc)
		// A bare callable member in statement position is almost always a
		// forgotten invocation.
		if _, isDot := n.Expression.(*ast.DotExpression); isDot && res.member != nil && res.member.Callable() {
			c.reportNode(diagnostic.SeverityWarning, CodeMethodReferencedWithoutCall,
				fmt.Sprintf("%s.%s is a %s but is never invoked here", res.recvType, res.memberName, res.member.Kind),
				n.Expression)
		}
	case *ast.VariableStatement:
		for _, e := range n.List {
			c.checkExpr(e, sc)
		}
	case *ast.FunctionStatement:
		if n.Function != nil {
			if n.Function.Name != nil {
				sc.declare(n.Function.Name.Name, "")
			}
			c.checkFunction(n.Function, sc)
		}
	case *ast.IfStatement:
		c.checkExpr(n.Test, sc)
		c.checkStmt(n.Consequent, sc)
		if n.Alternate != nil {
			c.checkStmt(n.Alternate, sc)
		}
	case *ast.WhileStatement:
		c.checkExpr(n.Test, sc)
		c.checkStmt(n.Body, sc)
	case *ast.DoWhileStatement:
		c.checkStmt(n.Body, sc)
		c.checkExpr(n.Test, sc)
	case *ast.ForStatement:
		if n.Initializer != nil {
			c.checkExpr(n.Initializer, sc)
		}
		if n.Test != nil {
			c.checkExpr(n.Test, sc)
		}
		if n.Update != nil {
			c.checkExpr(n.Update, sc)
		}
		c.checkStmt(n.Body, sc)
	case *ast.ForInStatement:
		c.checkExpr(n.Into, sc)
		c.checkExpr(n.Source, sc)
		c.checkStmt(n.Body, sc)
	case *ast.SwitchStatement:
		c.checkExpr(n.Discriminant, sc)
		for _, cs := range n.Body {
			if cs.Test != nil {
				c.checkExpr(cs.Test, sc)
			}
			for _, s := range cs.Consequent {
				c.checkStmt(s, sc)
			}
		}
	case *ast.TryStatement:
		c.checkStmt(n.Body, sc)
		if n.Catch != nil {
			catchScope := newScope(sc)
			if n.Catch.Parameter != nil {
				catchScope.declare(n.Catch.Parameter.Name, "")
			}
			c.checkStmt(n.Catch.Body, catchScope)
		}
		if n.Finally != nil {
			c.checkStmt(n.Finally, sc)
		}
	case *ast.ReturnStatement:
		if n.Argument != nil {
			c.checkExpr(n.Argument, sc)
		}
	case *ast.ThrowStatement:
		c.checkExpr(n.Argument, sc)
	case *ast.WithStatement:
		// The lint checker rejects `with`; typing inside it is meaningless,
		// so only the object expression is resolved.
		c.checkExpr(n.Object, sc)
	case *ast.LabelledStatement:
		c.checkStmt(n.Statement, sc)
	}
}

func (c *checker) checkExpr(expr ast.Expression, sc *scope) result {
	switch n := expr.(type) {
	case *ast.Identifier:
		return c.checkIdentifier(n, sc)
	case *ast.DotExpression:
		return c.checkDot(n, sc)
	case *ast.CallExpression:
		return c.checkCall(n, sc)
	case *ast.NewExpression:
		return c.checkNew(n, sc)
	case *ast.AssignExpression:
		c.checkExpr(n.Left, sc)
		right := c.checkExpr(n.Right, sc)
		return result{typ: right.typ}
	case *ast.VariableExpression:
		typ := ""
		if n.Initializer != nil {
			typ = c.checkExpr(n.Initializer, sc).typ
		}
		sc.declare(n.Name, typ)
		return result{typ: typ}
	case *ast.FunctionLiteral:
		c.checkFunction(n, sc)
		return unknown
	case *ast.ObjectLiteral:
		for _, p := range n.Value {
			c.checkExpr(p.Value, sc)
		}
		return unknown
	case *ast.ArrayLiteral:
		for _, e := range n.Value {
			if e != nil {
				c.checkExpr(e, sc)
			}
		}
		return unknown
	case *ast.BinaryExpression:
		c.checkExpr(n.Left, sc)
		c.checkExpr(n.Right, sc)
		if n.Comparison {
			return result{typ: "boolean"}
		}
		return unknown
	case *ast.UnaryExpression:
		c.checkExpr(n.Operand, sc)
		return unknown
	case *ast.ConditionalExpression:
		c.checkExpr(n.Test, sc)
		cons := c.checkExpr(n.Consequent, sc)
		alt := c.checkExpr(n.Alternate, sc)
		if cons.typ == alt.typ {
			return result{typ: cons.typ}
		}
		return unknown
	case *ast.SequenceExpression:
		var last result
		for _, e := range n.Sequence {
			last = c.checkExpr(e, sc)
		}
		return result{typ: last.typ}
	case *ast.BracketExpression:
		c.checkExpr(n.Left, sc)
		c.checkExpr(n.Member, sc)
		return unknown
	case *ast.StringLiteral:
		return result{typ: "string"}
	case *ast.NumberLiteral:
		return result{typ: "number"}
	case *ast.BooleanLiteral:
		return result{typ: "boolean"}
	default:
		return unknown
	}
}

func (c *checker) checkIdentifier(n *ast.Identifier, sc *scope) result {
	name := n.Name
	if typ, bound := sc.lookup(name); bound {
		return result{typ: typ}
	}
	if hint, forbidden := c.surf.ForbiddenHint(name); forbidden {
		msg := fmt.Sprintf("%q is not available in this host", name)
		if hint != "" {
			msg += " (" + hint + ")"
		}
		c.reportNode(diagnostic.SeverityError, CodeForbiddenAPI, msg, n)
		return unknown
	}
	if typ, ok := c.surf.GlobalType(name); ok {
		return result{typ: typ}
	}
	if surface.IsBuiltinGlobal(name) || surface.IsSandboxAbsent(name) {
		// Sandbox-absent globals are the lint checker's finding, not an
		// unknown-symbol finding.
		return unknown
	}
	c.reportNode(diagnostic.SeverityError, CodeUnknownGlobal,
		fmt.Sprintf("unknown global %q", name), n)
	return unknown
}

func (c *checker) checkDot(n *ast.DotExpression, sc *scope) result {
	left := c.checkExpr(n.Left, sc)
	name := n.Identifier.Name
	if left.typ == "" {
		return unknown
	}
	entry, ok := c.surf.Type(left.typ)
	if !ok {
		// Receiver has a primitive or otherwise undeclared type; nothing to
		// resolve against.
		return unknown
	}
	member, ok := entry.Members[name]
	if !ok {
		if !surface.IsBuiltinMember(name) {
			c.report(diagnostic.SeverityError, CodeUnknownMember,
				fmt.Sprintf("type %s has no member %q", entry.Name, name),
				jsparse.Offset(n.Identifier.Idx0()), jsparse.Offset(n.Identifier.Idx1()))
		}
		return unknown
	}

	res := result{member: member, memberName: name, recvType: entry.Name}
	if member.Kind == surface.KindProperty {
		res.typ = member.Returns
	}
	return res
}

func (c *checker) checkCall(n *ast.CallExpression, sc *scope) result {
	callee := c.checkExpr(n.Callee, sc)
	for _, arg := range n.ArgumentList {
		c.checkExpr(arg, sc)
	}

	m := callee.member
	if m == nil {
		return unknown
	}

	if m.Kind == surface.KindProperty {
		c.reportNode(diagnostic.SeverityError, CodePropertyCalledAsMethod,
			fmt.Sprintf("%s.%s is a property, not a method; drop the parentheses", callee.recvType, callee.memberName),
			n.Callee)
		return result{typ: m.Returns}
	}

	c.checkArity(m, callee, len(n.ArgumentList), n)
	c.checkPhase(m, callee, n)
	return result{typ: m.Returns}
}

func (c *checker) checkNew(n *ast.NewExpression, sc *scope) result {
	callee := c.checkExpr(n.Callee, sc)
	for _, arg := range n.ArgumentList {
		c.checkExpr(arg, sc)
	}

	m := callee.member
	if m == nil {
		// `new` on a bare global constructs an instance of that type as far
		// as inference is concerned.
		return result{typ: callee.typ}
	}

	switch m.Kind {
	case surface.KindConstructor:
		c.checkArity(m, callee, len(n.ArgumentList), n)
		c.checkPhase(m, callee, n)
		return result{typ: m.Returns}
	case surface.KindFactory:
		c.reportNode(diagnostic.SeverityError, CodeNotAConstructor,
			fmt.Sprintf("%s.%s is a factory; call %s.%s(...) instead of constructing it with new",
				callee.recvType, callee.memberName, callee.recvType, callee.memberName),
			n.Callee)
		return result{typ: m.Returns}
	default:
		c.reportNode(diagnostic.SeverityError, CodeNotAConstructor,
			fmt.Sprintf("%s.%s is not a constructor", callee.recvType, callee.memberName),
			n.Callee)
		return unknown
	}
}

func (c *checker) checkArity(m *surface.Member, callee result, got int, node ast.Node) {
	if m.Variadic || got == len(m.Params) {
		return
	}
	c.reportNode(diagnostic.SeverityError, CodeWrongArgumentCount,
		fmt.Sprintf("%s.%s expects %d argument(s), got %d", callee.recvType, callee.memberName, len(m.Params), got),
		node)
}

// checkPhase enforces load-phase-only members. The slot phase travels in
// the source map, so the check is a lookup at the invocation's offset
// rather than a global "currently loading" flag.
func (c *checker) checkPhase(m *surface.Member, callee result, node ast.Node) {
	if m.Phase != surface.PhaseLoad {
		return
	}
	if c.src.PhaseAt(jsparse.Offset(node.Idx0())) == catalog.SlotPhaseRun {
		c.reportNode(diagnostic.SeverityError, CodeConstructOutsideLoad,
			fmt.Sprintf("%s.%s may only be invoked while the plugin is loading", callee.recvType, callee.memberName),
			node)
	}
}

func (c *checker) checkFunction(fn *ast.FunctionLiteral, sc *scope) {
	inner := newScope(sc)
	if fn.Name != nil {
		inner.declare(fn.Name.Name, "")
	}
	if fn.ParameterList != nil {
		for _, p := range fn.ParameterList.List {
			inner.declare(p.Name, "")
		}
	}
	inner.declareHoisted(fn.DeclarationList)
	c.checkStmt(fn.Body, inner)
}
