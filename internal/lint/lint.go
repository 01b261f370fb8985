// Package lint flags host-environment anti-patterns the type system does
// not express: references to globals the sandbox deliberately omits, syntax
// the host parses but does not support, and leftovers from other script
// environments.
package lint

import (
	"fmt"

	"github.com/robertkrimen/otto/ast"

	"github.com/plugsmith/plugsmith/internal/compose"
	"github.com/plugsmith/plugsmith/internal/diagnostic"
	"github.com/plugsmith/plugsmith/internal/jsparse"
	"github.com/plugsmith/plugsmith/internal/surface"
)

// Rule identifies one lint rule. The rule name doubles as the diagnostic
// code it emits.
type Rule string

const (
	// RuleDisallowedGlobal flags references to globals absent from the
	// sandboxed host: module loading, process access, dynamic evaluation,
	// browser I/O.
	RuleDisallowedGlobal Rule = "DISALLOWED_GLOBAL"

	// RuleRedundantBind flags .bind(this) on a function literal, which
	// already closes over its enclosing scope.
	RuleRedundantBind Rule = "REDUNDANT_BIND"

	// RuleUnsupportedSyntax flags with statements and labelled statements
	RuleUnsupportedSyntax Rule = "UNSUPPORTED_SYNTAX"

	// RuleDebuggerStatement flags leftover debugger statements
	RuleDebuggerStatement Rule = "DEBUGGER_STATEMENT"
)

var defaultSeverity = map[Rule]diagnostic.Severity{
	RuleDisallowedGlobal:  diagnostic.SeverityError,
	RuleRedundantBind:     diagnostic.SeverityWarning,
	RuleUnsupportedSyntax: diagnostic.SeverityError,
	RuleDebuggerStatement: diagnostic.SeverityWarning,
}

// Options selects and tunes rules. The zero value runs every rule at its
// default severity.
type Options struct {
	// Disabled turns individual rules off
	Disabled map[Rule]bool

	// Severity overrides a rule's default severity
	Severity map[Rule]diagnostic.Severity
}

func (o Options) enabled(rule Rule) bool {
	return !o.Disabled[rule]
}

func (o Options) severity(rule Rule) diagnostic.Severity {
	if sev, ok := o.Severity[rule]; ok {
		return sev
	}
	return defaultSeverity[rule]
}

type linter struct {
	opts  Options
	index *diagnostic.LineIndex
	bound map[string]bool
	diags []diagnostic.Diagnostic
}

// Check runs every enabled rule over the composed source. Sources that do
// not parse produce no lint findings; the type checker owns the syntax
// error.
func Check(src *compose.Source, opts Options) []diagnostic.Diagnostic {
	program, err := jsparse.Parse(src.Text)
	if err != nil {
		return nil
	}

	l := &linter{
		opts:  opts,
		index: diagnostic.NewLineIndex(src.Text),
		bound: jsparse.BoundNames(program),
	}
	jsparse.Inspect(program, l.visit)
	return l.diags
}

func (l *linter) report(rule Rule, msg string, node ast.Node) {
	l.diags = append(l.diags, diagnostic.Diagnostic{
		Severity: l.opts.severity(rule),
		Code:     string(rule),
		Message:  msg,
		Range:    l.index.RangeAt(jsparse.Offset(node.Idx0()), jsparse.Offset(node.Idx1())),
		Checker:  diagnostic.CheckerLint,
	})
}

func (l *linter) visit(node ast.Node) bool {
	switch n := node.(type) {
	case *ast.Identifier:
		l.checkDisallowedGlobal(n, false)
	case *ast.CallExpression:
		l.checkCallee(n.Callee)
		l.checkRedundantBind(n)
	case *ast.NewExpression:
		l.checkCallee(n.Callee)
	case *ast.WithStatement:
		if l.opts.enabled(RuleUnsupportedSyntax) {
			l.report(RuleUnsupportedSyntax, "with statements are not supported by the host", n)
		}
	case *ast.LabelledStatement:
		if l.opts.enabled(RuleUnsupportedSyntax) {
			l.report(RuleUnsupportedSyntax, "labelled statements are not supported by the host", n)
		}
	case *ast.DebuggerStatement:
		if l.opts.enabled(RuleDebuggerStatement) {
			l.report(RuleDebuggerStatement, "debugger statement left in script", n)
		}
	}
	return true
}

// checkCallee handles the callee position separately so Function, which is
// only dangerous as dynamic evaluation, is flagged when invoked. Other
// disallowed names are already reported at their identifier node.
func (l *linter) checkCallee(callee ast.Expression) {
	ident, ok := callee.(*ast.Identifier)
	if !ok || ident.Name != "Function" {
		return
	}
	l.checkDisallowedGlobal(ident, true)
}

func (l *linter) checkDisallowedGlobal(ident *ast.Identifier, asCallee bool) {
	if !l.opts.enabled(RuleDisallowedGlobal) {
		return
	}
	if l.bound[ident.Name] || !surface.IsSandboxAbsent(ident.Name) {
		return
	}
	// Function as a plain value reference is harmless
	if ident.Name == "Function" && !asCallee {
		return
	}
	l.report(RuleDisallowedGlobal,
		fmt.Sprintf("%q does not exist in the sandboxed host", ident.Name), ident)
}

// checkRedundantBind matches (function () { ... }).bind(this)
func (l *linter) checkRedundantBind(call *ast.CallExpression) {
	if !l.opts.enabled(RuleRedundantBind) {
		return
	}
	dot, ok := call.Callee.(*ast.DotExpression)
	if !ok || dot.Identifier.Name != "bind" {
		return
	}
	if _, ok := dot.Left.(*ast.FunctionLiteral); !ok {
		return
	}
	if len(call.ArgumentList) != 1 {
		return
	}
	if _, ok := call.ArgumentList[0].(*ast.ThisExpression); !ok {
		return
	}
	l.report(RuleRedundantBind,
		"binding this to a function literal is redundant, it already closes over the enclosing scope", call)
}
