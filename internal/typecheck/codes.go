package typecheck

// Diagnostic codes emitted by the static type checker
const (
	// CodeSyntaxError indicates the composed source does not parse
	CodeSyntaxError = "SYNTAX_ERROR"

	// CodeUnknownMember indicates a member access that resolves to nothing
	// on the receiver's declared type
	CodeUnknownMember = "UNKNOWN_MEMBER"

	// CodePropertyCalledAsMethod indicates a call through a property member.
	// The host silently returns a boxed value instead of failing at the call
	// site, which is exactly why this checker exists.
	CodePropertyCalledAsMethod = "PROPERTY_CALLED_AS_METHOD"

	// CodeMethodReferencedWithoutCall indicates a callable member read in
	// statement position where invocation was clearly intended
	CodeMethodReferencedWithoutCall = "METHOD_REFERENCED_WITHOUT_CALL"

	// CodeNotAConstructor indicates `new` applied to a member that is not a
	// constructor, typically a factory
	CodeNotAConstructor = "NOT_A_CONSTRUCTOR"

	// CodeUnknownGlobal indicates a bare identifier that resolves neither
	// locally nor against the surface's global bindings
	CodeUnknownGlobal = "UNKNOWN_GLOBAL"

	// CodeForbiddenAPI indicates a symbol on the surface's forbidden list;
	// such symbols resolve on purpose so they can be named precisely
	CodeForbiddenAPI = "FORBIDDEN_API"

	// CodeWrongArgumentCount indicates a call with an arity the declared
	// signature does not accept
	CodeWrongArgumentCount = "WRONG_ARGUMENT_COUNT"

	// CodeConstructOutsideLoad indicates a load-phase-only member invoked
	// from run-phase code
	CodeConstructOutsideLoad = "CONSTRUCT_OUTSIDE_LOAD"
)
