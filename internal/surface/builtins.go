package surface

// Members every object in the host language carries regardless of type.
// Accessing these never produces an unknown-member diagnostic.
var builtinMembers = map[string]bool{
	"toString":             true,
	"toLocaleString":       true,
	"valueOf":              true,
	"hasOwnProperty":       true,
	"isPrototypeOf":        true,
	"propertyIsEnumerable": true,
	"constructor":          true,
	"length":               true,
}

// Globals present in any conforming host, independent of the declared
// surface. The forbidden list takes precedence over this set.
var builtinGlobals = map[string]bool{
	"Array":      true,
	"Boolean":    true,
	"Date":       true,
	"Error":      true,
	"Infinity":   true,
	"JSON":       true,
	"Math":       true,
	"NaN":        true,
	"Number":     true,
	"Object":     true,
	"RegExp":     true,
	"String":     true,
	"TypeError":  true,
	"decodeURIComponent": true,
	"encodeURIComponent": true,
	"isFinite":   true,
	"isNaN":      true,
	"parseFloat": true,
	"parseInt":   true,
	"undefined":  true,
}

// Globals that exist in other script environments but not in the sandboxed
// host: module loading, process access, dynamic evaluation, browser I/O.
// The lint checker owns reporting these; the type checker skips them so a
// single reference is not reported twice.
var sandboxAbsentGlobals = map[string]bool{
	"require":        true,
	"module":         true,
	"exports":        true,
	"process":        true,
	"globalThis":     true,
	"eval":           true,
	"Function":       true,
	"importScripts":  true,
	"XMLHttpRequest": true,
}

// IsSandboxAbsent reports whether an identifier names a global the
// sandboxed host deliberately does not provide.
func IsSandboxAbsent(name string) bool {
	return sandboxAbsentGlobals[name]
}

// IsBuiltinMember reports whether a member name is a universal
// dynamic-language built-in.
func IsBuiltinMember(name string) bool {
	return builtinMembers[name]
}

// IsBuiltinGlobal reports whether an identifier is a language-level global
// available in any host version.
func IsBuiltinGlobal(name string) bool {
	return builtinGlobals[name]
}
