// Package surface models the declared API surface of the host runtime: every
// class, global binding, member, and forbidden symbol the sandboxed scripting
// environment exposes. The model is immutable after load and shared read-only
// across concurrent pipeline runs.
package surface

// MemberKind is the tagged variant describing how a member may be used.
// The host language is dynamically typed, so these distinctions exist only
// here, never in the runtime itself.
type MemberKind string

const (
	// KindProperty is a data member; calling it is the defining anti-pattern
	// the type checker exists to catch.
	KindProperty MemberKind = "property"

	// KindMethod is a callable member
	KindMethod MemberKind = "method"

	// KindConstructor may be invoked with `new`
	KindConstructor MemberKind = "constructor"

	// KindFactory produces instances through a plain call; `new` is invalid
	KindFactory MemberKind = "factory"
)

// Phase restricts when a member may be invoked. The host constructs certain
// objects only while a plugin is being loaded; that restriction is threaded
// explicitly through the composer and checkers rather than kept as ambient
// global state.
type Phase string

const (
	// PhaseAny members are usable from any code
	PhaseAny Phase = "any"

	// PhaseLoad members may only be invoked from load-phase code
	PhaseLoad Phase = "load"
)

// Param describes one declared parameter of a callable member. A Type of
// "SchemaNode" marks the argument position validated by the schema
// structural checker.
type Param struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// SchemaNodeType is the parameter type that routes an argument to the
// schema structural checker
const SchemaNodeType = "SchemaNode"

// Member is one property, method, constructor, or factory on a type
type Member struct {
	Kind     MemberKind `json:"kind"`
	Params   []Param    `json:"params,omitempty"`
	Variadic bool       `json:"variadic,omitempty"`
	Returns  string     `json:"returns,omitempty"`
	Phase    Phase      `json:"phase,omitempty"`
}

// Callable reports whether the member may be invoked
func (m *Member) Callable() bool {
	return m.Kind != KindProperty
}

// SchemaParam returns the index of the first SchemaNode-typed parameter,
// or -1 when the member takes none.
func (m *Member) SchemaParam() int {
	for i, p := range m.Params {
		if p.Type == SchemaNodeType {
			return i
		}
	}
	return -1
}

// TypeEntry is one class or namespace object exposed by the host
type TypeEntry struct {
	Name    string             `json:"name"`
	Doc     string             `json:"doc,omitempty"`
	Members map[string]*Member `json:"members"`
}

// Surface is the full declared API surface for one host version
type Surface struct {
	Version string `json:"version"`

	// Globals maps bare global bindings to the type they are an instance of
	Globals map[string]string `json:"globals"`

	// Forbidden maps known-hallucinated or deprecated symbols to a
	// replacement hint. Forbidden symbols stay resolvable on purpose so the
	// checker can name them precisely.
	Forbidden map[string]string `json:"forbidden,omitempty"`

	Types []TypeEntry `json:"types"`

	byName map[string]*TypeEntry
}

// Type looks up a type entry by name
func (s *Surface) Type(name string) (*TypeEntry, bool) {
	t, ok := s.byName[name]
	return t, ok
}

// Member resolves a member on a named type
func (s *Surface) Member(typeName, member string) (*Member, bool) {
	t, ok := s.byName[typeName]
	if !ok {
		return nil, false
	}
	m, ok := t.Members[member]
	return m, ok
}

// GlobalType returns the declared type of a global binding
func (s *Surface) GlobalType(name string) (string, bool) {
	t, ok := s.Globals[name]
	return t, ok
}

// ForbiddenHint reports whether a symbol is forbidden and returns the
// replacement hint, which may be empty.
func (s *Surface) ForbiddenHint(name string) (string, bool) {
	hint, ok := s.Forbidden[name]
	return hint, ok
}

// index builds the lookup table and normalizes member defaults. Called once
// by the loader; the surface is never mutated afterwards.
func (s *Surface) index() {
	s.byName = make(map[string]*TypeEntry, len(s.Types))
	for i := range s.Types {
		t := &s.Types[i]
		s.byName[t.Name] = t
		for _, m := range t.Members {
			if m.Phase == "" {
				m.Phase = PhaseAny
			}
		}
	}
}
