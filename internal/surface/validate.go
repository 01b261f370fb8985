package surface

import "fmt"

// Issue codes reported by surface self-validation
const (
	IssueUnknownKind      = "SURFACE_UNKNOWN_KIND"
	IssueUnknownPhase     = "SURFACE_UNKNOWN_PHASE"
	IssueDuplicateType    = "SURFACE_DUPLICATE_TYPE"
	IssueDanglingGlobal   = "SURFACE_DANGLING_GLOBAL"
	IssueForbiddenGlobal  = "SURFACE_FORBIDDEN_GLOBAL"
	IssueMissingVersion   = "SURFACE_MISSING_VERSION"
)

// Issue is one problem found in a surface declaration
type Issue struct {
	Code    string
	Message string
}

// String renders the issue as "CODE: message"
func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Code, i.Message)
}

// Validate checks the declaration for internal consistency: member kinds and
// phases must be known variants, type names must be unique, globals must
// reference declared types, and a symbol cannot be both a declared global
// and forbidden.
func (s *Surface) Validate() []Issue {
	var issues []Issue

	if s.Version == "" {
		issues = append(issues, Issue{
			Code:    IssueMissingVersion,
			Message: "surface declaration has no version",
		})
	}

	seen := make(map[string]bool, len(s.Types))
	for i := range s.Types {
		t := &s.Types[i]
		if seen[t.Name] {
			issues = append(issues, Issue{
				Code:    IssueDuplicateType,
				Message: fmt.Sprintf("type %q declared more than once", t.Name),
			})
		}
		seen[t.Name] = true

		for name, m := range t.Members {
			switch m.Kind {
			case KindProperty, KindMethod, KindConstructor, KindFactory:
			default:
				issues = append(issues, Issue{
					Code:    IssueUnknownKind,
					Message: fmt.Sprintf("member %s.%s has unknown kind %q", t.Name, name, m.Kind),
				})
			}
			switch m.Phase {
			case PhaseAny, PhaseLoad:
			default:
				issues = append(issues, Issue{
					Code:    IssueUnknownPhase,
					Message: fmt.Sprintf("member %s.%s has unknown phase %q", t.Name, name, m.Phase),
				})
			}
		}
	}

	for global, typeName := range s.Globals {
		if _, ok := s.byName[typeName]; !ok {
			issues = append(issues, Issue{
				Code:    IssueDanglingGlobal,
				Message: fmt.Sprintf("global %q references undeclared type %q", global, typeName),
			})
		}
		if _, forbidden := s.Forbidden[global]; forbidden {
			issues = append(issues, Issue{
				Code:    IssueForbiddenGlobal,
				Message: fmt.Sprintf("global %q is also listed as forbidden", global),
			})
		}
	}

	return issues
}
