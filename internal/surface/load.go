package surface

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Load reads a surface declaration from a JSON file, indexes it, and fails
// if the declaration itself has issues. The declaration is produced by an
// external collaborator and consumed read-only.
func Load(path string) (*Surface, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read surface declaration: %w", err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load surface declaration %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a surface declaration from JSON bytes and validates it
func Parse(data []byte) (*Surface, error) {
	s, issues, err := Inspect(data)
	if err != nil {
		return nil, err
	}
	if len(issues) > 0 {
		msgs := make([]string, len(issues))
		for i, issue := range issues {
			msgs[i] = issue.String()
		}
		return nil, fmt.Errorf("invalid surface declaration: %s", strings.Join(msgs, "; "))
	}

	return s, nil
}

// Inspect decodes a declaration and reports its issues without rejecting it.
// The surface check command uses this to list every problem at once.
func Inspect(data []byte) (*Surface, []Issue, error) {
	var s Surface
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, nil, fmt.Errorf("failed to parse surface declaration: %w", err)
	}

	s.normalize()
	s.index()
	return &s, s.Validate(), nil
}

// normalize lowercases member kinds and phases so declarations are not
// case-sensitive about enum values.
func (s *Surface) normalize() {
	for i := range s.Types {
		for _, m := range s.Types[i].Members {
			m.Kind = MemberKind(strings.ToLower(string(m.Kind)))
			m.Phase = Phase(strings.ToLower(string(m.Phase)))
		}
	}
}
