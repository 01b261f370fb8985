// Package compose fills a template's typed slots with request parameters,
// producing a single source text plus a source map from substituted byte
// ranges back to originating slots. Composition is a pure function of
// (template, parameters).
package compose

import (
	"fmt"
	"sort"
	"strings"

	"github.com/plugsmith/plugsmith/internal/catalog"
)

const (
	placeholderOpen  = "{{"
	placeholderClose = "}}"
)

// Mapping attributes one substituted byte range [Start, End) of the composed
// text to the slot that produced it. Ranges never overlap; bytes outside all
// mappings belong to the template itself.
type Mapping struct {
	Start int               `json:"start"`
	End   int               `json:"end"`
	Slot  string            `json:"slot"`
	Phase catalog.SlotPhase `json:"phase"`
}

// Source is the fully composed script text with its source map
type Source struct {
	Text string    `json:"text"`
	Map  []Mapping `json:"map"`
}

// MappingAt returns the mapping covering the given byte offset, if any.
// Zero-length mappings (empty optional slots) never cover an offset.
func (s *Source) MappingAt(offset int) (Mapping, bool) {
	for _, m := range s.Map {
		if offset >= m.Start && offset < m.End {
			return m, true
		}
	}
	return Mapping{}, false
}

// SlotAt names the slot whose substituted value contains the offset, or ""
// for template-owned text.
func (s *Source) SlotAt(offset int) string {
	if m, ok := s.MappingAt(offset); ok {
		return m.Slot
	}
	return ""
}

// PhaseAt reports the load phase of the code at the offset. Template-owned
// text runs during plugin load.
func (s *Source) PhaseAt(offset int) catalog.SlotPhase {
	if m, ok := s.MappingAt(offset); ok {
		return m.Phase
	}
	return catalog.SlotPhaseLoad
}

// Compose substitutes parameters into the template body. Every required slot
// must have a parameter of the declared type; unknown extra parameters are
// rejected. The resulting source map is total: every declared slot traces to
// exactly one mapping.
func Compose(tpl *catalog.Template, params map[string]string) (*Source, error) {
	if err := checkParams(tpl, params); err != nil {
		return nil, err
	}

	var (
		out  strings.Builder
		maps []Mapping
		seen = make(map[string]int, len(tpl.Slots))
		body = tpl.Body
	)

	for {
		open := strings.Index(body, placeholderOpen)
		if open < 0 {
			out.WriteString(body)
			break
		}
		out.WriteString(body[:open])
		rest := body[open+len(placeholderOpen):]
		end := strings.Index(rest, placeholderClose)
		if end < 0 {
			out.WriteString(body[open:])
			break
		}

		name := strings.TrimSpace(rest[:end])
		slot, ok := tpl.Slots[name]
		if !ok {
			return nil, &Error{
				Code:    ErrorCodeUnknownSlot,
				Slot:    name,
				Message: fmt.Sprintf("template body references undeclared slot %q", name),
			}
		}
		seen[name]++

		value := renderValue(slot, params[name])
		start := out.Len()
		out.WriteString(value)
		maps = append(maps, Mapping{
			Start: start,
			End:   out.Len(),
			Slot:  name,
			Phase: slot.Phase,
		})

		body = rest[end+len(placeholderClose):]
	}

	for _, name := range slotNames(tpl) {
		switch seen[name] {
		case 1:
		case 0:
			return nil, &Error{
				Code:    ErrorCodeUnusedSlot,
				Slot:    name,
				Message: fmt.Sprintf("declared slot %q never appears in the template body", name),
			}
		default:
			return nil, &Error{
				Code:    ErrorCodeDuplicateSlot,
				Slot:    name,
				Message: fmt.Sprintf("declared slot %q appears in the template body more than once", name),
			}
		}
	}

	return &Source{Text: out.String(), Map: maps}, nil
}

// Filename substitutes parameters into the template's filename pattern.
// Values are slugified so the result is always a safe single path element.
func Filename(tpl *catalog.Template, params map[string]string) (string, error) {
	if err := checkParams(tpl, params); err != nil {
		return "", err
	}

	name := tpl.Filename
	for slot := range tpl.Slots {
		name = strings.ReplaceAll(name, placeholderOpen+slot+placeholderClose, slugify(params[slot]))
	}
	if name == "" || strings.HasPrefix(name, ".") {
		return "", &Error{
			Code:    ErrorCodeTypeMismatch,
			Message: fmt.Sprintf("filename pattern %q produced no usable name", tpl.Filename),
		}
	}
	return name, nil
}

// checkParams validates the parameter map against the declared slots.
// Slots are visited in sorted order so the first reported failure is
// deterministic.
func checkParams(tpl *catalog.Template, params map[string]string) error {
	paramNames := make([]string, 0, len(params))
	for name := range params {
		paramNames = append(paramNames, name)
	}
	sort.Strings(paramNames)
	for _, name := range paramNames {
		if _, ok := tpl.Slots[name]; !ok {
			return unknownParam(name)
		}
	}

	for _, name := range slotNames(tpl) {
		slot := tpl.Slots[name]
		value, ok := params[name]
		if !ok {
			if slot.Required {
				return missingSlot(name)
			}
			continue
		}
		if err := slot.CheckValue(value); err != nil {
			return typeMismatch(name, err)
		}
	}
	return nil
}

func slotNames(tpl *catalog.Template) []string {
	names := make([]string, 0, len(tpl.Slots))
	for name := range tpl.Slots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// renderValue prepares a parameter value for insertion. String slots are
// escaped for a double-quoted host string literal; all other slot types are
// inserted verbatim.
func renderValue(slot *catalog.Slot, value string) string {
	if slot.Type != catalog.SlotString {
		return value
	}
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	)
	return r.Replace(value)
}

// slugify reduces a value to a filesystem-safe lowercase token
func slugify(value string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(value) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case r == '.', r == '_':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
