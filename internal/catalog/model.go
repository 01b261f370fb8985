// Package catalog holds the typed template catalog. Only the shape of a
// template matters to the pipeline: its slots, their types, and which load
// phase each slot's code runs in.
package catalog

import (
	"fmt"
	"regexp"
	"strconv"
)

// Shape classifies what kind of artifact a template produces
type Shape string

const (
	// ShapeSolitaryScript is a single self-contained script
	ShapeSolitaryScript Shape = "SolitaryScript"

	// ShapeLibraryModule is a reusable library exporting values
	ShapeLibraryModule Shape = "LibraryModule"

	// ShapeActionBundle is an action with metadata and a validation hook
	ShapeActionBundle Shape = "ActionBundle"
)

// SlotPhase marks whether a slot's substituted code runs while the plugin
// is being loaded or later when it is invoked.
type SlotPhase string

const (
	// SlotPhaseLoad code runs during plugin load
	SlotPhaseLoad SlotPhase = "load"

	// SlotPhaseRun code runs when the plugin is invoked
	SlotPhaseRun SlotPhase = "run"
)

// SlotType constrains the value a parameter may supply for a slot
type SlotType string

const (
	// SlotString is a single-line string, escaped into a host string literal
	SlotString SlotType = "string"

	// SlotText is raw multi-line host code or prose, inserted verbatim
	SlotText SlotType = "text"

	// SlotIdentifier must be a valid host identifier
	SlotIdentifier SlotType = "identifier"

	// SlotNumber must parse as a number
	SlotNumber SlotType = "number"

	// SlotBoolean must be "true" or "false"
	SlotBoolean SlotType = "boolean"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Slot is one typed parameter slot of a template
type Slot struct {
	Type     SlotType  `yaml:"type"`
	Required bool      `yaml:"required"`
	Phase    SlotPhase `yaml:"phase"`
	Doc      string    `yaml:"doc,omitempty"`
}

// CheckValue reports whether a parameter value is acceptable for the slot type
func (s *Slot) CheckValue(value string) error {
	switch s.Type {
	case SlotString, SlotText:
		return nil
	case SlotIdentifier:
		if !identifierPattern.MatchString(value) {
			return fmt.Errorf("%q is not a valid identifier", value)
		}
		return nil
	case SlotNumber:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Errorf("%q is not a number", value)
		}
		return nil
	case SlotBoolean:
		if value != "true" && value != "false" {
			return fmt.Errorf("%q is not a boolean", value)
		}
		return nil
	default:
		return fmt.Errorf("slot has unknown type %q", s.Type)
	}
}

// Template describes one generatable plugin shape
type Template struct {
	ID          string           `yaml:"id"`
	Shape       Shape            `yaml:"shape"`
	Description string           `yaml:"description,omitempty"`
	Filename    string           `yaml:"filename"`
	Slots       map[string]*Slot `yaml:"slots"`
	Body        string           `yaml:"body"`
}

// Validate checks the template definition itself
func (t *Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("template has no id")
	}
	switch t.Shape {
	case ShapeSolitaryScript, ShapeLibraryModule, ShapeActionBundle:
	default:
		return fmt.Errorf("template %s has unknown shape %q", t.ID, t.Shape)
	}
	if t.Body == "" {
		return fmt.Errorf("template %s has no body", t.ID)
	}
	if t.Filename == "" {
		return fmt.Errorf("template %s has no filename", t.ID)
	}
	for name, slot := range t.Slots {
		switch slot.Type {
		case SlotString, SlotText, SlotIdentifier, SlotNumber, SlotBoolean:
		default:
			return fmt.Errorf("template %s slot %s has unknown type %q", t.ID, name, slot.Type)
		}
		switch slot.Phase {
		case SlotPhaseLoad, SlotPhaseRun:
		case "":
			slot.Phase = SlotPhaseLoad
		default:
			return fmt.Errorf("template %s slot %s has unknown phase %q", t.ID, name, slot.Phase)
		}
	}
	return nil
}
