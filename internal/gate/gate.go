// Package gate holds the emit-or-reject decision at the end of a request.
// The gate is zero-tolerance: a single error-severity diagnostic rejects the
// artifact, and a rejected request leaves no trace on the filesystem.
package gate

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/plugsmith/plugsmith/internal/diagnostic"
)

// State is one stage of a request's lifecycle
type State string

const (
	StateIdle      State = "idle"
	StateComposing State = "composing"
	StateChecking  State = "checking"
	StateDeciding  State = "deciding"
	StateEmitted   State = "emitted"
	StateRejected  State = "rejected"
)

// transitions lists the legal successor states. Emitted and Rejected are
// terminal.
var transitions = map[State][]State{
	StateIdle:      {StateComposing},
	StateComposing: {StateChecking, StateRejected},
	StateChecking:  {StateDeciding},
	StateDeciding:  {StateEmitted, StateRejected},
}

// Machine tracks one request through the lifecycle and rejects transitions
// the lifecycle does not allow. An illegal transition indicates a bug in the
// caller, not a bad request.
type Machine struct {
	state State
}

// NewMachine returns a machine in the Idle state
func NewMachine() *Machine {
	return &Machine{state: StateIdle}
}

// State returns the current state
func (m *Machine) State() State {
	return m.state
}

// To advances the machine, failing on any transition the lifecycle does not
// define.
func (m *Machine) To(next State) error {
	for _, allowed := range transitions[m.state] {
		if allowed == next {
			m.state = next
			return nil
		}
	}
	return fmt.Errorf("illegal gate transition from %q to %q", m.state, next)
}

// Terminal reports whether the machine reached Emitted or Rejected
func (m *Machine) Terminal() bool {
	return m.state == StateEmitted || m.state == StateRejected
}

// Decide is the gate's only rule: pass with zero error-severity diagnostics.
// Warnings never block emission.
func Decide(diags []diagnostic.Diagnostic) bool {
	return !diagnostic.HasErrors(diags)
}

// Provenance records where an artifact came from
type Provenance struct {
	RequestID      uuid.UUID `json:"request_id"`
	TemplateID     string    `json:"template_id"`
	SurfaceVersion string    `json:"surface_version"`
	CreatedAt      time.Time `json:"created_at"`
}

// Artifact is an emitted script. Path is set by Emit.
type Artifact struct {
	Filename   string     `json:"filename"`
	Content    []byte     `json:"content"`
	Path       string     `json:"path"`
	Provenance Provenance `json:"provenance"`
}

// Emit writes the artifact under dir in a single atomic step: the content
// lands in a temp file in the same directory and is renamed into place, so a
// reader never observes a partial artifact.
func Emit(dir string, artifact *Artifact) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".plugsmith-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(artifact.Content); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set artifact mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	path := filepath.Join(dir, artifact.Filename)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move artifact into place: %w", err)
	}
	artifact.Path = path
	return nil
}
