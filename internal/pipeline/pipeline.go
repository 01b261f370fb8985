// Package pipeline orchestrates one generation request end to end: compose,
// check, decide, emit. The pipeline itself is stateless; the surface and
// catalog it holds are immutable, so concurrent requests share one Pipeline
// safely.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/plugsmith/plugsmith/internal/catalog"
	"github.com/plugsmith/plugsmith/internal/compose"
	"github.com/plugsmith/plugsmith/internal/diagnostic"
	"github.com/plugsmith/plugsmith/internal/gate"
	"github.com/plugsmith/plugsmith/internal/lint"
	"github.com/plugsmith/plugsmith/internal/schemacheck"
	"github.com/plugsmith/plugsmith/internal/surface"
	"github.com/plugsmith/plugsmith/internal/typecheck"
)

// Request asks for one script to be composed and validated. A request is
// consumed once; its ID ties logs, diagnostics, and artifact provenance
// together.
type Request struct {
	ID         uuid.UUID         `json:"id"`
	TemplateID string            `json:"template"`
	Params     map[string]string `json:"params"`

	// SurfaceVersion optionally pins the surface the request was written
	// against. A mismatch with the loaded surface fails the request before
	// composition.
	SurfaceVersion string `json:"surface_version,omitempty"`
}

// NewRequest builds a request with a fresh ID
func NewRequest(templateID string, params map[string]string) Request {
	return Request{ID: uuid.New(), TemplateID: templateID, Params: params}
}

// Result is everything one request produced. Pass is true iff no
// error-severity diagnostic exists; Artifact is non-nil only after an
// emitting run that passed.
type Result struct {
	Request     Request                 `json:"request"`
	Source      *compose.Source         `json:"source"`
	Diagnostics []diagnostic.Diagnostic `json:"diagnostics"`
	Pass        bool                    `json:"pass"`
	Artifact    *gate.Artifact          `json:"artifact,omitempty"`
}

// Pipeline validates and emits scripts against one loaded surface and
// catalog
type Pipeline struct {
	Surface *surface.Surface
	Catalog *catalog.Catalog
	Logger  zerolog.Logger
	Lint    lint.Options
}

// Validate runs the full pipeline without emitting: compose, check
// concurrently, decide.
func (p *Pipeline) Validate(ctx context.Context, req Request) (*Result, error) {
	result, _, err := p.run(ctx, req)
	return result, err
}

// Generate runs the full pipeline and, on a pass, atomically emits the
// artifact under outDir.
func (p *Pipeline) Generate(ctx context.Context, req Request, outDir string) (*Result, error) {
	result, machine, err := p.run(ctx, req)
	if err != nil {
		return nil, err
	}
	if !result.Pass {
		return result, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tpl, err := p.Catalog.Get(req.TemplateID)
	if err != nil {
		return nil, err
	}
	filename, err := compose.Filename(tpl, req.Params)
	if err != nil {
		return nil, err
	}

	artifact := &gate.Artifact{
		Filename: filename,
		Content:  []byte(result.Source.Text),
		Provenance: gate.Provenance{
			RequestID:      req.ID,
			TemplateID:     req.TemplateID,
			SurfaceVersion: p.Surface.Version,
			CreatedAt:      time.Now().UTC(),
		},
	}
	if err := gate.Emit(outDir, artifact); err != nil {
		return nil, err
	}
	if err := machine.To(gate.StateEmitted); err != nil {
		return nil, err
	}
	result.Artifact = artifact

	p.Logger.Info().
		Stringer("request", req.ID).
		Str("template", req.TemplateID).
		Str("path", artifact.Path).
		Msg("Artifact emitted")
	return result, nil
}

// run drives the shared compose-check-decide portion. The returned machine
// sits in Deciding when the result passed, so Generate can advance it to
// Emitted; failed results arrive already Rejected.
func (p *Pipeline) run(ctx context.Context, req Request) (*Result, *gate.Machine, error) {
	logger := p.Logger.With().
		Stringer("request", req.ID).
		Str("template", req.TemplateID).
		Logger()

	if req.SurfaceVersion != "" && req.SurfaceVersion != p.Surface.Version {
		return nil, nil, fmt.Errorf("request targets surface version %q but %q is loaded",
			req.SurfaceVersion, p.Surface.Version)
	}

	machine := gate.NewMachine()
	if err := machine.To(gate.StateComposing); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	tpl, err := p.Catalog.Get(req.TemplateID)
	if err != nil {
		return nil, nil, err
	}
	src, err := compose.Compose(tpl, req.Params)
	if err != nil {
		machine.To(gate.StateRejected)
		return nil, nil, fmt.Errorf("failed to compose %q: %w", req.TemplateID, err)
	}
	logger.Debug().Int("bytes", len(src.Text)).Int("slots", len(src.Map)).Msg("Source composed")

	if err := machine.To(gate.StateChecking); err != nil {
		return nil, nil, err
	}
	diags, err := p.check(ctx, src)
	if err != nil {
		return nil, nil, err
	}
	p.annotateSlots(src, diags)
	diagnostic.Sort(diags)

	if err := machine.To(gate.StateDeciding); err != nil {
		return nil, nil, err
	}
	result := &Result{
		Request:     req,
		Source:      src,
		Diagnostics: diags,
		Pass:        gate.Decide(diags),
	}
	if !result.Pass {
		if err := machine.To(gate.StateRejected); err != nil {
			return nil, nil, err
		}
	}

	errs, warns := diagnostic.Count(diags)
	logger.Debug().Int("errors", errs).Int("warnings", warns).Bool("pass", result.Pass).
		Msg("Checks complete")
	return result, machine, nil
}

// check fans the three checkers out over the immutable composed source.
// Each checker parses the text itself; none observes another's output, so
// scheduling cannot change the merged set.
func (p *Pipeline) check(ctx context.Context, src *compose.Source) ([]diagnostic.Diagnostic, error) {
	var byChecker [3][]diagnostic.Diagnostic

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		byChecker[0] = typecheck.Check(src, p.Surface)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		byChecker[1] = schemacheck.Check(src, p.Surface)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		byChecker[2] = lint.Check(src, p.Lint)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []diagnostic.Diagnostic
	for _, diags := range byChecker {
		merged = append(merged, diags...)
	}
	return merged, nil
}

// annotateSlots attributes each diagnostic to the slot whose substituted
// bytes contain it, leaving template-owned findings unattributed.
func (p *Pipeline) annotateSlots(src *compose.Source, diags []diagnostic.Diagnostic) {
	for i := range diags {
		diags[i].Slot = src.SlotAt(diags[i].Range.Start.Offset)
	}
}
