package commands

import (
	"context"
	"fmt"

	"github.com/plugsmith/plugsmith/internal/diagnostic"
)

// Generate composes a script, validates it, and emits the artifact when the
// gate passes. The artifact path goes to stdout; diagnostics go to stderr.
func (c *Controller) Generate(ctx context.Context) error {
	p, err := c.buildPipeline()
	if err != nil {
		return err
	}
	req, err := c.buildRequest()
	if err != nil {
		return err
	}

	out := c.Flags.Out
	if out == "" {
		out = "."
	}
	result, err := p.Generate(ctx, req, out)
	if err != nil {
		return err
	}

	if len(result.Diagnostics) > 0 {
		diagnostic.Render(c.stderr(), result.Diagnostics)
	}
	if !result.Pass {
		errs, _ := diagnostic.Count(result.Diagnostics)
		return fmt.Errorf("rejected with %d error(s)", errs)
	}

	fmt.Fprintln(c.stdout(), result.Artifact.Path)
	return nil
}

// Validate runs the same pipeline as Generate without emitting anything
func (c *Controller) Validate(ctx context.Context) error {
	p, err := c.buildPipeline()
	if err != nil {
		return err
	}
	req, err := c.buildRequest()
	if err != nil {
		return err
	}

	result, err := p.Validate(ctx, req)
	if err != nil {
		return err
	}

	if len(result.Diagnostics) > 0 {
		diagnostic.Render(c.stderr(), result.Diagnostics)
	}
	if !result.Pass {
		errs, _ := diagnostic.Count(result.Diagnostics)
		return fmt.Errorf("validation failed with %d error(s)", errs)
	}

	fmt.Fprintln(c.stdout(), "ok")
	return nil
}
