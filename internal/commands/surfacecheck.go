package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/plugsmith/plugsmith/internal/surface"
)

// SurfaceCheck validates a surface declaration file on its own, listing
// every issue instead of stopping at the first.
func (c *Controller) SurfaceCheck(ctx context.Context) error {
	if c.Flags.Surface == "" {
		return fmt.Errorf("no surface declaration given, use --surface")
	}

	data, err := os.ReadFile(c.Flags.Surface)
	if err != nil {
		return fmt.Errorf("failed to read surface declaration: %w", err)
	}
	s, issues, err := surface.Inspect(data)
	if err != nil {
		return err
	}

	for _, issue := range issues {
		fmt.Fprintln(c.stderr(), issue.String())
	}
	if len(issues) > 0 {
		return fmt.Errorf("surface declaration has %d issue(s)", len(issues))
	}

	fmt.Fprintf(c.stdout(), "%s: version %s, %d globals, %d types\n",
		c.Flags.Surface, s.Version, len(s.Globals), len(s.Types))
	return nil
}
