package commands

import (
	"context"
	"fmt"

	"github.com/plugsmith/plugsmith/internal/config"
	"github.com/plugsmith/plugsmith/internal/dev"
)

// Dev starts watch mode: the project's plugsmith.json is located in the
// current directory or a parent, and the configured request is re-run on
// every change to the watched files.
func (c *Controller) Dev(ctx context.Context) error {
	cfg, projectRoot, err := config.LoadConfig()
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout(), "Watching %s (project %s)\n", projectRoot, cfg.Name)

	server := dev.NewServer(cfg, projectRoot)
	return server.Start(ctx)
}
