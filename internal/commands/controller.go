// Package commands contains the CLI commands for the application
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/plugsmith/plugsmith/internal/catalog"
	"github.com/plugsmith/plugsmith/internal/pipeline"
	"github.com/plugsmith/plugsmith/internal/surface"
)

type Flags struct {
	LogLevel string
	Surface  string
	Catalog  string
	Out      string
	Template string
	Params   []string
	Request  string
}

type Controller struct {
	Flags *Flags

	// Stdout and Stderr are overridable for tests; nil means the process
	// streams.
	Stdout io.Writer
	Stderr io.Writer
}

func (c *Controller) stdout() io.Writer {
	if c.Stdout != nil {
		return c.Stdout
	}
	return os.Stdout
}

func (c *Controller) stderr() io.Writer {
	if c.Stderr != nil {
		return c.Stderr
	}
	return os.Stderr
}

// buildPipeline loads the surface and catalog the flags point at
func (c *Controller) buildPipeline() (*pipeline.Pipeline, error) {
	if c.Flags.Surface == "" {
		return nil, fmt.Errorf("no surface declaration given, use --surface")
	}
	surf, err := surface.Load(c.Flags.Surface)
	if err != nil {
		return nil, fmt.Errorf("failed to load surface: %w", err)
	}

	cat, err := catalog.Load(c.Flags.Catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	return &pipeline.Pipeline{
		Surface: surf,
		Catalog: cat,
		Logger:  log.Logger,
	}, nil
}

// buildRequest assembles the request from flags: either a request file or a
// template id plus repeated --param k=v flags.
func (c *Controller) buildRequest() (pipeline.Request, error) {
	if c.Flags.Request != "" {
		return loadRequestFile(c.Flags.Request)
	}

	if c.Flags.Template == "" {
		return pipeline.Request{}, fmt.Errorf("no template given, use --template or --request")
	}
	params, err := parseParams(c.Flags.Params)
	if err != nil {
		return pipeline.Request{}, err
	}
	return pipeline.NewRequest(c.Flags.Template, params), nil
}

// loadRequestFile reads a request from a JSON file, assigning a fresh ID
// when the file carries none.
func loadRequestFile(path string) (pipeline.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pipeline.Request{}, fmt.Errorf("failed to read request file: %w", err)
	}

	var req pipeline.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return pipeline.Request{}, fmt.Errorf("failed to parse request file: %w", err)
	}
	if req.TemplateID == "" {
		return pipeline.Request{}, fmt.Errorf("request file %s names no template", path)
	}
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	return req, nil
}

// parseParams converts repeated key=value flags into a parameter map
func parseParams(pairs []string) (map[string]string, error) {
	params := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected key=value", pair)
		}
		params[key] = value
	}
	return params, nil
}
