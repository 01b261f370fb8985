package dev

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/plugsmith/plugsmith/internal/catalog"
	"github.com/plugsmith/plugsmith/internal/config"
	"github.com/plugsmith/plugsmith/internal/diagnostic"
	"github.com/plugsmith/plugsmith/internal/pipeline"
	"github.com/plugsmith/plugsmith/internal/surface"
)

// debounceDelay coalesces editor save bursts into one rebuild
const debounceDelay = 200 * time.Millisecond

// Server watches a project and re-runs the configured request on every
// change to the surface, catalog, or request files.
type Server struct {
	config      *config.Config
	projectRoot string
	watcher     *FileWatcher
	logger      zerolog.Logger

	// Emit controls whether a passing run writes the artifact or only
	// reports. Defaults to true.
	Emit bool

	// rebuildMu guards pending, which collapses change bursts arriving
	// mid-rebuild into the debounced run that follows.
	rebuildMu sync.Mutex
	pending   bool
	timer     *time.Timer
	timerMu   sync.Mutex
}

// NewServer creates a watch mode server for a loaded project config
func NewServer(cfg *config.Config, projectRoot string) *Server {
	logger := zerolog.New(os.Stderr).With().
		Timestamp().
		Str("component", "dev").
		Logger()

	return &Server{
		config:      cfg,
		projectRoot: projectRoot,
		logger:      logger,
		Emit:        true,
	}
}

// Start runs an initial build and then watches until the context is
// cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.rebuild(ctx)

	watcher, err := NewFileWatcher(
		s.config.Dev.Watch,
		s.config.Dev.Exclude,
		s.logger,
		func(path string, op fsnotify.Op) { s.handleFileChange(ctx, path, op) },
	)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	s.watcher = watcher
	defer s.watcher.Close()

	if err := s.watcher.AddDirectory(s.projectRoot); err != nil {
		return fmt.Errorf("failed to watch project directory: %w", err)
	}

	s.logger.Info().Str("root", s.projectRoot).Msg("Watching for changes")
	return s.watcher.Start(ctx)
}

// handleFileChange debounces change events and schedules a rebuild
func (s *Server) handleFileChange(ctx context.Context, path string, op fsnotify.Op) {
	if op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	s.logger.Debug().Str("path", path).Stringer("op", op).Msg("Change detected")

	s.timerMu.Lock()
	defer s.timerMu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(debounceDelay, func() { s.rebuild(ctx) })
}

// rebuild reloads everything from disk and runs the configured request
func (s *Server) rebuild(ctx context.Context) {
	s.rebuildMu.Lock()
	if s.pending {
		s.rebuildMu.Unlock()
		return
	}
	s.pending = true
	s.rebuildMu.Unlock()
	defer func() {
		s.rebuildMu.Lock()
		s.pending = false
		s.rebuildMu.Unlock()
	}()

	if ctx.Err() != nil {
		return
	}

	result, err := s.runOnce(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Run failed")
		return
	}
	if len(result.Diagnostics) > 0 {
		diagnostic.Render(os.Stderr, result.Diagnostics)
	}
	if result.Pass {
		if result.Artifact != nil {
			s.logger.Info().Str("path", result.Artifact.Path).Msg("Artifact emitted")
		} else {
			s.logger.Info().Msg("Validation passed")
		}
	} else {
		errs, _ := diagnostic.Count(result.Diagnostics)
		s.logger.Warn().Int("errors", errs).Msg("Rejected")
	}
}

// runOnce loads surface, catalog, and request fresh from disk and runs the
// pipeline a single time.
func (s *Server) runOnce(ctx context.Context) (*pipeline.Result, error) {
	surf, err := surface.Load(s.resolve(s.config.Surface))
	if err != nil {
		return nil, err
	}
	cat, err := catalog.Load(s.resolveDir(s.config.Catalog))
	if err != nil {
		return nil, err
	}

	req, err := loadRequest(s.resolve(s.config.Request))
	if err != nil {
		return nil, err
	}

	p := &pipeline.Pipeline{Surface: surf, Catalog: cat, Logger: s.logger}
	if s.Emit {
		return p.Generate(ctx, req, s.resolve(s.config.Out))
	}
	return p.Validate(ctx, req)
}

func (s *Server) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.projectRoot, path)
}

func (s *Server) resolveDir(path string) string {
	if path == "" {
		return ""
	}
	return s.resolve(path)
}

// loadRequest reads the configured request file, giving each run a fresh
// request ID so artifacts from successive saves are distinguishable.
func loadRequest(path string) (pipeline.Request, error) {
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
	req.ID = uuid.New()
	return req, nil
}
