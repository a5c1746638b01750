package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/redhat/swagdoc-mcp-golang/internal/annotation"
	"github.com/redhat/swagdoc-mcp-golang/internal/config"
	"github.com/redhat/swagdoc-mcp-golang/internal/openapi"
	"github.com/redhat/swagdoc-mcp-golang/internal/source"
	"github.com/redhat/swagdoc-mcp-golang/internal/types"
)

// Generator drives one generation run: it sources annotated files, builds
// the document and persists it
type Generator struct {
	fs        afero.Fs
	cfg       *config.Config
	files     []source.File
	endpoints []*types.EndpointDescription
	document  *openapi.Document
}

// NewGenerator creates a generator reading and writing through fs
func NewGenerator(fs afero.Fs, cfg *config.Config) *Generator {
	return &Generator{
		fs:  fs,
		cfg: cfg,
	}
}

// GetConfig returns the configuration of the generator
func (g *Generator) GetConfig() *config.Config {
	return g.cfg
}

// GetEndpoints returns the endpoint descriptions collected so far
func (g *Generator) GetEndpoints() []*types.EndpointDescription {
	return g.endpoints
}

// GetDocument returns the last built document
func (g *Generator) GetDocument() *openapi.Document {
	return g.document
}

// Collect discovers the configured source files and parses their annotations.
// Results replace anything collected before
func (g *Generator) Collect(ctx context.Context) error {
	paths, err := source.Discover(g.fs, g.cfg.Source)
	if err != nil {
		return fmt.Errorf("failed to discover source files: %w", err)
	}
	log.Debug().Str("dir", g.cfg.Source.Dir).Int("files", len(paths)).Msg("discovered source files")

	files, err := source.Load(ctx, g.fs, paths, g.cfg.Source.Workers)
	if err != nil {
		return fmt.Errorf("failed to load source files: %w", err)
	}

	// Files are already in path order, so later files win on duplicate routes
	g.files = files
	g.endpoints = source.Flatten(files)
	for _, f := range files {
		log.Debug().Str("file", f.Path).Int("endpoints", len(f.Endpoints)).Msg("parsed annotations")
	}
	return nil
}

// CollectSource parses the text of a single file supplied by the caller.
// Its endpoints are appended after anything already collected
func (g *Generator) CollectSource(file, text string) int {
	endpoints := annotation.Endpoints(file, text)
	g.files = append(g.files, source.File{Path: file, Endpoints: endpoints})
	g.endpoints = append(g.endpoints, endpoints...)
	return len(endpoints)
}

// Build assembles the collected endpoints into a document
func (g *Generator) Build() *openapi.Document {
	g.document = openapi.Assemble(g.endpoints, g.cfg.Metadata())

	log.Info().
		Int("endpoints", len(g.endpoints)).
		Int("paths", g.document.Paths.Len()).
		Int("operations", g.document.Operations()).
		Msg("built openapi document")
	return g.document
}

// Render serializes the last built document in the configured format and,
// when enabled, checks that the output parses as OpenAPI 3
func (g *Generator) Render() ([]byte, error) {
	// Build on demand if the caller skipped it
	if g.document == nil {
		g.Build()
	}

	data, err := openapi.Marshal(g.document, g.cfg.Output.Format)
	if err != nil {
		return nil, err
	}

	if g.cfg.Output.Verify {
		if err := g.Verify(data); err != nil {
			return nil, err
		}
	}
	return data, nil
}

// Verify re-parses rendered output with libopenapi
func (g *Generator) Verify(data []byte) error {
	model, err := openapi.Verify(data)
	if err != nil {
		return fmt.Errorf("generated document failed verification: %w", err)
	}
	log.Debug().Int("paths", openapi.PathCount(model)).Msg("verified openapi document")
	return nil
}

// Write persists rendered output to the configured path, creating parent
// directories as needed
func (g *Generator) Write(data []byte) error {
	// Create parent directories first
	out := g.cfg.Output.Path
	if dir := filepath.Dir(out); dir != "." {
		if err := g.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if err := afero.WriteFile(g.fs, out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	log.Info().Str("path", out).Int("bytes", len(data)).Msg("wrote openapi document")
	return nil
}

// Generate runs collect, build and render in sequence
func (g *Generator) Generate(ctx context.Context) ([]byte, error) {
	if err := g.Collect(ctx); err != nil {
		return nil, err
	}
	g.Build()
	return g.Render()
}
