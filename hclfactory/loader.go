package hclfactory

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/fabrica/internal/ctxlog"
	"github.com/vk/fabrica/internal/fsutil"
	"github.com/vk/fabrica/registry"
)

// Loader reads .hcl factory files and registers their contents.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates a loader with a fresh HCL parser.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Load parses every .hcl file reachable from the given paths (files or
// directories, walked recursively) and registers the sequences and factories
// they declare.
func (l *Loader) Load(ctx context.Context, reg *registry.Registry, paths ...string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading factory definitions.", "paths", paths)

	files, err := fsutil.ExpandPaths(paths, ".hcl")
	if err != nil {
		return fmt.Errorf("hclfactory: resolving paths: %w", err)
	}
	if len(files) == 0 {
		logger.Warn("No .hcl factory files found.", "paths", paths)
		return nil
	}

	for _, filePath := range files {
		hclFile, diags := l.parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return fmt.Errorf("hclfactory: failed to parse %s: %w", filePath, diags)
		}
		if err := l.loadBody(ctx, reg, hclFile.Body, filePath); err != nil {
			return err
		}
		logger.Debug("Loaded factory definitions from file.", "file", filePath)
	}

	logger.Info("Factory definitions loaded.", "files", len(files), "factories", len(reg.FactoryNames()))
	return nil
}

// LoadSource parses factory definitions from an in-memory buffer. filename
// is used for diagnostics only.
func (l *Loader) LoadSource(ctx context.Context, reg *registry.Registry, filename string, src []byte) error {
	hclFile, diags := l.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return fmt.Errorf("hclfactory: failed to parse %s: %w", filename, diags)
	}
	return l.loadBody(ctx, reg, hclFile.Body, filename)
}

func (l *Loader) loadBody(ctx context.Context, reg *registry.Registry, body hcl.Body, filename string) error {
	content, diags := body.Content(rootSchema)
	if diags.HasErrors() {
		return fmt.Errorf("hclfactory: invalid definitions in %s: %w", filename, diags)
	}

	// Global sequences first: factories parsed from the same file may
	// reference them implicitly.
	for _, block := range content.Blocks {
		if block.Type != "sequence" {
			continue
		}
		seq, err := parseSequenceBlock(block)
		if err != nil {
			return fmt.Errorf("hclfactory: in %s: %w", filename, err)
		}
		reg.DefineSequenceFrom(seq.name, seq.start, sequenceFormat(seq.format))
	}

	for _, block := range content.Blocks {
		if block.Type != "factory" {
			continue
		}
		pf, err := parseFactoryBlock(block)
		if err != nil {
			return fmt.Errorf("hclfactory: in %s: %w", filename, err)
		}
		if err := reg.Define(ctx, pf.name, pf.options, pf.declarationFunc()); err != nil {
			return fmt.Errorf("hclfactory: in %s: %w", filename, err)
		}
	}
	return nil
}
