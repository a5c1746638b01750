// Package source discovers annotated source files and parses them into
// endpoint descriptions
package source

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/redhat/swagdoc-mcp-golang/internal/annotation"
	"github.com/redhat/swagdoc-mcp-golang/internal/config"
	"github.com/redhat/swagdoc-mcp-golang/internal/types"
)

// Matcher decides whether a file takes part in generation.
// Patterns are matched against the slash-separated path relative to the
// source root and against the base name
type Matcher struct {
	include []glob.Glob
	exclude []glob.Glob
}

// NewMatcher compiles include and exclude patterns
func NewMatcher(include, exclude []string) (*Matcher, error) {
	m := &Matcher{}
	for _, pattern := range include {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", pattern, err)
		}
		m.include = append(m.include, g)
	}
	for _, pattern := range exclude {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		m.exclude = append(m.exclude, g)
	}
	return m, nil
}

// Match reports whether rel (slash separated) is included and not excluded
func (m *Matcher) Match(rel string) bool {
	return matchAny(m.include, rel) && !matchAny(m.exclude, rel)
}

func matchAny(globs []glob.Glob, rel string) bool {
	base := path.Base(rel)
	for _, g := range globs {
		if g.Match(rel) || g.Match(base) {
			return true
		}
	}
	return false
}

// Discover lists the files under cfg.Dir accepted by the include and exclude
// patterns, sorted by path. Subdirectories are only entered when cfg.Recursive is set
func Discover(fs afero.Fs, cfg config.Source) ([]string, error) {
	matcher, err := NewMatcher(cfg.Include, cfg.Exclude)
	if err != nil {
		return nil, err
	}

	var files []string
	err = afero.Walk(fs, cfg.Dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if p != cfg.Dir && !cfg.Recursive {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(cfg.Dir, p)
		if err != nil {
			return err
		}
		if matcher.Match(filepath.ToSlash(rel)) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", cfg.Dir, err)
	}

	sort.Strings(files)
	return files, nil
}

// Dirs lists cfg.Dir and, when cfg.Recursive is set, every directory below it
func Dirs(fs afero.Fs, cfg config.Source) ([]string, error) {
	if !cfg.Recursive {
		return []string{cfg.Dir}, nil
	}

	var dirs []string
	err := afero.Walk(fs, cfg.Dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			dirs = append(dirs, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", cfg.Dir, err)
	}

	sort.Strings(dirs)
	return dirs, nil
}

// File is the parse result of one source file
type File struct {
	Path      string
	Endpoints []*types.EndpointDescription
}

// Load reads and parses files with up to workers concurrent readers. The
// result keeps the order of paths regardless of completion order
func Load(ctx context.Context, fs afero.Fs, paths []string, workers int) ([]File, error) {
	files := make([]File, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := afero.ReadFile(fs, p)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", p, err)
			}
			files[i] = File{
				Path:      p,
				Endpoints: annotation.Endpoints(p, string(data)),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// Flatten concatenates the endpoints of files in order
func Flatten(files []File) []*types.EndpointDescription {
	var endpoints []*types.EndpointDescription
	for _, f := range files {
		endpoints = append(endpoints, f.Endpoints...)
	}
	return endpoints
}
