package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/yaklabco/edixml/pkg/fsutil"
)

// StdinName is the Rel of the stdin input.
const StdinName = "stdin"

// Input is one discovered interchange.
type Input struct {
	// Path is the absolute file path, or fsutil.StdinPath.
	Path string

	// Rel is Path relative to the directory it was discovered under.
	// For a file named explicitly it is the base name.
	Rel string
}

// IsStdin reports whether the input is read from standard input.
func (in Input) IsStdin() bool {
	return in.Path == fsutil.StdinPath
}

// Discover finds the inputs named by opts.
// It returns them sorted by path with duplicates removed.
func Discover(ctx context.Context, opts Options) ([]Input, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	m, err := newMatcher(opts)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var inputs []Input
	add := func(in Input) {
		if _, ok := seen[in.Path]; ok {
			return
		}
		seen[in.Path] = struct{}{}
		inputs = append(inputs, in)
	}

	for _, inputPath := range opts.effectivePaths() {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("discovery cancelled: %w", ctx.Err())
		default:
		}

		if inputPath == fsutil.StdinPath {
			add(Input{Path: fsutil.StdinPath, Rel: StdinName})
			continue
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if !info.IsDir() {
			if !m.excluded(relTo(workDir, absPath), false) {
				add(Input{Path: absPath, Rel: filepath.Base(absPath)})
			}
			continue
		}

		found, err := walkDirectory(ctx, absPath, absPath, workDir, m, opts.FollowSymlinks)
		if err != nil {
			return nil, err
		}
		for _, in := range found {
			add(in)
		}
	}

	sort.Slice(inputs, func(i, j int) bool { return inputs[i].Path < inputs[j].Path })
	return inputs, nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

// walkDirectory walks dir and returns matching files with Rel taken against root.
func walkDirectory(ctx context.Context, root, dir, workDir string, m *matcher, follow bool) ([]Input, error) {
	var inputs []Input

	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, walkErr error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		relPath := relTo(workDir, path)

		if entry.IsDir() {
			if path != dir && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			if path != dir && m.excluded(relPath, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			realPath, err := filepath.EvalSymlinks(path)
			if err != nil {
				return nil //nolint:nilerr // Broken symlinks are skipped.
			}
			info, err := os.Stat(realPath)
			if err != nil {
				return nil //nolint:nilerr // Unreadable targets are skipped.
			}
			if info.IsDir() {
				if !follow {
					return nil
				}
				sub, err := walkDirectory(ctx, root, realPath, workDir, m, follow)
				if err != nil {
					return err
				}
				// Files under a followed link are named through the link.
				for _, in := range sub {
					rel := relTo(realPath, in.Path)
					in.Path = filepath.Join(path, rel)
					in.Rel = filepath.Join(relTo(root, path), rel)
					inputs = append(inputs, in)
				}
				return nil
			}
		}

		if strings.HasPrefix(entry.Name(), ".") {
			return nil
		}

		if m.hasExtension(path) && !m.excluded(relPath, false) && m.included(relPath) {
			inputs = append(inputs, Input{Path: path, Rel: relTo(root, path)})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", dir, err)
	}

	return inputs, nil
}

func relTo(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	return rel
}

// matcher holds the compiled extension and glob filters.
type matcher struct {
	extensions map[string]struct{}
	include    []glob.Glob
	exclude    []glob.Glob
}

func newMatcher(opts Options) (*matcher, error) {
	m := &matcher{extensions: make(map[string]struct{})}
	for _, ext := range opts.effectiveExtensions() {
		m.extensions[strings.ToLower(ext)] = struct{}{}
	}

	var err error
	if m.include, err = compileGlobs(opts.IncludeGlobs); err != nil {
		return nil, err
	}
	if m.exclude, err = compileGlobs(opts.ExcludeGlobs); err != nil {
		return nil, err
	}
	return m, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(filepath.ToSlash(pattern), '/')
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

func (m *matcher) hasExtension(path string) bool {
	_, ok := m.extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

func (m *matcher) excluded(relPath string, isDir bool) bool {
	return matchAny(m.exclude, relPath, isDir)
}

func (m *matcher) included(relPath string) bool {
	return len(m.include) == 0 || matchAny(m.include, relPath, false)
}

// matchAny matches the slash path, its base name and, for directories,
// the path with a trailing slash so "dir/**" prunes dir itself.
func matchAny(globs []glob.Glob, relPath string, isDir bool) bool {
	slashed := filepath.ToSlash(relPath)
	base := filepath.Base(relPath)
	for _, g := range globs {
		if g.Match(slashed) || g.Match(base) || (isDir && g.Match(slashed+"/")) {
			return true
		}
	}
	return false
}
