// Package pathguard confines requested file paths to a base directory.
//
// Resolution canonicalizes both sides (absolute form, symlinks evaluated,
// ".." collapsed) and then requires the target to equal or descend from the
// base. Components that do not exist yet are appended lexically, so the
// check never depends on the target file existing; existence is the
// loader's concern.
package pathguard

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrison/jsontable/internal/models"
)

// Resolver validates that a requested path stays inside a base directory.
// Platform-specific canonicalization lives behind this interface.
type Resolver interface {
	Resolve(requested, baseDir string) (ResolvedPath, error)
}

// ResolvedPath is a path proven, at resolution time, to lie within BaseDir.
// It is scoped to a single load and must not be cached across calls.
type ResolvedPath struct {
	Path    string // Canonical absolute path of the target
	BaseDir string // Canonical absolute base directory
}

// String returns the canonical target path.
func (p ResolvedPath) String() string {
	return p.Path
}

// evalSymlinksFunc matches filepath.EvalSymlinks; tests substitute it to
// simulate resolution failures.
type evalSymlinksFunc func(string) (string, error)

// FSGuard resolves paths against the local filesystem.
type FSGuard struct {
	evalSymlinks evalSymlinksFunc
}

// New creates an FSGuard.
func New() *FSGuard {
	return &FSGuard{evalSymlinks: filepath.EvalSymlinks}
}

// Resolve joins requested under baseDir (absolute requested paths are
// taken as-is), canonicalizes both, and verifies containment.
func (g *FSGuard) Resolve(requested, baseDir string) (ResolvedPath, error) {
	reject := func(reason string, err error) (ResolvedPath, error) {
		return ResolvedPath{}, &models.PathSecurityError{
			Requested: requested,
			BaseDir:   baseDir,
			Reason:    reason,
			Err:       err,
		}
	}

	if requested == "" {
		return reject("empty path", nil)
	}
	if strings.ContainsRune(requested, 0) || strings.ContainsRune(baseDir, 0) {
		return reject("null byte in path", nil)
	}
	if baseDir == "" {
		baseDir = "."
	}

	base, err := g.canonicalize(baseDir)
	if err != nil {
		return reject("cannot resolve base directory", err)
	}

	target := requested
	if !filepath.IsAbs(target) {
		target = filepath.Join(base, target)
	}

	resolved, err := g.canonicalize(target)
	if err != nil {
		return reject("cannot resolve path", err)
	}

	if !within(base, resolved) {
		return reject("resolves outside base directory", nil)
	}

	return ResolvedPath{Path: resolved, BaseDir: base}, nil
}

// canonicalize returns the absolute, symlink-free form of path. Symlinks
// are evaluated on the longest existing prefix; missing trailing
// components are appended unchanged.
func (g *FSGuard) canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	var missing []string
	current := abs
	for {
		resolved, err := g.evalSymlinks(current)
		if err == nil {
			for i := len(missing) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, missing[i])
			}
			return filepath.Clean(resolved), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		if info, lerr := os.Lstat(current); lerr == nil && info.Mode()&fs.ModeSymlink != 0 {
			return "", fmt.Errorf("dangling symlink %s: %w", current, err)
		}

		parent := filepath.Dir(current)
		if parent == current {
			// Nothing along the path exists, not even the volume root.
			return "", err
		}
		missing = append(missing, filepath.Base(current))
		current = parent
	}
}

// within reports whether target equals base or lies beneath it.
func within(base, target string) bool {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	if filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return true
}
