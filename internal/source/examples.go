package source

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"git.home.luguber.info/inful/exdoc/internal/diag"
	"git.home.luguber.info/inful/exdoc/internal/docmodel"
)

// ExampleResolver locates example directories under the configured roots and
// fills in the file lists the manifest writer works from.
type ExampleResolver struct {
	roots    []string
	patterns []string
	excludes ExcludeContext
	reporter diag.Reporter
}

// NewExampleResolver creates a resolver searching the given root directories.
// patterns are base-name globs (filepath.Match syntax) selecting which files
// belong to an example. A nil reporter discards warnings.
func NewExampleResolver(roots, patterns []string, excludes ExcludeContext, reporter diag.Reporter) *ExampleResolver {
	if reporter == nil {
		reporter = diag.NoopReporter{}
	}
	return &ExampleResolver{
		roots:    roots,
		patterns: patterns,
		excludes: excludes,
		reporter: reporter,
	}
}

// Resolve fills ex.Files and ex.ProjectFile from the first root containing
// the example's directory. A missing directory is reported and leaves the
// lists empty; the example still appears in manifests without files to open.
func (r *ExampleResolver) Resolve(ex *docmodel.ExampleNode) {
	dir, ok := r.findDir(ex.Name)
	if !ok {
		r.reporter.Warningf(ex.Loc, "cannot find example directory %q under the configured example roots", ex.Name)
		return
	}

	var files []string
	walkErr := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			r.reporter.Warningf(docmodel.Location{File: p}, "skipping unreadable entry: %v", err)
			return nil
		}
		if d.IsDir() {
			if p != dir && r.excludes.ExcludesDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if r.excludes.ExcludesFile(d.Name()) || !r.matchesPattern(d.Name()) {
			return nil
		}
		rel, relErr := filepath.Rel(dir, p)
		if relErr != nil {
			return nil
		}
		files = append(files, path.Join(ex.Name, filepath.ToSlash(rel)))
		return nil
	})
	if walkErr != nil {
		r.reporter.Warningf(ex.Loc, "cannot read example directory %q: %v", ex.Name, walkErr)
		return
	}
	sort.Strings(files)
	ex.Files = files

	ex.ProjectFile = r.findProjectFile(dir, ex)
	if ex.ProjectFile == "" {
		r.reporter.Warningf(ex.Loc, "no project file found for example %q", ex.Name)
	}
}

// findDir returns the first existing directory for the example name.
func (r *ExampleResolver) findDir(name string) (string, bool) {
	for _, root := range r.roots {
		dir := filepath.Join(root, filepath.FromSlash(name))
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, true
		}
	}
	return "", false
}

func (r *ExampleResolver) matchesPattern(base string) bool {
	for _, pat := range r.patterns {
		if ok, err := filepath.Match(pat, base); err == nil && ok {
			return true
		}
	}
	return false
}

// findProjectFile picks the example's project file: CMakeLists.txt wins,
// then the qmake, Qt Quick and Python project files named after the
// example's directory.
func (r *ExampleResolver) findProjectFile(dir string, ex *docmodel.ExampleNode) string {
	base := ex.FileBase()
	for _, candidate := range []string{
		"CMakeLists.txt",
		base + ".pro",
		base + ".qmlproject",
		base + ".pyproject",
	} {
		if info, err := os.Stat(filepath.Join(dir, candidate)); err == nil && !info.IsDir() {
			return path.Join(ex.Name, candidate)
		}
	}
	return ""
}
