// Package assets maps image and audio paths of a mini-app project to their
// place under the static directory of the converted project.
package assets

import (
	"path"
	"strings"
)

// Resolver rewrites asset literals into static-rooted paths.
type Resolver struct {
	// StaticDir is the static directory name, without slashes.
	StaticDir string
}

// New creates a Resolver for staticDir.
func New(staticDir string) *Resolver {
	return &Resolver{StaticDir: strings.Trim(staticDir, "/")}
}

// Resolve maps literal, found in a module under fileDir, to /<static>/<path>.
// Paths are project-relative, so projectRoot is not consulted. Literals that
// climb out of the project, or already point into the static directory, are
// returned unchanged.
func (r *Resolver) Resolve(literal, _, fileDir string) string {
	rel, ok := r.projectPath(literal, fileDir)
	if !ok {
		return literal
	}

	return "/" + r.StaticDir + "/" + rel
}

func (r *Resolver) projectPath(literal, fileDir string) (string, bool) {
	var rel string

	if strings.HasPrefix(literal, "/") {
		rel = path.Clean(strings.TrimPrefix(literal, "/"))
	} else {
		rel = path.Join(strings.ReplaceAll(fileDir, `\`, "/"), literal)
	}

	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") || strings.HasPrefix(rel, "/") {
		return "", false
	}

	if r.StaticDir != "" && (rel == r.StaticDir || strings.HasPrefix(rel, r.StaticDir+"/")) {
		return "", false
	}

	return rel, true
}
