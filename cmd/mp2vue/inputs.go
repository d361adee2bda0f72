package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/src-d/enry/v2"

	"github.com/Sumatoshi-tech/mp2vue/pkg/convert"
	"github.com/Sumatoshi-tech/mp2vue/pkg/pageconfig"
)

// ErrOutsideRoot is returned for a path argument outside the project root.
var ErrOutsideRoot = errors.New("path is outside the project root")

// markupExts are the companion markup files of the supported platforms.
//
//nolint:gochecknoglobals // Lookup table.
var markupExts = []string{".wxml", ".qml", ".ttml", ".swan", ".axml"}

// discovery finds the modules of a project.
type discovery struct {
	logger       *slog.Logger
	root         string
	exclude      string
	skipVendored bool
}

// inputs returns one Input per script under paths, sorted by module path.
// No paths means the whole root.
func (d *discovery) inputs(ctx context.Context, paths []string) ([]convert.Input, error) {
	if len(paths) == 0 {
		paths = []string{d.root}
	}

	seen := make(map[string]bool)

	var files []string

	for _, target := range paths {
		found, err := d.scripts(target)
		if err != nil {
			return nil, err
		}

		for _, file := range found {
			if !seen[file] {
				seen[file] = true
				files = append(files, file)
			}
		}
	}

	slices.Sort(files)

	inputs := make([]convert.Input, 0, len(files))

	for _, file := range files {
		in, err := d.input(ctx, file)
		if err != nil {
			return nil, err
		}

		inputs = append(inputs, in)
	}

	return inputs, nil
}

// scripts lists the absolute paths of the scripts under target.
func (d *discovery) scripts(target string) ([]string, error) {
	if !filepath.IsAbs(target) {
		target = filepath.Join(d.root, target)
	}

	if _, err := d.rel(target); err != nil {
		return nil, err
	}

	var files []string

	err := filepath.WalkDir(target, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel, _ := d.rel(path)

		if entry.IsDir() {
			if path != target && (path == d.exclude || d.skipped(rel+"/")) {
				return filepath.SkipDir
			}

			return nil
		}

		if filepath.Ext(path) == ".js" && (path == target || !d.skipped(rel)) {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", target, err)
	}

	return files, nil
}

func (d *discovery) skipped(rel string) bool {
	return d.skipVendored && enry.IsVendor(rel)
}

func (d *discovery) rel(path string) (string, error) {
	rel, err := filepath.Rel(d.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}

	return filepath.ToSlash(rel), nil
}

func (d *discovery) input(ctx context.Context, file string) (convert.Input, error) {
	text, err := os.ReadFile(file)
	if err != nil {
		return convert.Input{}, fmt.Errorf("read module: %w", err)
	}

	rel, err := d.rel(file)
	if err != nil {
		return convert.Input{}, err
	}

	in := convert.Input{
		Path:       rel,
		Text:       string(text),
		ScriptOnly: !hasMarkup(file),
	}

	cfg, err := pageconfig.Load(pageconfig.PathFor(file))
	if err != nil {
		d.logger.WarnContext(ctx, "discover: page config ignored", "path", rel, "error", err)

		return in, nil
	}

	in.UsingComponents = cfg.UsingComponents

	return in, nil
}

func hasMarkup(script string) bool {
	base := strings.TrimSuffix(script, ".js")

	for _, ext := range markupExts {
		if _, err := os.Stat(base + ext); err == nil {
			return true
		}
	}

	return false
}
