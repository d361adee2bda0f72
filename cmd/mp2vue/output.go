package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Sumatoshi-tech/mp2vue/pkg/convert"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// writer places converted modules under an output directory, mirroring the
// project layout.
type writer struct {
	dir        string
	singleFile bool
}

// targetPath returns the output path of a result, relative to the output
// directory.
func (w *writer) targetPath(result *convert.Result) string {
	if w.singleFile && result.Kind.SingleFile() && !result.IsAlreadyTargetFormat {
		return strings.TrimSuffix(result.Path, ".js") + ".vue"
	}

	return result.Path
}

// contents returns what gets written for a result.
func (w *writer) contents(result *convert.Result) string {
	if w.singleFile && result.Kind.SingleFile() {
		return result.ScriptBlock()
	}

	return result.Text
}

// write stores every result and returns the number of bytes written.
func (w *writer) write(results []*convert.Result) (int, error) {
	total := 0

	for _, result := range results {
		target := filepath.Join(w.dir, filepath.FromSlash(w.targetPath(result)))

		if err := os.MkdirAll(filepath.Dir(target), dirPerm); err != nil {
			return total, fmt.Errorf("create output dir: %w", err)
		}

		data := w.contents(result)

		if err := os.WriteFile(target, []byte(data), filePerm); err != nil {
			return total, fmt.Errorf("write %s: %w", target, err)
		}

		total += len(data)
	}

	return total, nil
}
