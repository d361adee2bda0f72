package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/mp2vue/pkg/config"
)

const (
	testAppJS = "App({\n  globalData: {\n    user: null\n  },\n  login() {}\n})\n"

	testPageJS = `const app = getApp()
Page({
  data: {
    count: 0
  },
  onShow() {
    app.login()
  }
})
`

	testCardJS = `Component({
  properties: {
    title: String
  }
})
`
)

// writeProject lays out a small mini-app under a temp dir and returns its root.
func writeProject(t *testing.T, extra map[string]string) string {
	t.Helper()

	root := t.TempDir()

	files := map[string]string{
		"app.js":                        testAppJS,
		"pages/index/index.js":          testPageJS,
		"pages/index/index.wxml":        "<view>{{count}}</view>\n",
		"pages/index/index.json":        `{"navigationBarTitleText": "Home", "usingComponents": {"card": "/components/card/card"}}`,
		"components/card/card.js":       testCardJS,
		"components/card/card.wxml":     "<view>{{title}}</view>\n",
		"components/card/card.json":     `{"component": true}`,
		"node_modules/lodash/lodash.js": "module.exports = {}\n",
		"utils/util.js":                 "module.exports = { pad: n => n }\n",
	}

	for name, text := range extra {
		files[name] = text
	}

	for name, text := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), dirPerm))
		require.NoError(t, os.WriteFile(path, []byte(text), filePerm))
	}

	return root
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	t.Parallel()

	names := make(map[string]bool)
	for _, sub := range newRootCmd().Commands() {
		names[sub.Name()] = true
	}

	for _, want := range []string{"convert", "diff", "config", "version"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestRootCmd_Help(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"root", []string{"--help"}, "Vue options objects"},
		{"convert", []string{"convert", "--help"}, "--metrics-file"},
		{"diff", []string{"diff", "--help"}, "line diff"},
		{"config", []string{"config", "--help"}, "init"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stdout, _, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.Contains(t, stdout, tt.want)
		})
	}
}

func TestConvert_JSONReport(t *testing.T) {
	t.Parallel()

	root := writeProject(t, nil)
	out := filepath.Join(t.TempDir(), "vue")

	stdout, _, err := execute(t, "convert", "--root", root, "--out", out, "--format", "json")
	require.NoError(t, err)

	var rep runReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &rep))

	paths := make([]string, 0, len(rep.Files))
	kinds := make(map[string]string)

	for _, file := range rep.Files {
		paths = append(paths, file.Path)
		kinds[file.Path] = file.Kind
	}

	assert.Equal(t, []string{
		"app.js",
		"components/card/card.js",
		"pages/index/index.js",
		"utils/util.js",
	}, paths)

	assert.Equal(t, "App", kinds["app.js"])
	assert.Equal(t, "Component", kinds["components/card/card.js"])
	assert.Equal(t, "Page", kinds["pages/index/index.js"])
	assert.Equal(t, "PlainScript", kinds["utils/util.js"])

	assert.Equal(t, 4, rep.Summary.Files)
	assert.Equal(t, 3, rep.Summary.Converted)
	assert.Equal(t, 1, rep.Summary.Passthrough)
	assert.Zero(t, rep.Summary.Failed)
	assert.Positive(t, rep.Input.Bytes)
	assert.Positive(t, rep.Input.Written)

	page, err := os.ReadFile(filepath.Join(out, "pages", "index", "index.vue"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(page), "<script>\n"))
	assert.Contains(t, string(page), "import card from")
	assert.Contains(t, string(page), "app.globalData.login()")

	assert.FileExists(t, filepath.Join(out, "app.vue"))
	assert.FileExists(t, filepath.Join(out, "components", "card", "card.vue"))
	assert.FileExists(t, filepath.Join(out, "utils", "util.js"))
	assert.NoFileExists(t, filepath.Join(out, "node_modules", "lodash", "lodash.js"))
}

func TestConvert_Formats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format string
		decode func(data string, rep *runReport) error
	}{
		{config.FormatYAML, func(data string, rep *runReport) error {
			return yaml.Unmarshal([]byte(data), rep)
		}},
		{config.FormatTOML, func(data string, rep *runReport) error {
			_, err := toml.Decode(data, rep)

			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()

			root := writeProject(t, nil)

			stdout, _, err := execute(t, "convert", "--root", root, "--format", tt.format)
			require.NoError(t, err)

			var rep runReport
			require.NoError(t, tt.decode(stdout, &rep))

			assert.Equal(t, 4, rep.Summary.Files)
			assert.Equal(t, 1, rep.Summary.Kinds["Page"])
			assert.Zero(t, rep.Input.Written)
		})
	}
}

func TestConvert_TextReport(t *testing.T) {
	t.Parallel()

	root := writeProject(t, nil)

	stdout, _, err := execute(t, "convert", "--root", root, "pages")
	require.NoError(t, err)

	assert.Contains(t, stdout, "pages/index/index.js")
	assert.Contains(t, strings.ToLower(stdout), "total: 1 files")
	assert.Contains(t, stdout, "Converted 1, passed through 0, failed 0 of 1")
	assert.NotContains(t, stdout, "app.js")
}

func TestConvert_Strict(t *testing.T) {
	t.Parallel()

	root := writeProject(t, map[string]string{
		"pages/broken/broken.js":   "Page({ data: { a: } )",
		"pages/broken/broken.wxml": "<view/>\n",
	})

	stdout, _, err := execute(t, "convert", "--root", root, "--strict")
	require.ErrorIs(t, err, errManualFix)
	assert.Contains(t, stdout, "Diagnostics:")
	assert.Contains(t, stdout, "parse-failure")

	_, _, err = execute(t, "convert", "--root", root, "--quiet")
	require.NoError(t, err)
}

func TestConvert_InvalidFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"format", []string{"--format", "xml"}, config.ErrInvalidFormat},
		{"platform", []string{"--platform", "xx"}, config.ErrInvalidPlatform},
		{"workers", []string{"--workers=-1"}, config.ErrInvalidWorkers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := writeProject(t, nil)

			_, _, err := execute(t, append([]string{"convert", "--root", root}, tt.args...)...)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestConvert_MetricsFile(t *testing.T) {
	t.Parallel()

	root := writeProject(t, nil)
	metricsFile := filepath.Join(t.TempDir(), "mp2vue.prom")

	_, _, err := execute(t, "convert", "--root", root, "--quiet", "--batch", "--metrics-file", metricsFile)
	require.NoError(t, err)

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "mp2vue_files")
	assert.Contains(t, string(data), `kind="Page"`)
}

func TestDiff(t *testing.T) {
	t.Parallel()

	root := writeProject(t, nil)

	stdout, _, err := execute(t, "diff", "--root", root, filepath.Join(root, "pages", "index", "index.js"))
	require.NoError(t, err)

	assert.Contains(t, stdout, "pages/index/index.js (Page, converted)")
	assert.Contains(t, stdout, "-Page({")
	assert.Contains(t, stdout, "+export default {")
}

func TestDiff_Errors(t *testing.T) {
	t.Parallel()

	root := writeProject(t, nil)

	_, _, err := execute(t, "diff", "--root", root, filepath.Join(root, "pages", "index", "index.wxml"))
	require.ErrorIs(t, err, ErrNotAScript)

	_, _, err = execute(t, "diff", "--root", filepath.Join(root, "pages"), filepath.Join(root, "app.js"))
	require.ErrorIs(t, err, ErrOutsideRoot)
}

func TestConfigInitAndShow(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "mp2vue.yaml")

	stdout, _, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "wrote "+path)

	_, _, err = execute(t, "config", "init", path)
	require.ErrorIs(t, err, ErrConfigExists)

	_, _, err = execute(t, "config", "init", "--force", path)
	require.NoError(t, err)

	stdout, _, err = execute(t, "--config", path, "--verbose", "config", "show")
	require.NoError(t, err)

	var shown config.Config
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &shown))
	assert.Equal(t, config.DefaultPlatform, shown.Convert.Platform)
	assert.Equal(t, "debug", shown.Logging.Level)
}

func TestVersionCmd(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "mp2vue "))

	stdout, _, err = execute(t, "version", "--json")
	require.NoError(t, err)

	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(stdout), &info))
	assert.Contains(t, info, "version")
	assert.Contains(t, info, "go_version")
}
