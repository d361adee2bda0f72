package convert

import (
	"log/slog"
	"path"
	"strings"
)

// AssetResolver maps an asset path literal found in fileDir to its location in
// the converted project.
type AssetResolver func(literalPath, projectRoot, currentFileDir string) string

// Options controls the optional passes of the engine.
type Options struct {
	// ResolveAsset rewrites asset literals. Required when RewriteAssetPaths is set.
	ResolveAsset AssetResolver
	// Logger receives per-file debug records. Defaults to slog.Default().
	Logger *slog.Logger
	// Platform is the platform API keyword (wx, qq, tt, swan, my).
	Platform string
	// ProjectRoot is handed to ResolveAsset.
	ProjectRoot string
	// RewriteAssetPaths enables asset literal rewriting.
	RewriteAssetPaths bool
	// RenamePlatformKeyword renames free references of Platform to uni.
	RenamePlatformKeyword bool
	// RepairAliasing renames bindings that shadow a this alias.
	RepairAliasing bool
	// HasVant skips van- prefixed components when generating imports.
	HasVant bool
}

// DefaultPlatform is the keyword used when Options.Platform is empty.
const DefaultPlatform = "wx"

// targetKeyword replaces the platform keyword.
const targetKeyword = "uni"

func (opts *Options) platform() string {
	if opts.Platform == "" {
		return DefaultPlatform
	}

	return opts.Platform
}

// Input is one module handed to the engine.
type Input struct {
	// UsingComponents maps component tag names to their resolved module paths.
	UsingComponents map[string]string
	// Path is the module path, slash separated.
	Path string
	// Text is the module source.
	Text string
	// ScriptOnly marks a module that has no companion markup file.
	ScriptOnly bool
}

// Dir returns the directory of the module.
func (in Input) Dir() string {
	return path.Dir(slashPath(in.Path))
}

// IsAppFile reports whether the module is the per-project app file.
func (in Input) IsAppFile() bool {
	return path.Base(slashPath(in.Path)) == "app.js"
}

func slashPath(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
