package convert

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/Sumatoshi-tech/mp2vue/pkg/diag"
	"github.com/Sumatoshi-tech/mp2vue/pkg/jsast"
)

// Engine converts mini-app modules into options-object modules. An Engine
// is safe for concurrent use; each Convert call owns its own tree.
type Engine struct {
	parser *jsast.Parser
	logger *slog.Logger
	opts   Options
}

// NewEngine creates an Engine with the given options.
func NewEngine(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		parser: jsast.NewParser(),
		logger: logger,
		opts:   opts,
	}
}

// Options returns the options the engine was created with.
func (e *Engine) Options() Options {
	return e.opts
}

// Convert converts one module. Problems in the module never fail the call;
// they are reported as diagnostics on the result. reg may be nil, in which
// case cross-module lookups fall back to best-effort rules.
func (e *Engine) Convert(ctx context.Context, in Input, reg *Registry) (result *Result) {
	start := time.Now()
	bag := diag.NewBag(in.Path)

	defer func() {
		if r := recover(); r != nil {
			e.logger.ErrorContext(ctx, "convert: panic", "path", in.Path, "panic", r, "stack", string(debug.Stack()))

			bag.Error(diag.CodeInternal, "conversion aborted, module left unchanged: %v", r)
			result = &Result{Path: in.Path, Text: in.Text, Kind: KindPlainScript, Diagnostics: bag.Items()}
		}
	}()

	result = e.convert(ctx, in, reg, bag)
	result.Diagnostics = bag.Items()

	e.logger.DebugContext(ctx, "convert: module done",
		"path", in.Path,
		"kind", result.Kind.String(),
		"diagnostics", len(result.Diagnostics),
		"elapsed", time.Since(start))

	return result
}

func (e *Engine) convert(ctx context.Context, in Input, reg *Registry, bag *diag.Bag) *Result {
	result := &Result{Path: in.Path, Text: in.Text, Kind: KindPlainScript}

	root, err := e.parser.Parse(ctx, []byte(normalizeSource(in.Text)))
	if err != nil {
		bag.Error(diag.CodeParseFailure, "module left unchanged: %v", err)

		return result
	}

	class := Classify(root, in.ScriptOnly)
	result.Kind = class.Kind
	result.IsAlreadyTargetFormat = class.AlreadyTarget

	scopes := jsast.Analyze(root)

	renamed := false
	if e.opts.RenamePlatformKeyword {
		renamed = renamePlatformKeyword(root, scopes, e.opts.platform())
	}

	switch {
	case class.Kind == KindWebpack:
		bag.Info(diag.CodeBundledModule, "webpack bundle left unchanged")

		return result
	case !class.Kind.Transformed():
		if renamed {
			result.Text = jsast.Print(root)
		}

		return result
	case class.Options == nil:
		bag.Warn(diag.CodeDynamicOptions, "%s options are not an object literal, module left unconverted", class.Kind)
		result.Text = jsast.Print(root)

		return result
	}

	if e.opts.RepairAliasing {
		repairAliasing(root, scopes)
	}

	u := newUnit(in, &e.opts, reg, bag, root, class)
	u.collect()

	if reg != nil {
		reg.Publish(u.registryEntry())
	}

	if err := u.instantiate(); err != nil {
		bag.Error(diag.CodeInternal, "module left unchanged: %v", err)

		return result
	}

	u.repair()
	u.polyfill()

	result.Text = emit(root)
	result.Groups = u.groups
	result.Components = u.components
	result.Prologue = u.prologue()
	result.Stats = u.stats

	return result
}

// prologue returns the top-level statements other than the converted
// options object.
func (u *unit) prologue() []string {
	var stmts []string

	for _, stmt := range u.root.NamedChildren() {
		if stmt != u.inst.statement {
			stmts = append(stmts, stmt.Text())
		}
	}

	return stmts
}
