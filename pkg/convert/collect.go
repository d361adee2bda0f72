package convert

import (
	"regexp"
	"strings"

	"github.com/Sumatoshi-tech/mp2vue/pkg/diag"
	"github.com/Sumatoshi-tech/mp2vue/pkg/jsast"
)

// keyRoot matches the top-level field of a setData path such as `list[0].name`.
//
//nolint:gochecknoglobals // Compiled once.
var keyRoot = regexp.MustCompile(`^[A-Za-z_$][\w$]*`)

// collect fills the field groups and the symbol context from the
// registration options.
func (u *unit) collect() {
	opts := u.class.Options

	switch u.class.Kind {
	case KindPage:
		u.collectPage(opts)
	case KindComponent, KindBehavior, KindBehavior2:
		u.collectComponent(opts)
	case KindVantComponent:
		u.collectVant(opts)
	case KindApp:
		u.collectApp(opts)
	}

	u.symbols.DataNames.Add(u.groups.Data.Names()...)
	u.symbols.PropNames.Add(u.groups.Props.Names()...)
	u.collectAppAliases()

	if u.class.Kind == KindApp {
		return
	}

	u.inferSetData(opts)
	u.declareInferredFields()
	u.aliasCollisions()
	u.checkReservedData()
}

func (u *unit) collectPage(opts *jsast.Node) {
	for _, entry := range jsast.Entries(opts) {
		name := jsast.PropertyName(entry)

		switch {
		case name == "":
			u.bag.Warn(diag.CodeDynamicOptions, "page option %q kept as is", entry.Text())
			u.keepOption(entry, "")
		case name == "data":
			u.absorb(entry, u.groups.Data)
		case pageHooks.Has(name):
			u.addField(u.groups.Lifecycle, Field{Name: name, Node: entry})
		case isFunctionEntry(entry), entry.Is(jsast.TypeShorthandProperty):
			u.addField(u.groups.Methods, Field{Name: name, Node: entry})
		default:
			u.addField(u.groups.Data, Field{Name: name, Node: entry})
		}
	}
}

func (u *unit) collectComponent(opts *jsast.Node) {
	for _, entry := range jsast.Entries(opts) {
		name := jsast.PropertyName(entry)

		switch name {
		case "":
			u.bag.Warn(diag.CodeDynamicOptions, "component option %q kept as is", entry.Text())
			u.keepOption(entry, "")
		case "properties":
			u.collectProps(entry)
		case "data":
			u.absorb(entry, u.groups.Data)
		case "methods":
			u.absorb(entry, u.groups.Methods)
		case "computed":
			u.absorb(entry, u.groups.Computed)
		case "watch":
			u.absorb(entry, u.groups.Watch)
		case "observers":
			u.collectObservers(entry)
		case "lifetimes":
			u.collectLifetimes(entry)
		case "behaviors":
			u.keepOption(jsast.SetPropertyName(entry, "mixins"), "mixins")
		case "pageLifetimes":
			u.bag.Warn(diag.CodeDroppedOption, "pageLifetimes has no component equivalent, kept as is")
			u.keepOption(entry, name)
		default:
			u.collectComponentEntry(entry, name)
		}
	}
}

func (u *unit) collectComponentEntry(entry *jsast.Node, name string) {
	if _, ok := componentHooks[name]; ok {
		u.addHook(entry, name)

		return
	}

	if isFunctionEntry(entry) {
		u.addField(u.groups.Methods, Field{Name: name, Node: entry})

		return
	}

	u.keepOption(entry, name)
}

func (u *unit) collectLifetimes(entry *jsast.Node) {
	obj := jsast.Unparen(jsast.EntryValue(entry))
	if !obj.Is(jsast.TypeObject) {
		u.bag.Warn(diag.CodeDynamicOptions, "lifetimes is not an object literal, kept as is")
		u.keepOption(entry, "lifetimes")

		return
	}

	for _, hook := range jsast.Entries(obj) {
		name := jsast.PropertyName(hook)
		if _, ok := componentHooks[name]; ok {
			u.addHook(hook, name)

			continue
		}

		u.keepOption(hook, name)
	}
}

// addHook maps a component lifetime onto its target hook.
func (u *unit) addHook(entry *jsast.Node, origin string) {
	target := componentHooks[origin]
	if target == "" {
		u.bag.Info(diag.CodeDroppedOption, "lifetime %q has no equivalent and was dropped", origin)

		return
	}

	if u.groups.Lifecycle.Has(target) {
		u.bag.Info(diag.CodeDuplicateOption, "lifetime %q declared twice, the first one is kept", origin)

		return
	}

	if origin != target {
		entry = jsast.SetPropertyName(entry, target)
	}

	u.addField(u.groups.Lifecycle, Field{Name: target, Node: entry, Origin: origin})
}

func (u *unit) collectVant(opts *jsast.Node) {
	for _, entry := range jsast.Entries(opts) {
		name := jsast.PropertyName(entry)

		switch {
		case name == "props":
			u.collectProps(entry)
		case name == "data":
			u.absorb(entry, u.groups.Data)
		case name == "methods":
			u.absorb(entry, u.groups.Methods)
		case name == "computed":
			u.absorb(entry, u.groups.Computed)
		case name == "watch":
			u.absorb(entry, u.groups.Watch)
		case vueHooks.Has(name):
			u.addField(u.groups.Lifecycle, Field{Name: name, Node: entry})
		default:
			u.keepOption(entry, name)
		}
	}
}

// absorb moves the entries of an option object into group. An option whose
// value is not an object literal is spread into the group instead.
func (u *unit) absorb(entry *jsast.Node, group *FieldGroup) {
	value := jsast.EntryValue(entry)

	if obj := jsast.Unparen(value); obj.Is(jsast.TypeObject) {
		for _, item := range jsast.Entries(obj) {
			u.addField(group, Field{Name: jsast.PropertyName(item), Node: item})
		}

		return
	}

	switch {
	case value != nil:
	case entry.Is(jsast.TypeShorthandProperty):
		value = jsast.NewIdentifier(entry.Token)
	default:
		u.bag.Warn(diag.CodeDynamicOptions, "%s cannot be converted from a method, kept as is", group.Name())
		u.keepOption(entry, "")

		return
	}

	spread := jsast.MustEntry("...__value__")
	jsast.Substitute(spread, "__value__", value)

	u.bag.Warn(diag.CodeDynamicOptions, "%s is not an object literal, spread into %s", value.Text(), group.Name())
	u.addField(group, Field{Node: spread})
}

// inferSetData records the shape of every field written through setData
// and flags writes to properties.
func (u *unit) inferSetData(opts *jsast.Node) {
	for _, call := range jsast.FindType(opts, jsast.TypeCallExpression) {
		if jsast.CalleeProperty(call) != "setData" {
			continue
		}

		args := jsast.CallArguments(call)
		if len(args) == 0 || !jsast.Unparen(args[0]).Is(jsast.TypeObject) {
			continue
		}

		for _, entry := range jsast.Entries(jsast.Unparen(args[0])) {
			key := jsast.PropertyName(entry)

			root := keyRoot.FindString(key)
			if root == "" {
				continue
			}

			if u.symbols.PropNames.Has(root) {
				u.bag.Error(diag.CodePropMutation, "setData writes property %q, which cannot be assigned after conversion; manual fix required", root)

				continue
			}

			u.symbols.recordFieldType(root, pathTypeTag(key[len(root):], jsast.EntryValue(entry)))
		}
	}
}

func pathTypeTag(rest string, value *jsast.Node) TypeTag {
	switch {
	case strings.HasPrefix(rest, "."):
		return TypeObject
	case strings.HasPrefix(rest, "["):
		return TypeArray
	default:
		return inferTypeTag(value)
	}
}

// declareInferredFields declares every setData field missing from data.
func (u *unit) declareInferredFields() {
	for _, name := range sortedKeys(u.symbols.InferredFieldTypes) {
		if u.symbols.DataNames.Has(name) || u.groups.Callable(name) {
			continue
		}

		tag := u.symbols.InferredFieldTypes[name]
		entry := jsast.MustEntry(name + ": " + tag.Zero())

		u.addField(u.groups.Data, Field{Name: name, Node: entry})
		u.symbols.DataNames.Add(name)
		u.bag.Info(diag.CodeInferredField, "data field %q declared from setData as %s", name, tag)
	}
}

// collectAppAliases records local names bound to getApp().
func (u *unit) collectAppAliases() {
	for _, scope := range u.scopes.All() {
		for _, binding := range scope.Bindings() {
			if binding.Init != nil && isCallTo(jsast.Unparen(binding.Init), "getApp") {
				u.symbols.GlobalAppAliases.Add(binding.Name)
			}
		}
	}
}

// checkReservedData reports data fields the target framework reserves.
func (u *unit) checkReservedData() {
	for _, name := range u.groups.Data.Names() {
		switch {
		case strings.HasPrefix(name, "$"):
			u.bag.Error(diag.CodeReservedIdentifier, "data field %q starts with $, which the target framework reserves; manual fix required", name)
		case name == "setData":
			u.bag.Error(diag.CodeReservedIdentifier, "data field named setData shadows the update API; manual fix required")
		}
	}
}
