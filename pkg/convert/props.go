package convert

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Sumatoshi-tech/mp2vue/pkg/diag"
	"github.com/Sumatoshi-tech/mp2vue/pkg/jsast"
)

// collectProps converts a `properties` (or vant `props`) option into props.
func (u *unit) collectProps(entry *jsast.Node) {
	obj := jsast.Unparen(jsast.EntryValue(entry))
	if !obj.Is(jsast.TypeObject) {
		u.absorb(entry, u.groups.Props)

		return
	}

	for _, prop := range jsast.Entries(obj) {
		name := jsast.PropertyName(prop)
		if name != "" {
			u.convertProp(name, prop)
		}

		u.addField(u.groups.Props, Field{Name: name, Node: prop})
	}
}

// convertProp rewrites one property declaration in place: value becomes
// default, optionalTypes joins type and observer moves to watch.
func (u *unit) convertProp(name string, prop *jsast.Node) {
	decl := jsast.Unparen(jsast.EntryValue(prop))
	if !decl.Is(jsast.TypeObject) {
		return
	}

	if def := jsast.FindEntry(decl, "value"); def != nil {
		def = jsast.SetPropertyName(def, "default")

		if value := jsast.EntryValue(def); value != nil && jsast.Unparen(value).Is(jsast.TypeObject, jsast.TypeArray) {
			factory := jsast.MustExpression("function () { return __default__ }")
			value.Replace(factory)
			jsast.Substitute(factory, "__default__", value)
		}
	}

	if optional := jsast.FindEntry(decl, "optionalTypes"); optional != nil {
		mergeOptionalTypes(decl, optional)
	}

	if observer := jsast.FindEntry(decl, "observer"); observer != nil {
		jsast.RemoveEntry(observer)
		u.addField(u.groups.Watch, Field{Name: name, Node: jsast.SetPropertyName(observer, name), Origin: "observer"})
	}
}

// mergeOptionalTypes folds optionalTypes into a type array.
func mergeOptionalTypes(decl, optional *jsast.Node) {
	types := jsast.Unparen(jsast.EntryValue(optional))
	if !types.Is(jsast.TypeArray) {
		return
	}

	typeEntry := jsast.FindEntry(decl, "type")
	typeValue := jsast.EntryValue(typeEntry)

	if typeValue == nil {
		jsast.SetPropertyName(optional, "type")

		return
	}

	list := []string{typeValue.Text()}

	for _, item := range types.NamedChildren() {
		if text := item.Text(); !slices.Contains(list, text) {
			list = append(list, text)
		}
	}

	typeValue.Replace(jsast.MustExpression("[" + strings.Join(list, ", ") + "]"))
	jsast.RemoveEntry(optional)
}

// collectObservers converts data observers into watchers.
func (u *unit) collectObservers(entry *jsast.Node) {
	obj := jsast.Unparen(jsast.EntryValue(entry))
	if !obj.Is(jsast.TypeObject) {
		u.bag.Warn(diag.CodeDynamicOptions, "observers is not an object literal, kept as is")
		u.keepOption(entry, "observers")

		return
	}

	for _, observer := range jsast.Entries(obj) {
		key := jsast.PropertyName(observer)
		if key == "" {
			u.bag.Warn(diag.CodeDynamicOptions, "observer %q kept as is", observer.Text())
			u.addField(u.groups.Watch, Field{Node: observer})

			continue
		}

		paths := splitObserverPaths(key)
		if len(paths) == 1 {
			u.singleObserver(paths[0], observer)

			continue
		}

		u.splitObserver(key, paths, observer)
	}
}

func splitObserverPaths(key string) []string {
	var paths []string

	for part := range strings.SplitSeq(key, ",") {
		if part = strings.TrimSpace(part); part != "" {
			paths = append(paths, part)
		}
	}

	return paths
}

func (u *unit) singleObserver(path string, observer *jsast.Node) {
	if path == "**" {
		u.bag.Warn(diag.CodeDroppedOption, "wildcard observer has no watcher equivalent, kept as is")
		u.addField(u.groups.Watch, Field{Name: path, Node: observer})

		return
	}

	base, deep := strings.CutSuffix(path, ".**")
	if !deep {
		u.addField(u.groups.Watch, Field{Name: base, Node: jsast.SetPropertyName(observer, base), Origin: path})

		return
	}

	handler := jsast.SetPropertyName(observer, "handler")
	watcher := jsast.NewObject([]*jsast.Node{handler, jsast.MustEntry("deep: true")}, "")

	pair := jsast.MustEntry(keyLiteral(base) + ": __watcher__")
	jsast.Substitute(pair, "__watcher__", watcher)

	u.addField(u.groups.Watch, Field{Name: base, Node: pair, Origin: path})
}

// splitObserver turns an observer on several paths into a generated method
// and one watcher per path calling it with the current values.
func (u *unit) splitObserver(key string, paths []string, observer *jsast.Node) {
	u.observerHandlers++
	method := u.freeName(fmt.Sprintf("observersHandler%d", u.observerHandlers))

	u.addField(u.groups.Methods, Field{Name: method, Node: jsast.SetPropertyName(observer, method), Origin: key})

	args := make([]string, len(paths))
	for idx, path := range paths {
		args[idx] = thisPath(strings.TrimSuffix(path, ".**"))
	}

	call := "this." + method + "(" + strings.Join(args, ", ") + ")"

	for _, path := range paths {
		base, deep := strings.CutSuffix(path, ".**")

		src := keyLiteral(base) + ": function () {\n  " + call + "\n}"
		if deep {
			src = keyLiteral(base) + ": {\n  handler: function () {\n    " + call + "\n  },\n  deep: true\n}"
		}

		u.addField(u.groups.Watch, Field{Name: base, Node: jsast.MustEntry(src), Origin: path})
	}

	u.bag.Warn(diag.CodeSplitObserver,
		"observer %q split into one watcher per field calling %s; it now runs once per changed field", key, method)
}

// thisPath renders a data path as a member access on this.
func thisPath(path string) string {
	if root := keyRoot.FindString(path); root != "" {
		return "this." + path
	}

	return "this[" + jsast.Quote(path) + "]"
}
