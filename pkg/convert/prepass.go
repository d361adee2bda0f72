package convert

import (
	"strconv"

	"github.com/Sumatoshi-tech/mp2vue/pkg/jsast"
)

// renamePlatformKeyword renames free references of keyword to the target
// keyword. References where the target keyword is itself bound are left
// alone. A shorthand `{ wx }` keeps its key and becomes `{ wx: uni }`. It
// reports whether anything changed.
func renamePlatformKeyword(root *jsast.Node, scopes *jsast.Scopes, keyword string) bool {
	if keyword == "" || keyword == targetKeyword {
		return false
	}

	changed := false

	for _, ref := range jsast.FindType(root, jsast.TypeIdentifier, jsast.TypeShorthandProperty) {
		if ref.Token != keyword || scopes.Resolve(ref) != nil {
			continue
		}

		if scopes.Lookup(ref, targetKeyword) != nil {
			continue
		}

		if ref.Is(jsast.TypeShorthandProperty) {
			ref = jsast.EntryValue(jsast.SetPropertyName(ref, keyword))
		}

		ref.Token = targetKeyword
		changed = true
	}

	return changed
}

// repairAliasing renames bindings that shadow an outer this alias, so that
// `that` always means the receiver where it is visible. The inner binding
// becomes that_1, that_2 and so on. It reports whether anything changed.
func repairAliasing(root *jsast.Node, scopes *jsast.Scopes) bool {
	taken := make(NameSet)

	for _, scope := range scopes.All() {
		for _, binding := range scope.Bindings() {
			taken.Add(binding.Name)
		}
	}

	var shadowing []*jsast.Binding

	for _, scope := range scopes.All() {
		for _, binding := range scope.Bindings() {
			if shadowsThisAlias(binding) {
				shadowing = append(shadowing, binding)
			}
		}
	}

	if len(shadowing) == 0 {
		return false
	}

	refs := jsast.FindType(root, jsast.TypeIdentifier, jsast.TypeShorthandProperty)
	changed := false

	for _, binding := range shadowing {
		name := binding.Name + "_1"
		for n := 2; taken.Has(name); n++ {
			name = binding.Name + "_" + strconv.Itoa(n)
		}

		taken.Add(name)

		for _, ref := range refs {
			if ref.Token != binding.Name || scopes.Lookup(ref, binding.Name) != binding {
				continue
			}

			if ref.Is(jsast.TypeShorthandProperty) {
				ref = jsast.EntryValue(jsast.SetPropertyName(ref, binding.Name))
			}

			ref.Token = name
			changed = true
		}
	}

	return changed
}

// shadowsThisAlias reports whether binding hides an outer `x = this` alias
// of the same name without being one itself.
func shadowsThisAlias(binding *jsast.Binding) bool {
	if binding.InitializedWithThis() || binding.Ident.Is(jsast.TypeShorthandPattern) {
		return false
	}

	for scope := binding.Scope.Parent; scope != nil; scope = scope.Parent {
		if outer := scope.Lookup(binding.Name); outer != nil {
			return outer.InitializedWithThis()
		}
	}

	return false
}
