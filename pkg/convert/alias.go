package convert

import (
	"github.com/Sumatoshi-tech/mp2vue/pkg/diag"
	"github.com/Sumatoshi-tech/mp2vue/pkg/jsast"
)

// functionAlias is the deterministic replacement name of a colliding method.
func functionAlias(name string) string {
	return name + "Fun"
}

// aliasCollisions renames methods whose key is also a data field or a
// reserved name. Hooks colliding with data keep their key; callers get a
// renamed copy instead so the hook still fires.
func (u *unit) aliasCollisions() {
	for _, name := range u.groups.Methods.Names() {
		reason := u.collisionReason(name)
		if reason == "" {
			continue
		}

		alias := functionAlias(name)
		if u.aliasTaken(name, alias) {
			continue
		}

		u.groups.Methods.Rename(name, alias)
		u.recordAlias(name, alias, reason)
	}

	for _, field := range u.groups.Lifecycle.Fields() {
		if !isHook(field.Name) || !u.symbols.DataNames.Has(field.Name) {
			continue
		}

		alias := functionAlias(field.Name)
		if u.aliasTaken(field.Name, alias) {
			continue
		}

		copied := jsast.SetPropertyName(field.Node.Clone(), alias)
		u.groups.Methods.Add(Field{Name: alias, Node: copied, Origin: field.Name})
		u.recordAlias(field.Name, alias, "it is also a data field")
	}
}

func (u *unit) collisionReason(name string) string {
	switch {
	case u.symbols.DataNames.Has(name):
		return "it is also a data field"
	case reservedNames.Has(name):
		return "it is a reserved name"
	default:
		return ""
	}
}

// aliasTaken reports, without fixing it, an alias that collides again.
func (u *unit) aliasTaken(name, alias string) bool {
	if !u.symbols.DataNames.Has(alias) && !u.symbols.PropNames.Has(alias) && !u.groups.Callable(alias) {
		return false
	}

	u.bag.Warn(diag.CodeAliasCollision, "method %q collides and its alias %q is taken too; rename it manually", name, alias)

	return true
}

func (u *unit) recordAlias(name, alias, reason string) {
	u.symbols.MethodAlias[name] = alias

	if reservedNames.Has(name) {
		u.symbols.aliasAllReads.Add(name)
	}

	u.bag.Warn(diag.CodeNameCollision, "method %q renamed to %q because %s", name, alias, reason)
}
