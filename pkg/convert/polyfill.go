package convert

import "github.com/Sumatoshi-tech/mp2vue/pkg/jsast"

// mountHook returns the lifecycle field run when the instance mounts.
func (u *unit) mountHook() (Field, bool) {
	switch {
	case u.class.Kind == KindPage:
		return u.groups.Lifecycle.Get("onLoad")
	case u.class.Kind.componentLike():
		if field, ok := u.groups.Lifecycle.Get("beforeMount"); ok {
			return field, true
		}

		return u.groups.Lifecycle.Get("mounted")
	default:
		return Field{}, false
	}
}

// polyfill clones the mount hook into methods when the module also calls
// it directly, and points those calls at the clone. The declared hook is
// left untouched.
func (u *unit) polyfill() {
	hook, ok := u.mountHook()
	if !ok || !isFunctionEntry(hook.Node) || len(u.directCalls(hook)) == 0 {
		return
	}

	name := u.freeName(hook.Name + "Clone")
	clone := jsast.SetPropertyName(hook.Node.Clone(), name)

	jsast.AppendEntry(u.inst.methods, clone)
	u.groups.Methods.Add(Field{Name: name, Node: clone, Origin: hook.Name})

	u.scopes = jsast.Analyze(u.root)

	for _, property := range u.directCalls(hook) {
		property.Token = name
	}
}

// directCalls returns the property nodes of `<this-like>.<hook>(…)` calls,
// matching the hook by its target or original name. Calls inside the
// declared hook itself are not counted.
func (u *unit) directCalls(hook Field) []*jsast.Node {
	var found []*jsast.Node

	for _, call := range jsast.FindType(u.root, jsast.TypeCallExpression) {
		callee := call.ChildByField("function")
		if !callee.Is(jsast.TypeMemberExpression) || call.IsDescendantOf(hook.Node) {
			continue
		}

		property := callee.ChildByField("property")
		if name := property.Text(); name != hook.Name && name != hook.Origin {
			continue
		}

		if u.scopes.IsThisLike(callee.ChildByField("object")) {
			found = append(found, property)
		}
	}

	return found
}
