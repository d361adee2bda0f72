package convert

import (
	"github.com/Sumatoshi-tech/mp2vue/pkg/diag"
	"github.com/Sumatoshi-tech/mp2vue/pkg/jsast"
)

// collectApp splits an App registration into hooks and one globalData
// entry holding every other member, placed where the first member was.
func (u *unit) collectApp(opts *jsast.Node) {
	var (
		members []*jsast.Node
		holder  *jsast.Node
	)

	for _, entry := range jsast.Entries(opts) {
		name := jsast.PropertyName(entry)

		if appHooks.Has(name) {
			u.addField(u.groups.Lifecycle, Field{Name: name, Node: entry})

			continue
		}

		if holder == nil {
			holder = jsast.MustEntry("globalData: __members__")
			u.addField(u.groups.Lifecycle, Field{Name: "globalData", Node: holder})
		}

		if name != "globalData" {
			members = append(members, entry)

			continue
		}

		members = append(members, u.globalDataMembers(entry)...)
	}

	if holder == nil {
		return
	}

	u.partitionGlobalState(members)
	u.relinkApp(members)

	jsast.Substitute(holder, "__members__", jsast.NewObject(members, ""))
}

func (u *unit) globalDataMembers(entry *jsast.Node) []*jsast.Node {
	value := jsast.EntryValue(entry)

	if obj := jsast.Unparen(value); obj.Is(jsast.TypeObject) {
		return jsast.Entries(obj)
	}

	if value == nil {
		value = jsast.NewIdentifier(entry.Token)
	}

	spread := jsast.MustEntry("...__value__")
	jsast.Substitute(spread, "__value__", value)
	u.bag.Warn(diag.CodeDynamicOptions, "globalData is not an object literal, spread into globalData")

	return []*jsast.Node{spread}
}

func (u *unit) partitionGlobalState(members []*jsast.Node) {
	for _, member := range members {
		name := jsast.PropertyName(member)

		switch {
		case name == "":
		case isFunctionEntry(member):
			u.symbols.GlobalStateFunctionNames.Add(name)
		default:
			u.symbols.GlobalStateValueNames.Add(name)
		}
	}
}

// relinkApp fixes references broken by moving members into globalData:
// inside members `this.globalData.x` becomes `this.x`, and inside hooks
// `this.fn()` and `this.value` go through globalData.
func (u *unit) relinkApp(members []*jsast.Node) {
	for _, member := range members {
		for _, access := range postOrderMembers(member) {
			if u.isThisMember(access, "globalData") && access.Parent.Is(jsast.TypeMemberExpression) && access.Field == "object" {
				access.Replace(access.ChildByField("object"))
			}
		}
	}

	for _, field := range u.groups.Lifecycle.Fields() {
		if field.Name == "globalData" {
			continue
		}

		for _, access := range postOrderMembers(field.Node) {
			u.relinkHookAccess(access)
		}
	}
}

func (u *unit) relinkHookAccess(access *jsast.Node) {
	object := access.ChildByField("object")
	property := access.ChildByField("property")

	if object == nil || !property.Is(jsast.TypePropertyIdentifier) {
		return
	}

	if !u.scopes.IsThisLike(object) && !isCallTo(jsast.Unparen(object), "getApp") {
		return
	}

	name := property.Token
	isCall := access.Parent.Is(jsast.TypeCallExpression) && access.Field == "function"

	switch {
	case isCall && u.symbols.GlobalStateFunctionNames.Has(name):
	case !isCall && u.symbols.GlobalStateValueNames.Has(name):
	default:
		return
	}

	jsast.WrapMember(object, "globalData")
}

// postOrderMembers lists the member expressions of a subtree, innermost first.
func postOrderMembers(root *jsast.Node) []*jsast.Node {
	var members []*jsast.Node

	jsast.PostOrder(root, func(n *jsast.Node) {
		if n.Is(jsast.TypeMemberExpression) {
			members = append(members, n)
		}
	})

	return members
}
