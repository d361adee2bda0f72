package convert

import (
	"strconv"

	"github.com/Sumatoshi-tech/mp2vue/pkg/diag"
	"github.com/Sumatoshi-tech/mp2vue/pkg/jsast"
)

// unit is the state of one module conversion. It lives from parse to
// emission and is never shared between goroutines.
type unit struct {
	in         Input
	opts       *Options
	reg        *Registry
	bag        *diag.Bag
	root       *jsast.Node
	scopes     *jsast.Scopes
	groups     *Groups
	symbols    *SymbolContext
	inst       *instance
	components map[string]string
	class      Classification
	stats      Stats

	observerHandlers int
	missingAppNoted  bool
}

func newUnit(in Input, opts *Options, reg *Registry, bag *diag.Bag, root *jsast.Node, class Classification) *unit {
	return &unit{
		in:         in,
		opts:       opts,
		reg:        reg,
		bag:        bag,
		root:       root,
		scopes:     jsast.Analyze(root),
		groups:     newGroups(),
		symbols:    newSymbolContext(),
		components: make(map[string]string),
		class:      class,
	}
}

// addField appends an entry to a group; a repeated name keeps the first
// entry and is reported.
func (u *unit) addField(group *FieldGroup, field Field) {
	if group.Add(field) {
		return
	}

	u.bag.Info(diag.CodeDuplicateOption, "%s entry %q appears more than once, the first one is kept", group.Name(), field.Name)
}

// keepOption places an option verbatim at the lifecycle position.
func (u *unit) keepOption(entry *jsast.Node, name string) {
	u.addField(u.groups.Lifecycle, Field{Name: name, Node: entry})
}

// freeName returns base, or base followed by the smallest number >= 2, that
// is not a key of any group.
func (u *unit) freeName(base string) string {
	taken := func(name string) bool {
		for _, group := range u.groups.All() {
			if group.Has(name) {
				return true
			}
		}

		return false
	}

	if !taken(base) {
		return base
	}

	for n := 2; ; n++ {
		candidate := base + strconv.Itoa(n)
		if !taken(candidate) {
			return candidate
		}
	}
}

func (u *unit) registryEntry() RegistryEntry {
	return RegistryEntry{
		Path:            u.in.Path,
		Kind:            u.class.Kind,
		Data:            u.groups.Data.Names(),
		Props:           u.groups.Props.Names(),
		Methods:         u.groups.Methods.Names(),
		GlobalFunctions: u.symbols.GlobalStateFunctionNames.Sorted(),
		GlobalValues:    u.symbols.GlobalStateValueNames.Sorted(),
	}
}

// isFunctionEntry reports whether an object entry holds a function.
func isFunctionEntry(entry *jsast.Node) bool {
	if entry.Is(jsast.TypeMethodDefinition) {
		return true
	}

	value := jsast.EntryValue(entry)

	return value != nil && jsast.IsFunctionValue(jsast.Unparen(value))
}

// keyLiteral renders name as an object key.
func keyLiteral(name string) string {
	if jsast.IsIdentifierName(name) {
		return name
	}

	return jsast.Quote(name)
}

// isThisMember reports whether member is `<this-like>.<name>`.
func (u *unit) isThisMember(member *jsast.Node, names ...string) bool {
	if !member.Is(jsast.TypeMemberExpression) {
		return false
	}

	property := member.ChildByField("property")
	if property == nil {
		return false
	}

	for _, name := range names {
		if property.Text() == name {
			return u.scopes.IsThisLike(member.ChildByField("object"))
		}
	}

	return false
}
