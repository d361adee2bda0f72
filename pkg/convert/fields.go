package convert

import (
	"github.com/Sumatoshi-tech/mp2vue/pkg/jsast"
)

// GroupName identifies a FieldGroup.
type GroupName string

// Field groups of a converted module.
const (
	GroupData      GroupName = "data"
	GroupProps     GroupName = "props"
	GroupMethods   GroupName = "methods"
	GroupWatch     GroupName = "watch"
	GroupComputed  GroupName = "computed"
	GroupLifecycle GroupName = "lifecycle"
)

// Field is one named entry of a group. Node is the object literal entry that
// ends up in the emitted tree; edits made through it are visible in the output.
type Field struct {
	Node *jsast.Node
	// Name is the key the entry is emitted under.
	Name string
	// Origin is the key the entry had in the source when it was renamed.
	Origin string
}

// FieldGroup is an ordered, name-unique sequence of entries. Entries without
// a static name (spreads, computed keys) are kept in order but not indexed.
type FieldGroup struct {
	index  map[string]int
	name   GroupName
	fields []Field
}

func newFieldGroup(name GroupName) *FieldGroup {
	return &FieldGroup{name: name, index: make(map[string]int)}
}

// Name returns the group identifier.
func (group *FieldGroup) Name() GroupName {
	return group.name
}

// Add appends an entry. It returns false, leaving the group unchanged, when
// the name is already present.
func (group *FieldGroup) Add(field Field) bool {
	if field.Name != "" {
		if _, dup := group.index[field.Name]; dup {
			return false
		}

		group.index[field.Name] = len(group.fields)
	}

	if field.Origin == "" {
		field.Origin = field.Name
	}

	group.fields = append(group.fields, field)

	return true
}

// Has reports whether an entry with the name exists.
func (group *FieldGroup) Has(name string) bool {
	_, ok := group.index[name]

	return ok
}

// Get returns the entry with the given name.
func (group *FieldGroup) Get(name string) (Field, bool) {
	idx, ok := group.index[name]
	if !ok {
		return Field{}, false
	}

	return group.fields[idx], true
}

// Len returns the number of entries.
func (group *FieldGroup) Len() int {
	return len(group.fields)
}

// Fields returns the entries in order. The slice must not be modified.
func (group *FieldGroup) Fields() []Field {
	return group.fields
}

// Names returns the static names in order.
func (group *FieldGroup) Names() []string {
	names := make([]string, 0, len(group.fields))

	for _, field := range group.fields {
		if field.Name != "" {
			names = append(names, field.Name)
		}
	}

	return names
}

// Nodes returns the entry nodes in order.
func (group *FieldGroup) Nodes() []*jsast.Node {
	nodes := make([]*jsast.Node, len(group.fields))

	for idx, field := range group.fields {
		nodes[idx] = field.Node
	}

	return nodes
}

// Rename changes the key of an entry in place, both in the group and in the
// tree. It returns false when from is missing or to is taken.
func (group *FieldGroup) Rename(from, to string) bool {
	idx, ok := group.index[from]
	if !ok || group.Has(to) {
		return false
	}

	field := &group.fields[idx]
	field.Node = jsast.SetPropertyName(field.Node, to)
	field.Name = to

	delete(group.index, from)
	group.index[to] = idx

	return true
}

// Groups holds the six field groups of a module.
type Groups struct {
	Data      *FieldGroup
	Props     *FieldGroup
	Methods   *FieldGroup
	Watch     *FieldGroup
	Computed  *FieldGroup
	Lifecycle *FieldGroup
}

func newGroups() *Groups {
	return &Groups{
		Data:      newFieldGroup(GroupData),
		Props:     newFieldGroup(GroupProps),
		Methods:   newFieldGroup(GroupMethods),
		Watch:     newFieldGroup(GroupWatch),
		Computed:  newFieldGroup(GroupComputed),
		Lifecycle: newFieldGroup(GroupLifecycle),
	}
}

// All returns the groups in skeleton order.
func (groups *Groups) All() []*FieldGroup {
	return []*FieldGroup{groups.Props, groups.Data, groups.Watch, groups.Computed, groups.Lifecycle, groups.Methods}
}

// Callable reports whether name is a method or lifecycle key.
func (groups *Groups) Callable(name string) bool {
	return groups.Methods.Has(name) || groups.Lifecycle.Has(name)
}
