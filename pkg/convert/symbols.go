package convert

import (
	"maps"
	"slices"

	"github.com/Sumatoshi-tech/mp2vue/pkg/jsast"
)

// NameSet is a set of identifiers.
type NameSet map[string]struct{}

// Add inserts names.
func (set NameSet) Add(names ...string) {
	for _, name := range names {
		set[name] = struct{}{}
	}
}

// Has reports membership.
func (set NameSet) Has(name string) bool {
	_, ok := set[name]

	return ok
}

// Sorted returns the names in lexical order.
func (set NameSet) Sorted() []string {
	return slices.Sorted(maps.Keys(set))
}

// TypeTag is the shape of a value written through setData.
type TypeTag uint8

// Inferred value shapes.
const (
	TypeUnknown TypeTag = iota
	TypeString
	TypeNumber
	TypeBoolean
	TypeArray
	TypeObject
	TypeNull
	TypeFunction
)

//nolint:gochecknoglobals // Name table.
var typeTagNames = [...]string{
	TypeUnknown:  "unknown",
	TypeString:   "string",
	TypeNumber:   "number",
	TypeBoolean:  "boolean",
	TypeArray:    "array",
	TypeObject:   "object",
	TypeNull:     "null",
	TypeFunction: "function",
}

func (tag TypeTag) String() string {
	if int(tag) < len(typeTagNames) {
		return typeTagNames[tag]
	}

	return "unknown"
}

// MarshalText renders the tag by name.
func (tag TypeTag) MarshalText() ([]byte, error) {
	return []byte(tag.String()), nil
}

// Zero returns the literal a data field of this shape starts with.
func (tag TypeTag) Zero() string {
	switch tag {
	case TypeString:
		return "''"
	case TypeNumber:
		return "0"
	case TypeBoolean:
		return "false"
	case TypeArray:
		return "[]"
	case TypeObject:
		return "{}"
	default:
		return "null"
	}
}

// inferTypeTag guesses the shape of a value expression from its syntax.
func inferTypeTag(value *jsast.Node) TypeTag {
	if value == nil {
		return TypeUnknown
	}

	value = jsast.Unparen(value)

	switch {
	case value.Is(jsast.TypeString, jsast.TypeTemplateString):
		return TypeString
	case value.Is(jsast.TypeNumber):
		return TypeNumber
	case value.Is(jsast.TypeTrue, jsast.TypeFalse):
		return TypeBoolean
	case value.Is(jsast.TypeArray):
		return TypeArray
	case value.Is(jsast.TypeObject):
		return TypeObject
	case value.Is(jsast.TypeNull):
		return TypeNull
	case jsast.IsFunctionValue(value):
		return TypeFunction
	case value.Is("unary_expression") && value.HasToken("!"):
		return TypeBoolean
	case value.Is("unary_expression") && value.HasToken("-"):
		return TypeNumber
	default:
		return TypeUnknown
	}
}

// SymbolContext is the per-file state shared by the passes of one conversion.
type SymbolContext struct {
	DataNames NameSet
	PropNames NameSet
	// MethodAlias maps a renamed method key to its collision-free alias.
	MethodAlias map[string]string
	// GlobalAppAliases are local names bound to getApp().
	GlobalAppAliases NameSet
	// GlobalStateFunctionNames and GlobalStateValueNames partition the
	// globalData members of an App module.
	GlobalStateFunctionNames NameSet
	GlobalStateValueNames    NameSet
	// InferredFieldTypes records the shapes written through setData.
	InferredFieldTypes map[string]TypeTag

	// aliasAllReads holds the aliases that replace every read, not just calls.
	aliasAllReads NameSet
}

func newSymbolContext() *SymbolContext {
	return &SymbolContext{
		DataNames:                make(NameSet),
		PropNames:                make(NameSet),
		MethodAlias:              make(map[string]string),
		GlobalAppAliases:         make(NameSet),
		GlobalStateFunctionNames: make(NameSet),
		GlobalStateValueNames:    make(NameSet),
		InferredFieldTypes:       make(map[string]TypeTag),
		aliasAllReads:            make(NameSet),
	}
}

// recordFieldType keeps the first concrete shape seen for a field.
func (symbols *SymbolContext) recordFieldType(name string, tag TypeTag) {
	if prev, ok := symbols.InferredFieldTypes[name]; ok && prev != TypeUnknown {
		return
	}

	symbols.InferredFieldTypes[name] = tag
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
