package jsast //nolint:testpackage // Tests need access to internal helpers.

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeTestTree builds `foo(bar, 1)` by hand:
//
//	call_expression
//	├── function: identifier foo
//	└── arguments: ( identifier bar , number 1 )
func makeTestTree() *Node {
	call := &Node{Type: TypeCallExpression, Named: true}
	callee := &Node{Type: TypeIdentifier, Token: "foo", Named: true, Field: "function"}
	args := &Node{Type: TypeArguments, Named: true, Field: "arguments"}

	call.AppendChild(callee, args)
	args.AppendChild(
		NewLeaf("(", "(", false),
		NewLeaf(TypeIdentifier, "bar", true),
		NewLeaf(",", ",", false),
		&Node{Type: TypeNumber, Token: "1", Lead: " ", Named: true},
		NewLeaf(")", ")", false),
	)

	return call
}

func TestPrint_HandBuiltTree(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "foo(bar, 1)", Print(makeTestTree()))
}

func TestNode_Navigation(t *testing.T) {
	t.Parallel()

	call := makeTestTree()
	args := call.ChildByField("arguments")
	require.NotNil(t, args)

	named := args.NamedChildren()
	require.Len(t, named, 2)

	assert.Equal(t, "bar", named[0].Token)
	assert.Equal(t, "foo", call.FirstLeaf().Token)
	assert.Equal(t, ")", call.LastLeaf().Token)
	assert.Equal(t, call, named[1].Root())
	assert.Equal(t, args, named[1].Closest(TypeArguments))
	assert.True(t, named[1].IsDescendantOf(call))
	assert.Equal(t, ",", named[0].NextSibling().Token)
	assert.Equal(t, 1, named[0].Index())
	assert.Nil(t, call.ChildByField("missing"))
}

func TestNode_ReplaceKeepsFieldAndLead(t *testing.T) {
	t.Parallel()

	call := makeTestTree()
	one := call.ChildByField("arguments").NamedChildren()[1]

	two := NewLeaf(TypeNumber, "2", true)
	require.True(t, one.Replace(two))

	assert.Equal(t, "foo(bar, 2)", Print(call))
	assert.Nil(t, one.Parent)
	assert.Equal(t, call.ChildByField("arguments"), two.Parent)

	assert.False(t, NewIdentifier("x").Replace(two), "detached nodes cannot be replaced")
}

func TestNode_CloneIsDeep(t *testing.T) {
	t.Parallel()

	call := makeTestTree()
	dup := call.Clone()

	dup.ChildByField("function").Token = "baz"

	assert.Equal(t, "foo(bar, 1)", Print(call))
	assert.Equal(t, "baz(bar, 1)", Print(dup))
	assert.Nil(t, dup.Parent)

	for _, child := range dup.Children {
		assert.Same(t, dup, child.Parent)
	}
}

func TestNode_DetachAndInsert(t *testing.T) {
	t.Parallel()

	call := makeTestTree()
	args := call.ChildByField("arguments")
	bar := args.NamedChildren()[0]

	bar.Detach()
	args.InsertChild(1, NewIdentifier("qux"))

	assert.Equal(t, "foo(qux, 1)", Print(call))
	assert.Nil(t, bar.Parent)
}

func TestNode_Text(t *testing.T) {
	t.Parallel()

	call := makeTestTree()
	one := call.ChildByField("arguments").NamedChildren()[1]

	assert.Equal(t, " ", one.LeadingTrivia())
	assert.Equal(t, "1", one.Text())
}

func TestNode_String(t *testing.T) {
	t.Parallel()

	want := `(call_expression function: (identifier foo) arguments: (arguments "(" (identifier bar) "," (number 1) ")"))`

	if diff := cmp.Diff(want, makeTestTree().String()); diff != "" {
		t.Errorf("String() mismatch (-want +got):\n%s", diff)
	}
}

func TestReindentText(t *testing.T) {
	t.Parallel()

	got := reindentText("\n    a\n  b\n    c", "    ", "      ")

	assert.Equal(t, "\n      a\n  b\n      c", got)
}

func TestLastLineIndent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "  ", lastLineIndent("\n  // note\n  "))
	assert.Equal(t, "\t", lastLineIndent("\n\t"))
	assert.Empty(t, lastLineIndent(" "))
}
