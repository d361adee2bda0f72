package jsast_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/mp2vue/pkg/jsast"
)

func parse(t *testing.T, src string) *jsast.Node {
	t.Helper()

	root, err := jsast.NewParser().Parse(context.Background(), []byte(src))
	require.NoError(t, err)

	return root
}

func TestParse_RoundTripIsLossless(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"comments", "// header\nconst a = 1; /* inline */\n\n// trailing\n"},
		{"template", "const s = `a ${b + 1} c\n  d`;\n"},
		{"regex", "const re = /a+b/gi;\n"},
		{"page", "Page({\n  data: {\n    n: 1, // count\n  },\n  onLoad() {\n    this.setData({ n: 2 })\n  }\n})\n"},
		{"no trailing newline", "export default {}"},
		{"crlf", "var a = 1;\r\nvar b = 2;\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.src, jsast.Print(parse(t, tt.src)))
		})
	}
}

func TestParse_SyntaxError(t *testing.T) {
	t.Parallel()

	_, err := jsast.NewParser().Parse(context.Background(), []byte("const = ;"))

	require.Error(t, err)
	assert.ErrorIs(t, err, jsast.ErrSyntax)
}

func TestParse_RecordsFields(t *testing.T) {
	t.Parallel()

	root := parse(t, "this.data.a = 1;")

	assign := root.FirstNamedChild().FirstNamedChild()
	require.Equal(t, jsast.TypeAssignmentExpression, assign.Type)

	left := assign.ChildByField("left")
	require.Equal(t, jsast.TypeMemberExpression, left.Type)
	assert.Equal(t, "a", left.ChildByField("property").Text())

	inner := left.ChildByField("object")
	assert.Equal(t, "this.data", inner.Text())
	assert.Equal(t, jsast.TypeThis, inner.ChildByField("object").Type)
	assert.Equal(t, "1", assign.ChildByField("right").Text())
}

func TestParse_CommentsStayInTrivia(t *testing.T) {
	t.Parallel()

	root := parse(t, "a(/* x */ b)")

	assert.Empty(t, jsast.FindType(root, jsast.TypeComment))

	call := jsast.FindType(root, jsast.TypeCallExpression)[0]
	arg := jsast.CallArguments(call)[0]

	assert.Equal(t, "/* x */ ", arg.LeadingTrivia())
	assert.Equal(t, "b", arg.Text())
}

func TestExpression_Detached(t *testing.T) {
	t.Parallel()

	expr, err := jsast.Expression("{detail: payload}")
	require.NoError(t, err)

	assert.Nil(t, expr.Parent)
	assert.Equal(t, jsast.TypeObject, expr.Type)
	assert.Equal(t, "{detail: payload}", jsast.Print(expr))
}

func TestEntry_Method(t *testing.T) {
	t.Parallel()

	entry, err := jsast.Entry("onLoad(options) { return 1 }")
	require.NoError(t, err)

	assert.Equal(t, jsast.TypeMethodDefinition, entry.Type)
	assert.Equal(t, "onLoad", jsast.PropertyName(entry))
}

func TestSubstitute(t *testing.T) {
	t.Parallel()

	obj := jsast.MustExpression("{detail: PAYLOAD, again: PAYLOAD}")
	count := jsast.Substitute(obj, "PAYLOAD", jsast.MustExpression("x + 1"))

	assert.Equal(t, 2, count)
	assert.Equal(t, "{detail: x + 1, again: x + 1}", jsast.Print(obj))
}

func TestWrapMember(t *testing.T) {
	t.Parallel()

	root := parse(t, "app.login();")
	app := jsast.FindType(root, jsast.TypeIdentifier)[0]

	member := jsast.WrapMember(app, "globalData")

	assert.Equal(t, "app.globalData", member.Text())
	assert.Equal(t, "app.globalData.login();", jsast.Print(root))
}

func TestSetStringValue(t *testing.T) {
	t.Parallel()

	root := parse(t, `const a = "img/a.png";`)
	str := jsast.FindType(root, jsast.TypeString)[0]

	assert.Equal(t, "img/a.png", jsast.StringValue(str))

	jsast.SetStringValue(str, "/static/img/a.png")

	assert.Equal(t, `const a = "/static/img/a.png";`, jsast.Print(root))
}

func TestFindType_PreOrder(t *testing.T) {
	t.Parallel()

	root := parse(t, "a(b(c))")

	var got []string
	for _, call := range jsast.FindType(root, jsast.TypeCallExpression) {
		got = append(got, call.Text())
	}

	if diff := cmp.Diff([]string{"a(b(c))", "b(c)"}, got); diff != "" {
		t.Errorf("FindType mismatch (-want +got):\n%s", diff)
	}
}

func TestIsIdentifierName(t *testing.T) {
	t.Parallel()

	assert.True(t, jsast.IsIdentifierName("$emit"))
	assert.True(t, jsast.IsIdentifierName("a1"))
	assert.False(t, jsast.IsIdentifierName("1a"))
	assert.False(t, jsast.IsIdentifierName("a-b"))
	assert.False(t, jsast.IsIdentifierName(""))
}
