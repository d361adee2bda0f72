package convert //nolint:testpackage // Tests need access to internal helpers.

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/mp2vue/pkg/jsast"
)

func TestNormalizeSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"export default app", "App({})\nexport default App;\n", "App({})\n\n"},
		{"export default app without semicolon", "App({})\nexport default App\n", "App({})\n\n"},
		{"export of a longer name", "export default AppConfig\nPage({})", "export default AppConfig\nPage({})"},
		{"getApp page", "getApp().page({\n})", "Page({\n})"},
		{"exports default", "exports.default = App({})", "App({})"},
		{"chained page", "a(), Page({})", "a(); Page({})"},
		{"untouched", "Page({})", "Page({})"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, normalizeSource(tt.src))
		})
	}
}

func TestFieldGroup(t *testing.T) {
	t.Parallel()

	group := newFieldGroup(GroupMethods)

	assert.True(t, group.Add(Field{Name: "a", Node: jsast.MustEntry("a() {}")}))
	assert.True(t, group.Add(Field{Node: jsast.MustEntry("...mixin")}))
	assert.True(t, group.Add(Field{Name: "b", Node: jsast.MustEntry("b: 1")}))
	assert.False(t, group.Add(Field{Name: "a", Node: jsast.MustEntry("a: 2")}))

	assert.Equal(t, 3, group.Len())
	assert.Equal(t, []string{"a", "b"}, group.Names())

	require.True(t, group.Rename("a", "aFun"))
	assert.False(t, group.Rename("b", "aFun"))
	assert.False(t, group.Rename("missing", "x"))

	field, ok := group.Get("aFun")
	require.True(t, ok)
	assert.Equal(t, "a", field.Origin)
	assert.Equal(t, "aFun() {}", jsast.Print(field.Node))
	assert.Equal(t, []string{"aFun", "b"}, group.Names())
}

func TestFreeName(t *testing.T) {
	t.Parallel()

	u := &unit{groups: newGroups()}
	u.groups.Methods.Add(Field{Name: "onLoadClone"})
	u.groups.Data.Add(Field{Name: "onLoadClone2"})

	assert.Equal(t, "go", u.freeName("go"))
	assert.Equal(t, "onLoadClone3", u.freeName("onLoadClone"))
}

func TestTypeTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		want TypeTag
	}{
		{"'x'", TypeString},
		{"`x`", TypeString},
		{"1.5", TypeNumber},
		{"-1", TypeNumber},
		{"true", TypeBoolean},
		{"[]", TypeArray},
		{"{}", TypeObject},
		{"null", TypeNull},
		{"() => 1", TypeFunction},
		{"a.b", TypeUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, inferTypeTag(jsast.MustExpression(tt.src)), tt.src)
	}

	assert.Equal(t, "''", TypeString.Zero())
	assert.Equal(t, "null", TypeUnknown.Zero())
}

func TestObserverHelpers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "b.c", "d.**"}, splitObserverPaths("a, b.c ,d.**,"))
	assert.Equal(t, "this.list[0].name", thisPath("list[0].name"))
	assert.Equal(t, "this['0x']", thisPath("0x"))
}

func TestComponentHelpers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "myCardItem", camelCase("my-card-item"))
	assert.Equal(t, "card", camelCase("card"))

	assert.Equal(t, "../../components/c/c", relativeImport("pages/home", "/components/c/c"))
	assert.Equal(t, "./c/c", relativeImport(".", "/c/c"))
	assert.Equal(t, "../c/c", relativeImport("pages/home", "../c/c"))

	assert.Equal(t, "components/c/c", modulePath("pages/home", "/components/c/c"))
	assert.Equal(t, "pages/c/c", modulePath("pages/home", "../c/c"))
}

func TestRenamePlatformKeyword_SkipsBoundTarget(t *testing.T) {
	t.Parallel()

	root, err := jsast.Program("const uni = 1\nwx.a()\n")
	require.NoError(t, err)

	assert.False(t, renamePlatformKeyword(root, jsast.Analyze(root), "wx"))
	assert.Equal(t, "const uni = 1\nwx.a()\n", jsast.Print(root))
}

func TestEmit_ParenthesizesFunctionCallee(t *testing.T) {
	t.Parallel()

	root, err := jsast.Program("f()\n")
	require.NoError(t, err)

	call := jsast.FindType(root, jsast.TypeCallExpression)[0]
	call.ChildByField("function").Replace(jsast.MustExpression("function () {}"))

	assert.Equal(t, "(function () {})()\n", emit(root))
}
