package convert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/mp2vue/pkg/convert"
	"github.com/Sumatoshi-tech/mp2vue/pkg/jsast"
)

func classify(t *testing.T, src string, scriptOnly bool) convert.Classification {
	t.Helper()

	root, err := jsast.Program(src)
	require.NoError(t, err)

	return convert.Classify(root, scriptOnly)
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want convert.Kind
	}{
		{"page", "Page({})", convert.KindPage},
		{"component", "Component({ methods: {} })", convert.KindComponent},
		{"vant", "import { VantComponent } from '../common/component'\nVantComponent({})", convert.KindVantComponent},
		{"behavior", "module.exports = Behavior({})", convert.KindBehavior},
		{"exported behavior", "export default Behavior({})", convert.KindBehavior},
		{"declared behavior", "const b = Behavior({})\nexport default b", convert.KindBehavior},
		{"factory behavior", "export default function (a) { return Behavior({}) }", convert.KindBehavior2},
		{"arrow factory behavior", "export const make = (a) => Behavior({})", convert.KindBehavior2},
		{"function declaration factory", "function make() { return Behavior({}) }", convert.KindBehavior2},
		{"app", "App({ onLaunch() {} })", convert.KindApp},
		{"page wins over app", "App({})\nPage({})", convert.KindPage},
		{"webpack", "var x = __webpack_require__(1)", convert.KindWebpack},
		{"webpack jsonp", "(window.webpackJsonp = window.webpackJsonp || []).push([])", convert.KindWebpack},
		{"plain", "const util = require('./util')\nmodule.exports = { util }", convert.KindPlainScript},
		{"nested call is not a registration", "function f() { Page({}) }", convert.KindPlainScript},
		{"empty", "", convert.KindPlainScript},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			first := classify(t, tt.src, false)
			second := classify(t, tt.src, false)

			assert.Equal(t, tt.want, first.Kind)
			assert.Equal(t, first.Kind, second.Kind, "classification is deterministic")
			assert.False(t, first.AlreadyTarget)
		})
	}
}

func TestClassify_AlreadyTarget(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		want bool
	}{
		{"export default { data() { return {} } }", true},
		{"export default { methods: {} }", true},
		{"export default { mixins: [a] }", true},
		{"export default { name: 'x' }", false},
		{"export default Page({ data: {} })", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, classify(t, tt.src, false).AlreadyTarget, tt.src)
	}
}

func TestClassify_ScriptOnlyPage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, convert.KindPlainScript, classify(t, "Page({})", true).Kind)
	assert.Equal(t, convert.KindComponent, classify(t, "Component({})", true).Kind)
}

func TestClassify_Options(t *testing.T) {
	t.Parallel()

	found := classify(t, "Page(({ data: {} }))", false)

	require.NotNil(t, found.Options)
	assert.Equal(t, "{ data: {} }", found.Options.Text())
	assert.Equal(t, "Page(({ data: {} }))", found.Call.Text())

	assert.Nil(t, classify(t, "Page(opts)", false).Options)
}

func TestKind(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "VantComponent", convert.KindVantComponent.String())
	assert.Equal(t, "Unknown", convert.Kind(200).String())

	text, err := convert.KindBehavior2.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "Behavior2", string(text))

	assert.True(t, convert.KindApp.Transformed())
	assert.False(t, convert.KindWebpack.Transformed())
	assert.True(t, convert.KindPage.SingleFile())
	assert.False(t, convert.KindBehavior.SingleFile())
}
