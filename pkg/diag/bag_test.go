package diag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/mp2vue/pkg/diag"
)

func TestBag_ReportFillsPath(t *testing.T) {
	t.Parallel()

	bag := diag.NewBag("pages/index/index.js")
	bag.Warn(diag.CodeNameCollision, "method %q renamed to %q", "onLoad", "onLoadFun")

	require.Equal(t, 1, bag.Len())

	got := bag.Items()[0]
	assert.Equal(t, diag.SevWarning, got.Severity)
	assert.Equal(t, diag.CodeNameCollision, got.Code)
	assert.Equal(t, `method "onLoad" renamed to "onLoadFun"`, got.Message)
	assert.Equal(t, "pages/index/index.js", got.FilePath)
	assert.False(t, bag.HasErrors())
}

func TestBag_SortAndMerge(t *testing.T) {
	t.Parallel()

	first := diag.NewBag("b.js")
	first.Info(diag.CodeBundledModule, "bundle")
	first.Error(diag.CodeReservedIdentifier, "reserved")

	second := diag.NewBag("a.js")
	second.Warn(diag.CodeUnsupportedAPI, "plugin")

	first.Merge(second)
	first.Sort()

	var order []string
	for _, d := range first.Items() {
		order = append(order, d.FilePath+":"+d.Severity.String())
	}

	assert.Equal(t, []string{"a.js:WARNING", "b.js:ERROR", "b.js:INFO"}, order)
	assert.True(t, first.HasErrors())
	assert.Equal(t, map[diag.Severity]int{diag.SevInfo: 1, diag.SevWarning: 1, diag.SevError: 1}, first.CountBySeverity())
}

func TestSeverity_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sev  diag.Severity
		want string
	}{
		{diag.SevInfo, "INFO"},
		{diag.SevWarning, "WARNING"},
		{diag.SevError, "ERROR"},
		{diag.Severity(9), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.sev.String())

			text, err := tt.sev.MarshalText()
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(text))
		})
	}
}
