package version_test

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/mp2vue/pkg/version"
)

func TestGet(t *testing.T) {
	t.Parallel()

	info := version.Get()

	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.Commit)
	assert.Equal(t, runtime.Version(), info.GoVersion)
}

func TestInfo_String(t *testing.T) {
	t.Parallel()

	info := version.Info{Version: "v1.2.0", Commit: "0123456789abcdef", GoVersion: "go1.24.5"}

	assert.Equal(t, "mp2vue v1.2.0 (0123456789ab) go1.24.5", info.String())
	assert.True(t, strings.HasPrefix(version.Get().String(), "mp2vue "))
}
