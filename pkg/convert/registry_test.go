package convert_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/mp2vue/pkg/convert"
)

func TestRegistry_PublishIsWriteOnce(t *testing.T) {
	t.Parallel()

	reg := convert.NewRegistry()

	assert.True(t, reg.Publish(convert.RegistryEntry{Path: "pages/a/a.js", Kind: convert.KindPage}))
	assert.False(t, reg.Publish(convert.RegistryEntry{Path: "pages/a/a", Kind: convert.KindComponent}))

	entry, ok := reg.Lookup("./pages/a/a")
	require.True(t, ok)
	assert.Equal(t, convert.KindPage, entry.Kind)

	_, ok = reg.Lookup("pages/missing")
	assert.False(t, ok)
}

func TestRegistry_App(t *testing.T) {
	t.Parallel()

	reg := convert.NewRegistry()

	_, ok := reg.App()
	assert.False(t, ok)

	reg.Publish(convert.RegistryEntry{Path: "app.js", Kind: convert.KindApp, GlobalValues: []string{"user"}, GlobalFunctions: []string{"login"}})

	app, ok := reg.App()
	require.True(t, ok)
	assert.True(t, app.GlobalMember("user"))
	assert.True(t, app.GlobalMember("login"))
	assert.False(t, app.GlobalMember("onLaunch"))
}

func TestRegistry_ConcurrentPublish(t *testing.T) {
	t.Parallel()

	reg := convert.NewRegistry()

	var wg sync.WaitGroup

	for i := range 50 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			path := fmt.Sprintf("pages/p%d/p%d.js", i%10, i%10)
			reg.Publish(convert.RegistryEntry{Path: path, Kind: convert.KindPage})
			reg.Lookup(path)
		}()
	}

	wg.Wait()

	assert.Equal(t, 10, reg.Len())
}
