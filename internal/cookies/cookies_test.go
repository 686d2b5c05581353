package cookies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tauri-apps/wry-webdriver/internal/bridge"
)

func sameSitePtr(s bridge.SameSite) *bridge.SameSite { return &s }

func TestMergeRestoresCachedSameSite(t *testing.T) {
	c := New()
	c.Remember(bridge.Cookie{Name: "a", Domain: "example.test", Path: "/", SameSite: sameSitePtr(bridge.SameSiteStrict)})

	merged := c.Merge([]bridge.Cookie{{Name: "a", Domain: "example.test", Path: "/", Value: "1"}})
	require.Len(t, merged, 1)
	require.NotNil(t, merged[0].SameSite)
	assert.Equal(t, bridge.SameSiteStrict, *merged[0].SameSite)
	assert.Equal(t, "1", merged[0].Value)
}

func TestMergeLeavesUncachedCookiesAlone(t *testing.T) {
	c := New()
	merged := c.Merge([]bridge.Cookie{{Name: "b", Value: "2"}})
	require.Len(t, merged, 1)
	assert.Nil(t, merged[0].SameSite)
}

func TestForgetAndClear(t *testing.T) {
	c := New()
	c.Remember(bridge.Cookie{Name: "a", Domain: "d", Path: "/", SameSite: sameSitePtr(bridge.SameSiteLax)})
	c.Forget("d", "/", "a")
	merged := c.Merge([]bridge.Cookie{{Name: "a", Domain: "d", Path: "/"}})
	assert.Nil(t, merged[0].SameSite)

	c.Remember(bridge.Cookie{Name: "x", Domain: "d", Path: "/", SameSite: sameSitePtr(bridge.SameSiteNone)})
	c.Clear()
	merged = c.Merge([]bridge.Cookie{{Name: "x", Domain: "d", Path: "/"}})
	assert.Nil(t, merged[0].SameSite)
}

func TestFindByName(t *testing.T) {
	all := []bridge.Cookie{{Name: "a"}, {Name: "b", Value: "2"}}
	got, ok := FindByName(all, "b")
	require.True(t, ok)
	assert.Equal(t, "2", got.Value)

	_, ok = FindByName(all, "missing")
	assert.False(t, ok)
}
