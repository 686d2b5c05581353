// Package cookies merges bridge-read cookies with attributes the host's
// underlying cookie jar doesn't always round-trip faithfully (SameSite in
// particular varies across WebView hosts), keyed by (domain, path, name) as
// spec.md §4.A's Cookie data model implies. samber/lo drives the merge's
// list transforms, the way internal/registry uses it for handle batches.
package cookies

import (
	"sync"

	"github.com/samber/lo"

	"github.com/tauri-apps/wry-webdriver/internal/bridge"
)

type key struct {
	domain, path, name string
}

// Cache remembers the last SetCookie call's attributes per (domain, path,
// name), so GetCookies can restore fields a host's bridge silently drops.
type Cache struct {
	mu   sync.Mutex
	seen map[key]bridge.Cookie
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{seen: make(map[key]bridge.Cookie)}
}

// Remember records the attributes a SetCookie call asked for.
func (c *Cache) Remember(ck bridge.Cookie) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen[key{ck.Domain, ck.Path, ck.Name}] = ck
}

// Forget drops a single cached entry, called alongside DeleteCookie.
func (c *Cache) Forget(domain, path, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.seen, key{domain, path, name})
}

// Clear drops every cached entry, called alongside DeleteAllCookies.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen = make(map[key]bridge.Cookie)
}

// Merge overlays cached attributes (SameSite, Expiry) onto the bridge's
// freshly-read cookies, keeping the bridge's Value/Secure/HTTPOnly as the
// source of truth for anything the host actually reports.
func (c *Cache) Merge(fromBridge []bridge.Cookie) []bridge.Cookie {
	c.mu.Lock()
	defer c.mu.Unlock()
	return lo.Map(fromBridge, func(ck bridge.Cookie, _ int) bridge.Cookie {
		cached, ok := c.seen[key{ck.Domain, ck.Path, ck.Name}]
		if !ok {
			return ck
		}
		if ck.SameSite == nil {
			ck.SameSite = cached.SameSite
		}
		if ck.Expiry == nil {
			ck.Expiry = cached.Expiry
		}
		return ck
	})
}

// FindByName returns the first cookie matching name, or false.
func FindByName(all []bridge.Cookie, name string) (bridge.Cookie, bool) {
	return lo.Find(all, func(ck bridge.Cookie) bool { return ck.Name == name })
}
