package keys

import (
	"crypto/sha256"
	"encoding/hex"
)

// Cache returns the deterministic storage key for one client configuration.
// Two clients with identical (endpoint, site, version) compute identical
// keys across processes; a differing version yields a different key, which
// is the cache-busting mechanism. The components are hashed with a NUL
// separator so no combination of values can collide by concatenation.
func Cache(prefix, endpoint, site, version string) string {
	h := sha256.New()
	h.Write([]byte(endpoint))
	h.Write([]byte{0})
	h.Write([]byte(site))
	h.Write([]byte{0})
	h.Write([]byte(version))
	sum := h.Sum(nil)
	return prefix + ":" + hex.EncodeToString(sum[:8])
}
