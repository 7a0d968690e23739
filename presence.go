package typemix

import "strings"

// Presence is the bit flag collected by BindWithMeta.
type Presence uint8

const (
	PresenceSeen           Presence = 1 << iota // Field appeared in the input.
	PresenceWasNull                             // Field value was null.
	PresenceDefaultApplied                      // Default value was applied.
)

// PresenceMap maps JSON Pointers (from the bound root, "/" for the root
// itself) to Presence flags.
type PresenceMap map[string]Presence

// Decoded carries the bound value along with presence metadata.
type Decoded[T any] struct {
	Value    T
	Presence PresenceMap
}

// Seen reports whether the JSON Pointer was present in the input.
func (pm PresenceMap) Seen(path string) bool { return pm[path]&PresenceSeen != 0 }

// WasNull reports whether the JSON Pointer held an explicit null.
func (pm PresenceMap) WasNull(path string) bool { return pm[path]&PresenceWasNull != 0 }

// DefaultApplied reports whether the value at the JSON Pointer came from a
// default provider.
func (pm PresenceMap) DefaultApplied(path string) bool {
	return pm[path]&PresenceDefaultApplied != 0
}

// AnySeenUnder reports whether path or any of its descendants was present.
func (pm PresenceMap) AnySeenUnder(path string) bool {
	if pm.Seen(path) {
		return true
	}
	prefix := strings.TrimSuffix(path, "/") + "/"
	for k, v := range pm {
		if v&PresenceSeen != 0 && strings.HasPrefix(k, prefix) {
			return true
		}
	}
	return false
}

func (pm PresenceMap) mark(path string, p Presence) {
	if pm == nil {
		return
	}
	pm[rootIfEmpty(path)] |= p
}

func rootIfEmpty(p string) string {
	if p == "" {
		return "/"
	}
	return p
}
