package typemix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/typemix"
	"github.com/reoring/typemix/samples"
)

func TestPresence_Nested(t *testing.T) {
	raw := map[string]any{
		"id":   1,
		"name": "Tom",
		"favorites": []any{
			map[string]any{"name": "Apple", "names_by_lang": nil},
		},
	}
	d, err := typemix.BindWithMeta[samples.Human](raw)
	require.NoError(t, err)

	assert.True(t, d.Presence.Seen("/favorites/0/name"))
	assert.True(t, d.Presence.WasNull("/favorites/0/names_by_lang"))
	assert.True(t, d.Presence.AnySeenUnder("/favorites"))
	assert.True(t, d.Presence.AnySeenUnder("/favorites/0/"))
	assert.False(t, d.Presence.AnySeenUnder("/favorites/1"))
	assert.False(t, d.Presence.Seen("/missing"))
}

func TestPresence_NilMapIsSafe(t *testing.T) {
	var pm typemix.PresenceMap
	assert.False(t, pm.Seen("/"))
	assert.False(t, pm.AnySeenUnder("/a"))
}
