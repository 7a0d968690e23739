package samples_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/typemix"
	"github.com/reoring/typemix/samples"
)

func TestColor_Symbols(t *testing.T) {
	var c samples.Color
	require.NoError(t, c.FromSymbol("green"))
	assert.Equal(t, samples.Green, c)
	assert.Equal(t, "green", c.String())
	assert.Equal(t, "緑", c.Japanese())

	assert.Error(t, c.FromSymbol("pink"))
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"food", "human", "machine", "spot"}, samples.Names())

	bind, ok := samples.Lookup("human")
	require.True(t, ok)
	v, err := bind(map[string]any{"id": 1, "name": "Tom", "favorites": []any{}}, typemix.BindOpt{})
	require.NoError(t, err)
	assert.Equal(t, samples.Human{ID: 1, Name: "Tom", Favorites: typemix.List[samples.Food]{}}, v)

	v, err = bind([]any{map[string]any{"id": 2, "name": "Ann", "favorites": []any{}}}, typemix.BindOpt{})
	require.NoError(t, err)
	assert.IsType(t, typemix.List[samples.Human]{}, v)

	_, ok = samples.Lookup("robot")
	assert.False(t, ok)

	desc, ok := samples.Describe("human")
	require.True(t, ok)
	assert.Equal(t, "samples.Human{id: int, name: string, favorites: List[Food]}", desc)
}

func TestSpot_SelfReference(t *testing.T) {
	raw := map[string]any{
		"id": 1, "name": "park",
		"children": []any{map[string]any{"id": 2, "name": "pond", "note": "deep"}},
	}
	s, err := typemix.Bind[samples.Spot](raw)
	require.NoError(t, err)
	kids := s.Children.MustGet()
	require.Equal(t, 1, kids.Size())
	assert.Equal(t, "deep", kids[0].Note.MustGet())
	assert.True(t, kids[0].Children.IsNone())
}
