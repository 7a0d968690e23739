package typemix_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/typemix"
	"github.com/reoring/typemix/codec"
	"github.com/reoring/typemix/samples"
)

type level string

type event struct {
	At    codec.Timestamp
	Level level
	Tags  map[string]int
	Notes []string
}

func fullHuman() samples.Human {
	return samples.Human{
		ID:   7,
		Name: "Tom",
		Favorites: typemix.List[samples.Food]{
			{Name: "Apple", NamesByLang: typemix.Some(typemix.Dict[string]{"en": "Apple", "ja": "りんご"})},
			{Name: "Orange"},
		},
	}
}

func TestProject_NoneHandling(t *testing.T) {
	m := samples.Machine{ID: 1, Name: "mixer"}

	out, err := typemix.ToDict(m)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": 1, "name": "mixer"}, out)

	out, err = typemix.ToDict(m, typemix.ProjectOpt{KeepNone: true})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": 1, "name": "mixer", "color": nil}, out)
}

func TestProject_Transformers(t *testing.T) {
	m := samples.Machine{ID: 1, Name: "mixer", Color: typemix.Some(samples.Green)}

	out, err := typemix.ToDict(m)
	require.NoError(t, err)
	assert.Equal(t, "green", out["color"])

	out, err = typemix.ToDict(m, typemix.ProjectOpt{KeepTyped: true})
	require.NoError(t, err)
	assert.Equal(t, samples.Green, out["color"])
}

func TestProject_IgnoreEmpty(t *testing.T) {
	h := samples.Human{ID: 1, Name: "Tom"}

	out, err := typemix.ToDict(h)
	require.NoError(t, err)
	assert.Equal(t, []any{}, out["favorites"])

	out, err = typemix.ToDict(h, typemix.ProjectOpt{IgnoreEmpty: true})
	require.NoError(t, err)
	assert.NotContains(t, out, "favorites")
}

type zeroish struct {
	Name  string
	Count int
	On    bool
	Tags  map[string]int
	Notes []string
}

func TestProject_IgnoreEmptyKeepsZeroScalars(t *testing.T) {
	z := zeroish{Tags: map[string]int{}, Notes: []string{}}
	out, err := typemix.ToDict(z, typemix.ProjectOpt{IgnoreEmpty: true})
	require.NoError(t, err)
	assert.Len(t, out, 3)
	assert.Equal(t, "", out["name"])
	assert.EqualValues(t, 0, out["count"])
	assert.Equal(t, false, out["on"])
	assert.NotContains(t, out, "tags")
	assert.NotContains(t, out, "notes")
}

func TestProject_ScalarsAndCodecs(t *testing.T) {
	e := event{
		At:    codec.At(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)),
		Level: "warn",
		Tags:  map[string]int{"a": 1},
	}
	out, err := typemix.ToDict(e)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"at":    "2025-01-02T03:04:05Z",
		"level": "warn",
		"tags":  map[string]any{"a": 1},
		"notes": []any{},
	}, out)

	back, err := typemix.Bind[event](out)
	require.NoError(t, err)
	assert.True(t, back.At.Equal(e.At.Time))
	assert.Equal(t, e.Level, back.Level)
}

func TestProject_RoundTrip(t *testing.T) {
	x := fullHuman()
	projected, err := typemix.Project(x, typemix.ProjectOpt{KeepNone: true})
	require.NoError(t, err)
	back, err := typemix.Bind[samples.Human](projected)
	require.NoError(t, err)
	assert.Equal(t, x, back)
}

func TestProject_Lists(t *testing.T) {
	rows, err := typemix.ToDicts([]samples.Machine{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}})
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{{"id": 1, "name": "a"}, {"id": 2, "name": "b"}}, rows)

	_, err = typemix.ToDicts([]int{1})
	assert.Error(t, err)

	_, err = typemix.Project(map[int]string{1: "a"})
	assert.Error(t, err)

	out, err := typemix.Project(nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestToJSON(t *testing.T) {
	h := samples.Human{ID: 1, Name: "Tom", Favorites: typemix.List[samples.Food]{{Name: "Apple"}}}
	s, err := typemix.ToJSON(h)
	require.NoError(t, err)
	assert.Equal(t, `{"favorites": [{"name": "Apple"}],"id": 1,"name": "Tom"}`, s)

	p, err := typemix.ToPrettyJSON(h)
	require.NoError(t, err)
	want := "{\n" +
		"    \"favorites\": [\n" +
		"        {\n" +
		"            \"name\": \"Apple\"\n" +
		"        }\n" +
		"    ],\n" +
		"    \"id\": 1,\n" +
		"    \"name\": \"Tom\"\n" +
		"}"
	assert.Equal(t, want, p)
}

func TestToJSON_Deterministic(t *testing.T) {
	x := fullHuman()
	first, err := typemix.ToJSON(x)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := typemix.ToJSON(x)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	y, err := typemix.ToYAML(x)
	require.NoError(t, err)
	y2, err := typemix.ToYAML(x)
	require.NoError(t, err)
	assert.Equal(t, y, y2)
}

func TestToYAML_RoundTrip(t *testing.T) {
	x := fullHuman()
	y, err := typemix.ToYAML(x)
	require.NoError(t, err)
	assert.Contains(t, y, "name: Tom\n")
	assert.Contains(t, y, "ja: りんご")

	back, err := typemix.BindYAML[samples.Human]([]byte(y))
	require.NoError(t, err)
	assert.Equal(t, x, back)
}

func TestToCSV(t *testing.T) {
	x := fullHuman()
	cols := typemix.Columns(
		typemix.FieldOf(func(f *samples.Food) *string { return &f.Name }),
		typemix.FieldOf(func(f *samples.Food) *typemix.Option[typemix.Dict[string]] { return &f.NamesByLang }),
	)
	s, err := typemix.ToCSV(x.Favorites, typemix.CSVOpt{Fields: cols, Header: true})
	require.NoError(t, err)
	assert.Equal(t, "name,names_by_lang\nApple,\"{'en': 'Apple','ja': 'りんご'}\"\nOrange,\n", s)

	s, err = typemix.ToCSV(samples.Machine{ID: 1, Name: "a"}, typemix.CSVOpt{Tab: true, CRLF: true})
	require.NoError(t, err)
	assert.Equal(t, "1\ta\r\n", s)
}

func TestToTable(t *testing.T) {
	s, err := typemix.ToTable([]samples.Machine{
		{ID: 1, Name: "mixer", Color: typemix.Some(samples.Red)},
		{ID: 20, Name: "oven"},
	}, typemix.TableOpt{Fields: []string{"id", "name", "color"}})
	require.NoError(t, err)
	want := "" +
		"| id  | name  | color |\n" +
		"| --- | ----- | ----- |\n" +
		"| 1   | mixer | red   |\n" +
		"| 20  | oven  |       |\n"
	assert.Equal(t, want, s)
}
