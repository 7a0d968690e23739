package typemix_test

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/typemix"
	"github.com/reoring/typemix/samples"
)

type Base struct {
	CreatedBy string
}

type withEmbedded struct {
	Base
	Title   string `json:"headline,omitempty"`
	private int
}

type badKey struct {
	Lookup map[int]string
}

type badExtra struct {
	Extra map[string]string `typemix:",extra"`
}

type dupName struct {
	A string `typemix:"name=x"`
	B string `json:"x"`
}

type badDefault struct {
	Level string
}

func (badDefault) DefaultLevel() int { return 1 }

func TestSchemaFor_Samples(t *testing.T) {
	s, err := typemix.SchemaFor[samples.Human]()
	require.NoError(t, err)
	assert.Equal(t, "samples.Human", s.Name)
	assert.Equal(t, []string{"id", "name", "favorites"}, s.FieldNames())
	assert.Equal(t, "samples.Human{id: int, name: string, favorites: List[Food]}", s.String())

	f, ok := s.Lookup("favorites")
	require.True(t, ok)
	assert.Equal(t, typemix.KindList, f.Expr.Kind)
	assert.Equal(t, typemix.KindDomain, f.Expr.Elem.Kind)

	food := typemix.MustRegister[samples.Food]()
	nbl, ok := food.Lookup("names_by_lang")
	require.True(t, ok)
	assert.Equal(t, "Option[Dict[string]]", nbl.Expr.String())
	assert.NotNil(t, food.Extra)
	_, ok = food.Lookup("extra")
	assert.False(t, ok)
}

func TestSchemaFor_SelfReference(t *testing.T) {
	s, err := typemix.SchemaFor[samples.Spot]()
	require.NoError(t, err)
	f, ok := s.Lookup("children")
	require.True(t, ok)
	assert.Equal(t, typemix.KindOption, f.Expr.Kind)
	assert.Equal(t, typemix.KindSelfRef, f.Expr.Elem.Elem.Kind)
}

func TestSchemaFor_TransformerField(t *testing.T) {
	s, err := typemix.SchemaFor[samples.Machine]()
	require.NoError(t, err)
	f, _ := s.Lookup("color")
	assert.Equal(t, typemix.KindTransformer, f.Expr.Elem.Kind)
}

func TestSchemaFor_EmbeddedAndTags(t *testing.T) {
	s, err := typemix.SchemaFor[withEmbedded]()
	require.NoError(t, err)
	assert.Equal(t, []string{"created_by", "headline"}, s.FieldNames())

	v, err := typemix.Bind[withEmbedded](map[string]any{"createdBy": "tom", "headline": "hi"})
	require.NoError(t, err)
	assert.Equal(t, "tom", v.CreatedBy)
	assert.Equal(t, "hi", v.Title)
}

func TestSchemaFor_Memoized(t *testing.T) {
	a, err := typemix.SchemaOf(reflect.TypeOf(samples.Food{}))
	require.NoError(t, err)
	b, err := typemix.SchemaOf(reflect.TypeOf(&samples.Food{}))
	require.NoError(t, err)
	assert.Same(t, a, b)
}

type crowdNode struct {
	ID       int
	Label    typemix.Option[string]
	Children typemix.List[crowdNode]
}

func TestSchemaFor_ConcurrentFirstUse(t *testing.T) {
	const workers = 32
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := map[string]any{"id": i, "children": []any{map[string]any{"id": i + 1, "label": "leaf"}}}
			n, err := typemix.Bind[crowdNode](in)
			if err != nil {
				errs <- err
				return
			}
			out, err := typemix.ToDict(n)
			if err != nil {
				errs <- err
				return
			}
			children := out["children"].([]any)
			if len(children) != 1 || children[0].(map[string]any)["label"] != "leaf" {
				errs <- fmt.Errorf("worker %d: unexpected projection %v", i, out)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	a, err := typemix.SchemaFor[crowdNode]()
	require.NoError(t, err)
	b, err := typemix.SchemaFor[crowdNode]()
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestSchemaFor_Rejections(t *testing.T) {
	var se *typemix.SchemaError

	_, err := typemix.SchemaFor[badKey]()
	assert.True(t, errors.As(err, &se))

	_, err = typemix.SchemaFor[badExtra]()
	assert.True(t, errors.As(err, &se))

	_, err = typemix.SchemaFor[dupName]()
	assert.True(t, errors.As(err, &se))

	_, err = typemix.SchemaFor[badDefault]()
	assert.True(t, errors.As(err, &se))

	_, err = typemix.SchemaFor[int]()
	assert.True(t, errors.As(err, &se))

	assert.Panics(t, func() { typemix.MustRegister[badKey]() })

	_, err = typemix.Bind[badKey](map[string]any{})
	assert.True(t, errors.As(err, &se))
}

func TestFieldTokens(t *testing.T) {
	assert.Equal(t, "names_by_lang", typemix.FieldNameOf(func(f *samples.Food) *typemix.Option[typemix.Dict[string]] { return &f.NamesByLang }))
	assert.Equal(t, "headline", typemix.FieldOf(func(w *withEmbedded) *string { return &w.Title }).Key())

	p := typemix.PathOf(func(w *withEmbedded) *string { return &w.Base.CreatedBy })
	assert.Equal(t, []string{"created_by"}, p.Keys())
	assert.Equal(t, "/created_by", p.Pointer())

	assert.Panics(t, func() {
		typemix.FieldOf(func(f *samples.Food) *map[string]any { return &f.Extra })
	})
}
