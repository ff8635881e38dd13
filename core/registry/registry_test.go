package registry

import (
	"bytes"
	"testing"

	"github.com/artpar/modelkit/core/field"
	"github.com/artpar/modelkit/core/model"
	"github.com/artpar/modelkit/core/schema"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTestType(name string) *model.Type {
	return model.Define(name,
		model.Field("id", field.UUID()),
		model.Field("name", field.String(field.Required())),
	)
}

func TestNew(t *testing.T) {
	r := New(zerolog.Nop())
	require.NotNil(t, r)
	assert.NotNil(t, r.types)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_Register(t *testing.T) {
	var buf bytes.Buffer
	r := New(zerolog.New(&buf).Level(zerolog.DebugLevel))

	user := makeTestType("user")
	require.NoError(t, r.Register(user))

	got, ok := r.Get("user")
	require.True(t, ok)
	assert.Same(t, user, got)
	assert.Contains(t, buf.String(), `"message":"type registered"`)
	assert.Contains(t, buf.String(), `"type":"user"`)
}

func TestRegistry_Register_Duplicate(t *testing.T) {
	r := New(zerolog.Nop())
	require.NoError(t, r.Register(makeTestType("user")))

	err := r.Register(makeTestType("user"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `type "user" already registered`)
}

func TestRegistry_Register_Conflict(t *testing.T) {
	r := New(zerolog.Nop())
	require.NoError(t, r.Register(makeTestType("person")))

	// A different type also named "person" used as a parent.
	shadow := makeTestType("person")
	child := shadow.Extend("child")

	err := r.Register(child)
	require.Error(t, err)

	var cerr *ConflictError
	require.ErrorAs(t, err, &cerr)
	assert.True(t, cerr.HasConflicts())
	require.Len(t, cerr.Conflicts, 1)
	assert.Equal(t, "person", cerr.Conflicts[0].Name)
	assert.Contains(t, err.Error(), "type conflicts detected")

	_, ok := r.Get("child")
	assert.False(t, ok)
}

func TestRegistry_Register_SelfNamedDependency(t *testing.T) {
	r := New(zerolog.Nop())
	inner := makeTestType("node")
	outer := model.Define("node", model.Nested("inner", inner))

	err := r.Register(outer)
	var cerr *ConflictError
	require.ErrorAs(t, err, &cerr)
}

func TestRegistry_DefineAndExtend(t *testing.T) {
	r := New(zerolog.Nop())

	person, err := r.Define("person",
		model.Field("name", field.String(field.Required())),
		model.Field("age", field.Integer(field.Required())),
	)
	require.NoError(t, err)

	parent, err := r.Extend("person", "parent",
		model.Field("num_children", field.Integer()),
		model.Nested("child", person),
	)
	require.NoError(t, err)
	assert.True(t, parent.IsA(person))
	assert.Equal(t, []string{"name", "age", "num_children", "child"}, parent.Fields())

	_, err = r.Define("person")
	assert.Error(t, err)

	_, err = r.Extend("missing", "x")
	assert.ErrorContains(t, err, `parent type "missing" not registered`)

	_, err = r.Extend("person", "parent")
	assert.Error(t, err)
}

type countingObserver struct {
	model.NopObserver
	defined []string
}

func (c *countingObserver) TypeDefined(t *model.Type) {
	c.defined = append(c.defined, t.Name())
}

func TestRegistry_WithObserver(t *testing.T) {
	obs := &countingObserver{}
	r := New(zerolog.Nop(), WithObserver(obs))

	_, err := r.Define("a")
	require.NoError(t, err)
	_, err = r.Extend("a", "b")
	require.NoError(t, err)

	own := &countingObserver{}
	_, err = r.Define("c", model.Observe(own))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, obs.defined)
	assert.Equal(t, []string{"c"}, own.defined)
}

func TestRegistry_Unregister(t *testing.T) {
	r := New(zerolog.Nop())
	person, err := r.Define("person", model.Field("name", field.String()))
	require.NoError(t, err)
	_, err = r.Define("holder", model.Nested("owner", person))
	require.NoError(t, err)

	err = r.Unregister("person")
	assert.ErrorContains(t, err, `type "person" is used by holder`)

	require.NoError(t, r.Unregister("holder"))
	require.NoError(t, r.Unregister("person"))
	assert.Equal(t, 0, r.Len())

	assert.ErrorContains(t, r.Unregister("person"), "not registered")
}

func TestRegistry_ListAndAll(t *testing.T) {
	r := New(zerolog.Nop())
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, r.Register(makeTestType(name)))
	}

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, r.Names())

	list := r.List()
	require.Len(t, list, 3)
	assert.Equal(t, "alpha", list[0].Name())

	all := r.All()
	assert.Len(t, all, 3)
	delete(all, "alpha")
	assert.Equal(t, 3, r.Len())
}

func TestRegistry_MustGet(t *testing.T) {
	r := New(zerolog.Nop())
	require.NoError(t, r.Register(makeTestType("user")))

	assert.Equal(t, "user", r.MustGet("user").Name())
	assert.Panics(t, func() { r.MustGet("nope") })
}

func TestDependencies(t *testing.T) {
	person := makeTestType("person")
	address := model.Define("address", model.Field("city", field.String()))
	parent := person.Extend("parent", model.Nested("home", address), model.Nested("child", person))
	lenient := parent.Extend("lenient", model.Meta(schema.Options{Strict: schema.Bool(false)}))

	deps := Dependencies(lenient)
	names := make([]string, len(deps))
	for i, d := range deps {
		names[i] = d.Name()
	}
	assert.Equal(t, []string{"parent", "person", "address"}, names)
	assert.Empty(t, Dependencies(address))
}
