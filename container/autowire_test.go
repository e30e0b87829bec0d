package container

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

type Cache interface {
	Get(key string) string
}

type serviceWithOptional struct {
	Logger Logger `inject:""`
	Cache  Cache  `inject:"optional"`
}

type serviceWithSkip struct {
	Logger Logger `inject:"-"`
	Widget *Widget
}

type serviceWithUnexported struct {
	logger Logger `inject:""`
}

type serviceWithValueField struct {
	Count int `inject:""`
}

// Circular graph: A -> B -> A.
type ServiceA interface{ A() }
type ServiceB interface{ B() }

type serviceA struct {
	B ServiceB `inject:""`
}

func (*serviceA) A() {}

type serviceB struct {
	A ServiceA `inject:""`
}

func (*serviceB) B() {}

// optionalWithBrokenDependency has an optional field whose binding exists
// but cannot be built.
type optionalWithBrokenDependency struct {
	DB Database `inject:"optional"`
}

func TestParseInjectTag(t *testing.T) {
	tests := []struct {
		tag  string
		want tagOptions
	}{
		{tag: "", want: tagOptions{}},
		{tag: "-", want: tagOptions{skip: true}},
		{tag: "optional", want: tagOptions{optional: true}},
		{tag: "name, optional", want: tagOptions{optional: true}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseInjectTag(tt.tag), tt.tag)
	}
}

func TestAutoWire_RequiredAndOptional(t *testing.T) {
	c := New()
	require.NoError(t, c.Singleton((*Logger)(nil), &ConsoleLogger{}))

	svc := &serviceWithOptional{}
	require.NoError(t, c.AutoWire(svc))

	assert.Same(t, c.Make((*Logger)(nil)), svc.Logger)
	assert.Nil(t, svc.Cache)
}

func TestAutoWire_MissingRequired(t *testing.T) {
	c := New()

	err := c.AutoWire(&serviceWithOptional{})

	var notFound *BindingNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.ErrorContains(t, err, "failed to inject field Logger")
}

func TestAutoWire_OptionalDoesNotHideBrokenDependency(t *testing.T) {
	c := New()
	require.NoError(t, c.Transient((*Database)(nil), &MockDB{}))

	// Database is bound but its Logger is not.
	err := c.AutoWire(&optionalWithBrokenDependency{})

	var notFound *BindingNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, loggerType, notFound.Type)
}

func TestAutoWire_SkipsUntaggedAndDashFields(t *testing.T) {
	c := New()
	require.NoError(t, c.Singleton((*Logger)(nil), &ConsoleLogger{}))
	require.NoError(t, c.Transient((*Widget)(nil), &Widget{}))

	svc := &serviceWithSkip{}
	require.NoError(t, c.AutoWire(svc))
	assert.Nil(t, svc.Logger)
	assert.Nil(t, svc.Widget)
}

func TestAutoWire_UnexportedFieldsIgnored(t *testing.T) {
	c := New()
	svc := &serviceWithUnexported{}
	require.NoError(t, c.AutoWire(svc))
	assert.Nil(t, svc.logger)
}

func TestAutoWire_InvalidTargets(t *testing.T) {
	c := New()

	assert.Error(t, c.AutoWire(nil))
	assert.Error(t, c.AutoWire(serviceWithOptional{}))
	assert.Error(t, c.AutoWire(new(int)))
	assert.ErrorContains(t, c.AutoWire(&serviceWithValueField{}), "only interface and struct pointer fields")
}

func TestAutoWire_StructPointerField(t *testing.T) {
	type holder struct {
		Widget *Widget `inject:""`
	}

	c := New()
	require.NoError(t, c.Singleton((*Widget)(nil), &Widget{ID: 7}))

	h := &holder{}
	require.NoError(t, c.AutoWire(h))
	assert.Same(t, c.Make((*Widget)(nil)), h.Widget)
	assert.Equal(t, 0, h.Widget.ID, "instances are built fresh, not copied from the token")
}

func TestCircularDependency(t *testing.T) {
	lifetimes := map[string]func(c *Container) error{
		"transient": func(c *Container) error {
			return multierr.Combine(c.Transient((*ServiceA)(nil), &serviceA{}), c.Transient((*ServiceB)(nil), &serviceB{}))
		},
		"singleton": func(c *Container) error {
			return multierr.Combine(c.Singleton((*ServiceA)(nil), &serviceA{}), c.Singleton((*ServiceB)(nil), &serviceB{}))
		},
		"scoped": func(c *Container) error {
			return multierr.Combine(c.Scoped((*ServiceA)(nil), &serviceA{}), c.Scoped((*ServiceB)(nil), &serviceB{}))
		},
	}

	for name, register := range lifetimes {
		t.Run(name, func(t *testing.T) {
			c := New()
			require.NoError(t, register(c))

			_, err := c.CreateScope().MakeSafe((*ServiceA)(nil))

			var circular *CircularDependencyError
			require.ErrorAs(t, err, &circular)
			assert.Equal(t, []string{"container.ServiceA", "container.ServiceB", "container.ServiceA"}, circular.Path)
		})
	}
}

func TestReflectionCache(t *testing.T) {
	rc := newReflectionCache()

	fields := rc.injectableFields(reflect.TypeOf(&serviceWithOptional{}))
	require.Len(t, fields, 2)
	assert.Equal(t, "Logger", fields[0].name)
	assert.Equal(t, loggerType, fields[0].typ)
	assert.True(t, fields[1].options.optional)

	// Pointer and struct share one entry.
	rc.injectableFields(reflect.TypeOf(serviceWithOptional{}))
	assert.Len(t, rc.fields, 1)

	assert.Empty(t, rc.injectableFields(reflect.TypeOf(&serviceWithSkip{})))
}
