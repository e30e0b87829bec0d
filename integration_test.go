package direg_test

import (
	"reflect"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	direg "github.com/toutaio/toutago-direg"
	"github.com/toutaio/toutago-direg/container"
)

type Logger struct {
	lines []string
}

func (l *Logger) RegistrationMarkers() []direg.Marker {
	return []direg.Marker{direg.Mark(direg.LifetimeSingleton)}
}

type RequestHandler interface {
	Handle() string
}

type Handler struct {
	Logger *Logger `inject:""`
}

func (h *Handler) Handle() string { return "handled" }

type AltHandler struct{}

func (*AltHandler) Handle() string { return "alt" }

type Widget struct {
	ID int
}

type Unmarked struct{}

func newCatalog() *direg.Catalog {
	c := direg.NewCatalog()
	c.Declare(&Logger{})
	c.Declare(&Handler{}, direg.As[RequestHandler](direg.LifetimeScoped))
	c.Declare(&Widget{}, direg.Mark(direg.LifetimeTransient))
	c.Declare(&Unmarked{})
	return c
}

func TestScanIntoContainer(t *testing.T) {
	c := container.New()
	require.NoError(t, direg.NewScanner(direg.WithCatalog(newCatalog())).RegisterMarkedClasses(c))

	assert.Equal(t, 3, c.Len())
	assert.False(t, c.Has((*Unmarked)(nil)))

	logger1 := c.Make((*Logger)(nil))
	logger2 := c.Make((*Logger)(nil))
	assert.Same(t, logger1, logger2)

	w1 := c.Make((*Widget)(nil))
	w2 := c.Make((*Widget)(nil))
	assert.NotSame(t, w1, w2)

	scope1 := c.CreateScope()
	scope2 := c.CreateScope()
	defer scope1.Dispose()
	defer scope2.Dispose()

	h1 := scope1.Make((*RequestHandler)(nil)).(*Handler)
	assert.Same(t, h1, scope1.Make((*RequestHandler)(nil)))
	assert.NotSame(t, h1, scope2.Make((*RequestHandler)(nil)))
	assert.Same(t, logger1, h1.Logger)
	assert.Equal(t, "handled", h1.Handle())
}

func TestScanIntoContainer_SharedAbstraction(t *testing.T) {
	cat := direg.NewCatalog()
	cat.Declare(&Handler{}, direg.As[RequestHandler](direg.LifetimeTransient))
	cat.Declare(&AltHandler{}, direg.As[RequestHandler](direg.LifetimeTransient))
	cat.Declare(&Logger{})

	t.Run("multibind", func(t *testing.T) {
		c := container.New()
		require.NoError(t, direg.NewScanner(direg.WithCatalog(cat)).RegisterMarkedClasses(c))

		bindings := c.Bindings((*RequestHandler)(nil))
		require.Len(t, bindings, 2)
		assert.Equal(t, reflect.TypeOf(&Handler{}), bindings[0].ConcreteType)
		assert.Equal(t, reflect.TypeOf(&AltHandler{}), bindings[1].ConcreteType)
		assert.Len(t, c.MakeAll((*RequestHandler)(nil)), 2)
	})

	t.Run("reject", func(t *testing.T) {
		c := container.New(container.WithCollisionPolicy(container.CollisionReject))
		err := direg.NewScanner(direg.WithCatalog(cat)).RegisterMarkedClasses(c)

		errs := multierr.Errors(err)
		require.Len(t, errs, 1)

		var cfgErr *direg.ConfigurationError
		require.ErrorAs(t, errs[0], &cfgErr)
		assert.Equal(t, reflect.TypeOf(&AltHandler{}), cfgErr.Type)

		var exists *container.BindingAlreadyExistsError
		assert.ErrorAs(t, err, &exists)

		assert.Equal(t, "handled", c.Make((*RequestHandler)(nil)).(RequestHandler).Handle())
		assert.True(t, c.Has((*Logger)(nil)), "later types are still registered")
	})
}

func TestScanIntoContainer_Metrics(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	c := container.New()

	require.NoError(t, direg.NewScanner(direg.WithCatalog(newCatalog()), direg.WithMetrics(reg)).RegisterMarkedClasses(c))

	count, err := testutil.GatherAndCount(reg, "direg_registrations_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count, "one series per lifetime")
}

func TestScanIntoContainer_NilContainer(t *testing.T) {
	var c *container.Container
	err := direg.NewScanner(direg.WithCatalog(newCatalog())).RegisterMarkedClasses(c)
	assert.ErrorIs(t, err, direg.ErrNilContainer)
}
