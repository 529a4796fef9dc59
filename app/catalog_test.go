package app_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-simple-di/app"
	"github.com/km-arc/go-simple-di/framework/container"
	"github.com/km-arc/go-simple-di/framework/loader"
)

func loadBasic(t *testing.T) *container.Container {
	t.Helper()
	c := container.New()
	require.NoError(t, loader.New(c, app.Catalog()).LoadFromDir("../examples/basic"))
	return c
}

func TestBasicExample_CircleArea(t *testing.T) {
	c := loadBasic(t)

	circle, err := container.Resolve[*app.Circle](c, "Circle")
	require.NoError(t, err)
	assert.InDelta(t, 50.26544, circle.Area(4), 1e-9)
	assert.Equal(t, "Circle(pi=3.14159)", circle.String())
}

func TestBasicExample_IgnoredFolder(t *testing.T) {
	c := loadBasic(t)

	// The broken duplicate of Circle lives in ignore_this_folder.
	assert.Equal(t, []string{"Circle", "UnitCircle"}, c.Tagged("shape"))
}

func TestBasicExample_Greeter(t *testing.T) {
	c := loadBasic(t)

	greeter, err := container.Resolve[*app.Greeter](c, "Greeter")
	require.NoError(t, err)
	assert.Equal(t, "[Greeter] Hello, Ada!", greeter.Greet())

	_, _, err = c.Get("Logger")
	assert.ErrorIs(t, err, container.ErrUnresolvedDependency, "a logger needs somebody to own it")
}

func TestBasicExample_NameSources(t *testing.T) {
	c := loadBasic(t)

	sources, err := c.GetByTag("NameSource")
	require.NoError(t, err)
	assert.Equal(t, []any{"Ada", "Grace"}, sources["FirstNames"])
	assert.Equal(t, []any{"Lovelace", "Hopper"}, sources["LastNames"])
}

func TestNewLogger(t *testing.T) {
	a, b := app.NewLogger("X"), app.NewLogger("X")
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "[X] hi", a.Format("hi"))
}

func TestCatalogKeys(t *testing.T) {
	assert.Equal(t, []string{"geometry.circle", "geometry.constants", "greeter", "log.logger"}, app.Catalog().Keys())
}
