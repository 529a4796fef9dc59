package loader_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-simple-di/framework/container"
	"github.com/km-arc/go-simple-di/framework/loader"
)

// ── fixtures ──────────────────────────────────────────────────────────────────

type Constants struct{ Pi float64 }

type Circle struct{ consts *Constants }

func (c *Circle) Area(r float64) float64 { return c.consts.Pi * r * r }

type Owned struct{ Owner string }

func testCatalog(t *testing.T) *loader.Catalog {
	t.Helper()
	cat := loader.NewCatalog()
	require.NoError(t, cat.Add("geometry.constants", func() *Constants { return &Constants{Pi: 3.14159} }))
	require.NoError(t, cat.Add("geometry.circle", func(c *Constants) *Circle { return &Circle{consts: c} }))
	require.NoError(t, cat.Add("owned", func(owner string) *Owned { return &Owned{Owner: owner} }))
	require.NoError(t, cat.Add("holder", func(o *Owned) *Owned { return o }))
	return cat
}

func newLoader(t *testing.T) (*container.Container, *loader.Loader) {
	t.Helper()
	c := container.New()
	return c, loader.New(c, testCatalog(t))
}

func abs(t *testing.T, path string) string {
	t.Helper()
	p, err := filepath.Abs(path)
	require.NoError(t, err)
	return p
}

// ── Catalog ──────────────────────────────────────────────────────────────────

func TestCatalog(t *testing.T) {
	cat := loader.NewCatalog()
	require.NoError(t, cat.Add("b", func() int { return 1 }))
	require.NoError(t, cat.Add("a", func() int { return 2 }))

	assert.Error(t, cat.Add("a", func() int { return 3 }), "duplicate key")
	assert.Error(t, cat.Add(" ", func() int { return 3 }), "blank key")
	assert.Error(t, cat.Add("c", nil), "nil constructor")

	assert.Equal(t, []string{"a", "b"}, cat.Keys())
	_, ok := cat.Lookup("a")
	assert.True(t, ok)
	_, ok = cat.Lookup("zzz")
	assert.False(t, ok)
}

// ── Match ────────────────────────────────────────────────────────────────────

func TestMatch_IncludeExclude(t *testing.T) {
	files, err := loader.Match("testdata/basic", "**/*.yaml", "**/*.hcl", "!ignore_this_folder")
	require.NoError(t, err)

	assert.Equal(t, []string{
		abs(t, "testdata/basic/constants.yaml"),
		abs(t, "testdata/basic/owner.yaml"),
		abs(t, "testdata/basic/shapes/circle.hcl"),
	}, files, "config files and excluded folders are skipped")
}

func TestMatch_ExcludeGlob(t *testing.T) {
	files, err := loader.Match("testdata/basic", "**/*", "!**/*.hcl", "!**/*.json")
	require.NoError(t, err)
	assert.Len(t, files, 3)
	for _, f := range files {
		assert.Equal(t, ".yaml", filepath.Ext(f))
	}
}

func TestMatch_NoMatches(t *testing.T) {
	files, err := loader.Match("testdata/basic", "nothing/*.yaml")
	require.NoError(t, err)
	assert.Empty(t, files)
}

// ── Load ─────────────────────────────────────────────────────────────────────

func TestLoad_MixedFormats(t *testing.T) {
	c, l := newLoader(t)
	require.NoError(t, l.Load("testdata/basic", "**/*.yaml", "**/*.hcl", "**/*.json", "!ignore_this_folder"))

	assert.Equal(t, []string{"Circle", "Constants", "FirstNames", "LastNames", "MySingleton", "Owned", "Unit"}, c.Names())

	circle, err := container.Resolve[*Circle](c, "Circle")
	require.NoError(t, err)
	assert.InDelta(t, 50.26544, circle.Area(4), 1e-9)
	assert.Equal(t, []string{"Circle"}, c.Tagged("shape"))

	unit, _, err := c.Get("Unit")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"radius": float64(1),
		"label":  "unit",
		"tags":   []any{"a", "b"},
	}, unit)

	names, err := c.GetByTag("NameSource")
	require.NoError(t, err)
	assert.Len(t, names, 2)
	assert.Equal(t, []any{"Ada", "Grace"}, names["FirstNames"])
	assert.Equal(t, []string{"FirstNames"}, c.Tagged("FirstNameSource"))
}

func TestLoad_OwnerToken(t *testing.T) {
	c, l := newLoader(t)
	require.NoError(t, l.Load("testdata/basic", "owner.yaml"))

	mine, err := container.Resolve[*Owned](c, "MySingleton")
	require.NoError(t, err)
	assert.Equal(t, "MySingleton", mine.Owner)

	info, ok := c.Lookup("Owned")
	require.True(t, ok)
	assert.Equal(t, container.Transient, info.Lifecycle)
	assert.True(t, info.Dependencies[0].Owner)
}

func TestLoad_FilesLoadedOnce(t *testing.T) {
	c, l := newLoader(t)
	require.NoError(t, l.Load("testdata/basic", "constants.yaml"))
	// A second registration of Constants would be a duplicate.
	require.NoError(t, l.Load("testdata/basic", "*.yaml"))

	assert.True(t, c.Has("Owned"))
	assert.Equal(t, []string{
		abs(t, "testdata/basic/constants.yaml"),
		abs(t, "testdata/basic/owner.yaml"),
	}, l.Files())
}

func TestLoadHere(t *testing.T) {
	c, l := newLoader(t)
	require.NoError(t, l.LoadHere("testdata/walkup/top/*.yaml"))

	pi, _, err := c.Get("Pi")
	require.NoError(t, err)
	assert.Equal(t, 3.14159, pi)
}

// ── LoadFromDir ──────────────────────────────────────────────────────────────

func TestLoadFromDir_RootConfig(t *testing.T) {
	c, l := newLoader(t)
	require.NoError(t, l.LoadFromDir("testdata/basic"))

	assert.True(t, c.Has("Circle"))
	assert.True(t, c.Has("FirstNames"))
	assert.False(t, c.Has(""), "ignore_this_folder must not be loaded")
	assert.Len(t, l.Files(), 4)
}

func TestLoadFromDir_WalksUpToModuleBoundary(t *testing.T) {
	c, l := newLoader(t)
	require.NoError(t, l.LoadFromDir("testdata/walkup/nested/deeper"))

	assert.ElementsMatch(t, []string{"Local", "Pi"}, c.Names())
}

func TestLoadFromDir_StopsAtRoot(t *testing.T) {
	c, l := newLoader(t)
	require.NoError(t, l.LoadFromDir("testdata/rootstop/outer/inner"))

	assert.Equal(t, []string{"Inner"}, c.Names())
}

func TestLoadFromDir_VisitsOnce(t *testing.T) {
	c, l := newLoader(t)
	require.NoError(t, l.LoadFromDir("testdata/walkup/nested/deeper"))
	require.NoError(t, l.LoadFromDir("testdata/walkup/nested"))
	require.NoError(t, l.LoadFromDir("testdata/walkup"))

	assert.Len(t, c.Names(), 2)
}

// ── Failures ─────────────────────────────────────────────────────────────────

func TestLoadFile_ValidationReportsEverything(t *testing.T) {
	c, l := newLoader(t)
	err := l.LoadFile("testdata/invalid/problems.yaml")
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "problems.yaml")
	assert.Contains(t, msg, "module #0: The name field is required.")
	assert.Contains(t, msg, "module Both: The factory field is prohibited when value is present.")
	assert.Contains(t, msg, "module Scoped: The selected lifecycle is invalid.")
	assert.Contains(t, msg, "module BadNeeds: The needs.0 may not contain spaces, commas or parentheses.")
	assert.Empty(t, c.Names(), "nothing is registered from an invalid manifest")
}

func TestLoadFile_UnknownFactory(t *testing.T) {
	_, l := newLoader(t)
	err := l.LoadFile("testdata/invalid/unknown_factory.yaml")
	assert.ErrorContains(t, err, `unknown factory "does.not.exist"`)
}

func TestLoadFile_UnknownField(t *testing.T) {
	_, l := newLoader(t)
	err := l.LoadFile("testdata/invalid/unknown_field.yaml")
	assert.ErrorContains(t, err, "factroy")
}

func TestLoadFile_BadHCL(t *testing.T) {
	_, l := newLoader(t)
	err := l.LoadFile("testdata/invalid/bad.hcl")
	assert.ErrorContains(t, err, "bad.hcl")
}

func TestLoad_DuplicateAcrossFiles_KeepsContainerError(t *testing.T) {
	c := container.New()
	require.NoError(t, c.Register("Constants", func() int { return 0 }))
	l := loader.New(c, testCatalog(t))

	err := l.Load("testdata/basic", "constants.yaml")
	require.ErrorIs(t, err, container.ErrDuplicateRegistration)
	assert.ErrorContains(t, err, "A module named 'Constants' has already been registered!")
}

func TestDecodeManifest_UnsupportedExtension(t *testing.T) {
	_, err := loader.DecodeManifest("modules.toml", []byte(""))
	assert.Error(t, err)

	m, err := loader.DecodeManifest("empty.yaml", []byte(""))
	require.NoError(t, err)
	assert.Empty(t, m.Modules)
}
