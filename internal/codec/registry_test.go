package codec

import (
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/hengadev/typetext/internal/config"
	"github.com/hengadev/typetext/internal/format"
)

type treeA struct {
	Name string
	B    *treeB
}

type treeB struct {
	Items []treeA
	Back  map[string]*treeA
}

func TestLookupCachesCodec(t *testing.T) {
	reg := NewRegistry()
	typ := reflect.TypeOf(person{})

	first, err := reg.Lookup(typ, format.JSON, config.Default())
	require.NoError(t, err)
	second, err := reg.Lookup(typ, format.JSON, config.Default())
	require.NoError(t, err)
	assert.Same(t, first, second)

	stats := reg.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Zero(t, stats.Failures)
	// person, string, int, []string, *string
	assert.Equal(t, int64(5), stats.Builds)
	assert.Equal(t, 5, stats.Entries)
}

func TestLookupKeyedBySettings(t *testing.T) {
	reg := NewRegistry()
	typ := reflect.TypeOf(casing{})

	snake := config.Default()
	snake.TextCase = config.TextCaseSnakeCase

	a, err := reg.Lookup(typ, format.JSON, config.Default())
	require.NoError(t, err)
	b, err := reg.Lookup(typ, format.JSON, snake)
	require.NoError(t, err)
	c, err := reg.Lookup(typ, format.JSV, config.Default())
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.NotSame(t, a, c)
}

func TestConcurrentLookupBuildsOnce(t *testing.T) {
	var mu sync.Mutex
	built := map[reflect.Type]int{}
	reg := NewRegistry(WithBuildObserver(func(ev BuildEvent) {
		mu.Lock()
		built[ev.Type]++
		mu.Unlock()
	}))

	types := []reflect.Type{reflect.TypeOf(treeA{}), reflect.TypeOf(treeB{}), reflect.TypeOf(person{})}
	results := make([]*TypeCodec, 64)

	var g errgroup.Group
	for i := range results {
		g.Go(func() error {
			tc, err := reg.Lookup(types[i%len(types)], format.JSV, config.Default())
			results[i] = tc
			return err
		})
	}
	require.NoError(t, g.Wait())

	for i, tc := range results {
		assert.Same(t, results[i%len(types)], tc)
	}
	for typ, n := range built {
		assert.Equal(t, 1, n, "%s built %d times", typ, n)
	}
}

func TestMutuallyRecursiveTypes(t *testing.T) {
	reg := NewRegistry()
	in := treeA{Name: "root", B: &treeB{Items: []treeA{{Name: "leaf"}}}}

	text := encode(t, reg, format.JSV, config.Default(), in)
	assert.Equal(t, `{Name:root,B:{Items:[{Name:leaf}]}}`, text)

	got, err := decode[treeA](reg, format.JSV, config.Default(), text)
	require.NoError(t, err)
	assert.Equal(t, in, got)
}

func TestTypeNames(t *testing.T) {
	reg := NewRegistry()
	sq := reflect.TypeOf(square{})

	assert.Equal(t, "codec.square", reg.TypeName(sq))

	reg.RegisterType("Square", sq)
	assert.Equal(t, "Square", reg.TypeName(sq))
	assert.Equal(t, "Square", reg.TypeName(reflect.PointerTo(sq)))

	got, ok := reg.Resolve("Square")
	require.True(t, ok)
	assert.Equal(t, sq, got)
	assert.ElementsMatch(t, []string{"Square"}, reg.RegisteredNames())

	_, ok = reg.Resolve("square")
	assert.False(t, ok)
}

func TestReset(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterType("node", reflect.TypeOf(node{}))
	reg.SetOverride(reflect.TypeOf(celsius(0)), Override{Write: func(any) (string, error) { return "x", nil }})
	_, err := reg.Lookup(reflect.TypeOf(node{}), format.JSON, config.Default())
	require.NoError(t, err)

	reg.Reset()

	assert.Zero(t, reg.Stats().Entries)
	assert.Empty(t, reg.RegisteredNames())
	_, ok := reg.override(reflect.TypeOf(celsius(0)))
	assert.False(t, ok)
}

func TestLookupNilType(t *testing.T) {
	_, err := NewRegistry().Lookup(nil, format.JSON, config.Default())
	assert.Error(t, err)
}

func TestObserverMayUseRegistry(t *testing.T) {
	var reg *Registry
	var once sync.Once
	var nested error
	reg = NewRegistry(WithBuildObserver(func(ev BuildEvent) {
		once.Do(func() {
			_, nested = reg.Lookup(reflect.TypeOf(casing{}), ev.Format, config.Default())
		})
	}))

	done := make(chan error, 1)
	go func() {
		_, err := reg.Lookup(reflect.TypeOf(person{}), format.JSON, config.Default())
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("lookup from a build observer blocked")
	}
	require.NoError(t, nested)
	assert.Equal(t, int64(2), reg.Stats().Misses)
}
