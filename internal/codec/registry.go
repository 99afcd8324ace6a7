package codec

import (
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/atomic"
	"golang.org/x/sync/singleflight"

	"github.com/hengadev/typetext/internal/codecerr"
	"github.com/hengadev/typetext/internal/config"
	"github.com/hengadev/typetext/internal/format"
)

// BuildEvent describes one finished codec build.
type BuildEvent struct {
	Type     reflect.Type
	Format   format.Kind
	Duration time.Duration
	Err      error
}

// Stats is a point-in-time view of the registry counters.
type Stats struct {
	Hits     int64
	Misses   int64
	Builds   int64
	Failures int64
	Entries  int
}

// Registry caches one TypeCodec per (type, format, settings) triple.
//
// Lookups of cached entries are lock free. On a miss, concurrent callers for
// the same key share one build through singleflight, and builds for
// different keys are serialized by buildMu so that mutually recursive types
// can never be built twice or deadlock.
type Registry struct {
	cache   sync.Map // cacheKey -> *entry
	group   singleflight.Group
	buildMu sync.Mutex

	mu        sync.RWMutex
	overrides map[reflect.Type]Override
	byName    map[string]reflect.Type
	names     map[reflect.Type]string

	observer func(BuildEvent)

	hits     atomic.Int64
	misses   atomic.Int64
	builds   atomic.Int64
	failures atomic.Int64
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithBuildObserver registers a callback invoked for every build. Events
// are delivered after the build lock is released, so fn may call Lookup.
func WithBuildObserver(fn func(BuildEvent)) RegistryOption {
	return func(r *Registry) {
		r.observer = fn
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		overrides: make(map[reflect.Type]Override),
		byName:    make(map[string]reflect.Type),
		names:     make(map[reflect.Type]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Lookup returns the codec for t, building it on first use. A failed build
// is cached and returned to every later caller.
func (r *Registry) Lookup(t reflect.Type, kind format.Kind, cfg config.Config) (*TypeCodec, error) {
	if t == nil {
		return nil, codecerr.New(codecerr.PhaseBuild, codecerr.KindInvalidTarget).Detail("nil type").Build()
	}
	key := cacheKey{typ: t, kind: kind, cfg: cfg}
	if v, ok := r.cache.Load(key); ok {
		r.hits.Inc()
		e := v.(*entry)
		return e.codec, e.err
	}
	r.misses.Inc()

	v, err, _ := r.group.Do(flightKey(key), func() (any, error) {
		tc, events, err := r.build(key)
		for _, ev := range events {
			r.notify(ev)
		}
		return tc, err
	})
	if err != nil {
		return nil, err
	}
	return v.(*TypeCodec), nil
}

// build runs one root build under the build lock and returns the events
// it produced for the caller to report after the lock is released.
func (r *Registry) build(key cacheKey) (*TypeCodec, []BuildEvent, error) {
	r.buildMu.Lock()
	defer r.buildMu.Unlock()

	if v, ok := r.cache.Load(key); ok {
		e := v.(*entry)
		return e.codec, nil, e.err
	}
	b := newBuilder(r, key.kind, key.cfg)
	tc, err := b.build(key.typ)
	return tc, b.events, err
}

func flightKey(k cacheKey) string {
	return fmt.Sprintf("%p|%s|%v", k.typ, k.kind, k.cfg)
}

// SetOverride installs ov for t. Every cached codec is dropped because
// composite codecs hold on to the member codecs they were built with.
func (r *Registry) SetOverride(t reflect.Type, ov Override) {
	r.buildMu.Lock()
	defer r.buildMu.Unlock()

	r.mu.Lock()
	r.overrides[t] = ov
	r.mu.Unlock()
	r.cache.Clear()
}

// RemoveOverride drops the override for t, if any.
func (r *Registry) RemoveOverride(t reflect.Type) {
	r.buildMu.Lock()
	defer r.buildMu.Unlock()

	r.mu.Lock()
	_, had := r.overrides[t]
	delete(r.overrides, t)
	r.mu.Unlock()
	if had {
		r.cache.Clear()
	}
}

func (r *Registry) override(t reflect.Type) (Override, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ov, ok := r.overrides[t]
	return ov, ok
}

// RegisterType binds a discriminator name to t in both directions.
func (r *Registry) RegisterType(name string, t reflect.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.byName[name]; ok {
		delete(r.names, old)
	}
	r.byName[name] = t
	r.names[t] = name
}

// TypeName returns the discriminator written for t: its registered name,
// the registered name of its pointer or element type, or t.String().
func (r *Registry) TypeName(t reflect.Type) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name, ok := r.names[t]; ok {
		return name
	}
	if t.Kind() == reflect.Pointer {
		if name, ok := r.names[t.Elem()]; ok {
			return name
		}
	} else if name, ok := r.names[reflect.PointerTo(t)]; ok {
		return name
	}
	return t.String()
}

// Resolve maps a discriminator back to its registered type.
func (r *Registry) Resolve(name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byName[name]
	return t, ok
}

// RegisteredNames lists the discriminators known to the registry.
func (r *Registry) RegisteredNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Keys(r.byName)
}

// Reset drops every cached codec, override and registered type name.
func (r *Registry) Reset() {
	r.buildMu.Lock()
	defer r.buildMu.Unlock()

	r.mu.Lock()
	r.overrides = make(map[reflect.Type]Override)
	r.byName = make(map[string]reflect.Type)
	r.names = make(map[reflect.Type]string)
	r.mu.Unlock()
	r.cache.Clear()
}

// Stats returns the registry counters.
func (r *Registry) Stats() Stats {
	entries := 0
	r.cache.Range(func(_, _ any) bool {
		entries++
		return true
	})
	return Stats{
		Hits:     r.hits.Load(),
		Misses:   r.misses.Load(),
		Builds:   r.builds.Load(),
		Failures: r.failures.Load(),
		Entries:  entries,
	}
}

func (r *Registry) notify(ev BuildEvent) {
	r.builds.Inc()
	if ev.Err != nil {
		r.failures.Inc()
	}
	if r.observer != nil {
		r.observer(ev)
	}
}
