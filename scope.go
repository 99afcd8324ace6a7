package typetext

import (
	"context"
	"sync"
)

// Scope is an engine-wide settings override opened by BeginScope. Until it
// is released, calls without a context override use its settings.
//
// Scopes affect every goroutine using the engine. To change settings for a
// single call, use WithConfig instead.
type Scope struct {
	engine *Engine
	cfg    Config
	once   sync.Once
}

// BeginScope derives settings from the current ones, applies opts, and makes
// them current until the returned scope is released.
//
//	scope, err := engine.BeginScope(typetext.WithDateHandler(typetext.DateHandlerISO8601))
//	if err != nil {
//	    return err
//	}
//	defer scope.Release()
func (e *Engine) BeginScope(opts ...ConfigOption) (*Scope, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg := e.base
	if n := len(e.scopes); n > 0 {
		cfg = e.scopes[n-1].cfg
	}
	if err := applyConfig(&cfg, opts); err != nil {
		return nil, err
	}
	s := &Scope{engine: e, cfg: cfg}
	e.scopes = append(e.scopes, s)
	return s, nil
}

// Config returns the settings the scope activated.
func (s *Scope) Config() Config {
	return s.cfg
}

// Release restores the settings that were current before the scope opened.
// Releasing twice, or after Reset, does nothing. Scopes released out of
// order are removed without disturbing the scopes opened after them.
func (s *Scope) Release() {
	s.once.Do(func() {
		e := s.engine
		e.mu.Lock()
		defer e.mu.Unlock()
		for i := len(e.scopes) - 1; i >= 0; i-- {
			if e.scopes[i] == s {
				e.scopes = append(e.scopes[:i], e.scopes[i+1:]...)
				return
			}
		}
	})
}

type configKey struct{}

// WithConfig returns a context whose serialize and deserialize calls use
// cfg, regardless of engine settings or open scopes. cfg is validated; when
// invalid, ctx is returned unchanged together with the error.
func WithConfig(ctx context.Context, cfg Config) (context.Context, error) {
	if err := applyConfig(&cfg, nil); err != nil {
		return ctx, err
	}
	return context.WithValue(ctx, configKey{}, cfg), nil
}

func configFromContext(ctx context.Context) (Config, bool) {
	if ctx == nil {
		return Config{}, false
	}
	cfg, ok := ctx.Value(configKey{}).(Config)
	return cfg, ok
}
