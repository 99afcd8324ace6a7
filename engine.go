package typetext

import (
	"bytes"
	"context"
	"io"
	"reflect"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hengadev/typetext/internal/codec"
	"github.com/hengadev/typetext/internal/codecerr"
	"github.com/hengadev/typetext/internal/config"
	"github.com/hengadev/typetext/internal/format"
	"github.com/hengadev/typetext/internal/guard"
	"github.com/hengadev/typetext/internal/monitoring"
)

// Engine serializes values to and from JSON and JSV text. Codecs are built
// once per (type, format, settings) and shared by every call, so an Engine
// is safe for concurrent use and should be long lived.
type Engine struct {
	mu     sync.RWMutex
	base   Config
	scopes []*Scope

	registry *codec.Registry
	logger   *zap.Logger
	hook     monitoring.ObservabilityHook
	bufs     sync.Pool

	// observe is false when every hook would drop what it receives.
	observe bool
}

// New creates an engine with default settings adjusted by opts.
//
//	engine, err := typetext.New(
//	    typetext.WithSettings(typetext.WithTextCase(typetext.TextCaseCamelCase)),
//	    typetext.WithLogger(logger),
//	)
func New(opts ...Option) (*Engine, error) {
	o := engineOptions{config: config.Default()}
	for i, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, errors.Wrapf(err, "invalid option %d", i+1)
		}
	}
	if err := o.config.Validate(); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "configuration validation failed"), ErrInvalidConfiguration)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	hooks := []monitoring.ObservabilityHook{monitoring.NewZapObservabilityHook(o.logger)}
	if o.metrics != nil {
		hooks = append(hooks, monitoring.NewMetricsObservabilityHook(o.metrics))
	}
	if o.hook != nil {
		hooks = append(hooks, o.hook)
	}

	e := &Engine{
		base:   o.config,
		logger: o.logger,
		hook:   monitoring.NewCompositeObservabilityHook(hooks...),
	}
	// a no-op core reports every level disabled
	e.observe = o.metrics != nil || o.hook != nil || o.logger.Core().Enabled(zapcore.FatalLevel)
	e.bufs.New = func() any { return new(bytes.Buffer) }
	e.registry = codec.NewRegistry(codec.WithBuildObserver(e.onBuild))
	return e, nil
}

// MustNew is New for package-level initialisation; it panics on error.
func MustNew(opts ...Option) *Engine {
	e, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return e
}

func (e *Engine) onBuild(ev codec.BuildEvent) {
	e.hook.OnCodecBuild(context.Background(), monitoring.BuildInfo{
		Type:     ev.Type.String(),
		Format:   ev.Format.String(),
		Duration: ev.Duration,
		Err:      ev.Err,
	})
}

// Config returns the settings used by calls without a context override:
// the innermost open scope, or the engine settings.
func (e *Engine) Config() Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if n := len(e.scopes); n > 0 {
		return e.scopes[n-1].cfg
	}
	return e.base
}

// ConfigFor returns the settings a call made with ctx uses.
func (e *Engine) ConfigFor(ctx context.Context) Config {
	if cfg, ok := configFromContext(ctx); ok {
		return cfg
	}
	return e.Config()
}

// Configure applies opts to the engine settings. Codecs built for the old
// settings stay cached but are no longer used.
func (e *Engine) Configure(opts ...ConfigOption) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	cfg := e.base
	if err := applyConfig(&cfg, opts); err != nil {
		return err
	}
	e.base = cfg
	return nil
}

// SetConfig replaces the engine settings.
func (e *Engine) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return errors.Mark(errors.Wrap(err, "configuration validation failed"), ErrInvalidConfiguration)
	}
	e.mu.Lock()
	e.base = cfg
	e.mu.Unlock()
	return nil
}

func applyConfig(cfg *Config, opts []ConfigOption) error {
	if err := config.ApplyOptions(cfg, opts); err != nil {
		return errors.Mark(err, ErrInvalidConfiguration)
	}
	if err := cfg.Validate(); err != nil {
		return errors.Mark(errors.Wrap(err, "configuration validation failed"), ErrInvalidConfiguration)
	}
	return nil
}

// Serialize writes v in the given format.
func (e *Engine) Serialize(v any, f Format) (string, error) {
	return e.SerializeContext(context.Background(), v, f)
}

// SerializeContext is Serialize using the settings carried by ctx, if any.
func (e *Engine) SerializeContext(ctx context.Context, v any, f Format) (string, error) {
	buf := e.bufs.Get().(*bytes.Buffer)
	buf.Reset()
	defer e.bufs.Put(buf)

	if err := e.encode(ctx, buf, v, f); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SerializeTo writes the text form of v to w.
func (e *Engine) SerializeTo(ctx context.Context, w io.Writer, v any, f Format) error {
	buf := e.bufs.Get().(*bytes.Buffer)
	buf.Reset()
	defer e.bufs.Put(buf)

	if err := e.encode(ctx, buf, v, f); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return errors.Wrap(err, "write output")
}

func (e *Engine) encode(ctx context.Context, buf *bytes.Buffer, v any, f Format) (err error) {
	if !f.IsValid() {
		return errors.Mark(errors.Newf("unknown format %q", f), ErrInvalidConfiguration)
	}
	cfg := e.ConfigFor(ctx)
	if e.observe {
		meta := operationMeta(f, reflect.TypeOf(v))
		start := time.Now()
		e.hook.OnOperationStart(ctx, "serialize", meta)
		defer func() {
			e.hook.OnOperationComplete(ctx, "serialize", time.Since(start), err, meta)
		}()
	}

	enc := codec.NewEncoder(buf, e.registry, f, cfg)
	if err := enc.Encode(v); err != nil {
		return err
	}
	if n := enc.Truncations(); n > 0 && e.observe {
		e.hook.OnTruncation(ctx, "serialize", typeName(reflect.TypeOf(v)), n)
	}
	return nil
}

// Deserialize parses text into target, which must be a non-nil pointer.
// On failure target is left untouched.
func (e *Engine) Deserialize(text string, target any, f Format) error {
	return e.DeserializeContext(context.Background(), text, target, f)
}

// DeserializeContext is Deserialize using the settings carried by ctx, if any.
func (e *Engine) DeserializeContext(ctx context.Context, text string, target any, f Format) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return codecerr.New(codecerr.PhaseRead, codecerr.KindInvalidTarget).
			Type(reflect.TypeOf(target)).Detail("target must be a non-nil pointer").Build()
	}
	v, err := e.decode(ctx, text, rv.Type().Elem(), f)
	if err != nil {
		return err
	}
	rv.Elem().Set(v)
	return nil
}

// DeserializeType parses text as a value of type t.
func (e *Engine) DeserializeType(text string, t reflect.Type, f Format) (any, error) {
	if t == nil {
		return nil, codecerr.New(codecerr.PhaseRead, codecerr.KindInvalidTarget).Detail("nil type").Build()
	}
	v, err := e.decode(context.Background(), text, t, f)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

func (e *Engine) decode(ctx context.Context, text string, t reflect.Type, f Format) (v reflect.Value, err error) {
	if !f.IsValid() {
		return reflect.Value{}, errors.Mark(errors.Newf("unknown format %q", f), ErrInvalidConfiguration)
	}
	if e.observe {
		meta := operationMeta(f, t)
		start := time.Now()
		e.hook.OnOperationStart(ctx, "deserialize", meta)
		defer func() {
			e.hook.OnOperationComplete(ctx, "deserialize", time.Since(start), err, meta)
		}()
	}

	// decode into a fresh value so a failure never leaks a partial object
	v = reflect.New(t).Elem()
	if err := codec.NewDecoder(e.registry, f, e.ConfigFor(ctx)).Decode(text, v); err != nil {
		return reflect.Value{}, err
	}
	return v, nil
}

func operationMeta(f Format, t reflect.Type) map[string]any {
	return map[string]any{"format": f.String(), "type": typeName(t)}
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "nil"
	}
	return t.String()
}

// RegisterOverride customizes the codec of t. It applies to every format
// and drops all cached codecs.
func (e *Engine) RegisterOverride(t reflect.Type, ov Override) {
	e.registry.SetOverride(t, ov)
	e.logger.Debug("codec override registered", zap.Stringer("type", t))
}

// RemoveOverride restores the reflective codec of t.
func (e *Engine) RemoveOverride(t reflect.Type) {
	e.registry.RemoveOverride(t)
}

// RegisterType binds a discriminator name to the type of sample, so that
// values written through an interface can be read back into it.
func (e *Engine) RegisterType(name string, sample any) error {
	t := reflect.TypeOf(sample)
	if t == nil || name == "" {
		return errors.Mark(errors.New("type registration needs a name and a non-nil sample"), ErrInvalidConfiguration)
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	e.registry.RegisterType(name, t)
	return nil
}

// Reset restores default settings, closes every scope, and drops every
// override, registered type name and cached codec.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.base = config.Default()
	e.scopes = nil
	e.mu.Unlock()
	e.registry.Reset()
	e.logger.Debug("engine reset")
}

// Stats reports codec cache activity.
func (e *Engine) Stats() Stats {
	return e.registry.Stats()
}

// HasCircularReferences reports whether any value reachable from v refers
// back to one of its ancestors. It is a diagnostic and is never consulted
// while serializing.
func HasCircularReferences(v any) bool {
	return guard.HasCircularReferences(v)
}

// Format selects the wire format.
type Format = format.Kind

const (
	JSON = format.JSON
	JSV  = format.JSV
)

// ParseFormat maps a format name to a Format.
func ParseFormat(s string) (Format, error) {
	return format.ParseKind(s)
}

// Override customizes the codec of one type.
type Override = codec.Override

// Stats is a snapshot of codec cache activity.
type Stats = codec.Stats

// RegisterCodec installs typed override functions for T on e. A nil function
// keeps the reflective behavior for that direction.
func RegisterCodec[T any](e *Engine, write func(T) (string, error), read func(string) (T, error)) {
	var ov Override
	if write != nil {
		ov.Write = func(v any) (string, error) { return write(v.(T)) }
	}
	if read != nil {
		ov.Read = func(s string) (any, error) { return read(s) }
	}
	e.RegisterOverride(reflect.TypeOf((*T)(nil)).Elem(), ov)
}
