package codec

import (
	"encoding"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/hengadev/typetext/internal/codecerr"
	"github.com/hengadev/typetext/internal/config"
	"github.com/hengadev/typetext/internal/format"
)

var (
	timeType            = reflect.TypeOf(time.Time{})
	durationType        = reflect.TypeOf(time.Duration(0))
	uuidType            = reflect.TypeOf(uuid.UUID{})
	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// builder constructs codecs for one (format, settings) pair. It runs with
// the registry build lock held.
type builder struct {
	reg  *Registry
	kind format.Kind
	f    *format.Format
	cfg  config.Config

	// inProgress holds forwarding codecs for types whose build has started
	// but not finished, so recursive types resolve to themselves.
	inProgress map[reflect.Type]*TypeCodec
	// staged holds finished builds until the root build settles.
	staged map[reflect.Type]*entry
	// events are reported once the build lock is released, so observers
	// may use the registry.
	events []BuildEvent
}

func newBuilder(r *Registry, kind format.Kind, cfg config.Config) *builder {
	return &builder{
		reg:        r,
		kind:       kind,
		f:          format.For(kind),
		cfg:        cfg,
		inProgress: make(map[reflect.Type]*TypeCodec),
		staged:     make(map[reflect.Type]*entry),
	}
}

// build constructs the codec for root and publishes the results. When the
// root fails, only failures are published: successful codecs built along the
// way may forward to a type that never finished.
func (b *builder) build(root reflect.Type) (*TypeCodec, error) {
	tc, err := b.codecFor(root)
	for t, e := range b.staged {
		if err == nil || e.err != nil {
			b.reg.cache.Store(cacheKey{typ: t, kind: b.kind, cfg: b.cfg}, e)
		}
	}
	return tc, err
}

func (b *builder) codecFor(t reflect.Type) (*TypeCodec, error) {
	if v, ok := b.reg.cache.Load(cacheKey{typ: t, kind: b.kind, cfg: b.cfg}); ok {
		e := v.(*entry)
		return e.codec, e.err
	}
	if e, ok := b.staged[t]; ok {
		return e.codec, e.err
	}
	if fwd, ok := b.inProgress[t]; ok {
		return fwd, nil
	}

	var real *TypeCodec
	b.inProgress[t] = &TypeCodec{
		Type: t,
		Write: func(e *Encoder, v reflect.Value) error {
			return real.Write(e, v)
		},
		Read: func(d *Decoder, tok string, dst reflect.Value) error {
			return real.Read(d, tok, dst)
		},
	}

	start := time.Now()
	tc, err := b.construct(t)
	delete(b.inProgress, t)
	if err != nil {
		tc = nil
	} else {
		real = tc
	}
	b.staged[t] = &entry{codec: tc, err: err}
	b.events = append(b.events, BuildEvent{Type: t, Format: b.kind, Duration: time.Since(start), Err: err})
	return tc, err
}

func (b *builder) construct(t reflect.Type) (*TypeCodec, error) {
	if ov, ok := b.reg.override(t); ok {
		return b.overrideCodec(t, ov)
	}
	return b.reflective(t)
}

func (b *builder) reflective(t reflect.Type) (*TypeCodec, error) {
	switch t {
	case timeType:
		return b.dateCodec(t), nil
	case durationType:
		return b.durationCodec(t), nil
	case uuidType:
		return b.guidCodec(t), nil
	}

	if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 && !isTextCodec(t) {
		return b.bytesCodec(t), nil
	}
	if isTextCodec(t) {
		return b.textCodec(t), nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return b.boolCodec(t), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return b.intCodec(t), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return b.uintCodec(t), nil
	case reflect.Float32, reflect.Float64:
		return b.floatCodec(t), nil
	case reflect.String:
		return b.stringCodec(t), nil
	case reflect.Interface:
		return b.interfaceCodec(t), nil
	case reflect.Pointer:
		return b.pointerCodec(t)
	case reflect.Slice:
		return b.sliceCodec(t)
	case reflect.Array:
		return b.arrayCodec(t)
	case reflect.Map:
		return b.mapCodec(t)
	case reflect.Struct:
		return b.structCodec(t)
	}
	return nil, codecerr.Unsupported(t, "no text representation for kind "+t.Kind().String())
}

// isTextCodec reports whether t reads and writes itself through the
// encoding text interfaces.
func isTextCodec(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer || t.Kind() == reflect.Interface {
		return false
	}
	marshals := t.Implements(textMarshalerType) || reflect.PointerTo(t).Implements(textMarshalerType)
	return marshals && reflect.PointerTo(t).Implements(textUnmarshalerType)
}

// guarded wraps the write function of a structured type with the depth
// guard. Past the limit the value is written as null and not descended.
func guarded(w WriteFunc) WriteFunc {
	return func(e *Encoder, v reflect.Value) error {
		if !e.depth.Enter() {
			e.typeInfo = ""
			e.f.WriteNull(e.buf)
			return nil
		}
		defer e.depth.Leave()
		return w(e, v)
	}
}

func parseFailure(t reflect.Type, err error) error {
	if ce, ok := err.(*codecerr.Error); ok && ce.Type == "" && t != nil {
		cp := *ce
		cp.Type = t.String()
		return &cp
	}
	return err
}
