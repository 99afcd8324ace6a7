package codec

import (
	"encoding"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/hengadev/typetext/internal/codecerr"
)

func (b *builder) boolCodec(t reflect.Type) *TypeCodec {
	return &TypeCodec{
		Type: t,
		Write: func(e *Encoder, v reflect.Value) error {
			e.f.WriteBool(e.buf, v.Bool())
			return nil
		},
		Read: func(d *Decoder, tok string, dst reflect.Value) error {
			v, ok := d.f.ParseBool(tok)
			if !ok {
				return codecerr.New(codecerr.PhaseRead, codecerr.KindParse).
					Type(t).Offset(0).Detail("invalid boolean %q", tok).Build()
			}
			dst.SetBool(v)
			return nil
		},
	}
}

func (b *builder) intCodec(t reflect.Type) *TypeCodec {
	bits := t.Bits()
	return &TypeCodec{
		Type: t,
		Write: func(e *Encoder, v reflect.Value) error {
			e.f.WriteInt(e.buf, v.Int())
			return nil
		},
		Read: func(d *Decoder, tok string, dst reflect.Value) error {
			n, err := d.f.ParseInt(tok, bits)
			if err != nil {
				return parseFailure(t, err)
			}
			dst.SetInt(n)
			return nil
		},
	}
}

func (b *builder) uintCodec(t reflect.Type) *TypeCodec {
	bits := t.Bits()
	return &TypeCodec{
		Type: t,
		Write: func(e *Encoder, v reflect.Value) error {
			e.f.WriteUint(e.buf, v.Uint())
			return nil
		},
		Read: func(d *Decoder, tok string, dst reflect.Value) error {
			n, err := d.f.ParseUint(tok, bits)
			if err != nil {
				return parseFailure(t, err)
			}
			dst.SetUint(n)
			return nil
		},
	}
}

func (b *builder) floatCodec(t reflect.Type) *TypeCodec {
	bits := t.Bits()
	return &TypeCodec{
		Type: t,
		Write: func(e *Encoder, v reflect.Value) error {
			e.f.WriteFloat(e.buf, v.Float(), bits)
			return nil
		},
		Read: func(d *Decoder, tok string, dst reflect.Value) error {
			n, err := d.f.ParseFloat(tok, bits)
			if err != nil {
				return parseFailure(t, err)
			}
			dst.SetFloat(n)
			return nil
		},
	}
}

func (b *builder) stringCodec(t reflect.Type) *TypeCodec {
	return &TypeCodec{
		Type: t,
		Write: func(e *Encoder, v reflect.Value) error {
			e.f.WriteString(e.buf, v.String())
			return nil
		},
		Read: func(d *Decoder, tok string, dst reflect.Value) error {
			s, err := d.f.ParseString(tok)
			if err != nil {
				return parseFailure(t, err)
			}
			dst.SetString(s)
			return nil
		},
	}
}

func (b *builder) bytesCodec(t reflect.Type) *TypeCodec {
	return &TypeCodec{
		Type: t,
		Write: func(e *Encoder, v reflect.Value) error {
			e.f.WriteBytes(e.buf, v.Bytes())
			return nil
		},
		Read: func(d *Decoder, tok string, dst reflect.Value) error {
			raw, err := d.f.ParseBytes(tok)
			if err != nil {
				return parseFailure(t, err)
			}
			dst.SetBytes(raw)
			return nil
		},
	}
}

func (b *builder) guidCodec(t reflect.Type) *TypeCodec {
	return &TypeCodec{
		Type: t,
		Write: func(e *Encoder, v reflect.Value) error {
			e.f.WriteGUID(e.buf, v.Interface().(uuid.UUID))
			return nil
		},
		Read: func(d *Decoder, tok string, dst reflect.Value) error {
			id, err := d.f.ParseGUID(tok)
			if err != nil {
				return parseFailure(t, err)
			}
			dst.Set(reflect.ValueOf(id))
			return nil
		},
	}
}

func (b *builder) dateCodec(t reflect.Type) *TypeCodec {
	handler, utc := b.cfg.DateHandler, b.cfg.AlwaysUseUTC
	return &TypeCodec{
		Type: t,
		Write: func(e *Encoder, v reflect.Value) error {
			e.f.WriteDate(e.buf, v.Interface().(time.Time), handler, utc)
			return nil
		},
		Read: func(d *Decoder, tok string, dst reflect.Value) error {
			tm, err := d.f.ParseDate(tok, handler)
			if err != nil {
				return parseFailure(t, err)
			}
			if utc {
				tm = tm.UTC()
			}
			dst.Set(reflect.ValueOf(tm))
			return nil
		},
	}
}

func (b *builder) durationCodec(t reflect.Type) *TypeCodec {
	handler := b.cfg.TimeSpanHandler
	return &TypeCodec{
		Type: t,
		Write: func(e *Encoder, v reflect.Value) error {
			e.f.WriteDuration(e.buf, time.Duration(v.Int()), handler)
			return nil
		},
		Read: func(d *Decoder, tok string, dst reflect.Value) error {
			dur, err := d.f.ParseDuration(tok)
			if err != nil {
				return parseFailure(t, err)
			}
			dst.SetInt(int64(dur))
			return nil
		},
	}
}

// textCodec handles types implementing encoding.TextMarshaler and
// encoding.TextUnmarshaler, possibly through a pointer receiver.
func (b *builder) textCodec(t reflect.Type) *TypeCodec {
	return &TypeCodec{
		Type: t,
		Write: func(e *Encoder, v reflect.Value) error {
			text, err := marshalText(v)
			if err != nil {
				return codecerr.New(codecerr.PhaseWrite, codecerr.KindCustomCodec).Type(t).Cause(err).Build()
			}
			e.f.WriteString(e.buf, string(text))
			return nil
		},
		Read: func(d *Decoder, tok string, dst reflect.Value) error {
			s, err := d.f.ParseString(tok)
			if err != nil {
				return parseFailure(t, err)
			}
			p := reflect.New(t)
			if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
				return codecerr.New(codecerr.PhaseRead, codecerr.KindParse).Type(t).Offset(0).Cause(err).Build()
			}
			dst.Set(p.Elem())
			return nil
		},
	}
}

func marshalText(v reflect.Value) ([]byte, error) {
	if m, ok := v.Interface().(encoding.TextMarshaler); ok {
		return m.MarshalText()
	}
	if v.CanAddr() {
		return v.Addr().Interface().(encoding.TextMarshaler).MarshalText()
	}
	p := reflect.New(v.Type())
	p.Elem().Set(v)
	return p.Interface().(encoding.TextMarshaler).MarshalText()
}
