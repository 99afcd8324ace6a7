package codec

import (
	"reflect"

	"github.com/hengadev/typetext/internal/codecerr"
)

// overrideCodec wraps user functions registered for t. A missing side falls
// back to the reflective codec, which also honors ov.Exclude for structs.
func (b *builder) overrideCodec(t reflect.Type, ov Override) (*TypeCodec, error) {
	var fallback *TypeCodec
	if ov.Write == nil || ov.Read == nil {
		var err error
		if fallback, err = b.reflective(t); err != nil {
			return nil, err
		}
	}

	tc := &TypeCodec{Type: t}
	if ov.Write == nil {
		tc.Write = fallback.Write
	} else {
		tc.Write = func(e *Encoder, v reflect.Value) error {
			s, err := ov.Write(v.Interface())
			if err != nil {
				return codecerr.New(codecerr.PhaseWrite, codecerr.KindCustomCodec).Type(t).Cause(err).Build()
			}
			if ov.Raw {
				e.buf.WriteString(s)
			} else {
				e.f.WriteString(e.buf, s)
			}
			return nil
		}
	}

	if ov.Read == nil {
		tc.Read = fallback.Read
	} else {
		tc.Read = func(d *Decoder, tok string, dst reflect.Value) error {
			s := tok
			if !ov.Raw {
				var err error
				if s, err = d.f.ParseString(tok); err != nil {
					return parseFailure(t, err)
				}
			}
			val, err := ov.Read(s)
			if err != nil {
				return codecerr.New(codecerr.PhaseRead, codecerr.KindCustomCodec).Type(t).Cause(err).Build()
			}
			return assignResult(t, dst, val)
		}
	}

	if ov.OnWrite != nil {
		write := tc.Write
		tc.Write = func(e *Encoder, v reflect.Value) error {
			out := reflect.ValueOf(ov.OnWrite(v.Interface()))
			if !out.IsValid() {
				e.f.WriteNull(e.buf)
				return nil
			}
			if out.Type() != t {
				if !out.Type().ConvertibleTo(t) {
					return codecerr.New(codecerr.PhaseWrite, codecerr.KindCustomCodec).
						Type(t).Detail("write hook returned %s", out.Type()).Build()
				}
				out = out.Convert(t)
			}
			return write(e, out)
		}
	}
	if ov.OnRead != nil {
		read := tc.Read
		tc.Read = func(d *Decoder, tok string, dst reflect.Value) error {
			if err := read(d, tok, dst); err != nil {
				return err
			}
			return assignResult(t, dst, ov.OnRead(dst.Interface()))
		}
	}
	return tc, nil
}

// assignResult stores a value returned by user code into dst, converting
// it to t when needed. A nil result resets dst.
func assignResult(t reflect.Type, dst reflect.Value, val any) error {
	rv := reflect.ValueOf(val)
	switch {
	case !rv.IsValid():
		dst.SetZero()
	case rv.Type().AssignableTo(t):
		dst.Set(rv)
	case rv.Type().ConvertibleTo(t):
		dst.Set(rv.Convert(t))
	default:
		return codecerr.New(codecerr.PhaseRead, codecerr.KindInvalidTarget).
			Type(t).Detail("override returned %s", rv.Type()).Build()
	}
	return nil
}
