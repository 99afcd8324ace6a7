package codec

import (
	"reflect"

	"github.com/hengadev/typetext/internal/codecerr"
	"github.com/hengadev/typetext/internal/format"
)

// interfaceCodec dispatches on the runtime type of the value. Structs
// written through an interface carry a discriminator so they can be read
// back into the same interface.
func (b *builder) interfaceCodec(t reflect.Type) *TypeCodec {
	cfg := b.cfg
	return &TypeCodec{
		Type: t,
		Write: func(e *Encoder, v reflect.Value) error {
			if v.IsNil() {
				e.f.WriteNull(e.buf)
				return nil
			}
			rv := v.Elem()
			c, err := e.reg.Lookup(rv.Type(), e.f.Kind(), e.cfg)
			if err != nil {
				return err
			}
			if !cfg.ExcludeTypeInfo && isStructLike(rv) {
				e.typeInfo = e.reg.TypeName(rv.Type())
			}
			err = c.Write(e, rv)
			// only the reflective struct codec consumes the name; left set by
			// any other codec it would land on the next struct written
			e.typeInfo = ""
			return err
		},
		Read: func(d *Decoder, tok string, dst reflect.Value) error {
			if name, ok := d.discriminator(tok); ok {
				if rt, ok := d.reg.Resolve(name); ok {
					return d.readConcrete(t, rt, tok, dst)
				}
			}
			if t.NumMethod() > 0 {
				return codecerr.New(codecerr.PhaseRead, codecerr.KindInvalidTarget).
					Type(t).Detail("no registered type discriminator for non-empty interface").Build()
			}
			val, err := d.parseDynamic(tok)
			if err != nil {
				return parseFailure(t, err)
			}
			if val != nil {
				dst.Set(reflect.ValueOf(val))
			}
			return nil
		},
	}
}

// isStructLike reports whether v is a struct or a non-nil pointer to one.
func isStructLike(v reflect.Value) bool {
	if v.Kind() == reflect.Pointer {
		return !v.IsNil() && v.Elem().Kind() == reflect.Struct
	}
	return v.Kind() == reflect.Struct
}

// discriminator returns the type name when tok is a map whose first member
// is the type attribute.
func (d *Decoder) discriminator(tok string) (string, bool) {
	if len(tok) == 0 || tok[0] != d.f.Chars().MapStart {
		return "", false
	}
	i, err := d.f.EatMapStart(tok, 0)
	if err != nil {
		return "", false
	}
	key, i, err := d.f.EatMapKey(tok, i)
	if err != nil || key != d.cfg.TypeAttr {
		return "", false
	}
	if i, err = d.f.EatMapKeySeparator(tok, i); err != nil {
		return "", false
	}
	val, _, err := d.f.EatValue(tok, i)
	if err != nil {
		return "", false
	}
	name, err := d.f.ParseString(val)
	if err != nil || name == "" {
		return "", false
	}
	return name, true
}

// readConcrete reads tok as rt and stores it, or a pointer to it, in dst.
func (d *Decoder) readConcrete(iface, rt reflect.Type, tok string, dst reflect.Value) error {
	c, err := d.reg.Lookup(rt, d.f.Kind(), d.cfg)
	if err != nil {
		return err
	}
	switch {
	case rt.AssignableTo(iface):
		v := reflect.New(rt).Elem()
		if err := c.Read(d, tok, v); err != nil {
			return err
		}
		dst.Set(v)
	case reflect.PointerTo(rt).AssignableTo(iface):
		p := reflect.New(rt)
		if err := c.Read(d, tok, p.Elem()); err != nil {
			return err
		}
		dst.Set(p)
	default:
		return codecerr.New(codecerr.PhaseRead, codecerr.KindInvalidTarget).
			Type(iface).Detail("registered type %s does not implement the interface", rt).Build()
	}
	return nil
}

// parseDynamic reads a value with no static type. Quoted tokens are strings.
// Maps and lists become map[string]any and []any when object conversion is
// on, and stay raw text otherwise. Bare literals become booleans and
// numbers in JSON, and in JSV when primitive parsing is on.
func (d *Decoder) parseDynamic(tok string) (any, error) {
	if d.f.IsNull(tok) {
		return nil, nil
	}
	chars := d.f.Chars()
	switch tok[0] {
	case chars.MapStart:
		if !d.cfg.ConvertObjectTypesIntoStringDictionary {
			return tok, nil
		}
		out := map[string]any{}
		err := readEntries(d, nil, tok, func(key, val string) error {
			v, err := d.parseDynamic(val)
			if err != nil {
				return codecerr.WithMember(err, key)
			}
			out[key] = v
			return nil
		})
		return out, err
	case chars.ListStart:
		if !d.cfg.ConvertObjectTypesIntoStringDictionary {
			return tok, nil
		}
		out := []any{}
		err := readList(d, nil, tok, func(_ int, item string) error {
			v, err := d.parseDynamic(item)
			if err != nil {
				return err
			}
			out = append(out, v)
			return nil
		})
		return out, err
	case chars.Quote:
		return d.f.ParseString(tok)
	}

	if d.f.Kind() == format.JSV && !d.cfg.TryToParsePrimitiveTypeValues {
		return tok, nil
	}
	return d.parsePrimitive(tok), nil
}

func (d *Decoder) parsePrimitive(tok string) any {
	switch tok {
	case "true":
		return true
	case "false":
		return false
	}
	if !looksNumeric(tok) {
		return tok
	}
	if n, err := d.f.ParseInt(tok, 64); err == nil {
		return n
	}
	if n, err := d.f.ParseFloat(tok, 64); err == nil {
		return n
	}
	return tok
}

func looksNumeric(s string) bool {
	c := s[0]
	if c == '-' || c == '+' {
		if len(s) == 1 {
			return false
		}
		c = s[1]
	}
	return c == '.' || (c >= '0' && c <= '9')
}
