package codec

import (
	"encoding"
	"encoding/hex"
	"reflect"
	"sort"
	"strconv"

	"github.com/google/uuid"

	"github.com/hengadev/typetext/internal/codecerr"
)

func isNilable(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return true
	}
	return false
}

// writeElem writes one list element or dictionary value; nil is null.
func writeElem(e *Encoder, c *TypeCodec, v reflect.Value) error {
	if isNilable(v) && v.IsNil() {
		e.f.WriteNull(e.buf)
		return nil
	}
	return c.Write(e, v)
}

func (b *builder) pointerCodec(t reflect.Type) (*TypeCodec, error) {
	elem, err := b.codecFor(t.Elem())
	if err != nil {
		return nil, codecerr.BuildFailed(t, "", err)
	}
	softBool := t.Elem().Kind() == reflect.Bool

	return &TypeCodec{
		Type: t,
		Write: func(e *Encoder, v reflect.Value) error {
			if v.IsNil() {
				e.f.WriteNull(e.buf)
				return nil
			}
			return elem.Write(e, v.Elem())
		},
		Read: func(d *Decoder, tok string, dst reflect.Value) error {
			p := reflect.New(t.Elem())
			if softBool {
				// an unrecognised nullable boolean is absent, not an error
				val, ok := d.f.ParseBool(tok)
				if !ok {
					dst.SetZero()
					return nil
				}
				p.Elem().SetBool(val)
				dst.Set(p)
				return nil
			}
			if err := elem.Read(d, tok, p.Elem()); err != nil {
				return err
			}
			dst.Set(p)
			return nil
		},
	}, nil
}

func (b *builder) writeList(elem *TypeCodec) WriteFunc {
	return guarded(func(e *Encoder, v reflect.Value) error {
		chars := e.f.Chars()
		e.buf.WriteByte(chars.ListStart)
		for i := 0; i < v.Len(); i++ {
			if i > 0 {
				e.buf.WriteByte(chars.ItemSep)
			}
			if err := writeElem(e, elem, v.Index(i)); err != nil {
				return codecerr.WithMember(err, strconv.Itoa(i))
			}
		}
		e.buf.WriteByte(chars.ListEnd)
		return nil
	})
}

// readList calls fn with the index and token of every element of tok.
func readList(d *Decoder, t reflect.Type, tok string, fn func(i int, item string) error) error {
	chars := d.f.Chars()
	i, err := d.f.EatListStart(tok, 0)
	if err != nil {
		return parseFailure(t, err)
	}
	if _, ok := d.f.PeekEnd(tok, i, chars.ListEnd); ok {
		return nil
	}
	for n := 0; ; n++ {
		var item string
		item, i, err = d.f.EatValue(tok, i)
		if err != nil {
			return parseFailure(t, err)
		}
		if err := fn(n, item); err != nil {
			return codecerr.WithMember(codecerr.ShiftOffset(err, i-len(item)), strconv.Itoa(n))
		}
		var done bool
		i, done, err = d.f.EatItemSeparatorOrEnd(tok, i, chars.ListEnd)
		if err != nil {
			return parseFailure(t, err)
		}
		if done {
			return nil
		}
	}
}

func (b *builder) sliceCodec(t reflect.Type) (*TypeCodec, error) {
	elem, err := b.codecFor(t.Elem())
	if err != nil {
		return nil, codecerr.BuildFailed(t, "", err)
	}
	return &TypeCodec{
		Type:  t,
		Write: b.writeList(elem),
		Read: func(d *Decoder, tok string, dst reflect.Value) error {
			out := reflect.MakeSlice(t, 0, 0)
			err := readList(d, t, tok, func(_ int, item string) error {
				ev := reflect.New(t.Elem()).Elem()
				if err := d.read(elem, item, ev); err != nil {
					return err
				}
				out = reflect.Append(out, ev)
				return nil
			})
			if err != nil {
				return err
			}
			dst.Set(out)
			return nil
		},
	}, nil
}

func (b *builder) arrayCodec(t reflect.Type) (*TypeCodec, error) {
	elem, err := b.codecFor(t.Elem())
	if err != nil {
		return nil, codecerr.BuildFailed(t, "", err)
	}
	return &TypeCodec{
		Type:  t,
		Write: b.writeList(elem),
		Read: func(d *Decoder, tok string, dst reflect.Value) error {
			return readList(d, t, tok, func(i int, item string) error {
				if i >= t.Len() {
					return codecerr.New(codecerr.PhaseRead, codecerr.KindParse).
						Type(t).Detail("more than %d elements", t.Len()).Build()
				}
				return d.read(elem, item, dst.Index(i))
			})
		},
	}, nil
}

// keyCodec converts map keys to and from the text used as the entry name.
type keyCodec struct {
	toText   func(v reflect.Value) (string, error)
	fromText func(s string) (reflect.Value, error)
}

func (b *builder) keyCodecFor(t reflect.Type) (*keyCodec, error) {
	badKey := func(s string, err error) (reflect.Value, error) {
		return reflect.Value{}, codecerr.New(codecerr.PhaseRead, codecerr.KindParse).
			Type(t).Detail("invalid map key %q", s).Cause(err).Build()
	}

	if t == uuidType {
		return &keyCodec{
			toText: func(v reflect.Value) (string, error) {
				id := v.Interface().(uuid.UUID)
				return hex.EncodeToString(id[:]), nil
			},
			fromText: func(s string) (reflect.Value, error) {
				id, err := uuid.Parse(s)
				if err != nil {
					return badKey(s, err)
				}
				return reflect.ValueOf(id), nil
			},
		}, nil
	}
	if t.Kind() != reflect.String && isTextCodec(t) {
		return &keyCodec{
			toText: func(v reflect.Value) (string, error) {
				text, err := marshalText(v)
				return string(text), err
			},
			fromText: func(s string) (reflect.Value, error) {
				p := reflect.New(t)
				if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
					return badKey(s, err)
				}
				return p.Elem(), nil
			},
		}, nil
	}

	switch t.Kind() {
	case reflect.String:
		return &keyCodec{
			toText: func(v reflect.Value) (string, error) { return v.String(), nil },
			fromText: func(s string) (reflect.Value, error) {
				return reflect.ValueOf(s).Convert(t), nil
			},
		}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &keyCodec{
			toText: func(v reflect.Value) (string, error) { return strconv.FormatInt(v.Int(), 10), nil },
			fromText: func(s string) (reflect.Value, error) {
				n, err := strconv.ParseInt(s, 10, t.Bits())
				if err != nil {
					return badKey(s, err)
				}
				k := reflect.New(t).Elem()
				k.SetInt(n)
				return k, nil
			},
		}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return &keyCodec{
			toText: func(v reflect.Value) (string, error) { return strconv.FormatUint(v.Uint(), 10), nil },
			fromText: func(s string) (reflect.Value, error) {
				n, err := strconv.ParseUint(s, 10, t.Bits())
				if err != nil {
					return badKey(s, err)
				}
				k := reflect.New(t).Elem()
				k.SetUint(n)
				return k, nil
			},
		}, nil
	case reflect.Float32, reflect.Float64:
		return &keyCodec{
			toText: func(v reflect.Value) (string, error) {
				return strconv.FormatFloat(v.Float(), 'g', -1, t.Bits()), nil
			},
			fromText: func(s string) (reflect.Value, error) {
				n, err := strconv.ParseFloat(s, t.Bits())
				if err != nil {
					return badKey(s, err)
				}
				k := reflect.New(t).Elem()
				k.SetFloat(n)
				return k, nil
			},
		}, nil
	case reflect.Bool:
		return &keyCodec{
			toText: func(v reflect.Value) (string, error) { return strconv.FormatBool(v.Bool()), nil },
			fromText: func(s string) (reflect.Value, error) {
				n, err := strconv.ParseBool(s)
				if err != nil {
					return badKey(s, err)
				}
				k := reflect.New(t).Elem()
				k.SetBool(n)
				return k, nil
			},
		}, nil
	}
	return nil, codecerr.Unsupported(t, "map keys must be strings, numbers, booleans, guids or text marshalers")
}

type mapItem struct {
	key   string
	value reflect.Value
}

func (b *builder) mapCodec(t reflect.Type) (*TypeCodec, error) {
	keys, err := b.keyCodecFor(t.Key())
	if err != nil {
		return nil, codecerr.BuildFailed(t, "", err)
	}
	elem, err := b.codecFor(t.Elem())
	if err != nil {
		return nil, codecerr.BuildFailed(t, "", err)
	}
	includeNulls := b.cfg.IncludeNullValuesInDictionaries

	write := func(e *Encoder, v reflect.Value) error {
		items := make([]mapItem, 0, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			val := iter.Value()
			if !includeNulls && isNilable(val) && val.IsNil() {
				continue
			}
			key, err := keys.toText(iter.Key())
			if err != nil {
				return codecerr.New(codecerr.PhaseWrite, codecerr.KindCustomCodec).Type(t.Key()).Cause(err).Build()
			}
			items = append(items, mapItem{key: key, value: val})
		}
		// deterministic output
		sort.Slice(items, func(i, j int) bool { return items[i].key < items[j].key })

		chars := e.f.Chars()
		e.buf.WriteByte(chars.MapStart)
		for i, it := range items {
			if i > 0 {
				e.buf.WriteByte(chars.ItemSep)
			}
			e.f.WritePropertyName(e.buf, it.key)
			if err := writeElem(e, elem, it.value); err != nil {
				return codecerr.WithMember(err, it.key)
			}
		}
		e.buf.WriteByte(chars.MapEnd)
		return nil
	}

	read := func(d *Decoder, tok string, dst reflect.Value) error {
		m := dst
		if m.IsNil() {
			m = reflect.MakeMap(t)
		}
		put := func(key string, valTok string) error {
			k, err := keys.fromText(key)
			if err != nil {
				return err
			}
			val := reflect.New(t.Elem()).Elem()
			if err := d.read(elem, valTok, val); err != nil {
				return codecerr.WithMember(err, key)
			}
			m.SetMapIndex(k, val)
			return nil
		}

		var err error
		if len(tok) > 0 && tok[0] == d.f.Chars().ListStart {
			err = readPairs(d, t, tok, put)
		} else {
			err = readEntries(d, t, tok, put)
		}
		if err != nil {
			return err
		}
		dst.Set(m)
		return nil
	}

	return &TypeCodec{Type: t, Write: guarded(write), Read: read}, nil
}

// readEntries walks a map token calling put for every key and value token.
func readEntries(d *Decoder, t reflect.Type, tok string, put func(key, val string) error) error {
	chars := d.f.Chars()
	i, err := d.f.EatMapStart(tok, 0)
	if err != nil {
		return parseFailure(t, err)
	}
	if _, ok := d.f.PeekEnd(tok, i, chars.MapEnd); ok {
		return nil
	}
	for {
		var key, val string
		key, i, err = d.f.EatMapKey(tok, i)
		if err != nil {
			return parseFailure(t, err)
		}
		i, err = d.f.EatMapKeySeparator(tok, i)
		if err != nil {
			return parseFailure(t, err)
		}
		val, i, err = d.f.EatValue(tok, i)
		if err != nil {
			return parseFailure(t, err)
		}
		if err := put(key, val); err != nil {
			return codecerr.ShiftOffset(err, i-len(val))
		}
		var done bool
		i, done, err = d.f.EatItemSeparatorOrEnd(tok, i, chars.MapEnd)
		if err != nil {
			return parseFailure(t, err)
		}
		if done {
			return nil
		}
	}
}

// readPairs accepts a dictionary written as a list of {Key:k,Value:v} maps.
func readPairs(d *Decoder, t reflect.Type, tok string, put func(key, val string) error) error {
	return readList(d, t, tok, func(_ int, item string) error {
		var key, val string
		var hasKey bool
		err := readEntries(d, t, item, func(k, v string) error {
			switch normalizeName(k) {
			case "key":
				s, err := d.f.ParseString(v)
				if err != nil {
					return err
				}
				key, hasKey = s, true
			case "value":
				val = v
			}
			return nil
		})
		if err != nil {
			return err
		}
		if !hasKey {
			return codecerr.New(codecerr.PhaseRead, codecerr.KindParse).
				Type(t).Detail("key/value pair without a key").Build()
		}
		return put(key, val)
	})
}
