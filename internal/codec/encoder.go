package codec

import (
	"bytes"
	"reflect"

	"github.com/hengadev/typetext/internal/codecerr"
	"github.com/hengadev/typetext/internal/config"
	"github.com/hengadev/typetext/internal/format"
	"github.com/hengadev/typetext/internal/guard"
)

// Encoder holds the state of one top-level write. It is not safe for
// concurrent use.
type Encoder struct {
	buf   *bytes.Buffer
	f     *format.Format
	cfg   config.Config
	reg   *Registry
	depth guard.Tracker

	// typeInfo is the discriminator the next struct write emits first. It is
	// set when a struct is written through an interface.
	typeInfo string
}

// NewEncoder returns an encoder appending to buf.
func NewEncoder(buf *bytes.Buffer, reg *Registry, kind format.Kind, cfg config.Config) *Encoder {
	return &Encoder{
		buf:   buf,
		f:     format.For(kind),
		cfg:   cfg,
		reg:   reg,
		depth: guard.NewTracker(cfg.MaxDepth),
	}
}

// Encode writes the text form of v. A nil v is written as null.
func (e *Encoder) Encode(v any) error {
	if v == nil {
		e.f.WriteNull(e.buf)
		return nil
	}
	return e.encodeValue(reflect.ValueOf(v))
}

func (e *Encoder) encodeValue(v reflect.Value) error {
	c, err := e.reg.Lookup(v.Type(), e.f.Kind(), e.cfg)
	if err != nil {
		return err
	}
	return writeElem(e, c, v)
}

// Truncations reports how many branches the depth guard cut.
func (e *Encoder) Truncations() int {
	return e.depth.Truncations()
}

func (e *Encoder) takeTypeInfo() string {
	name := e.typeInfo
	e.typeInfo = ""
	return name
}

// Decoder holds the state of one top-level read.
type Decoder struct {
	f   *format.Format
	cfg config.Config
	reg *Registry
}

// NewDecoder returns a decoder for the given format and settings.
func NewDecoder(reg *Registry, kind format.Kind, cfg config.Config) *Decoder {
	return &Decoder{f: format.For(kind), cfg: cfg, reg: reg}
}

// Decode parses text into dst, which must be settable. The whole text must
// be a single value; null or empty text leaves dst at its zero value.
func (d *Decoder) Decode(text string, dst reflect.Value) error {
	if !dst.CanSet() {
		return codecerr.New(codecerr.PhaseRead, codecerr.KindInvalidTarget).
			Type(dst.Type()).Detail("target is not settable").Build()
	}
	c, err := d.reg.Lookup(dst.Type(), d.f.Kind(), d.cfg)
	if err != nil {
		return err
	}

	tok, end, err := d.f.EatValue(text, 0)
	if err != nil {
		return parseFailure(dst.Type(), err)
	}
	start := end - len(tok)
	if end = d.f.EatWhitespace(text, end); end < len(text) {
		return codecerr.New(codecerr.PhaseRead, codecerr.KindParse).
			Type(dst.Type()).Offset(end).Detail("unexpected trailing text %q", clip(text[end:])).Build()
	}
	return codecerr.ShiftOffset(d.read(c, tok, dst), start)
}

// read parses tok into dst through c; null tokens reset dst.
func (d *Decoder) read(c *TypeCodec, tok string, dst reflect.Value) error {
	if d.f.IsNull(tok) {
		dst.SetZero()
		return nil
	}
	return c.Read(d, tok, dst)
}

func clip(s string) string {
	const max = 24
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
