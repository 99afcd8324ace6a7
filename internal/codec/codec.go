// Package codec builds and caches the per-type write and read functions
// that turn Go values into wire text and back.
package codec

import (
	"reflect"

	"github.com/hengadev/typetext/internal/config"
	"github.com/hengadev/typetext/internal/format"
)

// WriteFunc appends the text form of v to the encoder's buffer.
type WriteFunc func(e *Encoder, v reflect.Value) error

// ReadFunc parses tok, a single non-null value token, into dst. dst is
// settable and holds the zero value of its type.
type ReadFunc func(d *Decoder, tok string, dst reflect.Value) error

// TypeCodec is the immutable write/read pair built for one type.
type TypeCodec struct {
	Type  reflect.Type
	Write WriteFunc
	Read  ReadFunc
}

// Override customizes the codec of a single type. A nil side keeps the
// reflective behavior for that direction.
//
// Write output is written as a string value and Read receives the unescaped
// string, unless Raw is set: then Write output is spliced into the text
// verbatim and Read receives the raw token.
type Override struct {
	Write func(v any) (string, error)
	Read  func(s string) (any, error)
	Raw   bool

	// OnWrite receives every non-null value before it is written and returns
	// the value to write in its place. A nil result is written as null.
	OnWrite func(v any) any
	// OnRead receives every value after it is read from a non-null token and
	// returns the value to store.
	OnRead func(v any) any
	// Exclude names struct members that are neither written nor read. Names
	// match the Go field name or the written name, ignoring case.
	Exclude []string
}

type cacheKey struct {
	typ  reflect.Type
	kind format.Kind
	cfg  config.Config
}

// entry is a finished build: either a codec or the error that prevented it.
type entry struct {
	codec *TypeCodec
	err   error
}
