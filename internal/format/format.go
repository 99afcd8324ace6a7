// Package format holds the low-level text primitives of the two wire
// formats: JSON and JSV, a denser JSON-like format that only quotes strings
// when it has to.
//
// Writers append to a *bytes.Buffer. Readers are pure functions over the
// input text and a cursor; they return the token they consumed and the
// cursor position after it, and never keep state between calls.
package format

import (
	"fmt"
	"strings"

	"github.com/hengadev/typetext/internal/config"
)

// Kind identifies a wire format.
type Kind string

const (
	// JSON is the JSON-compatible format.
	JSON Kind = "json"
	// JSV is the compact delimited format.
	JSV Kind = "jsv"
)

// IsValid checks if the format kind is supported
func (k Kind) IsValid() bool {
	switch k {
	case JSON, JSV:
		return true
	default:
		return false
	}
}

// String returns the string representation of the format kind
func (k Kind) String() string {
	return string(k)
}

// ParseKind parses a string into a Kind and validates it
func ParseKind(s string) (Kind, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid format '%s': must be one of [%s, %s]", s, JSON, JSV)
	}
	return kind, nil
}

// AllKinds returns all supported formats
func AllKinds() []Kind {
	return []Kind{JSON, JSV}
}

// Chars are the structural characters of a wire format.
type Chars struct {
	MapStart  byte
	MapEnd    byte
	ListStart byte
	ListEnd   byte
	ItemSep   byte
	KeySep    byte
	Quote     byte
	Escape    byte
}

// NullToken is the literal for an absent value in both formats.
const NullToken = "null"

var (
	JSONChars = Chars{MapStart: '{', MapEnd: '}', ListStart: '[', ListEnd: ']', ItemSep: ',', KeySep: ':', Quote: '"', Escape: '\\'}
	JSVChars  = Chars{MapStart: '{', MapEnd: '}', ListStart: '[', ListEnd: ']', ItemSep: ',', KeySep: ':', Quote: '"', Escape: '\\'}
)

// Format bundles the primitives of one wire format.
type Format struct {
	kind  Kind
	chars Chars
	// quoteAlways is set for JSON, where every string is quoted.
	quoteAlways bool
	// escapeDateSlash writes WCF dates as \/Date(...)\/.
	escapeDateSlash bool
	defaultDate     config.DateHandler
}

var (
	jsonFormat = &Format{
		kind:            JSON,
		chars:           JSONChars,
		quoteAlways:     true,
		escapeDateSlash: true,
		defaultDate:     config.DateHandlerTimestampOffset,
	}
	jsvFormat = &Format{
		kind:  JSV,
		chars: JSVChars,
		// shortest ISO 8601 form
		defaultDate: config.DateHandlerDefault,
	}
)

// For returns the primitives of the given format. Unknown kinds get JSON.
func For(k Kind) *Format {
	if k == JSV {
		return jsvFormat
	}
	return jsonFormat
}

// Kind reports which format f implements.
func (f *Format) Kind() Kind { return f.kind }

// Chars returns the structural characters of f.
func (f *Format) Chars() Chars { return f.chars }
