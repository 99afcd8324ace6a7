package codecerr

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseBuild Phase = "build" // codec construction
	PhaseWrite Phase = "write" // value to text
	PhaseRead  Phase = "read"  // text to value
)

// Kind categorizes the error
type Kind string

const (
	KindCodecBuild       Kind = "codec_build"
	KindParse            Kind = "parse"
	KindMemberAssignment Kind = "member_assignment"
	KindUnsupportedType  Kind = "unsupported_type"
	KindInvalidTarget    Kind = "invalid_target"
	KindCustomCodec      Kind = "custom_codec"
)

// Sentinels for errors.Is. A sentinel matches any *Error of the same Kind
// regardless of phase.
var (
	ErrCodecBuild       = &Error{Kind: KindCodecBuild}
	ErrParse            = &Error{Kind: KindParse}
	ErrMemberAssignment = &Error{Kind: KindMemberAssignment}
	ErrUnsupportedType  = &Error{Kind: KindUnsupportedType}
	ErrInvalidTarget    = &Error{Kind: KindInvalidTarget}
	ErrCustomCodec      = &Error{Kind: KindCustomCodec}
)

// Error is the structured error returned by every codec operation.
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Type   string
	Member []string
	Detail string
	// Offset is the byte position inside the token being read, or -1.
	Offset int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if len(e.Member) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Member, "."))
	}
	if e.Type != "" {
		b.WriteString(": type ")
		b.WriteString(e.Type)
	}
	if e.Offset >= 0 && e.Phase == PhaseRead {
		b.WriteString(" @")
		b.WriteString(strconv.Itoa(e.Offset))
	}
	if e.Detail != "" {
		if e.Type != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}
	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. A target without a phase
// matches on kind alone. An unsupported type is also a codec build failure.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	kindMatch := e.Kind == t.Kind ||
		(t.Kind == KindCodecBuild && e.Kind == KindUnsupportedType)
	if t.Phase == "" {
		return kindMatch
	}
	return e.Phase == t.Phase && kindMatch
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{err: Error{Phase: phase, Kind: kind, Offset: -1}}
}

// Type records the Go type the error relates to.
func (b *Builder) Type(t reflect.Type) *Builder {
	if t != nil {
		b.err.Type = t.String()
	}
	return b
}

// TypeName records a type by name.
func (b *Builder) TypeName(name string) *Builder {
	b.err.Type = name
	return b
}

// Member sets the member path
func (b *Builder) Member(path ...string) *Builder {
	b.err.Member = path
	return b
}

// Offset sets the byte offset into the token being read.
func (b *Builder) Offset(i int) *Builder {
	b.err.Offset = i
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Parse creates a read-phase parse error at the given offset.
func Parse(offset int, msg string, args ...any) *Error {
	return New(PhaseRead, KindParse).Offset(offset).Detail(msg, args...).Build()
}

// Unsupported creates a build-phase error for a type with no derivable codec.
func Unsupported(t reflect.Type, reason string) *Error {
	return New(PhaseBuild, KindUnsupportedType).Type(t).Detail("%s", reason).Build()
}

// BuildFailed wraps a nested failure into a codec build error for t.
func BuildFailed(t reflect.Type, member string, cause error) *Error {
	b := New(PhaseBuild, KindCodecBuild).Type(t).Cause(cause)
	if member != "" {
		b.Member(member)
	}
	return b.Build()
}

// Assignment wraps a member read failure with the member and owning type.
func Assignment(owner reflect.Type, member string, cause error) *Error {
	return New(PhaseRead, KindMemberAssignment).Type(owner).Member(member).Cause(cause).Build()
}

// WithMember prefixes the member path of a codec error, so nested failures
// report the full path from the root value.
func WithMember(err error, member string) error {
	if e, ok := err.(*Error); ok {
		cp := *e
		cp.Member = append([]string{member}, e.Member...)
		return &cp
	}
	return err
}

// ShiftOffset moves the read offsets of err and of the codec errors it wraps
// by n bytes. Readers use it to turn an offset inside a nested token into an
// offset inside the enclosing one.
func ShiftOffset(err error, n int) error {
	e, ok := err.(*Error)
	if !ok || n == 0 {
		return err
	}
	cp := *e
	if cp.Phase == PhaseRead && cp.Offset >= 0 {
		cp.Offset += n
	}
	if _, ok := cp.Cause.(*Error); ok {
		cp.Cause = ShiftOffset(cp.Cause, n)
	}
	return &cp
}
