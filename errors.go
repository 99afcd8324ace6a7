package typetext

import (
	"github.com/cockroachdb/errors"

	"github.com/hengadev/typetext/internal/codecerr"
)

// Error is the structured error returned by serialize and deserialize
// calls. It names the phase, the failing type, the member path and, for
// parse failures, the byte offset inside the offending token.
type Error = codecerr.Error

var (
	// ErrCodecBuild: a type cannot be mapped to read and write functions.
	ErrCodecBuild = codecerr.ErrCodecBuild
	// ErrUnsupportedType is the codec build failure for types with no text
	// form, such as channels and functions.
	ErrUnsupportedType = codecerr.ErrUnsupportedType
	// ErrParse: malformed text, or a literal that does not fit its target.
	ErrParse = codecerr.ErrParse
	// ErrMemberAssignment wraps a failure to read one member of a struct.
	ErrMemberAssignment = codecerr.ErrMemberAssignment
	// ErrInvalidTarget: the destination cannot receive a value.
	ErrInvalidTarget = codecerr.ErrInvalidTarget
	// ErrCustomCodec wraps an error returned by an override.
	ErrCustomCodec = codecerr.ErrCustomCodec

	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// IsCodecBuildError reports whether err is a codec build failure.
func IsCodecBuildError(err error) bool {
	return errors.Is(err, ErrCodecBuild)
}

// IsParseError reports whether err, or any error it wraps, is a parse failure.
func IsParseError(err error) bool {
	return errors.Is(err, ErrParse)
}

// IsMemberAssignmentError reports whether err is a member assignment failure.
func IsMemberAssignmentError(err error) bool {
	return errors.Is(err, ErrMemberAssignment)
}

// IsConfigurationError reports whether err comes from invalid settings.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration)
}

// AsError returns the outermost *Error in err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
