package codecerr

import (
	"reflect"
	"strconv"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIs(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"parse matches parse", Parse(3, "bad"), ErrParse, true},
		{"parse is not build", Parse(3, "bad"), ErrCodecBuild, false},
		{"unsupported is build", Unsupported(reflect.TypeOf(make(chan int)), "chan"), ErrCodecBuild, true},
		{"unsupported matches itself", Unsupported(reflect.TypeOf(make(chan int)), "chan"), ErrUnsupportedType, true},
		{"assignment wraps parse", Assignment(reflect.TypeOf(struct{}{}), "Age", Parse(0, "x")), ErrParse, true},
		{"assignment matches assignment", Assignment(reflect.TypeOf(struct{}{}), "Age", nil), ErrMemberAssignment, true},
		{"wrapped by cockroach", errors.Wrap(Parse(0, "x"), "outer"), ErrParse, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.Is(tt.err, tt.target))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := New(PhaseRead, KindMemberAssignment).
		TypeName("pkg.User").
		Member("Address", "Zip").
		Detail("cannot assign %s", "string").
		Cause(strconv.ErrSyntax).
		Build()

	msg := err.Error()
	assert.Contains(t, msg, "[read] member_assignment")
	assert.Contains(t, msg, "at Address.Zip")
	assert.Contains(t, msg, "type pkg.User")
	assert.Contains(t, msg, "cannot assign string")
	assert.Contains(t, msg, "caused by: invalid syntax")
}

func TestParseOffset(t *testing.T) {
	err := Parse(12, "unterminated string")
	assert.Contains(t, err.Error(), "@12")

	var target *Error
	require.True(t, errors.As(err, &target))
	assert.Equal(t, 12, target.Offset)
}

func TestWithMember(t *testing.T) {
	inner := Assignment(reflect.TypeOf(0), "Zip", Parse(0, "x"))
	outer := WithMember(inner, "Address")

	var target *Error
	require.True(t, errors.As(outer, &target))
	assert.Equal(t, []string{"Address", "Zip"}, target.Member)
	// the original is left untouched
	assert.Equal(t, []string{"Zip"}, inner.Member)

	plain := errors.New("plain")
	assert.Equal(t, plain, WithMember(plain, "Address"))
}

func TestShiftOffset(t *testing.T) {
	inner := Parse(2, "bad literal")
	outer := Assignment(reflect.TypeOf(0), "Age", inner)

	shifted := ShiftOffset(outer, 10)

	var target *Error
	require.True(t, errors.As(shifted, &target))
	assert.Equal(t, -1, target.Offset)
	require.True(t, errors.As(target.Cause, &target))
	assert.Equal(t, 12, target.Offset)
	// the originals are left untouched
	assert.Equal(t, 2, inner.Offset)

	build := Unsupported(reflect.TypeOf(0), "x")
	assert.Equal(t, -1, ShiftOffset(build, 5).(*Error).Offset)

	plain := errors.New("plain")
	assert.Equal(t, plain, ShiftOffset(plain, 3))
}
