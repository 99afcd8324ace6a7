package format

import (
	"bytes"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var escapeSamples = []string{
	"",
	"plain",
	"with space",
	`quote " inside`,
	`back\slash`,
	"line\nbreak\r\n",
	"tab\tand\bback\fform",
	"control \x01\x1f and del \x7f",
	"héllo wörld",
	"日本語",
	"emoji 😀 outside the BMP",
	"slash / stays",
	"null",
	"{not:a,map}",
	"[1,2]",
}

func TestEscapingSymmetry(t *testing.T) {
	for _, f := range []*Format{For(JSON), For(JSV)} {
		for _, s := range escapeSamples {
			t.Run(string(f.Kind())+"/"+s, func(t *testing.T) {
				var buf bytes.Buffer
				f.WriteString(&buf, s)

				tok, next, err := f.EatValue(buf.String(), 0)
				require.NoError(t, err)
				assert.Equal(t, buf.Len(), next, "the whole string is one token")

				got, err := f.ParseString(tok)
				require.NoError(t, err)
				assert.Equal(t, s, got)
			})
		}
	}
}

func TestJSONEscapingIsStandard(t *testing.T) {
	f := For(JSON)
	for _, s := range escapeSamples {
		var buf bytes.Buffer
		f.WriteString(&buf, s)

		var decoded string
		require.NoError(t, jsoniter.Unmarshal(buf.Bytes(), &decoded), buf.String())
		assert.Equal(t, s, decoded)
	}
}

func TestWriteStringExactOutput(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		in   string
		want string
	}{
		{"json plain is only quoted", JSON, "hello", `"hello"`},
		{"json control chars", JSON, "a\nb\tc", `"a\nb\tc"`},
		{"json quote and backslash", JSON, `a"b\c`, `"a\"b\\c"`},
		{"json non ascii", JSON, "é", `"\u00e9"`},
		{"json low control", JSON, "\x01", `"\u0001"`},
		{"json surrogate pair", JSON, "😀", `"\ud83d\ude00"`},
		{"jsv plain is bare", JSV, "hello", `hello`},
		{"jsv empty is quoted", JSV, "", `""`},
		{"jsv null text is quoted", JSV, "null", `"null"`},
		{"jsv comma is quoted", JSV, "a,b", `"a,b"`},
		{"jsv colon is quoted", JSV, "2:nd", `"2:nd"`},
		{"jsv space is quoted", JSV, "a b", `"a b"`},
		{"jsv quote is escaped", JSV, `"1st`, `"\"1st"`},
		{"jsv percent stays bare", JSV, "four%", `four%`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			For(tt.kind).WriteString(&buf, tt.in)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestUnescapeEscapes(t *testing.T) {
	f := For(JSON)
	tests := []struct {
		in   string
		want string
	}{
		{`"a\/b"`, "a/b"},
		{`"\u00e9\u00E9"`, "éé"},
		{`"\ud83d\ude00"`, "😀"},
		{`"\ud83d"`, "�"},
		{`"\q"`, "q"},
		{`"no escapes"`, "no escapes"},
		{`bare`, "bare"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := f.ParseString(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUnescapeErrors(t *testing.T) {
	f := For(JSON)
	for _, in := range []string{`"abc`, `"\u12"`, `"\uzzzz"`, `"`} {
		t.Run(in, func(t *testing.T) {
			_, err := f.ParseString(in)
			assert.Error(t, err)
		})
	}
}
