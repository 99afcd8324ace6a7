package format

import (
	"bytes"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/hengadev/typetext/internal/codecerr"
)

const hexDigits = "0123456789abcdef"

// safeASCII marks printable ASCII bytes that pass through escaping unchanged.
var safeASCII = func() (t [256]bool) {
	for c := 0x20; c <= 0x7e; c++ {
		t[c] = true
	}
	t['"'] = false
	t['\\'] = false
	return t
}()

// jsvBare marks bytes that may appear in an unquoted JSV string.
var jsvBare = func() (t [256]bool) {
	t = safeASCII
	for _, c := range []byte{',', ':', '{', '}', '[', ']', ' '} {
		t[c] = false
	}
	return t
}()

// writeEscaped appends s with control, quote, backslash and non-ASCII
// characters replaced by escape sequences. Single pass over s.
func writeEscaped(w *bytes.Buffer, s string) {
	start := 0
	for i := 0; i < len(s); {
		c := s[i]
		if safeASCII[c] {
			i++
			continue
		}
		w.WriteString(s[start:i])

		switch c {
		case '"':
			w.WriteString(`\"`)
		case '\\':
			w.WriteString(`\\`)
		case '\n':
			w.WriteString(`\n`)
		case '\r':
			w.WriteString(`\r`)
		case '\t':
			w.WriteString(`\t`)
		case '\b':
			w.WriteString(`\b`)
		case '\f':
			w.WriteString(`\f`)
		default:
			if c < utf8.RuneSelf {
				writeUnicodeEscape(w, rune(c))
				break
			}
			r, size := utf8.DecodeRuneInString(s[i:])
			if r > 0xFFFF {
				r1, r2 := utf16.EncodeRune(r)
				writeUnicodeEscape(w, r1)
				writeUnicodeEscape(w, r2)
			} else {
				// invalid bytes decode to U+FFFD
				writeUnicodeEscape(w, r)
			}
			i += size
			start = i
			continue
		}
		i++
		start = i
	}
	w.WriteString(s[start:])
}

func writeUnicodeEscape(w *bytes.Buffer, r rune) {
	w.WriteString(`\u`)
	w.WriteByte(hexDigits[(r>>12)&0xF])
	w.WriteByte(hexDigits[(r>>8)&0xF])
	w.WriteByte(hexDigits[(r>>4)&0xF])
	w.WriteByte(hexDigits[r&0xF])
}

// needsJSVQuotes reports whether s must be quoted to survive a JSV round trip.
func needsJSVQuotes(s string) bool {
	if s == "" || s == NullToken {
		return true
	}
	for i := 0; i < len(s); i++ {
		if !jsvBare[s[i]] {
			return true
		}
	}
	return false
}

// unescape expands backslash escapes in the body of a quoted string.
func unescape(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return "", codecerr.Parse(i, "dangling escape at end of string")
		}
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case '"', '\\', '/':
			b.WriteByte(s[i])
		case 'u':
			r, err := readHex4(s, i+1)
			if err != nil {
				return "", err
			}
			i += 4
			if utf16.IsSurrogate(r) {
				if i+6 < len(s) && s[i+1] == '\\' && s[i+2] == 'u' {
					if r2, err := readHex4(s, i+3); err == nil {
						if dec := utf16.DecodeRune(r, r2); dec != utf8.RuneError {
							b.WriteRune(dec)
							i += 6
							continue
						}
					}
				}
				r = utf8.RuneError
			}
			b.WriteRune(r)
		default:
			// unknown escapes keep the escaped character
			b.WriteByte(s[i])
		}
	}
	return b.String(), nil
}

func readHex4(s string, at int) (rune, error) {
	if at+4 > len(s) {
		return 0, codecerr.Parse(at, "truncated unicode escape")
	}
	var r rune
	for j := at; j < at+4; j++ {
		c := s[j]
		r <<= 4
		switch {
		case c >= '0' && c <= '9':
			r |= rune(c - '0')
		case c >= 'a' && c <= 'f':
			r |= rune(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			r |= rune(c - 'A' + 10)
		default:
			return 0, codecerr.Parse(j, "invalid hex digit %q in unicode escape", c)
		}
	}
	return r, nil
}
