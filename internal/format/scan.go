package format

import (
	"strings"

	"github.com/hengadev/typetext/internal/codecerr"
)

// whitespace is the table consulted when skipping between tokens.
var whitespace = func() (t [256]bool) {
	for _, c := range []byte{' ', '\t', '\n', '\r', '\f', '\v'} {
		t[c] = true
	}
	return t
}()

// IsWhitespace reports whether c is skipped between tokens.
func IsWhitespace(c byte) bool { return whitespace[c] }

// EatWhitespace returns the first position at or after i that is not whitespace.
func (f *Format) EatWhitespace(s string, i int) int {
	for i < len(s) && whitespace[s[i]] {
		i++
	}
	return i
}

// EatValue extracts the next value starting at i. Nested lists and maps are
// returned whole, including their brackets, and the cursor ends just past
// the closing bracket. Quoted strings are returned with their quotes. Bare
// literals stop at an item separator, a closing bracket or whitespace, and
// the cursor ends at that terminator.
func (f *Format) EatValue(s string, i int) (string, int, error) {
	i = f.EatWhitespace(s, i)
	if i >= len(s) {
		return "", i, nil
	}

	switch s[i] {
	case f.chars.ListStart:
		return f.eatNested(s, i, f.chars.ListStart, f.chars.ListEnd)
	case f.chars.MapStart:
		return f.eatNested(s, i, f.chars.MapStart, f.chars.MapEnd)
	case f.chars.Quote:
		end, err := f.eatQuoted(s, i)
		if err != nil {
			return "", i, err
		}
		return s[i:end], end, nil
	}

	start := i
	for i < len(s) {
		c := s[i]
		if c == f.chars.ItemSep || c == f.chars.MapEnd || c == f.chars.ListEnd || whitespace[c] {
			break
		}
		i++
	}
	return s[start:i], i, nil
}

// eatNested scans a bracketed value, ignoring brackets inside quoted spans.
func (f *Format) eatNested(s string, i int, open, close byte) (string, int, error) {
	start := i
	depth := 0
	for i < len(s) {
		c := s[i]
		switch c {
		case f.chars.Quote:
			end, err := f.eatQuoted(s, i)
			if err != nil {
				return "", start, err
			}
			i = end
			continue
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1], i + 1, nil
			}
		}
		i++
	}
	return "", start, codecerr.Parse(start, "missing closing %q", close)
}

// eatQuoted returns the position just past the quote closing the string that
// opens at i.
func (f *Format) eatQuoted(s string, i int) (int, error) {
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case f.chars.Escape:
			j++
		case f.chars.Quote:
			return j + 1, nil
		}
	}
	return i, codecerr.Parse(i, "unterminated string")
}

// ParseString turns a string token into its value: quoted tokens are
// unescaped, bare tokens are returned unchanged.
func (f *Format) ParseString(tok string) (string, error) {
	if len(tok) == 0 || tok[0] != f.chars.Quote {
		return tok, nil
	}
	if len(tok) < 2 || tok[len(tok)-1] != f.chars.Quote {
		return "", codecerr.Parse(0, "unterminated string")
	}
	body := tok[1 : len(tok)-1]
	if strings.IndexByte(body, f.chars.Escape) < 0 {
		return body, nil
	}
	return unescape(body)
}

// IsNull reports whether tok denotes an absent value.
func (f *Format) IsNull(tok string) bool {
	return tok == "" || tok == NullToken
}

// IsQuoted reports whether tok is a quoted string token.
func (f *Format) IsQuoted(tok string) bool {
	return len(tok) >= 2 && tok[0] == f.chars.Quote && tok[len(tok)-1] == f.chars.Quote
}

// EatMapStart consumes the opening map character.
func (f *Format) EatMapStart(s string, i int) (int, error) {
	return f.eatChar(s, i, f.chars.MapStart)
}

// EatListStart consumes the opening list character.
func (f *Format) EatListStart(s string, i int) (int, error) {
	return f.eatChar(s, i, f.chars.ListStart)
}

// EatMapKeySeparator consumes the key/value separator.
func (f *Format) EatMapKeySeparator(s string, i int) (int, error) {
	return f.eatChar(s, i, f.chars.KeySep)
}

func (f *Format) eatChar(s string, i int, want byte) (int, error) {
	i = f.EatWhitespace(s, i)
	if i >= len(s) {
		return i, codecerr.Parse(i, "expected %q, got end of input", want)
	}
	if s[i] != want {
		return i, codecerr.Parse(i, "expected %q, got %q", want, s[i])
	}
	return i + 1, nil
}

// EatMapKey reads a member or dictionary key and returns its unescaped text.
func (f *Format) EatMapKey(s string, i int) (string, int, error) {
	i = f.EatWhitespace(s, i)
	if i >= len(s) {
		return "", i, codecerr.Parse(i, "expected key, got end of input")
	}
	if s[i] == f.chars.Quote {
		end, err := f.eatQuoted(s, i)
		if err != nil {
			return "", i, err
		}
		key, err := f.ParseString(s[i:end])
		if err != nil {
			return "", i, err
		}
		return key, end, nil
	}

	start := i
	for i < len(s) {
		c := s[i]
		if c == f.chars.KeySep || c == f.chars.MapEnd || c == f.chars.ItemSep || whitespace[c] {
			break
		}
		i++
	}
	if i == start {
		return "", i, codecerr.Parse(i, "empty key")
	}
	return s[start:i], i, nil
}

// EatItemSeparatorOrEnd consumes either an item separator or the given
// closing character. done reports that the closing character was found.
func (f *Format) EatItemSeparatorOrEnd(s string, i int, end byte) (next int, done bool, err error) {
	i = f.EatWhitespace(s, i)
	if i >= len(s) {
		return i, false, codecerr.Parse(i, "expected %q or %q, got end of input", f.chars.ItemSep, end)
	}
	switch s[i] {
	case f.chars.ItemSep:
		return i + 1, false, nil
	case end:
		return i + 1, true, nil
	}
	return i, false, codecerr.Parse(i, "expected %q or %q, got %q", f.chars.ItemSep, end, s[i])
}

// PeekEnd reports whether the next non-whitespace character is end, in
// which case the returned cursor is past it.
func (f *Format) PeekEnd(s string, i int, end byte) (int, bool) {
	j := f.EatWhitespace(s, i)
	if j < len(s) && s[j] == end {
		return j + 1, true
	}
	return i, false
}
