package format

import (
	"encoding/base64"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/hengadev/typetext/internal/codecerr"
)

// unquote strips the quotes of a quoted token so numbers written as map
// keys, or by lenient producers, still parse.
func (f *Format) unquote(tok string) (string, error) {
	if len(tok) > 0 && tok[0] == f.chars.Quote {
		return f.ParseString(tok)
	}
	return tok, nil
}

// ParseInt parses a decimal integer token that must fit in bits.
func (f *Format) ParseInt(tok string, bits int) (int64, error) {
	s, err := f.unquote(tok)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(s, 10, bits)
	if err != nil {
		return 0, codecerr.New(codecerr.PhaseRead, codecerr.KindParse).
			Offset(0).Detail("invalid integer %q", s).Cause(err).Build()
	}
	return n, nil
}

// ParseUint parses an unsigned decimal integer token that must fit in bits.
func (f *Format) ParseUint(tok string, bits int) (uint64, error) {
	s, err := f.unquote(tok)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(s, 10, bits)
	if err != nil {
		return 0, codecerr.New(codecerr.PhaseRead, codecerr.KindParse).
			Offset(0).Detail("invalid unsigned integer %q", s).Cause(err).Build()
	}
	return n, nil
}

// ParseFloat parses a number token, including the NaN and infinity names.
func (f *Format) ParseFloat(tok string, bits int) (float64, error) {
	s, err := f.unquote(tok)
	if err != nil {
		return 0, err
	}
	switch s {
	case NaNToken:
		return math.NaN(), nil
	case PosInfinityToken:
		return math.Inf(1), nil
	case NegInfinityToken:
		return math.Inf(-1), nil
	}
	n, err := strconv.ParseFloat(s, bits)
	if err != nil {
		return 0, codecerr.New(codecerr.PhaseRead, codecerr.KindParse).
			Offset(0).Detail("invalid number %q", s).Cause(err).Build()
	}
	return n, nil
}

var boolTokens = map[string]bool{
	"true": true, "True": true, "TRUE": true, "t": true, "T": true,
	"y": true, "Y": true, "yes": true, "on": true, "On": true, "1": true,
	"false": false, "False": false, "FALSE": false, "f": false, "F": false,
	"n": false, "N": false, "no": false, "off": false, "Off": false, "0": false,
}

// ParseBool maps a token to a boolean using the accepted spellings
// (true/false, t/f, y/n, on/off, 1/0 and their capitalised forms). ok is
// false for anything else.
func (f *Format) ParseBool(tok string) (value bool, ok bool) {
	s, err := f.unquote(tok)
	if err != nil {
		return false, false
	}
	value, ok = boolTokens[s]
	return value, ok
}

// ParseBytes decodes a quoted base64 token.
func (f *Format) ParseBytes(tok string) ([]byte, error) {
	s, err := f.ParseString(tok)
	if err != nil {
		return nil, err
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		// tolerate unpadded producers
		if raw, rerr := base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "=")); rerr == nil {
			return raw, nil
		}
		return nil, codecerr.New(codecerr.PhaseRead, codecerr.KindParse).
			Offset(0).Detail("invalid base64").Cause(err).Build()
	}
	return b, nil
}

// ParseGUID accepts hyphenated, unhyphenated, braced and urn forms.
func (f *Format) ParseGUID(tok string) (uuid.UUID, error) {
	s, err := f.ParseString(tok)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, codecerr.New(codecerr.PhaseRead, codecerr.KindParse).
			Offset(0).Detail("invalid guid %q", s).Cause(err).Build()
	}
	return id, nil
}
