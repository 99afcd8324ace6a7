package format

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"math"
	"strconv"

	"github.com/google/uuid"
)

// WriteString writes s as a string value. JSON always quotes; JSV quotes
// only when s would otherwise be misread.
func (f *Format) WriteString(w *bytes.Buffer, s string) {
	if !f.quoteAlways && !needsJSVQuotes(s) {
		w.WriteString(s)
		return
	}
	w.WriteByte(f.chars.Quote)
	writeEscaped(w, s)
	w.WriteByte(f.chars.Quote)
}

// WriteRawString quotes s without escaping. s must not contain quotes,
// backslashes or control characters.
func (f *Format) WriteRawString(w *bytes.Buffer, s string) {
	w.WriteByte(f.chars.Quote)
	w.WriteString(s)
	w.WriteByte(f.chars.Quote)
}

// WritePropertyName writes a member name used as a map key.
func (f *Format) WritePropertyName(w *bytes.Buffer, name string) {
	f.WriteString(w, name)
	w.WriteByte(f.chars.KeySep)
}

func (f *Format) WriteNull(w *bytes.Buffer) {
	w.WriteString(NullToken)
}

func (f *Format) WriteBool(w *bytes.Buffer, b bool) {
	if b {
		w.WriteString("true")
	} else {
		w.WriteString("false")
	}
}

func (f *Format) WriteInt(w *bytes.Buffer, n int64) {
	var scratch [24]byte
	w.Write(strconv.AppendInt(scratch[:0], n, 10))
}

func (f *Format) WriteUint(w *bytes.Buffer, n uint64) {
	var scratch [24]byte
	w.Write(strconv.AppendUint(scratch[:0], n, 10))
}

// Names used for floats that have no numeric literal.
const (
	NaNToken         = "NaN"
	PosInfinityToken = "Infinity"
	NegInfinityToken = "-Infinity"
)

// WriteFloat writes n with the shortest representation that round-trips at
// the given bit size, switching to exponent form for very large or small
// magnitudes.
func (f *Format) WriteFloat(w *bytes.Buffer, n float64, bits int) {
	switch {
	case math.IsNaN(n):
		f.WriteRawString(w, NaNToken)
		return
	case math.IsInf(n, 1):
		f.WriteRawString(w, PosInfinityToken)
		return
	case math.IsInf(n, -1):
		f.WriteRawString(w, NegInfinityToken)
		return
	}

	var scratch [32]byte
	abs := math.Abs(n)
	fmtByte := byte('f')
	if abs != 0 {
		if bits == 64 && (abs < 1e-6 || abs >= 1e21) || bits == 32 && (float32(abs) < 1e-6 || float32(abs) >= 1e21) {
			fmtByte = 'e'
		}
	}
	b := strconv.AppendFloat(scratch[:0], n, fmtByte, -1, bits)
	if fmtByte == 'e' {
		// clean up e-09 to e-9
		if n := len(b); n >= 4 && b[n-4] == 'e' && b[n-3] == '-' && b[n-2] == '0' {
			b[n-2] = b[n-1]
			b = b[:n-1]
		}
	}
	w.Write(b)
}

// WriteBytes writes b as quoted standard base64.
func (f *Format) WriteBytes(w *bytes.Buffer, b []byte) {
	w.WriteByte(f.chars.Quote)
	enc := base64.NewEncoder(base64.StdEncoding, w)
	enc.Write(b)
	enc.Close()
	w.WriteByte(f.chars.Quote)
}

// WriteGUID writes id as 32 quoted lowercase hex digits without hyphens.
func (f *Format) WriteGUID(w *bytes.Buffer, id uuid.UUID) {
	var buf [34]byte
	buf[0] = f.chars.Quote
	hex.Encode(buf[1:33], id[:])
	buf[33] = f.chars.Quote
	w.Write(buf[:])
}
