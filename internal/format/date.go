package format

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/hengadev/typetext/internal/codecerr"
	"github.com/hengadev/typetext/internal/config"
)

const (
	dateOnlyLayout = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
	rfc1123Layout  = "Mon, 02 Jan 2006 15:04:05 GMT"
	wcfPrefix      = "/Date("
	wcfSuffix      = ")/"
)

// layouts tried, in order, when a date is not in WCF or unix form
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	dateOnlyLayout,
	rfc1123Layout,
	time.RFC1123Z,
	time.RFC1123,
}

// WriteDate writes t according to the date handler. Unix handlers produce a
// bare number, every other handler a quoted string.
func (f *Format) WriteDate(w *bytes.Buffer, t time.Time, h config.DateHandler, utc bool) {
	if utc {
		t = t.UTC()
	}
	if h == config.DateHandlerDefault {
		h = f.defaultDate
	}

	switch h {
	case config.DateHandlerTimestampOffset:
		f.writeWCF(w, t, true)
	case config.DateHandlerDCJSCompatible:
		f.writeWCF(w, t, false)
	case config.DateHandlerISO8601:
		f.WriteRawString(w, t.Format(time.RFC3339Nano))
	case config.DateHandlerISO8601DateOnly:
		f.WriteRawString(w, t.Format(dateOnlyLayout))
	case config.DateHandlerISO8601DateTime:
		f.WriteRawString(w, t.Format(dateTimeLayout))
	case config.DateHandlerRFC1123:
		f.WriteRawString(w, t.UTC().Format(rfc1123Layout))
	case config.DateHandlerUnixTime:
		f.WriteInt(w, t.Unix())
	case config.DateHandlerUnixTimeMs:
		f.WriteInt(w, t.UnixMilli())
	default:
		f.WriteRawString(w, shortestISO(t))
	}
}

// shortestISO drops the time of day for UTC midnights.
func shortestISO(t time.Time) string {
	if t.Location() == time.UTC && t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(dateOnlyLayout)
	}
	return t.Format(time.RFC3339Nano)
}

// writeWCF writes /Date(ms)/ or, for non-UTC times when offsets are kept,
// /Date(ms+hhmm)/. ms is always the UTC instant.
func (f *Format) writeWCF(w *bytes.Buffer, t time.Time, withOffset bool) {
	w.WriteByte(f.chars.Quote)
	if f.escapeDateSlash {
		w.WriteString(`\/Date(`)
	} else {
		w.WriteString(wcfPrefix)
	}
	f.WriteInt(w, t.UnixMilli())
	if withOffset && t.Location() != time.UTC {
		_, offset := t.Zone()
		sign := byte('+')
		if offset < 0 {
			sign = '-'
			offset = -offset
		}
		w.WriteByte(sign)
		hh, mm := offset/3600, (offset%3600)/60
		w.WriteByte(byte('0' + hh/10))
		w.WriteByte(byte('0' + hh%10))
		w.WriteByte(byte('0' + mm/10))
		w.WriteByte(byte('0' + mm%10))
	}
	if f.escapeDateSlash {
		w.WriteString(`)\/`)
	} else {
		w.WriteString(wcfSuffix)
	}
	w.WriteByte(f.chars.Quote)
}

// ParseDate reads a date token in any of the supported forms. Bare integers
// are unix seconds under the unix_time handler and milliseconds otherwise.
func (f *Format) ParseDate(tok string, h config.DateHandler) (time.Time, error) {
	s, err := f.ParseString(tok)
	if err != nil {
		return time.Time{}, err
	}
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, wcfPrefix) && strings.HasSuffix(s, wcfSuffix) {
		return parseWCF(s[len(wcfPrefix) : len(s)-len(wcfSuffix)])
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if h == config.DateHandlerUnixTime {
			return time.Unix(n, 0).UTC(), nil
		}
		return time.UnixMilli(n).UTC(), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, codecerr.Parse(0, "unrecognised date %q", s)
}

func parseWCF(body string) (time.Time, error) {
	msPart, offsetPart := body, ""
	// the sign of a negative instant is at position 0
	if idx := strings.LastIndexAny(body, "+-"); idx > 0 {
		msPart, offsetPart = body[:idx], body[idx:]
	}

	ms, err := strconv.ParseInt(msPart, 10, 64)
	if err != nil {
		return time.Time{}, codecerr.New(codecerr.PhaseRead, codecerr.KindParse).
			Offset(0).Detail("invalid /Date() milliseconds %q", msPart).Cause(err).Build()
	}
	t := time.UnixMilli(ms)
	if offsetPart == "" {
		return t.UTC(), nil
	}

	if len(offsetPart) != 5 {
		return time.Time{}, codecerr.Parse(len(msPart), "invalid /Date() offset %q", offsetPart)
	}
	hh, err1 := strconv.Atoi(offsetPart[1:3])
	mm, err2 := strconv.Atoi(offsetPart[3:5])
	if err1 != nil || err2 != nil {
		return time.Time{}, codecerr.Parse(len(msPart), "invalid /Date() offset %q", offsetPart)
	}
	seconds := hh*3600 + mm*60
	if offsetPart[0] == '-' {
		seconds = -seconds
	}
	return t.In(time.FixedZone("", seconds)), nil
}

// WriteDuration writes d as a quoted XSD duration or Go duration string.
func (f *Format) WriteDuration(w *bytes.Buffer, d time.Duration, h config.TimeSpanHandler) {
	if h == config.TimeSpanStandardFormat {
		f.WriteRawString(w, d.String())
		return
	}
	f.WriteRawString(w, xsdDuration(d))
}

// xsdDuration renders d as PnDTnHnMn.nS with zero parts left out.
func xsdDuration(d time.Duration) string {
	if d == 0 {
		return "PT0S"
	}
	var b strings.Builder
	// the magnitude of the smallest duration does not fit in int64
	u := uint64(d)
	if d < 0 {
		b.WriteByte('-')
		u = -u
	}
	b.WriteByte('P')

	const day = uint64(24 * time.Hour)
	if days := u / day; days > 0 {
		b.WriteString(strconv.FormatUint(days, 10))
		b.WriteByte('D')
		u %= day
	}
	if u == 0 {
		return b.String()
	}

	b.WriteByte('T')
	if h := u / uint64(time.Hour); h > 0 {
		b.WriteString(strconv.FormatUint(h, 10))
		b.WriteByte('H')
		u %= uint64(time.Hour)
	}
	if m := u / uint64(time.Minute); m > 0 {
		b.WriteString(strconv.FormatUint(m, 10))
		b.WriteByte('M')
		u %= uint64(time.Minute)
	}
	if u > 0 {
		sec, frac := u/uint64(time.Second), u%uint64(time.Second)
		b.WriteString(strconv.FormatUint(sec, 10))
		if frac > 0 {
			fs := strconv.FormatUint(frac+uint64(time.Second), 10)[1:]
			b.WriteByte('.')
			b.WriteString(strings.TrimRight(fs, "0"))
		}
		b.WriteByte('S')
	}
	return b.String()
}

// ParseDuration reads an XSD duration (P1DT2H) or Go duration text (26h).
func (f *Format) ParseDuration(tok string) (time.Duration, error) {
	s, err := f.ParseString(tok)
	if err != nil {
		return 0, err
	}
	s = strings.TrimSpace(s)
	body := strings.TrimPrefix(s, "-")
	if strings.HasPrefix(body, "P") {
		d, err := parseXSDDuration(body[1:])
		if err != nil {
			return 0, err
		}
		if len(body) != len(s) {
			d = -d
		}
		return d, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, codecerr.New(codecerr.PhaseRead, codecerr.KindParse).
			Offset(0).Detail("invalid duration %q", s).Cause(err).Build()
	}
	return d, nil
}

func parseXSDDuration(s string) (time.Duration, error) {
	var total time.Duration
	inTime := false
	parts := 0
	num := ""
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9' || c == '.':
			num += string(c)
			continue
		case c == 'T':
			inTime = true
			continue
		}
		if num == "" {
			return 0, codecerr.Parse(i, "missing number before %q in duration", c)
		}

		var unit time.Duration
		switch {
		case c == 'D' && !inTime:
			unit = 24 * time.Hour
		case c == 'W' && !inTime:
			unit = 7 * 24 * time.Hour
		case c == 'H' && inTime:
			unit = time.Hour
		case c == 'M' && inTime:
			unit = time.Minute
		case c == 'S' && inTime:
			unit = time.Second
		default:
			return 0, codecerr.Parse(i, "unsupported duration designator %q", c)
		}

		if unit == time.Second && strings.Contains(num, ".") {
			whole, fracText, _ := strings.Cut(num, ".")
			n, err := strconv.ParseInt(whole, 10, 64)
			if err != nil && whole != "" {
				return 0, codecerr.Parse(i, "invalid seconds %q", num)
			}
			total += time.Duration(n) * time.Second
			// keep nanosecond precision without going through float64
			fracText = (fracText + "000000000")[:9]
			nanos, err := strconv.ParseInt(fracText, 10, 64)
			if err != nil {
				return 0, codecerr.Parse(i, "invalid seconds %q", num)
			}
			total += time.Duration(nanos)
		} else {
			n, err := strconv.ParseInt(num, 10, 64)
			if err != nil {
				return 0, codecerr.Parse(i, "invalid duration component %q", num)
			}
			total += time.Duration(n) * unit
		}
		num = ""
		parts++
	}
	if num != "" {
		return 0, codecerr.Parse(len(s), "trailing number %q in duration", num)
	}
	if parts == 0 {
		return 0, codecerr.Parse(0, "empty duration")
	}
	return total, nil
}
