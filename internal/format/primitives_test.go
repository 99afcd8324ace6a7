package format

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hengadev/typetext/internal/config"
)

func render(fn func(w *bytes.Buffer)) string {
	var buf bytes.Buffer
	fn(&buf)
	return buf.String()
}

func TestNumbers(t *testing.T) {
	f := For(JSON)

	assert.Equal(t, "-42", render(func(w *bytes.Buffer) { f.WriteInt(w, -42) }))
	assert.Equal(t, "18446744073709551615", render(func(w *bytes.Buffer) { f.WriteUint(w, math.MaxUint64) }))

	floats := []struct {
		in   float64
		bits int
		want string
	}{
		{1.5, 64, "1.5"},
		{0, 64, "0"},
		{100, 64, "100"},
		{1e21, 64, "1e+21"},
		{1e-7, 64, "1e-7"},
		{float64(float32(0.1)), 32, "0.1"},
		{math.NaN(), 64, `"NaN"`},
		{math.Inf(-1), 64, `"-Infinity"`},
	}
	for _, tt := range floats {
		got := render(func(w *bytes.Buffer) { f.WriteFloat(w, tt.in, tt.bits) })
		assert.Equal(t, tt.want, got)

		back, err := f.ParseFloat(got, tt.bits)
		require.NoError(t, err)
		if math.IsNaN(tt.in) {
			assert.True(t, math.IsNaN(back))
		} else {
			assert.Equal(t, tt.in, back)
		}
	}

	n, err := f.ParseInt(`"17"`, 64)
	require.NoError(t, err)
	assert.Equal(t, int64(17), n)

	_, err = f.ParseInt("300", 8)
	assert.Error(t, err, "overflow")

	_, err = f.ParseUint("-1", 64)
	assert.Error(t, err)

	_, err = f.ParseFloat("abc", 64)
	assert.Error(t, err)
}

func TestParseBool(t *testing.T) {
	f := For(JSV)
	for _, tok := range []string{"true", `"true"`, "True", "t", "y", "Y", "on", "1"} {
		v, ok := f.ParseBool(tok)
		assert.True(t, ok, tok)
		assert.True(t, v, tok)
	}
	for _, tok := range []string{"false", `"false"`, "False", "f", "n", "N", "off", "0"} {
		v, ok := f.ParseBool(tok)
		assert.True(t, ok, tok)
		assert.False(t, v, tok)
	}
	for _, tok := range []string{"tt", "eee", `"maybe"`, ""} {
		_, ok := f.ParseBool(tok)
		assert.False(t, ok, tok)
	}
}

func TestBytesAndGUID(t *testing.T) {
	for _, f := range []*Format{For(JSON), For(JSV)} {
		data := []byte{0, 1, 2, 250, 255}
		out := render(func(w *bytes.Buffer) { f.WriteBytes(w, data) })
		assert.Equal(t, `"AAEC+v8="`, out)
		back, err := f.ParseBytes(out)
		require.NoError(t, err)
		assert.Equal(t, data, back)

		id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
		out = render(func(w *bytes.Buffer) { f.WriteGUID(w, id) })
		assert.Equal(t, `"6ba7b8109dad11d180b400c04fd430c8"`, out)
		got, err := f.ParseGUID(out)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}

	f := For(JSON)
	got, err := f.ParseBytes(`"AAEC+v8"`)
	require.NoError(t, err, "unpadded base64 is accepted")
	assert.Equal(t, []byte{0, 1, 2, 250, 255}, got)

	_, err = f.ParseGUID(`"not-a-guid"`)
	assert.Error(t, err)
}

func TestWriteDate(t *testing.T) {
	utc := time.Date(1979, 5, 9, 0, 0, 0, 0, time.UTC)
	withTime := time.Date(2024, 2, 29, 13, 45, 30, 500_000_000, time.UTC)
	plusOne := time.Date(2024, 2, 29, 13, 45, 30, 0, time.FixedZone("", 3600))

	tests := []struct {
		name    string
		kind    Kind
		handler config.DateHandler
		in      time.Time
		want    string
	}{
		{"json default is wcf", JSON, config.DateHandlerDefault, utc, `"\/Date(295056000000)\/"`},
		{"json wcf with offset", JSON, config.DateHandlerTimestampOffset, plusOne, `"\/Date(1709210730000+0100)\/"`},
		{"json dcjs drops offset", JSON, config.DateHandlerDCJSCompatible, plusOne, `"\/Date(1709210730000)\/"`},
		{"jsv default date only", JSV, config.DateHandlerDefault, utc, `"1979-05-09"`},
		{"jsv default with time", JSV, config.DateHandlerDefault, withTime, `"2024-02-29T13:45:30.5Z"`},
		{"jsv wcf has no escaped slash", JSV, config.DateHandlerTimestampOffset, utc, `"/Date(295056000000)/"`},
		{"iso8601", JSON, config.DateHandlerISO8601, plusOne, `"2024-02-29T13:45:30+01:00"`},
		{"date only", JSON, config.DateHandlerISO8601DateOnly, withTime, `"2024-02-29"`},
		{"date time", JSON, config.DateHandlerISO8601DateTime, withTime, `"2024-02-29 13:45:30"`},
		{"rfc1123", JSON, config.DateHandlerRFC1123, plusOne, `"Thu, 29 Feb 2024 12:45:30 GMT"`},
		{"unix", JSON, config.DateHandlerUnixTime, utc, `295056000`},
		{"unix ms", JSV, config.DateHandlerUnixTimeMs, utc, `295056000000`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := For(tt.kind)
			got := render(func(w *bytes.Buffer) { f.WriteDate(w, tt.in, tt.handler, false) })
			assert.Equal(t, tt.want, got)

			back, err := f.ParseDate(got, tt.handler)
			require.NoError(t, err)
			switch tt.handler {
			case config.DateHandlerISO8601DateOnly:
				assert.Equal(t, "2024-02-29", back.Format(dateOnlyLayout))
			case config.DateHandlerISO8601DateTime:
				assert.True(t, tt.in.Truncate(time.Second).Equal(back))
			default:
				assert.True(t, tt.in.Equal(back), "want %v got %v", tt.in, back)
			}
		})
	}
}

func TestWriteDateAlwaysUTC(t *testing.T) {
	f := For(JSON)
	plusOne := time.Date(2024, 2, 29, 13, 45, 30, 0, time.FixedZone("", 3600))
	got := render(func(w *bytes.Buffer) { f.WriteDate(w, plusOne, config.DateHandlerTimestampOffset, true) })
	assert.Equal(t, `"\/Date(1709210730000)\/"`, got)
}

func TestParseDateForms(t *testing.T) {
	f := For(JSON)
	want := time.Date(2024, 2, 29, 12, 45, 30, 0, time.UTC)
	for _, in := range []string{
		`"\/Date(1709210730000)\/"`,
		`"/Date(1709210730000-0500)/"`,
		`1709210730000`,
		`"2024-02-29T12:45:30Z"`,
		`"2024-02-29T12:45:30"`,
		`"2024-02-29 12:45:30"`,
		`"Thu, 29 Feb 2024 12:45:30 GMT"`,
	} {
		t.Run(in, func(t *testing.T) {
			got, err := f.ParseDate(in, config.DateHandlerDefault)
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %v", got)
		})
	}

	got, err := f.ParseDate("1709210730", config.DateHandlerUnixTime)
	require.NoError(t, err)
	assert.True(t, want.Equal(got))

	neg, err := f.ParseDate(`"\/Date(-62135596800000)\/"`, config.DateHandlerDefault)
	require.NoError(t, err)
	assert.True(t, neg.Equal(time.Time{}))

	_, err = f.ParseDate(`"yesterday"`, config.DateHandlerDefault)
	assert.Error(t, err)
	_, err = f.ParseDate(`"/Date(12+1)/"`, config.DateHandlerDefault)
	assert.Error(t, err)
}

func TestDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, `"PT0S"`},
		{time.Second, `"PT1S"`},
		{90 * time.Minute, `"PT1H30M"`},
		{26*time.Hour + 3*time.Minute + 4500*time.Millisecond, `"P1DT2H3M4.5S"`},
		{48 * time.Hour, `"P2D"`},
		{-time.Millisecond, `"-PT0.001S"`},
		{time.Nanosecond, `"PT0.000000001S"`},
		{math.MinInt64, `"-P106751DT23H47M16.854775808S"`},
	}

	f := For(JSV)
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := render(func(w *bytes.Buffer) { f.WriteDuration(w, tt.in, config.TimeSpanDurationFormat) })
			assert.Equal(t, tt.want, got)

			back, err := f.ParseDuration(got)
			require.NoError(t, err)
			assert.Equal(t, tt.in, back)
		})
	}

	std := render(func(w *bytes.Buffer) { f.WriteDuration(w, 90*time.Minute, config.TimeSpanStandardFormat) })
	assert.Equal(t, `"1h30m0s"`, std)
	back, err := f.ParseDuration(std)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, back)

	back, err = f.ParseDuration(`"P1W"`)
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, back)

	for _, bad := range []string{`"P1Y"`, `"PT"`, `"P1"`, `"soon"`} {
		_, err := f.ParseDuration(bad)
		assert.Error(t, err, bad)
	}
}
