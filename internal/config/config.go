package config

import (
	"fmt"
	"strings"

	"github.com/hengadev/errsx"
	"github.com/samber/lo"
)

// DateHandler selects how time.Time values are rendered.
type DateHandler string

const (
	// DateHandlerDefault lets each format pick: timestamp_offset for JSON,
	// the shortest ISO 8601 form for JSV.
	DateHandlerDefault         DateHandler = ""
	DateHandlerTimestampOffset DateHandler = "timestamp_offset"
	DateHandlerDCJSCompatible  DateHandler = "dcjs_compatible"
	DateHandlerISO8601         DateHandler = "iso8601"
	DateHandlerISO8601DateOnly DateHandler = "iso8601_date_only"
	DateHandlerISO8601DateTime DateHandler = "iso8601_date_time"
	DateHandlerRFC1123         DateHandler = "rfc1123"
	DateHandlerUnixTime        DateHandler = "unix_time"
	DateHandlerUnixTimeMs      DateHandler = "unix_time_ms"
)

var dateHandlers = []DateHandler{
	DateHandlerDefault,
	DateHandlerTimestampOffset,
	DateHandlerDCJSCompatible,
	DateHandlerISO8601,
	DateHandlerISO8601DateOnly,
	DateHandlerISO8601DateTime,
	DateHandlerRFC1123,
	DateHandlerUnixTime,
	DateHandlerUnixTimeMs,
}

// IsValid reports whether h is a known date handler.
func (h DateHandler) IsValid() bool {
	return lo.Contains(dateHandlers, h)
}

// TimeSpanHandler selects how time.Duration values are rendered.
type TimeSpanHandler string

const (
	// TimeSpanDurationFormat renders XSD durations such as P1DT2H3M4.5S.
	TimeSpanDurationFormat TimeSpanHandler = "duration_format"
	// TimeSpanStandardFormat renders Go duration text such as 26h3m4.5s.
	TimeSpanStandardFormat TimeSpanHandler = "standard_format"
)

func (h TimeSpanHandler) IsValid() bool {
	return h == TimeSpanDurationFormat || h == TimeSpanStandardFormat
}

// TextCase controls how member names are emitted.
type TextCase string

const (
	TextCaseDefault    TextCase = "default"
	TextCasePascalCase TextCase = "pascal_case"
	TextCaseCamelCase  TextCase = "camel_case"
	TextCaseSnakeCase  TextCase = "snake_case"
)

var textCases = []TextCase{TextCaseDefault, TextCasePascalCase, TextCaseCamelCase, TextCaseSnakeCase}

func (c TextCase) IsValid() bool {
	return lo.Contains(textCases, c)
}

const (
	DefaultMaxDepth = 50
	DefaultTypeAttr = "__type"
	// MaxTypeAttrLength bounds the discriminator member name.
	MaxTypeAttrLength = 64
)

// Config is an immutable snapshot of the settings a codec is built against.
//
// Every field is a comparable scalar, so a Config value can be used directly
// as part of a cache key: codecs built for one snapshot are never reused for
// another.
type Config struct {
	IncludeNullValues               bool `yaml:"include_null_values" text:"include_null_values"`
	IncludeNullValuesInDictionaries bool `yaml:"include_null_values_in_dictionaries" text:"include_null_values_in_dictionaries"`
	ExcludeDefaultValues            bool `yaml:"exclude_default_values" text:"exclude_default_values"`

	IncludeTypeInfo bool   `yaml:"include_type_info" text:"include_type_info"`
	ExcludeTypeInfo bool   `yaml:"exclude_type_info" text:"exclude_type_info"`
	TypeAttr        string `yaml:"type_attr" text:"type_attr"`

	DateHandler     DateHandler     `yaml:"date_handler" text:"date_handler"`
	TimeSpanHandler TimeSpanHandler `yaml:"time_span_handler" text:"time_span_handler"`
	AlwaysUseUTC    bool            `yaml:"always_use_utc" text:"always_use_utc"`

	TextCase TextCase `yaml:"text_case" text:"text_case"`
	MaxDepth int      `yaml:"max_depth" text:"max_depth"`

	ConvertObjectTypesIntoStringDictionary bool `yaml:"convert_object_types_into_string_dictionary" text:"convert_object_types_into_string_dictionary"`
	TryToParsePrimitiveTypeValues          bool `yaml:"try_to_parse_primitive_type_values" text:"try_to_parse_primitive_type_values"`

	// StrictMode turns unknown member keys into parse errors.
	StrictMode bool `yaml:"strict_mode" text:"strict_mode"`
}

// Default returns the default settings.
func Default() Config {
	return Config{
		TypeAttr:        DefaultTypeAttr,
		TimeSpanHandler: TimeSpanDurationFormat,
		TextCase:        TextCaseDefault,
		MaxDepth:        DefaultMaxDepth,
	}
}

// Validate checks the settings and fills unset fields with defaults.
func (c *Config) Validate() error {
	errs := errsx.Map{}

	if c.MaxDepth == 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.MaxDepth < 0 {
		errs.Set("max_depth", fmt.Errorf("max depth must be positive, got %d", c.MaxDepth))
	}

	if c.TypeAttr == "" {
		c.TypeAttr = DefaultTypeAttr
	}
	if len(c.TypeAttr) > MaxTypeAttrLength {
		errs.Set("type_attr", fmt.Errorf("type attribute must be %d characters or less, got %d", MaxTypeAttrLength, len(c.TypeAttr)))
	}
	if strings.ContainsAny(c.TypeAttr, "\"{}[],: \t\r\n") {
		errs.Set("type_attr", fmt.Errorf("type attribute %q contains structural characters", c.TypeAttr))
	}

	if !c.DateHandler.IsValid() {
		errs.Set("date_handler", fmt.Errorf("unknown date handler %q", c.DateHandler))
	}

	if c.TimeSpanHandler == "" {
		c.TimeSpanHandler = TimeSpanDurationFormat
	}
	if !c.TimeSpanHandler.IsValid() {
		errs.Set("time_span_handler", fmt.Errorf("unknown time span handler %q", c.TimeSpanHandler))
	}

	if c.TextCase == "" {
		c.TextCase = TextCaseDefault
	}
	if !c.TextCase.IsValid() {
		errs.Set("text_case", fmt.Errorf("unknown text case %q", c.TextCase))
	}

	if c.IncludeTypeInfo && c.ExcludeTypeInfo {
		errs.Set("type_info", fmt.Errorf("include_type_info and exclude_type_info are mutually exclusive"))
	}

	return errs.AsError()
}
