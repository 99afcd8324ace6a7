package typetext

import "github.com/hengadev/typetext/internal/config"

// Config is an immutable snapshot of the serialization settings. The zero
// value is valid: Validate fills every unset field with its default.
type Config = config.Config

// ConfigOption adjusts a Config.
type ConfigOption = config.Option

type (
	DateHandler     = config.DateHandler
	TimeSpanHandler = config.TimeSpanHandler
	TextCase        = config.TextCase
)

const (
	DateHandlerDefault         = config.DateHandlerDefault
	DateHandlerTimestampOffset = config.DateHandlerTimestampOffset
	DateHandlerDCJSCompatible  = config.DateHandlerDCJSCompatible
	DateHandlerISO8601         = config.DateHandlerISO8601
	DateHandlerISO8601DateOnly = config.DateHandlerISO8601DateOnly
	DateHandlerISO8601DateTime = config.DateHandlerISO8601DateTime
	DateHandlerRFC1123         = config.DateHandlerRFC1123
	DateHandlerUnixTime        = config.DateHandlerUnixTime
	DateHandlerUnixTimeMs      = config.DateHandlerUnixTimeMs

	TimeSpanDurationFormat = config.TimeSpanDurationFormat
	TimeSpanStandardFormat = config.TimeSpanStandardFormat

	TextCaseDefault    = config.TextCaseDefault
	TextCasePascalCase = config.TextCasePascalCase
	TextCaseCamelCase  = config.TextCaseCamelCase
	TextCaseSnakeCase  = config.TextCaseSnakeCase
)

// DefaultConfig returns the default settings.
func DefaultConfig() Config {
	return config.Default()
}

// Setting options.
var (
	WithMaxDepth             = config.WithMaxDepth
	WithDateHandler          = config.WithDateHandler
	WithTimeSpanHandler      = config.WithTimeSpanHandler
	WithTextCase             = config.WithTextCase
	WithTypeAttr             = config.WithTypeAttr
	WithTypeInfo             = config.WithTypeInfo
	WithNullValues           = config.WithNullValues
	WithExcludeDefaultValues = config.WithExcludeDefaultValues
	WithAlwaysUseUTC         = config.WithAlwaysUseUTC
	WithDynamicObjects       = config.WithDynamicObjects
	WithStrictMode           = config.WithStrictMode
)
