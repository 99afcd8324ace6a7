package typetext

import "github.com/hengadev/typetext/internal/config"

// Environment variable names read by LoadConfigFromEnvironment and
// LoadConfigFromEnvFile.
const (
	EnvIncludeNullValues               = "TYPETEXT_INCLUDE_NULL_VALUES"
	EnvIncludeNullValuesInDictionaries = "TYPETEXT_INCLUDE_NULL_VALUES_IN_DICTIONARIES"
	EnvExcludeDefaultValues            = "TYPETEXT_EXCLUDE_DEFAULT_VALUES"
	EnvIncludeTypeInfo                 = "TYPETEXT_INCLUDE_TYPE_INFO"
	EnvExcludeTypeInfo                 = "TYPETEXT_EXCLUDE_TYPE_INFO"

	// EnvTypeAttr names the discriminator member. Default: __type
	EnvTypeAttr = "TYPETEXT_TYPE_ATTR"

	// EnvDateHandler is one of the DateHandler values, e.g. iso8601.
	EnvDateHandler     = "TYPETEXT_DATE_HANDLER"
	EnvTimeSpanHandler = "TYPETEXT_TIME_SPAN_HANDLER"
	EnvAlwaysUseUTC    = "TYPETEXT_ALWAYS_USE_UTC"
	EnvTextCase        = "TYPETEXT_TEXT_CASE"

	// EnvMaxDepth bounds nesting while writing. Default: 50
	EnvMaxDepth = "TYPETEXT_MAX_DEPTH"

	EnvConvertObjectTypes = "TYPETEXT_CONVERT_OBJECT_TYPES_INTO_STRING_DICTIONARY"
	EnvParsePrimitives    = "TYPETEXT_TRY_TO_PARSE_PRIMITIVE_TYPE_VALUES"
	EnvStrictMode         = "TYPETEXT_STRICT_MODE"
)

// Default values
const (
	DefaultMaxDepth = config.DefaultMaxDepth
	DefaultTypeAttr = config.DefaultTypeAttr
)

// Config file names searched by FindConfigFile, in order.
var DefaultConfigFileNames = []string{
	"typetext.yaml",
	"typetext.yml",
	"typetext.jsonc",
	"typetext.json",
	".typetext.env",
}
