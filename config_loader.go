package typetext

import (
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/hengadev/errsx"
	"github.com/joho/godotenv"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/hengadev/typetext/internal/codec"
	"github.com/hengadev/typetext/internal/config"
	"github.com/hengadev/typetext/internal/format"
)

// LoadConfigFromEnvironment builds settings from TYPETEXT_* environment
// variables. Unset variables keep their defaults.
//
//	// export TYPETEXT_DATE_HANDLER=iso8601
//	// export TYPETEXT_TEXT_CASE=camel_case
//	cfg, err := typetext.LoadConfigFromEnvironment()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	engine, err := typetext.New(typetext.WithBaseConfig(cfg))
func LoadConfigFromEnvironment() (Config, error) {
	return loadConfig(os.Getenv)
}

// LoadConfigFromEnvFile reads TYPETEXT_* variables from a dotenv file
// without touching the process environment.
func LoadConfigFromEnvFile(path string) (Config, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read env file %s", path)
	}
	return loadConfig(func(key string) string { return vars[key] })
}

func loadConfig(lookup func(string) string) (Config, error) {
	cfg := config.Default()
	errs := errsx.Map{}

	flag := func(key string, dst *bool) {
		v := lookup(key)
		if v == "" {
			return
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs.Set(key, errors.Newf("expected a boolean, got %q", v))
			return
		}
		*dst = b
	}
	flag(EnvIncludeNullValues, &cfg.IncludeNullValues)
	flag(EnvIncludeNullValuesInDictionaries, &cfg.IncludeNullValuesInDictionaries)
	flag(EnvExcludeDefaultValues, &cfg.ExcludeDefaultValues)
	flag(EnvIncludeTypeInfo, &cfg.IncludeTypeInfo)
	flag(EnvExcludeTypeInfo, &cfg.ExcludeTypeInfo)
	flag(EnvAlwaysUseUTC, &cfg.AlwaysUseUTC)
	flag(EnvConvertObjectTypes, &cfg.ConvertObjectTypesIntoStringDictionary)
	flag(EnvParsePrimitives, &cfg.TryToParsePrimitiveTypeValues)
	flag(EnvStrictMode, &cfg.StrictMode)

	cfg.TypeAttr = getOrDefault(lookup, EnvTypeAttr, cfg.TypeAttr)
	cfg.DateHandler = config.DateHandler(getOrDefault(lookup, EnvDateHandler, string(cfg.DateHandler)))
	cfg.TimeSpanHandler = config.TimeSpanHandler(getOrDefault(lookup, EnvTimeSpanHandler, string(cfg.TimeSpanHandler)))
	cfg.TextCase = config.TextCase(getOrDefault(lookup, EnvTextCase, string(cfg.TextCase)))

	if v := lookup(EnvMaxDepth); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs.Set(EnvMaxDepth, errors.Newf("expected an integer, got %q", v))
		} else {
			cfg.MaxDepth = n
		}
	}

	if err := errs.AsError(); err != nil {
		return Config{}, errors.Mark(errors.Wrap(err, "invalid environment"), ErrInvalidConfiguration)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Mark(errors.Wrap(err, "configuration validation failed"), ErrInvalidConfiguration)
	}
	return cfg, nil
}

// getOrDefault returns the value of key, or defaultValue if it is unset or empty.
func getOrDefault(lookup func(string) string, key, defaultValue string) string {
	if value := lookup(key); value != "" {
		return value
	}
	return defaultValue
}

// LoadConfigFromFile reads settings from a YAML (.yaml, .yml), JSON (.json)
// or commented JSON (.jsonc) file, or a dotenv file (.env). Keys are the
// snake_case setting names, e.g. max_depth or date_handler.
func LoadConfigFromFile(path string) (Config, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".env" {
		return LoadConfigFromEnvFile(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config file %s", path)
	}

	cfg := config.Default()
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Mark(errors.Wrapf(err, "parse %s", path), ErrInvalidConfiguration)
		}
	case ".json", ".jsonc":
		if err := decodeJSONConfig(jsonc.ToJSON(data), &cfg); err != nil {
			return Config{}, errors.Mark(errors.Wrapf(err, "parse %s", path), ErrInvalidConfiguration)
		}
	default:
		return Config{}, errors.Mark(errors.Newf("unsupported config file extension %q", ext), ErrInvalidConfiguration)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Mark(errors.Wrap(err, "configuration validation failed"), ErrInvalidConfiguration)
	}
	return cfg, nil
}

// decodeJSONConfig reads JSON settings with the engine's own reader, so the
// text tags on Config name the keys. Members missing from the file keep the
// values already in cfg.
func decodeJSONConfig(data []byte, cfg *Config) error {
	read := config.Default()
	read.StrictMode = true
	dec := codec.NewDecoder(codec.NewRegistry(), format.JSON, read)
	return dec.Decode(string(data), reflect.ValueOf(cfg).Elem())
}

// FindConfigFile looks for one of DefaultConfigFileNames in dir and its
// parents, stopping at the enclosing Go module root.
func FindConfigFile(dir string) (string, error) {
	return config.FindConfigFile(dir, DefaultConfigFileNames...)
}
