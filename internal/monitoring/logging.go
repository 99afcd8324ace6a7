package monitoring

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerConfig configures the zap logger used by the engine and the CLI.
type LoggerConfig struct {
	// Level is debug, info, warn or error. Empty means info.
	Level string
	// Encoding is json or console. Empty means json.
	Encoding string
	// OutputPaths default to stderr.
	OutputPaths []string
	Development bool
	// Component is added to every entry when set.
	Component string
	Fields    map[string]any
}

// NewLogger builds a zap logger from cfg.
func NewLogger(cfg LoggerConfig) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, errors.Wrapf(err, "invalid log level %q", cfg.Level)
		}
	}

	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = level
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.OutputPaths = []string{"stderr"}
	if len(cfg.OutputPaths) > 0 {
		zcfg.OutputPaths = cfg.OutputPaths
	}
	switch cfg.Encoding {
	case "", "json":
		zcfg.Encoding = "json"
	case "console":
		zcfg.Encoding = "console"
	default:
		return nil, errors.Newf("unsupported log encoding %q", cfg.Encoding)
	}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	if cfg.Component != "" {
		logger = logger.Named(cfg.Component)
	}
	for k, v := range cfg.Fields {
		logger = logger.With(zap.Any(k, v))
	}
	return logger, nil
}
