package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/hengadev/typetext"
	"github.com/hengadev/typetext/internal/monitoring"
)

// commonFlags are shared by the commands that read a document.
type commonFlags struct {
	configPath string
	logLevel   string
	stats      bool
}

func (c *commonFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "settings file (default: search for typetext.yaml and friends)")
	fs.StringVar(&c.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	fs.BoolVar(&c.stats, "stats", false, "print codec cache and operation counters to stderr")
}

// engine builds the engine the command runs with. metrics is nil unless
// --stats was given.
func (c *commonFlags) engine(extra ...typetext.ConfigOption) (*typetext.Engine, *typetext.InMemoryMetricsCollector, error) {
	logger, err := monitoring.NewLogger(monitoring.LoggerConfig{
		Level:     c.logLevel,
		Encoding:  "console",
		Component: "typetext",
	})
	if err != nil {
		return nil, nil, err
	}

	cfg, err := c.settings(logger)
	if err != nil {
		return nil, nil, err
	}

	opts := []typetext.Option{
		typetext.WithBaseConfig(cfg),
		typetext.WithSettings(extra...),
		typetext.WithLogger(logger),
	}
	var metrics *typetext.InMemoryMetricsCollector
	if c.stats {
		metrics = typetext.NewInMemoryMetricsCollector()
		opts = append(opts, typetext.WithMetricsCollector(metrics))
	}
	e, err := typetext.New(opts...)
	return e, metrics, err
}

func (c *commonFlags) settings(logger *zap.Logger) (typetext.Config, error) {
	path := c.configPath
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return typetext.Config{}, errors.Wrap(err, "get working directory")
		}
		found, err := typetext.FindConfigFile(wd)
		if err != nil {
			logger.Debug("no settings file found, using environment", zap.Error(err))
			return typetext.LoadConfigFromEnvironment()
		}
		path = found
	}
	logger.Debug("loading settings", zap.String("path", path))
	return typetext.LoadConfigFromFile(path)
}

func readInput(fs *pflag.FlagSet, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	switch fs.NArg() {
	case 0:
		data, err = io.ReadAll(stdin)
	case 1:
		if fs.Arg(0) == "-" {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(fs.Arg(0))
		}
	default:
		return "", errors.Newf("expected at most one input file, got %d", fs.NArg())
	}
	if err != nil {
		return "", errors.Wrap(err, "read input")
	}
	return string(bytes.TrimSpace(data)), nil
}

// dynamicSettings makes documents of unknown shape read into maps, slices
// and primitives instead of raw text.
var dynamicSettings = []typetext.ConfigOption{
	typetext.WithDynamicObjects(true, true),
}

func convertCommand(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("convert", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonFlags
	common.register(fs)
	from := fs.StringP("from", "f", "json", "input format: json or jsv")
	to := fs.StringP("to", "t", "jsv", "output format: json or jsv")
	pretty := fs.Bool("pretty", false, "indent JSON output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	inFormat, err := typetext.ParseFormat(*from)
	if err != nil {
		return err
	}
	outFormat, err := typetext.ParseFormat(*to)
	if err != nil {
		return err
	}
	text, err := readInput(fs, stdin)
	if err != nil {
		return err
	}

	e, metrics, err := common.engine(dynamicSettings...)
	if err != nil {
		return err
	}

	var doc any
	if err := e.Deserialize(text, &doc, inFormat); err != nil {
		return err
	}
	out, err := e.Serialize(doc, outFormat)
	if err != nil {
		return err
	}
	if *pretty && outFormat == typetext.JSON {
		if out, err = indentJSON(out); err != nil {
			return err
		}
	}
	fmt.Fprintln(stdout, out)

	if metrics != nil {
		printStats(stderr, e.Stats(), metrics)
	}
	return nil
}

func indentJSON(text string) (string, error) {
	var v any
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(text, &v); err != nil {
		return "", errors.Wrap(err, "reparse output")
	}
	out, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "indent output")
	}
	return string(out), nil
}

func validateCommand(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("validate", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	var common commonFlags
	common.register(fs)
	from := fs.StringP("format", "f", "json", "document format: json or jsv")
	if err := fs.Parse(args); err != nil {
		return err
	}

	kind, err := typetext.ParseFormat(*from)
	if err != nil {
		return err
	}
	text, err := readInput(fs, stdin)
	if err != nil {
		return err
	}
	e, metrics, err := common.engine(dynamicSettings...)
	if err != nil {
		return err
	}

	var doc any
	if err := e.Deserialize(text, &doc, kind); err != nil {
		if ce, ok := typetext.AsError(err); ok && ce.Offset >= 0 {
			return errors.Wrapf(err, "invalid %s near byte %d", kind, ce.Offset)
		}
		return errors.Wrapf(err, "invalid %s", kind)
	}
	fmt.Fprintf(stdout, "✓ valid %s\n", kind)

	if metrics != nil {
		printStats(stderr, e.Stats(), metrics)
	}
	return nil
}

func versionCommand(args []string, _ io.Reader, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("version", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	asJSON := fs.Bool("json", false, "print build details as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *asJSON {
		out, err := typetext.ToJSON(typetext.FullVersionInfo())
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, out)
		return nil
	}
	fmt.Fprintln(stdout, typetext.VersionInfo())
	fmt.Fprintln(stdout, "JSON and JSV text serialization")
	return nil
}

func printStats(w io.Writer, s typetext.Stats, metrics *typetext.InMemoryMetricsCollector) {
	fmt.Fprintf(w, "codecs: %d cached, %d built, %d failed, %d hits, %d misses\n",
		s.Entries, s.Builds, s.Failures, s.Hits, s.Misses)

	counters := metrics.Counters()
	keys := lo.Keys(counters)
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s = %d\n", k, counters[k])
	}
}
