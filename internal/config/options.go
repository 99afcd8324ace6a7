package config

import (
	"fmt"
	"strings"
)

// Option represents a configuration option applied on top of a Config.
type Option func(*Config) error

// WithMaxDepth sets the maximum nesting depth written before truncation.
func WithMaxDepth(depth int) Option {
	return func(c *Config) error {
		if depth < 1 {
			return fmt.Errorf("max depth must be at least 1, got %d", depth)
		}
		c.MaxDepth = depth
		return nil
	}
}

// WithDateHandler sets the date rendering mode.
func WithDateHandler(h DateHandler) Option {
	return func(c *Config) error {
		if !h.IsValid() {
			return fmt.Errorf("unknown date handler %q", h)
		}
		c.DateHandler = h
		return nil
	}
}

// WithTimeSpanHandler sets the duration rendering mode.
func WithTimeSpanHandler(h TimeSpanHandler) Option {
	return func(c *Config) error {
		if !h.IsValid() {
			return fmt.Errorf("unknown time span handler %q", h)
		}
		c.TimeSpanHandler = h
		return nil
	}
}

// WithTextCase sets the member name casing.
func WithTextCase(tc TextCase) Option {
	return func(c *Config) error {
		if !tc.IsValid() {
			return fmt.Errorf("unknown text case %q", tc)
		}
		c.TextCase = tc
		return nil
	}
}

// WithTypeAttr sets the member name used for type discriminators.
func WithTypeAttr(attr string) Option {
	return func(c *Config) error {
		attr = strings.TrimSpace(attr)
		if attr == "" {
			return fmt.Errorf("type attribute cannot be empty or whitespace only")
		}
		if len(attr) > MaxTypeAttrLength {
			return fmt.Errorf("type attribute too long: maximum %d characters, got %d", MaxTypeAttrLength, len(attr))
		}
		c.TypeAttr = attr
		return nil
	}
}

// WithTypeInfo forces discriminators on every struct (include) or
// suppresses them entirely (exclude).
func WithTypeInfo(include, exclude bool) Option {
	return func(c *Config) error {
		if include && exclude {
			return fmt.Errorf("type info cannot be both included and excluded")
		}
		c.IncludeTypeInfo = include
		c.ExcludeTypeInfo = exclude
		return nil
	}
}

// WithNullValues controls whether nil members and nil dictionary values are written.
func WithNullValues(members, dictionaries bool) Option {
	return func(c *Config) error {
		c.IncludeNullValues = members
		c.IncludeNullValuesInDictionaries = dictionaries
		return nil
	}
}

// WithExcludeDefaultValues skips zero-valued members.
func WithExcludeDefaultValues(exclude bool) Option {
	return func(c *Config) error {
		c.ExcludeDefaultValues = exclude
		return nil
	}
}

// WithAlwaysUseUTC converts dates to UTC before writing.
func WithAlwaysUseUTC(utc bool) Option {
	return func(c *Config) error {
		c.AlwaysUseUTC = utc
		return nil
	}
}

// WithDynamicObjects controls how untyped values are read: nested maps and
// lists become map[string]any and []any, and bare JSV literals are parsed
// into bools and numbers.
func WithDynamicObjects(convertObjects, parsePrimitives bool) Option {
	return func(c *Config) error {
		c.ConvertObjectTypesIntoStringDictionary = convertObjects
		c.TryToParsePrimitiveTypeValues = parsePrimitives
		return nil
	}
}

// WithStrictMode rejects unknown member keys when reading.
func WithStrictMode(strict bool) Option {
	return func(c *Config) error {
		c.StrictMode = strict
		return nil
	}
}

// ApplyOptions applies all configuration options to a config
func ApplyOptions(config *Config, options []Option) error {
	for i, opt := range options {
		if err := opt(config); err != nil {
			return fmt.Errorf("option %d failed: %w", i, err)
		}
	}
	return nil
}
