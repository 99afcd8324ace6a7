package typetext

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/hengadev/errsx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv(EnvDateHandler, "iso8601")
	t.Setenv(EnvTextCase, "camel_case")
	t.Setenv(EnvMaxDepth, "12")
	t.Setenv(EnvIncludeNullValues, "true")
	t.Setenv(EnvStrictMode, "1")

	cfg, err := LoadConfigFromEnvironment()
	require.NoError(t, err)
	assert.Equal(t, DateHandlerISO8601, cfg.DateHandler)
	assert.Equal(t, TextCaseCamelCase, cfg.TextCase)
	assert.Equal(t, 12, cfg.MaxDepth)
	assert.True(t, cfg.IncludeNullValues)
	assert.True(t, cfg.StrictMode)
	assert.Equal(t, DefaultTypeAttr, cfg.TypeAttr)
}

func TestLoadConfigFromEnvironmentErrors(t *testing.T) {
	t.Setenv(EnvMaxDepth, "deep")
	t.Setenv(EnvAlwaysUseUTC, "maybe")

	_, err := LoadConfigFromEnvironment()
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))

	var errs errsx.Map
	require.True(t, errors.As(err, &errs))
	assert.Len(t, errs, 2)
	for _, key := range []string{EnvMaxDepth, EnvAlwaysUseUTC} {
		_, ok := errs[key]
		assert.True(t, ok, "expected key %s", key)
	}
}

func TestLoadConfigFromEnvironmentRejectsUnknownHandler(t *testing.T) {
	t.Setenv(EnvDateHandler, "lunar")
	_, err := LoadConfigFromEnvironment()
	assert.True(t, IsConfigurationError(err))
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml", "typetext.yaml", "text_case: snake_case\nmax_depth: 7\ninclude_type_info: true\n"},
		{"json", "typetext.json", `{"text_case":"snake_case","max_depth":7,"include_type_info":true}`},
		{"jsonc", "typetext.jsonc", "{\n  // members in snake case\n  \"text_case\": \"snake_case\",\n  \"max_depth\": 7,\n  \"include_type_info\": true,\n}\n"},
		{"env", "settings.env", "TYPETEXT_TEXT_CASE=snake_case\nTYPETEXT_MAX_DEPTH=7\nTYPETEXT_INCLUDE_TYPE_INFO=true\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfigFromFile(writeFile(t, dir, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, TextCaseSnakeCase, cfg.TextCase)
			assert.Equal(t, 7, cfg.MaxDepth)
			assert.True(t, cfg.IncludeTypeInfo)
			assert.Equal(t, DefaultTypeAttr, cfg.TypeAttr)
		})
	}
}

func TestLoadConfigFromFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfigFromFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadConfigFromFile(writeFile(t, dir, "typetext.toml", "max_depth = 3"))
	assert.True(t, IsConfigurationError(err))

	_, err = LoadConfigFromFile(writeFile(t, dir, "unknown.json", `{"max_dept":3}`))
	assert.True(t, IsConfigurationError(err))

	_, err = LoadConfigFromFile(writeFile(t, dir, "invalid.yaml", "max_depth: -4\n"))
	assert.True(t, IsConfigurationError(err))
}

func TestFindConfigFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "go.mod", "module example.com/app\n")
	want := writeFile(t, root, "typetext.yaml", "max_depth: 9\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, err := FindConfigFile(nested)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = FindConfigFile(t.TempDir())
	assert.Error(t, err)
}

func TestEngineFromLoadedConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "typetext.yml", "text_case: camel_case\n")
	cfg, err := LoadConfigFromFile(path)
	require.NoError(t, err)

	e := newEngine(t, WithBaseConfig(cfg))
	text, err := e.Serialize(scoped{UserName: "ann"}, JSON)
	require.NoError(t, err)
	assert.Equal(t, `{"userName":"ann"}`, text)
}
