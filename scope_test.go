package typetext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scoped struct {
	UserName string
	Nick     *string
}

func TestScopeOverridesAndRestores(t *testing.T) {
	e := newEngine(t)
	in := scoped{UserName: "ann"}

	outer, err := e.BeginScope(WithTextCase(TextCaseSnakeCase))
	require.NoError(t, err)
	text, err := e.Serialize(in, JSON)
	require.NoError(t, err)
	assert.Equal(t, `{"user_name":"ann"}`, text)

	inner, err := e.BeginScope(WithNullValues(true, false))
	require.NoError(t, err)
	assert.Equal(t, TextCaseSnakeCase, inner.Config().TextCase)
	text, err = e.Serialize(in, JSON)
	require.NoError(t, err)
	assert.Equal(t, `{"user_name":"ann","nick":null}`, text)

	inner.Release()
	inner.Release()
	text, err = e.Serialize(in, JSON)
	require.NoError(t, err)
	assert.Equal(t, `{"user_name":"ann"}`, text)

	outer.Release()
	text, err = e.Serialize(in, JSON)
	require.NoError(t, err)
	assert.Equal(t, `{"UserName":"ann"}`, text)
}

func TestScopeReleasedOutOfOrder(t *testing.T) {
	e := newEngine(t)

	first, err := e.BeginScope(WithMaxDepth(10))
	require.NoError(t, err)
	second, err := e.BeginScope(WithStrictMode(true))
	require.NoError(t, err)

	first.Release()
	cfg := e.Config()
	assert.True(t, cfg.StrictMode)
	assert.Equal(t, 10, cfg.MaxDepth)

	second.Release()
	assert.Equal(t, DefaultConfig(), e.Config())
}

func TestScopeRejectsInvalidSettings(t *testing.T) {
	e := newEngine(t)
	_, err := e.BeginScope(WithTypeAttr("a:b"))
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
	assert.Equal(t, DefaultConfig(), e.Config())
}

func TestResetClosesScopes(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.Configure(WithStrictMode(true)))
	s, err := e.BeginScope(WithTextCase(TextCaseCamelCase))
	require.NoError(t, err)

	e.Reset()
	assert.Equal(t, DefaultConfig(), e.Config())
	s.Release()
	assert.Equal(t, DefaultConfig(), e.Config())
}

func TestWithConfigContext(t *testing.T) {
	e := newEngine(t)
	cfg := DefaultConfig()
	cfg.TextCase = TextCaseCamelCase

	ctx, err := WithConfig(context.Background(), cfg)
	require.NoError(t, err)

	s, err := e.BeginScope(WithTextCase(TextCaseSnakeCase))
	require.NoError(t, err)
	defer s.Release()

	text, err := e.SerializeContext(ctx, scoped{UserName: "ann"}, JSV)
	require.NoError(t, err)
	assert.Equal(t, `{userName:ann}`, text)
	assert.Equal(t, cfg, e.ConfigFor(ctx))

	text, err = e.SerializeContext(context.Background(), scoped{UserName: "ann"}, JSV)
	require.NoError(t, err)
	assert.Equal(t, `{user_name:ann}`, text)

	var out scoped
	require.NoError(t, e.DeserializeContext(ctx, `{userName:bob}`, &out, JSV))
	assert.Equal(t, "bob", out.UserName)

	bad := DefaultConfig()
	bad.MaxDepth = -1
	same, err := WithConfig(ctx, bad)
	assert.Error(t, err)
	assert.Equal(t, ctx, same)
}

func TestSetConfig(t *testing.T) {
	e := newEngine(t)
	cfg := DefaultConfig()
	cfg.DateHandler = DateHandlerUnixTime
	require.NoError(t, e.SetConfig(cfg))
	assert.Equal(t, DateHandlerUnixTime, e.Config().DateHandler)

	cfg.TextCase = "shouting"
	assert.True(t, IsConfigurationError(e.SetConfig(cfg)))
	assert.Equal(t, TextCaseDefault, e.Config().TextCase)
}
