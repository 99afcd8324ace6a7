package typetext

import (
	"context"
	"reflect"
)

var defaultEngine = MustNew()

// Default returns the package-level engine used by the helpers below.
func Default() *Engine {
	return defaultEngine
}

// Serialize writes v in format f with the default engine.
func Serialize(v any, f Format) (string, error) {
	return defaultEngine.Serialize(v, f)
}

// Deserialize parses text into target with the default engine.
func Deserialize(text string, target any, f Format) error {
	return defaultEngine.Deserialize(text, target, f)
}

// ToJSON writes v as JSON with the default engine.
func ToJSON(v any) (string, error) {
	return defaultEngine.Serialize(v, JSON)
}

// ToJSV writes v as JSV with the default engine.
func ToJSV(v any) (string, error) {
	return defaultEngine.Serialize(v, JSV)
}

// FromJSON parses JSON text as a T with the default engine.
func FromJSON[T any](text string) (T, error) {
	return DeserializeAs[T](context.Background(), defaultEngine, text, JSON)
}

// FromJSV parses JSV text as a T with the default engine.
func FromJSV[T any](text string) (T, error) {
	return DeserializeAs[T](context.Background(), defaultEngine, text, JSV)
}

// DeserializeAs parses text as a T with e. The zero T is returned on error.
func DeserializeAs[T any](ctx context.Context, e *Engine, text string, f Format) (T, error) {
	var zero T
	v, err := e.decode(ctx, text, reflect.TypeOf((*T)(nil)).Elem(), f)
	if err != nil {
		return zero, err
	}
	return v.Interface().(T), nil
}
