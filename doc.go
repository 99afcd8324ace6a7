// Package typetext converts Go values to and from two text formats without
// requiring types to implement any serialization interface.
//
// The first format is JSON. The second, JSV, uses the same structure with
// fewer quotes: strings are written bare unless they are empty, equal the
// null token, or contain structural characters, whitespace or non-ASCII.
//
//	{"Id":1,"Name":"Ann Lee","Tags":["a","b"]}   JSON
//	{Id:1,Name:"Ann Lee",Tags:[a,b]}             JSV
//
// # Quick Start
//
//	type User struct {
//	    ID      int
//	    Name    string
//	    Email   string    `text:"email,omitempty"`
//	    Created time.Time
//	    secret  string    // unexported fields are never written
//	}
//
//	text, err := typetext.ToJSV(user)
//	back, err := typetext.FromJSV[User](text)
//
// # Codecs
//
// The first time a type is serialized in a format, the engine inspects it
// by reflection and builds a codec: a write and a read function composed
// from the codecs of its members. Codecs are cached per type, format and
// settings and shared by all goroutines; concurrent first uses of a type
// build it once. A type that cannot be represented (channels, functions,
// maps with struct keys) fails with ErrCodecBuild, and the failure is
// cached too.
//
// Types implementing encoding.TextMarshaler and encoding.TextUnmarshaler
// are written as strings. Any other type can be given a custom codec:
//
//	typetext.RegisterCodec(engine,
//	    func(m Money) (string, error) { return m.String(), nil },
//	    ParseMoney,
//	)
//
// # Struct Tags
//
//   - text:"name" renames a member
//   - text:"name,omitempty" skips zero values
//   - text:"-" never writes or reads the member
//
// Untagged member names follow the TextCase setting. When reading, member
// names also match case-insensitively and ignoring '_' and '-'.
//
// # Interfaces
//
// Structs written through an interface-typed member carry a discriminator
// member (__type by default) naming their type. RegisterType binds names
// to types so the value can be read back into the interface. Without a
// discriminator, values read into `any` become strings, booleans, int64,
// float64, map[string]any or []any depending on the settings.
//
// # Settings
//
// Config holds every setting; it is a comparable value, and codecs built
// for one Config are never reused for another. Settings can be changed for
// the engine (Configure), for a region of code on all goroutines
// (BeginScope and Scope.Release), or for a single call through the
// context:
//
//	ctx, err := typetext.WithConfig(ctx, cfg)
//	text, err := engine.SerializeContext(ctx, v, typetext.JSON)
//
// # Cycles
//
// Writing never follows a graph deeper than MaxDepth nested maps and
// lists; deeper values are written as null. HasCircularReferences reports
// whether a value contains a cycle.
//
// # Errors
//
// Every failure is an *Error carrying the phase, type, member path and, for
// parse errors, the offset of the problem. Use errors.Is with ErrCodecBuild,
// ErrParse, ErrMemberAssignment or ErrInvalidTarget. A nullable boolean
// (*bool) that does not hold a recognised token is read as nil rather than
// failing.
package typetext
