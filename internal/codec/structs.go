package codec

import (
	"reflect"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/hengadev/typetext/internal/codecerr"
	"github.com/hengadev/typetext/internal/config"
)

const tagName = "text"

type member struct {
	name      string
	field     string
	index     []int
	typ       reflect.Type
	omitEmpty bool
	tagged    bool
	codec     *TypeCodec
}

// collectMembers lists the serializable members of t in declaration order.
// Fields of embedded structs are promoted; when names collide the shallowest
// wins, and a tagged field beats an untagged one at the same depth.
func collectMembers(t reflect.Type, tc config.TextCase) []member {
	type candidate struct {
		member
		depth int
	}
	var all []candidate

	var walk func(t reflect.Type, index []int, depth int, seen map[reflect.Type]bool)
	walk = func(t reflect.Type, index []int, depth int, seen map[reflect.Type]bool) {
		if seen[t] {
			return
		}
		seen[t] = true
		defer delete(seen, t)

		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			tag := sf.Tag.Get(tagName)
			if tag == "-" {
				continue
			}
			name, opts, _ := strings.Cut(tag, ",")
			idx := append(append([]int(nil), index...), i)

			if sf.Anonymous && name == "" && sf.Type.Kind() == reflect.Struct {
				walk(sf.Type, idx, depth+1, seen)
				continue
			}
			if !sf.IsExported() {
				continue
			}

			m := member{
				field:     sf.Name,
				index:     idx,
				typ:       sf.Type,
				omitEmpty: opts == "omitempty",
				tagged:    name != "",
			}
			if name != "" {
				m.name = name
			} else {
				m.name = applyCase(sf.Name, tc)
			}
			all = append(all, candidate{member: m, depth: depth})
		}
	}
	walk(t, nil, 0, map[reflect.Type]bool{})

	// stable so declaration order decides among equals
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].depth != all[j].depth {
			return all[i].depth < all[j].depth
		}
		return all[i].tagged && !all[j].tagged
	})
	taken := make(map[string]bool, len(all))
	winners := make(map[string][]int, len(all))
	for _, c := range all {
		if taken[c.name] {
			continue
		}
		taken[c.name] = true
		winners[c.name] = c.index
	}

	var out []member
	for _, c := range all {
		if idx, ok := winners[c.name]; ok && sameIndex(idx, c.index) {
			out = append(out, c.member)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return lessIndex(out[i].index, out[j].index) })
	return out
}

func sameIndex(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func lessIndex(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func applyCase(name string, tc config.TextCase) string {
	switch tc {
	case config.TextCasePascalCase:
		r, n := utf8.DecodeRuneInString(name)
		return string(unicode.ToUpper(r)) + name[n:]
	case config.TextCaseCamelCase:
		return camelCase(name)
	case config.TextCaseSnakeCase:
		return snakeCase(name)
	}
	return name
}

// camelCase lowercases the leading run of capitals, keeping the last one
// when it starts the next word: URLValue becomes urlValue.
func camelCase(name string) string {
	runes := []rune(name)
	for i := 0; i < len(runes) && unicode.IsUpper(runes[i]); i++ {
		if i > 0 && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
			break
		}
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

// snakeCase splits name into words at case changes: UserID becomes user_id.
func snakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]))
			nextLower := i > 0 && i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1])
			if prevLower || nextLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// normalizeName folds a member name for lenient matching.
func normalizeName(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' || r == '-' {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

// excludedNames returns the folded names listed in the Exclude of t's
// override, or nil.
func (b *builder) excludedNames(t reflect.Type) map[string]bool {
	ov, ok := b.reg.override(t)
	if !ok || len(ov.Exclude) == 0 {
		return nil
	}
	return lo.SliceToMap(ov.Exclude, func(name string) (string, bool) {
		return normalizeName(name), true
	})
}

func (b *builder) structCodec(t reflect.Type) (*TypeCodec, error) {
	members := collectMembers(t, b.cfg.TextCase)
	excluded := b.excludedNames(t)
	if excluded != nil {
		members = lo.Filter(members, func(m member, _ int) bool {
			return !excluded[normalizeName(m.field)] && !excluded[normalizeName(m.name)]
		})
	}
	exact := make(map[string]*member, len(members))
	folded := make(map[string]*member, len(members))
	for i := range members {
		m := &members[i]
		c, err := b.codecFor(m.typ)
		if err != nil {
			return nil, codecerr.BuildFailed(t, m.field, err)
		}
		m.codec = c
		exact[m.name] = m
		if _, dup := folded[normalizeName(m.name)]; !dup {
			folded[normalizeName(m.name)] = m
		}
	}

	cfg := b.cfg
	write := func(e *Encoder, v reflect.Value) error {
		chars := e.f.Chars()
		e.buf.WriteByte(chars.MapStart)
		first := true

		typeName := e.takeTypeInfo()
		if typeName == "" && cfg.IncludeTypeInfo {
			typeName = e.reg.TypeName(t)
		}
		if typeName != "" && !cfg.ExcludeTypeInfo {
			e.f.WritePropertyName(e.buf, cfg.TypeAttr)
			e.f.WriteString(e.buf, typeName)
			first = false
		}

		for i := range members {
			m := &members[i]
			fv := v.FieldByIndex(m.index)
			if (m.omitEmpty || cfg.ExcludeDefaultValues) && fv.IsZero() {
				continue
			}
			if !cfg.IncludeNullValues && isNilable(fv) && fv.IsNil() {
				continue
			}
			if !first {
				e.buf.WriteByte(chars.ItemSep)
			}
			first = false
			e.f.WritePropertyName(e.buf, m.name)
			if err := writeElem(e, m.codec, fv); err != nil {
				return codecerr.WithMember(err, m.name)
			}
		}
		e.buf.WriteByte(chars.MapEnd)
		return nil
	}

	read := func(d *Decoder, tok string, dst reflect.Value) error {
		return readEntries(d, t, tok, func(key, val string) error {
			m, ok := exact[key]
			if !ok {
				m, ok = folded[normalizeName(key)]
			}
			if !ok {
				if key == cfg.TypeAttr || !cfg.StrictMode || excluded[normalizeName(key)] {
					return nil
				}
				return codecerr.New(codecerr.PhaseRead, codecerr.KindParse).
					Type(t).Member(key).Detail("unknown member").Build()
			}
			if err := d.read(m.codec, val, dst.FieldByIndex(m.index)); err != nil {
				if ce, ok := err.(*codecerr.Error); ok && ce.Kind == codecerr.KindMemberAssignment {
					return codecerr.WithMember(err, m.name)
				}
				return codecerr.Assignment(t, m.name, err)
			}
			return nil
		})
	}

	return &TypeCodec{Type: t, Write: guarded(write), Read: read}, nil
}
