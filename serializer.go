package normalize

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// slot describes where a value sits in its parent: under a mapping key, in
// a sequence element, or at the top level. Bridge adapters with mandated
// keys validate their placement against it.
type slot struct {
	key string // parent mapping key, empty for sequence elements
	top bool   // true for the top-level value only
}

// allows reports whether a mandated-key bridge value may occupy this slot.
// Top-level values are exempt from the placement check.
func (sl slot) allows(mandated string) bool {
	return sl.top || sl.key == mandated
}

// Serializer converts values into canonical trees according to an
// immutable Convention. Serializers are safe for concurrent use; every
// call allocates its own traversal state.
type Serializer struct {
	convention *Convention
	sink       SecuritySink
	masker     *keyMasker
}

// Option configures a Serializer during construction.
type Option func(*Serializer)

// WithConvention sets the serializer's convention.
func WithConvention(c *Convention) Option {
	return func(s *Serializer) {
		s.convention = c
	}
}

// WithSecuritySink registers a collaborator that receives one message per
// masked value, in addition to the emitted security signal. The sink is
// fire-and-forget; serialization results never depend on it.
func WithSecuritySink(sink SecuritySink) Option {
	return func(s *Serializer) {
		s.sink = sink
	}
}

// New creates a Serializer. Without options it uses DefaultConvention and
// no security sink.
func New(opts ...Option) *Serializer {
	s := &Serializer{convention: DefaultConvention()}
	for _, opt := range opts {
		opt(s)
	}
	s.masker = &keyMasker{hidden: s.convention.hiddenKeys, sink: s.sink}
	return s
}

var (
	defaultOnce       sync.Once
	defaultSerializer *Serializer
)

// Default returns the process-wide serializer. It is built with default
// options on first use and never reconfigured afterward; callers needing
// different behavior construct their own Serializer and pass it around
// explicitly.
func Default() *Serializer {
	defaultOnce.Do(func() {
		defaultSerializer = New()
	})
	return defaultSerializer
}

// Serialize converts v with the Default serializer.
func Serialize(v any) (any, error) {
	return Default().Serialize(v)
}

// Convention returns the serializer's convention.
func (s *Serializer) Convention() *Convention {
	return s.convention
}

// Serialize converts v into a canonical tree of scalars, ordered
// sequences, and ordered mappings. It fails with ErrStructureTooDeep,
// ErrCircularReference, ErrMisplacedBridgeValue, or ErrUnsupportedType; on
// failure no partial output is returned.
func (s *Serializer) Serialize(v any) (any, error) {
	ctx := context.Background()
	typeName := fmt.Sprintf("%T", v)
	emitSerializeStart(ctx, typeName)

	start := time.Now()
	st := newState()
	out, err := s.walk(ctx, st, reflect.ValueOf(v), slot{top: true})
	emitSerializeComplete(ctx, typeName, time.Since(start), st.masked, err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// JSON serializes v and encodes the canonical tree as JSON. Map values
// preserve their key order in the encoded output.
func (s *Serializer) JSON(v any) ([]byte, error) {
	out, err := s.Serialize(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

// walk classifies one value and dispatches it to the matching handling
// strategy. Classification runs in priority order: nil, bridge
// capabilities, date/time, Stringer rewrite, Fielder, then structural
// kinds.
func (s *Serializer) walk(ctx context.Context, st *state, rv reflect.Value, sl slot) (any, error) {
	if !rv.IsValid() {
		return nil, nil
	}

	// Unwrap interfaces; this is not a traversal level.
	if rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return nil, nil
		}
	}

	// Bridge capabilities take priority over structural handling. Adapter
	// results are already canonical and are not re-traversed.
	if rv.CanInterface() {
		out, matched, err := dispatchBridge(rv.Interface(), sl, st.depth)
		if matched {
			if err != nil {
				return nil, err
			}
			return out, nil
		}
	}

	// Date/time formatting wins over the Stringer rewrite; time.Time is
	// both a date and a Stringer.
	if t, ok := asTime(rv); ok {
		return t.Format(s.convention.dateTimeFormat), nil
	}

	if s.convention.rewriteStringer && rv.CanInterface() {
		if str, ok := rv.Interface().(fmt.Stringer); ok {
			return str.String(), nil
		}
	}

	if rv.CanInterface() {
		if f, ok := rv.Interface().(Fielder); ok {
			return s.walkFields(ctx, st, rv.Type().String(), f.SerializeFields(), sl)
		}
	}

	switch rv.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.String:
		return scalar(rv), nil

	case reflect.Ptr:
		pop, err := st.push(rv, sl.key)
		if err != nil {
			return nil, err
		}
		defer pop()

		if m, ok := rv.Interface().(*Map); ok {
			return s.walkCanonicalMap(ctx, st, m, sl)
		}
		return s.walk(ctx, st, rv.Elem(), sl)

	case reflect.Slice, reflect.Array:
		return s.walkSequence(ctx, st, rv, sl)

	case reflect.Map:
		return s.walkGoMap(ctx, st, rv, sl)

	case reflect.Struct:
		return s.walkStruct(ctx, st, rv, sl)

	default:
		return nil, newUnsupportedError(rv.Type().String(), sl.key, st.depth)
	}
}

// scalar reduces a scalar value to its canonical form. Values of
// predeclared types pass through unchanged; named types (enumeration
// members) reduce to their backing scalar.
func scalar(rv reflect.Value) any {
	if rv.Type().PkgPath() == "" {
		return rv.Interface()
	}
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint()
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	default:
		return rv.String()
	}
}

var timeType = reflect.TypeOf(time.Time{})

// asTime recognizes time.Time and named types backed by it, looking
// through one pointer level. Pointers must be recognized here, before the
// Stringer rewrite: *time.Time satisfies fmt.Stringer and would otherwise
// be emitted in Go's default format instead of the convention's layout.
func asTime(rv reflect.Value) (time.Time, bool) {
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return time.Time{}, false
		}
		rv = rv.Elem()
	}
	if rv.Type() == timeType {
		return rv.Interface().(time.Time), true
	}
	if rv.Kind() == reflect.Struct && rv.Type().ConvertibleTo(timeType) {
		return rv.Convert(timeType).Interface().(time.Time), true
	}
	return time.Time{}, false
}

// walkSequence recurses element-wise, preserving order. Depth is claimed
// once for the whole pass; slices are cycle-tracked by data pointer.
func (s *Serializer) walkSequence(ctx context.Context, st *state, rv reflect.Value, sl slot) (any, error) {
	if rv.Kind() == reflect.Slice {
		pop, err := st.push(rv, sl.key)
		if err != nil {
			return nil, err
		}
		defer pop()
	}

	if err := st.descend(s.convention.maxDepth, rv.Type().String(), sl.key); err != nil {
		return nil, err
	}
	defer st.ascend()

	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		child, err := s.walk(ctx, st, rv.Index(i), slot{})
		if err != nil {
			return nil, err
		}
		out[i] = child
	}
	return out, nil
}

// walkGoMap recurses key-wise over a Go map. Go maps carry no insertion
// order, so keys are emitted in sorted order for deterministic output.
func (s *Serializer) walkGoMap(ctx context.Context, st *state, rv reflect.Value, sl slot) (any, error) {
	pop, err := st.push(rv, sl.key)
	if err != nil {
		return nil, err
	}
	defer pop()

	type entry struct {
		name string
		val  reflect.Value
	}
	entries := make([]entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		name, ok := mapKeyString(iter.Key())
		if !ok {
			return nil, newUnsupportedError(rv.Type().String(), sl.key, st.depth)
		}
		entries = append(entries, entry{name: name, val: iter.Value()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })

	// Distinct Go keys that render to the same mapping key (1 and "1" in a
	// map[any]any) cannot be represented without losing a value.
	for i := 1; i < len(entries); i++ {
		if entries[i].name == entries[i-1].name {
			return nil, newUnsupportedError(rv.Type().String(), sl.key, st.depth)
		}
	}

	if err := st.descend(s.convention.maxDepth, rv.Type().String(), sl.key); err != nil {
		return nil, err
	}
	defer st.ascend()

	out := NewMap()
	for _, e := range entries {
		if strings.HasPrefix(e.name, internalPrefix) {
			continue
		}
		child, err := s.walk(ctx, st, e.val, slot{key: e.name})
		if err != nil {
			return nil, err
		}
		s.setEntry(ctx, st, out, e.name, child)
	}
	return out, nil
}

// mapKeyString renders a map key as a mapping key. String and integer keys
// are supported.
func mapKeyString(k reflect.Value) (string, bool) {
	switch k.Kind() {
	case reflect.Interface:
		if k.IsNil() {
			return "", false
		}
		return mapKeyString(k.Elem())
	case reflect.String:
		return k.String(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), true
	default:
		return "", false
	}
}

// walkStruct recurses over a struct's fields in declaration order using
// the type's cached field plan.
func (s *Serializer) walkStruct(ctx context.Context, st *state, rv reflect.Value, sl slot) (any, error) {
	plan := planFor(rv.Type())

	if err := st.descend(s.convention.maxDepth, plan.typeName, sl.key); err != nil {
		return nil, err
	}
	defer st.ascend()

	out := NewMap()
	for _, fp := range plan.fields {
		fv, ok := fieldByPlan(rv, fp)
		if !ok {
			continue
		}
		child, err := s.walk(ctx, st, fv, slot{key: fp.key})
		if err != nil {
			return nil, err
		}
		s.setEntry(ctx, st, out, fp.key, child)
	}
	return out, nil
}

// walkCanonicalMap recurses over an already-canonical ordered mapping,
// keeping its insertion order.
func (s *Serializer) walkCanonicalMap(ctx context.Context, st *state, m *Map, sl slot) (any, error) {
	if err := st.descend(s.convention.maxDepth, "*normalize.Map", sl.key); err != nil {
		return nil, err
	}
	defer st.ascend()

	out := NewMap()
	for _, key := range m.Keys() {
		if strings.HasPrefix(key, internalPrefix) {
			continue
		}
		v, _ := m.Get(key)
		child, err := s.walk(ctx, st, reflect.ValueOf(v), slot{key: key})
		if err != nil {
			return nil, err
		}
		s.setEntry(ctx, st, out, key, child)
	}
	return out, nil
}

// walkFields recurses over an ordered field listing from a Fielder.
func (s *Serializer) walkFields(ctx context.Context, st *state, typeName string, fields []Field, sl slot) (any, error) {
	if err := st.descend(s.convention.maxDepth, typeName, sl.key); err != nil {
		return nil, err
	}
	defer st.ascend()

	out := NewMap()
	for _, f := range fields {
		if strings.HasPrefix(f.Key, internalPrefix) {
			continue
		}
		child, err := s.walk(ctx, st, reflect.ValueOf(f.Value), slot{key: f.Key})
		if err != nil {
			return nil, err
		}
		s.setEntry(ctx, st, out, f.Key, child)
	}
	return out, nil
}

// setEntry inserts a serialized child into a parent mapping, applying the
// nil-omission rule and hidden-key masking. Masking runs after the child
// has been serialized.
func (s *Serializer) setEntry(ctx context.Context, st *state, m *Map, key string, value any) {
	if value == nil && s.convention.omitNil {
		return
	}
	value, masked := s.masker.mask(ctx, key, value)
	if masked {
		st.masked++
	}
	m.Set(key, value)
}
