package normalize

import (
	"reflect"
	"strings"
	"sync"

	"github.com/zoobzio/sentinel"
)

func init() {
	// Register naming tags with sentinel
	sentinel.Tag("json")
	sentinel.Tag("normalize")
}

// internalPrefix marks field names and mapping keys that never appear in
// output.
const internalPrefix = "_"

// fieldPlan describes how to emit a single struct field.
type fieldPlan struct {
	key        string // output key
	index      []int  // reflect.Value.FieldByIndex access path
	ptrIndices []int  // positions in index needing pointer dereference
}

// typePlan is the ordered field listing of one struct type.
type typePlan struct {
	typeName string
	fields   []fieldPlan
}

var (
	planCache = make(map[reflect.Type]*typePlan)
	planMu    sync.RWMutex
)

// Register pre-computes sentinel metadata and the field plan for T.
// Calling it is optional; plans are otherwise built lazily on first use.
// Registering at startup moves the scanning cost out of the first
// Serialize call and makes T's metadata available to sentinel consumers.
func Register[T any]() {
	sentinel.Scan[T]()
	rt := reflect.TypeFor[T]()
	if rt.Kind() == reflect.Struct {
		planFor(rt)
	}
}

// planFor returns the cached plan for a struct type, building it once.
func planFor(rt reflect.Type) *typePlan {
	// Fast path: read-lock cache check
	planMu.RLock()
	if p, ok := planCache[rt]; ok {
		planMu.RUnlock()
		return p
	}
	planMu.RUnlock()

	// Slow path: build and cache with write-lock
	planMu.Lock()
	defer planMu.Unlock()

	// Double-check pattern
	if p, ok := planCache[rt]; ok {
		return p
	}

	p := buildPlan(rt)
	planCache[rt] = p
	return p
}

func buildPlan(rt reflect.Type) *typePlan {
	plan := &typePlan{typeName: rt.String()}
	appendFields(plan, rt, nil, nil)
	return plan
}

// appendFields walks a struct type in declaration order, inlining anonymous
// embedded structs and recording pointer dereference positions for embedded
// struct pointers.
func appendFields(plan *typePlan, rt reflect.Type, parentIndex, ptrIndices []int) {
	md := scanType(rt)
	for _, fm := range md.Fields {
		sf := rt.FieldByIndex(fm.Index)
		fullIndex := append(append([]int{}, parentIndex...), fm.Index...)

		key, skip := outputKey(sf.Name, fm.Tags)
		if skip {
			continue
		}

		// Inline anonymous embedded structs unless a tag renames them.
		if sf.Anonymous && !hasNameTag(fm.Tags) {
			if sf.Type.Kind() == reflect.Struct {
				appendFields(plan, sf.Type, fullIndex, ptrIndices)
				continue
			}
			if sf.Type.Kind() == reflect.Ptr && sf.Type.Elem().Kind() == reflect.Struct {
				newPtrIndices := append(append([]int{}, ptrIndices...), len(fullIndex)-1)
				appendFields(plan, sf.Type.Elem(), fullIndex, newPtrIndices)
				continue
			}
		}

		if strings.HasPrefix(key, internalPrefix) {
			continue
		}

		plan.fields = append(plan.fields, fieldPlan{
			key:        key,
			index:      fullIndex,
			ptrIndices: ptrIndices,
		})
	}
}

// scanType returns sentinel metadata for a struct type, consulting the
// sentinel registry first and building metadata directly for types that
// were never registered.
func scanType(rt reflect.Type) sentinel.Metadata {
	if md, ok := sentinel.Lookup(rt.String()); ok {
		return md
	}

	md := sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, rt.NumField()),
	}

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}

		fm := sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        parseNamingTags(sf.Tag),
		}

		switch sf.Type.Kind() {
		case reflect.Struct:
			fm.Kind = sentinel.KindStruct
		case reflect.Ptr:
			fm.Kind = sentinel.KindPointer
		case reflect.Slice, reflect.Array:
			fm.Kind = sentinel.KindSlice
		case reflect.Map:
			fm.Kind = sentinel.KindMap
		case reflect.Interface:
			fm.Kind = sentinel.KindInterface
		default:
			fm.Kind = sentinel.KindScalar
		}

		md.Fields = append(md.Fields, fm)
	}

	return md
}

// parseNamingTags extracts the naming tags from a struct tag.
func parseNamingTags(tag reflect.StructTag) map[string]string {
	tags := make(map[string]string)
	for _, name := range []string{"json", "normalize"} {
		if val, ok := tag.Lookup(name); ok {
			tags[name] = val
		}
	}
	return tags
}

// outputKey resolves the output key for a field from its naming tags.
// A `normalize:"-"` or `json:"-"` tag skips the field entirely.
func outputKey(fieldName string, tags map[string]string) (key string, skip bool) {
	if tags["normalize"] == "-" {
		return "", true
	}
	if val, ok := tags["json"]; ok {
		name := strings.Split(val, ",")[0]
		if name == "-" {
			return "", true
		}
		if name != "" {
			return name, false
		}
	}
	return fieldName, false
}

// hasNameTag reports whether the json tag provides an explicit name.
func hasNameTag(tags map[string]string) bool {
	val, ok := tags["json"]
	if !ok {
		return false
	}
	name := strings.Split(val, ",")[0]
	return name != "" && name != "-"
}

// fieldByPlan navigates a field access path, dereferencing embedded struct
// pointers as needed. The second return is false when a nil embedded
// pointer makes the field unreachable.
func fieldByPlan(rv reflect.Value, plan fieldPlan) (reflect.Value, bool) {
	if len(plan.ptrIndices) == 0 {
		return rv.FieldByIndex(plan.index), true
	}

	ptrSet := make(map[int]bool, len(plan.ptrIndices))
	for _, idx := range plan.ptrIndices {
		ptrSet[idx] = true
	}

	current := rv
	for i, idx := range plan.index {
		current = current.Field(idx)

		if ptrSet[i] {
			if current.IsNil() {
				return reflect.Value{}, false
			}
			current = current.Elem()
		}
	}

	return current, true
}
