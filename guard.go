package normalize

import "reflect"

// identity distinguishes one reference value on the traversal stack.
// The type is part of the key: a struct and its first field share an
// address but are different values.
type identity struct {
	ptr uintptr
	typ reflect.Type
}

// state is the mutable bookkeeping of exactly one top-level Serialize call.
// It is never shared between calls or goroutines; concurrent callers each
// allocate their own.
type state struct {
	depth  int
	onPath map[identity]struct{}
	masked int
}

func newState() *state {
	return &state{onPath: make(map[identity]struct{})}
}

// descend claims one more level of depth before recursing into a
// container's children. It fails when the next level would exceed the
// ceiling, before any child is visited.
func (st *state) descend(max int, typeName, key string) error {
	if st.depth >= max {
		return newTooDeepError(typeName, key, st.depth+1)
	}
	st.depth++
	return nil
}

// ascend releases the level claimed by descend.
func (st *state) ascend() {
	st.depth--
}

// push records a reference value on the active traversal stack. It fails
// when the identity is already on the stack. The returned pop must run on
// every exit path.
func (st *state) push(rv reflect.Value, key string) (func(), error) {
	ptr := rv.Pointer()
	if ptr == 0 {
		return func() {}, nil
	}
	id := identity{ptr: ptr, typ: rv.Type()}
	if _, ok := st.onPath[id]; ok {
		return nil, newCircularError(rv.Type().String(), key, st.depth)
	}
	st.onPath[id] = struct{}{}
	return func() { delete(st.onPath, id) }, nil
}
