package normalize

import (
	"errors"
	"reflect"
	"testing"
)

func TestStateDescendCeiling(t *testing.T) {
	st := newState()

	for i := 0; i < 3; i++ {
		if err := st.descend(3, "T", ""); err != nil {
			t.Fatalf("descend %d failed: %v", i+1, err)
		}
	}

	err := st.descend(3, "T", "child")
	if !errors.Is(err, ErrStructureTooDeep) {
		t.Fatalf("error = %v, want ErrStructureTooDeep", err)
	}

	var serr *SerializeError
	if !errors.As(err, &serr) {
		t.Fatalf("error is %T, want *SerializeError", err)
	}
	if serr.Depth != 4 {
		t.Errorf("error depth = %d, want 4", serr.Depth)
	}

	st.ascend()
	if st.depth != 2 {
		t.Errorf("depth after ascend = %d, want 2", st.depth)
	}
}

func TestStatePushPopDiscipline(t *testing.T) {
	st := newState()
	v := &listNode{Name: "a"}
	rv := reflect.ValueOf(v)

	pop, err := st.push(rv, "")
	if err != nil {
		t.Fatalf("first push failed: %v", err)
	}

	// Same identity on the active stack fails.
	if _, err := st.push(rv, "next"); !errors.Is(err, ErrCircularReference) {
		t.Fatalf("re-push error = %v, want ErrCircularReference", err)
	}

	// After pop the identity may be visited again (sibling references).
	pop()
	pop2, err := st.push(rv, "")
	if err != nil {
		t.Fatalf("push after pop failed: %v", err)
	}
	pop2()
}

func TestStatePushDistinguishesTypes(t *testing.T) {
	st := newState()

	// A struct pointer and a pointer to its first field share an address
	// but are distinct identities.
	type wrap struct{ N listNode }
	w := &wrap{}

	pop1, err := st.push(reflect.ValueOf(w), "")
	if err != nil {
		t.Fatalf("push wrap failed: %v", err)
	}
	defer pop1()

	pop2, err := st.push(reflect.ValueOf(&w.N), "")
	if err != nil {
		t.Fatalf("push first field failed: %v", err)
	}
	defer pop2()
}
