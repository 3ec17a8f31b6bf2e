package normalize

import (
	"reflect"
	"testing"
)

func TestMapSetGet(t *testing.T) {
	m := NewMap()
	m.Set("a", 1)
	m.Set("b", 2)

	if v, ok := m.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = (%v, %v), want (1, true)", v, ok)
	}
	if _, ok := m.Get("missing"); ok {
		t.Error("Get(missing) reported present")
	}
	if m.Len() != 2 {
		t.Errorf("Len = %d, want 2", m.Len())
	}
}

func TestMapOverwriteKeepsPosition(t *testing.T) {
	m := NewMap()
	m.Set("a", 1)
	m.Set("b", 2)
	m.Set("a", 10)

	if !reflect.DeepEqual(m.Keys(), []string{"a", "b"}) {
		t.Errorf("keys = %v, want [a b]", m.Keys())
	}
	if v, _ := m.Get("a"); v != 10 {
		t.Errorf("a = %v, want 10", v)
	}
	if m.Len() != 2 {
		t.Errorf("Len = %d, want 2", m.Len())
	}
}

func TestMapKeysIsCopy(t *testing.T) {
	m := NewMap()
	m.Set("a", 1)

	keys := m.Keys()
	keys[0] = "mutated"

	if m.Keys()[0] != "a" {
		t.Error("Keys() exposed internal state")
	}
}

func TestMapOf(t *testing.T) {
	m := MapOf(
		Field{"z", 26},
		Field{"a", 1},
	)

	if !reflect.DeepEqual(m.Keys(), []string{"z", "a"}) {
		t.Errorf("keys = %v, want [z a]", m.Keys())
	}
}

func TestMapMarshalJSONOrder(t *testing.T) {
	m := MapOf(
		Field{"z", 1},
		Field{"a", MapOf(Field{"nested", true})},
		Field{"list", []any{1, "two"}},
	)

	got, err := m.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}

	want := `{"z":1,"a":{"nested":true},"list":[1,"two"]}`
	if string(got) != want {
		t.Errorf("MarshalJSON = %s, want %s", got, want)
	}
}

func TestMapMarshalJSONEscaping(t *testing.T) {
	m := MapOf(Field{`he said "hi"`, "a\nb"})

	got, err := m.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}

	want := `{"he said \"hi\"":"a\nb"}`
	if string(got) != want {
		t.Errorf("MarshalJSON = %s, want %s", got, want)
	}
}

func TestMapMarshalJSONEmpty(t *testing.T) {
	got, err := NewMap().MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}
	if string(got) != "{}" {
		t.Errorf("MarshalJSON = %s, want {}", got)
	}
}
