package normalize

import (
	"reflect"
	"testing"
)

func TestConventionDefaults(t *testing.T) {
	c := DefaultConvention()

	if c.DateTimeFormat() != DefaultDateTimeFormat {
		t.Errorf("DateTimeFormat = %q, want %q", c.DateTimeFormat(), DefaultDateTimeFormat)
	}
	if !c.StringerRewrite() {
		t.Error("StringerRewrite disabled by default")
	}
	if c.OmitNil() {
		t.Error("OmitNil enabled by default")
	}
	if c.MaxDepth() != 32 {
		t.Errorf("MaxDepth = %d, want 32", c.MaxDepth())
	}

	want := []string{"password", "passwd", "pass", "pwd", "creditcard", "credit card", "cc", "pin"}
	if !reflect.DeepEqual(c.HiddenKeys(), want) {
		t.Errorf("HiddenKeys = %v, want %v", c.HiddenKeys(), want)
	}
}

func TestConventionOptions(t *testing.T) {
	c := NewConvention(
		WithDateTimeFormat("2006-01-02"),
		WithStringerRewrite(false),
		WithOmitNil(true),
		WithHiddenKeys("Token", "SECRET"),
		WithMaxDepth(8),
	)

	if c.DateTimeFormat() != "2006-01-02" {
		t.Errorf("DateTimeFormat = %q, want 2006-01-02", c.DateTimeFormat())
	}
	if c.StringerRewrite() {
		t.Error("StringerRewrite still enabled")
	}
	if !c.OmitNil() {
		t.Error("OmitNil still disabled")
	}
	if c.MaxDepth() != 8 {
		t.Errorf("MaxDepth = %d, want 8", c.MaxDepth())
	}

	// Hidden entries are stored lowercased for case-insensitive matching.
	if !reflect.DeepEqual(c.HiddenKeys(), []string{"token", "secret"}) {
		t.Errorf("HiddenKeys = %v, want [token secret]", c.HiddenKeys())
	}
}

func TestConventionHiddenKeysIsCopy(t *testing.T) {
	c := DefaultConvention()

	keys := c.HiddenKeys()
	keys[0] = "mutated"

	if c.HiddenKeys()[0] != "password" {
		t.Error("HiddenKeys() exposed internal state")
	}
}
