package normalize

import "strings"

// Default convention values.
const (
	// DefaultDateTimeFormat renders date/time values as
	// "year-month-day hour:minute:second".
	DefaultDateTimeFormat = "2006-01-02 15:04:05"

	// DefaultMaxDepth is the traversal depth ceiling.
	DefaultMaxDepth = 32
)

// defaultHiddenKeys are the hidden-key entries applied when none are
// configured. Matching is case-insensitive substring matching against
// mapping keys.
var defaultHiddenKeys = []string{
	"password",
	"passwd",
	"pass",
	"pwd",
	"creditcard",
	"credit card",
	"cc",
	"pin",
}

// Convention is the immutable configuration of a Serializer.
//
// A Convention is constructed once and shared read-only across all calls
// for the lifetime of a serializer; it is safe for concurrent use.
// Alternate behavior is obtained by constructing a different Convention.
type Convention struct {
	dateTimeFormat  string
	rewriteStringer bool
	omitNil         bool
	hiddenKeys      []string
	maxDepth        int
}

// ConventionOption configures a Convention during construction.
type ConventionOption func(*Convention)

// WithDateTimeFormat sets the time layout used for date/time values.
func WithDateTimeFormat(layout string) ConventionOption {
	return func(c *Convention) {
		c.dateTimeFormat = layout
	}
}

// WithStringerRewrite controls whether values implementing fmt.Stringer are
// reduced to their String() result instead of being traversed structurally.
// Enabled by default.
func WithStringerRewrite(enabled bool) ConventionOption {
	return func(c *Convention) {
		c.rewriteStringer = enabled
	}
}

// WithOmitNil controls whether nil values are omitted from their parent
// mapping instead of appearing as null. Disabled by default. Sequence
// elements are never omitted.
func WithOmitNil(enabled bool) ConventionOption {
	return func(c *Convention) {
		c.omitNil = enabled
	}
}

// WithHiddenKeys replaces the hidden-key set used for sensitive-value
// masking. Entries are matched case-insensitively as substrings of mapping
// keys (key "userPassword" matches entry "password").
func WithHiddenKeys(keys ...string) ConventionOption {
	return func(c *Convention) {
		c.hiddenKeys = lowercase(keys)
	}
}

// WithMaxDepth sets the traversal depth ceiling.
func WithMaxDepth(depth int) ConventionOption {
	return func(c *Convention) {
		c.maxDepth = depth
	}
}

// NewConvention builds a Convention from the defaults and the given
// options.
func NewConvention(opts ...ConventionOption) *Convention {
	c := &Convention{
		dateTimeFormat:  DefaultDateTimeFormat,
		rewriteStringer: true,
		omitNil:         false,
		hiddenKeys:      lowercase(defaultHiddenKeys),
		maxDepth:        DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefaultConvention returns a Convention with all default values.
func DefaultConvention() *Convention {
	return NewConvention()
}

// DateTimeFormat returns the time layout used for date/time values.
func (c *Convention) DateTimeFormat() string { return c.dateTimeFormat }

// StringerRewrite reports whether fmt.Stringer values reduce to one string.
func (c *Convention) StringerRewrite() bool { return c.rewriteStringer }

// OmitNil reports whether nil values are omitted from parent mappings.
func (c *Convention) OmitNil() bool { return c.omitNil }

// HiddenKeys returns a copy of the hidden-key set.
func (c *Convention) HiddenKeys() []string {
	keys := make([]string, len(c.hiddenKeys))
	copy(keys, c.hiddenKeys)
	return keys
}

// MaxDepth returns the traversal depth ceiling.
func (c *Convention) MaxDepth() int { return c.maxDepth }

func lowercase(keys []string) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = strings.ToLower(k)
	}
	return out
}
