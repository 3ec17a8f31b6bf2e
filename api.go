// Package normalize converts arbitrary in-memory values into a canonical
// tree of scalars, ordered sequences, and ordered mappings suitable for
// transport encoding, without requiring each type to implement
// serialization logic itself.
//
// # Canonical Output
//
// Serialize emits only the following value shapes:
//
//   - nil
//   - bool
//   - numeric scalars (int, int64, uint64, float64, ...)
//   - string
//   - []any (ordered sequence)
//   - *Map (insertion-ordered string-keyed mapping)
//
// The result is ready for an external encoder; Map preserves key order
// through MarshalJSON.
//
// # Basic Usage
//
//	type User struct {
//	    Name  string `json:"name"`
//	    Email string `json:"email"`
//	    Age   int    `json:"age"`
//	}
//
//	s := normalize.New()
//	out, err := s.Serialize(User{Name: "Jan Barasek", Email: "jan@example.com", Age: 30})
//	// out is a *normalize.Map{name, email, age} in declaration order
//
//	data, err := s.JSON(user) // canonical tree encoded as JSON
//
// A process-wide default serializer is available through Default and the
// package-level Serialize; it is built once on first use and never
// reconfigured afterward.
//
// # Dispatch
//
// Each value is classified in priority order: primitives pass through,
// bridge capabilities (ItemList, StatusCounter, Paginator, Translation,
// Price) are handed to their adapters, fmt.Stringer values reduce to one
// string when the convention enables it, time values are formatted with the
// convention's layout, sequences recurse element-wise, and mappings,
// Fielder values, and structs recurse key-wise in original order. Anything
// else fails with ErrUnsupportedType.
//
// # Safety
//
// Traversal is bounded by the convention's depth ceiling (default 32) and
// guarded against reference cycles; both violations fail the whole call
// with no partial output. Mapping keys that case-insensitively contain a
// hidden-key entry (password, pwd, creditcard, ...) have their string
// values replaced with a fixed mask unless the value is an already-hashed
// bcrypt string, and a security event is emitted for each replacement.
//
// # Configuration
//
// Behavior is controlled by an immutable Convention constructed up front:
//
//	s := normalize.New(
//	    normalize.WithConvention(normalize.NewConvention(
//	        normalize.WithDateTimeFormat(time.RFC3339),
//	        normalize.WithOmitNil(true),
//	        normalize.WithHiddenKeys("password", "token"),
//	    )),
//	)
//
// Alternate behavior is obtained by constructing a different Convention,
// never by mutating one in place.
package normalize

// Field is one (key, value) pair of an ordered field listing.
type Field struct {
	Key   string
	Value any
}

// Fielder allows types to bypass reflection-based field enumeration.
// When a type implements this interface, the engine serializes the returned
// pairs in order instead of scanning struct fields.
//
// This interface is designed for codegen: a code generator can emit
// SerializeFields from a struct definition, providing compile-time safety
// without per-call boilerplate. Keys beginning with "_" are treated as
// internal and skipped; hidden-key masking still applies to the values.
type Fielder interface {
	SerializeFields() []Field
}

// ItemList marks a pre-serialized result set. The returned sequence is
// emitted verbatim and is not re-traversed; each element is assumed to be
// an already-canonical mapping. An ItemList value may only appear at the
// top level or under the key "items".
type ItemList interface {
	Data() []map[string]any
}

// StatusCounter marks an aggregate bucket with a stable key, a display
// label, and a count. It serializes to {key, label, count}.
type StatusCounter interface {
	Key() string
	Label() string
	Count() int
}

// Paginator marks a paging descriptor. It serializes to {page, pageCount,
// itemCount, itemsPerPage, firstPage, lastPage, isFirstPage, isLastPage}
// and may only appear at the top level or under the key "paginator".
type Paginator interface {
	Page() int
	PageCount() int
	ItemCount() int
	ItemsPerPage() int
}

// Translation marks a value that resolves to one string for the active
// locale. It serializes to that string.
type Translation interface {
	Translate() string
}

// Price marks a monetary value. It serializes to {value, currency, html,
// isFree} with value rendered as a 2-decimal string.
type Price interface {
	Value() float64
	Currency() string
	HTML() string
	IsFree() bool
}
