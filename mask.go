package normalize

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// HiddenValueMask replaces string values stored under hidden keys.
const HiddenValueMask = "*****"

// SecuritySink receives a message for each masked value. Sinks are
// fire-and-forget collaborators; a nil sink never affects serialization
// correctness, only observability.
type SecuritySink func(message string)

// bcryptShape matches the textual form of a bcrypt hash:
// $2[ayb]$ + two-digit cost + 53 characters of salt and checksum.
var bcryptShape = regexp.MustCompile(`^\$2[ayb]\$\d{2}\$[./A-Za-z0-9]{53}$`)

// isBcryptHash reports whether value is an already-hashed bcrypt string.
// Already-hashed secrets are exempt from masking. The cost parsed from the
// prefix must be inside bcrypt's supported range.
func isBcryptHash(value string) bool {
	if !bcryptShape.MatchString(value) {
		return false
	}
	cost, err := bcrypt.Cost([]byte(value))
	return err == nil && cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost
}

// keyMasker replaces sensitive string values with HiddenValueMask and
// reports each replacement as a security event.
type keyMasker struct {
	hidden []string // lowercased hidden-key entries
	sink   SecuritySink
}

// mask returns the value to emit under key. A string value whose key
// case-insensitively contains a hidden entry is replaced with
// HiddenValueMask unless it matches the bcrypt-hash shape. Non-string
// values pass through untouched. The second return reports whether masking
// occurred.
func (m *keyMasker) mask(ctx context.Context, key string, value any) (any, bool) {
	str, ok := value.(string)
	if !ok {
		return value, false
	}

	lower := strings.ToLower(key)
	for _, pattern := range m.hidden {
		if !strings.Contains(lower, pattern) {
			continue
		}
		if isBcryptHash(str) {
			return value, false
		}
		emitSensitiveMasked(ctx, key, pattern)
		if m.sink != nil {
			m.sink(fmt.Sprintf(
				"Possible credential leak: value of key %q matched hidden entry %q and was masked before output.",
				key, pattern,
			))
		}
		return HiddenValueMask, true
	}

	return value, false
}
