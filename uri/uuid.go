package uri

import (
	"crypto/rand"
	"fmt"
)

// newUUID4 generates a random RFC 4122 version-4 UUID. Kept deliberately
// tiny: the module has no other need for a UUID type, only for a
// syntactically valid urn:uuid: suffix, so a full parse/format library would
// be overkill (see DESIGN.md D6).
func newUUID4() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand.Read on a supported platform does not fail; if it ever
		// does there is no sane fallback that preserves uniqueness.
		panic(err)
	}
	b[6] = (b[6] & 0x0f) | 0x40 // version 4
	b[8] = (b[8] & 0x3f) | 0x80 // variant 10
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}
