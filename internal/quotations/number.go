package quotations

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"time"
)

// numberEncoding drops the easily confused characters from the base32
// alphabet so quotation numbers survive being read out over the phone.
var numberEncoding = base32.NewEncoding("ABCDEFGHJKMNPQRSTVWXYZ0123456789").WithPadding(base32.NoPadding)

// NewNumber generates a human-facing quotation number. The timestamp keeps
// numbers roughly sortable; the random suffix avoids collisions between
// concurrent creates. True uniqueness is enforced by the storage layer, with
// the caller regenerating on constraint violation.
func NewNumber(now time.Time) string {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; fall back to
		// the sub-second clock so the suffix still varies.
		buf[0] = byte(now.Nanosecond())
		buf[1] = byte(now.Nanosecond() >> 8)
		buf[2] = byte(now.Nanosecond() >> 16)
	}
	suffix := numberEncoding.EncodeToString(buf)[:4]
	return fmt.Sprintf("Q-%s-%s", now.Format("20060102150405"), suffix)
}
