package analysis

import (
	"crypto/sha256"
	"fmt"
	"strconv"

	"github.com/kavyamurthy/logscope/pkg/models"
)

// Fingerprint computes a cheap structural identity for a record sequence:
// record count, the raw text of the first and last record, and the first
// timestamp. It is an identity check for cache validity, not a cryptographic
// digest of the input: a miss is always safe, so only enough of the input
// shape is hashed to make a stale hit implausible.
func Fingerprint(records []models.Record) string {
	h := sha256.New()
	h.Write([]byte(strconv.Itoa(len(records))))
	if len(records) > 0 {
		h.Write([]byte{0})
		h.Write([]byte(records[0].Raw))
		h.Write([]byte{0})
		h.Write([]byte(records[len(records)-1].Raw))
		if records[0].Timestamp != nil {
			h.Write([]byte{0})
			h.Write([]byte(records[0].Timestamp.UTC().Format("2006-01-02T15:04:05.999999999")))
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
