// internal/daily/daily.go
//
// Exercise-of-the-day selection.
// The pick is deterministic per date: HMAC-SHA256(salt, YYYY-MM-DD) reduced
// modulo the catalogue size, so every server with the same salt agrees.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ExerciseIndex returns a deterministic index in [0, n) for a date.
func ExerciseIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Pick returns the exercise id for date out of ids, or "" when ids is empty.
func Pick(date time.Time, salt string, ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	return ids[ExerciseIndex(date, salt, len(ids))]
}
