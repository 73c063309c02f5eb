package orders

import (
	"crypto/rand"
	"fmt"
	"time"
)

const storeCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// StoreCodeLength is fixed: staff read the code back at pickup.
const StoreCodeLength = 8

// GenerateStoreCode returns a random 8-character [A-Z0-9] pickup code.
// Uniqueness is enforced by the database; callers retry on collision.
func GenerateStoreCode() string {
	buf := make([]byte, StoreCodeLength)
	if _, err := rand.Read(buf); err != nil {
		panic(err) // crypto/rand never fails on supported platforms
	}
	for i, b := range buf {
		buf[i] = storeCodeAlphabet[int(b)%len(storeCodeAlphabet)]
	}
	return string(buf)
}

// NewOrderNumber builds a human-facing order number, e.g. "ORD-1717171717000-4821".
func NewOrderNumber(now time.Time) string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	n := 0
	for _, b := range buf {
		n = n*10 + int(b)%10
	}
	return fmt.Sprintf("ORD-%d-%04d", now.UnixMilli(), n)
}
