package transfer

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/Nana-Caring/Backend--sub002/internal/accounts"
)

const refAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomToken(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(err) // crypto/rand never fails on supported platforms
	}
	for i, b := range buf {
		buf[i] = refAlphabet[int(b)%len(refAlphabet)]
	}
	return string(buf)
}

// NewReference builds the base transfer reference, e.g. "TRF-1717171717000-k3j9x0q2m".
// The funder debit and destination credit append "-OUT" and "-IN".
func NewReference(now time.Time) string {
	return fmt.Sprintf("TRF-%d-%s", now.UnixMilli(), randomToken(9))
}

// DistributionReference is the reference of one category's distribution credit.
func DistributionReference(transferRef string, category accounts.Type, now time.Time) string {
	return fmt.Sprintf("%s-DIST-%s-%d", transferRef, category.Upper(), now.UnixMilli())
}

// SweepReference is the reference of the Main-account debit that moves the
// incoming amount into the distribution. Its numeric tail keeps it distinct
// from the per-category DIST references.
func SweepReference(transferRef string, now time.Time) string {
	return fmt.Sprintf("%s-DIST-%d", transferRef, now.UnixMilli())
}

// EmergencyReference is the reference of the emergency-fund credit back into Main.
func EmergencyReference(transferRef string, now time.Time) string {
	return fmt.Sprintf("%s-EMERGENCY-%d", transferRef, now.UnixMilli())
}
