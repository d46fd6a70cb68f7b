// Package xid generates prefixed, time-ordered identifiers for invoices
// and ledger references.
package xid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

func New(prefix string) string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
	}
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixNano(), hex.EncodeToString(buf))
}

// Invoice returns a human-readable invoice number such as
// INV-20260831-4F21A9. Numbers sort by issue date and the random suffix
// keeps same-day invoices unique.
func Invoice(at time.Time) string {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("INV-%s-%06d", at.Format("20060102"), at.Nanosecond()%1_000_000)
	}
	return fmt.Sprintf("INV-%s-%s", at.Format("20060102"), strings.ToUpper(hex.EncodeToString(buf)))
}
