// Package ingestion turns raw parser records into ledger transactions: sign
// normalization, installment detection and the dedup fingerprint.
package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const fingerprintSeparator = "|"

// Fingerprint returns the hex SHA-256 digest identifying a transaction inside a statement.
// Amounts are rendered in canonical decimal form so "-50.00" and "-50" hash equally.
func Fingerprint(date time.Time, amount decimal.Decimal, rawDescription string, statementID *string) string {
	stmt := ""
	if statementID != nil {
		stmt = *statementID
	}

	payload := strings.Join([]string{
		date.UTC().Format(time.RFC3339),
		amount.String(),
		rawDescription,
		stmt,
	}, fingerprintSeparator)

	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
