package scraper

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// JobID computes the stable content-addressed identity for a posting.
// The input concatenation format is a persistence contract: ids written to
// the seen-job ledger must remain stable across re-ingestion, so the
// lowercased "company-role-location" form must never change.
func JobID(company, role, location string) string {
	data := strings.ToLower(company + "-" + role + "-" + location)
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}
