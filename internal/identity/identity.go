// Package identity derives pseudonymous tokens for respondents.
//
// A token is the only form in which a respondent's identity is ever
// persisted. The transform is one-way; no decode path exists anywhere
// in this codebase.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
)

// Anonymize hashes rawID with the given salt and returns the digest as
// lowercase hex. The same rawID and salt always produce the same token;
// the raw identifier is not recoverable from it.
func Anonymize(rawID, salt string) string {
	h := sha256.New()
	h.Write([]byte(salt))
	h.Write([]byte(rawID))
	return hex.EncodeToString(h.Sum(nil))
}
