package snapshot

import (
	"encoding/hex"
	"encoding/json"

	"github.com/zeebo/blake3"

	"mandala-cli/internal/chart"
	"mandala-cli/internal/model"
)

// Fingerprint is the hex BLAKE3 digest of the compact JSON encoding of s. Equal
// charts always have equal fingerprints.
func Fingerprint(s *model.ChartSnapshot) string {
	b, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	sum := blake3.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// TreeFingerprint fingerprints the encoded form of t.
func TreeFingerprint(t chart.Tree) string { return Fingerprint(Encode(t)) }
