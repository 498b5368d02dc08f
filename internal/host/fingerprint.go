package host

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"github.com/mcoot/mobboss/internal/model"
)

// Fingerprint returns a stable digest of proof material so a stored session can be
// matched to the proof it came from without keeping the proof itself.
func Fingerprint(proof string) string {
	if proof == "" {
		return ""
	}
	sum := blake2b.Sum256([]byte(proof))
	return hex.EncodeToString(sum[:16])
}

// SessionMatchesProof reports whether a stored session may be reused with the given proof.
// Without proof there is nothing to contradict the session.
func SessionMatchesProof(session *model.HostSession, proof string) bool {
	if session == nil {
		return false
	}
	if proof == "" || session.ProofFingerprint == "" {
		return true
	}
	return session.ProofFingerprint == Fingerprint(proof)
}
