package reschedule

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Signer produces the keyed integrity hash over a canonicalized proposal.
// The hash doubles as the confirm capability token: without the server
// secret a caller cannot mint a valid one.
type Signer struct {
	secret []byte
}

func NewSigner(secret string) Signer {
	return Signer{secret: []byte(secret)}
}

func (s Signer) Hash(p Proposal) (string, error) {
	canonical, err := p.Canonical()
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(canonical)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

func (s Signer) Verify(p Proposal, hash string) bool {
	expected, err := s.Hash(p)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(hash))
}
