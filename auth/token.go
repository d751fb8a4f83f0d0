package auth

import "encoding/hex"

const tokenBytes = 32 // 256 bits of entropy

// NewToken generates a cryptographically random session token as hex.
func NewToken() (string, error) {
	b, err := randomBytes(tokenBytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
