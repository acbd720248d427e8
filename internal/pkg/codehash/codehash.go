package codehash

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"

	"golang.org/x/crypto/blake2b"
)

// Alphabet is the symbol set for one-time codes
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the number of symbols in a one-time code
const Length = 6

// Generate draws a one-time code, each symbol independently and uniformly
func Generate() (string, error) {
	max := big.NewInt(int64(len(Alphabet)))
	buf := make([]byte, Length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = Alphabet[n.Int64()]
	}
	return string(buf), nil
}

// Hasher computes keyed digests of one-time codes so plaintext codes are never stored
type Hasher struct {
	key []byte
}

// NewHasher creates a Hasher. blake2b accepts keys up to 64 bytes; longer peppers are truncated.
func NewHasher(pepper string) *Hasher {
	key := []byte(pepper)
	if len(key) > blake2b.Size {
		key = key[:blake2b.Size]
	}
	return &Hasher{key: key}
}

// Digest returns the hex-encoded keyed BLAKE2b-256 digest of code bound to userID
func (h *Hasher) Digest(userID, code string) string {
	mac, err := blake2b.New256(h.key)
	if err != nil {
		// only reachable with a key longer than 64 bytes, which NewHasher prevents
		panic(err)
	}
	mac.Write([]byte(userID))
	mac.Write([]byte{0})
	mac.Write([]byte(code))
	return hex.EncodeToString(mac.Sum(nil))
}
