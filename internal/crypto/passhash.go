// Package crypto implements server-side password hashing and auth token generation.
package crypto

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"math/big"

	"golang.org/x/crypto/argon2"
)

// Argon2Params holds Argon2id cost parameters.
type Argon2Params struct {
	Time    uint32 // iterations
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
}

// DefaultParams are tuned for server-side hashing.
var DefaultParams = Argon2Params{Time: 3, Memory: 64 * 1024, Threads: 1, KeyLen: 32}

// TestParams are cheap parameters used when the service runs in the test environment.
var TestParams = Argon2Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32}

// SaltLen is the per-user salt length in bytes.
const SaltLen = 16

// TokenLen is the length of an opaque auth token.
const TokenLen = 32

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Hasher derives password hashes bound to a server-wide secret.
type Hasher struct {
	secret []byte
	params Argon2Params
}

// NewHasher constructs a Hasher. The secret must not be empty.
func NewHasher(secret []byte, params Argon2Params) (*Hasher, error) {
	if len(secret) == 0 {
		return nil, errors.New("empty secret key")
	}
	return &Hasher{secret: append([]byte(nil), secret...), params: params}, nil
}

// RandBytes returns n cryptographically secure random bytes.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// NewToken returns a random TokenLen-character token over [A-Za-z0-9].
func NewToken() (string, error) {
	max := big.NewInt(int64(len(tokenAlphabet)))
	out := make([]byte, TokenLen)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = tokenAlphabet[n.Int64()]
	}
	return string(out), nil
}

// HashPassword returns Argon2id(HMAC-SHA256(secret, password), salt).
func (h *Hasher) HashPassword(password, salt []byte) []byte {
	mac := hmac.New(sha256.New, h.secret)
	mac.Write(password)
	p := h.params
	return argon2.IDKey(mac.Sum(nil), salt, p.Time, p.Memory, p.Threads, p.KeyLen)
}

// VerifyPassword verifies password against the expected hash and salt in constant time.
func (h *Hasher) VerifyPassword(password, salt, expected []byte) bool {
	got := h.HashPassword(password, salt)
	return subtle.ConstantTimeCompare(got, expected) == 1
}
