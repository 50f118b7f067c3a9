// Package password turns plaintext passwords into storable digests and checks
// plaintexts against stored digests.
package password

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	AlgorithmSHA256 = "sha256"
	AlgorithmBcrypt = "bcrypt"
)

var _ Hasher = (*SHA256Hasher)(nil)
var _ Hasher = (*BcryptHasher)(nil)

// Hasher produces and checks password digests.
// Verify never fails with an error: a mismatch or an unreadable digest is simply false.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

// SHA256Hasher is the deterministic, unsalted digest used by existing accounts:
// base64(SHA-256(password)).
type SHA256Hasher struct{}

func NewSHA256Hasher() *SHA256Hasher {
	return &SHA256Hasher{}
}

// Hash returns the standard base64 encoding of the SHA-256 digest of password.
func (h *SHA256Hasher) Hash(password string) (string, error) {
	return Digest(password), nil
}

// Verify recomputes the digest of password and compares it with digest.
func (h *SHA256Hasher) Verify(password, digest string) bool {
	return subtle.ConstantTimeCompare([]byte(Digest(password)), []byte(digest)) == 1
}

// Digest is the SHA-256 digest of password, base64 encoded.
func Digest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// BcryptHasher stores salted bcrypt hashes instead of the plain digest.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func (h *BcryptHasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// New returns the hasher configured by name. An empty name selects SHA-256.
func New(algorithm string, bcryptCost int) (Hasher, error) {
	switch strings.ToLower(strings.TrimSpace(algorithm)) {
	case "", AlgorithmSHA256:
		return NewSHA256Hasher(), nil
	case AlgorithmBcrypt:
		return NewBcryptHasher(bcryptCost), nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", algorithm)
	}
}
