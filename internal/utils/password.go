package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword returns bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
// bcrypt's comparison is constant-time, so it does not leak timing
// information about the stored hash.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// BcryptHasher adapts the bcrypt helpers to the booking.Hasher
// contract.  Cost should come from configuration (BCRYPT_COST).
type BcryptHasher struct {
	Cost int
}

// Hash implements booking.Hasher.
func (h BcryptHasher) Hash(plain string) (string, error) {
	return HashPassword(plain, h.Cost)
}

// Verify implements booking.Hasher.
func (h BcryptHasher) Verify(hash, plain string) bool {
	return VerifyPassword(hash, plain)
}
