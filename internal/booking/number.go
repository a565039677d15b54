package booking

import "crypto/rand"

// numberAlphabet excludes 0/1/I/L/O so numbers survive being read over
// the phone.
const numberAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// numberLength is the random portion after the "R" prefix.  31^10
// values make accidental collisions rare; the engine still detects
// them via the UNIQUE constraint and retries.
const numberLength = 10

// NewNumber generates a reservation number such as "R7KQ2M9XF3B".
// The underlying call to crypto/rand ensures cryptographically secure
// random bytes, so numbers are not guessable from earlier ones.
func NewNumber() (string, error) {
	b := make([]byte, numberLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = numberAlphabet[int(b[i])%len(numberAlphabet)]
	}
	return "R" + string(b), nil
}
