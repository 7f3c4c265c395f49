package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinCost     = bcrypt.MinCost
	DefaultCost = bcrypt.DefaultCost
)

// Hash generates a salted bcrypt hash of plaintext.
func Hash(plaintext string, cost int) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// Matches compares plaintext with a bcrypt hash. A mismatch is not an error;
// a malformed hash is.
func Matches(plaintext, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}
