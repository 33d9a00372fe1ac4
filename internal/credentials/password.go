// Package credentials generates secrets for accounts created at startup
package credentials

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// DefaultPasswordLength is used when no length is given
const DefaultPasswordLength = 16

// ambiguous characters (0/O, 1/l/I) are left out so a password read from a
// log line can be typed back
const passwordChars = "abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GeneratePassword returns a random password of length characters
func GeneratePassword(length int) (string, error) {
	if length <= 0 {
		length = DefaultPasswordLength
	}

	password := make([]byte, length)
	for i := range password {
		c, err := randomChar(passwordChars)
		if err != nil {
			return "", fmt.Errorf("generate password: %w", err)
		}
		password[i] = c
	}
	return string(password), nil
}

func randomChar(chars string) (byte, error) {
	num, err := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
	if err != nil {
		return 0, err
	}
	return chars[num.Int64()], nil
}
