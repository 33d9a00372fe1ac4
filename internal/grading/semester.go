package grading

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// SemesterKeyPrefix is the fixed prefix of semester keys ("gpa1", "gpa2", ...)
const SemesterKeyPrefix = "gpa"

var ErrInvalidSemesterKey = errors.New("invalid semester key")

// SemesterNumber extracts N from a "gpa"+N key. N must be a positive decimal
// integer with no sign or surrounding space.
func SemesterNumber(key string) (int, error) {
	suffix, ok := strings.CutPrefix(key, SemesterKeyPrefix)
	if !ok || suffix == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSemesterKey, key)
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidSemesterKey, key)
		}
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSemesterKey, key)
	}
	return n, nil
}

// Ordinal renders a semester number the way result sheets do: 1st, 2nd, 3rd
// and "Nth" for everything else. Only 1, 2 and 3 are irregular, so 21 is
// "21th".
func Ordinal(n int) string {
	switch n {
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	default:
		return strconv.Itoa(n) + "th"
	}
}

// SemesterLabel returns the ordinal label for a semester key, e.g.
// "gpa2" -> "2nd".
func SemesterLabel(key string) (string, error) {
	n, err := SemesterNumber(key)
	if err != nil {
		return "", err
	}
	return Ordinal(n), nil
}
