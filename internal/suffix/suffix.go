package suffix

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// PoolSize is the number of suffixes in the pool.
const PoolSize = 100

var (
	// ErrInvalidSuffix is returned for anything other than exactly two ASCII digits.
	ErrInvalidSuffix = errors.New("invalid suffix")

	// ErrAlreadyTaken is returned when taking a slot that is already in use.
	ErrAlreadyTaken = errors.New("suffix already taken")

	// ErrPoolExhausted is returned when all 100 slots are in use.
	ErrPoolExhausted = errors.New("no free suffix left")

	// ErrCorruptState is returned when the state document cannot be parsed
	// or lacks the suffix map.
	ErrCorruptState = errors.New("corrupt suffix state")
)

var suffixPattern = regexp.MustCompile(`^[0-9]{2}$`)

// Validate checks that s is exactly two ASCII digits.
func Validate(s string) error {
	if !suffixPattern.MatchString(s) {
		return fmt.Errorf("%w: %q", ErrInvalidSuffix, s)
	}
	return nil
}

// Format renders n as a zero-padded suffix.
func Format(n int) string {
	return fmt.Sprintf("%02d", n)
}

// Number returns the integer value of a valid suffix, without leading zeros.
func Number(s string) (int, error) {
	if err := Validate(s); err != nil {
		return 0, err
	}
	return strconv.Atoi(s)
}

// All returns every suffix in the pool in ascending order.
func All() []string {
	out := make([]string, PoolSize)
	for i := range out {
		out[i] = Format(i)
	}
	return out
}
