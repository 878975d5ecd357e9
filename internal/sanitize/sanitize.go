package sanitize

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxInputSize is 64 KiB. Birth text is opaque, so the default only
	// bounds memory per request; deployments can tighten it.
	DefaultMaxInputSize = 64 << 10
	// EnvMaxInputSize is the environment variable to override the default
	EnvMaxInputSize = "BAZI_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge    = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8      = errors.New("input contains invalid UTF-8 sequences")
	ErrControlCharacter = errors.New("input contains control characters")
)

// Birth checks a birth identifier before it is hashed.
//
// Unlike a cleaner, it never rewrites the text: the digest and the echoed
// input_birth must be computed over exactly what the caller sent. Inputs that
// would need cleaning are rejected instead. A non-positive limit uses MaxInputSize.
func Birth(input string, limit int) error {
	if limit <= 0 {
		limit = MaxInputSize()
	}
	if len(input) > limit {
		return fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}

	if !utf8.ValidString(input) {
		return ErrInvalidUTF8
	}

	// Tab, newline and carriage return are tolerated; ESC, NUL, BEL etc. are not,
	// which keeps logs and terminals intact.
	for i, r := range input {
		if unicode.IsControl(r) && !isSafeControl(r) {
			return fmt.Errorf("%w: %U at byte %d", ErrControlCharacter, r, i)
		}
	}
	return nil
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}

// MaxInputSize returns the configured limit, honoring EnvMaxInputSize.
func MaxInputSize() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
