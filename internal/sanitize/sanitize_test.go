package sanitize

import (
	"errors"
	"strings"
	"testing"
)

func TestBirth_SizeLimit(t *testing.T) {
	limit := 64

	tests := []struct {
		name      string
		inputSize int
		wantErr   bool
	}{
		{"Under Limit", limit - 1, false},
		{"Exact Limit", limit, false},
		{"Over Limit", limit + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := strings.Repeat("a", tt.inputSize)
			err := Birth(input, limit)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Birth() expected error for size %d, got nil", tt.inputSize)
				}
			} else {
				if err != nil {
					t.Errorf("Birth() unexpected error: %v", err)
				}
			}
		})
	}
}

func TestBirth_Characters(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"ISO Date", "1990-05-15T08:30:00+08:00", nil},
		{"Chinese Date", "一九九〇年五月十五日辰时", nil},
		{"Safe Controls", "1990-05-15\t08:30\n", nil},
		{"ANSI Code", "\x1b[31m1990", ErrControlCharacter},
		{"Null Byte", "1990\x00", ErrControlCharacter},
		{"Bell", "1990\x07", ErrControlCharacter},
		{"Invalid UTF8", "1990\xff", ErrInvalidUTF8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Birth(tt.input, 0)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Birth(%q) unexpected error: %v", tt.input, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Birth(%q) = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestMaxInputSize_Env(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "10")
	if got := MaxInputSize(); got != 10 {
		t.Errorf("MaxInputSize() = %d, want 10", got)
	}
	if err := Birth(strings.Repeat("x", 11), 0); !errors.Is(err, ErrInputTooLarge) {
		t.Errorf("expected ErrInputTooLarge, got %v", err)
	}

	t.Setenv(EnvMaxInputSize, "junk")
	if got := MaxInputSize(); got != DefaultMaxInputSize {
		t.Errorf("MaxInputSize() = %d, want default", got)
	}
}

func TestBirth_DefaultLimitAcceptsLongIdentifiers(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "")
	for _, size := range []int{257, 4096} {
		if err := Birth(strings.Repeat("a", size), 0); err != nil {
			t.Errorf("Birth() rejected %d-byte identifier under the default limit: %v", size, err)
		}
	}
	if err := Birth(strings.Repeat("a", DefaultMaxInputSize+1), 0); !errors.Is(err, ErrInputTooLarge) {
		t.Errorf("expected ErrInputTooLarge above the default limit, got %v", err)
	}
}
