// Package chunk splits document text into overlapping, size-bounded chunks.
//
// Sizes and overlaps are measured in runes, not bytes, so a chunk boundary
// never falls inside a multi-byte character.
package chunk

import (
	"errors"
	"fmt"
)

// DefaultSize is the default maximum number of runes per chunk.
const DefaultSize = 1000

// DefaultOverlap is the default number of runes shared by adjacent chunks.
const DefaultOverlap = 100

// Mode selects the splitting algorithm.
type Mode string

const (
	// ModeFixed cuts the text into fixed-size windows.
	ModeFixed Mode = "fixed"
	// ModeRecursive prefers paragraph, line, sentence and word boundaries
	// before falling back to raw character windows.
	ModeRecursive Mode = "recursive"
)

var (
	// ErrInvalidSize is returned when the chunk size is not positive.
	ErrInvalidSize = errors.New("chunk size must be positive")
	// ErrInvalidOverlap is returned when the overlap is negative or does not
	// leave room for the window to advance.
	ErrInvalidOverlap = errors.New("chunk overlap must be >= 0 and smaller than chunk size")
)

// Splitter turns text into an ordered sequence of chunks.
type Splitter interface {
	Split(text string) []string
}

// Config holds splitter parameters.
type Config struct {
	Mode    Mode
	Size    int
	Overlap int
}

// DefaultConfig returns the recursive splitter with 1000/100 runes.
func DefaultConfig() Config {
	return Config{Mode: ModeRecursive, Size: DefaultSize, Overlap: DefaultOverlap}
}

// Validate reports whether cfg describes a splitter that always advances.
func (cfg Config) Validate() error {
	if cfg.Size <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidSize, cfg.Size)
	}
	if cfg.Overlap < 0 || cfg.Overlap >= cfg.Size {
		return fmt.Errorf("%w: overlap %d, size %d", ErrInvalidOverlap, cfg.Overlap, cfg.Size)
	}
	switch cfg.Mode {
	case ModeFixed, ModeRecursive, "":
		return nil
	default:
		return fmt.Errorf("unknown chunk mode %q", cfg.Mode)
	}
}

// New returns a Splitter for cfg. An empty Mode means ModeRecursive.
func New(cfg Config) (Splitter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Mode == ModeFixed {
		return &Fixed{size: cfg.Size, overlap: cfg.Overlap}, nil
	}
	return &Recursive{size: cfg.Size, overlap: cfg.Overlap, separators: DefaultSeparators}, nil
}
