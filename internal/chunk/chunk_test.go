package chunk

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// letters returns n runes cycling through the alphabet, with no separators.
func letters(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(byte('a' + i%26))
	}
	return b.String()
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"zero size", Config{Mode: ModeFixed, Size: 0, Overlap: 0}, ErrInvalidSize},
		{"negative size", Config{Mode: ModeFixed, Size: -5, Overlap: 0}, ErrInvalidSize},
		{"overlap equals size", Config{Mode: ModeFixed, Size: 100, Overlap: 100}, ErrInvalidOverlap},
		{"overlap exceeds size", Config{Mode: ModeRecursive, Size: 100, Overlap: 150}, ErrInvalidOverlap},
		{"negative overlap", Config{Mode: ModeRecursive, Size: 100, Overlap: -1}, ErrInvalidOverlap},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("unknown mode", func(t *testing.T) {
		_, err := New(Config{Mode: "semantic", Size: 100, Overlap: 10})
		require.Error(t, err)
	})

	t.Run("empty mode is recursive", func(t *testing.T) {
		s, err := New(Config{Size: 100, Overlap: 10})
		require.NoError(t, err)
		assert.IsType(t, &Recursive{}, s)
	})
}

func TestFixed_Scenario2500(t *testing.T) {
	text := letters(2500)
	s, err := New(Config{Mode: ModeFixed, Size: 1000, Overlap: 100})
	require.NoError(t, err)

	chunks := s.Split(text)
	require.Len(t, chunks, 3)
	assert.Equal(t, text[0:1000], chunks[0])
	assert.Equal(t, text[900:1900], chunks[1])
	assert.Equal(t, text[1800:2500], chunks[2])
	assert.Len(t, chunks[2], 700)
}

func TestFixed_Empty(t *testing.T) {
	s, err := New(Config{Mode: ModeFixed, Size: 10, Overlap: 2})
	require.NoError(t, err)
	assert.Empty(t, s.Split(""))
}

func TestFixed_Reconstructs(t *testing.T) {
	cases := []struct {
		n, size, overlap int
	}{
		{1, 10, 2},
		{10, 10, 2},
		{11, 10, 2},
		{1900, 1000, 100},
		{2500, 1000, 100},
		{5000, 300, 0},
		{777, 50, 49},
	}
	for _, c := range cases {
		text := letters(c.n)
		s, err := New(Config{Mode: ModeFixed, Size: c.size, Overlap: c.overlap})
		require.NoError(t, err)

		chunks := s.Split(text)
		require.NotEmpty(t, chunks)

		var b strings.Builder
		b.WriteString(chunks[0])
		for _, ch := range chunks[1:] {
			require.Greater(t, len(ch), c.overlap, "tail chunk must extend past the overlap")
			b.WriteString(ch[c.overlap:])
		}
		assert.Equal(t, text, b.String(), "n=%d size=%d overlap=%d", c.n, c.size, c.overlap)

		for _, ch := range chunks {
			assert.LessOrEqual(t, utf8.RuneCountInString(ch), c.size)
		}

		step := c.size - c.overlap
		want := 1
		if c.n > c.size {
			want = (c.n-c.size+step-1)/step + 1
		}
		assert.Len(t, chunks, want, "n=%d size=%d overlap=%d", c.n, c.size, c.overlap)
	}
}

func TestFixed_NoRedundantTail(t *testing.T) {
	// The second window ends exactly at the end of the text; a third window
	// starting at 1800 would be fully contained in the second.
	s, err := New(Config{Mode: ModeFixed, Size: 1000, Overlap: 100})
	require.NoError(t, err)
	assert.Len(t, s.Split(letters(1900)), 2)
}

func TestFixed_CountsRunesNotBytes(t *testing.T) {
	text := strings.Repeat("é", 25)
	s, err := New(Config{Mode: ModeFixed, Size: 10, Overlap: 0})
	require.NoError(t, err)

	chunks := s.Split(text)
	require.Len(t, chunks, 3)
	for _, ch := range chunks {
		assert.True(t, utf8.ValidString(ch))
	}
	assert.Equal(t, 5, utf8.RuneCountInString(chunks[2]))
}

func TestRecursive_Empty(t *testing.T) {
	s, err := New(DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, s.Split(""))
}

func TestRecursive_PrefersParagraphs(t *testing.T) {
	p1 := strings.TrimSpace(strings.Repeat("alpha ", 100))
	p2 := strings.TrimSpace(strings.Repeat("bravo ", 100))
	p3 := strings.TrimSpace(strings.Repeat("delta ", 100))
	text := p1 + "\n\n" + p2 + "\n\n" + p3

	s, err := New(Config{Mode: ModeRecursive, Size: 1000, Overlap: 100})
	require.NoError(t, err)

	assert.Equal(t, []string{p1, p2, p3}, s.Split(text))
}

func TestRecursive_SmallTextSingleChunk(t *testing.T) {
	s, err := New(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, []string{"It remains Day 1."}, s.Split("  It remains Day 1.\n"))
}

func TestRecursive_NoSeparatorsMatchesFixedWindows(t *testing.T) {
	text := letters(2500)
	s, err := New(Config{Mode: ModeRecursive, Size: 1000, Overlap: 100})
	require.NoError(t, err)

	chunks := s.Split(text)
	require.Len(t, chunks, 3)
	assert.Equal(t, text[0:1000], chunks[0])
	assert.Equal(t, text[900:1900], chunks[1])
	assert.Equal(t, text[1800:2500], chunks[2])
}

func TestRecursive_ChunksBoundedAndOrdered(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 60; i++ {
		b.WriteString("Customer obsession is a starting point. ")
		if i%7 == 0 {
			b.WriteString("\n")
		}
		if i%19 == 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(letters(i * 3))
		b.WriteString(" ")
	}
	text := b.String()

	s, err := New(Config{Mode: ModeRecursive, Size: 200, Overlap: 40})
	require.NoError(t, err)

	chunks := s.Split(text)
	require.NotEmpty(t, chunks)

	pos := 0
	for _, ch := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(ch), 200)
		assert.NotEmpty(t, ch)
		idx := strings.Index(text[pos:], ch)
		require.GreaterOrEqual(t, idx, 0, "chunk %q not found in order", ch)
		pos += idx
	}
}

func TestRecursive_OverlapCarriesWords(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("word ", 60)) // 299 runes
	s, err := New(Config{Mode: ModeRecursive, Size: 100, Overlap: 20})
	require.NoError(t, err)

	chunks := s.Split(text)
	require.Greater(t, len(chunks), 2)
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		assert.True(t, strings.HasPrefix(chunks[i], "word"))
		// The start of each chunk repeats the end of the previous one.
		assert.Contains(t, prev, chunks[i][:4])
	}
}

func TestSplitKeep(t *testing.T) {
	assert.Equal(t, []string{"a", "\n\nb", "\n\nc"}, splitKeep("a\n\nb\n\nc", "\n\n"))
	assert.Equal(t, []string{"x", "y", "é"}, splitKeep("xyé", ""))
	assert.Equal(t, []string{". a"}, splitKeep(". a", ". "))
}
