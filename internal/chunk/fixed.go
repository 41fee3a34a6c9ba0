package chunk

// Fixed splits text into windows of size runes, each starting size-overlap
// runes after the previous one. Construct it with New.
type Fixed struct {
	size    int
	overlap int
}

// Split returns the windows in order. The last window ends exactly at the end
// of the text; no empty or fully-contained tail window is produced.
func (f *Fixed) Split(text string) []string {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	n := len(runes)
	step := f.size - f.overlap

	chunks := make([]string, 0, n/step+1)
	for start := 0; start < n; start += step {
		end := start + f.size
		if end > n {
			end = n
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == n {
			break
		}
	}
	return chunks
}
