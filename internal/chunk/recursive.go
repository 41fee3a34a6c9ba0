package chunk

import (
	"strings"
	"unicode/utf8"
)

// DefaultSeparators are tried in order: paragraph, line, sentence, word, and
// finally single characters.
var DefaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Recursive splits on the highest-priority separator present in the text and
// only descends to lower-priority separators for pieces that are still too
// large. Small pieces are merged greedily up to size runes, and each new chunk
// starts with at most overlap runes carried over from the previous one.
type Recursive struct {
	size       int
	overlap    int
	separators []string
}

// Split returns whitespace-trimmed, non-empty chunks in document order.
func (r *Recursive) Split(text string) []string {
	if text == "" {
		return nil
	}
	return r.split(text, r.separators)
}

func (r *Recursive) split(text string, separators []string) []string {
	sep := ""
	var rest []string
	for i, s := range separators {
		if s == "" {
			break
		}
		if strings.Contains(text, s) {
			sep = s
			rest = separators[i+1:]
			break
		}
	}

	var out, small []string
	for _, piece := range splitKeep(text, sep) {
		if utf8.RuneCountInString(piece) < r.size {
			small = append(small, piece)
			continue
		}
		if len(small) > 0 {
			out = append(out, r.merge(small)...)
			small = nil
		}
		if len(rest) == 0 {
			out = append(out, piece)
		} else {
			out = append(out, r.split(piece, rest)...)
		}
	}
	if len(small) > 0 {
		out = append(out, r.merge(small)...)
	}
	return out
}

// merge joins consecutive pieces into chunks of at most size runes.
func (r *Recursive) merge(pieces []string) []string {
	var (
		chunks  []string
		current []string
		total   int
	)
	for _, p := range pieces {
		n := utf8.RuneCountInString(p)
		if total+n > r.size && len(current) > 0 {
			if c := strings.TrimSpace(strings.Join(current, "")); c != "" {
				chunks = append(chunks, c)
			}
			for total > r.overlap || (total+n > r.size && total > 0) {
				total -= utf8.RuneCountInString(current[0])
				current = current[1:]
			}
		}
		current = append(current, p)
		total += n
	}
	if c := strings.TrimSpace(strings.Join(current, "")); c != "" {
		chunks = append(chunks, c)
	}
	return chunks
}

// splitKeep splits text on sep and keeps the separator at the start of every
// piece after the first. An empty sep splits into single runes.
func splitKeep(text, sep string) []string {
	if sep == "" {
		pieces := make([]string, 0, utf8.RuneCountInString(text))
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
		return pieces
	}

	parts := strings.Split(text, sep)
	pieces := make([]string, 0, len(parts))
	for i, p := range parts {
		if i > 0 {
			p = sep + p
		}
		if p != "" {
			pieces = append(pieces, p)
		}
	}
	return pieces
}
