// Package chunker splits long text into overlapping windows sized for a
// single model request.
package chunker

const (
	DefaultSize    = 2000
	DefaultOverlap = 200
)

// Split cuts text into windows of at most size runes. Each window after the
// first starts overlap runes before the end of the previous one, so a phrase
// that straddles a boundary appears whole in at least one window.
// Empty input yields no chunks.
func Split(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 10
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := size - overlap
	chunks := make([]string, 0, len(runes)/step+1)
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}

// Join reverses Split for the same overlap.
func Join(chunks []string, overlap int) string {
	if len(chunks) == 0 {
		return ""
	}
	out := []rune(chunks[0])
	for _, c := range chunks[1:] {
		r := []rune(c)
		if overlap < len(r) {
			out = append(out, r[overlap:]...)
		}
	}
	return string(out)
}
