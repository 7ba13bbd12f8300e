package indexer

import "strings"

// splitter divides text into chunks of roughly chunkSize runes with
// chunkOverlap runes of trailing context carried into the next chunk. It
// prefers splitting on paragraph breaks, then line breaks, then spaces, and
// falls back to a hard rune split for unbroken runs.
type splitter struct {
	chunkSize    int
	chunkOverlap int
}

var splitSeparators = []string{"\n\n", "\n", " ", ""}

func newSplitter(chunkSize, chunkOverlap int) *splitter {
	return &splitter{chunkSize: chunkSize, chunkOverlap: chunkOverlap}
}

// Split returns the chunked text. Empty fragments are dropped.
func (s *splitter) Split(text string) []string {
	return s.split(text, splitSeparators)
}

func (s *splitter) split(text string, separators []string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if len([]rune(text)) <= s.chunkSize {
		return []string{strings.TrimSpace(text)}
	}

	separator := separators[len(separators)-1]
	remaining := separators
	for i, sep := range separators {
		if sep == "" || strings.Contains(text, sep) {
			separator = sep
			remaining = separators[i+1:]
			break
		}
	}

	var fragments []string
	if separator == "" {
		fragments = splitRunes(text, s.chunkSize)
	} else {
		for _, part := range strings.Split(text, separator) {
			if len([]rune(part)) > s.chunkSize && len(remaining) > 0 {
				fragments = append(fragments, s.split(part, remaining)...)
			} else if strings.TrimSpace(part) != "" {
				fragments = append(fragments, part)
			}
		}
	}

	return s.merge(fragments, separator)
}

// merge packs fragments back together into chunks close to chunkSize,
// re-seeding each new chunk with the overlap tail of the previous one.
func (s *splitter) merge(fragments []string, separator string) []string {
	var chunks []string
	var current []string
	currentLen := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunk := strings.TrimSpace(strings.Join(current, separator))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}

	for _, fragment := range fragments {
		fragLen := len([]rune(fragment))

		if currentLen+fragLen+len(separator) > s.chunkSize && currentLen > 0 {
			flush()

			// Drop leading fragments until the retained tail fits the
			// overlap window.
			for currentLen > s.chunkOverlap && len(current) > 0 {
				currentLen -= len([]rune(current[0])) + len(separator)
				current = current[1:]
			}
		}

		current = append(current, fragment)
		currentLen += fragLen + len(separator)
	}
	flush()

	return chunks
}

// splitRunes hard-splits text into size-rune pieces.
func splitRunes(text string, size int) []string {
	runes := []rune(text)
	var parts []string
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		parts = append(parts, string(runes[start:end]))
	}
	return parts
}
