// Package chunk splits raw document text into overlapping bounded-length
// segments for embedding. Splitting prefers paragraph, then sentence-ish
// (newline), then word boundaries, and falls back to hard character cuts, so
// chunk length is uniform at the cost of occasionally splitting a word.
package chunk

import (
	"strings"
	"unicode/utf8"
)

// defaultSeparators in decreasing priority. The empty separator means a hard
// character cut.
var defaultSeparators = []string{"\n\n", "\n", " ", ""}

// Split breaks text into trimmed, non-empty chunks of at most size
// characters, with overlap characters of trailing context repeated at the
// start of the next chunk where a clean split point exists.
//
// Constraints: size > 0 and 0 <= overlap < size. Empty or whitespace-only
// input yields an empty result, not an error.
func Split(text string, size, overlap int) []string {
	if size <= 0 || overlap < 0 || overlap >= size {
		return nil
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}

	raw := splitText(text, defaultSeparators, size, overlap)

	chunks := make([]string, 0, len(raw))
	for _, c := range raw {
		c = strings.TrimSpace(c)
		if c != "" {
			chunks = append(chunks, c)
		}
	}
	return chunks
}

// splitText recursively splits text on the highest-priority separator it
// contains, re-merging short pieces up to size with overlap.
func splitText(text string, separators []string, size, overlap int) []string {
	if runeLen(text) <= size {
		return []string{text}
	}

	sep := separators[len(separators)-1]
	var next []string
	for i, s := range separators {
		if s == "" || strings.Contains(text, s) {
			sep = s
			next = separators[i+1:]
			break
		}
	}

	if sep == "" {
		return hardCut(text, size, overlap)
	}

	splits := strings.Split(text, sep)

	var final []string
	var good []string
	for _, s := range splits {
		if runeLen(s) <= size {
			good = append(good, s)
			continue
		}
		// A piece that is still too long: flush what we have and recurse
		// with the lower-priority separators.
		if len(good) > 0 {
			final = append(final, mergeSplits(good, sep, size, overlap)...)
			good = nil
		}
		final = append(final, splitText(s, next, size, overlap)...)
	}
	if len(good) > 0 {
		final = append(final, mergeSplits(good, sep, size, overlap)...)
	}
	return final
}

// mergeSplits greedily joins adjacent pieces into chunks of at most size,
// carrying up to overlap characters of trailing pieces into the next chunk.
func mergeSplits(splits []string, sep string, size, overlap int) []string {
	sepLen := runeLen(sep)

	var docs []string
	var current []string
	total := 0

	joinedLen := func(n, extra int) int {
		l := total + extra
		if n > 0 {
			l += sepLen
		}
		return l
	}

	for _, d := range splits {
		dLen := runeLen(d)
		if joinedLen(len(current), dLen) > size && len(current) > 0 {
			docs = append(docs, strings.Join(current, sep))
			// Drop from the front until only the overlap remains and the
			// incoming piece fits.
			for total > overlap || (joinedLen(len(current), dLen) > size && total > 0) {
				total -= runeLen(current[0])
				if len(current) > 1 {
					total -= sepLen
				}
				current = current[1:]
			}
		}
		if len(current) > 0 {
			total += sepLen
		}
		current = append(current, d)
		total += dLen
	}
	if len(current) > 0 {
		docs = append(docs, strings.Join(current, sep))
	}
	return docs
}

// runeLen counts characters, not bytes. All length accounting in this
// package is in runes so multi-byte text gets the same chunk budget.
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// hardCut slices text into size-length windows advancing by size-overlap.
// Operates on runes so a multi-byte character is never torn apart.
func hardCut(text string, size, overlap int) []string {
	runes := []rune(text)
	step := size - overlap

	var out []string
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end >= len(runes) {
			out = append(out, string(runes[start:]))
			break
		}
		out = append(out, string(runes[start:end]))
	}
	return out
}
