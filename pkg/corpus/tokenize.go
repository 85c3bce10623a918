// Package corpus turns raw training text into a lazy stream of lowercase words.
package corpus

import (
	"bufio"
	"io"
	"iter"
	"strings"
)

// MaxWordLen bounds a single letter run; longer runs fail with bufio.ErrTooLong.
const MaxWordLen = 1 << 20

// Words lazily yields every maximal run of a-z in r, lowercased first.
// Anything else, digits and punctuation included, is a separator.
// A read error is yielded once with an empty word and ends the sequence.
func Words(r io.Reader) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 4096), MaxWordLen)
		scanner.Split(ScanLetters)
		for scanner.Scan() {
			if !yield(lower(scanner.Bytes()), nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield("", err)
		}
	}
}

// Text is Words over an in-memory string.
func Text(s string) iter.Seq2[string, error] {
	return Words(strings.NewReader(s))
}

// ScanLetters is a bufio.SplitFunc returning runs of ASCII letters.
func ScanLetters(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) && !isLetter(data[start]) {
		start++
	}
	for i := start; i < len(data); i++ {
		if !isLetter(data[i]) {
			return i + 1, data[start:i], nil
		}
	}
	if atEOF && len(data) > start {
		return len(data), data[start:], nil
	}
	return start, nil, nil
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func lower(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// Concat chains sources one after another.
func Concat(seqs ...iter.Seq2[string, error]) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, seq := range seqs {
			for w, err := range seq {
				if !yield(w, err) {
					return
				}
				if err != nil {
					return
				}
			}
		}
	}
}

// Collect drains seq into a slice; mostly useful in tests and small corpora.
func Collect(seq iter.Seq2[string, error]) ([]string, error) {
	var words []string
	for w, err := range seq {
		if err != nil {
			return words, err
		}
		words = append(words, w)
	}
	return words, nil
}
