package corpus

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

var (
	ErrNotRegular = errors.New("corpus source is not a regular file")
	ErrEmpty      = errors.New("corpus source is empty")
	ErrNoSources  = errors.New("no corpus sources given")
)

// ValidateSource checks that path points to a readable, non-empty regular file.
func ValidateSource(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat corpus %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s: %w", path, ErrNotRegular)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%s: %w", path, ErrEmpty)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open corpus %s: %w", path, err)
	}
	defer file.Close()

	buffer := make([]byte, 1)
	if _, err := file.Read(buffer); err != nil {
		return fmt.Errorf("failed to read corpus %s: %w", path, err)
	}

	log.Debugf("Corpus %s validated: %d bytes", path, info.Size())
	return nil
}

// FileWords streams the words of a file. The file is opened on first
// iteration and closed when the sequence ends or the consumer stops early.
func FileWords(path string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		file, err := os.Open(path)
		if err != nil {
			yield("", fmt.Errorf("failed to open corpus %s: %w", path, err))
			return
		}
		defer file.Close()

		log.Debugf("Reading corpus %s", filepath.Base(path))
		for w, err := range Words(file) {
			if err != nil {
				yield("", fmt.Errorf("failed to read corpus %s: %w", path, err))
				return
			}
			if !yield(w, nil) {
				return
			}
		}
	}
}

// Files validates every path and returns one word stream per file,
// suitable for sharded training.
func Files(paths []string) ([]iter.Seq2[string, error], error) {
	if len(paths) == 0 {
		return nil, ErrNoSources
	}
	shards := make([]iter.Seq2[string, error], 0, len(paths))
	for _, p := range paths {
		if err := ValidateSource(p); err != nil {
			return nil, err
		}
		shards = append(shards, FileWords(p))
	}
	return shards, nil
}
