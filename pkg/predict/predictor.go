package predict

import (
	"fmt"
	"io"
	"iter"
	"sort"
	"sync"

	"github.com/bastiangx/t9serve/pkg/corpus"
	"github.com/bastiangx/t9serve/pkg/keypad"
	"github.com/charmbracelet/log"
)

// Match is a candidate word and how often it was seen in training.
type Match struct {
	Word  string
	Count int
}

// Result splits candidates for a query into words exactly as long as the
// query and longer words the query abbreviates. Both are sorted by Count,
// highest first, ties in lexicographic order.
type Result struct {
	Exact  []Match
	Prefix []Match
}

// Len returns the number of candidates in both buckets.
func (r Result) Len() int {
	return len(r.Exact) + len(r.Prefix)
}

// Limit truncates each bucket to n entries. n <= 0 keeps everything.
func (r Result) Limit(n int) Result {
	if n <= 0 {
		return r
	}
	if len(r.Exact) > n {
		r.Exact = r.Exact[:n]
	}
	if len(r.Prefix) > n {
		r.Prefix = r.Prefix[:n]
	}
	return r
}

// Predictor holds a trained keypad index and the word occurrence counts.
// A zero Predictor is not usable, use New.
type Predictor struct {
	mu       sync.RWMutex
	backend  Backend
	store    PrefixStore
	counts   map[string]int
	tokens   int
	maxCount int
}

// New returns an empty predictor using the given index backend.
func New(backend Backend) *Predictor {
	if backend == "" {
		backend = BackendMap
	}
	return &Predictor{
		backend: backend,
		store:   NewStore(backend),
		counts:  make(map[string]int),
	}
}

// Backend reports the index layout in use.
func (p *Predictor) Backend() Backend {
	return p.backend
}

// Learn indexes word under every prefix of its keypad encoding.
// Counts are not touched; Train is the usual entry point.
func (p *Predictor) Learn(word string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.learn(word)
}

func (p *Predictor) learn(word string) error {
	code, err := keypad.Encode(word)
	if err != nil {
		return fmt.Errorf("learn: %w", err)
	}
	p.store.Insert(word, code)
	return nil
}

// observe counts one token, learning the word the first time it is seen.
func (p *Predictor) observe(word string, n int) error {
	if c, ok := p.counts[word]; ok {
		c += n
		p.counts[word] = c
		p.tokens += n
		if c > p.maxCount {
			p.maxCount = c
		}
		return nil
	}
	if err := p.learn(word); err != nil {
		return err
	}
	p.counts[word] = n
	p.tokens += n
	if n > p.maxCount {
		p.maxCount = n
	}
	return nil
}

// Train consumes words in order. Known words only gain a count, new words
// are learned first. The first source or encoding error stops training and
// is returned; tokens before it stay applied.
func (p *Predictor) Train(words iter.Seq2[string, error]) error {
	n := 0
	for word, err := range words {
		if err != nil {
			return fmt.Errorf("train: corpus after %d tokens: %w", n, err)
		}
		if word == "" {
			continue
		}
		p.mu.Lock()
		err = p.observe(word, 1)
		p.mu.Unlock()
		if err != nil {
			return fmt.Errorf("train: token %d: %w", n, err)
		}
		n++
	}
	log.Debugf("Trained %d tokens", n)
	return nil
}

// TrainReader tokenizes r and trains on it.
func (p *Predictor) TrainReader(r io.Reader) error {
	return p.Train(corpus.Words(r))
}

// Search returns the candidates for numstring. The bool is false when no
// trained word has numstring as an encoding prefix.
func (p *Predictor) Search(numstring string) (Result, bool) {
	if numstring == "" {
		return Result{}, false
	}

	p.mu.RLock()
	var res Result
	found := p.store.Visit(numstring, func(word string) {
		m := Match{Word: word, Count: p.counts[word]}
		if len(word) == len(numstring) {
			res.Exact = append(res.Exact, m)
		} else {
			res.Prefix = append(res.Prefix, m)
		}
	})
	p.mu.RUnlock()

	if !found {
		return Result{}, false
	}
	sortMatches(res.Exact)
	sortMatches(res.Prefix)
	return res, true
}

func sortMatches(matches []Match) {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Count != matches[j].Count {
			return matches[i].Count > matches[j].Count
		}
		return matches[i].Word < matches[j].Word
	})
}

// Count returns how many times word was seen, 0 if never.
func (p *Predictor) Count(word string) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.counts[word]
}

// Has reports whether numstring is an indexed prefix key.
func (p *Predictor) Has(numstring string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.store.Has(numstring)
}

// Counts returns a copy of the occurrence counts.
func (p *Predictor) Counts() map[string]int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	counts := make(map[string]int, len(p.counts))
	for k, v := range p.counts {
		counts[k] = v
	}
	return counts
}

// Merge folds other into p: unknown words are learned with other's count,
// known words add it. other is read under its own lock first, so merging a
// predictor into itself doubles every count.
func (p *Predictor) Merge(other *Predictor) error {
	if other == nil {
		return nil
	}
	counts := other.Counts()

	// Stable order keeps merges reproducible in logs and errors.
	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Strings(words)

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, w := range words {
		if err := p.observe(w, counts[w]); err != nil {
			return fmt.Errorf("merge: %w", err)
		}
	}
	log.Debugf("Merged %d words", len(words))
	return nil
}

// Stats returns basic numbers about the trained index.
func (p *Predictor) Stats() map[string]int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return map[string]int{
		"words":    len(p.counts),
		"tokens":   p.tokens,
		"keys":     p.store.Keys(),
		"maxCount": p.maxCount,
	}
}
