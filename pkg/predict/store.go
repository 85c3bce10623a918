package predict

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Backend selects how the prefix index is laid out in memory.
type Backend string

const (
	// BackendMap keeps one word set per numeric prefix key.
	BackendMap Backend = "map"
	// BackendTrie keeps one word set per full encoding in a patricia trie;
	// the set for a prefix key is the union over its subtree.
	BackendTrie Backend = "trie"
)

// ParseBackend accepts "map" or "trie", case-insensitively. "" means map.
func ParseBackend(s string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(s))) {
	case "", BackendMap:
		return BackendMap, nil
	case BackendTrie:
		return BackendTrie, nil
	default:
		return "", fmt.Errorf("unknown index backend %q (want %q or %q)", s, BackendMap, BackendTrie)
	}
}

// PrefixStore maps numeric prefix keys to the set of words reaching them.
// Stores only grow. Callers serialize writes.
type PrefixStore interface {
	// Insert indexes word, whose encoding is code, under every prefix of code.
	Insert(word, code string)
	// Visit calls fn once per distinct word under key and
	// reports whether key exists at all.
	Visit(key string, fn func(word string)) bool
	// Has reports whether key exists.
	Has(key string) bool
	// Keys returns the number of distinct prefix keys.
	Keys() int
}

// NewStore returns an empty store for the backend.
func NewStore(b Backend) PrefixStore {
	switch b {
	case BackendTrie:
		return newTrieStore()
	default:
		return newMapStore()
	}
}

type wordSet map[string]struct{}

// mapStore is the direct layout: every prefix key owns its own set.
type mapStore struct {
	sets map[string]wordSet
}

func newMapStore() *mapStore {
	return &mapStore{sets: make(map[string]wordSet)}
}

func (s *mapStore) Insert(word, code string) {
	for i := 1; i <= len(code); i++ {
		key := code[:i]
		set, ok := s.sets[key]
		if !ok {
			set = make(wordSet, 1)
			s.sets[key] = set
		}
		set[word] = struct{}{}
	}
}

func (s *mapStore) Visit(key string, fn func(word string)) bool {
	set, ok := s.sets[key]
	if !ok {
		return false
	}
	for w := range set {
		fn(w)
	}
	return true
}

func (s *mapStore) Has(key string) bool {
	_, ok := s.sets[key]
	return ok
}

func (s *mapStore) Keys() int {
	return len(s.sets)
}

// trieStore shares prefix structure: a word is stored once, at its full code.
type trieStore struct {
	trie *patricia.Trie
	keys int
}

func newTrieStore() *trieStore {
	return &trieStore{trie: patricia.NewTrie()}
}

func (s *trieStore) Insert(word, code string) {
	if code == "" {
		return
	}
	// Count prefixes that are new before the trie learns them.
	for i := len(code); i >= 1; i-- {
		if s.trie.MatchSubtree(patricia.Prefix(code[:i])) {
			break
		}
		s.keys++
	}

	key := patricia.Prefix(code)
	if item := s.trie.Get(key); item != nil {
		item.(wordSet)[word] = struct{}{}
		return
	}
	s.trie.Insert(key, wordSet{word: {}})
}

func (s *trieStore) Visit(key string, fn func(word string)) bool {
	if key == "" {
		return false
	}
	found := false
	err := s.trie.VisitSubtree(patricia.Prefix(key), func(p patricia.Prefix, item patricia.Item) error {
		set, ok := item.(wordSet)
		if !ok {
			log.Errorf("Unknown item type: %T for code %s", item, p)
			return nil
		}
		found = true
		for w := range set {
			fn(w)
		}
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting trie subtree: %v", err)
	}
	return found
}

func (s *trieStore) Has(key string) bool {
	if key == "" {
		return false
	}
	return s.trie.MatchSubtree(patricia.Prefix(key))
}

func (s *trieStore) Keys() int {
	return s.keys
}
