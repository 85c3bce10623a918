package predict

import (
	"context"
	"errors"
	"iter"
	"strings"
	"sync"
	"testing"

	"github.com/bastiangx/t9serve/pkg/corpus"
	"github.com/bastiangx/t9serve/pkg/keypad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var backends = []Backend{BackendMap, BackendTrie}

const sampleCorpus = `The quick brown fox jumps over the lazy dog. The dog sleeps,
the fox runs! Be bed bee beef, act bat cat cat act. Good home gone hood.`

func trained(t *testing.T, b Backend, text string) *Predictor {
	t.Helper()
	p := New(b)
	require.NoError(t, p.Train(corpus.Text(text)))
	return p
}

func words(ms []Match) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Word
	}
	return out
}

func TestEndToEndCat(t *testing.T) {
	for _, b := range backends {
		t.Run(string(b), func(t *testing.T) {
			p := trained(t, b, "the cat sat on the mat cat cat")
			res, ok := p.Search("228")
			require.True(t, ok)
			assert.Equal(t, []Match{{Word: "cat", Count: 3}}, res.Exact)
			assert.Empty(t, res.Prefix)
		})
	}
}

func TestEndToEndPrefix(t *testing.T) {
	for _, b := range backends {
		t.Run(string(b), func(t *testing.T) {
			p := trained(t, b, "be bed bed")
			code, err := keypad.Encode("be")
			require.NoError(t, err)

			res, ok := p.Search(code)
			require.True(t, ok)
			assert.Equal(t, []Match{{Word: "be", Count: 1}}, res.Exact)
			assert.Equal(t, []Match{{Word: "bed", Count: 2}}, res.Prefix)
		})
	}
}

func TestOccurrenceCounts(t *testing.T) {
	for _, b := range backends {
		t.Run(string(b), func(t *testing.T) {
			p := trained(t, b, "cat cat dog")
			assert.Equal(t, 2, p.Count("cat"))
			assert.Equal(t, 1, p.Count("dog"))
			assert.Equal(t, 0, p.Count("cow"))

			stats := p.Stats()
			assert.Equal(t, 2, stats["words"])
			assert.Equal(t, 3, stats["tokens"])
			assert.Equal(t, 2, stats["maxCount"])
		})
	}
}

func TestEveryPrefixFindsWord(t *testing.T) {
	for _, b := range backends {
		t.Run(string(b), func(t *testing.T) {
			p := trained(t, b, sampleCorpus)
			for w := range p.Counts() {
				code, err := keypad.Encode(w)
				require.NoError(t, err)
				for i := 1; i <= len(code); i++ {
					res, ok := p.Search(code[:i])
					require.True(t, ok, "%s[:%d]", w, i)
					if i == len(w) {
						assert.Contains(t, words(res.Exact), w)
						assert.NotContains(t, words(res.Prefix), w)
					} else {
						assert.Contains(t, words(res.Prefix), w)
						assert.NotContains(t, words(res.Exact), w)
					}
				}
			}
		})
	}
}

func TestPartitionAndRanking(t *testing.T) {
	for _, b := range backends {
		t.Run(string(b), func(t *testing.T) {
			p := trained(t, b, sampleCorpus)
			for _, q := range []string{"2", "22", "228", "23", "233", "4", "46", "466", "8", "843"} {
				res, ok := p.Search(q)
				if !ok {
					continue
				}
				for _, m := range append(append([]Match{}, res.Exact...), res.Prefix...) {
					code, err := keypad.Encode(m.Word)
					require.NoError(t, err)
					assert.True(t, strings.HasPrefix(code, q), "%s does not start with %s", code, q)
					assert.Equal(t, p.Count(m.Word), m.Count)
				}
				for _, m := range res.Exact {
					assert.Len(t, m.Word, len(q))
				}
				for _, m := range res.Prefix {
					assert.Greater(t, len(m.Word), len(q))
				}
				for _, bucket := range [][]Match{res.Exact, res.Prefix} {
					for i := 1; i < len(bucket); i++ {
						assert.GreaterOrEqual(t, bucket[i-1].Count, bucket[i].Count)
					}
				}
			}
		})
	}
}

func TestTieBreakIsLexicographic(t *testing.T) {
	for _, b := range backends {
		t.Run(string(b), func(t *testing.T) {
			// act, bat and cat share 228; act and cat both seen twice.
			p := trained(t, b, "cat act bat act cat")
			res, ok := p.Search("228")
			require.True(t, ok)
			assert.Equal(t, []Match{
				{Word: "act", Count: 2},
				{Word: "cat", Count: 2},
				{Word: "bat", Count: 1},
			}, res.Exact)

			// good, home, gone, hood all encode to 4663
			p = trained(t, b, "home gone good hood good")
			res, ok = p.Search("4663")
			require.True(t, ok)
			assert.Equal(t, []string{"good", "gone", "home", "hood"}, words(res.Exact))
		})
	}
}

func TestSearchNotFound(t *testing.T) {
	for _, b := range backends {
		t.Run(string(b), func(t *testing.T) {
			p := trained(t, b, "the cat sat")
			for _, q := range []string{"", "9", "2289", "0", "1", "abc"} {
				res, ok := p.Search(q)
				assert.False(t, ok, q)
				assert.Zero(t, res.Len(), q)
				assert.False(t, p.Has(q), q)
			}

			_, ok := New(b).Search("2")
			assert.False(t, ok)
		})
	}
}

func TestTrainTwiceKeepsIndexDoublesCounts(t *testing.T) {
	for _, b := range backends {
		t.Run(string(b), func(t *testing.T) {
			once := trained(t, b, sampleCorpus)
			twice := trained(t, b, sampleCorpus)
			require.NoError(t, twice.Train(corpus.Text(sampleCorpus)))

			assert.Equal(t, once.Stats()["keys"], twice.Stats()["keys"])
			assert.Equal(t, once.Stats()["words"], twice.Stats()["words"])
			for w, c := range once.Counts() {
				assert.Equal(t, 2*c, twice.Count(w), w)
			}
			for _, q := range []string{"2", "23", "3", "4663"} {
				r1, ok1 := once.Search(q)
				r2, ok2 := twice.Search(q)
				assert.Equal(t, ok1, ok2)
				assert.Equal(t, words(r1.Exact), words(r2.Exact))
				assert.Equal(t, words(r1.Prefix), words(r2.Prefix))
			}
		})
	}
}

func TestLearnIsIdempotentAndLeavesCounts(t *testing.T) {
	for _, b := range backends {
		t.Run(string(b), func(t *testing.T) {
			p := New(b)
			require.NoError(t, p.Learn("bed"))
			require.NoError(t, p.Learn("bed"))
			assert.Equal(t, 3, p.Stats()["keys"])
			assert.Equal(t, 0, p.Count("bed"))

			res, ok := p.Search("23")
			require.True(t, ok)
			assert.Equal(t, []Match{{Word: "bed", Count: 0}}, res.Prefix)
		})
	}
}

func TestKeysMatchBetweenBackends(t *testing.T) {
	m := trained(t, BackendMap, sampleCorpus)
	tr := trained(t, BackendTrie, sampleCorpus)
	assert.Equal(t, m.Stats(), tr.Stats())
}

func TestTrainInvalidCharacterAborts(t *testing.T) {
	seq := func(yield func(string, error) bool) {
		for _, w := range []string{"cat", "c4t", "dog"} {
			if !yield(w, nil) {
				return
			}
		}
	}
	p := New(BackendMap)
	err := p.Train(seq)
	require.Error(t, err)
	assert.ErrorIs(t, err, keypad.ErrInvalidCharacter)
	assert.Equal(t, 1, p.Count("cat"))
	assert.Equal(t, 0, p.Count("c4t"))
	assert.Equal(t, 0, p.Count("dog"))
	assert.False(t, p.Has("3"))
}

func TestTrainSourceError(t *testing.T) {
	boom := errors.New("disk on fire")
	seq := func(yield func(string, error) bool) {
		if !yield("cat", nil) {
			return
		}
		yield("", boom)
	}
	p := New(BackendTrie)
	err := p.Train(seq)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, p.Count("cat"))
}

func TestTrainReader(t *testing.T) {
	p := New(BackendMap)
	require.NoError(t, p.TrainReader(strings.NewReader("Cat, CAT; cat!")))
	assert.Equal(t, 3, p.Count("cat"))
}

func TestMerge(t *testing.T) {
	for _, b := range backends {
		t.Run(string(b), func(t *testing.T) {
			left := trained(t, b, "cat cat dog")
			right := trained(t, b, "dog bed be")
			require.NoError(t, left.Merge(right))

			whole := trained(t, b, "cat cat dog dog bed be")
			assert.Equal(t, whole.Counts(), left.Counts())
			assert.Equal(t, whole.Stats(), left.Stats())

			require.NoError(t, left.Merge(left))
			assert.Equal(t, 4, left.Count("cat"))
			require.NoError(t, left.Merge(nil))
		})
	}
}

func TestTrainShards(t *testing.T) {
	parts := []string{
		"the cat sat on the mat",
		"cat cat be bed",
		"The quick brown fox",
		"",
	}
	for _, b := range backends {
		t.Run(string(b), func(t *testing.T) {
			shards := make([]iter.Seq2[string, error], len(parts))
			for i, s := range parts {
				shards[i] = corpus.Text(s)
			}
			p := New(b)
			require.NoError(t, p.TrainShards(context.Background(), 2, shards...))

			whole := trained(t, b, strings.Join(parts, " "))
			assert.Equal(t, whole.Counts(), p.Counts())
			assert.Equal(t, whole.Stats(), p.Stats())

			res, ok := p.Search("228")
			require.True(t, ok)
			assert.Equal(t, []Match{{Word: "cat", Count: 3}}, res.Exact)
		})
	}
}

func TestTrainShardsFailureMergesNothing(t *testing.T) {
	bad := func(yield func(string, error) bool) {
		yield("Bad", nil)
	}
	p := New(BackendMap)
	err := p.TrainShards(context.Background(), 0, corpus.Text("cat dog"), bad)
	assert.ErrorIs(t, err, keypad.ErrInvalidCharacter)
	assert.Zero(t, p.Stats()["words"])
}

func TestTrainShardsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := New(BackendMap)
	err := p.TrainShards(ctx, 1, corpus.Text("cat dog"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, p.Stats()["words"])
}

func TestConcurrentSearchDuringTrain(t *testing.T) {
	p := trained(t, BackendMap, "cat")
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			assert.NoError(t, p.Train(corpus.Text("cat act bat bed be")))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			res, ok := p.Search("228")
			assert.True(t, ok)
			assert.NotEmpty(t, res.Exact)
		}
	}()
	wg.Wait()
	assert.Equal(t, 201, p.Count("cat"))
}

func TestResultLimit(t *testing.T) {
	r := Result{
		Exact:  []Match{{"a", 3}, {"b", 2}, {"c", 1}},
		Prefix: []Match{{"dd", 1}},
	}
	l := r.Limit(2)
	assert.Len(t, l.Exact, 2)
	assert.Len(t, l.Prefix, 1)
	assert.Equal(t, r, r.Limit(0))
	assert.Equal(t, 4, r.Len())
}

func TestParseBackend(t *testing.T) {
	for in, want := range map[string]Backend{"": BackendMap, "map": BackendMap, "TRIE": BackendTrie, " trie ": BackendTrie} {
		got, err := ParseBackend(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseBackend("btree")
	assert.Error(t, err)
	assert.Equal(t, BackendMap, New("").Backend())
}
