//go:build test

package predict_test

import (
	"context"
	"fmt"
	"iter"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/bastiangx/t9serve/pkg/corpus"
	"github.com/bastiangx/t9serve/pkg/predict"
	"github.com/charmbracelet/log"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

var leakCorpus = strings.Repeat(
	"hello world program there computer international development "+
		"the cat sat on the mat act bat be bed good gone home hood ", 200)

var digitPatterns = [][]string{
	{"4", "43", "435", "4355", "43556"},
	{"9", "96", "967", "9675", "96753"},
	{"7", "77", "776", "7764", "77647", "776472", "7764726"},
	{"2", "22", "228"},
	{"4", "46", "466", "4663"},
	{"4", "46", "468", "4683", "46837", "468378", "4683784", "46837846", "468378464"},
}

func leakPredictor(t *testing.T, backend predict.Backend) *predict.Predictor {
	t.Helper()
	p := predict.New(backend)
	if err := p.Train(corpus.Text(leakCorpus)); err != nil {
		t.Fatalf("training failed: %v", err)
	}
	return p
}

func heap() (uint64, int) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	return m.HeapAlloc, runtime.NumGoroutine()
}

func TestMemoryLeakSearch(t *testing.T) {
	for _, backend := range []predict.Backend{predict.BackendMap, predict.BackendTrie} {
		for _, iterations := range []int{100, 1000, 5000} {
			t.Run(fmt.Sprintf("%s_iterations_%d", backend, iterations), func(t *testing.T) {
				p := leakPredictor(t, backend)
				baseAlloc, baseGoroutines := heap()

				ops := 0
				for i := 0; i < iterations; i++ {
					for _, pattern := range digitPatterns {
						for _, q := range pattern {
							res, _ := p.Search(q)
							_ = res.Limit(10)
							ops++
						}
					}
				}

				alloc, goroutines := heap()
				memPerOp := float64(int64(alloc)-int64(baseAlloc)) / float64(ops)
				t.Logf("ops=%d mem_per_op=%.2f goroutine_delta=%d", ops, memPerOp, goroutines-baseGoroutines)

				if memPerOp > 1000 {
					t.Errorf("retained memory per search: %.2f bytes", memPerOp)
				}
				if goroutines-baseGoroutines > 2 {
					t.Errorf("goroutine leak detected: %d goroutines leaked", goroutines-baseGoroutines)
				}
			})
		}
	}
}

func TestMemoryLeakConcurrent(t *testing.T) {
	configs := []struct {
		workers             int
		iterationsPerWorker int
	}{
		{workers: 1, iterationsPerWorker: 1000},
		{workers: 4, iterationsPerWorker: 250},
		{workers: 8, iterationsPerWorker: 125},
	}

	for _, cfg := range configs {
		t.Run(fmt.Sprintf("workers_%d_iter_%d", cfg.workers, cfg.iterationsPerWorker), func(t *testing.T) {
			p := leakPredictor(t, predict.BackendTrie)
			baseAlloc, baseGoroutines := heap()

			var wg sync.WaitGroup
			var ops atomic.Int64
			for w := 0; w < cfg.workers; w++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < cfg.iterationsPerWorker; i++ {
						for _, pattern := range digitPatterns {
							for _, q := range pattern {
								p.Search(q)
								ops.Add(1)
							}
						}
					}
				}()
			}
			wg.Wait()

			alloc, goroutines := heap()
			memPerOp := float64(int64(alloc)-int64(baseAlloc)) / float64(ops.Load())
			t.Logf("ops=%d mem_per_op=%.2f goroutine_delta=%d", ops.Load(), memPerOp, goroutines-baseGoroutines)

			if memPerOp > 1000 {
				t.Errorf("retained memory per search: %.2f bytes", memPerOp)
			}
			if goroutines-baseGoroutines > 2 {
				t.Errorf("goroutine leak detected: %d goroutines leaked", goroutines-baseGoroutines)
			}
		})
	}
}

func TestShardedTrainingLeavesNoGoroutines(t *testing.T) {
	_, baseGoroutines := heap()
	for cycle := 0; cycle < 20; cycle++ {
		p := predict.New(predict.BackendMap)
		shards := []iter.Seq2[string, error]{
			corpus.Text(leakCorpus), corpus.Text(leakCorpus), corpus.Text(leakCorpus),
		}
		if err := p.TrainShards(context.Background(), 2, shards...); err != nil {
			t.Fatalf("cycle %d: %v", cycle, err)
		}
	}
	_, goroutines := heap()
	if goroutines-baseGoroutines > 2 {
		t.Errorf("goroutine leak detected: %d goroutines leaked", goroutines-baseGoroutines)
	}
}
