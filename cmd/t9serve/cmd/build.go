package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/bastiangx/t9serve/internal/utils"
	"github.com/bastiangx/t9serve/pkg/corpus"
	"github.com/bastiangx/t9serve/pkg/predict"
	"github.com/charmbracelet/log"
)

// corpusPaths resolves the corpora named on the command line, falling back to
// [corpus] paths from the config, which are relative to the config file.
func corpusPaths(args []string) ([]string, error) {
	if len(args) > 0 {
		return utils.ResolveCorpusPaths(args, "")
	}

	base := ""
	if configPath != "" {
		base = filepath.Dir(configPath)
	}
	paths, err := utils.ResolveCorpusPaths(appConfig.Corpus.Paths, base)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("pass a corpus file or set [corpus] paths in %s: %w",
			describeConfig(configPath), corpus.ErrNoSources)
	}
	return paths, nil
}

func describeConfig(path string) string {
	if path == "" {
		return "the config file"
	}
	return path
}

// buildPredictor trains a fresh index over paths, one shard per file.
func buildPredictor(ctx context.Context, paths []string) (*predict.Predictor, error) {
	backend, err := predict.ParseBackend(appConfig.Index.Backend)
	if err != nil {
		return nil, err
	}
	shards, err := corpus.Files(paths)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	p := predict.New(backend)
	if err := p.TrainShards(ctx, appConfig.Index.Shards, shards...); err != nil {
		return nil, fmt.Errorf("failed to train index: %w", err)
	}

	stats := p.Stats()
	log.Debug("Index built",
		"files", len(paths),
		"backend", backend,
		"words", utils.FormatWithCommas(stats["words"]),
		"tokens", utils.FormatWithCommas(stats["tokens"]),
		"keys", utils.FormatWithCommas(stats["keys"]),
		"took", time.Since(start).Round(time.Microsecond))
	return p, nil
}
