package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
)

// ResolveCorpusPaths expands globs and makes relative entries relative to base
// (usually the config file's dir). Duplicates are dropped, order is kept.
// A pattern that matches nothing is an error.
func ResolveCorpusPaths(paths []string, base string) ([]string, error) {
	seen := make(map[string]bool, len(paths))
	var resolved []string

	for _, p := range paths {
		if p == "" {
			continue
		}
		p = expandHome(p)
		if !filepath.IsAbs(p) && base != "" {
			p = filepath.Join(base, p)
		}

		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("bad corpus pattern %q: %w", p, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("corpus %q: %w", p, os.ErrNotExist)
		}
		sort.Strings(matches)

		for _, m := range matches {
			abs := GetAbsolutePath(m)
			if seen[abs] {
				continue
			}
			seen[abs] = true
			resolved = append(resolved, abs)
		}
	}
	log.Debugf("Resolved %d corpus files", len(resolved))
	return resolved, nil
}

func expandHome(p string) string {
	if len(p) < 2 || p[0] != '~' || (p[1] != '/' && p[1] != filepath.Separator) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		return p
	}
	return filepath.Join(home, p[2:])
}
