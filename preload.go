package gointl

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultPreloadConcurrency is the number of langpacks read at once when none is given.
const DefaultPreloadConcurrency = 4

// PreloadResult reports which langpacks a Preload read.
type PreloadResult struct {
	// Loaded holds the keys read successfully.
	Loaded []string `json:"loaded"`
	// Missing holds the keys with no langpack in the store.
	Missing []string `json:"missing"`
}

// Preload reads the given langpack keys concurrently so that later lookups hit
// the cache. Absent langpacks are reported in Missing rather than failing the
// run; any other error stops the remaining reads and is returned.
func Preload(ctx context.Context, store DocumentStore, keys []string, concurrency int) (*PreloadResult, error) {
	if concurrency <= 0 {
		concurrency = DefaultPreloadConcurrency
	}

	// Deduplicate keys first
	unique := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		if !seen[key] {
			seen[key] = true
			unique = append(unique, key)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	result := &PreloadResult{}
	var mu sync.Mutex

	for _, key := range unique {
		g.Go(func() error {
			_, err := store.Get(ctx, key, true)
			if err != nil && !IsNotFound(err) {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Missing = append(result.Missing, key)
			} else {
				result.Loaded = append(result.Loaded, key)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Strings(result.Loaded)
	sort.Strings(result.Missing)
	return result, nil
}

// Preload reads every supported language's langpack for the given namespaces.
func (r *Resolver) Preload(ctx context.Context, namespaces []string, concurrency int) (*PreloadResult, error) {
	keys := make([]string, 0, len(namespaces)*(len(r.languages)+1))
	for _, ns := range namespaces {
		keys = append(keys, LangpackKey(ns, r.fallback))
		for _, lang := range r.languages {
			keys = append(keys, LangpackKey(ns, lang))
		}
	}
	return Preload(ctx, r.store, keys, concurrency)
}
