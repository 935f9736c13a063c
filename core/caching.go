package core

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/blqdash/internal/contract"
	"github.com/huangsam/blqdash/schema"
)

// currentCacheVersion defines the version of the cached figure schema
const currentCacheVersion = 1

// cachedCompute returns the output from the figure store when possible and
// computes and stores it otherwise. The boolean reports a cache hit.
func cachedCompute(ds *schema.Dataset, sel schema.Selection, name schema.OutputName, store contract.CacheStore) (schema.OutputResult, bool, error) {
	if store == nil {
		// Fallback to direct computation
		result, err := Compute(ds, sel, name)
		return result, false, err
	}

	key := generateCacheKey(ds, sel, name)

	if result := checkCacheHit(store, key); result != nil {
		return *result, true, nil
	}

	result, err := computeAndStore(ds, sel, name, store, key)
	return result, false, err
}

// checkCacheHit attempts to retrieve and validate a cached result
func checkCacheHit(store contract.CacheStore, key string) *schema.OutputResult {
	data, version, _, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	if version != currentCacheVersion {
		return nil // Version mismatch
	}

	var result schema.OutputResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil
	}
	return &result
}

// computeAndStore computes the result and stores it in cache
func computeAndStore(ds *schema.Dataset, sel schema.Selection, name schema.OutputName, store contract.CacheStore, key string) (schema.OutputResult, error) {
	result, err := Compute(ds, sel, name)
	if err != nil {
		return result, err
	}

	if data, err := json.Marshal(result); err == nil {
		if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
			contract.LogWarn("Figure cache write failed", err)
		}
	}
	return result, nil
}

// generateCacheKey creates a unique key from the dataset hash, the output and the selection
func generateCacheKey(ds *schema.Dataset, sel schema.Selection, name schema.OutputName) string {
	key := fmt.Sprintf("%s:%s:%s", ds.Hash, name, sel.Key())
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
