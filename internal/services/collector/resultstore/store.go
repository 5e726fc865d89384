// Package resultstore keeps feasibility results keyed by query and site
package resultstore

import (
	"slices"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// DefaultShards is the shard count used by New
const DefaultShards = 32

// Store maps (queryID, siteID) to a result
// Entries are never overwritten or removed; reads see every completed Put
type Store struct {
	shards []shard
}

type shard struct {
	mu      sync.RWMutex
	queries map[string]map[string]int
}

// New returns a Store with DefaultShards shards
func New() *Store { return NewSharded(DefaultShards) }

// NewSharded returns a Store with n shards, n < 1 is treated as 1
func NewSharded(n int) *Store {
	if n < 1 {
		n = 1
	}
	s := &Store{shards: make([]shard, n)}
	for i := range s.shards {
		s.shards[i].queries = map[string]map[string]int{}
	}
	return s
}

func (s *Store) shardFor(queryID string) *shard {
	if len(s.shards) == 1 {
		return &s.shards[0]
	}
	h := xxhash.Sum64String(queryID)
	return &s.shards[h%uint64(len(s.shards))]
}

// Put stores result for the pair unless one is already present
// inserted is false when an earlier result was kept
func (s *Store) Put(queryID, siteID string, result int) (inserted bool) {
	sh := s.shardFor(queryID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	sites, ok := sh.queries[queryID]
	if !ok {
		sites = map[string]int{}
		sh.queries[queryID] = sites
	}
	if _, dup := sites[siteID]; dup {
		return false
	}
	sites[siteID] = result
	return true
}

// Get returns the result for the pair
func (s *Store) Get(queryID, siteID string) (int, bool) {
	sh := s.shardFor(queryID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	v, ok := sh.queries[queryID][siteID]
	return v, ok
}

// SiteIDs returns a sorted snapshot of the sites that answered queryID
func (s *Store) SiteIDs(queryID string) []string {
	sh := s.shardFor(queryID)
	sh.mu.RLock()
	sites := sh.queries[queryID]
	out := make([]string, 0, len(sites))
	for id := range sites {
		out = append(out, id)
	}
	sh.mu.RUnlock()

	slices.Sort(out)
	return out
}

// Queries returns a sorted snapshot of every query with at least one result
func (s *Store) Queries() []string {
	var out []string
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		for q := range sh.queries {
			out = append(out, q)
		}
		sh.mu.RUnlock()
	}
	slices.Sort(out)
	return out
}

// Len returns the number of stored pairs
func (s *Store) Len() int {
	n := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		for _, sites := range sh.queries {
			n += len(sites)
		}
		sh.mu.RUnlock()
	}
	return n
}
