package categorize

import (
	"sync"

	"github.com/ledgerline/ledgerline/parser/txn"
)

// Learning store bounds: past the cap, the oldest entries are evicted in
// one batch so eviction stays rare.
const (
	learningCap        = 10_000
	learningEvictBatch = 1_000
)

// LearningStore is a bounded, process-lifetime cache mapping lowercased
// merchant text to the category it was last assigned. Never persisted.
type LearningStore struct {
	mu      sync.Mutex
	entries map[string]txn.Category
	order   []string // insertion order, oldest first
}

// NewLearningStore returns an empty store.
func NewLearningStore() *LearningStore {
	return &LearningStore{entries: map[string]txn.Category{}}
}

// Get looks up the category previously assigned to a merchant.
func (s *LearningStore) Get(merchant string) (txn.Category, bool) {
	key := txn.NormalizeMerchantKey(merchant)
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.entries[key]
	return c, ok
}

// Put records a merchant→category decision, evicting the oldest batch of
// entries once the cap is exceeded.
func (s *LearningStore) Put(merchant string, category txn.Category) {
	key := txn.NormalizeMerchantKey(merchant)
	if key == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists {
		s.order = append(s.order, key)
	}
	s.entries[key] = category

	if len(s.entries) > learningCap {
		evict := learningEvictBatch
		if evict > len(s.order) {
			evict = len(s.order)
		}
		for _, old := range s.order[:evict] {
			delete(s.entries, old)
		}
		s.order = s.order[evict:]
	}
}

// Len returns the number of remembered merchants.
func (s *LearningStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Nearest finds the stored merchant with the highest Jaccard word-overlap
// similarity to the query, subject to the given floor.
func (s *LearningStore) Nearest(merchant string, minSimilarity float64) (txn.Category, float64, bool) {
	queryTokens := txn.Tokens(merchant)
	if len(queryTokens) == 0 {
		return "", 0, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Walk insertion order so equal scores resolve deterministically.
	var bestCategory txn.Category
	bestScore := 0.0
	for _, key := range s.order {
		category, ok := s.entries[key]
		if !ok {
			continue
		}
		score := jaccard(queryTokens, txn.Tokens(key))
		if score > bestScore {
			bestScore = score
			bestCategory = category
		}
	}
	if bestScore < minSimilarity {
		return "", bestScore, false
	}
	return bestCategory, bestScore, true
}

// jaccard computes intersection over union of the two word sets.
func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := map[string]int{}
	for _, t := range a {
		set[t] |= 1
	}
	for _, t := range b {
		set[t] |= 2
	}
	inter, union := 0, 0
	for _, bits := range set {
		union++
		if bits == 3 {
			inter++
		}
	}
	return float64(inter) / float64(union)
}
