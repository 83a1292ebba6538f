package outfit

import "sync"

// History tracks previously suggested item combinations per wardrobe owner.
// Keys come from ComboKey.
type History interface {
	// Has reports whether the combination was suggested before.
	Has(ownerID uint, key string) bool
	// Add records the combination. Returns false if it was already present.
	Add(ownerID uint, key string) bool
	// Combos lists all recorded combination keys for the owner.
	Combos(ownerID uint) []string
}

type memoryHistory struct {
	mu   sync.Mutex
	seen map[uint]map[string]struct{}
}

// NewMemoryHistory returns an in-process History safe for concurrent use.
func NewMemoryHistory() History {
	return &memoryHistory{seen: map[uint]map[string]struct{}{}}
}

func (h *memoryHistory) Has(ownerID uint, key string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.seen[ownerID][key]
	return ok
}

func (h *memoryHistory) Add(ownerID uint, key string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	combos, ok := h.seen[ownerID]
	if !ok {
		combos = map[string]struct{}{}
		h.seen[ownerID] = combos
	}
	if _, dup := combos[key]; dup {
		return false
	}
	combos[key] = struct{}{}
	return true
}

func (h *memoryHistory) Combos(ownerID uint) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	combos := make([]string, 0, len(h.seen[ownerID]))
	for key := range h.seen[ownerID] {
		combos = append(combos, key)
	}
	return combos
}
