package store

import (
	"strings"
	"sync"

	"github.com/i474232898/city-infos/internal/city"
)

// MemoryStore is a concurrency-safe in-memory recipe store.
// Ids start at 1 and are never reused, even after deletion.
type MemoryStore struct {
	mu sync.RWMutex

	// key: recipe id
	recipes map[int]city.Recipe
	// ids in insertion order; deleted ids are removed
	order  []int
	nextID int
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		recipes: make(map[int]city.Recipe),
		nextID:  1,
	}
}

// Create assigns the next id and stores the recipe. The strings are cloned
// so callers may pass views over reused request buffers.
func (s *MemoryStore) Create(cityID, content string) city.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := city.Recipe{
		ID:      s.nextID,
		Content: strings.Clone(content),
		CityID:  strings.Clone(cityID),
	}
	s.nextID++

	s.recipes[r.ID] = r
	s.order = append(s.order, r.ID)
	return r
}

// ListByCity returns the city's recipes in insertion order.
func (s *MemoryStore) ListByCity(cityID string) []city.Recipe {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []city.Recipe{}
	for _, id := range s.order {
		if r := s.recipes[id]; r.CityID == cityID {
			result = append(result, r)
		}
	}
	return result
}

// Delete removes the recipe only when both id and city match.
func (s *MemoryStore) Delete(cityID string, recipeID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.recipes[recipeID]
	if !ok || r.CityID != cityID {
		return false
	}

	delete(s.recipes, recipeID)
	for i, id := range s.order {
		if id == recipeID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of stored recipes.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recipes)
}
