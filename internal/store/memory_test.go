package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAssignsIncreasingIDs(t *testing.T) {
	s := NewMemoryStore()

	a := s.Create("paris", "Pasta with tomato sauce and basil leaves")
	b := s.Create("lyon", "Quenelles with a creamy crayfish sauce")

	assert.Equal(t, 1, a.ID)
	assert.Equal(t, 2, b.ID)
	assert.Equal(t, "paris", a.CityID)
	assert.Equal(t, 2, s.Len())
}

func TestIDsAreNotReusedAfterDelete(t *testing.T) {
	s := NewMemoryStore()

	a := s.Create("paris", "first recipe content")
	require.True(t, s.Delete("paris", a.ID))

	b := s.Create("paris", "second recipe content")
	assert.Equal(t, 2, b.ID)
}

func TestListByCityKeepsInsertionOrder(t *testing.T) {
	s := NewMemoryStore()

	s.Create("paris", "paris recipe one")
	s.Create("lyon", "lyon recipe one")
	s.Create("paris", "paris recipe two")
	s.Create("paris", "paris recipe three")
	require.True(t, s.Delete("paris", 3))

	got := s.ListByCity("paris")
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, 4, got[1].ID)

	empty := s.ListByCity("nowhere")
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestDeleteRequiresMatchingCity(t *testing.T) {
	s := NewMemoryStore()
	r := s.Create("paris", "a recipe for paris")

	tests := []struct {
		name     string
		cityID   string
		recipeID int
	}{
		{"other city", "lyon", r.ID},
		{"unknown id", "paris", 42},
		{"zero id", "paris", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, s.Delete(tt.cityID, tt.recipeID))
			assert.Len(t, s.ListByCity("paris"), 1)
		})
	}
}

func TestConcurrentCreateAndDelete(t *testing.T) {
	s := NewMemoryStore()
	const n = 200

	var wg sync.WaitGroup
	ids := make(chan int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := s.Create("paris", "concurrent recipe body")
			ids <- r.ID
			if r.ID%2 == 0 {
				s.Delete("paris", r.ID)
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int]bool, n)
	for id := range ids {
		assert.False(t, seen[id], "id %d assigned twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
	assert.Equal(t, n/2, s.Len())

	next := s.Create("paris", "after the storm recipe")
	assert.Equal(t, n+1, next.ID)
}
