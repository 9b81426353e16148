// Package memory implements the repository interfaces on plain maps with a
// per-product mutex. It backs the test suite and the standalone deployment
// mode where no Postgres instance exists.
package memory

import (
	"sync"
	"time"

	"estoque-api/internal/model"

	"github.com/google/uuid"
)

// Store is the shared state behind the memory repositories. One Store plays
// the role of the database handle: open it once, hand it to both repos.
type Store struct {
	mu       sync.RWMutex
	products map[uuid.UUID]*model.Product
	entries  []*model.Transaction
	locks    map[uuid.UUID]*sync.Mutex
}

func New() *Store {
	return &Store{
		products: make(map[uuid.UUID]*model.Product),
		locks:    make(map[uuid.UUID]*sync.Mutex),
	}
}

// lockFor returns the serialization mutex for one product. The mutex
// outlives the product so a racing apply resolves to not found instead of
// waiting on a vanished row.
func (s *Store) lockFor(id uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

func stamp(base *model.BaseModel) {
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	now := time.Now()
	if base.CreatedAt.IsZero() {
		base.CreatedAt = now
	}
	if base.UpdatedAt.IsZero() {
		base.UpdatedAt = now
	}
}

func (s *Store) codeTaken(code string, except uuid.UUID) bool {
	for id, p := range s.products {
		if id != except && p.Code != nil && *p.Code == code {
			return true
		}
	}
	return false
}
