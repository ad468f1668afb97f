package store

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/AngelCh415/admira-dashboard/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

// MemoryStore guarda las conversaciones del chat en memoria del proceso.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]models.Message
	seen     map[string]struct{} // idempotencia por id de mensaje
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string][]models.Message),
		seen:     make(map[string]struct{}),
	}
}

func (s *MemoryStore) CreateSession() string {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = []models.Message{}
	return id
}

// Append agrega m a la sesión. Devuelve false si el id ya estaba guardado.
func (s *MemoryStore) Append(session string, m models.Message) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs, ok := s.sessions[session]
	if !ok {
		return false, ErrSessionNotFound
	}
	if m.ID != "" {
		if _, dup := s.seen[m.ID]; dup {
			return false, nil
		}
		s.seen[m.ID] = struct{}{}
	}
	s.sessions[session] = append(msgs, m)
	return true, nil
}

// Messages devuelve una copia, en orden de llegada.
func (s *MemoryStore) Messages(session string) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs, ok := s.sessions[session]
	if !ok {
		return nil, ErrSessionNotFound
	}
	out := make([]models.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}
