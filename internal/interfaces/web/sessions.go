package web

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type session struct {
	page     *Page
	lastSeen time.Time
}

// Sessions registro de páginas por cookie de sesión. Cada navegador tiene su propio buffer
// de resultados; las sesiones inactivas más de ttl se eliminan con Sweep.
type Sessions struct {
	mu      sync.Mutex
	items   map[string]*session
	newPage func() *Page
	ttl     time.Duration
	now     func() time.Time
}

// NewSessions construye el registro. newPage crea la página de una sesión nueva.
func NewSessions(newPage func() *Page, ttl time.Duration) *Sessions {
	return &Sessions{items: map[string]*session{}, newPage: newPage, ttl: ttl, now: time.Now}
}

// Get devuelve la página de id; si id no existe crea una sesión con un id nuevo.
func (s *Sessions) Get(id string) (string, *Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.items[id]; ok && id != "" {
		sess.lastSeen = s.now()
		return id, sess.page
	}
	id = uuid.NewString()
	sess := &session{page: s.newPage(), lastSeen: s.now()}
	s.items[id] = sess
	return id, sess.page
}

// Len número de sesiones vivas.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Sweep elimina las sesiones inactivas y devuelve cuántas quitó.
func (s *Sessions) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	limit := s.now().Add(-s.ttl)
	n := 0
	for id, sess := range s.items {
		if sess.lastSeen.Before(limit) {
			delete(s.items, id)
			n++
		}
	}
	return n
}

// Run barre periódicamente hasta que ctx termina.
func (s *Sessions) Run(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Sweep()
		}
	}
}
