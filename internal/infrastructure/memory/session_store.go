// Package memory implementa el store de sesiones dentro del proceso con ccache.
// Pensado para desarrollo y tests: las sesiones se pierden al reiniciar.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/karlseguin/ccache/v3"

	"github.com/jhoicas/jugueteria-api/internal/domain"
	"github.com/jhoicas/jugueteria-api/internal/domain/entity"
	"github.com/jhoicas/jugueteria-api/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionStore)(nil)

// SessionStore guarda copias de las sesiones en un ccache con TTL igual a la vida
// restante de cada sesión.
type SessionStore struct {
	mu    sync.Mutex // serializa el compare-and-swap
	cache *ccache.Cache[*entity.Session]
	now   func() time.Time
}

// NewSessionStore crea el store con capacidad máxima maxSize sesiones.
func NewSessionStore(maxSize int64) *SessionStore {
	return &SessionStore{
		cache: ccache.New(ccache.Configure[*entity.Session]().MaxSize(maxSize)),
		now:   time.Now,
	}
}

// Get devuelve una copia de la sesión vigente.
func (s *SessionStore) Get(_ context.Context, id string) (*entity.Session, error) {
	item := s.cache.Get(id)
	if item == nil || item.Expired() || item.Value().Expired(s.now()) {
		return nil, domain.ErrSessionNotFound
	}
	return item.Value().Clone(), nil
}

// Save guarda la sesión si su versión coincide con la almacenada.
func (s *SessionStore) Save(_ context.Context, sess *entity.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	ttl := sess.TTL(now)
	if ttl <= 0 {
		return domain.ErrSessionNotFound
	}

	item := s.cache.Get(sess.ID)
	live := item != nil && !item.Expired()
	switch {
	case sess.Version == 0 && live:
		return domain.ErrConcurrentUpdate
	case sess.Version != 0 && (!live || item.Value().Version != sess.Version):
		return domain.ErrConcurrentUpdate
	}

	sess.Version++
	s.cache.Set(sess.ID, sess.Clone(), ttl)
	return nil
}

// Delete elimina la sesión.
func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.cache.Delete(id)
	return nil
}

// Stop detiene el worker interno de ccache.
func (s *SessionStore) Stop() {
	s.cache.Stop()
}
