// Package memcache implementa el store de sesiones sobre Memcached.
package memcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bradfitz/gomemcache/memcache"

	"github.com/jhoicas/jugueteria-api/internal/domain"
	"github.com/jhoicas/jugueteria-api/internal/domain/entity"
	"github.com/jhoicas/jugueteria-api/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionStore)(nil)

const keyPrefix = "jugueteria:sess:"

// Client subconjunto de *memcache.Client que usa el store.
type Client interface {
	Get(key string) (*memcache.Item, error)
	Add(item *memcache.Item) error
	CompareAndSwap(item *memcache.Item) error
	Delete(key string) error
}

// envelope valor guardado en Memcached: la sesión más su versión.
type envelope struct {
	Version int64           `json:"v"`
	Session *entity.Session `json:"s"`
}

// SessionStore guarda cada sesión como un item con expiración absoluta igual a ExpiresAt.
// El CAS de Memcached (gets + cas) protege el read-modify-write de la versión.
type SessionStore struct {
	client Client
	now    func() time.Time
}

// NewSessionStore construye el store sobre un cliente ya conectado (memcache.New en cmd/api).
func NewSessionStore(client Client) *SessionStore {
	return &SessionStore{client: client, now: time.Now}
}

// Get devuelve la sesión vigente o domain.ErrSessionNotFound.
func (s *SessionStore) Get(_ context.Context, id string) (*entity.Session, error) {
	item, err := s.client.Get(keyPrefix + id)
	if err != nil {
		if errors.Is(err, memcache.ErrCacheMiss) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("memcache get: %w", err)
	}
	env, err := decode(item)
	if err != nil {
		return nil, err
	}
	if env.Session.Expired(s.now()) {
		return nil, domain.ErrSessionNotFound
	}
	env.Session.ID = id
	env.Session.Version = env.Version
	return env.Session, nil
}

// Save: Version 0 usa Add (falla si la clave existe); en otro caso lee con gets,
// compara la versión y escribe con CompareAndSwap.
func (s *SessionStore) Save(_ context.Context, sess *entity.Session) error {
	if sess.Expired(s.now()) {
		return domain.ErrSessionNotFound
	}
	next := sess.Version + 1
	value, err := json.Marshal(envelope{Version: next, Session: sess})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	key := keyPrefix + sess.ID

	if sess.Version == 0 {
		err := s.client.Add(&memcache.Item{Key: key, Value: value, Expiration: expiration(sess.ExpiresAt)})
		if err != nil {
			if errors.Is(err, memcache.ErrNotStored) {
				return domain.ErrConcurrentUpdate
			}
			return fmt.Errorf("memcache add: %w", err)
		}
		sess.Version = next
		return nil
	}

	item, err := s.client.Get(key)
	if err != nil {
		if errors.Is(err, memcache.ErrCacheMiss) {
			return domain.ErrConcurrentUpdate
		}
		return fmt.Errorf("memcache gets: %w", err)
	}
	current, err := decode(item)
	if err != nil {
		return err
	}
	if current.Version != sess.Version {
		return domain.ErrConcurrentUpdate
	}
	item.Value = value
	item.Expiration = expiration(sess.ExpiresAt)
	if err := s.client.CompareAndSwap(item); err != nil {
		if errors.Is(err, memcache.ErrCASConflict) || errors.Is(err, memcache.ErrNotStored) || errors.Is(err, memcache.ErrCacheMiss) {
			return domain.ErrConcurrentUpdate
		}
		return fmt.Errorf("memcache cas: %w", err)
	}
	sess.Version = next
	return nil
}

// Delete elimina la sesión; una clave ausente no es error.
func (s *SessionStore) Delete(_ context.Context, id string) error {
	if err := s.client.Delete(keyPrefix + id); err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
		return fmt.Errorf("memcache delete: %w", err)
	}
	return nil
}

func decode(item *memcache.Item) (*envelope, error) {
	var env envelope
	if err := json.Unmarshal(item.Value, &env); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if env.Session == nil {
		return nil, fmt.Errorf("decode session: item %s sin sesión", item.Key)
	}
	return &env, nil
}

// expiration Memcached interpreta valores mayores a 30 días como timestamp unix;
// un timestamp absoluto mantiene el TTL fijo aunque la sesión se reescriba.
func expiration(expiresAt time.Time) int32 {
	return int32(expiresAt.Unix())
}
