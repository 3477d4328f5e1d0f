package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/jugueteria-api/internal/domain"
	"github.com/jhoicas/jugueteria-api/internal/domain/entity"
	"github.com/jhoicas/jugueteria-api/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo store de sesiones en la tabla sessions. El estado completo va en data (jsonb)
// y version implementa el compare-and-swap.
type SessionRepo struct {
	q   Querier
	now func() time.Time
}

// NewSessionRepository construye el store de sesiones sobre PostgreSQL.
func NewSessionRepository(q Querier) *SessionRepo {
	return &SessionRepo{q: q, now: time.Now}
}

// Get devuelve la sesión vigente o domain.ErrSessionNotFound.
func (r *SessionRepo) Get(ctx context.Context, id string) (*entity.Session, error) {
	query := `SELECT data, version FROM sessions WHERE id = $1 AND expires_at > $2`
	var (
		data    []byte
		version int64
	)
	err := r.q.QueryRow(ctx, query, id, r.now()).Scan(&data, &version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	var s entity.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	s.ID = id
	s.Version = version
	return &s, nil
}

// Save inserta (Version 0) o actualiza si la versión almacenada coincide.
func (r *SessionRepo) Save(ctx context.Context, s *entity.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	var query string
	var args []any
	if s.Version == 0 {
		query = `
			INSERT INTO sessions (id, data, version, created_at, expires_at)
			VALUES ($1, $2, 1, $3, $4)
			ON CONFLICT (id) DO NOTHING`
		args = []any{s.ID, data, s.CreatedAt, s.ExpiresAt}
	} else {
		query = `UPDATE sessions SET data = $2, version = version + 1 WHERE id = $1 AND version = $3`
		args = []any{s.ID, data, s.Version}
	}

	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConcurrentUpdate
	}
	s.Version++
	return nil
}

// Delete elimina la sesión; no falla si no existe.
func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// PurgeExpired borra las sesiones vencidas y devuelve cuántas eliminó.
func (r *SessionRepo) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, r.now())
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
