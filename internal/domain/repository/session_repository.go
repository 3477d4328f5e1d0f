package repository

import (
	"context"

	"github.com/jhoicas/jugueteria-api/internal/domain/entity"
)

// SessionRepository puerto del store de sesiones.
//
// Las implementaciones guardan la sesión hasta ExpiresAt y versionan cada escritura:
// Save solo tiene éxito si session.Version coincide con la versión almacenada
// (0 = la sesión no debe existir todavía). En caso contrario devuelven
// domain.ErrConcurrentUpdate. Tras un Save exitoso session.Version queda actualizado.
type SessionRepository interface {
	// Get devuelve domain.ErrSessionNotFound si no existe o ya expiró.
	Get(ctx context.Context, id string) (*entity.Session, error)
	Save(ctx context.Context, session *entity.Session) error
	// Delete no falla si la sesión no existe.
	Delete(ctx context.Context, id string) error
}
