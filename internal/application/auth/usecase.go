package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/jugueteria-api/internal/application/dto"
	"github.com/jhoicas/jugueteria-api/internal/domain"
	"github.com/jhoicas/jugueteria-api/internal/domain/entity"
	"github.com/jhoicas/jugueteria-api/internal/domain/repository"
)

// DefaultBcryptCost costo de bcrypt por defecto.
const DefaultBcryptCost = 10

// MaxPasswordBytes límite de bcrypt; más allá GenerateFromPassword falla.
const MaxPasswordBytes = 72

// Config parámetros del caso de uso de auth.
type Config struct {
	SessionTTL time.Duration
	BcryptCost int
}

// AuthUseCase registro, login, logout y usuario actual.
type AuthUseCase struct {
	userRepo repository.UserRepository
	sessions repository.SessionRepository
	cfg      Config

	// dummyHash se compara cuando el email no existe, para que ambos fallos tarden lo mismo.
	dummyHash []byte

	now   func() time.Time
	newID func() string
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, sessions repository.SessionRepository, cfg Config) *AuthUseCase {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = DefaultBcryptCost
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("jugueteria-dummy-password"), cfg.BcryptCost)
	return &AuthUseCase{
		userRepo:  userRepo,
		sessions:  sessions,
		cfg:       cfg,
		dummyHash: dummy,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
}

// RegisterUser valida el formulario, verifica que el email no exista, hashea con bcrypt
// y crea el usuario con rol user. No crea sesión.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) error {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" || email == "" || in.Password == "" || in.ConfirmPassword == "" {
		return domain.NewValidationError("", "faltan campos obligatorios")
	}
	if in.Password != in.ConfirmPassword {
		return domain.NewValidationError("confirm_password", "las contraseñas no coinciden")
	}
	if len(in.Password) > MaxPasswordBytes {
		return domain.NewValidationError("password", fmt.Sprintf("no puede superar %d bytes", MaxPasswordBytes))
	}

	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.cfg.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user := &entity.User{
		ID:           uc.newID(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         entity.RoleUser,
		CreatedAt:    uc.now(),
	}
	// El store también rechaza el email duplicado (carrera entre dos registros).
	return uc.userRepo.Create(ctx, user)
}

// Login verifica email/password y crea una sesión nueva con la copia del usuario.
// Si ya había sesión (current) su carrito se traslada y su id se descarta, así un id
// conocido antes del login no sirve después. Email inexistente y password incorrecto
// devuelven el mismo ErrInvalidCredentials.
func (uc *AuthUseCase) Login(ctx context.Context, current *entity.Session, in dto.LoginRequest) (*entity.Session, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.NewValidationError("", "email y password son requeridos")
	}

	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(uc.dummyHash, []byte(in.Password))
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	snapshot := &entity.SessionUser{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}

	// Siempre se emite un id nuevo; el carrito de la sesión anterior pasa a la nueva.
	sess := entity.NewSession(uc.newID(), uc.now(), uc.cfg.SessionTTL)
	sess.User = snapshot
	if current != nil {
		prev := current
		if fresh, err := uc.sessions.Get(ctx, current.ID); err == nil {
			prev = fresh
		} else if !errors.Is(err, domain.ErrSessionNotFound) {
			return nil, err
		}
		if prev.Cart != nil {
			sess.Cart = prev.Lines()
		}
	}
	if err := uc.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	if current != nil {
		if err := uc.sessions.Delete(ctx, current.ID); err != nil {
			return nil, fmt.Errorf("descartar sesión anterior: %w", err)
		}
	}
	return sess, nil
}

// Logout elimina la sesión completa (carrito incluido). Sin sesión no hace nada.
func (uc *AuthUseCase) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := uc.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("destruir sesión: %w", err)
	}
	return nil
}

// CurrentUser devuelve la copia del usuario guardada en la sesión.
func (uc *AuthUseCase) CurrentUser(sess *entity.Session) (*dto.UserResponse, error) {
	if !sess.Authenticated() {
		return nil, domain.ErrUnauthorized
	}
	return ToUserResponse(sess.User), nil
}

// ToUserResponse convierte la copia de sesión en DTO.
func ToUserResponse(u *entity.SessionUser) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role.String(),
	}
}
