// seed_admin crea el usuario administrador inicial si su email no existe.
//
// Uso: go run ./cmd/seed_admin
// Credenciales: ADMIN_USERNAME, ADMIN_EMAIL, ADMIN_PASSWORD (por defecto Admin / admin@jugueteria.com / admin123).
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/jugueteria-api/internal/application/auth"
	"github.com/jhoicas/jugueteria-api/internal/domain/entity"
	"github.com/jhoicas/jugueteria-api/internal/domain/repository"
	"github.com/jhoicas/jugueteria-api/internal/infrastructure/postgres"
	"github.com/jhoicas/jugueteria-api/pkg/config"
	"github.com/jhoicas/jugueteria-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env}).Component("seed")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cfg.DB.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DB.ConnectionString(), log); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	created, err := seedAdmin(ctx, postgres.NewUserRepository(pool), cfg.Admin, cfg.App.BcryptCost)
	if err != nil {
		log.Error().Err(err).Msg("crear administrador")
		pool.Close()
		os.Exit(1)
	}
	if !created {
		fmt.Printf("El administrador %s ya existe\n", cfg.Admin.Email)
		return
	}
	fmt.Println("Administrador creado")
	fmt.Printf("  email:    %s\n", cfg.Admin.Email)
	fmt.Printf("  password: %s\n", cfg.Admin.Password)
}

// seedAdmin inserta el admin si el email está libre. Devuelve false si ya existía.
func seedAdmin(ctx context.Context, users repository.UserRepository, admin config.AdminConfig, cost int) (bool, error) {
	existing, err := users.GetByEmail(ctx, admin.Email)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	if len(admin.Password) > auth.MaxPasswordBytes {
		return false, fmt.Errorf("ADMIN_PASSWORD no puede superar %d bytes", auth.MaxPasswordBytes)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), cost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	err = users.Create(ctx, &entity.User{
		ID:           uuid.New().String(),
		Username:     admin.Username,
		Email:        admin.Email,
		PasswordHash: string(hash),
		Role:         entity.RoleAdmin,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
