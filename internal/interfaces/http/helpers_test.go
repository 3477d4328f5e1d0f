package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/jugueteria-api/internal/application/auth"
	"github.com/jhoicas/jugueteria-api/internal/application/cart"
	"github.com/jhoicas/jugueteria-api/internal/application/usecase"
	"github.com/jhoicas/jugueteria-api/internal/domain"
	"github.com/jhoicas/jugueteria-api/internal/domain/entity"
	"github.com/jhoicas/jugueteria-api/internal/infrastructure/memory"
	"github.com/jhoicas/jugueteria-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/jugueteria-api/internal/interfaces/http"
	"github.com/jhoicas/jugueteria-api/pkg/logger"
	"github.com/jhoicas/jugueteria-api/pkg/metrics"
)

const (
	testSecret     = "test-secret-key-for-unit-tests"
	testCookie     = "jugueteria.sid"
	adminEmail     = "admin@jugueteria.com"
	adminPassword  = "admin123"
	clienteEmail   = "ana@correo.com"
	clientePass    = "secreto1"
	contentTypeKey = "Content-Type"
)

// ── Fakes ─────────────────────────────────────────────────────────────────────

type fakeUsers struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func (f *fakeUsers) Create(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.Email]; ok {
		return domain.ErrEmailAlreadyExists
	}
	cp := *u
	f.users[u.Email] = &cp
	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

type fakeProducts struct {
	mu   sync.Mutex
	list []*entity.Product
}

func (f *fakeProducts) Create(_ context.Context, p *entity.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.list {
		if e.IDProducto == p.IDProducto {
			return domain.ErrDuplicate
		}
	}
	cp := *p
	f.list = append(f.list, &cp)
	return nil
}

func (f *fakeProducts) GetByIDProducto(_ context.Context, id int64) (*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.list {
		if e.IDProducto == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeProducts) List(_ context.Context) ([]*entity.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*entity.Product{}, f.list...), nil
}

// ── App de prueba ─────────────────────────────────────────────────────────────

type testEnv struct {
	app      *fiber.App
	users    *fakeUsers
	products *fakeProducts
	sessions *memory.SessionStore
}

// newTestEnv arma el router completo con el store de sesiones en memoria y un admin sembrado.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	users := &fakeUsers{users: map[string]*entity.User{}}
	products := &fakeProducts{}
	sessions := memory.NewSessionStore(1000)
	t.Cleanup(sessions.Stop)

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)
	users.users[adminEmail] = &entity.User{
		ID: "admin-1", Username: "Admin", Email: adminEmail,
		PasswordHash: string(hash), Role: entity.RoleAdmin, CreatedAt: time.Now(),
	}

	m := metrics.New("test")
	cartUC := cart.NewCartUseCase(products, sessions, pdf.NewMarotoQuoteGenerator("Juguetería"))
	cartUC.SetObserver(m)

	app := fiber.New(fiber.Config{Immutable: true})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:    auth.NewAuthUseCase(users, sessions, auth.Config{SessionTTL: 24 * time.Hour, BcryptCost: bcrypt.MinCost}),
		ProductUC: usecase.NewProductUseCase(products),
		CartUC:    cartUC,
		Sessions:  sessions,
		Cookie:    apphttp.SessionCookie{Name: testCookie, Secret: testSecret, Issuer: "jugueteria-test"},
		Metrics:   m,
		Logger:    logger.Nop(),
	})
	return &testEnv{app: app, users: users, products: products, sessions: sessions}
}

// do lanza la petición con la cookie de sesión (si hay) y devuelve respuesta y cuerpo.
func (e *testEnv) do(t *testing.T, req *http.Request, cookie *http.Cookie) (*http.Response, []byte) {
	t.Helper()
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func jsonRequest(t *testing.T, method, path string, v any) *http.Request {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, strings.NewReader(string(b)))
	req.Header.Set(contentTypeKey, fiber.MIMEApplicationJSON)
	return req
}

func formRequest(method, path string, values url.Values) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(values.Encode()))
	req.Header.Set(contentTypeKey, fiber.MIMEApplicationForm)
	return req
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == testCookie {
			return c
		}
	}
	return nil
}

// login hace POST /login-process y devuelve la cookie emitida.
func (e *testEnv) login(t *testing.T, email, password string) *http.Cookie {
	t.Helper()
	resp, _ := e.do(t, formRequest(http.MethodPost, "/login-process", url.Values{
		"email": {email}, "password": {password},
	}), nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	c := sessionCookie(resp)
	require.NotNil(t, c, "login debe emitir la cookie de sesión")
	return c
}

// registerAndLogin crea un cliente con rol user y devuelve su cookie.
func (e *testEnv) registerAndLogin(t *testing.T) *http.Cookie {
	t.Helper()
	resp, _ := e.do(t, formRequest(http.MethodPost, "/register-process", url.Values{
		"username": {"ana"}, "email": {clienteEmail},
		"password": {clientePass}, "confirm_password": {clientePass},
	}), nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	return e.login(t, clienteEmail, clientePass)
}
