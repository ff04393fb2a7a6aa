package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func signToken(t *testing.T, claims *Claims, key []byte) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(key)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func run(mw echo.MiddlewareFunc, c echo.Context) error {
	return mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)
}

func newAuthContext(token string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    "clinic-server",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Roles: []string{"doctor"},
		Name:  "Dr. Example",
	}
	c := newAuthContext(signToken(t, claims, testKey))

	mw := JWTMiddleware(JWTConfig{SigningKey: testKey, Issuer: "clinic-server"})
	if err := run(mw, c); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if uid, _ := c.Get("user_id").(string); uid != "user-1" {
		t.Errorf("user_id = %q", uid)
	}
	roles, _ := c.Get("user_roles").([]string)
	if len(roles) != 1 || roles[0] != "doctor" {
		t.Errorf("user_roles = %v", roles)
	}
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	c := newAuthContext("")
	mw := JWTMiddleware(JWTConfig{SigningKey: testKey})
	err := run(mw, c)
	if he, ok := err.(*echo.HTTPError); !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("got %v, want 401", err)
	}
}

func TestJWTMiddleware_WrongKey(t *testing.T) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	c := newAuthContext(signToken(t, claims, []byte("another-32-byte-secret-value!!!!")))
	mw := JWTMiddleware(JWTConfig{SigningKey: testKey})
	err := run(mw, c)
	if he, ok := err.(*echo.HTTPError); !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("got %v, want 401", err)
	}
}

func TestJWTMiddleware_ExpiredToken(t *testing.T) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	c := newAuthContext(signToken(t, claims, testKey))
	mw := JWTMiddleware(JWTConfig{SigningKey: testKey})
	err := run(mw, c)
	if he, ok := err.(*echo.HTTPError); !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("got %v, want 401", err)
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.Set("user_roles", []string{"staff"})

	if err := run(RequireRole("admin", "staff"), c); err != nil {
		t.Fatalf("expected staff to pass, got %v", err)
	}

	c.Set("user_roles", []string{"staff"})
	err := run(RequireRole("admin"), c)
	if he, ok := err.(*echo.HTTPError); !ok || he.Code != http.StatusForbidden {
		t.Fatalf("got %v, want 403", err)
	}
}

func TestDevAuthMiddleware(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if err := run(DevAuthMiddleware(), c); err != nil {
		t.Fatalf("dev auth: %v", err)
	}
	roles, _ := c.Get("user_roles").([]string)
	if len(roles) != 3 {
		t.Errorf("roles = %v, want admin/doctor/staff", roles)
	}
}
