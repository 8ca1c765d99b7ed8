package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var testSecret = []byte("test-secret")

func TestIssueAndParseToken(t *testing.T) {
	userID := uuid.New()
	token, err := IssueToken(testSecret, userID, "alice", "editor", false, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := ParseToken(testSecret, token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Subject != userID.String() {
		t.Errorf("expected subject %s, got %s", userID, claims.Subject)
	}
	if claims.Username != "alice" || claims.Role != "editor" || claims.IsAdmin {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, _ := IssueToken(testSecret, uuid.New(), "alice", "editor", false, time.Hour)
	if _, err := ParseToken([]byte("other-secret"), token); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestParseToken_Expired(t *testing.T) {
	token, _ := IssueToken(testSecret, uuid.New(), "alice", "editor", false, -time.Minute)
	if _, err := ParseToken(testSecret, token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash must not equal plaintext")
	}
	if !CheckPassword(hash, "s3cret-pass") {
		t.Error("expected matching password to verify")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("expected mismatched password to fail")
	}
}

func TestHashPassword_Empty(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func doRequest(mw echo.MiddlewareFunc, authHeader string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	handler := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestMiddleware_ValidToken(t *testing.T) {
	token, _ := IssueToken(testSecret, uuid.New(), "alice", "editor", false, time.Hour)
	rec := doRequest(Middleware(testSecret), "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestMiddleware_MissingHeader(t *testing.T) {
	rec := doRequest(Middleware(testSecret), "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestMiddleware_BadToken(t *testing.T) {
	rec := doRequest(Middleware(testSecret), "Bearer nonsense")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestOptional_AnonymousPasses(t *testing.T) {
	rec := doRequest(Optional(testSecret), "")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for anonymous request, got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()

	run := func(role string, isAdmin bool) int {
		token, _ := IssueToken(testSecret, uuid.New(), "u", role, isAdmin, time.Hour)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		handler := Middleware(testSecret)(RequireRole("editor")(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		}))
		if err := handler(c); err != nil {
			e.HTTPErrorHandler(err, c)
		}
		return rec.Code
	}

	if code := run("editor", false); code != http.StatusOK {
		t.Errorf("editor should pass, got %d", code)
	}
	if code := run("viewer", false); code != http.StatusForbidden {
		t.Errorf("viewer should be forbidden, got %d", code)
	}
	if code := run("viewer", true); code != http.StatusOK {
		t.Errorf("admin should pass any role check, got %d", code)
	}
}
