package handlers

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIndex(t *testing.T) {
	router := newTestRouter(0)

	rr := doJSON(t, router, http.MethodGet, "/api/", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d", rr.Code)
	}

	var resp MessageResponse
	decodeBody(t, rr, &resp)
	if resp.Message != "API funcionando correctamente" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	router := newTestRouter(0)

	bodies := []map[string]string{
		{"email": "ana@x.com", "password": "secret1"},
		{"nombre": "Ana", "password": "secret1"},
		{"nombre": "Ana", "email": "ana@x.com"},
		{"nombre": "  ", "email": "ana@x.com", "password": "secret1"},
		{},
	}
	for _, body := range bodies {
		rr := doJSON(t, router, http.MethodPost, "/api/register", "", body)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("body %v: got status %d, want 400", body, rr.Code)
		}
		var resp ErrorResponse
		decodeBody(t, rr, &resp)
		if resp.Error != msgMissingFields {
			t.Fatalf("body %v: got error %q", body, resp.Error)
		}
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	router := newTestRouter(0)

	first := doJSON(t, router, http.MethodPost, "/api/register", "", map[string]string{
		"nombre": "Ana", "email": "ana@x.com", "password": "secret1",
	})
	if first.Code != http.StatusCreated {
		t.Fatalf("first register: got status %d, body %s", first.Code, first.Body.String())
	}

	second := doJSON(t, router, http.MethodPost, "/api/register", "", map[string]string{
		"nombre": "Bob", "email": "ana@x.com", "password": "secret2",
	})
	if second.Code != http.StatusBadRequest {
		t.Fatalf("second register: got status %d, want 400", second.Code)
	}
	var resp ErrorResponse
	decodeBody(t, second, &resp)
	if resp.Error != msgEmailTaken {
		t.Fatalf("second register: got error %q", resp.Error)
	}
}

func TestRegisterNeverLeaksHash(t *testing.T) {
	router := newTestRouter(0)

	rr := doJSON(t, router, http.MethodPost, "/api/register", "", map[string]string{
		"nombre": "Ana", "email": "ana@x.com", "password": "secret1",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("got status %d, body %s", rr.Code, rr.Body.String())
	}
	if strings.Contains(rr.Body.String(), "$2a$") || strings.Contains(rr.Body.String(), "password") {
		t.Fatalf("response leaks password material: %s", rr.Body.String())
	}

	var resp RegisterResponse
	decodeBody(t, rr, &resp)
	if resp.User.ID == 0 || resp.User.Name != "Ana" || resp.User.Email != "ana@x.com" {
		t.Fatalf("unexpected user projection: %+v", resp.User)
	}
	if resp.User.Role != "usuario" {
		t.Fatalf("got role %q, want usuario", resp.User.Role)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router := newTestRouter(0)
	registerAndLogin(t, router, "Ana", "ana@x.com", "secret1")

	// Unknown email and wrong password must be indistinguishable.
	cases := []map[string]string{
		{"email": "nadie@x.com", "password": "secret1"},
		{"email": "ana@x.com", "password": "wrong"},
		{"email": "ana@x.com", "password": ""},
	}
	for _, body := range cases {
		rr := doJSON(t, router, http.MethodPost, "/api/login", "", body)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("body %v: got status %d, want 401", body, rr.Code)
		}
		var resp ErrorResponse
		decodeBody(t, rr, &resp)
		if resp.Error != msgBadCredentials {
			t.Fatalf("body %v: got error %q", body, resp.Error)
		}
	}
}

func TestLoginSuccess(t *testing.T) {
	router := newTestRouter(0)
	registerAndLogin(t, router, "Ana", "ana@x.com", "secret1")

	rr := doJSON(t, router, http.MethodPost, "/api/login", "", map[string]string{
		"email": "ana@x.com", "password": "secret1",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, body %s", rr.Code, rr.Body.String())
	}

	var resp LoginResponse
	decodeBody(t, rr, &resp)
	if resp.Message != msgLoginOK {
		t.Fatalf("got message %q", resp.Message)
	}
	if resp.Token == "" {
		t.Fatal("empty token")
	}
	if resp.User.Email != "ana@x.com" {
		t.Fatalf("unexpected user: %+v", resp.User)
	}

	subject, err := parseTokenSubject(resp.Token, []byte(testSecret))
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if subject != "1" {
		t.Fatalf("got subject %q, want %q", subject, "1")
	}
}

func TestIssueTokenExpiry(t *testing.T) {
	token, err := issueToken(7, []byte(testSecret), 0)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	claims := jwt.RegisteredClaims{}
	if _, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return []byte(testSecret), nil
	}); err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.ExpiresAt != nil {
		t.Fatal("zero TTL token should carry no expiry claim")
	}
	if claims.Subject != "7" {
		t.Fatalf("got subject %q", claims.Subject)
	}

	token, err = issueToken(7, []byte(testSecret), time.Hour)
	if err != nil {
		t.Fatalf("issue token with TTL: %v", err)
	}
	if _, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return []byte(testSecret), nil
	}); err != nil {
		t.Fatalf("parse token with TTL: %v", err)
	}
	if claims.ExpiresAt == nil {
		t.Fatal("expected expiry claim")
	}
}

func TestRequireAuthRejectsBadTokens(t *testing.T) {
	router := newTestRouter(0)
	token := registerAndLogin(t, router, "Ana", "ana@x.com", "secret1")

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"empty token", "Bearer "},
		{"garbage token", "Bearer not-a-jwt"},
		{"tampered token", "Bearer " + token + "x"},
	}
	for _, tc := range cases {
		req := httptestRequest(http.MethodGet, "/api/tareas", tc.header)
		rr := serve(router, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s: got status %d, want 401", tc.name, rr.Code)
		}
		var resp ErrorResponse
		decodeBody(t, rr, &resp)
		if resp.Error != msgUnauthorized {
			t.Fatalf("%s: got error %q", tc.name, resp.Error)
		}
	}

	// Token signed with a different secret must fail verification.
	foreign, err := issueToken(1, []byte("other-secret"), 0)
	if err != nil {
		t.Fatalf("issue foreign token: %v", err)
	}
	rr := doJSON(t, router, http.MethodGet, "/api/tareas", foreign, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("foreign token: got status %d, want 401", rr.Code)
	}
}

func TestMe(t *testing.T) {
	router := newTestRouter(0)
	token := registerAndLogin(t, router, "Ana", "ana@x.com", "secret1")

	rr := doJSON(t, router, http.MethodGet, "/api/me", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d, body %s", rr.Code, rr.Body.String())
	}

	var user struct {
		ID    int    `json:"id"`
		Name  string `json:"nombre"`
		Email string `json:"email"`
		Role  string `json:"rol"`
	}
	decodeBody(t, rr, &user)
	if user.Email != "ana@x.com" || user.Name != "Ana" || user.Role != "usuario" {
		t.Fatalf("unexpected user: %+v", user)
	}

	rr = doJSON(t, router, http.MethodGet, "/api/me", "", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("no token: got status %d, want 401", rr.Code)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	router := newTestRouter(0)
	registerAndLogin(t, router, "Ana", "ana@x.com", "secret1")

	claims := jwt.RegisteredClaims{
		Subject:   "1",
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign expired token: %v", err)
	}

	rr := doJSON(t, router, http.MethodGet, "/api/tareas", expired, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expired token: got status %d, want 401", rr.Code)
	}
}
