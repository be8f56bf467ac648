package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func testTokens() TokenService {
	return TokenService{
		Secret:   []byte("test-secret"),
		Issuer:   "shelfscan-test",
		Duration: time.Hour,
	}
}

func TestTokenService_SignVerifyRoundTrip(t *testing.T) {
	ts := testTokens()

	token, exp, err := ts.Sign("admin@example.com")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}
	if !exp.After(time.Now()) {
		t.Errorf("expiry in the past: %v", exp)
	}

	ident, err := ts.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ident.Email != "admin@example.com" {
		t.Errorf("email = %q", ident.Email)
	}
}

func TestTokenService_RejectsWrongSecret(t *testing.T) {
	token, _, err := testTokens().Sign("admin@example.com")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	other := TokenService{Secret: []byte("different"), Issuer: "x", Duration: time.Hour}
	if _, err := other.Verify(context.Background(), token); err == nil {
		t.Error("expected verification failure with wrong secret")
	}
}

func newGateRouter(gate Gate) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/public", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.POST("/mutate", gate.RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestGate_RequireAdmin(t *testing.T) {
	ts := testTokens()
	adminToken, _, _ := ts.Sign("admin@example.com")
	otherToken, _, _ := ts.Sign("intruder@example.com")

	tests := []struct {
		name       string
		gate       Gate
		authHeader string
		wantStatus int
	}{
		{
			name:       "no verifier configured fails closed",
			gate:       Gate{AdminEmail: "admin@example.com"},
			authHeader: "Bearer " + adminToken,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "missing header",
			gate:       Gate{Verifier: ts, AdminEmail: "admin@example.com"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed header",
			gate:       Gate{Verifier: ts, AdminEmail: "admin@example.com"},
			authHeader: "Token abc",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			gate:       Gate{Verifier: ts, AdminEmail: "admin@example.com"},
			authHeader: "Bearer not.a.jwt",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "valid token wrong email",
			gate:       Gate{Verifier: ts, AdminEmail: "admin@example.com"},
			authHeader: "Bearer " + otherToken,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "valid admin token",
			gate:       Gate{Verifier: ts, AdminEmail: "admin@example.com"},
			authHeader: "Bearer " + adminToken,
			wantStatus: http.StatusOK,
		},
		{
			name:       "no allowlist admits any verified identity",
			gate:       Gate{Verifier: ts},
			authHeader: "Bearer " + otherToken,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/mutate", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			newGateRouter(tt.gate).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestGate_ReadsBypassTheGate(t *testing.T) {
	ts := testTokens()
	otherToken, _, _ := ts.Sign("intruder@example.com")

	// The identity rejected on a mutation is fine on a read: reads never
	// pass through the gate at all.
	router := newGateRouter(Gate{Verifier: ts, AdminEmail: "admin@example.com"})

	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("Authorization", "Bearer "+otherToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("read with non-admin token: status = %d, want 200", w.Code)
	}
}
