package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/therapyai/caseload/internal/core/domain"
)

func TestAuthService_Login(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	th := f.addTherapist(t, "Sarah", "sarah@example.com")

	token, sess, err := f.auth.Login(ctx, "sarah@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token")
	}
	if sess.UserID != th.UserID || sess.Role != domain.RoleTherapist {
		t.Fatalf("unexpected session: %+v", sess)
	}

	current, err := f.auth.Current(ctx)
	if err != nil {
		t.Fatalf("Current returned error: %v", err)
	}
	if current != *sess {
		t.Fatalf("persisted session mismatch: %+v vs %+v", current, *sess)
	}

	parsed, err := f.auth.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken returned error: %v", err)
	}
	if parsed != *sess {
		t.Fatalf("token session mismatch: %+v vs %+v", parsed, *sess)
	}
}

func TestAuthService_Login_FailureWritesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addTherapist(t, "Sarah", "sarah@example.com")
	before := f.store.applies

	cases := []struct{ email, password string }{
		{"sarah@example.com", "wrong"},
		{"SARAH@example.com", "secret1"},
		{"nobody@example.com", "secret1"},
		{"", ""},
	}
	for _, c := range cases {
		if _, _, err := f.auth.Login(ctx, c.email, c.password); err != domain.ErrInvalidCredentials {
			t.Fatalf("Login(%q): expected ErrInvalidCredentials, got %v", c.email, err)
		}
	}
	if f.store.applies != before {
		t.Fatal("failed logins must not write")
	}
	if raw := f.store.raw(f.tables.key(keyCurrentUser)); raw != "" {
		t.Fatalf("unexpected session record: %s", raw)
	}
}

func TestAuthService_Logout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addTherapist(t, "Sarah", "sarah@example.com")

	if _, _, err := f.auth.Login(ctx, "sarah@example.com", "secret1"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if err := f.auth.Logout(ctx); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}

	current, err := f.auth.Current(ctx)
	if err != nil {
		t.Fatalf("Current returned error: %v", err)
	}
	if current.IsAuthenticated() {
		t.Fatalf("expected anonymous session, got %+v", current)
	}
}

func TestParseSessionToken_Rejects(t *testing.T) {
	sign := func(method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return s
	}
	valid := jwt.MapClaims{"sub": "u1", "role": "admin", "exp": time.Now().Add(time.Hour).Unix()}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", sign(jwt.SigningMethodHS256, []byte("other"), valid)},
		{"wrong algorithm", sign(jwt.SigningMethodHS512, []byte("secret"), valid)},
		{"expired", sign(jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{"sub": "u1", "role": "admin", "exp": time.Now().Add(-time.Hour).Unix()})},
		{"unknown role", sign(jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{"sub": "u1", "role": "parent", "exp": time.Now().Add(time.Hour).Unix()})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSessionToken(tt.token, "secret"); err != domain.ErrInvalidCredentials {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}

	sess, err := ParseSessionToken(sign(jwt.SigningMethodHS256, []byte("secret"), valid), "secret")
	if err != nil || !sess.IsAdmin() {
		t.Fatalf("expected admin session, got %+v, %v", sess, err)
	}
}
