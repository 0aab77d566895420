package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/therapyai/caseload/internal/core/domain"
)

// AuthService logs users in and out of the store's single current session
// and issues the token that carries that session over HTTP.
type AuthService struct {
	tables    *Tables
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(tables *Tables, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{tables: tables, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

// Login succeeds only when a user with exactly this email and password
// exists. On failure nothing is written.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Session, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	users, err := s.tables.users(ctx)
	if err != nil {
		return "", nil, err
	}
	var user *domain.User
	for i := range users {
		if users[i].Email == email && users[i].Password == password {
			user = &users[i]
			break
		}
	}
	if user == nil {
		s.log.Info().Str("email", email).Msg("login rejected")
		return "", nil, domain.ErrInvalidCredentials
	}

	op, err := s.tables.setOp(s.tables.key(keyCurrentUser), user)
	if err != nil {
		return "", nil, err
	}
	if err := s.tables.save(ctx, op); err != nil {
		return "", nil, fmt.Errorf("store session: %w", err)
	}

	sess := domain.SessionFor(*user)
	token, err := s.generateToken(sess)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("login")
	return token, &sess, nil
}

// Logout clears the current session.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.tables.store.Delete(ctx, s.tables.key(keyCurrentUser)); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Current returns the persisted session, or the anonymous session when nobody
// is logged in.
func (s *AuthService) Current(ctx context.Context) (domain.Session, error) {
	var user domain.User
	ok, err := s.tables.load(ctx, s.tables.key(keyCurrentUser), &user)
	if err != nil || !ok {
		return domain.Session{}, err
	}
	return domain.SessionFor(user), nil
}

// ParseToken rebuilds the session carried by a token issued by Login.
func (s *AuthService) ParseToken(token string) (domain.Session, error) {
	return ParseSessionToken(token, s.jwtSecret)
}

func (s *AuthService) generateToken(sess domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"sub":   sess.UserID,
		"role":  string(sess.Role),
		"name":  sess.Name,
		"email": sess.Email,
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// ParseSessionToken validates an HS256 token and extracts its session.
func ParseSessionToken(token, secret string) (domain.Session, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !tkn.Valid {
		return domain.Session{}, domain.ErrInvalidCredentials
	}

	sess := domain.Session{}
	sess.UserID, _ = claims["sub"].(string)
	role, _ := claims["role"].(string)
	sess.Role = domain.Role(role)
	sess.Name, _ = claims["name"].(string)
	sess.Email, _ = claims["email"].(string)
	if !sess.IsAuthenticated() {
		return domain.Session{}, domain.ErrInvalidCredentials
	}
	return sess, nil
}
