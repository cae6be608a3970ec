package application

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/karilint/bones/internal/domain"
)

const sessionTTL = 24 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("session expired")
)

// BootstrapAdmin creates the initial user when the users table is empty.
func (s *SurveyService) BootstrapAdmin(ctx context.Context, email, password string) error {
	count, err := s.repo.CountUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	user, err := s.repo.CreateUser(ctx, domain.User{
		Email:        normalizeEmail(email),
		PasswordHash: hash,
	})
	if err != nil {
		return err
	}

	s.logger.Info("bootstrapped initial user", zap.String("email", user.Email))
	s.WriteAudit(ctx, domain.Identity{User: user}, "auth.bootstrap", "user", user.Email)
	return nil
}

// LoginWithSession verifies credentials and mints a session token. The
// returned token is the plain value for the cookie; only its hash is
// stored.
func (s *SurveyService) LoginWithSession(ctx context.Context, email, password string) (string, domain.Identity, error) {
	user, err := s.authenticateEmailPassword(ctx, email, password)
	if err != nil {
		return "", domain.Identity{}, err
	}

	plain, hash, err := newTokenPair()
	if err != nil {
		return "", domain.Identity{}, err
	}
	_, err = s.repo.CreateSession(ctx, domain.AuthSession{
		UserID:    user.ID,
		TokenHash: hash,
		ExpiresAt: time.Now().Add(sessionTTL),
	})
	if err != nil {
		return "", domain.Identity{}, err
	}

	identity := domain.Identity{User: user}
	s.WriteAudit(ctx, identity, "auth.login", "session", user.Email)
	return plain, identity, nil
}

// LoginWithAPIToken verifies credentials and mints a named long-lived
// bearer token for the CLI.
func (s *SurveyService) LoginWithAPIToken(ctx context.Context, email, password, tokenName string) (string, domain.Identity, error) {
	user, err := s.authenticateEmailPassword(ctx, email, password)
	if err != nil {
		return "", domain.Identity{}, err
	}
	if tokenName == "" {
		tokenName = "cli"
	}

	plain, hash, err := newTokenPair()
	if err != nil {
		return "", domain.Identity{}, err
	}
	_, err = s.repo.CreateAPIToken(ctx, domain.APIToken{
		UserID:    user.ID,
		Name:      tokenName,
		TokenHash: hash,
	})
	if err != nil {
		return "", domain.Identity{}, err
	}

	identity := domain.Identity{User: user}
	s.WriteAudit(ctx, identity, "auth.token", "api_token", tokenName)
	return plain, identity, nil
}

func (s *SurveyService) AuthenticateSession(ctx context.Context, token string) (domain.Identity, error) {
	session, err := s.repo.GetSessionByTokenHash(ctx, hashToken(token))
	if err != nil {
		return domain.Identity{}, ErrInvalidCredentials
	}
	if time.Now().After(session.ExpiresAt) {
		_ = s.repo.DeleteSessionByTokenHash(ctx, session.TokenHash)
		return domain.Identity{}, ErrSessionExpired
	}
	return s.identityByUserID(ctx, session.UserID)
}

func (s *SurveyService) AuthenticateBearerToken(ctx context.Context, token string) (domain.Identity, error) {
	apiToken, err := s.repo.GetAPITokenByTokenHash(ctx, hashToken(token))
	if err != nil {
		return domain.Identity{}, ErrInvalidCredentials
	}
	if apiToken.ExpiresAt != nil && time.Now().After(*apiToken.ExpiresAt) {
		return domain.Identity{}, ErrSessionExpired
	}
	return s.identityByUserID(ctx, apiToken.UserID)
}

func (s *SurveyService) LogoutSession(ctx context.Context, token string) error {
	identity, authErr := s.AuthenticateSession(ctx, token)
	if err := s.repo.DeleteSessionByTokenHash(ctx, hashToken(token)); err != nil {
		return err
	}
	if authErr == nil {
		s.WriteAudit(ctx, identity, "auth.logout", "session", identity.User.Email)
	}
	return nil
}

func (s *SurveyService) authenticateEmailPassword(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *SurveyService) identityByUserID(ctx context.Context, userID uint) (domain.Identity, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return domain.Identity{}, ErrInvalidCredentials
	}
	return domain.Identity{User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func newTokenPair() (plain string, hash string, err error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", "", err
	}
	plain = base64.RawURLEncoding.EncodeToString(raw)
	return plain, hashToken(plain), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
