package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/spotlesscleaning/site-server-go/internal/config"
	apperrors "github.com/spotlesscleaning/site-server-go/internal/errors"
	"github.com/spotlesscleaning/site-server-go/internal/model"
	"github.com/spotlesscleaning/site-server-go/internal/repository"
	"github.com/spotlesscleaning/site-server-go/internal/util"
)

// AuthService owns admin session issuance and validation. Tokens are
// random; only an HMAC of the token is stored, so a database leak does
// not leak usable sessions, and a forged cookie cannot name a session
// that was never issued.
type AuthService struct {
	userRepo      repository.AdminUserRepository
	sessionRepo   repository.AdminSessionRepository
	sessionSecret string
	dummyHash     string
}

func NewAuthService(
	userRepo repository.AdminUserRepository,
	sessionRepo repository.AdminSessionRepository,
	sessionSecret string,
) *AuthService {
	// Compared against when the email is unknown, so both failure modes
	// cost one bcrypt verification.
	dummy, err := bcrypt.GenerateFromPassword([]byte("spotless-dummy"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to generate dummy hash")
	}

	return &AuthService{
		userRepo:      userRepo,
		sessionRepo:   sessionRepo,
		sessionSecret: sessionSecret,
		dummyHash:     string(dummy),
	}
}

// Login verifies the credential pair and, on success, issues a session
// token valid for a week. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.AdminIdentity, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, util.NormalizeEmail(email))
	if err != nil {
		return nil, "", apperrors.StoreUnavailable(err)
	}

	if user == nil {
		util.CheckPasswordHash(password, s.dummyHash)
		return nil, "", apperrors.InvalidCredentials()
	}

	if !util.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", apperrors.InvalidCredentials()
	}

	token, err := util.GenerateToken()
	if err != nil {
		return nil, "", apperrors.Internal("failed to generate session token").WithCause(err)
	}

	tokenHash := util.HmacSHA256(s.sessionSecret, token)
	expiresAt := time.Now().Add(config.SessionMaxAge)

	_, err = s.sessionRepo.Create(ctx, model.CreateAdminSessionParams{
		TokenHash: tokenHash,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return nil, "", apperrors.StoreUnavailable(err)
	}

	return &model.AdminIdentity{ID: user.ID, Email: user.Email}, token, nil
}

// Verify resolves a session token back to the admin identity. Any miss
// along the way (no session, expired, user deleted) reads as
// unauthenticated, never as an internal error the client can probe.
func (s *AuthService) Verify(ctx context.Context, token string) (*model.AdminIdentity, error) {
	if token == "" {
		return nil, apperrors.InvalidToken()
	}

	tokenHash := util.HmacSHA256(s.sessionSecret, token)
	session, err := s.sessionRepo.FindByTokenHash(ctx, tokenHash)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	if session == nil {
		return nil, apperrors.InvalidToken()
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, apperrors.StoreUnavailable(err)
	}
	if user == nil {
		return nil, apperrors.InvalidToken()
	}

	return &model.AdminIdentity{ID: user.ID, Email: user.Email}, nil
}

// Logout deletes the server-side session row. Idempotent: logging out a
// token that was never issued is not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	tokenHash := util.HmacSHA256(s.sessionSecret, token)
	return s.sessionRepo.DeleteByTokenHash(ctx, tokenHash)
}

// SeedAdmin creates or refreshes the configured admin credential at
// startup. Credentials are otherwise managed out-of-band.
func (s *AuthService) SeedAdmin(ctx context.Context, email, passwordHash string) error {
	if email == "" || passwordHash == "" {
		return nil
	}

	user, err := s.userRepo.UpsertByEmail(ctx, util.NormalizeEmail(email), passwordHash)
	if err != nil {
		return err
	}

	log.Info().Str("email", user.Email).Msg("admin credential seeded")
	return nil
}
