// Package services contains the server-side business logic. AuthService is
// the orchestrator: it composes the credential store, the token codec, and
// the session registry into the login / refresh / logout flows, and it is
// the trust boundary where the internal error taxonomy collapses into a
// single unauthorized signal.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/swappo/authsvc/internal/common"
	"github.com/swappo/authsvc/internal/logging"
	"github.com/swappo/authsvc/internal/server/auth"
	"github.com/swappo/authsvc/internal/server/models"
	"github.com/swappo/authsvc/internal/server/repositories/sessions"
	"github.com/swappo/authsvc/internal/server/repositories/users"
)

// storageTimeout bounds every storage round trip so a slow or failed
// backend surfaces as an error instead of hanging the caller.
const storageTimeout = 5 * time.Second

// TokenPair bundles a short-lived access token and a long-lived refresh
// token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthService struct {
	users    users.Repository
	sessions sessions.Repository
	codec    *auth.Codec
	logger   logging.Logger

	// dummyHash is compared against when the identifier is unknown, so a
	// miss costs the same hashing work as a password mismatch and cannot be
	// told apart by timing.
	dummyHash string
}

func NewAuthService(u users.Repository, s sessions.Repository, codec *auth.Codec, logger logging.Logger) *AuthService {
	dummyHash, _ := auth.HashPassword(uuid.NewString())
	return &AuthService{
		users:     u,
		sessions:  s,
		codec:     codec,
		logger:    logger.With("module", "auth_service"),
		dummyHash: dummyHash,
	}
}

// Register creates a new user. A taken email or username surfaces as
// common.ErrorAlreadyExists: registration is not an authentication
// decision, so the conflict is not collapsed.
func (s *AuthService) Register(ctx context.Context, email, username, fullName, password string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	hash, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		FullName:     fullName,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, s.storageErr(ctx, "users.Create", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", created.ID)
	return created, nil
}

// Login verifies the credentials and, on success, returns a fresh token
// pair and records the refresh token in the registry. Every rejection
// reads the same from the outside: common.ErrorUnauthorized, with the real
// reason kept to the logs.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			auth.CheckPassword(password, s.dummyHash)
			s.logger.Info(ctx, "login rejected", "reason", "unknown identifier")
			return nil, common.ErrorUnauthorized
		}
		return nil, s.storageErr(ctx, "users.GetByEmail", err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		s.logger.Info(ctx, "login rejected", "reason", "password mismatch", "user_id", user.ID)
		return nil, common.ErrorUnauthorized
	}

	if !user.IsActive {
		s.logger.Info(ctx, "login rejected", "reason", "account deactivated", "user_id", user.ID)
		return nil, common.ErrorUnauthorized
	}

	return s.issuePair(ctx, user.ID)
}

// Refresh rotates a refresh token: the presented token is revoked and a new
// pair is issued. The conditional revoke is the serialization point, so of
// two concurrent calls with the same token exactly one wins; the loser and
// any replay of a rotated token get common.ErrorUnauthorized.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	claims, err := s.verifyActiveRefresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Info(ctx, "refresh rejected", "reason", "user absent", "user_id", claims.Subject)
			return nil, common.ErrorUnauthorized
		}
		return nil, s.storageErr(ctx, "users.GetByID", err)
	}
	if !user.IsActive {
		s.logger.Info(ctx, "refresh rejected", "reason", "account deactivated", "user_id", user.ID)
		return nil, common.ErrorUnauthorized
	}

	did, err := s.sessions.Revoke(ctx, claims.ID)
	if err != nil {
		return nil, s.storageErr(ctx, "sessions.Revoke", err)
	}
	if !did {
		s.logger.Info(ctx, "refresh rejected", "reason", "lost rotation race", "jti", claims.ID)
		return nil, common.ErrorUnauthorized
	}

	return s.issuePair(ctx, user.ID)
}

// Logout revokes the presented refresh token. Revoking an already revoked
// or unknown token is reported as unauthorized, matching Refresh.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	claims, err := s.verifyActiveRefresh(ctx, refreshToken)
	if err != nil {
		return err
	}

	did, err := s.sessions.Revoke(ctx, claims.ID)
	if err != nil {
		return s.storageErr(ctx, "sessions.Revoke", err)
	}
	if !did {
		return common.ErrorUnauthorized
	}

	s.logger.Info(ctx, "logged out", "user_id", claims.Subject, "jti", claims.ID)
	return nil
}

// LogoutAll revokes every active refresh session owned by userID.
func (s *AuthService) LogoutAll(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	if err := s.sessions.RevokeAllForUser(ctx, userID); err != nil {
		return s.storageErr(ctx, "sessions.RevokeAllForUser", err)
	}

	s.logger.Info(ctx, "logged out everywhere", "user_id", userID)
	return nil
}

// GetUser resolves a user id (typically the subject of a verified access
// token) to the stored identity.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, s.storageErr(ctx, "users.GetByID", err)
	}
	return user, nil
}

// ChangePassword verifies the old password, stores the new hash, and
// revokes every refresh session of the user, so stolen refresh tokens die
// with the old password.
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	ctx, cancel := context.WithTimeout(ctx, storageTimeout)
	defer cancel()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return s.storageErr(ctx, "users.GetByID", err)
	}

	if !auth.CheckPassword(oldPassword, user.PasswordHash) {
		s.logger.Info(ctx, "password change rejected", "reason", "password mismatch", "user_id", userID)
		return common.ErrorUnauthorized
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err.Error())
		return common.ErrorInternal
	}

	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return s.storageErr(ctx, "users.UpdatePassword", err)
	}

	if err := s.sessions.RevokeAllForUser(ctx, userID); err != nil {
		return s.storageErr(ctx, "sessions.RevokeAllForUser", err)
	}

	s.logger.Info(ctx, "password changed", "user_id", userID)
	return nil
}

// VerifyAccessToken validates an access token and returns its subject.
// Used by the transport adapter to guard authenticated routes.
func (s *AuthService) VerifyAccessToken(tokenString string) (string, error) {
	claims, err := s.codec.Verify(auth.KindAccess, tokenString)
	if err != nil {
		return "", common.ErrorUnauthorized
	}
	return claims.Subject, nil
}

// verifyActiveRefresh checks the token's signature, kind, and expiry, then
// confirms the registry still considers it live.
func (s *AuthService) verifyActiveRefresh(ctx context.Context, refreshToken string) (*auth.Claims, error) {
	claims, err := s.codec.Verify(auth.KindRefresh, refreshToken)
	if err != nil {
		s.logger.Info(ctx, "refresh token rejected", "reason", err.Error())
		return nil, common.ErrorUnauthorized
	}

	active, err := s.sessions.IsActive(ctx, claims.ID)
	if err != nil {
		return nil, s.storageErr(ctx, "sessions.IsActive", err)
	}
	if !active {
		s.logger.Info(ctx, "refresh token rejected", "reason", "inactive session", "jti", claims.ID)
		return nil, common.ErrorUnauthorized
	}

	return claims, nil
}

func (s *AuthService) issuePair(ctx context.Context, userID string) (*TokenPair, error) {
	access, _, err := s.codec.Issue(auth.KindAccess, userID)
	if err != nil {
		s.logger.Error(ctx, "access token issue failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	refresh, claims, err := s.codec.Issue(auth.KindRefresh, userID)
	if err != nil {
		s.logger.Error(ctx, "refresh token issue failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	session := &models.Session{
		ID:        claims.ID,
		UserID:    userID,
		ExpiresAt: claims.ExpiresAt.Time,
		CreatedAt: claims.IssuedAt.Time,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, s.storageErr(ctx, "sessions.Create", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// storageErr hides backend details from callers: the cause goes to the log,
// the caller sees a retryable storage failure.
func (s *AuthService) storageErr(ctx context.Context, op string, err error) error {
	s.logger.Error(ctx, "storage failure", "op", op, "error", err.Error())
	return common.ErrorStorageUnavailable
}
