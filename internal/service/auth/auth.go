// internal/service/auth/auth.go
package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"crm-service/internal/domain/auth"
	xerrors "crm-service/internal/pkg/errors"
	"crm-service/internal/pkg/token"

	"go.uber.org/zap"
)

// OTP codes are drawn uniformly from [10000, 99999] so every code is
// exactly five digits.
const (
	otpCodeMin  = 10000
	otpCodeSpan = 90000
)

// Store is the persistence surface the auth flow needs.
type Store interface {
	GetOrCreatePhoneNumber(ctx context.Context, value string) (*auth.PhoneNumber, bool, error)
	FindPhoneNumber(ctx context.Context, value string) (*auth.PhoneNumber, error)
	CreateOTP(ctx context.Context, otp *auth.OTP) error
	FindValidOTP(ctx context.Context, phone, code string, now time.Time) (*auth.OTP, error)
	ConsumeOTP(ctx context.Context, id int64, now time.Time) (bool, error)
	GetOrCreateUser(ctx context.Context, phone string) (*auth.User, error)
	GetToken(ctx context.Context, userID int64) (*auth.AuthToken, error)
	CreateToken(ctx context.Context, t *auth.AuthToken) error
	ReplaceToken(ctx context.Context, t *auth.AuthToken) error
	FindUserByToken(ctx context.Context, tokenString string) (*auth.User, error)
}

// CredentialCache is the optional fast path for bearer lookups.
type CredentialCache interface {
	Put(ctx context.Context, token string, userID int64) error
	GetUserID(ctx context.Context, token string) (int64, bool, error)
	Invalidate(ctx context.Context, token string) error
}

// RateLimiter throttles OTP issuance per phone number.
type RateLimiter interface {
	Allow(ctx context.Context, phone string) (bool, error)
}

type AuthService struct {
	store   Store
	tokens  *token.Manager
	cache   CredentialCache
	limiter RateLimiter
	logger  *zap.Logger

	otpTTL time.Duration
	now    func() time.Time
}

// NewAuthService wires the OTP login flow. cache and limiter may be nil,
// which disables the Redis fast path and issuance throttling.
func NewAuthService(store Store, tokens *token.Manager, cache CredentialCache, limiter RateLimiter, otpTTL time.Duration, logger *zap.Logger) *AuthService {
	if otpTTL <= 0 {
		otpTTL = 5 * time.Minute
	}
	return &AuthService{
		store:   store,
		tokens:  tokens,
		cache:   cache,
		limiter: limiter,
		logger:  logger,
		otpTTL:  otpTTL,
		now:     time.Now,
	}
}

// WithClock overrides the service clock. Test hook.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// RegisterPhone ensures a phone number exists, creating it if absent.
// The bool reports whether the number was newly registered.
func (s *AuthService) RegisterPhone(ctx context.Context, raw string) (*auth.PhoneNumber, bool, error) {
	phone, err := normalizePhone(raw)
	if err != nil {
		return nil, false, err
	}

	pn, created, err := s.store.GetOrCreatePhoneNumber(ctx, phone)
	if err != nil {
		return nil, false, err
	}

	if created {
		s.logger.Info("phone number registered", zap.String("phone", phone))
	}
	return pn, created, nil
}

// RequestOTP issues a fresh 5-digit code for an already-registered phone
// number. Previously issued codes stay usable until they are consumed or
// expire. Returns ErrNotFound for unregistered numbers.
func (s *AuthService) RequestOTP(ctx context.Context, raw string) (*auth.OTP, error) {
	phone, err := normalizePhone(raw)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.FindPhoneNumber(ctx, phone); err != nil {
		return nil, err
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, phone)
		if err != nil {
			// Throttling is advisory; an unreachable limiter must not
			// block logins
			s.logger.Warn("otp rate limiter unavailable", zap.Error(err))
		} else if !allowed {
			return nil, xerrors.ErrRateLimited
		}
	}

	code, err := generateCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate otp code: %w", err)
	}

	now := s.now()
	otp := &auth.OTP{
		PhoneNumber: phone,
		Code:        code,
		IsValid:     true,
		ExpiresAt:   now.Add(s.otpTTL),
	}

	if err := s.store.CreateOTP(ctx, otp); err != nil {
		return nil, err
	}

	s.logger.Info("otp issued",
		zap.String("phone", phone),
		zap.Time("expires_at", otp.ExpiresAt),
	)
	return otp, nil
}

// VerifyOTP checks a (phone, code) pair, consumes the code exactly once,
// and returns the user together with their bearer credential. Every
// failure mode surfaces as ErrInvalidCredential so a caller cannot tell
// a wrong code from an expired or already-used one.
func (s *AuthService) VerifyOTP(ctx context.Context, rawPhone, code string) (*auth.User, string, error) {
	phone, err := normalizePhone(rawPhone)
	if err != nil {
		return nil, "", err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, "", xerrors.ErrInvalidInput
	}

	if _, err := s.store.FindPhoneNumber(ctx, phone); err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, "", xerrors.ErrInvalidCredential
		}
		return nil, "", err
	}

	now := s.now()
	otp, err := s.store.FindValidOTP(ctx, phone, code, now)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, "", xerrors.ErrInvalidCredential
		}
		return nil, "", err
	}

	consumed, err := s.store.ConsumeOTP(ctx, otp.ID, now)
	if err != nil {
		return nil, "", err
	}
	if !consumed {
		// Lost the race against a concurrent verification
		return nil, "", xerrors.ErrInvalidCredential
	}

	user, err := s.store.GetOrCreateUser(ctx, phone)
	if err != nil {
		return nil, "", err
	}

	credential, err := s.credentialFor(ctx, user)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("otp verified",
		zap.String("phone", phone),
		zap.Int64("user_id", user.ID),
	)
	return user, credential, nil
}

// Authenticate resolves a bearer credential to its user. Used by the
// auth middleware on every protected request.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*auth.User, error) {
	claims, err := s.tokens.Parse(tokenString)
	if err != nil {
		return nil, xerrors.ErrUnauthorized
	}

	if s.cache != nil {
		userID, ok, err := s.cache.GetUserID(ctx, tokenString)
		if err != nil {
			s.logger.Warn("credential cache lookup failed", zap.Error(err))
		} else if ok && userID == claims.UserID {
			return &auth.User{ID: claims.UserID, PhoneNumber: claims.PhoneNumber}, nil
		}
	}

	user, err := s.store.FindUserByToken(ctx, tokenString)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.ErrUnauthorized
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, tokenString, user.ID); err != nil {
			s.logger.Warn("credential cache put failed", zap.Error(err))
		}
	}

	return user, nil
}

// credentialFor returns the user's stored token, minting one on the
// first verification. A stored token that no longer verifies (its
// signing TTL has elapsed) is replaced rather than returned, so a
// fresh OTP login always yields a usable credential. auth_tokens is
// keyed by user_id so concurrent first logins can insert at most one
// row; the loser rereads.
func (s *AuthService) credentialFor(ctx context.Context, user *auth.User) (string, error) {
	existing, err := s.store.GetToken(ctx, user.ID)
	if err == nil {
		if _, parseErr := s.tokens.Parse(existing.Token); parseErr == nil {
			return existing.Token, nil
		}
		return s.replaceCredential(ctx, user, existing.Token)
	}
	if !errors.Is(err, xerrors.ErrNotFound) {
		return "", err
	}

	signed, jti, err := s.tokens.Mint(user.ID, user.PhoneNumber)
	if err != nil {
		return "", fmt.Errorf("failed to mint credential: %w", err)
	}

	t := &auth.AuthToken{UserID: user.ID, Token: signed, JTI: jti}
	if err := s.store.CreateToken(ctx, t); err != nil {
		if existing, getErr := s.store.GetToken(ctx, user.ID); getErr == nil {
			return existing.Token, nil
		}
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, signed, user.ID); err != nil {
			s.logger.Warn("credential cache put failed", zap.Error(err))
		}
	}

	return signed, nil
}

// replaceCredential re-mints a dead stored token and drops its cache
// entry.
func (s *AuthService) replaceCredential(ctx context.Context, user *auth.User, stale string) (string, error) {
	signed, jti, err := s.tokens.Mint(user.ID, user.PhoneNumber)
	if err != nil {
		return "", fmt.Errorf("failed to mint credential: %w", err)
	}

	if err := s.store.ReplaceToken(ctx, &auth.AuthToken{UserID: user.ID, Token: signed, JTI: jti}); err != nil {
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, stale); err != nil {
			s.logger.Warn("credential cache invalidate failed", zap.Error(err))
		}
		if err := s.cache.Put(ctx, signed, user.ID); err != nil {
			s.logger.Warn("credential cache put failed", zap.Error(err))
		}
	}

	s.logger.Info("expired credential replaced", zap.Int64("user_id", user.ID))
	return signed, nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpCodeSpan))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", otpCodeMin+n.Int64()), nil
}

func normalizePhone(raw string) (string, error) {
	phone := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.':
			return -1
		}
		return r
	}, strings.TrimSpace(raw))

	digits := 0
	for i, r := range phone {
		if r == '+' && i == 0 {
			continue
		}
		if r < '0' || r > '9' {
			return "", xerrors.ErrInvalidInput
		}
		digits++
	}
	if digits < 5 {
		return "", xerrors.ErrInvalidInput
	}

	return phone, nil
}
