package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"

	"conferencecentral/internal/domain"
)

const (
	loginCodeDigits     = 6
	loginCodeExpiryMins = 15
)

var (
	emailRegexp    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	loginCodeRegex = regexp.MustCompile(`^\d{6}$`)
)

type authService struct {
	loginCodeRepo domain.LoginCodeRepository
	codeHasher    domain.CodeHasher
	tokenIssuer   domain.TokenIssuer
	tokenExpiry   time.Duration
	emailService  domain.EmailService
}

// NewAuthService creates an AuthService for passwordless email login.
func NewAuthService(
	loginCodeRepo domain.LoginCodeRepository,
	codeHasher domain.CodeHasher,
	tokenIssuer domain.TokenIssuer,
	tokenExpiry time.Duration,
	emailService domain.EmailService,
) domain.AuthService {
	return &authService{
		loginCodeRepo: loginCodeRepo,
		codeHasher:    codeHasher,
		tokenIssuer:   tokenIssuer,
		tokenExpiry:   tokenExpiry,
		emailService:  emailService,
	}
}

func (s *authService) RequestLoginCode(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}
	code, err := generateLoginCode(loginCodeDigits)
	if err != nil {
		return fmt.Errorf("failed to generate code: %w", err)
	}
	codeHash, err := s.codeHasher.Hash(code)
	if err != nil {
		return fmt.Errorf("failed to hash code: %w", err)
	}
	expiresAt := time.Now().Add(loginCodeExpiryMins * time.Minute)
	if err := s.loginCodeRepo.Create(ctx, email, codeHash, expiresAt); err != nil {
		return fmt.Errorf("failed to store login code: %w", err)
	}
	if s.emailService != nil {
		data := &domain.LoginCodeEmailData{
			Email:            email,
			Code:             code,
			ExpiresInMinutes: loginCodeExpiryMins,
		}
		if err := s.emailService.SendLoginCode(ctx, data); err != nil {
			return fmt.Errorf("failed to send login code email: %w", err)
		}
	}
	return nil
}

func (s *authService) VerifyLoginCode(ctx context.Context, email, code string) (string, domain.Identity, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return "", domain.Identity{}, fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}
	code = strings.TrimSpace(code)
	if !loginCodeRegex.MatchString(code) {
		return "", domain.Identity{}, domain.ErrInvalidLoginCode
	}

	active, err := s.loginCodeRepo.ListActive(ctx, email)
	if err != nil {
		return "", domain.Identity{}, fmt.Errorf("failed to load login codes: %w", err)
	}
	var matched *domain.LoginCode
	for _, stored := range active {
		if s.codeHasher.Compare(stored.CodeHash, code) == nil {
			matched = stored
			break
		}
	}
	if matched == nil {
		return "", domain.Identity{}, domain.ErrInvalidLoginCode
	}
	if err := s.loginCodeRepo.Delete(ctx, matched.ID); err != nil {
		return "", domain.Identity{}, fmt.Errorf("failed to consume login code: %w", err)
	}

	identity := domain.Identity{UserID: DeriveUserID(email), Email: email}
	token, err := s.tokenIssuer.Issue(identity, s.tokenExpiry)
	if err != nil {
		return "", domain.Identity{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, identity, nil
}

// DeriveUserID returns the stable pseudonymous user ID for an email address.
// Profiles are keyed by this value, so the same email always maps to the
// same profile without a separate identity table.
func DeriveUserID(email string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(strings.ToLower(email))))
	return hex.EncodeToString(sum[:16])
}

func generateLoginCode(digits int) (string, error) {
	const digitspace = "0123456789"
	b := make([]byte, digits)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = digitspace[int(b[i])%len(digitspace)]
	}
	return string(b), nil
}
