package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/metrics"
	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/model"
)

const (
	MinPasswordLen = 8
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrAccountDeactivated = errors.New("account is deactivated")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidOTP         = errors.New("invalid or expired code")
	ErrInternal           = errors.New("internal error")
)

// UserStore is the slice of the user repository the auth flow needs.
type UserStore interface {
	Create(ctx context.Context, email, passwordHash, firstName, lastName, role string) (int64, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string, changedAt time.Time) error
	UpdateLastLogin(ctx context.Context, id int64) error
	SetEmailVerified(ctx context.Context, email string) error
}

// OTPStore issues and consumes one-time codes.
type OTPStore interface {
	Create(ctx context.Context, email, code string, otpType model.OTPType, expiresAt time.Time) (int64, error)
	Consume(ctx context.Context, email, code string, otpType model.OTPType) error
	RegisterFailedAttempt(ctx context.Context, email string, otpType model.OTPType) error
}

type AuthService struct {
	Users          UserStore
	OTPs           OTPStore
	Mailer         EmailSender
	EmailValidator EmailValidator

	AdminEmail    string
	AdminPassword string

	Metrics *metrics.Collector // optional
}

func NewAuthService(users UserStore, otps OTPStore, validator EmailValidator, mailer EmailSender, adminEmail, adminPassword string) *AuthService {
	return &AuthService{
		Users:          users,
		OTPs:           otps,
		Mailer:         mailer,
		EmailValidator: validator,
		AdminEmail:     adminEmail,
		AdminPassword:  adminPassword,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) validateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	if !emailRegex.MatchString(email) {
		return errors.New("invalid email format")
	}
	return nil
}

func (s *AuthService) validatePassword(pw string) error {
	if len(pw) < MinPasswordLen {
		return fmt.Errorf("password too short: must be at least %d characters", MinPasswordLen)
	}
	return nil
}

// generateCode returns a random 6-digit numeric code.
func generateCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		panic(err) // crypto/rand failure means the process is unusable
	}
	return fmt.Sprintf("%06d", n.Int64())
}

func otpPurpose(t model.OTPType) string {
	switch t {
	case model.OTPTypePasswordReset:
		return "reset your password"
	case model.OTPTypeLoginVerification:
		return "sign in"
	default:
		return "verify your email"
	}
}

// Register creates a traveller account with role "user" and emails an
// email-verification code.
func (s *AuthService) Register(ctx context.Context, email, password, firstName, lastName string) (int64, error) {
	email = normalizeEmail(email)
	if err := s.validateEmail(email); err != nil {
		return 0, err
	}
	if err := s.validatePassword(password); err != nil {
		return 0, err
	}
	if s.EmailValidator != nil {
		if err := s.EmailValidator.Validate(ctx, email); err != nil {
			return 0, err
		}
	}
	exists, err := s.Users.EmailExists(ctx, email)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}
	userID, err := s.Users.Create(ctx, email, string(hash), firstName, lastName, model.RoleUser)
	if err != nil {
		return 0, err
	}
	if err := s.issueOTP(ctx, email, model.OTPTypeEmailVerification); err != nil {
		// account exists; the caller can re-request a code
		return userID, err
	}
	return userID, nil
}

// RegisterByAdmin creates staff accounts. Role "user" stays self-service only.
func (s *AuthService) RegisterByAdmin(ctx context.Context, email, password, firstName, lastName, role string) (int64, error) {
	if role == "" {
		return 0, errors.New("role required")
	}
	if !model.ValidRole(role) {
		return 0, errors.New("unknown role")
	}
	if role == model.RoleUser {
		return 0, errors.New("admins cannot create user accounts")
	}
	email = normalizeEmail(email)
	if err := s.validateEmail(email); err != nil {
		return 0, err
	}
	if err := s.validatePassword(password); err != nil {
		return 0, err
	}
	exists, err := s.Users.EmailExists(ctx, email)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}
	id, err := s.Users.Create(ctx, email, string(hash), firstName, lastName, role)
	if err != nil {
		return 0, err
	}
	// staff accounts are provisioned by a trusted admin; skip the OTP round-trip
	if err := s.Users.SetEmailVerified(ctx, email); err != nil {
		return id, err
	}
	return id, nil
}

// Login authenticates with email + password and returns the user. The error
// never reveals whether the email exists.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = normalizeEmail(email)
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		// only a missing account collapses into the opaque credential
		// failure; a store outage is not the caller's fault
		if errors.Is(err, model.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrAccountDeactivated
	}
	if !u.IsEmailVerified {
		return nil, ErrEmailNotVerified
	}
	if err := s.Users.UpdateLastLogin(ctx, u.UserID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	u.PasswordHash = ""
	return u, nil
}

// RequestOTP issues a fresh code for the given purpose. For an unknown
// email it silently does nothing so callers cannot probe for accounts.
func (s *AuthService) RequestOTP(ctx context.Context, email string, otpType model.OTPType) error {
	email = normalizeEmail(email)
	if err := s.validateEmail(email); err != nil {
		return err
	}
	if !model.ValidOTPType(otpType) {
		return errors.New("unknown code type")
	}
	exists, err := s.Users.EmailExists(ctx, email)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	return s.issueOTP(ctx, email, otpType)
}

func (s *AuthService) issueOTP(ctx context.Context, email string, otpType model.OTPType) error {
	code := generateCode()
	if _, err := s.OTPs.Create(ctx, email, code, otpType, time.Now().Add(model.OTPTTL)); err != nil {
		return err
	}
	if s.Metrics != nil {
		s.Metrics.RecordOTPIssued(string(otpType))
	}
	if s.Mailer == nil {
		return nil
	}
	return s.Mailer.SendOTP(ctx, email, code, otpPurpose(otpType))
}

// VerifyOTP consumes a code. A wrong guess is charged against the
// outstanding code's attempt budget. On success the email-verification
// purpose marks the account verified; login-verification returns the user
// so the caller can issue a token.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string, otpType model.OTPType) (*model.User, error) {
	email = normalizeEmail(email)
	if !model.ValidOTPType(otpType) {
		return nil, errors.New("unknown code type")
	}
	if err := s.consumeOTP(ctx, email, code, otpType); err != nil {
		return nil, err
	}

	switch otpType {
	case model.OTPTypeEmailVerification:
		if err := s.Users.SetEmailVerified(ctx, email); err != nil {
			return nil, err
		}
	case model.OTPTypeLoginVerification:
		u, err := s.Users.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if !u.IsActive {
			return nil, ErrAccountDeactivated
		}
		if err := s.Users.UpdateLastLogin(ctx, u.UserID); err != nil {
			return nil, err
		}
		u.PasswordHash = ""
		return u, nil
	}
	return nil, nil
}

func (s *AuthService) consumeOTP(ctx context.Context, email, code string, otpType model.OTPType) error {
	err := s.OTPs.Consume(ctx, email, code, otpType)
	if err == nil {
		if s.Metrics != nil {
			s.Metrics.RecordOTPVerified(string(otpType))
		}
		return nil
	}
	if errors.Is(err, model.ErrNotFound) {
		if aerr := s.OTPs.RegisterFailedAttempt(ctx, email, otpType); aerr != nil {
			return aerr
		}
		return ErrInvalidOTP
	}
	return err
}

// passwordChangedStamp is set strictly before the write completes so that
// any token issued earlier, even in the same second, fails the
// password-changed-at check.
func passwordChangedStamp() time.Time {
	return time.Now().Add(-time.Second)
}

// ChangePassword rotates the password of an authenticated user after
// verifying the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	if err := s.validatePassword(newPassword); err != nil {
		return err
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.Users.UpdatePassword(ctx, u.UserID, string(hash), passwordChangedStamp())
}

// ResetPassword sets a new password against a valid password-reset code.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = normalizeEmail(email)
	if err := s.validatePassword(newPassword); err != nil {
		return err
	}
	if err := s.consumeOTP(ctx, email, code, model.OTPTypePasswordReset); err != nil {
		return err
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.Users.UpdatePassword(ctx, u.UserID, string(hash), passwordChangedStamp())
}

// Seed bootstraps the admin account from configuration. Idempotent: it
// reports whether an account was created.
func (s *AuthService) Seed(ctx context.Context) (bool, error) {
	if s.AdminEmail == "" || s.AdminPassword == "" {
		return false, errors.New("admin credentials not configured")
	}
	email := normalizeEmail(s.AdminEmail)
	exists, err := s.Users.EmailExists(ctx, email)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(s.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	if _, err := s.Users.Create(ctx, email, string(hash), "Site", "Admin", model.RoleAdmin); err != nil {
		if errors.Is(err, model.ErrDuplicate) {
			return false, nil
		}
		return false, err
	}
	if err := s.Users.SetEmailVerified(ctx, email); err != nil {
		return true, err
	}
	return true, nil
}
