package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/alpha-brackets/Dazzling-Tours-sub000/internal/model"
)

// ---- fakes ----

type fakeUserStore struct {
	nextID  int64
	byID    map[int64]*model.User
	byEmail map[string]int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byID: map[int64]*model.User{}, byEmail: map[string]int64{}}
}

func (f *fakeUserStore) Create(ctx context.Context, email, hash, first, last, role string) (int64, error) {
	if _, ok := f.byEmail[email]; ok {
		return 0, model.ErrDuplicate
	}
	f.nextID++
	u := &model.User{
		UserID: f.nextID, Email: email, PasswordHash: hash,
		FirstName: first, LastName: last, Role: role,
		IsActive: true, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	f.byID[u.UserID] = u
	f.byEmail[email] = u.UserID
	return u.UserID, nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	id, ok := f.byEmail[email]
	if !ok {
		return nil, model.ErrNotFound
	}
	return f.GetByID(ctx, id)
}

func (f *fakeUserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	_, ok := f.byEmail[email]
	return ok, nil
}

func (f *fakeUserStore) UpdatePassword(ctx context.Context, id int64, hash string, changedAt time.Time) error {
	u, ok := f.byID[id]
	if !ok {
		return model.ErrNotFound
	}
	u.PasswordHash = hash
	u.PasswordChangedAt = &changedAt
	return nil
}

func (f *fakeUserStore) UpdateLastLogin(ctx context.Context, id int64) error {
	u, ok := f.byID[id]
	if !ok {
		return model.ErrNotFound
	}
	now := time.Now()
	u.LastLogin = &now
	return nil
}

func (f *fakeUserStore) SetEmailVerified(ctx context.Context, email string) error {
	id, ok := f.byEmail[email]
	if !ok {
		return model.ErrNotFound
	}
	f.byID[id].IsEmailVerified = true
	return nil
}

type storedOTP struct {
	email     string
	code      string
	otpType   model.OTPType
	expiresAt time.Time
	used      bool
	attempts  int
}

// fakeOTPStore mirrors the SQL contract of the real repository, including
// supersede-on-create and the single atomic consume.
type fakeOTPStore struct {
	otps []*storedOTP
}

func (f *fakeOTPStore) Create(ctx context.Context, email, code string, otpType model.OTPType, expiresAt time.Time) (int64, error) {
	for _, o := range f.otps {
		if o.email == email && o.otpType == otpType && !o.used {
			o.used = true
		}
	}
	f.otps = append(f.otps, &storedOTP{email: email, code: code, otpType: otpType, expiresAt: expiresAt})
	return int64(len(f.otps)), nil
}

func (f *fakeOTPStore) Consume(ctx context.Context, email, code string, otpType model.OTPType) error {
	for _, o := range f.otps {
		if o.email == email && o.code == code && o.otpType == otpType &&
			!o.used && o.expiresAt.After(time.Now()) && o.attempts < model.OTPMaxAttempts {
			o.used = true
			return nil
		}
	}
	return model.ErrNotFound
}

func (f *fakeOTPStore) RegisterFailedAttempt(ctx context.Context, email string, otpType model.OTPType) error {
	for _, o := range f.otps {
		if o.email == email && o.otpType == otpType && !o.used && o.expiresAt.After(time.Now()) {
			o.attempts++
		}
	}
	return nil
}

func (f *fakeOTPStore) latest(email string, otpType model.OTPType) *storedOTP {
	for i := len(f.otps) - 1; i >= 0; i-- {
		if f.otps[i].email == email && f.otps[i].otpType == otpType {
			return f.otps[i]
		}
	}
	return nil
}

type sentMail struct {
	to, code, purpose string
}

type fakeMailer struct {
	sent          []sentMail
	confirmations []string
}

func (f *fakeMailer) SendOTP(ctx context.Context, to, code, purpose string) error {
	f.sent = append(f.sent, sentMail{to, code, purpose})
	return nil
}

func (f *fakeMailer) SendBookingConfirmation(ctx context.Context, to, title string, id int64) error {
	f.confirmations = append(f.confirmations, to)
	return nil
}

// ---- helpers ----

func newTestAuthService() (*AuthService, *fakeUserStore, *fakeOTPStore, *fakeMailer) {
	users := newFakeUserStore()
	otps := &fakeOTPStore{}
	mailer := &fakeMailer{}
	svc := NewAuthService(users, otps, NewLocalValidator(), mailer, "admin@example.com", "super-secret-admin")
	return svc, users, otps, mailer
}

func mustRegisterVerified(t *testing.T, svc *AuthService, users *fakeUserStore, email, password string) int64 {
	t.Helper()
	id, err := svc.Register(context.Background(), email, password, "Jo", "Doe")
	require.NoError(t, err)
	require.NoError(t, users.SetEmailVerified(context.Background(), email))
	return id
}

// ---- tests ----

func TestRegister_Validation(t *testing.T) {
	svc, _, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "longenough", "A", "B")
	assert.EqualError(t, err, "email is required")

	_, err = svc.Register(ctx, "not-an-email", "longenough", "A", "B")
	assert.EqualError(t, err, "invalid email format")

	_, err = svc.Register(ctx, "a@b.com", "short", "A", "B")
	assert.ErrorContains(t, err, "password too short")
}

func TestRegister_SendsVerificationCode(t *testing.T) {
	svc, _, otps, mailer := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "Jo@Example.COM", "password123", "Jo", "Doe")
	require.NoError(t, err)

	// email is normalized to lowercase
	o := otps.latest("jo@example.com", model.OTPTypeEmailVerification)
	require.NotNil(t, o)
	assert.Len(t, o.code, 6)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "jo@example.com", mailer.sent[0].to)
	assert.Equal(t, o.code, mailer.sent[0].code)

	_, err = svc.Register(ctx, "jo@example.com", "password123", "Jo", "Doe")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc, users, _, _ := newTestAuthService()
	ctx := context.Background()

	id := mustRegisterVerified(t, svc, users, "jo@example.com", "password123")

	u, err := svc.Login(ctx, "jo@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, id, u.UserID)
	assert.Empty(t, u.PasswordHash)
	assert.NotNil(t, u.LastLogin)

	_, err = svc.Login(ctx, "jo@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// unknown email answers exactly like a wrong password
	_, err = svc.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

type erroringUserStore struct {
	*fakeUserStore
	getByEmailErr error
}

func (e *erroringUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if e.getByEmailErr != nil {
		return nil, e.getByEmailErr
	}
	return e.fakeUserStore.GetByEmail(ctx, email)
}

func TestLogin_StoreOutageIsNotCredentialFailure(t *testing.T) {
	svc, users, _, _ := newTestAuthService()
	ctx := context.Background()

	mustRegisterVerified(t, svc, users, "jo@example.com", "password123")
	svc.Users = &erroringUserStore{fakeUserStore: users, getByEmailErr: errors.New("db down")}

	_, err := svc.Login(ctx, "jo@example.com", "password123")
	assert.ErrorIs(t, err, ErrInternal)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_Deactivated(t *testing.T) {
	svc, users, _, _ := newTestAuthService()
	ctx := context.Background()

	id := mustRegisterVerified(t, svc, users, "jo@example.com", "password123")
	users.byID[id].IsActive = false

	_, err := svc.Login(ctx, "jo@example.com", "password123")
	assert.ErrorIs(t, err, ErrAccountDeactivated)
}

func TestLogin_Unverified(t *testing.T) {
	svc, _, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "jo@example.com", "password123", "Jo", "Doe")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "jo@example.com", "password123")
	assert.ErrorIs(t, err, ErrEmailNotVerified)
}

func TestRequestOTP_UnknownEmailStaysSilent(t *testing.T) {
	svc, _, otps, mailer := newTestAuthService()
	ctx := context.Background()

	err := svc.RequestOTP(ctx, "ghost@example.com", model.OTPTypePasswordReset)
	require.NoError(t, err)
	assert.Empty(t, otps.otps)
	assert.Empty(t, mailer.sent)
}

func TestVerifyOTP_ConsumesExactlyOnce(t *testing.T) {
	svc, users, otps, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "jo@example.com", "password123", "Jo", "Doe")
	require.NoError(t, err)
	code := otps.latest("jo@example.com", model.OTPTypeEmailVerification).code

	_, err = svc.VerifyOTP(ctx, "jo@example.com", code, model.OTPTypeEmailVerification)
	require.NoError(t, err)
	assert.True(t, users.byID[1].IsEmailVerified)

	// replaying the same code must fail
	_, err = svc.VerifyOTP(ctx, "jo@example.com", code, model.OTPTypeEmailVerification)
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestVerifyOTP_WrongTypeRejected(t *testing.T) {
	svc, users, otps, _ := newTestAuthService()
	ctx := context.Background()

	mustRegisterVerified(t, svc, users, "jo@example.com", "password123")
	require.NoError(t, svc.RequestOTP(ctx, "jo@example.com", model.OTPTypePasswordReset))
	code := otps.latest("jo@example.com", model.OTPTypePasswordReset).code

	_, err := svc.VerifyOTP(ctx, "jo@example.com", code, model.OTPTypeLoginVerification)
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestVerifyOTP_AttemptsExhausted(t *testing.T) {
	svc, users, otps, _ := newTestAuthService()
	ctx := context.Background()

	mustRegisterVerified(t, svc, users, "jo@example.com", "password123")
	require.NoError(t, svc.RequestOTP(ctx, "jo@example.com", model.OTPTypePasswordReset))
	o := otps.latest("jo@example.com", model.OTPTypePasswordReset)

	for i := 0; i < model.OTPMaxAttempts; i++ {
		_, err := svc.VerifyOTP(ctx, "jo@example.com", "000000", model.OTPTypePasswordReset)
		assert.ErrorIs(t, err, ErrInvalidOTP)
	}
	assert.Equal(t, model.OTPMaxAttempts, o.attempts)

	// even the correct code is dead once the attempt budget is spent
	_, err := svc.VerifyOTP(ctx, "jo@example.com", o.code, model.OTPTypePasswordReset)
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestVerifyOTP_SupersededCodeRejected(t *testing.T) {
	svc, users, otps, _ := newTestAuthService()
	ctx := context.Background()

	mustRegisterVerified(t, svc, users, "jo@example.com", "password123")
	require.NoError(t, svc.RequestOTP(ctx, "jo@example.com", model.OTPTypePasswordReset))
	oldCode := otps.latest("jo@example.com", model.OTPTypePasswordReset).code

	require.NoError(t, svc.RequestOTP(ctx, "jo@example.com", model.OTPTypePasswordReset))
	newCode := otps.latest("jo@example.com", model.OTPTypePasswordReset).code

	if oldCode != newCode {
		_, err := svc.VerifyOTP(ctx, "jo@example.com", oldCode, model.OTPTypePasswordReset)
		assert.ErrorIs(t, err, ErrInvalidOTP)
	}
	_, err := svc.VerifyOTP(ctx, "jo@example.com", newCode, model.OTPTypePasswordReset)
	assert.NoError(t, err)
}

func TestVerifyOTP_LoginVerificationReturnsUser(t *testing.T) {
	svc, users, otps, _ := newTestAuthService()
	ctx := context.Background()

	id := mustRegisterVerified(t, svc, users, "jo@example.com", "password123")
	require.NoError(t, svc.RequestOTP(ctx, "jo@example.com", model.OTPTypeLoginVerification))
	code := otps.latest("jo@example.com", model.OTPTypeLoginVerification).code

	u, err := svc.VerifyOTP(ctx, "jo@example.com", code, model.OTPTypeLoginVerification)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, id, u.UserID)
	assert.NotNil(t, u.LastLogin)
}

func TestChangePassword(t *testing.T) {
	svc, users, _, _ := newTestAuthService()
	ctx := context.Background()

	id := mustRegisterVerified(t, svc, users, "jo@example.com", "password123")

	err := svc.ChangePassword(ctx, id, "wrong-current", "newpassword1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	before := time.Now()
	require.NoError(t, svc.ChangePassword(ctx, id, "password123", "newpassword1"))

	u := users.byID[id]
	require.NotNil(t, u.PasswordChangedAt)
	// the stamp must predate the save so earlier tokens fail verification
	assert.True(t, u.PasswordChangedAt.Before(before))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("newpassword1")))

	_, err = svc.Login(ctx, "jo@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "jo@example.com", "newpassword1")
	assert.NoError(t, err)
}

func TestResetPassword(t *testing.T) {
	svc, users, otps, _ := newTestAuthService()
	ctx := context.Background()

	mustRegisterVerified(t, svc, users, "jo@example.com", "password123")
	require.NoError(t, svc.RequestOTP(ctx, "jo@example.com", model.OTPTypePasswordReset))
	code := otps.latest("jo@example.com", model.OTPTypePasswordReset).code

	err := svc.ResetPassword(ctx, "jo@example.com", "999999", "resetpassword")
	if code != "999999" {
		assert.ErrorIs(t, err, ErrInvalidOTP)
	}

	require.NoError(t, svc.ResetPassword(ctx, "jo@example.com", code, "resetpassword"))

	_, err = svc.Login(ctx, "jo@example.com", "resetpassword")
	assert.NoError(t, err)

	// the code is spent
	err = svc.ResetPassword(ctx, "jo@example.com", code, "anotherpassword")
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestSeed_Idempotent(t *testing.T) {
	svc, users, _, _ := newTestAuthService()
	ctx := context.Background()

	created, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.True(t, created)

	u, err := users.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, u.Role)
	assert.True(t, u.IsEmailVerified)

	created, err = svc.Seed(ctx)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestRegisterByAdmin(t *testing.T) {
	svc, users, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := svc.RegisterByAdmin(ctx, "ed@example.com", "password123", "Ed", "Itor", model.RoleUser)
	assert.EqualError(t, err, "admins cannot create user accounts")

	_, err = svc.RegisterByAdmin(ctx, "ed@example.com", "password123", "Ed", "Itor", "owner")
	assert.EqualError(t, err, "unknown role")

	id, err := svc.RegisterByAdmin(ctx, "ed@example.com", "password123", "Ed", "Itor", model.RoleEditor)
	require.NoError(t, err)
	assert.True(t, users.byID[id].IsEmailVerified)
}

func TestGenerateCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := generateCode()
		require.Len(t, code, 6)
		for _, r := range code {
			require.True(t, r >= '0' && r <= '9')
		}
	}
}
