package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"bootcamp-directory/internal/config"
	"bootcamp-directory/internal/testutil/memstore"
	"bootcamp-directory/internal/usecase/auth/mocks"
	appErrors "bootcamp-directory/pkg/errors"
	"bootcamp-directory/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	svc    *Service
	users  *memstore.Users
	mailer *mocks.MockMailer
}

func newFixture(t *testing.T, registry RevocationRegistry) *fixture {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{PublicURL: "http://localhost:5000/"},
		Reset:  config.ResetConfig{TokenTTL: 10 * time.Minute},
	}
	users := memstore.NewUsers()
	mailer := mocks.NewMockMailer(gomock.NewController(t))
	tokens := utils.NewTokenIssuer("test-secret", time.Hour)

	return &fixture{
		svc:    NewService(users, tokens, mailer, registry, cfg),
		users:  users,
		mailer: mailer,
	}
}

func (f *fixture) register(t *testing.T, email string) *Session {
	t.Helper()
	s, err := f.svc.Register(context.Background(), &RegisterRequest{
		Name:     "Jane Doe",
		Email:    email,
		Password: "secret123",
	})
	require.NoError(t, err)
	return s
}

func TestRegister(t *testing.T) {
	f := newFixture(t, nil)

	s := f.register(t, "Jane@Example.com")

	assert.NotEmpty(t, s.Token)
	assert.Equal(t, "jane@example.com", s.User.Email)
	assert.Equal(t, "standard", s.User.Role)

	stored := f.users.Raw(s.User.ID)
	require.NotNil(t, stored)
	assert.True(t, utils.CheckPassword(stored.PasswordHashed, "secret123"))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(t, nil)
	first := f.register(t, "jane@example.com")

	_, err := f.svc.Register(context.Background(), &RegisterRequest{
		Name:     "Impostor",
		Email:    "jane@example.com",
		Password: "other123",
	})

	require.ErrorIs(t, err, appErrors.ErrDuplicateField)
	assert.Equal(t, appErrors.KindDuplicateKey, appErrors.KindOf(err))

	stored := f.users.Raw(first.User.ID)
	assert.Equal(t, "Jane Doe", stored.Name)
	assert.True(t, utils.CheckPassword(stored.PasswordHashed, "secret123"))
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t, nil)

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"missing name", RegisterRequest{Email: "a@b.co", Password: "secret123"}},
		{"weak password", RegisterRequest{Name: "A", Email: "a@b.co", Password: "secret"}},
		{"admin role", RegisterRequest{Name: "A", Email: "a@b.co", Password: "secret123", Role: "admin"}},
		{"unknown role", RegisterRequest{Name: "A", Email: "a@b.co", Password: "secret123", Role: "root"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Register(context.Background(), &tt.req)
			assert.Equal(t, appErrors.KindValidation, appErrors.KindOf(err))
		})
	}
}

func TestLogin_EnumerationResistant(t *testing.T) {
	f := newFixture(t, nil)
	f.register(t, "jane@example.com")

	_, wrongPassword := f.svc.Login(context.Background(), &LoginRequest{Email: "jane@example.com", Password: "nope1234"})
	_, unknownEmail := f.svc.Login(context.Background(), &LoginRequest{Email: "ghost@example.com", Password: "secret123"})

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	assert.Equal(t, appErrors.StatusOf(appErrors.KindOf(wrongPassword)), appErrors.StatusOf(appErrors.KindOf(unknownEmail)))
	assert.Equal(t, 401, appErrors.StatusOf(appErrors.KindOf(wrongPassword)))
}

func TestLogin_Success(t *testing.T) {
	f := newFixture(t, nil)
	reg := f.register(t, "jane@example.com")

	s, err := f.svc.Login(context.Background(), &LoginRequest{Email: "JANE@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, s.User.ID)

	u, err := f.svc.Authenticate(context.Background(), s.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, u.ID)
}

func TestAuthenticate_Rejects(t *testing.T) {
	f := newFixture(t, nil)
	s := f.register(t, "jane@example.com")

	_, err := f.svc.Authenticate(context.Background(), "garbage")
	assert.ErrorIs(t, err, appErrors.ErrNotAuthenticated)

	require.NoError(t, f.users.Delete(context.Background(), s.User.ID))
	_, err = f.svc.Authenticate(context.Background(), s.Token)
	assert.ErrorIs(t, err, appErrors.ErrNotAuthenticated)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t, nil)
	s := f.register(t, "jane@example.com")
	ctx := context.Background()

	_, err := f.svc.ChangePassword(ctx, s.User.ID, &ChangePasswordRequest{CurrentPassword: "wrong123", NewPassword: "better456"})
	require.ErrorIs(t, err, appErrors.ErrIncorrectPassword)

	fresh, err := f.svc.ChangePassword(ctx, s.User.ID, &ChangePasswordRequest{CurrentPassword: "secret123", NewPassword: "better456"})
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.Token)

	_, err = f.svc.Login(ctx, &LoginRequest{Email: "jane@example.com", Password: "better456"})
	assert.NoError(t, err)
}

func TestUpdateDetails(t *testing.T) {
	f := newFixture(t, nil)
	s := f.register(t, "jane@example.com")
	f.register(t, "john@example.com")
	ctx := context.Background()

	got, err := f.svc.UpdateDetails(ctx, s.User.ID, &UpdateDetailsRequest{Name: "Jane Smith", Email: "jane.smith@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", got.Name)
	assert.Equal(t, "standard", got.Role)

	_, err = f.svc.UpdateDetails(ctx, s.User.ID, &UpdateDetailsRequest{Name: "Jane", Email: "john@example.com"})
	assert.ErrorIs(t, err, appErrors.ErrDuplicateField)
}

// requestReset captures the mailed token.
func requestReset(t *testing.T, f *fixture, email string) string {
	t.Helper()

	var token string
	f.mailer.EXPECT().
		Send(gomock.Any(), email, resetEmailSubject, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _, body string) error {
			idx := strings.Index(body, "/api/v1/auth/resetpassword/")
			require.GreaterOrEqual(t, idx, 0)
			assert.Contains(t, body, "http://localhost:5000/api/v1/auth/resetpassword/")
			token = body[idx+len("/api/v1/auth/resetpassword/"):]
			return nil
		})

	require.NoError(t, f.svc.RequestPasswordReset(context.Background(), &ForgotPasswordRequest{Email: email}))
	require.NotEmpty(t, token)
	return token
}

func TestResetPassword_SingleUse(t *testing.T) {
	f := newFixture(t, nil)
	reg := f.register(t, "jane@example.com")
	ctx := context.Background()

	token := requestReset(t, f, "jane@example.com")

	stored := f.users.Raw(reg.User.ID)
	assert.Equal(t, utils.HashResetToken(token), stored.ResetPasswordToken, "only the hash is stored")

	s, err := f.svc.ResetPassword(ctx, token, &ResetPasswordRequest{Password: "newpass1"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, s.User.ID)
	assert.NotEmpty(t, s.Token)

	stored = f.users.Raw(reg.User.ID)
	assert.Empty(t, stored.ResetPasswordToken)
	assert.Nil(t, stored.ResetPasswordExpire)

	_, err = f.svc.ResetPassword(ctx, token, &ResetPasswordRequest{Password: "again123"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidResetToken)

	_, err = f.svc.Login(ctx, &LoginRequest{Email: "jane@example.com", Password: "newpass1"})
	assert.NoError(t, err)
}

func TestResetPassword_Expired(t *testing.T) {
	f := newFixture(t, nil)
	f.register(t, "jane@example.com")

	token := requestReset(t, f, "jane@example.com")
	f.svc.now = func() time.Time { return time.Now().Add(11 * time.Minute) }

	_, err := f.svc.ResetPassword(context.Background(), token, &ResetPasswordRequest{Password: "newpass1"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidResetToken)
	assert.Equal(t, 400, appErrors.StatusOf(appErrors.KindOf(err)))
}

func TestRequestPasswordReset_DeliveryFailureRollsBack(t *testing.T) {
	f := newFixture(t, nil)
	reg := f.register(t, "jane@example.com")

	f.mailer.EXPECT().
		Send(gomock.Any(), "jane@example.com", gomock.Any(), gomock.Any()).
		Return(errors.New("smtp: connection refused"))

	err := f.svc.RequestPasswordReset(context.Background(), &ForgotPasswordRequest{Email: "jane@example.com"})
	require.ErrorIs(t, err, appErrors.ErrEmailDelivery)
	assert.Equal(t, 500, appErrors.StatusOf(appErrors.KindOf(err)))

	stored := f.users.Raw(reg.User.ID)
	assert.Empty(t, stored.ResetPasswordToken)
	assert.Nil(t, stored.ResetPasswordExpire)
}

func TestRequestPasswordReset_UnknownEmail(t *testing.T) {
	f := newFixture(t, nil)

	// no mail is sent; gomock fails the test on an unexpected call
	err := f.svc.RequestPasswordReset(context.Background(), &ForgotPasswordRequest{Email: "ghost@example.com"})
	assert.NoError(t, err)
}

func TestLogout_RevokesUntilExpiry(t *testing.T) {
	registry := mocks.NewMockRevocationRegistry(gomock.NewController(t))
	f := newFixture(t, registry)
	s := f.register(t, "jane@example.com")
	ctx := context.Background()

	registry.EXPECT().
		Revoke(gomock.Any(), s.Token, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, ttl time.Duration) error {
			assert.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), 5)
			return nil
		})
	require.NoError(t, f.svc.Logout(ctx, s.Token))

	registry.EXPECT().IsRevoked(gomock.Any(), s.Token).Return(true, nil)
	_, err := f.svc.Authenticate(ctx, s.Token)
	assert.ErrorIs(t, err, appErrors.ErrNotAuthenticated)
}

func TestLogout_WithoutRegistry(t *testing.T) {
	f := newFixture(t, nil)
	s := f.register(t, "jane@example.com")

	assert.NoError(t, f.svc.Logout(context.Background(), s.Token))
	assert.NoError(t, f.svc.Logout(context.Background(), ""))
}
