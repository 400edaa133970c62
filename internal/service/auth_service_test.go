package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/tetianalytvynovska/tax-system/internal/model"
	"github.com/tetianalytvynovska/tax-system/internal/repository"
)

const testSecret = "test_secret"

// fakeMailer records sends and optionally fails them.
type fakeMailer struct {
	sent []string // bodies
	fail bool
}

func (m *fakeMailer) Send(to, subject, body string) error {
	if m.fail {
		return errors.New("smtp unreachable")
	}
	m.sent = append(m.sent, body)
	return nil
}

func newAuthEnv(t *testing.T) (*testEnv, AuthService, *fakeMailer) {
	t.Helper()

	env := newTestEnv(t)
	mailer := &fakeMailer{}
	auth := NewAuthService(
		repository.NewUserRepository(env.db),
		repository.NewTwoFactorRepository(env.db),
		repository.NewAuditRepository(env.db),
		mailer,
		testSecret,
		zap.NewNop(),
	)
	return env, auth, mailer
}

func seedAccount(t *testing.T, env *testEnv, email, password, role string) *model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := model.User{Name: "Acc", Email: email, IPN: "1111111111", PasswordHash: string(hash), Role: role}
	require.NoError(t, env.db.Create(&user).Error)
	return &user
}

func TestRegister(t *testing.T) {
	_, auth, _ := newAuthEnv(t)

	res, err := auth.Register(testCtx, RegisterRequest{
		Name:     "Іван Петренко",
		Email:    "Ivan@Example.com",
		IPN:      "1234567890",
		Password: "пароль123",
	})
	require.NoError(t, err)

	assert.Equal(t, "ivan@example.com", res.User.Email) // normalized
	assert.Equal(t, model.RoleUser, res.User.Role)
	assert.NotEmpty(t, res.Token)

	claims := parseClaims(t, res.Token)
	assert.Equal(t, float64(res.User.ID), claims["sub"])
	assert.Equal(t, model.RoleUser, claims["role"])

	// The same address cannot register twice.
	_, err = auth.Register(testCtx, RegisterRequest{
		Name:     "Інший",
		Email:    "ivan@example.com",
		IPN:      "0987654321",
		Password: "пароль123",
	})
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestRegisterValidation(t *testing.T) {
	_, auth, _ := newAuthEnv(t)

	cases := []RegisterRequest{
		{Email: "a@b.c", IPN: "1", Password: "123456"},              // no name
		{Name: "A", Email: "not-an-email", IPN: "1", Password: "123456"},
		{Name: "A", Email: "a@b.c", IPN: "1", Password: "123"},      // short password
	}
	for _, req := range cases {
		_, err := auth.Register(testCtx, req)
		assert.Equal(t, KindValidation, KindOf(err))
	}
}

func TestLoginPlainUser(t *testing.T) {
	env, auth, _ := newAuthEnv(t)
	seedAccount(t, env, "user@example.com", "пароль123", model.RoleUser)

	res, err := auth.Login(testCtx, LoginRequest{Email: "user@example.com", Password: "пароль123"})
	require.NoError(t, err)
	assert.False(t, res.Requires2FA)
	require.NotNil(t, res.Auth)
	assert.NotEmpty(t, res.Auth.Token)

	// Wrong password and unknown email produce the same generic error.
	_, err = auth.Login(testCtx, LoginRequest{Email: "user@example.com", Password: "wrong"})
	assert.Equal(t, KindValidation, KindOf(err))
	_, err = auth.Login(testCtx, LoginRequest{Email: "ghost@example.com", Password: "пароль123"})
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestAdminLoginTwoFactorFlow(t *testing.T) {
	env, auth, mailer := newAuthEnv(t)
	admin := seedAccount(t, env, "admin@example.com", "пароль123", model.RoleAdministrator)

	res, err := auth.Login(testCtx, LoginRequest{Email: "admin@example.com", Password: "пароль123"})
	require.NoError(t, err)
	assert.True(t, res.Requires2FA)
	assert.Nil(t, res.Auth)
	require.Len(t, mailer.sent, 1)

	var row model.AdminTwoFactor
	require.NoError(t, env.db.First(&row, "user_id = ?", admin.ID).Error)
	assert.Len(t, row.Code, 6)
	assert.Contains(t, mailer.sent[0], row.Code)

	// Wrong code is rejected; the stored one still works afterwards.
	_, err = auth.Verify2FA(testCtx, Verify2FARequest{Email: "admin@example.com", Code: "000000x"})
	assert.Equal(t, KindValidation, KindOf(err))

	verified, err := auth.Verify2FA(testCtx, Verify2FARequest{Email: "admin@example.com", Code: row.Code})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdministrator, verified.User.Role)

	// The code is consumed on success.
	_, err = auth.Verify2FA(testCtx, Verify2FARequest{Email: "admin@example.com", Code: row.Code})
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestAdminLoginSurvivesMailFailure(t *testing.T) {
	env, auth, mailer := newAuthEnv(t)
	admin := seedAccount(t, env, "admin@example.com", "пароль123", model.RoleAdministrator)
	mailer.fail = true

	res, err := auth.Login(testCtx, LoginRequest{Email: "admin@example.com", Password: "пароль123"})
	require.NoError(t, err)
	assert.True(t, res.Requires2FA)

	// The code row persists even though delivery failed.
	var count int64
	require.NoError(t, env.db.Model(&model.AdminTwoFactor{}).Where("user_id = ?", admin.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestExpiredTwoFactorCode(t *testing.T) {
	env, auth, _ := newAuthEnv(t)
	admin := seedAccount(t, env, "admin@example.com", "пароль123", model.RoleAdministrator)

	require.NoError(t, env.db.Create(&model.AdminTwoFactor{
		UserID:    admin.ID,
		Code:      "123456",
		ExpiresAt: time.Now().Add(-time.Minute),
	}).Error)

	_, err := auth.Verify2FA(testCtx, Verify2FARequest{Email: "admin@example.com", Code: "123456"})
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestReLoginReplacesCode(t *testing.T) {
	env, auth, _ := newAuthEnv(t)
	admin := seedAccount(t, env, "admin@example.com", "пароль123", model.RoleAdministrator)

	login := func() string {
		_, err := auth.Login(testCtx, LoginRequest{Email: "admin@example.com", Password: "пароль123"})
		require.NoError(t, err)
		var row model.AdminTwoFactor
		require.NoError(t, env.db.First(&row, "user_id = ?", admin.ID).Error)
		return row.Code
	}

	first := login()
	second := login()

	var count int64
	require.NoError(t, env.db.Model(&model.AdminTwoFactor{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	if first != second {
		_, err := auth.Verify2FA(testCtx, Verify2FARequest{Email: "admin@example.com", Code: first})
		assert.Equal(t, KindValidation, KindOf(err))
	}
	_, err := auth.Verify2FA(testCtx, Verify2FARequest{Email: "admin@example.com", Code: second})
	assert.NoError(t, err)
}

func parseClaims(t *testing.T, tokenString string) jwt.MapClaims {
	t.Helper()

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	return claims
}
