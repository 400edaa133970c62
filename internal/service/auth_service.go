package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tetianalytvynovska/tax-system/internal/mail"
	"github.com/tetianalytvynovska/tax-system/internal/model"
	"github.com/tetianalytvynovska/tax-system/internal/repository"

	"go.uber.org/zap"
)

const (
	tokenTTL      = 24 * time.Hour
	twoFactorTTL  = 10 * time.Minute
	minPassLength = 6
)

// --- DTOs ---

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	IPN      string `json:"ipn" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type Verify2FARequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// LoginResult is either a finished login (Auth set) or a pending 2FA
// challenge for the administrator (Requires2FA set).
type LoginResult struct {
	Auth        *AuthResponse
	Requires2FA bool
}

// AuthService implements registration, password login, and the mail-based
// second factor guarding the administrator account.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Verify2FA(ctx context.Context, req Verify2FARequest) (*AuthResponse, error)
}

type authService struct {
	users     repository.UserRepository
	twoFactor repository.TwoFactorRepository
	audit     *auditRecorder
	mailer    mail.Mailer
	jwtSecret []byte
	logger    *zap.Logger
}

func NewAuthService(
	users repository.UserRepository,
	twoFactor repository.TwoFactorRepository,
	auditRepo repository.AuditRepository,
	mailer mail.Mailer,
	jwtSecret string,
	logger *zap.Logger,
) AuthService {
	return &authService{
		users:     users,
		twoFactor: twoFactor,
		audit:     newAuditRecorder(auditRepo, logger),
		mailer:    mailer,
		jwtSecret: []byte(jwtSecret),
		logger:    logger,
	}
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	ipn := strings.TrimSpace(req.IPN)

	if name == "" || email == "" || ipn == "" || req.Password == "" {
		return nil, Errorf(KindValidation, "заповніть усі поля")
	}
	if !strings.Contains(email, "@") {
		return nil, Errorf(KindValidation, "некоректна електронна адреса")
	}
	if len([]rune(req.Password)) < minPassLength {
		return nil, Errorf(KindValidation, "пароль має містити щонайменше 6 символів")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, Errorf(KindValidation, "користувач з такою електронною адресою вже існує")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrapInternal("check existing user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, wrapInternal("hash password", err)
	}

	user := model.User{
		Name:         name,
		Email:        email,
		IPN:          ipn,
		PasswordHash: string(hash),
		Role:         model.RoleUser,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return nil, wrapInternal("create user", err)
	}

	s.audit.record(ctx, user.ID, model.ActionRegister, map[string]any{"email": user.Email})

	token, err := s.issueToken(&user)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, User: &user}, nil
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Errorf(KindValidation, "невірна електронна адреса або пароль")
		}
		return nil, wrapInternal("fetch user", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, Errorf(KindValidation, "невірна електронна адреса або пароль")
	}

	if user.IsAdmin() {
		if err := s.startTwoFactor(ctx, user); err != nil {
			return nil, err
		}
		return &LoginResult{Requires2FA: true}, nil
	}

	s.audit.record(ctx, user.ID, model.ActionLogin, nil)

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Auth: &AuthResponse{Token: token, User: user}}, nil
}

// startTwoFactor stores a fresh code and mails it. A mail transport failure
// is logged but does not fail the login: the code row stays valid and the
// operator can recover it from the logs.
func (s *authService) startTwoFactor(ctx context.Context, user *model.User) error {
	code, err := generateCode()
	if err != nil {
		return wrapInternal("generate 2fa code", err)
	}

	if err := s.twoFactor.Replace(ctx, user.ID, code, time.Now().Add(twoFactorTTL)); err != nil {
		return wrapInternal("store 2fa code", err)
	}

	s.audit.record(ctx, user.ID, model.ActionAdmin2FARequest, nil)

	body := fmt.Sprintf("Ваш код підтвердження входу: %s\nКод діє 10 хвилин.", code)
	if err := s.mailer.Send(user.Email, "Код підтвердження входу", body); err != nil {
		s.logger.Warn("2fa mail delivery failed",
			zap.String("email", user.Email),
			zap.Error(err))
	}
	return nil
}

func (s *authService) Verify2FA(ctx context.Context, req Verify2FARequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	code := strings.TrimSpace(req.Code)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Errorf(KindValidation, "невірний або протермінований код")
		}
		return nil, wrapInternal("fetch user", err)
	}

	if _, err := s.twoFactor.GetValid(ctx, user.ID, code, time.Now()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, Errorf(KindValidation, "невірний або протермінований код")
		}
		return nil, wrapInternal("fetch 2fa code", err)
	}

	// Consume the code so it cannot be replayed.
	if err := s.twoFactor.Delete(ctx, user.ID); err != nil {
		return nil, wrapInternal("consume 2fa code", err)
	}

	s.audit.record(ctx, user.ID, model.ActionAdmin2FASuccess, nil)

	token, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{Token: token, User: user}, nil
}

func (s *authService) issueToken(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", wrapInternal("sign token", err)
	}
	return signed, nil
}

// generateCode draws a uniformly random 6-digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
