package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bootcamp-directory/internal/config"
	domainUser "bootcamp-directory/internal/domain/user"
	"bootcamp-directory/internal/logger"
	userUC "bootcamp-directory/internal/usecase/user"
	appErrors "bootcamp-directory/pkg/errors"
	"bootcamp-directory/pkg/utils"

	"go.uber.org/zap"
)

const resetEmailSubject = "Password reset token"

// Service implements the authentication flows. The registry may be nil, in
// which case logout only clears the client's cookie.
type Service struct {
	userRepo domainUser.Repository
	tokens   *utils.TokenIssuer
	mailer   Mailer
	registry RevocationRegistry
	config   *config.Config
	now      func() time.Time
}

func NewService(
	userRepo domainUser.Repository,
	tokens *utils.TokenIssuer,
	mailer Mailer,
	registry RevocationRegistry,
	cfg *config.Config,
) *Service {
	return &Service{
		userRepo: userRepo,
		tokens:   tokens,
		mailer:   mailer,
		registry: registry,
		config:   cfg,
		now:      time.Now,
	}
}

func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*Session, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation(err.Error(), nil)
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		return nil, appErrors.Validation(err.Error(), nil)
	}

	role := req.Role
	if role == "" {
		role = domainUser.RoleStandard
	}
	if role == domainUser.RoleAdmin {
		return nil, appErrors.Validation("Admin accounts cannot be registered", nil)
	}

	email := utils.SanitizeEmail(req.Email)

	// Check if user already exists
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domainUser.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		logger.Warn("Registration attempt with existing email",
			zap.String("email", email),
			zap.String("event", "registration_failed_duplicate_email"),
		)
		return nil, appErrors.ErrDuplicateField
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &domainUser.User{
		Name:           utils.SanitizeString(req.Name),
		Email:          email,
		PasswordHashed: hashedPassword,
		Role:           role,
	}

	// the unique index catches a concurrent registration with the same email
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, userUC.MapError(err, "")
	}

	logger.Info("User registered successfully",
		zap.String("user_id", u.ID),
		zap.String("role", u.Role),
		zap.String("event", "user_registered"),
	)

	return s.issue(u)
}

func (s *Service) Login(ctx context.Context, req *LoginRequest) (*Session, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation("Please provide an email and password", nil)
	}

	u, err := s.userRepo.GetByEmailWithPassword(ctx, utils.SanitizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Warn("Login attempt with non-existent email",
				zap.String("event", "login_failed_user_not_found"),
			)
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !utils.CheckPassword(u.PasswordHashed, req.Password) {
		logger.Warn("Login attempt with invalid password",
			zap.String("user_id", u.ID),
			zap.String("event", "login_failed_invalid_password"),
		)
		return nil, appErrors.ErrInvalidCredentials
	}

	logger.Info("User logged in successfully",
		zap.String("user_id", u.ID),
		zap.String("event", "login_success"),
	)

	return s.issue(u)
}

// Logout revokes token for the rest of its lifetime when a registry is
// configured. Clearing the client's cookie is the caller's job.
func (s *Service) Logout(ctx context.Context, token string) error {
	if s.registry == nil || token == "" {
		return nil
	}

	claims, err := s.tokens.Verify(token)
	if err != nil || claims.ExpiresAt == nil {
		return nil
	}

	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}

	if err := s.registry.Revoke(ctx, token, ttl); err != nil {
		return appErrors.Upstream("Server Error", fmt.Errorf("failed to revoke token: %w", err))
	}

	logger.Info("Session revoked",
		zap.String("user_id", claims.UserID),
		zap.Duration("ttl", ttl),
		zap.String("event", "logout"),
	)
	return nil
}

// Authenticate resolves a session token to its user.
func (s *Service) Authenticate(ctx context.Context, token string) (*domainUser.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, appErrors.ErrNotAuthenticated
	}

	if s.registry != nil {
		revoked, err := s.registry.IsRevoked(ctx, token)
		if err != nil {
			return nil, appErrors.Upstream("Server Error", fmt.Errorf("failed to check revocation: %w", err))
		}
		if revoked {
			return nil, appErrors.ErrNotAuthenticated
		}
	}

	u, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return nil, appErrors.ErrNotAuthenticated
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) Me(ctx context.Context, userID string) (*userUC.UserResponse, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, userUC.MapError(err, userID)
	}
	return userUC.ToUserResponse(u), nil
}

// UpdateDetails changes name and email only; role and password have their
// own paths.
func (s *Service) UpdateDetails(ctx context.Context, userID string, req *UpdateDetailsRequest) (*userUC.UserResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation(err.Error(), nil)
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, userUC.MapError(err, userID)
	}

	u.Name = utils.SanitizeString(req.Name)
	u.Email = utils.SanitizeEmail(req.Email)

	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, userUC.MapError(err, userID)
	}
	return userUC.ToUserResponse(u), nil
}

func (s *Service) ChangePassword(ctx context.Context, userID string, req *ChangePasswordRequest) (*Session, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation(err.Error(), nil)
	}
	if err := utils.ValidatePassword(req.NewPassword); err != nil {
		return nil, appErrors.Validation(err.Error(), nil)
	}

	u, err := s.userRepo.GetByIDWithPassword(ctx, userID)
	if err != nil {
		return nil, userUC.MapError(err, userID)
	}

	if !utils.CheckPassword(u.PasswordHashed, req.CurrentPassword) {
		logger.Warn("Password change attempt with invalid current password",
			zap.String("user_id", u.ID),
			zap.String("event", "password_change_failed_invalid_current_password"),
		)
		return nil, appErrors.ErrIncorrectPassword
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		return nil, userUC.MapError(err, userID)
	}

	logger.Info("Password changed successfully",
		zap.String("user_id", u.ID),
		zap.String("event", "password_change_success"),
	)

	return s.issue(u)
}

// RequestPasswordReset mails a single-use reset link. An unknown email gets
// the same answer as a known one.
func (s *Service) RequestPasswordReset(ctx context.Context, req *ForgotPasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.Validation(err.Error(), nil)
	}

	u, err := s.userRepo.GetByEmail(ctx, utils.SanitizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Info("Password reset requested for non-existent email",
				zap.String("event", "password_reset_requested_non_existent_email"),
			)
			return nil
		}
		return fmt.Errorf("failed to retrieve user: %w", err)
	}

	plain, hashed, err := utils.GenerateResetToken()
	if err != nil {
		return err
	}

	expiresAt := s.now().Add(s.config.Reset.TokenTTL)
	if err := s.userRepo.SetResetToken(ctx, u.ID, hashed, expiresAt); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/api/v1/auth/resetpassword/%s", strings.TrimRight(s.config.Server.PublicURL, "/"), plain)
	body := fmt.Sprintf("You are receiving this email because you (or someone else) has requested the reset of a password. "+
		"Please make a PUT request to:\n\n%s", resetURL)

	if err := s.mailer.Send(ctx, u.Email, resetEmailSubject, body); err != nil {
		logger.Error("Failed to deliver password reset email",
			zap.String("user_id", u.ID),
			zap.String("event", "password_reset_delivery_failed"),
			zap.Error(err),
		)

		// the token was never delivered, so it must not stay usable
		if clearErr := s.userRepo.ClearResetToken(ctx, u.ID); clearErr != nil {
			logger.Error("Failed to clear undelivered reset token",
				zap.String("user_id", u.ID),
				zap.Error(clearErr),
			)
		}
		return appErrors.NewAppError(appErrors.KindDelivery, appErrors.ErrEmailDelivery.Message, err)
	}

	logger.Info("Password reset email sent",
		zap.String("user_id", u.ID),
		zap.Time("expires_at", expiresAt),
		zap.String("event", "password_reset_token_generated"),
	)
	return nil
}

// ResetPassword swaps the password of the user holding resetToken, provided
// it has not expired, and signs them in.
func (s *Service) ResetPassword(ctx context.Context, resetToken string, req *ResetPasswordRequest) (*Session, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation(err.Error(), nil)
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		return nil, appErrors.Validation(err.Error(), nil)
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u, err := s.userRepo.ConsumeResetToken(ctx, utils.HashResetToken(resetToken), hashedPassword, s.now())
	if err != nil {
		if errors.Is(err, domainUser.ErrResetTokenInvalid) {
			logger.Warn("Password reset attempt with invalid token",
				zap.String("event", "password_reset_failed_invalid_token"),
			)
			return nil, appErrors.ErrInvalidResetToken
		}
		return nil, err
	}

	logger.Info("Password reset successfully",
		zap.String("user_id", u.ID),
		zap.String("event", "password_reset_success"),
	)

	return s.issue(u)
}

func (s *Service) issue(u *domainUser.User) (*Session, error) {
	token, expiresAt, err := s.tokens.Sign(u.ID, u.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &Session{Token: token, ExpiresAt: expiresAt, User: userUC.ToUserResponse(u)}, nil
}
