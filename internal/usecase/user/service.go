package user

import (
	"context"
	"errors"
	"fmt"

	domainUser "bootcamp-directory/internal/domain/user"
	"bootcamp-directory/internal/logger"
	appErrors "bootcamp-directory/pkg/errors"
	"bootcamp-directory/pkg/query"
	"bootcamp-directory/pkg/utils"

	"go.uber.org/zap"
)

// Service implements the admin user management use cases.
type Service struct {
	userRepo domainUser.Repository
}

func NewService(userRepo domainUser.Repository) *Service {
	return &Service{userRepo: userRepo}
}

// ListResult is one page of users plus the size of the filtered set.
type ListResult struct {
	Users []*UserResponse
	Total int64
}

func (s *Service) List(ctx context.Context, q *query.Descriptor) (*ListResult, error) {
	users, total, err := s.userRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return &ListResult{Users: ToUserResponses(users), Total: total}, nil
}

func (s *Service) Get(ctx context.Context, userID string) (*UserResponse, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, MapError(err, userID)
	}
	return ToUserResponse(u), nil
}

func (s *Service) Create(ctx context.Context, req *CreateUserRequest) (*UserResponse, error) {
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

	role := req.Role
	if role == "" {
		role = domainUser.RoleStandard
	}

	u := &domainUser.User{
		Name:           utils.SanitizeString(req.Name),
		Email:          utils.SanitizeEmail(req.Email),
		PasswordHashed: hashedPassword,
		Role:           role,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, MapError(err, "")
	}

	logger.Info("User created by admin",
		zap.String("user_id", u.ID),
		zap.String("role", u.Role),
		zap.String("event", "user_created"),
	)

	return ToUserResponse(u), nil
}

func (s *Service) Update(ctx context.Context, userID string, req *UpdateUserRequest) (*UserResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation(err.Error(), nil)
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, MapError(err, userID)
	}

	if req.Name != nil {
		u.Name = utils.SanitizeString(*req.Name)
	}
	if req.Email != nil {
		u.Email = utils.SanitizeEmail(*req.Email)
	}
	if req.Role != nil {
		u.Role = *req.Role
	}

	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, MapError(err, userID)
	}

	return ToUserResponse(u), nil
}

func (s *Service) Delete(ctx context.Context, userID string) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return MapError(err, userID)
	}

	logger.Info("User deleted successfully",
		zap.String("user_id", userID),
		zap.String("event", "user_deleted"),
	)

	return nil
}

// MapError turns credential store errors into application errors.
func MapError(err error, userID string) error {
	switch {
	case errors.Is(err, domainUser.ErrUserNotFound):
		return appErrors.NotFound("User", userID)
	case errors.Is(err, domainUser.ErrUserAlreadyExists):
		return appErrors.ErrDuplicateField
	default:
		return err
	}
}
