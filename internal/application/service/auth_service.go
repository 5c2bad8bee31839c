package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/sangkips/counterpos/internal/domain/entity"
	"github.com/sangkips/counterpos/internal/domain/repository"
	"github.com/sangkips/counterpos/pkg/apperror"
	"github.com/sangkips/counterpos/pkg/utils"
)

// AuthService signs staff in at the till
type AuthService struct {
	staffRepo  repository.StaffRepository
	jwtManager *utils.JWTManager
}

// NewAuthService creates a new auth service
func NewAuthService(staffRepo repository.StaffRepository, jwtManager *utils.JWTManager) *AuthService {
	return &AuthService{
		staffRepo:  staffRepo,
		jwtManager: jwtManager,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput represents the login output
type LoginOutput struct {
	Staff       *entity.Staff
	AccessToken string
}

// Login authenticates a staff member and returns an access token
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	staff, err := s.staffRepo.GetByEmail(ctx, strings.TrimSpace(input.Email))
	if err != nil {
		return nil, err
	}
	if staff == nil || !staff.IsActive {
		return nil, apperror.ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(input.Password, staff.Password) {
		return nil, apperror.ErrInvalidCredentials
	}

	accessToken, err := s.jwtManager.GenerateAccessToken(staff.ID, staff.Email, staff.Roles())
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		Staff:       staff,
		AccessToken: accessToken,
	}, nil
}

// GetCurrentStaff returns the signed-in staff member
func (s *AuthService) GetCurrentStaff(ctx context.Context, id uuid.UUID) (*entity.Staff, error) {
	staff, err := s.staffRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		return nil, apperror.NewNotFoundError("Staff")
	}
	return staff, nil
}
