package services

import (
	"context"
	"errors"
	"log"

	"gate-backend/internal/apperrors"
	"gate-backend/internal/auth"
	"gate-backend/internal/models"
	"gate-backend/internal/repositories"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account disabled, please contact administrator")
	ErrEmailTaken         = errors.New("a user with this email already exists")
	ErrInvalidRole        = errors.New("role must be Admin, User or Viewer")
)

type UserService struct {
	userRepo   *repositories.UserRepository
	loginLogs  *repositories.LoginLogRepository
	jwtManager *auth.JWTManager
}

func NewUserService(userRepo *repositories.UserRepository, loginLogs *repositories.LoginLogRepository, jwtManager *auth.JWTManager) *UserService {
	return &UserService{
		userRepo:   userRepo,
		loginLogs:  loginLogs,
		jwtManager: jwtManager,
	}
}

// Login authenticates by email and password. Accounts with TOTP enabled
// get a short-lived temp token and must complete the second factor via
// CompleteTOTPLogin before receiving a real session token.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest, ipAddress, userAgent string) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		s.recordLogin(ctx, user.ID, ipAddress, userAgent, false)
		return nil, ErrInvalidCredentials
	}

	if user.IsDisabled {
		s.recordLogin(ctx, user.ID, ipAddress, userAgent, false)
		return nil, ErrAccountDisabled
	}

	if user.TOTPEnabled {
		tempToken, err := s.jwtManager.GenerateTempToken(user)
		if err != nil {
			return nil, err
		}
		return &models.AuthResponse{Token: tempToken, TOTPRequired: true}, nil
	}

	return s.issueSession(ctx, user, ipAddress, userAgent)
}

// CompleteTOTPLogin exchanges a verified temp token for a session token.
// The TOTP code itself is checked by the caller via TOTPService.
func (s *UserService) CompleteTOTPLogin(ctx context.Context, userID int, ipAddress, userAgent string) (*models.AuthResponse, error) {
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsDisabled {
		return nil, ErrAccountDisabled
	}
	return s.issueSession(ctx, user, ipAddress, userAgent)
}

func (s *UserService) issueSession(ctx context.Context, user *models.User, ipAddress, userAgent string) (*models.AuthResponse, error) {
	token, err := s.jwtManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		log.Printf("[Auth] failed to update last login for user %d: %v", user.ID, err)
	}
	s.recordLogin(ctx, user.ID, ipAddress, userAgent, true)

	return &models.AuthResponse{Token: token, User: user}, nil
}

func (s *UserService) recordLogin(ctx context.Context, userID int, ipAddress, userAgent string, success bool) {
	if err := s.loginLogs.Record(ctx, userID, ipAddress, userAgent, success); err != nil {
		log.Printf("[Auth] failed to record login attempt for user %d: %v", userID, err)
	}
}

// CreateUser registers a new account. Admin only, enforced at the router.
func (s *UserService) CreateUser(ctx context.Context, creatorID int, req *models.CreateUserRequest) (*models.User, error) {
	if req.Role != models.RoleAdmin && req.Role != models.RoleUser && req.Role != models.RoleViewer {
		return nil, ErrInvalidRole
	}

	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		Location:     req.Location,
		CreatedBy:    &creatorID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.userRepo.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id int) (*models.User, error) {
	return s.userRepo.Get(ctx, id)
}

func (s *UserService) SetDisabled(ctx context.Context, id int, disabled bool) error {
	return s.userRepo.SetDisabled(ctx, id, disabled)
}

// ChangePassword resets a user's password. Admin only, enforced at the
// router.
func (s *UserService) ChangePassword(ctx context.Context, id int, newPassword string) error {
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, id, hash)
}

func (s *UserService) RecentLogins(ctx context.Context, limit int) ([]models.LoginLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.loginLogs.ListRecent(ctx, limit)
}

// EnsureDefaultAdmin seeds the first admin account on an empty install so
// the system is reachable after deployment.
func (s *UserService) EnsureDefaultAdmin(ctx context.Context, email, password string) error {
	count, err := s.userRepo.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	admin := &models.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return err
	}
	log.Printf("[Seed] created default admin account %s", email)
	return nil
}
