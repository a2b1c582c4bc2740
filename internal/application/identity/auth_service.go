package identity

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/google/uuid"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/identity"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/auth"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/infrastructure/config"
	"go.uber.org/zap"
)

// AuthService handles registration, login and profile lookups
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	admin      config.AdminConfig
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	admin config.AdminConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		admin:      admin,
		logger:     logger,
	}
}

// Register creates a customer account and returns a token for it
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := identity.NormalizeEmail(input.Email)
	if err := identity.ValidateEmail(email); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		s.logger.Error("Failed to check email availability", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to register user")
	}
	if exists {
		s.logger.Info("Registration for existing email", zap.String("email", email))
		return nil, shared.NewDomainError("USER_EXISTS", "User already exists")
	}

	user, err := identity.NewUser(input.Name, email, input.Password)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		var de *shared.DomainError
		if errors.As(err, &de) && de.Code == "USER_EXISTS" {
			return nil, de
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to register user")
	}

	token, err := s.jwtService.GenerateUserToken(user.ID, user.Email)
	if err != nil {
		s.logger.Error("Failed to generate token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication token")
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	return &AuthResult{
		Token:     token.AccessToken,
		ExpiresAt: token.ExpiresAt,
		TokenType: token.TokenType,
		User:      ToUserInfo(user),
	}, nil
}

// Login authenticates a customer by email and password
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := identity.NormalizeEmail(input.Email)

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login for unknown email")
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User doesn't exist")
		}
		s.logger.Error("Failed to look up user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to log in")
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid credentials")
	}

	token, err := s.jwtService.GenerateUserToken(user.ID, user.Email)
	if err != nil {
		s.logger.Error("Failed to generate token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication token")
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID.String()))
	return &AuthResult{
		Token:     token.AccessToken,
		ExpiresAt: token.ExpiresAt,
		TokenType: token.TokenType,
		User:      ToUserInfo(user),
	}, nil
}

// AdminLogin checks the configured admin credentials
func (s *AuthService) AdminLogin(ctx context.Context, input LoginInput) (*AuthResult, error) {
	if s.admin.Email == "" || s.admin.Password == "" {
		s.logger.Warn("Admin login attempted but admin credentials are not configured")
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid credentials")
	}

	emailOK := subtle.ConstantTimeCompare([]byte(identity.NormalizeEmail(input.Email)), []byte(identity.NormalizeEmail(s.admin.Email))) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(input.Password), []byte(s.admin.Password)) == 1
	if !emailOK || !passwordOK {
		s.logger.Warn("Invalid admin login attempt")
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid credentials")
	}

	token, err := s.jwtService.GenerateAdminToken(s.admin.Email)
	if err != nil {
		s.logger.Error("Failed to generate admin token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication token")
	}

	s.logger.Info("Admin logged in")
	return &AuthResult{
		Token:     token.AccessToken,
		ExpiresAt: token.ExpiresAt,
		TokenType: token.TokenType,
	}, nil
}

// Profile returns the public view of the caller's account
func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		s.logger.Error("Failed to load profile", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load profile")
	}
	return ToUserInfo(user), nil
}
