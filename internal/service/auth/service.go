package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pitstop/pitstop-api/internal/email"
	"github.com/pitstop/pitstop-api/internal/model"
	"github.com/pitstop/pitstop-api/internal/repository"
	"github.com/pitstop/pitstop-api/pkg/auth"
	apperrors "github.com/pitstop/pitstop-api/pkg/errors"
	"github.com/pitstop/pitstop-api/pkg/security"
)

const (
	MaxLoginAttempts     = 5
	LockoutDuration      = 15 * time.Minute
	VerificationValidity = 24 * time.Hour
	ResetValidity        = 1 * time.Hour
)

type Service struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	jwtSvc    auth.JWTService
	hasher    security.PasswordHasher
	emailSvc  email.Service
	logger    *zerolog.Logger
}

func NewService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository, jwtSvc auth.JWTService, hasher security.PasswordHasher, emailSvc email.Service, logger *zerolog.Logger) *Service {
	return &Service{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		jwtSvc:    jwtSvc,
		hasher:    hasher,
		emailSvc:  emailSvc,
		logger:    logger,
	}
}

func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.InvalidArgument("password does not meet requirements")
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
		Role:         model.UserRoleCustomer,
		Status:       model.UserStatusPending,
	}
	user.ID = uuid.New()

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification token: %w", err)
	}
	if err := s.tokenRepo.StoreVerificationToken(ctx, user.ID, token, time.Now().Add(VerificationValidity)); err != nil {
		return nil, fmt.Errorf("failed to store verification token: %w", err)
	}

	// Delivery failures must not fail registration; the user can request
	// a resend.
	if err := s.emailSvc.SendVerificationEmail(user.Email, user.Name, token); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to send verification email")
	}

	return user, nil
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return nil, apperrors.Unauthorized("invalid credentials")
		}
		return nil, err
	}

	if user.Status == model.UserStatusDisabled {
		return nil, apperrors.Forbidden("account is disabled")
	}

	if user.Status == model.UserStatusLocked {
		if time.Since(user.LastLoginAttempt) < LockoutDuration {
			return nil, apperrors.Forbidden("account is locked, try again later")
		}
		user.Status = model.UserStatusActive
		user.LoginAttempts = 0
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		user.LoginAttempts++
		user.LastLoginAttempt = time.Now()
		if user.LoginAttempts >= MaxLoginAttempts {
			user.Status = model.UserStatusLocked
			s.logger.Warn().Str("user_id", user.ID.String()).Msg("account locked after repeated login failures")
		}
		if err := s.userRepo.Update(ctx, user); err != nil {
			s.logger.Error().Err(err).Msg("failed to record login attempt")
		}
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	now := time.Now()
	user.LoginAttempts = 0
	user.LastLoginAttempt = now
	user.LastLoginAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error().Err(err).Msg("failed to record login")
	}

	return s.issueTokens(user)
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	claims, err := s.jwtSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid refresh token")
	}

	user, err := s.userRepo.Get(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid refresh token")
	}
	if user.Status == model.UserStatusDisabled || user.Status == model.UserStatusLocked {
		return nil, apperrors.Forbidden("account is not active")
	}

	return s.issueTokens(user)
}

func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	userID, err := s.tokenRepo.ValidateVerificationToken(ctx, token)
	if err != nil {
		return apperrors.InvalidArgument("invalid or expired verification token")
	}

	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return err
	}

	user.EmailVerified = true
	if user.Status == model.UserStatusPending {
		user.Status = model.UserStatusActive
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to verify email: %w", err)
	}

	return s.tokenRepo.InvalidateToken(ctx, token)
}

func (s *Service) RequestPasswordReset(ctx context.Context, emailAddr string) error {
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		// Do not reveal whether the address is registered.
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return nil
		}
		return err
	}

	token, err := generateToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	if err := s.tokenRepo.StoreResetToken(ctx, user.ID, token, time.Now().Add(ResetValidity)); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	if err := s.emailSvc.SendPasswordResetEmail(user.Email, user.Name, token); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to send reset email")
	}
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := s.tokenRepo.ValidateResetToken(ctx, token)
	if err != nil {
		return apperrors.InvalidArgument("invalid or expired reset token")
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return apperrors.InvalidArgument("password does not meet requirements")
	}

	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	user.LoginAttempts = 0
	if user.Status == model.UserStatusLocked {
		user.Status = model.UserStatusActive
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	return s.tokenRepo.InvalidateToken(ctx, token)
}

func (s *Service) issueTokens(user *model.User) (*model.TokenResponse, error) {
	access, err := s.jwtSvc.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.jwtSvc.GenerateRefreshToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &model.TokenResponse{AccessToken: access, RefreshToken: refresh}, nil
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
