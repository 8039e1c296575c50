package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"storefront/api/internal/config"
	"storefront/api/internal/ids"
	"storefront/api/internal/models"
	"storefront/api/internal/rbac"
	"storefront/api/internal/repository"
	"storefront/api/internal/security"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotActive      = errors.New("user not active")
	ErrUserLocked         = errors.New("user locked")
)

type AuthService struct {
	users   *repository.UserRepository
	roles   *repository.RoleRepository
	tokens  *repository.RefreshTokenRepository
	devices *repository.DeviceRepository
	cfg     *config.AppConfig
	log     zerolog.Logger
}

func NewAuthService(
	users *repository.UserRepository,
	roles *repository.RoleRepository,
	tokens *repository.RefreshTokenRepository,
	devices *repository.DeviceRepository,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:   users,
		roles:   roles,
		tokens:  tokens,
		devices: devices,
		cfg:     cfg,
		log:     log,
	}
}

type RegisterInput struct {
	Email       string
	Password    string
	Fullname    string
	PhoneNumber string
	IPAddress   string
	UserAgent   string
}

type AuthResult struct {
	AccessToken  string
	RefreshToken string
	DeviceID     string
	User         models.User
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Email == "" || input.Password == "" {
		return AuthResult{}, fmt.Errorf("email and password required")
	}

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return AuthResult{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return AuthResult{}, err
	}

	clientRole, err := s.roles.FindByName(ctx, rbac.RoleClient)
	if err != nil {
		return AuthResult{}, fmt.Errorf("load client role: %w", err)
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return AuthResult{}, err
	}

	user := models.User{
		ID:           ids.New(),
		Email:        input.Email,
		PasswordHash: passwordHash,
		Fullname:     input.Fullname,
		PhoneNumber:  input.PhoneNumber,
		RoleID:       clientRole.ID,
		RoleName:     clientRole.Name,
		Status:       models.UserStatusActive,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return AuthResult{}, err
	}

	return s.establishSession(ctx, user, "", input.IPAddress, input.UserAgent)
}

type LoginInput struct {
	Email     string
	Password  string
	DeviceID  string
	IPAddress string
	UserAgent string
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}

	if err := accountUsable(user); err != nil {
		return AuthResult{}, err
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		return AuthResult{}, ErrInvalidCredentials
	}

	return s.establishSession(ctx, user, input.DeviceID, input.IPAddress, input.UserAgent)
}

func accountUsable(user models.User) error {
	if user.Locked(time.Now()) {
		return ErrUserLocked
	}
	if user.Status != models.UserStatusActive {
		return ErrUserNotActive
	}
	return nil
}

func (s *AuthService) establishSession(
	ctx context.Context,
	user models.User,
	deviceID string,
	ipAddress string,
	userAgent string,
) (AuthResult, error) {
	if deviceID == "" {
		deviceID = ids.New()
	}

	if err := s.devices.Upsert(ctx, models.Device{
		ID:        deviceID,
		UserID:    user.ID,
		UserAgent: userAgent,
		IP:        ipAddress,
	}); err != nil {
		return AuthResult{}, err
	}

	return s.issueTokens(ctx, user, deviceID)
}

func (s *AuthService) issueTokens(ctx context.Context, user models.User, deviceID string) (AuthResult, error) {
	identity := security.Identity{
		UserID:   user.ID,
		Email:    user.Email,
		DeviceID: deviceID,
		RoleID:   user.RoleID,
		RoleName: user.RoleName,
	}

	accessToken, err := security.SignAccessToken(
		s.cfg.Security.JWTAccessSecret, identity, s.cfg.Security.JWTAccessTTL,
	)
	if err != nil {
		return AuthResult{}, err
	}

	refreshToken, expiresAt, err := security.SignRefreshToken(
		s.cfg.Security.JWTRefreshSecret, user.ID, user.Email, deviceID, s.cfg.Security.JWTRefreshTTL,
	)
	if err != nil {
		return AuthResult{}, err
	}

	if err := s.tokens.Create(ctx, models.RefreshToken{
		TokenHash: security.HashRefreshToken(refreshToken),
		UserID:    user.ID,
		DeviceID:  deviceID,
		ExpiresAt: expiresAt,
	}); err != nil {
		return AuthResult{}, err
	}

	return AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		DeviceID:     deviceID,
		User:         user,
	}, nil
}

type RefreshInput struct {
	RefreshToken string
	IPAddress    string
	UserAgent    string
}

// Refresh rotates a refresh token: the presented token is verified,
// its row deleted, and a fresh pair issued. Single use.
func (s *AuthService) Refresh(ctx context.Context, input RefreshInput) (AuthResult, error) {
	claims, err := security.ParseRefreshToken(input.RefreshToken, s.cfg.Security.JWTRefreshSecret)
	if err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}

	hash := security.HashRefreshToken(input.RefreshToken)
	stored, err := s.tokens.FindByHash(ctx, hash)
	if err != nil {
		// Already rotated or revoked: possible token reuse.
		s.log.Warn().Str("user_id", claims.UserID).Msg("refresh token not found")
		return AuthResult{}, ErrInvalidCredentials
	}

	if stored.UserID != claims.UserID || stored.DeviceID != claims.DeviceID {
		return AuthResult{}, ErrInvalidCredentials
	}
	if stored.ExpiresAt.Before(time.Now()) {
		_ = s.tokens.DeleteByHash(ctx, hash)
		return AuthResult{}, ErrInvalidCredentials
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}
	if err := accountUsable(user); err != nil {
		return AuthResult{}, err
	}

	if err := s.tokens.DeleteByHash(ctx, hash); err != nil {
		return AuthResult{}, err
	}

	if err := s.devices.Touch(ctx, stored.DeviceID, input.IPAddress, input.UserAgent); err != nil {
		s.log.Warn().Err(err).Str("device_id", stored.DeviceID).Msg("device touch failed")
	}

	return s.issueTokens(ctx, user, stored.DeviceID)
}

func (s *AuthService) Logout(ctx context.Context, userID string, deviceID string) error {
	if err := s.tokens.DeleteByDevice(ctx, userID, deviceID); err != nil {
		return err
	}
	if err := s.devices.Deactivate(ctx, deviceID); err != nil {
		s.log.Warn().Err(err).Str("device_id", deviceID).Msg("device deactivate failed")
	}
	return nil
}

// Lock suspends an account until the given time (or indefinitely when
// until is nil) and revokes nothing: existing access tokens simply
// expire, refresh is refused by the status check.
func (s *AuthService) Lock(ctx context.Context, userID string, until *time.Time) error {
	return s.users.SetLock(ctx, userID, until, models.UserStatusBlocked)
}

func (s *AuthService) Unlock(ctx context.Context, userID string) error {
	return s.users.SetLock(ctx, userID, nil, models.UserStatusActive)
}
