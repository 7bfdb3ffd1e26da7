package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"scaenahub/internal/config"
	"scaenahub/internal/models"
	"scaenahub/internal/repository"
)

// Compile-time check to ensure serviceImpl implements Service
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	cfg       *config.Config
	logger    *zap.Logger
	now       func() time.Time
}

// NewService creates a new instance of the auth service.
func NewService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository, cfg *config.Config, logger *zap.Logger, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &serviceImpl{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		cfg:       cfg,
		logger:    logger.Named("AuthService"),
		now:       now,
	}
}

func (s *serviceImpl) Register(ctx context.Context, username, displayName, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	displayName = strings.TrimSpace(displayName)
	logFields := []zap.Field{zap.String("username", username)}
	s.logger.Info("Registering new user", logFields...)

	if username == "" || password == "" {
		s.logger.Warn("Registration attempt with empty username or password", logFields...)
		return nil, models.ErrInvalidCredentials
	}
	if displayName == "" {
		displayName = username
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("Error checking existing username during registration", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("error checking existing username: %w", err)
	}
	if existing != nil {
		s.logger.Warn("Registration attempt for existing username", logFields...)
		return nil, models.ErrUserAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("Failed to hash password during registration", append(logFields, zap.Error(err))...)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: string(hash),
		Roles:        []string{models.RoleViewer},
		CreatedAt:    s.now().UTC(),
		UpdatedAt:    s.now().UTC(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, models.ErrConflict) {
			s.logger.Warn("Registration lost a race for the username", logFields...)
			return nil, models.ErrUserAlreadyExists
		}
		s.logger.Error("Failed to create user via repository", append(logFields, zap.Error(err))...)
		return nil, err
	}

	s.logger.Info("User registered successfully", zap.String("userID", user.ID.String()), zap.String("username", user.Username))
	return user, nil
}

func (s *serviceImpl) Login(ctx context.Context, username, password string) (*models.TokenDetails, error) {
	s.logger.Info("Login attempt", zap.String("username", username))
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Warn("Login failed: user not found", zap.String("username", username))
			return nil, models.ErrInvalidCredentials
		}
		s.logger.Error("Login failed: error getting user from repository", zap.Error(err), zap.String("username", username))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.logger.Warn("Login failed: invalid password", zap.String("username", username), zap.String("userID", user.ID.String()))
		return nil, models.ErrInvalidCredentials
	}

	td, err := s.createTokens(user)
	if err != nil {
		s.logger.Error("Failed to create tokens during login", zap.Error(err), zap.String("userID", user.ID.String()))
		return nil, fmt.Errorf("failed to create tokens: %w", err)
	}

	if err := s.tokenRepo.SetToken(ctx, user.ID, td); err != nil {
		s.logger.Error("Failed to save token details during login", zap.Error(err), zap.String("userID", user.ID.String()))
		return nil, fmt.Errorf("failed to save token details: %w", err)
	}

	s.logger.Info("User logged in successfully", zap.String("userID", user.ID.String()))
	return td, nil
}

func (s *serviceImpl) Refresh(ctx context.Context, refreshTokenString string) (*models.TokenDetails, error) {
	s.logger.Info("Token refresh attempt") // never log the token itself
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(refreshTokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			s.logger.Warn("Refresh attempt with expired token")
			return nil, models.ErrTokenExpired
		}
		if errors.Is(err, jwt.ErrTokenMalformed) {
			s.logger.Warn("Refresh attempt with malformed token")
			return nil, models.ErrTokenMalformed
		}
		s.logger.Error("Failed to parse refresh token", zap.Error(err))
		return nil, models.ErrTokenInvalid
	}
	if !token.Valid {
		return nil, models.ErrTokenInvalid
	}

	refreshUUID := claims.ID
	storedUserID, err := s.tokenRepo.FetchUserID(ctx, refreshUUID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Warn("Refresh attempt with revoked token", zap.String("refreshUUID", refreshUUID))
			return nil, models.ErrTokenInvalid
		}
		s.logger.Error("Error checking refresh token existence", zap.Error(err), zap.String("refreshUUID", refreshUUID))
		return nil, fmt.Errorf("error checking refresh token existence: %w", err)
	}
	if storedUserID != claims.UserID {
		s.logger.Error("Refresh token user ID mismatch",
			zap.String("tokenUserID", claims.UserID.String()),
			zap.String("storedUserID", storedUserID.String()),
			zap.String("refreshUUID", refreshUUID))
		return nil, models.ErrTokenInvalid
	}

	// Roles may have changed since the token was issued; re-read the user so
	// the new pair carries current roles.
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		s.logger.Error("Failed to load user during refresh", zap.Error(err), zap.String("userID", claims.UserID.String()))
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	newTd, err := s.createTokens(user)
	if err != nil {
		return nil, fmt.Errorf("failed to create new tokens during refresh: %w", err)
	}

	if delErr := s.tokenRepo.DeleteToken(ctx, refreshUUID); delErr != nil {
		s.logger.Error("Non-critical: failed to delete old refresh token", zap.Error(delErr), zap.String("refreshUUID", refreshUUID))
	}

	if err := s.tokenRepo.SetToken(ctx, user.ID, newTd); err != nil {
		s.logger.Error("Failed to save new token details during refresh", zap.Error(err), zap.String("userID", user.ID.String()))
		return nil, fmt.Errorf("failed to save new token details: %w", err)
	}

	s.logger.Info("Tokens refreshed successfully", zap.String("userID", user.ID.String()))
	return newTd, nil
}

func (s *serviceImpl) Logout(ctx context.Context, accessUUID, refreshUUID string) error {
	log := s.logger.With(zap.String("accessUUID", accessUUID), zap.String("refreshUUID", refreshUUID))
	log.Debug("Attempting to logout user by deleting tokens")

	for _, id := range []string{accessUUID, refreshUUID} {
		if id == "" {
			continue
		}
		if err := s.tokenRepo.DeleteToken(ctx, id); err != nil && !errors.Is(err, models.ErrNotFound) {
			// Tokens may already be expired; revocation is best-effort.
			log.Error("Failed to delete token during logout", zap.Error(err), zap.String("tokenUUID", id))
		}
	}
	log.Info("Logout processed")
	return nil
}

func (s *serviceImpl) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	if err := s.tokenRepo.DeleteAllForUser(ctx, userID); err != nil {
		s.logger.Error("Failed to revoke all tokens for user", zap.Error(err), zap.String("userID", userID.String()))
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}
	s.logger.Info("All tokens revoked for user", zap.String("userID", userID.String()))
	return nil
}

// createTokens generates a signed access/refresh pair for a user.
func (s *serviceImpl) createTokens(user *models.User) (*models.TokenDetails, error) {
	now := s.now()
	td := &models.TokenDetails{
		AccessUUID:  uuid.New().String(),
		RefreshUUID: uuid.New().String(),
		AtExpires:   now.Add(s.cfg.AccessTokenTTL).Unix(),
		RtExpires:   now.Add(s.cfg.RefreshTokenTTL).Unix(),
	}

	var err error
	td.AccessToken, err = s.signToken(user, td.AccessUUID, time.Unix(td.AtExpires, 0), now)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	td.RefreshToken, err = s.signToken(user, td.RefreshUUID, time.Unix(td.RtExpires, 0), now)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return td, nil
}

func (s *serviceImpl) signToken(user *models.User, tokenUUID string, expiresAt, issuedAt time.Time) (string, error) {
	claims := &models.Claims{
		UserID:   user.ID,
		UserName: user.DisplayName,
		Roles:    user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenUUID,
			Subject:   user.ID.String(),
			Issuer:    "scaenahub",
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
