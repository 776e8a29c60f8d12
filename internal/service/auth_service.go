package service

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/spool-tracker/internal/models"
	appErrors "github.com/noah-isme/spool-tracker/pkg/errors"
)

// AuthConfig holds verification secrets. Tokens and device keys are issued
// outside this service.
type AuthConfig struct {
	AccessTokenSecret string
	DeviceKeyHash     string
}

// AuthService verifies operator tokens and scale device keys.
type AuthService struct {
	config AuthConfig
	logger *zap.Logger
}

// NewAuthService constructs the verifier.
func NewAuthService(config AuthConfig, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{config: config, logger: logger}
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	if s.config.AccessTokenSecret == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "token verification not configured")
	}
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	if claims.Role != models.RoleAdmin && claims.Role != models.RoleOperator {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unknown role")
	}
	return claims, nil
}

// DeviceKeyRequired reports whether the scale endpoint expects a key.
func (s *AuthService) DeviceKeyRequired() bool {
	return s.config.DeviceKeyHash != ""
}

// VerifyDeviceKey checks a presented device key against the configured
// bcrypt hash.
func (s *AuthService) VerifyDeviceKey(key string) error {
	if !s.DeviceKeyRequired() {
		return nil
	}
	if key == "" {
		return appErrors.Clone(appErrors.ErrUnauthorized, "missing device key")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.config.DeviceKeyHash), []byte(key)); err != nil {
		s.logger.Warn("device key rejected", zap.Error(err))
		return appErrors.Clone(appErrors.ErrUnauthorized, "invalid device key")
	}
	return nil
}
