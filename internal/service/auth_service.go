package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/socialhub/internal/config"
	"github.com/socialhub/internal/models"
	"github.com/socialhub/internal/repository"
	"github.com/socialhub/pkg/crypto"
	"github.com/socialhub/pkg/keygen"
)

const tokenIssuer = "socialhub"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUnauthorized       = errors.New("not authorized")
	ErrUserNotFound       = repository.ErrUserNotFound
	ErrVersionConflict    = repository.ErrVersionConflict
)

// PrincipalKind tells which collection a token's principal lives in
type PrincipalKind string

const (
	PrincipalUser  PrincipalKind = "user"
	PrincipalAdmin PrincipalKind = "admin"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo  UserStore
	adminRepo AdminStore
	revoked   RevocationStore
	jwtConfig config.JWTConfig
	now       func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo UserStore, adminRepo AdminStore, revoked RevocationStore, jwtConfig config.JWTConfig) *AuthService {
	if jwtConfig.ExpireHours <= 0 {
		jwtConfig.ExpireHours = 24
	}
	return &AuthService{
		userRepo:  userRepo,
		adminRepo: adminRepo,
		revoked:   revoked,
		jwtConfig: jwtConfig,
		now:       time.Now,
	}
}

// RegisterRequest represents the registration request
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

// LoginRequest represents the user login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AdminLoginRequest represents the admin login request
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// JWTClaims represents the JWT claims. The token ID (jti) identifies the
// token in the revocation set.
type JWTClaims struct {
	PrincipalID uint          `json:"principal_id"`
	Kind        PrincipalKind `json:"kind"`
	jwt.RegisteredClaims
}

// Register registers a new user
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	email := normalizeEmail(req.Email)

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	passwordHash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:         email,
		PasswordHash:  passwordHash,
		Name:          strings.TrimSpace(req.Name),
		SocialHandles: models.SocialHandles{},
		Images:        models.Images{},
		Version:       1,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race against a concurrent registration
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return user, nil
}

// LoginUser authenticates a user by email and returns a bearer token
func (s *AuthService) LoginUser(ctx context.Context, req *LoginRequest) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if !crypto.CheckPassword(req.Password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	return s.IssueToken(user.ID, PrincipalUser)
}

// LoginAdmin authenticates the admin by username and returns a bearer token
func (s *AuthService) LoginAdmin(ctx context.Context, req *AdminLoginRequest) (string, error) {
	admin, err := s.adminRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if !crypto.CheckPassword(req.Password, admin.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	return s.IssueToken(admin.ID, PrincipalAdmin)
}

// IssueToken signs a token for the principal, valid for the configured number of hours
func (s *AuthService) IssueToken(principalID uint, kind PrincipalKind) (string, error) {
	now := s.now()
	claims := &JWTClaims{
		PrincipalID: principalID,
		Kind:        kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        keygen.TokenID(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL())),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokenString, nil
}

// ParseToken checks signature, expiry and issuer and returns the claims
func (s *AuthService) ParseToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.jwtConfig.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, ErrUnauthorized
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

// VerifyUser resolves a user token to the user it was issued for
func (s *AuthService) VerifyUser(ctx context.Context, tokenString string) (*models.User, *JWTClaims, error) {
	claims, err := s.verify(ctx, tokenString, PrincipalUser)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.GetByID(ctx, claims.PrincipalID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, ErrUnauthorized
		}
		return nil, nil, err
	}
	return user, claims, nil
}

// VerifyAdmin resolves an admin token to the admin it was issued for
func (s *AuthService) VerifyAdmin(ctx context.Context, tokenString string) (*models.Admin, *JWTClaims, error) {
	claims, err := s.verify(ctx, tokenString, PrincipalAdmin)
	if err != nil {
		return nil, nil, err
	}

	admin, err := s.adminRepo.GetByID(ctx, claims.PrincipalID)
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			return nil, nil, ErrUnauthorized
		}
		return nil, nil, err
	}
	return admin, claims, nil
}

// Logout revokes the token for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, claims *JWTClaims) error {
	if claims.ID == "" || claims.ExpiresAt == nil {
		return ErrUnauthorized
	}
	return s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Sub(s.now()))
}

func (s *AuthService) verify(ctx context.Context, tokenString string, kind PrincipalKind) (*JWTClaims, error) {
	claims, err := s.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Kind != kind {
		return nil, ErrUnauthorized
	}

	if claims.ID != "" {
		revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check token revocation: %w", err)
		}
		if revoked {
			return nil, ErrUnauthorized
		}
	}
	return claims, nil
}

func (s *AuthService) tokenTTL() time.Duration {
	return time.Duration(s.jwtConfig.ExpireHours) * time.Hour
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
