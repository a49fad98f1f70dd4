package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/soa-tours/platform/internal/pkg/apierr"
	"github.com/soa-tours/platform/internal/pkg/logger"
	"github.com/soa-tours/platform/internal/repos"
	"github.com/soa-tours/platform/internal/types"
)

// Claims is the JWT payload shared by all services behind the gateway.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *types.User
}

type AuthService interface {
	Register(ctx context.Context, user *types.User, profile *types.Profile, password string) (*types.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*LoginResult, error)
	Logout(ctx context.Context, userID int64) error
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	profileRepo   repos.ProfileRepo
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	profileRepo repos.ProfileRepo,
	userTokenRepo repos.UserTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		profileRepo:   profileRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (as *authService) Register(ctx context.Context, user *types.User, profile *types.Profile, password string) (*types.User, error) {
	user.Username = strings.TrimSpace(user.Username)
	user.Email = strings.TrimSpace(strings.ToLower(user.Email))

	if user.Username == "" || user.Email == "" {
		return nil, apierr.Validation("username and email are required")
	}
	if password == "" {
		return nil, apierr.Validation("a password is required to register")
	}
	if user.Role != "guide" && user.Role != "tourist" {
		return nil, apierr.Validation("role must be guide or tourist")
	}

	exists, err := as.userRepo.UsernameOrEmailExists(ctx, nil, user.Username, user.Email)
	if err != nil {
		return nil, apierr.Dependency(err, "failed to check existing users")
	}
	if exists {
		return nil, apierr.Conflict("user with this username or email already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apierr.New(500, "internal_error", err)
	}
	user.PasswordHash = string(hashed)

	if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := as.userRepo.Create(ctx, tx, []*types.User{user}); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apierr.Conflict("user with this username or email already exists")
			}
			return err
		}
		profile.UserID = user.ID
		if _, err := as.profileRepo.Create(ctx, tx, []*types.Profile{profile}); err != nil {
			return err
		}
		return nil
	}); err != nil {
		if ae := apierr.As(err); ae != nil {
			return nil, ae
		}
		return nil, apierr.Dependency(err, "failed to register user")
	}
	user.Profile = profile
	return user, nil
}

func (as *authService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apierr.Validation("username and password are required")
	}

	user, err := as.userRepo.GetByUsername(ctx, nil, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.Unauthorized("invalid credentials")
		}
		return nil, apierr.Dependency(err, "failed to load user")
	}
	if user.IsBlocked {
		return nil, apierr.Forbidden("account is blocked")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apierr.Unauthorized("invalid credentials")
	}

	result := &LoginResult{User: user}
	if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		accessToken, err := as.generateAccessToken(user)
		if err != nil {
			return err
		}
		refreshToken := uuid.New().String()
		userToken := &types.UserToken{
			UserID:       user.ID,
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if err := as.userTokenRepo.Create(ctx, tx, userToken); err != nil {
			return err
		}
		result.AccessToken = accessToken
		result.RefreshToken = refreshToken
		return nil
	}); err != nil {
		return nil, apierr.Dependency(err, "failed to issue tokens")
	}
	return result, nil
}

func (as *authService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	if refreshToken == "" {
		return nil, apierr.Validation("refresh token is required")
	}

	result := &LoginResult{}
	if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := as.userTokenRepo.GetByRefreshToken(ctx, tx, refreshToken)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.Unauthorized("unknown refresh token")
			}
			return err
		}
		if existing.ExpiresAt.Before(time.Now()) {
			if err := as.userTokenRepo.DeleteByID(ctx, tx, existing.ID); err != nil {
				return err
			}
			return apierr.Unauthorized("refresh token expired")
		}
		user, err := as.userRepo.GetByID(ctx, tx, existing.UserID)
		if err != nil {
			return err
		}
		if user.IsBlocked {
			return apierr.Forbidden("account is blocked")
		}
		accessToken, err := as.generateAccessToken(user)
		if err != nil {
			return err
		}
		newRefresh := uuid.New().String()
		if err := as.userTokenRepo.DeleteByID(ctx, tx, existing.ID); err != nil {
			return err
		}
		if err := as.userTokenRepo.Create(ctx, tx, &types.UserToken{
			UserID:       user.ID,
			AccessToken:  accessToken,
			RefreshToken: newRefresh,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}); err != nil {
			return err
		}
		result.AccessToken = accessToken
		result.RefreshToken = newRefresh
		result.User = user
		return nil
	}); err != nil {
		if ae := apierr.As(err); ae != nil {
			return nil, ae
		}
		return nil, apierr.Dependency(err, "failed to refresh tokens")
	}
	return result, nil
}

func (as *authService) Logout(ctx context.Context, userID int64) error {
	if err := as.userTokenRepo.DeleteByUserID(ctx, nil, userID); err != nil {
		return apierr.Dependency(err, "failed to delete tokens")
	}
	return nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			Subject:   user.Username,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

// ParseClaims validates a signed access token. It is used by the auth
// middleware in every service; validation is stateless so content and
// commerce do not need the stakeholders database.
func ParseClaims(tokenString, jwtSecretKey string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apierr.Unauthorized("unexpected signing method")
		}
		return []byte(jwtSecretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, apierr.Unauthorized("invalid or expired token")
	}
	if claims.UserID <= 0 {
		return nil, apierr.Unauthorized("token has no user")
	}
	return claims, nil
}
