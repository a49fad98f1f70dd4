package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/soa-tours/platform/internal/pkg/apierr"
	"github.com/soa-tours/platform/internal/repos"
	"github.com/soa-tours/platform/internal/types"
)

const testSecret = "test-secret"

func newAuthService(t *testing.T) (AuthService, *gorm.DB) {
	t.Helper()
	db := openTestDB(t, &types.User{}, &types.Profile{}, &types.UserToken{})
	log := testLogger()
	service := NewAuthService(
		db, log,
		repos.NewUserRepo(db, log),
		repos.NewProfileRepo(db, log),
		repos.NewUserTokenRepo(db, log),
		testSecret,
		15*time.Minute,
		24*time.Hour,
	)
	return service, db
}

func registerUser(t *testing.T, service AuthService, username, password string) *types.User {
	t.Helper()
	user, err := service.Register(context.Background(),
		&types.User{Username: username, Email: username + "@example.com", Role: "tourist"},
		&types.Profile{FirstName: "Test", LastName: "User"},
		password,
	)
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return user
}

func TestRegisterCreatesUserAndProfile(t *testing.T) {
	service, db := newAuthService(t)

	user := registerUser(t, service, "alice", "s3cret")
	if user.ID == 0 {
		t.Fatalf("user id not assigned")
	}
	if user.PasswordHash == "s3cret" || user.PasswordHash == "" {
		t.Fatalf("password must be stored hashed")
	}

	var profile types.Profile
	if err := db.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		t.Fatalf("profile not created: %v", err)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	service, _ := newAuthService(t)
	registerUser(t, service, "alice", "s3cret")

	_, err := service.Register(context.Background(),
		&types.User{Username: "alice", Email: "other@example.com", Role: "tourist"},
		&types.Profile{},
		"s3cret",
	)
	ae := apierr.As(err)
	if ae == nil || ae.Code != "conflict_error" {
		t.Fatalf("expected conflict_error, got %v", err)
	}
}

func TestLoginIssuesParsableToken(t *testing.T) {
	service, _ := newAuthService(t)
	user := registerUser(t, service, "alice", "s3cret")

	result, err := service.Login(context.Background(), "alice", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatalf("tokens missing: %+v", result)
	}

	claims, err := ParseClaims(result.AccessToken, testSecret)
	if err != nil {
		t.Fatalf("parse claims: %v", err)
	}
	if claims.UserID != user.ID || claims.Username != "alice" || claims.Role != "tourist" {
		t.Fatalf("claims do not match user: %+v", claims)
	}

	if _, err := ParseClaims(result.AccessToken, "wrong-secret"); err == nil {
		t.Fatalf("token must not validate under another secret")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	service, _ := newAuthService(t)
	registerUser(t, service, "alice", "s3cret")

	_, err := service.Login(context.Background(), "alice", "wrong")
	ae := apierr.As(err)
	if ae == nil || ae.Code != "unauthorized" {
		t.Fatalf("expected unauthorized, got %v", err)
	}

	_, err = service.Login(context.Background(), "nobody", "s3cret")
	ae = apierr.As(err)
	if ae == nil || ae.Code != "unauthorized" {
		t.Fatalf("expected unauthorized for unknown user, got %v", err)
	}
}

func TestLoginRejectsBlockedUser(t *testing.T) {
	service, db := newAuthService(t)
	user := registerUser(t, service, "alice", "s3cret")

	if err := db.Model(&types.User{}).Where("id = ?", user.ID).Update("is_blocked", true).Error; err != nil {
		t.Fatalf("block user: %v", err)
	}

	_, err := service.Login(context.Background(), "alice", "s3cret")
	ae := apierr.As(err)
	if ae == nil || ae.Code != "forbidden" {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestRefreshRotatesTokens(t *testing.T) {
	service, _ := newAuthService(t)
	registerUser(t, service, "alice", "s3cret")

	login, err := service.Login(context.Background(), "alice", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshed, err := service.Refresh(context.Background(), login.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Fatalf("refresh token must rotate")
	}

	// The old refresh token is spent.
	_, err = service.Refresh(context.Background(), login.RefreshToken)
	ae := apierr.As(err)
	if ae == nil || ae.Code != "unauthorized" {
		t.Fatalf("expected unauthorized for spent token, got %v", err)
	}
}

func TestLogoutRevokesRefreshTokens(t *testing.T) {
	service, _ := newAuthService(t)
	user := registerUser(t, service, "alice", "s3cret")

	login, err := service.Login(context.Background(), "alice", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := service.Logout(context.Background(), user.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}

	_, err = service.Refresh(context.Background(), login.RefreshToken)
	ae := apierr.As(err)
	if ae == nil || ae.Code != "unauthorized" {
		t.Fatalf("expected unauthorized after logout, got %v", err)
	}
}
