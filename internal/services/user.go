package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/soa-tours/platform/internal/pkg/apierr"
	"github.com/soa-tours/platform/internal/pkg/logger"
	"github.com/soa-tours/platform/internal/repos"
	"github.com/soa-tours/platform/internal/types"
)

type ProfileUpdate struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	ProfileImage string `json:"profile_image"`
	Biography    string `json:"biography"`
	Motto        string `json:"motto"`
}

type UserService interface {
	GetByID(ctx context.Context, userID int64) (*types.User, error)
	List(ctx context.Context) ([]*types.User, error)
	GetProfile(ctx context.Context, userID int64) (*types.Profile, error)
	UpdateProfile(ctx context.Context, userID int64, update *ProfileUpdate) (*types.Profile, error)
	ListProfiles(ctx context.Context) ([]*types.Profile, error)
}

type userService struct {
	log         *logger.Logger
	userRepo    repos.UserRepo
	profileRepo repos.ProfileRepo
}

func NewUserService(log *logger.Logger, userRepo repos.UserRepo, profileRepo repos.ProfileRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{log: serviceLog, userRepo: userRepo, profileRepo: profileRepo}
}

func (us *userService) GetByID(ctx context.Context, userID int64) (*types.User, error) {
	user, err := us.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("user not found")
		}
		return nil, apierr.Dependency(err, "failed to load user")
	}
	return user, nil
}

func (us *userService) List(ctx context.Context) ([]*types.User, error) {
	users, err := us.userRepo.List(ctx, nil)
	if err != nil {
		return nil, apierr.Dependency(err, "failed to list users")
	}
	return users, nil
}

func (us *userService) GetProfile(ctx context.Context, userID int64) (*types.Profile, error) {
	profile, err := us.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("profile not found")
		}
		return nil, apierr.Dependency(err, "failed to load profile")
	}
	return profile, nil
}

func (us *userService) UpdateProfile(ctx context.Context, userID int64, update *ProfileUpdate) (*types.Profile, error) {
	if strings.TrimSpace(update.FirstName) == "" || strings.TrimSpace(update.LastName) == "" {
		return nil, apierr.Validation("first_name and last_name are required")
	}

	profile, err := us.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("profile not found")
		}
		return nil, apierr.Dependency(err, "failed to load profile")
	}

	profile.FirstName = update.FirstName
	profile.LastName = update.LastName
	profile.ProfileImage = update.ProfileImage
	profile.Biography = update.Biography
	profile.Motto = update.Motto

	if err := us.profileRepo.Save(ctx, nil, profile); err != nil {
		return nil, apierr.Dependency(err, "failed to save profile")
	}
	return profile, nil
}

func (us *userService) ListProfiles(ctx context.Context) ([]*types.Profile, error) {
	profiles, err := us.profileRepo.List(ctx, nil)
	if err != nil {
		return nil, apierr.Dependency(err, "failed to list profiles")
	}
	return profiles, nil
}
