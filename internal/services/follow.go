package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/soa-tours/platform/internal/pkg/apierr"
	"github.com/soa-tours/platform/internal/pkg/logger"
	"github.com/soa-tours/platform/internal/repos"
	"github.com/soa-tours/platform/internal/types"
)

// CommentPermission is returned by the can-comment check the content
// service consults before accepting a blog comment.
type CommentPermission struct {
	CanComment bool   `json:"can_comment"`
	Reason     string `json:"reason"`
}

type FollowService interface {
	Follow(ctx context.Context, followerID, followingID int64) (*types.Follow, error)
	Unfollow(ctx context.Context, followerID, followingID int64) error
	IsFollowing(ctx context.Context, followerID, followingID int64) (bool, error)
	Following(ctx context.Context, userID int64) ([]*types.FollowWithUser, error)
	Followers(ctx context.Context, userID int64) ([]*types.FollowWithUser, error)
	CanComment(ctx context.Context, userID, authorID int64) (*CommentPermission, error)
}

type followService struct {
	log        *logger.Logger
	followRepo repos.FollowRepo
	userRepo   repos.UserRepo
}

func NewFollowService(log *logger.Logger, followRepo repos.FollowRepo, userRepo repos.UserRepo) FollowService {
	serviceLog := log.With("service", "FollowService")
	return &followService{log: serviceLog, followRepo: followRepo, userRepo: userRepo}
}

func (fs *followService) Follow(ctx context.Context, followerID, followingID int64) (*types.Follow, error) {
	if followerID == followingID {
		return nil, apierr.Validation("cannot follow yourself")
	}
	if _, err := fs.userRepo.GetByID(ctx, nil, followingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("user to follow not found")
		}
		return nil, apierr.Dependency(err, "failed to load user")
	}

	follow := &types.Follow{FollowerID: followerID, FollowingID: followingID}
	if err := fs.followRepo.Create(ctx, nil, follow); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierr.Conflict("already following this user")
		}
		return nil, apierr.Dependency(err, "failed to create follow")
	}
	return follow, nil
}

func (fs *followService) Unfollow(ctx context.Context, followerID, followingID int64) error {
	removed, err := fs.followRepo.Delete(ctx, nil, followerID, followingID)
	if err != nil {
		return apierr.Dependency(err, "failed to delete follow")
	}
	if !removed {
		return apierr.NotFound("follow relationship not found")
	}
	return nil
}

func (fs *followService) IsFollowing(ctx context.Context, followerID, followingID int64) (bool, error) {
	following, err := fs.followRepo.Exists(ctx, nil, followerID, followingID)
	if err != nil {
		return false, apierr.Dependency(err, "failed to check follow")
	}
	return following, nil
}

func (fs *followService) Following(ctx context.Context, userID int64) ([]*types.FollowWithUser, error) {
	follows, err := fs.followRepo.ListFollowing(ctx, nil, userID)
	if err != nil {
		return nil, apierr.Dependency(err, "failed to list following")
	}
	flattened := make([]*types.FollowWithUser, 0, len(follows))
	for _, follow := range follows {
		flattened = append(flattened, flattenFollow(follow, follow.Following))
	}
	return flattened, nil
}

func (fs *followService) Followers(ctx context.Context, userID int64) ([]*types.FollowWithUser, error) {
	followers, err := fs.followRepo.ListFollowers(ctx, nil, userID)
	if err != nil {
		return nil, apierr.Dependency(err, "failed to list followers")
	}
	flattened := make([]*types.FollowWithUser, 0, len(followers))
	for _, follow := range followers {
		flattened = append(flattened, flattenFollow(follow, follow.Follower))
	}
	return flattened, nil
}

func flattenFollow(follow *types.Follow, counterpart *types.User) *types.FollowWithUser {
	flat := &types.FollowWithUser{Follow: *follow}
	if counterpart != nil {
		flat.Username = counterpart.Username
		if counterpart.Profile != nil {
			flat.FirstName = counterpart.Profile.FirstName
			flat.LastName = counterpart.Profile.LastName
		}
	}
	return flat
}

func (fs *followService) CanComment(ctx context.Context, userID, authorID int64) (*CommentPermission, error) {
	if userID == authorID {
		return &CommentPermission{CanComment: true, Reason: "own_blog"}, nil
	}
	following, err := fs.followRepo.Exists(ctx, nil, userID, authorID)
	if err != nil {
		return nil, apierr.Dependency(err, "failed to check follow")
	}
	if following {
		return &CommentPermission{CanComment: true, Reason: "following_author"}, nil
	}
	return &CommentPermission{CanComment: false, Reason: "not_following"}, nil
}
