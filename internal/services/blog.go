package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soa-tours/platform/internal/clients/stakeholders"
	"github.com/soa-tours/platform/internal/pkg/apierr"
	"github.com/soa-tours/platform/internal/pkg/logger"
	"github.com/soa-tours/platform/internal/repos"
	"github.com/soa-tours/platform/internal/types"
)

type BlogInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
}

type BlogPage struct {
	Blogs []*types.Blog `json:"blogs"`
	Total int64         `json:"total"`
}

type BlogService interface {
	Create(ctx context.Context, authorID int64, input *BlogInput) (*types.Blog, error)
	GetByID(ctx context.Context, blogID uuid.UUID) (*types.Blog, error)
	List(ctx context.Context, page, pageSize int) (*BlogPage, error)
	Update(ctx context.Context, blogID uuid.UUID, authorID int64, input *BlogInput) (*types.Blog, error)
	Delete(ctx context.Context, blogID uuid.UUID, authorID int64) error
	Like(ctx context.Context, blogID uuid.UUID, userID int64) (*types.Blog, error)
	Unlike(ctx context.Context, blogID uuid.UUID, userID int64) (*types.Blog, error)
	AddComment(ctx context.Context, blogID uuid.UUID, userID int64, text string) (*types.Blog, error)
}

type blogService struct {
	log          *logger.Logger
	blogRepo     repos.BlogRepo
	stakeholders stakeholders.Client
}

func NewBlogService(log *logger.Logger, blogRepo repos.BlogRepo, stakeholdersClient stakeholders.Client) BlogService {
	serviceLog := log.With("service", "BlogService")
	return &blogService{log: serviceLog, blogRepo: blogRepo, stakeholders: stakeholdersClient}
}

func (bs *blogService) Create(ctx context.Context, authorID int64, input *BlogInput) (*types.Blog, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apierr.Validation("a blog title is required")
	}
	blog := &types.Blog{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Title:       input.Title,
		Description: input.Description,
		Images:      input.Images,
		Likes:       []int64{},
		Comments:    []types.Comment{},
	}
	if err := bs.blogRepo.Create(ctx, nil, blog); err != nil {
		return nil, apierr.Dependency(err, "failed to create blog")
	}
	return blog, nil
}

func (bs *blogService) GetByID(ctx context.Context, blogID uuid.UUID) (*types.Blog, error) {
	blog, err := bs.blogRepo.GetByID(ctx, nil, blogID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("blog not found")
		}
		return nil, apierr.Dependency(err, "failed to load blog")
	}
	return blog, nil
}

func (bs *blogService) List(ctx context.Context, page, pageSize int) (*BlogPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	blogs, err := bs.blogRepo.List(ctx, nil, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, apierr.Dependency(err, "failed to list blogs")
	}
	total, err := bs.blogRepo.Count(ctx, nil)
	if err != nil {
		return nil, apierr.Dependency(err, "failed to count blogs")
	}
	return &BlogPage{Blogs: blogs, Total: total}, nil
}

func (bs *blogService) Update(ctx context.Context, blogID uuid.UUID, authorID int64, input *BlogInput) (*types.Blog, error) {
	blog, err := bs.GetByID(ctx, blogID)
	if err != nil {
		return nil, err
	}
	if blog.AuthorID != authorID {
		return nil, apierr.Forbidden("only the author can update this blog")
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, apierr.Validation("a blog title is required")
	}
	blog.Title = input.Title
	blog.Description = input.Description
	blog.Images = input.Images
	if err := bs.blogRepo.Save(ctx, nil, blog); err != nil {
		return nil, apierr.Dependency(err, "failed to save blog")
	}
	return blog, nil
}

func (bs *blogService) Delete(ctx context.Context, blogID uuid.UUID, authorID int64) error {
	blog, err := bs.GetByID(ctx, blogID)
	if err != nil {
		return err
	}
	if blog.AuthorID != authorID {
		return apierr.Forbidden("only the author can delete this blog")
	}
	if err := bs.blogRepo.Delete(ctx, nil, blogID); err != nil {
		return apierr.Dependency(err, "failed to delete blog")
	}
	return nil
}

// Like is idempotent: liking twice leaves a single entry.
func (bs *blogService) Like(ctx context.Context, blogID uuid.UUID, userID int64) (*types.Blog, error) {
	blog, err := bs.GetByID(ctx, blogID)
	if err != nil {
		return nil, err
	}
	for _, id := range blog.Likes {
		if id == userID {
			return blog, nil
		}
	}
	blog.Likes = append(blog.Likes, userID)
	if err := bs.blogRepo.Save(ctx, nil, blog); err != nil {
		return nil, apierr.Dependency(err, "failed to save blog")
	}
	return blog, nil
}

func (bs *blogService) Unlike(ctx context.Context, blogID uuid.UUID, userID int64) (*types.Blog, error) {
	blog, err := bs.GetByID(ctx, blogID)
	if err != nil {
		return nil, err
	}
	kept := blog.Likes[:0]
	removed := false
	for _, id := range blog.Likes {
		if id == userID {
			removed = true
			continue
		}
		kept = append(kept, id)
	}
	if !removed {
		return blog, nil
	}
	blog.Likes = kept
	if err := bs.blogRepo.Save(ctx, nil, blog); err != nil {
		return nil, apierr.Dependency(err, "failed to save blog")
	}
	return blog, nil
}

func (bs *blogService) AddComment(ctx context.Context, blogID uuid.UUID, userID int64, text string) (*types.Blog, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apierr.Validation("comment text is required")
	}
	blog, err := bs.GetByID(ctx, blogID)
	if err != nil {
		return nil, err
	}
	permission, err := bs.stakeholders.CanComment(ctx, userID, blog.AuthorID)
	if err != nil {
		return nil, err
	}
	if !permission.CanComment {
		return nil, apierr.Forbidden("you must follow the author to comment")
	}
	now := time.Now()
	blog.Comments = append(blog.Comments, types.Comment{
		UserID:    userID,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err := bs.blogRepo.Save(ctx, nil, blog); err != nil {
		return nil, apierr.Dependency(err, "failed to save blog")
	}
	return blog, nil
}
