package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/miniblog/backend/apperr"
	"github.com/miniblog/backend/auth"
	"github.com/miniblog/backend/models"
	"github.com/miniblog/backend/store"
)

// BlogService runs the per-request flow: verify the token, resolve the user,
// check authorization, then hit the post table. Every write wraps the check
// and the mutation in a single transaction so a concurrent write on the same
// post cannot slip between them.
type BlogService struct {
	db       *gorm.DB
	verifier *auth.Verifier
}

func NewBlogService(db *gorm.DB, verifier *auth.Verifier) *BlogService {
	return &BlogService{db: db, verifier: verifier}
}

// authenticate resolves a bearer token to a user record. An absent token is
// AuthMissing, a bad one AuthInvalid, a stale subject UserNotFound.
func (s *BlogService) authenticate(ctx context.Context, db *gorm.DB, token string) (*models.User, error) {
	if token == "" {
		return nil, apperr.AuthMissing()
	}
	subject, err := s.verifier.Subject(token)
	if err != nil {
		return nil, err
	}
	return store.NewUserStore(db).FindByUsername(ctx, subject)
}

// CreateBlog stores a new post owned by the token's user. Any authenticated
// user may create; the author display name is copied from the user record.
func (s *BlogService) CreateBlog(ctx context.Context, token, title, content string) (*models.Post, error) {
	var created *models.Post
	err := s.db.Transaction(func(tx *gorm.DB) error {
		user, err := s.authenticate(ctx, tx, token)
		if err != nil {
			return err
		}
		created, err = store.NewPostStore(tx).Insert(ctx, title, content, user.Username, user.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetBlogList returns all posts, newest first. Public.
func (s *BlogService) GetBlogList(ctx context.Context) ([]models.Post, error) {
	return store.NewPostStore(s.db).FindAll(ctx)
}

// GetBlog returns a single post by id. Public.
func (s *BlogService) GetBlog(ctx context.Context, id uint) (*models.Post, error) {
	return store.NewPostStore(s.db).FindByID(ctx, id)
}

// GetBlogByTitle returns the first post with an exactly matching title.
// Public.
func (s *BlogService) GetBlogByTitle(ctx context.Context, title string) (*models.Post, error) {
	return store.NewPostStore(s.db).FindByTitle(ctx, title)
}

// UpdateBlog rewrites title and content on a post the requester owns. The
// lookup is owner-scoped, so a post owned by someone else surfaces as
// PostNotFound rather than Forbidden, and there is no admin override.
func (s *BlogService) UpdateBlog(ctx context.Context, token string, id uint, title, content string) (*models.Post, error) {
	var updated *models.Post
	err := s.db.Transaction(func(tx *gorm.DB) error {
		user, err := s.authenticate(ctx, tx, token)
		if err != nil {
			return err
		}

		posts := store.NewPostStore(tx)
		post, err := posts.FindByIDAndUserID(ctx, id, user.ID)
		if err != nil {
			return err
		}
		if err := posts.Update(ctx, post, title, content); err != nil {
			return err
		}

		// Re-read inside the transaction so the caller sees the stored
		// modified timestamp.
		updated, err = posts.FindByID(ctx, post.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteBlog removes a post. Regular users may only delete their own posts;
// admins may delete any post. A missing post is PostNotFound for both.
func (s *BlogService) DeleteBlog(ctx context.Context, token string, id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		user, err := s.authenticate(ctx, tx, token)
		if err != nil {
			return err
		}

		posts := store.NewPostStore(tx)
		post, err := posts.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if user.Role != models.RoleAdmin && post.UserID != user.ID {
			return apperr.Forbidden("no permission to delete this post")
		}
		return posts.DeleteByID(ctx, post.ID)
	})
}
