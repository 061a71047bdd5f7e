package store

import (
	"context"
	"errors"
	"strconv"

	"gorm.io/gorm"

	"github.com/miniblog/backend/apperr"
	"github.com/miniblog/backend/models"
)

// PostStore performs the single-row operations behind the blog endpoints.
type PostStore struct {
	db *gorm.DB
}

// NewPostStore builds a store over db, which may be a transaction handle so
// that a caller can keep a read-check-then-mutate sequence in one
// transaction.
func NewPostStore(db *gorm.DB) *PostStore {
	return &PostStore{db: db}
}

// Insert stores a new post owned by authorUserID. The database assigns the
// id and both timestamps; they come back set on the returned post.
func (s *PostStore) Insert(ctx context.Context, title, content, authorUsername string, authorUserID uint) (*models.Post, error) {
	post := models.Post{
		Title:    title,
		Username: authorUsername,
		Content:  content,
		UserID:   authorUserID,
	}
	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// FindAll returns every post, newest first. The id tiebreak keeps the order
// deterministic when two posts share a created timestamp.
func (s *PostStore) FindAll(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *PostStore) FindByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.PostNotFound(formatID(id))
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// FindByIDAndUserID scopes the lookup to the owner. A post owned by someone
// else is indistinguishable from a missing one, which is what the update
// policy relies on.
func (s *PostStore) FindByIDAndUserID(ctx context.Context, id, userID uint) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.PostNotFound(formatID(id))
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// FindByTitle matches the title exactly. Titles are not unique; with
// duplicates the lowest id wins.
func (s *PostStore) FindByTitle(ctx context.Context, title string) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).Where("title = ?", title).Order("id").First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.PostNotFound(title)
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Update rewrites title and content only; id, owner and created timestamp
// stay untouched and the modified timestamp is bumped.
func (s *PostStore) Update(ctx context.Context, post *models.Post, title, content string) error {
	return s.db.WithContext(ctx).Model(post).Updates(map[string]interface{}{
		"title":   title,
		"content": content,
	}).Error
}

// DeleteByID hard-deletes the row.
func (s *PostStore) DeleteByID(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&models.Post{}, id).Error
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
