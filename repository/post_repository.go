package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/blogapi/models"
	"github.com/cppla/blogapi/schemas"
)

// PostRow is a post as listed, together with its live comment count.
type PostRow struct {
	ID           uint
	Title        string
	Content      string
	Author       string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	CommentCount int64
}

// Post returns the row without its count.
func (r PostRow) Post() models.Post {
	return models.Post{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		Author:    r.Author,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// PostRepository persists posts.
type PostRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a PostRepository on the given store handle.
func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// CreatePost inserts a post built from validated input and returns it with
// its generated id and creation time.
func (r *PostRepository) CreatePost(ctx context.Context, in schemas.PostCreate) (*models.Post, error) {
	post := models.Post{
		Title:   in.Title,
		Content: in.Content,
		Author:  in.Author,
	}
	err := unitOfWork(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		// refresh so created_at reflects what the store recorded
		return tx.First(&post, post.ID).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	post.Comments = []models.Comment{}
	return &post, nil
}

// GetPost loads a post with its comments. found is false when no post has id.
func (r *PostRepository) GetPost(ctx context.Context, id uint) (post *models.Post, found bool, err error) {
	var p models.Post
	err = unitOfWork(ctx, r.db, func(tx *gorm.DB) error {
		err := tx.Preload("Comments", byID).First(&p, id).Error
		if isNotFound(err) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("get post %d: %w", id, err)
	}
	if !found {
		return nil, false, nil
	}
	return &p, true, nil
}

// GetPosts returns at most limit posts in insertion order after skipping skip.
func (r *PostRepository) GetPosts(ctx context.Context, skip, limit int) ([]models.Post, error) {
	posts := []models.Post{}
	err := unitOfWork(ctx, r.db, func(tx *gorm.DB) error {
		return byID(tx).Offset(skip).Limit(limit).Find(&posts).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// GetPostsWithCommentCount is GetPosts with each post's comment count, read
// in the same query.
func (r *PostRepository) GetPostsWithCommentCount(ctx context.Context, skip, limit int) ([]PostRow, error) {
	rows := []PostRow{}
	err := unitOfWork(ctx, r.db, func(tx *gorm.DB) error {
		return tx.Model(&models.Post{}).
			Select("posts.*, (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count").
			Order(clause.OrderByColumn{Column: clause.Column{Table: "posts", Name: "id"}}).
			Offset(skip).
			Limit(limit).
			Scan(&rows).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list posts with comment count: %w", err)
	}
	return rows, nil
}

// UpdatePost writes only the fields present in in, stamps updated_at and
// returns the refreshed post. found is false when no post has id.
func (r *PostRepository) UpdatePost(ctx context.Context, id uint, in schemas.PostUpdate) (post *models.Post, found bool, err error) {
	var p models.Post
	err = unitOfWork(ctx, r.db, func(tx *gorm.DB) error {
		err := tx.First(&p, id).Error
		if isNotFound(err) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true

		changes := in.Changes()
		changes["updated_at"] = time.Now()
		if err := tx.Model(&models.Post{ID: p.ID}).Updates(changes).Error; err != nil {
			return err
		}
		return tx.Preload("Comments", byID).First(&p, id).Error
	})
	if err != nil {
		return nil, false, fmt.Errorf("update post %d: %w", id, err)
	}
	if !found {
		return nil, false, nil
	}
	return &p, true, nil
}

// DeletePost removes a post and every comment on it. deleted is false when no
// post has id.
func (r *PostRepository) DeletePost(ctx context.Context, id uint) (deleted bool, err error) {
	err = unitOfWork(ctx, r.db, func(tx *gorm.DB) error {
		var p models.Post
		err := tx.Select("id").First(&p, id).Error
		if isNotFound(err) {
			return nil
		}
		if err != nil {
			return err
		}
		// ON DELETE CASCADE covers this too; deleting explicitly keeps stores
		// without enforced foreign keys consistent.
		if err := tx.Where("post_id = ?", p.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Post{}, p.ID).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete post %d: %w", id, err)
	}
	return deleted, nil
}

// GetPostsCount returns the number of stored posts.
func (r *PostRepository) GetPostsCount(ctx context.Context) (int64, error) {
	var n int64
	err := unitOfWork(ctx, r.db, func(tx *gorm.DB) error {
		return tx.Model(&models.Post{}).Count(&n).Error
	})
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}
