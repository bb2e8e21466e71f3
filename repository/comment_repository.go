package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/cppla/blogapi/models"
	"github.com/cppla/blogapi/schemas"
)

// CommentRepository persists comments.
type CommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a CommentRepository on the given store handle.
func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// CreateComment inserts a comment under postID. It trusts the caller to have
// checked that the post exists; if it does not, the foreign key rejects the
// insert and the store error is returned.
func (r *CommentRepository) CreateComment(ctx context.Context, in schemas.CommentCreate, postID uint) (*models.Comment, error) {
	comment := models.Comment{
		Content: in.Content,
		Author:  in.Author,
		PostID:  postID,
	}
	err := unitOfWork(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return tx.First(&comment, comment.ID).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create comment on post %d: %w", postID, err)
	}
	return &comment, nil
}

// GetComment loads one comment. found is false when no comment has id.
func (r *CommentRepository) GetComment(ctx context.Context, id uint) (comment *models.Comment, found bool, err error) {
	var c models.Comment
	err = unitOfWork(ctx, r.db, func(tx *gorm.DB) error {
		err := tx.First(&c, id).Error
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
		return nil, false, fmt.Errorf("get comment %d: %w", id, err)
	}
	if !found {
		return nil, false, nil
	}
	return &c, true, nil
}

// GetCommentsForPost lists a post's comments in insertion order. An unknown
// post simply has no comments.
func (r *CommentRepository) GetCommentsForPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := unitOfWork(ctx, r.db, func(tx *gorm.DB) error {
		return byID(tx).Where("post_id = ?", postID).Find(&comments).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list comments for post %d: %w", postID, err)
	}
	return comments, nil
}

// UpdateComment writes only the fields present in in and stamps updated_at.
func (r *CommentRepository) UpdateComment(ctx context.Context, id uint, in schemas.CommentUpdate) (comment *models.Comment, found bool, err error) {
	var c models.Comment
	err = unitOfWork(ctx, r.db, func(tx *gorm.DB) error {
		err := tx.First(&c, id).Error
		if isNotFound(err) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true

		changes := in.Changes()
		changes["updated_at"] = time.Now()
		if err := tx.Model(&models.Comment{ID: c.ID}).Updates(changes).Error; err != nil {
			return err
		}
		return tx.First(&c, id).Error
	})
	if err != nil {
		return nil, false, fmt.Errorf("update comment %d: %w", id, err)
	}
	if !found {
		return nil, false, nil
	}
	return &c, true, nil
}

// DeleteComment removes one comment. deleted is false when no comment has id.
func (r *CommentRepository) DeleteComment(ctx context.Context, id uint) (deleted bool, err error) {
	err = unitOfWork(ctx, r.db, func(tx *gorm.DB) error {
		res := tx.Delete(&models.Comment{}, id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete comment %d: %w", id, err)
	}
	return deleted, nil
}

// GetCommentsCountForPost returns how many comments reference postID.
func (r *CommentRepository) GetCommentsCountForPost(ctx context.Context, postID uint) (int64, error) {
	var n int64
	err := unitOfWork(ctx, r.db, func(tx *gorm.DB) error {
		return tx.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&n).Error
	})
	if err != nil {
		return 0, fmt.Errorf("count comments for post %d: %w", postID, err)
	}
	return n, nil
}

// GetCommentsCount returns the number of stored comments.
func (r *CommentRepository) GetCommentsCount(ctx context.Context) (int64, error) {
	var n int64
	err := unitOfWork(ctx, r.db, func(tx *gorm.DB) error {
		return tx.Model(&models.Comment{}).Count(&n).Error
	})
	if err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}
	return n, nil
}
