package schemas

import (
	"time"

	"github.com/cppla/blogapi/models"
)

// PostCreate is the payload for creating a post.
type PostCreate struct {
	Title   string `json:"title" binding:"required,min=1,max=200"`
	Content string `json:"content" binding:"required,min=1"`
	Author  string `json:"author" binding:"required,min=1,max=100"`
}

// PostUpdate is a sparse payload: only fields present in the request are applied.
type PostUpdate struct {
	Title   Optional[string] `json:"title" binding:"omitempty,min=1,max=200"`
	Content Optional[string] `json:"content" binding:"omitempty,min=1"`
	Author  Optional[string] `json:"author" binding:"omitempty,min=1,max=100"`
}

// Changes returns the columns to write, keyed by column name.
func (u PostUpdate) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if u.Title.Set {
		changes["title"] = u.Title.Value
	}
	if u.Content.Set {
		changes["content"] = u.Content.Value
	}
	if u.Author.Set {
		changes["author"] = u.Author.Value
	}
	return changes
}

// PostResponse is the full projection of a post including its comments.
type PostResponse struct {
	ID        uint              `json:"id"`
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Author    string            `json:"author"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt *time.Time        `json:"updated_at"`
	Comments  []CommentResponse `json:"comments"`
}

// PostSummary is the compact listing projection: no content, no comments.
type PostSummary struct {
	ID           uint       `json:"id"`
	Title        string     `json:"title"`
	Author       string     `json:"author"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
	CommentCount int64      `json:"comment_count"`
}

// PostListItem is the listing projection that keeps content but not comments.
type PostListItem struct {
	ID           uint       `json:"id"`
	Title        string     `json:"title"`
	Content      string     `json:"content"`
	Author       string     `json:"author"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
	CommentCount int64      `json:"comment_count"`
}

// NewPostResponse projects a stored post. Comments are always a list, never null.
func NewPostResponse(p *models.Post) PostResponse {
	comments := make([]CommentResponse, 0, len(p.Comments))
	for i := range p.Comments {
		comments = append(comments, NewCommentResponse(&p.Comments[i]))
	}
	return PostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Author:    p.Author,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Comments:  comments,
	}
}

// NewPostSummary projects a post and its comment count.
func NewPostSummary(p models.Post, commentCount int64) PostSummary {
	return PostSummary{
		ID:           p.ID,
		Title:        p.Title,
		Author:       p.Author,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		CommentCount: commentCount,
	}
}

// NewPostListItem projects a post and its comment count, content included.
func NewPostListItem(p models.Post, commentCount int64) PostListItem {
	return PostListItem{
		ID:           p.ID,
		Title:        p.Title,
		Content:      p.Content,
		Author:       p.Author,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		CommentCount: commentCount,
	}
}
