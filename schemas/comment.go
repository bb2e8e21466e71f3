package schemas

import (
	"time"

	"github.com/cppla/blogapi/models"
)

// CommentCreate is the payload for adding a comment to a post.
type CommentCreate struct {
	Content string `json:"content" binding:"required,min=1,max=1000"`
	Author  string `json:"author" binding:"required,min=1,max=100"`
}

// CommentUpdate is a sparse payload for editing a comment.
type CommentUpdate struct {
	Content Optional[string] `json:"content" binding:"omitempty,min=1,max=1000"`
	Author  Optional[string] `json:"author" binding:"omitempty,min=1,max=100"`
}

// Changes returns the columns to write, keyed by column name.
func (u CommentUpdate) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if u.Content.Set {
		changes["content"] = u.Content.Value
	}
	if u.Author.Set {
		changes["author"] = u.Author.Value
	}
	return changes
}

// CommentResponse is the only projection of a comment.
type CommentResponse struct {
	ID        uint       `json:"id"`
	Content   string     `json:"content"`
	Author    string     `json:"author"`
	PostID    uint       `json:"post_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func NewCommentResponse(c *models.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		Content:   c.Content,
		Author:    c.Author,
		PostID:    c.PostID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func NewCommentResponses(list []models.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(list))
	for i := range list {
		out = append(out, NewCommentResponse(&list[i]))
	}
	return out
}
