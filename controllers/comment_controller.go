package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/blogapi/schemas"
	"github.com/cppla/blogapi/utils"
)

// CommentController manages comments, nested under posts for creation and listing.
type CommentController struct {
	posts    PostStore
	comments CommentStore
	sanitize bool
}

// NewCommentController creates a new CommentController instance.
func NewCommentController(posts PostStore, comments CommentStore, sanitize bool) *CommentController {
	return &CommentController{posts: posts, comments: comments, sanitize: sanitize}
}

// postExists answers 404 (or 500) itself and returns false when the post is missing.
func (c *CommentController) postExists(ctx *gin.Context, postID uint) bool {
	_, found, err := c.posts.GetPost(ctx.Request.Context(), postID)
	if err != nil {
		storeFailure(ctx, 50023, "load post", err)
		return false
	}
	if !found {
		utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
		return false
	}
	return true
}

// CreateComment adds a comment to an existing post.
func (c *CommentController) CreateComment(ctx *gin.Context) {
	postID, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var req schemas.CommentCreate
	if !bindJSON(ctx, &req) {
		return
	}
	if c.sanitize {
		req.Content = utils.Sanitize(req.Content)
		if errs := emptyAfterSanitize(map[string]string{"content": req.Content}); len(errs) > 0 {
			validationFailed(ctx, codeInvalidBody, errs)
			return
		}
	}
	if !c.postExists(ctx, postID) {
		return
	}

	comment, err := c.comments.CreateComment(ctx.Request.Context(), req, postID)
	if err != nil {
		storeFailure(ctx, 50030, "create comment", err)
		return
	}
	utils.Created(ctx, schemas.NewCommentResponse(comment))
}

// ListComments returns every comment of an existing post.
func (c *CommentController) ListComments(ctx *gin.Context) {
	postID, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	if !c.postExists(ctx, postID) {
		return
	}

	comments, err := c.comments.GetCommentsForPost(ctx.Request.Context(), postID)
	if err != nil {
		storeFailure(ctx, 50031, "list comments", err)
		return
	}
	utils.Success(ctx, schemas.NewCommentResponses(comments))
}

// GetComment returns a single comment.
func (c *CommentController) GetComment(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	comment, found, err := c.comments.GetComment(ctx.Request.Context(), id)
	if err != nil {
		storeFailure(ctx, 50032, "load comment", err)
		return
	}
	if !found {
		utils.Error(ctx, http.StatusNotFound, 40402, "comment not found")
		return
	}
	utils.Success(ctx, schemas.NewCommentResponse(comment))
}

// UpdateComment applies the fields present in the body to a comment.
func (c *CommentController) UpdateComment(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var req schemas.CommentUpdate
	if !bindJSON(ctx, &req) {
		return
	}
	if c.sanitize && req.Content.Set {
		req.Content.Value = utils.Sanitize(req.Content.Value)
		if errs := emptyAfterSanitize(map[string]string{"content": req.Content.Value}); len(errs) > 0 {
			validationFailed(ctx, codeInvalidBody, errs)
			return
		}
	}

	comment, found, err := c.comments.UpdateComment(ctx.Request.Context(), id, req)
	if err != nil {
		storeFailure(ctx, 50033, "update comment", err)
		return
	}
	if !found {
		utils.Error(ctx, http.StatusNotFound, 40402, "comment not found")
		return
	}
	utils.Success(ctx, schemas.NewCommentResponse(comment))
}

// DeleteComment removes a comment.
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	deleted, err := c.comments.DeleteComment(ctx.Request.Context(), id)
	if err != nil {
		storeFailure(ctx, 50034, "delete comment", err)
		return
	}
	if !deleted {
		utils.Error(ctx, http.StatusNotFound, 40402, "comment not found")
		return
	}
	utils.NoContent(ctx)
}
