package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/blogapi/schemas"
	"github.com/cppla/blogapi/utils"
)

// PostController manages CRUD operations for posts.
type PostController struct {
	posts    PostStore
	comments CommentStore
	sanitize bool
}

// NewPostController creates a new PostController instance. With sanitize set,
// submitted titles and content are passed through the HTML sanitizer before
// they are stored.
func NewPostController(posts PostStore, comments CommentStore, sanitize bool) *PostController {
	return &PostController{posts: posts, comments: comments, sanitize: sanitize}
}

// CreatePost stores a new post.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req schemas.PostCreate
	if !bindJSON(ctx, &req) {
		return
	}
	if p.sanitize {
		req.Title = utils.Sanitize(req.Title)
		req.Content = utils.Sanitize(req.Content)
		if errs := emptyAfterSanitize(map[string]string{"title": req.Title, "content": req.Content}); len(errs) > 0 {
			validationFailed(ctx, codeInvalidBody, errs)
			return
		}
	}

	post, err := p.posts.CreatePost(ctx.Request.Context(), req)
	if err != nil {
		storeFailure(ctx, 50020, "create post", err)
		return
	}
	utils.Created(ctx, schemas.NewPostResponse(post))
}

// ListPosts returns one offset page of posts as list items (content and
// comment count) or, with view=summary, as summaries.
func (p *PostController) ListPosts(ctx *gin.Context) {
	var q schemas.ListPostsQuery
	if !bindQuery(ctx, &q) {
		return
	}

	rows, err := p.posts.GetPostsWithCommentCount(ctx.Request.Context(), q.Skip, q.Limit)
	if err != nil {
		storeFailure(ctx, 50021, "list posts", err)
		return
	}

	if q.View == schemas.ViewSummary {
		items := make([]schemas.PostSummary, 0, len(rows))
		for _, row := range rows {
			items = append(items, schemas.NewPostSummary(row.Post(), row.CommentCount))
		}
		utils.Success(ctx, items)
		return
	}
	items := make([]schemas.PostListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, schemas.NewPostListItem(row.Post(), row.CommentCount))
	}
	utils.Success(ctx, items)
}

// ListPostSummaries returns one numbered page of post summaries with totals.
func (p *PostController) ListPostSummaries(ctx *gin.Context) {
	var q schemas.PageQuery
	if !bindQuery(ctx, &q) {
		return
	}

	total, err := p.posts.GetPostsCount(ctx.Request.Context())
	if err != nil {
		storeFailure(ctx, 50022, "count posts", err)
		return
	}
	rows, err := p.posts.GetPostsWithCommentCount(ctx.Request.Context(), q.Offset(), q.Size)
	if err != nil {
		storeFailure(ctx, 50021, "list posts", err)
		return
	}

	items := make([]schemas.PostSummary, 0, len(rows))
	for _, row := range rows {
		items = append(items, schemas.NewPostSummary(row.Post(), row.CommentCount))
	}
	utils.Success(ctx, schemas.NewPaginationResponse(items, total, q))
}

// GetPost returns a single post with its comments.
func (p *PostController) GetPost(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	post, found, err := p.posts.GetPost(ctx.Request.Context(), id)
	if err != nil {
		storeFailure(ctx, 50023, "load post", err)
		return
	}
	if !found {
		utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
		return
	}
	utils.Success(ctx, schemas.NewPostResponse(post))
}

// UpdatePost applies the fields present in the body to a post.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var req schemas.PostUpdate
	if !bindJSON(ctx, &req) {
		return
	}
	if p.sanitize {
		fields := map[string]string{}
		if req.Title.Set {
			req.Title.Value = utils.Sanitize(req.Title.Value)
			fields["title"] = req.Title.Value
		}
		if req.Content.Set {
			req.Content.Value = utils.Sanitize(req.Content.Value)
			fields["content"] = req.Content.Value
		}
		if errs := emptyAfterSanitize(fields); len(errs) > 0 {
			validationFailed(ctx, codeInvalidBody, errs)
			return
		}
	}

	post, found, err := p.posts.UpdatePost(ctx.Request.Context(), id, req)
	if err != nil {
		storeFailure(ctx, 50024, "update post", err)
		return
	}
	if !found {
		utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
		return
	}
	utils.Success(ctx, schemas.NewPostResponse(post))
}

// DeletePost removes a post together with its comments.
func (p *PostController) DeletePost(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	deleted, err := p.posts.DeletePost(ctx.Request.Context(), id)
	if err != nil {
		storeFailure(ctx, 50025, "delete post", err)
		return
	}
	if !deleted {
		utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
		return
	}
	utils.NoContent(ctx)
}

// GetPostStats returns the comment count of one post.
func (p *PostController) GetPostStats(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	_, found, err := p.posts.GetPost(ctx.Request.Context(), id)
	if err != nil {
		storeFailure(ctx, 50023, "load post", err)
		return
	}
	if !found {
		utils.Error(ctx, http.StatusNotFound, 40401, "post not found")
		return
	}
	count, err := p.comments.GetCommentsCountForPost(ctx.Request.Context(), id)
	if err != nil {
		storeFailure(ctx, 50026, "count comments", err)
		return
	}
	utils.Success(ctx, gin.H{"post_id": id, "comment_count": count})
}

// emptyAfterSanitize reports fields the sanitizer reduced to nothing.
func emptyAfterSanitize(fields map[string]string) []schemas.FieldError {
	var errs []schemas.FieldError
	for _, name := range []string{"title", "content", "author"} {
		v, ok := fields[name]
		if ok && strings.TrimSpace(v) == "" {
			errs = append(errs, schemas.FieldError{Field: name, Rule: "min", Message: "must not be empty after sanitizing"})
		}
	}
	return errs
}
