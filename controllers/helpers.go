package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"github.com/cppla/blogapi/models"
	"github.com/cppla/blogapi/repository"
	"github.com/cppla/blogapi/schemas"
	"github.com/cppla/blogapi/utils"
)

// PostStore is the slice of the post repository the handlers use.
type PostStore interface {
	CreatePost(ctx context.Context, in schemas.PostCreate) (*models.Post, error)
	GetPost(ctx context.Context, id uint) (*models.Post, bool, error)
	GetPostsWithCommentCount(ctx context.Context, skip, limit int) ([]repository.PostRow, error)
	UpdatePost(ctx context.Context, id uint, in schemas.PostUpdate) (*models.Post, bool, error)
	DeletePost(ctx context.Context, id uint) (bool, error)
	GetPostsCount(ctx context.Context) (int64, error)
}

// CommentStore is the slice of the comment repository the handlers use.
type CommentStore interface {
	CreateComment(ctx context.Context, in schemas.CommentCreate, postID uint) (*models.Comment, error)
	GetComment(ctx context.Context, id uint) (*models.Comment, bool, error)
	GetCommentsForPost(ctx context.Context, postID uint) ([]models.Comment, error)
	UpdateComment(ctx context.Context, id uint, in schemas.CommentUpdate) (*models.Comment, bool, error)
	DeleteComment(ctx context.Context, id uint) (bool, error)
	GetCommentsCountForPost(ctx context.Context, postID uint) (int64, error)
	GetCommentsCount(ctx context.Context) (int64, error)
}

// Validation failure codes.
const (
	codeInvalidBody  = 42201
	codeInvalidQuery = 42202
	codeInvalidPath  = 42203
)

func validationFailed(ctx *gin.Context, code int, errs []schemas.FieldError) {
	utils.ErrorWithData(ctx, http.StatusUnprocessableEntity, code, "validation failed", gin.H{"errors": errs})
}

// bindJSON decodes and validates the body into req, answering 422 with every
// violated field on failure.
func bindJSON(ctx *gin.Context, req interface{}) bool {
	err := ctx.ShouldBindBodyWith(req, binding.JSON)
	if err == nil {
		return true
	}
	var raw []byte
	if body, ok := ctx.Get(gin.BodyBytesKey); ok {
		raw, _ = body.([]byte)
	}
	validationFailed(ctx, codeInvalidBody, schemas.BodyErrors(err, raw, req))
	return false
}

// bindQuery decodes and validates query parameters into req, answering 422
// with every violated parameter on failure.
func bindQuery(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindQuery(req); err != nil {
		validationFailed(ctx, codeInvalidQuery, schemas.QueryErrors(err, ctx.Request.URL.Query(), req))
		return false
	}
	return true
}

// parseID reads a positive integer path parameter, answering 422 otherwise.
func parseID(ctx *gin.Context, param string) (uint, bool) {
	raw := ctx.Param(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		validationFailed(ctx, codeInvalidPath, []schemas.FieldError{{
			Field:   param,
			Rule:    "type",
			Message: "must be a positive integer",
		}})
		return 0, false
	}
	return uint(id), true
}

// storeFailure logs an unexpected store error and answers 500 without leaking it.
func storeFailure(ctx *gin.Context, code int, op string, err error) {
	utils.Logger.Error("store failure",
		zap.String("op", op),
		zap.String("request_id", ctx.GetString(utils.RequestIDKey)),
		zap.Error(err),
	)
	utils.Error(ctx, http.StatusInternalServerError, code, "failed to "+op)
}
