package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/blogapi/utils"
)

// StatsController provides store-wide counts and the health probe.
type StatsController struct {
	posts    PostStore
	comments CommentStore
	ping     func(ctx context.Context) error
}

// NewStatsController creates a new StatsController instance. ping checks the
// store is reachable.
func NewStatsController(posts PostStore, comments CommentStore, ping func(ctx context.Context) error) *StatsController {
	return &StatsController{posts: posts, comments: comments, ping: ping}
}

// GetStats returns the total number of posts and comments.
func (s *StatsController) GetStats(ctx *gin.Context) {
	postCount, err := s.posts.GetPostsCount(ctx.Request.Context())
	if err != nil {
		storeFailure(ctx, 50040, "count posts", err)
		return
	}
	commentCount, err := s.comments.GetCommentsCount(ctx.Request.Context())
	if err != nil {
		storeFailure(ctx, 50041, "count comments", err)
		return
	}
	utils.Success(ctx, gin.H{
		"post_count":    postCount,
		"comment_count": commentCount,
	})
}

// Health reports whether the store answers within two seconds.
func (s *StatsController) Health(ctx *gin.Context) {
	if s.ping != nil {
		pctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.ping(pctx); err != nil {
			utils.Logger.Sugar().Warnf("health check: store unreachable: %v", err)
			utils.ErrorWithData(ctx, http.StatusServiceUnavailable, 50300, "store unavailable", gin.H{"status": "degraded"})
			return
		}
	}
	utils.Success(ctx, gin.H{"status": "ok"})
}
