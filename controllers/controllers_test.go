package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cppla/blogapi/models"
	"github.com/cppla/blogapi/repository"
	"github.com/cppla/blogapi/schemas"
	"github.com/cppla/blogapi/utils"
)

var errStoreDown = errors.New("connection refused")

// brokenStore fails every call the way an unreachable database would.
type brokenStore struct{}

func (brokenStore) CreatePost(context.Context, schemas.PostCreate) (*models.Post, error) {
	return nil, errStoreDown
}

func (brokenStore) GetPost(context.Context, uint) (*models.Post, bool, error) {
	return nil, false, errStoreDown
}

func (brokenStore) GetPostsWithCommentCount(context.Context, int, int) ([]repository.PostRow, error) {
	return nil, errStoreDown
}

func (brokenStore) UpdatePost(context.Context, uint, schemas.PostUpdate) (*models.Post, bool, error) {
	return nil, false, errStoreDown
}

func (brokenStore) DeletePost(context.Context, uint) (bool, error) {
	return false, errStoreDown
}

func (brokenStore) GetPostsCount(context.Context) (int64, error) {
	return 0, errStoreDown
}

func (brokenStore) CreateComment(context.Context, schemas.CommentCreate, uint) (*models.Comment, error) {
	return nil, errStoreDown
}

func (brokenStore) GetComment(context.Context, uint) (*models.Comment, bool, error) {
	return nil, false, errStoreDown
}

func (brokenStore) GetCommentsForPost(context.Context, uint) ([]models.Comment, error) {
	return nil, errStoreDown
}

func (brokenStore) UpdateComment(context.Context, uint, schemas.CommentUpdate) (*models.Comment, bool, error) {
	return nil, false, errStoreDown
}

func (brokenStore) DeleteComment(context.Context, uint) (bool, error) {
	return false, errStoreDown
}

func (brokenStore) GetCommentsCountForPost(context.Context, uint) (int64, error) {
	return 0, errStoreDown
}

func (brokenStore) GetCommentsCount(context.Context) (int64, error) {
	return 0, errStoreDown
}

func newBrokenRouter(t *testing.T) (*gin.Engine, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	schemas.SetupBinding()

	core, logs := observer.New(zapcore.DebugLevel)
	prev := utils.Logger
	utils.SetLogger(zap.New(core))
	t.Cleanup(func() { utils.SetLogger(prev) })

	store := brokenStore{}
	pc := NewPostController(store, store, false)
	cc := NewCommentController(store, store, false)
	sc := NewStatsController(store, store, func(context.Context) error { return errStoreDown })

	r := gin.New()
	r.POST("/posts", pc.CreatePost)
	r.GET("/posts", pc.ListPosts)
	r.GET("/posts/summary", pc.ListPostSummaries)
	r.GET("/posts/:id", pc.GetPost)
	r.PUT("/posts/:id", pc.UpdatePost)
	r.DELETE("/posts/:id", pc.DeletePost)
	r.GET("/posts/:id/stats", pc.GetPostStats)
	r.POST("/posts/:id/comments", cc.CreateComment)
	r.GET("/posts/:id/comments", cc.ListComments)
	r.GET("/comments/:id", cc.GetComment)
	r.PUT("/comments/:id", cc.UpdateComment)
	r.DELETE("/comments/:id", cc.DeleteComment)
	r.GET("/stats", sc.GetStats)
	r.GET("/health", sc.Health)
	return r, logs
}

func TestStoreFailuresAnswer500(t *testing.T) {
	r, logs := newBrokenRouter(t)

	tests := []struct {
		method, path, body string
		wantCode           string
	}{
		{http.MethodPost, "/posts", `{"title":"A","content":"B","author":"C"}`, `"code":50020`},
		{http.MethodGet, "/posts", "", `"code":50021`},
		{http.MethodGet, "/posts/summary", "", `"code":50022`},
		{http.MethodGet, "/posts/1", "", `"code":50023`},
		{http.MethodPut, "/posts/1", `{"title":"x"}`, `"code":50024`},
		{http.MethodDelete, "/posts/1", "", `"code":50025`},
		{http.MethodGet, "/posts/1/stats", "", `"code":50023`},
		{http.MethodPost, "/posts/1/comments", `{"content":"x","author":"y"}`, `"code":50023`},
		{http.MethodGet, "/posts/1/comments", "", `"code":50023`},
		{http.MethodGet, "/comments/1", "", `"code":50032`},
		{http.MethodPut, "/comments/1", `{"content":"x"}`, `"code":50033`},
		{http.MethodDelete, "/comments/1", "", `"code":50034`},
		{http.MethodGet, "/stats", "", `"code":50040`},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantCode)
			assert.NotContains(t, w.Body.String(), errStoreDown.Error())
		})
	}

	entries := logs.FilterMessage("store failure").All()
	require.Len(t, entries, len(tests))
	assert.Equal(t, errStoreDown.Error(), entries[0].ContextMap()["error"])
	assert.Equal(t, "create post", entries[0].ContextMap()["op"])
}

func TestValidationRunsBeforeStore(t *testing.T) {
	r, logs := newBrokenRouter(t)

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodPost, "/posts", `{"title":""}`},
		{http.MethodGet, "/posts?limit=0", ""},
		{http.MethodGet, "/posts/abc", ""},
		{http.MethodPost, "/posts/1/comments", `{"author":"y"}`},
	} {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, tc.path)
	}
	assert.Zero(t, logs.Len())
}

func TestHealthDegraded(t *testing.T) {
	r, _ := newBrokenRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"code":50300,"message":"store unavailable","data":{"status":"degraded"}}`, w.Body.String())
}

func TestEmptyAfterSanitize(t *testing.T) {
	errs := emptyAfterSanitize(map[string]string{"title": "  ", "content": "kept"})
	require.Len(t, errs, 1)
	assert.Equal(t, "title", errs[0].Field)
	assert.Empty(t, emptyAfterSanitize(map[string]string{}))
}
