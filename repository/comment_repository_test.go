package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/blogapi/schemas"
)

func TestCommentRepository_CreateAndGet(t *testing.T) {
	posts, comments := newRepos(t)
	ctx := context.Background()
	post := mustCreatePost(t, posts, "A")

	c, err := comments.CreateComment(ctx, schemas.CommentCreate{Content: "x", Author: "y"}, post.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(1), c.ID)
	assert.Equal(t, post.ID, c.PostID)
	assert.Equal(t, "x", c.Content)
	assert.Equal(t, "y", c.Author)
	assert.False(t, c.CreatedAt.IsZero())
	assert.Nil(t, c.UpdatedAt)

	got, found, err := comments.GetComment(ctx, c.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, c.Content, got.Content)

	_, found, err = comments.GetComment(ctx, 77)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCommentRepository_CreateForMissingPostIsRejectedByStore(t *testing.T) {
	_, comments := newRepos(t)
	ctx := context.Background()

	_, err := comments.CreateComment(ctx, schemas.CommentCreate{Content: "x", Author: "y"}, 404)
	require.Error(t, err)

	n, err := comments.GetCommentsCountForPost(ctx, 404)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCommentRepository_GetCommentsForPost(t *testing.T) {
	posts, comments := newRepos(t)
	ctx := context.Background()
	a := mustCreatePost(t, posts, "a")
	b := mustCreatePost(t, posts, "b")

	for _, content := range []string{"first", "second"} {
		_, err := comments.CreateComment(ctx, schemas.CommentCreate{Content: content, Author: "u"}, a.ID)
		require.NoError(t, err)
	}
	_, err := comments.CreateComment(ctx, schemas.CommentCreate{Content: "other", Author: "u"}, b.ID)
	require.NoError(t, err)

	list, err := comments.GetCommentsForPost(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].Content)
	assert.Equal(t, "second", list[1].Content)

	n, err := comments.GetCommentsCountForPost(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(len(list)), n)

	none, err := comments.GetCommentsForPost(ctx, 999)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestCommentRepository_UpdateComment(t *testing.T) {
	posts, comments := newRepos(t)
	ctx := context.Background()
	post := mustCreatePost(t, posts, "a")
	c, err := comments.CreateComment(ctx, schemas.CommentCreate{Content: "before", Author: "me"}, post.ID)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	updated, found, err := comments.UpdateComment(ctx, c.ID, schemas.CommentUpdate{Content: schemas.Some("after")})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "after", updated.Content)
	assert.Equal(t, "me", updated.Author)
	assert.Equal(t, post.ID, updated.PostID)
	require.NotNil(t, updated.UpdatedAt)
	assert.True(t, updated.UpdatedAt.After(c.CreatedAt))

	_, found, err = comments.UpdateComment(ctx, 500, schemas.CommentUpdate{Author: schemas.Some("x")})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCommentRepository_DeleteComment(t *testing.T) {
	posts, comments := newRepos(t)
	ctx := context.Background()
	post := mustCreatePost(t, posts, "a")
	c, err := comments.CreateComment(ctx, schemas.CommentCreate{Content: "bye", Author: "me"}, post.ID)
	require.NoError(t, err)

	deleted, err := comments.DeleteComment(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = comments.DeleteComment(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	got, found, err := posts.GetPost(ctx, post.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Empty(t, got.Comments)
}
