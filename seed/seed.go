// Package seed fills an empty store with a few sample posts and comments.
package seed

import (
	"context"
	"fmt"

	"github.com/cppla/blogapi/repository"
	"github.com/cppla/blogapi/schemas"
)

// Result reports what Run created.
type Result struct {
	Posts    int
	Comments int
}

// samplePosts and sampleComments are the demo content. Comments point into
// samplePosts by index.
var samplePosts = []schemas.PostCreate{
	{
		Title:   "Welcome to Our Blog",
		Content: "This is our first blog post. Welcome to our blog platform!",
		Author:  "Admin",
	},
	{
		Title:   "Getting Started with Gin",
		Content: "Gin is a small, fast HTTP web framework for Go with a martini-like API.",
		Author:  "Tech Writer",
	},
	{
		Title:   "GORM Tips",
		Content: "A few habits that keep GORM models and queries easy to reason about.",
		Author:  "Database Expert",
	},
}

var sampleComments = []struct {
	post    int
	comment schemas.CommentCreate
}{
	{0, schemas.CommentCreate{Content: "Great first post! Looking forward to more content.", Author: "Reader1"}},
	{0, schemas.CommentCreate{Content: "Welcome! This looks like a promising blog.", Author: "Visitor"}},
	{1, schemas.CommentCreate{Content: "Thanks for the introduction.", Author: "Developer"}},
	{1, schemas.CommentCreate{Content: "Been using it for a year now. Recommended!", Author: "Senior Dev"}},
	{2, schemas.CommentCreate{Content: "These tips are very helpful. Thank you!", Author: "Student"}},
}

// Run inserts the sample posts, then their comments, through the repositories.
func Run(ctx context.Context, posts *repository.PostRepository, comments *repository.CommentRepository) (Result, error) {
	var res Result
	ids := make([]uint, 0, len(samplePosts))
	for _, in := range samplePosts {
		p, err := posts.CreatePost(ctx, in)
		if err != nil {
			return res, fmt.Errorf("seed post %q: %w", in.Title, err)
		}
		ids = append(ids, p.ID)
		res.Posts++
	}
	for _, sc := range sampleComments {
		if _, err := comments.CreateComment(ctx, sc.comment, ids[sc.post]); err != nil {
			return res, fmt.Errorf("seed comment by %s: %w", sc.comment.Author, err)
		}
		res.Comments++
	}
	return res, nil
}
