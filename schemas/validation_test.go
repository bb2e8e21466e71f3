package schemas

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validate(t *testing.T, obj interface{}) []FieldError {
	t.Helper()
	SetupBinding()
	return FieldErrors(binding.Validator.ValidateStruct(obj), "body")
}

func decodeAndValidate(t *testing.T, body string, obj interface{}) []FieldError {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(body), obj))
	return validate(t, obj)
}

func fields(errs []FieldError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestPostCreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		in      PostCreate
		invalid []string
	}{
		{name: "valid", in: PostCreate{Title: "A", Content: "B", Author: "C"}},
		{name: "title at max length", in: PostCreate{Title: strings.Repeat("t", 200), Content: "B", Author: "C"}},
		{name: "title one over max", in: PostCreate{Title: strings.Repeat("t", 201), Content: "B", Author: "C"}, invalid: []string{"title"}},
		{name: "author at max length", in: PostCreate{Title: "A", Content: "B", Author: strings.Repeat("a", 100)}},
		{name: "author one over max", in: PostCreate{Title: "A", Content: "B", Author: strings.Repeat("a", 101)}, invalid: []string{"author"}},
		{name: "long content", in: PostCreate{Title: "A", Content: strings.Repeat("c", 10000), Author: "C"}},
		{name: "all missing", in: PostCreate{}, invalid: []string{"title", "content", "author"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validate(t, &tt.in)
			assert.ElementsMatch(t, tt.invalid, fields(errs))
		})
	}
}

func TestCommentCreateValidation(t *testing.T) {
	ok := CommentCreate{Content: strings.Repeat("c", 1000), Author: "x"}
	assert.Empty(t, validate(t, &ok))

	tooLong := CommentCreate{Content: strings.Repeat("c", 1001), Author: "x"}
	errs := validate(t, &tooLong)
	require.Len(t, errs, 1)
	assert.Equal(t, "content", errs[0].Field)
	assert.Equal(t, "max", errs[0].Rule)
	assert.Equal(t, "must be at most 1000 characters", errs[0].Message)
}

func TestPostUpdateValidation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		invalid []string
	}{
		{name: "empty object", body: `{}`},
		{name: "single field", body: `{"title":"New"}`},
		{name: "title at max length", body: `{"title":"` + strings.Repeat("t", 200) + `"}`},
		{name: "title one over max", body: `{"title":"` + strings.Repeat("t", 201) + `"}`, invalid: []string{"title"}},
		{name: "present but empty", body: `{"content":""}`, invalid: []string{"content"}},
		{name: "explicit null", body: `{"author":null}`, invalid: []string{"author"}},
		{name: "mixed", body: `{"title":"ok","author":""}`, invalid: []string{"author"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var u PostUpdate
			errs := decodeAndValidate(t, tt.body, &u)
			assert.ElementsMatch(t, tt.invalid, fields(errs))
		})
	}
}

func TestCommentUpdateValidation(t *testing.T) {
	var u CommentUpdate
	assert.Empty(t, decodeAndValidate(t, `{"author":"someone"}`, &u))

	var tooLong CommentUpdate
	errs := decodeAndValidate(t, `{"content":"`+strings.Repeat("c", 1001)+`"}`, &tooLong)
	assert.Equal(t, []string{"content"}, fields(errs))
}

func TestUpdateChanges(t *testing.T) {
	var u PostUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"title":"T","author":"A"}`), &u))
	assert.Equal(t, map[string]interface{}{"title": "T", "author": "A"}, u.Changes())

	assert.Empty(t, PostUpdate{}.Changes())

	c := CommentUpdate{Content: Some("hello")}
	assert.Equal(t, map[string]interface{}{"content": "hello"}, c.Changes())
}

func TestOptionalJSON(t *testing.T) {
	var v struct {
		A Optional[string] `json:"a"`
		B Optional[string] `json:"b"`
		C Optional[string] `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"x","b":null}`), &v))

	assert.Equal(t, Some("x"), v.A)
	assert.True(t, v.B.Set)
	assert.Equal(t, "", v.B.Value)
	assert.False(t, v.C.Set)
	assert.Nil(t, v.C.Ptr())
	require.NotNil(t, v.A.Ptr())
	assert.Equal(t, "x", *v.A.Ptr())

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"x","b":"","c":null}`, string(out))

	var bad Optional[string]
	assert.Error(t, json.Unmarshal([]byte(`123`), &bad))
}

func TestFieldErrorsFromDecodeFailures(t *testing.T) {
	var p PostCreate
	err := json.Unmarshal([]byte(`{"title":5}`), &p)
	errs := FieldErrors(err, "body")
	require.Len(t, errs, 1)
	assert.Equal(t, "title", errs[0].Field)
	assert.Equal(t, "type", errs[0].Rule)
	assert.Equal(t, "expected a string, got number", errs[0].Message)

	err = json.Unmarshal([]byte(`{"title":`), &p)
	errs = FieldErrors(err, "body")
	require.Len(t, errs, 1)
	assert.Equal(t, "body", errs[0].Field)
	assert.Equal(t, "json", errs[0].Rule)

	assert.Nil(t, FieldErrors(nil, "body"))
}

func TestQueryValidation(t *testing.T) {
	tests := []struct {
		name    string
		in      ListPostsQuery
		invalid []string
	}{
		{name: "defaults", in: ListPostsQuery{Skip: 0, Limit: 10, View: ViewList}},
		{name: "upper bound", in: ListPostsQuery{Skip: 5, Limit: 100, View: ViewSummary}},
		{name: "negative skip", in: ListPostsQuery{Skip: -1, Limit: 10, View: ViewList}, invalid: []string{"skip"}},
		{name: "zero limit", in: ListPostsQuery{Limit: 0, View: ViewList}, invalid: []string{"limit"}},
		{name: "limit over max", in: ListPostsQuery{Limit: 101, View: ViewList}, invalid: []string{"limit"}},
		{name: "unknown view", in: ListPostsQuery{Limit: 1, View: "full"}, invalid: []string{"view"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validate(t, &tt.in)
			assert.ElementsMatch(t, tt.invalid, fields(errs))
		})
	}
}
