package schemas

import (
	"encoding/json"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBodyErrorsListsEveryField(t *testing.T) {
	body := []byte(`{"title":5,"content":"","author":""}`)
	var p PostCreate
	decodeErr := json.Unmarshal(body, &p)
	require.Error(t, decodeErr)

	errs := BodyErrors(decodeErr, body, &PostCreate{})
	require.Len(t, errs, 3)
	assert.Equal(t, FieldError{Field: "title", Rule: "type", Message: "expected a string, got number"}, errs[0])
	assert.Equal(t, "content", errs[1].Field)
	assert.Equal(t, "required", errs[1].Rule)
	assert.Equal(t, "author", errs[2].Field)
}

func TestBodyErrorsOptionalFields(t *testing.T) {
	body := []byte(`{"title":true,"content":"","author":"ok"}`)
	var u PostUpdate
	decodeErr := json.Unmarshal(body, &u)
	require.Error(t, decodeErr)

	errs := BodyErrors(decodeErr, body, &PostUpdate{})
	assert.Equal(t, []string{"title", "content"}, fields(errs))
	assert.Equal(t, "expected a string, got bool", errs[0].Message)
	assert.Equal(t, "min", errs[1].Rule)
}

func TestBodyErrorsNotAnObject(t *testing.T) {
	body := []byte(`[]`)
	var u PostUpdate
	decodeErr := json.Unmarshal(body, &u)
	require.Error(t, decodeErr)

	assert.Equal(t, []FieldError{{Field: "body", Rule: "type", Message: "expected a JSON object"}},
		BodyErrors(decodeErr, body, &PostUpdate{}))
	assert.Equal(t, []FieldError{{Field: "body", Rule: "type", Message: "expected a JSON object"}},
		FieldErrors(decodeErr, "body"))

	errs := BodyErrors(decodeErr, []byte(`{"title"`), &PostUpdate{})
	require.Len(t, errs, 1)
	assert.Equal(t, "json", errs[0].Rule)
}

func TestQueryErrorsListsEveryParameter(t *testing.T) {
	values := url.Values{"skip": {"abc"}, "limit": {"0"}}
	_, parseErr := strconv.Atoi("abc")

	errs := QueryErrors(parseErr, values, &ListPostsQuery{})
	require.Len(t, errs, 2)
	assert.Equal(t, FieldError{Field: "skip", Rule: "type", Message: `"abc" is not a valid integer`}, errs[0])
	assert.Equal(t, "limit", errs[1].Field)
	assert.Equal(t, "min", errs[1].Rule)
}

func TestQueryErrorsUsesDefaults(t *testing.T) {
	_, parseErr := strconv.Atoi("x")

	errs := QueryErrors(parseErr, url.Values{"size": {"x"}}, &PageQuery{})
	assert.Equal(t, []string{"size"}, fields(errs))

	errs = QueryErrors(parseErr, url.Values{"limit": {"many"}, "view": {"full"}}, &ListPostsQuery{})
	assert.Equal(t, []string{"limit", "view"}, fields(errs))
}
