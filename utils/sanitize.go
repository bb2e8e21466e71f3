package utils

import "github.com/microcosm-cc/bluemonday"

var sanitizer = bluemonday.UGCPolicy()

// Sanitize strips markup that could run script in a browser, keeping the
// formatting tags user generated content normally carries.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
