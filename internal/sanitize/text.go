// Package sanitize strips markup from user-supplied text before it is stored.
package sanitize

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

// strictPolicy removes every tag and attribute.
var strictPolicy = bluemonday.StrictPolicy()

// Text returns input with all HTML removed. Entities escaped by the policy
// are decoded again, so "Tom & Jerry" round-trips unchanged.
func Text(input string) string {
	if input == "" {
		return ""
	}
	return html.UnescapeString(strictPolicy.Sanitize(input))
}
