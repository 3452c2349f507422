// Package sanitize strips markup from user-supplied plain text.
package sanitize

import (
	"html"
	"strings"

	"agrimarket/internal/domain/service"

	"github.com/microcosm-cc/bluemonday"
)

type strictSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer removes every HTML element and keeps the text content.
func NewTextSanitizer() service.TextSanitizer {
	return &strictSanitizer{policy: bluemonday.StrictPolicy()}
}

// Sanitize drops tags, then reverses the entity escaping the policy applies
// so stored text stays plain.
func (s *strictSanitizer) Sanitize(input string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(input)))
}
