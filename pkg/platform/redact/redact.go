// Package redact strips credentials from strings before they reach logs or
// error messages. Provider error bodies routinely echo the API key back.
package redact

import (
	"regexp"
	"strings"
)

var (
	bearerTokenRe = regexp.MustCompile(`(?i)\bBearer\s+[^\s"']+`)

	// key=value / "key": "value" forms used by the contact providers.
	apiKeyKVRe = regexp.MustCompile(`(?i)"?\b(api[_-]?key|x-api-key|galaxy-ap-password|password|token)\b"?\s*[:=]\s*"?[^\s"',}]+"?`)
)

// Secrets removes obvious secret-bearing substrings. Safe on any input.
func Secrets(s string) string {
	if s == "" {
		return ""
	}
	out := bearerTokenRe.ReplaceAllString(s, "Bearer <redacted>")
	out = apiKeyKVRe.ReplaceAllString(out, "<redacted_kv>")
	return strings.TrimSpace(out)
}

// Snippet returns a short, single-line, redacted excerpt of a response body.
func Snippet(body []byte, max int) string {
	if len(body) == 0 {
		return ""
	}
	b := body
	if len(b) > max {
		b = b[:max]
	}
	s := Secrets(string(b))
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if len(body) > max {
		return s + "..."
	}
	return s
}
