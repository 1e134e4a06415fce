// Package redact provides utilities for redacting sensitive information from strings
// before they are logged or returned in error responses. Store and transport errors
// can echo credentials, OAuth tokens, or user email addresses; this package keeps
// them out of HTTP error logs while leaving document paths readable.
package redact

import (
	"regexp"
)

// Constants for redaction placeholders
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
)

// Precompiled regex patterns
var (
	// Credentials embedded in URLs, e.g. a Sentry DSN or emulator URL
	urlCredentialRegex = regexp.MustCompile(`(?i)\b([a-z][a-z0-9+.-]*://)[^/\s:@]+(:[^/\s@]*)?@`)

	// Credentials and tokens
	passwordRegex = regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]?['"]?)[^'"&\s]{3,}`)
	apiKeyRegex   = regexp.MustCompile(
		`(?i)(api[_-]?key|token|secret|key|access|auth|bearer)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`,
	)
	// Google OAuth2 access tokens
	oauthTokenRegex = regexp.MustCompile(`ya29\.[A-Za-z0-9_\-.]+`)
	// JWT token pattern - matches the standard three-part base64url-encoded JWT token format
	jwtTokenRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	// Stack trace fragments
	stackTraceRegex = regexp.MustCompile(`(?:goroutine \d+|panic:)[\s\S]*?(\n\t.*)+`)

	// Email addresses
	emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)

	// Ordered: URL credentials and JWTs must be replaced before the generic key pattern.
	patterns = []struct {
		re          *regexp.Regexp
		placeholder string
	}{
		{urlCredentialRegex, "${1}" + RedactedCredentialPlaceholder + "@"},
		{jwtTokenRegex, "[REDACTED_JWT]"},
		{oauthTokenRegex, RedactedKeyPlaceholder},
		{passwordRegex, RedactedCredentialPlaceholder},
		{apiKeyRegex, RedactedKeyPlaceholder},
		{stackTraceRegex, "[STACK_TRACE_REDACTED]"},
		{emailRegex, "[REDACTED_EMAIL]"},
	}
)

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, p := range patterns {
		result = p.re.ReplaceAllString(result, p.placeholder)
	}

	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
