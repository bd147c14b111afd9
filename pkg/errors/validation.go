package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateSourceName validates a configured source name.
// Source names appear in URLs and cache keys, so the rules mirror those
// for identifiers that end up in paths:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - Maximum length of 128 characters
func ValidateSourceName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "source name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "source name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "source name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "source name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// tableNameRegex matches plain SQL identifiers.
var tableNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateTableName validates a SQL table name before it is interpolated
// into a query. Only plain identifiers are accepted.
func ValidateTableName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "table name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "table name too long (max 128 characters)")
	}

	if !tableNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid table name: %q", name)
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
