package storage

import (
	"fmt"
	"strings"
)

// AllowedContentTypes defines the MIME types that may be archived.
var AllowedContentTypes = map[string]bool{
	"application/json": true,
	"application/yaml": true,
	"text/csv":         true,
}

// ValidateContentType checks if the content type is allowed.
func ValidateContentType(contentType string) error {
	// Normalize content type (remove parameters like charset)
	normalized := strings.Split(contentType, ";")[0]
	normalized = strings.TrimSpace(strings.ToLower(normalized))

	if !AllowedContentTypes[normalized] {
		return fmt.Errorf("content type %q is not allowed", contentType)
	}
	return nil
}

// ValidateObjectKey rejects keys that are empty, absolute or climb out of
// their prefix.
func ValidateObjectKey(key string) error {
	switch {
	case strings.TrimSpace(key) == "":
		return fmt.Errorf("object key is required")
	case strings.HasPrefix(key, "/"):
		return fmt.Errorf("object key %q must be relative", key)
	case strings.Contains(key, ".."):
		return fmt.Errorf("object key %q must not contain '..'", key)
	}
	return nil
}
