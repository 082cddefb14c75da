package entity

import (
	"fmt"
	"net/url"
)

// MaxURLLength caps stored URLs to keep indexes and payloads bounded.
const MaxURLLength = 2048

// ValidateURL checks that the given string is a well-formed absolute HTTP or
// HTTPS URL. Used at the storage boundary; the normalizer coerces bad URLs to
// nil instead of rejecting them.
func ValidateURL(raw string) error {
	if raw == "" {
		return &ValidationError{Field: "url", Message: "is required"}
	}
	if len(raw) > MaxURLLength {
		return &ValidationError{Field: "url", Message: fmt.Sprintf("too long (max %d characters)", MaxURLLength)}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return &ValidationError{Field: "url", Message: "invalid format"}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &ValidationError{Field: "url", Message: "must use http or https scheme"}
	}
	if u.Host == "" {
		return &ValidationError{Field: "url", Message: "must be an absolute URL"}
	}
	return nil
}

// IsAbsoluteURL reports whether raw parses as an absolute http(s) URL.
// This is the permissive check the normalizer uses to decide between keeping
// a URL field and coercing it to nil.
func IsAbsoluteURL(raw string) bool {
	if raw == "" || len(raw) > MaxURLLength {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
