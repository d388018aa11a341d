package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// maxImageRefLength bounds image references. Embedded data URIs can be
// large, so the limit only applies to plain URLs and paths.
const maxImageRefLength = 2048

// ValidateUploadFilename validates a client-supplied upload filename.
// It ensures the filename is a simple basename without path components.
func ValidateUploadFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidInput, "upload filename cannot be empty")
	}

	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidInput, "upload filename cannot contain path separators")
	}

	for _, r := range filename {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "upload filename contains invalid control characters")
		}
	}

	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidInput, "upload filename cannot be a hidden file")
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// ValidateImageRef validates an avatar image reference before it is placed
// into markup. An empty reference is valid (the avatar renders without an
// image).
//
// Accepted forms:
//   - http:// and https:// URLs
//   - data:image/... URIs
//   - relative paths without a scheme
//
// References containing quotes, parentheses, angle brackets, whitespace or
// control characters are rejected because they would break out of a CSS
// url(...) or an SVG href attribute.
func ValidateImageRef(ref string) error {
	if ref == "" {
		return nil
	}

	if strings.HasPrefix(ref, "data:") {
		if !strings.HasPrefix(ref, "data:image/") {
			return New(ErrCodeInvalidInput, "data URI must have an image media type")
		}
		if strings.ContainsAny(ref, "'\"()<> \t\r\n") {
			return New(ErrCodeInvalidInput, "data URI contains invalid characters")
		}
		return nil
	}

	if len(ref) > maxImageRefLength {
		return New(ErrCodeInvalidInput, "image reference too long (max %d characters)", maxImageRefLength)
	}

	for _, r := range ref {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "image reference contains whitespace or control characters")
		}
	}

	if strings.ContainsAny(ref, "'\"()<>\\") {
		return New(ErrCodeInvalidInput, "image reference contains invalid characters")
	}

	if i := strings.Index(ref, ":"); i >= 0 && !strings.Contains(ref[:i], "/") {
		return ValidateURL(ref)
	}

	if filepath.IsAbs(ref) {
		return New(ErrCodeInvalidPath, "image path must be relative or a URL")
	}

	return nil
}
