package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateDimension validates a layout width and height. Zero means no limit
// on that axis; negative, NaN and infinite values are rejected.
func ValidateDimension(width, height float64) error {
	for _, v := range []struct {
		name string
		val  float64
	}{{"width", width}, {"height", height}} {
		if math.IsNaN(v.val) || math.IsInf(v.val, 0) {
			return New(ErrCodeInvalidInput, "%s must be a finite number", v.name)
		}
		if v.val < 0 {
			return New(ErrCodeInvalidInput, "%s cannot be negative (got %v)", v.name, v.val)
		}
	}
	return nil
}

// ValidateDocumentSize rejects documents larger than limit bytes. A limit of
// zero disables the check.
func ValidateDocumentSize(size, limit int) error {
	if limit > 0 && size > limit {
		return New(ErrCodeTooLarge, "document too large (%d bytes, max %d)", size, limit)
	}
	return nil
}

// ValidateFilename validates a download filename for safety.
// It ensures the filename is a simple basename without path components.
//
// Validation rules:
//   - Filename cannot be empty
//   - Maximum length of 255 characters
//   - No control characters or quotes
//   - No path separators
//   - No hidden files
func ValidateFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidPath, "filename cannot be empty")
	}

	if len(filename) > 255 {
		return New(ErrCodeInvalidPath, "filename too long (max 255 characters)")
	}

	for _, r := range filename {
		if unicode.IsControl(r) || r == '"' {
			return New(ErrCodeInvalidPath, "filename contains invalid characters")
		}
	}

	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidPath, "filename cannot contain path separators")
	}

	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidPath, "filename cannot be a hidden file")
	}

	return nil
}
