package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateSelector validates a CSS-like selector supplied through configuration.
//
// Only the subset understood by the in-memory document is accepted: a single
// compound selector made of an optional tag name followed by any number of
// #id, .class and [attr] / [attr=value] parts. Combinators are rejected.
func ValidateSelector(selector string) error {
	s := strings.TrimSpace(selector)
	if s == "" {
		return New(ErrCodeInvalidSelector, "selector cannot be empty")
	}
	if len(s) > 256 {
		return New(ErrCodeInvalidSelector, "selector too long (max 256 characters)")
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSelector, "selector contains control characters")
		}
	}
	depth := 0
	for _, r := range s {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
			if depth < 0 {
				return New(ErrCodeInvalidSelector, "unbalanced brackets in %q", selector)
			}
		case ' ', '>', '+', '~', ',':
			if depth == 0 {
				return New(ErrCodeInvalidSelector, "combinators are not supported: %q", selector)
			}
		}
	}
	if depth != 0 {
		return New(ErrCodeInvalidSelector, "unbalanced brackets in %q", selector)
	}
	return nil
}

// ValidatePath validates a scene or output path supplied on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	if len(path) > 500 {
		return New(ErrCodeInvalidPath, "path too long (max 500 characters)")
	}
	for _, r := range path {
		if r == 0 || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid control characters")
		}
	}
	return nil
}

// ValidateExtension checks that path ends with one of the allowed extensions.
// Comparison is case-insensitive; allowed entries include the leading dot.
func ValidateExtension(path string, allowed ...string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, a := range allowed {
		if ext == a {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported file extension %q (want one of %s)", ext, strings.Join(allowed, ", "))
}
