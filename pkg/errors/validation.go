package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// Length limits for user-supplied identifiers.
const (
	MaxLocationNameLength = 128
	MaxResourceTagLength  = 64
	MaxMapNameLength      = 255
)

// ValidateLocationName validates a location name.
//
// Names are primary keys in the graph and are typed as single shell
// words, so the rules are:
//   - No empty names
//   - No whitespace or control characters
//   - Maximum length of 128 characters
func ValidateLocationName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidArgument, "location name cannot be empty")
	}
	if len(name) > MaxLocationNameLength {
		return New(ErrCodeInvalidArgument, "location name too long (max %d characters)", MaxLocationNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidArgument, "location name contains invalid control characters")
		}
		if unicode.IsSpace(r) {
			return New(ErrCodeInvalidArgument, "location name %q cannot contain whitespace", name)
		}
	}
	return nil
}

// ValidateResourceTag validates a resource tag.
// Tags are listed comma-separated on the command line, so commas are rejected
// along with empty tags, whitespace and control characters.
func ValidateResourceTag(tag string) error {
	if tag == "" {
		return New(ErrCodeInvalidArgument, "resource cannot be empty")
	}
	if len(tag) > MaxResourceTagLength {
		return New(ErrCodeInvalidArgument, "resource too long (max %d characters)", MaxResourceTagLength)
	}
	if strings.Contains(tag, ",") {
		return New(ErrCodeInvalidArgument, "resource %q cannot contain commas", tag)
	}
	for _, r := range tag {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidArgument, "resource %q contains invalid characters", tag)
		}
	}
	return nil
}

// ValidateMapName validates a stored map name for safety.
// It ensures the name is a simple basename without path components,
// so that file-backed stores cannot be steered outside their directory.
func ValidateMapName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "map name cannot be empty")
	}
	if len(name) > MaxMapNameLength {
		return New(ErrCodeInvalidInput, "map name too long (max %d characters)", MaxMapNameLength)
	}
	for _, r := range name {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "map name contains invalid characters")
		}
	}
	if strings.ContainsAny(name, "/\\") || filepath.Base(name) != name {
		return New(ErrCodeInvalidInput, "map name %q cannot contain path separators", name)
	}
	if name == "." || name == ".." || strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidInput, "map name %q cannot be a hidden file", name)
	}
	return nil
}
