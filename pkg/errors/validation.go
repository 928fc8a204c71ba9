package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// maxIDLength bounds tree and node identifiers.
const maxIDLength = 128

// idRegex matches identifiers safe for file names, URLs and cache keys.
var idRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateTreeID validates a tree document identifier.
// Tree IDs become file names in the file store and URL segments in the
// HTTP API, so the rules are conservative:
//   - No empty IDs
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateTreeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidTree, "tree id cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidTree, "tree id too long (max %d characters)", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidTree, "tree id contains invalid control characters")
		}
	}
	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidTree, "tree id cannot contain path traversal sequences (..)")
	}
	if !idRegex.MatchString(id) {
		return New(ErrCodeInvalidTree, "invalid tree id: %q", id)
	}
	return nil
}

// ValidateNodeID validates a node identifier.
// Node IDs only need to be non-empty, printable and bounded.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidTree, "node id cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidTree, "node id too long (max %d characters)", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidTree, "node id %q contains control characters", id)
		}
	}
	return nil
}

// ValidateViewport checks that requested canvas dimensions are finite.
// Zero and negative sizes are accepted: the layout engine clamps them.
func ValidateViewport(width, height float64) error {
	if math.IsNaN(width) || math.IsInf(width, 0) {
		return New(ErrCodeInvalidViewport, "width must be a finite number")
	}
	if math.IsNaN(height) || math.IsInf(height, 0) {
		return New(ErrCodeInvalidViewport, "height must be a finite number")
	}
	return nil
}
