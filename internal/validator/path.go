package validator

import (
	"strings"

	"github.com/google/uuid"
)

// HasUUIDShape reports whether the two segments before the last one are
// "api" and "users", i.e. path looks like .../api/users/<segment>.
func HasUUIDShape(path string) bool {
	parts := strings.Split(path, "/")
	if len(parts) < 3 {
		return false
	}
	return parts[len(parts)-3] == "api" && parts[len(parts)-2] == "users"
}

// ExtractID returns the last slash-delimited segment of path.
func ExtractID(path string) string {
	return path[strings.LastIndex(path, "/")+1:]
}

// IsValidUUID reports whether path has the users id shape and its last
// segment is a UUID in the standard hyphenated form.
func IsValidUUID(path string) bool {
	if !HasUUIDShape(path) {
		return false
	}
	id := ExtractID(path)
	// uuid.Validate also accepts urn, braced and unhyphenated forms
	if len(id) != 36 {
		return false
	}
	return uuid.Validate(id) == nil
}
