package domain

import (
	"strings"
)

// sensitiveMarkers are the substrings that mark a configuration path as
// holding secret material. Matching is case-insensitive.
var sensitiveMarkers = []string{
	"password",
	"secret",
	"key",
	"token",
	"connectionstring",
	"credential",
}

// IsSensitivePath reports whether the path matches the sensitive-data
// heuristic. Sensitive paths require Administrator privilege for any verb,
// overriding a lower role's nominal permissions.
func IsSensitivePath(path string) bool {
	lowered := strings.ToLower(path)
	for _, marker := range sensitiveMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}
