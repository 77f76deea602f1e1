package pwas

import (
	"fmt"
	"strings"
)

const GSPrefix = "gs://"

// IsGSPath reports whether path points at Google Storage.
func IsGSPath(path string) bool {
	return strings.HasPrefix(path, GSPrefix)
}

// SplitGSPath detects the bucket and the path to the actual object within a
// gs:// URL.
func SplitGSPath(path string) (bucket, object string, err error) {
	if !IsGSPath(path) {
		return "", "", fmt.Errorf("%s is not a google storage path", path)
	}

	pathParts := strings.SplitN(strings.TrimPrefix(path, GSPrefix), "/", 2)
	if len(pathParts) != 2 || pathParts[0] == "" {
		return "", "", fmt.Errorf("Tried to split your google storage path into bucket and object, but got %d parts: %v", len(pathParts), pathParts)
	}

	return pathParts[0], pathParts[1], nil
}

// JoinPath joins path elements with forward slashes, which works for both
// google storage and local paths. Empty elements are kept so that an unset
// root still produces a rooted path.
func JoinPath(root string, elem ...string) string {
	out := strings.TrimSuffix(root, "/")
	for _, e := range elem {
		out += "/" + strings.Trim(e, "/")
	}

	return out
}
