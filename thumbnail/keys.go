package thumbnail

import "strings"

const (
	// Suffix names generated thumbnails and marks them to be skipped when
	// their own upload notification comes back in.
	Suffix = "_thumbnail.png"

	ContentType = "image/png"
)

// DeriveKey replaces the last extension of key with Suffix. A key without a
// dot gets Suffix appended as is: "noext" becomes "noext_thumbnail.png".
func DeriveKey(key string) string {
	if i := strings.LastIndex(key, "."); i >= 0 {
		key = key[:i]
	}
	return key + Suffix
}

func IsThumbnailKey(key string) bool {
	return strings.HasSuffix(key, Suffix)
}
