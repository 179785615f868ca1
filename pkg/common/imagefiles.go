package common

import "strings"

// IsImageFormat reports whether the path looks like a raster image we know how to decode.
// DICOM files are expected to be converted to PNG by the acquisition layer before reaching us.
func IsImageFormat(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".jpg") ||
		strings.HasSuffix(lower, ".jpeg") ||
		strings.HasSuffix(lower, ".png")
}
