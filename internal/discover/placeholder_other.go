//go:build !darwin

package discover

// isCloudPlaceholder has no portable, dependency-free signal on
// non-Darwin platforms for this corpus; a zero-byte file here is just a
// zero-byte file.
func isCloudPlaceholder(_ string) bool {
	return false
}
