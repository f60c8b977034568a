//go:build darwin

package discover

import (
	"os/exec"
	"strconv"
	"strings"
)

// ufDataless is the UF_DATALESS file flag: the entry is a placeholder
// whose bytes have not been materialized locally (grounding: the Rust
// original's is_cloud_placeholder checks this same flag via `stat -f %f`).
const ufDataless = 0x00000040

// isCloudPlaceholder inspects file-provider attributes and BSD flags to
// tell a dehydrated iCloud/Dropbox/OneDrive stub from a genuinely
// zero-byte file. Best-effort: any tool failure is treated as "not a
// placeholder" rather than propagated, since this only ever runs on a
// stat that already reported size zero.
func isCloudPlaceholder(path string) bool {
	if out, err := exec.Command("xattr", "-l", path).Output(); err == nil {
		attrs := string(out)
		if strings.Contains(attrs, "com.apple.fileprovider") {
			return strings.Contains(attrs, "dataless") || strings.Contains(attrs, "offline")
		}
	}

	out, err := exec.Command("stat", "-f", "%f", path).Output()
	if err != nil {
		return false
	}

	flags, err := strconv.ParseUint(strings.TrimSpace(string(out)), 10, 32)
	if err != nil {
		return false
	}

	return flags&ufDataless != 0
}
