//go:build linux

package fileops

import (
	"os/exec"
	"path/filepath"
)

// trashPath moves path into the XDG trash via gio, the userspace tool
// that already understands the freedesktop.org trash spec, rather than
// hand-rolling the .Trash-XXXX directory dance.
func trashPath(path string) error {
	return exec.Command("gio", "trash", path).Run()
}

// revealPath opens path's parent directory in the default file manager
// (spec §4.8/§6 reveal_in_finder — no Linux equivalent selects the file
// itself in a portable way, so the containing folder is opened).
func revealPath(path string) error {
	return exec.Command("xdg-open", filepath.Dir(path)).Run()
}
