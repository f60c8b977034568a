//go:build darwin

package fileops

import "os/exec"

// trashPath asks Finder to move path to the Trash via AppleScript,
// mirroring the teacher's own OS-shell-out habit (file.go's
// GetTypeOfFile, file_copy.go's osMove/osCopy) rather than reimplementing
// trash semantics with a raw syscall. path is passed as its own argv
// element via an "on run argv" handler rather than concatenated into the
// script text, so a filename containing a `"` or other AppleScript
// metacharacter can't break out of the script and inject commands.
func trashPath(path string) error {
	const script = `on run argv
	tell application "Finder" to delete POSIX file (item 1 of argv)
end run`
	return exec.Command("osascript", "-e", script, path).Run()
}

// revealPath asks Finder to reveal path (spec §4.8/§6 reveal_in_finder).
func revealPath(path string) error {
	return exec.Command("open", "-R", path).Run()
}
