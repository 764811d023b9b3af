package discover

import (
	"os"
	"path/filepath"
)

// projectMarkers are files whose presence marks a JS/TS project root,
// checked in order.
var projectMarkers = []string{"package.json", "tsconfig.json", "deno.json", ".git"}

// FindProjectRoot searches upward from startDir for the nearest directory
// containing a project marker, falling back to startDir itself if none is
// found.
func FindProjectRoot(startDir string) string {
	dir := startDir
	for {
		for _, marker := range projectMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return startDir
}

// FindGitRoot searches upward from startDir for a `.git` directory,
// stopping at $HOME so an unrelated ancestor repository is never picked
// up. Grounded on Detector.findGitRoot.
func FindGitRoot(startDir string) string {
	dir := startDir
	home := os.Getenv("HOME")
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		if home == parent {
			return ""
		}
		dir = parent
	}
	return ""
}
