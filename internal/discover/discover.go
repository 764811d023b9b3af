// Package discover walks a directory tree to find JS/TS/JSX/TSX source
// files for analysis, skipping package-manager and build-output
// directories, using an afs.Service-backed walk and an os.FileInfo
// matcher-function idiom for per-language extension matching.
package discover

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
)

var sourceExtensions = map[string]bool{
	".js": true, ".jsx": true, ".mjs": true, ".cjs": true,
	".ts": true, ".tsx": true, ".mts": true, ".cts": true,
}

var skipDirs = map[string]bool{
	"node_modules": true, "dist": true, "build": true, "out": true,
	"coverage": true, ".git": true, ".next": true, ".turbo": true,
}

// MatcherFn decides whether a walked entry is descended into (directories)
// or collected (files).
type MatcherFn func(info os.FileInfo) bool

// SourceFiles is the default matcher: JS/TS/JSX/TSX files, skipping
// dotfiles, dotdirs, and common package-manager/build-output directories.
func SourceFiles(info os.FileInfo) bool {
	name := info.Name()
	if info.IsDir() {
		if skipDirs[name] {
			return false
		}
		return name == "." || !strings.HasPrefix(name, ".")
	}
	if strings.HasPrefix(name, ".") {
		return false
	}
	return sourceExtensions[filepath.Ext(name)]
}

// Discoverer walks a root directory (local path or afs URL) collecting
// source files, and fetches their contents on demand.
type Discoverer struct {
	fs      afs.Service
	Matcher MatcherFn
}

// New builds a Discoverer using the default SourceFiles matcher.
func New() *Discoverer {
	return &Discoverer{fs: afs.New(), Matcher: SourceFiles}
}

// Files returns the URL of every source file under root, in walk order.
func (d *Discoverer) Files(ctx context.Context, root string) ([]string, error) {
	var files []string
	var visitor storage.OnVisit = func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		if !d.Matcher(info) {
			return false, nil
		}
		if info.IsDir() {
			return true, nil
		}
		files = append(files, url.Join(baseURL, parent, info.Name()))
		return true, nil
	}
	if err := d.fs.Walk(ctx, root, visitor); err != nil {
		return nil, err
	}
	return files, nil
}

// Read downloads the contents of one discovered file.
func (d *Discoverer) Read(ctx context.Context, fileURL string) ([]byte, error) {
	return d.fs.DownloadWithURL(ctx, fileURL)
}
