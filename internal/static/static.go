package static

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultContentType is used for extensions missing from the table.
const DefaultContentType = "application/octet-stream"

// contentTypes maps file extensions (case-sensitive) to Content-Type values.
var contentTypes = map[string]string{
	".html": "text/html",
	".js":   "text/javascript",
	".css":  "text/css",
	".json": "application/json",
	".png":  "image/png",
	".jpg":  "image/jpg",
	".gif":  "image/gif",
	".svg":  "image/svg+xml",
}

// ContentType returns the Content-Type for name based on its extension.
func ContentType(name string) string {
	if ct, ok := contentTypes[filepath.Ext(name)]; ok {
		return ct
	}
	return DefaultContentType
}

// File is a static file read into memory.
type File struct {
	Path        string
	ContentType string
	Data        []byte
}

// Files serves files from a base directory.
type Files struct {
	base string
	deny []string
}

// New returns a Files rooted at base. Request paths matching any deny glob
// (relative to base, e.g. "**/*.txt") are reported as not existing.
func New(base string, deny []string) *Files {
	return &Files{base: base, deny: deny}
}

// Resolve maps a request path to a file path under the base directory.
// "/" maps to index.html; ".." segments cannot climb above the base.
func (f *Files) Resolve(urlPath string) string {
	clean := path.Clean("/" + urlPath)
	if clean == "/" {
		clean = "/index.html"
	}
	return filepath.Join(f.base, filepath.FromSlash(clean))
}

// Read loads the file for urlPath.
func (f *Files) Read(urlPath string) (File, error) {
	name := f.Resolve(urlPath)
	if f.denied(name) {
		return File{}, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return File{}, err
	}
	return File{Path: name, ContentType: ContentType(name), Data: data}, nil
}

func (f *Files) denied(name string) bool {
	if len(f.deny) == 0 {
		return false
	}
	rel, err := filepath.Rel(f.base, name)
	if err != nil {
		return true
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range f.deny {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// IsNotExist reports whether err means the requested file is missing.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// ServerError is the 500 body for a read failure, e.g. "Server error: EACCES".
func ServerError(err error) string {
	return fmt.Sprintf("Server error: %s", ErrorCode(err))
}

// ErrorCode returns the symbolic errno name behind err, or "UNKNOWN".
func ErrorCode(err error) string {
	if code := errnoName(err); code != "" {
		return code
	}
	return "UNKNOWN"
}
