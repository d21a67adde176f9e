package static

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func within(p, dir string) bool {
	return p == dir || strings.HasPrefix(p, dir+string(filepath.Separator))
}

func writeFile(t *testing.T, name, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(name, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestContentType(t *testing.T) {
	cases := map[string]string{
		"index.html":   "text/html",
		"app.js":       "text/javascript",
		"style.css":    "text/css",
		"data.json":    "application/json",
		"logo.png":     "image/png",
		"photo.jpg":    "image/jpg",
		"anim.gif":     "image/gif",
		"icon.svg":     "image/svg+xml",
		"archive.zip":  DefaultContentType,
		"noextension":  DefaultContentType,
		"UPPER.PNG":    DefaultContentType,
		"photo.jpeg":   DefaultContentType,
		"dir/page.htm": DefaultContentType,
	}
	for name, want := range cases {
		if got := ContentType(name); got != want {
			t.Errorf("ContentType(%q) = %s, want %s", name, got, want)
		}
	}
}

func TestResolve(t *testing.T) {
	base := t.TempDir()
	f := New(base, nil)

	cases := map[string]string{
		"/":             filepath.Join(base, "index.html"),
		"/index.html":   filepath.Join(base, "index.html"),
		"/css/site.css": filepath.Join(base, "css", "site.css"),
	}
	for in, want := range cases {
		if got := f.Resolve(in); got != want {
			t.Errorf("Resolve(%q) = %s, want %s", in, got, want)
		}
	}

	for _, p := range []string{"/../etc/passwd", "/a/../../..", "/../../secret.txt"} {
		if got := f.Resolve(p); !within(got, base) {
			t.Errorf("%s resolved outside base: %s", p, got)
		}
	}
}

func TestRead(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "index.html"), "<h1>hi</h1>")

	f := New(base, nil)
	root, err := f.Read("/")
	if err != nil {
		t.Fatal(err)
	}
	index, err := f.Read("/index.html")
	if err != nil {
		t.Fatal(err)
	}

	if string(root.Data) != "<h1>hi</h1>" || string(index.Data) != string(root.Data) {
		t.Errorf("expected / and /index.html to match, got %q and %q", root.Data, index.Data)
	}
	if root.ContentType != "text/html" {
		t.Errorf("expected text/html, got %s", root.ContentType)
	}
}

func TestReadMissing(t *testing.T) {
	_, err := New(t.TempDir(), nil).Read("/does-not-exist.png")
	if !IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestReadDenied(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "client-logs.txt"), "secret")
	writeFile(t, filepath.Join(base, ".git", "config"), "x")
	writeFile(t, filepath.Join(base, "ok.txt"), "fine")

	f := New(base, []string{"client-logs.txt", ".git/**"})

	for _, p := range []string{"/client-logs.txt", "/.git/config"} {
		if _, err := f.Read(p); !IsNotExist(err) {
			t.Errorf("%s: expected denied path to look missing, got %v", p, err)
		}
	}

	ok, err := f.Read("/ok.txt")
	if err != nil {
		t.Fatal(err)
	}
	if string(ok.Data) != "fine" {
		t.Errorf("expected 'fine', got %q", ok.Data)
	}
}

func TestReadDirectoryIsServerError(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("errno names are unix only")
	}
	base := t.TempDir()
	if err := os.MkdirAll(filepath.Join(base, "sub"), 0755); err != nil {
		t.Fatal(err)
	}

	_, err := New(base, nil).Read("/sub/")
	if err == nil || IsNotExist(err) {
		t.Fatalf("expected a non-ENOENT error, got %v", err)
	}
	if got := ServerError(err); got != "Server error: EISDIR" {
		t.Errorf("expected 'Server error: EISDIR', got %q", got)
	}
}

func TestErrorCodeUnknown(t *testing.T) {
	if got := ErrorCode(errors.New("boom")); got != "UNKNOWN" {
		t.Errorf("expected UNKNOWN, got %s", got)
	}
}
