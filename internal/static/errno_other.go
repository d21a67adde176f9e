//go:build !unix

package static

func errnoName(err error) string {
	return ""
}
