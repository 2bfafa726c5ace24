package host

import (
	"os"
	"path/filepath"
)

// SamePath reports whether a and b refer to the same file. Existing files
// are compared by identity so links and case-insensitive volumes resolve
// correctly; otherwise the cleaned absolute paths are compared.
func SamePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	ai, aErr := os.Stat(a)
	bi, bErr := os.Stat(b)
	if aErr == nil && bErr == nil {
		return os.SameFile(ai, bi)
	}
	return canonical(a) == canonical(b)
}

func canonical(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		p = resolved
	}
	return filepath.Clean(p)
}

// Exists reports whether something is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
