package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Canonicalize resolves a path to canonical absolute form.
// Symlinks are resolved only when the path exists; otherwise the
// cleaned absolute form of the given string is returned, so paths
// for not-yet-created destinations still normalize predictably.
func Canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", err
	}

	if _, statErr := os.Stat(abs); statErr == nil {
		if resolved, evalErr := filepath.EvalSymlinks(abs); evalErr == nil {
			return resolved, nil
		}
	}

	return abs, nil
}

// SamePath reports whether two canonical paths identify the same location.
// Comparison is case-insensitive to match filesystems that preserve but
// do not distinguish case (the common case for migration targets).
func SamePath(a, b string) bool {
	return strings.EqualFold(normalizeForCompare(a), normalizeForCompare(b))
}

// IsAncestor reports whether child is strictly below parent.
// Equal paths are not ancestors of each other.
func IsAncestor(parent, child string) bool {
	p := strings.ToLower(normalizeForCompare(parent))
	c := strings.ToLower(normalizeForCompare(child))
	if p == c {
		return false
	}
	return strings.HasPrefix(c, p+"/")
}

// Depth returns the number of directory segments in a path.
// Volume names and UNC host/share prefixes do not count as segments.
func Depth(path string) int {
	trimmed := strings.TrimPrefix(path, filepath.VolumeName(path))
	trimmed = strings.Trim(filepath.ToSlash(trimmed), "/")
	if trimmed == "" {
		return 0
	}
	return len(strings.Split(trimmed, "/"))
}

// SanitizeLogName converts a path into a string safe for use as a
// log filename component: separators and drive colons become underscores.
func SanitizeLogName(path string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_")
	name := replacer.Replace(filepath.ToSlash(path))
	name = strings.Trim(name, "_")
	if name == "" {
		return "root"
	}
	return name
}

// IsUNCPath checks if a path is a UNC path (Windows network share)
func IsUNCPath(path string) bool {
	if runtime.GOOS != "windows" {
		return false
	}
	return strings.HasPrefix(path, "\\\\") || strings.HasPrefix(path, "//")
}

// normalizeForCompare puts a path into slash-separated cleaned form
// so comparisons behave the same on every platform
func normalizeForCompare(path string) string {
	return strings.TrimSuffix(filepath.ToSlash(filepath.Clean(path)), "/")
}
