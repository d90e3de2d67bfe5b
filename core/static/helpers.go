package static

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// validatePathSecurity ensures the requested path is within the root directory.
// It prevents directory traversal attacks by cleaning and validating paths.
func validatePathSecurity(root, requestPath string) error {
	cleanPath := filepath.Clean(requestPath)
	cleanRoot := filepath.Clean(root)

	if cleanPath == cleanRoot {
		return nil
	}
	prefix := cleanRoot
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	if !strings.HasPrefix(cleanPath, prefix) {
		return fmt.Errorf("invalid path: outside root directory")
	}

	return nil
}

// validateStartup checks that root exists and is a directory.
// This is used to fail-fast during initialization rather than at runtime.
func validateStartup(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", root)
		}
		return fmt.Errorf("error accessing directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", root)
	}

	return nil
}
