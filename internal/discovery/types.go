package discovery

import (
	"path/filepath"
	"strings"
	"time"
)

// DiscoveredFile represents a DDL file found during filesystem traversal
type DiscoveredFile struct {
	Path         string    // Absolute path to file
	RelativePath string    // Path relative to the search root it was found under
	ModTime      time.Time // Last modification time
}

// IsSQLFile reports whether filename has a .sql suffix (case-insensitive)
func IsSQLFile(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filepath.Base(filename)), ".sql")
}
