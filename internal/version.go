package internal

import (
	"os"
	"path/filepath"
)

// Version is the current cliplingo release version
const Version = "0.3.1"

// StateDir returns the directory used for persistent application state
// following the XDG Base Directory specification
func StateDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".local", "state", "cliplingo")
}
