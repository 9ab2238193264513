package locate

import (
	"io/fs"
	"os"
)

// System abstracts the filesystem and environment operations the locator
// needs, so scans can run against fixtures in tests.
type System interface {
	Stat(name string) (fs.FileInfo, error)
	ReadDir(name string) ([]fs.DirEntry, error)
	Getenv(key string) string
}

// RealSystem implements System against the OS.
type RealSystem struct{}

// Stat returns the FileInfo for the named file.
func (RealSystem) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

// ReadDir reads the named directory and returns its entries.
func (RealSystem) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name)
}

// Getenv returns the value of the environment variable named by key.
func (RealSystem) Getenv(key string) string {
	return os.Getenv(key)
}
