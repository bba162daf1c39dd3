// Package storage defines the site file-system abstraction.
package storage

// Provider is the interface for site file operations. Every path is
// relative to the site root.
type Provider interface {
	// List returns the files directly under dir whose name ends in ext,
	// sorted lexicographically.
	List(dir, ext string) ([]string, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically replaces the file at path with content.
	Write(path string, content []byte) error
	// Exists reports whether a file is present at path.
	Exists(path string) (bool, error)
	// EnsureDir creates dir and any missing parents.
	EnsureDir(dir string) error
}
