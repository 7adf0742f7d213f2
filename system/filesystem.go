package system

import (
	"io/fs"
	"os"
)

// VirtualFS is the read-only file system configuration documents and source trees are
// read through. Names may be absolute when backed by FileSystem.
type VirtualFS interface {
	fs.FS
}

// FileSystem reads from the operating system. Unlike os.DirFS it accepts absolute and
// working-directory relative names.
type FileSystem struct{}

var (
	_ VirtualFS     = (*FileSystem)(nil)
	_ fs.ReadDirFS  = (*FileSystem)(nil)
	_ fs.StatFS     = (*FileSystem)(nil)
	_ fs.ReadFileFS = (*FileSystem)(nil)
)

func (fs *FileSystem) Open(name string) (fs.File, error) {
	return os.Open(name) //nolint:gosec
}

func (fs *FileSystem) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name)
}

func (fs *FileSystem) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

func (fs *FileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name) //nolint:gosec
}
