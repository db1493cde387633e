package watch

import "path/filepath"

type FileSystemOp int32

// Filesystem operations that are monitored for changes
const (
	Create FileSystemOp = iota
	Write
	Remove
	Rename
	Chmod
)

// A Refresher is used to determine when to regenerate the table
type Refresher interface {
	// @return The directory path to watch for changes.
	// @param sourcePath The source listing being converted
	WatchDirectory(sourcePath string) string

	// @return If the table needs to be regenerated
	// @param path The path that triggered the FileSystemOp
	// @param The Filesystem op that happened on the directory returned from WatchDirectory
	ShouldRefresh(path string, op FileSystemOp) bool
}

// FileRefresher regenerates when the source listing itself changes. The parent directory is
// watched so that editors which save by renaming a new file into place are still noticed.
type FileRefresher struct {
	sourcePath string
	watchOps   map[FileSystemOp]struct{}
}

var defaultFileSystemOps = map[FileSystemOp]struct{}{
	Write:  {},
	Create: {},
}

func (f *FileRefresher) WatchDirectory(sourcePath string) string {
	f.sourcePath = filepath.Clean(sourcePath)
	return filepath.Dir(f.sourcePath)
}

func (f *FileRefresher) WatchFileSystemOps(fsops ...FileSystemOp) map[FileSystemOp]struct{} {
	f.watchOps = map[FileSystemOp]struct{}{}
	for _, op := range fsops {
		f.watchOps[op] = struct{}{}
	}

	return f.watchOps
}

func (f *FileRefresher) ShouldRefresh(path string, op FileSystemOp) bool {
	watchOps := f.watchOps
	if watchOps == nil {
		watchOps = defaultFileSystemOps
	}

	if _, opMatches := watchOps[op]; opMatches && filepath.Clean(path) == f.sourcePath {
		return true
	}
	return false
}
