// Package which finds executables on a search path the way a POSIX shell
// does.
package which

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/arnodel/yq/internal/logger"
)

// ErrNotFound is matched (with errors.Is) by every error returned when no
// executable could be found.
var ErrNotFound = errors.New("executable not found")

// NotFoundError reports that Name could not be found in any directory of Path.
type NotFoundError struct {
	Name string
	Path string
}

func (e *NotFoundError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s (PATH is empty)", e.Name, ErrNotFound)
	}
	return fmt.Sprintf("%s: %s in %s", e.Name, ErrNotFound, e.Path)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// FileSystem is the part of the file system a Resolver looks at.
type FileSystem interface {
	Stat(name string) (fs.FileInfo, error)

	// Executable reports whether the current user may execute the file.
	Executable(name string) bool
}

// A Resolver looks up executables in the directories listed in Path, which
// has the format of the PATH environment variable.
//
// Nothing is cached: every call to Resolve inspects the file system again.
type Resolver struct {
	Path string
	FS   FileSystem
}

// FromEnv returns a Resolver using the current value of PATH and the real
// file system.
func FromEnv() *Resolver {
	return &Resolver{Path: os.Getenv("PATH")}
}

// Resolve returns the path of the first file called name in the directories
// of r.Path that is not a directory and is executable.  Empty entries of
// r.Path are skipped, the current directory is only searched if it is listed
// explicitly.  Names containing a path separator are never looked up.
func (r *Resolver) Resolve(name string) (string, error) {
	notFound := &NotFoundError{Name: name, Path: r.Path}
	if name == "" || strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator) {
		return "", notFound
	}
	fsys := r.FS
	if fsys == nil {
		fsys = osFS{}
	}
	for _, dir := range filepath.SplitList(r.Path) {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		info, err := fsys.Stat(candidate)
		if err != nil {
			continue
		}
		if info.IsDir() {
			logger.Debug("which: skipping directory %s", candidate)
			continue
		}
		if !fsys.Executable(candidate) {
			logger.Debug("which: skipping non executable %s", candidate)
			continue
		}
		if abs, err := filepath.Abs(candidate); err == nil {
			candidate = abs
		}
		logger.Debug("which: found %s", candidate)
		return candidate, nil
	}
	return "", notFound
}

type osFS struct{}

func (osFS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

func (osFS) Executable(name string) bool {
	return isExecutable(name)
}

// OS returns the FileSystem used when a Resolver's FS is nil.
func OS() FileSystem {
	return osFS{}
}
