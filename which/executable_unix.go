//go:build unix

package which

import "golang.org/x/sys/unix"

func isExecutable(name string) bool {
	return unix.Access(name, unix.X_OK) == nil
}
