//go:build !windows

package process

import "syscall"

// killTree signals the whole group (negative pid) so Chrome's renderer and
// GPU helpers go down with it.
func killTree(pid int) error {
	return syscall.Kill(-pid, syscall.SIGKILL)
}
