// Package process stops the browser launched for PDF rendering together with
// the helper processes it spawned.
package process

import "errors"

// ErrInvalidPID is returned for PIDs that would target the caller's own
// process group or init.
var ErrInvalidPID = errors.New("invalid browser pid")

// KillTree kills pid and every process in its group. The browser launcher
// kills the main process on its own, so callers treat the error as
// informational.
func KillTree(pid int) error {
	if pid <= 1 {
		return ErrInvalidPID
	}
	return killTree(pid)
}
