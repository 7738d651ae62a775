//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// killTree uses taskkill: /F forces, /T includes child processes.
func killTree(pid int) error {
	return exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run() // #nosec G204 -- pid is an int
}
