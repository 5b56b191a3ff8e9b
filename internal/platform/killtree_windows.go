//go:build windows

package platform

import (
	"os/exec"
	"strconv"
)

// SetupProcessGroup is a no-op on Windows; taskkill walks the tree itself.
func SetupProcessGroup(cmd *exec.Cmd) {}

// KillTree forcefully terminates pid and all descendants.
func KillTree(pid int) error {
	if pid <= 0 {
		return nil
	}
	return exec.Command("taskkill", "/PID", strconv.Itoa(pid), "/T", "/F").Run()
}
