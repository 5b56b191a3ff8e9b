//go:build !windows

package platform

import (
	"os/exec"
	"syscall"
)

// SetupProcessGroup places the child in its own process group so KillTree can
// reach the whole descendant tree (a transcode step may itself be a child of
// the fetch tool).
func SetupProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// KillTree terminates the process group rooted at pid. SIGTERM first; SIGKILL
// when the group does not accept the graceful signal.
func KillTree(pid int) error {
	if pid <= 0 {
		return nil
	}
	if err := syscall.Kill(-pid, syscall.SIGTERM); err != nil {
		return syscall.Kill(-pid, syscall.SIGKILL)
	}
	return nil
}
