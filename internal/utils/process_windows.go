//go:build windows

package utils

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

// SetNewPG detaches the child from the parent console so it keeps
// running after the parent exits
func SetNewPG(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP,
	}
}

// KillProcessByPID terminates the process
func KillProcessByPID(pid int) error {
	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process with PID %d: %v", pid, err)
	}
	if err := process.Kill(); err != nil {
		return fmt.Errorf("failed to kill process with PID %d: %v", pid, err)
	}
	return nil
}

// IsProcessRunning checks process liveness.
// On Windows FindProcess only succeeds for live processes.
func IsProcessRunning(pid int) (bool, error) {
	if _, err := os.FindProcess(pid); err != nil {
		return false, nil
	}
	return true, nil
}
