// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Process group handling for FoldX on Unix

//go:build !windows

package exec

import (
	"os/exec"
	"syscall"
)

// setPlatformProcessGroup puts FoldX in its own process group so a
// timeout or interrupt reaches every process it spawned.
func setPlatformProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killProcessGroup sends SIGKILL to the job's process group
func killProcessGroup(cmd *exec.Cmd) error {
	return signalGroup(cmd, syscall.SIGKILL)
}

// interruptProcessGroup sends SIGINT to the job's process group
func interruptProcessGroup(cmd *exec.Cmd) error {
	return signalGroup(cmd, syscall.SIGINT)
}

func signalGroup(cmd *exec.Cmd, sig syscall.Signal) error {
	if cmd.Process == nil {
		return nil
	}

	pgid, err := syscall.Getpgid(cmd.Process.Pid)
	if err != nil {
		// Fallback to signalling just the process
		return cmd.Process.Signal(sig)
	}

	// Negative PGID targets the whole group
	return syscall.Kill(-pgid, sig)
}
