//go:build !windows

package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid, taking
// Chrome's renderer and GPU helpers down with the browser. Pids below 2
// are ignored: -0 and -1 would signal this process's group or every
// process the user owns.
func KillProcessGroup(pid int) {
	if pid < minPID {
		return
	}
	// The launcher's own Kill follows, so a failure here is not fatal.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
