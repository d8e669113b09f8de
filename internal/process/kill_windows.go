//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup force-kills pid and its child tree with taskkill.
// Pids below 2 are ignored.
func KillProcessGroup(pid int) {
	if pid < minPID {
		return
	}
	// The launcher's own Kill follows, so a failure here is not fatal.
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run() // #nosec G204 -- numeric pid
}
