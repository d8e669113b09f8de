// Package process cleans up the headless browser the PDF renderer starts.
package process

// minPID is the smallest pid KillProcessGroup acts on.
const minPID = 2
