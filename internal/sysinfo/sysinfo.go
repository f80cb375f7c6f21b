// Package sysinfo captures host details for report annotation, so a stored
// benchmark run can be traced back to the machine and source revision that
// produced it.
package sysinfo

import (
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Info describes the benchmarking host.
type Info struct {
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	CPUs      int    `json:"cpus"`
	GoVersion string `json:"go_version"`
	Hostname  string `json:"hostname,omitempty"`
	GitCommit string `json:"git_commit,omitempty"`
}

// Capture collects current system information. Hostname and git commit are
// best effort and left empty when unavailable.
func Capture() Info {
	info := Info{
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		CPUs:      runtime.NumCPU(),
		GoVersion: runtime.Version(),
	}

	if hostname, err := os.Hostname(); err == nil {
		info.Hostname = hostname
	}
	if commit, err := gitCommit(); err == nil {
		info.GitCommit = commit
	}

	return info
}

// gitCommit returns the short commit hash of the working directory.
func gitCommit() (string, error) {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
