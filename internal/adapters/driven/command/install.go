package command

import "runtime"

// Operating system identifiers.
const (
	osDarwin  = "darwin"
	osLinux   = "linux"
	osWindows = "windows"
)

// Packages names a program's package per platform package manager.
type Packages struct {
	Brew   string
	Apt    string
	Choco  string
	Manual string
}

// InstallInstructions returns the install command for the current platform.
func InstallInstructions(p Packages) string {
	return installFor(runtime.GOOS, p)
}

func installFor(goos string, p Packages) string {
	switch goos {
	case osDarwin:
		if p.Brew != "" {
			return "brew install " + p.Brew
		}
	case osLinux:
		if p.Apt != "" {
			return "sudo apt-get install " + p.Apt
		}
	case osWindows:
		if p.Choco != "" {
			return "choco install " + p.Choco
		}
	}
	return p.Manual
}
