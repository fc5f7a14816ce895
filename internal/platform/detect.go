package platform

import "runtime"

// OS represents an operating system with known folder customization support.
type OS string

const (
	Windows OS = "windows"
	MacOS   OS = "darwin"
	Linux   OS = "linux"
	Unknown OS = "unknown"
)

// Detect returns the current operating system.
func Detect() OS {
	switch runtime.GOOS {
	case "windows":
		return Windows
	case "darwin":
		return MacOS
	case "linux":
		return Linux
	default:
		return Unknown
	}
}

// IsSupported returns true if folder icons can be applied on the current OS.
func IsSupported() bool {
	os := Detect()
	return os == Windows || os == Linux
}
