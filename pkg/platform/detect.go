// pkg/platform/detect.go
package platform

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrUnsupported is returned for operating systems without a required-files table
var ErrUnsupported = errors.New("platform not supported")

// UnsupportedError names the operating system that was rejected
type UnsupportedError struct {
	OS string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("platform %q is not supported", e.OS)
}

func (e *UnsupportedError) Unwrap() error {
	return ErrUnsupported
}

// Platform represents the detected system platform
type Platform struct {
	OS   string // linux, darwin, windows
	Arch string // amd64, arm64, 386, arm
}

// Detect detects the current platform
func Detect() (*Platform, error) {
	return DetectFor(runtime.GOOS, runtime.GOARCH)
}

// DetectFor builds a Platform for the given GOOS/GOARCH pair, rejecting
// operating systems that have no built-in table
func DetectFor(goos, goarch string) (*Platform, error) {
	if goarch == "" {
		goarch = runtime.GOARCH
	}

	switch goos {
	case "darwin", "linux", "windows":
		return &Platform{OS: goos, Arch: goarch}, nil
	default:
		return nil, &UnsupportedError{OS: goos}
	}
}

// Current returns the operating system this binary runs on
func Current() string {
	return runtime.GOOS
}

// Supported lists the operating systems with a built-in table
func Supported() []string {
	return []string{"darwin", "linux", "windows"}
}

// String returns a string representation of the platform
func (p *Platform) String() string {
	return fmt.Sprintf("%s/%s", p.OS, p.Arch)
}
