// errors.go
package wfnconf

import (
	"errors"
	"fmt"

	"github.com/arc-language/wfnconf/pkg/platform"
)

var (
	// ErrPlatformNotSupported indicates the target OS has no required files table
	ErrPlatformNotSupported = platform.ErrUnsupported

	// ErrUnexpectedRoot indicates the project root is not named after the project
	ErrUnexpectedRoot = errors.New("unexpected project root")

	// ErrEnvFileMissing indicates the env file does not exist
	ErrEnvFileMissing = errors.New("env file missing")

	// ErrStaleEnvFile indicates the env file differs from a fresh resolution
	ErrStaleEnvFile = errors.New("env file is stale")

	// ErrAbsentValues indicates some required files could not be found
	ErrAbsentValues = errors.New("required files not found")
)

// Error wraps an error with additional context
type Error struct {
	Op   string // Operation that failed
	Path string // File or directory involved, if any
	Err  error  // Underlying error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
