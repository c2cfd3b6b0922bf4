package unpack

import (
	"fmt"
	"io"
	"os"

	"github.com/sassoftware/go-rpmutils"
)

// extractRPM expands the payload of an RPM package into dest
func extractRPM(r io.Reader, dest string) (int, error) {
	rpm, err := rpmutils.ReadRpm(r)
	if err != nil {
		return 0, fmt.Errorf("reading rpm package: %w", err)
	}

	if err := os.MkdirAll(dest, 0755); err != nil {
		return 0, fmt.Errorf("creating destination: %w", err)
	}

	if err := rpm.ExpandPayload(dest); err != nil {
		return 0, fmt.Errorf("expanding rpm payload: %w", err)
	}

	return countFiles(dest)
}
