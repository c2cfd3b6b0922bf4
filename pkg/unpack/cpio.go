package unpack

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cavaliergopher/cpio"
)

const (
	cpioTypeMask    = 0170000
	cpioTypeSymlink = 0120000
)

// extractCPIO extracts a newc or odc cpio stream
func extractCPIO(r io.Reader, dest string) (int, error) {
	if err := os.MkdirAll(dest, 0755); err != nil {
		return 0, fmt.Errorf("creating destination: %w", err)
	}

	cpioReader := cpio.NewReader(r)

	fileCount := 0
	for {
		header, err := cpioReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fileCount, fmt.Errorf("reading cpio: %w", err)
		}

		cleanPath := strings.TrimPrefix(header.Name, "./")
		if cleanPath == "" || cleanPath == "." {
			continue
		}

		target, err := safeJoin(dest, cleanPath)
		if err != nil {
			return fileCount, err
		}

		switch {
		case header.Mode.IsDir():
			if err := os.MkdirAll(target, 0755); err != nil {
				return fileCount, fmt.Errorf("creating directory %s: %w", target, err)
			}

		case header.Mode.IsRegular():
			perm := os.FileMode(header.Mode & 0777)
			if err := writeFile(target, cpioReader, perm, header.Size); err != nil {
				return fileCount, err
			}
			fileCount++

		case header.Mode&cpioTypeMask == cpioTypeSymlink:
			if header.Linkname != "" {
				if err := writeSymlink(dest, target, header.Linkname); err != nil {
					return fileCount, err
				}
			}
		}
	}

	return fileCount, nil
}
