package unpack

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"zombiezen.com/go/nix/nar"
)

// extractNAR extracts a Nix archive. The root entry of the archive becomes dest.
func extractNAR(r io.Reader, dest string) (int, error) {
	narReader := nar.NewReader(bufio.NewReader(r))

	fileCount := 0
	for {
		hdr, err := narReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fileCount, fmt.Errorf("reading NAR entry: %w", err)
		}

		targetPath, err := safeJoin(dest, hdr.Path)
		if err != nil {
			return fileCount, err
		}

		switch hdr.Mode.Type() {
		case os.ModeDir:
			if err := os.MkdirAll(targetPath, 0755); err != nil {
				return fileCount, fmt.Errorf("creating directory %s: %w", targetPath, err)
			}

		case os.ModeSymlink:
			if err := writeSymlink(dest, targetPath, hdr.LinkTarget); err != nil {
				return fileCount, err
			}

		case 0: // Regular file
			perm := os.FileMode(0644)
			if hdr.Mode&0111 != 0 {
				perm = 0755
			}
			if err := writeFile(targetPath, narReader, perm, hdr.Size); err != nil {
				return fileCount, err
			}
			fileCount++
		}
	}

	return fileCount, nil
}
