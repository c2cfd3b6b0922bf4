package unpack

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

func extractTar(r io.Reader, dest string) (int, error) {
	tarReader := tar.NewReader(r)

	if err := os.MkdirAll(dest, 0755); err != nil {
		return 0, fmt.Errorf("creating destination: %w", err)
	}

	fileCount := 0
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fileCount, fmt.Errorf("reading tar entry: %w", err)
		}

		// Clean the path (remove leading ./)
		cleanPath := strings.TrimPrefix(header.Name, "./")
		if cleanPath == "" || cleanPath == "." {
			continue
		}

		targetPath, err := safeJoin(dest, cleanPath)
		if err != nil {
			return fileCount, err
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(targetPath, 0755); err != nil {
				return fileCount, fmt.Errorf("creating directory %s: %w", targetPath, err)
			}

		case tar.TypeSymlink:
			if err := writeSymlink(dest, targetPath, header.Linkname); err != nil {
				return fileCount, err
			}

		case tar.TypeReg:
			if err := writeFile(targetPath, tarReader, os.FileMode(header.Mode).Perm(), header.Size); err != nil {
				return fileCount, err
			}
			fileCount++

		default:
			// hard links, devices and fifos are not needed for SDK layouts
		}
	}

	return fileCount, nil
}

func writeSymlink(dest, path, target string) error {
	if err := checkLink(dest, path, target); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating parent directory for symlink: %w", err)
	}
	os.Remove(path)
	if err := os.Symlink(target, path); err != nil {
		return fmt.Errorf("creating symlink %s -> %s: %w", path, target, err)
	}
	return nil
}

// writeFile copies exactly size bytes from r into a new file at path.
// A negative size skips the length check.
func writeFile(path string, r io.Reader, perm os.FileMode, size int64) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}
	if perm == 0 {
		perm = 0644
	}
	// an earlier entry may have left a symlink here
	if fi, err := os.Lstat(path); err == nil && fi.Mode()&os.ModeSymlink != 0 {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("replacing symlink %s: %w", path, err)
		}
	}

	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("creating file %s: %w", path, err)
	}

	written, err := io.Copy(out, r)
	closeErr := out.Close()
	if err != nil {
		return fmt.Errorf("writing file %s: %w", path, err)
	}
	if closeErr != nil {
		return fmt.Errorf("closing file %s: %w", path, closeErr)
	}
	if size >= 0 && written != size {
		return fmt.Errorf("size mismatch for %s: wrote %d of %d bytes", path, written, size)
	}
	return nil
}
