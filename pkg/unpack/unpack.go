// pkg/unpack/unpack.go
package unpack

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Format is an archive format the unpacker understands: a container
// optionally followed by a compression, e.g. "tar.xz"
type Format string

const (
	FormatTarXZ  Format = "tar.xz"
	FormatTarZst Format = "tar.zst"
	FormatTarGz  Format = "tar.gz"
	FormatNAR    Format = "nar"
	FormatNARXZ  Format = "nar.xz"
	FormatDeb    Format = "deb"
	FormatRPM    Format = "rpm"
	FormatCPIO   Format = "cpio"
	FormatCPIOGz Format = "cpio.gz"
)

var suffixes = []struct {
	suffix string
	format Format
}{
	{".tar.xz", FormatTarXZ},
	{".txz", FormatTarXZ},
	{".tar.zst", FormatTarZst},
	{".tzst", FormatTarZst},
	{".tar.gz", FormatTarGz},
	{".tgz", FormatTarGz},
	{".nar.xz", FormatNARXZ},
	{".nar", FormatNAR},
	{".deb", FormatDeb},
	{".rpm", FormatRPM},
	{".cpio.gz", FormatCPIOGz},
	{".cpio", FormatCPIO},
}

// Detect returns the format and the name stem of an archive file name
func Detect(name string) (Format, string, bool) {
	for _, s := range suffixes {
		if strings.HasSuffix(name, s.suffix) && len(name) > len(s.suffix) {
			return s.format, strings.TrimSuffix(name, s.suffix), true
		}
	}
	return "", "", false
}

func (f Format) container() string {
	c, _, _ := strings.Cut(string(f), ".")
	return c
}

func (f Format) compression() string {
	_, c, _ := strings.Cut(string(f), ".")
	return c
}

// Unpacked describes one extracted archive
type Unpacked struct {
	Archive string
	Dest    string
	Format  Format
	Files   int
}

// Unpacker extracts SDK archives and loader packages dropped into the library directory
type Unpacker struct {
	logger *slog.Logger
}

// New creates an Unpacker
func New(logger *slog.Logger) *Unpacker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Unpacker{logger: logger.With("component", "unpack")}
}

// UnpackAll extracts every archive directly inside dir into a sibling
// directory named after the archive. Archives whose directory already
// exists are left alone. A broken archive is logged and skipped.
func (u *Unpacker) UnpackAll(ctx context.Context, dir string) ([]Unpacked, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	var done []Unpacked
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		if entry.IsDir() {
			continue
		}

		format, stem, ok := Detect(entry.Name())
		if !ok {
			continue
		}

		archive := filepath.Join(dir, entry.Name())
		dest := filepath.Join(dir, stem)
		if _, err := os.Stat(dest); err == nil {
			u.logger.Debug("already unpacked", "archive", archive, "dest", dest)
			continue
		}

		u.logger.Info("unpacking archive", "archive", archive, "format", format)
		files, err := u.Unpack(archive, dest, format)
		if err != nil {
			u.logger.Warn("failed to unpack archive", "archive", archive, "error", err)
			// a partial tree would look unpacked on the next run
			os.RemoveAll(dest)
			continue
		}

		u.logger.Info("unpacked archive", "dest", dest, "files", files)
		done = append(done, Unpacked{Archive: archive, Dest: dest, Format: format, Files: files})
	}

	return done, nil
}

// Unpack extracts one archive into dest and returns the number of regular files written
func (u *Unpacker) Unpack(archive, dest string, format Format) (int, error) {
	f, err := os.Open(archive)
	if err != nil {
		return 0, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	switch format.container() {
	case "deb":
		return extractDeb(f, dest)
	case "rpm":
		return extractRPM(f, dest)
	}

	r, closeFn, err := decompress(format.compression(), f)
	if err != nil {
		return 0, err
	}
	defer closeFn()

	switch format.container() {
	case "tar":
		return extractTar(r, dest)
	case "nar":
		return extractNAR(r, dest)
	case "cpio":
		return extractCPIO(r, dest)
	default:
		return 0, fmt.Errorf("unsupported archive format: %s", format)
	}
}

// decompress wraps r according to a compression suffix ("", "gz", "xz" or "zst")
func decompress(compression string, r io.Reader) (io.Reader, func(), error) {
	switch compression {
	case "":
		return r, func() {}, nil
	case "gz":
		gzReader, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("creating gzip reader: %w", err)
		}
		return gzReader, func() { gzReader.Close() }, nil
	case "xz":
		xzReader, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("creating xz reader: %w", err)
		}
		return xzReader, func() {}, nil
	case "zst":
		zstdReader, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd init: %w", err)
		}
		return zstdReader, zstdReader.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported compression: %s", compression)
	}
}

// safeJoin joins name onto dest and rejects results outside dest, whether
// by name or through a symlink already extracted into dest
func safeJoin(dest, name string) (string, error) {
	target := filepath.Join(dest, filepath.FromSlash(name))
	if !within(dest, target) {
		return "", fmt.Errorf("entry %q escapes the destination", name)
	}
	if err := checkParent(dest, target); err != nil {
		return "", fmt.Errorf("entry %q: %w", name, err)
	}
	return target, nil
}

func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// checkParent resolves the deepest existing directory above target and
// fails when symlinks take it outside dest
func checkParent(dest, target string) error {
	realDest, err := filepath.EvalSymlinks(dest)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolving destination: %w", err)
	}

	for dir := filepath.Dir(target); within(dest, dir); dir = filepath.Dir(dir) {
		resolved, err := filepath.EvalSymlinks(dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("resolving %s: %w", dir, err)
		}
		if !within(realDest, resolved) {
			return fmt.Errorf("parent %s resolves outside the destination", dir)
		}
		return nil
	}
	return nil
}

// checkLink rejects a symlink at target whose link text is absolute or
// points above dest
func checkLink(dest, target, link string) error {
	if filepath.IsAbs(link) || strings.HasPrefix(link, "/") {
		return fmt.Errorf("symlink %s -> %s is absolute", target, link)
	}
	if !within(dest, filepath.Join(filepath.Dir(target), filepath.FromSlash(link))) {
		return fmt.Errorf("symlink %s -> %s leads outside the destination", target, link)
	}
	return nil
}

// countFiles counts regular files under dir
func countFiles(dir string) (int, error) {
	n := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			n++
		}
		return nil
	})
	return n, err
}
