package unpack

import (
	"fmt"
	"io"
	"strings"

	"github.com/blakesmith/ar"
)

// extractDeb extracts the data.tar.* member of a Debian package, which holds
// the installed file tree
func extractDeb(r io.Reader, dest string) (int, error) {
	arReader := ar.NewReader(r)

	for {
		header, err := arReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("reading ar entry: %w", err)
		}

		// data.tar.xz, data.tar.gz, data.tar.zst or plain data.tar
		name := strings.TrimSuffix(header.Name, "/")
		if !strings.HasPrefix(name, "data.tar") {
			continue
		}

		compression := strings.TrimPrefix(strings.TrimPrefix(name, "data.tar"), ".")
		data, closeFn, err := decompress(compression, arReader)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", name, err)
		}
		defer closeFn()

		return extractTar(data, dest)
	}

	return 0, fmt.Errorf("no data.tar.* found in .deb package")
}
