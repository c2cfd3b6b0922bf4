package env

import (
	"bytes"
	"fmt"
	"os"
)

// Format renders entries as KEY=VALUE lines
func Format(entries Entries) []byte {
	var buf bytes.Buffer
	for _, e := range entries {
		buf.WriteString(e.Key)
		buf.WriteByte('=')
		buf.WriteString(e.Value)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// Write creates or truncates path and writes entries to it.
// The parent directory must already exist.
func Write(path string, entries Entries) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("opening env file: %w", err)
	}

	if _, err := f.Write(Format(entries)); err != nil {
		f.Close()
		return fmt.Errorf("writing env file: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing env file: %w", err)
	}
	return nil
}
