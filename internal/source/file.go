// SPDX-License-Identifier: MPL-2.0

package source

import (
	"context"
	"fmt"
	"io"
	"os"
)

// FileSource reads a saved export.
type FileSource struct {
	Path string
}

// Name returns the file path.
func (s *FileSource) Name() string { return s.Path }

// Read returns the file contents.
func (s *FileSource) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("read %s canceled: %w", s.Path, err)
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", s.Path, err)
	}
	return string(data), nil
}

// ReaderSource reads an export from a stream, typically stdin.
type ReaderSource struct {
	Label  string
	Reader io.Reader
}

// Name returns the label.
func (s *ReaderSource) Name() string { return s.Label }

// Read consumes the stream to EOF.
func (s *ReaderSource) Read(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("read %s canceled: %w", s.Label, err)
	}
	data, err := io.ReadAll(s.Reader)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", s.Label, err)
	}
	return string(data), nil
}
