// Package bundle packs an exported model directory into a single archive.
package bundle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"
)

var ErrFormat = errors.New("unsupported archive extension")

type archiver interface {
	Archive(ctx context.Context, output io.Writer, files []archives.FileInfo) error
}

// formatFor picks the archiver from dest's extension.
func formatFor(dest string) (archiver, error) {
	lower := strings.ToLower(dest)
	switch {
	case strings.HasSuffix(lower, ".zip"):
		return archives.Zip{}, nil
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return archives.CompressedArchive{
			Compression: archives.Gz{},
			Archival:    archives.Tar{},
		}, nil
	case strings.HasSuffix(lower, ".tar"):
		return archives.Tar{}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrFormat, filepath.Base(dest))
}

// Archive writes root into dest with entries under root's base name, so
// the unpacked archive is a drop-in model directory.
func Archive(ctx context.Context, root, dest string) (err error) {
	format, err := formatFor(dest)
	if err != nil {
		return err
	}
	root, err = filepath.Abs(root)
	if err != nil {
		return err
	}
	files, err := archives.FilesFromDisk(ctx, nil, map[string]string{
		root: filepath.Base(root),
	})
	if err != nil {
		return fmt.Errorf("collect %s: %w", root, err)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	if err := format.Archive(ctx, out, files); err != nil {
		return fmt.Errorf("archive %s: %w", dest, err)
	}
	return nil
}
