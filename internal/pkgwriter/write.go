// Package pkgwriter serializes model package documents and writes them to disk.
package pkgwriter

import (
	"encoding/xml"
	"fmt"
	"path/filepath"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WritePrettyXML marshals v, pretty-prints it with FormatXML and writes it to dest,
// replacing any existing file.
func WritePrettyXML(fs billy.Filesystem, v any, dest string) error {
	raw, err := xml.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %v", ErrSerialization, dest, err)
	}
	pretty, err := FormatXML(raw)
	if err != nil {
		return fmt.Errorf("format %s: %w", dest, err)
	}
	return WriteFile(fs, dest, pretty)
}

// WriteFile creates the parent directory of dest if needed and truncates-and-writes data.
func WriteFile(fs billy.Filesystem, dest string, data []byte) error {
	if err := fs.MkdirAll(filepath.Dir(dest), dirPerm); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(dest), err)
	}
	if err := util.WriteFile(fs, dest, data, filePerm); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return nil
}
