package gazebo

import (
	"fmt"
	"path/filepath"
	"strings"

	billy "github.com/go-git/go-billy/v5"
)

const (
	SchemaVersion  = "1.7"
	ConfigVersion  = "1.0"
	DefaultAuthor  = "Generated by sdfpack"
	SDFFilename    = "model.sdf"
	ConfigFilename = "model.config"
	MeshesDir      = "meshes"
	MaterialsDir   = "materials"
	MeshExt        = ".obj"
	MaterialExt    = ".material"

	// URIScheme prefixes package-relative resource references.
	URIScheme = "model://"
)

// PackageOptions describe the identity of a model package.
type PackageOptions struct {
	// Name defaults to the base name of the root directory.
	Name string
	// Author defaults to DefaultAuthor.
	Author string
	// AbsolutePaths selects OS-absolute URIs instead of model:// URIs.
	AbsolutePaths bool
}

// Package is the on-disk layout of one Gazebo model.
type Package struct {
	Root          string
	Name          string
	Author        string
	AbsolutePaths bool

	fs billy.Filesystem
}

// NewPackage resolves the package root and creates the meshes and materials
// directories. Existing directories are left as they are.
func NewPackage(fs billy.Filesystem, root string, opts PackageOptions) (*Package, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve package root %s: %w", root, err)
	}

	p := &Package{
		Root:          abs,
		Name:          opts.Name,
		Author:        opts.Author,
		AbsolutePaths: opts.AbsolutePaths,
		fs:            fs,
	}
	if p.Name == "" {
		p.Name = filepath.Base(abs)
	}
	if p.Author == "" {
		p.Author = DefaultAuthor
	}
	if strings.TrimSpace(p.Author) == "" {
		return nil, fmt.Errorf("%w: author %q is blank", ErrInvalidName, p.Author)
	}
	if err := ValidName(p.Name); err != nil {
		return nil, fmt.Errorf("model name: %w", err)
	}

	for _, dir := range []string{p.MeshesDir(), p.MaterialsDir()} {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	return p, nil
}

func (p *Package) MeshesDir() string    { return filepath.Join(p.Root, MeshesDir) }
func (p *Package) MaterialsDir() string { return filepath.Join(p.Root, MaterialsDir) }
func (p *Package) SDFPath() string      { return filepath.Join(p.Root, SDFFilename) }
func (p *Package) ConfigPath() string   { return filepath.Join(p.Root, ConfigFilename) }

// MeshPath is the mesh destination for an object, without extension.
func (p *Package) MeshPath(object string) string {
	return filepath.Join(p.MeshesDir(), object)
}

func (p *Package) MaterialPath(object string) string {
	return filepath.Join(p.MaterialsDir(), object+MaterialExt)
}

func (p *Package) ImagePath(image string) string {
	return filepath.Join(p.MaterialsDir(), image)
}

// URI turns a path on disk into the reference written into model.sdf.
//
// With AbsolutePaths the absolute path is returned as is. Otherwise the path is
// made relative to the directory containing the package and prefixed with
// model://, using forward slashes on every OS. A path outside that directory
// yields a ../ segment, which is accepted.
func (p *Package) URI(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	if p.AbsolutePaths {
		return abs, nil
	}
	rel, err := filepath.Rel(filepath.Dir(p.Root), abs)
	if err != nil {
		return "", fmt.Errorf("relativize %s: %w", path, err)
	}
	return URIScheme + filepath.ToSlash(rel), nil
}

// ValidName reports whether name can be used as a single file name or URI segment.
// Blank names are rejected too: they would not survive the XML re-format.
func ValidName(name string) error {
	switch {
	case strings.TrimSpace(name) == "", name == ".", name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(name, "/\\\x00"):
		return fmt.Errorf("%w: %q contains a path separator or NUL", ErrInvalidName, name)
	}
	return nil
}
