// Package objmesh writes scene geometry as Wavefront OBJ files.
package objmesh

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/agentic-research/sdfpack/api"
	"github.com/agentic-research/sdfpack/internal/gazebo"
	"github.com/agentic-research/sdfpack/internal/pkgwriter"
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

var ErrGeometry = errors.New("invalid geometry")

const header = "# sdfpack OBJ export"

// Exporter implements gazebo.MeshExporter.
//
// Scene geometry is already evaluated, so ApplyModifiers has nothing left to
// apply. Meshes with a Source are copied byte for byte and not re-oriented.
type Exporter struct {
	// Sources is where pre-encoded OBJ files are read from.
	Sources billy.Filesystem
	// BaseDir resolves relative Source paths, normally the scene file's directory.
	BaseDir string
}

func (e *Exporter) ExportMesh(obj *api.Object, fs billy.Filesystem, dest string, opts gazebo.MeshOptions) error {
	path := dest + gazebo.MeshExt

	if obj.Mesh != nil && obj.Mesh.Source != "" {
		if e.Sources == nil {
			return fmt.Errorf("%s: mesh source %s given but no source filesystem", obj.Name, obj.Mesh.Source)
		}
		src := obj.Mesh.Source
		if !filepath.IsAbs(src) {
			src = filepath.Join(e.BaseDir, src)
		}
		data, err := util.ReadFile(e.Sources, src)
		if err != nil {
			return fmt.Errorf("read mesh source: %w", err)
		}
		return pkgwriter.WriteFile(fs, path, data)
	}

	basis, err := NewBasis(opts.UpAxis, opts.ForwardAxis)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, obj, basis, opts.ExportMaterials); err != nil {
		return fmt.Errorf("%s: %w", obj.Name, err)
	}
	return pkgwriter.WriteFile(fs, path, buf.Bytes())
}

// Encode writes obj as one OBJ object. UVs and normals, when present, must have one
// entry per vertex and share the vertex indices. withMaterial adds a usemtl line
// naming the object's material.
func Encode(w io.Writer, obj *api.Object, basis Basis, withMaterial bool) error {
	mesh := obj.Mesh
	if mesh == nil {
		mesh = &api.Mesh{}
	}
	nv := len(mesh.Vertices)
	haveUV := len(mesh.UVs) > 0
	haveNorm := len(mesh.Normals) > 0
	if haveUV && len(mesh.UVs) != nv {
		return fmt.Errorf("%w: %d uvs for %d vertices", ErrGeometry, len(mesh.UVs), nv)
	}
	if haveNorm && len(mesh.Normals) != nv {
		return fmt.Errorf("%w: %d normals for %d vertices", ErrGeometry, len(mesh.Normals), nv)
	}

	bw := bufio.NewWriter(w)
	p := func(format string, args ...interface{}) {
		fmt.Fprintf(bw, format+"\n", args...)
	}

	p(header)
	p("o %s", obj.Name)
	for _, v := range mesh.Vertices {
		t := basis.Apply(v)
		p("v %f %f %f", t[0], t[1], t[2])
	}
	for _, uv := range mesh.UVs {
		p("vt %f %f", uv[0], uv[1])
	}
	for _, n := range mesh.Normals {
		t := basis.Apply(n)
		p("vn %f %f %f", t[0], t[1], t[2])
	}
	if withMaterial && obj.Material != nil && obj.Material.Name != "" {
		p("usemtl %s", obj.Material.Name)
	}

	for i, face := range mesh.Faces {
		if len(face) < 3 {
			return fmt.Errorf("%w: face %d has %d vertices", ErrGeometry, i, len(face))
		}
		refs := make([]string, len(face))
		for j, idx := range face {
			if idx < 0 || idx >= nv {
				return fmt.Errorf("%w: face %d references vertex %d of %d", ErrGeometry, i, idx, nv)
			}
			refs[j] = faceRef(idx+1, haveUV, haveNorm)
		}
		p("f %s", strings.Join(refs, " "))
	}
	return bw.Flush()
}

func faceRef(i int, haveUV, haveNorm bool) string {
	switch {
	case haveUV && haveNorm:
		return fmt.Sprintf("%d/%d/%d", i, i, i)
	case haveNorm:
		return fmt.Sprintf("%d//%d", i, i)
	case haveUV:
		return fmt.Sprintf("%d/%d", i, i)
	default:
		return fmt.Sprintf("%d", i)
	}
}
