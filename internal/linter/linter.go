// Package linter reports problems in a scene before it is exported.
package linter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agentic-research/sdfpack/api"
	"github.com/agentic-research/sdfpack/internal/gazebo"
	"github.com/agentic-research/sdfpack/internal/imageio"
	"github.com/agentic-research/sdfpack/internal/ingest"
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return "info"
}

type Diagnostic struct {
	Severity Severity
	// Object is empty for scene-level findings.
	Object  string
	Message string
}

func (d Diagnostic) String() string {
	if d.Object == "" {
		return fmt.Sprintf("%s: %s", d.Severity, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Severity, d.Object, d.Message)
}

// HasErrors reports whether any diagnostic would make the export fail.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Lint checks the selected objects of scene. Source files are looked up on fs.
// Diagnostics come in object order, followed by image findings.
func Lint(fs billy.Filesystem, scene *ingest.SceneFile, objects []api.Object) []Diagnostic {
	var diags []Diagnostic
	add := func(sev Severity, object, format string, args ...any) {
		diags = append(diags, Diagnostic{Severity: sev, Object: object, Message: fmt.Sprintf(format, args...)})
	}

	sources := scene.ImageSources()
	baseDir := filepath.Dir(scene.Path)
	seen := make(map[string]bool, len(objects))
	used := map[string]bool{}

	for i := range objects {
		obj := &objects[i]
		if !obj.IsMesh() {
			add(Info, obj.Name, "type %s is not exported", obj.Type)
			continue
		}
		if err := gazebo.ValidName(obj.Name); err != nil {
			add(Error, obj.Name, "%v", err)
		}
		if seen[obj.Name] {
			add(Error, obj.Name, "name used by more than one object")
		}
		seen[obj.Name] = true

		switch {
		case obj.Mesh == nil || (obj.Mesh.Source == "" && len(obj.Mesh.Faces) == 0):
			add(Warning, obj.Name, "mesh has no geometry")
		case obj.Mesh.Source != "":
			src := obj.Mesh.Source
			if !filepath.IsAbs(src) {
				src = filepath.Join(baseDir, src)
			}
			if !exists(fs, src) {
				add(Error, obj.Name, "mesh source %s not found", src)
			}
		}

		image := ""
		if obj.Material != nil {
			image = obj.Material.BaseColorImage
		}
		src, declared := sources[image]
		switch {
		case image == "":
			add(Warning, obj.Name, "no base color image, material will have no texture")
		case !declared:
			add(Warning, obj.Name, "image %q is not declared by the scene, material will have no texture", image)
		case src == "":
			add(Warning, obj.Name, "image %q has no source, material will have no texture", image)
		default:
			used[image] = true
		}
	}

	for _, img := range scene.Scene.Images {
		if !used[img.Name] {
			continue
		}
		if err := gazebo.ValidName(img.Name); err != nil {
			add(Error, "", "image %q: %v", img.Name, err)
			continue
		}
		data, err := util.ReadFile(fs, sources[img.Name])
		switch {
		case errors.Is(err, os.ErrNotExist):
			add(Error, "", "image %q: source %s not found", img.Name, sources[img.Name])
		case err != nil:
			add(Error, "", "image %q: %v", img.Name, err)
		default:
			if err := imageio.Check(img.Name, data); err != nil {
				add(Error, "", "image %q: %v", img.Name, err)
			}
		}
	}
	return diags
}

func exists(fs billy.Filesystem, path string) bool {
	_, err := fs.Stat(path)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}
