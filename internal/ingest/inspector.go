package ingest

import (
	"fmt"

	"github.com/agentic-research/sdfpack/api"
	"github.com/agentic-research/sdfpack/internal/gazebo"
)

// Inspector resolves base color images against the images a scene declares.
// Only images with a source can be exported.
type Inspector struct {
	sources map[string]string
}

func NewInspector(scene *api.Scene) *Inspector {
	sources := make(map[string]string, len(scene.Images))
	for _, img := range scene.Images {
		sources[img.Name] = img.Source
	}
	return &Inspector{sources: sources}
}

// BaseColorImage implements gazebo.SceneInspector.
func (in *Inspector) BaseColorImage(obj *api.Object) (string, error) {
	switch {
	case obj.Material == nil:
		return "", fmt.Errorf("%s has no material: %w", obj.Name, gazebo.ErrMissingTexture)
	case obj.Material.BaseColorImage == "":
		return "", fmt.Errorf("%s: base color is not linked to an image: %w", obj.Name, gazebo.ErrMissingTexture)
	}

	name := obj.Material.BaseColorImage
	src, ok := in.sources[name]
	switch {
	case !ok:
		return "", fmt.Errorf("%s: image %q is not declared by the scene: %w", obj.Name, name, gazebo.ErrMissingTexture)
	case src == "":
		return "", fmt.Errorf("%s: image %q has no source: %w", obj.Name, name, gazebo.ErrMissingTexture)
	}
	return name, nil
}
