// Package ingest reads scene description files and selects the objects to export.
package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/agentic-research/sdfpack/api"
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// DefaultSelector selects every object of every collection, in file order.
const DefaultSelector = "$.collections[*].objects[*]"

var (
	ErrNotObject      = errors.New("selector matched a non-object value")
	ErrCollectionName = errors.New("collection name cannot be used in a selector")
)

// SceneFile is a parsed scene together with its generic form for JSONPath queries.
type SceneFile struct {
	Path  string
	Scene api.Scene

	raw any
}

// LoadScene reads and parses the scene file at path.
func LoadScene(fs billy.Filesystem, path string) (*SceneFile, error) {
	data, err := util.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}

	raw, err := oj.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse scene %s: %w", path, err)
	}

	var scene api.Scene
	if err := json.Unmarshal(data, &scene); err != nil {
		return nil, fmt.Errorf("decode scene %s: %w", path, err)
	}

	return &SceneFile{Path: path, Scene: scene, raw: raw}, nil
}

// Select runs a JSONPath selector against the scene and decodes every match as an
// object, preserving match order.
func (s *SceneFile) Select(selector string) ([]api.Object, error) {
	x, err := jp.ParseString(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath '%s': %w", selector, err)
	}

	results := x.Get(s.raw)
	objects := make([]api.Object, 0, len(results))
	for i, r := range results {
		obj, err := decodeObject(r)
		if err != nil {
			return nil, fmt.Errorf("match %d of '%s': %w", i, selector, err)
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

// ImageSources maps image names to source paths, resolving relative sources
// against the directory of the scene file.
func (s *SceneFile) ImageSources() map[string]string {
	base := filepath.Dir(s.Path)
	sources := make(map[string]string, len(s.Scene.Images))
	for _, img := range s.Scene.Images {
		src := img.Source
		if src != "" && !filepath.IsAbs(src) {
			src = filepath.Join(base, src)
		}
		sources[img.Name] = src
	}
	return sources
}

// CollectionSelector returns the selector for the objects of one named collection.
func CollectionSelector(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `'\`) {
		return "", fmt.Errorf("%w: %q", ErrCollectionName, name)
	}
	return fmt.Sprintf("$.collections[?(@.name == '%s')].objects[*]", name), nil
}

func decodeObject(v any) (api.Object, error) {
	var obj api.Object
	if _, ok := v.(map[string]any); !ok {
		return obj, fmt.Errorf("%w: %T", ErrNotObject, v)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return obj, err
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return obj, err
	}
	return obj, nil
}
