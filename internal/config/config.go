// Package config loads sdfpack settings from an optional TOML file.
//
// Example:
//
//	[model]
//	name = "cornfield"
//	author = "Field Robotics Lab"
//	absolute_paths = false
//
//	[mesh]
//	up_axis = "Z"
//	forward_axis = "Y"
//
//	[texture]
//	max_size = 2048
//
//	[log]
//	level = "debug"
package config

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/agentic-research/sdfpack/internal/gazebo"
	"github.com/agentic-research/sdfpack/internal/objmesh"
	"github.com/charmbracelet/log"
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/pelletier/go-toml/v2"
)

var ErrInvalid = errors.New("invalid config")

// Config is the complete sdfpack configuration.
type Config struct {
	Model   ModelConfig   `toml:"model"`
	Mesh    MeshConfig    `toml:"mesh"`
	Texture TextureConfig `toml:"texture"`
	Log     LogConfig     `toml:"log"`
}

type ModelConfig struct {
	// Name defaults to the output directory name.
	Name          string `toml:"name"`
	Author        string `toml:"author"`
	AbsolutePaths bool   `toml:"absolute_paths"`
}

type MeshConfig struct {
	UpAxis          string `toml:"up_axis"`
	ForwardAxis     string `toml:"forward_axis"`
	ApplyModifiers  bool   `toml:"apply_modifiers"`
	ExportMaterials bool   `toml:"export_materials"`
}

type TextureConfig struct {
	// MaxSize bounds the longest texture edge; 0 keeps source sizes.
	MaxSize int `toml:"max_size"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	mesh := gazebo.DefaultMeshOptions()
	return &Config{
		Model: ModelConfig{Author: gazebo.DefaultAuthor},
		Mesh: MeshConfig{
			UpAxis:          mesh.UpAxis,
			ForwardAxis:     mesh.ForwardAxis,
			ApplyModifiers:  mesh.ApplyModifiers,
			ExportMaterials: mesh.ExportMaterials,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads path from fs over the defaults. Unknown keys are rejected.
func Load(fs billy.Filesystem, path string) (*Config, error) {
	data, err := util.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail deep inside an export.
func (c *Config) Validate() error {
	if c.Model.Author != "" && strings.TrimSpace(c.Model.Author) == "" {
		return fmt.Errorf("%w: model.author is blank", ErrInvalid)
	}
	if c.Model.Name != "" {
		if err := gazebo.ValidName(c.Model.Name); err != nil {
			return fmt.Errorf("%w: model.name: %v", ErrInvalid, err)
		}
	}
	if _, err := objmesh.NewBasis(c.Mesh.UpAxis, c.Mesh.ForwardAxis); err != nil {
		return fmt.Errorf("%w: mesh: %v", ErrInvalid, err)
	}
	if c.Texture.MaxSize < 0 {
		return fmt.Errorf("%w: texture.max_size must not be negative", ErrInvalid)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalid, err)
	}
	return nil
}

// MeshOptions converts the [mesh] section for the exporter.
func (c *Config) MeshOptions() gazebo.MeshOptions {
	return gazebo.MeshOptions{
		UpAxis:          c.Mesh.UpAxis,
		ForwardAxis:     c.Mesh.ForwardAxis,
		ApplyModifiers:  c.Mesh.ApplyModifiers,
		ExportMaterials: c.Mesh.ExportMaterials,
	}
}
