package api

import "strings"

// ObjectTypeMesh is the only object type that produces a link.
const ObjectTypeMesh = "MESH"

// Scene is the root of a scene description file.
// It lists the raster images referenced by materials and the collections of objects to export.
type Scene struct {
	// Version of the scene format.
	Version string `json:"version"`
	// Images known to the scene, addressable by name.
	Images []Image `json:"images,omitempty"`
	// Collections of objects, in authoring order.
	Collections []Collection `json:"collections,omitempty"`
}

// Image is a named raster image. Name doubles as the exported texture filename.
type Image struct {
	Name string `json:"name"`
	// Source is the path of the image file. Relative paths resolve against the scene file.
	Source string `json:"source"`
}

// Collection groups objects the way an authoring tool does.
type Collection struct {
	Name    string   `json:"name"`
	Objects []Object `json:"objects,omitempty"`
}

// Object is one scene object.
type Object struct {
	// Name is used verbatim as a file stem and as the SDF link name.
	Name string `json:"name"`
	// Type of the object (e.g. "MESH", "LIGHT", "CAMERA"). Empty means MESH.
	Type string `json:"type,omitempty"`
	// Material is the active material, if any.
	Material *Material `json:"material,omitempty"`
	// Mesh carries the geometry handed to the mesh exporter.
	Mesh *Mesh `json:"mesh,omitempty"`
}

// IsMesh reports whether the object carries exportable geometry.
func (o *Object) IsMesh() bool {
	return o.Type == "" || strings.EqualFold(o.Type, ObjectTypeMesh)
}

// Material is the surface appearance of an object.
type Material struct {
	Name string `json:"name,omitempty"`
	// BaseColorImage names the image connected to the base color input.
	BaseColorImage string `json:"base_color_image,omitempty"`
}

// Mesh is triangle or polygon geometry in the scene frame (Z up, Y forward).
type Mesh struct {
	Vertices [][3]float64 `json:"vertices,omitempty"`
	UVs      [][2]float64 `json:"uvs,omitempty"`     // one per vertex, optional
	Normals  [][3]float64 `json:"normals,omitempty"` // one per vertex, optional
	// Faces index into Vertices (0-based). Each face has at least three indices.
	Faces [][]int `json:"faces,omitempty"`
	// Source is an already encoded OBJ file copied verbatim instead of Vertices/Faces.
	Source string `json:"source,omitempty"`
}
