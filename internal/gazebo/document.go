package gazebo

import "encoding/xml"

// SDF is the root of model.sdf.
type SDF struct {
	XMLName xml.Name `xml:"sdf"`
	Version string   `xml:"version,attr"`
	Model   Model    `xml:"model"`
}

// Model is always static: only scenery is exported.
type Model struct {
	Name   string `xml:"name,attr"`
	Static bool   `xml:"static"`
	Links  []Link `xml:"link"`
}

type Link struct {
	Name      string    `xml:"name,attr"`
	Visual    Visual    `xml:"visual"`
	Collision Collision `xml:"collision"`
}

type Visual struct {
	Name     string   `xml:"name,attr"`
	Geometry Geometry `xml:"geometry"`
	Material Material `xml:"material"`
}

type Collision struct {
	Name     string   `xml:"name,attr"`
	Geometry Geometry `xml:"geometry"`
	Surface  Surface  `xml:"surface"`
}

type Geometry struct {
	Mesh MeshGeometry `xml:"mesh"`
}

type MeshGeometry struct {
	URI string `xml:"uri"`
}

type Material struct {
	Script Script `xml:"script"`
}

type Script struct {
	URI  string `xml:"uri"`
	Name string `xml:"name"`
}

type Surface struct {
	Contact Contact `xml:"contact"`
}

type Contact struct {
	CollideWithoutContact        bool   `xml:"collide_without_contact"`
	CollideWithoutContactBitmask string `xml:"collide_without_contact_bitmask"`
	CollideBitmask               string `xml:"collide_bitmask"`
}

// ModelConfig is the root of model.config.
type ModelConfig struct {
	XMLName xml.Name  `xml:"model"`
	Name    string    `xml:"name"`
	Version string    `xml:"version"`
	SDF     ConfigSDF `xml:"sdf"`
	Author  Author    `xml:"author"`
}

// ConfigSDF points at the model document; the attribute carries the schema version.
type ConfigSDF struct {
	Version  string `xml:"sdf,attr"`
	Filename string `xml:",chardata"`
}

type Author struct {
	Name string `xml:"name"`
}
