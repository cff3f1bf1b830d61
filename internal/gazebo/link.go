package gazebo

const (
	// CollisionName is the name of every collision element.
	CollisionName = "collision"

	// Contact is generated but disabled by bitmask. The collision mesh is the
	// detailed visual mesh, so links opt back in by changing the bitmasks.
	CollideWithoutContactBitmask = "0x01"
	CollideBitmask               = "0x00"
)

// BuildLink returns the link for one object. Visual and collision share meshURI.
func BuildLink(name, meshURI, materialURI string) Link {
	geometry := Geometry{Mesh: MeshGeometry{URI: meshURI}}

	return Link{
		Name: name,
		Visual: Visual{
			Name:     name,
			Geometry: geometry,
			Material: Material{Script: Script{URI: materialURI, Name: name}},
		},
		Collision: Collision{
			Name:     CollisionName,
			Geometry: geometry,
			Surface: Surface{Contact: Contact{
				CollideWithoutContact:        true,
				CollideWithoutContactBitmask: CollideWithoutContactBitmask,
				CollideBitmask:               CollideBitmask,
			}},
		},
	}
}
