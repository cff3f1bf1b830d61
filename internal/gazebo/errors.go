package gazebo

import "errors"

var (
	// ErrNameCollision is returned when two exported objects share a name.
	ErrNameCollision = errors.New("object name collision")
	// ErrInvalidName is returned for names that are not a single path segment.
	ErrInvalidName = errors.New("invalid name")
	// ErrMissingTexture is returned by a SceneInspector when an object has no
	// resolvable base color image. The exporter degrades instead of failing.
	ErrMissingTexture = errors.New("no base color image")
)
