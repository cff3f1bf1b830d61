package gazebo

import "fmt"

// ModelBuilder collects links in insertion order.
type ModelBuilder struct {
	name  string
	links []Link
	names map[string]struct{}
}

func NewModelBuilder(name string) *ModelBuilder {
	return &ModelBuilder{name: name, names: make(map[string]struct{})}
}

// Add appends a link. A second link with the same name is rejected.
func (b *ModelBuilder) Add(link Link) error {
	if _, ok := b.names[link.Name]; ok {
		return fmt.Errorf("%w: link %q", ErrNameCollision, link.Name)
	}
	b.names[link.Name] = struct{}{}
	b.links = append(b.links, link)
	return nil
}

// Len returns the number of links added so far.
func (b *ModelBuilder) Len() int { return len(b.links) }

// Finalize returns the finished document. Later calls to Add do not affect it.
func (b *ModelBuilder) Finalize() SDF {
	links := make([]Link, len(b.links))
	copy(links, b.links)
	return SDF{
		Version: SchemaVersion,
		Model: Model{
			Name:   b.name,
			Static: true,
			Links:  links,
		},
	}
}
