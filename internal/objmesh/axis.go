package objmesh

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAxis reports an unknown axis name or an up/forward pair on the same axis.
var ErrAxis = errors.New("invalid axis")

type vec3 = [3]float64

// ParseAxis accepts X, Y, Z, -X, -Y, -Z and the NEGATIVE_X style spellings.
func ParseAxis(s string) (vec3, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	sign := 1.0
	switch {
	case strings.HasPrefix(name, "-"):
		sign, name = -1, name[1:]
	case strings.HasPrefix(name, "NEGATIVE_"):
		sign, name = -1, strings.TrimPrefix(name, "NEGATIVE_")
	}
	switch name {
	case "X":
		return vec3{sign, 0, 0}, nil
	case "Y":
		return vec3{0, sign, 0}, nil
	case "Z":
		return vec3{0, 0, sign}, nil
	}
	return vec3{}, fmt.Errorf("%w: %q", ErrAxis, s)
}

// Basis converts scene coordinates (X right, Y forward, Z up) into a frame
// whose up and forward directions are the requested axes.
type Basis struct {
	right, forward, up vec3
}

// NewBasis returns the right-handed basis for the given up and forward axes.
func NewBasis(up, forward string) (Basis, error) {
	u, err := ParseAxis(up)
	if err != nil {
		return Basis{}, fmt.Errorf("up: %w", err)
	}
	f, err := ParseAxis(forward)
	if err != nil {
		return Basis{}, fmt.Errorf("forward: %w", err)
	}
	if dot(u, f) != 0 {
		return Basis{}, fmt.Errorf("%w: up %s and forward %s share an axis", ErrAxis, up, forward)
	}
	return Basis{right: cross(f, u), forward: f, up: u}, nil
}

// Apply maps one vector. Negative zero is normalized so output text is stable.
func (b Basis) Apply(v vec3) vec3 {
	var out vec3
	for i := range out {
		out[i] = v[0]*b.right[i] + v[1]*b.forward[i] + v[2]*b.up[i]
		if out[i] == 0 {
			out[i] = 0
		}
	}
	return out
}

func dot(a, b vec3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func cross(a, b vec3) vec3 {
	return vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}
