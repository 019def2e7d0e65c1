package scene

import (
	"math"

	"depthmap-renderer/internal/mathutil"
)

// Mesh is a triangle mesh with an object-to-world transform.
// Triangle indices point into Verts.
type Mesh struct {
	Name      string
	Verts     []mathutil.Vec3
	Tris      [][3]int
	Transform mathutil.Mat4
}

// NewMesh returns an empty mesh with an identity transform.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:      name,
		Transform: mathutil.Mat4Identity(),
	}
}

// WorldVert returns vertex i with the object transform applied.
func (m *Mesh) WorldVert(i int) mathutil.Vec3 {
	return m.Transform.MulPoint(m.Verts[i])
}

// BakeTransform applies the object transform to every vertex and resets
// the transform to identity. After baking, Verts are world-space.
func (m *Mesh) BakeTransform() {
	if m.Transform.IsIdentity() {
		return
	}
	for i, v := range m.Verts {
		m.Verts[i] = m.Transform.MulPoint(v)
	}
	m.Transform = mathutil.Mat4Identity()
}

// Bounds returns the world-space axis-aligned bounding box.
// ok is false for a mesh with no vertices.
func (m *Mesh) Bounds() (min, max mathutil.Vec3, ok bool) {
	if len(m.Verts) == 0 {
		return min, max, false
	}
	min = mathutil.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	max = mathutil.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for i := range m.Verts {
		w := m.WorldVert(i)
		for k := 0; k < 3; k++ {
			if w[k] < min[k] {
				min[k] = w[k]
			}
			if w[k] > max[k] {
				max[k] = w[k]
			}
		}
	}
	return min, max, true
}

// BoundingSphere returns the center and radius of a sphere enclosing
// the world-space bounding box.
func (m *Mesh) BoundingSphere() (center mathutil.Vec3, radius float64, ok bool) {
	min, max, ok := m.Bounds()
	if !ok {
		return center, 0, false
	}
	center = min.Add(max).Scale(0.5)
	radius = max.Sub(min).Len() / 2
	return center, radius, true
}
