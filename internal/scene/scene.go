// Package scene models the render-time scene state: triangle meshes, the
// camera of interest, and the normalization step that folds every mesh
// into one world-space object before depth capture.
//
// A Scene is a plain in-memory container rather than a handle into a live
// host session, so every operation can be exercised with synthetic
// fixtures. It is disposable per run: Merge mutates it irreversibly.
package scene

import (
	"errors"
	"fmt"

	"depthmap-renderer/internal/mathutil"
)

var (
	// ErrSceneEmpty is returned when a scene holds no mesh objects, so
	// there is nothing to merge or bound clip planes against.
	ErrSceneEmpty = errors.New("scene contains no mesh objects")

	// ErrCameraNotFound is returned when a scene has no usable camera.
	ErrCameraNotFound = errors.New("no camera in scene")
)

// Scene holds the mesh objects and the camera for one render run.
type Scene struct {
	meshes []*Mesh
	camera *Camera
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{}
}

// AddMesh appends a mesh object to the scene.
func (s *Scene) AddMesh(m *Mesh) {
	s.meshes = append(s.meshes, m)
}

// Meshes returns the scene's mesh objects.
func (s *Scene) Meshes() []*Mesh {
	return s.meshes
}

// SetCamera installs the scene's camera.
func (s *Scene) SetCamera(c *Camera) {
	s.camera = c
}

// Camera returns the scene's camera, or ErrCameraNotFound if none is set.
func (s *Scene) Camera() (*Camera, error) {
	if s.camera == nil {
		return nil, ErrCameraNotFound
	}
	return s.camera, nil
}

// Merge joins all mesh objects into a single world-space mesh and
// replaces the scene's mesh list with it. Per-object transforms are
// baked into vertex coordinates, so relative placement is preserved.
// The merged mesh takes the first object's name. Original per-object
// boundaries are destroyed; the scene cannot be un-merged.
func (s *Scene) Merge() (*Mesh, error) {
	if len(s.meshes) == 0 {
		return nil, ErrSceneEmpty
	}

	merged := NewMesh(s.meshes[0].Name)
	for _, m := range s.meshes {
		base := len(merged.Verts)
		for i := range m.Verts {
			merged.Verts = append(merged.Verts, m.WorldVert(i))
		}
		for _, t := range m.Tris {
			merged.Tris = append(merged.Tris, [3]int{t[0] + base, t[1] + base, t[2] + base})
		}
	}

	s.meshes = []*Mesh{merged}
	return merged, nil
}

// Bounds returns the world-space bounding box over all meshes.
func (s *Scene) Bounds() (min, max mathutil.Vec3, err error) {
	any := false
	for _, m := range s.meshes {
		mn, mx, ok := m.Bounds()
		if !ok {
			continue
		}
		if !any {
			min, max, any = mn, mx, true
			continue
		}
		for k := 0; k < 3; k++ {
			if mn[k] < min[k] {
				min[k] = mn[k]
			}
			if mx[k] > max[k] {
				max[k] = mx[k]
			}
		}
	}
	if !any {
		return min, max, fmt.Errorf("bounds: %w", ErrSceneEmpty)
	}
	return min, max, nil
}
