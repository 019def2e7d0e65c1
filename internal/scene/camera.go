package scene

import (
	"fmt"
	"math"

	"depthmap-renderer/internal/mathutil"
)

// Projection selects how the camera maps geometry to screen space.
// It does not affect clip-distance computation.
type Projection int

const (
	Orthographic Projection = iota
	Perspective
)

func (p Projection) String() string {
	if p == Perspective {
		return "perspective"
	}
	return "orthographic"
}

// Clip-fitting constants, applied by FitClipPlanes.
const (
	// DefaultClipMargin is the padding added before the nearest and
	// after the farthest geometry along the view axis.
	DefaultClipMargin = 0.1

	// MinNearClip is the floor for the near clip distance; cameras
	// cannot have a non-positive near plane.
	MinNearClip = 0.001

	// FarClipSlack keeps far strictly ahead of near even for flat or
	// degenerate geometry.
	FarClipSlack = 0.01
)

// Camera holds the view transform and projection state for one render.
// World is the camera-to-world matrix; the camera looks down its local
// -Z axis with +Y up.
type Camera struct {
	World mathutil.Mat4
	Mode  Projection

	// OrthoScale is the world-space width of the orthographic view.
	OrthoScale float64

	// FOV is the horizontal field of view in degrees (perspective only).
	FOV float64

	NearClip float64
	FarClip  float64
}

// NewCamera returns a camera at the origin looking down -Z, with
// defaults that frame roughly a unit object.
func NewCamera() *Camera {
	return &Camera{
		World:      mathutil.Mat4Identity(),
		Mode:       Orthographic,
		OrthoScale: 1,
		FOV:        39.6, // matches a 50mm lens on a 36mm sensor
	}
}

// View returns the world-to-camera matrix.
func (c *Camera) View() mathutil.Mat4 {
	return c.World.AffineInverse()
}

// Position returns the camera's world-space location.
func (c *Camera) Position() mathutil.Vec3 {
	return c.World.Translation()
}

// SetProjection switches the projection mode. Clip distances are left
// untouched; FitClipPlanes computes them identically for both modes.
func (c *Camera) SetProjection(mode Projection) {
	c.Mode = mode
}

// LookAt orients the camera at eye so its -Z axis points toward target.
func (c *Camera) LookAt(eye, target, up mathutil.Vec3) {
	back := eye.Sub(target).Normalize() // camera +Z
	if back.Len() < 1e-12 {
		back = mathutil.Vec3{0, 0, 1}
	}
	right := up.Cross(back).Normalize()
	if right.Len() < 1e-12 {
		// up parallel to view direction; pick another up
		right = mathutil.Vec3{0, 1, 0}.Cross(back).Normalize()
		if right.Len() < 1e-12 {
			right = mathutil.Vec3{1, 0, 0}
		}
	}
	upv := back.Cross(right)

	c.World = mathutil.Mat4{
		right[0], upv[0], back[0], eye[0],
		right[1], upv[1], back[1], eye[1],
		right[2], upv[2], back[2], eye[2],
		0, 0, 0, 1,
	}
}

// FitClipPlanes sets near/far so they tightly bound mesh along the view
// axis with margin of padding on each side. Near is clamped to
// MinNearClip (a camera inside the geometry would otherwise get a
// non-positive near plane), and far is kept at least FarClipSlack ahead
// of near. The mesh's object transform is honored.
func (c *Camera) FitClipPlanes(mesh *Mesh, margin float64) error {
	if mesh == nil || len(mesh.Verts) == 0 {
		return fmt.Errorf("fit clip planes: %w", ErrSceneEmpty)
	}

	view := c.View()
	minDist := math.Inf(1)
	maxDist := math.Inf(-1)
	for i := range mesh.Verts {
		camCo := view.MulPoint(mesh.WorldVert(i))
		z := -camCo[2] // distance along the view axis
		if z < minDist {
			minDist = z
		}
		if z > maxDist {
			maxDist = z
		}
	}

	near := minDist - margin
	if near < MinNearClip {
		near = MinNearClip
	}
	far := maxDist + margin
	if far < near+FarClipSlack {
		far = near + FarClipSlack
	}

	c.NearClip = near
	c.FarClip = far
	return nil
}

// Frame moves the camera back along its current view direction and
// sizes the projection so mesh fills fill of the frame (0 < fill <= 1).
// aspect is the frame's width over height; the vertical view extent is
// the horizontal one divided by aspect, so wide frames must size
// against the vertical extent or the mesh bleeds past the top and
// bottom. The camera's orientation is preserved.
func (c *Camera) Frame(mesh *Mesh, fill, aspect float64) error {
	center, radius, ok := mesh.BoundingSphere()
	if !ok {
		return fmt.Errorf("frame: %w", ErrSceneEmpty)
	}
	if fill <= 0 || fill > 1 {
		fill = 1
	}
	if aspect <= 0 || math.IsNaN(aspect) || math.IsInf(aspect, 1) {
		aspect = 1
	}
	if radius < 1e-9 {
		radius = 1e-9
	}

	// The narrower view extent limits the fit. Horizontal sizing is
	// widened by max(1, aspect) so the vertical extent still spans
	// 2*radius/fill when width exceeds height.
	limit := math.Max(1, aspect)

	rot := c.World.Rotation()
	back := rot.MulVec3(mathutil.Vec3{0, 0, 1}) // world-space +Z axis of the camera

	var dist float64
	switch c.Mode {
	case Perspective:
		halfFOV := mathutil.Deg2Rad(c.FOV) / 2
		dist = radius*limit/(math.Tan(halfFOV)*fill) + radius
	default:
		c.OrthoScale = 2 * radius * limit / fill
		dist = 2 * radius // arbitrary for ortho; only clip planes depend on it
	}

	eye := center.Add(back.Scale(dist))
	c.World = mathutil.FromMat3Translation(rot, eye)
	return nil
}
