package scene

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"depthmap-renderer/internal/mathutil"
)

func triangleMesh(name string) *Mesh {
	m := NewMesh(name)
	m.Verts = []mathutil.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	m.Tris = [][3]int{{0, 1, 2}}
	return m
}

func TestMergeEmptyScene(t *testing.T) {
	sc := New()
	_, err := sc.Merge()
	if !errors.Is(err, ErrSceneEmpty) {
		t.Fatalf("Merge() error = %v, want ErrSceneEmpty", err)
	}
}

func TestMergeCombinesAllMeshes(t *testing.T) {
	sc := New()
	a := triangleMesh("a")
	b := NewMesh("b")
	b.Verts = []mathutil.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	b.Tris = [][3]int{{0, 1, 2}, {0, 2, 3}}
	sc.AddMesh(a)
	sc.AddMesh(b)

	merged, err := sc.Merge()
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	assert.Len(t, sc.Meshes(), 1, "exactly one mesh after normalization")
	assert.Same(t, merged, sc.Meshes()[0])
	assert.Equal(t, "a", merged.Name, "merged mesh takes the first object's name")
	assert.Len(t, merged.Verts, 7, "vertex count equals sum of inputs")
	assert.Len(t, merged.Tris, 3)

	// b's triangles must point at b's reindexed vertices.
	assert.Equal(t, [3]int{3, 4, 5}, merged.Tris[1])
}

func TestMergeBakesTransforms(t *testing.T) {
	sc := New()
	a := triangleMesh("a")
	b := triangleMesh("b")
	b.Transform = mathutil.Mat4Translation(mathutil.Vec3{5, 0, 0})
	sc.AddMesh(a)
	sc.AddMesh(b)

	merged, err := sc.Merge()
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	assert.True(t, merged.Transform.IsIdentity(), "merged mesh is world-space")
	assert.Equal(t, mathutil.Vec3{5, 0, 0}, merged.Verts[3], "b's translation baked into coordinates")
	assert.Equal(t, mathutil.Vec3{0, 0, 0}, merged.Verts[0], "a untouched")
}

func TestMergeVertexCountManyMeshes(t *testing.T) {
	sc := New()
	want := 0
	for i := 0; i < 17; i++ {
		m := triangleMesh("m")
		want += len(m.Verts)
		sc.AddMesh(m)
	}
	merged, err := sc.Merge()
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	assert.Len(t, merged.Verts, want)
}

func TestCameraNotFound(t *testing.T) {
	sc := New()
	sc.AddMesh(triangleMesh("a"))
	_, err := sc.Camera()
	if !errors.Is(err, ErrCameraNotFound) {
		t.Fatalf("Camera() error = %v, want ErrCameraNotFound", err)
	}

	sc.SetCamera(NewCamera())
	if _, err := sc.Camera(); err != nil {
		t.Fatalf("Camera() after SetCamera: %v", err)
	}
}

func TestSceneBounds(t *testing.T) {
	sc := New()
	a := triangleMesh("a")
	b := triangleMesh("b")
	b.Transform = mathutil.Mat4Translation(mathutil.Vec3{-2, 0, 3})
	sc.AddMesh(a)
	sc.AddMesh(b)

	min, max, err := sc.Bounds()
	if err != nil {
		t.Fatalf("Bounds() error = %v", err)
	}
	assert.Equal(t, mathutil.Vec3{-2, 0, 0}, min)
	assert.Equal(t, mathutil.Vec3{1, 1, 3}, max)

	_, _, err = New().Bounds()
	if !errors.Is(err, ErrSceneEmpty) {
		t.Fatalf("Bounds() on empty scene = %v, want ErrSceneEmpty", err)
	}
}
