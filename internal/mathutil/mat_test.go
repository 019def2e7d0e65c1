package mathutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assertVec3InDelta(t *testing.T, want, got Vec3, delta float64) {
	t.Helper()
	for k := 0; k < 3; k++ {
		assert.InDelta(t, want[k], got[k], delta)
	}
}

func TestRotations(t *testing.T) {
	assertVec3InDelta(t, Vec3{0, 1, 0}, RotZ(math.Pi/2).MulVec3(Vec3{1, 0, 0}), 1e-12)
	assertVec3InDelta(t, Vec3{0, 0, -1}, RotY(math.Pi/2).MulVec3(Vec3{1, 0, 0}), 1e-12)
	assertVec3InDelta(t, Vec3{0, 0, 1}, RotX(math.Pi/2).MulVec3(Vec3{0, 1, 0}), 1e-12)
}

func TestMat3InverseRoundTrip(t *testing.T) {
	m := Mat3Mul(RotY(0.7), Mat3Diag(2, 3, 4))
	p := Vec3{1.5, -2, 0.25}
	back := m.Inverse().MulVec3(m.MulVec3(p))
	assertVec3InDelta(t, p, back, 1e-9)
}

func TestMat4AffineInverse(t *testing.T) {
	m := FromMat3Translation(Mat3Mul(RotY(0.5), RotX(-0.3)), Vec3{1, 2, 3})
	p := Vec3{-0.7, 4, 2.2}
	back := m.AffineInverse().MulPoint(m.MulPoint(p))
	assertVec3InDelta(t, p, back, 1e-9)

	assert.True(t, Mat4Mul(m, m.AffineInverse()).IsIdentity())
}

func TestMat4Translation(t *testing.T) {
	m := Mat4Translation(Vec3{1, -2, 3})
	assertVec3InDelta(t, Vec3{1, -2, 3}, m.MulPoint(Vec3{}), 1e-12)
	assert.Equal(t, Vec3{1, -2, 3}, m.Translation())
	assert.True(t, m.Rotation().Transpose() == Mat3Identity())
}

func TestDeg2Rad(t *testing.T) {
	assert.InDelta(t, math.Pi, Deg2Rad(180), 1e-12)
}
