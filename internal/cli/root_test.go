package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"depthmap-renderer/internal/config"
	"depthmap-renderer/internal/scene"
)

func TestParseProjection(t *testing.T) {
	tests := []struct {
		in      string
		want    scene.Projection
		wantErr bool
	}{
		{"", scene.Orthographic, false},
		{"ORTHO", scene.Orthographic, false},
		{"PERSP", scene.Perspective, false},
		{"ortho", 0, true}, // case-sensitive like --format
		{"ISOMETRIC", 0, true},
	}
	for _, tt := range tests {
		got, err := parseProjection(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		if assert.NoError(t, err, tt.in) {
			assert.Equal(t, tt.want, got, tt.in)
		}
	}
}

func TestInstallDefaultCamera(t *testing.T) {
	var cfg config.Config
	cfg.Resolve(config.Flags{})

	sc := scene.New()
	installDefaultCamera(sc, cfg)

	cam, err := sc.Camera()
	if err != nil {
		t.Fatalf("Camera: %v", err)
	}
	assert.Equal(t, cfg.FOV, cam.FOV)

	// An existing camera is left alone.
	installDefaultCamera(sc, cfg)
	cam2, _ := sc.Camera()
	assert.Same(t, cam, cam2)
}
