// Package pipeline orchestrates one depth render: normalize the scene,
// configure the camera, capture the depth buffer, write the artifact.
// The stages run strictly in sequence, fail fast, and are never
// retried — a failed run writes no output at all.
package pipeline

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"depthmap-renderer/internal/depthimage"
	"depthmap-renderer/internal/raster"
	"depthmap-renderer/internal/scene"
)

// Renderer is the render trigger: anything that turns a mesh and a
// configured camera into a depth buffer. raster.Renderer is the real
// implementation; tests substitute counting fakes.
type Renderer interface {
	Render(mesh *scene.Mesh, cam *scene.Camera, opts raster.Options) (*raster.DepthBuffer, error)
}

// Options configure one pipeline run.
type Options struct {
	OutputPath string
	Format     string // "PNG" or "EXR", case-sensitive, validated first

	Width  int
	Height int

	Projection scene.Projection

	// AutoFrame repositions the camera to view the merged mesh before
	// clip fitting, for scene sources that carry no camera placement.
	AutoFrame bool
	FillRatio float64

	// Margin pads the fitted clip range on both sides.
	Margin float64

	// FixedRange overrides the observed min/max for PNG normalization.
	FixedRange *depthimage.Range

	// PreviewPath, when set, additionally writes an inverted grayscale
	// WebP preview rendered at Supersample× and downsampled.
	PreviewPath string
	Supersample int
}

// Runner executes the pipeline against an injected renderer.
type Runner struct {
	renderer Renderer
	logger   *log.Logger
}

// NewRunner returns a Runner. A nil logger discards all output.
func NewRunner(r Renderer, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{renderer: r, logger: logger}
}

// Run renders sc once and writes the artifact to opts.OutputPath.
// The scene is mutated: its meshes are merged into one. On any error
// the remaining stages are skipped and no file is written.
func (r *Runner) Run(sc *scene.Scene, opts Options) error {
	// Validate the cheap, caller-controlled input before any real work.
	format, err := depthimage.ParseFormat(opts.Format)
	if err != nil {
		return err
	}

	merged, err := sc.Merge()
	if err != nil {
		return fmt.Errorf("normalize scene: %w", err)
	}
	r.logger.Info("meshes merged", "name", merged.Name, "verts", len(merged.Verts), "tris", len(merged.Tris))

	cam, err := sc.Camera()
	if err != nil {
		return fmt.Errorf("configure camera: %w", err)
	}
	cam.SetProjection(opts.Projection)

	if opts.AutoFrame {
		aspect := float64(opts.Width) / float64(opts.Height)
		if err := cam.Frame(merged, opts.FillRatio, aspect); err != nil {
			return fmt.Errorf("configure camera: %w", err)
		}
	}

	margin := opts.Margin
	if margin <= 0 {
		margin = scene.DefaultClipMargin
	}
	if err := cam.FitClipPlanes(merged, margin); err != nil {
		return fmt.Errorf("configure camera: %w", err)
	}
	r.logger.Info("camera configured",
		"projection", cam.Mode, "clip_start", cam.NearClip, "clip_end", cam.FarClip)

	buf, err := r.renderer.Render(merged, cam, raster.Options{Width: opts.Width, Height: opts.Height})
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if err := depthimage.Write(buf, opts.OutputPath, format, opts.FixedRange); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	r.logger.Info("depth map written", "path", opts.OutputPath, "format", format)

	if opts.PreviewPath != "" {
		if err := r.writePreview(merged, cam, opts); err != nil {
			return fmt.Errorf("write preview: %w", err)
		}
		r.logger.Info("preview written", "path", opts.PreviewPath)
	}

	return nil
}

// writePreview renders a second, supersampled pass for the preview so
// the artifact's depth values stay untouched by filtering.
func (r *Runner) writePreview(mesh *scene.Mesh, cam *scene.Camera, opts Options) error {
	ss := opts.Supersample
	if ss < 1 {
		ss = 1
	}
	buf, err := r.renderer.Render(mesh, cam, raster.Options{
		Width:  opts.Width * ss,
		Height: opts.Height * ss,
	})
	if err != nil {
		return err
	}
	return depthimage.WritePreview(buf, opts.PreviewPath, opts.Width, opts.Height)
}
