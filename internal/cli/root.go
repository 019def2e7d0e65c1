// Package cli implements the depthrender command-line interface.
//
// The tool loads a scene (Wavefront OBJ or heightmap image), merges its
// geometry, fits an auto-framed camera, renders a linear depth buffer
// and writes it as PNG (16-bit quantized) or EXR (float, exact). The
// output format is always given explicitly with --format; it is never
// inferred from the output path's extension.
package cli

import (
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"depthmap-renderer/internal/config"
	"depthmap-renderer/internal/depthimage"
	"depthmap-renderer/internal/heightmap"
	"depthmap-renderer/internal/mathutil"
	"depthmap-renderer/internal/pipeline"
	"depthmap-renderer/internal/raster"
	"depthmap-renderer/internal/scene"
)

// Execute runs the depthrender CLI and returns an error if the render
// fails. Errors identify the failing stage; main exits non-zero on any.
func Execute() error {
	var (
		outputPath  string
		format      string
		scenePath   string
		heightPath  string
		previewPath string
		configPath  string
		projection  string
		width       int
		height      int
		supersample int
		depthMin    float64
		depthMax    float64
		verbose     bool
	)

	root := &cobra.Command{
		Use:          "depthrender",
		Short:        "depthrender batch-renders depth maps from 3D scenes",
		Long:         `depthrender merges every mesh in a scene into one object, fits a camera with tight clip planes around it, renders a linear distance-from-camera buffer and writes it as 16-bit PNG or float EXR.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(os.Stderr, level)

			// Cheap argument validation before any scene work.
			if _, err := depthimage.ParseFormat(format); err != nil {
				return err
			}
			mode, err := parseProjection(projection)
			if err != nil {
				return err
			}

			var cfg config.Config
			if configPath != "" {
				cfg, err = config.Load(configPath)
				if err != nil {
					return err
				}
			}
			cfg.Resolve(config.Flags{
				Width:       width,
				Height:      height,
				Supersample: supersample,
				Projection:  projection,
			})
			if projection == "" {
				mode, err = parseProjection(cfg.Projection)
				if err != nil {
					return err
				}
			}

			sc, err := loadScene(scenePath, heightPath, cfg)
			if err != nil {
				return err
			}
			logger.Debug("scene loaded", "meshes", len(sc.Meshes()))

			installDefaultCamera(sc, cfg)

			var fixed *depthimage.Range
			if depthMax > depthMin {
				fixed = &depthimage.Range{Min: float32(depthMin), Max: float32(depthMax)}
			}

			runner := pipeline.NewRunner(raster.Renderer{}, logger)
			return runner.Run(sc, pipeline.Options{
				OutputPath:  outputPath,
				Format:      format,
				Width:       cfg.Width,
				Height:      cfg.Height,
				Projection:  mode,
				AutoFrame:   true,
				FillRatio:   cfg.FillRatio,
				Margin:      cfg.ClipMargin,
				FixedRange:  fixed,
				PreviewPath: previewPath,
				Supersample: cfg.Supersample,
			})
		},
	}

	root.Flags().StringVar(&outputPath, "output", "", "destination file path (required)")
	root.Flags().StringVar(&format, "format", "", "output format: PNG or EXR (required, case-sensitive)")
	root.Flags().StringVar(&scenePath, "scene", "", "Wavefront OBJ scene file")
	root.Flags().StringVar(&heightPath, "heightmap", "", "grayscale heightmap image (PNG/JPEG/TGA)")
	root.Flags().StringVar(&previewPath, "preview", "", "also write an inverted grayscale WebP preview here")
	root.Flags().StringVar(&configPath, "config", "", "TOML config file")
	root.Flags().StringVar(&projection, "projection", "", "camera projection: ORTHO or PERSP (default ORTHO)")
	root.Flags().IntVar(&width, "width", 0, "render width in pixels (default 512)")
	root.Flags().IntVar(&height, "height", 0, "render height in pixels (default 512)")
	root.Flags().IntVar(&supersample, "supersample", 0, "preview supersampling factor (default 2)")
	root.Flags().Float64Var(&depthMin, "depth-min", 0, "fixed PNG normalization range minimum")
	root.Flags().Float64Var(&depthMax, "depth-max", 0, "fixed PNG normalization range maximum (0 = use observed range)")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.MarkFlagRequired("output")
	root.MarkFlagRequired("format")
	root.MarkFlagsOneRequired("scene", "heightmap")
	root.MarkFlagsMutuallyExclusive("scene", "heightmap")

	return root.Execute()
}

func parseProjection(s string) (scene.Projection, error) {
	switch s {
	case "", "ORTHO":
		return scene.Orthographic, nil
	case "PERSP":
		return scene.Perspective, nil
	}
	return 0, fmt.Errorf("unknown projection %q (want ORTHO or PERSP)", s)
}

func loadScene(scenePath, heightPath string, cfg config.Config) (*scene.Scene, error) {
	if heightPath != "" {
		return heightmap.Load(heightPath, heightmap.Options{
			CellSize:      cfg.CellSize,
			VerticalScale: cfg.VerticalScale,
		})
	}
	return scene.LoadOBJ(scenePath)
}

// installDefaultCamera adds a three-quarter view camera when the scene
// source carries none; the pipeline's auto-framing positions it.
func installDefaultCamera(sc *scene.Scene, cfg config.Config) {
	if _, err := sc.Camera(); err == nil {
		return
	}
	cam := scene.NewCamera()
	cam.FOV = cfg.FOV
	rot := mathutil.Mat3Mul(
		mathutil.RotY(mathutil.Deg2Rad(45)),
		mathutil.RotX(mathutil.Deg2Rad(-30)),
	)
	cam.World = mathutil.FromMat3Translation(rot, mathutil.Vec3{})
	sc.SetCamera(cam)
}
