// Command anglestoconfig drives the calibration pipeline. The synth command
// simulates a headset channel with known geometry, which is useful for
// checking a configuration before running it against real measurements.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"distortionmesh/calibration"
	"distortionmesh/config"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "anglestoconfig",
		Usage: "turn screen-position/view-angle measurements into a projection and distortion mesh",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "YAML config file"},
			&cli.BoolFlag{Name: "verbose", Usage: "log fitted geometry and every mesh row"},
			&cli.IntFlag{Name: "workers", Usage: "goroutines for per-measurement stages (default: NumCPU)"},
		},
		Commands: []*cli.Command{
			{
				Name:  "synth",
				Usage: "calibrate a simulated flat screen",
				Flags: []cli.Flag{
					&cli.Float64Flag{Name: "hfov", Value: 90, Usage: "horizontal field of view, degrees"},
					&cli.Float64Flag{Name: "vfov", Value: 60, Usage: "vertical field of view, degrees"},
					&cli.Float64Flag{Name: "offset-x", Usage: "horizontal screen offset, meters"},
					&cli.Float64Flag{Name: "offset-y", Usage: "vertical screen offset, meters"},
					&cli.Float64Flag{Name: "screen-depth", Value: 2, Usage: "simulated eye-to-screen distance, meters"},
					&cli.IntFlag{Name: "cols", Value: 5},
					&cli.IntFlag{Name: "rows", Value: 5},
					&cli.BoolFlag{Name: "long-lat", Usage: "use longitude/latitude instead of field angles"},
					&cli.Float64Flag{Name: "depth", Usage: "assumed eye-to-screen distance for the fit"},
					&cli.Float64Flag{Name: "to-meters", Usage: "scale from depth units to meters"},
					&cli.Float64Flag{Name: "overlap", Usage: "overlap percent to report"},
					&cli.BoolFlag{Name: "verify", Usage: "verify measured angles against the fit"},
					&cli.Float64Flag{Name: "max-angle-diff", Usage: "verification tolerance, degrees"},
					&cli.IntFlag{Name: "inject-at", Value: -1, Usage: "measurement index to perturb"},
					&cli.Float64Flag{Name: "inject-error", Value: 5, Usage: "longitude error to inject, degrees"},
				},
				Action: synth,
			},
			{
				Name:   "check-config",
				Usage:  "load, resolve and validate a config file",
				Action: checkConfig,
			},
		},
	}
}

func newLogger(verbose bool) (*zap.SugaredLogger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

func loadConfig(c *cli.Context) (config.File, error) {
	var f config.File
	if path := c.String("config"); path != "" {
		var err error
		f, err = config.Load(path)
		if err != nil {
			return config.File{}, err
		}
	}
	f.Resolve(config.Flags{
		Depth:          c.Float64("depth"),
		ToMeters:       c.Float64("to-meters"),
		OverlapPercent: c.Float64("overlap"),
		LongLat:        c.Bool("long-lat"),
		VerifyAngles:   c.Bool("verify"),
		MaxAngleDiff:   c.Float64("max-angle-diff"),
		Verbose:        c.Bool("verbose"),
		Workers:        c.Int("workers"),
	})
	if err := f.Validate(); err != nil {
		return config.File{}, fmt.Errorf("invalid config: %w", err)
	}
	return f, nil
}

func checkConfig(c *cli.Context) error {
	f, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger, err := newLogger(f.Verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Infow("config ok", "config", fmt.Sprintf("%+v", f.Calibration()))
	return nil
}

func synth(c *cli.Context) error {
	f, err := loadConfig(c)
	if err != nil {
		return err
	}
	cfg := f.Calibration()

	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	screen := calibration.NewSyntheticScreen(c.Float64("hfov"), c.Float64("vfov"), c.Float64("screen-depth"))
	screen.OffsetX = c.Float64("offset-x")
	screen.OffsetY = c.Float64("offset-y")
	screen.Columns = c.Int("cols")
	screen.Rows = c.Int("rows")
	screen.UseFieldAngles = cfg.UseFieldAngles
	if screen.Columns < 2 || screen.Rows < 2 {
		return fmt.Errorf("need at least a 2 x 2 grid, got %d x %d", screen.Columns, screen.Rows)
	}

	in := screen.Measurements()
	if at := c.Int("inject-at"); at >= 0 {
		if at >= in.Len() {
			return fmt.Errorf("inject-at %d out of range, have %d measurements", at, in.Len())
		}
		in.Measurements[at].ViewAnglesDegrees.Longitude += c.Float64("inject-error")
		logger.Infow("injected angle error", "origin", in.Origin(at).String(), "degrees", c.Float64("inject-error"))
	}

	res, err := calibration.NewPipeline(cfg, logger).Run(in)
	if err != nil {
		return err
	}

	logger.Infow("projection",
		"hfov", res.Projection.HFOVDegrees,
		"vfov", res.Projection.VFOVDegrees,
		"overlap", res.Projection.OverlapPercent,
		"cop", []float64{res.Projection.COP.X, res.Projection.COP.Y},
	)
	logger.Infow("mesh", "rows", len(res.Mesh))
	for i, row := range res.Mesh {
		logger.Debugw("mesh row", "origin", in.Origin(i).String(),
			"from", []float64{row.From.X, row.From.Y},
			"to", []float64{row.To.X, row.To.Y})
	}
	for _, w := range res.BoundsWarnings {
		logger.Warn(w.String())
	}
	for _, v := range res.Violations {
		logger.Warn(v.String())
	}
	if res.VerificationErr != nil {
		logger.Warnw("angle verification incomplete", "error", res.VerificationErr)
	} else if cfg.VerifyAngles && len(res.Violations) == 0 {
		logger.Infow("all measured angles within tolerance", "degrees", cfg.MaxAngleDiffDegrees)
	}
	return nil
}
