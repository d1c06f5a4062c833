package config

import (
	"fmt"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"distortionmesh/calibration"
)

// File is the on-disk form of the calibration options.
type File struct {
	ComputeScreenBounds  *bool                  `yaml:"compute_screen_bounds"`
	SuppliedScreenBounds calibration.RectBounds `yaml:"screen_bounds"`
	UseFieldAngles       *bool                  `yaml:"use_field_angles"`
	ToMeters             float64                `yaml:"to_meters"`
	Depth                float64                `yaml:"depth"`
	OverlapPercent       float64                `yaml:"overlap_percent"`

	VerifyAngles        bool        `yaml:"verify_angles"`
	AxisTransform       *[4]float64 `yaml:"axis_transform"` // xx, xy, yx, yy
	MaxAngleDiffDegrees *float64    `yaml:"max_angle_diff_degrees"`

	Verbose bool `yaml:"verbose"`
	Workers int  `yaml:"workers"`
}

// Load reads a YAML config file. Fields not set in the file are filled in by Resolve.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return f, nil
}

// Flags holds CLI flag values that override the config file.
type Flags struct {
	Depth          float64
	ToMeters       float64
	OverlapPercent float64
	LongLat        bool
	VerifyAngles   bool
	MaxAngleDiff   float64
	Verbose        bool
	Workers        int
}

// Resolve applies flag overrides, then fills anything still unset with defaults.
func (f *File) Resolve(flags Flags) {
	if flags.Depth > 0 {
		f.Depth = flags.Depth
	}
	if flags.ToMeters > 0 {
		f.ToMeters = flags.ToMeters
	}
	if flags.OverlapPercent > 0 {
		f.OverlapPercent = flags.OverlapPercent
	}
	if flags.LongLat {
		f.UseFieldAngles = boolPtr(false)
	}
	if flags.VerifyAngles {
		f.VerifyAngles = true
	}
	if flags.MaxAngleDiff > 0 {
		f.MaxAngleDiffDegrees = &flags.MaxAngleDiff
	}
	if flags.Verbose {
		f.Verbose = true
	}
	if flags.Workers > 0 {
		f.Workers = flags.Workers
	}

	def := calibration.DefaultConfig()
	if f.ComputeScreenBounds == nil {
		f.ComputeScreenBounds = boolPtr(def.ComputeScreenBounds)
	}
	if f.UseFieldAngles == nil {
		f.UseFieldAngles = boolPtr(def.UseFieldAngles)
	}
	if f.ToMeters == 0 {
		f.ToMeters = def.ToMeters
	}
	if f.Depth == 0 {
		f.Depth = def.Depth
	}
	if f.OverlapPercent == 0 {
		f.OverlapPercent = def.OverlapPercent
	}
	if f.AxisTransform == nil {
		f.AxisTransform = &[4]float64{def.XX, def.XY, def.YX, def.YY}
	}
	if f.MaxAngleDiffDegrees == nil {
		v := def.MaxAngleDiffDegrees
		f.MaxAngleDiffDegrees = &v
	}
}

// Validate reports every problem with a resolved File.
func (f File) Validate() error {
	var err error
	if f.Depth <= 0 {
		err = multierr.Append(err, fmt.Errorf("depth must be positive, got %g", f.Depth))
	}
	if f.ToMeters <= 0 {
		err = multierr.Append(err, fmt.Errorf("to_meters must be positive, got %g", f.ToMeters))
	}
	if f.OverlapPercent <= 0 || f.OverlapPercent > 100 {
		err = multierr.Append(err, fmt.Errorf("overlap_percent must be in (0, 100], got %g", f.OverlapPercent))
	}
	if f.MaxAngleDiffDegrees != nil && *f.MaxAngleDiffDegrees < 0 {
		err = multierr.Append(err, fmt.Errorf("max_angle_diff_degrees must not be negative, got %g", *f.MaxAngleDiffDegrees))
	}
	if f.ComputeScreenBounds != nil && !*f.ComputeScreenBounds && f.SuppliedScreenBounds.Degenerate() {
		err = multierr.Append(err, fmt.Errorf("screen_bounds (%v) must have non-zero width and height when compute_screen_bounds is false", f.SuppliedScreenBounds))
	}
	if f.Workers < 0 {
		err = multierr.Append(err, fmt.Errorf("workers must not be negative, got %d", f.Workers))
	}
	return err
}

// Calibration converts a resolved File into pipeline options.
func (f File) Calibration() calibration.Config {
	cfg := calibration.DefaultConfig()
	if f.ComputeScreenBounds != nil {
		cfg.ComputeScreenBounds = *f.ComputeScreenBounds
	}
	cfg.SuppliedScreenBounds = f.SuppliedScreenBounds
	if f.UseFieldAngles != nil {
		cfg.UseFieldAngles = *f.UseFieldAngles
	}
	if f.ToMeters != 0 {
		cfg.ToMeters = f.ToMeters
	}
	if f.Depth != 0 {
		cfg.Depth = f.Depth
	}
	if f.OverlapPercent != 0 {
		cfg.OverlapPercent = f.OverlapPercent
	}
	cfg.VerifyAngles = f.VerifyAngles
	if f.AxisTransform != nil {
		cfg.XX, cfg.XY, cfg.YX, cfg.YY = f.AxisTransform[0], f.AxisTransform[1], f.AxisTransform[2], f.AxisTransform[3]
	}
	if f.MaxAngleDiffDegrees != nil {
		cfg.MaxAngleDiffDegrees = *f.MaxAngleDiffDegrees
	}
	cfg.Verbose = f.Verbose
	cfg.Workers = f.Workers
	return cfg
}

func boolPtr(b bool) *bool { return &b }
