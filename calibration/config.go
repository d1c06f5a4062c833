package calibration

// Config controls how measurements are interpreted. It is read-only for the
// duration of a run and may be shared between goroutines.
type Config struct {
	// Derive screen bounds from the measurements instead of SuppliedScreenBounds.
	ComputeScreenBounds  bool
	SuppliedScreenBounds RectBounds

	// Field angles if true, longitude/latitude otherwise.
	UseFieldAngles bool
	// Scale from input linear units to meters.
	ToMeters float64
	// Assumed distance from the eye to the screen, in input units.
	Depth float64

	// Overlap between the two eyes' frusta, passed through to the projection.
	OverlapPercent float64

	VerifyAngles bool
	// Cross-axis transform applied to predicted angles before comparison:
	// lon' = XX*lon + XY*lat, lat' = YX*lon + YY*lat
	XX, XY, YX, YY      float64
	MaxAngleDiffDegrees float64

	Verbose bool
	// Goroutines used for per-measurement stages. Zero means runtime.NumCPU.
	Workers int
}

func DefaultConfig() Config {
	return Config{
		ComputeScreenBounds: true,
		UseFieldAngles:      true,
		ToMeters:            1,
		Depth:               2,
		OverlapPercent:      100,
		XX:                  1,
		YY:                  1,
		MaxAngleDiffDegrees: 1,
	}
}

// eyeDepth is the distance to the screen in meters.
func (c Config) eyeDepth() float64 {
	return c.Depth * c.ToMeters
}
