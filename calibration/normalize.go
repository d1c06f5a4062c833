package calibration

// ScreenMapping maps raw screen coordinates onto [0,1]² using a bounds rectangle.
// Left maps to x = 0 and Bottom maps to y = 0.
type ScreenMapping struct {
	Bounds RectBounds
}

func (s ScreenMapping) Normalize(p Point2d) Point2d {
	return Point2d{
		X: (p.X - s.Bounds.Left) / s.Bounds.Width(),
		Y: (p.Y - s.Bounds.Bottom) / s.Bounds.Height(),
	}
}

// Denormalize is the inverse of Normalize.
func (s ScreenMapping) Denormalize(p Point2d) Point2d {
	return Point2d{
		X: s.Bounds.Left + p.X*s.Bounds.Width(),
		Y: s.Bounds.Bottom + p.Y*s.Bounds.Height(),
	}
}

// ComputeScreenBounds returns the smallest rectangle containing every
// measured screen position.
func ComputeScreenBounds(in InputMeasurements) (RectBounds, error) {
	distinct := make(map[Point2d]struct{}, in.Len())
	for _, m := range in.Measurements {
		distinct[m.Screen] = struct{}{}
	}
	if len(distinct) < 2 {
		return RectBounds{}, &InsufficientDataError{Source: in.Source, What: "screen bounds", Have: len(distinct), Need: 2}
	}

	first := in.Measurements[0].Screen
	b := RectBounds{Left: first.X, Right: first.X, Bottom: first.Y, Top: first.Y}
	for _, m := range in.Measurements[1:] {
		b.Left = min(b.Left, m.Screen.X)
		b.Right = max(b.Right, m.Screen.X)
		b.Bottom = min(b.Bottom, m.Screen.Y)
		b.Top = max(b.Top, m.Screen.Y)
	}
	if b.Degenerate() {
		return RectBounds{}, &InsufficientDataError{Source: in.Source, What: "screen bounds with non-zero width and height"}
	}
	return b, nil
}

// ScreenBounds picks computed or supplied bounds according to cfg.
func ScreenBounds(in InputMeasurements, cfg Config) (RectBounds, error) {
	if cfg.ComputeScreenBounds {
		return ComputeScreenBounds(in)
	}
	if cfg.SuppliedScreenBounds.Degenerate() {
		return RectBounds{}, &InsufficientDataError{Source: in.Source, What: "supplied screen bounds with non-zero width and height"}
	}
	return cfg.SuppliedScreenBounds, nil
}

// NormalizeMeasurements converts raw samples into normalized screen
// coordinates and eye-space points. The output is index-aligned with in.
// Screen positions outside supplied bounds are reported as warnings.
func NormalizeMeasurements(in InputMeasurements, cfg Config) (NormalizedMeasurements, []BoundsWarning, error) {
	bounds, err := ScreenBounds(in, cfg)
	if err != nil {
		return NormalizedMeasurements{}, nil, err
	}
	mapping := ScreenMapping{Bounds: bounds}

	var warnings []BoundsWarning
	if !cfg.ComputeScreenBounds {
		xy := bounds.XYBounds()
		for i, m := range in.Measurements {
			if !xy.Contains(m.Screen.X, m.Screen.Y) {
				warnings = append(warnings, BoundsWarning{Origin: in.Origin(i), Screen: m.Screen, Bounds: bounds})
			}
		}
	}

	out := NormalizedMeasurements{
		Source:       in.Source,
		Measurements: make([]NormalizedMeasurement, in.Len()),
	}
	depth := cfg.eyeDepth()
	err = forEachOrdered(in.Len(), cfg.workers(), func(i int) error {
		m := in.Measurements[i]
		pt, err := AnglesToRay(m.ViewAnglesDegrees, cfg.UseFieldAngles, depth)
		if err != nil {
			return withOrigin(err, in.Origin(i))
		}
		out.Measurements[i] = NormalizedMeasurement{
			Screen:            mapping.Normalize(m.Screen),
			PointFromView:     pt,
			ViewAnglesDegrees: m.ViewAnglesDegrees,
			Line:              m.Line,
		}
		return nil
	})
	if err != nil {
		return NormalizedMeasurements{}, nil, err
	}
	return out, warnings, nil
}
