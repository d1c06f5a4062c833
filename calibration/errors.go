package calibration

import (
	"fmt"
)

// InsufficientDataError is returned when there are too few distinct
// measurements to establish screen bounds or a plane.
type InsufficientDataError struct {
	Source string
	What   string
	Have   int
	Need   int
}

func (e *InsufficientDataError) Error() string {
	if e.Need > 0 {
		return fmt.Sprintf("%s: insufficient data for %s: have %d distinct measurements, need %d", sourceName(e.Source), e.What, e.Have, e.Need)
	}
	return fmt.Sprintf("%s: insufficient data for %s", sourceName(e.Source), e.What)
}

// InvalidAngleError is returned for an angle pair that can't be turned into a
// finite ray under the configured convention.
type InvalidAngleError struct {
	Origin DataOrigin
	Angles LongLat
	Reason string
}

func (e *InvalidAngleError) Error() string {
	return fmt.Sprintf("%v: invalid view angles (%g, %g): %s", e.Origin, e.Angles.Longitude, e.Angles.Latitude, e.Reason)
}

// DegenerateGeometryError is returned when the measured points don't define
// a usable screen plane.
type DegenerateGeometryError struct {
	Source string
	Reason string
}

func (e *DegenerateGeometryError) Error() string {
	return fmt.Sprintf("%s: degenerate screen geometry: %s", sourceName(e.Source), e.Reason)
}

// DegenerateRayError is returned when a ray can't be projected onto the
// screen plane, usually because it is parallel to it.
type DegenerateRayError struct {
	Origin DataOrigin
	Ray    Point3d
	Reason string
}

func (e *DegenerateRayError) Error() string {
	return fmt.Sprintf("%v: ray (%.4g, %.4g, %.4g) %s", e.Origin, e.Ray.X, e.Ray.Y, e.Ray.Z, e.Reason)
}

// ToleranceExceededViolation reports a measurement whose measured angles
// disagree with the fitted geometry. It is data, not an error.
type ToleranceExceededViolation struct {
	Origin    DataOrigin
	Measured  LongLat
	Predicted LongLat
	// Absolute per-axis deviation in degrees.
	Deviation LongLat
}

func (v ToleranceExceededViolation) String() string {
	return fmt.Sprintf("%v: measured (%.3f, %.3f), predicted (%.3f, %.3f), off by (%.3f, %.3f) degrees",
		v.Origin,
		v.Measured.Longitude, v.Measured.Latitude,
		v.Predicted.Longitude, v.Predicted.Latitude,
		v.Deviation.Longitude, v.Deviation.Latitude)
}

// BoundsWarning reports a measurement whose screen position falls outside
// the supplied screen bounds.
type BoundsWarning struct {
	Origin DataOrigin
	Screen Point2d
	Bounds RectBounds
}

func (w BoundsWarning) String() string {
	return fmt.Sprintf("%v: screen position (%g, %g) outside bounds %v", w.Origin, w.Screen.X, w.Screen.Y, w.Bounds.XYBounds())
}

func sourceName(s string) string {
	if s == "" {
		return "(unknown)"
	}
	return s
}
