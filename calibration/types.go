package calibration

import (
	"fmt"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
)

// Point2d is a 2D coordinate, used for both raw and normalized screen positions.
type Point2d = r2.Point

// Point3d is an eye-space coordinate: eye at the origin, looking along -z.
type Point3d = r3.Vector

// LongLat is an angle pair in degrees. Depending on Config.UseFieldAngles it
// holds field angles or spherical longitude/latitude.
type LongLat struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// DataOrigin tracks where a measurement (or something derived from it) came from.
type DataOrigin struct {
	Source string
	Line   int
}

// Known reports whether the origin has a source. The zero value is unknown.
func (o DataOrigin) Known() bool {
	return o.Source != ""
}

func (o DataOrigin) String() string {
	if !o.Known() {
		return "(unknown)"
	}
	return fmt.Sprintf("%s:%d", o.Source, o.Line)
}

// InputMeasurement is one raw sample as loaded by a measurement parser.
type InputMeasurement struct {
	// In arbitrary units
	Screen Point2d
	// In degrees
	ViewAnglesDegrees LongLat
	Line              int
}

// InputMeasurements is the immutable collection of samples from one source.
type InputMeasurements struct {
	Source       string
	Measurements []InputMeasurement
}

func (m InputMeasurements) Len() int    { return len(m.Measurements) }
func (m InputMeasurements) Empty() bool { return len(m.Measurements) == 0 }

// Origin returns the DataOrigin of the i'th measurement.
func (m InputMeasurements) Origin(i int) DataOrigin {
	return DataOrigin{Source: m.Source, Line: m.Measurements[i].Line}
}

// NormalizedMeasurement is derived from the InputMeasurement at the same index.
type NormalizedMeasurement struct {
	// Normalized screen units, [0,1] in each dimension.
	Screen Point2d
	// Eye-space point along the measured view direction, at z = -depth.
	PointFromView Point3d
	// Original view angles, kept for verification.
	ViewAnglesDegrees LongLat
	Line              int
}

// NormalizedMeasurements is index-aligned with the InputMeasurements it came from.
type NormalizedMeasurements struct {
	Source       string
	Measurements []NormalizedMeasurement
}

func (m NormalizedMeasurements) Len() int    { return len(m.Measurements) }
func (m NormalizedMeasurements) Empty() bool { return len(m.Measurements) == 0 }

func (m NormalizedMeasurements) Origin(i int) DataOrigin {
	return DataOrigin{Source: m.Source, Line: m.Measurements[i].Line}
}

// Plane is the implicit plane Ax + By + Cz + D = 0.
type Plane struct {
	coeffs [4]float64
}

// NewPlane builds a plane from its normal and offset. The normal must be non-zero.
func NewPlane(normal r3.Vector, d float64) (Plane, error) {
	if normal.Norm2() == 0 {
		return Plane{}, &DegenerateGeometryError{Reason: "plane normal has zero length"}
	}
	return Plane{coeffs: [4]float64{normal.X, normal.Y, normal.Z, d}}, nil
}

func (p Plane) A() float64 { return p.coeffs[0] }
func (p Plane) B() float64 { return p.coeffs[1] }
func (p Plane) C() float64 { return p.coeffs[2] }
func (p Plane) D() float64 { return p.coeffs[3] }

// Coeffs returns A, B, C, D in order.
func (p Plane) Coeffs() [4]float64 { return p.coeffs }

func (p Plane) Normal() r3.Vector {
	return r3.Vector{X: p.coeffs[0], Y: p.coeffs[1], Z: p.coeffs[2]}
}

// Evaluate returns Ax + By + Cz + D.
func (p Plane) Evaluate(pt r3.Vector) float64 {
	return p.Normal().Dot(pt) + p.D()
}

func (p Plane) String() string {
	return fmt.Sprintf("%.6gx + %.6gy + %.6gz + %.6g = 0", p.A(), p.B(), p.C(), p.D())
}

// ProjectionDescription is the projection half of the calibration output.
type ProjectionDescription struct {
	HFOVDegrees    float64
	VFOVDegrees    float64
	OverlapPercent float64
	// Center of projection
	COP Point2d
}

// DefaultProjectionDescription has 100% overlap and a centered COP.
func DefaultProjectionDescription() ProjectionDescription {
	return ProjectionDescription{
		OverlapPercent: 100,
		COP:            Point2d{X: 0.5, Y: 0.5},
	}
}

// ScreenDetails holds fitted geometry that only the mesh computation needs.
type ScreenDetails struct {
	ScreenPlane Plane
	// Left-most and right-most points on the screen, in eye space.
	ScreenLeft, ScreenRight Point3d
	// Maximum absolute vertical displacement of points on the screen.
	MaxY float64
}

// MeshDescriptionRow maps a physical-display normalized coordinate to a
// canonical-display normalized coordinate.
type MeshDescriptionRow struct {
	From Point2d
	To   Point2d
}

// MeshDescription rows are in measurement order; renderers index them positionally.
type MeshDescription []MeshDescriptionRow
