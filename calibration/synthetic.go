package calibration

import (
	"math"

	"github.com/golang/geo/r3"
)

// SyntheticScreen is an ideal flat display, facing the eye, used to generate
// measurement sets with known geometry.
type SyntheticScreen struct {
	Source string
	// Distance from the eye, and half extents of the screen, in meters.
	Depth                 float64
	HalfWidth, HalfHeight float64
	// Displacement of the screen center from the straight-ahead axis.
	OffsetX, OffsetY float64
	// Measurement grid.
	Columns, Rows int
	// Raw screen extent, e.g. pixels.
	PixelWidth, PixelHeight float64
	UseFieldAngles          bool
}

// NewSyntheticScreen centers a screen with the given field of view on the
// straight-ahead axis.
func NewSyntheticScreen(hFOVDegrees, vFOVDegrees, depth float64) SyntheticScreen {
	return SyntheticScreen{
		Source:         "synthetic",
		Depth:          depth,
		HalfWidth:      depth * math.Tan(Degrees2Rad(hFOVDegrees)/2),
		HalfHeight:     depth * math.Tan(Degrees2Rad(vFOVDegrees)/2),
		Columns:        5,
		Rows:           5,
		PixelWidth:     1920,
		PixelHeight:    1080,
		UseFieldAngles: true,
	}
}

// Point returns the eye-space point for grid cell (col, row). Column 0 is
// the left edge and row 0 the bottom edge.
func (s SyntheticScreen) Point(col, row int) r3.Vector {
	return r3.Vector{
		X: s.OffsetX - s.HalfWidth + float64(col)*2*s.HalfWidth/float64(s.Columns-1),
		Y: s.OffsetY - s.HalfHeight + float64(row)*2*s.HalfHeight/float64(s.Rows-1),
		Z: -s.Depth,
	}
}

// Measurements samples the screen on its grid, row by row from the bottom.
// Line numbers start at 1.
func (s SyntheticScreen) Measurements() InputMeasurements {
	out := InputMeasurements{Source: s.Source}
	for row := 0; row < s.Rows; row++ {
		for col := 0; col < s.Columns; col++ {
			out.Measurements = append(out.Measurements, InputMeasurement{
				Screen: Point2d{
					X: float64(col) * s.PixelWidth / float64(s.Columns-1),
					Y: float64(row) * s.PixelHeight / float64(s.Rows-1),
				},
				ViewAnglesDegrees: RayToAngles(s.Point(col, row), s.UseFieldAngles),
				Line:              len(out.Measurements) + 1,
			})
		}
	}
	return out
}
