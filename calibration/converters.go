package calibration

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// FormatMatrixPrint is used for verbose diagnostics.
func FormatMatrixPrint(matrix mat.Matrix) fmt.Formatter {
	return mat.Formatted(matrix, mat.Prefix("    "), mat.Squeeze())
}

func roundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

func Degrees2Rad(deg float64) float64 {
	return deg * math.Pi / 180
}

// Rad2Degrees rounds to 10 decimals so reported angles don't carry noise.
func Rad2Degrees(rad float64) float64 {
	res := rad * 180 / math.Pi
	return roundFloat(res, 10)
}

// validAngle reports whether a is strictly inside (-90, 90) degrees.
func validAngle(a float64) bool {
	return !math.IsNaN(a) && math.Abs(a) < 90
}

// AnglesToRay turns a view angle pair into an eye-space point whose z is
// -depth. Positive longitude looks toward +x, positive latitude toward +y.
func AnglesToRay(angles LongLat, useFieldAngles bool, depth float64) (r3.Vector, error) {
	if !validAngle(angles.Longitude) || !validAngle(angles.Latitude) {
		return r3.Vector{}, &InvalidAngleError{Angles: angles, Reason: "each angle must be within (-90, 90) degrees"}
	}
	long := Degrees2Rad(angles.Longitude)
	lat := Degrees2Rad(angles.Latitude)

	var dir r3.Vector
	if useFieldAngles {
		dir = r3.Vector{X: math.Tan(long), Y: math.Tan(lat), Z: -1}
	} else {
		dir = r3.Vector{
			X: math.Sin(long) * math.Cos(lat),
			Y: math.Sin(lat),
			Z: -math.Cos(long) * math.Cos(lat),
		}
	}
	// Scale so that the depth coordinate lands at -depth.
	return dir.Mul(depth / -dir.Z), nil
}

// RayToAngles is the inverse of AnglesToRay for any point in front of the eye.
func RayToAngles(p r3.Vector, useFieldAngles bool) LongLat {
	if useFieldAngles {
		return LongLat{
			Longitude: Rad2Degrees(math.Atan2(p.X, -p.Z)),
			Latitude:  Rad2Degrees(math.Atan2(p.Y, -p.Z)),
		}
	}
	return LongLat{
		Longitude: Rad2Degrees(math.Atan2(p.X, -p.Z)),
		Latitude:  Rad2Degrees(math.Atan2(p.Y, math.Hypot(p.X, p.Z))),
	}
}

// SubtendedDegrees is the angle at the eye between two eye-space points.
func SubtendedDegrees(a, b r3.Vector) float64 {
	return roundFloat(a.Angle(b).Degrees(), 10)
}
