package calibration

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// The affine screen model has three parameters per axis, so it only
// over-determines the plane positions with at least four measurements.
const minVerifyMeasurements = 4

// VerifyAngles checks the measured angles against the fitted geometry.
//
// The physical display is modeled as an affine map from normalized screen
// position to position within the fitted plane. The model is fitted by least
// squares, the angle toward each predicted plane point is computed under the
// configured convention and cross-axis transform, and the measurement with
// the largest per-axis deviation is rejected if it exceeds
// cfg.MaxAngleDiffDegrees. The model is then refitted without it, until every
// remaining measurement is within tolerance. Only rejected measurements are
// returned, in measurement order.
//
// The error is for geometry that can't be evaluated at all, or for rejection
// leaving fewer than four measurements to refit with. Measurements rejected
// before the error are still returned with it.
func VerifyAngles(nm NormalizedMeasurements, plane Plane, cfg Config) ([]ToleranceExceededViolation, error) {
	n := nm.Len()
	if n < minVerifyMeasurements {
		return nil, &InsufficientDataError{Source: nm.Source, What: "angle verification", Have: n, Need: minVerifyMeasurements}
	}
	frame, ok := newPlaneFrame(plane)
	if !ok {
		return nil, &DegenerateGeometryError{Source: nm.Source, Reason: "screen plane is parallel to the horizontal axis"}
	}

	inPlane := make([]Point2d, n)
	for i, m := range nm.Measurements {
		hit, err := ProjectOntoPlane(m.PointFromView, plane)
		if err != nil {
			return nil, withOrigin(err, nm.Origin(i))
		}
		inPlane[i] = frame.local(hit)
	}

	tolerance := NewInclusiveBounds(-cfg.MaxAngleDiffDegrees, cfg.MaxAngleDiffDegrees)
	active := make([]int, n)
	for i := range active {
		active[i] = i
	}

	var rejected []int
	violations := make(map[int]ToleranceExceededViolation)
	for {
		if len(active) < minVerifyMeasurements {
			return sortedViolations(rejected, violations), &InsufficientDataError{
				Source: nm.Source,
				What:   "angle verification after rejecting out-of-tolerance measurements",
				Have:   len(active),
				Need:   minVerifyMeasurements,
			}
		}
		model, err := fitScreenModel(nm, inPlane, active)
		if err != nil {
			return sortedViolations(rejected, violations), err
		}

		worst, worstDev := -1, 0.0
		var worstViolation ToleranceExceededViolation
		for _, i := range active {
			m := nm.Measurements[i]
			p := frame.at(model.predict(m.Screen))
			angles := cfg.crossAxis(RayToAngles(p, cfg.UseFieldAngles))

			dLong := angles.Longitude - m.ViewAnglesDegrees.Longitude
			dLat := angles.Latitude - m.ViewAnglesDegrees.Latitude
			if !tolerance.Outside(dLong) && !tolerance.Outside(dLat) {
				continue
			}
			if dev := max(math.Abs(dLong), math.Abs(dLat)); dev > worstDev {
				worst, worstDev = i, dev
				worstViolation = ToleranceExceededViolation{
					Origin:    nm.Origin(i),
					Measured:  m.ViewAnglesDegrees,
					Predicted: angles,
					Deviation: LongLat{Longitude: math.Abs(dLong), Latitude: math.Abs(dLat)},
				}
			}
		}
		if worst < 0 {
			break
		}

		rejected = append(rejected, worst)
		violations[worst] = worstViolation
		active = removeIndex(active, worst)
	}

	return sortedViolations(rejected, violations), nil
}

func sortedViolations(rejected []int, byIndex map[int]ToleranceExceededViolation) []ToleranceExceededViolation {
	if len(rejected) == 0 {
		return nil
	}
	sort.Ints(rejected)
	out := make([]ToleranceExceededViolation, len(rejected))
	for k, i := range rejected {
		out[k] = byIndex[i]
	}
	return out
}

// screenModel maps a normalized screen position to plane-local (u, v).
type screenModel struct {
	coeffs *mat.Dense // 3 x 2: rows sx, sy, 1
}

func (s screenModel) predict(p Point2d) (u, v float64) {
	u = s.coeffs.At(0, 0)*p.X + s.coeffs.At(1, 0)*p.Y + s.coeffs.At(2, 0)
	v = s.coeffs.At(0, 1)*p.X + s.coeffs.At(1, 1)*p.Y + s.coeffs.At(2, 1)
	return u, v
}

func fitScreenModel(nm NormalizedMeasurements, inPlane []Point2d, active []int) (screenModel, error) {
	screen := mat.NewDense(len(active), 3, nil)
	target := mat.NewDense(len(active), 2, nil)
	for row, i := range active {
		s := nm.Measurements[i].Screen
		screen.SetRow(row, []float64{s.X, s.Y, 1})
		target.SetRow(row, []float64{inPlane[i].X, inPlane[i].Y})
	}

	var coeffs mat.Dense
	if err := coeffs.Solve(screen, target); err != nil {
		return screenModel{}, &DegenerateGeometryError{Source: nm.Source, Reason: "screen positions don't span the display: " + err.Error()}
	}
	return screenModel{coeffs: &coeffs}, nil
}

func removeIndex(active []int, idx int) []int {
	out := active[:0]
	for _, i := range active {
		if i != idx {
			out = append(out, i)
		}
	}
	return out
}

func (c Config) crossAxis(a LongLat) LongLat {
	return LongLat{
		Longitude: c.XX*a.Longitude + c.XY*a.Latitude,
		Latitude:  c.YX*a.Longitude + c.YY*a.Latitude,
	}
}
