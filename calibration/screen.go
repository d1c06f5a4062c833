package calibration

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

const (
	// Relative threshold on singular values below which the point set is
	// treated as collinear (or the plane as passing through the eye).
	planeEpsilon = 1e-9
	// Relative threshold on |n·r| below which a ray is parallel to the plane.
	rayEpsilon = 1e-12
)

var straightAhead = r3.Vector{Z: -1}

// FitPlane returns the least-squares plane through points, which is the exact
// plane when there are three. The plane is oriented so the eye (origin) is
// on its positive side, i.e. D > 0.
//
// Centered points are stacked into an N x 3 matrix; the right singular vector
// with the smallest singular value is the plane normal.
func FitPlane(points []r3.Vector, source string) (Plane, error) {
	if len(points) < 3 {
		return Plane{}, &InsufficientDataError{Source: source, What: "screen plane", Have: len(points), Need: 3}
	}
	distinct := make(map[r3.Vector]struct{}, len(points))
	var centroid r3.Vector
	for _, p := range points {
		distinct[p] = struct{}{}
		centroid = centroid.Add(p)
	}
	if len(distinct) < 3 {
		return Plane{}, &DegenerateGeometryError{Source: source, Reason: "fewer than 3 distinct points"}
	}
	centroid = centroid.Mul(1 / float64(len(points)))

	A := mat.NewDense(len(points), 3, nil)
	for i, p := range points {
		c := p.Sub(centroid)
		A.SetRow(i, []float64{c.X, c.Y, c.Z})
	}

	var svd mat.SVD
	if ok := svd.Factorize(A, mat.SVDThin); !ok {
		return Plane{}, &DegenerateGeometryError{Source: source, Reason: "failed to factorize point matrix"}
	}
	s := svd.Values(nil)
	if s[1] <= planeEpsilon*s[0] {
		return Plane{}, &DegenerateGeometryError{Source: source, Reason: "points are collinear"}
	}

	var V mat.Dense
	svd.VTo(&V)
	normal := r3.Vector{X: V.At(0, 2), Y: V.At(1, 2), Z: V.At(2, 2)}.Normalize()
	d := -normal.Dot(centroid)

	if math.Abs(d) <= planeEpsilon*centroid.Norm() {
		return Plane{}, &DegenerateGeometryError{Source: source, Reason: "screen plane passes through the eye"}
	}
	if d < 0 {
		normal = normal.Mul(-1)
		d = -d
	}
	return NewPlane(normal, d)
}

// ProjectOntoPlane follows the ray from the eye through p until it meets
// plane: s·p with A·sx + B·sy + C·sz + D = 0, so s = -D / (Ax + By + Cz).
func ProjectOntoPlane(p r3.Vector, plane Plane) (r3.Vector, error) {
	n := plane.Normal()
	denom := n.Dot(p)
	if math.Abs(denom) <= rayEpsilon*n.Norm()*p.Norm() {
		return r3.Vector{}, &DegenerateRayError{Ray: p, Reason: "is parallel to the screen plane"}
	}
	s := -plane.D() / denom
	if s <= 0 {
		return r3.Vector{}, &DegenerateRayError{Ray: p, Reason: "meets the screen plane behind the eye"}
	}
	return p.Mul(s), nil
}

// planeFrame is a 2D coordinate frame in the screen plane. Its origin is the
// foot of the perpendicular from the eye, u follows eye-space +x and v = n × u
// follows eye-space +y.
type planeFrame struct {
	origin r3.Vector
	u, v   r3.Vector
}

func newPlaneFrame(plane Plane) (planeFrame, bool) {
	l := plane.Normal().Norm()
	n := plane.Normal().Mul(1 / l)
	origin := n.Mul(-plane.D() / l)

	x := r3.Vector{X: 1}
	u := x.Sub(n.Mul(x.Dot(n)))
	if u.Norm() <= planeEpsilon {
		return planeFrame{}, false
	}
	u = u.Normalize()
	return planeFrame{origin: origin, u: u, v: n.Cross(u)}, true
}

func (f planeFrame) local(p r3.Vector) r2.Point {
	q := p.Sub(f.origin)
	return r2.Point{X: q.Dot(f.u), Y: q.Dot(f.v)}
}

func (f planeFrame) at(h, v float64) r3.Vector {
	return f.origin.Add(f.u.Mul(h)).Add(f.v.Mul(v))
}

// screenGeometry is ScreenDetails expanded into the plane frame. Both the
// fitter and the mesh projector go through it, so points used to define the
// extremes map to exactly 0 and 1.
type screenGeometry struct {
	details       ScreenDetails
	frame         planeFrame
	uLeft, uRight float64
}

func newScreenGeometry(details ScreenDetails, source string) (screenGeometry, error) {
	frame, ok := newPlaneFrame(details.ScreenPlane)
	if !ok {
		return screenGeometry{}, &DegenerateGeometryError{Source: source, Reason: "screen plane is parallel to the horizontal axis"}
	}
	g := screenGeometry{
		details: details,
		frame:   frame,
		uLeft:   frame.local(details.ScreenLeft).X,
		uRight:  frame.local(details.ScreenRight).X,
	}
	if g.uRight-g.uLeft <= planeEpsilon*math.Abs(details.ScreenPlane.D()) {
		return screenGeometry{}, &DegenerateGeometryError{Source: source, Reason: "screen has no horizontal extent"}
	}
	if details.MaxY <= planeEpsilon*math.Abs(details.ScreenPlane.D()) {
		return screenGeometry{}, &DegenerateGeometryError{Source: source, Reason: "screen has no vertical extent"}
	}
	return g, nil
}

// canonical expresses an in-plane point relative to the screen extremes:
// x is 0 at ScreenLeft and 1 at ScreenRight, y is 0 at -MaxY and 1 at +MaxY.
// Points beyond the extremes fall outside [0,1] and are not clamped.
func (g screenGeometry) canonical(p r3.Vector) Point2d {
	loc := g.frame.local(p)
	return Point2d{
		X: (loc.X - g.uLeft) / (g.uRight - g.uLeft),
		Y: (loc.Y + g.details.MaxY) / (2 * g.details.MaxY),
	}
}

func (g screenGeometry) hFOVDegrees() float64 {
	return SubtendedDegrees(g.frame.at(g.uLeft, 0), g.frame.at(g.uRight, 0))
}

func (g screenGeometry) vFOVDegrees() float64 {
	center := (g.uLeft + g.uRight) / 2
	return SubtendedDegrees(g.frame.at(center, g.details.MaxY), g.frame.at(center, -g.details.MaxY))
}

// FitScreen fits the screen plane to the measurements and derives the
// projection description and the details mesh projection needs.
func FitScreen(nm NormalizedMeasurements, cfg Config) (ProjectionDescription, ScreenDetails, error) {
	points := make([]r3.Vector, nm.Len())
	for i, m := range nm.Measurements {
		points[i] = m.PointFromView
	}
	plane, err := FitPlane(points, nm.Source)
	if err != nil {
		return ProjectionDescription{}, ScreenDetails{}, err
	}
	frame, ok := newPlaneFrame(plane)
	if !ok {
		return ProjectionDescription{}, ScreenDetails{}, &DegenerateGeometryError{Source: nm.Source, Reason: "screen plane is parallel to the horizontal axis"}
	}

	details := ScreenDetails{ScreenPlane: plane}
	uLeft, uRight := math.Inf(1), math.Inf(-1)
	for i, p := range points {
		hit, err := ProjectOntoPlane(p, plane)
		if err != nil {
			return ProjectionDescription{}, ScreenDetails{}, withOrigin(err, nm.Origin(i))
		}
		loc := frame.local(hit)
		if loc.X < uLeft {
			uLeft = loc.X
			details.ScreenLeft = hit
		}
		if loc.X > uRight {
			uRight = loc.X
			details.ScreenRight = hit
		}
		details.MaxY = max(details.MaxY, math.Abs(loc.Y))
	}

	geom, err := newScreenGeometry(details, nm.Source)
	if err != nil {
		return ProjectionDescription{}, ScreenDetails{}, err
	}

	ahead, err := ProjectOntoPlane(straightAhead, plane)
	if err != nil {
		return ProjectionDescription{}, ScreenDetails{}, &DegenerateGeometryError{Source: nm.Source, Reason: "straight-ahead ray does not meet the screen plane"}
	}

	desc := ProjectionDescription{
		HFOVDegrees:    geom.hFOVDegrees(),
		VFOVDegrees:    geom.vFOVDegrees(),
		OverlapPercent: cfg.OverlapPercent,
		COP:            geom.canonical(ahead),
	}
	if desc.OverlapPercent == 0 {
		desc.OverlapPercent = DefaultProjectionDescription().OverlapPercent
	}
	return desc, details, nil
}

func withOrigin(err error, origin DataOrigin) error {
	switch e := err.(type) {
	case *DegenerateRayError:
		e.Origin = origin
	case *InvalidAngleError:
		e.Origin = origin
	}
	return err
}
