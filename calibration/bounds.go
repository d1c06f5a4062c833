package calibration

import (
	"cmp"
	"fmt"
)

type interval[T cmp.Ordered] struct {
	min, max T
}

// InclusiveBounds is an optional closed interval. The zero value is unbounded:
// Contains always succeeds and Outside always fails.
type InclusiveBounds[T cmp.Ordered] struct {
	iv *interval[T]
}

// NewInclusiveBounds returns [a, b], swapping the ends if they are reversed.
func NewInclusiveBounds[T cmp.Ordered](a, b T) InclusiveBounds[T] {
	if b < a {
		a, b = b, a
	}
	return InclusiveBounds[T]{iv: &interval[T]{min: a, max: b}}
}

// Bounded reports whether the interval is set.
func (b InclusiveBounds[T]) Bounded() bool { return b.iv != nil }

func (b InclusiveBounds[T]) Contains(v T) bool {
	return b.iv == nil || (v >= b.iv.min && v <= b.iv.max)
}

func (b InclusiveBounds[T]) Outside(v T) bool {
	return b.iv != nil && (v < b.iv.min || v > b.iv.max)
}

// Min and Max return the ends of the interval; ok is false when unbounded.
func (b InclusiveBounds[T]) Min() (v T, ok bool) {
	if b.iv == nil {
		return v, false
	}
	return b.iv.min, true
}

func (b InclusiveBounds[T]) Max() (v T, ok bool) {
	if b.iv == nil {
		return v, false
	}
	return b.iv.max, true
}

func (b InclusiveBounds[T]) String() string {
	if b.iv == nil {
		return "[unbounded]"
	}
	return fmt.Sprintf("[%v, %v]", b.iv.min, b.iv.max)
}

// XYInclusiveBounds bounds each axis independently.
type XYInclusiveBounds[T cmp.Ordered] struct {
	X InclusiveBounds[T]
	Y InclusiveBounds[T]
}

// Bounded reports whether either axis is bounded.
func (b XYInclusiveBounds[T]) Bounded() bool {
	return b.X.Bounded() || b.Y.Bounded()
}

func (b XYInclusiveBounds[T]) Contains(x, y T) bool {
	return b.X.Contains(x) && b.Y.Contains(y)
}

func (b XYInclusiveBounds[T]) String() string {
	if !b.Bounded() {
		return "unbounded"
	}
	s := ""
	if b.X.Bounded() {
		s += "x: " + b.X.String()
	}
	if b.X.Bounded() && b.Y.Bounded() {
		s += ", "
	}
	if b.Y.Bounded() {
		s += "y: " + b.Y.String()
	}
	return s
}

// RectBounds is a screen rectangle in raw measurement units.
type RectBounds struct {
	Left   float64 `yaml:"left"`
	Right  float64 `yaml:"right"`
	Top    float64 `yaml:"top"`
	Bottom float64 `yaml:"bottom"`
}

// ReflectedHorizontally mirrors the bounds about x = 0, used to carry bounds
// fitted for one eye over to the other.
func (r RectBounds) ReflectedHorizontally() RectBounds {
	return RectBounds{Left: -r.Right, Right: -r.Left, Top: r.Top, Bottom: r.Bottom}
}

func (r RectBounds) Width() float64  { return r.Right - r.Left }
func (r RectBounds) Height() float64 { return r.Top - r.Bottom }

// Degenerate reports whether the rectangle has zero extent on either axis.
func (r RectBounds) Degenerate() bool {
	return r.Width() == 0 || r.Height() == 0
}

// XYBounds converts to per-axis inclusive bounds for containment checks.
func (r RectBounds) XYBounds() XYInclusiveBounds[float64] {
	return XYInclusiveBounds[float64]{
		X: NewInclusiveBounds(r.Left, r.Right),
		Y: NewInclusiveBounds(r.Bottom, r.Top),
	}
}

func (r RectBounds) String() string {
	return fmt.Sprintf("left %g, right %g, top %g, bottom %g", r.Left, r.Right, r.Top, r.Bottom)
}
