package calibration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMeasurementsAligned(t *testing.T) {
	in := centeredScreen().Measurements()
	nm := mustNormalize(t, in, testConfig())

	require.Equal(t, in.Len(), nm.Len())
	assert.Equal(t, in.Source, nm.Source)
	for i, m := range nm.Measurements {
		assert.Equal(t, in.Origin(i), nm.Origin(i))
		assert.Equal(t, in.Measurements[i].ViewAnglesDegrees, m.ViewAnglesDegrees)
		assert.InDelta(t, -2.0, m.PointFromView.Z, epsilon)
		assert.GreaterOrEqual(t, m.Screen.X, 0.0)
		assert.LessOrEqual(t, m.Screen.X, 1.0)
		assert.GreaterOrEqual(t, m.Screen.Y, 0.0)
		assert.LessOrEqual(t, m.Screen.Y, 1.0)
	}
	// Grid corners.
	assert.Equal(t, Point2d{X: 0, Y: 0}, nm.Measurements[0].Screen)
	assert.Equal(t, Point2d{X: 1, Y: 1}, nm.Measurements[nm.Len()-1].Screen)
}

func TestNormalizeAppliesToMeters(t *testing.T) {
	cfg := testConfig()
	cfg.Depth = 200
	cfg.ToMeters = 0.01
	nm := mustNormalize(t, centeredScreen().Measurements(), cfg)
	for _, m := range nm.Measurements {
		assert.InDelta(t, -2.0, m.PointFromView.Z, epsilon)
	}
}

func TestScreenMappingRoundTrip(t *testing.T) {
	in := centeredScreen().Measurements()
	in.Measurements[3].Screen = Point2d{X: 123.456, Y: 789.012}

	bounds, err := ComputeScreenBounds(in)
	require.NoError(t, err)
	mapping := ScreenMapping{Bounds: bounds}
	for _, m := range in.Measurements {
		back := mapping.Denormalize(mapping.Normalize(m.Screen))
		assert.InDelta(t, m.Screen.X, back.X, epsilon)
		assert.InDelta(t, m.Screen.Y, back.Y, epsilon)
	}
}

func TestComputeScreenBoundsInsufficient(t *testing.T) {
	in := InputMeasurements{
		Source: "one.txt",
		Measurements: []InputMeasurement{
			{Screen: Point2d{X: 10, Y: 10}, Line: 1},
			{Screen: Point2d{X: 10, Y: 10}, Line: 2},
		},
	}
	_, err := ComputeScreenBounds(in)
	var dataErr *InsufficientDataError
	require.ErrorAs(t, err, &dataErr)
	assert.Equal(t, 1, dataErr.Have)
	assert.Equal(t, "one.txt", dataErr.Source)

	// Two distinct points on a vertical line still have no width.
	in.Measurements[1].Screen.Y = 20
	_, err = ComputeScreenBounds(in)
	assert.ErrorAs(t, err, &dataErr)

	_, _, err = NormalizeMeasurements(InputMeasurements{}, testConfig())
	assert.ErrorAs(t, err, &dataErr)
}

func TestNormalizeSuppliedBoundsWarnings(t *testing.T) {
	in := centeredScreen().Measurements()
	in.Measurements[7].Screen.X = 2000

	cfg := testConfig()
	cfg.ComputeScreenBounds = false
	cfg.SuppliedScreenBounds = RectBounds{Left: 0, Right: 1920, Top: 1080, Bottom: 0}

	nm, warnings, err := NormalizeMeasurements(in, cfg)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, in.Origin(7), warnings[0].Origin)
	assert.Equal(t, Point2d{X: 2000, Y: in.Measurements[7].Screen.Y}, warnings[0].Screen)
	assert.InDelta(t, 2000.0/1920, nm.Measurements[7].Screen.X, epsilon)
}

func TestNormalizeDegenerateSuppliedBounds(t *testing.T) {
	cfg := testConfig()
	cfg.ComputeScreenBounds = false
	_, _, err := NormalizeMeasurements(centeredScreen().Measurements(), cfg)
	var dataErr *InsufficientDataError
	assert.ErrorAs(t, err, &dataErr)
}

func TestNormalizeInvalidAngleCarriesOrigin(t *testing.T) {
	in := centeredScreen().Measurements()
	in.Measurements[5].ViewAnglesDegrees.Latitude = 95
	in.Measurements[9].ViewAnglesDegrees.Longitude = -90

	_, _, err := NormalizeMeasurements(in, testConfig())
	var angleErr *InvalidAngleError
	require.ErrorAs(t, err, &angleErr)
	assert.Equal(t, in.Origin(5), angleErr.Origin)
	assert.Contains(t, err.Error(), "synthetic:6")
}
