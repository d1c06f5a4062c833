package calibration

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const epsilon = 1e-9

// centeredScreen is a 90 x 60 degree screen, 2m from the eye, on a 5 x 5 grid.
func centeredScreen() SyntheticScreen {
	return NewSyntheticScreen(90, 60, 2)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Workers = 4
	return cfg
}

func mustNormalize(t *testing.T, in InputMeasurements, cfg Config) NormalizedMeasurements {
	t.Helper()
	nm, warnings, err := NormalizeMeasurements(in, cfg)
	require.NoError(t, err)
	require.Empty(t, warnings)
	return nm
}

func mustFit(t *testing.T, nm NormalizedMeasurements, cfg Config) (ProjectionDescription, ScreenDetails) {
	t.Helper()
	desc, details, err := FitScreen(nm, cfg)
	require.NoError(t, err)
	return desc, details
}

// diagonalScreen has well-spread view angles but screen positions on a line.
func diagonalScreen() InputMeasurements {
	in := InputMeasurements{Source: "diagonal"}
	for i, a := range []LongLat{
		{Longitude: -10, Latitude: -10},
		{Longitude: 10, Latitude: -10},
		{Longitude: 10, Latitude: 10},
		{Longitude: -10, Latitude: 10},
	} {
		in.Measurements = append(in.Measurements, InputMeasurement{
			Screen:            Point2d{X: float64(i), Y: float64(i)},
			ViewAnglesDegrees: a,
			Line:              i + 1,
		})
	}
	return in
}
