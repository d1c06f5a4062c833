package calibration

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestPipelineRun(t *testing.T) {
	cfg := testConfig()
	cfg.Verbose = true
	p := NewPipeline(cfg, zaptest.NewLogger(t).Sugar())

	in := centeredScreen().Measurements()
	res, err := p.Run(in)
	require.NoError(t, err)

	assert.InDelta(t, 90.0, res.Projection.HFOVDegrees, epsilon)
	assert.InDelta(t, 60.0, res.Projection.VFOVDegrees, epsilon)
	assert.Len(t, res.Mesh, in.Len())
	assert.Empty(t, res.BoundsWarnings)
	assert.Nil(t, res.Violations)
}

func TestPipelineVerificationDoesNotChangeOutputs(t *testing.T) {
	in := centeredScreen().Measurements()
	in.Measurements[0].ViewAnglesDegrees.Longitude += 5

	cfg := testConfig()
	plain, err := NewPipeline(cfg, nil).Run(in)
	require.NoError(t, err)

	cfg.VerifyAngles = true
	cfg.MaxAngleDiffDegrees = 1
	verified, err := NewPipeline(cfg, zap.NewNop().Sugar()).Run(in)
	require.NoError(t, err)

	assert.Equal(t, plain.Projection, verified.Projection)
	assert.Equal(t, plain.Details, verified.Details)
	assert.Equal(t, plain.Mesh, verified.Mesh)
	require.Len(t, verified.Violations, 1)
	assert.Equal(t, in.Origin(0), verified.Violations[0].Origin)
	assert.NoError(t, verified.VerificationErr)
}

func TestPipelineKeepsMeshWhenVerificationFails(t *testing.T) {
	in := diagonalScreen()
	cfg := testConfig()
	plain, err := NewPipeline(cfg, nil).Run(in)
	require.NoError(t, err)
	require.Len(t, plain.Mesh, in.Len())

	cfg.VerifyAngles = true
	verified, err := NewPipeline(cfg, zap.NewNop().Sugar()).Run(in)
	require.NoError(t, err)
	assert.Equal(t, plain.Projection, verified.Projection)
	assert.Equal(t, plain.Details, verified.Details)
	assert.Equal(t, plain.Mesh, verified.Mesh)

	require.Error(t, verified.VerificationErr)
	assert.Contains(t, verified.VerificationErr.Error(), "verifying angles")
	var geomErr *DegenerateGeometryError
	assert.True(t, errors.As(verified.VerificationErr, &geomErr))
}

func TestPipelineFailsWithoutPartialOutput(t *testing.T) {
	in := centeredScreen().Measurements()
	// Two points still span the screen bounds but can't define a plane.
	in.Measurements = []InputMeasurement{in.Measurements[0], in.Measurements[6]}

	res, err := NewPipeline(testConfig(), nil).Run(in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fitting screen plane")
	var dataErr *InsufficientDataError
	assert.True(t, errors.As(err, &dataErr))
	assert.Equal(t, Result{}, res)
}

func TestPipelineInvalidAngle(t *testing.T) {
	in := centeredScreen().Measurements()
	in.Measurements[20].ViewAnglesDegrees.Longitude = 90

	_, err := (&Pipeline{Config: testConfig()}).Run(in)
	var angleErr *InvalidAngleError
	require.True(t, errors.As(err, &angleErr))
	assert.Equal(t, in.Origin(20), angleErr.Origin)
	assert.Contains(t, err.Error(), "normalizing measurements")
}
