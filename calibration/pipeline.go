package calibration

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// Result holds everything a run produces. Warnings and violations are
// returned as data and never logged by the pipeline.
type Result struct {
	Projection     ProjectionDescription
	Details        ScreenDetails
	Mesh           MeshDescription
	BoundsWarnings []BoundsWarning
	// Only populated when Config.VerifyAngles is set.
	Violations []ToleranceExceededViolation
	// Set when verification could not complete. It never affects the
	// other fields.
	VerificationErr error
}

// Pipeline runs normalization, screen fitting, mesh projection and optional
// angle verification over one measurement set.
type Pipeline struct {
	Config Config
	Logger *zap.SugaredLogger
}

func NewPipeline(cfg Config, logger *zap.SugaredLogger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Pipeline{Config: cfg, Logger: logger}
}

// Run fails as a whole on any fatal error; no partial mesh is returned.
// Angle verification runs last and only reports: its failures go to
// Result.VerificationErr.
func (p *Pipeline) Run(in InputMeasurements) (Result, error) {
	cfg := p.Config

	normalized, warnings, err := NormalizeMeasurements(in, cfg)
	if err != nil {
		return Result{}, errors.Wrap(err, "normalizing measurements")
	}
	p.debugf("normalized %d measurements from %s", normalized.Len(), sourceName(normalized.Source))

	projection, details, err := FitScreen(normalized, cfg)
	if err != nil {
		return Result{}, errors.Wrap(err, "fitting screen plane")
	}
	if cfg.Verbose {
		coeffs := details.ScreenPlane.Coeffs()
		p.debugf("screen plane (A B C D):\n%v", FormatMatrixPrint(mat.NewDense(1, 4, coeffs[:])))
		p.debugf("screen left %v, right %v, max |y| %g", details.ScreenLeft, details.ScreenRight, details.MaxY)
		p.debugf("hFOV %g, vFOV %g, COP (%g, %g)", projection.HFOVDegrees, projection.VFOVDegrees, projection.COP.X, projection.COP.Y)
	}

	mesh, err := ProjectMesh(normalized, details, cfg)
	if err != nil {
		return Result{}, errors.Wrap(err, "projecting mesh")
	}

	res := Result{
		Projection:     projection,
		Details:        details,
		Mesh:           mesh,
		BoundsWarnings: warnings,
	}
	if cfg.VerifyAngles {
		res.Violations, err = VerifyAngles(normalized, details.ScreenPlane, cfg)
		if err != nil {
			res.VerificationErr = errors.Wrap(err, "verifying angles")
			p.debugf("angle verification incomplete: %v", err)
		}
		p.debugf("angle verification: %d of %d measurements out of tolerance", len(res.Violations), normalized.Len())
	}
	return res, nil
}

func (p *Pipeline) debugf(template string, args ...interface{}) {
	if p.Config.Verbose && p.Logger != nil {
		p.Logger.Debugf(template, args...)
	}
}
