package calibration

// ProjectMesh builds one mesh row per measurement, in measurement order. Each
// row maps the measurement's physical normalized screen position to where its
// view ray meets the fitted screen, relative to the screen extremes.
func ProjectMesh(nm NormalizedMeasurements, details ScreenDetails, cfg Config) (MeshDescription, error) {
	geom, err := newScreenGeometry(details, nm.Source)
	if err != nil {
		return nil, err
	}

	mesh := make(MeshDescription, nm.Len())
	err = forEachOrdered(nm.Len(), cfg.workers(), func(i int) error {
		m := nm.Measurements[i]
		hit, err := ProjectOntoPlane(m.PointFromView, details.ScreenPlane)
		if err != nil {
			return withOrigin(err, nm.Origin(i))
		}
		mesh[i] = MeshDescriptionRow{From: m.Screen, To: geom.canonical(hit)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mesh, nil
}
