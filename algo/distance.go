package algo

import (
	"fmt"
	"math"

	"github.com/brauliopinto/optimaps-indoor-positioning/model"
	"github.com/brauliopinto/optimaps-indoor-positioning/utils"
)

// ComputeDistances calculates, for every surveyed point, the 3D Euclidean
// distance to each access point the point declares a channel for:
//
//	d = sqrt((px-apx)² + (py-apy)² + H²)
//
// H is the vertical separation between the survey plane and the AP plane.
// Distances are rounded to 2 decimal places. A channel whose access point is
// missing from the registry yields an undefined Distance for that cell only;
// the rest of the batch is unaffected. Access points nobody measured are
// skipped entirely (the key set of each mapping equals that point's channel
// set). The result preserves input order and the inputs are never mutated.
func ComputeDistances(points []model.Point, aps map[string]model.AccessPoint, heightOffset float64) ([]model.DistanceMapping, error) {
	if !utils.IsFinite(heightOffset) || heightOffset < 0 {
		return nil, fmt.Errorf("height offset must be a finite number >= 0, got %v", heightOffset)
	}
	for id, ap := range aps {
		if id == "" {
			return nil, fmt.Errorf("access point with empty identifier")
		}
		if !utils.IsFinite(ap.X) || !utils.IsFinite(ap.Y) {
			return nil, fmt.Errorf("access point %s: coordinates must be finite, got (%v, %v)", id, ap.X, ap.Y)
		}
	}

	mappings := make([]model.DistanceMapping, 0, len(points))
	for i, p := range points {
		if !utils.IsFinite(p.X) || !utils.IsFinite(p.Y) {
			return nil, fmt.Errorf("point %d (label %q): coordinates must be finite, got (%v, %v)", i, p.Label, p.X, p.Y)
		}

		distances := make(map[string]model.Distance, len(p.Channels))
		for _, ch := range p.Channels {
			if ch == "" {
				return nil, fmt.Errorf("point %d (label %q): empty channel identifier", i, p.Label)
			}
			ap, ok := aps[ch]
			if !ok {
				// Coordinates unknown: a data-completeness gap, not an error.
				distances[ch] = model.Distance{}
				continue
			}
			dx := p.X - ap.X
			dy := p.Y - ap.Y
			d := math.Sqrt(dx*dx + dy*dy + heightOffset*heightOffset)
			distances[ch] = model.Distance{Meters: utils.Round2(d), Valid: true}
		}

		mappings = append(mappings, model.DistanceMapping{
			Label:     p.Label,
			Device:    p.Device,
			X:         p.X,
			Y:         p.Y,
			Distances: distances,
		})
	}

	return mappings, nil
}
